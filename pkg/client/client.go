// Package client is the HTTP adapter the board view state syncs through. It
// implements board.SyncAdapter against the REST routes and translates error
// payloads back into coded errors.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/funil-crm/funil/pkg/apperror"
	"github.com/funil-crm/funil/pkg/board"
	"github.com/funil-crm/funil/pkg/idwrap"
)

const defaultTimeout = 10 * time.Second

var _ board.SyncAdapter = (*Client)(nil)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return apperror.New(codeForStatus(resp.StatusCode), eb.Error)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func codeForStatus(status int) apperror.Code {
	switch status {
	case http.StatusBadRequest:
		return apperror.CodeValidation
	case http.StatusUnauthorized:
		return apperror.CodeUnauthorized
	case http.StatusNotFound:
		return apperror.CodeNotFound
	case http.StatusConflict:
		return apperror.CodeDuplicate
	default:
		return apperror.CodeUnexpected
	}
}

type reorderRequest struct {
	StageID  string `json:"stageId"`
	NewIndex int    `json:"newIndex"`
}

// ReorderStages issues the stage move for one pipeline.
func (c *Client) ReorderStages(ctx context.Context, pipelineID, stageID idwrap.IDWrap, newIndex int) error {
	path := fmt.Sprintf("/api/pipelines/%s/stages/reorder", pipelineID.String())
	return c.do(ctx, http.MethodPost, path, reorderRequest{
		StageID:  stageID.String(),
		NewIndex: newIndex,
	}, nil)
}

type moveDealRequest struct {
	StageID string `json:"stageId"`
}

// MoveDeal drops a deal onto another stage.
func (c *Client) MoveDeal(ctx context.Context, dealID, stageID idwrap.IDWrap) error {
	path := fmt.Sprintf("/api/deals/%s/move", dealID.String())
	return c.do(ctx, http.MethodPost, path, moveDealRequest{StageID: stageID.String()}, nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token and stores it on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}
