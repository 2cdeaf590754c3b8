package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/apperror"
	"github.com/funil-crm/funil/pkg/board"
	"github.com/funil-crm/funil/pkg/dragdrop"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mpipeline"
)

func TestReorderStages(t *testing.T) {
	pipelineID := idwrap.NewNow()
	stageID := idwrap.NewNow()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/pipelines/"+pipelineID.String()+"/stages/reorder", r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))

		var body struct {
			StageID  string `json:"stageId"`
			NewIndex int    `json:"newIndex"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, stageID.String(), body.StageID)
		assert.Equal(t, 2, body.NewIndex)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tkn"))
	err := c.ReorderStages(context.Background(), pipelineID, stageID, 2)
	require.NoError(t, err)
}

func TestErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Estágio não encontrado"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.MoveDeal(context.Background(), idwrap.NewNow(), idwrap.NewNow())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	assert.Equal(t, "Estágio não encontrado", err.Error())
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token":"abc123"}`))
			return
		}
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Login(context.Background(), "ana@funil.dev", "s3nh4"))
	require.NoError(t, c.MoveDeal(context.Background(), idwrap.NewNow(), idwrap.NewNow()))
}

func TestBoardSyncsThroughClient(t *testing.T) {
	pipelineID := idwrap.NewNow()
	columns := make([]board.Column, 3)
	for i := range columns {
		columns[i] = board.Column{Stage: mpipeline.Stage{ID: idwrap.NewNow(), PipelineID: pipelineID, Order: i}}
	}
	stageID := columns[0].Stage.ID

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/pipelines/"+pipelineID.String()+"/stages/reorder", r.URL.Path)
		if calls > 1 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Estágio não encontrado"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	b := board.New(pipelineID, columns, New(srv.URL), nil, nil)

	require.NoError(t, b.HandleStageDrag(context.Background(), dragdrop.Reorder{
		ItemID: stageID, FromIndex: 0, ToIndex: 2,
	}))
	want := []idwrap.IDWrap{columns[1].Stage.ID, columns[2].Stage.ID, stageID}
	assert.Equal(t, want, b.StageIDs())

	// Second move hits a stale stage; the optimistic order must come back.
	err := b.HandleStageDrag(context.Background(), dragdrop.Reorder{
		ItemID: stageID, FromIndex: 2, ToIndex: 0,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	assert.Equal(t, want, b.StageIDs())
}
