//nolint:revive // exported
package rstream

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/funil-crm/funil/internal/api"
)

// writeTimeout bounds one websocket write; a stalled client loses its
// subscription instead of stalling the fan-out.
const writeTimeout = 5 * time.Second

type StreamRPC struct {
	stream api.Streamer
	log    *slog.Logger
}

func New(stream api.Streamer, log *slog.Logger) *StreamRPC {
	return &StreamRPC{stream: stream, log: log}
}

func (h *StreamRPC) Services(auth api.Middleware) []api.Service {
	return []api.Service{
		{Path: "GET /api/stream", Handler: auth(http.HandlerFunc(h.Stream))},
	}
}

// Stream upgrades to a websocket and forwards entity change events as JSON
// frames. The optional entities query parameter narrows the subscription,
// e.g. ?entities=deal,stage.
func (h *StreamRPC) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// CORS runs upstream on the shared mux.
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	var filter func(api.ChangeTopic) bool
	if raw := r.URL.Query().Get("entities"); raw != "" {
		wanted := make(map[string]struct{})
		for _, entity := range strings.Split(raw, ",") {
			wanted[strings.TrimSpace(entity)] = struct{}{}
		}
		filter = func(topic api.ChangeTopic) bool {
			_, ok := wanted[topic.Entity]
			return ok
		}
	}

	ctx := r.Context()
	events, err := h.stream.Subscribe(ctx, filter)
	if err != nil {
		conn.Close(websocket.StatusTryAgainLater, "stream shutting down")
		return
	}

	// Reads only matter for close/ping handling.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for event := range events {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(writeCtx, conn, event.Payload)
		cancel()
		if err != nil {
			h.log.Debug("websocket write failed, dropping subscriber", "error", err)
			return
		}
	}
	conn.Close(websocket.StatusNormalClosure, "stream ended")
}
