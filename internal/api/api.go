//nolint:revive // exported
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/funil-crm/funil/internal/config"
)

// Service pairs a route pattern with its handler; routes register on the
// shared mux in declaration order.
type Service struct {
	Handler http.Handler
	Path    string
}

// Middleware wraps a handler; route packages receive the auth middleware
// through this type so they stay decoupled from token verification.
type Middleware = func(http.Handler) http.Handler

func newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Accept",
			"Accept-Encoding",
			"Content-Encoding",
		},
		MaxAge: int(time.Second),
	})
}

// Server mode constants
const (
	ServerModeUDS = "uds"
	ServerModeTCP = "tcp"
)

func newH2CServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              "funil:0",
		ReadHeaderTimeout: 10 * time.Second,
		// h2c serves HTTP/2 without TLS; local deployments sit behind a
		// terminating proxy or a Unix socket.
		Handler: h2c.NewHandler(newCORS().Handler(handler), &http2.Server{
			IdleTimeout:          0,
			MaxConcurrentStreams: 100000,
		}),
	}
}

// ListenServices starts the server on the listener selected by cfg: a TCP
// port or a Unix socket. It serves until ctx is cancelled, then shuts down
// gracefully and returns nil.
func ListenServices(ctx context.Context, services []Service, cfg config.Config) error {
	mux := http.NewServeMux()

	for _, service := range services {
		slog.Info("Registering service", "path", service.Path)
		mux.Handle(service.Path, service.Handler)
	}

	switch cfg.Mode {
	case ServerModeTCP:
		return listenTCP(ctx, mux, cfg.Port)
	case ServerModeUDS:
		return listenIPC(ctx, mux, cfg.SocketPath)
	default:
		slog.Warn("Unknown server mode, falling back to uds", "mode", cfg.Mode)
		return listenIPC(ctx, mux, cfg.SocketPath)
	}
}

func listenTCP(ctx context.Context, mux *http.ServeMux, port string) error {
	srv := newH2CServer(mux)
	srv.Addr = ":" + port

	slog.Info("Server listening on TCP", "port", port)
	return serveUntilDone(ctx, srv, srv.ListenAndServe)
}

// serveUntilDone runs serve and turns a ctx cancellation into a graceful
// shutdown. http.ErrServerClosed is the normal exit, not an error.
func serveUntilDone(ctx context.Context, srv *http.Server, serve func() error) error {
	errc := make(chan error, 1)
	go func() { errc <- serve() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
