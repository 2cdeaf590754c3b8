// Package serverrun assembles the CRM server: config, database, services,
// routes, and the listener.
package serverrun

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/internal/api/middleware/mwauth"
	"github.com/funil-crm/funil/internal/api/rauth"
	"github.com/funil-crm/funil/internal/api/rcompany"
	"github.com/funil-crm/funil/internal/api/rcontact"
	"github.com/funil-crm/funil/internal/api/rdeal"
	"github.com/funil-crm/funil/internal/api/rformsection"
	"github.com/funil-crm/funil/internal/api/rhealth"
	"github.com/funil-crm/funil/internal/api/rinteraction"
	"github.com/funil-crm/funil/internal/api/rlossreason"
	"github.com/funil-crm/funil/internal/api/rpipeline"
	"github.com/funil-crm/funil/internal/api/rstage"
	"github.com/funil-crm/funil/internal/api/rstream"
	"github.com/funil-crm/funil/internal/config"
	"github.com/funil-crm/funil/pkg/eventstream/memory"
	"github.com/funil-crm/funil/pkg/ordered"
	"github.com/funil-crm/funil/pkg/service/scompany"
	"github.com/funil-crm/funil/pkg/service/scontact"
	"github.com/funil-crm/funil/pkg/service/sdeal"
	"github.com/funil-crm/funil/pkg/service/sformsection"
	"github.com/funil-crm/funil/pkg/service/sinteraction"
	"github.com/funil-crm/funil/pkg/service/slossreason"
	"github.com/funil-crm/funil/pkg/service/spipeline"
	"github.com/funil-crm/funil/pkg/service/sstage"
	"github.com/funil-crm/funil/pkg/service/suser"
	"github.com/funil-crm/funil/pkg/sqlc"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
	"github.com/funil-crm/funil/pkg/sqlitemem"
)

func Run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}
	setupLogger(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		return errors.New("serverrun: JWT_SECRET is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, cleanup, err := openDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer cleanup()

	queries := gen.New(db)

	userService := suser.New(queries)
	companyService := scompany.New(queries)
	contactService := scontact.New(queries)
	pipelineService := spipeline.New(queries)
	stageService := sstage.New(queries)
	dealService := sdeal.New(queries)
	lossReasonService := slossreason.New(queries)
	formSectionService := sformsection.New(queries)
	interactionService := sinteraction.New(queries)

	mover := ordered.NewManager(db, slog.Default())
	stream := memory.NewSyncStreamer[api.ChangeTopic, api.Change]()
	defer stream.Shutdown()

	auth := mwauth.New([]byte(cfg.JWTSecret))

	var services []api.Service
	services = append(services, rhealth.New(db).Services()...)
	services = append(services, rauth.New(userService, []byte(cfg.JWTSecret), cfg.TokenTTL).Services(auth)...)
	services = append(services, rcompany.New(companyService, contactService, dealService, interactionService, stream).Services(auth)...)
	services = append(services, rcontact.New(contactService, stream).Services(auth)...)
	services = append(services, rpipeline.New(pipelineService, stageService, dealService, lossReasonService, mover, db, stream).Services(auth)...)
	services = append(services, rstage.New(stageService, stream).Services(auth)...)
	services = append(services, rdeal.New(dealService, stream).Services(auth)...)
	services = append(services, rlossreason.New(lossReasonService, mover, stream).Services(auth)...)
	services = append(services, rformsection.New(formSectionService, db, stream).Services(auth)...)
	services = append(services, rinteraction.New(interactionService, stream).Services(auth)...)
	services = append(services, rstream.New(stream, slog.Default()).Services(auth)...)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.ListenServices(ctx, services, cfg)
	})
	g.Go(func() error {
		<-ctx.Done()
		stream.Shutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server stopped")
	return nil
}

// openDB opens the sqlite file, or an in-memory database when path is empty,
// and creates missing tables.
func openDB(ctx context.Context, path string) (*sql.DB, func(), error) {
	if path == "" {
		slog.Warn("DB_PATH not set, data will not survive a restart")
		return sqlitemem.NewSQLiteMem(ctx)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path))
	if err != nil {
		return nil, nil, err
	}
	if err := sqlc.CreateLocalTables(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
