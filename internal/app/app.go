package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	grpcapp "github.com/14kear/livepoll/internal/app/grpc"
	httpapp "github.com/14kear/livepoll/internal/app/http"
	"github.com/14kear/livepoll/internal/config"
	"github.com/14kear/livepoll/internal/handlers"
	"github.com/14kear/livepoll/internal/middleware"
	"github.com/14kear/livepoll/internal/realtime"
	"github.com/14kear/livepoll/internal/routes"
	"github.com/14kear/livepoll/internal/services/auth"
	"github.com/14kear/livepoll/internal/services/polls"
	"github.com/14kear/livepoll/internal/services/votes"
	"github.com/14kear/livepoll/internal/storage/postgres"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.App
	GRPCServer *grpcapp.App
	Rooms      *realtime.Registry
	Dispatcher *realtime.Dispatcher
	storage    io.Closer
}

// NewApp wires the process together. It panics if storage is unreachable.
func NewApp(log *slog.Logger, cfg *config.Config) *App {
	if cfg.Storage.AutoMigrate {
		if err := postgres.Migrate(cfg.StoragePath); err != nil {
			panic(err)
		}
		log.Info("migrations applied")
	}

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		panic(err)
	}

	rooms := realtime.NewRegistry()
	aggregator := votes.NewAggregator(log, storage)
	dispatcher := realtime.NewDispatcher(log, rooms, aggregator, cfg.Realtime.BroadcastTimeout)

	authService := auth.NewAuth(log, storage, storage, storage, dispatcher, cfg.JWT.Secret, cfg.JWT.AccessTTL)

	ledger := votes.NewLedger(log, storage, dispatcher)
	pollService := polls.New(log, storage, dispatcher)

	rtOpts := realtime.Options{
		SendBuffer:     cfg.Realtime.SendBuffer,
		WriteWait:      cfg.Realtime.WriteWait,
		PongWait:       cfg.Realtime.PongWait,
		AllowedOrigins: cfg.Realtime.AllowedOrigins,
	}
	if len(rtOpts.AllowedOrigins) == 0 {
		rtOpts.AllowedOrigins = cfg.HTTP.AllowedOrigins
	}
	gate := realtime.NewGatekeeper(authService)

	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Polls:    handlers.NewPollHandler(pollService),
		Votes:    handlers.NewVoteHandler(ledger, aggregator),
		Realtime: handlers.NewRealtimeHandler(rooms),
		WS:       realtime.NewWSHandler(log, gate, rooms, rtOpts),
		SSE:      realtime.NewSSEHandler(log, gate, rooms, rtOpts),
	}

	return &App{
		log:        log,
		HTTPServer: httpapp.NewApp(log, cfg.HTTP, h, middleware.NewAuthMiddleware(authService)),
		GRPCServer: grpcapp.NewApp(log, cfg.GRPC.Port),
		Rooms:      rooms,
		Dispatcher: dispatcher,
		storage:    storage,
	}
}

// Stop shuts the process down in dependency order. Health flips first so
// traffic drains. Pending broadcasts are delivered before live connections
// close, and streams must be gone before HTTP shutdown can finish.
func (a *App) Stop(ctx context.Context) error {
	a.GRPCServer.SetServing(false)

	var errs []error

	if err := a.Dispatcher.Close(ctx); err != nil {
		a.log.Warn("pending broadcasts dropped", sl.Err(err))
	}

	a.Rooms.CloseAll()

	if err := a.HTTPServer.Stop(ctx); err != nil {
		errs = append(errs, err)
	}

	a.GRPCServer.Stop()

	if err := a.storage.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
