package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/14kear/livepoll/internal/app"
	"github.com/14kear/livepoll/internal/config"
	"github.com/14kear/livepoll/internal/lib/logger"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := logger.New(cfg.Env)

	if cfg.Env == logger.EnvLocal || cfg.Env == logger.EnvDev {
		log.Info("starting livepoll", slog.String("env", cfg.Env), slog.Int("http_port", cfg.HTTP.Port), slog.Int("grpc_port", cfg.GRPC.Port))
	} else {
		log.Info("starting livepoll")
	}

	application := app.NewApp(log, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := application.HTTPServer.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to run HTTP server", sl.Err(err))
			stop()
		}
	}()

	go func() {
		if err := application.GRPCServer.Run(); err != nil {
			log.Error("failed to run gRPC health server", sl.Err(err))
		}
	}()

	application.GRPCServer.SetServing(true)

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop application", sl.Err(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}
