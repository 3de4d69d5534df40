package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"profile/internal/app"
	"profile/internal/config"
	"profile/internal/lib/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		slog.Warn("Error loading .env file")
	}
	cfg := config.MustLoad()

	// Initialize logger
	log := setupLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize app
	application, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	grp, grpCtx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		log.Info("starting HTTP server", slog.Int("port", cfg.HTTPServer.Port), slog.String("storage", cfg.Storage.Driver))
		return application.HTTPServer.Run()
	})

	grp.Go(func() error {
		// wait for a signal or a server error
		<-grpCtx.Done()
		log.Info("received signal to stop")

		// graceful shutdown of the HTTP server
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		return application.HTTPServer.Stop(shutdownCtx)
	})

	// wait for all goroutines to finish
	if err := grp.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", sl.Err(err))
	}

	// close storage once the server has drained
	if err := application.CloseStorage(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}
	log.Info("Gracefully stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
