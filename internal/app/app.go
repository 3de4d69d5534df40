package app

import (
	"context"
	"fmt"
	"log/slog"

	"profile/internal/config"
	httpserver "profile/internal/http"
	"profile/internal/services/profile"
	"profile/internal/storage"
	"profile/internal/storage/memory"
	"profile/internal/storage/mongodb"
	"profile/internal/storage/postgres"
)

type App struct {
	HTTPServer *httpserver.Server
	Storage    storage.ProfileStorage
	log        *slog.Logger
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	store, err := openStorage(ctx, log, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profileService := profile.New(log, store)

	router := httpserver.NewRouter(profileService, cfg.HTTPServer.Prefix, log)
	httpServer := httpserver.NewServer(
		router,
		cfg.HTTPServer.Port,
		cfg.HTTPServer.Timeout,
		cfg.HTTPServer.IdleTimeout,
		log,
	)

	return &App{
		HTTPServer: httpServer,
		Storage:    store,
		log:        log,
	}, nil
}

func openStorage(ctx context.Context, log *slog.Logger, cfg config.Storage) (storage.ProfileStorage, error) {
	log = log.With(slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.DriverMongo:
		return mongodb.New(ctx, cfg.MongoURI, cfg.Database, cfg.Collection, log)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DSN, log)
	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func (a *App) CloseStorage() error {
	if a.Storage != nil {
		err := a.Storage.Close()
		if err != nil {
			return err
		}
		a.log.Info("closed database connection")
	}
	return nil
}
