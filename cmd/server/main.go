package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"foodprint/internal/config"
	"foodprint/internal/db"
	"foodprint/internal/db/mock"
	applog "foodprint/internal/log"
	"foodprint/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := applog.SetLevel(cfg.Log.Level); err != nil {
		log.Fatalf("invalid log level: %v", err)
	}

	ctx := context.Background()
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("database setup failed: %v", err)
	}

	srv := server.New(server.Config{
		Addr:      cfg.Server.Addr,
		Namespace: cfg.Mapping.DefaultNamespace,
		Database:  database,
	})

	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server encountered an error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	applog.Info(ctx, "shutting down http server")
	if err := srv.Stop(); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}

// openDatabase connects to the configured postgres instance, or seeds an
// in-memory database when no URL is configured so the service is usable
// out of the box.
func openDatabase(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	if cfg.Database.URL != "" {
		return db.Configure(cfg.Database)
	}

	applog.Info(ctx, "no database configured, using seeded in-memory database")
	return mock.New(ctx)
}
