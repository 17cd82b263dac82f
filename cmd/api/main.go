package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"time"

	"compliance-calendar/internal/adapters/auth/identity"
	"compliance-calendar/internal/adapters/source/remote"
	pg "compliance-calendar/internal/adapters/storage/postgres"
	"compliance-calendar/internal/config"
	"compliance-calendar/internal/domain/events"
	"compliance-calendar/internal/platform/httpclient"
	"compliance-calendar/internal/platform/logger"
	"compliance-calendar/internal/ports/auth"
	"compliance-calendar/internal/router"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "ruta al config YAML (opcional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		basicFatal("config load failed", err)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "compliance-calendar",
	})

	var db *sql.DB
	if cfg.DatabaseDSN != "" {
		db, err = pg.Open(cfg.DatabaseDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := pg.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Error("schema bootstrap failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		cancel()
	}

	var source events.Source
	if cfg.Source.BaseURL != "" {
		client, err := httpclient.NewWithBaseURL(cfg.Source.BaseURL, time.Duration(cfg.Source.TimeoutSeconds)*time.Second)
		if err != nil {
			log.Error("invalid source base url", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		source = remote.New(client)
	}

	var verifier auth.AuthVerifier
	if cfg.Auth.BaseURL != "" {
		client, err := httpclient.NewWithBaseURL(cfg.Auth.BaseURL, 0)
		if err != nil {
			log.Error("invalid auth base url", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		verifier = identity.NewVerifier(client, cfg.Auth.APIKey)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier, // nil deja el modo dev por headers
		DB:           db,
		Source:       source,
		DemoOrgID:    cfg.DemoOrgID,
		Log:          log,
	})

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": cfg.Listen})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

// basicFatal corre antes de tener logger configurado.
func basicFatal(msg string, err error) {
	_, _ = os.Stderr.WriteString(msg + ": " + err.Error() + "\n")
	os.Exit(1)
}
