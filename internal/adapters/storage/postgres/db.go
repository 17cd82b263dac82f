package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound = errors.New("not found")
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas si no existen. Sin herramienta de migraciones
// por ahora; los cambios de esquema se agregan acá de forma aditiva.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scheduled_events (
			id                  TEXT PRIMARY KEY,
			org_id              TEXT NOT NULL,
			title               TEXT NOT NULL,
			type                TEXT NOT NULL,
			date                TEXT NOT NULL,
			start_minutes       INT  NOT NULL,
			end_minutes         INT,
			location            TEXT NOT NULL DEFAULT '',
			description         TEXT NOT NULL DEFAULT '',
			vendor_id           TEXT NOT NULL DEFAULT '',
			vendor_name         TEXT NOT NULL DEFAULT '',
			category            TEXT NOT NULL DEFAULT '',
			cadence             TEXT NOT NULL DEFAULT '',
			recurrence_group_id TEXT NOT NULL DEFAULT '',
			overdue             BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_events_org_date
			ON scheduled_events (org_id, date)`,
		`CREATE TABLE IF NOT EXISTS frequency_changes (
			id                TEXT PRIMARY KEY,
			org_id            TEXT NOT NULL,
			category          TEXT NOT NULL,
			location_scope    TEXT NOT NULL,
			previous_cadence  TEXT NOT NULL,
			new_cadence       TEXT NOT NULL,
			reduction_percent INT  NOT NULL,
			minimum_cadence   TEXT NOT NULL DEFAULT '',
			citation          TEXT NOT NULL DEFAULT '',
			below_minimum     BOOLEAN NOT NULL DEFAULT FALSE,
			acknowledged      BOOLEAN NOT NULL,
			reason            TEXT NOT NULL,
			justification     TEXT NOT NULL,
			recorded_at       TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS vendor_changes (
			id              TEXT PRIMARY KEY,
			org_id          TEXT NOT NULL,
			category        TEXT NOT NULL,
			previous_vendor TEXT NOT NULL,
			new_vendor      TEXT NOT NULL,
			reason          TEXT NOT NULL,
			detail          TEXT NOT NULL DEFAULT '',
			scope           TEXT NOT NULL,
			recorded_at     TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
