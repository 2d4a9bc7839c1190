package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements create the booking tables. Reference data (fare, extra)
// and the generated timetable (journey) are written only by the seeder.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS journey (
		id                 TEXT PRIMARY KEY,
		date               DATE NOT NULL,
		origin             TEXT NOT NULL,
		destination        TEXT NOT NULL,
		train_type         TEXT NOT NULL,
		departure_minutes  INT NOT NULL,
		arrival_minutes    INT NOT NULL,
		duration_minutes   INT NOT NULL,
		direct             BOOLEAN NOT NULL,
		transfers          INT NOT NULL DEFAULT 0,
		connection_minutes INT NOT NULL DEFAULT 0,
		price              NUMERIC(10,2) NOT NULL,
		wifi               BOOLEAN NOT NULL DEFAULT false,
		power              BOOLEAN NOT NULL DEFAULT false,
		quiet_zone         BOOLEAN NOT NULL DEFAULT false,
		cafe               BOOLEAN NOT NULL DEFAULT false,
		accessible_seat    BOOLEAN NOT NULL DEFAULT false,
		staff_assistance   BOOLEAN NOT NULL DEFAULT false,
		companion_seat     BOOLEAN NOT NULL DEFAULT false,
		adjacent_seat      BOOLEAN NOT NULL DEFAULT false,
		pet_friendly       BOOLEAN NOT NULL DEFAULT false,
		pet_small          BOOLEAN NOT NULL DEFAULT false,
		pet_medium         BOOLEAN NOT NULL DEFAULT false,
		pet_large          BOOLEAN NOT NULL DEFAULT false,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_journey_date ON journey (date, departure_minutes)`,
	`CREATE TABLE IF NOT EXISTS fare (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		surcharge  NUMERIC(10,2) NOT NULL DEFAULT 0,
		features   TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS extra (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       NUMERIC(10,2) NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS seed_log (
		id           BIGSERIAL PRIMARY KEY,
		started_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		completed_at TIMESTAMPTZ,
		status       TEXT NOT NULL,
		seed         BIGINT NOT NULL,
		days         INT NOT NULL,
		journey_rows INT NOT NULL DEFAULT 0,
		error_msg    TEXT NOT NULL DEFAULT ''
	)`,
}

// EnsureSchema creates all booking tables if they do not exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
