package db

import (
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       VARCHAR(100) PRIMARY KEY,
		user_name     VARCHAR(255) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		email         VARCHAR(255),
		address       VARCHAR(500),
		vehicle_no    VARCHAR(50),
		mobile_no     VARCHAR(20),
		vehicle_type  VARCHAR(20) NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id           BIGSERIAL PRIMARY KEY,
		user_id      VARCHAR(100) NOT NULL REFERENCES users(user_id),
		level_no     INT NOT NULL,
		slot_no      INT NOT NULL,
		entry_time   TIMESTAMPTZ NOT NULL,
		exit_time    TIMESTAMPTZ NOT NULL,
		vehicle_type VARCHAR(20) NOT NULL,
		status       VARCHAR(20) NOT NULL DEFAULT 'reserved',
		bill_amount  DOUBLE PRECISION NOT NULL DEFAULT 0,
		paid         BOOLEAN NOT NULL DEFAULT FALSE,
		paid_at      TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (exit_time > entry_time)
	)`,
	`ALTER TABLE reservations ADD COLUMN IF NOT EXISTS paid_at TIMESTAMPTZ`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_slot
		ON reservations (level_no, slot_no, status)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_user
		ON reservations (user_id, created_at DESC)`,
}

// EnsureSchema creates the tables and indexes if they don't exist yet.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
