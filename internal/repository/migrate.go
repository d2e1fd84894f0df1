package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate ensures the schema at startup. The partial unique index on
// transactions enforces "at most one successful record per member per fee
// item" at the store, so no application-level check-then-insert is needed.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS members (
			id            TEXT PRIMARY KEY,
			first_name    TEXT NOT NULL,
			middle_name   TEXT NOT NULL DEFAULT '',
			surname       TEXT NOT NULL,
			matric_number TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			level         TEXT NOT NULL,
			department    TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS access_tokens (
			id         BIGSERIAL PRIMARY KEY,
			token_hash TEXT NOT NULL UNIQUE,
			member_id  TEXT NOT NULL REFERENCES members(id),
			expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id            TEXT PRIMARY KEY,
			member_id     TEXT NOT NULL REFERENCES members(id),
			payment_type  TEXT NOT NULL,
			amount        BIGINT NOT NULL CHECK (amount > 0),
			reference     TEXT NOT NULL UNIQUE,
			status        TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			student_name  TEXT NOT NULL,
			matric_number TEXT NOT NULL,
			level         TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS transactions_member_type_success_idx
			ON transactions (member_id, payment_type)
			WHERE status = 'success'`,
		`CREATE INDEX IF NOT EXISTS transactions_member_idx ON transactions (member_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
