package repository

import "github.com/jmoiron/sqlx"

// Schema is created in place on startup. The record shape never changed
// across deployments, so there is no versioning.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		telegram_id       BIGINT PRIMARY KEY,
		username          TEXT NOT NULL DEFAULT '',
		referral_code     TEXT NOT NULL UNIQUE,
		referrer_id       BIGINT REFERENCES users (telegram_id),
		total_invites     INT NOT NULL DEFAULT 0,
		available_invites INT NOT NULL DEFAULT 0 CHECK (available_invites >= 0),
		channel_verified  BOOLEAN NOT NULL DEFAULT FALSE,
		last_claim_date   DATE,
		registration_date TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS users_referrer_id_idx ON users (referrer_id)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

func bootstrapSchema(db *sqlx.DB) error {
	for _, q := range schema {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}
