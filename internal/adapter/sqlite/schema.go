package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL,
	last_verified_location TEXT,
	last_verified_lat REAL,
	last_verified_lng REAL,
	last_verification_time TEXT
);`

// InitSchema creates missing tables.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite.InitSchema: %w", err)
	}
	return nil
}
