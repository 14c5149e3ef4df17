package db

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// MemoryPath selects a private in-memory database that disappears with
// the process.
const MemoryPath = ":memory:"

// Open connects to the SQLite database at path and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := formatDSN(path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Error().Err(err).Msg("failed to open database")
		return nil, err
	}

	// One connection keeps SQLite writes serialized and an in-memory
	// database alive for as long as the pool is open.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("failed to ping database")
		db.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Msg("database connection successful")

	if err := migrate(ctx, db); err != nil {
		log.Error().Err(err).Msg("failed to run migrations")
		db.Close()
		return nil, err
	}
	log.Info().Msg("migrations completed successfully")

	return db, nil
}

func formatDSN(path string) string {
	// See: https://pkg.go.dev/modernc.org/sqlite#pkg-overview
	params := url.Values{}
	params.Set("_time_format", "sqlite")
	params.Set("_pragma", "foreign_keys(1)")
	params.Set("_busy_timeout", "5000")

	if path == "" || path == MemoryPath {
		params.Set("mode", "memory")
		params.Set("cache", "shared")
		return "file:adtrack-" + uuid.NewString() + "?" + params.Encode()
	}

	params.Set("mode", "rwc")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")

	path = strings.TrimPrefix(path, "file:")
	return "file:" + path + "?" + params.Encode()
}

func migrate(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS links (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT UNIQUE NOT NULL,
		url TEXT NOT NULL,
		site TEXT NOT NULL DEFAULT '',
		ads_count INTEGER NOT NULL CHECK (ads_count >= 0),
		tags TEXT NOT NULL DEFAULT '',
		niches TEXT NOT NULL DEFAULT '[]',
		added_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ads_history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		link_id TEXT NOT NULL,
		count INTEGER NOT NULL,
		changed_at TEXT NOT NULL,
		FOREIGN KEY(link_id) REFERENCES links(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_ads_history_link_id ON ads_history(link_id);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}
