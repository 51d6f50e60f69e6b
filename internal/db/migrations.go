package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS days (
			date       TEXT PRIMARY KEY,
			version    INTEGER NOT NULL CHECK(version > 0),
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS items (
			date                      TEXT NOT NULL REFERENCES days(date),
			id                        TEXT NOT NULL,
			position                  INTEGER NOT NULL,
			title                     TEXT NOT NULL,
			scheduled_start           TEXT NOT NULL,
			duration_minutes          INTEGER NOT NULL CHECK(duration_minutes > 0),
			original_duration_minutes INTEGER,
			is_locked                 INTEGER NOT NULL DEFAULT 0,
			is_flexible               INTEGER NOT NULL DEFAULT 1,
			color                     TEXT NOT NULL DEFAULT '',
			split_part                INTEGER,
			split_total               INTEGER,
			PRIMARY KEY (date, id)
		);

		CREATE INDEX IF NOT EXISTS idx_items_position ON items(date, position);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating timeline tables: %w", err)
	}

	return nil
}
