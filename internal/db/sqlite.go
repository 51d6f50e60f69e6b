// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/magnetic/internal/timeline"
)

// SQLite implements timeline.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ timeline.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LoadDay returns the stored day for date and its version.
// A date that was never saved yields an empty day at version 0.
func (s *SQLite) LoadDay(ctx context.Context, date time.Time) (timeline.Day, int64, error) {
	day := timeline.Day{Date: timeline.DayDate(date)}
	key := day.Date.Format(time.DateOnly)

	var version int64
	err := s.db.QueryRowContext(ctx, `SELECT version FROM days WHERE date = ?`, key).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return day, 0, nil
	}
	if err != nil {
		return timeline.Day{}, 0, fmt.Errorf("querying day: %w", err)
	}

	query := `
		SELECT id, title, scheduled_start, duration_minutes, original_duration_minutes,
		       is_locked, is_flexible, color, split_part, split_total
		FROM items
		WHERE date = ?
		ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query, key)
	if err != nil {
		return timeline.Day{}, 0, fmt.Errorf("querying items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			it         timeline.Item
			start      string
			original   sql.NullInt64
			splitPart  sql.NullInt64
			splitTotal sql.NullInt64
		)
		if err := rows.Scan(
			&it.ID,
			&it.Title,
			&start,
			&it.DurationMinutes,
			&original,
			&it.IsLockedTime,
			&it.IsFlexible,
			&it.Color,
			&splitPart,
			&splitTotal,
		); err != nil {
			return timeline.Day{}, 0, fmt.Errorf("scanning item: %w", err)
		}

		minute, err := timeline.TimeToMinutes(start)
		if err != nil {
			return timeline.Day{}, 0, fmt.Errorf("item %s: %w", it.ID, err)
		}
		it.StartTime = day.At(minute)
		if original.Valid {
			v := int(original.Int64)
			it.OriginalDurationMinutes = &v
		}
		if splitPart.Valid && splitTotal.Valid {
			it.SplitInfo = &timeline.SplitInfo{Part: int(splitPart.Int64), TotalParts: int(splitTotal.Int64)}
		}
		day.Items = append(day.Items, it)
	}
	if err := rows.Err(); err != nil {
		return timeline.Day{}, 0, fmt.Errorf("iterating items: %w", err)
	}

	return day, version, nil
}

// SaveDay replaces the stored day in one transaction and returns the new
// version. It fails with timeline.ErrStaleDay when someone else saved the day
// after expectedVersion was read, and refuses days that are not fully tiled.
func (s *SQLite) SaveDay(ctx context.Context, day timeline.Day, expectedVersion int64) (int64, error) {
	if err := timeline.Verify(day); err != nil {
		return 0, fmt.Errorf("refusing to save %s: %w", day.Date.Format(time.DateOnly), err)
	}

	var version int64
	err := withRetry(ctx, defaultRetryAttempts, defaultRetryBackoff, func() error {
		v, err := s.saveDay(ctx, day, expectedVersion)
		version = v
		return err
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (s *SQLite) saveDay(ctx context.Context, day timeline.Day, expectedVersion int64) (int64, error) {
	key := timeline.DayDate(day.Date).Format(time.DateOnly)
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The version bump doubles as the compare-and-swap.
	var result sql.Result
	if expectedVersion == 0 {
		result, err = tx.ExecContext(ctx,
			`INSERT INTO days (date, version, updated_at) VALUES (?, 1, ?) ON CONFLICT(date) DO NOTHING`,
			key, now)
	} else {
		result, err = tx.ExecContext(ctx,
			`UPDATE days SET version = version + 1, updated_at = ? WHERE date = ? AND version = ?`,
			now, key, expectedVersion)
	}
	if err != nil {
		return 0, fmt.Errorf("updating day version: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking day version: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s is no longer at version %d", timeline.ErrStaleDay, key, expectedVersion)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE date = ?`, key); err != nil {
		return 0, fmt.Errorf("clearing items: %w", err)
	}

	query := `
		INSERT INTO items (
			date, id, position, title, scheduled_start, duration_minutes,
			original_duration_minutes, is_locked, is_flexible, color, split_part, split_total
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, it := range day.Items {
		minute, err := day.MinuteOf(it.StartTime)
		if err != nil {
			return 0, fmt.Errorf("item %s: %w", it.ID, err)
		}
		var original, splitPart, splitTotal sql.NullInt64
		if it.OriginalDurationMinutes != nil {
			original = sql.NullInt64{Int64: int64(*it.OriginalDurationMinutes), Valid: true}
		}
		if it.SplitInfo != nil {
			splitPart = sql.NullInt64{Int64: int64(it.SplitInfo.Part), Valid: true}
			splitTotal = sql.NullInt64{Int64: int64(it.SplitInfo.TotalParts), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			key,
			it.ID,
			i,
			it.Title,
			timeline.MinutesToTime(minute),
			it.DurationMinutes,
			original,
			it.IsLockedTime,
			it.IsFlexible,
			it.Color,
			splitPart,
			splitTotal,
		); err != nil {
			return 0, fmt.Errorf("inserting item %q: %w", it.Title, err)
		}
	}

	var version int64
	if err := tx.QueryRowContext(ctx, `SELECT version FROM days WHERE date = ?`, key).Scan(&version); err != nil {
		return 0, fmt.Errorf("reading new version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return version, nil
}

// ListDates returns every stored date in [from, to], oldest first.
func (s *SQLite) ListDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query := `SELECT date FROM days WHERE date BETWEEN ? AND ? ORDER BY date`
	rows, err := s.db.QueryContext(ctx, query,
		timeline.DayDate(from).Format(time.DateOnly),
		timeline.DayDate(to).Format(time.DateOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("querying days: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		d, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing day: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating days: %w", err)
	}
	return dates, nil
}

// parseDate reads a stored date key as UTC midnight.
func parseDate(s string) (time.Time, error) {
	if len(s) >= 10 {
		if t, err := time.Parse(time.DateOnly, s[:10]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
