package timeline

import (
	"context"
	"time"
)

// Repository persists days. Versions are optimistic-concurrency tokens:
// SaveDay fails with ErrStaleDay when the stored version is not the one the
// caller loaded.
type Repository interface {
	// LoadDay returns the stored day and its version. A date never saved
	// comes back with no items and version 0.
	LoadDay(ctx context.Context, date time.Time) (Day, int64, error)

	// SaveDay replaces the stored day and returns the new version.
	SaveDay(ctx context.Context, day Day, expectedVersion int64) (int64, error)

	// ListDates returns the dates with a stored day in [from, to].
	ListDates(ctx context.Context, from, to time.Time) ([]time.Time, error)

	Close() error
}
