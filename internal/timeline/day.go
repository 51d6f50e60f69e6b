package timeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// itemNamespace scopes the name-based UUIDs derived for new items.
var itemNamespace = uuid.MustParse("6f1c2a4e-8d3b-5e7f-9a10-b2c4d6e8f012")

// deriveID returns a UUIDv5 for the given parts. The same parts always yield
// the same ID, so preview and commit of one edit agree on every new item.
func deriveID(parts ...string) string {
	return uuid.NewSHA1(itemNamespace, []byte(strings.Join(parts, "\x1f"))).String()
}

// NewID returns a random item ID.
func NewID() string {
	return uuid.NewString()
}

// Day is the timeline of one calendar date.
type Day struct {
	Date  time.Time // UTC midnight
	Items []Item
}

// SeedItem describes the single flexible item a fresh day starts with.
type SeedItem struct {
	ID    string
	Title string
	Color string
}

// DefaultSeed is used when a caller does not configure one.
var DefaultSeed = SeedItem{Title: "Free time"}

// NewDay creates a day holding one flexible item spanning 00:00-24:00.
// A day is never empty; everything else is carved out of the seed.
func NewDay(date time.Time, seed SeedItem) Day {
	d := Day{Date: DayDate(date)}
	if seed.Title == "" {
		seed.Title = DefaultSeed.Title
	}
	if seed.ID == "" {
		seed.ID = deriveID("seed", d.Date.Format(time.DateOnly))
	}
	d.Items = []Item{{
		ID:              seed.ID,
		Title:           seed.Title,
		StartTime:       d.Date,
		DurationMinutes: MinutesPerDay,
		IsFlexible:      true,
		Color:           seed.Color,
	}}
	return d
}

// DayDate normalizes t to UTC midnight of its calendar date.
func DayDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// At returns the absolute time of a minute offset into the day.
func (d Day) At(minute int) time.Time {
	return d.Date.Add(time.Duration(minute) * time.Minute)
}

// MinuteOf resolves an absolute time to its minute offset into the day.
func (d Day) MinuteOf(t time.Time) (int, error) {
	off := t.Sub(d.Date)
	if off%time.Minute != 0 {
		return 0, fmt.Errorf("%w: %s is not on a whole minute", ErrOutOfRange, t.Format(time.RFC3339Nano))
	}
	m := int(off / time.Minute)
	if m < 0 || m >= MinutesPerDay {
		return 0, fmt.Errorf("%w: %s is not on %s", ErrOutOfRange, t.Format(time.RFC3339), d.Date.Format(time.DateOnly))
	}
	return m, nil
}

// Clone returns a deep copy of the day.
func (d Day) Clone() Day {
	out := Day{Date: d.Date}
	if d.Items != nil {
		out.Items = make([]Item, len(d.Items))
		for i, it := range d.Items {
			out.Items[i] = it.clone()
		}
	}
	return out
}

// Find returns the item with the given ID.
func (d Day) Find(id string) (Item, bool) {
	for _, it := range d.Items {
		if it.ID == id {
			return it.clone(), true
		}
	}
	return Item{}, false
}

// ResolveID returns the ID of the single item whose ID starts with prefix.
// An exact match always wins.
func (d Day) ResolveID(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrItemNotFound)
	}
	var matches []string
	for _, it := range d.Items {
		if it.ID == prefix {
			return it.ID, nil
		}
		if strings.HasPrefix(it.ID, prefix) {
			matches = append(matches, it.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrItemNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q is ambiguous (%d items)", ErrItemNotFound, prefix, len(matches))
	}
}

// Sorted returns a copy of the items ordered by start time.
func (d Day) Sorted() []Item {
	out := d.Clone().Items
	slices.SortStableFunc(out, func(a, b Item) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return out
}

// DayStats summarizes how a day's minutes are split between item kinds.
type DayStats struct {
	Items           int
	LockedMinutes   int
	FlexibleMinutes int
	FixedMinutes    int
	Compressed      int // flexible items below their original duration
	Expanded        int // flexible items above their original duration
}

// TotalMinutes returns the scheduled minutes across all kinds.
func (s DayStats) TotalMinutes() int {
	return s.LockedMinutes + s.FlexibleMinutes + s.FixedMinutes
}

// Stats calculates statistics for the day.
func (d Day) Stats() DayStats {
	var s DayStats
	for _, it := range d.Items {
		s.Items++
		switch {
		case it.IsLockedTime:
			s.LockedMinutes += it.DurationMinutes
		case it.IsFlexible:
			s.FlexibleMinutes += it.DurationMinutes
		default:
			s.FixedMinutes += it.DurationMinutes
		}
		if it.Elastic() && it.OriginalDurationMinutes != nil {
			if it.DurationMinutes < *it.OriginalDurationMinutes {
				s.Compressed++
			} else if it.DurationMinutes > *it.OriginalDurationMinutes {
				s.Expanded++
			}
		}
	}
	return s
}
