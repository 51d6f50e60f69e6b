package timeline

import (
	"testing"
	"time"
)

var testDate = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func locked(id string, start, dur int) Item {
	return Item{ID: id, Title: id, StartTime: testDate.Add(time.Duration(start) * time.Minute), DurationMinutes: dur, IsLockedTime: true}
}

func flexible(id string, start, dur int) Item {
	return Item{ID: id, Title: id, StartTime: testDate.Add(time.Duration(start) * time.Minute), DurationMinutes: dur, IsFlexible: true}
}

func fixed(id string, start, dur int) Item {
	return Item{ID: id, Title: id, StartTime: testDate.Add(time.Duration(start) * time.Minute), DurationMinutes: dur}
}

func dayWith(items ...Item) Day {
	return Day{Date: testDate, Items: items}
}

// sleepWorkEvening is the reference day: Sleep(locked, 0-480),
// Work(flexible, 480-960), Evening(flexible, 960-1440).
func sleepWorkEvening() Day {
	return dayWith(
		locked("sleep", 0, 480),
		flexible("work", 480, 480),
		flexible("evening", 960, 480),
	)
}

// assertBlock checks the block of item id is [start, end).
func assertBlock(t *testing.T, d Day, id string, start, end int) {
	t.Helper()
	it, ok := d.Find(id)
	if !ok {
		t.Fatalf("item %q not found", id)
	}
	got, err := d.MinuteOf(it.StartTime)
	if err != nil {
		t.Fatalf("MinuteOf(%q): %v", id, err)
	}
	if got != start || got+it.DurationMinutes != end {
		t.Errorf("%s = %s, want %s", id, FormatRange(got, got+it.DurationMinutes), FormatRange(start, end))
	}
}

func assertCovered(t *testing.T, d Day) {
	t.Helper()
	if err := Verify(d); err != nil {
		t.Fatalf("Verify() = %v", err)
	}
}

func assertOriginal(t *testing.T, d Day, id string, want *int) {
	t.Helper()
	it, _ := d.Find(id)
	got := it.OriginalDurationMinutes
	switch {
	case want == nil && got != nil:
		t.Errorf("%s original = %d, want none", id, *got)
	case want != nil && got == nil:
		t.Errorf("%s original = none, want %d", id, *want)
	case want != nil && *got != *want:
		t.Errorf("%s original = %d, want %d", id, *got, *want)
	}
}
