package db

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/javiermolinar/magnetic/internal/timeline"
)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

var testDate = time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)

// plannedDay returns a tiled day that exercises every stored column.
func plannedDay(t *testing.T) timeline.Day {
	t.Helper()

	d := timeline.NewDay(testDate, timeline.SeedItem{Title: "Free", Color: "#cccccc"})
	d, err := timeline.AddItem(d, timeline.NewItem{
		ID: "sleep", Title: "Sleep", AtMinute: 0, Duration: 420, IsLocked: true, Color: "#334155",
	})
	if err != nil {
		t.Fatalf("AddItem(sleep) error = %v", err)
	}
	d, err = timeline.AddItem(d, timeline.NewItem{
		ID: "work", Title: "Work", AtMinute: 420, Duration: 480, IsFlexible: true,
	})
	if err != nil {
		t.Fatalf("AddItem(work) error = %v", err)
	}
	d, err = timeline.SplitItem(d, "work", 600)
	if err != nil {
		t.Fatalf("SplitItem() error = %v", err)
	}
	return d
}

func TestLoadDay_NeverSaved(t *testing.T) {
	repo := newTestRepo(t)

	day, version, err := repo.LoadDay(context.Background(), testDate.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
	if len(day.Items) != 0 {
		t.Errorf("expected no items, got %d", len(day.Items))
	}
	if !day.Date.Equal(testDate) {
		t.Errorf("expected date %v, got %v", testDate, day.Date)
	}
}

func TestSaveAndLoadDay(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	day := plannedDay(t)

	version, err := repo.SaveDay(ctx, day, 0)
	if err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}

	loaded, loadedVersion, err := repo.LoadDay(ctx, testDate)
	if err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if loadedVersion != version {
		t.Errorf("expected version %d, got %d", version, loadedVersion)
	}
	if !reflect.DeepEqual(loaded, day) {
		t.Errorf("loaded day differs from saved day:\n got %+v\nwant %+v", loaded.Items, day.Items)
	}
}

func TestSaveDay_BumpsVersion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	day := plannedDay(t)

	v1, err := repo.SaveDay(ctx, day, 0)
	if err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}

	next, err := timeline.DeleteItem(day, "sleep")
	if err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	v2, err := repo.SaveDay(ctx, next, v1)
	if err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}
	if v2 != v1+1 {
		t.Errorf("expected version %d, got %d", v1+1, v2)
	}

	loaded, _, err := repo.LoadDay(ctx, testDate)
	if err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if len(loaded.Items) != len(next.Items) {
		t.Errorf("expected %d items after replace, got %d", len(next.Items), len(loaded.Items))
	}
	if _, ok := loaded.Find("sleep"); ok {
		t.Error("deleted item still stored")
	}
}

func TestSaveDay_StaleVersion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	day := plannedDay(t)

	if _, err := repo.SaveDay(ctx, day, 0); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}

	// A second writer that also started from "never saved".
	_, err := repo.SaveDay(ctx, day, 0)
	if !errors.Is(err, timeline.ErrStaleDay) {
		t.Fatalf("expected ErrStaleDay for create race, got %v", err)
	}

	// A writer holding an old version.
	if _, err := repo.SaveDay(ctx, day, 1); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}
	_, err = repo.SaveDay(ctx, day, 1)
	if !errors.Is(err, timeline.ErrStaleDay) {
		t.Fatalf("expected ErrStaleDay for update race, got %v", err)
	}

	_, version, err := repo.LoadDay(ctx, testDate)
	if err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2 after rejected writes, got %d", version)
	}
}

func TestSaveDay_RefusesBrokenDay(t *testing.T) {
	repo := newTestRepo(t)

	broken := timeline.Day{Date: testDate, Items: []timeline.Item{{
		ID: "half", Title: "Half", StartTime: testDate, DurationMinutes: 720, IsFlexible: true,
	}}}
	_, err := repo.SaveDay(context.Background(), broken, 0)
	if !errors.Is(err, timeline.ErrCoverage) {
		t.Fatalf("expected ErrCoverage, got %v", err)
	}

	_, version, err := repo.LoadDay(context.Background(), testDate)
	if err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if version != 0 {
		t.Errorf("broken day was stored at version %d", version)
	}
}

func TestListDates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, offset := range []int{3, 0, 1, 10} {
		date := testDate.AddDate(0, 0, offset)
		if _, err := repo.SaveDay(ctx, timeline.NewDay(date, timeline.SeedItem{}), 0); err != nil {
			t.Fatalf("SaveDay(%s) failed: %v", date.Format(time.DateOnly), err)
		}
	}

	dates, err := repo.ListDates(ctx, testDate, testDate.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("ListDates failed: %v", err)
	}
	want := []time.Time{testDate, testDate.AddDate(0, 0, 1), testDate.AddDate(0, 0, 3)}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("ListDates = %v, want %v", dates, want)
	}
}

func TestSaveDay_DaysAreIndependent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Seed IDs are derived from the date, so two days never collide.
	first := timeline.NewDay(testDate, timeline.SeedItem{})
	second := timeline.NewDay(testDate.AddDate(0, 0, 1), timeline.SeedItem{})
	if _, err := repo.SaveDay(ctx, first, 0); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}
	if _, err := repo.SaveDay(ctx, second, 0); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}

	loaded, _, err := repo.LoadDay(ctx, testDate)
	if err != nil {
		t.Fatalf("LoadDay failed: %v", err)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].ID != first.Items[0].ID {
		t.Errorf("unexpected items for first day: %+v", loaded.Items)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2025-01-09", want: testDate},
		{input: "2025-01-09T00:00:00Z", want: testDate},
		{input: "09/01/2025", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
