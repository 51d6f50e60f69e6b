package timeline

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestProject(t *testing.T) {
	d := dayWith(
		flexible("b", 600, 60),
		locked("a", 0, 600),
		flexible("c", 600, 30),
	)
	got, err := Project(d)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	want := []Block{
		{ItemID: "a", Start: 0, End: 600},
		{ItemID: "c", Start: 600, End: 630},
		{ItemID: "b", Start: 600, End: 660},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Project() = %+v, want %+v", got, want)
	}

	tests := []struct {
		name    string
		item    Item
		wantErr error
	}{
		{name: "zero duration", item: flexible("x", 0, 0), wantErr: ErrInvalidDuration},
		{name: "runs past midnight", item: flexible("x", 1400, 60), wantErr: ErrOutOfRange},
		{name: "other date", item: Item{ID: "x", StartTime: testDate.AddDate(0, 0, 1), DurationMinutes: 30}, wantErr: ErrOutOfRange},
		{name: "seconds", item: Item{ID: "x", StartTime: testDate.Add(90 * time.Second), DurationMinutes: 30}, wantErr: ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(dayWith(tt.item))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Project() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGaps(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
		want   []Gap
	}{
		{name: "empty day", blocks: nil, want: []Gap{{0, 1440}}},
		{name: "full", blocks: []Block{{"a", 0, 720}, {"b", 720, 1440}}, want: nil},
		{name: "leading and tail", blocks: []Block{{"a", 60, 1400}}, want: []Gap{{0, 60}, {1400, 1440}}},
		{name: "middle", blocks: []Block{{"a", 0, 600}, {"b", 660, 1440}}, want: []Gap{{600, 660}}},
		{name: "overlap hides no gap", blocks: []Block{{"a", 0, 900}, {"b", 600, 700}, {"c", 900, 1440}}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gaps(tt.blocks)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Gaps() = %v, want %v", got, tt.want)
			}
			if HasFullCoverage(tt.blocks) != (len(tt.want) == 0) {
				t.Errorf("HasFullCoverage() disagrees with Gaps()")
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	blocks := []Block{{"a", 0, 900}, {"b", 600, 700}, {"c", 800, 1440}}
	got := Overlaps(blocks)
	want := []Overlap{
		{First: "a", Second: "b", Start: 600, End: 700},
		{First: "a", Second: "c", Start: 800, End: 900},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Overlaps() = %+v, want %+v", got, want)
	}
}

func TestVerify(t *testing.T) {
	if err := Verify(sleepWorkEvening()); err != nil {
		t.Errorf("Verify() = %v, want nil", err)
	}

	broken := dayWith(locked("sleep", 0, 480), flexible("work", 540, 900))
	err := Verify(broken)
	if !errors.Is(err, ErrCoverage) {
		t.Fatalf("Verify() = %v, want ErrCoverage", err)
	}
	if !strings.Contains(err.Error(), "gap 08:00-09:00") {
		t.Errorf("Verify() = %q, want it to name the gap", err)
	}

	report, err := Coverage(broken)
	if err != nil {
		t.Fatalf("Coverage() error = %v", err)
	}
	if report.OK() || len(report.Gaps) != 1 {
		t.Errorf("Coverage() = %+v", report)
	}
}
