package timeline

import (
	"errors"
	"reflect"
	"testing"
)

func TestSpans(t *testing.T) {
	got, err := Spans(sleepWorkLunchEvening())
	if err != nil {
		t.Fatalf("Spans() error = %v", err)
	}
	want := []Span{{0, 0}, {480, 720}, {780, 1440}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Spans() = %v, want %v", got, want)
	}

	// Contiguous locked items form a single anchor.
	d := dayWith(locked("a", 0, 300), locked("b", 300, 180), flexible("c", 480, 960))
	got, err = Spans(d)
	if err != nil {
		t.Fatalf("Spans() error = %v", err)
	}
	want = []Span{{0, 0}, {480, 1440}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Spans() = %v, want %v", got, want)
	}
}

func TestSpanAt(t *testing.T) {
	d := sleepWorkLunchEvening()
	tests := []struct {
		name    string
		minute  int
		want    Span
		wantErr error
	}{
		{name: "inside a span", minute: 600, want: Span{480, 720}},
		{name: "inside sleep near its end", minute: 400, want: Span{480, 720}},
		{name: "inside sleep near midnight has no room before", minute: 10, want: Span{480, 720}},
		{name: "lunch nearer its start", minute: 725, want: Span{480, 720}},
		{name: "lunch tie goes later", minute: 750, want: Span{780, 1440}},
		{name: "right after lunch", minute: 780, want: Span{780, 1440}},
		{name: "out of range", minute: 1440, wantErr: ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SpanAt(d, tt.minute)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SpanAt() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SpanAt(%d) = %v, want %v", tt.minute, got, tt.want)
			}
		})
	}

	enclosed := dayWith(locked("a", 0, 720), locked("b", 720, 720))
	if _, err := SpanAt(enclosed, 300); !errors.Is(err, ErrConflict) {
		t.Errorf("SpanAt(all locked) error = %v, want ErrConflict", err)
	}
}

func TestCheckFit(t *testing.T) {
	items := []Item{flexible("a", 0, 300), fixed("b", 0, 60), flexible("c", 0, 200)}

	if got := MinFootprint(items, ""); got != 90 {
		t.Errorf("MinFootprint() = %d, want 90", got)
	}
	if got := MinFootprint(items, "a"); got != 375 {
		t.Errorf("MinFootprint(pinned a) = %d, want 375", got)
	}
	if err := CheckFit(Span{0, 90}, items, ""); err != nil {
		t.Errorf("CheckFit(90) = %v, want nil", err)
	}
	if err := CheckFit(Span{0, 89}, items, ""); !errors.Is(err, ErrConflict) {
		t.Errorf("CheckFit(89) = %v, want ErrConflict", err)
	}
	if got := MaxGrowth(Span{480, 1440}, 480, items[1:]); got != 885 {
		t.Errorf("MaxGrowth() = %d, want 885", got)
	}
}
