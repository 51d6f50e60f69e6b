package timeline

import (
	"errors"
	"testing"
)

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "9am", input: "09:00", want: 540},
		{name: "single digit hour", input: "9:30", want: 570},
		{name: "11:59pm", input: "23:59", want: 1439},
		{name: "end of day", input: "24:00", want: 1440},
		{name: "past end of day", input: "24:30", wantErr: true},
		{name: "bad minutes", input: "10:60", wantErr: true},
		{name: "no colon", input: "1000", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimeToMinutes(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeFormat) {
					t.Errorf("TimeToMinutes(%q) error = %v, want ErrInvalidTimeFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("TimeToMinutes(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("TimeToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMinutesToTime(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{input: 0, want: "00:00"},
		{input: 570, want: "09:30"},
		{input: 1439, want: "23:59"},
		{input: 1440, want: "24:00"},
		{input: -10, want: "00:00"},
		{input: 1500, want: "24:00"},
	}
	for _, tt := range tests {
		if got := MinutesToTime(tt.input); got != tt.want {
			t.Errorf("MinutesToTime(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatRange(t *testing.T) {
	if got := FormatRange(960, 1440); got != "16:00-24:00" {
		t.Errorf("FormatRange() = %q, want %q", got, "16:00-24:00")
	}
}

func TestOverlapMinutes(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 int
		want           int
	}{
		{name: "touching", s1: 0, e1: 60, s2: 60, e2: 120, want: 0},
		{name: "partial", s1: 0, e1: 90, s2: 60, e2: 120, want: 30},
		{name: "contained", s1: 0, e1: 120, s2: 30, e2: 60, want: 30},
		{name: "disjoint", s1: 200, e1: 300, s2: 0, e2: 60, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapMinutes(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("overlapMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}
