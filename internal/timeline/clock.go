package timeline

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeToMinutes parses "HH:MM" into minutes from midnight.
// "24:00" is accepted and maps to MinutesPerDay.
func TimeToMinutes(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return h*60 + m, nil
}

// MinutesToTime formats minutes from midnight as "HH:MM".
// MinutesPerDay renders as "24:00" so a block ending at midnight reads naturally.
func MinutesToTime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > MinutesPerDay {
		minutes = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatRange renders a [start, end) interval as "HH:MM-HH:MM".
func FormatRange(start, end int) string {
	return MinutesToTime(start) + "-" + MinutesToTime(end)
}

// overlapMinutes returns how many minutes [s1,e1) and [s2,e2) share.
func overlapMinutes(s1, e1, s2, e2 int) int {
	lo := max(s1, s2)
	hi := min(e1, e2)
	if hi <= lo {
		return 0
	}
	return hi - lo
}
