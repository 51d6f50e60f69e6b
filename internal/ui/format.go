package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/magnetic/internal/timeline"
)

// PrintOpts configures day printing.
type PrintOpts struct {
	Color      bool // item colour swatches and strip colours
	StripWidth int  // cells in the day strip; 0 hides it
	TitleWidth int  // titles are padded or truncated to this width
}

// stripGlyphs draw each kind in the day strip, so the strip reads without
// colour too.
var stripGlyphs = map[string]string{
	"locked":   "█",
	"flexible": "░",
	"fixed":    "▓",
}

// PrintDay prints the day's rows, strip, stats and coverage.
func PrintDay(w io.Writer, day timeline.Day, opts PrintOpts) {
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(day.Date.Format("Monday, January 2, 2006")))

	for _, it := range day.Sorted() {
		fmt.Fprintln(w, ItemRow(day, it, opts))
	}
	fmt.Fprintln(w)

	if opts.StripWidth > 0 {
		fmt.Fprintf(w, "[%s]\n", DayStrip(day, opts.StripWidth, opts.Color))
	}
	fmt.Fprintln(w, StatsLine(day.Stats()))
	fmt.Fprintln(w, CoverageLine(day))
}

// ItemRow renders one item as
// "  1a2b3c4d  HH:MM-HH:MM  K ■  title  duration".
func ItemRow(day timeline.Day, it timeline.Item, opts PrintOpts) string {
	start, err := day.MinuteOf(it.StartTime)
	if err != nil {
		start = 0
	}
	width := max(opts.TitleWidth, 8)
	title := padRight(truncate(it.Title, width), width)

	return fmt.Sprintf("  %s  %s  %s %s  %s  %s",
		formatMuted(shortID(it.ID)),
		timeline.FormatRange(start, start+it.DurationMinutes),
		formatKind(it.Kind(), kindMarker(it)),
		Swatch(it.Color, opts.Color),
		title,
		durationNote(it),
	)
}

// kindMarker returns L for locked, F for flexible and · for fixed items.
func kindMarker(it timeline.Item) string {
	switch it.Kind() {
	case "locked":
		return "L"
	case "flexible":
		return "F"
	default:
		return "·"
	}
}

// durationNote is the duration column: the current length, the natural
// length when reflow moved the item off it, and the split part.
func durationNote(it timeline.Item) string {
	note := FormatDuration(it.DurationMinutes)
	if it.OriginalDurationMinutes != nil {
		note += formatMuted(fmt.Sprintf(" (natural %s)", FormatDuration(*it.OriginalDurationMinutes)))
	}
	if it.SplitInfo != nil {
		note += formatMuted(fmt.Sprintf(" [%d/%d]", it.SplitInfo.Part, it.SplitInfo.TotalParts))
	}
	return note
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Swatch renders a colour sample for an item colour. Without colour, or for
// an item without one, it is a blank of the same width.
func Swatch(hex string, useColor bool) string {
	if !useColor || hex == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}

// DayStrip draws the day as width cells. Each cell shows the item covering
// the cell's midpoint.
func DayStrip(day timeline.Day, width int, useColor bool) string {
	blocks, err := timeline.Project(day)
	if err != nil || width <= 0 {
		return ""
	}

	var sb strings.Builder
	b := 0
	for cell := range width {
		mid := (2*cell + 1) * timeline.MinutesPerDay / (2 * width)
		for b < len(blocks) && blocks[b].End <= mid {
			b++
		}
		if b == len(blocks) || blocks[b].Start > mid {
			sb.WriteString(" ")
			continue
		}
		it, _ := day.Find(blocks[b].ItemID)
		glyph := stripGlyphs[it.Kind()]
		if useColor && it.Color != "" {
			glyph = lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color)).Render(glyph)
		}
		sb.WriteString(glyph)
	}
	return sb.String()
}

// StatsLine summarizes minutes per kind.
func StatsLine(s timeline.DayStats) string {
	line := fmt.Sprintf("%s | %s | %s | %d items",
		formatKind("locked", "Locked: "+FormatDuration(s.LockedMinutes)),
		formatKind("flexible", "Flexible: "+FormatDuration(s.FlexibleMinutes)),
		formatKind("fixed", "Fixed: "+FormatDuration(s.FixedMinutes)),
		s.Items)
	if s.Compressed > 0 || s.Expanded > 0 {
		line += formatMuted(fmt.Sprintf("  (%d compressed, %d expanded)", s.Compressed, s.Expanded))
	}
	return line
}

// CoverageLine reports whether the day is tiled edge to edge.
func CoverageLine(day timeline.Day) string {
	report, err := timeline.Coverage(day)
	if err != nil {
		return formatProblem("Coverage: " + err.Error())
	}
	if !report.OK() {
		return formatProblem("Coverage: " + report.String())
	}
	return formatStats("Coverage: 00:00-24:00 full")
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// ParseDuration parses "45m", "1h30m", "2h" or a bare number of minutes.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("%w: %q", timeline.ErrInvalidDuration, s)
		}
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", timeline.ErrInvalidDuration, s)
	}
	if d <= 0 || d%time.Minute != 0 {
		return 0, fmt.Errorf("%w: %q is not a whole number of minutes", timeline.ErrInvalidDuration, s)
	}
	return int(d / time.Minute), nil
}

// truncate shortens s to width display cells.
func truncate(s string, width int) string {
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	if n := ansi.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
