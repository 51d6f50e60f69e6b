package timeline

import (
	"fmt"
	"strings"
)

// Gaps walks sorted blocks with a cursor from 00:00 and reports every
// stretch no block covers, including a tail gap before 24:00.
func Gaps(blocks []Block) []Gap {
	var gaps []Gap
	cursor := 0
	for _, b := range blocks {
		if b.Start > cursor {
			gaps = append(gaps, Gap{Start: cursor, End: b.Start})
		}
		cursor = max(cursor, b.End)
	}
	if cursor < MinutesPerDay {
		gaps = append(gaps, Gap{Start: cursor, End: MinutesPerDay})
	}
	return gaps
}

// HasFullCoverage reports whether the blocks leave no gap.
func HasFullCoverage(blocks []Block) bool {
	return len(Gaps(blocks)) == 0
}

// Overlap is a stretch claimed by two blocks at once.
type Overlap struct {
	First  string
	Second string
	Start  int
	End    int
}

// Overlaps reports every block that starts before the furthest end seen so
// far. Blocks must be sorted by start.
func Overlaps(blocks []Block) []Overlap {
	var out []Overlap
	if len(blocks) == 0 {
		return out
	}
	reach := blocks[0]
	for _, b := range blocks[1:] {
		if b.Start < reach.End {
			out = append(out, Overlap{
				First:  reach.ItemID,
				Second: b.ItemID,
				Start:  b.Start,
				End:    min(b.End, reach.End),
			})
		}
		if b.End > reach.End {
			reach = b
		}
	}
	return out
}

// Report lists every coverage problem of a day.
type Report struct {
	Gaps     []Gap
	Overlaps []Overlap
}

// OK reports whether the day is tiled edge-to-edge.
func (r Report) OK() bool {
	return len(r.Gaps) == 0 && len(r.Overlaps) == 0
}

func (r Report) String() string {
	if r.OK() {
		return "full coverage"
	}
	var parts []string
	for _, g := range r.Gaps {
		parts = append(parts, "gap "+g.String())
	}
	for _, o := range r.Overlaps {
		parts = append(parts, fmt.Sprintf("overlap %s (%.8s/%.8s)", FormatRange(o.Start, o.End), o.First, o.Second))
	}
	return strings.Join(parts, ", ")
}

// Coverage projects the day and collects its gaps and overlaps.
func Coverage(d Day) (Report, error) {
	blocks, err := Project(d)
	if err != nil {
		return Report{}, err
	}
	return Report{Gaps: Gaps(blocks), Overlaps: Overlaps(blocks)}, nil
}

// Verify returns nil when the day's blocks partition [0,1440), and an
// ErrCoverage describing every gap and overlap otherwise.
func Verify(d Day) error {
	r, err := Coverage(d)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCoverage, err)
	}
	if !r.OK() {
		return fmt.Errorf("%w: %s", ErrCoverage, r)
	}
	return nil
}
