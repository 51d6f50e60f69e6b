package timeline

import (
	"fmt"
	"sort"
)

// Span is the stretch between two anchors: a run of contiguous locked items
// or an edge of the day.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in minutes.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return FormatRange(s.Start, s.End)
}

// anchor is a maximal run of contiguous locked items.
type anchor struct {
	start int
	end   int
}

// anchorsOf merges the locked items of a sorted layout into runs.
// Overlapping locked items cannot be laid out at all.
func anchorsOf(layout []placed) ([]anchor, error) {
	var runs []anchor
	var prev placed
	for _, p := range layout {
		if !p.item.IsLockedTime {
			continue
		}
		if n := len(runs); n > 0 {
			last := &runs[n-1]
			if p.start < last.end {
				return nil, fmt.Errorf("%w: locked items %q and %q overlap at %s",
					ErrConflict, prev.item.Title, p.item.Title, MinutesToTime(p.start))
			}
			if p.start == last.end {
				last.end = p.end()
				prev = p
				continue
			}
		}
		runs = append(runs, anchor{start: p.start, end: p.end()})
		prev = p
	}
	return runs, nil
}

// spansBetween lists the span before each run and the one after the last,
// zero-length spans included, so span i always precedes anchor i.
func spansBetween(runs []anchor) []Span {
	spans := make([]Span, 0, len(runs)+1)
	cursor := 0
	for _, a := range runs {
		spans = append(spans, Span{Start: cursor, End: a.start})
		cursor = a.end
	}
	return append(spans, Span{Start: cursor, End: MinutesPerDay})
}

// spanIndex returns the span a non-locked item starting at minute belongs to:
// the one after the last run starting at or before it.
func spanIndex(runs []anchor, minute int) int {
	return sort.Search(len(runs), func(i int) bool { return runs[i].start > minute })
}

// partition splits a layout into its spans, the non-locked members of each
// span in order, and the locked items.
type partition struct {
	runs    []anchor
	spans   []Span
	members [][]placed
	locked  []placed
}

func partitionOf(layout []placed) (partition, error) {
	runs, err := anchorsOf(layout)
	if err != nil {
		return partition{}, err
	}
	pt := partition{runs: runs, spans: spansBetween(runs)}
	pt.members = make([][]placed, len(pt.spans))
	for _, p := range layout {
		if p.item.IsLockedTime {
			pt.locked = append(pt.locked, p)
			continue
		}
		i := spanIndex(runs, p.start)
		pt.members[i] = append(pt.members[i], p)
	}
	return pt, nil
}

// locate returns the span and position of a non-locked item.
func (pt partition) locate(id string) (span, pos int, ok bool) {
	for si, group := range pt.members {
		for i, p := range group {
			if p.item.ID == id {
				return si, i, true
			}
		}
	}
	return 0, 0, false
}

// flatten reassembles locked items and span members into one layout.
func (pt partition) flatten() []placed {
	out := append([]placed(nil), pt.locked...)
	for _, group := range pt.members {
		out = append(out, group...)
	}
	return out
}

// spanAt returns the index of the span that can host something dropped at
// minute, and the minute clamped into it. A minute inside a locked run goes
// to the nearer edge of the run (ties to the later edge); when the span on
// that side has no room the other side is tried.
func (pt partition) spanAt(minute int) (int, int, error) {
	for i, a := range pt.runs {
		if minute < a.start || minute >= a.end {
			continue
		}
		before, after := i, i+1
		type side struct{ span, edge int }
		first, second := side{after, a.end}, side{before, a.start}
		if minute-a.start < a.end-minute {
			first, second = second, first
		}
		for _, s := range []side{first, second} {
			if pt.spans[s.span].Len() > 0 {
				return s.span, s.edge, nil
			}
		}
		return 0, 0, fmt.Errorf("%w: %s is enclosed by locked items", ErrConflict, MinutesToTime(minute))
	}
	return spanIndex(pt.runs, minute), minute, nil
}

// Spans enumerates the anchor-to-anchor spans of a day, zero-length ones
// included.
func Spans(d Day) ([]Span, error) {
	layout, err := layoutOf(d)
	if err != nil {
		return nil, err
	}
	runs, err := anchorsOf(layout)
	if err != nil {
		return nil, err
	}
	return spansBetween(runs), nil
}

// SpanAt returns the span that would host an item dropped at minute.
func SpanAt(d Day, minute int) (Span, error) {
	if minute < 0 || minute >= MinutesPerDay {
		return Span{}, fmt.Errorf("%w: minute %d", ErrOutOfRange, minute)
	}
	layout, err := layoutOf(d)
	if err != nil {
		return Span{}, err
	}
	pt, err := partitionOf(layout)
	if err != nil {
		return Span{}, err
	}
	i, _, err := pt.spanAt(minute)
	if err != nil {
		return Span{}, err
	}
	return pt.spans[i], nil
}

// MinFootprint is the least room items can be squeezed into: fixed and
// pinned items keep their duration, flexible ones drop to the floor.
func MinFootprint(items []Item, pinned string) int {
	total := 0
	for _, it := range items {
		total += footprint(it, pinned)
	}
	return total
}

func footprint(it Item, pinned string) int {
	if it.Elastic() && it.ID != pinned {
		return min(it.DurationMinutes, FloorMinutes)
	}
	return it.DurationMinutes
}

func minFootprint(group []placed, pinned string) int {
	total := 0
	for _, p := range group {
		total += footprint(p.item, pinned)
	}
	return total
}

// CheckFit returns ErrConflict when the items cannot fit the span even with
// every flexible item at the floor.
func CheckFit(span Span, items []Item, pinned string) error {
	if need := MinFootprint(items, pinned); need > span.Len() {
		return fmt.Errorf("%w: %s holds %d minutes, items need at least %d",
			ErrConflict, span, span.Len(), need)
	}
	return nil
}

func checkFit(span Span, group []placed, pinned string) error {
	if need := minFootprint(group, pinned); need > span.Len() {
		return fmt.Errorf("%w: %s holds %d minutes, items need at least %d",
			ErrConflict, span, span.Len(), need)
	}
	return nil
}

// MaxGrowth returns the longest duration an item starting at start can take
// inside span while the items after it are squeezed to their minimum.
func MaxGrowth(span Span, start int, after []Item) int {
	return span.End - start - MinFootprint(after, "")
}
