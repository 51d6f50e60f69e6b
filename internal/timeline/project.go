package timeline

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// placed is an item resolved onto the minute axis.
type placed struct {
	item  Item
	start int
}

func (p placed) end() int {
	return p.start + p.item.DurationMinutes
}

func (p placed) block() Block {
	return Block{ItemID: p.item.ID, Start: p.start, End: p.end()}
}

func comparePlaced(a, b placed) int {
	if c := cmp.Compare(a.start, b.start); c != 0 {
		return c
	}
	if c := cmp.Compare(a.end(), b.end()); c != 0 {
		return c
	}
	return strings.Compare(a.item.ID, b.item.ID)
}

// layoutOf resolves every item of the day to minutes and sorts the result.
func layoutOf(d Day) ([]placed, error) {
	out := make([]placed, 0, len(d.Items))
	for _, it := range d.Items {
		if it.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: %q has %d minutes", ErrInvalidDuration, it.Title, it.DurationMinutes)
		}
		start, err := d.MinuteOf(it.StartTime)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", it.Title, err)
		}
		if start+it.DurationMinutes > MinutesPerDay {
			return nil, fmt.Errorf("%w: %q ends at %s, past midnight", ErrOutOfRange,
				it.Title, MinutesToTime(start+it.DurationMinutes))
		}
		out = append(out, placed{item: it.clone(), start: start})
	}
	slices.SortFunc(out, comparePlaced)
	return out, nil
}

// dayOf turns a layout back into a Day, ordered by start.
func dayOf(date time.Time, layout []placed) Day {
	sorted := slices.Clone(layout)
	slices.SortFunc(sorted, comparePlaced)
	d := Day{Date: date, Items: make([]Item, len(sorted))}
	for i, p := range sorted {
		it := p.item.clone()
		it.StartTime = d.At(p.start)
		d.Items[i] = it
	}
	return d
}

// Project converts a day's items into blocks sorted by start, then end,
// then item ID.
func Project(d Day) ([]Block, error) {
	layout, err := layoutOf(d)
	if err != nil {
		return nil, err
	}
	blocks := make([]Block, len(layout))
	for i, p := range layout {
		blocks[i] = p.block()
	}
	return blocks, nil
}
