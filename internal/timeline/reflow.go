package timeline

import (
	"fmt"
	"time"
)

// reflowSpan lays the members back-to-back from span.Start and resizes the
// elastic ones so the run ends exactly at span.End. The pinned item keeps its
// duration. Members are copied; the input is not modified.
func reflowSpan(span Span, members []placed, pinned string) ([]placed, error) {
	out := make([]placed, len(members))
	for i, p := range members {
		out[i] = placed{item: p.item.clone(), start: p.start}
	}
	if len(out) == 0 {
		if span.Len() != 0 {
			return nil, fmt.Errorf("%w: nothing left to fill %s", ErrConflict, span)
		}
		return out, nil
	}

	total := 0
	var elastic []int
	for i, p := range out {
		total += p.item.DurationMinutes
		if p.item.Elastic() && p.item.ID != pinned {
			elastic = append(elastic, i)
		}
	}

	delta := span.Len() - total
	if delta != 0 {
		if len(elastic) == 0 {
			return nil, fmt.Errorf("%w: %s has no flexible item to absorb %d minutes", ErrConflict, span, delta)
		}
		next, err := redistribute(out, elastic, delta)
		if err != nil && delta < 0 {
			return nil, fmt.Errorf("%w: %s cannot shed %d minutes without going under %d-minute items: %w",
				ErrConflict, span, -delta, FloorMinutes, err)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s cannot absorb %d minutes: %w", ErrConflict, span, delta, err)
		}
		for k, i := range elastic {
			out[i].item.setDuration(next[k])
		}
	}

	cursor := span.Start
	for i := range out {
		out[i].start = cursor
		cursor += out[i].item.DurationMinutes
	}
	return out, nil
}

// redistribute returns the new durations of the elastic members after
// absorbing delta minutes. Weights are natural lengths. Shrinking stops every
// item at the floor; growing refills compressed items up to their natural
// length before spreading what is left across all of them.
func redistribute(members []placed, elastic []int, delta int) ([]int, error) {
	durations := make([]int, len(elastic))
	weights := make([]int, len(elastic))
	for k, i := range elastic {
		durations[k] = members[i].item.DurationMinutes
		weights[k] = members[i].item.Natural()
	}

	if delta < 0 {
		caps := make([]int, len(elastic))
		for k, d := range durations {
			caps[k] = max(d-FloorMinutes, 0)
		}
		cut, err := apportion(-delta, weights, caps)
		if err != nil {
			return nil, err
		}
		for k := range durations {
			durations[k] -= cut[k]
		}
		return durations, nil
	}

	headroom := make([]int, len(elastic))
	refill := 0
	for k, d := range durations {
		headroom[k] = max(weights[k]-d, 0)
		refill += headroom[k]
	}
	refill = min(refill, delta)
	back, err := apportion(refill, weights, headroom)
	if err != nil {
		return nil, err
	}
	extra, err := apportion(delta-refill, weights, nil)
	if err != nil {
		return nil, err
	}
	for k := range durations {
		durations[k] += back[k] + extra[k]
	}
	return durations, nil
}

// LocalReflow re-tiles one span with the given non-locked items, in the order
// given: they are laid back-to-back from span.Start and the flexible ones are
// compressed or expanded until the last one ends at span.End. It returns the
// items with their new start times and durations.
func LocalReflow(date time.Time, span Span, items []Item) ([]Item, error) {
	if span.Start < 0 || span.End > MinutesPerDay || span.Start > span.End {
		return nil, fmt.Errorf("%w: span %d-%d", ErrOutOfRange, span.Start, span.End)
	}
	d := Day{Date: DayDate(date)}
	members := make([]placed, len(items))
	for i, it := range items {
		if it.IsLockedTime {
			return nil, fmt.Errorf("%w: %q is an anchor, not part of the span", ErrLockedItem, it.Title)
		}
		if it.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: %q has %d minutes", ErrInvalidDuration, it.Title, it.DurationMinutes)
		}
		members[i] = placed{item: it}
	}
	out, err := reflowSpan(span, members, "")
	if err != nil {
		return nil, err
	}
	result := make([]Item, len(out))
	for i, p := range out {
		result[i] = p.item
		result[i].StartTime = d.At(p.start)
	}
	return result, nil
}

// ManualReflow repairs a whole day: locked runs stay where they are and every
// span between them is re-tiled independently, in start order. Reflowing a
// day that is already tiled changes nothing.
func ManualReflow(d Day) (Day, error) {
	layout, err := layoutOf(d)
	if err != nil {
		return Day{}, err
	}
	if len(layout) == 0 {
		return Day{}, fmt.Errorf("%w: the day has no items", ErrConflict)
	}
	pt, err := partitionOf(layout)
	if err != nil {
		return Day{}, err
	}
	for i, span := range pt.spans {
		group, err := reflowSpan(span, pt.members[i], "")
		if err != nil {
			return Day{}, err
		}
		pt.members[i] = group
	}
	return finish(d.Date, pt.flatten())
}

// finish assembles a layout into a day and checks it tiles the axis.
func finish(date time.Time, layout []placed) (Day, error) {
	out := dayOf(date, layout)
	if err := Verify(out); err != nil {
		return Day{}, err
	}
	return out, nil
}
