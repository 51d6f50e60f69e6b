package timeline

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// NewItem describes an item to insert with AddItem.
type NewItem struct {
	ID         string // optional; derived from the day and request when empty
	Title      string
	AtMinute   int
	Duration   int
	Color      string
	IsLocked   bool
	IsFlexible bool
}

func (n NewItem) validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if n.Duration < FloorMinutes {
		return fmt.Errorf("%w: %d minutes is below the %d-minute floor", ErrInvalidDuration, n.Duration, FloorMinutes)
	}
	if n.AtMinute < 0 || n.AtMinute >= MinutesPerDay {
		return fmt.Errorf("%w: start minute %d", ErrOutOfRange, n.AtMinute)
	}
	if n.AtMinute+n.Duration > MinutesPerDay {
		return fmt.Errorf("%w: %s plus %d minutes runs past midnight", ErrOutOfRange, MinutesToTime(n.AtMinute), n.Duration)
	}
	return nil
}

// ItemPatch holds attribute edits; nil fields are left alone.
type ItemPatch struct {
	Title      *string
	Color      *string
	IsLocked   *bool
	IsFlexible *bool
}

func indexOf(layout []placed, id string) int {
	return slices.IndexFunc(layout, func(p placed) bool { return p.item.ID == id })
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// addID derives the ID of an added item from the day's date, its current
// items and the request.
func addID(date time.Time, layout []placed, n NewItem) string {
	parts := []string{
		"add", date.Format(time.DateOnly), n.Title,
		strconv.Itoa(n.AtMinute), strconv.Itoa(n.Duration),
		strconv.FormatBool(n.IsLocked), strconv.FormatBool(n.IsFlexible),
	}
	for _, p := range layout {
		parts = append(parts, p.item.ID)
	}
	return deriveID(parts...)
}

// AddItem inserts a new item. When the requested interval is free (only
// possible on a day that still has gaps) the item goes exactly there.
// Otherwise it snaps to the nearer boundary of the item under AtMinute and
// the span it lands in is reflowed around it.
func AddItem(d Day, n NewItem) (Day, error) {
	if err := n.validate(); err != nil {
		return Day{}, err
	}
	layout, err := layoutOf(d)
	if err != nil {
		return Day{}, err
	}
	if len(layout) == 0 {
		return Day{}, fmt.Errorf("%w: the day has no items to make room from", ErrConflict)
	}

	id := n.ID
	if id == "" {
		id = addID(d.Date, layout, n)
	}
	if indexOf(layout, id) >= 0 {
		return Day{}, fmt.Errorf("%w: id %s is already on the day", ErrConflict, id)
	}
	fresh := placed{
		item: Item{
			ID:              id,
			Title:           strings.TrimSpace(n.Title),
			DurationMinutes: n.Duration,
			IsLockedTime:    n.IsLocked,
			IsFlexible:      n.IsFlexible,
			Color:           n.Color,
		},
		start: n.AtMinute,
	}

	end := n.AtMinute + n.Duration
	free := !slices.ContainsFunc(layout, func(p placed) bool {
		return overlapMinutes(p.start, p.end(), n.AtMinute, end) > 0
	})
	if free {
		return finish(d.Date, append(layout, fresh))
	}

	pt, err := partitionOf(layout)
	if err != nil {
		return Day{}, err
	}
	si, k, err := pt.insertionPoint(layout, n.AtMinute, end)
	if err != nil {
		return Day{}, err
	}
	if fresh.item.IsLockedTime {
		return insertAnchor(d.Date, pt, si, k, fresh)
	}

	span := pt.spans[si]
	group := slices.Insert(slices.Clone(pt.members[si]), k, fresh)
	if err := checkFit(span, group, id); err != nil {
		return Day{}, err
	}
	group, err = reflowSpan(span, group, id)
	if err != nil {
		return Day{}, err
	}
	pt.members[si] = group
	return finish(d.Date, pt.flatten())
}

// insertionPoint picks the span and member index a new item snaps to.
func (pt partition) insertionPoint(layout []placed, at, end int) (int, int, error) {
	host := slices.IndexFunc(layout, func(p placed) bool { return p.start <= at && at < p.end() })
	if host < 0 {
		host = slices.IndexFunc(layout, func(p placed) bool {
			return overlapMinutes(p.start, p.end(), at, end) > 0
		})
	}
	h := layout[host]

	if h.item.IsLockedTime {
		minute := min(max(at, h.start), h.end()-1)
		si, edge, err := pt.spanAt(minute)
		if err != nil {
			return 0, 0, err
		}
		if edge == pt.spans[si].End {
			return si, len(pt.members[si]), nil
		}
		return si, 0, nil
	}

	si, pos, _ := pt.locate(h.item.ID)
	if at-h.start <= h.end()-at {
		return si, pos, nil
	}
	return si, pos + 1, nil
}

// insertAnchor places a new locked item at the snapped boundary of span si
// and reflows the two sub-spans on either side of it.
func insertAnchor(date time.Time, pt partition, si, k int, fresh placed) (Day, error) {
	span := pt.spans[si]
	group := pt.members[si]
	dur := fresh.item.DurationMinutes

	at := span.End - dur
	if k < len(group) {
		at = min(group[k].start, span.End-dur)
	}
	if at < span.Start {
		return Day{}, fmt.Errorf("%w: %s has no room for %d locked minutes", ErrConflict, span, dur)
	}
	before, after := group[:k], group[k:]
	left := Span{Start: span.Start, End: at}
	right := Span{Start: at + dur, End: span.End}
	if err := checkFit(left, before, ""); err != nil {
		return Day{}, err
	}
	if err := checkFit(right, after, ""); err != nil {
		return Day{}, err
	}
	l, err := reflowSpan(left, before, "")
	if err != nil {
		return Day{}, err
	}
	r, err := reflowSpan(right, after, "")
	if err != nil {
		return Day{}, err
	}
	fresh.start = at
	pt.members[si] = append(l, r...)
	pt.locked = append(pt.locked, fresh)
	return finish(date, pt.flatten())
}

// MoveItemTo moves a non-locked item so it starts as close to minute as the
// anchors allow. Both the span it leaves and the span it lands in are
// reflowed; the moved item keeps its duration.
func MoveItemTo(d Day, id string, minute int) (Day, error) {
	layout, err := layoutOf(d)
	if err != nil {
		return Day{}, err
	}
	idx := indexOf(layout, id)
	if idx < 0 {
		return Day{}, notFound(id)
	}
	target := layout[idx]
	if target.item.IsLockedTime {
		return Day{}, fmt.Errorf("%w: %q", ErrLockedItem, target.item.Title)
	}
	if minute < 0 || minute >= MinutesPerDay {
		return Day{}, fmt.Errorf("%w: minute %d", ErrOutOfRange, minute)
	}

	rest := slices.Delete(slices.Clone(layout), idx, idx+1)
	pt, err := partitionOf(rest)
	if err != nil {
		return Day{}, err
	}
	src := spanIndex(pt.runs, target.start)
	dst, at, err := pt.spanAt(minute)
	if err != nil {
		return Day{}, err
	}

	span := pt.spans[dst]
	k := landingIndex(span, pt.members[dst], at)
	moved := slices.Insert(slices.Clone(pt.members[dst]), k, target)
	if err := checkFit(span, moved, id); err != nil {
		return Day{}, err
	}
	if src != dst {
		group, err := reflowSpan(pt.spans[src], pt.members[src], "")
		if err != nil {
			return Day{}, fmt.Errorf("closing the hole left by %q: %w", target.item.Title, err)
		}
		pt.members[src] = group
	}
	moved, err = reflowSpan(span, moved, id)
	if err != nil {
		return Day{}, err
	}
	pt.members[dst] = moved
	return finish(d.Date, pt.flatten())
}

// landingIndex returns the position in group whose start, laid out from
// span.Start, is nearest to minute. Ties go to the earlier position.
func landingIndex(span Span, group []placed, minute int) int {
	best, bestDist := 0, abs(span.Start-minute)
	cursor := span.Start
	for k := 1; k <= len(group); k++ {
		cursor += group[k-1].item.DurationMinutes
		if dist := abs(cursor - minute); dist < bestDist {
			best, bestDist = k, dist
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ResizeItemTo changes the duration of a non-locked item. The new duration is
// clamped to what the span can give. Growing squeezes the items after it;
// shrinking hands the freed minutes to a flexible neighbour, the following
// one first.
func ResizeItemTo(d Day, id string, minutes int) (Day, error) {
	layout, err := layoutOf(d)
	if err != nil {
		return Day{}, err
	}
	idx := indexOf(layout, id)
	if idx < 0 {
		return Day{}, notFound(id)
	}
	target := layout[idx]
	if target.item.IsLockedTime {
		return Day{}, fmt.Errorf("%w: %q", ErrLockedItem, target.item.Title)
	}
	if minutes < FloorMinutes {
		return Day{}, fmt.Errorf("%w: %d minutes is below the %d-minute floor", ErrInvalidDuration, minutes, FloorMinutes)
	}

	pt, err := partitionOf(layout)
	if err != nil {
		return Day{}, err
	}
	si, pos, _ := pt.locate(id)
	span := pt.spans[si]
	group := slices.Clone(pt.members[si])
	later := group[pos+1:]

	if ceiling := span.End - target.start - minFootprint(later, ""); minutes > ceiling {
		minutes = ceiling
	}
	current := target.item.DurationMinutes
	if minutes == current {
		return finish(d.Date, layout)
	}

	resized := target
	resized.item = target.item.clone()
	resized.item.DurationMinutes = minutes
	resized.item.OriginalDurationMinutes = nil

	if minutes > current {
		tail, err := reflowSpan(Span{Start: target.start + minutes, End: span.End}, later, "")
		if err != nil {
			return Day{}, err
		}
		group = append(append(group[:pos], resized), tail...)
		pt.members[si] = group
		return finish(d.Date, pt.flatten())
	}

	freed := current - minutes
	switch {
	case pos+1 < len(group) && group[pos+1].item.Elastic():
		next := group[pos+1]
		next.item = next.item.clone()
		next.start -= freed
		next.item.setDuration(next.item.DurationMinutes + freed)
		group[pos+1] = next
	case pos > 0 && group[pos-1].item.Elastic():
		prev := group[pos-1]
		prev.item = prev.item.clone()
		prev.item.setDuration(prev.item.DurationMinutes + freed)
		group[pos-1] = prev
		resized.start += freed
	default:
		return Day{}, fmt.Errorf("%w: no flexible neighbour of %q can take %d freed minutes",
			ErrConflict, target.item.Title, freed)
	}
	group[pos] = resized
	pt.members[si] = group
	return finish(d.Date, pt.flatten())
}

// SplitItem cuts an item in two at minute. Both parts keep the title, color
// and flags; each must be at least FloorMinutes long.
func SplitItem(d Day, id string, minute int) (Day, error) {
	layout, err := layoutOf(d)
	if err != nil {
		return Day{}, err
	}
	idx := indexOf(layout, id)
	if idx < 0 {
		return Day{}, notFound(id)
	}
	target := layout[idx]
	s, e := target.start, target.end()
	if minute <= s || minute >= e {
		return Day{}, fmt.Errorf("%w: %s is not inside %s", ErrInvalidSplitPoint, MinutesToTime(minute), FormatRange(s, e))
	}
	if minute-s < FloorMinutes || e-minute < FloorMinutes {
		return Day{}, fmt.Errorf("%w: %s would leave a part under %d minutes", ErrInvalidSplitPoint, MinutesToTime(minute), FloorMinutes)
	}

	first := placed{item: target.item.clone(), start: s}
	first.item.ID = deriveID(target.item.ID, "split", "1")
	first.item.DurationMinutes = minute - s
	first.item.SplitInfo = &SplitInfo{Part: 1, TotalParts: 2}

	second := placed{item: target.item.clone(), start: minute}
	second.item.ID = deriveID(target.item.ID, "split", "2")
	second.item.DurationMinutes = e - minute
	second.item.SplitInfo = &SplitInfo{Part: 2, TotalParts: 2}

	if orig := target.item.OriginalDurationMinutes; orig != nil {
		o1 := max(*orig*(minute-s)/(e-s), 1)
		o2 := max(*orig-o1, 1)
		first.item.OriginalDurationMinutes = originalFor(first.item.DurationMinutes, o1)
		second.item.OriginalDurationMinutes = originalFor(second.item.DurationMinutes, o2)
	}

	out := slices.Delete(slices.Clone(layout), idx, idx+1)
	out = append(out, first, second)
	return finish(d.Date, out)
}

func originalFor(duration, original int) *int {
	if duration == original {
		return nil
	}
	return &original
}

// DeleteItem removes an item and closes the hole it leaves. The following
// flexible neighbour expands backward over it, else the preceding one
// expands forward, else the whole span is reflowed.
func DeleteItem(d Day, id string) (Day, error) {
	layout, err := layoutOf(d)
	if err != nil {
		return Day{}, err
	}
	idx := indexOf(layout, id)
	if idx < 0 {
		return Day{}, notFound(id)
	}
	if len(layout) == 1 {
		return Day{}, fmt.Errorf("%w: cannot delete the only item of the day", ErrConflict)
	}
	target := layout[idx]
	freed := target.item.DurationMinutes
	rest := slices.Delete(slices.Clone(layout), idx, idx+1)

	// rest[idx] is the item after the deleted one, rest[idx-1] the one before.
	if idx < len(rest) && rest[idx].start == target.end() && rest[idx].item.Elastic() {
		next := &rest[idx]
		next.start = target.start
		next.item.setDuration(next.item.DurationMinutes + freed)
		return finish(d.Date, rest)
	}
	if idx > 0 && rest[idx-1].end() == target.start && rest[idx-1].item.Elastic() {
		prev := &rest[idx-1]
		prev.item.setDuration(prev.item.DurationMinutes + freed)
		return finish(d.Date, rest)
	}

	pt, err := partitionOf(rest)
	if err != nil {
		return Day{}, err
	}
	si := spanIndex(pt.runs, target.start)
	group, err := reflowSpan(pt.spans[si], pt.members[si], "")
	if err != nil {
		return Day{}, fmt.Errorf("deleting %q: %w", target.item.Title, err)
	}
	pt.members[si] = group
	return finish(d.Date, pt.flatten())
}

// UpdateItem edits an item's attributes. Layout is untouched.
func UpdateItem(d Day, id string, patch ItemPatch) (Day, error) {
	layout, err := layoutOf(d)
	if err != nil {
		return Day{}, err
	}
	idx := indexOf(layout, id)
	if idx < 0 {
		return Day{}, notFound(id)
	}
	it := &layout[idx].item
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return Day{}, ErrEmptyTitle
		}
		it.Title = title
	}
	if patch.Color != nil {
		it.Color = *patch.Color
	}
	if patch.IsLocked != nil {
		it.IsLockedTime = *patch.IsLocked
	}
	if patch.IsFlexible != nil {
		it.IsFlexible = *patch.IsFlexible
	}
	if !it.Elastic() {
		it.OriginalDurationMinutes = nil
	}
	return finish(d.Date, layout)
}
