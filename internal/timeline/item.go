// Package timeline implements the magnetic day timeline: a 1440-minute axis
// tiled edge-to-edge by items, and the operations that edit it while keeping
// the axis free of gaps and overlaps.
package timeline

import "time"

const (
	// MinutesPerDay is the length of the day axis.
	MinutesPerDay = 1440
	// FloorMinutes is the shortest duration an operation will produce.
	FloorMinutes = 15
)

// SplitInfo records which part of a split an item is.
type SplitInfo struct {
	Part       int
	TotalParts int
}

// Item is one scheduled block of a single day.
type Item struct {
	ID              string
	Title           string
	StartTime       time.Time
	DurationMinutes int

	// OriginalDurationMinutes is nil until reflow first moves the item away
	// from its natural length. It is the item's redistribution weight and
	// the ceiling it regains when room frees up.
	OriginalDurationMinutes *int

	IsLockedTime bool
	IsFlexible   bool
	Color        string
	SplitInfo    *SplitInfo
}

// Elastic reports whether reflow may compress or expand the item.
// A locked item is never elastic, whatever its flexible flag says.
func (it Item) Elastic() bool {
	return it.IsFlexible && !it.IsLockedTime
}

// Fixed reports whether the item keeps its duration but may be shifted.
func (it Item) Fixed() bool {
	return !it.IsFlexible && !it.IsLockedTime
}

// Natural returns the item's natural length: the original duration when
// one was recorded, the current duration otherwise.
func (it Item) Natural() int {
	if it.OriginalDurationMinutes != nil {
		return *it.OriginalDurationMinutes
	}
	return it.DurationMinutes
}

// Kind returns a one-word label for the item's lock/flex flags.
func (it Item) Kind() string {
	switch {
	case it.IsLockedTime:
		return "locked"
	case it.IsFlexible:
		return "flexible"
	default:
		return "fixed"
	}
}

// clone returns a copy that shares no pointers with it.
func (it Item) clone() Item {
	out := it
	if it.OriginalDurationMinutes != nil {
		v := *it.OriginalDurationMinutes
		out.OriginalDurationMinutes = &v
	}
	if it.SplitInfo != nil {
		si := *it.SplitInfo
		out.SplitInfo = &si
	}
	return out
}

// setDuration changes an elastic item's duration and keeps
// OriginalDurationMinutes in step: recorded the first time the item leaves
// its natural length, cleared when it returns to it exactly.
func (it *Item) setDuration(minutes int) {
	natural := it.Natural()
	it.DurationMinutes = minutes
	switch {
	case minutes == natural:
		it.OriginalDurationMinutes = nil
	case it.OriginalDurationMinutes == nil:
		it.OriginalDurationMinutes = &natural
	}
}

// Block is the derived [Start, End) minute interval of an item.
type Block struct {
	ItemID string
	Start  int
	End    int
}

// Len returns the block length in minutes.
func (b Block) Len() int {
	return b.End - b.Start
}

// Gap is an interval of the day not covered by any item.
type Gap struct {
	Start int
	End   int
}

// Len returns the gap length in minutes.
func (g Gap) Len() int {
	return g.End - g.Start
}

// String renders the gap as "HH:MM-HH:MM".
func (g Gap) String() string {
	return FormatRange(g.Start, g.End)
}
