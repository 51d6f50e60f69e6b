package timeline

import "fmt"

// Op is one edit of a day. Applying the same Op to the same Day always
// yields the same result, which is what lets a preview stand in for the
// commit that follows it.
type Op interface {
	Apply(d Day) (Day, error)
	Describe() string
}

// AddOp inserts a new item.
type AddOp struct {
	Item NewItem
}

func (o AddOp) Apply(d Day) (Day, error) { return AddItem(d, o.Item) }

func (o AddOp) Describe() string {
	return fmt.Sprintf("Add: %s at %s", o.Item.Title, MinutesToTime(o.Item.AtMinute))
}

// MoveOp moves an item to a new start minute.
type MoveOp struct {
	ID     string
	Minute int
}

func (o MoveOp) Apply(d Day) (Day, error) { return MoveItemTo(d, o.ID, o.Minute) }

func (o MoveOp) Describe() string {
	return fmt.Sprintf("Move: %.8s to %s", o.ID, MinutesToTime(o.Minute))
}

// ResizeOp changes an item's duration.
type ResizeOp struct {
	ID       string
	Duration int
}

func (o ResizeOp) Apply(d Day) (Day, error) { return ResizeItemTo(d, o.ID, o.Duration) }

func (o ResizeOp) Describe() string {
	return fmt.Sprintf("Resize: %.8s to %dm", o.ID, o.Duration)
}

// SplitOp cuts an item in two.
type SplitOp struct {
	ID     string
	Minute int
}

func (o SplitOp) Apply(d Day) (Day, error) { return SplitItem(d, o.ID, o.Minute) }

func (o SplitOp) Describe() string {
	return fmt.Sprintf("Split: %.8s at %s", o.ID, MinutesToTime(o.Minute))
}

// DeleteOp removes an item.
type DeleteOp struct {
	ID string
}

func (o DeleteOp) Apply(d Day) (Day, error) { return DeleteItem(d, o.ID) }

func (o DeleteOp) Describe() string {
	return fmt.Sprintf("Delete: %.8s", o.ID)
}

// UpdateOp edits item attributes.
type UpdateOp struct {
	ID    string
	Patch ItemPatch
}

func (o UpdateOp) Apply(d Day) (Day, error) { return UpdateItem(d, o.ID, o.Patch) }

func (o UpdateOp) Describe() string {
	return fmt.Sprintf("Update: %.8s", o.ID)
}

// ReflowOp repairs the whole day.
type ReflowOp struct{}

func (ReflowOp) Apply(d Day) (Day, error) { return ManualReflow(d) }

func (ReflowOp) Describe() string { return "Reflow" }

// ReplaceOp swaps in a whole new day, reflowed. Imports go through it.
type ReplaceOp struct {
	Day    Day
	Source string
}

func (o ReplaceOp) Apply(d Day) (Day, error) {
	layout, err := layoutOf(o.Day)
	if err != nil {
		return Day{}, err
	}
	return ManualReflow(dayOf(d.Date, layout))
}

func (o ReplaceOp) Describe() string {
	if o.Source == "" {
		return "Replace day"
	}
	return "Import: " + o.Source
}
