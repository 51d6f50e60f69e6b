package timeline

import "errors"

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrOutOfRange        = errors.New("outside the 00:00-24:00 day")
	ErrInvalidSplitPoint = errors.New("invalid split point")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
)

// Domain errors.
var (
	ErrConflict     = errors.New("edit cannot be realized without moving a locked item or breaching the duration floor")
	ErrLockedItem   = errors.New("locked items cannot be moved or resized")
	ErrItemNotFound = errors.New("item not found")
	ErrCoverage     = errors.New("day is not tiled edge-to-edge")
	ErrStaleDay     = errors.New("day was changed by another session")
)
