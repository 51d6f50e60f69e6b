// Package session runs the two-phase edit protocol over a stored day.
// Preview applies an operation to a copy of the committed day and keeps the
// result as a tentative layout; Commit applies the same operation to the
// committed day and persists it. Both call the same pure function, so what
// was previewed is exactly what gets stored.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/magnetic/internal/logging"
	"github.com/javiermolinar/magnetic/internal/timeline"
)

// Session errors.
var (
	ErrNotLoaded     = errors.New("no day loaded")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNoPreview     = errors.New("no preview in progress")
)

const defaultMaxHistory = 50

// HistoryEntry represents a single undo-able commit.
type HistoryEntry struct {
	Description string       // e.g., "Move: 1a2b3c4d to 09:00"
	Day         timeline.Day // the committed day before the operation
}

type preview struct {
	op  timeline.Op
	day timeline.Day
}

// Session holds one day's committed state, an optional tentative layout and
// the undo history.
type Session struct {
	mu sync.Mutex

	repo       timeline.Repository
	seed       timeline.SeedItem
	base       zerolog.Logger
	log        zerolog.Logger
	maxHistory int

	loaded    bool
	saved     timeline.Day
	version   int64
	tentative *preview
	history   []HistoryEntry
}

// Option configures a Session.
type Option func(*Session)

// WithSeed sets the item an unsaved day starts with.
func WithSeed(seed timeline.SeedItem) Option {
	return func(s *Session) { s.seed = seed }
}

// WithMaxHistory bounds the undo history.
func WithMaxHistory(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.base = l }
}

// New creates a session backed by repo.
func New(repo timeline.Repository, opts ...Option) *Session {
	s := &Session{
		repo:       repo,
		seed:       timeline.DefaultSeed,
		base:       logging.Component("session"),
		maxHistory: defaultMaxHistory,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.base
	return s
}

// Load reads the day for date from the repository. A date with nothing
// stored starts from a seeded day, which is only written on the first commit.
func (s *Session) Load(ctx context.Context, date time.Time) error {
	day, version, err := s.repo.LoadDay(ctx, date)
	if err != nil {
		return fmt.Errorf("loading day: %w", err)
	}
	if len(day.Items) == 0 {
		day = timeline.NewDay(date, s.seed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved = day
	s.version = version
	s.loaded = true
	s.tentative = nil
	s.history = nil
	s.log = logging.WithDay(s.base, day.Date)
	s.log.Debug().Int64("version", version).Int("items", len(day.Items)).Msg("day loaded")
	return nil
}

// Day returns a copy of the committed day.
func (s *Session) Day() timeline.Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved.Clone()
}

// Version returns the repository version the committed day was read at.
func (s *Session) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Preview applies op to a copy of the committed day and keeps the result as
// the tentative layout. Nothing is persisted. A rejected preview leaves the
// previous tentative layout in place.
func (s *Session) Preview(op timeline.Op) (timeline.Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return timeline.Day{}, ErrNotLoaded
	}
	next, err := op.Apply(s.saved.Clone())
	if err != nil {
		s.log.Debug().Err(err).Str("op", op.Describe()).Msg("preview rejected")
		return timeline.Day{}, err
	}
	s.tentative = &preview{op: op, day: next}
	s.log.Debug().Str("op", op.Describe()).Msg("preview")
	return next.Clone(), nil
}

// Tentative returns the layout of the current preview, if any.
func (s *Session) Tentative() (timeline.Day, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tentative == nil {
		return timeline.Day{}, false
	}
	return s.tentative.day.Clone(), true
}

// Cancel drops the tentative layout.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tentative = nil
}

// Commit applies op to the committed day and persists the result. On any
// error the session keeps its previous state.
func (s *Session) Commit(ctx context.Context, op timeline.Op) (timeline.Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, op)
}

// CommitPreview commits the operation behind the current preview.
func (s *Session) CommitPreview(ctx context.Context) (timeline.Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tentative == nil {
		return timeline.Day{}, ErrNoPreview
	}
	return s.commit(ctx, s.tentative.op)
}

func (s *Session) commit(ctx context.Context, op timeline.Op) (timeline.Day, error) {
	if !s.loaded {
		return timeline.Day{}, ErrNotLoaded
	}
	next, err := op.Apply(s.saved.Clone())
	if err != nil {
		s.log.Warn().Err(err).Str("op", op.Describe()).Msg("commit rejected")
		return timeline.Day{}, err
	}
	version, err := s.repo.SaveDay(ctx, next, s.version)
	if err != nil {
		s.log.Warn().Err(err).Str("op", op.Describe()).Int64("version", s.version).Msg("save failed")
		return timeline.Day{}, fmt.Errorf("saving day: %w", err)
	}

	s.pushHistory(op.Describe(), s.saved)
	s.saved = next
	s.version = version
	s.tentative = nil
	s.log.Debug().Str("op", op.Describe()).Int64("version", version).Msg("commit")
	return next.Clone(), nil
}

func (s *Session) pushHistory(description string, day timeline.Day) {
	s.history = append(s.history, HistoryEntry{Description: description, Day: day})
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

// CanUndo returns true if there are commits to undo.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history) > 0
}

// History returns the descriptions of undo-able commits, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	for i, h := range s.history {
		out[i] = h.Description
	}
	return out
}

// Undo restores the committed day from before the last commit and persists
// it. It returns the description of the undone commit.
func (s *Session) Undo(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return "", ErrNothingToUndo
	}
	last := s.history[len(s.history)-1]
	version, err := s.repo.SaveDay(ctx, last.Day, s.version)
	if err != nil {
		s.log.Warn().Err(err).Str("op", last.Description).Msg("undo failed")
		return "", fmt.Errorf("saving day: %w", err)
	}

	s.history = s.history[:len(s.history)-1]
	s.saved = last.Day
	s.version = version
	s.tentative = nil
	s.log.Debug().Str("op", last.Description).Int64("version", version).Msg("undo")
	return last.Description, nil
}
