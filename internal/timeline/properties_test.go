package timeline

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"
)

func busyDay() Day {
	return dayWith(
		locked("sleep", 0, 420),
		flexible("work", 420, 300),
		locked("lunch", 720, 60),
		flexible("afternoon", 780, 300),
		fixed("gym", 1080, 60),
		flexible("evening", 1140, 300),
	)
}

type anchorKey struct {
	start, dur int
}

func lockedSet(t *testing.T, d Day) map[string]anchorKey {
	t.Helper()
	out := make(map[string]anchorKey)
	for _, it := range d.Items {
		if !it.IsLockedTime {
			continue
		}
		m, err := d.MinuteOf(it.StartTime)
		if err != nil {
			t.Fatalf("MinuteOf(%q): %v", it.ID, err)
		}
		out[it.ID] = anchorKey{start: m, dur: it.DurationMinutes}
	}
	return out
}

func randomOp(r *rand.Rand, d Day) Op {
	var movable []string
	for _, it := range d.Items {
		if !it.IsLockedTime {
			movable = append(movable, it.ID)
		}
	}
	pick := func() string {
		if len(movable) == 0 {
			return "missing"
		}
		return movable[r.IntN(len(movable))]
	}
	minute := r.IntN(MinutesPerDay)
	switch r.IntN(6) {
	case 0:
		return AddOp{Item: NewItem{
			Title:      fmt.Sprintf("task %d", r.IntN(1000)),
			AtMinute:   minute,
			Duration:   FloorMinutes + r.IntN(min(225, MinutesPerDay-minute)),
			IsFlexible: r.IntN(3) > 0,
		}}
	case 1:
		return MoveOp{ID: pick(), Minute: minute}
	case 2:
		return ResizeOp{ID: pick(), Duration: FloorMinutes + r.IntN(300)}
	case 3:
		return SplitOp{ID: pick(), Minute: minute}
	case 4:
		return DeleteOp{ID: pick()}
	default:
		return ReflowOp{}
	}
}

var knownErrors = []error{
	ErrConflict, ErrInvalidDuration, ErrInvalidSplitPoint, ErrOutOfRange,
	ErrLockedItem, ErrItemNotFound, ErrEmptyTitle,
}

func TestRandomEditsKeepInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			r := rand.New(rand.NewPCG(seed, 42))
			d := busyDay()
			anchors := lockedSet(t, d)

			for step := 0; step < 200; step++ {
				op := randomOp(r, d)
				before := d.Clone()

				next, err := op.Apply(d)
				if !reflect.DeepEqual(d, before) {
					t.Fatalf("step %d %s modified its input", step, op.Describe())
				}
				if err != nil {
					if errors.Is(err, ErrCoverage) {
						t.Fatalf("step %d %s broke coverage: %v", step, op.Describe(), err)
					}
					known := false
					for _, e := range knownErrors {
						known = known || errors.Is(err, e)
					}
					if !known {
						t.Fatalf("step %d %s returned unexpected error %v", step, op.Describe(), err)
					}
					continue
				}

				if err := Verify(next); err != nil {
					t.Fatalf("step %d %s: %v", step, op.Describe(), err)
				}
				if got := lockedSet(t, next); !reflect.DeepEqual(got, anchors) {
					t.Fatalf("step %d %s moved locked items: %v -> %v", step, op.Describe(), anchors, got)
				}
				for _, it := range next.Items {
					if it.DurationMinutes < FloorMinutes {
						t.Fatalf("step %d %s left %q at %d minutes", step, op.Describe(), it.Title, it.DurationMinutes)
					}
				}
				again, err := ManualReflow(next)
				if err != nil || !reflect.DeepEqual(again, next) {
					t.Fatalf("step %d %s: reflow of a tiled day changed it (err %v)", step, op.Describe(), err)
				}
				d = next
			}
		})
	}
}

func TestSplitExactness(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 200; i++ {
		d := busyDay()
		it := d.Items[r.IntN(len(d.Items))]
		start, _ := d.MinuteOf(it.StartTime)
		at := start + r.IntN(it.DurationMinutes+1)

		got, err := SplitItem(d, it.ID, at)
		if err != nil {
			if !errors.Is(err, ErrInvalidSplitPoint) {
				t.Fatalf("SplitItem(%s, %d) error = %v", it.ID, at, err)
			}
			continue
		}
		first, _ := got.Find(deriveID(it.ID, "split", "1"))
		second, _ := got.Find(deriveID(it.ID, "split", "2"))
		s1, _ := got.MinuteOf(first.StartTime)
		s2, _ := got.MinuteOf(second.StartTime)
		if s1 != start || s1+first.DurationMinutes != at || s2 != at || s2+second.DurationMinutes != start+it.DurationMinutes {
			t.Fatalf("SplitItem(%s, %d) = [%d,+%d) [%d,+%d)", it.ID, at, s1, first.DurationMinutes, s2, second.DurationMinutes)
		}
	}
}
