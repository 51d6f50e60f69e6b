package timeline

import (
	"errors"
	"reflect"
	"testing"
)

func TestResizeWorkCompressesEvening(t *testing.T) {
	d := sleepWorkEvening()

	got, err := ResizeItemTo(d, "work", 600)
	if err != nil {
		t.Fatalf("ResizeItemTo() error = %v", err)
	}
	assertCovered(t, got)
	assertBlock(t, got, "sleep", 0, 480)
	assertBlock(t, got, "work", 480, 1080)
	assertBlock(t, got, "evening", 1080, 1440)
	assertOriginal(t, got, "evening", intPtr(480))
	assertOriginal(t, got, "work", nil)

	if total := got.Stats().TotalMinutes(); total != MinutesPerDay {
		t.Errorf("total minutes = %d, want %d", total, MinutesPerDay)
	}
}

func TestDeleteWorkExpandsFollowingItem(t *testing.T) {
	d := sleepWorkEvening()

	got, err := DeleteItem(d, "work")
	if err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	blocks, err := Project(got)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if !HasFullCoverage(blocks) {
		t.Errorf("HasFullCoverage() = false after delete")
	}
	assertBlock(t, got, "sleep", 0, 480)
	assertBlock(t, got, "evening", 480, 1440)
	if _, ok := got.Find("work"); ok {
		t.Errorf("work still present after delete")
	}
}

func TestSplitEvening(t *testing.T) {
	d := sleepWorkEvening()

	got, err := SplitItem(d, "evening", 1200)
	if err != nil {
		t.Fatalf("SplitItem() error = %v", err)
	}
	assertCovered(t, got)
	if len(got.Items) != 4 {
		t.Fatalf("len(Items) = %d, want 4", len(got.Items))
	}
	part1 := deriveID("evening", "split", "1")
	part2 := deriveID("evening", "split", "2")
	assertBlock(t, got, part1, 960, 1200)
	assertBlock(t, got, part2, 1200, 1440)

	for id, want := range map[string]SplitInfo{part1: {1, 2}, part2: {2, 2}} {
		it, _ := got.Find(id)
		if it.SplitInfo == nil || *it.SplitInfo != want {
			t.Errorf("%s SplitInfo = %+v, want %+v", id, it.SplitInfo, want)
		}
		if it.Title != "evening" || !it.IsFlexible {
			t.Errorf("%s lost attributes: %+v", id, it)
		}
	}
}

func TestMoveBeforeAnchorIsNoOp(t *testing.T) {
	d := sleepWorkEvening()

	got, err := MoveItemTo(d, "work", 500)
	if err != nil {
		t.Fatalf("MoveItemTo() error = %v", err)
	}
	if !reflect.DeepEqual(got, d) {
		t.Errorf("MoveItemTo() changed the day:\n got %+v\nwant %+v", got.Items, d.Items)
	}
}

func TestResizeLockedRejected(t *testing.T) {
	d := sleepWorkEvening()
	before := d.Clone()

	_, err := ResizeItemTo(d, "sleep", 600)
	if !errors.Is(err, ErrLockedItem) {
		t.Fatalf("ResizeItemTo() error = %v, want ErrLockedItem", err)
	}
	if !reflect.DeepEqual(d, before) {
		t.Errorf("input day was modified")
	}
}
