package timeline

import (
	"errors"
	"slices"
)

var errNoRoom = errors.New("not enough room")

// apportion splits amount into integer shares proportional to weights.
// With caps, no share exceeds its cap: a share that would is pinned to the
// cap and the rest is re-split among the others. Leftover minutes from
// rounding go to the largest fractional parts, ties to the lower index.
func apportion(amount int, weights, caps []int) ([]int, error) {
	alloc := make([]int, len(weights))
	if amount <= 0 {
		return alloc, nil
	}
	limited := caps != nil
	active := make([]bool, len(weights))
	capacity := 0
	for i := range weights {
		active[i] = !limited || caps[i] > 0
		if limited && caps[i] > 0 {
			capacity += caps[i]
		}
	}
	if limited && amount > capacity {
		return nil, errNoRoom
	}

	remaining := amount
	for remaining > 0 {
		total := 0
		for i, w := range weights {
			if active[i] {
				total += max(w, 1)
			}
		}
		if total == 0 {
			return nil, errNoRoom
		}

		if limited {
			saturated := false
			for i, w := range weights {
				if active[i] && remaining*max(w, 1) >= caps[i]*total {
					alloc[i] = caps[i]
					remaining -= caps[i]
					active[i] = false
					saturated = true
				}
			}
			if saturated {
				continue
			}
		}

		type share struct{ i, rem int }
		var shares []share
		given := 0
		for i, w := range weights {
			if !active[i] {
				continue
			}
			w = max(w, 1)
			q := remaining * w / total
			alloc[i] += q
			given += q
			shares = append(shares, share{i: i, rem: remaining * w % total})
		}
		slices.SortStableFunc(shares, func(a, b share) int {
			return b.rem - a.rem
		})
		for k := 0; k < remaining-given; k++ {
			alloc[shares[k].i]++
		}
		remaining = 0
	}
	return alloc, nil
}
