package timeline

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestApportion(t *testing.T) {
	tests := []struct {
		name    string
		amount  int
		weights []int
		caps    []int
		want    []int
		wantErr error
	}{
		{name: "nothing to share", amount: 0, weights: []int{3, 1}, want: []int{0, 0}},
		{name: "exact proportions", amount: 60, weights: []int{480, 240}, want: []int{40, 20}},
		{name: "remainder to the earliest on ties", amount: 10, weights: []int{1, 1, 1}, want: []int{4, 3, 3}},
		{name: "remainder to the largest fraction", amount: 100, weights: []int{360, 500}, want: []int{42, 58}},
		{name: "capped share overflows to the rest", amount: 100, weights: []int{100, 100}, caps: []int{10, 200}, want: []int{10, 90}},
		{name: "zero cap takes nothing", amount: 30, weights: []int{50, 50}, caps: []int{0, 40}, want: []int{0, 30}},
		{name: "exactly at capacity", amount: 30, weights: []int{1, 9}, caps: []int{10, 20}, want: []int{10, 20}},
		{name: "over capacity", amount: 31, weights: []int{1, 9}, caps: []int{10, 20}, wantErr: errNoRoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := apportion(tt.amount, tt.weights, tt.caps)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("apportion() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("apportion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApportionConservesAmount(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		n := 1 + r.IntN(6)
		weights := make([]int, n)
		caps := make([]int, n)
		capacity := 0
		for k := range weights {
			weights[k] = 15 + r.IntN(600)
			caps[k] = r.IntN(300)
			capacity += caps[k]
		}
		amount := r.IntN(capacity + 1)

		got, err := apportion(amount, weights, caps)
		if err != nil {
			t.Fatalf("apportion(%d, %v, %v) error = %v", amount, weights, caps, err)
		}
		sum := 0
		for k, v := range got {
			if v < 0 || v > caps[k] {
				t.Fatalf("apportion(%d, %v, %v) = %v: share %d outside [0,%d]", amount, weights, caps, got, k, caps[k])
			}
			sum += v
		}
		if sum != amount {
			t.Fatalf("apportion(%d, %v, %v) = %v sums to %d", amount, weights, caps, got, sum)
		}
	}
}
