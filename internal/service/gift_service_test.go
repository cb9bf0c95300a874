package service

import (
	"testing"
)

func TestSplitGiftCost(t *testing.T) {
	cases := []struct {
		cost       int64
		share      int64
		commission int64
	}{
		{100, 70, 30},
		{40, 28, 12},
		{99, 69, 30},
		{10, 7, 3},
		{1, 0, 1},
		{2999, 2099, 900},
	}

	for _, tc := range cases {
		share, commission := splitGiftCost(tc.cost)
		if share != tc.share || commission != tc.commission {
			t.Errorf("splitGiftCost(%d) = %d, %d; want %d, %d",
				tc.cost, share, commission, tc.share, tc.commission)
		}
	}
}

// The two halves must always add back up to the debited cost, otherwise
// coins would leak into or out of the closed loop.
func TestSplitGiftCost_Conservation(t *testing.T) {
	for cost := int64(1); cost <= 5000; cost++ {
		share, commission := splitGiftCost(cost)
		if share+commission != cost {
			t.Fatalf("cost %d split into %d + %d", cost, share, commission)
		}
		if share < 0 || commission < 0 {
			t.Fatalf("cost %d produced a negative part: %d, %d", cost, share, commission)
		}
	}
}
