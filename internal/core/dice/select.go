package dice

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidSelection indicates a non-positive or non-integral keep count.
var ErrInvalidSelection = errors.New("invalid keep selection")

// OverlapPolicy controls keep-high/keep-low selection when both bounds are
// present and together cover every die.
type OverlapPolicy int

const (
	// OverlapIndependent takes both selections independently from the sorted
	// rolls, so a die can be kept twice and nothing is dropped.
	OverlapIndependent OverlapPolicy = iota
	// OverlapClamp limits the high selection to the dice left after the low
	// selection, so every die is kept at most once.
	OverlapClamp
)

// Selection is the outcome of applying keep rules to a roll.
type Selection struct {
	// Applied reports whether any keep rule was present.
	Applied bool
	// Kept lists the kept low values ascending, then the kept high values ascending.
	Kept []int
	// Dropped lists the discarded values in roll order.
	Dropped []int
}

// Select applies keep-low and keep-high rules to raw.
func Select(raw []int, keepHigh, keepLow *int, policy OverlapPolicy) (Selection, error) {
	if keepHigh == nil && keepLow == nil {
		return Selection{Kept: slices.Clone(raw), Dropped: []int{}}, nil
	}
	if keepLow != nil && *keepLow <= 0 {
		return Selection{}, fmt.Errorf("keep low %d: %w", *keepLow, ErrInvalidSelection)
	}
	if keepHigh != nil && *keepHigh <= 0 {
		return Selection{}, fmt.Errorf("keep high %d: %w", *keepHigh, ErrInvalidSelection)
	}

	sorted := slices.Clone(raw)
	slices.Sort(sorted)
	n := len(sorted)

	low := 0
	if keepLow != nil {
		low = min(*keepLow, n)
	}
	high := 0
	if keepHigh != nil {
		high = min(*keepHigh, n)
		if policy == OverlapClamp {
			high = min(high, n-low)
		}
	}

	kept := make([]int, 0, low+high)
	kept = append(kept, sorted[:low]...)
	kept = append(kept, sorted[n-high:]...)

	var band []int
	if low < n-high {
		band = sorted[low : n-high]
	}
	return Selection{
		Applied: true,
		Kept:    kept,
		Dropped: inRollOrder(raw, band),
	}, nil
}

// inRollOrder returns the values of band ordered as they appear in raw.
func inRollOrder(raw, band []int) []int {
	remaining := make(map[int]int, len(band))
	for _, v := range band {
		remaining[v]++
	}
	out := make([]int, 0, len(band))
	for _, v := range raw {
		if remaining[v] > 0 {
			remaining[v]--
			out = append(out, v)
		}
	}
	return out
}
