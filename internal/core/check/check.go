// Package check compares success tallies against a difficulty.
package check

// Meets reports whether successes reach difficulty. A difficulty of zero is
// always met.
func Meets(successes, difficulty int) bool {
	return successes >= difficulty
}

// Margin returns successes minus difficulty. Negative values are a shortfall.
func Margin(successes, difficulty int) int {
	return successes - difficulty
}

// Result is the outcome of comparing a tally to a difficulty.
type Result struct {
	Success bool
	Margin  int
}

// Deficit returns how many successes were missing, or zero on success.
func (r Result) Deficit() int {
	if r.Success {
		return 0
	}
	return -r.Margin
}

// Against compares successes with difficulty.
func Against(successes, difficulty int) Result {
	return Result{
		Success: Meets(successes, difficulty),
		Margin:  Margin(successes, difficulty),
	}
}
