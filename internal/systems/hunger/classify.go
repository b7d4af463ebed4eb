package hunger

import (
	"fmt"

	"github.com/louisbranch/rollkeeper/internal/core/check"
	"github.com/louisbranch/rollkeeper/internal/core/dice"
)

// criticalBonus is added for every pair of 10s on top of their base successes.
const criticalBonus = 4

// Classify counts the successes of a pool roll and selects its outcome.
//
// Every die showing 6 or more is one success, each matched pair of 10s across
// both pools adds criticalBonus, and PriorSuccesses is added last. When the
// tally meets the difficulty the roll is a standard critical, a messy critical
// or a standard win, in that order. Otherwise a hunger die showing 1 makes the
// failure bestial, a standard die showing 1 makes it total, and anything else
// is a standard failure.
func Classify(request Request, rules Rules) (Result, error) {
	if request.Difficulty < 0 || request.Difficulty > MaxSuccesses {
		return Result{}, ErrInvalidDifficulty
	}
	if request.PriorSuccesses < 0 || request.PriorSuccesses > MaxSuccesses {
		return Result{}, ErrInvalidPriorSuccesses
	}
	if len(request.Standard)+len(request.Special) > MaxPool {
		return Result{}, fmt.Errorf("%d pool dice: %w", len(request.Standard)+len(request.Special), dice.ErrTooManyDice)
	}
	if err := validateDice(request.Standard); err != nil {
		return Result{}, err
	}
	if err := validateDice(request.Special); err != nil {
		return Result{}, err
	}

	result := Result{
		Standard:          request.Standard,
		Special:           request.Special,
		Difficulty:        request.Difficulty,
		PriorSuccesses:    request.PriorSuccesses,
		StandardCriticals: countEqual(request.Standard, Faces),
		SpecialCriticals:  countEqual(request.Special, Faces),
		BestialFailures:   countEqual(request.Special, 1),
		TotalFailures:     countEqual(request.Standard, 1),
		BaseSuccesses:     countAtLeast(request.Standard, 6) + countAtLeast(request.Special, 6),
	}
	combined := result.StandardCriticals + result.SpecialCriticals
	result.CriticalPairs = combined / 2
	result.Successes = result.BaseSuccesses + criticalBonus*result.CriticalPairs + request.PriorSuccesses

	outcome := check.Against(result.Successes, request.Difficulty)
	result.MeetsDifficulty = outcome.Success
	result.Margin = outcome.Margin
	result.Outcome = selectOutcome(result, rules)
	return result, nil
}

func selectOutcome(r Result, rules Rules) Outcome {
	combined := r.StandardCriticals + r.SpecialCriticals
	if r.MeetsDifficulty {
		switch {
		case combined >= 2 && r.StandardCriticals >= rules.standardTensRequired():
			return OutcomeStandardCritical
		case combined >= 2 && r.SpecialCriticals >= 1:
			return OutcomeMessyCritical
		default:
			return OutcomeStandardWin
		}
	}
	switch {
	case r.BestialFailures >= 1:
		return OutcomeBestialFailure
	case r.TotalFailures >= 1:
		return OutcomeTotalFailure
	default:
		return OutcomeStandardFailure
	}
}

func validateDice(values []int) error {
	for _, v := range values {
		if v < 1 || v > Faces {
			return ErrInvalidDie
		}
	}
	return nil
}

func countEqual(values []int, target int) int {
	n := 0
	for _, v := range values {
		if v == target {
			n++
		}
	}
	return n
}

func countAtLeast(values []int, min int) int {
	n := 0
	for _, v := range values {
		if v >= min {
			n++
		}
	}
	return n
}
