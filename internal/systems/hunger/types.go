// Package hunger classifies narrative d10 pool rolls in which some dice are
// drawn from a separate hunger pool.
package hunger

import "errors"

// Faces is the die size of every pool die.
const Faces = 10

const (
	// MaxPool bounds Pool and Hunger of a PoolRequest.
	MaxPool = 1_000_000
	// MaxSuccesses bounds Difficulty and PriorSuccesses, keeping every
	// tally well inside the int range.
	MaxSuccesses = 1_000_000
)

// Outcome represents the classification of a pool roll.
type Outcome int

const (
	OutcomeUnspecified Outcome = iota
	OutcomeStandardCritical
	OutcomeMessyCritical
	OutcomeStandardWin
	OutcomeBestialFailure
	OutcomeTotalFailure
	OutcomeStandardFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnspecified:
		return "Unspecified"
	case OutcomeStandardCritical:
		return "Standard critical"
	case OutcomeMessyCritical:
		return "Messy critical"
	case OutcomeStandardWin:
		return "Standard win"
	case OutcomeBestialFailure:
		return "Bestial failure"
	case OutcomeTotalFailure:
		return "Total failure"
	case OutcomeStandardFailure:
		return "Standard failure"
	default:
		return "Unknown"
	}
}

// Code returns a stable identifier for structured output.
func (o Outcome) Code() string {
	switch o {
	case OutcomeStandardCritical:
		return "STANDARD_CRITICAL"
	case OutcomeMessyCritical:
		return "MESSY_CRITICAL"
	case OutcomeStandardWin:
		return "STANDARD_WIN"
	case OutcomeBestialFailure:
		return "BESTIAL_FAILURE"
	case OutcomeTotalFailure:
		return "TOTAL_FAILURE"
	case OutcomeStandardFailure:
		return "STANDARD_FAILURE"
	default:
		return "UNSPECIFIED"
	}
}

// IsWin reports whether the outcome met the difficulty.
func (o Outcome) IsWin() bool {
	return o == OutcomeStandardCritical || o == OutcomeMessyCritical || o == OutcomeStandardWin
}

// IsCritical reports whether the outcome is either critical.
func (o Outcome) IsCritical() bool {
	return o == OutcomeStandardCritical || o == OutcomeMessyCritical
}

var (
	// ErrInvalidPool indicates a pool size below one.
	ErrInvalidPool = errors.New("pool must be at least 1")
	// ErrInvalidHunger indicates a negative hunger value.
	ErrInvalidHunger = errors.New("hunger must be non-negative")
	// ErrInvalidDifficulty indicates a difficulty outside 0..MaxSuccesses.
	ErrInvalidDifficulty = errors.New("difficulty must be between 0 and 1000000")
	// ErrInvalidPriorSuccesses indicates a carried success count outside
	// 0..MaxSuccesses.
	ErrInvalidPriorSuccesses = errors.New("prior successes must be between 0 and 1000000")
	// ErrInvalidDie indicates a pool die outside 1..10.
	ErrInvalidDie = errors.New("pool dice must be between 1 and 10")
)

// Rules selects between the critical rule variants.
type Rules struct {
	// CriticalRequiresPairOfStandardTens restores the older rule where a
	// standard critical needs two 10s in the standard pool. By default a
	// single standard 10 that completes a pair is enough.
	CriticalRequiresPairOfStandardTens bool
}

func (r Rules) standardTensRequired() int {
	if r.CriticalRequiresPairOfStandardTens {
		return 2
	}
	return 1
}

// Request describes a deterministic classification of already rolled dice.
type Request struct {
	Standard       []int
	Special        []int
	Difficulty     int
	PriorSuccesses int
}

// Result captures the classification and the counts it was derived from.
type Result struct {
	Standard       []int
	Special        []int
	Difficulty     int
	PriorSuccesses int

	StandardCriticals int
	SpecialCriticals  int
	BestialFailures   int
	TotalFailures     int

	// BaseSuccesses counts dice showing 6 or more in both pools.
	BaseSuccesses int
	// CriticalPairs is the number of matched pairs of 10s across both pools.
	CriticalPairs int
	Successes     int

	MeetsDifficulty bool
	// Margin is Successes minus Difficulty; negative when the roll failed.
	Margin  int
	Outcome Outcome
}

// Deficit returns the missing successes of a failed roll, or zero.
func (r Result) Deficit() int {
	if r.MeetsDifficulty {
		return 0
	}
	return -r.Margin
}

// PoolRequest describes a pool roll before any dice are drawn.
type PoolRequest struct {
	Pool           int
	Hunger         int
	Difficulty     int
	PriorSuccesses int
}

// RulesMetadata captures the ruleset semantics for pool roll interpretation.
type RulesMetadata struct {
	System         string
	Module         string
	RulesVersion   string
	DiceModel      string
	SuccessFormula string
	CritRule       string
	DifficultyRule string
	Outcomes       []Outcome
}

// ExplainStep represents a deterministic evaluation step.
type ExplainStep struct {
	Code    string
	Message string
	Data    map[string]any
}

// ExplainResult captures the classification alongside its evaluation steps.
type ExplainResult struct {
	Result
	RulesVersion string
	Steps        []ExplainStep
}
