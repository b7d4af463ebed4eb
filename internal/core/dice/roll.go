package dice

import (
	"errors"
	"math/rand"
	"sync"
)

var (
	// ErrMissingDice indicates a roll request had no dice specified.
	ErrMissingDice = errors.New("at least one die must be provided")
	// ErrInvalidDiceSpec indicates a die specification has invalid fields.
	ErrInvalidDiceSpec = errors.New("dice must have positive sides and count")
	// ErrInvalidDiceCount indicates a dice term whose count is not a positive integer.
	ErrInvalidDiceCount = errors.New("invalid dice count")
	// ErrInvalidFaceCount indicates a dice term whose faces are not a positive integer.
	ErrInvalidFaceCount = errors.New("invalid face count")
)

// Source is the randomness provider for dice rolls.
type Source interface {
	// Intn returns a random int in [0, n). n must be positive.
	Intn(n int) int
}

// NewSource returns a deterministic source for seed. It is not safe for
// concurrent use; wrap it with NewLockedSource to share it.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// LockedSource serializes access to a shared Source.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

// NewLockedSource wraps src for concurrent use.
func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

// Intn draws one value under the lock.
func (s *LockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Intn(n)
}

// Batch holds the lock while fn draws a whole batch of values, so one roll
// is never interleaved with another request's draws.
func (s *LockedSource) Batch(fn func(Source)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.src)
}

type batcher interface {
	Batch(fn func(Source))
}

// Roll returns count values, each uniform over [1, faces].
func Roll(src Source, count, faces int) ([]int, error) {
	if count <= 0 {
		return nil, ErrInvalidDiceCount
	}
	if faces <= 0 {
		return nil, ErrInvalidFaceCount
	}
	results := make([]int, count)
	fill := func(s Source) {
		for i := range results {
			results[i] = rollDie(s, faces)
		}
	}
	if b, ok := src.(batcher); ok {
		b.Batch(fill)
	} else {
		fill(src)
	}
	return results, nil
}

// Spec describes a die to roll and how many times to roll it.
type Spec struct {
	Sides int
	Count int
}

// Request describes a seeded request to roll one or more dice.
type Request struct {
	Dice []Spec
	Seed int64
}

// Result captures the results for a single dice spec.
type Result struct {
	Sides   int
	Results []int
	Total   int
}

// Batch captures the results from rolling multiple dice specs.
type Batch struct {
	Rolls []Result
	Total int
}

// RollDice rolls dice based on the provided request.
//
// # Determinism
//
// RollDice is deterministic with respect to the Seed field on Request.
// Given the same Seed and the same Dice slice (including order and values),
// RollDice will always produce the same Batch.
//
// # Ordering
//
// Dice specs in Request.Dice are processed in slice order and the entries of
// Batch.Rolls appear in the same order.
//
// # Errors
//
//   - At least one Spec must be provided, otherwise ErrMissingDice is returned.
//   - Each Spec must have Sides > 0 and Count > 0, otherwise
//     ErrInvalidDiceSpec is returned.
func RollDice(request Request) (Batch, error) {
	return RollWithSource(NewSource(request.Seed), request.Dice)
}

// RollWithSource rolls dice specs using a provided random source.
func RollWithSource(src Source, specs []Spec) (Batch, error) {
	if len(specs) == 0 {
		return Batch{}, ErrMissingDice
	}

	rolls := make([]Result, 0, len(specs))
	total := 0
	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return Batch{}, ErrInvalidDiceSpec
		}
		results, err := Roll(src, spec.Count, spec.Sides)
		if err != nil {
			return Batch{}, err
		}
		rollTotal := sum(results)
		rolls = append(rolls, Result{
			Sides:   spec.Sides,
			Results: results,
			Total:   rollTotal,
		})
		total += rollTotal
	}

	return Batch{
		Rolls: rolls,
		Total: total,
	}, nil
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(src Source, sides int) int {
	return src.Intn(sides) + 1
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
