package hunger

import (
	"fmt"

	"github.com/louisbranch/rollkeeper/internal/core/dice"
)

type batcher interface {
	Batch(fn func(dice.Source))
}

// Roll draws Pool d10s, Hunger of them from the hunger pool, and classifies
// them. A hunger value larger than the pool raises the pool to match, so
// every die is a hunger die. Pools above MaxPool fail with
// dice.ErrTooManyDice before any die is drawn.
func Roll(src dice.Source, request PoolRequest, rules Rules) (Result, error) {
	if request.Pool <= 0 {
		return Result{}, ErrInvalidPool
	}
	if request.Hunger < 0 {
		return Result{}, ErrInvalidHunger
	}
	if request.Difficulty < 0 || request.Difficulty > MaxSuccesses {
		return Result{}, ErrInvalidDifficulty
	}
	if request.PriorSuccesses < 0 || request.PriorSuccesses > MaxSuccesses {
		return Result{}, ErrInvalidPriorSuccesses
	}

	pool := request.Pool
	if request.Hunger > pool {
		pool = request.Hunger
	}
	if pool > MaxPool {
		return Result{}, fmt.Errorf("pool of %d exceeds %d dice: %w", pool, MaxPool, dice.ErrTooManyDice)
	}

	var standard, special []int
	draw := func(s dice.Source) {
		standard = drawDice(s, pool-request.Hunger)
		special = drawDice(s, request.Hunger)
	}
	if b, ok := src.(batcher); ok {
		b.Batch(draw)
	} else {
		draw(src)
	}

	return Classify(Request{
		Standard:       standard,
		Special:        special,
		Difficulty:     request.Difficulty,
		PriorSuccesses: request.PriorSuccesses,
	}, rules)
}

// RollSeeded rolls with a source seeded from seed.
func RollSeeded(seed int64, request PoolRequest, rules Rules) (Result, error) {
	return Roll(dice.NewSource(seed), request, rules)
}

func drawDice(src dice.Source, count int) []int {
	values := make([]int, count)
	for i := range values {
		values[i] = src.Intn(Faces) + 1
	}
	return values
}
