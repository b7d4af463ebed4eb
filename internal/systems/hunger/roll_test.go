package hunger

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/louisbranch/rollkeeper/internal/core/dice"
)

type fixedSource struct {
	values []int
	next   int
}

func (s *fixedSource) Intn(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return (v - 1) % n
}

func TestRollSplitsPools(t *testing.T) {
	src := &fixedSource{values: []int{10, 4, 6, 10, 1}}
	got, err := Roll(src, PoolRequest{Pool: 5, Hunger: 2, Difficulty: 3}, Rules{})
	if err != nil {
		t.Fatalf("Roll returned error: %v", err)
	}
	if !reflect.DeepEqual(got.Standard, []int{10, 4, 6}) {
		t.Fatalf("standard = %v", got.Standard)
	}
	if !reflect.DeepEqual(got.Special, []int{10, 1}) {
		t.Fatalf("hunger = %v", got.Special)
	}
	if got.Outcome != OutcomeStandardCritical || got.Successes != 7 {
		t.Fatalf("outcome = %v successes = %d", got.Outcome, got.Successes)
	}
}

func TestRollHungerRaisesPool(t *testing.T) {
	got, err := Roll(dice.NewSource(7), PoolRequest{Pool: 2, Hunger: 4}, Rules{})
	if err != nil {
		t.Fatalf("Roll returned error: %v", err)
	}
	if len(got.Standard) != 0 || len(got.Special) != 4 {
		t.Fatalf("pools = %d/%d, want 0/4", len(got.Standard), len(got.Special))
	}
}

func TestRollDiceInRange(t *testing.T) {
	src := dice.NewLockedSource(dice.NewSource(99))
	for i := 0; i < 50; i++ {
		got, err := Roll(src, PoolRequest{Pool: 8, Hunger: 3}, Rules{})
		if err != nil {
			t.Fatalf("Roll returned error: %v", err)
		}
		for _, v := range append(append([]int{}, got.Standard...), got.Special...) {
			if v < 1 || v > Faces {
				t.Fatalf("die %d out of range", v)
			}
		}
	}
}

func TestRollSeededIsDeterministic(t *testing.T) {
	request := PoolRequest{Pool: 9, Hunger: 2, Difficulty: 4, PriorSuccesses: 1}
	first, err := RollSeeded(42, request, Rules{})
	if err != nil {
		t.Fatalf("RollSeeded returned error: %v", err)
	}
	second, err := RollSeeded(42, request, Rules{})
	if err != nil {
		t.Fatalf("RollSeeded returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("seeded rolls differ: %+v vs %+v", first, second)
	}
}

func TestRollRejectsInvalidRequest(t *testing.T) {
	tests := []struct {
		name    string
		request PoolRequest
		want    error
	}{
		{"zero pool", PoolRequest{Pool: 0}, ErrInvalidPool},
		{"negative hunger", PoolRequest{Pool: 3, Hunger: -1}, ErrInvalidHunger},
		{"negative difficulty", PoolRequest{Pool: 3, Difficulty: -1}, ErrInvalidDifficulty},
		{"negative prior", PoolRequest{Pool: 3, PriorSuccesses: -1}, ErrInvalidPriorSuccesses},
		{"prior over limit", PoolRequest{Pool: 3, PriorSuccesses: math.MaxInt}, ErrInvalidPriorSuccesses},
		{"difficulty over limit", PoolRequest{Pool: 3, Difficulty: MaxSuccesses + 1}, ErrInvalidDifficulty},
		{"pool over limit", PoolRequest{Pool: MaxPool + 1}, dice.ErrTooManyDice},
		{"hunger over limit", PoolRequest{Pool: 1, Hunger: 1 << 62}, dice.ErrTooManyDice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Roll(dice.NewSource(1), tt.request, Rules{}); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
