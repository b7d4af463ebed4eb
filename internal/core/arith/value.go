package arith

import (
	"errors"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrNotInteger indicates a value that is not a representable integer.
var ErrNotInteger = errors.New("value is not an integer")

// Value is an exact rational result. The zero Value is 0.
type Value struct {
	rat *big.Rat
}

// IntValue returns the Value for n.
func IntValue(n int64) Value {
	return Value{rat: new(big.Rat).SetInt64(n)}
}

// SumInts returns the exact sum of values.
func SumInts(values []int) Value {
	total, n := new(big.Int), new(big.Int)
	for _, v := range values {
		total.Add(total, n.SetInt64(int64(v)))
	}
	return Value{rat: new(big.Rat).SetInt(total)}
}

func (v Value) value() *big.Rat {
	if v.rat == nil {
		return new(big.Rat)
	}
	return v.rat
}

// Rat returns a copy of the underlying rational.
func (v Value) Rat() *big.Rat {
	return new(big.Rat).Set(v.value())
}

// IsInt reports whether the value is integral.
func (v Value) IsInt() bool {
	return v.value().IsInt()
}

// Sign returns -1, 0 or +1.
func (v Value) Sign() int {
	return v.value().Sign()
}

// Cmp compares v with other.
func (v Value) Cmp(other Value) int {
	return v.value().Cmp(other.value())
}

// Int returns the value as an int. It fails with ErrNotInteger when the value
// is fractional or outside the int range.
func (v Value) Int() (int, error) {
	r := v.value()
	if !r.IsInt() {
		return 0, ErrNotInteger
	}
	num := r.Num()
	if !num.IsInt64() {
		return 0, ErrNotInteger
	}
	n := num.Int64()
	if n > math.MaxInt || n < math.MinInt {
		return 0, ErrNotInteger
	}
	return int(n), nil
}

// String formats integers without a fractional part, terminating fractions as
// their exact decimal expansion and other fractions as num/den.
func (v Value) String() string {
	r := v.value()
	if r.IsInt() {
		return r.Num().String()
	}
	digits, ok := terminatingDigits(r.Denom())
	if !ok {
		return r.RatString()
	}
	num := decimal.NewFromBigInt(r.Num(), 0)
	den := decimal.NewFromBigInt(r.Denom(), 0)
	return num.DivRound(den, int32(digits)).String()
}

// terminatingDigits reports whether 1/den has a finite decimal expansion and
// how many fractional digits it needs.
func terminatingDigits(den *big.Int) (int, bool) {
	rest := new(big.Int).Set(den)
	two, five := big.NewInt(2), big.NewInt(5)
	mod := new(big.Int)
	twos, fives := 0, 0
	for {
		q, m := new(big.Int).QuoRem(rest, two, mod)
		if m.Sign() != 0 {
			break
		}
		rest = q
		twos++
	}
	for {
		q, m := new(big.Int).QuoRem(rest, five, mod)
		if m.Sign() != 0 {
			break
		}
		rest = q
		fives++
	}
	if rest.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	return max(twos, fives), true
}
