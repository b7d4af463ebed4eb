package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/rollkeeper/internal/core/arith"
)

// DefaultMaxDice bounds the dice rolled by one expression.
const DefaultMaxDice = 10000

// ErrTooManyDice indicates an expression that asks for more dice than allowed.
var ErrTooManyDice = errors.New("too many dice")

// TermResult records how one dice term was rolled and selected.
type TermResult struct {
	Text        string
	Count       int
	Faces       int
	KeepApplied bool
	Raw         []int
	Kept        []int
	Dropped     []int
	// Total is the exact sum of Kept.
	Total arith.Value
}

// ExpressionResult is the evaluated form of a dice expression.
type ExpressionResult struct {
	Input string
	// Expression is the input with every term replaced by the parenthesized
	// sum of its kept dice, e.g. "(3+5+6)+2".
	Expression string
	Value      arith.Value
	Terms      []TermResult
}

// DiceCount returns the number of dice rolled across all terms.
func (r ExpressionResult) DiceCount() int {
	total := 0
	for _, term := range r.Terms {
		total += len(term.Raw)
	}
	return total
}

// Evaluator rolls dice expressions against a Source.
type Evaluator struct {
	source  Source
	maxDice int
	overlap OverlapPolicy
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxDice overrides DefaultMaxDice.
func WithMaxDice(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxDice = n
		}
	}
}

// WithOverlapPolicy selects how overlapping keep rules are resolved.
func WithOverlapPolicy(policy OverlapPolicy) Option {
	return func(e *Evaluator) {
		e.overlap = policy
	}
}

// NewEvaluator returns an Evaluator drawing from src.
func NewEvaluator(src Source, opts ...Option) *Evaluator {
	e := &Evaluator{source: src, maxDice: DefaultMaxDice}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate rolls every dice term in text, rewrites each term as the sum of
// its kept dice and evaluates the resulting arithmetic expression.
func (e *Evaluator) Evaluate(text string) (ExpressionResult, error) {
	if e == nil || e.source == nil {
		return ExpressionResult{}, errors.New("dice evaluator is not configured")
	}
	matches, suffix, err := Scan(text)
	if err != nil {
		return ExpressionResult{}, err
	}

	requested := 0
	for _, m := range matches {
		if m.Term.Count > e.maxDice-requested {
			return ExpressionResult{}, fmt.Errorf("%q rolls more than %d dice: %w", text, e.maxDice, ErrTooManyDice)
		}
		requested += m.Term.Count
	}

	var b strings.Builder
	terms := make([]TermResult, 0, len(matches))
	for _, m := range matches {
		term := m.Term
		raw, err := Roll(e.source, term.Count, term.Faces)
		if err != nil {
			return ExpressionResult{}, fmt.Errorf("term %q: %w", term.Text, err)
		}
		selection, err := Select(raw, term.KeepHigh, term.KeepLow, e.overlap)
		if err != nil {
			return ExpressionResult{}, fmt.Errorf("term %q: %w", term.Text, err)
		}
		terms = append(terms, TermResult{
			Text:        term.Text,
			Count:       term.Count,
			Faces:       term.Faces,
			KeepApplied: selection.Applied,
			Raw:         raw,
			Kept:        selection.Kept,
			Dropped:     selection.Dropped,
			Total:       arith.SumInts(selection.Kept),
		})
		b.WriteString(m.Prefix)
		b.WriteString(sumLiteral(selection.Kept))
	}
	b.WriteString(suffix)

	expression := b.String()
	value, err := arith.Eval(expression)
	if err != nil {
		return ExpressionResult{}, err
	}
	return ExpressionResult{
		Input:      text,
		Expression: expression,
		Value:      value,
		Terms:      terms,
	}, nil
}

// sumLiteral renders values as "(a+b+c)".
func sumLiteral(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, "+") + ")"
}
