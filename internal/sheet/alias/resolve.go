package alias

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/louisbranch/rollkeeper/internal/core/arith"
)

// ScopeSeparator splits an optional profile name from the alias it scopes.
const ScopeSeparator = '\\'

var (
	// ErrUnknownAlias indicates an alias with no bound value.
	ErrUnknownAlias = errors.New("unknown alias")
	// ErrUnknownProfile indicates a scope naming a profile that does not exist.
	ErrUnknownProfile = errors.New("unknown profile")
)

// Lookup returns the value bound to canonical in the profile named by scope.
// An empty scope selects the caller's default profile.
type Lookup func(ctx context.Context, scope, canonical string) (int, error)

// Binding records one alias replaced during resolution.
type Binding struct {
	// Text is the matched input, including any scope prefix.
	Text      string
	Scope     string
	Canonical string
	Value     int
}

// Resolution is the outcome of resolving an alias expression.
type Resolution struct {
	Input string
	// Display is the input with every alias replaced by its canonical name.
	Display string
	// Expression is the numeric expression handed to the arithmetic evaluator.
	Expression string
	Value      arith.Value
	Bindings   []Binding
}

// Resolver rewrites alias expressions using a Table.
type Resolver struct {
	table *Table
}

// NewResolver returns a Resolver backed by table, or by Default when nil.
func NewResolver(table *Table) *Resolver {
	if table == nil {
		table = Default()
	}
	return &Resolver{table: table}
}

// Table returns the table backing the resolver.
func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve replaces every alias in text with the value returned by lookup and
// evaluates the result. Text that is not an alias is kept as written, so any
// leftover word fails arithmetic evaluation.
func (r *Resolver) Resolve(ctx context.Context, text string, lookup Lookup) (Resolution, error) {
	if lookup == nil {
		return Resolution{}, errors.New("alias lookup is required")
	}
	tokens := tokenize(text)

	var display, expression strings.Builder
	var bindings []Binding
	for i := 0; i < len(tokens); {
		ref, end, ok, err := r.reference(tokens, i)
		if err != nil {
			return Resolution{}, err
		}
		if !ok {
			display.WriteString(tokens[i].text)
			expression.WriteString(tokens[i].text)
			i++
			continue
		}
		if err := ctx.Err(); err != nil {
			return Resolution{}, err
		}
		value, err := lookup(ctx, ref.scope, ref.canonical)
		if err != nil {
			return Resolution{}, fmt.Errorf("%s: %w", ref.text, err)
		}
		display.WriteString(ref.display())
		expression.WriteString("(" + strconv.Itoa(value) + ")")
		bindings = append(bindings, Binding{
			Text:      ref.text,
			Scope:     ref.scope,
			Canonical: ref.canonical,
			Value:     value,
		})
		i = end
	}

	value, err := arith.Eval(expression.String())
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		Input:      text,
		Display:    display.String(),
		Expression: expression.String(),
		Value:      value,
		Bindings:   bindings,
	}, nil
}

// Target parses text that must consist of exactly one optionally scoped
// alias, such as "for" or "ana\força de vontade".
func (r *Resolver) Target(text string) (scope, canonical string, err error) {
	tokens := tokenize(strings.TrimSpace(text))
	if len(tokens) == 0 {
		return "", "", fmt.Errorf("%q: %w", text, ErrUnknownAlias)
	}
	ref, end, ok, err := r.reference(tokens, 0)
	if err != nil {
		return "", "", err
	}
	if !ok || end != len(tokens) {
		return "", "", fmt.Errorf("%q: %w", text, ErrUnknownAlias)
	}
	return ref.scope, ref.canonical, nil
}

type reference struct {
	text      string
	scope     string
	canonical string
}

func (ref reference) display() string {
	if ref.scope == "" {
		return ref.canonical
	}
	return ref.scope + string(ScopeSeparator) + ref.canonical
}

// reference matches a scoped or bare alias starting at tokens[i].
func (r *Resolver) reference(tokens []token, i int) (reference, int, bool, error) {
	if tokens[i].kind != tokWord {
		return reference{}, 0, false, nil
	}
	if i+1 < len(tokens) && tokens[i+1].kind == tokScope {
		if i+2 >= len(tokens) || tokens[i+2].kind != tokWord {
			return reference{}, 0, false, fmt.Errorf("%q: missing alias after profile: %w", tokens[i].text+string(ScopeSeparator), ErrUnknownAlias)
		}
		canonical, end, ok := r.table.match(tokens, i+2)
		if !ok {
			return reference{}, 0, false, fmt.Errorf("%q: %w", tokens[i+2].text, ErrUnknownAlias)
		}
		return reference{
			text:      joinTokens(tokens[i:end]),
			scope:     tokens[i].text,
			canonical: canonical,
		}, end, true, nil
	}
	canonical, end, ok := r.table.match(tokens, i)
	if !ok {
		return reference{}, 0, false, nil
	}
	return reference{text: joinTokens(tokens[i:end]), canonical: canonical}, end, true, nil
}

// match finds the longest synonym made of words starting at tokens[i].
// Words of a multi-word synonym may be separated by any whitespace.
func (t *Table) match(tokens []token, i int) (string, int, bool) {
	for n := t.maxWords; n >= 1; n-- {
		words := make([]string, 0, n)
		j := i
		for len(words) < n {
			if j >= len(tokens) || tokens[j].kind != tokWord {
				break
			}
			words = append(words, tokens[j].text)
			j++
			if len(words) < n {
				if j >= len(tokens) || tokens[j].kind != tokSpace {
					break
				}
				j++
			}
		}
		if len(words) != n {
			continue
		}
		if canonical, ok := t.keys[Normalize(strings.Join(words, " "))]; ok {
			return canonical, j, true
		}
	}
	return "", 0, false
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokSpace
	tokScope
	tokOther
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits s into words, whitespace runs, scope separators and runs
// of everything else. Words start with a letter or underscore.
func tokenize(s string) []token {
	var tokens []token
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		start := i
		switch {
		case r == ScopeSeparator:
			i += size
			tokens = append(tokens, token{kind: tokScope, text: s[start:i]})
		case isWordStart(r):
			i = scan(s, i, isWordPart)
			tokens = append(tokens, token{kind: tokWord, text: s[start:i]})
		case unicode.IsSpace(r):
			i = scan(s, i, unicode.IsSpace)
			tokens = append(tokens, token{kind: tokSpace, text: s[start:i]})
		default:
			i = scan(s, i, isOther)
			tokens = append(tokens, token{kind: tokOther, text: s[start:i]})
		}
	}
	return tokens
}

func scan(s string, i int, accept func(rune) bool) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !accept(r) {
			break
		}
		i += size
	}
	return i
}

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isWordPart(r rune) bool {
	return isWordStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isOther(r rune) bool {
	return r != ScopeSeparator && !isWordStart(r) && !unicode.IsSpace(r)
}

func joinTokens(tokens []token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.text)
	}
	return b.String()
}

// ValidProfileName reports whether name can be used as a scope prefix: a
// single word starting with a letter or underscore.
func ValidProfileName(name string) bool {
	tokens := tokenize(name)
	return len(tokens) == 1 && tokens[0].kind == tokWord
}
