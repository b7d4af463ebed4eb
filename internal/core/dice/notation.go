package dice

import (
	"fmt"

	"github.com/louisbranch/rollkeeper/internal/core/arith"
)

// Term is one dice term found in an expression, such as "4d6kh3".
type Term struct {
	// Text is the term exactly as written in the input.
	Text string
	// Start and End are the byte offsets of Text in the input.
	Start int
	End   int

	CountExpr    arith.Node
	FacesExpr    arith.Node
	KeepHighExpr arith.Node
	KeepLowExpr  arith.Node

	Count    int
	Faces    int
	KeepHigh *int
	KeepLow  *int
}

// Match pairs a term with the literal text between it and the previous term.
type Match struct {
	Prefix string
	Term   Term
}

// Scan finds every dice term in text, left to right and without overlap.
// Terms follow COUNT "d" FACES ["kh" N] ["kl" N], case-insensitively, where
// each field is either an unsigned integer or a parenthesized arithmetic
// expression. The text after the last term is returned as suffix. Any invalid
// term aborts the whole scan.
func Scan(text string) (matches []Match, suffix string, err error) {
	last := 0
	for i := 0; i < len(text); {
		end, fields, ok := matchTerm(text, i)
		if !ok {
			i++
			continue
		}
		term, err := buildTerm(text, i, end, fields)
		if err != nil {
			return nil, "", err
		}
		matches = append(matches, Match{Prefix: text[last:i], Term: term})
		last = end
		i = end
	}
	return matches, text[last:], nil
}

type termFields struct {
	count    string
	faces    string
	keepHigh string
	keepLow  string
}

func matchTerm(text string, start int) (int, termFields, bool) {
	count, next, ok := scanField(text, start)
	if !ok || next >= len(text) || lower(text[next]) != 'd' {
		return 0, termFields{}, false
	}
	faces, next, ok := scanField(text, next+1)
	if !ok {
		return 0, termFields{}, false
	}
	fields := termFields{count: count, faces: faces}
	if value, after, ok := scanKeep(text, next, 'h'); ok {
		fields.keepHigh = value
		next = after
	}
	if value, after, ok := scanKeep(text, next, 'l'); ok {
		fields.keepLow = value
		next = after
	}
	return next, fields, true
}

func scanKeep(text string, start int, which byte) (string, int, bool) {
	if start+1 >= len(text) || lower(text[start]) != 'k' || lower(text[start+1]) != which {
		return "", 0, false
	}
	return scanField(text, start+2)
}

// scanField reads a digit run or a balanced parenthesized group made only of
// digits, operators and parentheses.
func scanField(text string, start int) (string, int, bool) {
	if start >= len(text) {
		return "", 0, false
	}
	if isDigit(text[start]) {
		end := start
		for end < len(text) && isDigit(text[end]) {
			end++
		}
		return text[start:end], end, true
	}
	if text[start] != '(' {
		return "", 0, false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				if i == start+1 {
					return "", 0, false
				}
				return text[start : i+1], i + 1, true
			}
		case isDigit(c) || c == '+' || c == '-' || c == '*' || c == '/':
		default:
			return "", 0, false
		}
	}
	return "", 0, false
}

func buildTerm(text string, start, end int, fields termFields) (Term, error) {
	term := Term{Text: text[start:end], Start: start, End: end}

	var err error
	var count arith.Value
	term.CountExpr, count, err = evalField(fields.count)
	if err != nil {
		return Term{}, fmt.Errorf("term %q: %w", term.Text, err)
	}
	if term.Count, err = count.Int(); err != nil || term.Count <= 0 {
		return Term{}, fmt.Errorf("term %q: count %s: %w", term.Text, count, ErrInvalidDiceCount)
	}

	var faces arith.Value
	term.FacesExpr, faces, err = evalField(fields.faces)
	if err != nil {
		return Term{}, fmt.Errorf("term %q: %w", term.Text, err)
	}
	if term.Faces, err = faces.Int(); err != nil || term.Faces <= 0 {
		return Term{}, fmt.Errorf("term %q: faces %s: %w", term.Text, faces, ErrInvalidFaceCount)
	}

	if fields.keepHigh != "" {
		term.KeepHighExpr, term.KeepHigh, err = keepField(fields.keepHigh)
		if err != nil {
			return Term{}, fmt.Errorf("term %q: keep high: %w", term.Text, err)
		}
	}
	if fields.keepLow != "" {
		term.KeepLowExpr, term.KeepLow, err = keepField(fields.keepLow)
		if err != nil {
			return Term{}, fmt.Errorf("term %q: keep low: %w", term.Text, err)
		}
	}
	return term, nil
}

func evalField(field string) (arith.Node, arith.Value, error) {
	node, err := arith.Parse(field)
	if err != nil {
		return nil, arith.Value{}, err
	}
	value, err := arith.Evaluate(node)
	if err != nil {
		return nil, arith.Value{}, err
	}
	return node, value, nil
}

func keepField(field string) (arith.Node, *int, error) {
	node, value, err := evalField(field)
	if err != nil {
		return nil, nil, err
	}
	n, err := value.Int()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", value, ErrInvalidSelection)
	}
	return node, &n, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
