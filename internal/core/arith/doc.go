// Package arith parses and evaluates the restricted arithmetic language used by
// dice notation and sheet queries.
//
// The language has integer literals, parentheses, the four binary operators and
// unary plus/minus. Every parse produces a tree built only from Literal, Binary
// and Unary nodes, and Evaluate is a total function over those kinds, so text
// coming from chat users can never reach anything but exact rational arithmetic.
package arith
