package arith

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrDivisionByZero indicates a division whose right operand evaluated to zero.
var ErrDivisionByZero = errors.New("division by zero")

// Evaluate computes the exact value of node.
func Evaluate(node Node) (Value, error) {
	r, err := eval(node)
	if err != nil {
		return Value{}, err
	}
	return Value{rat: r}, nil
}

// Eval parses and evaluates text.
func Eval(text string) (Value, error) {
	node, err := Parse(text)
	if err != nil {
		return Value{}, err
	}
	value, err := Evaluate(node)
	if err != nil {
		return Value{}, fmt.Errorf("evaluate %q: %w", text, err)
	}
	return value, nil
}

func eval(node Node) (*big.Rat, error) {
	switch n := node.(type) {
	case *Literal:
		return new(big.Rat).SetInt(n.Value), nil
	case *Unary:
		operand, err := eval(n.Operand)
		if err != nil {
			return nil, err
		}
		if n.Op == OpNegate {
			return operand.Neg(operand), nil
		}
		return operand, nil
	case *Binary:
		left, err := eval(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := eval(n.Right)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case OpAdd:
			return left.Add(left, right), nil
		case OpSub:
			return left.Sub(left, right), nil
		case OpMul:
			return left.Mul(left, right), nil
		case OpDiv:
			if right.Sign() == 0 {
				return nil, ErrDivisionByZero
			}
			return left.Quo(left, right), nil
		}
		return nil, fmt.Errorf("operator %s: %w", n.Op, ErrUnsupportedConstruct)
	default:
		return nil, fmt.Errorf("node %T: %w", node, ErrUnsupportedConstruct)
	}
}
