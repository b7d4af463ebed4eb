package arith

import "math/big"

// Op identifies an arithmetic operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpNegate
	OpIdentity
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpNegate:
		return "negate"
	case OpIdentity:
		return "identity"
	default:
		return "unknown"
	}
}

// Node is a parsed arithmetic expression. The interface is sealed: only the
// node kinds declared in this package implement it.
type Node interface {
	// Offset is the byte offset of the node in the parsed text.
	Offset() int
	node()
}

// Literal is an unsigned integer literal.
type Literal struct {
	Value *big.Int
	Pos   int
}

// Binary applies one of OpAdd, OpSub, OpMul or OpDiv.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
	Pos   int
}

// Unary applies OpNegate or OpIdentity.
type Unary struct {
	Op      Op
	Operand Node
	Pos     int
}

func (n *Literal) Offset() int { return n.Pos }
func (n *Binary) Offset() int  { return n.Pos }
func (n *Unary) Offset() int   { return n.Pos }

func (*Literal) node() {}
func (*Binary) node()  {}
func (*Unary) node()   {}
