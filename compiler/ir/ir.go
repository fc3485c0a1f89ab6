package ir

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	Op int

	Instr struct {
		Op  Op
		Arg int
	}

	Program []Instr

	// JumpError reports a bracket whose operand doesn't point at its pair.
	JumpError struct {
		Index int
		Op    Op
		Arg   int
	}

	OperandError struct {
		Index int
		Op    Op
		Arg   int
	}
)

const (
	Invalid Op = iota

	CellDelta     // +- : add Arg to the current cell
	PointerShift  // >< : add Arg to the pointer
	Input         // ,  : read Arg bytes
	Output        // .  : write the current cell Arg times
	JumpIfZero    // [  : Arg is the index after the matching ]
	JumpIfNonZero // ]  : Arg is the index after the matching [

	SetCell      // cell = Arg
	MultiplyCell // cell *= Arg
	AddToOffset  // cell[ptr+Arg] += cell
)

var names = [...]string{
	Invalid:       "invalid",
	CellDelta:     "delta",
	PointerShift:  "shift",
	Input:         "in",
	Output:        "out",
	JumpIfZero:    "jz",
	JumpIfNonZero: "jnz",
	SetCell:       "set",
	MultiplyCell:  "mul",
	AddToOffset:   "addto",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(names) {
		return fmt.Sprintf("op(%d)", int(op))
	}

	return names[op]
}

// Compound reports whether op can only be produced by the optimizer.
func (op Op) Compound() bool {
	return op == SetCell || op == MultiplyCell || op == AddToOffset
}

// Brainfuck returns the source operator for a base op
// given the sign of its operand.
func (op Op) Brainfuck(arg int) (byte, bool) {
	switch op {
	case CellDelta:
		if arg < 0 {
			return '-', true
		}

		return '+', true
	case PointerShift:
		if arg < 0 {
			return '<', true
		}

		return '>', true
	case Input:
		return ',', true
	case Output:
		return '.', true
	case JumpIfZero:
		return '[', true
	case JumpIfNonZero:
		return ']', true
	}

	return 0, false
}

func (x Instr) String() string {
	return fmt.Sprintf("%v %d", x.Op, x.Arg)
}

func (x Instr) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 2)

	b = e.AppendString(b, "op")
	b = e.AppendString(b, x.Op.String())
	b = e.AppendKeyInt(b, "arg", x.Arg)

	return b
}

// Check verifies that every bracket is paired with its resolved target
// and that run-length operands are non-zero.
func (p Program) Check() error {
	var stack []int

	for i, x := range p {
		switch x.Op {
		case CellDelta, PointerShift:
			if x.Arg == 0 {
				return &OperandError{Index: i, Op: x.Op, Arg: x.Arg}
			}
		case Input, Output:
			if x.Arg <= 0 {
				return &OperandError{Index: i, Op: x.Op, Arg: x.Arg}
			}
		case JumpIfZero:
			stack = append(stack, i)
		case JumpIfNonZero:
			if len(stack) == 0 {
				return &JumpError{Index: i, Op: x.Op, Arg: x.Arg}
			}

			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if p[open].Arg != i+1 {
				return &JumpError{Index: open, Op: p[open].Op, Arg: p[open].Arg}
			}

			if x.Arg != open+1 {
				return &JumpError{Index: i, Op: x.Op, Arg: x.Arg}
			}
		case SetCell, MultiplyCell, AddToOffset:
		default:
			return &OperandError{Index: i, Op: x.Op, Arg: x.Arg}
		}
	}

	if l := len(stack); l != 0 {
		open := stack[l-1]

		return &JumpError{Index: open, Op: p[open].Op, Arg: p[open].Arg}
	}

	return nil
}

// Equal reports whether two programs are instruction-wise identical.
func (p Program) Equal(q Program) bool {
	if len(p) != len(q) {
		return false
	}

	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}

	return true
}

func (e *JumpError) Error() string {
	return fmt.Sprintf("unmatched %v at %d (target %d)", e.Op, e.Index, e.Arg)
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("bad operand for %v at %d: %d", e.Op, e.Index, e.Arg)
}
