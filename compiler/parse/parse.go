package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/bfc/compiler/ir"
)

type (
	State struct {
		b []byte

		name string
	}

	// UnbalancedError is returned for a ] without an open [
	// or a [ that is never closed.
	UnbalancedError struct {
		Name string
		Pos  int
		Line int
		Col  int

		Close bool
	}
)

// ops maps source bytes to instruction kinds. Everything else is a comment.
var ops = [256]ir.Op{
	'+': ir.CellDelta,
	'-': ir.CellDelta,
	'>': ir.PointerShift,
	'<': ir.PointerShift,
	',': ir.Input,
	'.': ir.Output,
	'[': ir.JumpIfZero,
	']': ir.JumpIfNonZero,
}

var sign = [256]int{
	'+': 1,
	'-': -1,
	'>': 1,
	'<': -1,
	',': 1,
	'.': 1,
}

func ParseFile(ctx context.Context, name string) (ir.Program, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(data), "name", name)

	s := New(name, data)

	return s.Parse(ctx)
}

func Parse(ctx context.Context, text []byte) (ir.Program, error) {
	s := New("", text)

	return s.Parse(ctx)
}

func New(name string, text []byte) *State {
	return &State{
		b:    text,
		name: name,
	}
}

func (s *State) Parse(ctx context.Context) (p ir.Program, err error) {
	tr := tlog.SpanFromContext(ctx)

	p = make(ir.Program, 0, len(s.b)/2)

	var stack []int // open bracket instruction indexes
	var spos []int  // and their source offsets

	for i := 0; i < len(s.b); {
		c := s.b[i]
		op := ops[c]

		switch op {
		case ir.Invalid:
			i++
		case ir.JumpIfZero:
			stack = append(stack, len(p))
			spos = append(spos, i)

			p = append(p, ir.Instr{Op: ir.JumpIfZero})
			i++
		case ir.JumpIfNonZero:
			if len(stack) == 0 {
				return nil, s.unbalanced(i, true)
			}

			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			spos = spos[:len(spos)-1]

			p = append(p, ir.Instr{Op: ir.JumpIfNonZero, Arg: open + 1})
			p[open].Arg = len(p)
			i++
		default:
			n, end := s.run(i)

			p = append(p, ir.Instr{Op: op, Arg: sign[c] * n})
			i = end
		}
	}

	if l := len(spos); l != 0 {
		return nil, s.unbalanced(spos[l-1], false)
	}

	tr.V("parse").Printw("parsed", "name", s.name, "size", len(s.b), "instrs", len(p))

	return p, nil
}

// run counts the same operator starting at st.
// Non-operator bytes inside the run are skipped.
func (s *State) run(st int) (n, i int) {
	c := s.b[st]

	for i = st; i < len(s.b); i++ {
		switch {
		case s.b[i] == c:
			n++
		case ops[s.b[i]] == ir.Invalid:
		default:
			return n, i
		}
	}

	return n, i
}

func (s *State) unbalanced(pos int, closing bool) error {
	line, col := s.LineCol(pos)

	return &UnbalancedError{
		Name:  s.name,
		Pos:   pos,
		Line:  line,
		Col:   col,
		Close: closing,
	}
}

// LineCol converts a byte offset into 1-based line and column.
func (s *State) LineCol(pos int) (line, col int) {
	pre := s.b[:pos]

	line = 1 + bytes.Count(pre, []byte{'\n'})
	col = pos - bytes.LastIndexByte(pre, '\n')

	return
}

func (e *UnbalancedError) Error() string {
	what := "unterminated ["
	if e.Close {
		what = "unexpected ]"
	}

	name := e.Name
	if name == "" {
		name = "<input>"
	}

	return fmt.Sprintf("unbalanced jump: %v at %v:%d:%d", what, name, e.Line, e.Col)
}
