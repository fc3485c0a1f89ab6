package back

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/bfc/compiler/ir"
)

type (
	// Compiler lowers ir programs to C source.
	Compiler struct{}
)

func New() *Compiler {
	return &Compiler{}
}

// Generate appends a C translation unit equivalent to p to b.
//
// Brackets become goto pairs. The labels are named by the brackets'
// resolved targets which are unique within a program.
func (c *Compiler) Generate(ctx context.Context, b []byte, p ir.Program) (_ []byte, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "back: generate c", "instrs", len(p))
	defer tr.Finish("err", &err)

	st := len(b)

	b = append(b, preamble...)
	b = append(b, mainHead...)

	var stack []int

	for i, x := range p {
		switch x.Op {
		case ir.CellDelta:
			b = fmt.Appendf(b, "    tape_update(&tape, %d);\n", x.Arg)
		case ir.PointerShift:
			b = fmt.Appendf(b, "    tape_shift(&tape, %d);\n", x.Arg)
		case ir.Input:
			b = fmt.Appendf(b, "    tape_in(&tape, %d);\n", x.Arg)
		case ir.Output:
			b = fmt.Appendf(b, "    tape_out(&tape, %d);\n", x.Arg)
		case ir.SetCell:
			b = fmt.Appendf(b, "    tape_assign(&tape, %d);\n", x.Arg)
		case ir.MultiplyCell:
			b = fmt.Appendf(b, "    tape_multiply(&tape, %d);\n", x.Arg)
		case ir.AddToOffset:
			b = fmt.Appendf(b, "    tape_add(&tape, %d);\n", x.Arg)
		case ir.JumpIfZero:
			stack = append(stack, i)

			b = fmt.Appendf(b, "    tape_jpf(&tape, jpf_%d);\n    jpb_%d:\n", x.Arg, i+1)
		case ir.JumpIfNonZero:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced jump at %d", i)
			}

			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if x.Arg != open+1 || p[open].Arg != i+1 {
				return nil, errors.New("mismatched jump at %d: %v and %v at %d", i, x, p[open], open)
			}

			b = fmt.Appendf(b, "    tape_jpb(&tape, jpb_%d);\n    jpf_%d:\n", x.Arg, p[open].Arg)
		default:
			return nil, errors.New("unsupported op at %d: %v", i, x.Op)
		}
	}

	if l := len(stack); l != 0 {
		return nil, errors.New("unbalanced jump at %d", stack[l-1])
	}

	b = append(b, mainTail...)

	tr.V("back").Printw("generated", "size", len(b)-st)

	return b, nil
}
