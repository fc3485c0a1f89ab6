package opt

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/bfc/compiler/ir"
)

// Optimize rewrites clear loops and multiply-move loops into compound instructions.
// Remaining brackets are re-resolved against the new indexes.
// A program failing ir.Program.Check is returned as is.
func Optimize(ctx context.Context, p ir.Program) ir.Program {
	tr := tlog.SpanFromContext(ctx)

	if err := p.Check(); err != nil {
		tr.Printw("skip optimization", "err", err)
		return p
	}

	q := make(ir.Program, 0, len(p))

	var stack []int

	for i := 0; i < len(p); {
		x := p[i]

		switch x.Op {
		case ir.JumpIfZero:
			if r, n := idiom(p, i); n != 0 {
				tr.V("opt").Printw("rewrite loop", "at", i, "instrs", n, "to", r)

				q = append(q, r...)
				i += n

				continue
			}

			stack = append(stack, len(q))
			q = append(q, ir.Instr{Op: ir.JumpIfZero})
		case ir.JumpIfNonZero:
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			q = append(q, ir.Instr{Op: ir.JumpIfNonZero, Arg: open + 1})
			q[open].Arg = len(q)
		default:
			q = append(q, x)
		}

		i++
	}

	tr.V("opt").Printw("optimized", "before", len(p), "after", len(q))

	return q
}

// idiom matches the loop starting at i.
// It returns the replacement and the number of instructions it replaces.
func idiom(p ir.Program, i int) ([]ir.Instr, int) {
	end := p[i].Arg
	body := p[i+1 : end-1]

	switch len(body) {
	case 1: // [-]
		if body[0] == (ir.Instr{Op: ir.CellDelta, Arg: -1}) {
			return []ir.Instr{
				{Op: ir.SetCell, Arg: 0},
			}, end - i
		}
	case 4: // [>+<-]
		if body[0].Op == ir.PointerShift &&
			body[1].Op == ir.CellDelta &&
			body[2].Op == ir.PointerShift &&
			body[3].Op == ir.CellDelta &&
			body[0].Arg == -body[2].Arg &&
			body[1].Arg > 0 &&
			body[3].Arg == -1 {
			return []ir.Instr{
				{Op: ir.MultiplyCell, Arg: body[1].Arg},
				{Op: ir.AddToOffset, Arg: body[0].Arg},
				{Op: ir.SetCell, Arg: 0},
			}, end - i
		}
	}

	return nil, 0
}
