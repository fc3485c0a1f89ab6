package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/bfc/compiler/ir"
)

// Format appends an instruction listing of p to b.
// Loop bodies are indented by nesting depth.
func Format(ctx context.Context, b []byte, p ir.Program) ([]byte, error) {
	d := 0

	for i, x := range p {
		if x.Op == ir.JumpIfNonZero {
			if d == 0 {
				return nil, errors.New("unbalanced jump at %d", i)
			}

			d--
		}

		b = hfmt.Appendf(b, "%5d  ", i)
		b = app(b, d, "%-6v %d\n", x.Op, x.Arg)

		if x.Op == ir.JumpIfZero {
			d++
		}
	}

	if d != 0 {
		return nil, errors.New("%d unterminated loops", d)
	}

	return b, nil
}

// Brainfuck appends canonical Brainfuck source for p to b.
// SetCell 0 is written as a clear loop; other compound ops have no single form.
func Brainfuck(ctx context.Context, b []byte, p ir.Program) ([]byte, error) {
	for i, x := range p {
		if x.Op == ir.SetCell && x.Arg == 0 {
			b = append(b, "[-]"...)
			continue
		}

		if x.Op.Compound() {
			return nil, errors.New("unsupported op at %d: %v", i, x)
		}

		c, ok := x.Op.Brainfuck(x.Arg)
		if !ok {
			return nil, errors.New("unknown op at %d: %v", i, x)
		}

		n := x.Arg
		if n < 0 {
			n = -n
		}

		if x.Op == ir.JumpIfZero || x.Op == ir.JumpIfNonZero {
			n = 1
		}

		for j := 0; j < n; j++ {
			b = append(b, c)
		}
	}

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	for i := 0; i < d; i++ {
		b = append(b, "  "...)
	}

	b = hfmt.Appendf(b, f, args...)

	return b
}
