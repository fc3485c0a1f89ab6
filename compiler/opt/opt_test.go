package opt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/bfc/compiler/ir"
	"github.com/slowlang/bfc/compiler/parse"
)

func parsed(t *testing.T, src string) ir.Program {
	t.Helper()

	p, err := parse.Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	return p
}

func TestClearLoop(t *testing.T) {
	q := Optimize(context.Background(), parsed(t, "+[-]."))

	assert.Equal(t, ir.Program{
		{Op: ir.CellDelta, Arg: 1},
		{Op: ir.SetCell, Arg: 0},
		{Op: ir.Output, Arg: 1},
	}, q)
}

func TestMultiplyMove(t *testing.T) {
	q := Optimize(context.Background(), parsed(t, "[>>+++<<-]"))

	assert.Equal(t, ir.Program{
		{Op: ir.MultiplyCell, Arg: 3},
		{Op: ir.AddToOffset, Arg: 2},
		{Op: ir.SetCell, Arg: 0},
	}, q)

	q = Optimize(context.Background(), parsed(t, "[<+>-]"))

	assert.Equal(t, ir.Program{
		{Op: ir.MultiplyCell, Arg: 1},
		{Op: ir.AddToOffset, Arg: -1},
		{Op: ir.SetCell, Arg: 0},
	}, q)
}

func TestNotIdioms(t *testing.T) {
	for _, src := range []string{
		"[--]",
		"[+]",
		"[>-<-]",   // decrementing target
		"[>+<<-]",  // unbalanced shifts
		"[>+<--]",  // counter step 2
		"[->+<]",   // counter first
		"[>+<-+]",  // longer body
		"[>[-]<-]", // nested
		"[]",
		"[.]",
	} {
		p := parsed(t, src)
		q := Optimize(context.Background(), p)

		if src == "[>[-]<-]" {
			assert.Len(t, q, len(p)-2, "src %q", src)
			continue
		}

		assert.Equal(t, p, q, "src %q", src)
	}
}

func TestJumpsResolved(t *testing.T) {
	p := parsed(t, "+[>[-]<[>+<-]-]>[<]")
	q := Optimize(context.Background(), p)

	require.NoError(t, q.Check())

	assert.Equal(t, ir.Program{
		{Op: ir.CellDelta, Arg: 1},      // 0
		{Op: ir.JumpIfZero, Arg: 10},    // 1
		{Op: ir.PointerShift, Arg: 1},   // 2
		{Op: ir.SetCell, Arg: 0},        // 3
		{Op: ir.PointerShift, Arg: -1},  // 4
		{Op: ir.MultiplyCell, Arg: 1},   // 5
		{Op: ir.AddToOffset, Arg: 1},    // 6
		{Op: ir.SetCell, Arg: 0},        // 7
		{Op: ir.CellDelta, Arg: -1},     // 8
		{Op: ir.JumpIfNonZero, Arg: 2},  // 9
		{Op: ir.PointerShift, Arg: 1},   // 10
		{Op: ir.JumpIfZero, Arg: 14},    // 11
		{Op: ir.PointerShift, Arg: -1},  // 12
		{Op: ir.JumpIfNonZero, Arg: 12}, // 13
	}, q)
}

func TestIdempotent(t *testing.T) {
	ctx := context.Background()

	for _, src := range []string{
		"",
		"[-]",
		"[[-]]",
		"[[>+<-]]",
		"++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.",
		"+[>[-]<[>+<-]-]>[<]",
	} {
		q := Optimize(ctx, parsed(t, src))
		r := Optimize(ctx, q)

		assert.True(t, q.Equal(r), "src %q", src)
	}
}

func TestInvalidInputUnchanged(t *testing.T) {
	p := ir.Program{
		{Op: ir.JumpIfZero, Arg: 3},
		{Op: ir.CellDelta, Arg: -1},
	}

	q := Optimize(context.Background(), p)

	assert.Equal(t, p, q)
}
