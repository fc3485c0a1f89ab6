package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	ok := Program{
		{Op: CellDelta, Arg: 1},
		{Op: JumpIfZero, Arg: 6},
		{Op: JumpIfZero, Arg: 5},
		{Op: CellDelta, Arg: -1},
		{Op: JumpIfNonZero, Arg: 3},
		{Op: JumpIfNonZero, Arg: 2},
		{Op: SetCell, Arg: 0},
		{Op: MultiplyCell, Arg: -3},
		{Op: AddToOffset, Arg: -1},
	}

	require.NoError(t, ok.Check())
	require.NoError(t, Program{}.Check())

	for _, tc := range []struct {
		P     Program
		Index int
		Jump  bool
	}{
		{P: Program{{Op: CellDelta}}, Index: 0},
		{P: Program{{Op: PointerShift}}, Index: 0},
		{P: Program{{Op: Output, Arg: -1}}, Index: 0},
		{P: Program{{Op: CellDelta, Arg: 1}, {Op: Input}}, Index: 1},
		{P: Program{{Op: Invalid}}, Index: 0},
		{P: Program{{Op: JumpIfZero, Arg: 1}}, Index: 0, Jump: true},
		{P: Program{{Op: JumpIfNonZero, Arg: 0}}, Index: 0, Jump: true},
		{P: Program{{Op: JumpIfZero, Arg: 3}, {Op: JumpIfNonZero, Arg: 1}}, Index: 0, Jump: true},
		{P: Program{{Op: JumpIfZero, Arg: 2}, {Op: JumpIfNonZero, Arg: 0}}, Index: 1, Jump: true},
	} {
		err := tc.P.Check()

		if tc.Jump {
			var je *JumpError
			require.ErrorAs(t, err, &je, "prog %v", tc.P)
			assert.Equal(t, tc.Index, je.Index, "prog %v", tc.P)

			continue
		}

		var oe *OperandError
		require.ErrorAs(t, err, &oe, "prog %v", tc.P)
		assert.Equal(t, tc.Index, oe.Index, "prog %v", tc.P)
	}
}

func TestOpStrings(t *testing.T) {
	assert.Equal(t, "delta", CellDelta.String())
	assert.Equal(t, "addto", AddToOffset.String())
	assert.Equal(t, "op(42)", Op(42).String())
	assert.Equal(t, "jz 7", Instr{Op: JumpIfZero, Arg: 7}.String())

	for _, tc := range []struct {
		Op  Op
		Arg int
		C   byte
	}{
		{CellDelta, 3, '+'},
		{CellDelta, -3, '-'},
		{PointerShift, 1, '>'},
		{PointerShift, -1, '<'},
		{Input, 1, ','},
		{Output, 2, '.'},
		{JumpIfZero, 9, '['},
		{JumpIfNonZero, 1, ']'},
	} {
		c, ok := tc.Op.Brainfuck(tc.Arg)
		assert.True(t, ok)
		assert.Equal(t, tc.C, c, "%v %d", tc.Op, tc.Arg)
	}

	for _, op := range []Op{SetCell, MultiplyCell, AddToOffset} {
		_, ok := op.Brainfuck(0)
		assert.False(t, ok)
		assert.True(t, op.Compound())
	}

	assert.False(t, CellDelta.Compound())
}

func TestEqual(t *testing.T) {
	p := Program{{Op: CellDelta, Arg: 1}}

	assert.True(t, p.Equal(Program{{Op: CellDelta, Arg: 1}}))
	assert.False(t, p.Equal(Program{{Op: CellDelta, Arg: 2}}))
	assert.False(t, p.Equal(nil))
	assert.True(t, Program{}.Equal(nil))
}
