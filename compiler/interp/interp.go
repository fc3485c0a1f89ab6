package interp

import (
	"bufio"
	"context"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/bfc/compiler/ir"
	"github.com/slowlang/bfc/compiler/tape"
)

type (
	Interpreter struct {
		TapeSize int

		// Profile collects loop iteration counts if set.
		Profile *Profile
	}

	state struct {
		t *tape.Tape
		r io.ByteReader
		w *bufio.Writer
	}
)

func New() *Interpreter {
	return &Interpreter{
		TapeSize: tape.DefaultSize,
	}
}

// Run executes p reading from r and writing to w.
// It returns on the end of the program or on the first error.
func (it *Interpreter) Run(ctx context.Context, p ir.Program, r io.Reader, w io.Writer) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "interpret", "instrs", len(p))
	defer tr.Finish("err", &err)

	if err = p.Check(); err != nil {
		return errors.Wrap(err, "invalid program")
	}

	s := &state{
		t: tape.New(it.TapeSize),
		w: bufio.NewWriter(w),
	}

	if br, ok := r.(io.ByteReader); ok {
		s.r = br
	} else {
		s.r = bufio.NewReader(r)
	}

	if it.Profile != nil {
		it.Profile.reset(p)
	}

	defer func() {
		e := s.w.Flush()
		if err == nil && e != nil {
			err = errors.Wrap(e, "flush output")
		}
	}()

	steps, err := it.exec(p, s)

	tr.Printw("done", "steps", steps, "tape", s.t.Len(), "ptr", s.t.Ptr())

	return err
}

func (it *Interpreter) exec(p ir.Program, s *state) (steps int64, err error) {
	t := s.t
	pc := 0

	for pc < len(p) {
		x := p[pc]
		steps++

		switch x.Op {
		case ir.CellDelta:
			t.Add(x.Arg)
		case ir.PointerShift:
			err = t.Shift(x.Arg)
		case ir.Output:
			err = s.output(x.Arg)
		case ir.Input:
			err = s.input(x.Arg)
		case ir.JumpIfZero:
			if t.Cell() == 0 {
				pc = x.Arg
				continue
			}
		case ir.JumpIfNonZero:
			if t.Cell() != 0 {
				if it.Profile != nil {
					it.Profile.iters[pc]++
				}

				pc = x.Arg
				continue
			}
		case ir.SetCell:
			t.Set(byte(x.Arg))
		case ir.MultiplyCell:
			t.Set(byte(x.Arg * int(t.Cell())))
		case ir.AddToOffset:
			err = t.AddTo(x.Arg)
		default:
			err = errors.New("unsupported op: %v", x.Op)
		}

		if err != nil {
			return steps, errors.Wrap(err, "at %d (%v)", pc, x)
		}

		pc++
	}

	return steps, nil
}

func (s *state) output(n int) error {
	c := s.t.Cell()

	for i := 0; i < n; i++ {
		if err := s.w.WriteByte(c); err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

// input reads n bytes. EOF and zero bytes leave the cell as it is.
func (s *state) input(n int) error {
	if err := s.w.Flush(); err != nil {
		return errors.Wrap(err, "flush output")
	}

	for i := 0; i < n; i++ {
		c, err := s.r.ReadByte()
		if err == io.EOF {
			continue
		}
		if err != nil {
			return errors.Wrap(err, "read")
		}

		if c != 0 {
			s.t.Set(c)
		}
	}

	return nil
}
