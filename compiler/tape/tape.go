package tape

import (
	"fmt"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"
)

type (
	// Tape is a byte memory growing to the right on demand.
	Tape struct {
		cells []byte
		ptr   int
	}

	UnderflowError struct {
		Ptr   int
		Delta int
	}
)

const DefaultSize = 1000 * 1024

func New(size int) *Tape {
	if size <= 0 {
		size = DefaultSize
	}

	return &Tape{
		cells: make([]byte, size),
	}
}

func (t *Tape) Cell() byte { return t.cells[t.ptr] }

func (t *Tape) Set(v byte) { t.cells[t.ptr] = v }

// Add adds delta to the current cell modulo 256.
func (t *Tape) Add(delta int) {
	t.cells[t.ptr] += byte(delta)
}

func (t *Tape) Ptr() int { return t.ptr }

func (t *Tape) Len() int { return len(t.cells) }

// Index resolves ptr+delta, growing the tape if needed.
func (t *Tape) Index(delta int) (int, error) {
	i := t.ptr + delta

	if i < 0 {
		return 0, &UnderflowError{Ptr: t.ptr, Delta: delta}
	}

	if i >= len(t.cells) {
		t.cells = grow(t.cells, i)

		tlog.V("tape_grow").Printw("tape grown", "ptr", t.ptr, "delta", delta, "len", len(t.cells), "from", loc.Caller(1))
	}

	return i, nil
}

func (t *Tape) Shift(delta int) error {
	i, err := t.Index(delta)
	if err != nil {
		return err
	}

	t.ptr = i

	return nil
}

// AddTo adds the current cell into the cell at ptr+delta.
// The target is resolved the same way Shift does it, even for a zero cell.
func (t *Tape) AddTo(delta int) error {
	i, err := t.Index(delta)
	if err != nil {
		return err
	}

	t.cells[i] += t.cells[t.ptr]

	return nil
}

func grow[S ~[]E, E any](s S, i int) S {
	n := max(2*len(s), i+1)

	return append(s, make(S, n-len(s))...)
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("tape underflow: pointer %d shifted by %d", e.Ptr, e.Delta)
}
