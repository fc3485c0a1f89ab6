package interp

import (
	"nikand.dev/go/heap"
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/bfc/compiler/ir"
)

type (
	Profile struct {
		iters []int64 // indexed by ] instruction
		prog  ir.Program
	}

	// Loop is the [ Start, End ] instruction range of a loop
	// and the number of times its back edge was taken.
	Loop struct {
		Start int
		End   int
		Iters int64
	}
)

func (p *Profile) reset(prog ir.Program) {
	p.prog = prog
	p.iters = make([]int64, len(prog))
}

// Iters returns the number of back jumps taken by the loop closing at end.
func (p *Profile) Iters(end int) int64 {
	if end < 0 || end >= len(p.iters) {
		return 0
	}

	return p.iters[end]
}

// Hot returns up to n most iterated loops, hottest first.
// Loops which never jumped back are omitted.
func (p *Profile) Hot(n int) []Loop {
	if n <= 0 {
		return nil
	}

	h := heap.Heap[Loop]{Less: loopsLess}

	for end, it := range p.iters {
		if it == 0 {
			continue
		}

		h.Push(Loop{
			Start: p.prog[end].Arg - 1,
			End:   end,
			Iters: it,
		})

		if h.Len() > n {
			h.Pop()
		}
	}

	res := make([]Loop, h.Len())

	for i := len(res) - 1; i >= 0; i-- {
		res[i] = h.Pop()
	}

	return res
}

// loopsLess orders a min-heap: the coldest loop is evicted first.
func loopsLess(d []Loop, i, j int) bool {
	if d[i].Iters != d[j].Iters {
		return d[i].Iters < d[j].Iters
	}

	return d[i].Start > d[j].Start
}

func (l Loop) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 3)

	b = e.AppendKeyInt(b, "start", l.Start)
	b = e.AppendKeyInt(b, "end", l.End)
	b = e.AppendKeyInt64(b, "iters", l.Iters)

	return b
}
