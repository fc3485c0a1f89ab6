package compiler

import (
	"context"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/bfc/compiler/back"
	"github.com/slowlang/bfc/compiler/format"
	"github.com/slowlang/bfc/compiler/interp"
	"github.com/slowlang/bfc/compiler/ir"
	"github.com/slowlang/bfc/compiler/opt"
	"github.com/slowlang/bfc/compiler/parse"
	"github.com/slowlang/bfc/compiler/tape"
)

type (
	Options struct {
		Optimize bool

		TapeSize int

		// Profile reports that many hottest loops after a run.
		Profile int
	}
)

func DefaultOptions() Options {
	return Options{
		TapeSize: tape.DefaultSize,
	}
}

// Parse parses text and optimizes it if requested.
func Parse(ctx context.Context, name string, text []byte, opts Options) (ir.Program, error) {
	p, err := parse.New(name, text).Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	return prepare(ctx, p, opts), nil
}

func ParseFile(ctx context.Context, name string, opts Options) (ir.Program, error) {
	p, err := parse.ParseFile(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	return prepare(ctx, p, opts), nil
}

func prepare(ctx context.Context, p ir.Program, opts Options) ir.Program {
	if opts.Optimize {
		p = opt.Optimize(ctx, p)
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("dump_ir") {
		for i, x := range p {
			tr.Printw("instr", "i", i, "x", x)
		}
	}

	return p
}

func Run(ctx context.Context, name string, text []byte, opts Options, r io.Reader, w io.Writer) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "run", "name", name, "optimize", opts.Optimize)
	defer tr.Finish("err", &err)

	p, err := Parse(ctx, name, text, opts)
	if err != nil {
		return err
	}

	return run(ctx, p, opts, r, w)
}

func RunFile(ctx context.Context, name string, opts Options, r io.Reader, w io.Writer) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "run_file", "name", name, "optimize", opts.Optimize)
	defer tr.Finish("err", &err)

	p, err := ParseFile(ctx, name, opts)
	if err != nil {
		return err
	}

	return run(ctx, p, opts, r, w)
}

func run(ctx context.Context, p ir.Program, opts Options, r io.Reader, w io.Writer) error {
	it := interp.New()
	it.TapeSize = opts.TapeSize

	if opts.Profile > 0 {
		it.Profile = &interp.Profile{}
	}

	err := it.Run(ctx, p, r, w)
	if err != nil {
		return errors.Wrap(err, "interpret")
	}

	if it.Profile != nil {
		tr := tlog.SpanFromContext(ctx)

		for _, l := range it.Profile.Hot(opts.Profile) {
			tr.Printw("hot loop", "loop", l)
		}
	}

	return nil
}

// Compile translates Brainfuck text to C source.
func Compile(ctx context.Context, name string, text []byte, opts Options) (obj []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name, "optimize", opts.Optimize)
	defer tr.Finish("err", &err)

	p, err := Parse(ctx, name, text, opts)
	if err != nil {
		return nil, err
	}

	return generate(ctx, p)
}

func CompileFile(ctx context.Context, name string, opts Options) (obj []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile_file", "name", name, "optimize", opts.Optimize)
	defer tr.Finish("err", &err)

	p, err := ParseFile(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	return generate(ctx, p)
}

func generate(ctx context.Context, p ir.Program) ([]byte, error) {
	obj, err := back.New().Generate(ctx, nil, p)
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}

	return obj, nil
}

// Dump returns the instruction listing, or Brainfuck source if bf is set.
func Dump(ctx context.Context, name string, text []byte, opts Options, bf bool) ([]byte, error) {
	p, err := Parse(ctx, name, text, opts)
	if err != nil {
		return nil, err
	}

	return dump(ctx, p, bf)
}

func DumpFile(ctx context.Context, name string, opts Options, bf bool) ([]byte, error) {
	p, err := ParseFile(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	return dump(ctx, p, bf)
}

func dump(ctx context.Context, p ir.Program, bf bool) ([]byte, error) {
	if bf {
		b, err := format.Brainfuck(ctx, nil, p)
		if err != nil {
			return nil, errors.Wrap(err, "format brainfuck")
		}

		return append(b, '\n'), nil
	}

	b, err := format.Format(ctx, nil, p)
	if err != nil {
		return nil, errors.Wrap(err, "format")
	}

	return b, nil
}
