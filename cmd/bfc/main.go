package main

import (
	"context"
	"io"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/bfc/compiler"
)

func main() {
	env := loadEnv(".env")

	runCmd := &cli.Command{
		Name:        "run",
		Description: "interpret brainfuck files",
		Action:      runAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("optimize,O", env.Optimize, "rewrite clear and multiply loops before running"),
			cli.NewFlag("tape-size", env.TapeSize, "initial tape size in cells"),
			cli.NewFlag("profile", 0, "log that many hottest loops after the run"),
		},
	}

	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "translate a brainfuck file to C",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("optimize,O", env.Optimize, "rewrite clear and multiply loops before generating"),
			cli.NewFlag("output,o", "-", "output file"),
		},
	}

	dumpCmd := &cli.Command{
		Name:        "dump",
		Description: "print the instruction stream",
		Action:      dumpAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("optimize,O", env.Optimize, "optimize before dumping"),
			cli.NewFlag("bf", false, "print as brainfuck source"),
		},
	}

	app := &cli.Command{
		Name:        "bfc",
		Description: "bfc runs brainfuck programs or compiles them to C",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			runCmd,
			compileCmd,
			dumpCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func options(c *cli.Command) compiler.Options {
	opts := compiler.DefaultOptions()

	opts.Optimize = c.Bool("optimize")

	return opts
}

func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts := options(c)
	opts.TapeSize = c.Int("tape-size")
	opts.Profile = c.Int("profile")

	for _, a := range c.Args {
		err = compiler.RunFile(ctx, a, opts, os.Stdin, os.Stdout)
		if err != nil {
			return errors.Wrap(err, "run %v", a)
		}
	}

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	if len(c.Args) != 1 {
		return errors.New("expected one source file, got %d", len(c.Args))
	}

	a := c.Args[0]

	obj, err := compiler.CompileFile(ctx, a, options(c))
	if err != nil {
		return errors.Wrap(err, "compile %v", a)
	}

	var w io.Writer = os.Stdout

	if out := c.String("output"); out != "" && out != "-" {
		f, e := os.Create(out)
		if e != nil {
			return errors.Wrap(e, "create output")
		}

		defer func() {
			e := f.Close()
			if err == nil && e != nil {
				err = errors.Wrap(e, "close output")
			}
		}()

		w = f
	}

	_, err = w.Write(obj)
	if err != nil {
		return errors.Wrap(err, "write output")
	}

	return nil
}

func dumpAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts := options(c)

	for _, a := range c.Args {
		b, err := compiler.DumpFile(ctx, a, opts, c.Bool("bf"))
		if err != nil {
			return errors.Wrap(err, "dump %v", a)
		}

		_, err = os.Stdout.Write(b)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}
