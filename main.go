package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/namsral/flag"
	"github.com/pkg/errors"

	"github.com/retro-framework/go-filter/framework/config"
	"github.com/retro-framework/go-filter/framework/ctxkey"
	"github.com/retro-framework/go-filter/framework/source"
	"github.com/retro-framework/go-filter/framework/stream"
)

// patterns collects repeated -pattern flags.
type patterns []string

func (p *patterns) String() string { return strings.Join(*p, ",") }

func (p *patterns) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(os.Stderr, "go-filter:", err)
		}
		os.Exit(1)
	}
}

// run filters paths from src (a directory walk) or from stdin (one path
// per line) and prints the relative path of every record that made it
// through.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		pipelinePath string
		srcDir     string
		cwd        string
		engine     string
		restore    bool
		verbose    bool
		pats       patterns
	)

	fs := flag.NewFlagSetWithEnvPrefix("go-filter", "FILTER", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&pipelinePath, "pipeline", "", "pipeline config file (YAML)")
	fs.StringVar(&srcDir, "src", "", "directory to walk instead of reading paths from stdin")
	fs.StringVar(&cwd, "cwd", "", "working directory relative patterns are anchored to")
	fs.StringVar(&engine, "engine", "", "glob engine: doublestar, glob or gobwas")
	fs.BoolVar(&restore, "restore", false, "print held files after the matches")
	fs.BoolVar(&verbose, "v", false, "log every classification")
	fs.Var(&pats, "pattern", "glob pattern, repeat for more, prefix with ! to negate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var logger = newLogger(stderr, verbose)

	if cwd != "" {
		abs, err := filepath.Abs(cwd)
		if err != nil {
			return errors.Wrap(err, "can't resolve -cwd")
		}
		ctx = ctxkey.WithCwd(ctx, abs)
	}

	var cfg = &config.Config{}
	if pipelinePath != "" {
		c, err := config.Load(pipelinePath)
		if err != nil {
			return err
		}
		cfg = c
	}
	if len(pats) > 0 {
		cfg.Stages = append(cfg.Stages, config.Stage{Patterns: pats})
	}
	if engine != "" {
		cfg.Engine = engine
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "need -pipeline or -pattern")
	}
	if cfg.Cwd == "" {
		cfg.Cwd = ctxkey.Cwd(ctx)
	}

	chain, err := cfg.Chain(ctx, logger, nil)
	if err != nil {
		return err
	}

	var src stream.Pipe
	if srcDir != "" {
		root, err := filepath.Abs(srcDir)
		if err != nil {
			return errors.Wrap(err, "can't resolve -src")
		}
		src = source.Walk(ctx, root, cfg.Cwd)
	} else {
		src = source.Lines(ctx, stdin, cfg.Cwd, "")
	}

	var out stream.Pipe
	if restore {
		out = chain.Run(ctx, src, nil)
	} else {
		out = chain.Filter(ctx, src)
	}

	var n int
	for f := range out.Files {
		fmt.Fprintln(stdout, filepath.ToSlash(f.Relative()))
		n++
	}
	if err := out.Err(); err != nil {
		return err
	}
	logger.Debugf("go-filter: printed %d paths", n)
	return nil
}
