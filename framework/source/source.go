// Package source produces streams of files for the filter core to work
// on. Nothing in here is clever, it exists so that binaries and tests
// have somewhere to get records from.
package source

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"

	"github.com/retro-framework/go-filter/framework/record"
	"github.com/retro-framework/go-filter/framework/stream"
)

// Paths streams one file per path, relative paths are resolved against cwd.
func Paths(ctx context.Context, cwd, base string, paths ...string) stream.Pipe {
	var files = make([]*record.File, 0, len(paths))
	for _, p := range paths {
		files = append(files, record.New(cwd, base, p))
	}
	return stream.FromSlice(ctx, files...)
}

// Lines streams one file per non-empty line of r.
func Lines(ctx context.Context, r io.Reader, cwd, base string) stream.Pipe {
	w, p := stream.NewWriter(0)
	go func() {
		var s = bufio.NewScanner(r)
		for s.Scan() {
			line := strings.TrimSpace(s.Text())
			if line == "" {
				continue
			}
			if !w.Send(ctx, record.New(cwd, base, line)) {
				w.Close(ctx.Err())
				return
			}
		}
		w.Close(errors.Wrap(s.Err(), "can't read paths"))
	}()
	return p
}

// Walk streams every non-directory entry below root in lexical order,
// each with root as its base.
func Walk(ctx context.Context, root, cwd string) stream.Pipe {
	w, p := stream.NewWriter(0)
	go func() {
		err := godirwalk.Walk(root, &godirwalk.Options{
			Callback: func(osPathname string, de *godirwalk.Dirent) error {
				if de.IsDir() {
					return nil
				}
				if !w.Send(ctx, record.New(cwd, root, osPathname)) {
					return ctx.Err()
				}
				return nil
			},
		})
		w.Close(errors.Wrapf(err, "can't walk %s", root))
	}()
	return p
}
