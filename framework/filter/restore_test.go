package filter

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"golang.org/x/xerrors"

	"github.com/retro-framework/go-filter/framework/record"
	"github.com/retro-framework/go-filter/framework/stream"
	test "github.com/retro-framework/go-filter/framework/test_helper"
)

func Test_Restore(t *testing.T) {

	t.Run("drains held files in hold order after the matches", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := mustStage(t, "*.json", Options{})
		restore := s.Restore()
		out := restore.Follow(ctx, s.Pipe(ctx, stream.FromSlice(ctx, test.Files(cwd, "package.json", "app.js", "package2.json", "main.css")...)))

		got, err := stream.Collect(ctx, out)
		test.H(t).IsNil(err)
		test.H(t).PathsEql(got, "package.json", "package2.json", "app.js", "main.css")
	})

	t.Run("live mode merges held files with the continuation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := mustStage(t, "*.json", Options{})
		restore := s.Restore()
		out := restore.Pipe(ctx, s.Pipe(ctx, stream.FromSlice(ctx, test.Files(cwd, "package.json", "app.js", "package2.json")...)))

		got, err := stream.Collect(ctx, out)
		test.H(t).IsNil(err)

		paths := test.Relatives(got)
		sort.Strings(paths)
		test.H(t).InterfaceEql(paths, []string{"app.js", "package.json", "package2.json"})
	})

	t.Run("every record surfaces exactly once and in order", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var (
			input              []string
			wantPass, wantHeld []string
		)
		for i := 0; i < 200; i++ {
			p := fmt.Sprintf("f%03d.css", i)
			if i%3 == 0 || i%7 == 0 {
				p = fmt.Sprintf("f%03d.js", i)
				wantPass = append(wantPass, p)
			} else {
				wantHeld = append(wantHeld, p)
			}
			input = append(input, p)
		}

		s := mustStage(t, "*.js", Options{Restore: true, Buffer: 4})
		passed, err := stream.Collect(ctx, s.Pipe(ctx, stream.FromSlice(ctx, test.Files(cwd, input...)...)))
		test.H(t).IsNil(err)
		held, err := stream.Collect(ctx, s.Restore().Drain(ctx))
		test.H(t).IsNil(err)

		test.H(t).PathsEql(passed, wantPass...)
		test.H(t).PathsEql(held, wantHeld...)
		test.H(t).IntEql(len(passed)+len(held), len(input))
	})

	t.Run("with passthrough disabled the restore alone yields the held files", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := mustStage(t, "*.json", Options{Passthrough: Passthrough(false)})
		restore := s.Restore()

		passed, err := stream.Collect(ctx, s.Pipe(ctx, stream.FromSlice(ctx, test.Files(cwd, "package.json", "app.js")...)))
		test.H(t).IsNil(err)
		test.H(t).PathsEql(passed, "package.json")

		held, err := stream.Collect(ctx, restore.Pipe(ctx, stream.Pipe{}))
		test.H(t).IsNil(err)
		test.H(t).PathsEql(held, "app.js")
	})

	t.Run("with passthrough disabled a continuation is refused", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := mustStage(t, "*.json", Options{Passthrough: Passthrough(false)})
		_, err := stream.Collect(ctx, s.Restore().Follow(ctx, stream.Empty()))
		test.H(t).ErrIs(err, ErrPassthroughDisabled)

		_, err = stream.Collect(ctx, s.Pipe(ctx, stream.Empty()))
		test.H(t).IsNil(err)
		_, err = stream.Collect(ctx, s.Restore().Drain(ctx))
		test.H(t).IsNil(err)
	})

	t.Run("does not end before the stage ended", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := mustStage(t, "*.json", Options{})
		restore := s.Restore()

		up, upstream := stream.NewWriter(0)
		primary := s.Pipe(ctx, upstream)
		out := restore.Pipe(ctx, stream.Pipe{})

		test.H(t).BoolEql(up.Send(ctx, record.New(cwd, "", "app.js")), true)
		select {
		case f := <-out.Files:
			test.H(t).StringEql(f.Relative(), "app.js")
		case <-time.After(time.Second):
			t.Fatal("held file was not emitted live")
		}

		select {
		case f, ok := <-out.Files:
			t.Fatalf("restore emitted %v (open: %t) before the stage ended", f, ok)
		case <-time.After(50 * time.Millisecond):
		}

		up.Close(nil)
		_, err := stream.Collect(ctx, primary)
		test.H(t).IsNil(err)
		rest, err := stream.Collect(ctx, out)
		test.H(t).IsNil(err)
		test.H(t).IntEql(len(rest), 0)
	})

	t.Run("an unused restore never blocks the stage", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var paths []string
		for i := 0; i < 5000; i++ {
			paths = append(paths, fmt.Sprintf("f%d.css", i))
		}
		s := mustStage(t, "*.json", Options{Restore: true})
		got, err := stream.Collect(ctx, s.Pipe(ctx, stream.FromSlice(ctx, test.Files(cwd, paths...)...)))
		test.H(t).IsNil(err)
		test.H(t).IntEql(len(got), 0)
		test.H(t).IntEql(s.Restore().Len(), 5000)
	})

	t.Run("live mode ends with the error of its continuation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var boom = xerrors.New("boom")
		s := mustStage(t, "*.json", Options{Restore: true})
		_, err := stream.Collect(ctx, s.Pipe(ctx, stream.FromSlice(ctx, test.Files(cwd, "app.js")...)))
		test.H(t).IsNil(err)

		_, err = stream.Collect(ctx, s.Restore().Pipe(ctx, stream.Failed(boom)))
		test.H(t).ErrEql(err, boom)
		test.H(t).IntEql(s.Restore().Len(), 0)
	})

	t.Run("follow ends with the error of its continuation before emitting held files", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var boom = xerrors.New("boom")
		s := mustStage(t, "*.json", Options{Restore: true})
		_, err := stream.Collect(ctx, s.Pipe(ctx, stream.FromSlice(ctx, test.Files(cwd, "app.js")...)))
		test.H(t).IsNil(err)

		got, err := stream.Collect(ctx, s.Restore().Follow(ctx, stream.Failed(boom)))
		test.H(t).ErrEql(err, boom)
		test.H(t).IntEql(len(got), 0)
	})

	t.Run("can be consumed once", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := mustStage(t, "*.json", Options{Restore: true})
		first := s.Restore().Drain(ctx)
		_, err := stream.Collect(ctx, s.Restore().Drain(ctx))
		test.H(t).ErrIs(err, ErrRestoreConsumed)

		_, err = stream.Collect(ctx, s.Pipe(ctx, stream.Empty()))
		test.H(t).IsNil(err)
		_, err = stream.Collect(ctx, first)
		test.H(t).IsNil(err)
	})

	t.Run("requested after the stage ended it is empty and complete", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := mustStage(t, "*.json", Options{})
		_, err := stream.Collect(ctx, s.Pipe(ctx, stream.FromSlice(ctx, test.Files(cwd, "app.js")...)))
		test.H(t).IsNil(err)

		waitDone(t, s)
		got, err := stream.Collect(ctx, s.Restore().Drain(ctx))
		test.H(t).IsNil(err)
		test.H(t).IntEql(len(got), 0)
	})
}

// waitDone blocks until s recorded its completion, the primary stream
// closes just before that happens.
func waitDone(t *testing.T, s *Stage) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		done := s.done
		s.mu.Unlock()
		if done {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("stage never completed")
}
