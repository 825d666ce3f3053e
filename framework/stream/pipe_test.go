package stream

import (
	"context"
	"testing"

	"golang.org/x/xerrors"

	"github.com/retro-framework/go-filter/framework/record"
)

func Test_Pipe(t *testing.T) {

	t.Run("collects files in the order they were sent", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var (
			a = record.New("/", "", "a.js")
			b = record.New("/", "", "b.js")
		)
		files, err := Collect(ctx, FromSlice(ctx, a, b))
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 2 || files[0] != a || files[1] != b {
			t.Fatalf("unexpected files %v", files)
		}
	})

	t.Run("reports the error a stream ended with", func(t *testing.T) {
		var boom = xerrors.New("boom")
		files, err := Collect(context.Background(), Failed(boom))
		if err != boom {
			t.Fatalf("expected boom, got %v", err)
		}
		if len(files) != 0 {
			t.Fatalf("expected no files, got %v", files)
		}
	})

	t.Run("treats empty and zero pipes as finished streams", func(t *testing.T) {
		for name, p := range map[string]Pipe{"empty": Empty(), "zero": {}} {
			files, err := Collect(context.Background(), p)
			if err != nil || len(files) != 0 {
				t.Fatalf("%s: expected nothing, got %v, %v", name, files, err)
			}
		}
	})

	t.Run("stops sending once the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		p := FromSlice(ctx, record.New("/", "", "a.js"), record.New("/", "", "b.js"))
		cancel()
		for range p.Files {
		}
		if err := p.Err(); err != nil && !xerrors.Is(err, context.Canceled) {
			t.Fatalf("expected nil or context.Canceled, got %v", err)
		}
	})
}
