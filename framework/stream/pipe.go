package stream

import (
	"context"

	"github.com/retro-framework/go-filter/framework/record"
)

// Pipe is the read side of a flow controlled sequence of files.
//
// Files is closed at end of stream; after that Errs yields at most one
// error, the reason the stream ended early, and is closed. Backpressure
// is the channel send itself, an abort is a cancelled context on the
// producing side.
//
// The zero Pipe is an already finished, empty stream.
type Pipe struct {
	Files <-chan *record.File
	Errs  <-chan error
}

// IsZero reports whether p carries no channels at all.
func (p Pipe) IsZero() bool {
	return p.Files == nil && p.Errs == nil
}

// Err blocks until the producer has reported how the stream ended. It
// must only be called once Files is closed.
func (p Pipe) Err() error {
	if p.Errs == nil {
		return nil
	}
	return <-p.Errs
}

// Writer is the producing half of a Pipe.
type Writer struct {
	files chan *record.File
	errs  chan error
}

// NewWriter returns a Writer and the Pipe reading from it. buffer is the
// number of files that may be in flight before Send blocks.
func NewWriter(buffer int) (*Writer, Pipe) {
	var (
		files = make(chan *record.File, buffer)
		errs  = make(chan error, 1)
	)
	return &Writer{files: files, errs: errs}, Pipe{Files: files, Errs: errs}
}

// Send hands f to the consumer, it reports false when ctx was cancelled
// before the consumer was ready.
func (w *Writer) Send(ctx context.Context, f *record.File) bool {
	select {
	case w.files <- f:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close ends the stream, err (if any) is reported on Errs.
func (w *Writer) Close(err error) {
	if err != nil {
		w.errs <- err
	}
	close(w.errs)
	close(w.files)
}

// FromSlice streams files in order.
func FromSlice(ctx context.Context, files ...*record.File) Pipe {
	w, p := NewWriter(0)
	go func() {
		for _, f := range files {
			if !w.Send(ctx, f) {
				w.Close(ctx.Err())
				return
			}
		}
		w.Close(nil)
	}()
	return p
}

// Empty returns a finished stream.
func Empty() Pipe {
	w, p := NewWriter(0)
	w.Close(nil)
	return p
}

// Failed returns a stream that ends immediately with err.
func Failed(err error) Pipe {
	w, p := NewWriter(0)
	w.Close(err)
	return p
}

// Collect drains p and returns everything it yielded along with the
// error it ended with. Collecting stops early when ctx is cancelled.
func Collect(ctx context.Context, p Pipe) ([]*record.File, error) {
	var files []*record.File
	if p.Files == nil {
		return nil, p.Err()
	}
	for {
		select {
		case f, ok := <-p.Files:
			if !ok {
				return files, p.Err()
			}
			files = append(files, f)
		case <-ctx.Done():
			return files, ctx.Err()
		}
	}
}
