package filter

import (
	"context"
	"sync"

	"github.com/opentracing/opentracing-go"

	"github.com/retro-framework/go-filter/framework/record"
	"github.com/retro-framework/go-filter/framework/stream"
	"github.com/retro-framework/go-filter/framework/types"
)

// Restore is the side channel of one Stage, it re-surfaces the records
// the stage held. It can be consumed once, through exactly one of Drain,
// Follow or Pipe.
//
// Held records never surface before the stage has seen them, and a
// Restore only completes once its stage has completed. A mid-stream
// failure of the stage fails the Restore with the same error.
type Restore struct {
	held        *HoldSet
	passthrough bool
	buffer      int

	logger types.Logger
	tracer opentracing.Tracer

	mu      sync.Mutex
	claimed bool
}

func newRestore(passthrough bool, buffer int, logger types.Logger, tracer opentracing.Tracer) *Restore {
	return &Restore{
		held:        newHoldSet(),
		passthrough: passthrough,
		buffer:      buffer,
		logger:      logger,
		tracer:      tracer,
	}
}

// Len is the number of held records not yet emitted.
func (r *Restore) Len() int { return r.held.Len() }

func (r *Restore) hold(f *record.File) { r.held.Push(f) }

func (r *Restore) close(err error) { r.held.close(err) }

func (r *Restore) claim(cont stream.Pipe) error {
	if !r.passthrough && !cont.IsZero() {
		return ErrPassthroughDisabled
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimed {
		return ErrRestoreConsumed
	}
	r.claimed = true
	return nil
}

// Drain yields every held record in hold order, starting only once the
// stage has completed.
func (r *Restore) Drain(ctx context.Context) stream.Pipe {
	return r.run(ctx, "filter.Restore.Drain", stream.Pipe{}, r.follow)
}

// Follow forwards cont as it arrives and then, once both cont and the
// stage have completed, yields the held records in hold order. Chaining
// restores through Follow in reverse stage order puts the records held by
// earlier stages last.
func (r *Restore) Follow(ctx context.Context, cont stream.Pipe) stream.Pipe {
	return r.run(ctx, "filter.Restore.Follow", cont, r.follow)
}

// Pipe merges held records, as the stage holds them, with cont. Order is
// kept per source, not across them. The result completes when the stage
// and cont have both completed, a zero cont completes with the stage.
func (r *Restore) Pipe(ctx context.Context, cont stream.Pipe) stream.Pipe {
	return r.run(ctx, "filter.Restore.Pipe", cont, r.live)
}

type restoreFunc func(context.Context, *stream.Writer, stream.Pipe) (int, error)

func (r *Restore) run(ctx context.Context, op string, cont stream.Pipe, fn restoreFunc) stream.Pipe {
	if err := r.claim(cont); err != nil {
		return stream.Failed(err)
	}
	w, out := stream.NewWriter(r.buffer)
	go func() {
		span, ctx := opentracing.StartSpanFromContextWithTracer(ctx, r.tracer, op)
		defer span.Finish()

		n, err := fn(ctx, w, cont)
		span.SetTag("records.emitted", n)
		if err != nil {
			r.held.release()
			span.LogKV("event", "error", "error.object", err)
			r.logger.Warnf("%s: ended after %d records: %s", op, n, err)
		} else {
			r.logger.Debugf("%s: emitted %d records", op, n)
		}
		w.Close(err)
	}()
	return out
}

func (r *Restore) follow(ctx context.Context, w *stream.Writer, cont stream.Pipe) (int, error) {
	n, err := forward(ctx, w, cont)
	if err != nil {
		return n, err
	}

	for {
		done, err := r.held.ended()
		if err != nil {
			return n, err
		}
		if done {
			break
		}
		select {
		case <-r.held.notify:
		case <-ctx.Done():
			return n, ctx.Err()
		}
	}

	for {
		f, _, err := r.held.pop()
		if f == nil {
			return n, err
		}
		if !w.Send(ctx, f) {
			return n, ctx.Err()
		}
		n++
	}
}

func (r *Restore) live(ctx context.Context, w *stream.Writer, cont stream.Pipe) (int, error) {
	var (
		n        int
		files    = cont.Files
		contDone = files == nil
		heldDone bool
	)
	if contDone {
		if err := cont.Err(); err != nil {
			return n, err
		}
	}

	for {
		for !heldDone {
			f, done, err := r.held.pop()
			if err != nil {
				return n, err
			}
			if f == nil {
				heldDone = done
				break
			}
			if !w.Send(ctx, f) {
				return n, ctx.Err()
			}
			n++
		}
		if heldDone && contDone {
			return n, nil
		}

		select {
		case <-r.held.notify:
		case f, ok := <-files:
			if !ok {
				files, contDone = nil, true
				if err := cont.Err(); err != nil {
					return n, err
				}
				continue
			}
			if !w.Send(ctx, f) {
				return n, ctx.Err()
			}
			n++
		case <-ctx.Done():
			return n, ctx.Err()
		}
	}
}

// forward copies cont into w until cont ends.
func forward(ctx context.Context, w *stream.Writer, cont stream.Pipe) (int, error) {
	if cont.Files == nil {
		return 0, cont.Err()
	}
	var n int
	for {
		select {
		case f, ok := <-cont.Files:
			if !ok {
				return n, cont.Err()
			}
			if !w.Send(ctx, f) {
				return n, ctx.Err()
			}
			n++
		case <-ctx.Done():
			return n, ctx.Err()
		}
	}
}
