package filter

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/retro-framework/go-filter/framework"
	"github.com/retro-framework/go-filter/framework/matcher"
	"github.com/retro-framework/go-filter/framework/record"
	"github.com/retro-framework/go-filter/framework/resolver"
	"github.com/retro-framework/go-filter/framework/stream"
	"github.com/retro-framework/go-filter/framework/types"
)

// Stage classifies every record it is piped exactly once: a record that
// passes is forwarded on the primary output immediately, any other record
// is held for the Restore side channel, or dropped when restore was never
// enabled.
type Stage struct {
	predicate Predicate
	resolver  *resolver.Resolver
	set       *matcher.Set

	opts   Options
	logger types.Logger
	tracer opentracing.Tracer

	mu      sync.Mutex
	restore *Restore
	piped   bool
	done    bool
	doneErr error
}

// New builds a stage for pattern, which must be a string, a []string, a
// Predicate or a func(*record.File) bool. Patterns are resolved and
// compiled here, a malformed pattern never reaches the stream.
func New(pattern interface{}, opts Options) (*Stage, error) {
	var s = &Stage{opts: opts, logger: opts.Logger, tracer: opts.Tracer}
	if s.logger == nil {
		s.logger = framework.Noop{}
	}
	if s.tracer == nil {
		s.tracer = opentracing.GlobalTracer()
	}

	var patterns []string
	switch p := pattern.(type) {
	case string:
		if strings.TrimSpace(p) == "" {
			return nil, &ConfigError{"new", pattern, ErrInvalidPattern}
		}
		patterns = []string{p}
	case []string:
		if len(p) == 0 {
			return nil, &ConfigError{"new", pattern, ErrInvalidPattern}
		}
		patterns = p
	case Predicate:
		if p == nil {
			return nil, &ConfigError{"new", pattern, ErrInvalidPattern}
		}
		s.predicate = p
	case func(*record.File) bool:
		if p == nil {
			return nil, &ConfigError{"new", pattern, ErrInvalidPattern}
		}
		s.predicate = p
	default:
		return nil, &ConfigError{"new", pattern, ErrInvalidPattern}
	}

	if s.predicate == nil {
		cwd := opts.Cwd
		if cwd == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, &ConfigError{"getwd", pattern, err}
			}
			cwd = wd
		}
		r, err := resolver.New(cwd, opts.Root)
		if err != nil {
			return nil, &ConfigError{"resolve", pattern, err}
		}
		resolved, err := r.Patterns(patterns)
		if err != nil {
			return nil, &ConfigError{"resolve", pattern, err}
		}
		set, err := matcher.NewSet(resolved, opts.Matcher)
		if err != nil {
			return nil, &ConfigError{"compile", pattern, err}
		}
		s.resolver, s.set = r, set
	}

	if opts.Restore {
		s.Restore()
	}
	return s, nil
}

// Restore returns the side channel of s, enabling it on first call.
// Records held before it was enabled are not recovered. A Restore first
// requested after the stage completed is empty and already complete.
func (s *Stage) Restore() *Restore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restore == nil {
		s.restore = newRestore(s.opts.passthrough(), s.opts.Buffer, s.logger, s.tracer)
		if s.done {
			s.restore.close(s.doneErr)
		}
	}
	return s.restore
}

func (s *Stage) current() *Restore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restore
}

// Passthrough reports whether the restore channel accepts a continuation.
func (s *Stage) Passthrough() bool { return s.opts.passthrough() }

// Classify decides f without side effects. Records without a path can't
// be classified, the error wraps ErrUnsupportedRecord.
func (s *Stage) Classify(f *record.File) (matcher.Result, error) {
	if !f.Addressable() {
		return matcher.ResultNoMatch(), errors.Wrapf(ErrUnsupportedRecord, "can't classify %s", f)
	}
	if s.predicate != nil {
		return matcher.ResultPredicate(s.predicate(f)), nil
	}
	c, err := s.resolver.Resolve(f)
	if err != nil {
		return matcher.ResultNoMatch(), errors.Wrapf(err, "can't resolve %s", f)
	}
	res := s.set.Match(c)
	return res, res.Err()
}

// Pipe runs s over up. The returned stream carries the passed records in
// input order and ends when up ends. An upstream error ends it with that
// same error, a record that can't be classified or a cancelled ctx ends
// it and the Restore alike. A Stage can be piped once.
func (s *Stage) Pipe(ctx context.Context, up stream.Pipe) stream.Pipe {
	s.mu.Lock()
	if s.piped {
		s.mu.Unlock()
		return stream.Failed(ErrStageReused)
	}
	s.piped = true
	s.mu.Unlock()

	w, out := stream.NewWriter(s.opts.Buffer)
	go func() {
		span, ctx := opentracing.StartSpanFromContextWithTracer(ctx, s.tracer, "filter.Stage.Pipe")
		defer span.Finish()

		var c counts
		err := s.run(ctx, up, w, &c)

		span.SetTag("records.passed", c.passed)
		span.SetTag("records.held", c.held)
		span.SetTag("records.dropped", c.dropped)
		if err != nil {
			span.LogKV("event", "error", "error.object", err)
			s.logger.Warnf("filter: stage ended after %d records: %s", c.passed+c.held+c.dropped, err)
			s.finish(err)
			w.Close(err)
			return
		}
		w.Close(nil)
		s.finish(nil)
	}()
	return out
}

type counts struct {
	passed, held, dropped int
}

func (s *Stage) run(ctx context.Context, up stream.Pipe, w *stream.Writer, c *counts) error {
	if up.Files == nil {
		return up.Err()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-up.Files:
			if !ok {
				return up.Err()
			}
			res, err := s.Classify(f)
			if err != nil {
				return err
			}
			if res.Success() {
				s.logger.Debugf("filter: pass %s (%s)", f, res.Reason())
				if !w.Send(ctx, f) {
					return ctx.Err()
				}
				c.passed++
				continue
			}
			if r := s.current(); r != nil {
				s.logger.Debugf("filter: hold %s", f)
				r.hold(f)
				c.held++
				continue
			}
			s.logger.Debugf("filter: drop %s", f)
			c.dropped++
		}
	}
}

// finish completes the restore, if any, with err and records it for a
// Restore requested later.
func (s *Stage) finish(err error) {
	s.mu.Lock()
	s.done, s.doneErr = true, err
	r := s.restore
	s.mu.Unlock()
	if r != nil {
		r.close(err)
	}
}
