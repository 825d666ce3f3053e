package pipeline

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/retro-framework/go-filter/framework"
	"github.com/retro-framework/go-filter/framework/filter"
	"github.com/retro-framework/go-filter/framework/stream"
	"github.com/retro-framework/go-filter/framework/types"
)

// Transform is whatever a caller does with the matches of a chain before
// the held records are put back.
type Transform func(context.Context, stream.Pipe) stream.Pipe

// Chain feeds the primary output of every stage into the next one.
type Chain struct {
	stages []*filter.Stage
	logger types.Logger
	tracer opentracing.Tracer
}

func New(logger types.Logger, tracer opentracing.Tracer, stages ...*filter.Stage) *Chain {
	if logger == nil {
		logger = framework.Noop{}
	}
	if tracer == nil {
		tracer = opentracing.GlobalTracer()
	}
	return &Chain{stages: stages, logger: logger, tracer: tracer}
}

func (c *Chain) Push(s *filter.Stage) { c.stages = append(c.stages, s) }

func (c *Chain) Len() int { return len(c.stages) }

// Filter runs src through every stage in order and returns the records
// that passed all of them.
func (c *Chain) Filter(ctx context.Context, src stream.Pipe) stream.Pipe {
	p := src
	for _, s := range c.stages {
		p = s.Pipe(ctx, p)
	}
	return p
}

// Run filters src, hands the matches to through (when not nil) and then
// puts back what every stage held: the matches come first, followed by
// the held records of the last stage, and so on back to the first
// stage. Within one stage held records keep their order.
//
// Every stage must allow passthrough, its restore is continued by the
// restores of the stages before it.
func (c *Chain) Run(ctx context.Context, src stream.Pipe, through Transform) stream.Pipe {
	for i, s := range c.stages {
		if !s.Passthrough() {
			return stream.Failed(errors.Wrapf(filter.ErrPassthroughDisabled, "can't compose stage %d", i))
		}
	}

	span, ctx := opentracing.StartSpanFromContextWithTracer(ctx, c.tracer, "pipeline.Chain.Run")
	span.SetTag("stages", len(c.stages))

	var ss StageStack
	for _, s := range c.stages {
		s.Restore()
		ss.Push(s)
	}

	p := c.Filter(ctx, src)
	if through != nil {
		p = through(ctx, p)
	}
	for s := ss.Pop(); s != nil; s = ss.Pop() {
		p = s.Restore().Follow(ctx, p)
	}
	return c.tap(ctx, span, p)
}

// tap forwards p and finishes span when p ends.
func (c *Chain) tap(ctx context.Context, span opentracing.Span, p stream.Pipe) stream.Pipe {
	w, out := stream.NewWriter(0)
	go func() {
		defer span.Finish()
		var (
			n       int
			aborted bool
		)
		for f := range p.Files {
			if aborted || !w.Send(ctx, f) {
				// keep draining so upstream stages can finish
				aborted = true
				continue
			}
			n++
		}
		err := p.Err()
		if err == nil && aborted {
			err = ctx.Err()
		}
		span.SetTag("records.emitted", n)
		if err != nil {
			span.LogKV("event", "error", "error.object", err)
			c.logger.Warnf("pipeline: run ended after %d records: %s", n, err)
		}
		w.Close(err)
	}()
	return out
}
