package filter

import (
	"github.com/opentracing/opentracing-go"

	"github.com/retro-framework/go-filter/framework/matcher"
	"github.com/retro-framework/go-filter/framework/types"
)

// Options configure a Stage. The zero value is a stage without restore,
// with passthrough enabled, working from the process working directory.
type Options struct {
	// Restore enables the side channel up front, calling Stage.Restore
	// does the same lazily.
	Restore bool

	// Passthrough, when explicitly false, makes the restore channel the
	// only sink for held records: it accepts no continuation.
	Passthrough *bool

	// Cwd is the absolute working directory relative patterns are
	// anchored to, empty means os.Getwd.
	Cwd string

	// Root prefixes absolute patterns.
	Root string

	Matcher matcher.Options

	Logger types.Logger
	Tracer opentracing.Tracer

	// Buffer is how many passed records may wait for the consumer
	// before the stage stops pulling input.
	Buffer int
}

// Passthrough returns a pointer to b for Options.Passthrough.
func Passthrough(b bool) *bool { return &b }

func (o Options) passthrough() bool {
	return o.Passthrough == nil || *o.Passthrough
}
