package matcher

import (
	"golang.org/x/xerrors"

	"github.com/retro-framework/go-filter/framework/types"
)

var ErrUnknownEngine = xerrors.New("matcher: unknown engine")

const (
	EngineDoublestar = "doublestar"
	EngineGlob       = "glob"
	EngineGobwas     = "gobwas"
)

// Engine is a PatternMatcher that can also reject a malformed pattern
// before any candidate is seen.
type Engine interface {
	types.PatternMatcher
	Validate(pattern string) error
}

// Lookup returns the engine registered under name, the empty name
// selects doublestar.
func Lookup(name string) (Engine, error) {
	switch name {
	case "", EngineDoublestar:
		return Doublestar{}, nil
	case EngineGlob:
		return Glob{}, nil
	case EngineGobwas:
		return Gobwas{}, nil
	}
	return nil, xerrors.Errorf("%q: %w", name, ErrUnknownEngine)
}
