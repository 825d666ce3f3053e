package matcher

import (
	gobwas "github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Gobwas matches with gobwas/glob using "/" as the separator, so "*"
// stays within a segment and "**" crosses them.
type Gobwas struct{}

func (_ Gobwas) DoesMatch(pattern, candidate string) (bool, error) {
	g, err := gobwas.Compile(pattern, '/')
	if err != nil {
		return false, errors.Wrap(err, "can't compile glob pattern")
	}
	return g.Match(candidate), nil
}

func (_ Gobwas) Validate(pattern string) error {
	_, err := gobwas.Compile(pattern, '/')
	return errors.Wrap(err, "can't compile glob pattern")
}
