package matcher

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// Doublestar matches with bmatcuk/doublestar, "**" spans any number of
// path segments and "*" stays within one.
type Doublestar struct{}

func (_ Doublestar) DoesMatch(pattern, candidate string) (bool, error) {
	ok, err := doublestar.Match(pattern, candidate)
	if err != nil {
		return false, errors.Wrapf(err, "can't match pattern %q", pattern)
	}
	return ok, nil
}

func (_ Doublestar) Validate(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return errors.Wrapf(doublestar.ErrBadPattern, "can't compile pattern %q", pattern)
	}
	return nil
}
