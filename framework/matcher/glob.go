package matcher

import (
	"github.com/pkg/errors"
	"github.com/zyedidia/glob"
)

// Glob matches with zyedidia/glob, which translates the pattern into a
// regular expression. "*" crosses separators here.
type Glob struct{}

func (_ Glob) DoesMatch(pattern, candidate string) (bool, error) {
	glob, err := glob.Compile(pattern)
	if err != nil {
		return false, errors.Wrap(err, "can't compile glob pattern")
	}
	return glob.MatchString(candidate), nil
}

func (_ Glob) Validate(pattern string) error {
	_, err := glob.Compile(pattern)
	return errors.Wrap(err, "can't compile glob pattern")
}
