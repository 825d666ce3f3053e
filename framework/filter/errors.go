package filter

import (
	"fmt"

	"golang.org/x/xerrors"
)

var (
	ErrInvalidPattern      = xerrors.New("filter: pattern must be a string, a list of strings or a predicate")
	ErrUnsupportedRecord   = xerrors.New("filter: record has no path to match")
	ErrRestoreConsumed     = xerrors.New("filter: restore already consumed")
	ErrPassthroughDisabled = xerrors.New("filter: passthrough disabled, restore takes no continuation")
	ErrStageReused         = xerrors.New("filter: stage already piped")
)

// ConfigError is returned synchronously from New, no stream is created
// when it is.
type ConfigError struct {
	Op      string
	Pattern interface{}
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("filter: op: %q pattern: %T err: %q", e.Op, e.Pattern, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
