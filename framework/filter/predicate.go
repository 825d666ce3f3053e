package filter

import "github.com/retro-framework/go-filter/framework/record"

// Predicate decides authoritatively whether a record passes, no path
// resolution or pattern matching takes place when one is given.
type Predicate func(*record.File) bool
