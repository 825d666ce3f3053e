package matcher

// Reason is a simple enum so that a stage can keep
// track of what selected a record and why.
type Reason int

const (

	// ReasonNone indicates no match, implemented so that
	// callers can rely on having a result instead
	// of having to deal with nils.
	ReasonNone Reason = iota + 1

	// ReasonPredicate indicates that a caller supplied
	// predicate accepted the record.
	ReasonPredicate

	// ReasonRelative indicates a match against the path
	// relative to the working directory.
	ReasonRelative

	// ReasonAbsolute indicates a match against the
	// absolute path.
	ReasonAbsolute

	// ReasonDirectory indicates a filename-only pattern
	// matched the basename.
	ReasonDirectory
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonPredicate:
		return "predicate"
	case ReasonRelative:
		return "relative"
	case ReasonAbsolute:
		return "absolute"
	case ReasonDirectory:
		return "directory"
	}
	return "unknown"
}
