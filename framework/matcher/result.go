package matcher

// Result holds the outcome of matching one record. Index is the
// position of the last pattern that selected it, -1 when nothing did or
// a predicate decided.
type Result struct {
	success   bool
	matchType Reason
	index     int
	err       error
}

func (mr Result) Reason() Reason { return mr.matchType }
func (mr Result) Success() bool  { return mr.success && mr.err == nil }
func (mr Result) Failure() bool  { return !mr.Success() }
func (mr Result) Index() int     { return mr.index }
func (mr Result) Err() error     { return mr.err }

func ResultNoMatch() Result {
	return Result{success: false, matchType: ReasonNone, index: -1}
}

func ResultError(err error) Result {
	return Result{success: false, matchType: ReasonNone, index: -1, err: err}
}

func ResultPredicate(b bool) Result {
	if !b {
		return ResultNoMatch()
	}
	return Result{success: true, matchType: ReasonPredicate, index: -1}
}

func ResultPattern(r Reason, index int) Result {
	return Result{success: true, matchType: r, index: index}
}
