package types

// Logger is the generic logging interface. It explicitly avoids including
// Fatal and Fatalf because of the relative brutal nature of os.Exit
// without a chance to clean up, a stage in someone else's pipeline has
// no business ending the process.
//
// *logrus.Logger satisfies it, as does framework.Noop.
type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})
}

// PatternMatcher defines a single function interface for matching one
// glob pattern against one candidate path. It is the whole contract the
// filter core has with a glob engine: the engine decides what "*", "**"
// and friends mean, the core only decides which path string to hand it.
//
// Candidates are always slash separated. Negation is not part of this
// contract, a leading "!" has already been stripped by the time an
// engine sees the pattern.
type PatternMatcher interface {
	DoesMatch(pattern, candidate string) (bool, error)
}
