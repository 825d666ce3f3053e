package matcher

import (
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/retro-framework/go-filter/framework/resolver"
)

// Set is an ordered list of resolved patterns. Evaluation walks the list
// left to right: a positive pattern that matches selects the record, a
// later negated pattern that matches deselects it again and a still
// later positive one can re-select it. A negated pattern never selects
// anything on its own.
type Set struct {
	patterns []resolver.Pattern
	engine   Engine
	opts     Options
}

// NewSet validates every pattern against the engine named in opts.
func NewSet(patterns []resolver.Pattern, opts Options) (*Set, error) {
	engine, err := Lookup(opts.Engine)
	if err != nil {
		return nil, err
	}
	var s = &Set{engine: engine, opts: opts, patterns: make([]resolver.Pattern, 0, len(patterns))}
	for _, p := range patterns {
		if opts.NoCase {
			p.Body = strings.ToLower(p.Body)
		}
		if err := engine.Validate(p.Body); err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", p.Source)
		}
		s.patterns = append(s.patterns, p)
	}
	return s, nil
}

func (s *Set) Len() int { return len(s.patterns) }

// Patterns returns the resolved patterns in evaluation order.
func (s *Set) Patterns() []resolver.Pattern {
	return append([]resolver.Pattern(nil), s.patterns...)
}

// Match evaluates the whole set against c. A pattern is only compared
// with the candidate of its own space, a space the record has no form in
// is skipped.
func (s *Set) Match(c resolver.Candidates) Result {
	var res = ResultNoMatch()
	for i, p := range s.patterns {
		candidate, ok := c.For(p.Space)
		if !ok {
			continue
		}
		if s.opts.MatchBase && p.Space != resolver.SpaceDirectory && !strings.Contains(p.Body, "/") {
			candidate = c.Base
		}
		if s.opts.NoCase {
			candidate = strings.ToLower(candidate)
		}

		matched, err := s.engine.DoesMatch(p.Body, candidate)
		if err != nil {
			return ResultError(errors.Wrapf(err, "can't match %q", p.Source))
		}
		if matched && !s.opts.Dot && !dotAllowed(p.Body, candidate) {
			matched = false
		}
		if !matched {
			continue
		}

		if p.Negated {
			res = ResultNoMatch()
		} else {
			res = ResultPattern(reasonFor(p.Space), i)
		}
	}
	return res
}

func reasonFor(s resolver.Space) Reason {
	switch s {
	case resolver.SpaceAbsolute:
		return ReasonAbsolute
	case resolver.SpaceDirectory:
		return ReasonDirectory
	}
	return ReasonRelative
}

// dotAllowed reports whether every dot-led segment of candidate is named
// by some dot-led segment of pattern.
func dotAllowed(pattern, candidate string) bool {
	var named []string
	for _, seg := range strings.Split(pattern, "/") {
		if strings.HasPrefix(seg, ".") {
			named = append(named, seg)
		}
	}
	for _, seg := range strings.Split(candidate, "/") {
		if !strings.HasPrefix(seg, ".") || seg == "." || seg == ".." {
			continue
		}
		if !segmentNamed(named, seg) {
			return false
		}
	}
	return true
}

func segmentNamed(named []string, seg string) bool {
	for _, n := range named {
		if n == seg {
			return true
		}
		if ok, err := path.Match(n, seg); err == nil && ok {
			return true
		}
	}
	return false
}
