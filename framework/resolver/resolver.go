package resolver

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"

	"github.com/retro-framework/go-filter/framework/record"
)

var (
	ErrEmptyPattern  = xerrors.New("resolver: empty pattern")
	ErrRelativeCwd   = xerrors.New("resolver: working directory must be absolute")
	ErrUnaddressable = xerrors.New("resolver: record has no path")
)

type Error struct {
	Op  string
	Err error
}

func (e Error) Error() string {
	return fmt.Sprintf("resolver: op: %q err: %q", e.Op, e.Err)
}

func (e Error) Unwrap() error { return e.Err }

// Space names the family of path strings a pattern is compared against.
// A pattern and a candidate are only ever compared within one space,
// an absolute pattern never sees a relative path and vice versa.
type Space int

const (
	// SpaceRelative compares against the path relative to the working
	// directory.
	SpaceRelative Space = iota + 1

	// SpaceAbsolute compares against the absolute path.
	SpaceAbsolute

	// SpaceDirectory compares a filename-only pattern against the
	// basename, i.e. the pattern is anchored to the directory that
	// contains the record rather than to the working directory.
	SpaceDirectory
)

func (s Space) String() string {
	switch s {
	case SpaceRelative:
		return "relative"
	case SpaceAbsolute:
		return "absolute"
	case SpaceDirectory:
		return "directory"
	}
	return "unknown"
}

// Pattern is one source pattern resolved into the space it is
// evaluated in.
type Pattern struct {
	Source  string
	Body    string
	Negated bool
	Space   Space
}

// Candidates are the comparison strings derived from one record, all
// slash separated.
type Candidates struct {
	Relative string
	Absolute string
	Base     string

	// escaped is set when the record lies outside the working directory,
	// in which case it has no relative form.
	escaped bool
}

// For returns the candidate for space s, ok is false when the record has
// no representation in that space.
func (c Candidates) For(s Space) (string, bool) {
	switch s {
	case SpaceRelative:
		return c.Relative, !c.escaped
	case SpaceAbsolute:
		return c.Absolute, true
	case SpaceDirectory:
		return c.Base, true
	}
	return "", false
}

// Escaped reports whether the record lies outside the working directory.
func (c Candidates) Escaped() bool { return c.escaped }

// Resolver derives comparison paths for records and normalizes patterns
// into the same spaces, relative to one working directory.
type Resolver struct {
	cwd  string
	root string
}

// New returns a Resolver for the absolute working directory cwd. root,
// when not empty, prefixes every absolute pattern.
func New(cwd, root string) (*Resolver, error) {
	if !filepath.IsAbs(cwd) {
		return nil, Error{"new", xerrors.Errorf("%q: %w", cwd, ErrRelativeCwd)}
	}
	if root != "" {
		root = path.Clean(filepath.ToSlash(root))
	}
	return &Resolver{cwd: filepath.Clean(cwd), root: root}, nil
}

// Patterns resolves raw patterns in order. The "!" negation marker is
// stripped into Negated and never changes which space a pattern lands in.
//
// Filename-only patterns are evaluated against the cwd relative path,
// unless the set mixes them with patterns that contain a separator; then
// they are anchored to the directory of each record instead.
func (r *Resolver) Patterns(raw []string) ([]Pattern, error) {
	var (
		bodies     = make([]string, len(raw))
		negated    = make([]bool, len(raw))
		bare, deep bool
	)
	for i, p := range raw {
		body := strings.TrimSpace(p)
		if strings.HasPrefix(body, "!") {
			negated[i] = true
			body = body[1:]
		}
		body = filepath.ToSlash(strings.TrimSpace(body))
		if body == "" {
			return nil, Error{"resolve-pattern", xerrors.Errorf("pattern %d (%q): %w", i, p, ErrEmptyPattern)}
		}
		if strings.Contains(body, "/") {
			deep = true
		} else {
			bare = true
		}
		bodies[i] = body
	}

	var (
		mixed    = bare && deep
		cwd      = escapeGlob(filepath.ToSlash(r.cwd))
		patterns = make([]Pattern, 0, len(raw))
	)
	for i, body := range bodies {
		p := Pattern{Source: raw[i], Negated: negated[i]}
		switch {
		case strings.HasPrefix(body, "/"):
			p.Space, p.Body = SpaceAbsolute, body
			if r.root != "" {
				p.Body = joinPattern(escapeGlob(r.root), body)
			}
		case body == ".." || strings.HasPrefix(body, "../"):
			p.Space, p.Body = SpaceAbsolute, joinPattern(cwd, body)
		case !strings.Contains(body, "/") && mixed:
			p.Space, p.Body = SpaceDirectory, body
		default:
			p.Space, p.Body = SpaceRelative, strings.TrimPrefix(body, "./")
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// escapeGlob backslash escapes glob meta characters so that dir matches
// only itself once a pattern is joined onto it.
func escapeGlob(dir string) string {
	var b strings.Builder
	for _, c := range dir {
		switch c {
		case '\\', '*', '?', '[', ']', '{', '}':
			b.WriteRune('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// joinPattern joins a glob onto an absolute directory. path.Join cleans
// "a/../b" segments, it leaves glob meta characters alone.
func joinPattern(dir, glob string) string {
	joined := path.Join(dir, glob)
	if strings.HasSuffix(glob, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return joined
}

// Resolve derives the comparison strings for f. Records outside the
// working directory lose their relative form and can only be selected
// by absolute patterns.
func (r *Resolver) Resolve(f *record.File) (Candidates, error) {
	if !f.Addressable() {
		return Candidates{}, Error{"resolve-record", ErrUnaddressable}
	}

	abs := f.Path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.cwd, abs)
	}
	abs = filepath.Clean(abs)

	var c = Candidates{
		Absolute: filepath.ToSlash(abs),
		Base:     filepath.Base(abs),
	}

	rel, err := filepath.Rel(r.cwd, abs)
	rel = filepath.ToSlash(rel)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		c.escaped = true
		return c, nil
	}
	c.Relative = rel
	return c, nil
}
