package record

import (
	"path/filepath"
)

// File is a path-bearing unit flowing through a pipeline. It carries
// where a file lives, not necessarily what it contains; Contents is
// optional baggage the filter core never reads.
//
// A File is created upstream and is never mutated by a filter stage,
// routing state for held records lives with the stage that held them.
type File struct {
	// Cwd is the working directory the file was produced under.
	Cwd string
	// Base is the directory Relative is computed from, typically the
	// non-glob prefix of whatever glob produced the file.
	Base string
	// Path is the absolute path of the file. An empty Path marks a raw
	// payload that can't be matched against path patterns.
	Path string

	Contents []byte
}

// New returns a File for p. A relative p is resolved against cwd and an
// empty base defaults to cwd, relative bases are resolved against cwd too.
func New(cwd, base, p string) *File {
	cwd = filepath.Clean(cwd)
	if base == "" {
		base = cwd
	}
	if !filepath.IsAbs(base) {
		base = filepath.Join(cwd, base)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	return &File{
		Cwd:  cwd,
		Base: filepath.Clean(base),
		Path: filepath.Clean(p),
	}
}

// Raw returns a File without a path, e.g. for content streamed in from
// stdin. Filter stages reject it.
func Raw(contents []byte) *File {
	return &File{Contents: contents}
}

// Addressable reports whether the file has a path to match against.
func (f *File) Addressable() bool {
	return f != nil && f.Path != ""
}

// Relative is Path minus Base. When Path isn't below Base the result
// climbs out with "..", when no relative path exists at all Path is
// returned unchanged.
func (f *File) Relative() string {
	rel, err := filepath.Rel(f.Base, f.Path)
	if err != nil {
		return f.Path
	}
	return rel
}

func (f *File) Dirname() string  { return filepath.Dir(f.Path) }
func (f *File) Basename() string { return filepath.Base(f.Path) }

func (f *File) String() string {
	if !f.Addressable() {
		return "<raw>"
	}
	return f.Path
}
