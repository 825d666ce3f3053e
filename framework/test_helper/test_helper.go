package test_helper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"

	"github.com/retro-framework/go-filter/framework/record"
)

// Files builds records for rel paths below cwd, base defaults to cwd.
func Files(cwd string, rel ...string) []*record.File {
	var files = make([]*record.File, 0, len(rel))
	for _, p := range rel {
		files = append(files, record.New(cwd, "", p))
	}
	return files
}

// Relatives returns the cwd relative path of each record, in order.
func Relatives(files []*record.File) []string {
	var paths = make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Relative())
	}
	return paths
}

func H(t *testing.T) helper {
	t.Helper()
	return helper{t}
}

type helper struct {
	t *testing.T
}

func (h helper) TypeEql(got, want interface{}) {
	h.t.Helper()
	// check obvious case
	if got == nil && want == nil {
		return
	}
	// check for type equality
	if strings.Compare(fmt.Sprintf("%T", got), fmt.Sprintf("%T", want)) != 0 {
		h.t.Fatalf("type equality assertion failed, got %q wanted %q", fmt.Sprintf("%T", got), fmt.Sprintf("%T", want))
	}
}

func (h helper) IntEql(got, want int) {
	h.t.Helper()
	if got != want {
		h.t.Fatalf("int equality assertion failed, got %d wanted %d", got, want)
	}
}

func (h helper) StringEql(got, want string) {
	h.t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		h.t.Errorf("string equality assertion failed (-got +want)\n%s", diff)
	}
}

func (h helper) InterfaceEql(got, want interface{}) {
	h.t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		h.t.Errorf("interface equality assertion failed (-got +want)\n%s", diff)
	}
}

// PathsEql compares the cwd relative paths of files against want, order
// sensitive.
func (h helper) PathsEql(files []*record.File, want ...string) {
	h.t.Helper()
	if want == nil {
		want = []string{}
	}
	if diff := cmp.Diff(want, Relatives(files)); diff != "" {
		h.t.Errorf("paths equality assertion failed (-want +got)\n%s", diff)
	}
}

func (h helper) ErrEql(got, want error) {
	h.t.Helper()
	if got == nil && want == nil {
		return
	}
	if got == nil || want == nil {
		h.t.Fatalf("error equality assertion failed, got %v wanted %v", got, want)
	}
	if got.Error() != want.Error() {
		h.t.Fatalf("error equality assertion failed, got %q wanted %q", got, want.Error())
	}
}

// ErrIs asserts that target is in the chain of got.
func (h helper) ErrIs(got, target error) {
	h.t.Helper()
	if !xerrors.Is(got, target) {
		h.t.Fatalf("error chain assertion failed, got %v wanted %v in chain", got, target)
	}
}

func (h helper) IsNil(any interface{}) {
	h.t.Helper()
	if any != nil {
		h.t.Fatalf("wanted nil, got %v", any)
	}
}

func (h helper) NotNil(any interface{}) {
	h.t.Helper()
	if any == nil {
		h.t.Fatalf("wanted not nil, got %v", any)
	}
}

func (h helper) BoolEql(got, want bool) {
	h.t.Helper()
	if got != want {
		h.t.Fatalf("boolean equality assertion failed, got %t wanted %t", got, want)
	}
}
