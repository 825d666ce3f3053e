package record

import (
	"path/filepath"
	"testing"
)

func Test_New(t *testing.T) {

	t.Run("resolves relative paths against the working directory", func(t *testing.T) {
		f := New("/A/B", "", "C/test.js")
		if f.Path != filepath.FromSlash("/A/B/C/test.js") {
			t.Fatalf("expected absolute path, got %q", f.Path)
		}
		if f.Base != filepath.FromSlash("/A/B") {
			t.Fatalf("expected base to default to cwd, got %q", f.Base)
		}
	})

	t.Run("keeps absolute paths outside the working directory", func(t *testing.T) {
		f := New("/A/B", "/A", "/A/test.js")
		if f.Path != filepath.FromSlash("/A/test.js") {
			t.Fatalf("expected path to be kept, got %q", f.Path)
		}
		if f.Relative() != "test.js" {
			t.Fatalf("expected relative to base, got %q", f.Relative())
		}
	})

	t.Run("resolves a relative base against the working directory", func(t *testing.T) {
		f := New("/A/B", "test", "test/included.js")
		if f.Relative() != "included.js" {
			t.Fatalf("expected included.js, got %q", f.Relative())
		}
	})
}

func Test_File_Addressable(t *testing.T) {
	if !New("/", "", "x.js").Addressable() {
		t.Fatal("expected a file with a path to be addressable")
	}
	if Raw([]byte("hello")).Addressable() {
		t.Fatal("expected a raw payload not to be addressable")
	}
	var f *File
	if f.Addressable() {
		t.Fatal("expected nil file not to be addressable")
	}
}
