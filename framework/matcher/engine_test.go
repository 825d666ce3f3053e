package matcher

import (
	"testing"

	test "github.com/retro-framework/go-filter/framework/test_helper"
)

func Test_Lookup(t *testing.T) {

	t.Run("empty name selects doublestar", func(t *testing.T) {
		e, err := Lookup("")
		test.H(t).IsNil(err)
		test.H(t).TypeEql(e, Doublestar{})
	})

	t.Run("unknown names are rejected", func(t *testing.T) {
		_, err := Lookup("regexp")
		test.H(t).ErrIs(err, ErrUnknownEngine)
	})
}

func Test_Engines(t *testing.T) {

	var engines = []string{EngineDoublestar, EngineGlob, EngineGobwas}

	for _, name := range engines {
		e, _ := Lookup(name)
		t.Run(name+" matches a simple extension glob", func(t *testing.T) {
			ok, err := e.DoesMatch("*.js", "app.js")
			test.H(t).IsNil(err)
			test.H(t).BoolEql(ok, true)

			ok, err = e.DoesMatch("*.js", "app.css")
			test.H(t).IsNil(err)
			test.H(t).BoolEql(ok, false)
		})
	}

	t.Run("doublestar rejects an unterminated class", func(t *testing.T) {
		test.H(t).NotNil(Doublestar{}.Validate("[a-"))
	})

	t.Run("doublestar spans zero or more directories", func(t *testing.T) {
		for _, candidate := range []string{"test.js", "C/test.js", "C/D/test.js"} {
			ok, err := Doublestar{}.DoesMatch("**/*.js", candidate)
			test.H(t).IsNil(err)
			test.H(t).BoolEql(ok, true)
		}
	})

	t.Run("gobwas keeps a single star within one segment", func(t *testing.T) {
		ok, err := Gobwas{}.DoesMatch("*.js", "C/test.js")
		test.H(t).IsNil(err)
		test.H(t).BoolEql(ok, false)
	})
}
