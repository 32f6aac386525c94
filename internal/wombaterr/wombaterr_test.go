// Released under an MIT-style license. See LICENSE.

package wombaterr

import "testing"

func TestAsCompilePassesThroughCompile(t *testing.T) {
	c := NewCompile("boom")
	if AsCompile(c) != c {
		t.Fatal("AsCompile should return an existing *Compile unchanged")
	}
}

func TestAsCompileWrapsType(t *testing.T) {
	te := NewType("unrecognized kind")
	c := AsCompile(te)
	if c.Message != te.Message {
		t.Fatalf("got message %q, want %q", c.Message, te.Message)
	}
}

func TestAsCompileWrapsArbitraryError(t *testing.T) {
	c := AsCompile(NewReader("bad token"))
	if c.Message != "bad token" {
		t.Fatalf("got %q, want %q", c.Message, "bad token")
	}
}

func TestCompileCulpritCarriesForm(t *testing.T) {
	c := NewCompileCulprit(42, "invalid: %d", 42)
	if c.Culprit != 42 {
		t.Fatalf("got culprit %v, want 42", c.Culprit)
	}
}

func TestErrorMessagesFormat(t *testing.T) {
	if got := NewReader("x=%d", 5).Error(); got != "x=5" {
		t.Fatalf("got %q", got)
	}
	if got := NewFatal("fatal: %s", "oops").Error(); got != "fatal: oops" {
		t.Fatalf("got %q", got)
	}
}
