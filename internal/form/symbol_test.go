// Released under an MIT-style license. See LICENSE.

package form

import "testing"

func TestInternIdempotent(t *testing.T) {
	in := NewInterner(NewRegistry())
	a := in.Intern("foo")
	b := in.Intern("foo")
	if a != b {
		t.Fatal("Intern should return the same *Symbol for the same name")
	}
}

func TestInternDistinctNames(t *testing.T) {
	in := NewInterner(NewRegistry())
	a := in.Intern("foo")
	b := in.Intern("bar")
	if a == b {
		t.Fatal("Intern should return distinct symbols for distinct names")
	}
}

func TestSymbolEqualIsIdentity(t *testing.T) {
	in := NewInterner(NewRegistry())
	a := in.Intern("foo")
	b := in.Intern("foo")
	if !a.Equal(b) {
		t.Fatal("interned symbols with the same name must compare Equal")
	}
}

func TestSymbolName(t *testing.T) {
	in := NewInterner(NewRegistry())
	s := in.Intern("quote")
	if s.Name() != "quote" {
		t.Fatalf("Name() = %q, want %q", s.Name(), "quote")
	}
}

func TestInternRegistersSymbol(t *testing.T) {
	reg := NewRegistry()
	in := NewInterner(reg)
	s := in.Intern("foo")

	got, ok := reg.Lookup(s.HeapAddr())
	if !ok || got != s {
		t.Fatal("Intern should register the new symbol in the registry")
	}
}
