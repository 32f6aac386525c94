// Released under an MIT-style license. See LICENSE.

package printer

import (
	"testing"

	"github.com/wombat-lang/wombat/internal/form"
)

func TestPrintNil(t *testing.T) {
	if got := Print(nil); got != "()" {
		t.Fatalf("Print(nil) = %q, want \"()\"", got)
	}
}

func TestPrintInt(t *testing.T) {
	if got := Print(form.NewInt(42)); got != "42" {
		t.Fatalf("Print = %q, want %q", got, "42")
	}
}

func TestPrintFloat(t *testing.T) {
	if got := Print(form.NewFloat(2)); got != "2.0" {
		t.Fatalf("Print = %q, want %q", got, "2.0")
	}
}

func TestPrintSymbol(t *testing.T) {
	reg := form.NewRegistry()
	in := form.NewInterner(reg)
	s := in.Intern("foo")
	if got := Print(s); got != "foo" {
		t.Fatalf("Print = %q, want %q", got, "foo")
	}
}

func TestPrintProperList(t *testing.T) {
	l := form.List(form.NewInt(1), form.NewInt(2), form.NewInt(3))
	if got := Print(l); got != "(1 2 3)" {
		t.Fatalf("Print = %q, want %q", got, "(1 2 3)")
	}
}

func TestPrintDottedPair(t *testing.T) {
	p := form.Cons(form.NewInt(1), form.NewInt(2))
	if got := Print(p); got != "(1 . 2)" {
		t.Fatalf("Print = %q, want %q", got, "(1 . 2)")
	}
}

func TestPrintNestedList(t *testing.T) {
	inner := form.List(form.NewInt(2), form.NewInt(3))
	outer := form.List(form.NewInt(1), inner, form.NewInt(4))
	if got := Print(outer); got != "(1 (2 3) 4)" {
		t.Fatalf("Print = %q, want %q", got, "(1 (2 3) 4)")
	}
}

func TestPrintEmptyList(t *testing.T) {
	if got := Print(form.List()); got != "()" {
		t.Fatalf("Print = %q, want %q", got, "()")
	}
}
