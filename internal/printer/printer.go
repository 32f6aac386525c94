// Released under an MIT-style license. See LICENSE.

// Package printer renders a Form back to its external, readable text
// form. Print is the reader's inverse: Print(ReadForm(Print(f))) == f
// for every f the reader can produce.
package printer

import (
	"github.com/wombat-lang/wombat/internal/form"
	"github.com/wombat-lang/wombat/internal/wombaterr"
)

// Print renders f per the grammar that internal/reader accepts. The
// nil interface value (the empty list) prints as "()".
func Print(f form.Form) string {
	if f == nil {
		return "()"
	}

	switch v := f.(type) {
	case *form.Pair:
		return "(" + printList(v) + ")"
	case *form.Symbol:
		return v.Name()
	case *form.Int, *form.Float:
		return f.String()
	default:
		panic(wombaterr.NewType("Print: unrecognized form kind %T", v))
	}
}

// printList renders the elements of p, space-separated, dotted-pair
// notation if the chain is improper. Grounded on
// original_source/printer.cc's print_list.
func printList(p *form.Pair) string {
	car := form.Car(p)
	cdr := form.Cdr(p)

	head := Print(car)
	if cdr == nil {
		return head
	}
	if tail, ok := cdr.(*form.Pair); ok {
		return head + " " + printList(tail)
	}
	return head + " . " + Print(cdr)
}
