// Released under an MIT-style license. See LICENSE.

// Package form implements Wombat's universal dynamic value: the tagged,
// heap-allocated Form, and the pair/list operations built on top of it.
//
// Every Form is identified by its heap address, which the emitter reuses
// directly as the value's runtime representation (see internal/emit).
// Nil is special-cased as the Go nil interface value rather than any
// heap object, by design.
package form

import "unsafe"

// Kind tags the dynamic type of a Form.
type Kind int

// The closed set of Form kinds. There is no Nil kind: nil is the
// absence of a Form, represented by the Go nil interface value.
const (
	KindPair Kind = iota
	KindSymbol
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindPair:
		return "pair"
	case KindSymbol:
		return "symbol"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Form is the universal dynamic value. The nil interface value denotes
// the empty list / absence of a form.
type Form interface {
	Kind() Kind
	String() string
	Equal(other Form) bool
}

// Addressable is implemented by every concrete Form kind. HeapAddr
// returns the Form's stable heap address, reused by internal/emit as
// the literal's runtime representation.
type Addressable interface {
	HeapAddr() uintptr
}

// Pair is a two-slot heap cell used to build lists. Pairs are mutable
// only during construction by the reader; once published they are
// treated as immutable by the rest of the core.
type Pair struct {
	car Form
	cdr Form
}

// Cons allocates a new Pair with the given car and cdr.
func Cons(car, cdr Form) *Pair {
	return &Pair{car: car, cdr: cdr}
}

// Car returns p's first slot.
func Car(p *Pair) Form { return p.car }

// Cdr returns p's second slot.
func Cdr(p *Pair) Form { return p.cdr }

// SetCar destructively updates p's first slot. Only the reader does
// this, while a list is still under construction.
func SetCar(p *Pair, v Form) { p.car = v }

// SetCdr destructively updates p's second slot.
func SetCdr(p *Pair, v Form) { p.cdr = v }

// Kind implements Form.
func (p *Pair) Kind() Kind { return KindPair }

// HeapAddr implements Addressable.
func (p *Pair) HeapAddr() uintptr { return uintptr(unsafe.Pointer(p)) }

// String renders p the way the printer would, duplicated here only for
// debugging (%v); internal/printer is the real inverse of the reader.
func (p *Pair) String() string {
	return printList(p)
}

func printList(p *Pair) string {
	s := "("
	first := true
	var cur Form = p
	for {
		cp, ok := cur.(*Pair)
		if !ok {
			s += " . " + cur.String()
			break
		}
		if cp == nil {
			break
		}
		if !first {
			s += " "
		}
		first = false
		if cp.car == nil {
			s += "()"
		} else {
			s += cp.car.String()
		}
		if cp.cdr == nil {
			break
		}
		cur = cp.cdr
	}
	return s + ")"
}

// Equal implements Form. Pair equality is structural.
func (p *Pair) Equal(other Form) bool {
	op, ok := other.(*Pair)
	if !ok {
		return false
	}
	if p == nil || op == nil {
		return p == op
	}
	return formEqual(p.car, op.car) && formEqual(p.cdr, op.cdr)
}

func formEqual(a, b Form) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Int is a heap-allocated signed 64-bit integer literal.
type Int struct {
	Value int64
}

// NewInt allocates a new Int form.
func NewInt(v int64) *Int { return &Int{Value: v} }

func (i *Int) Kind() Kind          { return KindInt }
func (i *Int) HeapAddr() uintptr   { return uintptr(unsafe.Pointer(i)) }
func (i *Int) String() string      { return formatInt(i.Value) }
func (i *Int) Equal(other Form) bool {
	o, ok := other.(*Int)
	return ok && o != nil && i != nil && o.Value == i.Value
}

// Float is a heap-allocated IEEE-754 double literal.
type Float struct {
	Value float64
}

// NewFloat allocates a new Float form.
func NewFloat(v float64) *Float { return &Float{Value: v} }

func (f *Float) Kind() Kind        { return KindFloat }
func (f *Float) HeapAddr() uintptr { return uintptr(unsafe.Pointer(f)) }
func (f *Float) String() string    { return formatFloat(f.Value) }
func (f *Float) Equal(other Form) bool {
	o, ok := other.(*Float)
	return ok && o != nil && f != nil && o.Value == f.Value
}

// Listp reports whether f is a proper list: nil, or a pair whose cdr is
// itself a proper list. Undefined on cyclic input; the reader never
// produces cycles.
func Listp(f Form) bool {
	for {
		if f == nil {
			return true
		}
		p, ok := f.(*Pair)
		if !ok {
			return false
		}
		f = p.cdr
	}
}

// Count returns the number of elements reached by walking cdr from f.
// Count(nil) is 0. On improper input it counts the pairs before the
// non-pair tail. Undefined on cyclic input.
func Count(f Form) int {
	n := 0
	for f != nil {
		p, ok := f.(*Pair)
		if !ok {
			return n
		}
		n++
		f = p.cdr
	}
	return n
}

// List builds a right-nested, nil-terminated Pair chain from elements.
func List(elements ...Form) Form {
	var result Form
	for i := len(elements) - 1; i >= 0; i-- {
		result = Cons(elements[i], result)
	}
	return result
}

// List1 through List4 are the common fixed-arity desugaring helpers used
// by the reader ('X) and internal/session (synthesizing the top-level thunk).
func List1(a Form) Form             { return Cons(a, nil) }
func List2(a, b Form) Form          { return Cons(a, Cons(b, nil)) }
func List3(a, b, c Form) Form       { return Cons(a, Cons(b, Cons(c, nil))) }
func List4(a, b, c, d Form) Form    { return Cons(a, Cons(b, Cons(c, Cons(d, nil)))) }
