// Released under an MIT-style license. See LICENSE.

package form

import "testing"

func TestListpNilIsList(t *testing.T) {
	if !Listp(nil) {
		t.Fatal("Listp(nil) should be true: nil is the empty list")
	}
}

func TestListpProperList(t *testing.T) {
	l := List(NewInt(1), NewInt(2), NewInt(3))
	if !Listp(l) {
		t.Fatal("Listp should be true for a proper list")
	}
}

func TestListpImproperList(t *testing.T) {
	l := Cons(NewInt(1), NewInt(2))
	if Listp(l) {
		t.Fatal("Listp should be false for a dotted pair")
	}
}

func TestListpNonPair(t *testing.T) {
	if Listp(NewInt(1)) {
		t.Fatal("Listp should be false for a bare atom")
	}
}

func TestCount(t *testing.T) {
	cases := []struct {
		name string
		f    Form
		want int
	}{
		{"nil", nil, 0},
		{"one", List1(NewInt(1)), 1},
		{"three", List(NewInt(1), NewInt(2), NewInt(3)), 3},
	}
	for _, c := range cases {
		if got := Count(c.f); got != c.want {
			t.Errorf("%s: Count = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestCountStopsAtImproperTail(t *testing.T) {
	l := Cons(NewInt(1), Cons(NewInt(2), NewInt(3)))
	if got := Count(l); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
}

func TestConsCarCdr(t *testing.T) {
	p := Cons(NewInt(1), NewInt(2))
	if Car(p).(*Int).Value != 1 {
		t.Fatal("Car did not return the constructed car")
	}
	if Cdr(p).(*Int).Value != 2 {
		t.Fatal("Cdr did not return the constructed cdr")
	}
}

func TestSetCarSetCdr(t *testing.T) {
	p := Cons(nil, nil)
	SetCar(p, NewInt(9))
	SetCdr(p, NewInt(10))
	if Car(p).(*Int).Value != 9 || Cdr(p).(*Int).Value != 10 {
		t.Fatal("SetCar/SetCdr did not mutate the pair in place")
	}
}

func TestListHelpers(t *testing.T) {
	a, b, c, d := NewInt(1), NewInt(2), NewInt(3), NewInt(4)

	if Count(List1(a)) != 1 {
		t.Error("List1 should produce a 1-element list")
	}
	if Count(List2(a, b)) != 2 {
		t.Error("List2 should produce a 2-element list")
	}
	if Count(List3(a, b, c)) != 3 {
		t.Error("List3 should produce a 3-element list")
	}
	if Count(List4(a, b, c, d)) != 4 {
		t.Error("List4 should produce a 4-element list")
	}
}

func TestIntEqual(t *testing.T) {
	a, b := NewInt(5), NewInt(5)
	if !a.Equal(b) {
		t.Fatal("distinct Int forms with equal values should compare Equal")
	}
	if a.Equal(NewInt(6)) {
		t.Fatal("Int forms with different values should not compare Equal")
	}
}

func TestFloatEqual(t *testing.T) {
	a, b := NewFloat(1.5), NewFloat(1.5)
	if !a.Equal(b) {
		t.Fatal("distinct Float forms with equal values should compare Equal")
	}
}

func TestHeapAddrUnique(t *testing.T) {
	a, b := NewInt(1), NewInt(1)
	if a.HeapAddr() == b.HeapAddr() {
		t.Fatal("two distinct allocations must not share a heap address")
	}
}

func TestFormString(t *testing.T) {
	cases := []struct {
		f    Form
		want string
	}{
		{NewInt(42), "42"},
		{NewFloat(1.5), "1.5"},
		{List2(NewInt(1), NewInt(2)), "(1 2)"},
	}
	for _, c := range cases {
		if got := c.f.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
