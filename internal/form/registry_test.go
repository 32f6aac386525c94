// Released under an MIT-style license. See LICENSE.

package form

import "testing"

func TestRegistryLookupNilAddr(t *testing.T) {
	reg := NewRegistry()
	f, ok := reg.Lookup(0)
	if !ok || f != nil {
		t.Fatal("Lookup(0) must resolve to (nil, true): the null pointer is Nil")
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	reg := NewRegistry()
	i := NewInt(7)
	reg.Register(i)

	got, ok := reg.Lookup(i.HeapAddr())
	if !ok || got != i {
		t.Fatal("Lookup should return the Form registered at its own heap address")
	}
}

func TestRegistryUnknownAddr(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Lookup(0xdeadbeef); ok {
		t.Fatal("Lookup on an address nothing registered should report ok=false")
	}
}

func TestRegistryRegisterNilIsNoop(t *testing.T) {
	reg := NewRegistry()
	reg.Register(nil)
	if len(reg.byAddr) != 0 {
		t.Fatal("Register(nil) should not add an entry")
	}
}
