// Released under an MIT-style license. See LICENSE.

package form

import "sync"

// Registry maps a Form's heap address back to the Form itself. The
// emitter boxes a literal's address directly into compiled code
//; once a materialized function returns, the driver
// has only that raw address and needs Registry to recover the Form it
// names in order to print it.
type Registry struct {
	mu     sync.Mutex
	byAddr map[uintptr]Form
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byAddr: make(map[uintptr]Form)}
}

// Register records f under its own heap address, so a later Lookup of
// that address recovers it. Safe to call more than once for the same
// Form.
func (r *Registry) Register(f Form) {
	if f == nil {
		return
	}
	addr, ok := f.(Addressable)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAddr[addr.HeapAddr()] = f
}

// Lookup returns the Form registered at addr. The null address (0)
// always resolves to (nil, true), matching the emitter's use of the
// null pointer as Nil's runtime representation.
func (r *Registry) Lookup(addr uintptr) (Form, bool) {
	if addr == 0 {
		return nil, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byAddr[addr]
	return f, ok
}
