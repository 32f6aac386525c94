// Released under an MIT-style license. See LICENSE.

// Package emit traverses a typed AST and emits IR against the
// internal/backend collaborator contract. It owns the
// global environment (symbol → backend global) and the local
// environment stack (frame = symbol → Value), and enforces the
// emit-erase invariant on a failed FnExpr.
package emit

import (
	"fmt"

	"github.com/wombat-lang/wombat/internal/ast"
	"github.com/wombat-lang/wombat/internal/backend"
	"github.com/wombat-lang/wombat/internal/form"
	"github.com/wombat-lang/wombat/internal/wombaterr"
)

// GlobalEnv is the session-lifetime map from symbol identity to a
// back-end global variable holding the symbol's current binding.
// Populated lazily: analysis only records that a name is defined
// (internal/ast.GlobalScope); this map creates the actual global on
// first reference.
type GlobalEnv struct {
	globals map[*form.Symbol]backend.Value

	// fns tracks which globals currently hold a function value, so a
	// call through a bound name can be emitted as a direct, statically
	// arity-checked call instead of losing type information through a
	// generic Load. A redefinition that rebinds NAME to a non-function
	// clears its entry here (see emitDef).
	fns map[*form.Symbol]backend.Function

	// fnNames is fns inverted: the bound name for a function value,
	// recovered when a bare reference to that value reaches the
	// top-level thunk's return and needs a printable stand-in (see
	// Emitter.topLevelResult).
	fnNames map[backend.Function]*form.Symbol
}

// NewGlobalEnv returns an empty GlobalEnv.
func NewGlobalEnv() *GlobalEnv {
	return &GlobalEnv{
		globals: make(map[*form.Symbol]backend.Value),
		fns:     make(map[*form.Symbol]backend.Function),
		fnNames: make(map[backend.Function]*form.Symbol),
	}
}

func (g *GlobalEnv) knownFn(sym *form.Symbol) (backend.Function, bool) {
	fn, ok := g.fns[sym]
	return fn, ok
}

func (g *GlobalEnv) nameOf(fn backend.Function) (*form.Symbol, bool) {
	sym, ok := g.fnNames[fn]
	return sym, ok
}

func (g *GlobalEnv) setFn(sym *form.Symbol, fn backend.Function) {
	if old, ok := g.fns[sym]; ok {
		delete(g.fnNames, old)
	}
	g.fns[sym] = fn
	g.fnNames[fn] = sym
}

func (g *GlobalEnv) clearFn(sym *form.Symbol) {
	if old, ok := g.fns[sym]; ok {
		delete(g.fnNames, old)
	}
	delete(g.fns, sym)
}

func (g *GlobalEnv) lookup(mod backend.Module, sym *form.Symbol) backend.Value {
	if v, ok := g.globals[sym]; ok {
		return v
	}
	if v := mod.GlobalLookup(globalName(sym)); v != nil {
		g.globals[sym] = v
		return v
	}
	return nil
}

func (g *GlobalEnv) getOrCreate(mod backend.Module, sym *form.Symbol) backend.Value {
	if v := g.lookup(mod, sym); v != nil {
		return v
	}
	v := mod.GlobalCreate(mod.PointerType(), globalName(sym))
	g.globals[sym] = v
	return v
}

func globalName(sym *form.Symbol) string {
	return "wombat.global." + sym.Name()
}

// localFrame is one scope's symbol→Value map, pushed on entry to
// FnExpr emission and popped when its body emission completes.
type localFrame map[*form.Symbol]backend.Value

// Emitter emits IR for one session's typed ASTs into one backend
// Module. The local-environment stack and insertion-cursor stack are
// emitter-internal and must be empty between top-level Emit calls.
type Emitter struct {
	mod    backend.Module
	bu     backend.Builder
	global *GlobalEnv
	frames []localFrame
	anon   int

	// created accumulates every function FunctionCreate has produced
	// during the current top-level Emit call, so a failure anywhere in
	// that call — not just in the FnExpr that actually failed — can
	// erase all of them and leave the module's set of functions exactly
	// as it was before Emit was entered. Globals created during a failed
	// call are not removed.
	created []backend.Function

	// depth counts nested fn emission; depth == 1 inside emitFn marks
	// the outermost call, the synthetic top-level thunk, as opposed to
	// a nested function literal.
	depth int
}

// New builds an Emitter over mod, sharing global with the rest of the
// session.
func New(mod backend.Module, global *GlobalEnv) *Emitter {
	return &Emitter{mod: mod, bu: mod.Builder(), global: global}
}

// Emit emits top, which the driver has already wrapped as a synthetic
// `(fn () form)` thunk, and
// returns its Function handle for the driver to materialize and
// invoke. top is therefore always an *ast.FnExpr; it goes through the
// same emitFn path as a nested function literal, except that its
// result is passed through topLevelResult before the Ret. On failure
// the known-function side-table is restored to its state on entry, so
// it never names a function that eraseCreated removed.
func (e *Emitter) Emit(top ast.Expr) (backend.Function, error) {
	e.created = nil
	e.depth = 0

	savedFns := make(map[*form.Symbol]backend.Function, len(e.global.fns))
	for k, v := range e.global.fns {
		savedFns[k] = v
	}
	savedNames := make(map[backend.Function]*form.Symbol, len(e.global.fnNames))
	for k, v := range e.global.fnNames {
		savedNames[k] = v
	}

	v, err := e.emitExpr(top)
	if err != nil {
		e.eraseCreated()
		e.global.fns, e.global.fnNames = savedFns, savedNames
		return nil, err
	}

	fn, ok := v.(backend.Function)
	if !ok {
		e.eraseCreated()
		e.global.fns, e.global.fnNames = savedFns, savedNames
		return nil, wombaterr.NewFatal("top-level thunk did not emit a function")
	}
	e.created = nil
	return fn, nil
}

// eraseCreated removes every function recorded in e.created from the
// module, most recently created first, realizing the emit-erase
// invariant across the whole failed Emit call rather than just the
// one FnExpr whose emission actually failed: a sibling function
// emitted successfully earlier in the same do or invoke must not
// survive a later sibling's failure.
func (e *Emitter) eraseCreated() {
	for i := len(e.created) - 1; i >= 0; i-- {
		e.mod.EraseFunction(e.created[i])
	}
	e.created = nil
}

func (e *Emitter) emitExpr(x ast.Expr) (backend.Value, error) {
	switch v := x.(type) {
	case *ast.NilExpr:
		return e.bu.ConstNullPtr(), nil
	case *ast.NumberExpr:
		return e.emitLiteralAddr(v.Form), nil
	case *ast.QuoteExpr:
		return e.emitLiteralAddr(v.Form), nil
	case *ast.SymbolExpr:
		return e.emitSymbolRef(v.Sym)
	case *ast.DefExpr:
		return e.emitDef(v)
	case *ast.DoExpr:
		return e.emitDo(v)
	case *ast.FnExpr:
		return e.emitFn(v)
	case *ast.InvokeExpr:
		return e.emitInvoke(v)
	default:
		return nil, wombaterr.NewCompile("emit: unknown expression kind")
	}
}

// emitLiteralAddr boxes f's heap address, or the null pointer for nil
// (the empty list quoted, e.g. the tail of (quote ())).
func (e *Emitter) emitLiteralAddr(f form.Form) backend.Value {
	if f == nil {
		return e.bu.ConstNullPtr()
	}
	addr, ok := f.(form.Addressable)
	if !ok {
		return e.bu.ConstNullPtr()
	}
	i := e.bu.ConstInt(int64(addr.HeapAddr()))
	return e.bu.PtrFromInt(i)
}

// emitSymbolRef resolves sym in the local stack first; a hit there is
// used directly (already a Value in the right representation, and if
// it is a nested function, directly callable). Failing that, a global
// bound to a function is likewise used directly; any other global is
// loaded.
func (e *Emitter) emitSymbolRef(sym *form.Symbol) (backend.Value, error) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i][sym]; ok {
			return v, nil
		}
	}

	if fn, ok := e.global.knownFn(sym); ok {
		return fn, nil
	}

	global := e.global.getOrCreate(e.mod, sym)
	return e.bu.Load(global), nil
}

// emitDef implements DefExpr: emit the value, create the global if
// missing, and store it. def evaluates to the value it bound, not
// nil — except when that value is a function: a function's runtime
// representation is a native code address, not a heap Form the
// registry can recover, so a function-valued def instead evaluates to
// the bound name symbol, which is exactly what the REPL prints for it.
func (e *Emitter) emitDef(d *ast.DefExpr) (backend.Value, error) {
	val, err := e.emitExpr(d.Value)
	if err != nil {
		return nil, err
	}
	val = e.toPointer(val)

	fn, isFn := val.(backend.Function)
	if isFn {
		e.global.setFn(d.Name, fn)
	} else {
		e.global.clearFn(d.Name)
	}

	global := e.global.getOrCreate(e.mod, d.Name)
	e.bu.Store(val, global)

	if isFn {
		return e.emitLiteralAddr(d.Name), nil
	}
	return val, nil
}

// emitDo implements DoExpr: statements are emitted and discarded, the
// tail's value is returned.
func (e *Emitter) emitDo(d *ast.DoExpr) (backend.Value, error) {
	for _, stmt := range d.Stmts {
		if _, err := e.emitExpr(stmt); err != nil {
			return nil, err
		}
	}
	return e.emitExpr(d.Tail)
}

// emitFn is the most involved case. It creates a new
// function, optionally publishes a self-reference, suspends the
// enclosing insertion point, emits the body, and restores the cursor
// on every exit path. Erasing the function on a failed path is the
// caller's job now (see Emit/eraseCreated): this function only
// records its own creation.
func (e *Emitter) emitFn(fx *ast.FnExpr) (backend.Value, error) {
	name := e.anonName()
	fn := e.mod.FunctionCreate(name, len(fx.Params))
	e.created = append(e.created, fn)

	if fx.Name != nil && len(e.frames) > 0 {
		e.frames[len(e.frames)-1][fx.Name] = fn
	}

	entry := e.mod.BasicBlockCreate(fn, "entry")
	saved := e.bu.SaveCursor()
	e.bu.SetInsert(entry)

	frame := make(localFrame, len(fx.Params)+1)
	for i, p := range fx.Params {
		frame[p] = fn.Param(i)
	}
	if fx.Name != nil {
		frame[fx.Name] = fn
	}
	e.frames = append(e.frames, frame)
	e.depth++
	outermost := e.depth == 1

	result, err := e.emitDo(fx.Body)
	if err != nil {
		e.depth--
		e.frames = e.frames[:len(e.frames)-1]
		e.bu.RestoreCursor(saved)
		return nil, err
	}

	retVal := e.toPointer(result)
	if outermost {
		retVal, err = e.topLevelResult(retVal)
		if err != nil {
			e.depth--
			e.frames = e.frames[:len(e.frames)-1]
			e.bu.RestoreCursor(saved)
			return nil, err
		}
	}
	e.bu.Ret(retVal)

	if verr := e.mod.VerifyFunction(fn); verr != nil {
		e.depth--
		e.frames = e.frames[:len(e.frames)-1]
		e.bu.RestoreCursor(saved)
		return nil, wombaterr.NewFatal("verification failed for function literal: %v", verr)
	}

	e.depth--
	e.frames = e.frames[:len(e.frames)-1]
	e.bu.RestoreCursor(saved)
	return fn, nil
}

// topLevelResult converts a function-valued result bound for the
// outermost thunk's Ret into something Registry.Lookup can resolve.
// A function's runtime representation is a native code address, which
// the registry never indexes (only *Pair/*Symbol/*Int/*Float are); a
// bare reference to a def'd function — `id`, or `(do id)` — would
// otherwise hand the driver an address that can never be printed. A
// result bound to a def'd name resolves to that name symbol, exactly
// like emitDef's own function-valued case; an anonymous function value
// reaching the top level has no name to fall back to and is reported
// as a recoverable error instead of crashing the driver.
func (e *Emitter) topLevelResult(v backend.Value) (backend.Value, error) {
	fn, ok := v.(backend.Function)
	if !ok {
		return v, nil
	}
	if sym, ok := e.global.nameOf(fn); ok {
		return e.emitLiteralAddr(sym), nil
	}
	return nil, wombaterr.NewCompile("Cannot print a function value")
}

// emitInvoke emits the callee and arguments and emits the call: direct
// (with a static arity check) when the callee is a known Function,
// indirect through a bare function-pointer-typed Value otherwise. A
// callee that is statically a literal — a number, a quoted form, or
// nil — can never hold a function, so those are rejected up front
// rather than emitted as a bogus indirect call.
func (e *Emitter) emitInvoke(inv *ast.InvokeExpr) (backend.Value, error) {
	switch inv.Callee.(type) {
	case *ast.NumberExpr, *ast.QuoteExpr, *ast.NilExpr:
		return nil, wombaterr.NewCompile("Invalid function invocation")
	}

	callee, err := e.emitExpr(inv.Callee)
	if err != nil {
		return nil, err
	}

	// Only a direct callee carries a statically known arity to check
	// against. A callee received as a plain Value — a function passed
	// through a parameter — calls indirectly below with no arity
	// check at all; the unified opaque-pointer representation gives an
	// indirect callee no declared signature to check it against.
	if fn, ok := callee.(backend.Function); ok {
		if fn.Arity() != len(inv.Args) {
			return nil, wombaterr.NewCompile(
				"Wrong number of arguments: expected %d, got %d", fn.Arity(), len(inv.Args))
		}
	}

	args := make([]backend.Value, len(inv.Args))
	for i, a := range inv.Args {
		v, err := e.emitExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = e.toPointer(v)
	}

	return e.bu.Call(callee, args), nil
}

// toPointer would bitcast a Value to opaque pointer if it weren't
// already one. Every Value this emitter produces is already
// opaque-pointer typed under the unified runtime representation, so
// there is nothing to convert; this stays a named step for the one
// call site a future non-pointer Value kind would need to change.
func (e *Emitter) toPointer(v backend.Value) backend.Value {
	return v
}

func (e *Emitter) anonName() string {
	e.anon++
	return fmt.Sprintf("wombat.fn.%d", e.anon)
}
