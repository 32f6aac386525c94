// Released under an MIT-style license. See LICENSE.

// Package session owns the long-lived state of one REPL run: the
// symbol interner, the form registry, the global-definitions map, the
// backend module, and the execution engine. Exactly one Session exists
// per process and is meant to be driven single-threaded.
package session

import (
	"github.com/wombat-lang/wombat/internal/ast"
	"github.com/wombat-lang/wombat/internal/backend"
	"github.com/wombat-lang/wombat/internal/backend/llvmjit"
	"github.com/wombat-lang/wombat/internal/emit"
	"github.com/wombat-lang/wombat/internal/form"
	"github.com/wombat-lang/wombat/internal/wombaterr"
)

// Session bundles every piece of state that must survive across REPL
// iterations and be threaded through the analyzer and emitter.
type Session struct {
	Interner *form.Interner
	Registry *form.Registry

	globals  *ast.GlobalScope
	globalEnv *emit.GlobalEnv

	mod    *llvmjit.Module
	engine *llvmjit.Engine

	analyzer *ast.Analyzer
	emitter  *emit.Emitter
}

// New creates a Session with a fresh module and a fresh MCJIT engine.
// Engine construction failure is Fatal: the REPL cannot
// run without a JIT back end.
func New() (*Session, error) {
	registry := form.NewRegistry()
	interner := form.NewInterner(registry)

	mod := llvmjit.NewModule("wombat")
	engine, err := llvmjit.NewEngine(mod)
	if err != nil {
		return nil, wombaterr.NewFatal("%v", err)
	}

	globals := ast.NewGlobalScope()
	globalEnv := emit.NewGlobalEnv()

	s := &Session{
		Interner:  interner,
		Registry:  registry,
		globals:   globals,
		globalEnv: globalEnv,
		mod:       mod,
		engine:    engine,
	}
	s.analyzer = ast.NewAnalyzer(interner, globals)
	s.emitter = emit.New(mod, globalEnv)
	return s, nil
}

// Eval runs one top-level form through analyze → emit → verify →
// materialize → invoke, steps 4–7. It returns the
// resulting Form to print.
func (s *Session) Eval(f form.Form) (form.Form, error) {
	thunk := form.List3(s.Interner.Intern("fn"), nil, f)

	expr, err := s.analyzer.Analyze(thunk)
	if err != nil {
		return nil, wrapErr(err)
	}

	fn, err := s.emitter.Emit(expr)
	if err != nil {
		return nil, wrapErr(err)
	}

	compiled, err := s.engine.Materialize(fn)
	if err != nil {
		return nil, wombaterr.NewFatal("%v", err)
	}

	addr, err := compiled.Invoke(nil)
	if err != nil {
		return nil, wombaterr.NewFatal("%v", err)
	}

	result, ok := s.Registry.Lookup(addr)
	if !ok {
		return nil, wombaterr.NewFatal("result address %#x is not a known form", addr)
	}
	return result, nil
}

// wrapErr normalizes an analyzer/emitter error for the driver: a
// Fatal error propagates unchanged, anything else becomes a Compile error.
func wrapErr(err error) error {
	if _, ok := err.(*wombaterr.Fatal); ok {
		return err
	}
	return wombaterr.AsCompile(err)
}

// backendCheck is a compile-time assertion that llvmjit.Module and
// llvmjit.Engine satisfy internal/backend's interfaces.
var (
	_ backend.Module = (*llvmjit.Module)(nil)
	_ backend.Engine = (*llvmjit.Engine)(nil)
)
