// Released under an MIT-style license. See LICENSE.

// Package llvmjit is the one concrete internal/backend implementation
// in this repository: an LLVM module, builder, and MCJIT execution
// engine built on tinygo.org/x/go-llvm. internal/emit never imports
// this package directly; it programs against internal/backend's
// interfaces, which this package satisfies.
//
// The engine setup here mirrors original_source/kaleidoscope.cc and
// wombat/reader.cc's InitializeNativeTarget / EngineBuilder /
// ExecutionEngine sequence, translated to go-llvm's MCJIT binding.
package llvmjit

import (
	"fmt"
	"sync"
	"unsafe"

	"tinygo.org/x/go-llvm"

	"github.com/wombat-lang/wombat/internal/backend"
)

var initOnce sync.Once

func ensureNativeTarget() {
	initOnce.Do(func() {
		llvm.InitializeNativeTarget()
		llvm.InitializeNativeAsmPrinter()
	})
}

// ptrType wraps an llvm.Type to satisfy backend.Type.
type ptrType struct {
	t    llvm.Type
	name string
}

func (t ptrType) TypeName() string { return t.name }

// value wraps an llvm.Value to satisfy backend.Value.
type value struct {
	v    llvm.Value
	name string
}

func (v value) ValueName() string { return v.name }

// function wraps an llvm.Value known to be a function definition.
type function struct {
	fn    llvm.Value
	name  string
	arity int
}

func (f *function) ValueName() string        { return f.name }
func (f *function) Name() string             { return f.name }
func (f *function) Arity() int               { return f.arity }
func (f *function) Param(i int) backend.Value {
	return value{v: f.fn.Param(i), name: fmt.Sprintf("%s.arg%d", f.name, i)}
}

// block wraps an llvm.BasicBlock.
type block struct {
	b     llvm.BasicBlock
	label string
}

func (b block) Label() string { return b.label }

// cursor captures a builder's insertion point for save/restore.
type cursor struct {
	block llvm.BasicBlock
}

// Module owns the LLVM context, IR module, and shared builder for one
// REPL session.
type Module struct {
	ctx     llvm.Context
	mod     llvm.Module
	builder *Builder
	ptrTy   llvm.Type
	i64Ty   llvm.Type
}

// NewModule creates an empty LLVM module named name with a fresh
// context and a single shared builder.
func NewModule(name string) *Module {
	ctx := llvm.NewContext()
	mod := ctx.NewModule(name)

	m := &Module{
		ctx:   ctx,
		mod:   mod,
		ptrTy: llvm.PointerType(ctx.Int8Type(), 0),
		i64Ty: ctx.Int64Type(),
	}
	m.builder = &Builder{b: ctx.NewBuilder(), m: m}
	return m
}

// PointerType implements backend.Module.
func (m *Module) PointerType() backend.Type {
	return ptrType{t: m.ptrTy, name: "ptr"}
}

// Builder implements backend.Module.
func (m *Module) Builder() backend.Builder { return m.builder }

// FunctionCreate implements backend.Module. Every Wombat function has
// the unified signature opaque_ptr(opaque_ptr × arity), per the design
// §4.F.
func (m *Module) FunctionCreate(name string, arity int) backend.Function {
	params := make([]llvm.Type, arity)
	for i := range params {
		params[i] = m.ptrTy
	}
	fnType := llvm.FunctionType(m.ptrTy, params, false)
	fn := llvm.AddFunction(m.mod, name, fnType)
	return &function{fn: fn, name: name, arity: arity}
}

// BasicBlockCreate implements backend.Module.
func (m *Module) BasicBlockCreate(fn backend.Function, label string) backend.BasicBlock {
	f := fn.(*function)
	bb := m.ctx.AddBasicBlock(f.fn, label)
	return block{b: bb, label: label}
}

// GlobalCreate implements backend.Module: a new global of typ, with a
// null initializer.
func (m *Module) GlobalCreate(typ backend.Type, name string) backend.Value {
	t := typ.(ptrType).t
	g := llvm.AddGlobal(m.mod, t, name)
	g.SetInitializer(llvm.ConstNull(t))
	return value{v: g, name: name}
}

// GlobalLookup implements backend.Module.
func (m *Module) GlobalLookup(name string) backend.Value {
	g := m.mod.NamedGlobal(name)
	if g.IsNil() {
		return nil
	}
	return value{v: g, name: name}
}

// EraseFunction implements backend.Module, realizing the emit-erase
// invariant for a partially-emitted FnExpr.
func (m *Module) EraseFunction(fn backend.Function) {
	f := fn.(*function)
	f.fn.EraseFromParentAsFunction()
}

// VerifyFunction implements backend.Module.
func (m *Module) VerifyFunction(fn backend.Function) error {
	f := fn.(*function)
	if err := llvm.VerifyFunction(f.fn, llvm.ReturnStatusAction); err != nil {
		return err
	}
	return nil
}

// Builder drives instruction emission at a movable insertion cursor.
type Builder struct {
	b llvm.Builder
	m *Module
}

// SetInsert implements backend.Builder.
func (bu *Builder) SetInsert(bb backend.BasicBlock) {
	bu.b.SetInsertPointAtEnd(bb.(block).b)
}

// SaveCursor implements backend.Builder.
func (bu *Builder) SaveCursor() backend.Cursor {
	return cursor{block: bu.b.GetInsertBlock()}
}

// RestoreCursor implements backend.Builder.
func (bu *Builder) RestoreCursor(saved backend.Cursor) {
	c := saved.(cursor)
	if c.block.IsNil() {
		return
	}
	bu.b.SetInsertPointAtEnd(c.block)
}

// rawValue unwraps any backend.Value produced by this package —
// either a plain value or a *function used as a first-class value, as
// happens when a `def` binds a function literal — to its llvm.Value.
func rawValue(v backend.Value) llvm.Value {
	switch t := v.(type) {
	case value:
		return t.v
	case *function:
		return t.fn
	default:
		panic(fmt.Sprintf("llvmjit: not a value from this backend: %T", v))
	}
}

// ConstInt implements backend.Builder.
func (bu *Builder) ConstInt(v int64) backend.Value {
	return value{v: llvm.ConstInt(bu.m.i64Ty, uint64(v), false), name: "const.int"}
}

// ConstNullPtr implements backend.Builder.
func (bu *Builder) ConstNullPtr() backend.Value {
	return value{v: llvm.ConstPointerNull(bu.m.ptrTy), name: "const.nullptr"}
}

// PtrFromInt implements backend.Builder.
func (bu *Builder) PtrFromInt(v backend.Value) backend.Value {
	return value{v: bu.b.CreateIntToPtr(rawValue(v), bu.m.ptrTy, "ptr"), name: "ptr"}
}

// Load implements backend.Builder.
func (bu *Builder) Load(global backend.Value) backend.Value {
	g := rawValue(global)
	return value{v: bu.b.CreateLoad(bu.m.ptrTy, g, "load"), name: "load"}
}

// Store implements backend.Builder.
func (bu *Builder) Store(v backend.Value, global backend.Value) {
	bu.b.CreateStore(rawValue(v), rawValue(global))
}

// Call implements backend.Builder. fn may be a Function (direct call)
// or a bare Value of pointer type (indirect call).
func (bu *Builder) Call(fn backend.Value, args []backend.Value) backend.Value {
	llvmArgs := make([]llvm.Value, len(args))
	for i, a := range args {
		llvmArgs[i] = rawValue(a)
	}

	paramTypes := make([]llvm.Type, len(args))
	for i := range paramTypes {
		paramTypes[i] = bu.m.ptrTy
	}
	fnType := llvm.FunctionType(bu.m.ptrTy, paramTypes, false)
	callee := rawValue(fn)

	return value{v: bu.b.CreateCall(fnType, callee, llvmArgs, "call"), name: "call"}
}

// Ret implements backend.Builder.
func (bu *Builder) Ret(v backend.Value) {
	bu.b.CreateRet(rawValue(v))
}

// Engine is a single MCJIT execution engine bound to one Module's IR.
// Grounded on original_source/kaleidoscope.cc and wombat/reader.cc's
// InitializeNativeTarget / EngineBuilder / ExecutionEngine sequence.
type Engine struct {
	ee llvm.ExecutionEngine
}

// NewEngine creates an MCJIT engine over mod's underlying LLVM module.
// Failure is Fatal without a JIT backend the process
// cannot run at all.
func NewEngine(mod *Module) (*Engine, error) {
	ensureNativeTarget()

	opts := llvm.NewMCJITCompilerOptions()
	ee, err := llvm.NewMCJITCompiler(mod.mod, opts)
	if err != nil {
		return nil, fmt.Errorf("could not create execution engine: %w", err)
	}
	return &Engine{ee: ee}, nil
}

// compiledFunc is a materialized native function pointer.
type compiledFunc struct {
	ee   *llvm.ExecutionEngine
	name string
}

// Invoke implements backend.CompiledFunc. Wombat's unified calling
// convention passes and returns opaque heap addresses as uintptr.
func (c *compiledFunc) Invoke(args []uintptr) (uintptr, error) {
	genArgs := make([]llvm.GenericValue, len(args))
	for i, a := range args {
		genArgs[i] = llvm.NewGenericValueFromPointer(unsafe.Pointer(a))
	}

	fn, ok := c.ee.FindFunction(c.name)
	if !ok {
		return 0, fmt.Errorf("function %s was not materialized", c.name)
	}

	result := c.ee.RunFunction(fn, genArgs)
	return uintptr(result.Pointer()), nil
}

// Materialize implements backend.Engine. The function already lives in
// the module the engine was built over (the LLVM MCJIT binding
// materializes code lazily on first call), so Materialize only wraps
// the function's name in a callable; the engine lookup, and the error
// for a function it cannot find, happen in Invoke.
func (e *Engine) Materialize(fn backend.Function) (backend.CompiledFunc, error) {
	f := fn.(*function)
	return &compiledFunc{ee: &e.ee, name: f.name}, nil
}
