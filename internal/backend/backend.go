// Released under an MIT-style license. See LICENSE.

// Package backend declares the abstract IR/JIT collaborator contract
// that internal/emit programs against. Wombat treats
// the choice of IR and execution engine as an external collaborator;
// internal/backend/llvmjit is the one concrete implementation in this
// repository, but internal/emit never imports it directly.
package backend

// Type is an opaque IR type handle. The contract requires at minimum
// an opaque-pointer-to-byte type and a signed 64-bit integer type.
type Type interface {
	TypeName() string
}

// Value is a handle to an IR value: a constant, an instruction result,
// a function argument, or a global variable.
type Value interface {
	ValueName() string
}

// Cursor is an opaque, opaque-to-callers snapshot of a Builder's
// insertion point, produced by Builder.SaveCursor and consumed by
// Builder.RestoreCursor.
type Cursor interface{}

// Function is a named function with a typed signature and a
// basic-block list.
type Function interface {
	Value
	Name() string
	Arity() int
	Param(i int) Value
}

// BasicBlock is a sequence of instructions terminated by a
// branch/return.
type BasicBlock interface {
	Label() string
}

// Builder emits instructions at a movable insertion cursor.
type Builder interface {
	// SetInsert moves the cursor to the end of block.
	SetInsert(block BasicBlock)

	// SaveCursor captures the current insertion point so it can be
	// restored later, even across emission of an unrelated function.
	SaveCursor() Cursor

	// RestoreCursor moves the cursor back to a previously saved point.
	RestoreCursor(saved Cursor)

	// ConstInt returns a constant signed-64 IR value.
	ConstInt(value int64) Value

	// ConstNullPtr returns a constant null opaque pointer.
	ConstNullPtr() Value

	// PtrFromInt bitcasts an integer value to an opaque pointer.
	PtrFromInt(v Value) Value

	// Load reads the current value of a global variable.
	Load(global Value) Value

	// Store writes value into a global variable.
	Store(value Value, global Value)

	// Call emits a call to fn with args, direct if fn is a Function,
	// indirect if fn is a function-pointer-typed Value.
	Call(fn Value, args []Value) Value

	// Ret terminates the current block, returning value.
	Ret(value Value)
}

// Module is an opaque container of named globals and functions.
type Module interface {
	// FunctionCreate declares a new function named name with arity
	// parameters, all and always opaque-pointer typed under the
	// unified runtime representation.
	FunctionCreate(name string, arity int) Function

	// BasicBlockCreate appends a new basic block to fn.
	BasicBlockCreate(fn Function, label string) BasicBlock

	// GlobalCreate declares a new global of typ named name with a null
	// initializer.
	GlobalCreate(typ Type, name string) Value

	// GlobalLookup returns the existing global named name, or nil if
	// none exists.
	GlobalLookup(name string) Value

	// EraseFunction removes fn and all its blocks from the module. Used
	// to implement the emit-erase invariant on a failed FnExpr.
	EraseFunction(fn Function)

	// VerifyFunction checks fn for structural validity. A non-nil error
	// is Fatal a well-typed AST should never fail
	// verification.
	VerifyFunction(fn Function) error

	// PointerType returns the opaque-pointer-to-byte type.
	PointerType() Type

	// Builder returns the module's single shared instruction builder.
	Builder() Builder
}

// Engine materializes verified functions into callable native code.
type Engine interface {
	// Materialize JIT-compiles fn (if not already) and returns a
	// callable handle to it.
	Materialize(fn Function) (CompiledFunc, error)
}

// CompiledFunc is a zero-or-more-argument native function pointer,
// callable with boxed opaque-pointer arguments and returning one.
type CompiledFunc interface {
	// Invoke calls the underlying native code with args, each an
	// untyped heap address boxed as uintptr, and returns the result
	// address in the same representation.
	Invoke(args []uintptr) (uintptr, error)
}
