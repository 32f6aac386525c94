// Released under an MIT-style license. See LICENSE.

// Package wombaterr defines the error taxonomy shared by the reader,
// analyzer, emitter and driver.
package wombaterr

import "fmt"

// Reader reports malformed input: a bad number, an unterminated list,
// a misplaced dot, or trailing junk after a form.
type Reader struct {
	Message string
}

func (e *Reader) Error() string {
	return e.Message
}

// NewReader builds a Reader error from a format string.
func NewReader(format string, args ...interface{}) *Reader {
	return &Reader{Message: fmt.Sprintf(format, args...)}
}

// Compile reports a special-form shape violation, an unresolved symbol,
// an arity mismatch, or a non-callable callee. Culprit, when non-nil,
// is the form that triggered the error.
type Compile struct {
	Message string
	Culprit interface{}
}

func (e *Compile) Error() string {
	return e.Message
}

// NewCompile builds a Compile error from a format string.
func NewCompile(format string, args ...interface{}) *Compile {
	return &Compile{Message: fmt.Sprintf(format, args...)}
}

// NewCompileCulprit builds a Compile error carrying the offending form.
func NewCompileCulprit(culprit interface{}, format string, args ...interface{}) *Compile {
	return &Compile{Message: fmt.Sprintf(format, args...), Culprit: culprit}
}

// Type reports that the printer (or some other case analysis over a
// Form) encountered a kind it does not recognize. This should be
// unreachable; the driver treats it as a Compile error.
type Type struct {
	Message string
}

func (e *Type) Error() string {
	return e.Message
}

// NewType builds a Type error from a format string.
func NewType(format string, args ...interface{}) *Type {
	return &Type{Message: fmt.Sprintf(format, args...)}
}

// AsCompile converts any error into a *Compile, wrapping Type errors per
// its rule that the driver treats them as compile failures.
func AsCompile(err error) *Compile {
	switch e := err.(type) {
	case *Compile:
		return e
	case *Type:
		return &Compile{Message: e.Message}
	default:
		return &Compile{Message: err.Error()}
	}
}

// Fatal reports a condition the driver cannot recover from: JIT engine
// creation failure, or verifier rejection of a structurally valid AST.
// Callers terminate the process after printing Message.
type Fatal struct {
	Message string
}

func (e *Fatal) Error() string {
	return e.Message
}

// NewFatal builds a Fatal error from a format string.
func NewFatal(format string, args ...interface{}) *Fatal {
	return &Fatal{Message: fmt.Sprintf(format, args...)}
}
