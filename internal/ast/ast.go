// Released under an MIT-style license. See LICENSE.

// Package ast defines Wombat's typed expression tree, the analyzer's
// output and the emitter's input.
package ast

import "github.com/wombat-lang/wombat/internal/form"

// Expr is implemented by every typed AST node kind.
type Expr interface {
	exprNode()
}

// NilExpr denotes the literal nil. Nil is a singleton returned by
// Analyze; there is exactly one NilExpr value in the whole process.
type NilExpr struct{}

func (*NilExpr) exprNode() {}

// Nil is the shared NilExpr singleton.
var Nil = &NilExpr{}

// NumberExpr wraps an integer or float literal form. Form is always a
// *form.Int or *form.Float.
type NumberExpr struct {
	Form form.Form
}

func (*NumberExpr) exprNode() {}

// SymbolExpr references a bound symbol, resolved at analysis time.
type SymbolExpr struct {
	Sym *form.Symbol
}

func (*SymbolExpr) exprNode() {}

// QuoteExpr yields the quoted form unevaluated.
type QuoteExpr struct {
	Form form.Form
}

func (*QuoteExpr) exprNode() {}

// DefExpr binds Name in the global environment to Value, which is Nil
// when the source form omitted a value.
type DefExpr struct {
	Name  *form.Symbol
	Value Expr
}

func (*DefExpr) exprNode() {}

// FnExpr is a function literal. Name is nil unless the source bound a
// self-reference name for recursion.
type FnExpr struct {
	Name   *form.Symbol
	Params []*form.Symbol
	Body   *DoExpr
}

func (*FnExpr) exprNode() {}

// DoExpr sequences Stmts for effect and yields Tail's value. An empty
// source body produces Tail == ast.Nil and no Stmts.
type DoExpr struct {
	Stmts []Expr
	Tail  Expr
}

func (*DoExpr) exprNode() {}

// InvokeExpr applies Callee to Args, in source order.
type InvokeExpr struct {
	Callee Expr
	Args   []Expr
}

func (*InvokeExpr) exprNode() {}
