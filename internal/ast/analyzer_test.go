// Released under an MIT-style license. See LICENSE.

package ast

import (
	"strings"
	"testing"

	"github.com/wombat-lang/wombat/internal/form"
	"github.com/wombat-lang/wombat/internal/reader"
)

// readForm parses src into a single Form for use as analyzer input.
func readForm(t *testing.T, in *form.Interner, reg *form.Registry, src string) form.Form {
	t.Helper()
	r := reader.New(reader.NewStream(strings.NewReader(src)), in, reg)
	f, ok, err := r.ReadForm()
	if err != nil || !ok {
		t.Fatalf("readForm(%q): ok=%v err=%v", src, ok, err)
	}
	return f
}

func newAnalyzer() (*Analyzer, *form.Interner, *form.Registry) {
	reg := form.NewRegistry()
	in := form.NewInterner(reg)
	return NewAnalyzer(in, NewGlobalScope()), in, reg
}

func TestAnalyzeNumber(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "42")
	expr, err := a.Analyze(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := expr.(*NumberExpr); !ok {
		t.Fatalf("got %T, want *NumberExpr", expr)
	}
}

func TestAnalyzeUndefinedSymbolErrors(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "nope")
	if _, err := a.Analyze(f); err == nil {
		t.Fatal("expected an error for an undefined symbol")
	}
}

func TestAnalyzeDefThenReference(t *testing.T) {
	a, in, reg := newAnalyzer()
	def := readForm(t, in, reg, "(def x 1)")
	if _, err := a.Analyze(def); err != nil {
		t.Fatal(err)
	}

	ref := readForm(t, in, reg, "x")
	expr, err := a.Analyze(ref)
	if err != nil {
		t.Fatalf("x should resolve after (def x 1): %v", err)
	}
	if _, ok := expr.(*SymbolExpr); !ok {
		t.Fatalf("got %T, want *SymbolExpr", expr)
	}
}

func TestAnalyzeDefRequiresSymbolName(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(def 1 2)")
	_, err := a.Analyze(f)
	if err == nil {
		t.Fatal("expected an error: def must bind to a symbol")
	}
}

func TestAnalyzeDefReservedNameRejected(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(def quote 1)")
	if _, err := a.Analyze(f); err == nil {
		t.Fatal("expected an error binding a reserved identifier")
	}
}

func TestAnalyzeDefAllowsRecursiveReference(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(def f (fn (n) (f n)))")
	if _, err := a.Analyze(f); err != nil {
		t.Fatalf("recursive def should analyze cleanly: %v", err)
	}
}

func TestAnalyzeDefDefaultsToNil(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(def x)")
	expr, err := a.Analyze(f)
	if err != nil {
		t.Fatal(err)
	}
	d := expr.(*DefExpr)
	if d.Value != Nil {
		t.Fatal("a def with no value form should default its Value to Nil")
	}
}

func TestAnalyzeQuote(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(quote (1 2))")
	expr, err := a.Analyze(f)
	if err != nil {
		t.Fatal(err)
	}
	q, ok := expr.(*QuoteExpr)
	if !ok {
		t.Fatalf("got %T, want *QuoteExpr", expr)
	}
	if form.Count(q.Form) != 2 {
		t.Fatal("quoted form should be the unevaluated (1 2) list")
	}
}

func TestAnalyzeQuoteWrongArity(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(quote 1 2)")
	if _, err := a.Analyze(f); err == nil {
		t.Fatal("expected an error: quote must be a list of length 2")
	}
}

func TestAnalyzeFnParamsMustBeList(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(fn 5 1)")
	if _, err := a.Analyze(f); err == nil {
		t.Fatal("expected an error: Function arguments must be a list")
	}
}

func TestAnalyzeFnDuplicateParam(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(fn (x x) x)")
	if _, err := a.Analyze(f); err == nil {
		t.Fatal("expected an error for a duplicate parameter name")
	}
}

func TestAnalyzeFnParamResolvesInsideBody(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(fn (x) x)")
	expr, err := a.Analyze(f)
	if err != nil {
		t.Fatalf("a parameter should resolve inside its own function body: %v", err)
	}
	fn := expr.(*FnExpr)
	if len(fn.Params) != 1 {
		t.Fatalf("got %d params, want 1", len(fn.Params))
	}
}

func TestAnalyzeFnPopsScopeOnError(t *testing.T) {
	a, in, reg := newAnalyzer()
	bad := readForm(t, in, reg, "(fn (x) nope)")
	if _, err := a.Analyze(bad); err == nil {
		t.Fatal("expected an error: nope is not defined")
	}
	if len(a.scopes) != 0 {
		t.Fatal("a failed fn analysis must still pop its scope")
	}

	// x must not leak out of the failed fn's scope.
	ref := readForm(t, in, reg, "x")
	if _, err := a.Analyze(ref); err == nil {
		t.Fatal("x should not resolve outside the fn body that bound it")
	}
}

func TestAnalyzeNamedFnSelfReference(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(fn loop (n) (loop n))")
	if _, err := a.Analyze(f); err != nil {
		t.Fatalf("a named fn should resolve its own name inside its body: %v", err)
	}
}

func TestAnalyzeDoEmptyBodyIsNil(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(do)")
	expr, err := a.Analyze(f)
	if err != nil {
		t.Fatal(err)
	}
	d := expr.(*DoExpr)
	if len(d.Stmts) != 0 || d.Tail != Nil {
		t.Fatal("an empty do body should produce zero Stmts and Tail == Nil")
	}
}

func TestAnalyzeDoSplitsStmtsAndTail(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(do 1 2 3)")
	expr, err := a.Analyze(f)
	if err != nil {
		t.Fatal(err)
	}
	d := expr.(*DoExpr)
	if len(d.Stmts) != 2 {
		t.Fatalf("got %d stmts, want 2", len(d.Stmts))
	}
	if _, ok := d.Tail.(*NumberExpr); !ok {
		t.Fatalf("tail got %T, want *NumberExpr", d.Tail)
	}
}

func TestAnalyzeInvokeOnLiteralIsNotRejectedAtAnalysisTime(t *testing.T) {
	// (1 2 3): the analyzer has no notion of "callable"; it is the
	// emitter's job to reject a non-function callee. The analyzer should produce a plain InvokeExpr here.
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(1 2 3)")
	expr, err := a.Analyze(f)
	if err != nil {
		t.Fatalf("analysis of (1 2 3) should succeed: %v", err)
	}
	inv, ok := expr.(*InvokeExpr)
	if !ok {
		t.Fatalf("got %T, want *InvokeExpr", expr)
	}
	if len(inv.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(inv.Args))
	}
}

func TestAnalyzeScopeStackEmptyAfterTopLevelCall(t *testing.T) {
	a, in, reg := newAnalyzer()
	f := readForm(t, in, reg, "(fn (x y) (do x y))")
	if _, err := a.Analyze(f); err != nil {
		t.Fatal(err)
	}
	if len(a.scopes) != 0 {
		t.Fatal("the scope stack must be empty again after a top-level Analyze call")
	}
}
