// Released under an MIT-style license. See LICENSE.

package ast

import (
	"github.com/wombat-lang/wombat/internal/form"
	"github.com/wombat-lang/wombat/internal/wombaterr"
)

// GlobalScope is the global-definitions map: the set of symbols a
// `def` has made visible to later analysis. It outlives any one
// Analyze call and is owned by internal/session.
type GlobalScope struct {
	defined map[*form.Symbol]struct{}
}

// NewGlobalScope returns an empty GlobalScope.
func NewGlobalScope() *GlobalScope {
	return &GlobalScope{defined: make(map[*form.Symbol]struct{})}
}

// Define records sym as globally bound.
func (g *GlobalScope) Define(sym *form.Symbol) {
	g.defined[sym] = struct{}{}
}

// IsDefined reports whether sym has been defined.
func (g *GlobalScope) IsDefined(sym *form.Symbol) bool {
	_, ok := g.defined[sym]
	return ok
}

// Analyzer turns a Form into a typed Expr. One Analyzer is created per
// session and reused across REPL iterations: its GlobalScope persists,
// but its local scope stack must be empty on entry to every top-level
// Analyze call.
type Analyzer struct {
	interner *form.Interner
	globals  *GlobalScope
	scopes   []map[*form.Symbol]struct{}

	symDef   *form.Symbol
	symQuote *form.Symbol
	symFn    *form.Symbol
	symDo    *form.Symbol
}

// NewAnalyzer builds an Analyzer sharing interner and globals with the
// rest of the session.
func NewAnalyzer(interner *form.Interner, globals *GlobalScope) *Analyzer {
	return &Analyzer{
		interner: interner,
		globals:  globals,
		symDef:   interner.Intern("def"),
		symQuote: interner.Intern("quote"),
		symFn:    interner.Intern("fn"),
		symDo:    interner.Intern("do"),
	}
}

// Analyze converts f into an Expr. The scope stack must be empty when
// this is called and is guaranteed empty again on return, including on
// error: every analyzeFn call pops what it pushes.
func (a *Analyzer) Analyze(f form.Form) (Expr, error) {
	return a.analyze(f)
}

func (a *Analyzer) analyze(f form.Form) (Expr, error) {
	if f == nil {
		return Nil, nil
	}

	switch v := f.(type) {
	case *form.Int, *form.Float:
		return &NumberExpr{Form: v}, nil
	case *form.Symbol:
		return a.analyzeSymbolRef(v)
	case *form.Pair:
		return a.analyzePair(v)
	default:
		return nil, wombaterr.NewCompileCulprit(f, "Unparsable form")
	}
}

func (a *Analyzer) analyzeSymbolRef(sym *form.Symbol) (Expr, error) {
	if !a.isResolved(sym) {
		return nil, wombaterr.NewCompileCulprit(sym, "Undefined symbol: %s", sym.Name())
	}
	return &SymbolExpr{Sym: sym}, nil
}

func (a *Analyzer) isResolved(sym *form.Symbol) bool {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if _, ok := a.scopes[i][sym]; ok {
			return true
		}
	}
	return a.globals.IsDefined(sym)
}

func (a *Analyzer) pushScope(syms []*form.Symbol) {
	frame := make(map[*form.Symbol]struct{}, len(syms))
	for _, s := range syms {
		frame[s] = struct{}{}
	}
	a.scopes = append(a.scopes, frame)
}

func (a *Analyzer) popScope() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

func (a *Analyzer) analyzePair(p *form.Pair) (Expr, error) {
	car := form.Car(p)
	if sym, ok := car.(*form.Symbol); ok {
		switch sym {
		case a.symDef:
			return a.analyzeDef(p)
		case a.symQuote:
			return a.analyzeQuote(p)
		case a.symFn:
			return a.analyzeFn(p)
		case a.symDo:
			return a.analyzeDo(p)
		}
	}
	return a.analyzeInvoke(p)
}

// analyzeDef validates `(def NAME [VALUE])`.
func (a *Analyzer) analyzeDef(p *form.Pair) (Expr, error) {
	n := form.Count(p)
	if !form.Listp(p) || n < 2 || n > 3 {
		return nil, wombaterr.NewCompileCulprit(p, "def must be a list of length 2 or 3")
	}

	nameForm := form.Car(form.Cdr(p).(*form.Pair))
	name, ok := nameForm.(*form.Symbol)
	if !ok {
		return nil, wombaterr.NewCompileCulprit(p, "def must bind to a symbol")
	}
	if a.isReserved(name) {
		return nil, wombaterr.NewCompileCulprit(p, "%s is reserved and cannot be bound", name.Name())
	}

	// The global-definitions map gains NAME before VALUE is analyzed, so
	// a recursive or forward reference to NAME resolves.
	a.globals.Define(name)

	var value Expr = Nil
	if n == 3 {
		valueForm := form.Car(form.Cdr(form.Cdr(p).(*form.Pair)).(*form.Pair))
		v, err := a.analyze(valueForm)
		if err != nil {
			return nil, err
		}
		value = v
	}

	return &DefExpr{Name: name, Value: value}, nil
}

// analyzeQuote validates `(quote FORM)`.
func (a *Analyzer) analyzeQuote(p *form.Pair) (Expr, error) {
	if !form.Listp(p) || form.Count(p) != 2 {
		return nil, wombaterr.NewCompileCulprit(p, "quote must be a list of length 2")
	}
	quoted := form.Car(form.Cdr(p).(*form.Pair))
	return &QuoteExpr{Form: quoted}, nil
}

// analyzeFn validates `(fn [NAME] (PARAMS…) BODY…)`.
func (a *Analyzer) analyzeFn(p *form.Pair) (Expr, error) {
	rest, ok := form.Cdr(p).(*form.Pair)
	if !ok {
		return nil, wombaterr.NewCompileCulprit(p, "fn requires a parameter list")
	}

	var name *form.Symbol
	head := form.Car(rest)
	if sym, isSym := head.(*form.Symbol); isSym {
		if a.isReserved(sym) {
			return nil, wombaterr.NewCompileCulprit(p, "%s is reserved and cannot name a function", sym.Name())
		}
		name = sym
		next, isPair := form.Cdr(rest).(*form.Pair)
		if !isPair {
			return nil, wombaterr.NewCompileCulprit(p, "Function arguments must be a list")
		}
		rest = next
		head = form.Car(rest)
	}

	if head != nil {
		if _, isPair := head.(*form.Pair); !isPair {
			return nil, wombaterr.NewCompileCulprit(p, "Function arguments must be a list")
		}
	}
	if !form.Listp(head) {
		return nil, wombaterr.NewCompileCulprit(p, "Function arguments must be a list")
	}

	params, err := symbolList(head)
	if err != nil {
		return nil, wombaterr.NewCompileCulprit(p, "Function arguments must be a list of symbols")
	}
	seen := make(map[*form.Symbol]struct{}, len(params))
	for _, param := range params {
		if a.isReserved(param) {
			return nil, wombaterr.NewCompileCulprit(p, "%s is reserved and cannot be a parameter", param.Name())
		}
		if _, dup := seen[param]; dup {
			return nil, wombaterr.NewCompileCulprit(p, "Duplicate parameter: %s", param.Name())
		}
		seen[param] = struct{}{}
	}

	scoped := params
	if name != nil {
		scoped = append([]*form.Symbol{name}, params...)
	}
	a.pushScope(scoped)

	bodyForms, isPair := form.Cdr(rest).(*form.Pair)
	var bodyForm form.Form
	if isPair {
		bodyForm = bodyForms
	}

	body, err := a.analyzeDoForms(bodyForm)
	if err != nil {
		a.popScope()
		return nil, err
	}
	a.popScope()

	return &FnExpr{Name: name, Params: params, Body: body}, nil
}

// symbolList converts a proper list of symbol forms into a slice,
// failing if any element is not a symbol.
func symbolList(f form.Form) ([]*form.Symbol, error) {
	var out []*form.Symbol
	for f != nil {
		p, ok := f.(*form.Pair)
		if !ok {
			return nil, wombaterr.NewReader("not a proper list")
		}
		sym, ok := form.Car(p).(*form.Symbol)
		if !ok {
			return nil, wombaterr.NewReader("element is not a symbol")
		}
		out = append(out, sym)
		f = form.Cdr(p)
	}
	return out, nil
}

// analyzeDo validates `(do BODY…)`.
func (a *Analyzer) analyzeDo(p *form.Pair) (Expr, error) {
	if !form.Listp(p) {
		return nil, wombaterr.NewCompileCulprit(p, "do must be a proper list")
	}
	return a.analyzeDoForms(form.Cdr(p))
}

// analyzeDoForms analyzes the elements of a proper list into a DoExpr:
// all but the last in statement context, the last as Tail. An empty
// list (or nil) tails to Nil.
func (a *Analyzer) analyzeDoForms(body form.Form) (*DoExpr, error) {
	var elems []form.Form
	for body != nil {
		p, ok := body.(*form.Pair)
		if !ok {
			return nil, wombaterr.NewCompile("body must be a proper list")
		}
		elems = append(elems, form.Car(p))
		body = form.Cdr(p)
	}

	if len(elems) == 0 {
		return &DoExpr{Tail: Nil}, nil
	}

	stmts := make([]Expr, 0, len(elems)-1)
	for _, e := range elems[:len(elems)-1] {
		stmt, err := a.analyze(e)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	tail, err := a.analyze(elems[len(elems)-1])
	if err != nil {
		return nil, err
	}

	return &DoExpr{Stmts: stmts, Tail: tail}, nil
}

// analyzeInvoke builds an InvokeExpr from any pair that is not a
// special form.
func (a *Analyzer) analyzeInvoke(p *form.Pair) (Expr, error) {
	if !form.Listp(p) {
		return nil, wombaterr.NewCompileCulprit(p, "Invalid function invocation")
	}

	callee, err := a.analyze(form.Car(p))
	if err != nil {
		return nil, err
	}

	var args []Expr
	rest := form.Cdr(p)
	for rest != nil {
		rp, ok := rest.(*form.Pair)
		if !ok {
			return nil, wombaterr.NewCompileCulprit(p, "Invalid function invocation")
		}
		arg, err := a.analyze(form.Car(rp))
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		rest = form.Cdr(rp)
	}

	return &InvokeExpr{Callee: callee, Args: args}, nil
}

func (a *Analyzer) isReserved(sym *form.Symbol) bool {
	return sym == a.symDef || sym == a.symQuote || sym == a.symFn || sym == a.symDo
}
