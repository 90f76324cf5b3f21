// Package evaluator implements the expression dispatcher (spec.md §4.1),
// function application (§4.3-4.4), coercion/equality (§4.5), forcing
// (§4.6), and the derivation predicate (§4.7). It is grounded on the
// teacher's evaluator/eval.go BasicEval type switch and free-function-
// per-node-form style.
package evaluator

import (
	"github.com/lyraproj/issue/issue"

	"github.com/willjr/nix/ast"
	"github.com/willjr/nix/config"
	"github.com/willjr/nix/env"
	"github.com/willjr/nix/langversion"
	"github.com/willjr/nix/nixerr"
	"github.com/willjr/nix/stats"
	"github.com/willjr/nix/store"
	"github.com/willjr/nix/symbol"
	"github.com/willjr/nix/values"
)

// Evaluator carries per-run state: the object store, configuration, and
// statistics counters, mirroring the teacher's evaluationContext holding
// loader/scope/logger together (eval/context.go).
type Evaluator struct {
	Store  store.Store
	Config *config.Config
	Stats  *stats.Counters

	srcToStore map[string]string // memoized path -> store path (spec.md §4.5)
	interrupted bool
}

// New builds an Evaluator ready to evaluate expressions. If cfg names a
// MinLangVersion, it is checked against langversion.Current here, at
// construction time, the "at startup" point SPEC_FULL.md §5 describes.
func New(st store.Store, cfg *config.Config) (*Evaluator, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if err := langversion.CheckMinimum(cfg.MinLangVersion); err != nil {
		return nil, err
	}
	return &Evaluator{
		Store:      st,
		Config:     cfg,
		Stats:      stats.New(),
		srcToStore: make(map[string]string),
	}, nil
}

// Interrupt sets the cooperative interrupt flag consulted at every
// dispatcher entry (spec.md §5).
func (e *Evaluator) Interrupt() { e.interrupted = true }

// Eval is the expression dispatcher: given an environment and an
// expression, it produces a value (spec.md §4.1). Panics with an
// issue.Reported on failure, mirroring the teacher's panic/recover
// discipline (evaluator/eval.go's evalError, thrown via panic).
func (e *Evaluator) Eval(sc *env.Environment, expr ast.Expr) *values.Value {
	if e.interrupted {
		panic(nixerr.New(nixerr.Interrupted, expr.Pos(), nil))
	}
	e.Stats.Push()
	defer e.Stats.Pop()
	if e.Config.MaxCallDepth > 0 && e.Stats.Depth() > e.Config.MaxCallDepth {
		panic(nixerr.New(nixerr.RecursionLimitExceed, expr.Pos(), nil))
	}

	switch ex := expr.(type) {
	case *ast.Var:
		return e.evalVar(sc, ex)
	case *ast.IntLit:
		return values.WrapInt(ex.Value)
	case *ast.StrLit:
		return values.WrapStringNoContext(ex.Value)
	case *ast.PathLit:
		return values.WrapPath(ex.Value)
	case *ast.AttrSet:
		return e.evalAttrSet(sc, ex)
	case *ast.Rec:
		return e.evalRec(sc, ex)
	case *ast.Select:
		return e.evalSelect(sc, ex)
	case *ast.HasAttr:
		return e.evalHasAttr(sc, ex)
	case *ast.Function:
		return values.WrapLambda(&values.Lambda{Env: sc, Pattern: ex.Pattern, Body: ex.Body})
	case *ast.Call:
		return e.evalCall(sc, ex)
	case *ast.With:
		return e.evalWith(sc, ex)
	case *ast.List:
		return e.evalList(sc, ex)
	case *ast.BinOp:
		return e.evalBinOp(sc, ex)
	case *ast.ConcatStrings:
		return e.evalConcatStrings(sc, ex)
	case *ast.If:
		return e.evalIf(sc, ex)
	case *ast.Assert:
		return e.evalAssert(sc, ex)
	case *ast.Not:
		return values.WrapBool(!e.forceBoolValue(sc, ex.Operand))
	case *ast.Let:
		return e.evalLet(sc, ex)
	default:
		panic(nixerr.New(nixerr.EvalErrorCode, expr.Pos(), issue.H{`message`: `unhandled expression form`}))
	}
}

func (e *Evaluator) evalVar(sc *env.Environment, ex *ast.Var) *values.Value {
	v, ok := sc.Resolve(ex.Name)
	if !ok {
		panic(nixerr.New(nixerr.UndefinedVariable, ex.Pos(), issue.H{`name`: ex.Name}))
	}
	return e.Force(v)
}

// evalAttrSet allocates an empty attribute set and installs a thunk per
// binding, each closing over the *outer* environment (spec.md §4.1).
func (e *Evaluator) evalAttrSet(sc *env.Environment, ex *ast.AttrSet) *values.Value {
	attrs := values.NewAttrs(len(ex.Binds))
	for _, b := range ex.Binds {
		attrs.Set(symbol.ToSymbol(b.Name.Name), values.NewThunk(sc, b.Expr))
	}
	e.Stats.AllocValue()
	return values.WrapAttrs(attrs)
}

// evalRec allocates a new environment whose bindings alias the resulting
// attribute set (spec.md §4.1): recBinds close over that new environment
// so they can see each other and themselves; nonRecBinds close over the
// outer environment.
func (e *Evaluator) evalRec(sc *env.Environment, ex *ast.Rec) *values.Value {
	inner := env.New(sc)
	e.Stats.AllocEnvironment(inner.DebugID())
	attrs := values.NewAttrs(len(ex.RecBinds) + len(ex.NonRecBinds))
	for _, b := range ex.RecBinds {
		sym := symbol.ToSymbol(b.Name.Name)
		t := values.NewThunk(inner, b.Expr)
		attrs.Set(sym, t)
		inner.Bind(sym, t)
	}
	for _, b := range ex.NonRecBinds {
		attrs.Set(symbol.ToSymbol(b.Name.Name), values.NewThunk(sc, b.Expr))
	}
	e.Stats.AllocValue()
	return values.WrapAttrs(attrs)
}

func (e *Evaluator) evalSelect(sc *env.Environment, ex *ast.Select) *values.Value {
	operand := e.Eval(sc, ex.Operand)
	attrs := e.ForceAttrs(operand, ex.Operand.Pos())
	sym := symbol.ToSymbol(ex.Name)
	v, ok := attrs.Get(sym)
	if !ok {
		panic(nixerr.New(nixerr.AttrMissing, ex.Pos(), issue.H{`name`: ex.Name}))
	}
	return e.Force(v)
}

func (e *Evaluator) evalHasAttr(sc *env.Environment, ex *ast.HasAttr) *values.Value {
	operand := e.Eval(sc, ex.Operand)
	attrs := e.ForceAttrs(operand, ex.Operand.Pos())
	return values.WrapBool(attrs.Has(symbol.ToSymbol(ex.Name)))
}

func (e *Evaluator) evalCall(sc *env.Environment, ex *ast.Call) *values.Value {
	fun := e.Eval(sc, ex.Fun)
	arg := values.NewThunk(sc, ex.Arg)
	e.Stats.AllocValue()
	return e.CallFunction(fun, arg, ex.Pos())
}

func (e *Evaluator) evalWith(sc *env.Environment, ex *ast.With) *values.Value {
	setVal := e.Eval(sc, ex.Set)
	attrs := e.ForceAttrs(setVal, ex.Set.Pos())
	child := env.NewWith(sc, values.WrapAttrs(attrs))
	e.Stats.AllocEnvironment(child.DebugID())
	return e.Eval(child, ex.Body)
}

func (e *Evaluator) evalList(sc *env.Environment, ex *ast.List) *values.Value {
	if len(ex.Elems) == 0 {
		return values.EmptyList
	}
	elems := make([]*values.Value, len(ex.Elems))
	for i, el := range ex.Elems {
		elems[i] = values.NewThunk(sc, el)
	}
	e.Stats.AllocValue()
	return values.WrapList(elems)
}

func (e *Evaluator) evalBinOp(sc *env.Environment, ex *ast.BinOp) *values.Value {
	switch ex.Kind {
	case ast.OpEq:
		return values.WrapBool(e.Equals(e.Eval(sc, ex.Lhs), e.Eval(sc, ex.Rhs)))
	case ast.OpNEq:
		return values.WrapBool(!e.Equals(e.Eval(sc, ex.Lhs), e.Eval(sc, ex.Rhs)))
	case ast.OpConcat:
		l := e.ForceList(e.Eval(sc, ex.Lhs), ex.Lhs.Pos())
		r := e.ForceList(e.Eval(sc, ex.Rhs), ex.Rhs.Pos())
		out := make([]*values.Value, 0, len(l)+len(r))
		out = append(out, l...)
		out = append(out, r...)
		return values.WrapList(out)
	case ast.OpUpdate:
		l := e.ForceAttrs(e.Eval(sc, ex.Lhs), ex.Lhs.Pos())
		r := e.ForceAttrs(e.Eval(sc, ex.Rhs), ex.Rhs.Pos())
		clone := l.Clone()
		r.Each(func(name symbol.Symbol, v *values.Value) { clone.Set(name, v) })
		return values.WrapAttrs(clone)
	case ast.OpAnd:
		if !e.forceBoolValue(sc, ex.Lhs) {
			return values.False
		}
		return values.WrapBool(e.forceBoolValue(sc, ex.Rhs))
	case ast.OpOr:
		if e.forceBoolValue(sc, ex.Lhs) {
			return values.True
		}
		return values.WrapBool(e.forceBoolValue(sc, ex.Rhs))
	case ast.OpImpl:
		if !e.forceBoolValue(sc, ex.Lhs) {
			return values.True
		}
		return values.WrapBool(e.forceBoolValue(sc, ex.Rhs))
	default:
		panic(nixerr.New(nixerr.EvalErrorCode, ex.Pos(), issue.H{`message`: `unhandled binary operator`}))
	}
}

func (e *Evaluator) forceBoolValue(sc *env.Environment, expr ast.Expr) bool {
	return e.ForceBool(e.Eval(sc, expr), expr.Pos())
}

func (e *Evaluator) evalIf(sc *env.Environment, ex *ast.If) *values.Value {
	if e.forceBoolValue(sc, ex.Cond) {
		return e.Eval(sc, ex.Then)
	}
	return e.Eval(sc, ex.Else)
}

func (e *Evaluator) evalAssert(sc *env.Environment, ex *ast.Assert) *values.Value {
	if !e.forceBoolValue(sc, ex.Cond) {
		loc := ex.Pos()
		panic(nixerr.New(nixerr.AssertionError, ex.Pos(), issue.H{`position`: loc.File}))
	}
	return e.Eval(sc, ex.Body)
}

// evalLet desugars `let binds; in body` into a rec-like environment
// whose bindings alias each other, then evaluates body there (spec.md §8
// scenario: shadowing within nested lets).
func (e *Evaluator) evalLet(sc *env.Environment, ex *ast.Let) *values.Value {
	inner := env.New(sc)
	e.Stats.AllocEnvironment(inner.DebugID())
	for _, b := range ex.Binds {
		sym := symbol.ToSymbol(b.Name.Name)
		inner.Bind(sym, values.NewThunk(inner, b.Expr))
	}
	return e.Eval(inner, ex.Body)
}

// evalConcatStrings implements spec.md §4.1's concatStrings rule: if the
// first component is a Path, the whole result is a Path and no component
// may carry a non-empty context; otherwise the result is a Str whose
// context is the union of every component's context.
func (e *Evaluator) evalConcatStrings(sc *env.Environment, ex *ast.ConcatStrings) *values.Value {
	if len(ex.Parts) == 0 {
		return values.WrapStringNoContext(``)
	}
	first := e.Eval(sc, ex.Parts[0])
	first = e.Force(first)
	isPath := first.Kind == values.KPath

	if isPath {
		buf := first.Path
		for _, part := range ex.Parts[1:] {
			ctx := values.NewContext()
			s := e.CoerceToString(e.Eval(sc, part), ctx, false, false)
			if !ctx.Empty() {
				panic(nixerr.New(nixerr.EvalErrorCode, part.Pos(),
					issue.H{`message`: `a string that refers to a store path cannot be appended to a path`}))
			}
			buf += s
		}
		return values.WrapPath(buf)
	}

	ctx := values.NewContext()
	buf := e.CoerceToString(first, ctx, false, true)
	for _, part := range ex.Parts[1:] {
		buf += e.CoerceToString(e.Eval(sc, part), ctx, false, true)
	}
	return values.WrapString(buf, ctx)
}
