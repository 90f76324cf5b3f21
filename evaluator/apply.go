// Function application (spec.md §4.3-4.4), grounded on the teacher's
// evaluator/eval.go callFunction/callLambda pair.
package evaluator

import (
	"github.com/lyraproj/issue/issue"

	"github.com/willjr/nix/ast"
	"github.com/willjr/nix/env"
	"github.com/willjr/nix/nixerr"
	"github.com/willjr/nix/symbol"
	"github.com/willjr/nix/values"
)

// CallFunction applies fun to arg (spec.md §4.3). fun is forced first,
// dispatching on its kind: PrimOp/PrimOpApp curry until saturated, then
// invoke; Lambda binds arg to its pattern in a fresh child environment
// and evaluates its body there.
func (e *Evaluator) CallFunction(fun, arg *values.Value, pos ast.Pos) *values.Value {
	fun = e.Force(fun)
	switch fun.Kind {
	case values.KPrimOp:
		return e.applyPrimOp(fun, arg, pos)
	case values.KPrimOpApp:
		return e.applyPrimOpApp(fun, arg, pos)
	case values.KLambda:
		return e.applyLambda(fun, arg, pos)
	default:
		panic(nixerr.New(nixerr.NotAFunction, pos, issue.H{`actual`: fun.Kind.String()}))
	}
}

// applyPrimOp implements the curried leftmost-first accumulation rule
// (spec.md §4.3): a PrimOp of arity 1 fires immediately; anything wider
// produces a PrimOpApp holding the arguments gathered so far.
func (e *Evaluator) applyPrimOp(fun, arg *values.Value, pos ast.Pos) *values.Value {
	if fun.PrimOp.Arity <= 1 {
		return e.invokePrimOp(fun.PrimOp, []*values.Value{arg}, pos)
	}
	return values.WrapPrimOpApp(&values.PrimOpApp{Left: fun, Right: arg, ArgsLeft: fun.PrimOp.Arity - 1})
}

// applyPrimOpApp extends a partial application, firing the underlying
// PrimOp once every argument has been gathered. Arguments are collected
// leftmost-first: gatherArgs walks the Left chain back to the PrimOp,
// producing args in original application order.
func (e *Evaluator) applyPrimOpApp(fun, arg *values.Value, pos ast.Pos) *values.Value {
	if fun.PrimOpApp.ArgsLeft <= 1 {
		op, args := gatherArgs(fun)
		args = append(args, arg)
		return e.invokePrimOp(op, args, pos)
	}
	return values.WrapPrimOpApp(&values.PrimOpApp{Left: fun, Right: arg, ArgsLeft: fun.PrimOpApp.ArgsLeft - 1})
}

// gatherArgs unwinds a PrimOpApp chain back to its root PrimOp,
// returning the arguments in the order they were originally supplied.
func gatherArgs(app *values.Value) (*values.PrimOp, []*values.Value) {
	var rights []*values.Value
	cur := app
	for cur.Kind == values.KPrimOpApp {
		rights = append(rights, cur.PrimOpApp.Right)
		cur = cur.PrimOpApp.Left
	}
	// cur is now the root PrimOp value; rights is innermost-first, i.e.
	// last-supplied-first, so reverse it.
	args := make([]*values.Value, len(rights))
	for i, r := range rights {
		args[len(rights)-1-i] = r
	}
	return cur.PrimOp, args
}

func (e *Evaluator) invokePrimOp(op *values.PrimOp, args []*values.Value, pos ast.Pos) *values.Value {
	result, err := op.Fn(args)
	if err != nil {
		if reported, ok := err.(issue.Reported); ok {
			panic(reported)
		}
		panic(nixerr.Wrap(pos, `'`+op.Name+`'`, err))
	}
	return result
}

// applyLambda binds arg to fun.Lambda.Pattern in a fresh child of the
// closure's captured environment, then evaluates the body there
// (spec.md §4.3).
func (e *Evaluator) applyLambda(fun, arg *values.Value, pos ast.Pos) *values.Value {
	closureEnv, ok := fun.Lambda.Env.(*env.Environment)
	if !ok {
		panic(nixerr.New(nixerr.EvalErrorCode, pos, issue.H{`message`: `lambda captured a foreign environment`}))
	}
	child := env.New(closureEnv)
	e.Stats.AllocEnvironment(child.DebugID())

	switch pat := fun.Lambda.Pattern.(type) {
	case ast.VarPattern:
		child.Bind(symbol.ToSymbol(pat.Name), arg)

	case ast.AttrsPattern:
		attrs := e.ForceAttrs(arg, pos)
		e.bindAttrsPattern(child, pat, attrs, pos)

	default:
		panic(nixerr.New(nixerr.EvalErrorCode, pos, issue.H{`message`: `unknown pattern form`}))
	}

	return e.Eval(child, fun.Lambda.Body)
}

// bindAttrsPattern implements spec.md §4.3's destructuring rules: every
// formal without a default must be present, with or without an
// ellipsis; a present attribute is bound via a Copy indirection
// (so forcing it through the parameter name and forcing it through the
// original set share one memoized result); a missing attribute with a
// default gets a thunk over that default, evaluated in an environment
// that can see sibling formals; an alias binds the whole set; supplying
// an attribute the pattern doesn't name is only permitted when the
// pattern has an ellipsis.
func (e *Evaluator) bindAttrsPattern(child *env.Environment, pat ast.AttrsPattern, attrs *values.Attrs, pos ast.Pos) {
	named := make(map[symbol.Symbol]struct{}, len(pat.Formals))
	for _, f := range pat.Formals {
		sym := symbol.ToSymbol(f.Name)
		named[sym] = struct{}{}
		if v, ok := attrs.Get(sym); ok {
			child.Bind(sym, values.NewCopy(v))
			continue
		}
		if f.Default == nil {
			panic(nixerr.New(nixerr.MissingArgument, pos, issue.H{`name`: f.Name}))
		}
		// The default expression may refer to other formals, so it must
		// be evaluated against child, not the closure environment.
		child.Bind(sym, values.NewThunk(child, f.Default))
	}

	if !pat.Ellipsis {
		attrs.Each(func(sym symbol.Symbol, _ *values.Value) {
			if _, ok := named[sym]; !ok {
				panic(nixerr.New(nixerr.UnexpectedArgument, pos, issue.H{`name`: symbol.SymbolToString(sym)}))
			}
		})
	}

	if pat.Alias != `` {
		child.Bind(symbol.ToSymbol(pat.Alias), values.WrapAttrs(attrs))
	}
}

// AutoCallFunction implements spec.md §4.4: fun is auto-called with an
// attribute set synthesized by picking, from args, each formal fun's
// own pattern requests (defaulting where fun's pattern allows, failing
// MissingArgument otherwise); attributes present in args but not named
// by a formal are simply ignored, never triggering UnexpectedArgument,
// since only requested formals are copied into the synthesized set. A
// Lambda whose pattern is not an AttrsPattern is returned unchanged,
// uncalled, matching the entry-point convention that only destructuring
// lambdas can be auto-called from an external name/value map.
func (e *Evaluator) AutoCallFunction(fun *values.Value, args *values.Attrs, pos ast.Pos) *values.Value {
	fun = e.Force(fun)
	if fun.Kind != values.KLambda {
		return fun
	}
	pat, ok := fun.Lambda.Pattern.(ast.AttrsPattern)
	if !ok {
		return fun
	}
	closureEnv, ok := fun.Lambda.Env.(*env.Environment)
	if !ok {
		panic(nixerr.New(nixerr.EvalErrorCode, pos, issue.H{`message`: `lambda captured a foreign environment`}))
	}
	child := env.New(closureEnv)
	e.Stats.AllocEnvironment(child.DebugID())

	requested := values.NewAttrs(len(pat.Formals))
	for _, f := range pat.Formals {
		sym := symbol.ToSymbol(f.Name)
		if v, ok := args.Get(sym); ok {
			requested.Set(sym, v)
		}
	}
	e.bindAttrsPattern(child, pat, requested, pos)
	return e.Eval(child, fun.Lambda.Body)
}
