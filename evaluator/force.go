package evaluator

import (
	"github.com/lyraproj/issue/issue"

	"github.com/willjr/nix/ast"
	"github.com/willjr/nix/env"
	"github.com/willjr/nix/nixerr"
	"github.com/willjr/nix/symbol"
	"github.com/willjr/nix/values"
)

// Force implements spec.md §4.6's forceValue: Thunk is blackholed then
// evaluated in place (memoization by overwrite); Copy dereferences and
// copies its target; App performs the delayed call; Blackhole signals
// infinite recursion. Any other value is already forced and is returned
// unchanged.
func (e *Evaluator) Force(v *values.Value) *values.Value {
	switch v.Kind {
	case values.KThunk:
		thunkEnv, expr := v.ThunkEnv, v.ThunkExpr
		sc, ok := thunkEnv.(*env.Environment)
		if !ok {
			panic(nixerr.New(nixerr.EvalErrorCode, expr.Pos(), issue.H{`message`: `thunk captured a foreign environment`}))
		}
		e.Stats.RecordThunkForce(v.DebugID())

		// Overwrite the thunk with a blackhole for the duration of the
		// forcing call so that a self-referential force is diagnosed as
		// infinite recursion instead of looping forever (spec.md §4.6).
		v.Kind = values.KBlackhole
		v.ThunkEnv, v.ThunkExpr = nil, nil

		result := func() (result *values.Value) {
			defer func() {
				if r := recover(); r != nil {
					// Restore the thunk so the same failure reproduces on
					// the next demand (spec.md §7).
					v.Kind = values.KThunk
					v.ThunkEnv, v.ThunkExpr = thunkEnv, expr
					panic(r)
				}
			}()
			return e.Eval(sc, expr)
		}()

		*v = *result
		return v

	case values.KCopy:
		target := e.Force(v.CopyOf)
		*v = *target
		return v

	case values.KApp:
		result := e.CallFunction(v.AppFun, v.AppArg, ast.Pos{})
		*v = *result
		return v

	case values.KBlackhole:
		panic(nixerr.New(nixerr.InfiniteRecursion, ast.Pos{}, nil))

	default:
		return v
	}
}

// StrictForce recursively forces v and, if it is an attrs or list,
// every value reachable from it (spec.md §4.6). There is no cycle
// protection beyond Force's own blackhole detection.
func (e *Evaluator) StrictForce(v *values.Value) *values.Value {
	v = e.Force(v)
	switch v.Kind {
	case values.KAttrs:
		v.Attrs.Each(func(_ symbol.Symbol, elem *values.Value) { e.StrictForce(elem) })
	case values.KList:
		for _, elem := range v.List {
			e.StrictForce(elem)
		}
	}
	return v
}

// TryForce forces v, recovering a panic into an error return instead of
// propagating it — the mechanism SPEC_FULL.md §5 says a tryEval-style
// primop would need, without this module implementing that primop's
// body (out of scope per spec.md §1).
func (e *Evaluator) TryForce(v *values.Value) (result *values.Value, ok bool, err issue.Reported) {
	defer func() {
		if r := recover(); r != nil {
			if reported, isReported := r.(issue.Reported); isReported {
				err = reported
				ok = false
				return
			}
			panic(r)
		}
	}()
	result = e.Force(v)
	ok = true
	return
}

// Typed demands (spec.md §4.6): force then assert the tag.

func (e *Evaluator) ForceInt(v *values.Value, pos ast.Pos) int64 {
	v = e.Force(v)
	if v.Kind != values.KInt {
		panic(e.typeError(`an integer`, v, pos))
	}
	return v.Int
}

func (e *Evaluator) ForceBool(v *values.Value, pos ast.Pos) bool {
	v = e.Force(v)
	if v.Kind != values.KBool {
		panic(e.typeError(`a boolean`, v, pos))
	}
	return v.Bool
}

func (e *Evaluator) ForceAttrs(v *values.Value, pos ast.Pos) *values.Attrs {
	v = e.Force(v)
	if v.Kind != values.KAttrs {
		panic(e.typeError(`a set`, v, pos))
	}
	return v.Attrs
}

func (e *Evaluator) ForceList(v *values.Value, pos ast.Pos) []*values.Value {
	v = e.Force(v)
	if v.Kind != values.KList {
		panic(e.typeError(`a list`, v, pos))
	}
	return v.List
}

func (e *Evaluator) ForceFunction(v *values.Value, pos ast.Pos) *values.Value {
	v = e.Force(v)
	switch v.Kind {
	case values.KLambda, values.KPrimOp, values.KPrimOpApp:
		return v
	default:
		panic(e.typeError(`a function`, v, pos))
	}
}

// ForceString demands a Str value and returns both its bytes and
// context.
func (e *Evaluator) ForceString(v *values.Value, pos ast.Pos) (string, values.Context) {
	v = e.Force(v)
	if v.Kind != values.KString {
		panic(e.typeError(`a string`, v, pos))
	}
	return v.Str, v.Ctx
}

// ForceStringNoCtx demands a Str value with an empty context, naming a
// sample offending store path if the context is non-empty (spec.md
// §4.6).
func (e *Evaluator) ForceStringNoCtx(v *values.Value, pos ast.Pos) string {
	s, ctx := e.ForceString(v, pos)
	if !ctx.Empty() {
		sample := ctx.Sorted()[0]
		panic(nixerr.New(nixerr.EvalErrorCode, pos,
			issue.H{`message`: `the string '` + s + `' is not allowed to refer to a store path, such as '` + sample + `'`}))
	}
	return s
}

func (e *Evaluator) typeError(expected string, actual *values.Value, pos ast.Pos) issue.Reported {
	return nixerr.New(nixerr.TypeErrorCode, pos, issue.H{`expected`: expected, `actual`: actual.Kind.String()})
}
