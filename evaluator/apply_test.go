package evaluator_test

import (
	"testing"

	"github.com/willjr/nix/ast"
	"github.com/willjr/nix/symbol"
	"github.com/willjr/nix/values"
)

// Curry property: for any binary primop p and values a,b, p a b == (p a) b.
func TestCurryPropertyHoldsForAdd(t *testing.T) {
	ev, base := newTestEvaluator()

	direct := ast.NewCall(pos, ast.NewCall(pos, ast.NewVar(pos, `__add`), ast.NewIntLit(pos, 3)), ast.NewIntLit(pos, 4))
	// Bind the partial application to a name first, so the second
	// application happens against a genuinely separate PrimOpApp value
	// rather than re-evaluating the same call expression.
	viaLet := ast.NewLet(pos,
		[]ast.Binding{binding(`add3`, ast.NewCall(pos, ast.NewVar(pos, `__add`), ast.NewIntLit(pos, 3)))},
		ast.NewCall(pos, ast.NewVar(pos, `add3`), ast.NewIntLit(pos, 4)))

	a := ev.Eval(base, direct)
	b := ev.Eval(base, viaLet)
	if a.Int != b.Int || a.Int != 7 {
		t.Errorf(`expected both curried forms to yield 7, got %v and %v`, a.Int, b.Int)
	}
}

func TestAttrsPatternMissingArgumentFails(t *testing.T) {
	ev, base := newTestEvaluator()
	pat := ast.AttrsPattern{Formals: []ast.Formal{{Name: `x`}}}
	fn := ast.NewFunction(pos, pat, ast.NewVar(pos, `x`))
	call := ast.NewCall(pos, fn, ast.NewAttrSet(pos, nil))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal(`expected MissingArgument panic`)
		}
	}()
	ev.Eval(base, call)
}

func TestAttrsPatternUnexpectedArgumentFailsWithoutEllipsis(t *testing.T) {
	ev, base := newTestEvaluator()
	pat := ast.AttrsPattern{Formals: []ast.Formal{{Name: `x`}}}
	fn := ast.NewFunction(pos, pat, ast.NewVar(pos, `x`))
	arg := ast.NewAttrSet(pos, []ast.Binding{
		binding(`x`, ast.NewIntLit(pos, 1)),
		binding(`y`, ast.NewIntLit(pos, 2)),
	})
	call := ast.NewCall(pos, fn, arg)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal(`expected UnexpectedArgument panic`)
		}
	}()
	ev.Eval(base, call)
}

func TestAttrsPatternEllipsisAllowsExtraArguments(t *testing.T) {
	ev, base := newTestEvaluator()
	pat := ast.AttrsPattern{Formals: []ast.Formal{{Name: `x`}}, Ellipsis: true}
	fn := ast.NewFunction(pos, pat, ast.NewVar(pos, `x`))
	arg := ast.NewAttrSet(pos, []ast.Binding{
		binding(`x`, ast.NewIntLit(pos, 1)),
		binding(`y`, ast.NewIntLit(pos, 2)),
	})
	call := ast.NewCall(pos, fn, arg)

	result := ev.Eval(base, call)
	if result.Kind != values.KInt || result.Int != 1 {
		t.Errorf(`expected Int 1, got %v`, result)
	}
}

func TestAttrsPatternAliasBindsWholeSet(t *testing.T) {
	ev, base := newTestEvaluator()
	pat := ast.AttrsPattern{Formals: []ast.Formal{{Name: `x`}}, Alias: `all`}
	fn := ast.NewFunction(pos, pat, ast.NewSelect(pos, ast.NewVar(pos, `all`), `x`))
	arg := ast.NewAttrSet(pos, []ast.Binding{binding(`x`, ast.NewIntLit(pos, 5))})
	call := ast.NewCall(pos, fn, arg)

	result := ev.Eval(base, call)
	if result.Kind != values.KInt || result.Int != 5 {
		t.Errorf(`expected Int 5 via alias, got %v`, result)
	}
}

func TestCallingNonFunctionFails(t *testing.T) {
	ev, base := newTestEvaluator()
	call := ast.NewCall(pos, ast.NewIntLit(pos, 1), ast.NewIntLit(pos, 2))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal(`expected NotAFunction panic`)
		}
	}()
	ev.Eval(base, call)
}

func TestAutoCallFunctionPicksRequestedFormalsOnly(t *testing.T) {
	ev, base := newTestEvaluator()
	pat := ast.AttrsPattern{Formals: []ast.Formal{{Name: `x`}, {Name: `y`, Default: ast.NewIntLit(pos, 9)}}}
	fnVal := values.WrapLambda(&values.Lambda{Env: base, Pattern: pat, Body: ast.NewCall(pos, ast.NewCall(pos, ast.NewVar(pos, `__add`), ast.NewVar(pos, `x`)), ast.NewVar(pos, `y`))})

	args := values.NewAttrs(0)
	args.Set(symbol.ToSymbol(`x`), values.WrapInt(1))
	args.Set(symbol.ToSymbol(`z`), values.WrapInt(1000)) // unrequested, must be ignored

	result := ev.AutoCallFunction(fnVal, args, pos)
	if result.Kind != values.KInt || result.Int != 10 {
		t.Errorf(`expected Int 10 (1 + default 9), got %v`, result)
	}
}

func TestAutoCallFunctionReturnsNonAttrsLambdaUnchanged(t *testing.T) {
	ev, base := newTestEvaluator()
	fnVal := values.WrapLambda(&values.Lambda{Env: base, Pattern: ast.VarPattern{Name: `x`}, Body: ast.NewVar(pos, `x`)})

	result := ev.AutoCallFunction(fnVal, values.NewAttrs(0), pos)
	if result.Kind != values.KLambda {
		t.Errorf(`expected the lambda to be returned unchanged, got %v`, result.Kind)
	}
}
