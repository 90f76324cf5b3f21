package primops

import (
	"fmt"
	"strconv"

	yaml "gopkg.in/yaml.v2"

	"github.com/willjr/nix/ast"
	"github.com/willjr/nix/env"
	"github.com/willjr/nix/evaluator"
	"github.com/willjr/nix/langversion"
	"github.com/willjr/nix/nixerr"
	"github.com/willjr/nix/symbol"
	"github.com/willjr/nix/values"

	"github.com/lyraproj/issue/issue"
)

// Standard registers the primop set this module ships (spec.md §5's
// worked demonstration set): arithmetic, comparison, string conversion,
// type predicates, and the two supplemented-from-original_source
// helpers listToAttrs and fromYAML. Every entry is registered under an
// internal "__name" identifier, mirroring the real evaluator's own
// convention of exposing an internal primop and a public alias
// separately.
func Standard(reg *Registry, ev *evaluator.Evaluator) {
	reg.Add(`__add`, 2, func(args []*values.Value) (*values.Value, error) {
		a := ev.ForceInt(args[0], ast.Pos{})
		b := ev.ForceInt(args[1], ast.Pos{})
		return values.WrapInt(a + b), nil
	})

	reg.Add(`__sub`, 2, func(args []*values.Value) (*values.Value, error) {
		a := ev.ForceInt(args[0], ast.Pos{})
		b := ev.ForceInt(args[1], ast.Pos{})
		return values.WrapInt(a - b), nil
	})

	reg.Add(`__lessThan`, 2, func(args []*values.Value) (*values.Value, error) {
		a := ev.ForceInt(args[0], ast.Pos{})
		b := ev.ForceInt(args[1], ast.Pos{})
		return values.WrapBool(a < b), nil
	})

	reg.Add(`__toString`, 1, func(args []*values.Value) (*values.Value, error) {
		ctx := values.NewContext()
		s := ev.CoerceToString(args[0], ctx, true, true)
		return values.WrapString(s, ctx), nil
	})

	reg.Add(`__isAttrs`, 1, func(args []*values.Value) (*values.Value, error) {
		return values.WrapBool(ev.Force(args[0]).Kind == values.KAttrs), nil
	})

	reg.Add(`__isList`, 1, func(args []*values.Value) (*values.Value, error) {
		return values.WrapBool(ev.Force(args[0]).Kind == values.KList), nil
	})

	reg.Add(`__isFunction`, 1, func(args []*values.Value) (*values.Value, error) {
		v := ev.Force(args[0])
		switch v.Kind {
		case values.KLambda, values.KPrimOp, values.KPrimOpApp:
			return values.True, nil
		default:
			return values.False, nil
		}
	})

	reg.Add(`__listToAttrs`, 1, func(args []*values.Value) (*values.Value, error) {
		elems := ev.ForceList(args[0], ast.Pos{})
		attrs := values.NewAttrs(len(elems))
		for _, elem := range elems {
			pair := ev.ForceAttrs(elem, ast.Pos{})
			nameVal, ok := pair.Get(symbol.ToSymbol(`name`))
			if !ok {
				return nil, nixerr.New(nixerr.AttrMissing, ast.Pos{}, issue.H{`name`: `name`})
			}
			valueVal, ok := pair.Get(symbol.ToSymbol(`value`))
			if !ok {
				return nil, nixerr.New(nixerr.AttrMissing, ast.Pos{}, issue.H{`name`: `value`})
			}
			name := ev.ForceStringNoCtx(nameVal, ast.Pos{})
			attrs.Set(symbol.ToSymbol(name), valueVal)
		}
		return values.WrapAttrs(attrs), nil
	})

	reg.Add(`__fromYAML`, 1, func(args []*values.Value) (*values.Value, error) {
		text := ev.ForceStringNoCtx(args[0], ast.Pos{})
		var decoded interface{}
		if err := yaml.Unmarshal([]byte(text), &decoded); err != nil {
			return nil, err
		}
		return fromYAMLValue(decoded), nil
	})
}

// fromYAMLValue converts a gopkg.in/yaml.v2 decode result (built from
// bool, int, float64, string, []interface{}, map[interface{}]interface{},
// and nil) into the value universe. yaml.v2 decodes mappings into
// MapSlice only when the target is itself a MapSlice; decoding into
// interface{} instead yields map[interface{}]interface{}, so keys are
// stringified and sorted by values.Attrs.Set on insert.
func fromYAMLValue(v interface{}) *values.Value {
	switch x := v.(type) {
	case nil:
		return values.Null
	case bool:
		return values.WrapBool(x)
	case int:
		return values.WrapInt(int64(x))
	case int64:
		return values.WrapInt(x)
	case float64:
		return values.WrapStringNoContext(strconv.FormatFloat(x, 'g', -1, 64))
	case string:
		return values.WrapStringNoContext(x)
	case []interface{}:
		elems := make([]*values.Value, len(x))
		for i, e := range x {
			elems[i] = fromYAMLValue(e)
		}
		return values.WrapList(elems)
	case map[interface{}]interface{}:
		attrs := values.NewAttrs(len(x))
		for k, e := range x {
			attrs.Set(symbol.ToSymbol(toYAMLKeyString(k)), fromYAMLValue(e))
		}
		return values.WrapAttrs(attrs)
	default:
		return values.WrapStringNoContext(``)
	}
}

func toYAMLKeyString(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf(`%v`, k)
}

// NewBaseEnvironment builds the root environment (spec.md §3 Lifecycle):
// every registered primop is bound under its own "__name" identifier and,
// stripped of that prefix, as an attribute of a "builtins" set; a
// handful of primops (toString, isAttrs, isList, isFunction) are also
// bound bare at top level, mirroring the real evaluator's mix of
// dunder-only and directly-callable builtins. builtins.langVersion and
// builtins.currentSystem (SPEC_FULL.md §5) round out the set.
func NewBaseEnvironment(reg *Registry) *env.Environment {
	base := env.NewBase()
	builtinsAttrs := values.NewAttrs(0)

	bareAliases := map[string]bool{
		`__toString`:   true,
		`__isAttrs`:    true,
		`__isList`:     true,
		`__isFunction`: true,
	}

	for _, op := range reg.Each() {
		full := symbol.ToSymbol(op.Name)
		wrapped := values.WrapPrimOp(op)
		base.Bind(full, wrapped)

		stripped := op.Name
		if len(stripped) > 2 && stripped[:2] == `__` {
			stripped = stripped[2:]
		}
		builtinsAttrs.Set(symbol.ToSymbol(stripped), wrapped)

		if bareAliases[op.Name] {
			base.Bind(symbol.ToSymbol(stripped), wrapped)
		}
	}

	builtinsAttrs.Set(symbol.ToSymbol(`langVersion`), values.WrapStringNoContext(langversion.String()))
	builtinsAttrs.Set(symbol.ToSymbol(`currentSystem`), values.WrapStringNoContext(`unknown`))

	base.Bind(symbol.ToSymbol(`builtins`), values.WrapAttrs(builtinsAttrs))
	base.Bind(symbol.ToSymbol(`true`), values.True)
	base.Bind(symbol.ToSymbol(`false`), values.False)
	base.Bind(symbol.ToSymbol(`null`), values.Null)

	return base
}
