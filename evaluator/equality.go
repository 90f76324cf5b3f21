// Structural equality (spec.md §4.5's second section), grounded on the
// teacher's eval/compare.go value-equality visitor.
package evaluator

import (
	"github.com/willjr/nix/symbol"
	"github.com/willjr/nix/values"
)

// Equals implements spec.md §4.5's equality: both sides are forced;
// mismatched kinds are unequal (no coercion); strings compare by bytes
// only, ignoring context; lists compare element-wise by length then
// pairwise Equals; attrs compare by canonical key set (same names, same
// count) then pairwise Equals over the shared names; functions
// (lambdas, primops, partial primop applications) are never equal, not
// even to themselves, matching Nix's own runtime behavior for function
// values.
func (e *Evaluator) Equals(a, b *values.Value) bool {
	a = e.Force(a)
	b = e.Force(b)

	if a.Kind != b.Kind {
		// Nix treats int and float as comparable across kinds, but this
		// evaluator has no float type (spec.md §1 Non-goals), so a kind
		// mismatch is always inequality.
		return false
	}

	switch a.Kind {
	case values.KInt:
		return a.Int == b.Int
	case values.KBool:
		return a.Bool == b.Bool
	case values.KNull:
		return true
	case values.KString:
		return a.Str == b.Str
	case values.KPath:
		return a.Path == b.Path
	case values.KList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !e.Equals(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case values.KAttrs:
		return e.attrsEqual(a.Attrs, b.Attrs)
	case values.KLambda, values.KPrimOp, values.KPrimOpApp:
		return false
	default:
		return false
	}
}

func (e *Evaluator) attrsEqual(a, b *values.Attrs) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Each(func(name symbol.Symbol, av *values.Value) {
		if !equal {
			return
		}
		bv, ok := b.Get(name)
		if !ok || !e.Equals(av, bv) {
			equal = false
		}
	})
	return equal
}
