package evaluator

import (
	"github.com/willjr/nix/symbol"
	"github.com/willjr/nix/values"
)

// IsDerivation implements spec.md §4.7: v is a derivation if forcing it
// yields an attrs value carrying a "type" attribute whose forced string
// value (with no context contribution required) equals "derivation".
func (e *Evaluator) IsDerivation(v *values.Value) bool {
	v = e.Force(v)
	if v.Kind != values.KAttrs {
		return false
	}
	typeAttr, ok := v.Attrs.Get(symbol.ToSymbol(`type`))
	if !ok {
		return false
	}
	typeAttr = e.Force(typeAttr)
	return typeAttr.Kind == values.KString && typeAttr.Str == `derivation`
}
