package values

import (
	"testing"

	"github.com/willjr/nix/symbol"
)

func TestAttrsSetKeepsCanonicalOrder(t *testing.T) {
	a := NewAttrs(0)
	a.Set(symbol.ToSymbol(`c`), WrapInt(3))
	a.Set(symbol.ToSymbol(`a`), WrapInt(1))
	a.Set(symbol.ToSymbol(`b`), WrapInt(2))

	keys := a.Keys()
	if len(keys) != 3 || keys[0].String() != `a` || keys[1].String() != `b` || keys[2].String() != `c` {
		t.Errorf(`expected sorted key order [a b c], got %v`, keys)
	}
}

func TestAttrsCloneIsShallowAndIndependent(t *testing.T) {
	a := NewAttrs(0)
	a.Set(symbol.ToSymbol(`x`), WrapInt(1))
	clone := a.Clone()
	clone.Set(symbol.ToSymbol(`y`), WrapInt(2))

	if a.Has(symbol.ToSymbol(`y`)) {
		t.Error(`mutating the clone must not affect the original`)
	}
	v, ok := clone.Get(symbol.ToSymbol(`x`))
	if !ok || v.Int != 1 {
		t.Error(`clone must retain the original's bindings`)
	}
}

func TestAttrsEachVisitsInCanonicalOrder(t *testing.T) {
	a := NewAttrs(0)
	a.Set(symbol.ToSymbol(`b`), WrapInt(2))
	a.Set(symbol.ToSymbol(`a`), WrapInt(1))

	var seen []string
	a.Each(func(name symbol.Symbol, _ *Value) { seen = append(seen, name.String()) })
	if len(seen) != 2 || seen[0] != `a` || seen[1] != `b` {
		t.Errorf(`expected canonical-order visitation, got %v`, seen)
	}
}
