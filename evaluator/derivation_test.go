package evaluator_test

import (
	"testing"

	"github.com/willjr/nix/symbol"
	"github.com/willjr/nix/values"
)

func TestIsDerivationTrue(t *testing.T) {
	ev, _ := newTestEvaluator()
	attrs := values.NewAttrs(0)
	attrs.Set(symbol.ToSymbol(`type`), values.WrapStringNoContext(`derivation`))
	if !ev.IsDerivation(values.WrapAttrs(attrs)) {
		t.Error(`expected an attrs set with type == "derivation" to be a derivation`)
	}
}

func TestIsDerivationFalseWithoutTypeAttr(t *testing.T) {
	ev, _ := newTestEvaluator()
	if ev.IsDerivation(values.WrapAttrs(values.NewAttrs(0))) {
		t.Error(`expected an attrs set without "type" to not be a derivation`)
	}
}

func TestIsDerivationFalseForNonAttrs(t *testing.T) {
	ev, _ := newTestEvaluator()
	if ev.IsDerivation(values.WrapInt(1)) {
		t.Error(`expected a non-attrs value to not be a derivation`)
	}
}
