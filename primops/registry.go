// Package primops implements the built-in function table (spec.md §5,
// §6) and its installation into a base environment, grounded on the
// teacher's pdsl/functions.go registration pattern (name, arity,
// implementation triples collected into a lookup table before being
// bound into scope).
package primops

import "github.com/willjr/nix/values"

// Registry accumulates primop definitions before they are installed
// into an environment by NewBaseEnvironment.
type Registry struct {
	ops []*values.PrimOp
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{} }

// Add registers a primop under name with the given arity and
// implementation. Arity must be >= 1; CallFunction curries anything
// wider than one argument (spec.md §4.3).
func (r *Registry) Add(name string, arity int, fn values.PrimOpFunc) {
	r.ops = append(r.ops, &values.PrimOp{Name: name, Arity: arity, Fn: fn})
}

// Each returns every registered primop, in registration order.
func (r *Registry) Each() []*values.PrimOp {
	out := make([]*values.PrimOp, len(r.ops))
	copy(out, r.ops)
	return out
}
