package values

import (
	"sort"

	"github.com/willjr/nix/symbol"
)

// Attrs is an attribute set: an unordered mapping from symbols to
// values, keys unique (spec.md §3). Keys are kept in canonical (sorted)
// order internally so that iteration and structural equality are
// deterministic, resolving spec.md §9's open question on attribute-set
// equality ordering.
type Attrs struct {
	keys []symbol.Symbol
	m    map[symbol.Symbol]*Value
}

// NewAttrs returns an empty attribute set with capacity for hint
// entries.
func NewAttrs(hint int) *Attrs {
	return &Attrs{m: make(map[symbol.Symbol]*Value, hint)}
}

// Len returns the number of attributes.
func (a *Attrs) Len() int { return len(a.keys) }

// Get returns the value bound to name, if any. The returned Value is not
// forced.
func (a *Attrs) Get(name symbol.Symbol) (*Value, bool) {
	v, ok := a.m[name]
	return v, ok
}

// Has reports whether name is bound.
func (a *Attrs) Has(name symbol.Symbol) bool {
	_, ok := a.m[name]
	return ok
}

// Set installs or overwrites the binding for name. Keys are kept sorted
// on insert so Keys()/iteration order stays canonical.
func (a *Attrs) Set(name symbol.Symbol, v *Value) {
	if _, exists := a.m[name]; !exists {
		idx := sort.Search(len(a.keys), func(i int) bool { return !a.keys[i].Less(name) })
		a.keys = append(a.keys, symbol.Symbol{})
		copy(a.keys[idx+1:], a.keys[idx:])
		a.keys[idx] = name
	}
	a.m[name] = v
}

// Keys returns the attribute names in canonical (sorted) order. The
// returned slice must not be mutated by callers.
func (a *Attrs) Keys() []symbol.Symbol { return a.keys }

// Clone returns a shallow copy: a new Attrs with the same key set and
// the same *Value pointers (spec.md §4.1's `//` clones the left side
// before overwriting/inserting the right side's bindings).
func (a *Attrs) Clone() *Attrs {
	clone := &Attrs{
		keys: make([]symbol.Symbol, len(a.keys)),
		m:    make(map[symbol.Symbol]*Value, len(a.m)),
	}
	copy(clone.keys, a.keys)
	for k, v := range a.m {
		clone.m[k] = v
	}
	return clone
}

// Each iterates in canonical key order.
func (a *Attrs) Each(f func(name symbol.Symbol, v *Value)) {
	for _, k := range a.keys {
		f(k, a.m[k])
	}
}
