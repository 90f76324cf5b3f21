// Package env implements the environment graph of spec.md §3 and the
// name-resolution algorithm of spec.md §4.2: lexical scope chain with
// with-scoped fallback, outermost with-frame winning.
package env

import (
	"github.com/google/uuid"

	"github.com/willjr/nix/symbol"
	"github.com/willjr/nix/values"
)

// Environment is a node in the scope tree (spec.md §3). Bindings are
// mutated in place during thunk forcing is not required here — it is
// the *Value pointers stored as bindings that get overwritten in place;
// the binding map itself only grows.
type Environment struct {
	Up       *Environment
	Bindings map[symbol.Symbol]*values.Value

	// With holds the attribute set introduced by a `with` expression, if
	// this environment is a with-frame (spec.md §3's "distinguished key
	// sWith"). Nil when this environment introduces no with-scope.
	With *values.Value

	dbg string
}

// New allocates a child environment of up. Every rec{}, with, function
// call, or let creates one of these (spec.md §3 Lifecycle).
func New(up *Environment) *Environment {
	return &Environment{Up: up, Bindings: make(map[symbol.Symbol]*values.Value, 4)}
}

// NewBase allocates the root environment. Called once at startup and
// populated with constants and primops (spec.md §3 Lifecycle).
func NewBase() *Environment {
	return New(nil)
}

// NewWith allocates a child environment carrying a with-scope over set,
// which must already be an attrs value (spec.md §4.1 With rule demands
// this before allocating the frame).
func NewWith(up *Environment, set *values.Value) *Environment {
	e := New(up)
	e.With = set
	return e
}

// Bind installs name = v in this environment.
func (e *Environment) Bind(name symbol.Symbol, v *values.Value) {
	e.Bindings[name] = v
}

// DebugID returns a short-lived identifier for stats/tracing
// (SPEC_FULL.md §4); it plays no part in scoping semantics.
func (e *Environment) DebugID() string {
	if e.dbg == `` {
		e.dbg = uuid.NewString()
	}
	return e.dbg
}

// Resolve implements spec.md §4.2's two-phase lookup:
//  1. walk Up links for a lexical binding;
//  2. failing that, walk Up links again collecting with-frames, and
//     return the first (outermost) frame whose attribute set contains
//     name.
//
// It satisfies values.Environment so *Value's ThunkEnv field can hold an
// *Environment without an import cycle.
func (e *Environment) Resolve(name string) (*values.Value, bool) {
	sym := symbol.ToSymbol(name)
	for scope := e; scope != nil; scope = scope.Up {
		if v, ok := scope.Bindings[sym]; ok {
			return v, true
		}
	}

	var found *values.Value
	var hasFound bool
	// Outermost with-frame wins: collect frames root-to-leaf then take
	// the first hit, i.e. walk from the outermost inward. Since the
	// chain only exposes inner-to-outer traversal via Up, gather the
	// with-frames first and then scan them in reverse (outer-first).
	var frames []*values.Value
	for scope := e; scope != nil; scope = scope.Up {
		if scope.With != nil {
			frames = append(frames, scope.With)
		}
	}
	for i := len(frames) - 1; i >= 0; i-- {
		if v, ok := frames[i].AttrsGet(sym); ok {
			found, hasFound = v, true
			break
		}
	}
	return found, hasFound
}

// ResolveSymbol is a Symbol-keyed variant of Resolve, avoiding a string
// round-trip when the caller already holds a Symbol.
func (e *Environment) ResolveSymbol(sym symbol.Symbol) (*values.Value, bool) {
	for scope := e; scope != nil; scope = scope.Up {
		if v, ok := scope.Bindings[sym]; ok {
			return v, true
		}
	}
	var frames []*values.Value
	for scope := e; scope != nil; scope = scope.Up {
		if scope.With != nil {
			frames = append(frames, scope.With)
		}
	}
	for i := len(frames) - 1; i >= 0; i-- {
		if v, ok := frames[i].AttrsGet(sym); ok {
			return v, true
		}
	}
	return nil, false
}
