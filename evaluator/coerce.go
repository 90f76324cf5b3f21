// String/path coercion (spec.md §4.5's first section), grounded on the
// teacher's eval/coerce.go type-conversion helpers, generalized here to
// carry string context and consult the store collaborator.
package evaluator

import (
	"path/filepath"
	"strconv"

	"github.com/lyraproj/issue/issue"

	"github.com/willjr/nix/ast"
	"github.com/willjr/nix/nixerr"
	"github.com/willjr/nix/symbol"
	"github.com/willjr/nix/values"
)

// CoerceToString implements spec.md §4.5: v is forced and converted to a
// Go string, unioning any context it carries into ctx (mutated in
// place, matching the concatenation dispatcher's accumulate-as-you-go
// style). coerceMore additionally permits Bool, Null, Int and List
// operands (used by string interpolation contexts that accept "anything
// stringable"); without it only String, Path and Attrs (via outPath)
// are accepted. copyToStore controls whether a Path operand is copied
// into the store (true, e.g. plain interpolation, itself split further
// by Config.ReadOnlyStore into AddToStore vs ComputeStorePathForPath) or
// merely canonicalized with no store interaction at all (false, path-
// concatenation contexts per spec.md §4.5).
func (e *Evaluator) CoerceToString(v *values.Value, ctx values.Context, coerceMore, copyToStore bool) string {
	v = e.Force(v)

	switch v.Kind {
	case values.KString:
		for _, p := range v.Ctx.Sorted() {
			ctx.Add(p)
		}
		return v.Str

	case values.KPath:
		return e.coercePath(v.Path, ctx, copyToStore)

	case values.KAttrs:
		return e.coerceAttrs(v.Attrs, ctx, coerceMore, copyToStore)
	}

	if coerceMore {
		switch v.Kind {
		case values.KBool:
			if v.Bool {
				return `1`
			}
			return ``
		case values.KNull:
			return ``
		case values.KInt:
			return strconv.FormatInt(v.Int, 10)
		case values.KList:
			// Coercing a list joins its (recursively coerced) elements with
			// a single space, except that no separator follows an element
			// that was itself an empty list — a quirk carried forward from
			// the just-appended element's emptiness, not the upcoming
			// element's, rather than "fixed" into a uniform
			// join-with-separator rule (see DESIGN.md's Open Question
			// decisions).
			var out string
			last := len(v.List) - 1
			for i, elem := range v.List {
				forced := e.Force(elem)
				out += e.CoerceToString(forced, ctx, coerceMore, copyToStore)
				emptyList := forced.Kind == values.KList && len(forced.List) == 0
				if i < last && !emptyList {
					out += ` `
				}
			}
			return out
		}
	}

	panic(nixerr.New(nixerr.TypeErrorCode, ast.Pos{}, issue.H{`expected`: `a string-coercible value`, `actual`: v.Kind.String()}))
}

// coercePath canonicalizes path and, if copyToStore, copies it into the
// store, unioning the resulting store path into ctx. A ".drv" path is
// never copied by mere string coercion: turning a derivation's own path
// into a build-time dependency happens through the derivation machinery
// on purpose, not implicitly.
func (e *Evaluator) coercePath(path string, ctx values.Context, copyToStore bool) string {
	clean := filepath.Clean(path)

	if !copyToStore {
		return clean
	}

	if e.Store != nil && e.Store.IsDerivation(clean) {
		panic(nixerr.New(nixerr.EvalErrorCode, ast.Pos{},
			issue.H{`message`: `a derivation path cannot be copied to the store by string coercion: '` + clean + `'`}))
	}

	if sp, ok := e.srcToStore[clean]; ok {
		ctx.Add(sp)
		return sp
	}

	sp := clean
	if e.Store != nil {
		if e.Config != nil && e.Config.ReadOnlyStore {
			computed, err := e.Store.ComputeStorePathForPath(clean)
			if err != nil {
				panic(nixerr.Wrap(ast.Pos{}, `while computing the store path for '`+clean+`'`, err))
			}
			sp = computed
		} else {
			copied, err := e.Store.AddToStore(clean)
			if err != nil {
				panic(nixerr.Wrap(ast.Pos{}, `while copying '`+clean+`' to the store`, err))
			}
			sp = copied
		}
	}
	e.srcToStore[clean] = sp
	ctx.Add(sp)
	return sp
}

// coerceAttrs implements spec.md §4.5's rule for coercing an attribute
// set: it must carry an "outPath" attribute (the derivation convention),
// whose value is itself coerced.
func (e *Evaluator) coerceAttrs(attrs *values.Attrs, ctx values.Context, coerceMore, copyToStore bool) string {
	outPath, ok := attrs.Get(symbol.ToSymbol(`outPath`))
	if !ok {
		panic(nixerr.New(nixerr.TypeErrorCode, ast.Pos{},
			issue.H{`expected`: `a set with an 'outPath' attribute`, `actual`: `set`}))
	}
	return e.CoerceToString(outPath, ctx, coerceMore, copyToStore)
}

// CoerceToPath implements spec.md §4.5's path-demand rule: the value
// must coerce to a non-empty string beginning with '/'. A non-absolute
// result gets one more chance: resolution against the store's configured
// search path (SPEC_FULL.md §5), the way a bare `<nixpkgs>`-style lookup
// would resolve before this module's parser-external boundary.
func (e *Evaluator) CoerceToPath(v *values.Value, pos ast.Pos) string {
	ctx := values.NewContext()
	s := e.CoerceToString(v, ctx, false, false)
	if s != `` && s[0] == '/' {
		return s
	}
	if e.Store != nil {
		if resolved, ok := e.Store.ResolveSearchPath(s); ok {
			return resolved
		}
	}
	panic(nixerr.New(nixerr.TypeErrorCode, pos, issue.H{`expected`: `an absolute path`, `actual`: s}))
}
