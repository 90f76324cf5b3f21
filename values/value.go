// Package values implements the value universe of spec.md §3: a tagged
// discriminated union addressed exclusively through *Value pointers so
// that thunk forcing can overwrite a value's state in place and every
// holder of that pointer observes the memoized result (spec.md §4.6,
// §9 "thunk in-place mutation"). This departs from the teacher's
// interface-per-variant representation (github.com/lyraproj/puppet-
// evaluator's types.Integer, types.Array, ...) precisely because Puppet
// values are never thunks; see DESIGN.md for the full rationale.
package values

import (
	"github.com/google/uuid"

	"github.com/willjr/nix/ast"
	"github.com/willjr/nix/symbol"
)

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KInt Kind = iota
	KBool
	KNull
	KString
	KPath
	KAttrs
	KList
	KLambda
	KPrimOp
	KPrimOpApp
	KThunk
	KApp
	KCopy
	KBlackhole
)

func (k Kind) String() string {
	switch k {
	case KInt:
		return `int`
	case KBool:
		return `bool`
	case KNull:
		return `null`
	case KString:
		return `string`
	case KPath:
		return `path`
	case KAttrs:
		return `set`
	case KList:
		return `list`
	case KLambda:
		return `lambda`
	case KPrimOp:
		return `primop`
	case KPrimOpApp:
		return `primop-app`
	case KThunk:
		return `thunk`
	case KApp:
		return `app`
	case KCopy:
		return `copy`
	case KBlackhole:
		return `blackhole`
	default:
		return `unknown`
	}
}

// Environment is the minimal surface Value needs from the environment
// graph. Declared here (rather than importing package env directly) to
// avoid an import cycle, since env.Environment stores *Value bindings.
type Environment interface {
	Resolve(name string) (*Value, bool)
}

// Lambda is a closure over a lexical environment (spec.md §3).
type Lambda struct {
	Env     Environment
	Pattern ast.Pattern
	Body    ast.Expr
}

// PrimOpFunc is the signature a registered built-in implements. args is
// exactly PrimOp.Arity long, in left-to-right supplied order (spec.md
// §4.3).
type PrimOpFunc func(args []*Value) (*Value, error)

// PrimOp is a built-in n-ary function (spec.md §3).
type PrimOp struct {
	Name  string
	Arity int
	Fn    PrimOpFunc
}

// PrimOpApp is a partially applied primop (spec.md §3). Left points to
// either a *PrimOp or another *PrimOpApp.
type PrimOpApp struct {
	Left     *Value
	Right    *Value
	ArgsLeft int
}

// Value is the tagged union described by spec.md §3. Only the fields
// relevant to Kind are meaningful; all others are zero.
type Value struct {
	Kind Kind
	dbg  string // debug-only identifier, see uuid usage below

	Int  int64
	Bool bool

	Str string
	Ctx Context

	Path string

	Attrs *Attrs
	List  []*Value

	Lambda    *Lambda
	PrimOp    *PrimOp
	PrimOpApp *PrimOpApp

	ThunkEnv  Environment
	ThunkExpr ast.Expr

	AppFun *Value
	AppArg *Value

	CopyOf *Value
}

// DebugID returns a short-lived identifier for stats/tracing
// (SPEC_FULL.md §4), generated on first call; the evaluator records it
// for each Thunk it forces. It plays no part in value identity or
// equality.
func (v *Value) DebugID() string {
	if v.dbg == `` {
		v.dbg = uuid.NewString()
	}
	return v.dbg
}

// Constructors, named Wrap* to match the teacher's WrapInteger/
// WrapBoolean/WrapString convention (evaluator/eval.go, types/*.go).

func WrapInt(i int64) *Value { return &Value{Kind: KInt, Int: i} }

func WrapBool(b bool) *Value {
	if b {
		return True
	}
	return False
}

func WrapString(s string, ctx Context) *Value {
	if ctx == nil {
		ctx = NewContext()
	}
	return &Value{Kind: KString, Str: s, Ctx: ctx}
}

// WrapStringNoContext is a convenience for the very common
// context-free-string case (e.g. literals).
func WrapStringNoContext(s string) *Value {
	return &Value{Kind: KString, Str: s, Ctx: NewContext()}
}

func WrapPath(p string) *Value { return &Value{Kind: KPath, Path: p} }

func WrapAttrs(a *Attrs) *Value { return &Value{Kind: KAttrs, Attrs: a} }

func WrapList(elems []*Value) *Value { return &Value{Kind: KList, List: elems} }

func WrapLambda(l *Lambda) *Value { return &Value{Kind: KLambda, Lambda: l} }

func WrapPrimOp(p *PrimOp) *Value { return &Value{Kind: KPrimOp, PrimOp: p} }

func WrapPrimOpApp(p *PrimOpApp) *Value { return &Value{Kind: KPrimOpApp, PrimOpApp: p} }

// NewThunk allocates an unforced suspension over (env, expr).
func NewThunk(env Environment, expr ast.Expr) *Value {
	return &Value{Kind: KThunk, ThunkEnv: env, ThunkExpr: expr}
}

// NewApp builds a delayed application, functionally equivalent to a
// thunk but pre-decomposed (spec.md §3).
func NewApp(fun, arg *Value) *Value {
	return &Value{Kind: KApp, AppFun: fun, AppArg: arg}
}

// NewCopy builds an indirection used to share evaluated results through
// aliasing (spec.md §3, used by attribute-set pattern binding).
func NewCopy(target *Value) *Value {
	return &Value{Kind: KCopy, CopyOf: target}
}

// Singletons, mirroring the teacher's px.Undef / types.BooleanFalse
// pattern.
var (
	Null  = &Value{Kind: KNull}
	True  = &Value{Kind: KBool, Bool: true}
	False = &Value{Kind: KBool, Bool: false}

	EmptyList  = &Value{Kind: KList, List: nil}
	blackhole  = &Value{Kind: KBlackhole}
)

// Blackhole returns the transient marker placed on a thunk while it is
// being forced (spec.md §3). It is a shared singleton since it carries
// no per-site state.
func Blackhole() *Value { return blackhole }

// IsInternal reports whether v is in one of the internal-only states
// (Thunk, Blackhole, Copy, App) that spec.md §3 says must never be
// observable by user-visible operations after forcing.
func (v *Value) IsInternal() bool {
	switch v.Kind {
	case KThunk, KBlackhole, KCopy, KApp:
		return true
	default:
		return false
	}
}

// AttrsGet is a convenience for looking up name in an attrs Value,
// returning (nil, false) if v is not an attrs value or name is absent.
func (v *Value) AttrsGet(name symbol.Symbol) (*Value, bool) {
	if v.Kind != KAttrs {
		return nil, false
	}
	return v.Attrs.Get(name)
}
