// Package ast defines the expression tree consumed by the evaluator.
//
// The parser that produces this tree is an external collaborator (see
// spec.md §1); this package only defines the closed set of node shapes
// the dispatcher switches on, plus a Pos value that package nixerr adapts
// into github.com/lyraproj/issue's issue.Location, so errors can be
// attributed to a position without this package depending on the issue
// library itself.
package ast

// Pos identifies a source position for error reporting. The parser is
// expected to stamp every node it produces with one.
type Pos struct {
	File string
	Line int
	Col  int
}

// Expr is the interface every expression node implements. It carries no
// behavior of its own: the evaluator dispatches on the concrete type via
// a type switch, mirroring evaluator/eval.go's BasicEval in the teacher.
type Expr interface {
	Pos() Pos
}

type base struct {
	P Pos
}

func (b base) Pos() Pos { return b.P }

// Var is a variable reference.
type Var struct {
	base
	Name string
}

func NewVar(pos Pos, name string) *Var { return &Var{base{pos}, name} }

// IntLit is an integer literal.
type IntLit struct {
	base
	Value int64
}

func NewIntLit(pos Pos, v int64) *IntLit { return &IntLit{base{pos}, v} }

// StrLit is a string literal. Literals carry no context (spec.md §4.1).
type StrLit struct {
	base
	Value string
}

func NewStrLit(pos Pos, v string) *StrLit { return &StrLit{base{pos}, v} }

// PathLit is a path literal.
type PathLit struct {
	base
	Value string
}

func NewPathLit(pos Pos, v string) *PathLit { return &PathLit{base{pos}, v} }

// Binding is one `name = expr;` pair inside an attribute set or let.
type Binding struct {
	Name Symbolic
	Expr Expr
}

// Symbolic is anything that names an attribute: either a plain
// identifier or (in a fuller language) an interpolated key. Only plain
// names are needed here.
type Symbolic struct {
	Name string
}

// AttrSet is a non-recursive attribute-set literal: `{ a = 1; b = 2; }`.
type AttrSet struct {
	base
	Binds []Binding
}

func NewAttrSet(pos Pos, binds []Binding) *AttrSet { return &AttrSet{base{pos}, binds} }

// Rec is a recursive attribute set: `rec { a = 1; b = a + 1; }`. RecBinds
// close over the set's own environment; NonRecBinds close over the
// enclosing environment (spec.md §4.1).
type Rec struct {
	base
	RecBinds    []Binding
	NonRecBinds []Binding
}

func NewRec(pos Pos, rec, nonRec []Binding) *Rec { return &Rec{base{pos}, rec, nonRec} }

// Select is `e.name`.
type Select struct {
	base
	Operand Expr
	Name    string
}

func NewSelect(pos Pos, operand Expr, name string) *Select { return &Select{base{pos}, operand, name} }

// HasAttr is `e ? name`.
type HasAttr struct {
	base
	Operand Expr
	Name    string
}

func NewHasAttr(pos Pos, operand Expr, name string) *HasAttr {
	return &HasAttr{base{pos}, operand, name}
}

// Formal is one formal parameter of an attribute-set pattern:
// `name` or `name ? default`.
type Formal struct {
	Name    string
	Default Expr // nil if no default
}

// Pattern is the formal-parameter shape of a function literal: either a
// VarPattern (plain identifier) or an AttrsPattern (destructuring with
// optional ellipsis and alias).
type Pattern interface {
	isPattern()
}

// VarPattern is `x:` — bind the whole argument to x.
type VarPattern struct {
	Name string
}

func (VarPattern) isPattern() {}

// AttrsPattern is `{ f1 ? d1, f2, ... }@alias:`.
type AttrsPattern struct {
	Formals  []Formal
	Ellipsis bool
	Alias    string // "" if no alias
}

func (AttrsPattern) isPattern() {}

// Function is a lambda literal.
type Function struct {
	base
	Pattern Pattern
	Body    Expr
}

func NewFunction(pos Pos, pat Pattern, body Expr) *Function { return &Function{base{pos}, pat, body} }

// Call is `f x`.
type Call struct {
	base
	Fun Expr
	Arg Expr
}

func NewCall(pos Pos, fun, arg Expr) *Call { return &Call{base{pos}, fun, arg} }

// With is `with e; body`.
type With struct {
	base
	Set  Expr
	Body Expr
}

func NewWith(pos Pos, set, body Expr) *With { return &With{base{pos}, set, body} }

// List is a list literal.
type List struct {
	base
	Elems []Expr
}

func NewList(pos Pos, elems []Expr) *List { return &List{base{pos}, elems} }

// BinOpKind enumerates the boolean/structural binary operators that are
// not arithmetic (arithmetic itself is a primop concern, out of scope).
type BinOpKind int

const (
	OpEq BinOpKind = iota
	OpNEq
	OpConcat // list ++
	OpUpdate // attrs //
	OpAnd
	OpOr
	OpImpl
)

// BinOp is a binary operator node for one of BinOpKind's forms.
type BinOp struct {
	base
	Kind BinOpKind
	Lhs  Expr
	Rhs  Expr
}

func NewBinOp(pos Pos, kind BinOpKind, lhs, rhs Expr) *BinOp {
	return &BinOp{base{pos}, kind, lhs, rhs}
}

// ConcatStrings is Nix's `${a}${b}...` / adjacent-string-literal string
// concatenation, kept distinct from BinOp because it has its own
// path/context rules (spec.md §4.1).
type ConcatStrings struct {
	base
	Parts []Expr
}

func NewConcatStrings(pos Pos, parts []Expr) *ConcatStrings { return &ConcatStrings{base{pos}, parts} }

// If is a conditional.
type If struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

func NewIf(pos Pos, cond, then, els Expr) *If { return &If{base{pos}, cond, then, els} }

// Assert is `assert e; body`.
type Assert struct {
	base
	Cond Expr
	Body Expr
}

func NewAssert(pos Pos, cond, body Expr) *Assert { return &Assert{base{pos}, cond, body} }

// Not is unary boolean negation.
type Not struct {
	base
	Operand Expr
}

func NewNot(pos Pos, operand Expr) *Not { return &Not{base{pos}, operand} }

// Let is `let binds...; in body` — sugar over a Rec whose result is
// immediately selected, kept as its own node because it is common enough
// to deserve a dedicated dispatch rule (spec.md §8 scenario "let x = a in
// let x = b in x").
type Let struct {
	base
	Binds []Binding
	Body  Expr
}

func NewLet(pos Pos, binds []Binding, body Expr) *Let { return &Let{base{pos}, binds, body} }
