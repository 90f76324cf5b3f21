// Package nixerr defines the error kinds surfaced by the evaluator
// (spec.md §7) as issue codes registered with github.com/lyraproj/issue,
// the same way the teacher's pdsl/issues.go registers EVAL_* codes.
package nixerr

import (
	"github.com/lyraproj/issue/issue"

	"github.com/willjr/nix/ast"
)

// Issue codes, one per spec.md §7 error kind. ParseError is a passthrough
// from the external parser collaborator and is registered so that
// wrapping code (e.g. "while evaluating the file '...'") can attach a
// location to it uniformly with the rest.
const (
	ParseError           = `EVAL_PARSE_ERROR`
	UndefinedVariable    = `EVAL_UNDEFINED_VARIABLE`
	TypeErrorCode        = `EVAL_TYPE_ERROR`
	AttrMissing          = `EVAL_ATTR_MISSING`
	MissingArgument      = `EVAL_MISSING_ARGUMENT`
	UnexpectedArgument   = `EVAL_UNEXPECTED_ARGUMENT`
	AssertionError       = `EVAL_ASSERTION_ERROR`
	InfiniteRecursion    = `EVAL_INFINITE_RECURSION`
	EvalErrorCode        = `EVAL_GENERIC_ERROR`
	Thrown               = `EVAL_THROWN`
	Aborted              = `EVAL_ABORTED`
	RecursionLimitExceed = `EVAL_RECURSION_LIMIT_EXCEEDED`
	Interrupted          = `EVAL_INTERRUPTED`
	NotAFunction         = `EVAL_NOT_A_FUNCTION`
)

func init() {
	issue.Hard2(ParseError, `parse error: %{detail}`, issue.HF{})
	issue.Hard2(UndefinedVariable, `undefined variable '%{name}'`, issue.HF{})
	issue.Hard2(TypeErrorCode, `expected %{expected}, got %{actual}`, issue.HF{})
	issue.Hard2(AttrMissing, `attribute '%{name}' missing`, issue.HF{})
	issue.Hard2(MissingArgument, `function called without required argument '%{name}'`, issue.HF{})
	issue.Hard(UnexpectedArgument, `function called with unexpected argument`)
	issue.Hard2(AssertionError, `assertion failed at %{position}`, issue.HF{})
	issue.Hard(InfiniteRecursion, `infinite recursion encountered`)
	issue.Hard2(EvalErrorCode, `%{message}`, issue.HF{})
	issue.Hard2(Thrown, `%{message}`, issue.HF{})
	issue.Hard2(Aborted, `evaluation aborted: %{message}`, issue.HF{})
	issue.Hard(RecursionLimitExceed, `call stack depth exceeded the configured maximum`)
	issue.Hard(Interrupted, `evaluation was interrupted`)
	issue.Hard2(NotAFunction, `value of type %{actual} is not a function`, issue.HF{})
}

// location adapts an ast.Pos into issue.Location without ast depending on
// the issue package.
type location struct {
	pos ast.Pos
}

func (l location) File() string { return l.pos.File }
func (l location) Line() int    { return l.pos.Line }
func (l location) Pos() int     { return l.pos.Col }

// Loc wraps an ast.Pos as an issue.Location, going through the location
// adapter above rather than issue.NewLocation directly so File/Line/Pos
// stay attached to ast.Pos's own field semantics.
func Loc(pos ast.Pos) issue.Location {
	return location{pos: pos}
}

// New creates a Reported error at the given position, ready to be
// panicked with. Mirrors evaluator/eval.go's evalError helper.
func New(code issue.Code, pos ast.Pos, args issue.H) issue.Reported {
	if args == nil {
		args = issue.H{}
	}
	return issue.NewReported(code, issue.SEVERITY_ERROR, args, Loc(pos))
}

// Wrap re-reports err with a contextual prefix, the way spec.md §7
// describes selection/attribute-forcing wrapping lower-level errors
// ("while evaluating the attribute 'x'").
func Wrap(pos ast.Pos, prefix string, err interface{}) issue.Reported {
	if r, ok := err.(issue.Reported); ok {
		return New(EvalErrorCode, pos, issue.H{`message`: prefix + ": " + r.Error()})
	}
	if e, ok := err.(error); ok {
		return New(EvalErrorCode, pos, issue.H{`message`: prefix + ": " + e.Error()})
	}
	return New(EvalErrorCode, pos, issue.H{`message`: prefix})
}
