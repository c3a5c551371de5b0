package irgen

import (
	"fmt"

	"github.com/you-not-fish/minicc/internal/ast"
)

// ErrorKind classifies a lowering error. Each kind is itself an error,
// so errors.Is(err, ErrUndeclared) matches any *Error of that kind.
type ErrorKind int

const (
	_ ErrorKind = iota
	ErrUndeclared
	ErrDuplicateDecl
	ErrArgCount
	ErrUnknownFunc
	ErrInvalidLValue
	ErrGlobalInitType
	ErrTypedefDef
	ErrBreakOutsideLoop
	ErrContinueOutsideLoop
	ErrVoidValue
	ErrUnknownType
	ErrInvalidDecl
	ErrRedefinition
	ErrSignature
	ErrVerify
	ErrUnsupported
)

var kindNames = [...]string{
	ErrUndeclared:          "undeclared variable",
	ErrDuplicateDecl:       "duplicate declaration",
	ErrArgCount:            "wrong argument count",
	ErrUnknownFunc:         "unknown function",
	ErrInvalidLValue:       "invalid assignment target",
	ErrGlobalInitType:      "bad global initializer",
	ErrTypedefDef:          "definition of typedef",
	ErrBreakOutsideLoop:    "break outside loop",
	ErrContinueOutsideLoop: "continue outside loop",
	ErrVoidValue:           "void value used",
	ErrUnknownType:         "unknown type",
	ErrInvalidDecl:         "invalid declaration",
	ErrRedefinition:        "redefinition",
	ErrSignature:           "signature mismatch",
	ErrVerify:              "verification failed",
	ErrUnsupported:         "unsupported",
}

func (k ErrorKind) Error() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("irgen error %d", int(k))
}

// Error is a source-program error found during lowering.
type Error struct {
	Kind ErrorKind
	Name string  // offending identifier, if any
	Pos  ast.Pos // zero if the node carried no position
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// Is reports whether target is e's kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func errorf(kind ErrorKind, name string, pos ast.Pos, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Name: name, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
