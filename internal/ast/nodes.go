// Package ast defines the tree handed over by the C parser: one sealed
// sum type, Expr, covering declarations, statements and expressions.
package ast

import "go/constant"

// Expr is implemented by every tree node.
type Expr interface {
	Pos() Pos
	aExpr() // marker method to restrict implementations to this package
}

// node is embedded in every Expr implementation.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (*node) aExpr()     {}

// SetPos records the source position of n.
func (n *node) SetPos(p Pos) { n.pos = p }

// File is the unit handed over by the parser: an ordered list of top-level
// declarations, each an *InitExpr, *FuncProto or *FuncDef.
type File struct {
	Name  string
	Decls []Expr
}

// ----------------------------------------------------------------------------
// Values

// ConstVar is a literal.
type ConstVar struct {
	node
	Kind  LitKind
	Value constant.Value
}

// NameRef references a variable by name.
type NameRef struct {
	node
	Name string
}

// ----------------------------------------------------------------------------
// Declarations

// Variable declares a local, a global or a parameter.
// With Storage == Typedef it declares a type alias instead.
type Variable struct {
	node
	Type    string // type name, resolved through the type table
	Name    string
	Init    Expr // nil if none
	Storage StorageClass
}

// InitExpr is one declaration statement: int a = 1, b;
type InitExpr struct {
	node
	Vars []*Variable
}

// FuncProto is a function signature. With Storage == Typedef it
// declares a function type alias.
type FuncProto struct {
	node
	Name    string
	Params  []*Variable
	Result  string
	Storage StorageClass
}

// FuncDef is a function with a body.
type FuncDef struct {
	node
	Proto *FuncProto
	Body  *CompoundExpr
}

// Name returns the defined function's name.
func (f *FuncDef) Name() string { return f.Proto.Name }

// ----------------------------------------------------------------------------
// Operations

// Unary is a prefix operation.
type Unary struct {
	node
	X  Expr
	Op Operator
}

// Binary is a binary operation, including assignment and || / &&.
type Binary struct {
	node
	X, Y Expr
	Op   Operator
}

// FuncCall calls a function by name.
type FuncCall struct {
	node
	Name string
	Args []Expr
}

// ----------------------------------------------------------------------------
// Statements

// IfElse is if (Cond) Then [else Else].
type IfElse struct {
	node
	Cond Expr
	Then Expr
	Else Expr // nil if absent
}

// WhileLoop is while (Cond) Body.
type WhileLoop struct {
	node
	Cond Expr
	Body Expr
}

// ForLoop is for (Init; Cond; Iter) Body. Any clause may be nil.
type ForLoop struct {
	node
	Init Expr
	Cond Expr
	Iter Expr
	Body Expr
}

// Break is a break statement.
type Break struct{ node }

// Continue is a continue statement.
type Continue struct{ node }

// Return is return [X].
type Return struct {
	node
	X Expr // nil for a bare return
}

// CompoundExpr is a braced block.
type CompoundExpr struct {
	node
	List []Expr
}

// Null is the empty statement.
type Null struct{ node }

// IsTerminator reports whether control never falls through e.
func IsTerminator(e Expr) bool {
	switch e.(type) {
	case *Return, *Break, *Continue:
		return true
	}
	return false
}

// ----------------------------------------------------------------------------
// Literal constructors

// NewBool returns a bool literal.
func NewBool(b bool) *ConstVar {
	return &ConstVar{Kind: BoolLit, Value: constant.MakeBool(b)}
}

// NewChar returns a char literal.
func NewChar(c byte) *ConstVar {
	return &ConstVar{Kind: CharLit, Value: constant.MakeInt64(int64(c))}
}

// NewInt returns an int literal.
func NewInt(i int64) *ConstVar {
	return &ConstVar{Kind: IntLit, Value: constant.MakeInt64(i)}
}

// NewFloat returns a float literal.
func NewFloat(f float64) *ConstVar {
	return &ConstVar{Kind: FloatLit, Value: constant.MakeFloat64(f)}
}

// NewDouble returns a double literal.
func NewDouble(f float64) *ConstVar {
	return &ConstVar{Kind: DoubleLit, Value: constant.MakeFloat64(f)}
}

// NewString returns a string literal.
func NewString(s string) *ConstVar {
	return &ConstVar{Kind: StringLit, Value: constant.MakeString(s)}
}
