package ctypes

import "github.com/you-not-fish/minicc/internal/scope"

// Table is the type table: a scope stack from type names to types.
type Table = scope.Stack[Type]

// predeclared lists the built-in type names in seeding order.
var predeclared = []BasicKind{Void, Char, Int, Float, Double, Short, Long, Bool, String}

// NewTable returns a type table whose outermost scope holds the
// built-in types. That scope is never popped by balanced Push/Pop use.
func NewTable() *Table {
	t := scope.New[Type]()
	for _, kind := range predeclared {
		b := Typ[kind]
		t.Insert(b.name, b)
	}
	return t
}
