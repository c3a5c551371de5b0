// Package scope implements the lexical scope tables used during lowering:
// a stack of flat name->value maps where inner scopes shadow outer ones.
package scope

import (
	"fmt"
	"sort"
	"strings"
)

// Stack is a stack of scopes mapping names to values of type V.
// The zero value is an empty stack; Push before Insert.
type Stack[V any] struct {
	scopes []map[string]V
}

// New returns a stack with a single scope pushed.
func New[V any]() *Stack[V] {
	s := new(Stack[V])
	s.Push()
	return s
}

// Push opens a new innermost scope.
func (s *Stack[V]) Push() {
	s.scopes = append(s.scopes, make(map[string]V))
}

// Pop discards the innermost scope. It panics if no scope is open.
func (s *Stack[V]) Pop() {
	if len(s.scopes) == 0 {
		panic("scope: Pop on empty stack")
	}
	s.scopes[len(s.scopes)-1] = nil
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// Enter pushes a scope and returns the matching Pop, for use as
//
//	defer s.Enter()()
func (s *Stack[V]) Enter() func() {
	s.Push()
	depth := len(s.scopes)
	return func() {
		if len(s.scopes) != depth {
			panic(fmt.Sprintf("scope: unbalanced scopes: depth %d, want %d", len(s.scopes), depth))
		}
		s.Pop()
	}
}

// Depth returns the number of open scopes.
func (s *Stack[V]) Depth() int { return len(s.scopes) }

// InCurrentScope reports whether name is bound in the innermost scope.
// Outer scopes are not consulted. It panics if no scope is open.
func (s *Stack[V]) InCurrentScope(name string) bool {
	if len(s.scopes) == 0 {
		panic("scope: InCurrentScope with no scope open")
	}
	_, ok := s.scopes[len(s.scopes)-1][name]
	return ok
}

// Insert binds name in the innermost scope, replacing any binding there.
// It panics if no scope is open.
func (s *Stack[V]) Insert(name string, v V) {
	if len(s.scopes) == 0 {
		panic("scope: Insert with no scope open")
	}
	s.scopes[len(s.scopes)-1][name] = v
}

// Lookup returns the binding of name in the innermost scope that has one.
// It panics if no scope is open.
func (s *Stack[V]) Lookup(name string) (V, bool) {
	if len(s.scopes) == 0 {
		panic("scope: Lookup with no scope open")
	}
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i][name]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Names returns the names bound in the innermost scope, sorted.
func (s *Stack[V]) Names() []string {
	if len(s.scopes) == 0 {
		return nil
	}
	inner := s.scopes[len(s.scopes)-1]
	names := make([]string, 0, len(inner))
	for name := range inner {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns a representation of every open scope for debugging,
// outermost first.
func (s *Stack[V]) String() string {
	var buf strings.Builder
	for depth, m := range s.scopes {
		prefix := strings.Repeat("  ", depth)
		fmt.Fprintf(&buf, "%sscope %d {\n", prefix, depth)
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&buf, "%s  %s: %v\n", prefix, name, m[name])
		}
		fmt.Fprintf(&buf, "%s}\n", prefix)
	}
	return buf.String()
}
