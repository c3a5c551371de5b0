// Package ctypes implements the C type descriptors the lowering engine
// resolves type names to. This package has no AST dependencies.
package ctypes

// Type is the interface implemented by all types.
type Type interface {
	// String returns the C spelling of the type.
	String() string

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}
