package ctypes

import (
	"fmt"
	"strings"
)

// Pointer represents a pointer type T*. Storage allocated for a
// variable of type T is addressed through a *Pointer to T.
type Pointer struct {
	typ
	base Type
}

// NewPointer creates a new pointer type.
func NewPointer(base Type) *Pointer {
	return &Pointer{base: base}
}

// Elem returns the pointed-to type.
func (p *Pointer) Elem() Type {
	return p.base
}

// String implements Type.
func (p *Pointer) String() string {
	return p.base.String() + "*"
}

// Func represents a function signature.
type Func struct {
	typ
	params   []Type
	result   Type
	variadic bool
}

// NewFunc creates a new function type. A nil result means void.
func NewFunc(params []Type, result Type, variadic bool) *Func {
	if result == nil {
		result = Typ[Void]
	}
	return &Func{params: params, result: result, variadic: variadic}
}

// Params returns the parameter types.
func (f *Func) Params() []Type {
	return f.params
}

// NumParams returns the number of declared parameters.
func (f *Func) NumParams() int {
	return len(f.params)
}

// Param returns the i'th parameter type.
func (f *Func) Param(i int) Type {
	return f.params[i]
}

// Result returns the result type.
func (f *Func) Result() Type {
	return f.result
}

// Variadic reports whether the signature ends in "...".
func (f *Func) Variadic() bool {
	return f.variadic
}

// String implements Type.
func (f *Func) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s(", f.result)
	for i, p := range f.params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(p.String())
	}
	if f.variadic {
		if len(f.params) > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("...")
	}
	buf.WriteByte(')')
	return buf.String()
}
