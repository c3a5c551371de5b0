package ssa

import (
	"fmt"

	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/ctypes"
)

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value represents a single IR computation.
// Each Value has exactly one definition and may be used by other Values.
type Value struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Op is the operation this value computes.
	Op Op

	// Type is the result type of this value.
	// Nil for void operations and calls of void functions.
	Type ctypes.Type

	// Args are the input values to this operation.
	Args []*Value

	// Block is the basic block that contains this value.
	// Constants used as global initializers have no block.
	Block *Block

	// AuxInt holds an auxiliary integer (constant value, parameter index).
	AuxInt int64

	// AuxFloat holds an auxiliary float (for OpConstFloat).
	AuxFloat float64

	// Aux holds arbitrary auxiliary data (string constant, *Func, *Global, name).
	Aux interface{}

	// Uses tracks the number of references to this value.
	Uses int32

	// Pos is the source position associated with this value.
	Pos ast.Pos
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns a detailed string representation including op, type, and args.
func (v *Value) LongString() string {
	return formatValue(v)
}

// AddArg appends a value to the argument list and increments the arg's use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}

// ReplaceArg replaces the argument at index i, adjusting use counts.
func (v *Value) ReplaceArg(i int, new *Value) {
	if old := v.Args[i]; old != nil {
		old.Uses--
	}
	v.Args[i] = new
	new.Uses++
}

// IsPure returns true if this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}

// Elem returns the type stored at the address v computes.
// It panics if v is not an address.
func (v *Value) Elem() ctypes.Type {
	p, ok := v.Type.(*ctypes.Pointer)
	if !ok {
		panic(fmt.Sprintf("ssa: %s is not an address", v.LongString()))
	}
	return p.Elem()
}
