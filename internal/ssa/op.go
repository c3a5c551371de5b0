// Package ssa implements the control-flow-graph IR the C front end lowers
// into: functions of basic blocks holding typed values, module-level
// globals, and the Builder through which lowering emits both.
package ssa

// Op represents an IR operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConstInt    // integer constant of the value's width; AuxInt = value
	OpConstFloat  // floating constant; AuxFloat = value
	OpConstBool   // bool constant; AuxInt = 0 or 1
	OpConstString // string constant; Aux = string value

	// Address of module-level storage; Aux = *Global
	OpGlobalAddr

	// Integer arithmetic (two's complement, signed division)
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg

	// Floating arithmetic
	OpAddF
	OpSubF
	OpMulF
	OpDivF
	OpModF
	OpNegF

	// Signed integer comparison
	OpEq
	OpNeq
	OpLt
	OpLeq
	OpGt
	OpGeq

	// Ordered floating comparison
	OpEqF
	OpNeqF
	OpLtF
	OpLeqF
	OpGtF
	OpGeqF

	// Boolean (both operands always evaluated)
	OpNot
	OpAndBool
	OpOrBool

	// Conversion; the result width is the value's Type
	OpSignExt
	OpZeroExt
	OpTrunc
	OpIntToFloat // signed int -> floating
	OpFloatToInt // floating -> signed int

	// Memory
	OpAlloca // stack slot in the entry block; Type = *T; Aux = variable name
	OpLoad   // Args[0] = address
	OpStore  // Args[0] = address, Args[1] = value; void

	// Calls
	OpStaticCall // direct call; Aux = *Func; Args = arguments

	// SSA-specific
	OpPhi  // one arg per predecessor
	OpCopy // identity
	OpArg  // incoming parameter; AuxInt = index; Aux = name

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an IR operation.
type OpInfo struct {
	Name   string // human-readable name
	IsPure bool   // no side effects; removable when unused
	IsVoid bool   // produces no value
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConstInt:    {Name: "ConstInt", IsPure: true},
	OpConstFloat:  {Name: "ConstFloat", IsPure: true},
	OpConstBool:   {Name: "ConstBool", IsPure: true},
	OpConstString: {Name: "ConstString", IsPure: true},

	OpGlobalAddr: {Name: "GlobalAddr", IsPure: true},

	OpAdd: {Name: "Add", IsPure: true},
	OpSub: {Name: "Sub", IsPure: true},
	OpMul: {Name: "Mul", IsPure: true},
	// Division can trap; it is kept even when unused.
	OpDiv: {Name: "Div"},
	OpMod: {Name: "Mod"},
	OpNeg: {Name: "Neg", IsPure: true},

	OpAddF: {Name: "AddF", IsPure: true},
	OpSubF: {Name: "SubF", IsPure: true},
	OpMulF: {Name: "MulF", IsPure: true},
	OpDivF: {Name: "DivF", IsPure: true},
	OpModF: {Name: "ModF", IsPure: true},
	OpNegF: {Name: "NegF", IsPure: true},

	OpEq:  {Name: "Eq", IsPure: true},
	OpNeq: {Name: "Neq", IsPure: true},
	OpLt:  {Name: "Lt", IsPure: true},
	OpLeq: {Name: "Leq", IsPure: true},
	OpGt:  {Name: "Gt", IsPure: true},
	OpGeq: {Name: "Geq", IsPure: true},

	OpEqF:  {Name: "EqF", IsPure: true},
	OpNeqF: {Name: "NeqF", IsPure: true},
	OpLtF:  {Name: "LtF", IsPure: true},
	OpLeqF: {Name: "LeqF", IsPure: true},
	OpGtF:  {Name: "GtF", IsPure: true},
	OpGeqF: {Name: "GeqF", IsPure: true},

	OpNot:     {Name: "Not", IsPure: true},
	OpAndBool: {Name: "AndBool", IsPure: true},
	OpOrBool:  {Name: "OrBool", IsPure: true},

	OpSignExt:    {Name: "SignExt", IsPure: true},
	OpZeroExt:    {Name: "ZeroExt", IsPure: true},
	OpTrunc:      {Name: "Trunc", IsPure: true},
	OpIntToFloat: {Name: "IntToFloat", IsPure: true},
	OpFloatToInt: {Name: "FloatToInt", IsPure: true},

	OpAlloca: {Name: "Alloca"},
	OpLoad:   {Name: "Load"},
	OpStore:  {Name: "Store", IsVoid: true},

	OpStaticCall: {Name: "StaticCall"},

	OpPhi:  {Name: "Phi", IsPure: true},
	OpCopy: {Name: "Copy", IsPure: true},
	OpArg:  {Name: "Arg", IsPure: true},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	return o.Info().Name
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool { return o.Info().IsPure }

// IsVoid returns true if this op produces no value.
func (o Op) IsVoid() bool { return o.Info().IsVoid }

// IsConst reports whether o is one of the constant ops.
func (o Op) IsConst() bool {
	switch o {
	case OpConstInt, OpConstFloat, OpConstBool, OpConstString:
		return true
	}
	return false
}

// IsFloatFamily reports whether o belongs to the floating-point
// arithmetic or comparison family.
func (o Op) IsFloatFamily() bool {
	switch o {
	case OpAddF, OpSubF, OpMulF, OpDivF, OpModF, OpNegF,
		OpEqF, OpNeqF, OpLtF, OpLeqF, OpGtF, OpGeqF:
		return true
	}
	return false
}

// IsCompare reports whether o is an integer or floating comparison.
func (o Op) IsCompare() bool {
	return o >= OpEq && o <= OpGeqF
}
