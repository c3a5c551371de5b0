package irgen

import (
	"go/constant"
	"math"

	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/ctypes"
	"github.com/you-not-fish/minicc/internal/ssa"
)

var (
	tBool   = ctypes.Typ[ctypes.Bool]
	tChar   = ctypes.Typ[ctypes.Char]
	tInt    = ctypes.Typ[ctypes.Int]
	tLong   = ctypes.Typ[ctypes.Long]
	tDouble = ctypes.Typ[ctypes.Double]
	tString = ctypes.Typ[ctypes.String]
)

// literal builds the constant for a literal. Float and double literals
// both become double constants. Integer literals that do not fit an int
// are long.
func (g *Generator) literal(e *ast.ConstVar) *ssa.Value {
	switch e.Kind {
	case ast.BoolLit:
		return g.b.ConstBool(constant.BoolVal(e.Value))
	case ast.CharLit:
		x, _ := constant.Int64Val(e.Value)
		return g.b.ConstInt(tChar, int64(int8(x)))
	case ast.IntLit:
		x, _ := constant.Int64Val(e.Value)
		if x < math.MinInt32 || x > math.MaxInt32 {
			return g.b.ConstInt(tLong, x)
		}
		return g.b.ConstInt(tInt, x)
	case ast.FloatLit, ast.DoubleLit:
		x, _ := constant.Float64Val(e.Value)
		return g.b.ConstFloat(tDouble, x)
	case ast.StringLit:
		return g.b.ConstString(constant.StringVal(e.Value))
	}
	panic("irgen: bad literal kind " + e.Kind.String())
}

// zero returns the zero value of t.
func (g *Generator) zero(t ctypes.Type) *ssa.Value {
	switch {
	case ctypes.IsBoolean(t):
		return g.b.ConstBool(false)
	case ctypes.IsFloat(t):
		return g.b.ConstFloat(t, 0)
	case ctypes.IsString(t):
		return g.b.ConstString("")
	}
	return g.b.ConstInt(t, 0)
}

// addr returns the storage of the variable called name: a local slot,
// or else the address of a global.
func (g *Generator) addr(name string, pos ast.Pos) (*ssa.Value, error) {
	if slot, ok := g.vars.Lookup(name); ok {
		return slot, nil
	}
	if gl := g.mod.Global(name); gl != nil {
		return g.b.GlobalAddr(gl), nil
	}
	return nil, errorf(ErrUndeclared, name, pos, "undeclared variable %s", name)
}

func (g *Generator) load(e *ast.NameRef) (*ssa.Value, error) {
	a, err := g.addr(e.Name, e.Pos())
	if err != nil {
		return nil, err
	}
	return g.b.Load(a), nil
}

// store converts v to the type held at addr and stores it. It returns
// the stored value.
func (g *Generator) store(addr, v *ssa.Value, pos ast.Pos) (*ssa.Value, error) {
	v, err := g.convert(v, addr.Elem(), pos)
	if err != nil {
		return nil, err
	}
	g.b.Store(addr, v)
	return v, nil
}

// lvalue returns the storage named by the left operand of an
// assignment or increment.
func (g *Generator) lvalue(e ast.Expr) (*ssa.Value, error) {
	ref, ok := e.(*ast.NameRef)
	if !ok {
		return nil, errorf(ErrInvalidLValue, "", e.Pos(), "cannot assign to %s", ast.Sprint(e))
	}
	return g.addr(ref.Name, ref.Pos())
}

// ----------------------------------------------------------------------------
// Unary

func (g *Generator) unary(e *ast.Unary) (*ssa.Value, error) {
	switch e.Op {
	case ast.PlusPlus, ast.MinusMinus:
		return g.incDec(e)
	case ast.Plus, ast.Minus, ast.Not:
	default:
		return nil, errorf(ErrUnsupported, "", e.Pos(), "unary %s", e.Op)
	}

	x, err := g.value(e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.Not:
		c, err := g.boolCast(x, e.X.Pos())
		if err != nil {
			return nil, err
		}
		return g.b.UnOp(ssa.OpNot, c, tBool), nil
	case ast.Plus:
		return g.arithOperand(x, e)
	}

	x, err = g.arithOperand(x, e)
	if err != nil {
		return nil, err
	}
	if ctypes.IsFloat(x.Type) {
		return g.b.UnOp(ssa.OpNegF, x, x.Type), nil
	}
	return g.b.UnOp(ssa.OpNeg, x, x.Type), nil
}

// arithOperand checks that x can take part in arithmetic and applies
// the integer promotion to it.
func (g *Generator) arithOperand(x *ssa.Value, e ast.Expr) (*ssa.Value, error) {
	if !ctypes.IsNumeric(x.Type) && !ctypes.IsBoolean(x.Type) {
		return nil, errorf(ErrUnsupported, "", e.Pos(), "arithmetic on %s", x.Type)
	}
	return g.promote(x, e.Pos())
}

// incDec lowers prefix ++ and --: the variable is updated and the new
// value is the result.
func (g *Generator) incDec(e *ast.Unary) (*ssa.Value, error) {
	slot, err := g.lvalue(e.X)
	if err != nil {
		return nil, err
	}
	op := ast.Plus
	if e.Op == ast.MinusMinus {
		op = ast.Minus
	}
	cur := g.b.Load(slot)
	res, err := g.arith(op, cur, g.b.ConstInt(tInt, 1), e)
	if err != nil {
		return nil, err
	}
	return g.store(slot, res, e.Pos())
}

// ----------------------------------------------------------------------------
// Binary

var intOps = map[ast.Operator]ssa.Op{
	ast.Plus:         ssa.OpAdd,
	ast.Minus:        ssa.OpSub,
	ast.Mul:          ssa.OpMul,
	ast.Div:          ssa.OpDiv,
	ast.Mod:          ssa.OpMod,
	ast.Equal:        ssa.OpEq,
	ast.NotEqual:     ssa.OpNeq,
	ast.Less:         ssa.OpLt,
	ast.LessEqual:    ssa.OpLeq,
	ast.Greater:      ssa.OpGt,
	ast.GreaterEqual: ssa.OpGeq,
}

var floatOps = map[ast.Operator]ssa.Op{
	ast.Plus:         ssa.OpAddF,
	ast.Minus:        ssa.OpSubF,
	ast.Mul:          ssa.OpMulF,
	ast.Div:          ssa.OpDivF,
	ast.Mod:          ssa.OpModF,
	ast.Equal:        ssa.OpEqF,
	ast.NotEqual:     ssa.OpNeqF,
	ast.Less:         ssa.OpLtF,
	ast.LessEqual:    ssa.OpLeqF,
	ast.Greater:      ssa.OpGtF,
	ast.GreaterEqual: ssa.OpGeqF,
}

func (g *Generator) binary(e *ast.Binary) (*ssa.Value, error) {
	switch {
	case e.Op == ast.Assign:
		y, err := g.value(e.Y)
		if err != nil {
			return nil, err
		}
		slot, err := g.lvalue(e.X)
		if err != nil {
			return nil, err
		}
		return g.store(slot, y, e.Y.Pos())

	case e.Op.IsAssign():
		slot, err := g.lvalue(e.X)
		if err != nil {
			return nil, err
		}
		cur := g.b.Load(slot)
		y, err := g.value(e.Y)
		if err != nil {
			return nil, err
		}
		res, err := g.arith(e.Op.Arith(), cur, y, e)
		if err != nil {
			return nil, err
		}
		return g.store(slot, res, e.Pos())

	case e.Op.IsLogical():
		// Both sides are always evaluated.
		x, err := g.cond(e.X)
		if err != nil {
			return nil, err
		}
		y, err := g.cond(e.Y)
		if err != nil {
			return nil, err
		}
		op := ssa.OpAndBool
		if e.Op == ast.OrOr {
			op = ssa.OpOrBool
		}
		return g.b.BinOp(op, x, y, tBool), nil

	case e.Op.IsArith() || e.Op.IsCompare():
		x, err := g.value(e.X)
		if err != nil {
			return nil, err
		}
		y, err := g.value(e.Y)
		if err != nil {
			return nil, err
		}
		return g.arith(e.Op, x, y, e)
	}
	return nil, errorf(ErrUnsupported, "", e.Pos(), "binary %s", e.Op)
}

// arith emits the arithmetic or comparison op on x and y after bringing
// both to a common type: double if either is floating, else the wider
// of the two promoted integer types.
func (g *Generator) arith(op ast.Operator, x, y *ssa.Value, e ast.Expr) (*ssa.Value, error) {
	x, err := g.arithOperand(x, e)
	if err != nil {
		return nil, err
	}
	if y, err = g.arithOperand(y, e); err != nil {
		return nil, err
	}

	var typ ctypes.Type
	switch {
	case ctypes.IsFloat(x.Type) || ctypes.IsFloat(y.Type):
		typ = tDouble
	case x.Type.(*ctypes.Basic).Bits() >= y.Type.(*ctypes.Basic).Bits():
		typ = x.Type
	default:
		typ = y.Type
	}
	if x, err = g.convert(x, typ, e.Pos()); err != nil {
		return nil, err
	}
	if y, err = g.convert(y, typ, e.Pos()); err != nil {
		return nil, err
	}

	ops := intOps
	if ctypes.IsFloat(typ) {
		ops = floatOps
	}
	sop, ok := ops[op]
	if !ok {
		return nil, errorf(ErrUnsupported, "", e.Pos(), "operator %s", op)
	}
	res := typ
	if sop.IsCompare() {
		res = tBool
	}
	return g.b.BinOp(sop, x, y, res), nil
}

// promote widens bool, char and short to int.
func (g *Generator) promote(x *ssa.Value, pos ast.Pos) (*ssa.Value, error) {
	if ctypes.IsIntegral(x.Type) && x.Type.(*ctypes.Basic).Bits() < tInt.Bits() {
		return g.convert(x, tInt, pos)
	}
	return x, nil
}

// ----------------------------------------------------------------------------
// Conversions

// boolCast compares a scalar against zero. Floating values use an
// ordered comparison, so NaN is false.
func (g *Generator) boolCast(v *ssa.Value, pos ast.Pos) (*ssa.Value, error) {
	switch {
	case ctypes.IsBoolean(v.Type):
		return v, nil
	case ctypes.IsInteger(v.Type):
		return g.b.BinOp(ssa.OpNeq, v, g.b.ConstInt(v.Type, 0), tBool), nil
	case ctypes.IsFloat(v.Type):
		return g.b.BinOp(ssa.OpNeqF, v, g.b.ConstFloat(v.Type, 0), tBool), nil
	}
	return nil, errorf(ErrUnsupported, "", pos, "%s used as a condition", v.Type)
}

// convert returns v as a value of type to.
func (g *Generator) convert(v *ssa.Value, to ctypes.Type, pos ast.Pos) (*ssa.Value, error) {
	from := v.Type
	if ctypes.SameRepr(from, to) {
		return v, nil
	}
	switch {
	case ctypes.IsBoolean(to) && ctypes.IsNumeric(from):
		return g.boolCast(v, pos)

	case ctypes.IsIntegral(from) && ctypes.IsInteger(to):
		fb, tb := from.(*ctypes.Basic).Bits(), to.(*ctypes.Basic).Bits()
		switch {
		case fb < tb && ctypes.IsBoolean(from):
			return g.b.Convert(ssa.OpZeroExt, v, to), nil
		case fb < tb:
			return g.b.Convert(ssa.OpSignExt, v, to), nil
		case fb > tb:
			return g.b.Convert(ssa.OpTrunc, v, to), nil
		}
		return v, nil

	case ctypes.IsIntegral(from) && ctypes.IsFloat(to):
		if ctypes.IsBoolean(from) {
			v = g.b.Convert(ssa.OpZeroExt, v, tInt)
		}
		return g.b.Convert(ssa.OpIntToFloat, v, to), nil

	case ctypes.IsFloat(from) && ctypes.IsInteger(to):
		return g.b.Convert(ssa.OpFloatToInt, v, to), nil
	}
	return nil, errorf(ErrUnsupported, "", pos, "cannot convert %s to %s", from, to)
}

// ----------------------------------------------------------------------------
// Calls

func (g *Generator) call(e *ast.FuncCall) (*ssa.Value, error) {
	f := g.mod.Function(e.Name)
	if f == nil {
		return nil, errorf(ErrUnknownFunc, e.Name, e.Pos(), "unknown function %s", e.Name)
	}
	n := f.Sig.NumParams()
	if len(e.Args) != n && !(f.Sig.Variadic() && len(e.Args) > n) {
		return nil, errorf(ErrArgCount, e.Name, e.Pos(),
			"%s takes %d arguments, called with %d", e.Name, n, len(e.Args))
	}

	args := make([]*ssa.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := g.value(a)
		if err != nil {
			return nil, err
		}
		if i < n {
			v, err = g.convert(v, f.Sig.Param(i), a.Pos())
		} else if !ctypes.IsFloat(v.Type) && !ctypes.IsString(v.Type) {
			v, err = g.promote(v, a.Pos())
		}
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	c := g.b.Call(f, args)
	if c.Type == nil {
		return nil, nil
	}
	return c, nil
}
