package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/you-not-fish/minicc/internal/ctypes"
	"github.com/you-not-fish/minicc/internal/ssa"
)

// lowerDecl emits a declaration for a function without a body.
func (g *generator) lowerDecl(fn *ssa.Func) {
	params := make([]string, 0, fn.Sig.NumParams()+1)
	for _, p := range fn.Sig.Params() {
		params = append(params, llvmType(p))
	}
	if fn.Sig.Variadic() {
		params = append(params, "...")
	}
	g.e.emit("declare %s @%s(%s)", llvmReturnType(fn.Sig), fn.Name, strings.Join(params, ", "))
}

// lowerFunc emits the LLVM IR for a single function.
func (g *generator) lowerFunc(fn *ssa.Func) {
	params := make([]string, 0, fn.Sig.NumParams()+1)
	for i, p := range fn.Sig.Params() {
		params = append(params, llvmType(p)+" "+argName(i))
	}
	if fn.Sig.Variadic() {
		params = append(params, "...")
	}
	linkage := ""
	if fn.Linkage == ssa.Internal {
		linkage = "internal "
	}

	g.e.emit("define %s%s @%s(%s) {", linkage, llvmReturnType(fn.Sig), fn.Name, strings.Join(params, ", "))
	for i, b := range fn.Blocks {
		if i > 0 {
			g.e.emitLine()
		}
		g.lowerBlock(b)
	}
	g.e.emit("}")
}

// lowerBlock emits the LLVM IR for a single basic block.
func (g *generator) lowerBlock(b *ssa.Block) {
	g.e.emitLabel(b)
	for _, v := range b.Values {
		g.lowerValue(v)
	}
	g.lowerTerminator(b)
}

// lowerValue emits the LLVM IR for a single value.
func (g *generator) lowerValue(v *ssa.Value) {
	switch v.Op {
	// Constants, arguments and global addresses are inlined at their
	// use sites.
	case ssa.OpConstInt, ssa.OpConstFloat, ssa.OpConstBool, ssa.OpConstString,
		ssa.OpArg, ssa.OpGlobalAddr:
		return

	// Integer arithmetic
	case ssa.OpAdd:
		g.emitBinOp("add", v)
	case ssa.OpSub:
		g.emitBinOp("sub", v)
	case ssa.OpMul:
		g.emitBinOp("mul", v)
	case ssa.OpDiv:
		g.emitBinOp("sdiv", v)
	case ssa.OpMod:
		g.emitBinOp("srem", v)
	case ssa.OpNeg:
		g.e.emitInst("%s = sub %s 0, %s", valueName(v), llvmType(v.Type), g.operand(v.Args[0]))

	// Floating arithmetic
	case ssa.OpAddF:
		g.emitBinOp("fadd", v)
	case ssa.OpSubF:
		g.emitBinOp("fsub", v)
	case ssa.OpMulF:
		g.emitBinOp("fmul", v)
	case ssa.OpDivF:
		g.emitBinOp("fdiv", v)
	case ssa.OpModF:
		g.emitBinOp("frem", v)
	case ssa.OpNegF:
		g.e.emitInst("%s = fneg %s %s", valueName(v), llvmType(v.Type), g.operand(v.Args[0]))

	// Integer comparison
	case ssa.OpEq:
		g.emitCmp("icmp eq", v)
	case ssa.OpNeq:
		g.emitCmp("icmp ne", v)
	case ssa.OpLt:
		g.emitCmp("icmp slt", v)
	case ssa.OpLeq:
		g.emitCmp("icmp sle", v)
	case ssa.OpGt:
		g.emitCmp("icmp sgt", v)
	case ssa.OpGeq:
		g.emitCmp("icmp sge", v)

	// Floating comparison, all ordered
	case ssa.OpEqF:
		g.emitCmp("fcmp oeq", v)
	case ssa.OpNeqF:
		g.emitCmp("fcmp one", v)
	case ssa.OpLtF:
		g.emitCmp("fcmp olt", v)
	case ssa.OpLeqF:
		g.emitCmp("fcmp ole", v)
	case ssa.OpGtF:
		g.emitCmp("fcmp ogt", v)
	case ssa.OpGeqF:
		g.emitCmp("fcmp oge", v)

	// Boolean
	case ssa.OpNot:
		g.e.emitInst("%s = xor i1 %s, true", valueName(v), g.operand(v.Args[0]))
	case ssa.OpAndBool:
		g.emitBinOp("and", v)
	case ssa.OpOrBool:
		g.emitBinOp("or", v)

	// Conversion
	case ssa.OpSignExt:
		g.emitCast("sext", v)
	case ssa.OpZeroExt:
		g.emitCast("zext", v)
	case ssa.OpTrunc:
		g.emitCast("trunc", v)
	case ssa.OpIntToFloat:
		g.emitCast("sitofp", v)
	case ssa.OpFloatToInt:
		g.emitCast("fptosi", v)

	// Memory
	case ssa.OpAlloca:
		g.e.emitInst("%s = alloca %s", valueName(v), llvmType(v.Elem()))
	case ssa.OpLoad:
		g.e.emitInst("%s = load %s, ptr %s", valueName(v), llvmType(v.Type), g.operand(v.Args[0]))
	case ssa.OpStore:
		val := v.Args[1]
		g.e.emitInst("store %s %s, ptr %s", llvmType(val.Type), g.operand(val), g.operand(v.Args[0]))

	// SSA
	case ssa.OpPhi:
		g.lowerPhi(v)
	case ssa.OpCopy:
		g.lowerCopy(v)

	case ssa.OpStaticCall:
		g.lowerStaticCall(v)

	default:
		panic(fmt.Sprintf("codegen: unhandled op %s", v.Op))
	}
}

// lowerTerminator emits the block terminator instruction.
func (g *generator) lowerTerminator(b *ssa.Block) {
	switch b.Kind {
	case ssa.BlockPlain:
		if len(b.Succs) > 0 {
			g.e.emitInst("br label %%%s", blockName(b.Succs[0]))
		} else {
			g.e.emitInst("unreachable")
		}
	case ssa.BlockIf:
		g.e.emitInst("br i1 %s, label %%%s, label %%%s",
			g.operand(b.Controls[0]), blockName(b.Succs[0]), blockName(b.Succs[1]))
	case ssa.BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			ret := b.Controls[0]
			g.e.emitInst("ret %s %s", llvmType(ret.Type), g.operand(ret))
		} else {
			g.e.emitInst("ret void")
		}
	default:
		g.e.emitInst("unreachable")
	}
}

// operand returns the LLVM operand string for v.
// Constants are inlined, others use their %vN name.
func (g *generator) operand(v *ssa.Value) string {
	switch v.Op {
	case ssa.OpConstInt:
		return strconv.FormatInt(v.AuxInt, 10)
	case ssa.OpConstFloat:
		return formatFloat(v.AuxFloat)
	case ssa.OpConstBool:
		if v.AuxInt != 0 {
			return "true"
		}
		return "false"
	case ssa.OpConstString:
		return stringGlobal(g.stringIndex(v.Aux.(string)))
	case ssa.OpGlobalAddr:
		return v.Aux.(*ssa.Global).String()
	case ssa.OpArg:
		return argName(int(v.AuxInt))
	}
	return valueName(v)
}

// emitBinOp emits a two-operand instruction typed by its first operand.
func (g *generator) emitBinOp(inst string, v *ssa.Value) {
	g.e.emitInst("%s = %s %s %s, %s", valueName(v), inst, llvmType(v.Args[0].Type),
		g.operand(v.Args[0]), g.operand(v.Args[1]))
}

// emitCmp emits an icmp or fcmp; the result is i1.
func (g *generator) emitCmp(pred string, v *ssa.Value) {
	g.emitBinOp(pred, v)
}

// emitCast emits a conversion from the operand's type to v's.
func (g *generator) emitCast(inst string, v *ssa.Value) {
	x := v.Args[0]
	g.e.emitInst("%s = %s %s %s to %s", valueName(v), inst, llvmType(x.Type), g.operand(x), llvmType(v.Type))
}

// lowerPhi emits a phi node.
func (g *generator) lowerPhi(v *ssa.Value) {
	parts := make([]string, len(v.Args))
	for i, arg := range v.Args {
		parts[i] = fmt.Sprintf("[ %s, %%%s ]", g.operand(arg), blockName(v.Block.Preds[i]))
	}
	g.e.emitInst("%s = phi %s %s", valueName(v), llvmType(v.Type), strings.Join(parts, ", "))
}

// lowerCopy emits an identity operation, since LLVM has no plain copy.
func (g *generator) lowerCopy(v *ssa.Value) {
	lt := llvmType(v.Type)
	x := g.operand(v.Args[0])
	switch {
	case ctypes.IsFloat(v.Type):
		g.e.emitInst("%s = fadd %s %s, 0.0", valueName(v), lt, x)
	case lt == "ptr":
		g.e.emitInst("%s = getelementptr i8, ptr %s, i64 0", valueName(v), x)
	default:
		g.e.emitInst("%s = add %s %s, 0", valueName(v), lt, x)
	}
}

// lowerStaticCall emits a direct call. Extra arguments to a variadic
// callee keep their own types.
func (g *generator) lowerStaticCall(v *ssa.Value) {
	callee := v.Aux.(*ssa.Func)
	sig := callee.Sig

	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		typ := a.Type
		if i < sig.NumParams() {
			typ = sig.Param(i)
		}
		args[i] = llvmType(typ) + " " + g.operand(a)
	}

	fnType := llvmReturnType(sig)
	if sig.Variadic() {
		fnType = llvmFuncType(sig)
	}
	call := fmt.Sprintf("call %s @%s(%s)", fnType, callee.Name, strings.Join(args, ", "))
	if v.Type == nil || ctypes.IsVoid(v.Type) {
		g.e.emitInst("%s", call)
		return
	}
	g.e.emitInst("%s = %s", valueName(v), call)
}

// formatFloat formats f as an LLVM double literal. The hex form is
// exact for every value, including infinities and NaN.
func formatFloat(f float64) string {
	return fmt.Sprintf("0x%016X", math.Float64bits(f))
}
