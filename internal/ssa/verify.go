package ssa

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/minicc/internal/ctypes"
)

// Verify checks the structural integrity of an IR function.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry == nil || len(f.Blocks) == 0 {
		add("func %s: no body", f.Name)
		return combineErrors(errs)
	}

	if f.Blocks[0] != f.Entry {
		add("func %s: Blocks[0] is not the entry block", f.Name)
	}

	// 1. Entry block has no predecessors
	if len(f.Entry.Preds) != 0 {
		add("func %s: entry block %s has %d predecessors, want 0",
			f.Name, f.Entry, len(f.Entry.Preds))
	}

	blockSet := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		blockSet[b] = true
	}
	valueSet := make(map[*Value]bool)

	for _, b := range f.Blocks {
		// 2. Every block has a valid Kind and belongs to f
		if b.Kind == BlockInvalid {
			add("func %s, %s: block has invalid kind", f.Name, b)
		}
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		for _, v := range b.Values {
			valueSet[v] = true

			// 3. Value's Block pointer matches its containing block
			if v.Block != b {
				add("func %s, %s, %s: value Block pointer is %v, want %s",
					f.Name, b, v, v.Block, b)
			}

			// 4. Non-void values have a Type; void calls are the exception.
			if !v.Op.IsVoid() && v.Type == nil && v.Op != OpStaticCall {
				add("func %s, %s, %s (%s): non-void value has nil Type",
					f.Name, b, v, v.Op)
			}

			for i, arg := range v.Args {
				if arg == nil {
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
				}
			}

			// 5. Phi args count == Preds count
			if v.Op == OpPhi && len(v.Args) != len(b.Preds) {
				add("func %s, %s, %s: phi has %d args but block has %d preds",
					f.Name, b, v, len(v.Args), len(b.Preds))
			}

			// 6. Operand types
			if msg := checkTypes(v); msg != "" {
				add("func %s, %s, %s: %s", f.Name, b, v, msg)
			}
		}

		// 7. Terminator checks based on Kind
		switch b.Kind {
		case BlockPlain:
			if len(b.Succs) != 1 {
				add("func %s, %s: plain block has %d succs, want 1",
					f.Name, b, len(b.Succs))
			}
		case BlockIf:
			if len(b.Controls) != 1 {
				add("func %s, %s: if block has %d controls, want 1",
					f.Name, b, len(b.Controls))
			} else if c := b.Controls[0]; c != nil && !ctypes.IsBoolean(c.Type) {
				add("func %s, %s: branch condition %s has type %v, want bool",
					f.Name, b, c, c.Type)
			}
			if len(b.Succs) != 2 {
				add("func %s, %s: if block has %d succs, want 2",
					f.Name, b, len(b.Succs))
			}
		case BlockReturn:
			if len(b.Succs) != 0 {
				add("func %s, %s: return block has %d succs, want 0",
					f.Name, b, len(b.Succs))
			}
			if msg := checkReturn(f, b); msg != "" {
				add("func %s, %s: %s", f.Name, b, msg)
			}
		case BlockExit:
			if len(b.Succs) != 0 {
				add("func %s, %s: exit block has %d succs, want 0",
					f.Name, b, len(b.Succs))
			}
		}

		// 8. Succs/Preds edge consistency
		for _, succ := range b.Succs {
			if !blockSet[succ] {
				add("func %s, %s: successor %s not in function", f.Name, b, succ)
				continue
			}
			if !containsBlock(succ.Preds, b) {
				add("func %s, %s: successor %s does not have %s as predecessor",
					f.Name, b, succ, b)
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
				continue
			}
			if !containsBlock(pred.Succs, b) {
				add("func %s, %s: predecessor %s does not have %s as successor",
					f.Name, b, pred, b)
			}
		}

		for i, c := range b.Controls {
			if c == nil && b.Kind != BlockReturn {
				add("func %s, %s: control[%d] is nil", f.Name, b, i)
			}
		}
	}

	// 9. Every referenced value lives in the function
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg != nil && !valueSet[arg] {
					add("func %s, %s, %s: arg[%d] (%s) not found in function",
						f.Name, b, v, i, arg)
				}
			}
		}
		for i, c := range b.Controls {
			if c != nil && !valueSet[c] {
				add("func %s, %s: control[%d] (%s) not found in function",
					f.Name, b, i, c)
			}
		}
	}

	return combineErrors(errs)
}

// checkTypes returns a description of an operand type error in v, or "".
func checkTypes(v *Value) string {
	for _, a := range v.Args {
		if a == nil {
			return ""
		}
	}
	switch v.Op {
	case OpLoad:
		if _, ok := v.Args[0].Type.(*ctypes.Pointer); !ok {
			return fmt.Sprintf("load from non-address %s", v.Args[0])
		}
	case OpStore:
		p, ok := v.Args[0].Type.(*ctypes.Pointer)
		if !ok {
			return fmt.Sprintf("store to non-address %s", v.Args[0])
		}
		if !ctypes.SameRepr(p.Elem(), v.Args[1].Type) {
			return fmt.Sprintf("store of %v into %v slot", v.Args[1].Type, p.Elem())
		}
	case OpStaticCall:
		callee, ok := v.Aux.(*Func)
		if !ok {
			return "call without callee"
		}
		n := callee.Sig.NumParams()
		if len(v.Args) != n && !(callee.Sig.Variadic() && len(v.Args) > n) {
			return fmt.Sprintf("call of %s with %d args, want %d", callee.Name, len(v.Args), n)
		}
		for i := 0; i < n && i < len(v.Args); i++ {
			if !ctypes.SameRepr(v.Args[i].Type, callee.Sig.Param(i)) {
				return fmt.Sprintf("arg %d of %s has type %v, want %v",
					i, callee.Name, v.Args[i].Type, callee.Sig.Param(i))
			}
		}
	case OpAdd, OpSub, OpMul, OpDiv, OpMod,
		OpAddF, OpSubF, OpMulF, OpDivF, OpModF,
		OpEq, OpNeq, OpLt, OpLeq, OpGt, OpGeq,
		OpEqF, OpNeqF, OpLtF, OpLeqF, OpGtF, OpGeqF,
		OpAndBool, OpOrBool:
		if !ctypes.SameRepr(v.Args[0].Type, v.Args[1].Type) {
			return fmt.Sprintf("%s of %v and %v", v.Op, v.Args[0].Type, v.Args[1].Type)
		}
		if v.Op.IsFloatFamily() != ctypes.IsFloat(v.Args[0].Type) {
			return fmt.Sprintf("%s on %v operands", v.Op, v.Args[0].Type)
		}
	}
	return ""
}

// checkReturn returns a description of a return value that disagrees
// with f's result type, or "".
func checkReturn(f *Func, b *Block) string {
	var ret *Value
	if len(b.Controls) > 0 {
		ret = b.Controls[0]
	}
	res := f.Sig.Result()
	switch {
	case ctypes.IsVoid(res) && ret != nil:
		return fmt.Sprintf("void function returns %s", ret)
	case !ctypes.IsVoid(res) && ret == nil:
		return fmt.Sprintf("missing return value of type %v", res)
	case ret != nil && !ctypes.SameRepr(ret.Type, res):
		return fmt.Sprintf("returns %v, want %v", ret.Type, res)
	}
	return ""
}

// containsBlock checks whether bs contains b.
func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

// VerifyDom checks dominance properties of an IR function.
// ComputeDom must have been called before this.
// It calls Verify first, then checks that definitions dominate uses.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}

	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry.Idom != nil {
		add("func %s: entry %s has non-nil Idom %s", f.Name, f.Entry, f.Entry.Idom)
	}
	for _, b := range f.Blocks {
		if b != f.Entry && b.Idom == nil {
			add("func %s, %s: block has nil Idom", f.Name, b)
		}
	}

	index := make(map[*Value]int)
	for _, b := range f.Blocks {
		for i, v := range b.Values {
			index[v] = i
		}
	}

	// before reports whether def is available at position i of block b.
	before := func(def *Value, b *Block, i int) bool {
		if def.Block == b {
			return index[def] < i
		}
		return dominates(def.Block, b)
	}

	for _, b := range f.Blocks {
		for i, v := range b.Values {
			for j, arg := range v.Args {
				if arg == nil {
					continue
				}
				if v.Op == OpPhi {
					if j < len(b.Preds) && !dominates(arg.Block, b.Preds[j]) {
						add("func %s, %s, %s: phi arg[%d] %s does not dominate pred %s",
							f.Name, b, v, j, arg, b.Preds[j])
					}
					continue
				}
				if !before(arg, b, i) {
					add("func %s, %s, %s: arg[%d] %s does not dominate its use",
						f.Name, b, v, j, arg)
				}
			}
		}
		for i, c := range b.Controls {
			if c != nil && !before(c, b, len(b.Values)) {
				add("func %s, %s: control[%d] %s does not dominate the terminator",
					f.Name, b, i, c)
			}
		}
	}

	return combineErrors(errs)
}

// dominates reports whether a dominates b along the Idom chain.
func dominates(a, b *Block) bool {
	for ; b != nil; b = b.Idom {
		if b == a {
			return true
		}
	}
	return false
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("IR verification failed:\n  %s", strings.Join(errs, "\n  "))
}
