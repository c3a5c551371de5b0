package passes

import (
	"testing"

	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/irgen"
	"github.com/you-not-fish/minicc/internal/ssa"
)

func fn(result, name string, params []*ast.Variable, body ...ast.Expr) *ast.FuncDef {
	return &ast.FuncDef{
		Proto: &ast.FuncProto{Name: name, Params: params, Result: result},
		Body:  &ast.CompoundExpr{List: body},
	}
}

func local(typ, name string, init ast.Expr) *ast.InitExpr {
	return &ast.InitExpr{Vars: []*ast.Variable{{Type: typ, Name: name, Init: init}}}
}

func ref(name string) *ast.NameRef { return &ast.NameRef{Name: name} }

func assign(name string, x ast.Expr) *ast.Binary {
	return &ast.Binary{X: ref(name), Y: x, Op: ast.Assign}
}

func ret(x ast.Expr) *ast.Return { return &ast.Return{X: x} }

var (
	noParams = []*ast.Variable{{Type: ast.TypeVoid}}
	intX     = []*ast.Variable{{Type: ast.TypeInt, Name: "x"}}
)

// buildAndRun lowers decls, runs the optimizing pipeline with
// verification and returns the function named name.
func buildAndRun(t *testing.T, name string, decls ...ast.Expr) *ssa.Func {
	t.Helper()
	m, err := irgen.Generate(&ast.File{Name: "test", Decls: decls})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := RunModule(m, Pipeline(1), Config{Verify: true}); err != nil {
		t.Fatalf("RunModule: %v", err)
	}
	f := m.Function(name)
	if f == nil {
		t.Fatalf("function %q not found", name)
	}
	if err := ssa.VerifyDom(f); err != nil {
		t.Fatalf("VerifyDom: %v\n%s", err, ssa.Sprint(f))
	}
	return f
}

func countOp(f *ssa.Func, op ssa.Op) int {
	n := 0
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == op {
				n++
			}
		}
	}
	return n
}

func assertNoMemory(t *testing.T, f *ssa.Func) {
	t.Helper()
	for _, op := range []ssa.Op{ssa.OpAlloca, ssa.OpLoad, ssa.OpStore} {
		if n := countOp(f, op); n != 0 {
			t.Errorf("%d %s left after mem2reg:\n%s", n, op, ssa.Sprint(f))
		}
	}
}

// returned is the value f's only return block yields.
func returned(t *testing.T, f *ssa.Func) *ssa.Value {
	t.Helper()
	var v *ssa.Value
	n := 0
	for _, b := range f.Blocks {
		if b.Kind == ssa.BlockReturn {
			v = b.Controls[0]
			n++
		}
	}
	if n != 1 {
		t.Fatalf("%d return blocks, want 1:\n%s", n, ssa.Sprint(f))
	}
	return v
}

func TestMem2RegSimpleReturn(t *testing.T) {
	// int f(void) { int x = 42; return x; }
	f := buildAndRun(t, "f", fn("int", "f", noParams,
		local("int", "x", ast.NewInt(42)),
		ret(ref("x")),
	))
	assertNoMemory(t, f)
	r := returned(t, f)
	if r.Op != ssa.OpConstInt || r.AuxInt != 42 {
		t.Errorf("returns %s, want ConstInt 42:\n%s", r.LongString(), ssa.Sprint(f))
	}
}

func TestMem2RegParameter(t *testing.T) {
	// int f(int x) { return x; }
	f := buildAndRun(t, "f", fn("int", "f", intX, ret(ref("x"))))
	assertNoMemory(t, f)
	if r := returned(t, f); r.Op != ssa.OpArg {
		t.Errorf("returns %s, want the argument", r.LongString())
	}
}

func TestMem2RegReassignment(t *testing.T) {
	// int f(void) { int x = 1; x = 2; return x; }
	f := buildAndRun(t, "f", fn("int", "f", noParams,
		local("int", "x", ast.NewInt(1)),
		assign("x", ast.NewInt(2)),
		ret(ref("x")),
	))
	assertNoMemory(t, f)
	if r := returned(t, f); r.Op != ssa.OpConstInt || r.AuxInt != 2 {
		t.Errorf("returns %s, want ConstInt 2", r.LongString())
	}
}

func TestMem2RegUninitialized(t *testing.T) {
	// int f(void) { int x; return x; }
	f := buildAndRun(t, "f", fn("int", "f", noParams,
		local("int", "x", nil),
		ret(ref("x")),
	))
	assertNoMemory(t, f)
	if r := returned(t, f); r.Op != ssa.OpConstInt || r.AuxInt != 0 {
		t.Errorf("returns %s, want the zero constant", r.LongString())
	}
}

func TestMem2RegDiamond(t *testing.T) {
	// int f(int x) { int y; if (x) y = 1; else y = 2; return y; }
	f := buildAndRun(t, "f", fn("int", "f", intX,
		local("int", "y", nil),
		&ast.IfElse{Cond: ref("x"), Then: assign("y", ast.NewInt(1)), Else: assign("y", ast.NewInt(2))},
		ret(ref("y")),
	))
	assertNoMemory(t, f)
	if n := countOp(f, ssa.OpPhi); n != 1 {
		t.Fatalf("%d phis, want 1:\n%s", n, ssa.Sprint(f))
	}
	phi := returned(t, f)
	if phi.Op != ssa.OpPhi || len(phi.Args) != 2 {
		t.Fatalf("returns %s, want a two-way phi", phi.LongString())
	}
	if phi.Args[0].AuxInt != 1 || phi.Args[1].AuxInt != 2 {
		t.Errorf("phi args = %v, want constants 1 and 2", phi.Args)
	}
	if n := countOp(f, ssa.OpConstInt); n != 3 {
		// 0 for the condition, then 1 and 2. The zero of y is dropped.
		t.Errorf("%d integer constants, want 3:\n%s", n, ssa.Sprint(f))
	}
}

func TestMem2RegIfWithoutElse(t *testing.T) {
	// int f(int x) { int y; if (x) y = 1; return y; }
	f := buildAndRun(t, "f", fn("int", "f", intX,
		local("int", "y", nil),
		&ast.IfElse{Cond: ref("x"), Then: assign("y", ast.NewInt(1))},
		ret(ref("y")),
	))
	assertNoMemory(t, f)
	phi := returned(t, f)
	if phi.Op != ssa.OpPhi || len(phi.Args) != 2 {
		t.Fatalf("returns %s, want a two-way phi:\n%s", phi.LongString(), ssa.Sprint(f))
	}
	if phi.Args[1].Op != ssa.OpConstInt || phi.Args[1].AuxInt != 0 {
		t.Errorf("else edge carries %s, want the zero of y", phi.Args[1].LongString())
	}
}

func TestMem2RegLoop(t *testing.T) {
	// int f(void) { int i = 0; while (i < 10) ++i; return i; }
	f := buildAndRun(t, "f", fn("int", "f", noParams,
		local("int", "i", ast.NewInt(0)),
		&ast.WhileLoop{
			Cond: &ast.Binary{X: ref("i"), Y: ast.NewInt(10), Op: ast.Less},
			Body: &ast.Unary{X: ref("i"), Op: ast.PlusPlus},
		},
		ret(ref("i")),
	))
	assertNoMemory(t, f)
	// One phi heads the loop body, one merges at the exit.
	if n := countOp(f, ssa.OpPhi); n != 2 {
		t.Errorf("%d phis, want 2:\n%s", n, ssa.Sprint(f))
	}
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpPhi && len(v.Args) != len(b.Preds) {
				t.Errorf("%s has %d args for %d preds", v, len(v.Args), len(b.Preds))
			}
		}
	}
}

func TestMem2RegKeepsGlobals(t *testing.T) {
	// int g = 3; int f(void) { return g; }
	f := buildAndRun(t, "f",
		local("int", "g", ast.NewInt(3)),
		fn("int", "f", noParams, ret(ref("g"))),
	)
	if n := countOp(f, ssa.OpLoad); n != 1 {
		t.Errorf("%d loads, want the global load kept:\n%s", n, ssa.Sprint(f))
	}
}

func TestMem2RegUseCounts(t *testing.T) {
	f := buildAndRun(t, "f", fn("int", "f", intX,
		local("int", "y", ref("x")),
		assign("y", &ast.Binary{X: ref("y"), Y: ref("x"), Op: ast.Plus}),
		ret(ref("y")),
	))
	uses := make(map[*ssa.Value]int32)
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for _, a := range v.Args {
				uses[a]++
			}
		}
		for _, c := range b.Controls {
			if c != nil {
				uses[c]++
			}
		}
	}
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Uses != uses[v] {
				t.Errorf("%s: Uses = %d, counted %d", v, v.Uses, uses[v])
			}
		}
	}
}
