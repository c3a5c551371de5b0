package ssa

import (
	"bytes"
	"strings"
	"testing"

	"github.com/you-not-fish/minicc/internal/ctypes"
)

var (
	tInt    = ctypes.Typ[ctypes.Int]
	tLong   = ctypes.Typ[ctypes.Long]
	tDouble = ctypes.Typ[ctypes.Double]
	tBool   = ctypes.Typ[ctypes.Bool]
)

func TestOpInfoComplete(t *testing.T) {
	for op := OpInvalid + 1; op < opCount; op++ {
		name := op.String()
		if name == "" || name == "unknown" {
			t.Errorf("op %d has no name", op)
		}
	}
	if got := opCount.String(); got != "unknown" {
		t.Errorf("opCount.String() = %q, want unknown", got)
	}
}

func TestOpPredicates(t *testing.T) {
	if !OpStore.IsVoid() || OpLoad.IsVoid() {
		t.Error("only Store is void among memory ops")
	}
	if OpDiv.IsPure() || OpMod.IsPure() || OpStaticCall.IsPure() {
		t.Error("Div, Mod and calls must not be pure")
	}
	if !OpAdd.IsPure() || !OpGlobalAddr.IsPure() {
		t.Error("Add and GlobalAddr are pure")
	}
	for _, op := range []Op{OpConstInt, OpConstFloat, OpConstBool, OpConstString} {
		if !op.IsConst() {
			t.Errorf("%s.IsConst() = false", op)
		}
	}
	if OpAdd.IsFloatFamily() || !OpLtF.IsFloatFamily() || !OpNegF.IsFloatFamily() {
		t.Error("IsFloatFamily misclassifies")
	}
	if !OpEq.IsCompare() || !OpGeqF.IsCompare() || OpNot.IsCompare() || OpSub.IsCompare() {
		t.Error("IsCompare misclassifies")
	}
}

// buildAdd emits "int add(int x, int y) { return x + y; }".
func buildAdd(t *testing.T) (*Module, *Func) {
	t.Helper()
	m := NewModule("test")
	b := NewBuilder(m)
	sig := ctypes.NewFunc([]ctypes.Type{tInt, tInt}, tInt, false)
	f := b.DeclareFunction("add", sig, []string{"x", "y"}, External)
	b.BeginBody(f)
	x := b.Param(0)
	y := b.Param(1)
	b.Ret(b.BinOp(OpAdd, x, y, tInt))
	if err := b.VerifyFunction(f); err != nil {
		t.Fatalf("VerifyFunction: %v\n%s", err, Sprint(f))
	}
	return m, f
}

func TestPrintFormat(t *testing.T) {
	_, f := buildAdd(t)
	want := `func add(int x, int y) int:
  b0: (entry)
    v0 = Arg <int> {x}
    v1 = Arg <int> [1] {y}
    v2 = Add <int> v0 v1
    Return v2
`
	if got := Sprint(f); got != want {
		t.Errorf("Sprint =\n%s\nwant\n%s", got, want)
	}
}

func TestFprintModule(t *testing.T) {
	m, _ := buildAdd(t)
	b := NewBuilder(m)
	g := b.GetOrInsertGlobal("count", tLong)
	g.Linkage = Internal
	g.Init = b.ConstInt(tLong, 2)
	b.DeclareFunction("putchar", ctypes.NewFunc([]ctypes.Type{tInt}, tInt, false), []string{""}, External)

	var buf bytes.Buffer
	FprintModule(&buf, m)
	out := buf.String()
	for _, want := range []string{
		"module test\n",
		"global count long internal = 2\n",
		"func add(int x, int y) int:\n",
		"declare func putchar(int) int\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("module dump missing %q:\n%s", want, out)
		}
	}
}

func TestFdot(t *testing.T) {
	f := NewFunc("pick", ctypes.NewFunc(nil, tInt, false))
	then := f.NewBlock(BlockReturn)
	els := f.NewBlock(BlockReturn)
	branch(f, f.Entry, then, els)
	then.SetControl(f.NewValue(then, OpConstInt, tInt))
	one := f.NewValue(els, OpConstInt, tInt)
	one.AuxInt = 1
	els.SetControl(one)

	var buf bytes.Buffer
	if err := Fdot(&buf, f); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`digraph "CFG for 'pick' function" {`,
		`b0 -> b1 [label="T"];`,
		`b0 -> b2 [label="F"];`,
		`entry0:`,
		`v2 = ConstInt \<int\> [1]`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}
}

func TestVerifyValid(t *testing.T) {
	f := NewFunc("f", voidSig())
	b1 := f.NewBlock(BlockReturn)
	f.Entry.AddSucc(b1)
	b1.SetControl(nil)
	if err := Verify(f); err != nil {
		t.Errorf("Verify: %v\n%s", err, Sprint(f))
	}
}

func TestVerifyErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Func
		want  string
	}{
		{"plain without successor", func() *Func {
			return NewFunc("f", voidSig())
		}, "plain block has 0 succs"},
		{"non-bool condition", func() *Func {
			f := NewFunc("f", voidSig())
			b1 := f.NewBlock(BlockReturn)
			b2 := f.NewBlock(BlockReturn)
			c := f.NewValue(f.Entry, OpConstInt, tInt)
			f.Entry.Kind = BlockIf
			f.Entry.SetControl(c)
			f.Entry.AddSucc(b1)
			f.Entry.AddSucc(b2)
			return f
		}, "want bool"},
		{"missing return value", func() *Func {
			f := NewFunc("f", ctypes.NewFunc(nil, tInt, false))
			f.Entry.Kind = BlockReturn
			f.Entry.SetControl(nil)
			return f
		}, "missing return value"},
		{"void returns value", func() *Func {
			f := NewFunc("f", voidSig())
			f.Entry.Kind = BlockReturn
			f.Entry.SetControl(f.NewValue(f.Entry, OpConstInt, tInt))
			return f
		}, "void function returns"},
		{"mixed operands", func() *Func {
			f := NewFunc("f", ctypes.NewFunc(nil, tInt, false))
			x := f.NewValue(f.Entry, OpConstInt, tInt)
			y := f.NewValue(f.Entry, OpConstInt, tLong)
			s := f.NewValue(f.Entry, OpAdd, tInt, x, y)
			f.Entry.Kind = BlockReturn
			f.Entry.SetControl(s)
			return f
		}, "Add of int and long"},
		{"float op on ints", func() *Func {
			f := NewFunc("f", ctypes.NewFunc(nil, tInt, false))
			x := f.NewValue(f.Entry, OpConstInt, tInt)
			s := f.NewValue(f.Entry, OpAddF, tInt, x, x)
			f.Entry.Kind = BlockReturn
			f.Entry.SetControl(s)
			return f
		}, "AddF on int operands"},
		{"store type mismatch", func() *Func {
			f := NewFunc("f", voidSig())
			slot := f.NewValue(f.Entry, OpAlloca, ctypes.NewPointer(tInt))
			d := f.NewValue(f.Entry, OpConstFloat, tDouble)
			f.NewValue(f.Entry, OpStore, nil, slot, d)
			f.Entry.Kind = BlockReturn
			f.Entry.SetControl(nil)
			return f
		}, "store of double into int slot"},
		{"load from value", func() *Func {
			f := NewFunc("f", ctypes.NewFunc(nil, tInt, false))
			x := f.NewValue(f.Entry, OpConstInt, tInt)
			l := f.NewValue(f.Entry, OpLoad, tInt, x)
			f.Entry.Kind = BlockReturn
			f.Entry.SetControl(l)
			return f
		}, "load from non-address"},
		{"call arity", func() *Func {
			callee := &Func{Name: "g", Sig: ctypes.NewFunc([]ctypes.Type{tInt}, nil, false)}
			f := NewFunc("f", voidSig())
			c := f.NewValue(f.Entry, OpStaticCall, nil)
			c.Aux = callee
			f.Entry.Kind = BlockReturn
			f.Entry.SetControl(nil)
			return f
		}, "call of g with 0 args, want 1"},
		{"phi arity", func() *Func {
			f := NewFunc("f", ctypes.NewFunc(nil, tInt, false))
			b1 := f.NewBlock(BlockReturn)
			f.Entry.AddSucc(b1)
			x := f.NewValue(f.Entry, OpConstInt, tInt)
			p := f.NewValue(b1, OpPhi, tInt, x, x)
			b1.SetControl(p)
			return f
		}, "phi has 2 args but block has 1 preds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.build()
			err := Verify(f)
			if err == nil {
				t.Fatalf("Verify accepted:\n%s", Sprint(f))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Verify error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestVerifyReportsAll(t *testing.T) {
	f := NewFunc("f", ctypes.NewFunc(nil, tInt, false))
	f.NewBlock(BlockPlain)
	f.Entry.Kind = BlockReturn
	f.Entry.SetControl(nil)

	err := Verify(f)
	if err == nil {
		t.Fatal("Verify accepted a broken function")
	}
	lines := strings.Split(err.Error(), "\n")
	if len(lines) != 3 {
		t.Errorf("got %d lines, want header plus 2 violations:\n%v", len(lines), err)
	}
}

func TestReplaceUses(t *testing.T) {
	f := NewFunc("f", ctypes.NewFunc(nil, tBool, false))
	x := f.NewValue(f.Entry, OpConstBool, tBool)
	y := f.NewValue(f.Entry, OpConstBool, tBool)
	n := f.NewValue(f.Entry, OpNot, tBool, x)
	f.Entry.Kind = BlockReturn
	f.Entry.SetControl(x)

	f.ReplaceUses(x, y)

	if n.Args[0] != y || f.Entry.Controls[0] != y {
		t.Errorf("uses not redirected:\n%s", Sprint(f))
	}
	if x.Uses != 0 || y.Uses != 2 {
		t.Errorf("uses: x=%d y=%d, want 0 and 2", x.Uses, y.Uses)
	}
}
