package ssa

import (
	"fmt"

	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/ctypes"
)

// Builder emits functions, blocks, values and globals into a Module.
// It tracks one insertion point; values are appended to the end of the
// insertion block, except allocas and parameters, which go to the
// function's entry block.
type Builder struct {
	m   *Module
	fn  *Func
	cur *Block
	pos ast.Pos
}

// NewBuilder returns a builder emitting into m.
func NewBuilder(m *Module) *Builder {
	return &Builder{m: m}
}

// Module returns the module being built.
func (b *Builder) Module() *Module { return b.m }

// Func returns the function holding the insertion point, or nil.
func (b *Builder) Func() *Func { return b.fn }

// SetPos sets the source position stamped on subsequently emitted values.
func (b *Builder) SetPos(p ast.Pos) { b.pos = p }

// DeclareFunction returns the function named name, declaring it with
// the given signature and linkage if the module has none yet.
func (b *Builder) DeclareFunction(name string, sig *ctypes.Func, params []string, linkage Linkage) *Func {
	if f := b.m.Function(name); f != nil {
		return f
	}
	if len(params) != sig.NumParams() {
		panic(fmt.Sprintf("ssa: %s: %d parameter names for %d parameters", name, len(params), sig.NumParams()))
	}
	f := &Func{
		Name:       name,
		Sig:        sig,
		ParamNames: params,
		Linkage:    linkage,
		Pos:        b.pos,
	}
	b.m.AddFunc(f)
	return f
}

// BeginBody gives the declared function f its entry block and moves the
// insertion point there.
func (b *Builder) BeginBody(f *Func) *Block {
	if !f.IsDecl() {
		panic(fmt.Sprintf("ssa: %s already has a body", f.Name))
	}
	f.Entry = f.NewBlock(BlockPlain)
	f.Entry.Label = "entry"
	b.SetInsertPoint(f.Entry)
	return f.Entry
}

// NewBlock creates an empty block in the current function.
// The insertion point does not move.
func (b *Builder) NewBlock(label string) *Block {
	if b.fn == nil {
		panic("ssa: NewBlock outside a function")
	}
	blk := b.fn.NewBlock(BlockPlain)
	blk.Label = label
	return blk
}

// SetInsertPoint moves the insertion point to the end of blk.
func (b *Builder) SetInsertPoint(blk *Block) {
	b.cur = blk
	b.fn = blk.Func
}

// ClearInsertPoint leaves the current function. Constants built
// afterwards are detached global initializers.
func (b *Builder) ClearInsertPoint() {
	b.cur = nil
	b.fn = nil
}

// InsertBlock returns the block values are appended to, or nil.
func (b *Builder) InsertBlock() *Block { return b.cur }

func (b *Builder) emit(op Op, typ ctypes.Type, args ...*Value) *Value {
	if b.cur == nil {
		panic(fmt.Sprintf("ssa: emitting %s with no insertion point", op))
	}
	if b.cur.Terminated() {
		panic(fmt.Sprintf("ssa: emitting %s into terminated block %s", op, b.cur))
	}
	v := b.fn.NewValue(b.cur, op, typ, args...)
	v.Pos = b.pos
	return v
}

func isArg(v *Value) bool { return v.Op == OpArg }

func isArgOrAlloca(v *Value) bool { return v.Op == OpArg || v.Op == OpAlloca }

// Param returns the incoming value of parameter i, placed with the other
// parameters at the top of the entry block.
func (b *Builder) Param(i int) *Value {
	v := b.fn.newValueAfter(b.fn.Entry, isArg, OpArg, b.fn.Sig.Param(i))
	v.AuxInt = int64(i)
	v.Aux = b.fn.ParamNames[i]
	v.Pos = b.pos
	return v
}

// Alloca reserves a stack slot for a value of type typ. The slot is
// placed in the entry block regardless of the insertion point.
func (b *Builder) Alloca(typ ctypes.Type, name string) *Value {
	if b.fn == nil {
		panic("ssa: Alloca outside a function")
	}
	v := b.fn.newValueAfter(b.fn.Entry, isArgOrAlloca, OpAlloca, ctypes.NewPointer(typ))
	v.Aux = name
	v.Pos = b.pos
	return v
}

// Load reads the value stored at addr.
func (b *Builder) Load(addr *Value) *Value {
	return b.emit(OpLoad, addr.Elem(), addr)
}

// Store writes val to addr.
func (b *Builder) Store(addr, val *Value) *Value {
	return b.emit(OpStore, nil, addr, val)
}

// BinOp emits a two-operand operation with result type typ.
func (b *Builder) BinOp(op Op, x, y *Value, typ ctypes.Type) *Value {
	return b.emit(op, typ, x, y)
}

// UnOp emits a one-operand operation with result type typ.
func (b *Builder) UnOp(op Op, x *Value, typ ctypes.Type) *Value {
	return b.emit(op, typ, x)
}

// Convert emits a conversion of x to type to.
func (b *Builder) Convert(op Op, x *Value, to ctypes.Type) *Value {
	return b.emit(op, to, x)
}

// Call emits a direct call of f. The result has nil Type when f
// returns void.
func (b *Builder) Call(f *Func, args []*Value) *Value {
	var typ ctypes.Type
	if res := f.Sig.Result(); !ctypes.IsVoid(res) {
		typ = res
	}
	v := b.emit(OpStaticCall, typ, args...)
	v.Aux = f
	return v
}

// GlobalAddr emits the address of g.
func (b *Builder) GlobalAddr(g *Global) *Value {
	v := b.emit(OpGlobalAddr, ctypes.NewPointer(g.Type))
	v.Aux = g
	return v
}

// Br terminates the insertion block with a jump to target.
// It does nothing and reports false if the block is already terminated.
func (b *Builder) Br(target *Block) bool {
	if b.cur.Terminated() {
		return false
	}
	b.cur.Kind = BlockPlain
	b.cur.AddSucc(target)
	return true
}

// CondBr terminates the insertion block with a branch on cond.
// It does nothing and reports false if the block is already terminated.
func (b *Builder) CondBr(cond *Value, then, els *Block) bool {
	if b.cur.Terminated() {
		return false
	}
	b.cur.Kind = BlockIf
	b.cur.SetControl(cond)
	b.cur.AddSucc(then)
	b.cur.AddSucc(els)
	return true
}

// Ret terminates the insertion block with a return of v, or a void
// return if v is nil. It does nothing and reports false if the block is
// already terminated.
func (b *Builder) Ret(v *Value) bool {
	if b.cur.Terminated() {
		return false
	}
	b.cur.Kind = BlockReturn
	b.cur.SetControl(v)
	return true
}

func (b *Builder) constant(op Op, typ ctypes.Type) *Value {
	if b.cur == nil {
		return NewConst(op, typ)
	}
	return b.emit(op, typ)
}

// ConstInt returns an integer constant of type typ.
func (b *Builder) ConstInt(typ ctypes.Type, x int64) *Value {
	v := b.constant(OpConstInt, typ)
	v.AuxInt = x
	return v
}

// ConstFloat returns a floating constant of type typ.
func (b *Builder) ConstFloat(typ ctypes.Type, x float64) *Value {
	v := b.constant(OpConstFloat, typ)
	v.AuxFloat = x
	return v
}

// ConstBool returns a bool constant.
func (b *Builder) ConstBool(x bool) *Value {
	v := b.constant(OpConstBool, ctypes.Typ[ctypes.Bool])
	if x {
		v.AuxInt = 1
	}
	return v
}

// ConstString returns a string constant.
func (b *Builder) ConstString(s string) *Value {
	v := b.constant(OpConstString, ctypes.Typ[ctypes.String])
	v.Aux = s
	return v
}

// GetOrInsertGlobal returns the global named name, creating an
// externally visible one of type typ if the module has none.
func (b *Builder) GetOrInsertGlobal(name string, typ ctypes.Type) *Global {
	if g := b.m.Global(name); g != nil {
		return g
	}
	g := &Global{Name: name, Type: typ, Pos: b.pos}
	b.m.AddGlobal(g)
	return g
}

// VerifyFunction prunes blocks unreachable from f's entry and checks
// the structure of what remains.
func (b *Builder) VerifyFunction(f *Func) error {
	RemoveUnreachable(f)
	return Verify(f)
}
