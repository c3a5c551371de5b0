package ssa

import (
	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/ctypes"
)

// Linkage is the visibility of a function or global outside the module.
type Linkage int

const (
	External Linkage = iota
	Internal         // static
)

func (l Linkage) String() string {
	if l == Internal {
		return "internal"
	}
	return "external"
}

// Func represents an IR function.
// A Func with no blocks is a declaration.
type Func struct {
	// Name is the function name.
	Name string

	// Sig is the function signature.
	Sig *ctypes.Func

	// ParamNames holds one name per Sig parameter.
	ParamNames []string

	// Linkage is External unless the function was declared static.
	Linkage Linkage

	// Pos is where the function was first declared.
	Pos ast.Pos

	// Blocks is the list of basic blocks. Blocks[0] is always the entry block.
	Blocks []*Block

	// Entry is the entry block (same as Blocks[0]).
	Entry *Block

	nextValueID ID
	nextBlockID ID
}

// NewFunc creates a function with the given name and signature and an
// empty entry block.
func NewFunc(name string, sig *ctypes.Func) *Func {
	f := &Func{Name: name, Sig: sig}
	f.Entry = f.NewBlock(BlockPlain)
	f.Entry.Label = "entry"
	return f
}

// IsDecl reports whether f has no body.
func (f *Func) IsDecl() bool { return len(f.Blocks) == 0 }

// NewBlock creates a new basic block with the given kind and appends it to the function.
func (f *Func) NewBlock(kind BlockKind) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Kind: kind,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Func) newValue(b *Block, op Op, typ ctypes.Type, args []*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  typ,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	return v
}

// NewValue creates a new Value at the end of block b.
func (f *Func) NewValue(b *Block, op Op, typ ctypes.Type, args ...*Value) *Value {
	v := f.newValue(b, op, typ, args)
	b.Values = append(b.Values, v)
	return v
}

// NewValueAtFront creates a new Value at the start of block b.
func (f *Func) NewValueAtFront(b *Block, op Op, typ ctypes.Type, args ...*Value) *Value {
	v := f.newValue(b, op, typ, args)
	b.Values = append([]*Value{v}, b.Values...)
	return v
}

// newValueAfter creates a new Value in b after the leading run of values
// for which skip is true.
func (f *Func) newValueAfter(b *Block, skip func(*Value) bool, op Op, typ ctypes.Type) *Value {
	i := 0
	for i < len(b.Values) && skip(b.Values[i]) {
		i++
	}
	v := f.newValue(b, op, typ, nil)
	b.Values = append(b.Values, nil)
	copy(b.Values[i+1:], b.Values[i:])
	b.Values[i] = v
	return v
}

// ReplaceUses redirects every use of old, as an argument or a block
// control, to new.
func (f *Func) ReplaceUses(old, new *Value) {
	if old == new {
		return
	}
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, a := range v.Args {
				if a == old {
					v.ReplaceArg(i, new)
				}
			}
		}
		for i, c := range b.Controls {
			if c == old {
				b.Controls[i] = new
				old.Uses--
				new.Uses++
			}
		}
	}
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}
