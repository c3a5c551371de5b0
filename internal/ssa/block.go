package ssa

import "fmt"

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid BlockKind = iota
	BlockPlain             // unconditional jump to Succs[0]; open while Succs is empty
	BlockIf                // conditional branch: if Controls[0] then Succs[0] else Succs[1]
	BlockReturn            // function return; Controls[0] = return value (nil for void)
	BlockExit              // no successors, control never returns
)

var blockKindNames = [...]string{
	BlockInvalid: "invalid",
	BlockPlain:   "plain",
	BlockIf:      "if",
	BlockReturn:  "ret",
	BlockExit:    "exit",
}

// String returns the string representation of the block kind.
func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block represents a basic block in the control flow graph.
// A block contains a sequence of non-branching Values, followed by
// a terminator indicated by its Kind.
type Block struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Label is the name the block was created with ("then", "loop", ...).
	Label string

	// Kind describes how this block terminates.
	Kind BlockKind

	// Controls holds the terminator's operand values.
	// For BlockIf: Controls[0] = branch condition.
	// For BlockReturn: Controls[0] = return value (nil for void return).
	Controls []*Value

	// Succs lists the successor blocks in the CFG.
	// For BlockPlain: Succs[0] = target.
	// For BlockIf: Succs[0] = then, Succs[1] = else.
	Succs []*Block

	// Preds lists the predecessor blocks in the CFG.
	Preds []*Block

	// Values is the ordered list of values computed in this block.
	Values []*Value

	// Func is the function containing this block.
	Func *Func

	// Dominance tree, filled by ComputeDom.
	Idom     *Block
	Dominees []*Block
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// Name returns the block's label qualified by its ID, e.g. "then3".
func (b *Block) Name() string {
	if b.Label == "" {
		return b.String()
	}
	return fmt.Sprintf("%s%d", b.Label, b.ID)
}

// Terminated reports whether the block already ends in a terminator.
func (b *Block) Terminated() bool {
	switch b.Kind {
	case BlockPlain:
		return len(b.Succs) > 0
	case BlockIf, BlockReturn, BlockExit:
		return true
	}
	return false
}

// AddSucc adds a successor block, updating both Succs and the successor's Preds.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// SetControl sets the branch/return control value.
func (b *Block) SetControl(v *Value) {
	b.Controls = []*Value{v}
	if v != nil {
		v.Uses++
	}
}

// removePred deletes p from b's predecessors along with the matching
// phi arguments.
func (b *Block) removePred(p *Block) {
	i := predIndex(b, p)
	if i < 0 {
		return
	}
	b.Preds = append(b.Preds[:i], b.Preds[i+1:]...)
	for _, v := range b.Values {
		if v.Op != OpPhi || i >= len(v.Args) {
			continue
		}
		if a := v.Args[i]; a != nil {
			a.Uses--
		}
		v.Args = append(v.Args[:i], v.Args[i+1:]...)
	}
}

func predIndex(b, p *Block) int {
	for i, x := range b.Preds {
		if x == p {
			return i
		}
	}
	return -1
}

// NumSuccs returns the number of successor blocks.
func (b *Block) NumSuccs() int { return len(b.Succs) }

// NumPreds returns the number of predecessor blocks.
func (b *Block) NumPreds() int { return len(b.Preds) }
