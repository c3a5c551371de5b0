package passes

import "github.com/you-not-fish/minicc/internal/ssa"

// DeadBlocks deletes blocks that cannot be reached from the entry,
// along with the phi operands flowing out of them.
func DeadBlocks(f *ssa.Func) {
	ssa.RemoveUnreachable(f)
}
