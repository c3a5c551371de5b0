package codegen

import (
	"fmt"
	"io"

	"github.com/you-not-fish/minicc/internal/ssa"
)

// emitter wraps an io.Writer with helpers for emitting LLVM IR text.
// The first write error sticks; later writes are dropped.
type emitter struct {
	w   io.Writer
	err error
}

// emit writes a formatted line with no indentation.
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// emitLine writes a blank line.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w)
}

func (e *emitter) emitComment(text string) {
	e.emit("; %s", text)
}

// emitLabel writes a basic block label.
func (e *emitter) emitLabel(b *ssa.Block) {
	e.emit("%s:", blockName(b))
}

// emitInst writes an indented instruction line.
func (e *emitter) emitInst(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, "  "+format+"\n", args...)
}

// valueName returns the LLVM local name for an IR value: %vN.
func valueName(v *ssa.Value) string {
	return fmt.Sprintf("%%v%d", v.ID)
}

// blockName returns the LLVM label for a block, its label plus ID
// ("entry0", "then3").
func blockName(b *ssa.Block) string {
	return b.Name()
}

// argName returns the LLVM name of parameter i.
func argName(i int) string {
	return fmt.Sprintf("%%arg%d", i)
}
