// Package codegen renders an ssa.Module as LLVM IR text that clang or
// llc accept.
package codegen

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/you-not-fish/minicc/internal/ssa"
	"github.com/you-not-fish/minicc/internal/target"
)

// generator holds the state of one module's emission.
type generator struct {
	e *emitter
	m *ssa.Module

	// String literals, pooled into private globals @.str.N.
	strings   []string
	stringMap map[string]int
}

// Generate writes m to w as LLVM IR. Every function with a body must
// already have passed ssa.Verify.
func Generate(w io.Writer, m *ssa.Module) error {
	g := &generator{
		e:         &emitter{w: w},
		m:         m,
		stringMap: make(map[string]int),
	}
	g.collectStrings()

	g.e.emit("; ModuleID = '%s'", m.Name)
	g.e.emit("source_filename = %q", m.Name)
	g.e.emit("target datalayout = %q", target.DataLayout)
	g.e.emit("target triple = %q", target.TargetTriple)

	if len(g.strings) > 0 {
		g.e.emitLine()
		for i, s := range g.strings {
			g.e.emit("@.str.%d = private unnamed_addr constant [%d x i8] c\"%s\\00\"",
				i, len(s)+1, llvmEscapeString(s))
		}
	}

	if len(m.Globals) > 0 {
		g.e.emitLine()
		for _, gl := range m.Globals {
			g.lowerGlobal(gl)
		}
	}

	for _, f := range m.Funcs {
		g.e.emitLine()
		if f.IsDecl() {
			g.lowerDecl(f)
		} else {
			g.lowerFunc(f)
		}
	}
	return errors.Wrap(g.e.err, "codegen")
}

// collectStrings pools every string constant of the module up front, so
// the globals can be emitted before the functions that use them.
func (g *generator) collectStrings() {
	for _, gl := range g.m.Globals {
		if gl.Init != nil && gl.Init.Op == ssa.OpConstString {
			g.stringIndex(gl.Init.Aux.(string))
		}
	}
	for _, f := range g.m.Funcs {
		for _, b := range f.Blocks {
			for _, v := range b.Values {
				if v.Op == ssa.OpConstString {
					g.stringIndex(v.Aux.(string))
				}
			}
		}
	}
}

// lowerGlobal emits a module-level variable.
func (g *generator) lowerGlobal(gl *ssa.Global) {
	linkage := ""
	if gl.Linkage == ssa.Internal {
		linkage = "internal "
	}
	typ := llvmType(gl.Type)
	init := "zeroinitializer"
	switch {
	case gl.Init != nil:
		init = g.operand(gl.Init)
	case typ == "ptr":
		init = "null"
	}
	g.e.emit("@%s = %sglobal %s %s", gl.Name, linkage, typ, init)
}

// stringIndex returns the index of s in the string pool, adding it if
// not present.
func (g *generator) stringIndex(s string) int {
	if idx, ok := g.stringMap[s]; ok {
		return idx
	}
	idx := len(g.strings)
	g.strings = append(g.strings, s)
	g.stringMap[s] = idx
	return idx
}

func stringGlobal(idx int) string {
	return "@.str." + strconv.Itoa(idx)
}

// llvmEscapeString returns s escaped for an LLVM c"..." literal.
// Non-printable characters, backslash and quote are written as \HH.
func llvmEscapeString(s string) string {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' || c < 0x20 || c >= 0x7f {
			buf = fmt.Appendf(buf, "\\%02X", c)
		} else {
			buf = append(buf, c)
		}
	}
	return string(buf)
}
