package ssa

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Fdot writes the control flow graph of f as a Graphviz digraph.
// Each node lists the block's values; conditional edges are labelled
// T and F.
func Fdot(w io.Writer, f *Func) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %q {\n", "CFG for '"+f.Name+"' function")
	fmt.Fprintf(bw, "\tlabel=%q;\n", "CFG for '"+f.Name+"' function")
	fmt.Fprintf(bw, "\tnode [shape=record fontname=\"monospace\"];\n")
	for _, b := range f.Blocks {
		var lines []string
		lines = append(lines, b.Name()+":")
		for _, v := range b.Values {
			lines = append(lines, "  "+formatValue(v))
		}
		lines = append(lines, "  "+formatTerminator(b))
		fmt.Fprintf(bw, "\t%s [label=\"{%s\\l}\"];\n", b, dotEscape(strings.Join(lines, "\\l")))
	}
	for _, b := range f.Blocks {
		for i, s := range b.Succs {
			attr := ""
			if b.Kind == BlockIf {
				attr = " [label=\"T\"]"
				if i == 1 {
					attr = " [label=\"F\"]"
				}
			}
			fmt.Fprintf(bw, "\t%s -> %s%s;\n", b, s, attr)
		}
	}
	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}

var dotEscaper = strings.NewReplacer(
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`<`, `\<`,
	`>`, `\>`,
	`|`, `\|`,
)

// dotEscape quotes the characters that are special in record labels.
// Line breaks already written as \l are kept.
func dotEscape(s string) string {
	return dotEscaper.Replace(s)
}
