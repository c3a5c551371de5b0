package ast

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Fdot writes a Graphviz digraph of the tree rooted at e.
// Interior nodes are drawn as plain labels, leaves as boxes.
func Fdot(w io.Writer, name string, e Expr) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %q {\n", name)
	fmt.Fprintf(bw, "\tnode [fontname=\"monospace\"];\n")
	id := 0
	var visit func(e Expr) int
	visit = func(e Expr) int {
		me := id
		id++
		kids := children(e)
		shape := "none"
		if len(kids) == 0 {
			shape = "box"
		}
		fmt.Fprintf(bw, "\tn%d [label=%q shape=%s];\n", me, dotLabel(e), shape)
		for _, c := range kids {
			fmt.Fprintf(bw, "\tn%d -> n%d;\n", me, visit(c))
		}
		return me
	}
	if e != nil {
		visit(e)
	}
	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}

func dotLabel(e Expr) string {
	switch n := e.(type) {
	case *ConstVar:
		return litString(n)
	case *NameRef:
		return n.Name
	case *Variable:
		var b strings.Builder
		fmt.Fprintf(&b, "var:%s type:%s", n.Name, n.Type)
		if n.Storage != NoStorage {
			fmt.Fprintf(&b, " %s", n.Storage)
		}
		return b.String()
	case *InitExpr:
		return "init_expr"
	case *Unary:
		return "unary:" + n.Op.String()
	case *Binary:
		return "binary:" + n.Op.String()
	case *IfElse:
		return "if-block"
	case *WhileLoop:
		return "while"
	case *ForLoop:
		return "for"
	case *Return:
		return "return"
	case *FuncCall:
		return "call:" + n.Name
	case *FuncProto:
		return fmt.Sprintf("proto:%s ret_type:%s", n.Name, n.Result)
	case *FuncDef:
		return "func:" + n.Name()
	case *CompoundExpr:
		return "compound"
	case *Break:
		return "BREAK"
	case *Continue:
		return "CONTINUE"
	case *Null:
		return "NULL"
	}
	return fmt.Sprintf("%T", e)
}
