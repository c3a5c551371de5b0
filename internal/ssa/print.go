package ssa

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Fprint writes the IR of a function to w.
//
// Format:
//
//	func add(int x, int y) int:
//	  b0: (entry)
//	    v0 = Arg <int> {x}
//	    v1 = Arg <int> [1] {y}
//	    v2 = Add <int> v0 v1
//	    Return v2
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "%s:\n", funcHeader(f))
	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// FprintModule writes every global and function of m to w.
func FprintModule(w io.Writer, m *Module) {
	fmt.Fprintf(w, "module %s\n", m.Name)
	for _, g := range m.Globals {
		fmt.Fprintf(w, "\nglobal %s %s", g.Name, g.Type)
		if g.Linkage == Internal {
			fmt.Fprintf(w, " internal")
		}
		if g.Init != nil {
			fmt.Fprintf(w, " = %s", formatConst(g.Init))
		}
		fmt.Fprintln(w)
	}
	for _, f := range m.Funcs {
		fmt.Fprintln(w)
		if f.IsDecl() {
			fmt.Fprintf(w, "declare %s\n", funcHeader(f))
			continue
		}
		Fprint(w, f)
	}
}

func funcHeader(f *Func) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s", f.Name)
	if f.Sig == nil {
		return sb.String()
	}
	sb.WriteString("(")
	for i := 0; i < f.Sig.NumParams(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s", f.Sig.Param(i))
		if i < len(f.ParamNames) && f.ParamNames[i] != "" {
			fmt.Fprintf(&sb, " %s", f.ParamNames[i])
		}
	}
	if f.Sig.Variadic() {
		if f.Sig.NumParams() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
	}
	fmt.Fprintf(&sb, ") %s", f.Sig.Result())
	if f.Linkage == Internal {
		sb.WriteString(" internal")
	}
	return sb.String()
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block, f *Func) {
	label := ""
	if b == f.Entry {
		label = " (entry)"
	} else if b.Label != "" {
		label = " (" + b.Label + ")"
	}

	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}

	fmt.Fprintf(w, "  %s:%s%s\n", b, label, predsStr)
	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}
	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

// formatValue formats a value as a string.
func formatValue(v *Value) string {
	var sb strings.Builder

	if v.Op.IsVoid() {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s", v.ID, v.Op)
	}

	if v.Type != nil {
		fmt.Fprintf(&sb, " <%s>", v.Type)
	}

	switch v.Op {
	case OpConstInt, OpConstBool:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	case OpConstFloat:
		fmt.Fprintf(&sb, " [%g]", v.AuxFloat)
	default:
		if v.AuxInt != 0 {
			fmt.Fprintf(&sb, " [%d]", v.AuxInt)
		}
	}

	if v.Aux != nil {
		fmt.Fprintf(&sb, " {%s}", formatAux(v.Aux))
	}

	for _, arg := range v.Args {
		if arg == nil {
			sb.WriteString(" <nil>")
			continue
		}
		fmt.Fprintf(&sb, " v%d", arg.ID)
	}

	return sb.String()
}

// formatConst formats a detached constant.
func formatConst(v *Value) string {
	switch v.Op {
	case OpConstInt, OpConstBool:
		return fmt.Sprint(v.AuxInt)
	case OpConstFloat:
		return fmt.Sprintf("%g", v.AuxFloat)
	case OpConstString:
		return fmt.Sprintf("%q", v.Aux)
	}
	return formatValue(v)
}

// formatTerminator formats a block terminator.
func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) > 0 {
			return fmt.Sprintf("Plain -> %s", b.Succs[0])
		}
		return "Plain"
	case BlockIf:
		if len(b.Controls) > 0 && b.Controls[0] != nil && len(b.Succs) >= 2 {
			return fmt.Sprintf("If v%d -> %s %s", b.Controls[0].ID, b.Succs[0], b.Succs[1])
		}
		return "If (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return v%d", b.Controls[0].ID)
		}
		return "Return"
	case BlockExit:
		return "Exit"
	default:
		return "???"
	}
}

// Sprint returns the IR of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// formatAux formats an Aux value for display.
func formatAux(aux interface{}) string {
	switch a := aux.(type) {
	case *Func:
		return a.Name
	case *Global:
		return a.String()
	case string:
		return a
	default:
		return fmt.Sprintf("%v", aux)
	}
}

// Print writes the IR of a function to stdout.
func Print(f *Func) {
	Fprint(os.Stdout, f)
}
