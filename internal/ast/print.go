package ast

import (
	"bytes"
	"fmt"
	"go/constant"
	"io"
	"strconv"
)

// Fprint writes the s-expression form of e to w, e.g.
//
//	(func:main ret_type:int (compound (return 0)))
func Fprint(w io.Writer, e Expr) error {
	p := &printer{}
	p.sexp(e)
	_, err := w.Write(bytes.TrimPrefix(p.buf.Bytes(), []byte(" ")))
	return err
}

// Sprint returns the s-expression form of e.
func Sprint(e Expr) string {
	var buf bytes.Buffer
	Fprint(&buf, e)
	return buf.String()
}

type printer struct {
	buf bytes.Buffer
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(&p.buf, format, args...)
}

func (p *printer) sexp(e Expr) {
	switch n := e.(type) {
	case nil:
		// optional child absent
	case *ConstVar:
		p.printf(" %s", litString(n))
	case *NameRef:
		p.printf(" name_ref:%s", n.Name)
	case *Variable:
		p.printf(" (var:%s type:%s", n.Name, n.Type)
		if n.Storage != NoStorage {
			p.printf(" storage:%s", n.Storage)
		}
		p.sexp(n.Init)
		p.printf(")")
	case *InitExpr:
		p.printf(" (init_expr")
		for _, v := range n.Vars {
			p.sexp(v)
		}
		p.printf(")")
	case *Unary:
		p.printf(" (unary:%s", n.Op)
		p.sexp(n.X)
		p.printf(")")
	case *Binary:
		p.printf(" (binary:%s", n.Op)
		p.sexp(n.X)
		p.sexp(n.Y)
		p.printf(")")
	case *IfElse:
		p.printf(" (if-block")
		p.sexp(n.Cond)
		p.sexp(n.Then)
		p.sexp(n.Else)
		p.printf(")")
	case *WhileLoop:
		p.printf(" (while")
		p.sexp(n.Cond)
		p.sexp(n.Body)
		p.printf(")")
	case *ForLoop:
		p.printf(" (for")
		p.sexp(n.Init)
		p.sexp(n.Cond)
		p.sexp(n.Iter)
		p.sexp(n.Body)
		p.printf(")")
	case *Return:
		p.printf(" (return")
		p.sexp(n.X)
		p.printf(")")
	case *FuncCall:
		p.printf(" (call:%s", n.Name)
		for _, a := range n.Args {
			p.sexp(a)
		}
		p.printf(")")
	case *FuncProto:
		p.printf(" (proto:%s ret_type:%s", n.Name, n.Result)
		if n.Storage != NoStorage {
			p.printf(" storage:%s", n.Storage)
		}
		for _, v := range n.Params {
			p.sexp(v)
		}
		p.printf(")")
	case *FuncDef:
		p.printf(" (func:%s ret_type:%s", n.Proto.Name, n.Proto.Result)
		for _, v := range n.Proto.Params {
			p.sexp(v)
		}
		p.sexp(n.Body)
		p.printf(")")
	case *CompoundExpr:
		p.printf(" (compound")
		for _, s := range n.List {
			p.sexp(s)
		}
		p.printf(")")
	case *Break:
		p.printf(" [BREAK]")
	case *Continue:
		p.printf(" [CONTINUE]")
	case *Null:
		p.printf(" [NULL]")
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", e))
	}
}

// litString renders a literal the way the s-expression printer shows it.
func litString(c *ConstVar) string {
	switch c.Kind {
	case BoolLit:
		return strconv.FormatBool(constant.BoolVal(c.Value))
	case CharLit:
		ch, _ := constant.Int64Val(c.Value)
		switch ch {
		case '\n':
			return "<NewLine>"
		case '\t':
			return "<Tab>"
		}
		return string(rune(ch))
	case IntLit:
		return c.Value.ExactString()
	case FloatLit, DoubleLit:
		f, _ := constant.Float64Val(c.Value)
		return strconv.FormatFloat(f, 'g', -1, 64)
	case StringLit:
		return strconv.Quote(constant.StringVal(c.Value))
	}
	return c.Value.String()
}
