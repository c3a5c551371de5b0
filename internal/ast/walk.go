package ast

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(e Expr) bool

// Walk traverses a tree in depth-first order, children left to right.
func Walk(e Expr, v Visitor) {
	if e == nil || !v(e) {
		return
	}
	for _, c := range children(e) {
		Walk(c, v)
	}
}

// Inspect traverses every declaration of f in order.
func Inspect(f *File, fn func(Expr) bool) {
	for _, d := range f.Decls {
		Walk(d, Visitor(fn))
	}
}

// children returns the non-nil direct children of e.
func children(e Expr) []Expr {
	var out []Expr
	add := func(c Expr) {
		if c != nil {
			out = append(out, c)
		}
	}

	switch n := e.(type) {
	case *Variable:
		add(n.Init)
	case *InitExpr:
		for _, v := range n.Vars {
			add(v)
		}
	case *Unary:
		add(n.X)
	case *Binary:
		add(n.X)
		add(n.Y)
	case *IfElse:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *WhileLoop:
		add(n.Cond)
		add(n.Body)
	case *ForLoop:
		add(n.Init)
		add(n.Cond)
		add(n.Iter)
		add(n.Body)
	case *Return:
		add(n.X)
	case *FuncCall:
		for _, a := range n.Args {
			add(a)
		}
	case *FuncProto:
		for _, p := range n.Params {
			add(p)
		}
	case *FuncDef:
		if n.Proto != nil {
			add(n.Proto)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *CompoundExpr:
		for _, s := range n.List {
			add(s)
		}

	// Leaf nodes: ConstVar, NameRef, Break, Continue, Null
	}
	return out
}
