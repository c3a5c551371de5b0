package ast

// Simplify drops statements that follow a return, break or continue in
// the same block. It rewrites the function bodies of decls in place and
// is idempotent. Conditions and declarations are left alone.
func Simplify(decls []Expr) {
	for _, d := range decls {
		if fd, ok := d.(*FuncDef); ok && fd.Body != nil {
			simplify(fd.Body)
		}
	}
}

func simplify(e Expr) {
	switch n := e.(type) {
	case *CompoundExpr:
		for i, s := range n.List {
			if IsTerminator(s) {
				clear(n.List[i+1:])
				n.List = n.List[:i+1]
				return
			}
			simplify(s)
		}
	case *IfElse:
		simplify(n.Then)
		simplify(n.Else)
	case *WhileLoop:
		simplify(n.Body)
	case *ForLoop:
		simplify(n.Body)
	}
}
