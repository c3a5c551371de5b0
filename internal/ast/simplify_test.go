package ast

import "testing"

func stmts(list ...Expr) *CompoundExpr { return &CompoundExpr{List: list} }

func funcWith(body *CompoundExpr) *FuncDef {
	return &FuncDef{Proto: &FuncProto{Name: "f", Result: TypeInt}, Body: body}
}

func call(name string) *FuncCall { return &FuncCall{Name: name} }

func TestSimplifyTruncates(t *testing.T) {
	tests := []struct {
		name string
		body *CompoundExpr
		want string
	}{
		{
			"after return",
			stmts(call("a"), &Return{X: NewInt(0)}, call("b"), call("c")),
			"(compound (call:a) (return 0))",
		},
		{
			"first terminator wins",
			stmts(&Return{}, &Return{X: NewInt(1)}),
			"(compound (return))",
		},
		{
			"no terminator",
			stmts(call("a"), call("b")),
			"(compound (call:a) (call:b))",
		},
		{
			"nested block",
			stmts(stmts(call("a"), &Return{}, call("dead")), call("live")),
			"(compound (compound (call:a) (return)) (call:live))",
		},
		{
			"loop body",
			stmts(&WhileLoop{Cond: NewInt(1), Body: stmts(&Break{}, call("dead"))}),
			"(compound (while 1 (compound [BREAK])))",
		},
		{
			"for body",
			stmts(&ForLoop{Body: stmts(&Continue{}, call("dead"))}),
			"(compound (for (compound [CONTINUE])))",
		},
		{
			"both branches",
			stmts(&IfElse{
				Cond: NewInt(1),
				Then: stmts(&Return{}, call("t")),
				Else: stmts(&Break{}, call("e")),
			}),
			"(compound (if-block 1 (compound (return)) (compound [BREAK])))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Simplify([]Expr{funcWith(tt.body)})
			if got := Sprint(tt.body); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestSimplifyLength(t *testing.T) {
	for i := 0; i < 5; i++ {
		var list []Expr
		for j := 0; j < 6; j++ {
			if j == i {
				list = append(list, &Break{})
			} else {
				list = append(list, call("s"))
			}
		}
		body := stmts(list...)
		Simplify([]Expr{funcWith(body)})
		if len(body.List) != i+1 {
			t.Errorf("terminator at %d: %d statements left, want %d", i, len(body.List), i+1)
		}
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	body := stmts(
		&IfElse{Cond: NewInt(1), Then: stmts(call("x"), &Return{}, call("y"))},
		&WhileLoop{Cond: NewInt(0), Body: stmts(&Continue{}, &Break{})},
		&Return{X: NewInt(3)},
		call("z"),
	)
	decls := []Expr{funcWith(body)}
	Simplify(decls)
	once := Sprint(decls[0])
	Simplify(decls)
	if twice := Sprint(decls[0]); twice != once {
		t.Errorf("second run changed the tree:\nonce  %s\ntwice %s", once, twice)
	}
}

func TestSimplifySkipsDeclarations(t *testing.T) {
	// Conditions and globals are never touched.
	cond := stmts(&Return{}, call("kept"))
	decls := []Expr{
		&InitExpr{Vars: []*Variable{{Type: TypeInt, Name: "g"}}},
		&FuncProto{Name: "p", Result: TypeVoid},
		funcWith(stmts(&WhileLoop{Cond: cond, Body: &Null{}})),
	}
	Simplify(decls)
	if len(cond.List) != 2 {
		t.Errorf("condition was simplified: %s", Sprint(cond))
	}
}
