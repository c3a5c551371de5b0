package irgen

import (
	"fmt"

	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/ctypes"
	"github.com/you-not-fish/minicc/internal/ssa"
)

// lower lowers e at the insertion point. The result is nil for
// statements and calls of void functions.
func (g *Generator) lower(e ast.Expr) (*ssa.Value, error) {
	if p := e.Pos(); p.IsValid() {
		g.b.SetPos(p)
	}
	switch e := e.(type) {
	case *ast.ConstVar:
		return g.literal(e), nil
	case *ast.NameRef:
		return g.load(e)
	case *ast.Unary:
		return g.unary(e)
	case *ast.Binary:
		return g.binary(e)
	case *ast.FuncCall:
		return g.call(e)

	case *ast.Variable:
		return nil, g.local(e)
	case *ast.InitExpr:
		for _, v := range e.Vars {
			if err := g.local(v); err != nil {
				return nil, err
			}
		}
		return nil, nil
	case *ast.FuncProto:
		_, err := g.proto(e)
		return nil, err
	case *ast.FuncDef:
		return nil, errorf(ErrInvalidDecl, e.Name(), e.Pos(), "nested definition of %s", e.Name())

	case *ast.CompoundExpr:
		return nil, g.compound(e)
	case *ast.IfElse:
		return nil, g.ifElse(e)
	case *ast.WhileLoop:
		return nil, g.whileLoop(e)
	case *ast.ForLoop:
		return nil, g.forLoop(e)
	case *ast.Return:
		return nil, g.ret(e)
	case *ast.Break:
		return nil, g.branch(e, true)
	case *ast.Continue:
		return nil, g.branch(e, false)
	case *ast.Null:
		return nil, nil
	}
	panic(fmt.Sprintf("irgen: unexpected node %T", e))
}

// value lowers e and requires it to produce a value.
func (g *Generator) value(e ast.Expr) (*ssa.Value, error) {
	v, err := g.lower(e)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errorf(ErrVoidValue, "", e.Pos(), "%s used as a value", ast.Sprint(e))
	}
	return v, nil
}

func (g *Generator) compound(e *ast.CompoundExpr) error {
	defer g.enterScope()()
	for _, s := range e.List {
		if _, err := g.lower(s); err != nil {
			return err
		}
	}
	return nil
}

// unreachable moves the insertion point to a fresh block with no
// predecessors. Statements after a terminator land there and are pruned
// once the function is finished.
func (g *Generator) unreachable() {
	g.b.SetInsertPoint(g.b.NewBlock("dead"))
}

func (g *Generator) ret(e *ast.Return) error {
	res := g.fn.Sig.Result()
	var v *ssa.Value
	switch {
	case e.X != nil && ctypes.IsVoid(res):
		return errorf(ErrSignature, g.fn.Name, e.Pos(), "void function %s returns a value", g.fn.Name)
	case e.X != nil:
		x, err := g.value(e.X)
		if err != nil {
			return err
		}
		if v, err = g.convert(x, res, e.X.Pos()); err != nil {
			return err
		}
	case !ctypes.IsVoid(res):
		v = g.zero(res)
	}
	g.b.Ret(v)
	g.unreachable()
	return nil
}

func (g *Generator) branch(e ast.Expr, isBreak bool) error {
	if len(g.loops) == 0 {
		if isBreak {
			return errorf(ErrBreakOutsideLoop, "", e.Pos(), "break is not in a loop")
		}
		return errorf(ErrContinueOutsideLoop, "", e.Pos(), "continue is not in a loop")
	}
	l := g.loops[len(g.loops)-1]
	if isBreak {
		g.b.Br(l.brk)
	} else {
		g.b.Br(l.cont)
	}
	g.unreachable()
	return nil
}

// cond lowers e and coerces it to bool.
func (g *Generator) cond(e ast.Expr) (*ssa.Value, error) {
	v, err := g.value(e)
	if err != nil {
		return nil, err
	}
	return g.boolCast(v, e.Pos())
}

func (g *Generator) ifElse(e *ast.IfElse) error {
	c, err := g.cond(e.Cond)
	if err != nil {
		return err
	}
	then := g.b.NewBlock("then")
	els := g.b.NewBlock("else")
	merge := g.b.NewBlock("merge")
	g.b.CondBr(c, then, els)

	g.b.SetInsertPoint(then)
	if _, err := g.lower(e.Then); err != nil {
		return err
	}
	g.b.Br(merge)

	g.b.SetInsertPoint(els)
	if e.Else != nil {
		if _, err := g.lower(e.Else); err != nil {
			return err
		}
	}
	g.b.Br(merge)

	g.b.SetInsertPoint(merge)
	return nil
}

// whileLoop lowers
//
//	    if cond goto body else end
//	body:
//	    ...
//	latch:
//	    if cond goto body else end
//	end:
func (g *Generator) whileLoop(e *ast.WhileLoop) error {
	c, err := g.cond(e.Cond)
	if err != nil {
		return err
	}
	body := g.b.NewBlock("loop")
	latch := g.b.NewBlock("latch")
	end := g.b.NewBlock("loopend")
	g.b.CondBr(c, body, end)

	return g.loopBody(e.Body, nil, e.Cond, body, latch, end)
}

// forLoop lowers like whileLoop, with Init run once before the first
// test and Iter at the top of the latch. Names declared in Init are
// scoped to the loop.
func (g *Generator) forLoop(e *ast.ForLoop) error {
	defer g.enterScope()()
	if e.Init != nil {
		if _, err := g.lower(e.Init); err != nil {
			return err
		}
	}
	body := g.b.NewBlock("loop")
	latch := g.b.NewBlock("latch")
	end := g.b.NewBlock("loopend")
	if err := g.test(e.Cond, body, end); err != nil {
		return err
	}
	return g.loopBody(e.Body, e.Iter, e.Cond, body, latch, end)
}

func (g *Generator) loopBody(stmt, iter, cond ast.Expr, body, latch, end *ssa.Block) error {
	pop := g.enterLoop(latch, end)
	g.b.SetInsertPoint(body)
	_, err := g.lower(stmt)
	pop()
	if err != nil {
		return err
	}
	g.b.Br(latch)

	g.b.SetInsertPoint(latch)
	if iter != nil {
		if _, err := g.lower(iter); err != nil {
			return err
		}
	}
	if err := g.test(cond, body, end); err != nil {
		return err
	}
	g.b.SetInsertPoint(end)
	return nil
}

// test branches to body if cond holds, else to end. A missing
// condition always holds.
func (g *Generator) test(cond ast.Expr, body, end *ssa.Block) error {
	if cond == nil {
		g.b.Br(body)
		return nil
	}
	c, err := g.cond(cond)
	if err != nil {
		return err
	}
	g.b.CondBr(c, body, end)
	return nil
}
