package irgen

import (
	"go/constant"
	"go/token"

	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/ctypes"
	"github.com/you-not-fish/minicc/internal/ssa"
)

// ----------------------------------------------------------------------------
// Globals

func (g *Generator) globals(d *ast.InitExpr) error {
	for _, v := range d.Vars {
		if err := g.global(v); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) global(v *ast.Variable) error {
	if v.Storage == ast.Typedef {
		return g.typedef(v)
	}
	if g.mod.Global(v.Name) != nil || g.mod.Function(v.Name) != nil || g.types.InCurrentScope(v.Name) {
		return errorf(ErrDuplicateDecl, v.Name, v.Pos(), "%s redeclared", v.Name)
	}
	typ, err := g.objectType(v)
	if err != nil {
		return err
	}

	g.b.SetPos(v.Pos())
	gl := g.b.GetOrInsertGlobal(v.Name, typ)
	if v.Storage == ast.Static {
		gl.Linkage = ssa.Internal
	}
	if v.Init == nil {
		return nil
	}
	init, err := g.constInit(v.Init)
	if err != nil {
		return err
	}
	if !ctypes.SameRepr(init.Type, typ) {
		return errorf(ErrGlobalInitType, v.Name, v.Init.Pos(),
			"cannot initialize %s %s with a %s constant", typ, v.Name, init.Type)
	}
	gl.Init = init
	return nil
}

// constInit builds the constant initializer of a global. Only literals,
// optionally negated, qualify.
func (g *Generator) constInit(e ast.Expr) (*ssa.Value, error) {
	switch e := e.(type) {
	case *ast.ConstVar:
		return g.literal(e), nil
	case *ast.Unary:
		lit, ok := e.X.(*ast.ConstVar)
		if !ok || (e.Op != ast.Minus && e.Op != ast.Plus) || lit.Kind == ast.BoolLit || lit.Kind == ast.StringLit {
			break
		}
		if e.Op == ast.Minus {
			neg := *lit
			neg.Value = constant.UnaryOp(token.SUB, lit.Value, 0)
			return g.literal(&neg), nil
		}
		return g.literal(lit), nil
	}
	return nil, errorf(ErrGlobalInitType, "", e.Pos(), "global initializer is not a constant")
}

// ----------------------------------------------------------------------------
// Type aliases

func (g *Generator) typedef(v *ast.Variable) error {
	if g.types.InCurrentScope(v.Name) || g.vars.InCurrentScope(v.Name) {
		return errorf(ErrDuplicateDecl, v.Name, v.Pos(), "%s redeclared", v.Name)
	}
	if v.Init != nil {
		return errorf(ErrInvalidDecl, v.Name, v.Pos(), "typedef %s has an initializer", v.Name)
	}
	typ, err := g.resolveType(v.Type, v.Pos())
	if err != nil {
		return err
	}
	g.types.Insert(v.Name, typ)
	return nil
}

// objectType resolves the type of a variable that needs storage.
func (g *Generator) objectType(v *ast.Variable) (ctypes.Type, error) {
	typ, err := g.resolveType(v.Type, v.Pos())
	if err != nil {
		return nil, err
	}
	if _, ok := typ.(*ctypes.Basic); !ok || ctypes.IsVoid(typ) {
		return nil, errorf(ErrInvalidDecl, v.Name, v.Pos(), "variable %s has type %s", v.Name, typ)
	}
	return typ, nil
}

// ----------------------------------------------------------------------------
// Locals

func (g *Generator) local(v *ast.Variable) error {
	if v.Storage == ast.Typedef {
		return g.typedef(v)
	}
	if v.Storage == ast.Static || v.Storage == ast.Extern {
		return errorf(ErrUnsupported, v.Name, v.Pos(), "%s local %s", v.Storage, v.Name)
	}
	if g.vars.InCurrentScope(v.Name) || g.types.InCurrentScope(v.Name) {
		return errorf(ErrDuplicateDecl, v.Name, v.Pos(), "%s redeclared in this block", v.Name)
	}
	typ, err := g.objectType(v)
	if err != nil {
		return err
	}

	// The initializer is lowered before the name is bound, so it sees
	// any outer variable of the same name.
	var init *ssa.Value
	if v.Init != nil {
		if init, err = g.value(v.Init); err != nil {
			return err
		}
	}
	g.b.SetPos(v.Pos())
	slot := g.b.Alloca(typ, v.Name)
	g.vars.Insert(v.Name, slot)
	if init != nil {
		_, err = g.store(slot, init, v.Init.Pos())
	}
	return err
}

// ----------------------------------------------------------------------------
// Functions

// proto declares the function p describes, or registers its signature
// as a type alias when p is a typedef. A function declared before must
// have the same signature.
func (g *Generator) proto(p *ast.FuncProto) (*ssa.Func, error) {
	sig, names, err := g.signature(p)
	if err != nil {
		return nil, err
	}
	if p.Storage == ast.Typedef {
		if g.types.InCurrentScope(p.Name) {
			return nil, errorf(ErrDuplicateDecl, p.Name, p.Pos(), "%s redeclared", p.Name)
		}
		g.types.Insert(p.Name, sig)
		return nil, nil
	}

	if f := g.mod.Function(p.Name); f != nil {
		if !ctypes.Identical(f.Sig, sig) {
			return nil, errorf(ErrSignature, p.Name, p.Pos(),
				"%s declared as %s, previously %s", p.Name, sig, f.Sig)
		}
		return f, nil
	}
	if g.mod.Global(p.Name) != nil {
		return nil, errorf(ErrDuplicateDecl, p.Name, p.Pos(), "%s redeclared as a function", p.Name)
	}

	linkage := ssa.External
	if p.Storage == ast.Static {
		linkage = ssa.Internal
	}
	g.b.SetPos(p.Pos())
	return g.b.DeclareFunction(p.Name, sig, names, linkage), nil
}

// signature builds the type of p and its parameter names. A lone void
// parameter means there are none.
func (g *Generator) signature(p *ast.FuncProto) (*ctypes.Func, []string, error) {
	result, err := g.resolveType(p.Result, p.Pos())
	if err != nil {
		return nil, nil, err
	}
	if _, ok := result.(*ctypes.Func); ok {
		return nil, nil, errorf(ErrInvalidDecl, p.Name, p.Pos(), "%s returns a function", p.Name)
	}

	params := p.Params
	if len(params) == 1 {
		if t, err := g.resolveType(params[0].Type, params[0].Pos()); err == nil && ctypes.IsVoid(t) {
			params = nil
		}
	}

	types := make([]ctypes.Type, 0, len(params))
	names := make([]string, 0, len(params))
	for _, v := range params {
		t, err := g.objectType(v)
		if err != nil {
			return nil, nil, err
		}
		types = append(types, t)
		names = append(names, v.Name)
	}
	return ctypes.NewFunc(types, result, false), names, nil
}

func (g *Generator) funcDef(d *ast.FuncDef) error {
	if d.Proto.Storage == ast.Typedef {
		return errorf(ErrTypedefDef, d.Name(), d.Pos(), "cannot define typedef %s", d.Name())
	}
	f, err := g.proto(d.Proto)
	if err != nil {
		return err
	}
	if !f.IsDecl() {
		return errorf(ErrRedefinition, f.Name, d.Pos(), "%s already defined", f.Name)
	}
	// A prototype may name its parameters differently; the definition's
	// names win.
	if _, names, err := g.signature(d.Proto); err == nil {
		f.ParamNames = names
	}

	g.fn = f
	g.b.SetPos(d.Pos())
	g.b.BeginBody(f)
	defer func() {
		g.fn = nil
		g.b.ClearInsertPoint()
	}()
	defer g.enterScope()()

	for i, name := range f.ParamNames {
		arg := g.b.Param(i)
		if name == "" {
			continue
		}
		if g.vars.InCurrentScope(name) {
			return errorf(ErrDuplicateDecl, name, d.Proto.Pos(), "duplicate parameter %s", name)
		}
		slot := g.b.Alloca(f.Sig.Param(i), name)
		g.b.Store(slot, arg)
		g.vars.Insert(name, slot)
	}

	if d.Body != nil {
		if _, err := g.lower(d.Body); err != nil {
			return err
		}
	}

	if !g.b.InsertBlock().Terminated() {
		res := f.Sig.Result()
		if ctypes.IsVoid(res) {
			g.b.Ret(nil)
		} else {
			g.b.Ret(g.zero(res))
		}
	}

	if err := g.b.VerifyFunction(f); err != nil {
		return errorf(ErrVerify, f.Name, d.Pos(), "%v", err)
	}
	return nil
}
