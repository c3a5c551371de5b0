// Package irgen lowers a simplified C AST into an ssa.Module.
//
// Lowering is a single recursive walk over each top-level declaration.
// Locals live in stack slots (allocas) tracked in a scoped symbol table;
// globals are looked up in the module being built. The first source
// error aborts the whole compilation unit.
package irgen

import (
	"github.com/pkg/errors"

	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/ctypes"
	"github.com/you-not-fish/minicc/internal/scope"
	"github.com/you-not-fish/minicc/internal/ssa"
	"github.com/you-not-fish/minicc/internal/target"
)

// DefaultModuleName names modules built without WithModuleName.
const DefaultModuleName = "minicc"

// Option configures a Generator.
type Option func(*Generator)

// WithModuleName sets the name of the generated module.
func WithModuleName(name string) Option {
	return func(g *Generator) { g.name = name }
}

// WithLibc predeclares the C library functions listed by
// target.LibcFunctions, so programs may call them without prototypes.
func WithLibc() Option {
	return func(g *Generator) { g.libc = true }
}

// Generator holds the state of one lowering run: the module under
// construction, the symbol and type tables, and the stack of
// enclosing loops.
type Generator struct {
	name string
	libc bool

	mod   *ssa.Module
	b     *ssa.Builder
	vars  *scope.Stack[*ssa.Value] // name -> stack slot
	types *ctypes.Table
	loops []loop

	fn *ssa.Func // function being defined, nil at top level
}

// loop holds the branch targets of one enclosing loop.
type loop struct {
	cont, brk *ssa.Block
}

// New returns a Generator with an empty module.
func New(opts ...Option) *Generator {
	g := &Generator{name: DefaultModuleName}
	for _, opt := range opts {
		opt(g)
	}
	g.mod = ssa.NewModule(g.name)
	g.b = ssa.NewBuilder(g.mod)
	g.vars = scope.New[*ssa.Value]()
	g.types = ctypes.NewTable()
	if g.libc {
		g.declareLibc()
	}
	return g
}

// Module returns the module built so far.
func (g *Generator) Module() *ssa.Module { return g.mod }

// Generate lowers every declaration of file, in order, into a new module.
func Generate(file *ast.File, opts ...Option) (*ssa.Module, error) {
	if file.Name != "" {
		opts = append([]Option{WithModuleName(file.Name)}, opts...)
	}
	g := New(opts...)
	for _, d := range file.Decls {
		if err := g.Lower(d); err != nil {
			return nil, err
		}
	}
	return g.Module(), nil
}

// Lower lowers one top-level declaration: an *ast.InitExpr of globals,
// an *ast.FuncProto or an *ast.FuncDef.
func (g *Generator) Lower(decl ast.Expr) error {
	var err error
	var what string
	switch d := decl.(type) {
	case *ast.InitExpr:
		what = "global declaration"
		err = g.globals(d)
	case *ast.FuncProto:
		what = "prototype of " + d.Name
		_, err = g.proto(d)
	case *ast.FuncDef:
		what = "function " + d.Name()
		err = g.funcDef(d)
	default:
		return errorf(ErrInvalidDecl, "", decl.Pos(), "%T is not a top-level declaration", decl)
	}
	if err != nil {
		return errors.Wrapf(err, "in %s", what)
	}
	return nil
}

func (g *Generator) declareLibc() {
	for _, sig := range target.LibcFunctions() {
		p := &ast.FuncProto{Name: sig.Name, Result: sig.Result}
		for _, typ := range sig.Params {
			p.Params = append(p.Params, &ast.Variable{Type: typ})
		}
		if _, err := g.proto(p); err != nil {
			panic("irgen: bad libc signature: " + err.Error())
		}
	}
}

// enterScope pushes a scope on both tables and returns the matching pop.
func (g *Generator) enterScope() func() {
	popVars := g.vars.Enter()
	popTypes := g.types.Enter()
	return func() {
		popTypes()
		popVars()
	}
}

// enterLoop makes cont and brk the targets of continue and break until
// the returned function is called.
func (g *Generator) enterLoop(cont, brk *ssa.Block) func() {
	g.loops = append(g.loops, loop{cont: cont, brk: brk})
	n := len(g.loops)
	return func() {
		if len(g.loops) != n {
			panic("irgen: unbalanced loop stack")
		}
		g.loops = g.loops[:n-1]
	}
}

// resolveType looks a type name up in the type table.
func (g *Generator) resolveType(name string, pos ast.Pos) (ctypes.Type, error) {
	t, ok := g.types.Lookup(name)
	if !ok {
		return nil, errorf(ErrUnknownType, name, pos, "unknown type %s", name)
	}
	return t, nil
}
