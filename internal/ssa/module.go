package ssa

import (
	"fmt"

	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/ctypes"
)

// Module is a compilation unit: globals and functions in declaration order.
type Module struct {
	Name    string
	Globals []*Global
	Funcs   []*Func

	globals map[string]*Global
	funcs   map[string]*Func
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:    name,
		globals: make(map[string]*Global),
		funcs:   make(map[string]*Func),
	}
}

// Function returns the function named name, or nil.
func (m *Module) Function(name string) *Func { return m.funcs[name] }

// Global returns the global named name, or nil.
func (m *Module) Global(name string) *Global { return m.globals[name] }

// AddFunc adds f to the module. It panics if the name is taken.
func (m *Module) AddFunc(f *Func) {
	if m.funcs[f.Name] != nil {
		panic(fmt.Sprintf("ssa: duplicate function %s", f.Name))
	}
	m.funcs[f.Name] = f
	m.Funcs = append(m.Funcs, f)
}

// AddGlobal adds g to the module. It panics if the name is taken.
func (m *Module) AddGlobal(g *Global) {
	if m.globals[g.Name] != nil {
		panic(fmt.Sprintf("ssa: duplicate global %s", g.Name))
	}
	m.globals[g.Name] = g
	m.Globals = append(m.Globals, g)
}

// Global is module-level storage for a value of type Type.
type Global struct {
	Name    string
	Type    ctypes.Type
	Init    *Value // constant, or nil for zero initialization
	Linkage Linkage
	Pos     ast.Pos
}

// String returns the global's IR name, e.g. "@x".
func (g *Global) String() string { return "@" + g.Name }

// NewConst returns a constant value outside any function, for use as a
// global initializer.
func NewConst(op Op, typ ctypes.Type) *Value {
	if !op.IsConst() {
		panic(fmt.Sprintf("ssa: NewConst with %s", op))
	}
	return &Value{ID: -1, Op: op, Type: typ}
}
