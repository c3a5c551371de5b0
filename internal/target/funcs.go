package target

// Program entry point
const (
	// EntryFunc is the name of the C entry point.
	EntryFunc = "main"
)

// FuncSignature describes a C library function in source-level type
// names, so it can be declared like any prototype.
type FuncSignature struct {
	Name   string
	Result string
	Params []string
}

// LibcFunctions returns the C library functions that can be predeclared
// for programs that have no prototypes of their own.
func LibcFunctions() []FuncSignature {
	return []FuncSignature{
		{Name: "putchar", Result: "int", Params: []string{"int"}},
		{Name: "getchar", Result: "int"},
		{Name: "puts", Result: "int", Params: []string{"string"}},
		{Name: "abs", Result: "int", Params: []string{"int"}},
		{Name: "exit", Result: "void", Params: []string{"int"}},
	}
}
