package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/minicc/internal/ast"
)

// mainReturning is: int g = 1; int main(void) { int x = <expr>; return x; }
func mainReturning(x ast.Expr) *ast.File {
	return &ast.File{
		Name: "prog",
		Decls: []ast.Expr{
			&ast.InitExpr{Vars: []*ast.Variable{{Type: "int", Name: "g", Init: ast.NewInt(1)}}},
			&ast.FuncDef{
				Proto: &ast.FuncProto{Name: "main", Result: "int", Params: []*ast.Variable{{Type: "void"}}},
				Body: &ast.CompoundExpr{List: []ast.Expr{
					&ast.InitExpr{Vars: []*ast.Variable{{Type: "int", Name: "x", Init: x}}},
					&ast.Return{X: &ast.NameRef{Name: "x"}},
				}},
			},
		},
	}
}

func writeTempJSON(t *testing.T, f *ast.File) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "input.json")
	out, err := os.Create(filename)
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer out.Close()
	if err := ast.FprintJSON(out, f); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

// setFlag points a flag variable at v for the duration of the test.
func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	// Drain concurrently so large outputs cannot fill the pipe.
	outc := make(chan string)
	errc := make(chan string)
	go func() { b, _ := io.ReadAll(rOut); outc <- string(b) }()
	go func() { b, _ := io.ReadAll(rErr); errc <- string(b) }()

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	stdout, stderr = <-outc, <-errc
	_ = rOut.Close()
	_ = rErr.Close()
	return code, stdout, stderr
}

func TestCompileEmitsLLVM(t *testing.T) {
	filename := writeTempJSON(t, mainReturning(ast.NewInt(42)))
	code, out, errOut := captureOutput(t, func() int { return runCompile(filename) })

	if code != 0 {
		t.Fatalf("runCompile exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{"; ModuleID = 'prog'", "@g = global i32 1", "define i32 @main() {", "store i32 42"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCompileOutputFile(t *testing.T) {
	filename := writeTempJSON(t, mainReturning(ast.NewInt(7)))
	llPath := filepath.Join(t.TempDir(), "out.ll")
	setFlag(t, output, llPath)
	setFlag(t, optLevel, 1)

	code, out, errOut := captureOutput(t, func() int { return runCompile(filename) })
	if code != 0 {
		t.Fatalf("runCompile exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "" {
		t.Errorf("unexpected stdout with -o:\n%s", out)
	}
	ll, err := os.ReadFile(llPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ll), "ret i32 7") {
		t.Errorf("-O 1 did not fold the slot into the return:\n%s", ll)
	}
	if strings.Contains(string(ll), "alloca") {
		t.Errorf("alloca left at -O 1:\n%s", ll)
	}
}

func TestEmitSSA(t *testing.T) {
	filename := writeTempJSON(t, mainReturning(ast.NewInt(3)))
	setFlag(t, emitSSA, true)
	setFlag(t, ssaVerify, true)
	setFlag(t, optLevel, 1)

	code, out, errOut := captureOutput(t, func() int { return runCompile(filename) })
	if code != 0 {
		t.Fatalf("runCompile exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "module prog") || !strings.Contains(out, "func main() int:") {
		t.Errorf("IR dump missing module or function header:\n%s", out)
	}
	if strings.Contains(out, "Alloca") {
		t.Errorf("Alloca left after mem2reg:\n%s", out)
	}
}

func TestDumpAfterPass(t *testing.T) {
	filename := writeTempJSON(t, mainReturning(ast.NewInt(3)))
	setFlag(t, optLevel, 1)
	setFlag(t, dumpAfter, "mem2reg")
	setFlag(t, output, filepath.Join(t.TempDir(), "out.ll"))

	code, _, errOut := captureOutput(t, func() int { return runCompile(filename) })
	if code != 0 {
		t.Fatalf("runCompile exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(errOut, "--- after mem2reg (main) ---") {
		t.Errorf("stderr missing pass dump:\n%s", errOut)
	}
}

func TestEmitASTAndCFG(t *testing.T) {
	filename := writeTempJSON(t, mainReturning(ast.NewInt(5)))
	dir := filepath.Join(t.TempDir(), "pics")
	if err := os.MkdirAll(filepath.Join(dir, "old"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stale.dot"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	setFlag(t, picDir, dir)
	setFlag(t, emitAST, true)
	setFlag(t, emitCFG, true)
	setFlag(t, output, filepath.Join(t.TempDir(), "out.ll"))

	code, _, errOut := captureOutput(t, func() int { return runCompile(filename) })
	if code != 0 {
		t.Fatalf("runCompile exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, name := range []string{"global_decl0.sexp", "global_decl0.dot", "func:main.sexp", "func:main.dot", "func:main.cfg.dot"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	for _, name := range []string{"stale.dot", "old"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s survived the dump: %v", name, err)
		}
	}
	sexp, err := os.ReadFile(filepath.Join(dir, "func:main.sexp"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(sexp), "(func:main ret_type:int") {
		t.Errorf("func:main.sexp = %q", sexp)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "func:main.cfg.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("func:main.cfg.dot is not a digraph:\n%s", dot)
	}
}

func TestPicNames(t *testing.T) {
	global := &ast.InitExpr{Vars: []*ast.Variable{{Type: "int", Name: "g"}}}
	proto := &ast.FuncProto{Name: "f", Result: "int", Params: []*ast.Variable{{Type: "void"}}}
	def := &ast.FuncDef{Proto: proto, Body: &ast.CompoundExpr{}}
	got := picNames([]ast.Expr{global, proto, def, global})
	want := []string{"global_decl0", "global_decl1", "func:f", "global_decl2"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("picNames = %v, want %v", got, want)
	}
}

func TestDebugSexpr(t *testing.T) {
	filename := writeTempJSON(t, mainReturning(ast.NewInt(5)))
	setFlag(t, debugSexpr, true)
	setFlag(t, emitSSA, true)

	code, out, errOut := captureOutput(t, func() int { return runCompile(filename) })
	if code != 0 {
		t.Fatalf("runCompile exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "(func:main ret_type:int") {
		t.Errorf("stdout missing s-expression:\n%s", out)
	}
}

func TestCompileErrorExitCode(t *testing.T) {
	filename := writeTempJSON(t, mainReturning(&ast.NameRef{Name: "missing"}))

	code, out, errOut := captureOutput(t, func() int { return runCompile(filename) })
	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if out != "" {
		t.Errorf("unexpected stdout on error:\n%s", out)
	}
	if !strings.HasPrefix(errOut, "minicc: in function main:") || !strings.Contains(errOut, "undeclared variable missing") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestMalformedInput(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(filename, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	code, _, errOut := captureOutput(t, func() int { return runCompile(filename) })
	if code != 1 || !strings.HasPrefix(errOut, "minicc: "+filename) {
		t.Errorf("exit=%d stderr=%q", code, errOut)
	}
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		filename, recorded, want string
	}{
		{"dir/prog.json", "", "prog"},
		{"dir/prog.json", "main.c", "main.c"},
		{"-", "", "minicc"},
	}
	for _, tt := range tests {
		if got := moduleName(tt.filename, &ast.File{Name: tt.recorded}); got != tt.want {
			t.Errorf("moduleName(%q, %q) = %q, want %q", tt.filename, tt.recorded, got, tt.want)
		}
	}
}
