package e2e

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/codegen"
	"github.com/you-not-fish/minicc/internal/irgen"
	"github.com/you-not-fish/minicc/internal/ssa/passes"
)

// TestE2E runs end-to-end tests for all .json files in testdata/.
// Each test:
//  1. Runs the full pipeline: decode → simplify → lower → passes → codegen
//  2. Writes the LLVM IR to a temp .ll file
//  3. Compiles it with clang
//  4. Runs the binary and captures stdout and the exit status
//  5. Compares both against the .golden file ("exit=N" line, then stdout)
//
// Every program is built at -O 0 and -O 1.
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .json test files found in testdata/")
	}

	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not found, skipping E2E tests")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".json")
		for _, level := range []int{0, 1} {
			t.Run(fmt.Sprintf("%s/O%d", name, level), func(t *testing.T) {
				runE2ETest(t, testFile, level)
			})
		}
	}
}

// runE2ETest runs a single end-to-end test.
func runE2ETest(t *testing.T, jsonFile string, level int) {
	t.Helper()

	golden, err := os.ReadFile(strings.TrimSuffix(jsonFile, ".json") + ".golden")
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	first, wantOut, _ := strings.Cut(string(golden), "\n")
	var wantExit int
	if _, err := fmt.Sscanf(first, "exit=%d", &wantExit); err != nil {
		t.Fatalf("golden file: bad exit line %q", first)
	}

	tmpDir := t.TempDir()
	llFile := filepath.Join(tmpDir, "output.ll")
	binFile := filepath.Join(tmpDir, "output")

	compileTo(t, jsonFile, llFile, level)

	cmd := exec.Command("clang", "-Wno-override-module", llFile, "-o", binFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		ll, _ := os.ReadFile(llFile)
		t.Fatalf("clang failed:\n%s\n%v\nIR:\n%s", out, err, ll)
	}

	out, err := exec.Command(binFile).Output()
	gotExit := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("binary execution failed: %v", err)
		}
		gotExit = exitErr.ExitCode()
	}

	if gotExit != wantExit {
		t.Errorf("exit status = %d, want %d", gotExit, wantExit)
	}
	if got := string(out); got != wantOut {
		t.Errorf("output mismatch:\ngot:  %q\nwant: %q", got, wantOut)
	}
}

// compileTo runs the compilation pipeline in-process and writes LLVM IR
// to llFile.
func compileTo(t *testing.T, jsonFile, llFile string, level int) {
	t.Helper()

	f, err := os.Open(jsonFile)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	file, err := ast.ReadJSON(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ast.Simplify(file.Decls)

	m, err := irgen.Generate(file, irgen.WithLibc())
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if err := passes.RunModule(m, passes.Pipeline(level), passes.Config{Verify: true}); err != nil {
		t.Fatalf("pass pipeline: %v", err)
	}

	out, err := os.Create(llFile)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer out.Close()

	if err := codegen.Generate(out, m); err != nil {
		t.Fatalf("codegen: %v", err)
	}
}
