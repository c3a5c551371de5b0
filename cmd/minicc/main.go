// Package main implements the minicc driver: it reads a C translation
// unit as AST JSON, lowers it to the CFG IR and writes LLVM IR.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/minicc/internal/ast"
	"github.com/you-not-fish/minicc/internal/codegen"
	"github.com/you-not-fish/minicc/internal/irgen"
	"github.com/you-not-fish/minicc/internal/ssa"
	"github.com/you-not-fish/minicc/internal/ssa/passes"
)

// Compiler flags
var (
	output     = flag.String("o", "", "Output file for LLVM IR (default stdout)")
	optLevel   = flag.Int("O", 0, "Optimization level (0 = none, 1 = deadblocks+mem2reg)")
	emitAST    = flag.Bool("emit-ast", false, "Write an s-expression and a dot graph per declaration into -pic-dir")
	emitCFG    = flag.Bool("emit-cfg", false, "Write a dot graph per function into -pic-dir")
	picDir     = flag.String("pic-dir", "output", "Directory for -emit-ast and -emit-cfg files")
	debugSexpr = flag.Bool("debug-sexpr", false, "Print the simplified AST as s-expressions")
	emitSSA    = flag.Bool("emit-ssa", false, "Print the IR instead of LLVM")
	libc       = flag.Bool("libc", false, "Predeclare putchar, getchar, puts, abs and exit")
	version    = flag.Bool("version", false, "Print version")
	doctor     = flag.Bool("doctor", false, "Check toolchain")
	trace      = flag.Bool("trace", false, "Output timing trace")
	dumpFunc   = flag.String("dump-func", "", "Only dump specific function")
	ssaVerify  = flag.Bool("ssa-verify", false, "Verify IR before and after each pass")
	dumpBefore = flag.String("dump-before", "", "Dump IR before pass (name or \"*\")")
	dumpAfter  = flag.String("dump-after", "", "Dump IR after pass (name or \"*\")")
)

func init() {
	flag.BoolVar(emitAST, "A", false, "Shorthand for -emit-ast")
	flag.BoolVar(emitCFG, "C", false, "Shorthand for -emit-cfg")
}

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "minicc %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: minicc [options] <file.json | ->\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("minicc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *doctor {
		os.Exit(runDoctor())
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "minicc: no input file")
		fmt.Fprintln(os.Stderr, "usage: minicc [options] <file.json | ->")
		os.Exit(1)
	}
	os.Exit(runCompile(args[0]))
}

// runCompile runs the whole pipeline on filename and returns the exit
// code. Errors are reported on stderr as "minicc: <err>".
func runCompile(filename string) int {
	if err := compile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "minicc: %v\n", err)
		return 1
	}
	return 0
}

func compile(filename string) error {
	start := time.Now()
	file, err := readInput(filename)
	if err != nil {
		return err
	}
	traceStep("read", start)

	start = time.Now()
	ast.Simplify(file.Decls)
	traceStep("simplify", start)

	if *debugSexpr {
		for _, d := range file.Decls {
			if err := ast.Fprint(os.Stdout, d); err != nil {
				return err
			}
			fmt.Println()
		}
	}

	opts := []irgen.Option{irgen.WithModuleName(moduleName(filename, file))}
	if *libc {
		opts = append(opts, irgen.WithLibc())
	}

	if *emitAST || *emitCFG {
		if err := resetPicDir(*picDir); err != nil {
			return errors.Wrap(err, "pic-dir")
		}
	}

	// The AST dump only reads the tree, so it runs alongside lowering.
	var (
		eg  errgroup.Group
		mod *ssa.Module
	)
	if *emitAST {
		eg.Go(func() error { return dumpAST(file, *picDir) })
	}
	eg.Go(func() error {
		start := time.Now()
		m, err := irgen.Generate(file, opts...)
		if err != nil {
			return err
		}
		mod = m
		traceStep("lower", start)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	start = time.Now()
	cfg := passes.Config{
		DumpBefore: *dumpBefore,
		DumpAfter:  *dumpAfter,
		Verify:     *ssaVerify,
		DumpFunc:   *dumpFunc,
	}
	if err := passes.RunModule(mod, passes.Pipeline(*optLevel), cfg); err != nil {
		return errors.Wrap(err, "pass pipeline")
	}
	traceStep("passes", start)

	if *emitCFG {
		if err := dumpCFG(mod, *picDir); err != nil {
			return err
		}
	}

	if *emitSSA {
		ssa.FprintModule(os.Stdout, mod)
		return nil
	}

	start = time.Now()
	err = writeOutput(*output, func(w io.Writer) error { return codegen.Generate(w, mod) })
	traceStep("codegen", start)
	return err
}

// readInput decodes the AST JSON in filename, or stdin for "-".
func readInput(filename string) (*ast.File, error) {
	r := io.Reader(os.Stdin)
	if filename != "-" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	file, err := ast.ReadJSON(r)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return file, nil
}

// moduleName prefers the file's recorded name over the input path.
func moduleName(filename string, file *ast.File) string {
	if file.Name != "" {
		return file.Name
	}
	if filename == "-" {
		return irgen.DefaultModuleName
	}
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

// writeOutput runs emit against path, or stdout if path is empty.
func writeOutput(path string, emit func(io.Writer) error) error {
	if path == "" {
		return emit(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := emit(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// picNames names the dump files of each declaration: func:<name> for
// definitions and global_decl<n> for the rest, numbered among themselves.
func picNames(decls []ast.Expr) []string {
	names := make([]string, len(decls))
	n := 0
	for i, d := range decls {
		if fd, ok := d.(*ast.FuncDef); ok {
			names[i] = "func:" + fd.Name()
			continue
		}
		names[i] = "global_decl" + strconv.Itoa(n)
		n++
	}
	return names
}

// resetPicDir creates dir and empties it of earlier dumps.
func resetPicDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// dumpAST writes <name>.sexp and <name>.dot for every declaration.
// Declarations are written concurrently.
func dumpAST(file *ast.File, dir string) error {
	names := picNames(file.Decls)
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, d := range file.Decls {
		eg.Go(func() error {
			base := filepath.Join(dir, names[i])
			if err := writeOutput(base+".sexp", func(w io.Writer) error { return ast.Fprint(w, d) }); err != nil {
				return err
			}
			return writeOutput(base+".dot", func(w io.Writer) error { return ast.Fdot(w, names[i], d) })
		})
	}
	return errors.Wrap(eg.Wait(), "emit-ast")
}

// dumpCFG writes func:<name>.cfg.dot for every function with a body.
func dumpCFG(m *ssa.Module, dir string) error {
	for _, f := range m.Funcs {
		if f.IsDecl() {
			continue
		}
		path := filepath.Join(dir, "func:"+f.Name+".cfg.dot")
		if err := writeOutput(path, func(w io.Writer) error { return ssa.Fdot(w, f) }); err != nil {
			return errors.Wrap(err, "emit-cfg")
		}
	}
	return nil
}

// traceStep reports how long a phase took when -trace is set.
func traceStep(phase string, start time.Time) {
	if *trace {
		fmt.Fprintf(os.Stderr, "trace: %-8s %v\n", phase, time.Since(start))
	}
}

// runDoctor checks the toolchain and returns an exit code.
func runDoctor() int {
	fmt.Println("minicc Toolchain Doctor")
	fmt.Println("=======================")
	fmt.Println()

	fmt.Printf("Go:    %s\n", runtime.Version())

	clangVersion, clangOk := checkTool("clang", "--version")
	fmt.Printf("clang: %s", clangVersion)
	if clangOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" ✗ (not found)")
	}

	llcVersion, llcOk := checkTool("llc", "--version")
	fmt.Printf("llc:   %s", llcVersion)
	if llcOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" (optional, not found)")
	}

	fmt.Println()
	if clangOk {
		fmt.Println("All required tools available!")
		return 0
	}
	fmt.Println("clang is needed to build the emitted .ll files.")
	return 1
}

// checkTool runs a tool with the given arguments and returns the first
// non-empty line of its output.
func checkTool(name string, args ...string) (string, bool) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 60 {
			line = line[:57] + "..."
		}
		return line, true
	}
	return "", true
}
