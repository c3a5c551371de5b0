package passes

import (
	"fmt"
	"io"
	"os"

	"github.com/you-not-fish/minicc/internal/ssa"
)

// Pass describes a single IR pass over one function.
type Pass struct {
	Name string
	Fn   func(f *ssa.Func)
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump IR before this pass ("*" for all)
	DumpAfter  string    // dump IR after this pass ("*" for all)
	Verify     bool      // verify IR before/after each pass
	DumpFunc   string    // restrict dumps to this function name
	Out        io.Writer // dump destination; nil means os.Stderr
}

// Pipeline returns the passes run at optimization level level.
// Level 0 runs nothing.
func Pipeline(level int) []Pass {
	if level <= 0 {
		return nil
	}
	return []Pass{
		{Name: "deadblocks", Fn: DeadBlocks},
		{Name: "mem2reg", Fn: Mem2Reg},
	}
}

// Run executes the given passes on f in order.
func Run(f *ssa.Func, passes []Pass, cfg Config) error {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(out, "--- before %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(out, f)
			fmt.Fprintln(out)
		}

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		p.Fn(f)

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(out, "--- after %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(out, f)
			fmt.Fprintln(out)
		}
	}
	return nil
}

// RunModule runs passes over every function of m that has a body.
func RunModule(m *ssa.Module, passes []Pass, cfg Config) error {
	for _, f := range m.Funcs {
		if f.IsDecl() {
			continue
		}
		if err := Run(f, passes, cfg); err != nil {
			return fmt.Errorf("func %s: %w", f.Name, err)
		}
	}
	return nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
