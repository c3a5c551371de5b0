package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Pos is a source position supplied by the parser.
// The zero value means the parser did not record one.
type Pos struct {
	line uint32 // 1-based
	col  uint32 // 1-based
}

// NewPos returns the position line:col.
func NewPos(line, col uint32) Pos {
	return Pos{line: line, col: col}
}

// ParsePos parses the "line:col" form produced by Pos.String.
// An empty string yields the zero Pos.
func ParsePos(s string) (Pos, error) {
	if s == "" || s == "-" {
		return Pos{}, nil
	}
	ls, cs, ok := strings.Cut(s, ":")
	if !ok {
		return Pos{}, fmt.Errorf("malformed position %q", s)
	}
	line, err := strconv.ParseUint(ls, 10, 32)
	if err != nil {
		return Pos{}, fmt.Errorf("malformed position %q: %v", s, err)
	}
	col, err := strconv.ParseUint(cs, 10, 32)
	if err != nil {
		return Pos{}, fmt.Errorf("malformed position %q: %v", s, err)
	}
	return Pos{line: uint32(line), col: uint32(col)}, nil
}

// String returns "line:col", or "-" for an unknown position.
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// IsValid reports whether the position is known.
func (p Pos) IsValid() bool { return p.line > 0 }

// Line returns the 1-based line number.
func (p Pos) Line() uint32 { return p.line }

// Col returns the 1-based column number.
func (p Pos) Col() uint32 { return p.col }
