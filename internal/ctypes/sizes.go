package ctypes

import "github.com/you-not-fish/minicc/internal/target"

// Sizes provides size and alignment calculations for types.
// It uses the target constants so storage matches the emitted IR.
type Sizes struct{}

// DefaultSizes is the default Sizes implementation.
var DefaultSizes = &Sizes{}

// Sizeof returns the size of type T in bytes.
func (s *Sizes) Sizeof(T Type) int64 {
	switch t := T.(type) {
	case *Basic:
		return s.basicSize(t.Kind())
	case *Pointer, *Func:
		return target.SizePtr
	}
	return 0
}

// Alignof returns the alignment of type T in bytes.
func (s *Sizes) Alignof(T Type) int64 {
	switch t := T.(type) {
	case *Basic:
		return s.basicAlign(t.Kind())
	case *Pointer, *Func:
		return target.AlignPtr
	}
	return 1
}

func (s *Sizes) basicSize(kind BasicKind) int64 {
	switch kind {
	case Bool:
		return target.SizeBool
	case Char:
		return target.SizeChar
	case Short:
		return target.SizeShort
	case Int:
		return target.SizeInt
	case Long:
		return target.SizeLong
	case Float, Double:
		return target.SizeDouble
	case String:
		return target.SizePtr
	}
	// void has no size
	return 0
}

func (s *Sizes) basicAlign(kind BasicKind) int64 {
	switch kind {
	case Bool:
		return target.AlignBool
	case Char:
		return target.AlignChar
	case Short:
		return target.AlignShort
	case Int:
		return target.AlignInt
	case Long:
		return target.AlignLong
	case Float, Double:
		return target.AlignDouble
	case String:
		return target.AlignPtr
	}
	return 1
}
