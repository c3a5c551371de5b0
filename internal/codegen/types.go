package codegen

import (
	"github.com/you-not-fish/minicc/internal/ctypes"
	"github.com/you-not-fish/minicc/internal/target"
)

// llvmType maps a C type to its LLVM IR type string.
// Booleans are i1 both in registers and in memory.
func llvmType(t ctypes.Type) string {
	switch u := t.(type) {
	case *ctypes.Basic:
		return llvmBasicType(u)
	case *ctypes.Pointer, *ctypes.Func:
		return target.LLVMTypePtr
	}
	return target.LLVMTypeVoid
}

func llvmBasicType(b *ctypes.Basic) string {
	switch b.Kind() {
	case ctypes.Bool:
		return target.LLVMTypeBool
	case ctypes.Char:
		return target.LLVMTypeChar
	case ctypes.Short:
		return target.LLVMTypeShort
	case ctypes.Int:
		return target.LLVMTypeInt
	case ctypes.Long:
		return target.LLVMTypeLong
	case ctypes.Float, ctypes.Double:
		return target.LLVMTypeDouble
	case ctypes.String:
		return target.LLVMTypePtr
	}
	return target.LLVMTypeVoid
}

// llvmReturnType returns the LLVM return type of sig.
func llvmReturnType(sig *ctypes.Func) string {
	if sig.Result() == nil || ctypes.IsVoid(sig.Result()) {
		return target.LLVMTypeVoid
	}
	return llvmType(sig.Result())
}

// llvmFuncType returns the function type used at variadic call sites,
// e.g. "i32 (ptr, ...)".
func llvmFuncType(sig *ctypes.Func) string {
	s := llvmReturnType(sig) + " ("
	for i, p := range sig.Params() {
		if i > 0 {
			s += ", "
		}
		s += llvmType(p)
	}
	if sig.Variadic() {
		if sig.NumParams() > 0 {
			s += ", "
		}
		s += "..."
	}
	return s + ")"
}
