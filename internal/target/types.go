// Package target defines the constants of the code generation target:
// the LLVM triple and data layout, C type sizes, and LLVM type spellings.
package target

// Target configuration
const (
	// TargetTriple is the LLVM target triple for code generation.
	TargetTriple = "x86_64-pc-linux-gnu"

	// DataLayout is the LLVM data layout string matching the target.
	DataLayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-i128:128-f80:128-n8:16:32:64-S128"
)

// Basic type sizes in bytes
const (
	SizeBool   = 1
	SizeChar   = 1
	SizeShort  = 2
	SizeInt    = 4
	SizeLong   = 8
	SizeDouble = 8 // float shares the double representation
	SizePtr    = 8
)

// Basic type alignments in bytes
const (
	AlignBool   = 1
	AlignChar   = 1
	AlignShort  = 2
	AlignInt    = 4
	AlignLong   = 8
	AlignDouble = 8
	AlignPtr    = 8
)

// LLVM type names for code generation
const (
	LLVMTypeVoid   = "void"
	LLVMTypeBool   = "i1"
	LLVMTypeChar   = "i8"
	LLVMTypeShort  = "i16"
	LLVMTypeInt    = "i32"
	LLVMTypeLong   = "i64"
	LLVMTypeDouble = "double"
	LLVMTypePtr    = "ptr" // opaque pointer (LLVM 15+)
)
