package ctypes

import (
	"testing"

	"github.com/you-not-fish/minicc/internal/target"
)

func TestSizeof(t *testing.T) {
	sizes := DefaultSizes

	tests := []struct {
		typ  Type
		want int64
	}{
		{Typ[Bool], target.SizeBool},
		{Typ[Char], target.SizeChar},
		{Typ[Short], target.SizeShort},
		{Typ[Int], target.SizeInt},
		{Typ[Long], target.SizeLong},
		{Typ[Float], target.SizeDouble},
		{Typ[Double], target.SizeDouble},
		{Typ[Void], 0},
		{NewPointer(Typ[Int]), target.SizePtr},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := sizes.Sizeof(tt.typ); got != tt.want {
				t.Errorf("Sizeof(%s) = %d, want %d", tt.typ, got, tt.want)
			}
			if sz := sizes.Sizeof(tt.typ); sz > 0 && sizes.Alignof(tt.typ) > sz {
				t.Errorf("Alignof(%s) exceeds its size", tt.typ)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		typ                                    *Basic
		boolean, integer, float, integral, num bool
	}{
		{Typ[Bool], true, false, false, true, false},
		{Typ[Char], false, true, false, true, true},
		{Typ[Int], false, true, false, true, true},
		{Typ[Long], false, true, false, true, true},
		{Typ[Float], false, false, true, false, true},
		{Typ[Double], false, false, true, false, true},
		{Typ[Void], false, false, false, false, false},
		{Typ[String], false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			if IsBoolean(tt.typ) != tt.boolean {
				t.Errorf("IsBoolean = %v", !tt.boolean)
			}
			if IsInteger(tt.typ) != tt.integer {
				t.Errorf("IsInteger = %v", !tt.integer)
			}
			if IsFloat(tt.typ) != tt.float {
				t.Errorf("IsFloat = %v", !tt.float)
			}
			if IsIntegral(tt.typ) != tt.integral {
				t.Errorf("IsIntegral = %v", !tt.integral)
			}
			if IsNumeric(tt.typ) != tt.num {
				t.Errorf("IsNumeric = %v", !tt.num)
			}
		})
	}

	if !IsVoid(Typ[Void]) || IsVoid(Typ[Int]) {
		t.Error("IsVoid")
	}
	if IsFloat(NewPointer(Typ[Double])) {
		t.Error("pointer to double is not a float")
	}
	if !IsString(Typ[String]) || IsString(Typ[Char]) || IsString(NewPointer(Typ[Char])) {
		t.Error("IsString")
	}
	if Typ[Double].Info() != Typ[Float].Info() || Typ[Int].Info() == Typ[Bool].Info() {
		t.Error("basic info flags")
	}
}

func TestIdentical(t *testing.T) {
	f1 := NewFunc([]Type{Typ[Int], Typ[Double]}, Typ[Int], false)
	f2 := NewFunc([]Type{Typ[Int], Typ[Double]}, Typ[Int], false)
	f3 := NewFunc([]Type{Typ[Int]}, Typ[Int], false)

	if !Identical(f1, f2) {
		t.Error("equal signatures not identical")
	}
	if Identical(f1, f3) {
		t.Error("different arity identical")
	}
	if Identical(Typ[Float], Typ[Double]) {
		t.Error("float and double identical")
	}
	if !SameRepr(Typ[Float], Typ[Double]) {
		t.Error("float and double do not share a representation")
	}
	if SameRepr(Typ[Int], Typ[Long]) {
		t.Error("int and long share a representation")
	}
	if !Identical(NewPointer(Typ[Char]), NewPointer(Typ[Char])) {
		t.Error("char* not identical to char*")
	}
}

func TestFuncString(t *testing.T) {
	tests := []struct {
		f    *Func
		want string
	}{
		{NewFunc(nil, nil, false), "void()"},
		{NewFunc([]Type{Typ[Int], Typ[Char]}, Typ[Long], false), "long(int, char)"},
		{NewFunc([]Type{Typ[String]}, Typ[Int], true), "int(string, ...)"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewTable(t *testing.T) {
	tbl := NewTable()
	for _, name := range []string{"void", "char", "int", "float", "double", "short", "long", "bool", "string"} {
		typ, ok := tbl.Lookup(name)
		if !ok {
			t.Errorf("%s not predeclared", name)
			continue
		}
		if typ.String() != name {
			t.Errorf("Lookup(%s) = %s", name, typ)
		}
	}

	// An alias in an inner scope disappears with it; the seed stays.
	tbl.Push()
	tbl.Insert("myint", Typ[Int])
	tbl.Pop()
	if _, ok := tbl.Lookup("myint"); ok {
		t.Error("alias survived its scope")
	}
	if _, ok := tbl.Lookup("int"); !ok || tbl.Depth() != 1 {
		t.Error("seed scope lost")
	}
}
