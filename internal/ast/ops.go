package ast

// Operator is a unary, binary or assignment operator.
type Operator int

const (
	Plus         Operator = iota // +
	PlusPlus                     // ++
	Minus                        // -
	MinusMinus                   // --
	Mul                          // *
	Div                          // /
	Mod                          // %
	Equal                        // ==
	Greater                      // >
	Less                         // <
	GreaterEqual                 // >=
	LessEqual                    // <=
	NotEqual                     // !=
	PlusAssign                   // +=
	MinusAssign                  // -=
	MulAssign                    // *=
	DivAssign                    // /=
	ModAssign                    // %=
	Assign                       // =
	OrOr                         // ||
	AndAnd                       // &&
	Not                          // !

	opCount // sentinel; must be last
)

var opNames = [opCount]string{
	Plus:         "+",
	PlusPlus:     "++",
	Minus:        "-",
	MinusMinus:   "--",
	Mul:          "*",
	Div:          "/",
	Mod:          "%",
	Equal:        "==",
	Greater:      ">",
	Less:         "<",
	GreaterEqual: ">=",
	LessEqual:    "<=",
	NotEqual:     "!=",
	PlusAssign:   "+=",
	MinusAssign:  "-=",
	MulAssign:    "*=",
	DivAssign:    "/=",
	ModAssign:    "%=",
	Assign:       "=",
	OrOr:         "||",
	AndAnd:       "&&",
	Not:          "!",
}

// String returns the C spelling of the operator.
func (op Operator) String() string {
	if op >= 0 && op < opCount {
		return opNames[op]
	}
	return "?"
}

// ParseOperator returns the operator spelled s.
func ParseOperator(s string) (Operator, bool) {
	for op, name := range opNames {
		if name == s {
			return Operator(op), true
		}
	}
	return 0, false
}

// IsArith reports whether op is one of + - * / %.
func (op Operator) IsArith() bool {
	switch op {
	case Plus, Minus, Mul, Div, Mod:
		return true
	}
	return false
}

// IsCompare reports whether op is a comparison.
func (op Operator) IsCompare() bool {
	switch op {
	case Equal, NotEqual, Greater, GreaterEqual, Less, LessEqual:
		return true
	}
	return false
}

// IsLogical reports whether op is || or &&.
func (op Operator) IsLogical() bool {
	return op == OrOr || op == AndAnd
}

// IsAssign reports whether op is = or a compound assignment.
func (op Operator) IsAssign() bool {
	switch op {
	case Assign, PlusAssign, MinusAssign, MulAssign, DivAssign, ModAssign:
		return true
	}
	return false
}

// Arith maps a compound assignment to its arithmetic operator.
// For any other operator it returns op unchanged.
func (op Operator) Arith() Operator {
	switch op {
	case PlusAssign:
		return Plus
	case MinusAssign:
		return Minus
	case MulAssign:
		return Mul
	case DivAssign:
		return Div
	case ModAssign:
		return Mod
	}
	return op
}

// StorageClass is a declaration's storage-class specifier.
type StorageClass int

const (
	NoStorage StorageClass = iota
	Auto
	Register
	Static
	Extern
	Typedef
)

var storageNames = [...]string{
	NoStorage: "",
	Auto:      "auto",
	Register:  "register",
	Static:    "static",
	Extern:    "extern",
	Typedef:   "typedef",
}

func (s StorageClass) String() string {
	if s >= 0 && int(s) < len(storageNames) {
		return storageNames[s]
	}
	return "?"
}

// ParseStorageClass returns the storage class spelled s.
// The empty string is NoStorage.
func ParseStorageClass(s string) (StorageClass, bool) {
	for sc, name := range storageNames {
		if name == s {
			return StorageClass(sc), true
		}
	}
	return 0, false
}

// LitKind is the kind of a literal constant.
type LitKind int

const (
	BoolLit LitKind = iota
	CharLit
	IntLit
	FloatLit
	DoubleLit
	StringLit
)

var litNames = [...]string{
	BoolLit:   "bool",
	CharLit:   "char",
	IntLit:    "int",
	FloatLit:  "float",
	DoubleLit: "double",
	StringLit: "string",
}

func (k LitKind) String() string {
	if k >= 0 && int(k) < len(litNames) {
		return litNames[k]
	}
	return "?"
}

// ParseLitKind returns the literal kind spelled s.
func ParseLitKind(s string) (LitKind, bool) {
	for k, name := range litNames {
		if name == s {
			return LitKind(k), true
		}
	}
	return 0, false
}

// Built-in type names understood by the type table.
const (
	TypeVoid   = "void"
	TypeChar   = "char"
	TypeShort  = "short"
	TypeInt    = "int"
	TypeLong   = "long"
	TypeFloat  = "float"
	TypeDouble = "double"
	TypeBool   = "bool"
	TypeString = "string"
)
