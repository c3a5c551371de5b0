package ctypes

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // invalid type

	Void
	Bool
	Char
	Short
	Int
	Long
	Float
	Double
	String // char literal array, passed by address
)

// BasicInfo describes properties of a basic type.
type BasicInfo int

const (
	infoBoolean BasicInfo = 1 << iota
	infoInteger
	infoFloat
	infoString
	infoNumeric = infoInteger | infoFloat
)

// Basic represents a basic type.
type Basic struct {
	typ
	kind BasicKind
	info BasicInfo
	bits int
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Bits returns the width of the type's value representation.
// It is 0 for void and string.
func (b *Basic) Bits() int {
	return b.bits
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the predeclared basic types, indexed by BasicKind.
// Typ[Invalid] is nil, representing an invalid type.
var Typ = []*Basic{
	Invalid: nil,
	Void:    {kind: Void, name: "void"},
	Bool:    {kind: Bool, info: infoBoolean, bits: 1, name: "bool"},
	Char:    {kind: Char, info: infoInteger, bits: 8, name: "char"},
	Short:   {kind: Short, info: infoInteger, bits: 16, name: "short"},
	Int:     {kind: Int, info: infoInteger, bits: 32, name: "int"},
	Long:    {kind: Long, info: infoInteger, bits: 64, name: "long"},
	Float:   {kind: Float, info: infoFloat, bits: 64, name: "float"},
	Double:  {kind: Double, info: infoFloat, bits: 64, name: "double"},
	String:  {kind: String, info: infoString, name: "string"},
}
