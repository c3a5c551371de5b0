package ctypes

// Identical reports whether x and y are identical types.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}

	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *Pointer:
		if y, ok := y.(*Pointer); ok {
			return Identical(x.base, y.base)
		}
	case *Func:
		if y, ok := y.(*Func); ok {
			return identicalFuncs(x, y)
		}
	}
	return false
}

func identicalFuncs(x, y *Func) bool {
	if x.variadic != y.variadic || len(x.params) != len(y.params) {
		return false
	}
	for i := range x.params {
		if !Identical(x.params[i], y.params[i]) {
			return false
		}
	}
	return Identical(x.result, y.result)
}

// SameRepr reports whether values of x and y share one machine
// representation. float and double do; otherwise it is Identical.
func SameRepr(x, y Type) bool {
	if IsFloat(x) && IsFloat(y) {
		return true
	}
	return Identical(x, y)
}

func is(t Type, info BasicInfo) bool {
	b, ok := t.(*Basic)
	return ok && b.info&info != 0
}

// IsBoolean reports whether t is bool.
func IsBoolean(t Type) bool { return is(t, infoBoolean) }

// IsInteger reports whether t is char, short, int or long.
func IsInteger(t Type) bool { return is(t, infoInteger) }

// IsFloat reports whether t is float or double.
func IsFloat(t Type) bool { return is(t, infoFloat) }

// IsNumeric reports whether t is an integer or floating type.
func IsNumeric(t Type) bool { return is(t, infoNumeric) }

// IsString reports whether t is string.
func IsString(t Type) bool { return is(t, infoString) }

// IsIntegral reports whether values of t are integers in the IR,
// which includes bool.
func IsIntegral(t Type) bool { return is(t, infoInteger|infoBoolean) }

// IsVoid reports whether t is void.
func IsVoid(t Type) bool {
	b, ok := t.(*Basic)
	return ok && b.kind == Void
}
