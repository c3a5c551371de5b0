package ast

import (
	"encoding/json"
	"go/constant"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// FprintJSON writes the JSON form of f to w. This is the format the
// parser hands over and ReadJSON accepts.
func FprintJSON(w io.Writer, f *File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"name":  f.Name,
		"decls": mapSlice(f.Decls, toJSON),
	})
}

func toJSON(e Expr) interface{} {
	if e == nil {
		return nil
	}

	m := map[string]interface{}{
		"node": nodeName(e),
		"pos":  e.Pos().String(),
	}
	switch n := e.(type) {
	case *ConstVar:
		m["kind"] = n.Kind.String()
		m["value"] = litValue(n)

	case *NameRef:
		m["name"] = n.Name

	case *Variable:
		m["type"] = n.Type
		m["name"] = n.Name
		if n.Init != nil {
			m["init"] = toJSON(n.Init)
		}
		if n.Storage != NoStorage {
			m["storage"] = n.Storage.String()
		}

	case *InitExpr:
		m["vars"] = mapSlice(n.Vars, func(v *Variable) interface{} { return toJSON(v) })

	case *Unary:
		m["op"] = n.Op.String()
		m["x"] = toJSON(n.X)

	case *Binary:
		m["op"] = n.Op.String()
		m["x"] = toJSON(n.X)
		m["y"] = toJSON(n.Y)

	case *IfElse:
		m["cond"] = toJSON(n.Cond)
		m["then"] = toJSON(n.Then)
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}

	case *WhileLoop:
		m["cond"] = toJSON(n.Cond)
		m["body"] = toJSON(n.Body)

	case *ForLoop:
		if n.Init != nil {
			m["init"] = toJSON(n.Init)
		}
		if n.Cond != nil {
			m["cond"] = toJSON(n.Cond)
		}
		if n.Iter != nil {
			m["iter"] = toJSON(n.Iter)
		}
		m["body"] = toJSON(n.Body)

	case *Return:
		if n.X != nil {
			m["x"] = toJSON(n.X)
		}

	case *FuncCall:
		m["name"] = n.Name
		m["args"] = mapSlice(n.Args, toJSON)

	case *FuncProto:
		m["name"] = n.Name
		m["result"] = n.Result
		m["params"] = mapSlice(n.Params, func(v *Variable) interface{} { return toJSON(v) })
		if n.Storage != NoStorage {
			m["storage"] = n.Storage.String()
		}

	case *FuncDef:
		m["proto"] = toJSON(n.Proto)
		m["body"] = toJSON(n.Body)

	case *CompoundExpr:
		m["list"] = mapSlice(n.List, toJSON)

	// Break, Continue, Null carry nothing beyond their position.
	}
	return m
}

func nodeName(e Expr) string {
	switch e.(type) {
	case *ConstVar:
		return "ConstVar"
	case *NameRef:
		return "NameRef"
	case *Variable:
		return "Variable"
	case *InitExpr:
		return "InitExpr"
	case *Unary:
		return "Unary"
	case *Binary:
		return "Binary"
	case *IfElse:
		return "IfElse"
	case *WhileLoop:
		return "WhileLoop"
	case *ForLoop:
		return "ForLoop"
	case *Break:
		return "Break"
	case *Continue:
		return "Continue"
	case *Return:
		return "Return"
	case *FuncCall:
		return "FuncCall"
	case *FuncProto:
		return "FuncProto"
	case *FuncDef:
		return "FuncDef"
	case *CompoundExpr:
		return "CompoundExpr"
	case *Null:
		return "Null"
	}
	return "Unknown"
}

// litValue renders a literal's value as a JSON string, except bools.
func litValue(c *ConstVar) interface{} {
	switch c.Kind {
	case BoolLit:
		return constant.BoolVal(c.Value)
	case CharLit:
		ch, _ := constant.Int64Val(c.Value)
		return string(rune(ch))
	case StringLit:
		return constant.StringVal(c.Value)
	case FloatLit, DoubleLit:
		f, _ := constant.Float64Val(c.Value)
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return c.Value.ExactString()
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}

// ----------------------------------------------------------------------------
// Decoding

// ReadJSON decodes a File written by FprintJSON.
func ReadJSON(r io.Reader) (*File, error) {
	var top struct {
		Name  string            `json:"name"`
		Decls []json.RawMessage `json:"decls"`
	}
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return nil, errors.Wrap(err, "ast: decoding file")
	}
	f := &File{Name: top.Name}
	for i, raw := range top.Decls {
		d, err := decodeExpr(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "ast: decl %d", i)
		}
		switch d.(type) {
		case *InitExpr, *FuncProto, *FuncDef:
		default:
			return nil, errors.Errorf("ast: decl %d: %s is not a declaration", i, nodeName(d))
		}
		f.Decls = append(f.Decls, d)
	}
	return f, nil
}

type object map[string]json.RawMessage

func (o object) has(key string) bool {
	raw, ok := o[key]
	return ok && string(raw) != "null"
}

func (o object) str(key string) (string, error) {
	var s string
	raw, ok := o[key]
	if !ok {
		return "", errors.Errorf("missing %q", key)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.Wrapf(err, "field %q", key)
	}
	return s, nil
}

func (o object) optStr(key string) (string, error) {
	if !o.has(key) {
		return "", nil
	}
	return o.str(key)
}

func (o object) expr(key string) (Expr, error) {
	if !o.has(key) {
		return nil, errors.Errorf("missing %q", key)
	}
	e, err := decodeExpr(o[key])
	return e, errors.Wrapf(err, "%s", key)
}

func (o object) optExpr(key string) (Expr, error) {
	if !o.has(key) {
		return nil, nil
	}
	return o.expr(key)
}

func (o object) list(key string) ([]Expr, error) {
	var raws []json.RawMessage
	if o.has(key) {
		if err := json.Unmarshal(o[key], &raws); err != nil {
			return nil, errors.Wrapf(err, "field %q", key)
		}
	}
	out := make([]Expr, 0, len(raws))
	for i, raw := range raws {
		e, err := decodeExpr(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", key, i)
		}
		out = append(out, e)
	}
	return out, nil
}

func (o object) vars(key string) ([]*Variable, error) {
	list, err := o.list(key)
	if err != nil {
		return nil, err
	}
	vars := make([]*Variable, len(list))
	for i, e := range list {
		v, ok := e.(*Variable)
		if !ok {
			return nil, errors.Errorf("%s[%d]: want Variable, got %s", key, i, nodeName(e))
		}
		vars[i] = v
	}
	return vars, nil
}

func (o object) op(key string) (Operator, error) {
	s, err := o.str(key)
	if err != nil {
		return 0, err
	}
	op, ok := ParseOperator(s)
	if !ok {
		return 0, errors.Errorf("unknown operator %q", s)
	}
	return op, nil
}

func (o object) storage() (StorageClass, error) {
	s, err := o.optStr("storage")
	if err != nil {
		return 0, err
	}
	sc, ok := ParseStorageClass(s)
	if !ok {
		return 0, errors.Errorf("unknown storage class %q", s)
	}
	return sc, nil
}

func decodeExpr(raw json.RawMessage) (Expr, error) {
	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, errors.Wrap(err, "node")
	}
	kind, err := o.str("node")
	if err != nil {
		return nil, err
	}
	ps, err := o.optStr("pos")
	if err != nil {
		return nil, err
	}
	pos, err := ParsePos(ps)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	e, err := decodeNode(kind, o)
	if err != nil {
		return nil, errors.Wrapf(err, "%s at %s", kind, pos)
	}
	e.(interface{ SetPos(Pos) }).SetPos(pos)
	return e, nil
}

func decodeNode(kind string, o object) (Expr, error) {
	var err error
	switch kind {
	case "ConstVar":
		return decodeConst(o)

	case "NameRef":
		n := new(NameRef)
		n.Name, err = o.str("name")
		return n, err

	case "Variable":
		n := new(Variable)
		if n.Type, err = o.str("type"); err != nil {
			return nil, err
		}
		if n.Name, err = o.str("name"); err != nil {
			return nil, err
		}
		if n.Init, err = o.optExpr("init"); err != nil {
			return nil, err
		}
		n.Storage, err = o.storage()
		return n, err

	case "InitExpr":
		n := new(InitExpr)
		n.Vars, err = o.vars("vars")
		return n, err

	case "Unary":
		n := new(Unary)
		if n.Op, err = o.op("op"); err != nil {
			return nil, err
		}
		n.X, err = o.expr("x")
		return n, err

	case "Binary":
		n := new(Binary)
		if n.Op, err = o.op("op"); err != nil {
			return nil, err
		}
		if n.X, err = o.expr("x"); err != nil {
			return nil, err
		}
		n.Y, err = o.expr("y")
		return n, err

	case "IfElse":
		n := new(IfElse)
		if n.Cond, err = o.expr("cond"); err != nil {
			return nil, err
		}
		if n.Then, err = o.expr("then"); err != nil {
			return nil, err
		}
		n.Else, err = o.optExpr("else")
		return n, err

	case "WhileLoop":
		n := new(WhileLoop)
		if n.Cond, err = o.expr("cond"); err != nil {
			return nil, err
		}
		n.Body, err = o.expr("body")
		return n, err

	case "ForLoop":
		n := new(ForLoop)
		if n.Init, err = o.optExpr("init"); err != nil {
			return nil, err
		}
		if n.Cond, err = o.optExpr("cond"); err != nil {
			return nil, err
		}
		if n.Iter, err = o.optExpr("iter"); err != nil {
			return nil, err
		}
		n.Body, err = o.expr("body")
		return n, err

	case "Break":
		return new(Break), nil
	case "Continue":
		return new(Continue), nil
	case "Null":
		return new(Null), nil

	case "Return":
		n := new(Return)
		n.X, err = o.optExpr("x")
		return n, err

	case "FuncCall":
		n := new(FuncCall)
		if n.Name, err = o.str("name"); err != nil {
			return nil, err
		}
		n.Args, err = o.list("args")
		return n, err

	case "FuncProto":
		n := new(FuncProto)
		if n.Name, err = o.str("name"); err != nil {
			return nil, err
		}
		if n.Result, err = o.str("result"); err != nil {
			return nil, err
		}
		if n.Params, err = o.vars("params"); err != nil {
			return nil, err
		}
		n.Storage, err = o.storage()
		return n, err

	case "FuncDef":
		n := new(FuncDef)
		proto, err := o.expr("proto")
		if err != nil {
			return nil, err
		}
		if n.Proto, _ = proto.(*FuncProto); n.Proto == nil {
			return nil, errors.Errorf("proto: want FuncProto, got %s", nodeName(proto))
		}
		body, err := o.expr("body")
		if err != nil {
			return nil, err
		}
		if n.Body, _ = body.(*CompoundExpr); n.Body == nil {
			return nil, errors.Errorf("body: want CompoundExpr, got %s", nodeName(body))
		}
		return n, nil

	case "CompoundExpr":
		n := new(CompoundExpr)
		n.List, err = o.list("list")
		return n, err
	}
	return nil, errors.Errorf("unknown node kind %q", kind)
}

func decodeConst(o object) (Expr, error) {
	ks, err := o.str("kind")
	if err != nil {
		return nil, err
	}
	kind, ok := ParseLitKind(ks)
	if !ok {
		return nil, errors.Errorf("unknown literal kind %q", ks)
	}
	if kind == BoolLit {
		var b bool
		if err := json.Unmarshal(o["value"], &b); err != nil {
			return nil, errors.Wrap(err, "bool value")
		}
		return NewBool(b), nil
	}
	s, err := o.str("value")
	if err != nil {
		return nil, err
	}
	switch kind {
	case CharLit:
		if len(s) != 1 {
			return nil, errors.Errorf("char literal %q is not one byte", s)
		}
		return NewChar(s[0]), nil
	case IntLit:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "int value")
		}
		return NewInt(i), nil
	case FloatLit, DoubleLit:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrap(err, "float value")
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, errors.Errorf("float literal %q is not finite", s)
		}
		if kind == FloatLit {
			return NewFloat(f), nil
		}
		return NewDouble(f), nil
	}
	return NewString(s), nil
}
