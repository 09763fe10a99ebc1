package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates the variants of Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	// KindTree holds any other Go value. Backends receive it serialized.
	KindTree
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "tree"
	}
}

// Value is one device attribute value.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	tree any
}

func Null() Value               { return Value{} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Int(i int64) Value         { return Value{kind: KindInt, i: i} }
func Float(f float64) Value     { return Value{kind: KindFloat, f: f} }
func String(s string) Value     { return Value{kind: KindString, s: s} }
func List(items ...Value) Value { return Value{kind: KindList, list: items} }
func Tree(v any) Value          { return Value{kind: KindTree, tree: v} }

// ValueOf converts a plain Go value. Scalars and slices map onto their
// variants; maps, structs and anything else become a tree leaf.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i)
		}
		if f, err := x.Float64(); err == nil {
			return Float(f)
		}
		return String(x.String())
	case string:
		return String(x)
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = ValueOf(e)
		}
		return List(items...)
	case []string:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = String(e)
		}
		return List(items...)
	case []int:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = Int(int64(e))
		}
		return List(items...)
	case []float64:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = Float(e)
		}
		return List(items...)
	default:
		return Tree(v)
	}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == KindInt }
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }
func (v Value) AsList() ([]Value, bool)  { return v.list, v.kind == KindList }
func (v Value) AsTree() (any, bool)      { return v.tree, v.kind == KindTree }

// AsFloat accepts both float and int values.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// IsPrimitive reports whether the value is a bool, number or string.
func (v Value) IsPrimitive() bool {
	switch v.kind {
	case KindBool, KindInt, KindFloat, KindString:
		return true
	}
	return false
}

// IsNative reports whether a backend can take the value as-is: a primitive
// or a list made only of primitives.
func (v Value) IsNative() bool {
	if v.IsPrimitive() {
		return true
	}
	if v.kind != KindList {
		return false
	}
	for _, e := range v.list {
		if !e.IsPrimitive() {
			return false
		}
	}
	return true
}

// Interface returns the plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	case KindTree:
		return v.tree
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	}
	return fmt.Sprint(v.Interface())
}

// MarshalJSON encodes the plain Go value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
