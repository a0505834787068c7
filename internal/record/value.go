// internal/record/value.go

// Package record holds the in-memory tool configuration and its
// payload codec. A Record is a string-keyed mapping of Values; the
// whole mapping is serialized as one payload unit with a deterministic
// msgpack encoding.
package record

import (
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the closed set of value types a record may hold.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
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
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a tagged variant over the record's closed value domain:
// nil, bool, int, float, string, list, map.
type Value struct {
	kind Kind
	b    bool
	n    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

func Nil() Value                { return Value{} }
func Bool(v bool) Value         { return Value{kind: KindBool, b: v} }
func Int(v int64) Value         { return Value{kind: KindInt, n: v} }
func Float(v float64) Value     { return Value{kind: KindFloat, f: v} }
func String(v string) Value     { return Value{kind: KindString, s: v} }
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

func Map(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind  { return v.kind }
func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) Bool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) Int() (int64, bool)     { return v.n, v.kind == KindInt }
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }
func (v Value) Text() (string, bool)   { return v.s, v.kind == KindString }

// Items returns the list elements. The slice aliases the value;
// callers that keep it must not assume isolation from later mutation.
func (v Value) Items() ([]Value, bool) { return v.list, v.kind == KindList }

// Fields returns the map fields. The map aliases the value.
func (v Value) Fields() (map[string]Value, bool) { return v.m, v.kind == KindMap }

// Equal reports structural equality. Values of different kinds are
// never equal, even when numerically equivalent.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.n == o.n
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, mv := range v.m {
			ov, ok := o.m[k]
			if !ok || !mv.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy. Scalars are copied by value; lists and
// maps are copied recursively so mutating the clone never affects the
// original.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, it := range v.list {
			items[i] = it.Clone()
		}
		return Value{kind: KindList, list: items}
	case KindMap:
		m := make(map[string]Value, len(v.m))
		for k, mv := range v.m {
			m[k] = mv.Clone()
		}
		return Value{kind: KindMap, m: m}
	default:
		return v
	}
}

// Interface converts the value to plain Go types (nil, bool, int64,
// float64, string, []any, map[string]any) for display and templating.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.n
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, it := range v.list {
			out[i] = it.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, mv := range v.m {
			out[k] = mv.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders a compact debug representation.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.n)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindList:
		parts := make([]string, len(v.list))
		for i, it := range v.list {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, v.m[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "unknown"
	}
}
