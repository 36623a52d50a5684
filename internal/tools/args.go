package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrMissingArg = errors.New("missing argument")
	ErrWrongType  = errors.New("wrong argument type")
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindBool:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a loosely typed tool argument.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	flag bool
	obj  Args
	arr  []Value
}

func (v Value) Kind() Kind { return v.kind }

// ValueOf converts a decoded JSON value. Integral numbers become KindInt.
func ValueOf(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Value{kind: KindNull}
	case string:
		return Value{kind: KindString, str: x}
	case bool:
		return Value{kind: KindBool, flag: x}
	case int:
		return Value{kind: KindInt, num: int64(x)}
	case int64:
		return Value{kind: KindInt, num: x}
	case float64:
		if x == math.Trunc(x) && math.Abs(x) <= 1<<53 {
			return Value{kind: KindInt, num: int64(x)}
		}
		return Value{kind: KindFloat, flt: x}
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return Value{kind: KindInt, num: n}
		}
		f, _ := x.Float64()
		return ValueOf(f)
	case map[string]any:
		return Value{kind: KindObject, obj: ArgsFromMap(x)}
	case []any:
		arr := make([]Value, 0, len(x))
		for _, item := range x {
			arr = append(arr, ValueOf(item))
		}
		return Value{kind: KindArray, arr: arr}
	default:
		return Value{kind: KindNull}
	}
}

// Any converts the value back to plain Go data for logging and encoding.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.flag
	case KindObject:
		return v.obj.Map()
	case KindArray:
		out := make([]any, 0, len(v.arr))
		for _, item := range v.arr {
			out = append(out, item.Any())
		}
		return out
	default:
		return nil
	}
}

// Args is the argument bag of a single tool call.
type Args map[string]Value

// ArgsFromMap converts decoded JSON arguments.
func ArgsFromMap(m map[string]any) Args {
	args := make(Args, len(m))
	for k, v := range m {
		args[k] = ValueOf(v)
	}
	return args
}

// ParseArgs decodes a JSON object. Empty input yields an empty bag.
func ParseArgs(raw json.RawMessage) (Args, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Args{}, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var m map[string]any
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return ArgsFromMap(m), nil
}

// Map returns the bag as plain Go data.
func (a Args) Map() map[string]any {
	out := make(map[string]any, len(a))
	for k, v := range a {
		out[k] = v.Any()
	}
	return out
}

func (a Args) lookup(key string) (Value, bool) {
	v, ok := a[key]
	if !ok || v.kind == KindNull {
		return Value{}, false
	}
	return v, true
}

func wrongType(key string, want Kind, got Value) error {
	return fmt.Errorf("%w: '%s' must be %s, got %s", ErrWrongType, key, want, got.kind)
}

// String returns a required string argument.
func (a Args) String(key string) (string, error) {
	v, ok := a.lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: '%s'", ErrMissingArg, key)
	}
	if v.kind != KindString {
		return "", wrongType(key, KindString, v)
	}
	return v.str, nil
}

// OptionalString returns nil when key is absent or null.
func (a Args) OptionalString(key string) (*string, error) {
	v, ok := a.lookup(key)
	if !ok {
		return nil, nil
	}
	if v.kind != KindString {
		return nil, wrongType(key, KindString, v)
	}
	s := v.str
	return &s, nil
}

// OptionalInt returns nil when key is absent or null.
func (a Args) OptionalInt(key string) (*int, error) {
	v, ok := a.lookup(key)
	if !ok {
		return nil, nil
	}
	if v.kind != KindInt {
		return nil, wrongType(key, KindInt, v)
	}
	n := int(v.num)
	return &n, nil
}
