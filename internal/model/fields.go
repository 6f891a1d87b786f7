package model

import (
	"fmt"
	"sort"
)

// FieldKind enumerates the value shapes a frontmatter or TOML field may
// carry. The set is closed on purpose: frontmatter values are YAML/TOML
// typed, not arbitrary objects.
type FieldKind int

const (
	KindString FieldKind = iota
	KindBool
	KindInt
	KindFloat
	KindStringList
	KindMap
)

// FieldValue is a tagged value for one frontmatter field. Exactly one of
// the payload accessors matches Kind.
type FieldValue struct {
	kind FieldKind
	str  string
	b    bool
	i    int64
	f    float64
	list []string
	m    Fields
}

// String constructs a string field value.
func String(s string) FieldValue { return FieldValue{kind: KindString, str: s} }

// Bool constructs a boolean field value.
func Bool(b bool) FieldValue { return FieldValue{kind: KindBool, b: b} }

// Int constructs an integer field value.
func Int(i int64) FieldValue { return FieldValue{kind: KindInt, i: i} }

// Float constructs a float field value.
func Float(f float64) FieldValue { return FieldValue{kind: KindFloat, f: f} }

// StringList constructs a string-sequence field value.
func StringList(list []string) FieldValue {
	return FieldValue{kind: KindStringList, list: list}
}

// Map constructs a nested-mapping field value.
func Map(m Fields) FieldValue { return FieldValue{kind: KindMap, m: m} }

// Kind reports the value's shape.
func (v FieldValue) Kind() FieldKind { return v.kind }

// AsString returns the string payload, with ok=false for other kinds.
func (v FieldValue) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBool returns the boolean payload, with ok=false for other kinds.
func (v FieldValue) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload, with ok=false for other kinds.
func (v FieldValue) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float payload, with ok=false for other kinds.
func (v FieldValue) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsStringList returns the string-sequence payload, with ok=false for
// other kinds.
func (v FieldValue) AsStringList() ([]string, bool) {
	return v.list, v.kind == KindStringList
}

// AsMap returns the nested-mapping payload, with ok=false for other kinds.
func (v FieldValue) AsMap() (Fields, bool) { return v.m, v.kind == KindMap }

// Interface converts the value back to the plain shape the YAML and TOML
// encoders expect.
func (v FieldValue) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindStringList:
		return v.list
	case KindMap:
		return v.m.Interface()
	default:
		return nil
	}
}

// FieldFromAny converts a decoded YAML/TOML value into a FieldValue.
// Sequences are accepted only when every element is a scalar convertible
// to a string; anything else is rejected so the caller can surface a
// parse error with the offending key.
func FieldFromAny(v any) (FieldValue, error) {
	switch val := v.(type) {
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case []any:
		list := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return FieldValue{}, fmt.Errorf("unsupported sequence element %T", item)
			}
			list = append(list, s)
		}
		return StringList(list), nil
	case []string:
		return StringList(val), nil
	case map[string]any:
		m, err := FieldsFromAny(val)
		if err != nil {
			return FieldValue{}, err
		}
		return Map(m), nil
	case nil:
		return String(""), nil
	default:
		return FieldValue{}, fmt.Errorf("unsupported field value type %T", v)
	}
}

// Fields is an open mapping from field name to typed value. It backs both
// native frontmatter documents and the IR's extras bag.
type Fields map[string]FieldValue

// FieldsFromAny converts a decoded YAML/TOML mapping into Fields.
func FieldsFromAny(m map[string]any) (Fields, error) {
	fields := make(Fields, len(m))
	for key, val := range m {
		fv, err := FieldFromAny(val)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		fields[key] = fv
	}
	return fields, nil
}

// Interface converts the mapping back to the plain shape the YAML and
// TOML encoders expect.
func (f Fields) Interface() map[string]any {
	out := make(map[string]any, len(f))
	for key, val := range f {
		out[key] = val.Interface()
	}
	return out
}

// Clone returns a shallow copy of the mapping.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for key, val := range f {
		out[key] = val
	}
	return out
}

// SortedKeys returns the field names in lexical order, for deterministic
// serialization and diagnostics.
func (f Fields) SortedKeys() []string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
