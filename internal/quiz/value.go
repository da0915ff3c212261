package quiz

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ValueKind tags a node of the parsed model output.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueObject
	ValueArray
)

// Value is a tagged JSON tree. Model output is decoded into Values first so
// that the normalizer can inspect fields of any shape before committing to
// typed questions.
type Value struct {
	Kind   ValueKind
	Str    string
	Num    json.Number
	Bool   bool
	Object map[string]Value
	Array  []Value
}

// UnmarshalJSON decodes any JSON document into the tagged tree.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Value{Kind: ValueNull}
		return nil
	}

	switch {
	case strings.HasPrefix(trimmed, "{"):
		var raw map[string]Value
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*v = Value{Kind: ValueObject, Object: raw}
	case strings.HasPrefix(trimmed, "["):
		var raw []Value
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*v = Value{Kind: ValueArray, Array: raw}
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{Kind: ValueString, Str: s}
	case trimmed == "true" || trimmed == "false":
		*v = Value{Kind: ValueBool, Bool: trimmed == "true"}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value{Kind: ValueNumber, Num: n}
	}
	return nil
}

// MarshalJSON encodes the tree back to JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueString:
		return json.Marshal(v.Str)
	case ValueNumber:
		return []byte(v.Num.String()), nil
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueObject:
		return json.Marshal(v.Object)
	case ValueArray:
		return json.Marshal(v.Array)
	}
	return []byte("null"), nil
}

// String builds a string node.
func String(s string) Value { return Value{Kind: ValueString, Str: s} }

// Strings builds an array of string nodes.
func Strings(ss []string) Value {
	arr := make([]Value, len(ss))
	for i, s := range ss {
		arr[i] = String(s)
	}
	return Value{Kind: ValueArray, Array: arr}
}

// Field returns the first of names present on an object node, matching
// exactly first and then case-insensitively.
func (v Value) Field(names ...string) (Value, bool) {
	if v.Kind != ValueObject {
		return Value{}, false
	}
	for _, n := range names {
		if f, ok := v.Object[n]; ok {
			return f, true
		}
	}
	for _, n := range names {
		for k, f := range v.Object {
			if strings.EqualFold(k, n) {
				return f, true
			}
		}
	}
	return Value{}, false
}

// Text renders a scalar as text. Booleans become "True"/"False", numbers
// keep their literal form, lists join their scalar items with "; ".
// Objects and null render empty.
func (v Value) Text() string {
	switch v.Kind {
	case ValueString:
		return strings.TrimSpace(v.Str)
	case ValueNumber:
		if f, err := v.Num.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return v.Num.String()
	case ValueBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case ValueArray:
		parts := make([]string, 0, len(v.Array))
		for _, item := range v.Array {
			if t := item.Text(); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// Texts renders an array node as the texts of its items, keeping empty
// ones so positions are preserved. An object node is read in key order,
// numeric keys numerically, which covers {"A": "...", "B": "..."} and
// {"1": "...", "2": "..."} option maps.
func (v Value) Texts() []string {
	var items []Value
	switch v.Kind {
	case ValueArray:
		items = v.Array
	case ValueObject:
		keys := slices.Collect(maps.Keys(v.Object))
		slices.SortFunc(keys, compareKeys)
		for _, k := range keys {
			items = append(items, v.Object[k])
		}
	default:
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Text()
	}
	return out
}

// TextList is Texts without the empty entries.
func (v Value) TextList() []string {
	texts := v.Texts()
	if texts == nil {
		return nil
	}
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// compareKeys orders integer keys numerically and before any other key.
func compareKeys(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na - nb
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// Int returns a number node as an int.
func (v Value) Int() (int, bool) {
	switch v.Kind {
	case ValueNumber:
		f, err := v.Num.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	case ValueString:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		return n, err == nil
	}
	return 0, false
}
