// Package value implements spec component 3's generic tagged value: a
// small closed variant (null/bool/int/float/string/sequence/mapping)
// used as the composer's output representation and the struct-decode
// path's intermediate form. It is grounded on original_source's tagged
// scalar representation (a small inline buffer for short strings,
// falling back to a boxed allocation for longer ones) referenced in spec
// §9 Design Notes, adapted from a raw tagged-pointer trick (unsafe under
// a garbage collector) to a plain tagged struct with an inline byte
// array for strings of at most 7 bytes — the same short-string
// optimization, expressed safely in Go.
package value

import (
	"fmt"
	"strconv"
)

// Kind discriminates a Value's active representation.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "null"
	}
}

const shortStringCap = 7

// Pair is one ordered mapping entry; Key is almost always KindString but
// is not restricted to it (YAML permits arbitrary-kind mapping keys).
type Pair struct {
	Key   Value
	Value Value
}

// Value is a closed tagged variant over the kinds above. The zero Value
// is a null. Tag optionally carries the resolved YAML/JSON tag (e.g.
// "!!str", "!!timestamp") the value was produced from, for callers that
// care about schema provenance (spec §3 "Node" tag).
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64

	shortLen byte
	short    [shortStringCap]byte
	long     *string

	seq []Value
	m   []Pair

	Tag string
}

func Null() Value { return Value{kind: KindNull} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Int(i int64) Value { return Value{kind: KindInt, i: i} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String builds a string Value, inlining it into the struct when it fits
// within shortStringCap bytes to avoid a heap allocation for the common
// case of short scalar keys/values.
func String(s string) Value {
	if len(s) <= shortStringCap {
		v := Value{kind: KindString, shortLen: byte(len(s))}
		copy(v.short[:], s)
		return v
	}
	return Value{kind: KindString, shortLen: 0xFF, long: &s}
}

func Sequence(items ...Value) Value { return Value{kind: KindSequence, seq: items} }

func Mapping(pairs ...Pair) Value { return Value{kind: KindMapping, m: pairs} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool { return v.b }

func (v Value) Int() int64 { return v.i }

func (v Value) Float() float64 { return v.f }

// Str returns the decoded string payload, reconstructing it from the
// inline buffer when the value was stored short.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	if v.shortLen == 0xFF {
		if v.long != nil {
			return *v.long
		}
		return ""
	}
	return string(v.short[:v.shortLen])
}

func (v Value) Seq() []Value { return v.seq }

func (v Value) Pairs() []Pair { return v.m }

// Get looks up a mapping value by a string key, matching against both
// inline and boxed string keys (spec §8 "lookup by any structurally
// equal key returns the same value").
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	for _, p := range v.m {
		if p.Key.Kind() == KindString && p.Key.Str() == key {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Len reports the element/pair count for sequences and mappings, and 0
// otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.m)
	}
	return 0
}

// AsGo converts a Value into the plain Go representation a struct-decode
// path binds against: map[string]interface{}, []interface{}, and the
// scalar Go primitives, mirroring a typical ast.Node-to-interface{}
// decode target.
func (v Value) AsGo() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.Str()
	case KindSequence:
		out := make([]interface{}, len(v.seq))
		for i, e := range v.seq {
			out[i] = e.AsGo()
		}
		return out
	case KindMapping:
		out := make(map[string]interface{}, len(v.m))
		for _, p := range v.m {
			out[keyAsGoString(p.Key)] = p.Value.AsGo()
		}
		return out
	}
	return nil
}

func keyAsGoString(k Value) string {
	if k.Kind() == KindString {
		return k.Str()
	}
	return fmt.Sprint(k.AsGo())
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.Str()
	case KindSequence:
		return fmt.Sprintf("[sequence len=%d]", len(v.seq))
	case KindMapping:
		return fmt.Sprintf("[mapping len=%d]", len(v.m))
	}
	return ""
}
