// Copyright 2012, Google Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

// Package sqltypes implements the argument values accepted by the query
// templating engine, and how they are rendered as SQL literals.
//
// A Value is a tagged variant: its Inner field holds exactly one of Bool,
// Numeric, Fractional, String, List, *Map or the skip marker. NULL is stored
// as a nil Inner.
package sqltypes

import (
	"bytes"
	"encoding/hex"
	"strconv"

	"github.com/fpdb/fpdb/errors"
)

var (
	// NULL is the SQL null value.
	NULL = Value{}

	// SKIP instructs the templating engine to omit the placeholder it is bound
	// to (or the conditional block enclosing it).  It never compares equal to
	// NULL or any other value.
	SKIP = Value{skipMarker{}}

	nullstr = []byte("NULL")
)

type ValueType byte

const (
	NullType       = ValueType(0)
	BoolType       = ValueType(1)
	NumericType    = ValueType(2)
	FractionalType = ValueType(3)
	StringType     = ValueType(4)
	BytesType      = ValueType(5)
	ListType       = ValueType(6)
	MapType        = ValueType(7)
	SkipType       = ValueType(8)
)

var valueTypeNames = [...]string{
	NullType:       "null",
	BoolType:       "bool",
	NumericType:    "numeric",
	FractionalType: "fractional",
	StringType:     "string",
	BytesType:      "bytes",
	ListType:       "list",
	MapType:        "map",
	SkipType:       "skip",
}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "ValueType(" + strconv.Itoa(int(t)) + ")"
}

// Value can store any templating argument. NULL is stored as nil.
type Value struct {
	Inner InnerValue
}

// InnerValue is implemented by all non-null value kinds.
type InnerValue interface {
	Type() ValueType
}

// Bool is rendered as 1 or 0.
type Bool bool

// Numeric represents a non-fractional number, stored as its decimal text.
type Numeric []byte

// Fractional represents floats, stored as their shortest decimal text.
type Fractional []byte

// String represents any value that needs to be quoted.  If isUtf8 is false the
// data is binary and it is rendered as a hex literal instead of being escaped.
type String struct {
	data   []byte
	isUtf8 bool
}

// List is an ordered sequence of values.
type List []Value

type skipMarker struct{}

func (Bool) Type() ValueType       { return BoolType }
func (Numeric) Type() ValueType    { return NumericType }
func (Fractional) Type() ValueType { return FractionalType }
func (List) Type() ValueType       { return ListType }
func (skipMarker) Type() ValueType { return SkipType }

func (s String) Type() ValueType {
	if s.isUtf8 {
		return StringType
	}
	return BytesType
}

// MakeBool makes a Bool value.
func MakeBool(b bool) Value {
	return Value{Bool(b)}
}

// MakeInt makes a Numeric value from an int64.
func MakeInt(i int64) Value {
	return Value{Numeric(strconv.AppendInt(nil, i, 10))}
}

// MakeUint makes a Numeric value from a uint64.
func MakeUint(u uint64) Value {
	return Value{Numeric(strconv.AppendUint(nil, u, 10))}
}

// MakeFloat makes a Fractional value from a float64.  The caller must not pass
// NaN or an infinity; use BuildValue to have those rejected.
func MakeFloat(f float64) Value {
	return Value{Fractional(strconv.AppendFloat(nil, f, 'f', -1, 64))}
}

// MakeUtf8String makes a String value from text.
func MakeUtf8String(s string) Value {
	return Value{String{[]byte(s), true}}
}

// MakeBytes makes a binary String value.
func MakeBytes(b []byte) Value {
	return Value{String{b, false}}
}

// MakeList makes a List value.
func MakeList(values ...Value) Value {
	return Value{List(values)}
}

// Type returns the kind of value stored in v.
func (v Value) Type() ValueType {
	if v.Inner == nil {
		return NullType
	}
	return v.Inner.Type()
}

func (v Value) IsNull() bool {
	return v.Inner == nil
}

func (v Value) IsSkip() bool {
	_, ok := v.Inner.(skipMarker)
	return ok
}

// IsScalar reports whether v can be rendered as a single SQL literal.
func (v Value) IsScalar() bool {
	switch v.Type() {
	case NullType, BoolType, NumericType, FractionalType, StringType, BytesType:
		return true
	}
	return false
}

// Raw returns the text of scalar values, and nil for everything else.
func (v Value) Raw() []byte {
	switch inner := v.Inner.(type) {
	case Bool:
		if inner {
			return []byte("1")
		}
		return []byte("0")
	case Numeric:
		return []byte(inner)
	case Fractional:
		return []byte(inner)
	case String:
		return inner.data
	}
	return nil
}

// Text returns the raw text of String and Bytes values.
func (v Value) Text() (string, bool) {
	if s, ok := v.Inner.(String); ok {
		return string(s.data), true
	}
	return "", false
}

// List returns the elements of a List value.
func (v Value) List() (List, bool) {
	l, ok := v.Inner.(List)
	return l, ok
}

// Map returns the pairs of a Map value.
func (v Value) Map() (*Map, bool) {
	m, ok := v.Inner.(*Map)
	return m, ok && m != nil
}

// String returns a human readable rendering of v, for debugging.
func (v Value) String() string {
	switch inner := v.Inner.(type) {
	case nil:
		return "NULL"
	case skipMarker:
		return "SKIP"
	case String:
		if !inner.isUtf8 {
			return "X'" + hex.EncodeToString(inner.data) + "'"
		}
		return strconv.Quote(string(inner.data))
	case List:
		buf := bytes.NewBufferString("[")
		for i, item := range inner {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(item.String())
		}
		buf.WriteString("]")
		return buf.String()
	case *Map:
		buf := bytes.NewBufferString("{")
		inner.Range(func(i int, key string, item Value) bool {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(strconv.Quote(key))
			buf.WriteString(": ")
			buf.WriteString(item.String())
			return true
		})
		buf.WriteString("}")
		return buf.String()
	}
	return string(v.Raw())
}

// EncodeSql writes v as a SQL literal.  Strings are quoted and escaped with
// esc, binary strings are written as hex literals.  Lists, maps and the skip
// marker are not scalars and cannot be encoded.
func (v Value) EncodeSql(b *bytes.Buffer, esc Escaper) error {
	switch inner := v.Inner.(type) {
	case nil:
		b.Write(nullstr)
	case Bool, Numeric, Fractional:
		b.Write(v.Raw())
	case String:
		inner.encodeSql(b, esc)
	default:
		return errors.Newf("%s value is not a scalar", v.Type())
	}
	return nil
}

func (s String) encodeSql(b *bytes.Buffer, esc Escaper) {
	if s.isUtf8 {
		b.WriteByte('\'')
		b.WriteString(esc.EscapeString(string(s.data)))
		b.WriteByte('\'')
	} else {
		b.WriteString("X'")
		enc := hex.NewEncoder(b)
		_, _ = enc.Write(s.data)
		b.WriteByte('\'')
	}
}
