// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"fmt"
)

// T is the internal type tag of a column.
type T uint8

const (
	// any family
	T_any  T = 0
	T_bool T = 10

	// numeric/integer family
	T_int8    T = 20
	T_int16   T = 21
	T_int32   T = 22
	T_int64   T = 23
	T_int128  T = 24
	T_uint8   T = 25
	T_uint16  T = 26
	T_uint32  T = 27
	T_uint64  T = 28
	T_float32 T = 30
	T_float64 T = 31

	// date family
	T_date     T = 50
	T_datetime T = 51
	T_time     T = 52

	// decimal family
	T_decimal64  T = 60
	T_decimal128 T = 61

	// string family
	T_char    T = 70
	T_varchar T = 71
	T_text    T = 72
	T_binary  T = 73
	T_blob    T = 74
	T_json    T = 75

	// nested family
	T_array T = 90
)

const (
	VarlenaSize = 24
	Int128Size  = 16
)

// Type describes a column. Elem is set only for T_array.
type Type struct {
	Oid T

	// Nullable reports whether values of this type may be NULL. For the
	// element type of an array it decides whether the nested column
	// carries a nullmap.
	Nullable bool

	// Size Bytes of a fixed length element, 24 for varlena.
	Size int32
	// Width means max Display width for float and double, char and varchar
	Width int32
	// Scale means number of fractional digits for decimal, timestamp, float, etc.
	Scale int32

	Elem *Type
}

type Date int32

type Datetime int64

type Time int64

type Decimal64 int64

type Decimal128 struct {
	B0_63   uint64
	B64_127 uint64
}

type Int128 struct {
	B0_63   uint64
	B64_127 uint64
}

// Varlena is a 24 byte reference to a variable length value, short values
// are stored inline.
type Varlena [VarlenaSize]byte

// FixedSizeT are the Go types that back a fixed width column.
type FixedSizeT interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | Date | Datetime | Time | Decimal64 | Decimal128 | Int128 | Varlena
}

type Ints interface {
	int8 | int16 | int32 | int64
}

type UInts interface {
	uint8 | uint16 | uint32 | uint64
}

type Floats interface {
	float32 | float64
}

var Types map[string]T = map[string]T{
	"bool": T_bool,

	"tinyint":  T_int8,
	"smallint": T_int16,
	"int":      T_int32,
	"integer":  T_int32,
	"bigint":   T_int64,
	"largeint": T_int128,

	"tinyint unsigned":  T_uint8,
	"smallint unsigned": T_uint16,
	"int unsigned":      T_uint32,
	"integer unsigned":  T_uint32,
	"bigint unsigned":   T_uint64,

	"decimal64":  T_decimal64,
	"decimal128": T_decimal128,

	"float":  T_float32,
	"double": T_float64,

	"date":     T_date,
	"datetime": T_datetime,
	"time":     T_time,

	"char":    T_char,
	"varchar": T_varchar,
	"text":    T_text,
	"binary":  T_binary,
	"blob":    T_blob,
	"json":    T_json,
}

func New(oid T, width, scale int32) Type {
	typ := Type{
		Oid:   oid,
		Width: width,
		Scale: scale,
		Size:  int32(TypeSize(oid)),
	}
	return typ
}

// ArrayOf returns the array type whose elements are of type elem.
func ArrayOf(elem Type) Type {
	e := elem
	return Type{
		Oid:      T_array,
		Nullable: true,
		Size:     8,
		Elem:     &e,
	}
}

func TypeSize(oid T) int {
	return oid.TypeLen()
}

func (t Type) TypeSize() int {
	return t.Oid.TypeLen()
}

func (t Type) IsVarlen() bool {
	return t.Oid.IsVarlen()
}

func (t Type) IsArray() bool {
	return t.Oid == T_array && t.Elem != nil
}

// ElemType returns the element type of an array type, the zero Type otherwise.
func (t Type) ElemType() Type {
	if t.Elem == nil {
		return Type{}
	}
	return *t.Elem
}

func (t Type) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	if t.Elem != nil {
		e := *t.Elem
		t.Elem = &e
	}
	return t
}

func (t Type) String() string {
	if t.IsArray() {
		return fmt.Sprintf("ARRAY<%s>", t.Elem.String())
	}
	return t.Oid.String()
}

func (t Type) DescString() string {
	switch t.Oid {
	case T_char, T_varchar, T_binary:
		return fmt.Sprintf("%s(%d)", t.Oid.String(), t.Width)
	case T_decimal64, T_decimal128:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Width, t.Scale)
	case T_array:
		if t.Elem != nil {
			return fmt.Sprintf("ARRAY<%s>", t.Elem.DescString())
		}
	}
	return t.Oid.String()
}

// Eq compares physical layout and element types, nullability excluded.
func (t Type) Eq(b Type) bool {
	if t.Oid != b.Oid || t.Size != b.Size || t.Width != b.Width || t.Scale != b.Scale {
		return false
	}
	if (t.Elem == nil) != (b.Elem == nil) {
		return false
	}
	if t.Elem != nil {
		return t.Elem.Eq(*b.Elem)
	}
	return true
}

func (t T) ToType() Type {
	var typ Type

	typ.Oid = t
	typ.Nullable = true
	typ.Size = int32(t.TypeLen())
	switch t {
	case T_decimal64:
		typ.Width = 18
	case T_decimal128:
		typ.Width = 38
	case T_char, T_varchar:
		typ.Width = 65535
	}
	return typ
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_int128:
		return "LARGEINT"
	case T_uint8:
		return "TINYINT UNSIGNED"
	case T_uint16:
		return "SMALLINT UNSIGNED"
	case T_uint32:
		return "INT UNSIGNED"
	case T_uint64:
		return "BIGINT UNSIGNED"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_date:
		return "DATE"
	case T_datetime:
		return "DATETIME"
	case T_time:
		return "TIME"
	case T_decimal64:
		return "DECIMAL64"
	case T_decimal128:
		return "DECIMAL128"
	case T_char:
		return "CHAR"
	case T_varchar:
		return "VARCHAR"
	case T_text:
		return "TEXT"
	case T_binary:
		return "BINARY"
	case T_blob:
		return "BLOB"
	case T_json:
		return "JSON"
	case T_array:
		return "ARRAY"
	}
	return fmt.Sprintf("unexpected type: %d", t)
}

// OidString returns T_xxx.
func (t T) OidString() string {
	switch t {
	case T_any:
		return "T_any"
	case T_bool:
		return "T_bool"
	case T_int8:
		return "T_int8"
	case T_int16:
		return "T_int16"
	case T_int32:
		return "T_int32"
	case T_int64:
		return "T_int64"
	case T_int128:
		return "T_int128"
	case T_uint8:
		return "T_uint8"
	case T_uint16:
		return "T_uint16"
	case T_uint32:
		return "T_uint32"
	case T_uint64:
		return "T_uint64"
	case T_float32:
		return "T_float32"
	case T_float64:
		return "T_float64"
	case T_date:
		return "T_date"
	case T_datetime:
		return "T_datetime"
	case T_time:
		return "T_time"
	case T_decimal64:
		return "T_decimal64"
	case T_decimal128:
		return "T_decimal128"
	case T_char:
		return "T_char"
	case T_varchar:
		return "T_varchar"
	case T_text:
		return "T_text"
	case T_binary:
		return "T_binary"
	case T_blob:
		return "T_blob"
	case T_json:
		return "T_json"
	case T_array:
		return "T_array"
	}
	return "unknown_type"
}

// TypeLen returns type's length whose type oid is T
func (t T) TypeLen() int {
	switch t {
	case T_any:
		return 0
	case T_bool, T_int8, T_uint8:
		return 1
	case T_int16, T_uint16:
		return 2
	case T_int32, T_uint32, T_float32, T_date:
		return 4
	case T_int64, T_uint64, T_float64, T_datetime, T_time, T_decimal64:
		return 8
	case T_int128, T_decimal128:
		return 16
	case T_char, T_varchar, T_text, T_binary, T_blob, T_json:
		return VarlenaSize
	case T_array:
		// offsets
		return 8
	}
	panic(fmt.Sprintf("unknown type %d", t))
}

func (t T) FixedLength() int {
	switch t {
	case T_char, T_varchar, T_text, T_binary, T_blob, T_json:
		return -VarlenaSize
	}
	return t.TypeLen()
}

func (t T) IsVarlen() bool {
	switch t {
	case T_char, T_varchar, T_text, T_binary, T_blob, T_json:
		return true
	}
	return false
}

func (t T) IsInteger() bool {
	switch t {
	case T_int8, T_int16, T_int32, T_int64, T_int128,
		T_uint8, T_uint16, T_uint32, T_uint64:
		return true
	}
	return false
}

func (t T) IsSignedInt() bool {
	switch t {
	case T_int8, T_int16, T_int32, T_int64, T_int128:
		return true
	}
	return false
}

func (t T) IsFloat() bool {
	return t == T_float32 || t == T_float64
}

func (t T) IsDecimal() bool {
	return t == T_decimal64 || t == T_decimal128
}
