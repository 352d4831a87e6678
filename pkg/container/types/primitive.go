// Copyright 2023 Matrix Origin
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
	"context"
	"fmt"
	"sort"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
)

// WireType is the type tag exchanged with the planner.
type WireType int32

const (
	WireInvalid       WireType = 0
	WireNull          WireType = 1
	WireBoolean       WireType = 2
	WireTinyInt       WireType = 3
	WireSmallInt      WireType = 4
	WireInt           WireType = 5
	WireBigInt        WireType = 6
	WireFloat         WireType = 7
	WireDouble        WireType = 8
	WireDate          WireType = 9
	WireDatetime      WireType = 10
	WireBinary        WireType = 11
	WireChar          WireType = 13
	WireLargeInt      WireType = 14
	WireVarchar       WireType = 15
	WireHLL           WireType = 16
	WireDecimalV2     WireType = 17
	WireTime          WireType = 18
	WireBitmap        WireType = 19
	WireArray         WireType = 20
	WireMap           WireType = 21
	WireStruct        WireType = 22
	WireString        WireType = 23
	WireQuantileState WireType = 25
	WireDateV2        WireType = 26
	WireDatetimeV2    WireType = 27
	WireTimeV2        WireType = 28
	WireDecimal32     WireType = 29
	WireDecimal64     WireType = 30
	WireDecimal128I   WireType = 31
	WireJSONB         WireType = 32
	WireVariant       WireType = 34
	WireLambda        WireType = 35
	WireAggState      WireType = 36
	WireDecimal256    WireType = 37
	WireIPv4          WireType = 38
	WireIPv6          WireType = 39
)

var wireNames = map[WireType]string{
	WireInvalid:       "INVALID_TYPE",
	WireNull:          "NULL_TYPE",
	WireBoolean:       "BOOLEAN",
	WireTinyInt:       "TINYINT",
	WireSmallInt:      "SMALLINT",
	WireInt:           "INT",
	WireBigInt:        "BIGINT",
	WireFloat:         "FLOAT",
	WireDouble:        "DOUBLE",
	WireDate:          "DATE",
	WireDatetime:      "DATETIME",
	WireBinary:        "BINARY",
	WireChar:          "CHAR",
	WireLargeInt:      "LARGEINT",
	WireVarchar:       "VARCHAR",
	WireHLL:           "HLL",
	WireDecimalV2:     "DECIMALV2",
	WireTime:          "TIME",
	WireBitmap:        "BITMAP",
	WireArray:         "ARRAY",
	WireMap:           "MAP",
	WireStruct:        "STRUCT",
	WireString:        "STRING",
	WireQuantileState: "QUANTILE_STATE",
	WireDateV2:        "DATEV2",
	WireDatetimeV2:    "DATETIMEV2",
	WireTimeV2:        "TIMEV2",
	WireDecimal32:     "DECIMAL32",
	WireDecimal64:     "DECIMAL64",
	WireDecimal128I:   "DECIMAL128I",
	WireJSONB:         "JSONB",
	WireVariant:       "VARIANT",
	WireLambda:        "LAMBDA_FUNCTION",
	WireAggState:      "AGG_STATE",
	WireDecimal256:    "DECIMAL256",
	WireIPv4:          "IPV4",
	WireIPv6:          "IPV6",
}

// wireToInternal has no entry for tags this engine cannot represent.
// The legacy and v2 date tags share one internal representation.
var wireToInternal = map[WireType]T{
	WireNull:        T_any,
	WireBoolean:     T_bool,
	WireTinyInt:     T_int8,
	WireSmallInt:    T_int16,
	WireInt:         T_int32,
	WireBigInt:      T_int64,
	WireLargeInt:    T_int128,
	WireFloat:       T_float32,
	WireDouble:      T_float64,
	WireDate:        T_date,
	WireDateV2:      T_date,
	WireDatetime:    T_datetime,
	WireDatetimeV2:  T_datetime,
	WireTime:        T_time,
	WireTimeV2:      T_time,
	WireDecimal64:   T_decimal64,
	WireDecimal128I: T_decimal128,
	WireChar:        T_char,
	WireVarchar:     T_varchar,
	WireString:      T_text,
	WireBinary:      T_binary,
	WireJSONB:       T_json,
	WireArray:       T_array,
}

var internalToWire = map[T]WireType{
	T_any:        WireNull,
	T_bool:       WireBoolean,
	T_int8:       WireTinyInt,
	T_int16:      WireSmallInt,
	T_int32:      WireInt,
	T_int64:      WireBigInt,
	T_int128:     WireLargeInt,
	T_float32:    WireFloat,
	T_float64:    WireDouble,
	T_date:       WireDateV2,
	T_datetime:   WireDatetimeV2,
	T_time:       WireTimeV2,
	T_decimal64:  WireDecimal64,
	T_decimal128: WireDecimal128I,
	T_char:       WireChar,
	T_varchar:    WireVarchar,
	T_text:       WireString,
	T_binary:     WireBinary,
	T_json:       WireJSONB,
	T_array:      WireArray,
}

func (w WireType) String() string {
	if name, ok := wireNames[w]; ok {
		return name
	}
	return fmt.Sprintf("WireType(%d)", int32(w))
}

// TagToInternal maps a wire tag to the internal tag. Tags without a
// mapping fail with ErrUnknownTypeTag.
func TagToInternal(ctx context.Context, w WireType) (T, error) {
	if t, ok := wireToInternal[w]; ok {
		return t, nil
	}
	return T_any, moerr.NewUnknownTypeTag(ctx, int32(w))
}

// InternalToTag maps an internal tag to its wire tag, WireInvalid when
// there is none. Never fails.
func InternalToTag(t T) WireType {
	if w, ok := internalToWire[t]; ok {
		return w
	}
	return WireInvalid
}

// TypeName returns the display name of t, "" when t is not a known tag.
func TypeName(t T) string {
	if !t.IsKnown() {
		return ""
	}
	return t.String()
}

// IsKnown reports whether t is one of the declared tags.
func (t T) IsKnown() bool {
	switch t {
	case T_any, T_bool,
		T_int8, T_int16, T_int32, T_int64, T_int128,
		T_uint8, T_uint16, T_uint32, T_uint64,
		T_float32, T_float64,
		T_date, T_datetime, T_time,
		T_decimal64, T_decimal128,
		T_char, T_varchar, T_text, T_binary, T_blob, T_json,
		T_array:
		return true
	}
	return false
}

// WireTypes lists every declared wire tag in ascending order.
func WireTypes() []WireType {
	ret := make([]WireType, 0, len(wireNames))
	for w := range wireNames {
		ret = append(ret, w)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}
