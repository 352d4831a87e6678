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
	"strconv"
	"strings"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
)

func ParseBool(s string) (bool, error) {
	// try to parse as a bool, we treat TuRe as true, therefore ToLower.
	v, err := strconv.ParseBool(strings.ToLower(s))
	if err == nil {
		return v, nil
	}

	// try to parse as a number.   We treat 0 as false, and other numbers as true.
	num, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return num != 0.0, nil
	}

	return false, moerr.NewInvalidInputNoCtx("'%s' is not a valid bool expression", s)
}

// ParseValue parses the text form of one element of type typ. Strings
// are returned as []byte.
func ParseValue(typ Type, s string) (any, error) {
	var err error
	var iv int64
	var uv uint64
	switch typ.Oid {
	case T_bool:
		return ParseBool(s)
	case T_int8, T_int16, T_int32, T_int64:
		if iv, err = strconv.ParseInt(s, 10, typ.Oid.TypeLen()*8); err != nil {
			return nil, moerr.NewInvalidInputNoCtx("'%s' is not a valid %s", s, typ.Oid.String())
		}
		switch typ.Oid {
		case T_int8:
			return int8(iv), nil
		case T_int16:
			return int16(iv), nil
		case T_int32:
			return int32(iv), nil
		}
		return iv, nil
	case T_int128:
		return ParseInt128(s)
	case T_uint8, T_uint16, T_uint32, T_uint64:
		if uv, err = strconv.ParseUint(s, 10, typ.Oid.TypeLen()*8); err != nil {
			return nil, moerr.NewInvalidInputNoCtx("'%s' is not a valid %s", s, typ.Oid.String())
		}
		switch typ.Oid {
		case T_uint8:
			return uint8(uv), nil
		case T_uint16:
			return uint16(uv), nil
		case T_uint32:
			return uint32(uv), nil
		}
		return uv, nil
	case T_float32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, moerr.NewInvalidInputNoCtx("'%s' is not a valid %s", s, typ.Oid.String())
		}
		return float32(f), nil
	case T_float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, moerr.NewInvalidInputNoCtx("'%s' is not a valid %s", s, typ.Oid.String())
		}
		return f, nil
	case T_date:
		return ParseDate(s)
	case T_datetime:
		return ParseDatetime(s)
	case T_time:
		return ParseTime(s)
	case T_decimal64:
		return ParseDecimal64(s, typ.Width, typ.Scale)
	case T_decimal128:
		return ParseDecimal128(s, typ.Width, typ.Scale)
	case T_char, T_varchar, T_text, T_binary, T_blob, T_json:
		return []byte(s), nil
	}
	return nil, moerr.NewNotSupportedNoCtx("parse value of type %s", typ.String())
}
