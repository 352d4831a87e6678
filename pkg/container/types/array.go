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
	"bytes"
	"io"
	"strings"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
)

const (
	MaxArrayLength = 65536
)

// ArrayLiteral is a parsed array literal, Nulls[i] marks Elems[i] as NULL.
type ArrayLiteral struct {
	Elems []string
	Nulls []bool
}

func (a ArrayLiteral) Len() int {
	return len(a.Elems)
}

// StringToArrayLiteral parses "[1, 2, null]" or "['a', 'b']". Elements
// are separated by commas, single or double quotes keep commas and
// spaces, an unquoted null is NULL.
func StringToArrayLiteral(str string) (ArrayLiteral, error) {
	var ret ArrayLiteral
	input := strings.TrimSpace(str)

	if !(strings.HasPrefix(input, "[") && strings.HasSuffix(input, "]")) {
		return ret, moerr.NewInvalidInputNoCtx("malformed array input: %s", str)
	}
	input = strings.TrimSpace(input[1 : len(input)-1])
	if input == "" {
		return ret, nil
	}

	var cur strings.Builder
	var quote byte
	quoted := false
	flush := func() error {
		tok := cur.String()
		cur.Reset()
		if !quoted {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				return moerr.NewInvalidInputNoCtx("empty element in array input: %s", str)
			}
		}
		isNull := !quoted && strings.EqualFold(tok, "null")
		if isNull {
			tok = ""
		}
		ret.Elems = append(ret.Elems, tok)
		ret.Nulls = append(ret.Nulls, isNull)
		quoted = false
		return nil
	}
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			if strings.TrimSpace(cur.String()) != "" {
				return ret, moerr.NewInvalidInputNoCtx("malformed array input: %s", str)
			}
			cur.Reset()
			quote = c
			quoted = true
		case c == ',':
			if err := flush(); err != nil {
				return ret, err
			}
		case quoted:
			if c != ' ' && c != '\t' {
				return ret, moerr.NewInvalidInputNoCtx("malformed array input: %s", str)
			}
		default:
			cur.WriteByte(c)
		}
	}
	if quote != 0 {
		return ret, moerr.NewInvalidInputNoCtx("unterminated quote in array input: %s", str)
	}
	if err := flush(); err != nil {
		return ret, err
	}
	if len(ret.Elems) > MaxArrayLength {
		return ret, moerr.NewInvalidInputNoCtx("array length is over the maximum %d", MaxArrayLength)
	}
	return ret, nil
}

// ArrayToString renders elements produced by a formatter, nil means NULL.
func ArrayToString(elems []*string) string {
	var buffer bytes.Buffer
	_, _ = io.WriteString(&buffer, "[")
	for i, value := range elems {
		if i > 0 {
			_, _ = io.WriteString(&buffer, ", ")
		}
		if value == nil {
			_, _ = io.WriteString(&buffer, "null")
		} else {
			_, _ = io.WriteString(&buffer, *value)
		}
	}
	_, _ = io.WriteString(&buffer, "]")
	return buffer.String()
}
