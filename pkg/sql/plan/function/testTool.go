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

package function

import (
	"fmt"
	"strings"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/testutil"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

// FunctionTestCase is a simple structure used to make function unit test easier.
// It is used by table driven tests of the functions, use Run to evaluate
// the function and compare the result.
type FunctionTestCase struct {
	proc       *process.Process
	parameters []*vector.Vector
	expected   FunctionTestResult
	fn         Function
	fnLength   int

	buildErr error
}

// FunctionTestInput is the input of a test case. values is a slice of
// the Go type backing typ, strings for string types. For array types
// arrays holds the literals.
type FunctionTestInput struct {
	typ      types.Type
	values   interface{}
	nullList []bool
	arrays   []string
	isConst  bool
}

// FunctionTestResult is the expected result of a test case.
type FunctionTestResult struct {
	typ      types.Type
	wantErr  bool
	values   interface{}
	nullList []bool
	arrays   []string
	// compare the elements of every array row as a set
	unordered bool
}

func NewFunctionTestInput(typ types.Type, values interface{}, nullList []bool) FunctionTestInput {
	return FunctionTestInput{
		typ:      typ,
		values:   values,
		nullList: nullList,
	}
}

// NewFunctionTestConstInput returns a const input holding the first value.
func NewFunctionTestConstInput(typ types.Type, values interface{}, nullList []bool) FunctionTestInput {
	return FunctionTestInput{
		typ:      typ,
		values:   values,
		nullList: nullList,
		isConst:  true,
	}
}

// NewArrayTestInput returns an array input, one literal per row. A
// literal is NULL or like [1, null, 3].
func NewArrayTestInput(typ types.Type, literals ...string) FunctionTestInput {
	return FunctionTestInput{
		typ:    typ,
		arrays: literals,
	}
}

func NewArrayTestConstInput(typ types.Type, literal string) FunctionTestInput {
	return FunctionTestInput{
		typ:     typ,
		arrays:  []string{literal},
		isConst: true,
	}
}

func NewFunctionTestResult(typ types.Type, wantErr bool, values interface{}, nullList []bool) FunctionTestResult {
	return FunctionTestResult{
		typ:      typ,
		wantErr:  wantErr,
		values:   values,
		nullList: nullList,
	}
}

// NewArrayTestResult expects an array column. unordered compares the
// elements of each row regardless of their order.
func NewArrayTestResult(typ types.Type, wantErr bool, unordered bool, literals ...string) FunctionTestResult {
	return FunctionTestResult{
		typ:       typ,
		wantErr:   wantErr,
		arrays:    literals,
		unordered: unordered,
	}
}

func (in FunctionTestInput) rows() int {
	if in.typ.IsArray() {
		return len(in.arrays)
	}
	return valuesLen(in.values)
}

func NewFunctionTestCase(
	proc *process.Process,
	inputs []FunctionTestInput,
	wanted FunctionTestResult,
	fn Function) FunctionTestCase {
	fc := FunctionTestCase{
		proc:     proc,
		expected: wanted,
		fn:       fn,
	}

	length := -1
	for _, in := range inputs {
		if !in.isConst && in.rows() > length {
			length = in.rows()
		}
	}
	if length < 0 {
		if wanted.typ.IsArray() {
			length = len(wanted.arrays)
		} else {
			length = valuesLen(wanted.values)
		}
	}
	fc.fnLength = length

	mp := proc.Mp()
	fc.parameters = make([]*vector.Vector, len(inputs))
	for i, in := range inputs {
		var err error
		if in.isConst {
			fc.parameters[i], err = newConstTestVector(in, length, mp)
		} else {
			fc.parameters[i], err = newTestVector(in.typ, in.values, in.nullList, in.arrays, mp)
		}
		if err != nil {
			fc.buildErr = err
			break
		}
	}
	return fc
}

func newTestVector(typ types.Type, values interface{}, nullList []bool, arrays []string, mp *mpool.MPool) (*vector.Vector, error) {
	if typ.IsArray() {
		return testutil.NewArrayVector(typ, arrays, mp)
	}
	vec := vector.NewVec(typ)
	var err error
	switch vs := values.(type) {
	case []bool:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []int8:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []int16:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []int32:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []int64:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []types.Int128:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []uint8:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []uint16:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []uint32:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []uint64:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []float32:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []float64:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []types.Date:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []types.Datetime:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []types.Decimal64:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []types.Decimal128:
		err = vector.AppendList(vec, vs, nullList, mp)
	case []string:
		err = vector.AppendStringList(vec, vs, nullList, mp)
	default:
		err = moerr.NewInternalErrorNoCtx("unsupported test values %T", values)
	}
	if err != nil {
		vec.Free(mp)
		return nil, err
	}
	return vec, nil
}

func newConstTestVector(in FunctionTestInput, length int, mp *mpool.MPool) (*vector.Vector, error) {
	if in.typ.IsArray() {
		return testutil.NewConstArrayVector(in.typ, in.arrays[0], length, mp)
	}
	if len(in.nullList) > 0 && in.nullList[0] {
		return vector.NewConstNull(in.typ, length, mp), nil
	}
	flat, err := newTestVector(in.typ, in.values, nil, nil, mp)
	if err != nil {
		return nil, err
	}
	defer flat.Free(mp)
	return flat.ToConst(0, length, mp)
}

func valuesLen(values interface{}) int {
	switch vs := values.(type) {
	case []bool:
		return len(vs)
	case []int8:
		return len(vs)
	case []int16:
		return len(vs)
	case []int32:
		return len(vs)
	case []int64:
		return len(vs)
	case []types.Int128:
		return len(vs)
	case []uint8:
		return len(vs)
	case []uint16:
		return len(vs)
	case []uint32:
		return len(vs)
	case []uint64:
		return len(vs)
	case []float32:
		return len(vs)
	case []float64:
		return len(vs)
	case []types.Date:
		return len(vs)
	case []types.Datetime:
		return len(vs)
	case []types.Decimal64:
		return len(vs)
	case []types.Decimal128:
		return len(vs)
	case []string:
		return len(vs)
	}
	return 0
}

// Run evaluates the function and compares the result with the expected
// one. It frees every vector it built.
func (fc *FunctionTestCase) Run() (succeed bool, errInfo string) {
	mp := fc.proc.Mp()
	defer func() {
		for _, p := range fc.parameters {
			if p != nil {
				p.Free(mp)
			}
		}
	}()
	if fc.buildErr != nil {
		return false, fmt.Sprintf("failed to build parameters: %s", fc.buildErr)
	}

	vec, err := Eval(fc.proc, fc.fn, fc.parameters, 0, fc.fnLength)
	if fc.expected.wantErr {
		if err == nil {
			vec.Free(mp)
			return false, "expected an error, but the function succeeded"
		}
		return true, ""
	}
	if err != nil {
		return false, fmt.Sprintf("function returned an error: %s", err)
	}
	defer vec.Free(mp)

	if vec.GetType().Oid != fc.expected.typ.Oid {
		return false, fmt.Sprintf("result type is %s, expected %s", vec.GetType(), fc.expected.typ)
	}
	if vec.Length() != fc.fnLength {
		return false, fmt.Sprintf("result has %d rows, expected %d", vec.Length(), fc.fnLength)
	}

	expected, err := newTestVector(fc.expected.typ, fc.expected.values, fc.expected.nullList, fc.expected.arrays, mp)
	if err != nil {
		return false, fmt.Sprintf("failed to build the expected result: %s", err)
	}
	defer expected.Free(mp)

	if fc.expected.typ.IsArray() {
		return compareArrayRows(testutil.ReadArrayRows(vec), testutil.ReadArrayRows(expected), fc.expected.unordered)
	}
	for i := 0; i < fc.fnLength; i++ {
		got, want := vec.RowString(i), expected.RowString(i)
		if got != want {
			return false, fmt.Sprintf("the %dth row is %s, expected %s", i, got, want)
		}
	}
	return true, ""
}

func compareArrayRows(got, want []testutil.ArrayRow, unordered bool) (bool, string) {
	if len(got) != len(want) {
		return false, fmt.Sprintf("result has %d rows, expected %d", len(got), len(want))
	}
	for i := range got {
		g, w := got[i], want[i]
		if g.IsNull != w.IsNull {
			return false, fmt.Sprintf("the %dth row null is %v, expected %v", i, g.IsNull, w.IsNull)
		}
		if g.NullElems != w.NullElems {
			return false, fmt.Sprintf("the %dth row has %d null elements, expected %d", i, g.NullElems, w.NullElems)
		}
		ge, we := g.Elems, w.Elems
		if unordered {
			ge, we = g.SortedElems(), w.SortedElems()
		}
		if strings.Join(ge, ",") != strings.Join(we, ",") || len(ge) != len(we) {
			return false, fmt.Sprintf("the %dth row is %v, expected %v", i, g.Elems, w.Elems)
		}
	}
	return true, ""
}
