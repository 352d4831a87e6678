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
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/testutil"
)

func initBitCountTestCase() []tcTemp {
	return []tcTemp{
		{
			info: "int8",
			inputs: []FunctionTestInput{
				NewFunctionTestInput(types.T_int8.ToType(),
					[]int8{0, 7, -1, math.MinInt8, 0},
					[]bool{false, false, false, false, true}),
			},
			expect: NewFunctionTestResult(types.T_int8.ToType(), false,
				[]int8{0, 3, 8, 1, 0},
				[]bool{false, false, false, false, true}),
		},
		{
			info: "int16",
			inputs: []FunctionTestInput{
				NewFunctionTestInput(types.T_int16.ToType(), []int16{-1, 255}, nil),
			},
			expect: NewFunctionTestResult(types.T_int8.ToType(), false, []int8{16, 8}, nil),
		},
		{
			info: "int32",
			inputs: []FunctionTestInput{
				NewFunctionTestInput(types.T_int32.ToType(), []int32{-1, math.MaxInt32, 1024}, nil),
			},
			expect: NewFunctionTestResult(types.T_int8.ToType(), false, []int8{32, 31, 1}, nil),
		},
		{
			info: "int64",
			inputs: []FunctionTestInput{
				NewFunctionTestInput(types.T_int64.ToType(), []int64{-1, math.MinInt64, 5}, nil),
			},
			expect: NewFunctionTestResult(types.T_int8.ToType(), false, []int8{64, 1, 2}, nil),
		},
		{
			info: "uint64",
			inputs: []FunctionTestInput{
				NewFunctionTestInput(types.T_uint64.ToType(), []uint64{math.MaxUint64, 6}, nil),
			},
			expect: NewFunctionTestResult(types.T_int8.ToType(), false, []int8{64, 2}, nil),
		},
		{
			info: "int128",
			inputs: []FunctionTestInput{
				NewFunctionTestInput(types.T_int128.ToType(),
					[]types.Int128{{B0_63: math.MaxUint64, B64_127: math.MaxUint64}, {B0_63: 3, B64_127: 1}, {}},
					[]bool{false, false, true}),
			},
			expect: NewFunctionTestResult(types.T_int16.ToType(), false,
				[]int16{128, 3, 0},
				[]bool{false, false, true}),
		},
		{
			info: "const",
			inputs: []FunctionTestInput{
				NewFunctionTestConstInput(types.T_int32.ToType(), []int32{15}, nil),
			},
			expect: NewFunctionTestResult(types.T_int8.ToType(), false, []int8{4, 4, 4}, nil),
		},
		{
			info: "const null",
			inputs: []FunctionTestInput{
				NewFunctionTestConstInput(types.T_int64.ToType(), []int64{0}, []bool{true}),
			},
			expect: NewFunctionTestResult(types.T_int8.ToType(), false, []int8{0, 0}, []bool{true, true}),
		},
		{
			info: "float is not an integer",
			inputs: []FunctionTestInput{
				NewFunctionTestInput(types.T_float64.ToType(), []float64{1}, nil),
			},
			expect: NewFunctionTestResult(types.T_int8.ToType(), true, nil, nil),
		},
	}
}

func TestBitCount(t *testing.T) {
	runTestCases(t, BitCountName, initBitCountTestCase())
}

func TestBitCountRejectsNonInteger(t *testing.T) {
	ctx := context.Background()
	fn := &bitCountFunction{}
	for _, typ := range []types.Type{
		types.T_float32.ToType(),
		types.T_decimal64.ToType(),
		types.T_varchar.ToType(),
		int32Array,
	} {
		_, err := fn.ReturnType(ctx, []types.Type{typ})
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArgumentType), typ.String())
	}

	proc := testutil.NewProcess()
	mp := proc.Mp()
	v := testutil.NewVector(2, types.T_float32.ToType(), mp, false, nil)
	result := vector.NewFunctionResultWrapper(types.T_int8.ToType(), mp, 2)
	err := fn.Eval([]*vector.Vector{v}, result, proc, 0, 2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArgumentType))
	result.Free()
	v.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}
