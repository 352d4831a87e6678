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
	"math/rand"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/testutil"
)

func TestParallelEvalEqualsSerial(t *testing.T) {
	defer leaktest.AfterTest(t)()

	proc := testutil.NewProcess()
	mp := proc.Mp()
	rnd := rand.New(rand.NewSource(42))
	const rows = 1000

	for _, typ := range []types.Type{int64Array, strArray, dec64Array} {
		a := testutil.NewRandomArrayVector(rows, typ, 12, mp, rnd)
		b := testutil.NewRandomArrayVector(rows, typ, 12, mp, rnd)
		nulls := a.GetNulls()
		nulls.Set(3)
		nulls.Set(500)
		params := []*vector.Vector{a, b}

		for _, name := range []string{ArrayIntersectName, ArrayUnionName, ArrayPopBackName, ArrayPopFrontName} {
			fn, err := GetFunctionByName(proc.Ctx, name)
			require.NoError(t, err)
			args := params
			if fn.Arity() == 1 {
				args = params[:1]
			}

			serial, err := Eval(proc, fn, args, 0, rows)
			require.NoError(t, err)
			parallel, err := ParallelEval(context.Background(), proc, fn, args, rows, 4)
			require.NoError(t, err)

			require.Equal(t, rows, parallel.Length())
			if fn.Arity() == 1 {
				require.Equal(t, serial.String(), parallel.String(), name)
			} else {
				require.Equal(t, testutil.ReadArraySets(serial), testutil.ReadArraySets(parallel), name)
			}
			require.Equal(t, serial.GetNulls().ToArray(), parallel.GetNulls().ToArray())

			serial.Free(mp)
			parallel.Free(mp)
		}
		a.Free(mp)
		b.Free(mp)
	}
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestParallelEvalSmallInput(t *testing.T) {
	defer leaktest.AfterTest(t)()

	proc := testutil.NewProcess()
	mp := proc.Mp()
	a, err := testutil.NewArrayVector(int32Array, []string{"[1, 2]"}, mp)
	require.NoError(t, err)

	fn, err := GetFunctionByName(proc.Ctx, ArrayPopBackName)
	require.NoError(t, err)
	vec, err := ParallelEval(context.Background(), proc, fn, []*vector.Vector{a}, 1, 8)
	require.NoError(t, err)
	require.Equal(t, "[[1]]", vec.String())

	vec.Free(mp)
	a.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestParallelEvalError(t *testing.T) {
	defer leaktest.AfterTest(t)()

	proc := testutil.NewProcess()
	mp := proc.Mp()
	rnd := rand.New(rand.NewSource(1))
	a := testutil.NewRandomArrayVector(100, int32Array, 4, mp, rnd)
	b := testutil.NewRandomArrayVector(100, int64Array, 4, mp, rnd)

	fn, err := GetFunctionByName(proc.Ctx, ArrayUnionName)
	require.NoError(t, err)
	vec, err := ParallelEval(context.Background(), proc, fn, []*vector.Vector{a, b}, 100, 4)
	require.Nil(t, vec)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrUnsupportedElementType))

	a.Free(mp)
	b.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}
