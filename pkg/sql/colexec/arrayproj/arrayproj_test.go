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

package arrayproj

import (
	"bytes"
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/container/batch"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/sql/plan/function"
	mock_function "github.com/matrixorigin/arrayfn/pkg/sql/plan/function/test"
	"github.com/matrixorigin/arrayfn/pkg/testutil"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

var int64Array = types.ArrayOf(types.T_int64.ToType())

func newArrayBatches(t *testing.T, proc *process.Process, n, rows int) []*batch.Batch {
	bats := make([]*batch.Batch, n)
	for i := range bats {
		bat := testutil.NewBatch([]types.Type{int64Array, int64Array}, true, rows+i, proc.Mp())
		bat.Vecs = append(bat.Vecs, nil)
		bats[i] = bat
	}
	return bats
}

func cleanBatches(bats []*batch.Batch, proc *process.Process) {
	for _, bat := range bats {
		bat.Clean(proc.Mp())
	}
}

func TestProjectMatchesSerialEval(t *testing.T) {
	proc := testutil.NewProcess()
	fn, err := function.GetFunctionByName(proc.Ctx, function.ArrayUnionName)
	require.NoError(t, err)

	for _, parallelism := range []int{1, 3} {
		bats := newArrayBatches(t, proc, 12, 50)
		p, err := New(proc, Argument{
			Fn:          fn,
			Arguments:   []int32{0, 1},
			Result:      2,
			Workers:     4,
			Parallelism: parallelism,
		})
		require.NoError(t, err)

		results, err := p.Project(context.Background(), bats)
		require.NoError(t, err)
		require.Len(t, results, len(bats))
		for i, bat := range bats {
			require.Same(t, bat.Vecs[2], results[i])
			require.Equal(t, bat.RowCount(), results[i].Length())

			want, err := function.Eval(proc, fn, bat.Vecs[:2], 0, bat.RowCount())
			require.NoError(t, err)
			require.Equal(t, testutil.ReadArraySets(want), testutil.ReadArraySets(results[i]))
			want.Free(proc.Mp())
		}
		p.Release()
		cleanBatches(bats, proc)
	}
	require.Equal(t, int64(0), proc.Mp().CurrNB())
}

func TestProjectFirstErrorWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	proc := testutil.NewProcess()
	bats := make([]*batch.Batch, 8)
	for i := range bats {
		v := testutil.NewVector(4, types.T_int64.ToType(), proc.Mp(), false, []int64{int64(i), 1, 2, 3})
		bats[i] = testutil.NewBatchWithVectors([]*vector.Vector{v, nil})
	}

	fn := mock_function.NewMockFunction(ctrl)
	fn.EXPECT().Name().Return("mock_inc").AnyTimes()
	fn.EXPECT().Arity().Return(1).AnyTimes()
	fn.EXPECT().MinArity().Return(1).AnyTimes()
	fn.EXPECT().ReturnType(gomock.Any(), gomock.Any()).Return(types.T_int64.ToType(), nil).AnyTimes()
	fn.EXPECT().Eval(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(params []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, start, end int) error {
			p := vector.GenerateFunctionFixedTypeParameter[int64](params[0])
			rs := vector.MustFunctionResult[int64](result)
			for i := start; i < end; i++ {
				v, null := p.GetValue(uint64(i))
				if v == 5 {
					return moerr.NewInvalidArg(proc.GetContext(), "mock_inc", v)
				}
				if err := rs.Append(v+1, null); err != nil {
					return err
				}
			}
			return nil
		}).AnyTimes()

	p, err := New(proc, Argument{Fn: fn, Arguments: []int32{0}, Result: 1, Workers: 2})
	require.NoError(t, err)
	defer p.Release()

	results, err := p.Project(context.Background(), bats)
	require.Nil(t, results)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
	for _, bat := range bats {
		require.Nil(t, bat.Vecs[1])
	}

	results, err = p.Project(context.Background(), bats[:5])
	require.NoError(t, err)
	for i, vec := range results {
		require.Equal(t, int64(i+1), vector.MustFixedCol[int64](vec)[0])
	}

	cleanBatches(bats, proc)
	require.Equal(t, int64(0), proc.Mp().CurrNB())
}

func TestProjectWorkerPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	proc := testutil.NewProcess()
	v := testutil.NewVector(2, types.T_int64.ToType(), proc.Mp(), false, nil)
	bats := []*batch.Batch{testutil.NewBatchWithVectors([]*vector.Vector{v, nil})}

	fn := mock_function.NewMockFunction(ctrl)
	fn.EXPECT().Name().Return("mock_panic").AnyTimes()
	fn.EXPECT().Arity().Return(1).AnyTimes()
	fn.EXPECT().ReturnType(gomock.Any(), gomock.Any()).Return(types.T_int64.ToType(), nil).AnyTimes()
	fn.EXPECT().Eval(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ []*vector.Vector, _ vector.FunctionResultWrapper, _ *process.Process, _, _ int) error {
			panic("boom")
		})

	p, err := New(proc, Argument{Fn: fn, Arguments: []int32{0}, Result: 1})
	require.NoError(t, err)
	defer p.Release()

	_, err = p.Project(context.Background(), bats)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
	require.Nil(t, bats[0].Vecs[1])
	cleanBatches(bats, proc)
}

func TestProjectCancelled(t *testing.T) {
	proc := testutil.NewProcess()
	fn, err := function.GetFunctionByName(proc.Ctx, function.ArrayPopBackName)
	require.NoError(t, err)
	p, err := New(proc, Argument{Fn: fn, Arguments: []int32{0}, Result: 2, Workers: 1})
	require.NoError(t, err)
	defer p.Release()

	bats := newArrayBatches(t, proc, 4, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Project(ctx, bats)
	require.Error(t, err)
	for _, bat := range bats {
		require.Nil(t, bat.Vecs[2])
	}
	cleanBatches(bats, proc)
	require.Equal(t, int64(0), proc.Mp().CurrNB())
}

func TestArgumentString(t *testing.T) {
	proc := testutil.NewProcess()
	fn, err := function.GetFunctionByName(proc.Ctx, function.ArrayIntersectName)
	require.NoError(t, err)
	buf := new(bytes.Buffer)
	Argument{Fn: fn, Arguments: []int32{0, 3}, Result: 4}.String(buf)
	require.Equal(t, "array projection: array_intersect(#0, #3) -> #4", buf.String())

	_, err = New(proc, Argument{})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}
