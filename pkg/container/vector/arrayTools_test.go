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

package vector

import (
	"context"
	"testing"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/stretchr/testify/require"
)

// buildInt32Array builds rows of int32 arrays, a nil row is a NULL array
// and a nil element is a NULL element.
func buildInt32Array(t *testing.T, mp *mpool.MPool, rows [][]*int32) *Vector {
	b := NewArrayBuilder(types.T_int32.ToType(), true, mp)
	for _, row := range rows {
		if row == nil {
			require.NoError(t, b.AppendRowNull())
			continue
		}
		for _, e := range row {
			if e == nil {
				require.NoError(t, b.AppendNullElem())
			} else {
				require.NoError(t, AppendElem(b, *e))
			}
		}
		require.NoError(t, b.FinishRow())
	}
	return b.Assemble()
}

func i32(v int32) *int32 { return &v }

func TestArrayBuilder(t *testing.T) {
	mp := mpool.MustNewZero()
	vec := buildInt32Array(t, mp, [][]*int32{
		{i32(1), i32(2)},
		nil,
		{},
		{i32(3), nil},
	})
	require.Equal(t, 4, vec.Length())
	require.Equal(t, []uint64{2, 2, 2, 4}, vec.GetOffsets())
	require.Equal(t, "[[1, 2] null [] [3, null]]", vec.String())
	require.Equal(t, "ARRAY<INT>", vec.GetType().String())

	vec.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestArrayBuilderAssembleOnce(t *testing.T) {
	mp := mpool.MustNewZero()
	b := NewArrayBuilder(types.T_int8.ToType(), false, mp)
	require.NoError(t, b.FinishRow())
	require.Equal(t, 1, b.Rows())
	vec := b.Assemble()
	require.Panics(t, func() { b.Assemble() })
	b.Free()
	vec.Free(mp)

	b = NewArrayBuilder(types.T_int8.ToType(), false, mp)
	require.NoError(t, AppendElem(b, int8(1)))
	require.NoError(t, b.FinishRow())
	b.Free()
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestExtractArrayExecutionData(t *testing.T) {
	ctx := context.Background()
	mp := mpool.MustNewZero()
	vec := buildInt32Array(t, mp, [][]*int32{
		{i32(1), nil},
		nil,
		{i32(5)},
	})
	data, err := ExtractArrayExecutionData(ctx, vec)
	require.NoError(t, err)
	require.False(t, data.IsConst)
	require.Equal(t, []uint64{2, 2, 3}, data.Offsets)

	lo, hi := data.RowRange(0)
	require.Equal(t, uint64(0), lo)
	require.Equal(t, uint64(2), hi)
	lo, hi = data.RowRange(2)
	require.Equal(t, uint64(2), lo)
	require.Equal(t, uint64(3), hi)

	require.True(t, data.IsRowNull(1))
	require.False(t, data.IsRowNull(0))
	require.NotNil(t, data.NestedNulls)
	require.True(t, data.IsElemNull(1))
	require.False(t, data.IsElemNull(0))
	require.True(t, IsBackedBy[int32](data.Nested))

	_, err = ExtractArrayExecutionData(ctx, NewVec(types.T_int32.ToType()))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrUnsupportedShape))
	_, err = ExtractArrayExecutionData(ctx, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrUnsupportedShape))
}

func TestExtractNonNullableElements(t *testing.T) {
	mp := mpool.MustNewZero()
	b := NewArrayBuilder(types.T_int64.ToType(), false, mp)
	require.NoError(t, AppendElem(b, int64(1)))
	require.NoError(t, b.FinishRow())
	vec := b.Assemble()

	data, err := ExtractArrayExecutionData(context.Background(), vec)
	require.NoError(t, err)
	require.Nil(t, data.NestedNulls)
	require.False(t, data.IsElemNull(0))
}

func TestConstArray(t *testing.T) {
	mp := mpool.MustNewZero()
	flat := buildInt32Array(t, mp, [][]*int32{{i32(7), i32(8)}})
	c, err := flat.ToConst(0, 3, mp)
	require.NoError(t, err)
	require.True(t, c.IsConst())
	require.Equal(t, 3, c.Length())

	data, err := ExtractArrayExecutionData(context.Background(), c)
	require.NoError(t, err)
	require.True(t, data.IsConst)
	require.Len(t, data.Offsets, 1)
	for row := 0; row < c.Length(); row++ {
		lo, hi := data.RowRange(ResolveRowIndex(row, data.IsConst))
		require.Equal(t, uint64(0), lo)
		require.Equal(t, uint64(2), hi)
	}

	cn := NewConstNull(flat.typ, 2, mp)
	data, err = ExtractArrayExecutionData(context.Background(), cn)
	require.NoError(t, err)
	require.True(t, data.IsRowNull(ResolveRowIndex(1, true)))

	flat.Free(mp)
	c.Free(mp)
	cn.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestUnionRangeArray(t *testing.T) {
	mp := mpool.MustNewZero()
	src := buildInt32Array(t, mp, [][]*int32{
		{i32(1)},
		{i32(2), nil},
		nil,
		{i32(4)},
	})
	dst := buildInt32Array(t, mp, [][]*int32{{i32(0)}})
	require.NoError(t, dst.UnionRange(src, 1, 3, mp))
	require.Equal(t, []uint64{1, 3, 3, 4}, dst.GetOffsets())
	require.Equal(t, "[[0] [2, null] null [4]]", dst.String())

	b := NewArrayBuilder(types.T_int32.ToType(), true, mp)
	data, err := ExtractArrayExecutionData(context.Background(), src)
	require.NoError(t, err)
	lo, hi := data.RowRange(1)
	require.NoError(t, b.AppendRange(data.Nested, lo, hi))
	require.NoError(t, b.FinishRow())
	out := b.Assemble()
	require.Equal(t, "[[2, null]]", out.String())

	src.Free(mp)
	dst.Free(mp)
	out.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestArrayResult(t *testing.T) {
	mp := mpool.MustNewZero()
	w := NewFunctionResultWrapper(types.ArrayOf(types.T_varchar.ToType()), mp, 2)
	rs := MustArrayResult(w)
	require.NoError(t, rs.AppendElemBytes([]byte("a")))
	require.NoError(t, rs.FinishRow())
	require.NoError(t, rs.AppendRowNull())
	vec := w.GetResultVector()
	require.Same(t, vec, w.GetResultVector())
	require.Equal(t, `[[a] null]`, vec.String())
	w.Free()
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestNewArrayVectorFromLiterals(t *testing.T) {
	mp := mpool.MustNewZero()
	typ := types.ArrayOf(types.T_varchar.ToType())
	vec, err := NewArrayVectorFromLiterals(typ, []string{"['a', null]", "NULL", "[]"}, mp)
	require.NoError(t, err)
	require.Equal(t, "[[a, null] null []]", vec.String())
	vec.Free(mp)

	_, err = NewArrayVectorFromLiterals(types.ArrayOf(types.T_int32.ToType()), []string{"[1]", "[1, x]"}, mp)
	require.Error(t, err)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestArrayBuilderSetElemNullable(t *testing.T) {
	mp := mpool.MustNewZero()
	b := NewArrayBuilder(types.T_int32.ToType(), false, mp)
	require.False(t, b.Type().ElemType().Nullable)
	b.SetElemNullable()
	require.True(t, b.Type().ElemType().Nullable)
	require.True(t, b.Type().Nullable)
	require.True(t, b.Nested().GetType().Nullable)
	require.NoError(t, b.AppendNullElem())
	require.NoError(t, b.FinishRow())
	vec := b.Assemble()
	require.Equal(t, "[[null]]", vec.String())
	vec.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}
