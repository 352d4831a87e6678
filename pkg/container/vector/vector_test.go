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

package vector

import (
	"strings"
	"testing"

	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/stretchr/testify/require"
)

func TestAppendFixed(t *testing.T) {
	mp := mpool.MustNewZero()
	vec := NewVec(types.T_int32.ToType())
	require.NoError(t, AppendList(vec, []int32{1, 2, 3}, []bool{false, true, false}, mp))
	require.NoError(t, Append(vec, int32(4), false, mp))
	require.Equal(t, 4, vec.Length())
	require.Equal(t, []int32{1, 0, 3, 4}, MustFixedCol[int32](vec))
	require.True(t, vec.IsNull(1))
	require.Equal(t, "[1 null 3 4]", vec.String())

	// wrong Go type
	require.Error(t, Append(vec, int64(5), false, mp))

	vec.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestAppendBytes(t *testing.T) {
	mp := mpool.MustNewZero()
	vec := NewVec(types.T_varchar.ToType())
	long := strings.Repeat("x", 40)
	require.NoError(t, AppendBytesList(vec, [][]byte{[]byte("a"), nil, []byte(long)}, []bool{false, true, false}, mp))
	require.Equal(t, "a", vec.GetStringAt(0))
	require.True(t, vec.IsNull(1))
	require.Equal(t, long, vec.GetStringAt(2))
	vec.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestConst(t *testing.T) {
	mp := mpool.MustNewZero()
	vec, err := NewConst(types.T_int64.ToType(), int64(7), 5, mp)
	require.NoError(t, err)
	require.True(t, vec.IsConst())
	require.Equal(t, 5, vec.Length())
	require.Equal(t, []int64{7}, MustFixedCol[int64](vec))
	require.Equal(t, "const(5)[7]", vec.String())

	cn := NewConstNull(types.T_int64.ToType(), 3, mp)
	require.True(t, cn.IsConstNull())
	require.True(t, cn.IsNull(2))

	str, err := NewConstBytes(types.T_text.ToType(), []byte("abc"), 2, mp)
	require.NoError(t, err)
	require.Equal(t, "abc", str.GetStringAt(1))

	_, err = NewConst(types.T_int64.ToType(), int32(7), 5, mp)
	require.Error(t, err)

	vec.Free(mp)
	cn.Free(mp)
	str.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestIsBackedBy(t *testing.T) {
	require.True(t, IsBackedBy[int8](NewVec(types.T_int8.ToType())))
	require.False(t, IsBackedBy[uint8](NewVec(types.T_int8.ToType())))
	require.True(t, IsBackedBy[types.Varlena](NewVec(types.T_json.ToType())))
	require.True(t, IsBackedBy[types.Date](NewVec(types.T_date.ToType())))
	require.True(t, IsBackedBy[types.Decimal128](NewVec(types.T_decimal128.ToType())))
	require.False(t, IsBackedBy[int32](nil))
}

func TestUnionRange(t *testing.T) {
	mp := mpool.MustNewZero()
	src := NewVec(types.T_int16.ToType())
	require.NoError(t, AppendList(src, []int16{1, 2, 3, 4}, []bool{false, false, true, false}, mp))

	dst := NewVec(types.T_int16.ToType())
	require.NoError(t, Append(dst, int16(9), true, mp))
	require.NoError(t, dst.UnionRange(src, 1, 3, mp))
	require.Equal(t, []int16{0, 2, 0, 4}, MustFixedCol[int16](dst))
	require.Equal(t, []uint64{0, 2}, dst.GetNulls().ToArray())

	require.Error(t, dst.UnionRange(src, 3, 2, mp))

	c, err := NewConst(types.T_int16.ToType(), int16(5), 10, mp)
	require.NoError(t, err)
	require.NoError(t, dst.UnionRange(c, 0, 2, mp))
	require.Equal(t, []int16{0, 2, 0, 4, 5, 5}, MustFixedCol[int16](dst))

	other := NewVec(types.T_int32.ToType())
	require.Error(t, other.UnionRange(src, 0, 1, mp))

	src.Free(mp)
	dst.Free(mp)
	c.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestUnionRangeVarlena(t *testing.T) {
	mp := mpool.MustNewZero()
	long := strings.Repeat("y", 30)
	src := NewVec(types.T_varchar.ToType())
	require.NoError(t, AppendStringList(src, []string{"s", long, ""}, []bool{false, false, true}, mp))

	dst := NewVec(types.T_varchar.ToType())
	require.NoError(t, dst.UnionRange(src, 0, 3, mp))
	src.Free(mp)

	require.Equal(t, "s", dst.GetStringAt(0))
	require.Equal(t, long, dst.GetStringAt(1))
	require.True(t, dst.IsNull(2))
	dst.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestToConst(t *testing.T) {
	mp := mpool.MustNewZero()
	src := NewVec(types.T_float64.ToType())
	require.NoError(t, AppendList(src, []float64{1.5, 0}, []bool{false, true}, mp))

	c, err := src.ToConst(0, 4, mp)
	require.NoError(t, err)
	require.True(t, c.IsConst())
	require.Equal(t, "const(4)[1.5]", c.String())

	cn, err := src.ToConst(1, 4, mp)
	require.NoError(t, err)
	require.True(t, cn.IsConstNull())
}

func TestRowString(t *testing.T) {
	mp := mpool.MustNewZero()
	typ := types.New(types.T_decimal64, 10, 2)
	vec := NewVec(typ)
	require.NoError(t, Append(vec, types.Decimal64(1234), false, mp))
	require.Equal(t, "12.34", vec.RowString(0))

	b := NewVec(types.T_bool.ToType())
	require.NoError(t, Append(b, true, false, mp))
	require.Equal(t, "true", b.RowString(0))
}

func TestGenerateFunctionParameter(t *testing.T) {
	mp := mpool.MustNewZero()
	vec := NewVec(types.T_uint8.ToType())
	require.NoError(t, AppendList(vec, []uint8{1, 2}, nil, mp))
	p := GenerateFunctionFixedTypeParameter[uint8](vec)
	_, ok := p.(*FunctionParameterWithoutNull[uint8])
	require.True(t, ok)

	require.NoError(t, Append(vec, uint8(0), true, mp))
	p = GenerateFunctionFixedTypeParameter[uint8](vec)
	v, null := p.GetValue(1)
	require.Equal(t, uint8(2), v)
	require.False(t, null)
	_, null = p.GetValue(2)
	require.True(t, null)

	c, err := NewConstBytes(types.T_varchar.ToType(), []byte("k"), 3, mp)
	require.NoError(t, err)
	sp := GenerateFunctionStrParameter(c)
	s, null := sp.GetStrValue(2)
	require.False(t, null)
	require.Equal(t, []byte("k"), s)

	np := GenerateFunctionStrParameter(NewConstNull(types.T_varchar.ToType(), 3, mp))
	_, null = np.GetStrValue(0)
	require.True(t, null)
}

func TestFunctionResult(t *testing.T) {
	mp := mpool.MustNewZero()
	w := NewFunctionResultWrapper(types.T_int8.ToType(), mp, 4)
	rs := MustFunctionResult[int8](w)
	require.NoError(t, rs.Append(3, false))
	require.NoError(t, rs.Append(0, true))
	vec := w.GetResultVector()
	require.Equal(t, 2, vec.Length())
	require.Equal(t, "[3 null]", vec.String())
	w.Free()
	require.Equal(t, int64(0), mp.CurrNB())

	require.Panics(t, func() { MustFunctionResult[int16](w) })
}

func BenchmarkGetStrValue(b *testing.B) {
	mp := mpool.MustNewZero()

	vecSize := uint64(50000)
	vec := NewVec(types.T_varchar.ToType())
	for i := uint64(0); i < vecSize; i++ {
		err := appendOneBytes(vec, []byte("x"), false, mp)
		require.NoError(b, err)
	}

	g1 := GenerateFunctionStrParameter(vec)

	vv, nn := []byte(nil), false
	for i := 0; i < b.N; i++ {
		for j := uint64(0); j < vecSize; j++ {
			v, n := g1.GetStrValue(j)
			vv, nn = v, n
		}
	}
	_, _ = vv, nn
}
