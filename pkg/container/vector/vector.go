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
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/container/nulls"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
)

const (
	FLAT     = iota // flat vector represent a uncompressed vector
	CONSTANT        // const vector
)

// Vector represent a column
type Vector struct {
	// vector's class
	class int
	// type represent the type of column
	typ types.Type
	nsp *nulls.Nulls // nulls list

	// data of fixed length element, in case of varlen, the Varlena.
	// For an array column it holds the per row end offsets into nested.
	col  any
	data []byte

	// area for holding large strings.
	area []byte

	// nested holds the flattened elements of an array column.
	nested *Vector

	capacity int
	length   int
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) Capacity() int {
	return v.capacity
}

func (v *Vector) SetLength(n int) {
	v.length = n
}

// Size of data, only meaningful in (approximate) memory accounting.
func (v *Vector) Size() int {
	sz := v.length*v.typ.TypeSize() + len(v.area)
	if v.nested != nil {
		sz += v.nested.Size()
	}
	return sz
}

func (v *Vector) GetType() *types.Type {
	return &v.typ
}

func (v *Vector) SetType(typ types.Type) {
	v.typ = typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

func (v *Vector) SetNulls(nsp *nulls.Nulls) {
	v.nsp = nsp
}

func (v *Vector) GetArea() []byte {
	return v.area
}

// GetNested returns the element column of an array vector, nil otherwise.
func (v *Vector) GetNested() *Vector {
	return v.nested
}

func (v *Vector) IsConst() bool {
	return v.class == CONSTANT
}

func (v *Vector) SetClass(class int) {
	v.class = class
}

// IsConstNull return true if the vector means a scalar Null.
// e.g.
//
//	a + Null, and the vector of right part will return true
func (v *Vector) IsConstNull() bool {
	return v.IsConst() && v.nsp != nil && nulls.Contains(v.nsp, 0)
}

func (v *Vector) IsNull(i uint64) bool {
	if v.IsConst() {
		i = 0
	}
	return nulls.Contains(v.nsp, i)
}

func (v *Vector) GetBytesAt(i int) []byte {
	if v.IsConst() {
		i = 0
	}
	bs := v.col.([]types.Varlena)
	return bs[i].GetByteSlice(v.area)
}

func (v *Vector) GetStringAt(i int) string {
	if v.IsConst() {
		i = 0
	}
	bs := v.col.([]types.Varlena)
	return bs[i].GetString(v.area)
}

func NewVec(typ types.Type) *Vector {
	vec := &Vector{
		typ:   typ,
		class: FLAT,
		nsp:   &nulls.Nulls{},
	}
	if typ.IsArray() {
		vec.nested = NewVec(typ.ElemType())
	}
	vec.setupColFromData()
	return vec
}

func NewConstNull(typ types.Type, length int, m *mpool.MPool) *Vector {
	vec := &Vector{
		typ:   typ,
		class: CONSTANT,
		nsp:   &nulls.Nulls{},
	}
	if typ.IsArray() {
		vec.nested = NewVec(typ.ElemType())
	}
	vec.setupColFromData()

	if length > 0 {
		if err := SetConstNull(vec, length, m); err != nil {
			panic(err)
		}
	}
	return vec
}

func NewConst[T any](typ types.Type, val T, length int, m *mpool.MPool) (*Vector, error) {
	vec := &Vector{
		typ:   typ,
		class: CONSTANT,
		nsp:   &nulls.Nulls{},
	}
	vec.setupColFromData()

	if length > 0 {
		if err := SetConst(vec, val, length, m); err != nil {
			vec.Free(m)
			return nil, err
		}
	}
	return vec, nil
}

func NewConstBytes(typ types.Type, val []byte, length int, m *mpool.MPool) (*Vector, error) {
	vec := &Vector{
		typ:   typ,
		class: CONSTANT,
		nsp:   &nulls.Nulls{},
	}
	vec.setupColFromData()

	if length > 0 {
		if err := SetConstBytes(vec, val, length, m); err != nil {
			vec.Free(m)
			return nil, err
		}
	}
	return vec, nil
}

func SetConstNull(vec *Vector, length int, m *mpool.MPool) error {
	if vec.capacity == 0 {
		if err := extend(vec, 1, m); err != nil {
			return err
		}
	}
	if vec.typ.Oid == types.T_array {
		// a NULL array still covers an empty range of nested
		vec.col.([]uint64)[0] = 0
	}
	nulls.Add(vec.nsp, uint64(0))
	vec.SetLength(length)
	return nil
}

func SetConst[T any](vec *Vector, val T, length int, m *mpool.MPool) error {
	if vec.capacity == 0 {
		if err := extend(vec, 1, m); err != nil {
			return err
		}
	}
	col, ok := vec.col.([]T)
	if !ok {
		return moerr.NewInternalErrorNoCtx("set const %T to vector of type %s", val, vec.typ.String())
	}
	col[0] = val
	vec.SetLength(length)
	return nil
}

func SetConstBytes(vec *Vector, val []byte, length int, m *mpool.MPool) error {
	var err error
	var va types.Varlena

	if vec.capacity == 0 {
		if err := extend(vec, 1, m); err != nil {
			return err
		}
	}

	col := vec.col.([]types.Varlena)
	va, vec.area, err = types.BuildVarlena(val, vec.area, m)
	if err != nil {
		return err
	}
	col[0] = va
	vec.SetLength(length)
	return nil
}

func DecodeFixedCol[T any](v *Vector) []T {
	var t T
	sz := int(unsafe.Sizeof(t))
	if sz > 0 && cap(v.data) >= sz {
		return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(v.data))), cap(v.data)/sz)
	}
	return nil
}

func (v *Vector) setupColFromData() {
	switch v.typ.Oid {
	case types.T_any, types.T_bool:
		v.col = DecodeFixedCol[bool](v)
	case types.T_int8:
		v.col = DecodeFixedCol[int8](v)
	case types.T_int16:
		v.col = DecodeFixedCol[int16](v)
	case types.T_int32:
		v.col = DecodeFixedCol[int32](v)
	case types.T_int64:
		v.col = DecodeFixedCol[int64](v)
	case types.T_int128:
		v.col = DecodeFixedCol[types.Int128](v)
	case types.T_uint8:
		v.col = DecodeFixedCol[uint8](v)
	case types.T_uint16:
		v.col = DecodeFixedCol[uint16](v)
	case types.T_uint32:
		v.col = DecodeFixedCol[uint32](v)
	case types.T_uint64:
		v.col = DecodeFixedCol[uint64](v)
	case types.T_float32:
		v.col = DecodeFixedCol[float32](v)
	case types.T_float64:
		v.col = DecodeFixedCol[float64](v)
	case types.T_date:
		v.col = DecodeFixedCol[types.Date](v)
	case types.T_datetime:
		v.col = DecodeFixedCol[types.Datetime](v)
	case types.T_time:
		v.col = DecodeFixedCol[types.Time](v)
	case types.T_decimal64:
		v.col = DecodeFixedCol[types.Decimal64](v)
	case types.T_decimal128:
		v.col = DecodeFixedCol[types.Decimal128](v)
	case types.T_char, types.T_varchar, types.T_text, types.T_binary, types.T_blob, types.T_json:
		v.col = DecodeFixedCol[types.Varlena](v)
	case types.T_array:
		v.col = DecodeFixedCol[uint64](v)
	default:
		panic(fmt.Sprintf("unknown type %s", v.typ.Oid))
	}
}

func (v *Vector) elemSize() int {
	if v.typ.Oid == types.T_any {
		return 1
	}
	return v.typ.TypeSize()
}

// extend makes room for rows more elements.
func extend(v *Vector, rows int, m *mpool.MPool) error {
	if tgtCap := v.length + rows; tgtCap > v.capacity {
		sz := v.elemSize()
		ndata, err := m.Grow(v.data, tgtCap*sz)
		if err != nil {
			return err
		}
		v.data = ndata[:cap(ndata)]
		v.setupColFromData()
		v.capacity = cap(v.data) / sz
	}
	return nil
}

// PreExtend make the vector have enough capacity for rows more elements.
func (v *Vector) PreExtend(rows int, mp *mpool.MPool) error {
	if v.class == CONSTANT {
		return nil
	}
	return extend(v, rows, mp)
}

// MustFixedCol returns the live elements of a fixed length vector.
func MustFixedCol[T any](v *Vector) []T {
	// XXX hack.   Sometimes we generate an t_any, for untyped const null.
	// This should be handled more carefully and gracefully.
	if v.GetType().Oid == types.T_any || v.length == 0 {
		return nil
	}
	if v.class == CONSTANT {
		return v.col.([]T)[:1]
	}
	return v.col.([]T)[:v.length]
}

// IsBackedBy reports whether the elements of v are stored as T.
func IsBackedBy[T any](v *Vector) bool {
	if v == nil {
		return false
	}
	_, ok := v.col.([]T)
	return ok
}

func (v *Vector) Free(m *mpool.MPool) {
	if v == nil {
		return
	}
	m.Free(v.data)
	m.Free(v.area)
	if v.nested != nil {
		v.nested.Free(m)
	}
	v.data = nil
	v.area = nil
	v.capacity = 0
	v.length = 0
	v.setupColFromData()
}

func Append[T any](vec *Vector, val T, isNull bool, m *mpool.MPool) error {
	if m == nil {
		panic(moerr.NewInternalErrorNoCtx("vector append does not have a mpool"))
	}
	return appendOne(vec, val, isNull, m)
}

func AppendBytes(vec *Vector, val []byte, isNull bool, m *mpool.MPool) error {
	if m == nil {
		panic(moerr.NewInternalErrorNoCtx("vector append does not have a mpool"))
	}
	return appendOneBytes(vec, val, isNull, m)
}

// AppendNull appends a NULL whose slot holds the zero value of the type.
func AppendNull(vec *Vector, m *mpool.MPool) error {
	if m == nil {
		panic(moerr.NewInternalErrorNoCtx("vector append does not have a mpool"))
	}
	if err := extend(vec, 1, m); err != nil {
		return err
	}
	sz := vec.elemSize()
	length := vec.length
	clear(vec.data[length*sz : (length+1)*sz])
	if vec.typ.Oid == types.T_array {
		offs := vec.col.([]uint64)
		if length > 0 {
			offs[length] = offs[length-1]
		}
	}
	vec.length++
	nulls.Add(vec.nsp, uint64(length))
	return nil
}

func AppendList[T any](v *Vector, ws []T, isNulls []bool, m *mpool.MPool) error {
	if m == nil {
		panic(moerr.NewInternalErrorNoCtx("vector append does not have a mpool"))
	}
	if len(ws) == 0 {
		return nil
	}
	return appendList(v, ws, isNulls, m)
}

func AppendBytesList(v *Vector, ws [][]byte, isNulls []bool, m *mpool.MPool) error {
	if m == nil {
		panic(moerr.NewInternalErrorNoCtx("vector append does not have a mpool"))
	}
	for i, w := range ws {
		if err := appendOneBytes(v, w, len(isNulls) > 0 && isNulls[i], m); err != nil {
			return err
		}
	}
	return nil
}

func AppendStringList(v *Vector, ws []string, isNulls []bool, m *mpool.MPool) error {
	if m == nil {
		panic(moerr.NewInternalErrorNoCtx("vector append does not have a mpool"))
	}
	for i, w := range ws {
		if err := appendOneBytes(v, []byte(w), len(isNulls) > 0 && isNulls[i], m); err != nil {
			return err
		}
	}
	return nil
}

// AppendAny appends a value produced by types.ParseValue.
func AppendAny(vec *Vector, val any, isNull bool, m *mpool.MPool) error {
	if isNull {
		return AppendNull(vec, m)
	}
	switch x := val.(type) {
	case bool:
		return Append(vec, x, false, m)
	case int8:
		return Append(vec, x, false, m)
	case int16:
		return Append(vec, x, false, m)
	case int32:
		return Append(vec, x, false, m)
	case int64:
		return Append(vec, x, false, m)
	case types.Int128:
		return Append(vec, x, false, m)
	case uint8:
		return Append(vec, x, false, m)
	case uint16:
		return Append(vec, x, false, m)
	case uint32:
		return Append(vec, x, false, m)
	case uint64:
		return Append(vec, x, false, m)
	case float32:
		return Append(vec, x, false, m)
	case float64:
		return Append(vec, x, false, m)
	case types.Date:
		return Append(vec, x, false, m)
	case types.Datetime:
		return Append(vec, x, false, m)
	case types.Time:
		return Append(vec, x, false, m)
	case types.Decimal64:
		return Append(vec, x, false, m)
	case types.Decimal128:
		return Append(vec, x, false, m)
	case []byte:
		return AppendBytes(vec, x, false, m)
	case string:
		return AppendBytes(vec, []byte(x), false, m)
	}
	return moerr.NewInternalErrorNoCtx("append value of Go type %T", val)
}

func appendOne[T any](vec *Vector, val T, isNull bool, m *mpool.MPool) error {
	if vec.class == CONSTANT {
		return moerr.NewInternalErrorNoCtx("append to a const vector")
	}
	if isNull {
		return AppendNull(vec, m)
	}
	if err := extend(vec, 1, m); err != nil {
		return err
	}
	col, ok := vec.col.([]T)
	if !ok {
		return moerr.NewInternalErrorNoCtx("append %T to vector of type %s", val, vec.typ.String())
	}
	col[vec.length] = val
	vec.length++
	return nil
}

func appendOneBytes(vec *Vector, val []byte, isNull bool, m *mpool.MPool) error {
	var err error
	var va types.Varlena

	if isNull {
		return AppendNull(vec, m)
	}
	va, vec.area, err = types.BuildVarlena(val, vec.area, m)
	if err != nil {
		return err
	}
	return appendOne(vec, va, false, m)
}

func appendList[T any](vec *Vector, vals []T, isNulls []bool, m *mpool.MPool) error {
	if err := extend(vec, len(vals), m); err != nil {
		return err
	}
	col, ok := vec.col.([]T)
	if !ok {
		return moerr.NewInternalErrorNoCtx("append %T to vector of type %s", vals, vec.typ.String())
	}
	length := vec.length
	vec.length += len(vals)
	for i, w := range vals {
		if len(isNulls) > 0 && isNulls[i] {
			var zero T
			col[length+i] = zero
			nulls.Add(vec.nsp, uint64(length+i))
		} else {
			col[length+i] = w
		}
	}
	return nil
}

// UnionOne appends row sel of w.
func (v *Vector) UnionOne(w *Vector, sel int, mp *mpool.MPool) error {
	return v.UnionRange(w, sel, 1, mp)
}

// UnionRange appends rows [start, start+cnt) of w to v. A const w is
// repeated cnt times. v and w must share the physical representation.
func (v *Vector) UnionRange(w *Vector, start, cnt int, mp *mpool.MPool) error {
	if cnt <= 0 {
		return nil
	}
	if v.class == CONSTANT {
		return moerr.NewInternalErrorNoCtx("union into a const vector")
	}
	if v.typ.Oid != w.typ.Oid {
		return moerr.NewInternalErrorNoCtx("union vector of type %s into %s", w.typ.String(), v.typ.String())
	}
	if w.IsConst() {
		for i := 0; i < cnt; i++ {
			if err := v.unionFlat(w, 0, 1, mp); err != nil {
				return err
			}
		}
		return nil
	}
	if start < 0 || start+cnt > w.length {
		return moerr.NewInternalErrorNoCtx("union range [%d, %d) out of %d rows", start, start+cnt, w.length)
	}
	return v.unionFlat(w, start, cnt, mp)
}

func (v *Vector) unionFlat(w *Vector, start, cnt int, mp *mpool.MPool) error {
	switch {
	case v.typ.Oid == types.T_array:
		return v.unionArray(w, start, cnt, mp)
	case v.typ.IsVarlen():
		return v.unionVarlena(w, start, cnt, mp)
	}

	if err := extend(v, cnt, mp); err != nil {
		return err
	}
	sz := v.elemSize()
	copy(v.data[v.length*sz:(v.length+cnt)*sz], w.data[start*sz:(start+cnt)*sz])
	nulls.Range(w.nsp, uint64(start), uint64(start+cnt), uint64(v.length), v.nsp)
	v.length += cnt
	return nil
}

func (v *Vector) unionVarlena(w *Vector, start, cnt int, mp *mpool.MPool) error {
	if err := extend(v, cnt, mp); err != nil {
		return err
	}
	var err error
	vs := v.col.([]types.Varlena)
	ws := w.col.([]types.Varlena)
	for i := 0; i < cnt; i++ {
		row := v.length + i
		if w.nsp.Contains(uint64(start + i)) {
			vs[row] = types.Varlena{}
			nulls.Add(v.nsp, uint64(row))
			continue
		}
		if ws[start+i].IsSmall() {
			vs[row] = ws[start+i]
			continue
		}
		bs := ws[start+i].GetByteSlice(w.area)
		if vs[row], v.area, err = types.BuildVarlena(bs, v.area, mp); err != nil {
			return err
		}
	}
	v.length += cnt
	return nil
}

func (v *Vector) unionArray(w *Vector, start, cnt int, mp *mpool.MPool) error {
	woffs := w.col.([]uint64)
	lo := uint64(0)
	if start > 0 {
		lo = woffs[start-1]
	}
	hi := woffs[start+cnt-1]
	base := uint64(v.nested.length)
	if err := v.nested.UnionRange(w.nested, int(lo), int(hi-lo), mp); err != nil {
		return err
	}
	if err := extend(v, cnt, mp); err != nil {
		return err
	}
	voffs := v.col.([]uint64)
	for i := 0; i < cnt; i++ {
		voffs[v.length+i] = base + woffs[start+i] - lo
	}
	nulls.Range(w.nsp, uint64(start), uint64(start+cnt), uint64(v.length), v.nsp)
	v.length += cnt
	return nil
}

// ToConst returns a const vector of length rows holding row of v.
func (v *Vector) ToConst(row, length int, mp *mpool.MPool) (*Vector, error) {
	if v.IsConst() {
		row = 0
	}
	if v.nsp.Contains(uint64(row)) {
		return NewConstNull(v.typ, length, mp), nil
	}
	w := NewVec(v.typ)
	if err := w.unionFlat(v, row, 1, mp); err != nil {
		w.Free(mp)
		return nil, err
	}
	w.class = CONSTANT
	w.length = length
	return w, nil
}

func (v *Vector) String() string {
	n := v.length
	if v.IsConst() && n > 0 {
		n = 1
	}
	rows := make([]string, n)
	for i := range rows {
		rows[i] = v.RowString(i)
	}
	str := "[" + strings.Join(rows, " ") + "]"
	if v.IsConst() {
		str = fmt.Sprintf("const(%d)%s", v.length, str)
	}
	return str
}

// RowString formats row i, arrays are written as [e1, e2, null].
func (v *Vector) RowString(i int) string {
	if v.IsConst() {
		i = 0
	}
	if v.nsp.Contains(uint64(i)) {
		return "null"
	}
	if v.typ.Oid == types.T_array {
		offs := v.col.([]uint64)
		lo := uint64(0)
		if i > 0 {
			lo = offs[i-1]
		}
		elems := make([]*string, 0, offs[i]-lo)
		for j := lo; j < offs[i]; j++ {
			if v.nested.nsp.Contains(j) {
				elems = append(elems, nil)
				continue
			}
			s := v.nested.RowString(int(j))
			elems = append(elems, &s)
		}
		return types.ArrayToString(elems)
	}
	return v.valueString(i)
}

func (v *Vector) valueString(i int) string {
	switch v.typ.Oid {
	case types.T_any:
		return "null"
	case types.T_bool:
		return strconv.FormatBool(v.col.([]bool)[i])
	case types.T_int8:
		return strconv.FormatInt(int64(v.col.([]int8)[i]), 10)
	case types.T_int16:
		return strconv.FormatInt(int64(v.col.([]int16)[i]), 10)
	case types.T_int32:
		return strconv.FormatInt(int64(v.col.([]int32)[i]), 10)
	case types.T_int64:
		return strconv.FormatInt(v.col.([]int64)[i], 10)
	case types.T_int128:
		return v.col.([]types.Int128)[i].String()
	case types.T_uint8:
		return strconv.FormatUint(uint64(v.col.([]uint8)[i]), 10)
	case types.T_uint16:
		return strconv.FormatUint(uint64(v.col.([]uint16)[i]), 10)
	case types.T_uint32:
		return strconv.FormatUint(uint64(v.col.([]uint32)[i]), 10)
	case types.T_uint64:
		return strconv.FormatUint(v.col.([]uint64)[i], 10)
	case types.T_float32:
		return strconv.FormatFloat(float64(v.col.([]float32)[i]), 'g', -1, 32)
	case types.T_float64:
		return strconv.FormatFloat(v.col.([]float64)[i], 'g', -1, 64)
	case types.T_date:
		return v.col.([]types.Date)[i].String()
	case types.T_datetime:
		return v.col.([]types.Datetime)[i].String()
	case types.T_time:
		return v.col.([]types.Time)[i].String()
	case types.T_decimal64:
		return v.col.([]types.Decimal64)[i].Format(v.typ.Scale)
	case types.T_decimal128:
		return v.col.([]types.Decimal128)[i].Format(v.typ.Scale)
	case types.T_char, types.T_varchar, types.T_text, types.T_binary, types.T_blob, types.T_json:
		return v.GetStringAt(i)
	}
	panic("vec to string unknown types.")
}
