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
	"strings"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/container/nulls"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
)

// ArrayExecutionData is the decomposed view of an array column.
type ArrayExecutionData struct {
	// Nested holds the elements of every row back to back.
	Nested *Vector
	// Offsets[r] is the end of row r in Nested, row r starts at Offsets[r-1]
	// or 0 for the first row.
	Offsets []uint64
	// NestedNulls marks NULL elements, nil when the elements can not be NULL.
	NestedNulls *nulls.Nulls
	// RowNulls marks rows whose whole array is NULL.
	RowNulls *nulls.Nulls
	IsConst  bool
}

// ExtractArrayExecutionData decomposes v. It fails with ErrUnsupportedShape
// when v is not an array column.
func ExtractArrayExecutionData(ctx context.Context, v *Vector) (*ArrayExecutionData, error) {
	if v == nil {
		return nil, moerr.NewUnsupportedShape(ctx, "nil column")
	}
	if v.typ.Oid != types.T_array || v.nested == nil {
		return nil, moerr.NewUnsupportedShape(ctx, "column of type %s is not an array", v.typ.String())
	}
	offs, ok := v.col.([]uint64)
	if !ok {
		return nil, moerr.NewUnsupportedShape(ctx, "array column without offsets")
	}
	n := v.length
	if v.IsConst() && n > 0 {
		n = 1
	}
	data := &ArrayExecutionData{
		Nested:   v.nested,
		Offsets:  offs[:n],
		RowNulls: v.nsp,
		IsConst:  v.IsConst(),
	}
	if v.typ.ElemType().Nullable || v.nested.nsp.Any() {
		data.NestedNulls = v.nested.nsp
	}
	return data, nil
}

// ResolveRowIndex maps a logical row to the physical row of a column.
func ResolveRowIndex(row int, isConst bool) int {
	if isConst {
		return 0
	}
	return row
}

// RowRange returns the element range [lo, hi) of physical row r.
func (d *ArrayExecutionData) RowRange(r int) (uint64, uint64) {
	if r == 0 {
		return 0, d.Offsets[0]
	}
	return d.Offsets[r-1], d.Offsets[r]
}

func (d *ArrayExecutionData) IsRowNull(r int) bool {
	return d.RowNulls.Contains(uint64(r))
}

func (d *ArrayExecutionData) IsElemNull(i uint64) bool {
	return d.NestedNulls != nil && d.NestedNulls.Contains(i)
}

// ArrayBuilder assembles an array column row by row.
type ArrayBuilder struct {
	vec *Vector
	mp  *mpool.MPool

	done bool
}

// NewArrayBuilder returns a builder of an array column whose elements
// are of type elem. nullable decides whether elements may be NULL.
func NewArrayBuilder(elem types.Type, nullable bool, mp *mpool.MPool) *ArrayBuilder {
	return &ArrayBuilder{
		vec: NewVec(types.ArrayOf(elem.WithNullable(nullable))),
		mp:  mp,
	}
}

// NewArrayBuilderOf returns a builder producing columns of type typ.
func NewArrayBuilderOf(typ types.Type, mp *mpool.MPool) *ArrayBuilder {
	return &ArrayBuilder{
		vec: NewVec(typ),
		mp:  mp,
	}
}

func (b *ArrayBuilder) Nested() *Vector {
	return b.vec.nested
}

func (b *ArrayBuilder) Type() types.Type {
	return b.vec.typ
}

// SetElemNullable lets the column hold NULL elements.
func (b *ArrayBuilder) SetElemNullable() {
	if b.vec.typ.ElemType().Nullable {
		return
	}
	b.vec.typ = types.ArrayOf(b.vec.typ.ElemType().WithNullable(true)).WithNullable(b.vec.typ.Nullable)
	b.vec.nested.typ.Nullable = true
}

// Rows returns the number of finished rows.
func (b *ArrayBuilder) Rows() int {
	return b.vec.length
}

// AppendElem pushes one element to the row under construction.
func AppendElem[T any](b *ArrayBuilder, val T) error {
	return appendOne(b.vec.nested, val, false, b.mp)
}

func (b *ArrayBuilder) AppendElemBytes(val []byte) error {
	return appendOneBytes(b.vec.nested, val, false, b.mp)
}

func (b *ArrayBuilder) AppendElemAny(val any, isNull bool) error {
	return AppendAny(b.vec.nested, val, isNull, b.mp)
}

func (b *ArrayBuilder) AppendNullElem() error {
	return AppendNull(b.vec.nested, b.mp)
}

// AppendRange copies elements [lo, hi) of src, nulls included.
func (b *ArrayBuilder) AppendRange(src *Vector, lo, hi uint64) error {
	return b.vec.nested.UnionRange(src, int(lo), int(hi-lo), b.mp)
}

// FinishRow closes the row under construction.
func (b *ArrayBuilder) FinishRow() error {
	return appendOne(b.vec, uint64(b.vec.nested.length), false, b.mp)
}

// AppendRowNull appends a whole-array NULL row. Elements pushed since the
// last finished row are kept in nested but covered by no row.
func (b *ArrayBuilder) AppendRowNull() error {
	if err := extend(b.vec, 1, b.mp); err != nil {
		return err
	}
	b.vec.col.([]uint64)[b.vec.length] = uint64(b.vec.nested.length)
	nulls.Add(b.vec.nsp, uint64(b.vec.length))
	b.vec.length++
	return nil
}

// Assemble hands the column over to the caller. The builder can not be
// used afterwards.
func (b *ArrayBuilder) Assemble() *Vector {
	if b.done {
		panic(moerr.NewInternalErrorNoCtx("array builder assembled twice"))
	}
	b.done = true
	vec := b.vec
	b.vec = nil
	return vec
}

// Free releases a column that was never assembled.
func (b *ArrayBuilder) Free() {
	if b.done || b.vec == nil {
		return
	}
	b.vec.Free(b.mp)
	b.vec = nil
	b.done = true
}

// NewArrayVectorFromLiterals builds an array column of type typ, one row
// per literal. A literal is either NULL or of the form [1, 2, null].
func NewArrayVectorFromLiterals(typ types.Type, literals []string, m *mpool.MPool) (*Vector, error) {
	b := NewArrayBuilderOf(typ, m)
	for _, lit := range literals {
		if err := b.AppendLiteral(lit); err != nil {
			b.Free()
			return nil, err
		}
	}
	return b.Assemble(), nil
}

// AppendLiteral parses lit with the element type of the builder and
// appends it as one row.
func (b *ArrayBuilder) AppendLiteral(lit string) error {
	if strings.EqualFold(strings.TrimSpace(lit), "null") {
		return b.AppendRowNull()
	}
	al, err := types.StringToArrayLiteral(lit)
	if err != nil {
		return err
	}
	elem := b.vec.typ.ElemType()
	for i, s := range al.Elems {
		if al.Nulls[i] {
			if err = b.AppendNullElem(); err != nil {
				return err
			}
			continue
		}
		val, err := types.ParseValue(elem, s)
		if err != nil {
			return err
		}
		if err = b.AppendElemAny(val, false); err != nil {
			return err
		}
	}
	return b.FinishRow()
}

// GetOffsets returns the row end offsets of an array column.
func (v *Vector) GetOffsets() []uint64 {
	offs, ok := v.col.([]uint64)
	if !ok || v.typ.Oid != types.T_array {
		return nil
	}
	if v.IsConst() && v.length > 0 {
		return offs[:1]
	}
	return offs[:v.length]
}
