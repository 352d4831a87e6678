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

package testutil

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
)

// NewArrayVector builds an array column of type typ, one row per
// literal. A literal is either NULL or of the form [1, 2, null].
func NewArrayVector(typ types.Type, literals []string, m *mpool.MPool) (*vector.Vector, error) {
	return vector.NewArrayVectorFromLiterals(typ, literals, m)
}

// NewConstArrayVector returns a const array column of length rows.
func NewConstArrayVector(typ types.Type, literal string, length int, m *mpool.MPool) (*vector.Vector, error) {
	if strings.EqualFold(strings.TrimSpace(literal), "null") {
		return vector.NewConstNull(typ, length, m), nil
	}
	v, err := NewArrayVector(typ, []string{literal}, m)
	if err != nil {
		return nil, err
	}
	defer v.Free(m)
	return v.ToConst(0, length, m)
}

// NewRandomArrayVector returns n arrays of up to maxLen elements. When
// the element type is nullable about one element in eight is NULL.
func NewRandomArrayVector(n int, typ types.Type, maxLen int, m *mpool.MPool, rnd *rand.Rand) *vector.Vector {
	elem := typ.ElemType()
	b := vector.NewArrayBuilderOf(typ, m)
	for i := 0; i < n; i++ {
		cnt := rnd.Intn(maxLen + 1)
		for j := 0; j < cnt; j++ {
			var err error
			if elem.Nullable && rnd.Intn(8) == 0 {
				err = b.AppendNullElem()
			} else {
				err = b.AppendElemAny(RandomElem(elem, rnd), false)
			}
			if err != nil {
				b.Free()
				return nil
			}
		}
		if err := b.FinishRow(); err != nil {
			b.Free()
			return nil
		}
	}
	return b.Assemble()
}

// ArrayRow is one row of an array column in text form.
type ArrayRow struct {
	IsNull bool
	Elems  []string
	// NullElems is the number of NULL elements
	NullElems int
}

// ReadArrayRows renders every row of an array column. Element order is
// kept.
func ReadArrayRows(v *vector.Vector) []ArrayRow {
	rows := make([]ArrayRow, v.Length())
	offs := v.GetOffsets()
	nested := v.GetNested()
	for i := range rows {
		r := vector.ResolveRowIndex(i, v.IsConst())
		if v.GetNulls().Contains(uint64(r)) {
			rows[i].IsNull = true
			continue
		}
		lo := uint64(0)
		if r > 0 {
			lo = offs[r-1]
		}
		rows[i].Elems = []string{}
		for j := lo; j < offs[r]; j++ {
			if nested.GetNulls().Contains(j) {
				rows[i].NullElems++
				continue
			}
			rows[i].Elems = append(rows[i].Elems, nested.RowString(int(j)))
		}
	}
	return rows
}

// SortedElems returns the non-NULL elements of r in lexical order.
func (r ArrayRow) SortedElems() []string {
	elems := append([]string(nil), r.Elems...)
	sort.Strings(elems)
	return elems
}

// ReadArraySets is ReadArrayRows with the elements of every row sorted,
// for results whose element order is not fixed.
func ReadArraySets(v *vector.Vector) []ArrayRow {
	rows := ReadArrayRows(v)
	for i := range rows {
		if !rows[i].IsNull {
			rows[i].Elems = rows[i].SortedElems()
		}
	}
	return rows
}
