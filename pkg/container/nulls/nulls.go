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

// Package nulls wrap up functions for the manipulation of bitmap library roaring.
// A column keeps the rows that are NULL in a Nulls, you can think of Nulls
// as a bitmap.
package nulls

import (
	"bytes"
	"fmt"

	"github.com/RoaringBitmap/roaring/roaring64"
)

type Nulls struct {
	Np *roaring64.Bitmap
}

func NewWithSize(_ int) *Nulls {
	return &Nulls{
		Np: roaring64.New(),
	}
}

func Build(size int, rows ...uint64) *Nulls {
	nsp := NewWithSize(size)
	Add(nsp, rows...)
	return nsp
}

func (nsp *Nulls) Clone() *Nulls {
	if nsp == nil {
		return nil
	}
	if nsp.Np == nil {
		return &Nulls{Np: nil}
	}
	return &Nulls{
		Np: nsp.Np.Clone(),
	}
}

// Or performs union operation on Nulls nsp,m and store the result in r
func Or(nsp, m, r *Nulls) {
	if !Any(nsp) && !Any(m) {
		r.Np = nil
		return
	}

	r.Np = roaring64.New()
	if Any(nsp) {
		r.Np.Or(nsp.Np)
	}
	if Any(m) {
		r.Np.Or(m.Np)
	}
}

func Reset(nsp *Nulls) {
	if nsp.Np != nil {
		nsp.Np.Clear()
	}
}

// Any returns true if any bit in the Nulls is set, otherwise it will return false.
func Any(nsp *Nulls) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return !nsp.Np.IsEmpty()
}

// Length returns the number of integers contained in the Nulls
func Length(nsp *Nulls) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return int(nsp.Np.GetCardinality())
}

func String(nsp *Nulls) string {
	if nsp == nil || nsp.Np == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", nsp.Np.ToArray())
}

// Contains returns true if the integer is contained in the Nulls
func Contains(nsp *Nulls, row uint64) bool {
	return nsp != nil && nsp.Np != nil && nsp.Np.Contains(row)
}

func Add(nsp *Nulls, rows ...uint64) {
	if len(rows) == 0 {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring64.New()
	}
	nsp.Np.AddMany(rows)
}

func AddRange(nsp *Nulls, start, end uint64) {
	if start >= end {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring64.New()
	}
	nsp.Np.AddRange(start, end)
}

func Del(nsp *Nulls, rows ...uint64) {
	if nsp.Np == nil {
		return
	}
	for _, row := range rows {
		nsp.Np.Remove(row)
	}
}

func RemoveRange(nsp *Nulls, start, end uint64) {
	if nsp.Np != nil {
		nsp.Np.RemoveRange(start, end)
	}
}

// Range adds the rows of nsp in [start, end) to m, row start of nsp lands
// on row offset of m. Return the result
func Range(nsp *Nulls, start, end, offset uint64, m *Nulls) *Nulls {
	if !Any(nsp) {
		return m
	}
	it := nsp.Np.Iterator()
	it.AdvanceIfNeeded(start)
	for it.HasNext() {
		row := it.Next()
		if row >= end {
			break
		}
		if m.Np == nil {
			m.Np = roaring64.New()
		}
		m.Np.Add(row - start + offset)
	}
	return m
}

// Filter keeps the null bits of the selected rows, renumbered by position in sels.
func Filter(nsp *Nulls, sels []int64) *Nulls {
	if !Any(nsp) || len(sels) == 0 {
		return nsp
	}
	np := roaring64.New()
	for i, sel := range sels {
		if nsp.Np.Contains(uint64(sel)) {
			np.Add(uint64(i))
		}
	}
	nsp.Np = np
	return nsp
}

func (nsp *Nulls) Any() bool {
	return Any(nsp)
}

func (nsp *Nulls) Set(row uint64) {
	if nsp.Np == nil {
		nsp.Np = roaring64.New()
	}
	nsp.Np.Add(row)
}

func (nsp *Nulls) Contains(row uint64) bool {
	return Contains(nsp, row)
}

func (nsp *Nulls) Count() int {
	return Length(nsp)
}

func (nsp *Nulls) Show() ([]byte, error) {
	if nsp == nil || nsp.Np == nil {
		return nil, nil
	}
	return nsp.Np.ToBytes()
}

func (nsp *Nulls) Read(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	nsp.Np = roaring64.New()
	_, err := nsp.Np.ReadFrom(bytes.NewReader(data))
	return err
}

func (nsp *Nulls) Or(m *Nulls) *Nulls {
	switch {
	case m == nil:
		return nsp
	case m.Np == nil:
		return nsp
	case nsp.Np == nil && m.Np != nil:
		nsp.Np = m.Np.Clone()
		return nsp
	default:
		nsp.Np.Or(m.Np)
		return nsp
	}
}

func (nsp *Nulls) IsSame(m *Nulls) bool {
	switch {
	case !Any(nsp) && !Any(m):
		return true
	case Any(nsp) && Any(m):
		return nsp.Np.Equals(m.Np)
	default:
		return false
	}
}

func (nsp *Nulls) ToArray() []uint64 {
	if nsp == nil || nsp.Np == nil {
		return []uint64{}
	}
	return nsp.Np.ToArray()
}
