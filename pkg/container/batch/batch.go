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

package batch

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/logutil"
)

func New(attrs []string) *Batch {
	return &Batch{
		Cnt:      1,
		Attrs:    attrs,
		Vecs:     make([]*vector.Vector, len(attrs)),
		rowCount: 0,
	}
}

func NewWithSize(n int) *Batch {
	return &Batch{
		Cnt:      1,
		Vecs:     make([]*vector.Vector, n),
		rowCount: 0,
	}
}

func (bat *Batch) Size() int {
	var size int

	for _, vec := range bat.Vecs {
		if vec != nil {
			size += vec.Size()
		}
	}
	return size
}

func (bat *Batch) RowCount() int {
	return bat.rowCount
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

func (bat *Batch) SetAttributes(attrs []string) {
	bat.Attrs = attrs
}

func (bat *Batch) SetVector(pos int32, vec *vector.Vector) {
	bat.Vecs[pos] = vec
}

func (bat *Batch) GetVector(pos int32) *vector.Vector {
	return bat.Vecs[pos]
}

// Prefetch collects the vectors at poses into vecs.
func (bat *Batch) Prefetch(poses []int32, vecs []*vector.Vector) {
	for i, pos := range poses {
		vecs[i] = bat.GetVector(pos)
	}
}

func (bat *Batch) AddRowCount(rowCount int) {
	bat.rowCount += rowCount
}

func (bat *Batch) SetRowCount(rowCount int) {
	bat.rowCount = rowCount
}

func (bat *Batch) IsEmpty() bool {
	return bat.rowCount == 0
}

func (bat *Batch) Clean(m *mpool.MPool) {
	if bat == EmptyBatch {
		return
	}
	if atomic.LoadInt64(&bat.Cnt) == 0 {
		return
	}
	if atomic.AddInt64(&bat.Cnt, -1) > 0 {
		return
	}
	// a result slot may alias an input column
	freed := make(map[*vector.Vector]struct{}, len(bat.Vecs))
	for _, vec := range bat.Vecs {
		if vec == nil {
			continue
		}
		if _, ok := freed[vec]; ok {
			continue
		}
		freed[vec] = struct{}{}
		vec.Free(m)
	}
	bat.Attrs = nil
	bat.rowCount = 0
	bat.Vecs = nil
}

func (bat *Batch) String() string {
	var buf bytes.Buffer

	for i, vec := range bat.Vecs {
		if vec == nil {
			buf.WriteString(fmt.Sprintf("%d : <empty>\n", i))
			continue
		}
		buf.WriteString(fmt.Sprintf("%d : %s\n", i, vec.String()))
	}
	return buf.String()
}

func (bat *Batch) Log(tag string) {
	if bat == nil || bat.rowCount < 1 {
		return
	}
	logutil.Debugf("\n" + tag + "\n" + bat.String())
}

// Dup deep copies every non empty slot of bat.
func (bat *Batch) Dup(mp *mpool.MPool) (*Batch, error) {
	rbat := NewWithSize(len(bat.Vecs))
	rbat.SetAttributes(bat.Attrs)
	for j, vec := range bat.Vecs {
		if vec == nil {
			continue
		}
		rvec := vector.NewVec(*vec.GetType())
		if err := rvec.UnionRange(vec, 0, vec.Length(), mp); err != nil {
			rvec.Free(mp)
			rbat.Clean(mp)
			return nil, err
		}
		rbat.SetVector(int32(j), rvec)
	}
	rbat.rowCount = bat.rowCount
	return rbat, nil
}

func (bat *Batch) PreExtend(m *mpool.MPool, rows int) error {
	for i := range bat.Vecs {
		if bat.Vecs[i] == nil {
			continue
		}
		if err := bat.Vecs[i].PreExtend(rows, m); err != nil {
			return err
		}
	}
	return nil
}

// Append appends the rows of b to bat column by column.
func (bat *Batch) Append(ctx context.Context, mh *mpool.MPool, b *Batch) (*Batch, error) {
	if bat == nil {
		return b.Dup(mh)
	}
	if len(bat.Vecs) != len(b.Vecs) {
		return nil, moerr.NewInternalError(ctx, "unexpected error happens in batch append")
	}
	if len(bat.Vecs) == 0 {
		return bat, nil
	}

	for i := range bat.Vecs {
		if err := bat.Vecs[i].UnionRange(b.Vecs[i], 0, b.Vecs[i].Length(), mh); err != nil {
			return bat, err
		}
	}
	bat.rowCount += b.rowCount
	return bat, nil
}
