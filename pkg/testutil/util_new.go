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

package testutil

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/container/batch"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

// RandomDomain bounds the random values so that random arrays share
// elements.
const RandomDomain = 16

func NewProcess() *process.Process {
	return NewProcessWithMPool(mpool.MustNewZero())
}

func NewProcessWithMPool(mp *mpool.MPool) *process.Process {
	proc := process.New(context.Background(), mp)
	proc.Lim.BatchRows = 1 << 20
	return proc
}

var NewProc = NewProcess

// NewBatch returns a batch of n rows, one vector per type. Array types
// get arrays of at most 8 elements.
func NewBatch(ts []types.Type, random bool, n int, m *mpool.MPool) *batch.Batch {
	bat := batch.NewWithSize(len(ts))
	bat.SetRowCount(n)
	rnd := rand.New(rand.NewSource(int64(n)))
	for i := range bat.Vecs {
		if ts[i].IsArray() {
			bat.Vecs[i] = NewRandomArrayVector(n, ts[i], 8, m, rnd)
			continue
		}
		bat.Vecs[i] = NewVector(n, ts[i], m, random, nil)
	}
	return bat
}

// NewBatchWithNulls is NewBatch with every even row NULL.
func NewBatchWithNulls(ts []types.Type, random bool, n int, m *mpool.MPool) *batch.Batch {
	bat := NewBatch(ts, random, n, m)
	for i := range bat.Vecs {
		nsp := bat.Vecs[i].GetNulls()
		for j := 0; j < n; j += 2 {
			nsp.Set(uint64(j))
		}
	}
	return bat
}

func NewBatchWithVectors(vs []*vector.Vector) *batch.Batch {
	bat := batch.NewWithSize(len(vs))
	if len(vs) > 0 {
		bat.SetRowCount(vs[0].Length())
		bat.Vecs = vs
	}
	return bat
}

// NewVector returns a flat vector of n rows. values, when not nil, is a
// slice of the Go type backing typ, strings for string types.
func NewVector(n int, typ types.Type, m *mpool.MPool, random bool, values interface{}) *vector.Vector {
	switch typ.Oid {
	case types.T_bool:
		return newFixedVector(n, typ, m, random, values, func(i int) bool { return i%2 == 0 })
	case types.T_int8:
		return newFixedVector(n, typ, m, random, values, func(i int) int8 { return int8(i) })
	case types.T_int16:
		return newFixedVector(n, typ, m, random, values, func(i int) int16 { return int16(i) })
	case types.T_int32:
		return newFixedVector(n, typ, m, random, values, func(i int) int32 { return int32(i) })
	case types.T_int64:
		return newFixedVector(n, typ, m, random, values, func(i int) int64 { return int64(i) })
	case types.T_int128:
		return newFixedVector(n, typ, m, random, values, func(i int) types.Int128 { return types.Int128{B0_63: uint64(i)} })
	case types.T_uint8:
		return newFixedVector(n, typ, m, random, values, func(i int) uint8 { return uint8(i) })
	case types.T_uint16:
		return newFixedVector(n, typ, m, random, values, func(i int) uint16 { return uint16(i) })
	case types.T_uint32:
		return newFixedVector(n, typ, m, random, values, func(i int) uint32 { return uint32(i) })
	case types.T_uint64:
		return newFixedVector(n, typ, m, random, values, func(i int) uint64 { return uint64(i) })
	case types.T_float32:
		return newFixedVector(n, typ, m, random, values, func(i int) float32 { return float32(i) / 2 })
	case types.T_float64:
		return newFixedVector(n, typ, m, random, values, func(i int) float64 { return float64(i) / 2 })
	case types.T_date:
		return newFixedVector(n, typ, m, random, values, func(i int) types.Date { return types.Date(i) })
	case types.T_datetime:
		return newFixedVector(n, typ, m, random, values, func(i int) types.Datetime { return types.Datetime(i) })
	case types.T_decimal64:
		return newFixedVector(n, typ, m, random, values, func(i int) types.Decimal64 { return types.Decimal64(i) })
	case types.T_decimal128:
		return newFixedVector(n, typ, m, random, values, func(i int) types.Decimal128 { return types.Decimal128{B0_63: uint64(i)} })
	case types.T_char, types.T_varchar, types.T_text, types.T_binary, types.T_blob, types.T_json:
		return NewStringVector(n, typ, m, random, values)
	default:
		panic(moerr.NewInternalErrorNoCtx("unsupport vector's type '%v", typ))
	}
}

func newFixedVector[T any](n int, typ types.Type, m *mpool.MPool, random bool, values interface{}, gen func(int) T) *vector.Vector {
	vec := vector.NewVec(typ)
	if vs, ok := values.([]T); ok {
		if err := vector.AppendList(vec, vs, nil, m); err != nil {
			vec.Free(m)
			return nil
		}
		return vec
	}
	for i := 0; i < n; i++ {
		v := i
		if random {
			v = rand.Intn(RandomDomain)
		}
		if err := vector.Append(vec, gen(v), false, m); err != nil {
			vec.Free(m)
			return nil
		}
	}
	return vec
}

func NewStringVector(n int, typ types.Type, m *mpool.MPool, random bool, values interface{}) *vector.Vector {
	vec := vector.NewVec(typ)
	if vs, ok := values.([]string); ok {
		if err := vector.AppendStringList(vec, vs, nil, m); err != nil {
			vec.Free(m)
			return nil
		}
		return vec
	}
	for i := 0; i < n; i++ {
		v := i
		if random {
			v = rand.Intn(RandomDomain)
		}
		if err := vector.AppendBytes(vec, []byte(fmt.Sprintf("str%d", v)), false, m); err != nil {
			vec.Free(m)
			return nil
		}
	}
	return vec
}

// RandomElem returns a value of the Go type backing elem, drawn from a
// domain of RandomDomain values.
func RandomElem(elem types.Type, rnd *rand.Rand) any {
	v := rnd.Intn(RandomDomain)
	switch elem.Oid {
	case types.T_bool:
		return v%2 == 0
	case types.T_int8:
		return int8(v)
	case types.T_int16:
		return int16(v)
	case types.T_int32:
		return int32(v)
	case types.T_int64:
		return int64(v)
	case types.T_int128:
		return types.Int128{B0_63: uint64(v)}
	case types.T_uint8:
		return uint8(v)
	case types.T_uint16:
		return uint16(v)
	case types.T_uint32:
		return uint32(v)
	case types.T_uint64:
		return uint64(v)
	case types.T_float32:
		return float32(v) / 4
	case types.T_float64:
		return float64(v) / 4
	case types.T_date:
		return types.Date(v)
	case types.T_datetime:
		return types.Datetime(v)
	case types.T_time:
		return types.Time(v)
	case types.T_decimal64:
		return types.Decimal64(v)
	case types.T_decimal128:
		return types.Decimal128{B0_63: uint64(v)}
	case types.T_char, types.T_varchar, types.T_text, types.T_binary, types.T_blob, types.T_json:
		return []byte(fmt.Sprintf("elem%d", v))
	}
	panic(moerr.NewInternalErrorNoCtx("unsupport element type '%v", elem))
}
