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

package hashmap

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/stretchr/testify/require"
)

func collect[K comparable](t *testing.T, m FreqMap[K]) map[K]int {
	ret := make(map[K]int)
	require.NoError(t, m.Iterate(func(key K, cnt int) error {
		ret[key] = cnt
		return nil
	}))
	return ret
}

func TestFixedFreqMap(t *testing.T) {
	m := NewFixedFreqMap[int32]()
	for _, v := range []int32{1, 2, 2, 3} {
		m.Add(v, 0, true)
	}
	for _, v := range []int32{2, 3, 4, 3} {
		m.Add(v, 1, false)
	}
	require.Equal(t, 3, m.Len())
	require.Equal(t, map[int32]int{1: 1, 2: 2, 3: 2}, collect[int32](t, m))

	m.Reset()
	require.Equal(t, 0, m.Len())
	m.Add(9, 0, true)
	require.Equal(t, map[int32]int{9: 1}, collect[int32](t, m))
}

func TestFixedFreqMapStructKey(t *testing.T) {
	m := NewFixedFreqMap[types.Decimal128]()
	a := types.Decimal128{B0_63: 1}
	b := types.Decimal128{B64_127: 1}
	m.Add(a, 0, true)
	m.Add(b, 0, true)
	m.Add(a, 1, true)
	m.Add(a, 1, true)
	require.Equal(t, map[types.Decimal128]int{a: 2, b: 1}, collect[types.Decimal128](t, m))
}

func TestFixedFreqMapNaN(t *testing.T) {
	m := NewFixedFreqMap[float64]()
	m.Add(math.NaN(), 0, true)
	m.Add(math.NaN(), 0, true)
	require.Equal(t, 2, m.Len())
}

func TestStrFreqMap(t *testing.T) {
	m := NewStrFreqMap()
	buf := []byte("a")
	m.Add(buf, 0, true)
	buf[0] = 'b'
	m.Add(buf, 0, true)
	m.Add([]byte("b"), 1, true)
	m.Add([]byte("c"), 1, true)
	m.Add([]byte(""), 1, true)

	got := make(map[string]int)
	require.NoError(t, m.Iterate(func(key []byte, cnt int) error {
		got[string(key)] = cnt
		return nil
	}))
	require.Equal(t, map[string]int{"a": 1, "b": 2, "c": 1, "": 1}, got)

	m.Reset()
	require.Equal(t, 0, m.Len())
	m.Add([]byte("z"), 1, false)
	require.Equal(t, 0, m.Len())
}

func TestIterateStops(t *testing.T) {
	m := NewStrFreqMap()
	for i := 0; i < 10; i++ {
		m.Add([]byte(strconv.Itoa(i)), 0, true)
	}
	stop := errors.New("stop")
	n := 0
	err := m.Iterate(func(key []byte, cnt int) error {
		n++
		if n == 3 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 3, n)
}

func BenchmarkStrFreqMap(b *testing.B) {
	keys := make([][]byte, 1024)
	for i := range keys {
		keys[i] = []byte(strconv.Itoa(i * 7919))
	}
	m := NewStrFreqMap()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		m.Reset()
		for arg := 0; arg < 2; arg++ {
			for _, k := range keys {
				m.Add(k, arg, arg == 0)
			}
		}
	}
}

func TestInsertionOrder(t *testing.T) {
	m := NewFixedFreqMap[int64]()
	for _, v := range []int64{5, 3, 5, 9, 1} {
		m.Add(v, 0, true)
	}
	var keys []int64
	require.NoError(t, m.Iterate(func(key int64, cnt int) error {
		keys = append(keys, key)
		return nil
	}))
	require.Equal(t, []int64{5, 3, 9, 1}, keys)
}
