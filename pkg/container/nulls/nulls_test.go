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

package nulls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddContains(t *testing.T) {
	var nsp Nulls
	require.False(t, nsp.Any())
	require.False(t, Contains(&nsp, 3))

	Add(&nsp, 1, 3, 5)
	require.True(t, nsp.Any())
	require.True(t, Contains(&nsp, 3))
	require.False(t, Contains(&nsp, 2))
	require.Equal(t, 3, nsp.Count())

	Del(&nsp, 3)
	require.False(t, nsp.Contains(3))
	require.Equal(t, "[1 5]", String(&nsp))

	var nilNsp *Nulls
	require.False(t, Any(nilNsp))
	require.Equal(t, 0, Length(nilNsp))
}

func TestRange(t *testing.T) {
	nsp := Build(10, 0, 2, 4, 6, 8)
	m := &Nulls{}
	Range(nsp, 3, 8, 0, m)
	require.Equal(t, []uint64{1, 3}, m.ToArray())

	shifted := Build(2, 0)
	Range(nsp, 3, 8, 10, shifted)
	require.Equal(t, []uint64{0, 11, 13}, shifted.ToArray())

	empty := &Nulls{}
	require.False(t, Range(empty, 0, 10, 0, &Nulls{}).Any())
}

func TestOrAndFilter(t *testing.T) {
	a := Build(4, 0)
	b := Build(4, 3)
	r := &Nulls{}
	Or(a, b, r)
	require.Equal(t, []uint64{0, 3}, r.ToArray())

	Or(&Nulls{}, &Nulls{}, r)
	require.Nil(t, r.Np)

	c := &Nulls{}
	c.Or(a)
	require.True(t, c.IsSame(a))
	c.Set(2)
	require.False(t, c.IsSame(a))
	require.False(t, a.Contains(2))

	f := Filter(Build(6, 1, 4), []int64{0, 1, 4})
	require.Equal(t, []uint64{1, 2}, f.ToArray())
}

func TestAddRangeAndRemoveRange(t *testing.T) {
	nsp := &Nulls{}
	AddRange(nsp, 2, 6)
	require.Equal(t, []uint64{2, 3, 4, 5}, nsp.ToArray())
	RemoveRange(nsp, 3, 5)
	require.Equal(t, []uint64{2, 5}, nsp.ToArray())
	Reset(nsp)
	require.False(t, nsp.Any())
}

func TestShowRead(t *testing.T) {
	nsp := Build(100, 7, 70)
	data, err := nsp.Show()
	require.NoError(t, err)

	var ret Nulls
	require.NoError(t, ret.Read(data))
	require.True(t, ret.IsSame(nsp))

	clone := nsp.Clone()
	clone.Set(8)
	require.False(t, nsp.Contains(8))
}
