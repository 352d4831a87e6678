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

const (
	UnitLimit = 256
)

// FreqMap counts, for each key, the number of distinct arguments that
// contain it. One map is owned by one invocation and reset per row.
type FreqMap[K any] interface {
	// Reset drops every key but keeps the allocated memory.
	Reset()
	// Add records key for argument arg. A key already counted for arg is
	// not counted again. An unseen key is inserted only if allowInsert.
	Add(key K, arg int, allowInsert bool)
	// Iterate calls fn for every key with its count until fn returns an
	// error. Callers must not depend on the order.
	Iterate(fn func(key K, cnt int) error) error
	// Len returns the number of distinct keys.
	Len() int
}

var _ FreqMap[int64] = &FixedFreqMap[int64]{}
var _ FreqMap[[]byte] = &StrFreqMap{}

type freqEntry struct {
	cnt int
	// argument that counted the key last
	lastArg int
}

// FixedFreqMap is keyed by a fixed width value, two keys are equal when
// they compare equal in Go. Keys iterate in insertion order.
type FixedFreqMap[K comparable] struct {
	index   map[K]int32
	entries []fixedEntry[K]
}

type fixedEntry[K comparable] struct {
	key K
	freqEntry
}

// StrFreqMap is keyed by byte content. Keys are copied into an arena so
// the caller may reuse its buffers. Keys iterate in insertion order.
type StrFreqMap struct {
	// content hash -> indexes into entries
	buckets map[uint64][]int32
	entries []strEntry
	arena   []byte
}

type strEntry struct {
	off, len uint32
	freqEntry
}
