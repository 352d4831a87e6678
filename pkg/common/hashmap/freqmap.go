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
	"bytes"

	"github.com/cespare/xxhash/v2"
)

func NewFixedFreqMap[K comparable]() *FixedFreqMap[K] {
	return &FixedFreqMap[K]{
		index:   make(map[K]int32, UnitLimit),
		entries: make([]fixedEntry[K], 0, UnitLimit),
	}
}

func (m *FixedFreqMap[K]) Reset() {
	clear(m.index)
	m.entries = m.entries[:0]
}

func (m *FixedFreqMap[K]) Add(key K, arg int, allowInsert bool) {
	idx, ok := m.index[key]
	if !ok {
		if allowInsert {
			m.index[key] = int32(len(m.entries))
			m.entries = append(m.entries, fixedEntry[K]{
				key:       key,
				freqEntry: freqEntry{cnt: 1, lastArg: arg},
			})
		}
		return
	}
	if e := &m.entries[idx]; e.lastArg != arg {
		e.cnt++
		e.lastArg = arg
	}
}

func (m *FixedFreqMap[K]) Iterate(fn func(key K, cnt int) error) error {
	for i := range m.entries {
		if err := fn(m.entries[i].key, m.entries[i].cnt); err != nil {
			return err
		}
	}
	return nil
}

func (m *FixedFreqMap[K]) Len() int {
	return len(m.entries)
}

func NewStrFreqMap() *StrFreqMap {
	return &StrFreqMap{
		buckets: make(map[uint64][]int32, UnitLimit),
		entries: make([]strEntry, 0, UnitLimit),
	}
}

func (m *StrFreqMap) Reset() {
	clear(m.buckets)
	m.entries = m.entries[:0]
	m.arena = m.arena[:0]
}

func (m *StrFreqMap) key(e *strEntry) []byte {
	return m.arena[e.off : e.off+e.len : e.off+e.len]
}

func (m *StrFreqMap) Add(key []byte, arg int, allowInsert bool) {
	h := xxhash.Sum64(key)
	idxs := m.buckets[h]
	for _, idx := range idxs {
		e := &m.entries[idx]
		if !bytes.Equal(m.key(e), key) {
			continue
		}
		if e.lastArg != arg {
			e.cnt++
			e.lastArg = arg
		}
		return
	}
	if !allowInsert {
		return
	}
	off := len(m.arena)
	m.arena = append(m.arena, key...)
	m.entries = append(m.entries, strEntry{
		off:       uint32(off),
		len:       uint32(len(key)),
		freqEntry: freqEntry{cnt: 1, lastArg: arg},
	})
	m.buckets[h] = append(idxs, int32(len(m.entries)-1))
}

// Iterate yields keys that alias the arena, they are valid until Reset.
func (m *StrFreqMap) Iterate(fn func(key []byte, cnt int) error) error {
	for i := range m.entries {
		e := &m.entries[i]
		if err := fn(m.key(e), e.cnt); err != nil {
			return err
		}
	}
	return nil
}

func (m *StrFreqMap) Len() int {
	return len(m.entries)
}
