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

package mpool

import (
	"fmt"
	"sync/atomic"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
)

const (
	NoFixed  = 1
	NoLock   = 2
	PageSize = 4096
)

// MPoolStats tracks the bytes and allocations handed out by one MPool.
type MPoolStats struct {
	NumAlloc      atomic.Int64
	NumFree       atomic.Int64
	NumCurrBytes  atomic.Int64
	HighWaterMark atomic.Int64
}

func (s *MPoolStats) Report(tab string) string {
	if s.HighWaterMark.Load() == 0 {
		return ""
	}
	ret := ""
	ret += fmt.Sprintf("%s allocations : %d\n", tab, s.NumAlloc.Load())
	ret += fmt.Sprintf("%s frees : %d\n", tab, s.NumFree.Load())
	ret += fmt.Sprintf("%s current bytes : %d\n", tab, s.NumCurrBytes.Load())
	ret += fmt.Sprintf("%s high water mark : %d\n", tab, s.HighWaterMark.Load())
	return ret
}

func (s *MPoolStats) recordAlloc(sz int64) int64 {
	s.NumAlloc.Add(1)
	curr := s.NumCurrBytes.Add(sz)
	for {
		hwm := s.HighWaterMark.Load()
		if curr <= hwm || s.HighWaterMark.CompareAndSwap(hwm, curr) {
			break
		}
	}
	return curr
}

func (s *MPoolStats) recordFree(sz int64) int64 {
	s.NumFree.Add(1)
	return s.NumCurrBytes.Add(-sz)
}

// MPool is a byte allocator with a capacity limit. Every vector buffer
// goes through a pool so a query can be bounded in memory.
type MPool struct {
	tag   string
	cap   int64
	flag  int
	stats MPoolStats
}

// NewMPool creates a pool, cap == 0 means no limit.
func NewMPool(tag string, cap int64, flag int) (*MPool, error) {
	if cap < 0 {
		return nil, moerr.NewInvalidInputNoCtx("mpool %s cap %d", tag, cap)
	}
	return &MPool{tag: tag, cap: cap, flag: flag}, nil
}

func MustNew(tag string) *MPool {
	mp, err := NewMPool(tag, 0, NoFixed)
	if err != nil {
		panic(err)
	}
	return mp
}

// MustNewZero is used by tests.
func MustNewZero() *MPool {
	return MustNew("zero")
}

func (mp *MPool) Tag() string {
	return mp.tag
}

func (mp *MPool) Cap() int64 {
	return mp.cap
}

func (mp *MPool) CurrNB() int64 {
	return mp.stats.NumCurrBytes.Load()
}

func (mp *MPool) Stats() *MPoolStats {
	return &mp.stats
}

func (mp *MPool) Report() string {
	ret := fmt.Sprintf("    mpool stats: %s\n", mp.tag)
	ret += mp.stats.Report("        ")
	return ret
}

// Alloc returns a zeroed buffer of sz bytes.
func (mp *MPool) Alloc(sz int) ([]byte, error) {
	if sz < 0 {
		return nil, moerr.NewInternalErrorNoCtx("mpool %s invalid alloc size %d", mp.tag, sz)
	}
	if sz == 0 {
		return nil, nil
	}
	if curr := mp.stats.recordAlloc(int64(sz)); mp.cap > 0 && curr > mp.cap {
		mp.stats.recordFree(int64(sz))
		return nil, moerr.NewOOMNoCtx()
	}
	return make([]byte, sz), nil
}

func (mp *MPool) Free(bs []byte) {
	if bs == nil || cap(bs) == 0 {
		return
	}
	mp.stats.recordFree(int64(cap(bs)))
}

// Realloc grows old to sz bytes, old content is kept and the tail zeroed.
func (mp *MPool) Realloc(old []byte, sz int) ([]byte, error) {
	if sz <= cap(old) {
		return old[:sz], nil
	}
	bs, err := mp.Alloc(sz)
	if err != nil {
		return nil, err
	}
	copy(bs, old)
	mp.Free(old)
	return bs, nil
}

// Grow is Realloc with doubling, it keeps len(old).
func (mp *MPool) Grow(old []byte, sz int) ([]byte, error) {
	if sz <= cap(old) {
		return old[:sz], nil
	}
	newCap := calculateNewCap(cap(old), sz)
	bs, err := mp.Realloc(old, newCap)
	if err != nil {
		return nil, err
	}
	return bs[:sz], nil
}

func calculateNewCap(oldCap int, requiredSize int) int {
	newcap := oldCap
	doublecap := newcap + newcap
	if requiredSize > doublecap {
		newcap = requiredSize
	} else {
		if oldCap < 1024 {
			newcap = doublecap
		} else {
			for 0 < newcap && newcap < requiredSize {
				newcap += newcap / 4
			}
			if newcap <= 0 {
				newcap = requiredSize
			}
		}
	}
	return newcap
}
