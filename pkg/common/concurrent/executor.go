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

package concurrent

import (
	"context"
	"runtime"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"golang.org/x/sync/errgroup"
)

type ThreadPoolExecutor struct {
	nthreads int
}

func NewThreadPoolExecutor(nthreads int) ThreadPoolExecutor {
	if nthreads <= 0 {
		nthreads = runtime.NumCPU()
	}
	return ThreadPoolExecutor{nthreads: nthreads}
}

func (e ThreadPoolExecutor) NumThreads() int {
	return e.nthreads
}

// Split cuts [0, nitems) into at most nthreads contiguous ranges, the
// first nitems%nthreads ranges get one extra item. Range i is the one
// Execute hands to thread i.
func (e ThreadPoolExecutor) Split(nitems int) [][2]int {
	q := nitems / e.nthreads
	r := nitems % e.nthreads

	ranges := make([][2]int, 0, e.nthreads)
	start := 0
	for i := 0; i < e.nthreads; i++ {
		size := q
		if i < r {
			size++
		}
		if size == 0 {
			break
		}
		ranges = append(ranges, [2]int{start, start + size})
		start += size
	}
	return ranges
}

// Execute runs fn over the ranges of Split, one goroutine each. The first
// error cancels ctx for the others and is returned. A panic in fn is
// returned as an error.
func (e ThreadPoolExecutor) Execute(
	ctx context.Context,
	nitems int,
	fn func(ctx context.Context, thread_id int, start, end int) error) (err error) {

	g, ctx := errgroup.WithContext(ctx)

	for i, rg := range e.Split(nitems) {
		thread_id := i
		curStart, curEnd := rg[0], rg[1]
		g.Go(func() (err2 error) {
			defer func() {
				if r := recover(); r != nil {
					err2 = moerr.ConvertPanicError(ctx, r)
				}
			}()
			if err2 = fn(ctx, thread_id, curStart, curEnd); err2 != nil {
				return err2
			}

			return nil
		})
	}

	return g.Wait()
}
