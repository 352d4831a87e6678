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
	"sync/atomic"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	e := NewThreadPoolExecutor(3)
	require.Equal(t, [][2]int{{0, 4}, {4, 7}, {7, 10}}, e.Split(10))
	require.Equal(t, [][2]int{{0, 1}, {1, 2}}, e.Split(2))
	require.Empty(t, e.Split(0))

	require.Equal(t, runtime.NumCPU(), NewThreadPoolExecutor(0).NumThreads())
}

func TestExecute(t *testing.T) {
	defer leaktest.AfterTest(t)()

	e := NewThreadPoolExecutor(4)
	var sum atomic.Int64
	seen := make([]int32, 101)
	err := e.Execute(context.Background(), len(seen), func(ctx context.Context, _ int, start, end int) error {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
			sum.Add(int64(i))
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(5050), sum.Load())
	for _, n := range seen {
		require.Equal(t, int32(1), n)
	}
}

func TestExecuteError(t *testing.T) {
	defer leaktest.AfterTest(t)()

	e := NewThreadPoolExecutor(4)
	err := e.Execute(context.Background(), 8, func(ctx context.Context, id int, start, end int) error {
		if id == 2 {
			return moerr.NewInvalidInputNoCtx("range %d-%d", start, end)
		}
		<-ctx.Done()
		return nil
	})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestExecutePanic(t *testing.T) {
	defer leaktest.AfterTest(t)()

	e := NewThreadPoolExecutor(2)
	err := e.Execute(context.Background(), 2, func(ctx context.Context, id int, start, end int) error {
		if id == 1 {
			panic("boom")
		}
		return nil
	})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
}
