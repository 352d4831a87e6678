// Copyright 2023 Matrix Origin
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

package function

import (
	"context"

	"go.uber.org/zap"

	"github.com/matrixorigin/arrayfn/pkg/common/concurrent"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/logutil"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

// ParallelEval evaluates rows [0, rows) of params with up to nthreads
// goroutines. Every goroutine evaluates one contiguous row range into its
// own vector, the pieces are concatenated in row order.
func ParallelEval(ctx context.Context, proc *process.Process, fn Function, params []*vector.Vector, rows int, nthreads int) (*vector.Vector, error) {
	executor := concurrent.NewThreadPoolExecutor(nthreads)
	ranges := executor.Split(rows)
	if len(ranges) <= 1 {
		return Eval(proc.NewChild(ctx), fn, params, 0, rows)
	}

	mp := proc.Mp()
	pieces := make([]*vector.Vector, len(ranges))
	freePieces := func() {
		for _, piece := range pieces {
			if piece != nil {
				piece.Free(mp)
			}
		}
	}

	err := executor.Execute(ctx, rows, func(ctx context.Context, thread_id int, start, end int) error {
		vec, err := Eval(proc.NewChild(ctx), fn, params, start, end)
		if err != nil {
			return err
		}
		pieces[thread_id] = vec
		return nil
	})
	if err != nil {
		freePieces()
		return nil, err
	}

	logutil.DebugCtx(ctx, "parallel evaluation done",
		logutil.FunctionField(fn.Name()),
		zap.Int("rows", rows),
		zap.Int("ranges", len(ranges)))

	// the first piece already has the right type, append the others to it
	out := pieces[0]
	pieces[0] = nil
	for _, piece := range pieces[1:] {
		if err = out.UnionRange(piece, 0, piece.Length(), mp); err != nil {
			out.Free(mp)
			freePieces()
			return nil, err
		}
	}
	freePieces()
	return out, nil
}
