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

package arrayproj

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/container/batch"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/logutil"
	"github.com/matrixorigin/arrayfn/pkg/sql/plan/function"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

func (arg Argument) String(buf *bytes.Buffer) {
	buf.WriteString(fmt.Sprintf("array projection: %s(", arg.Fn.Name()))
	for i, pos := range arg.Arguments {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(fmt.Sprintf("#%d", pos))
	}
	buf.WriteString(fmt.Sprintf(") -> #%d", arg.Result))
}

// New checks arg and starts the worker pool. Release must be called when
// the projector is no longer used.
func New(proc *process.Process, arg Argument) (*Projector, error) {
	ctx := proc.GetContext()
	if arg.Fn == nil {
		return nil, moerr.NewInvalidInput(ctx, "array projection without a function")
	}
	if arg.Workers <= 0 {
		arg.Workers = runtime.NumCPU()
	}
	if arg.Parallelism <= 0 {
		arg.Parallelism = 1
	}
	pool, err := ants.NewPool(arg.Workers, ants.WithPanicHandler(func(v interface{}) {
		logutil.Error("array projection worker panic",
			logutil.FunctionField(arg.Fn.Name()),
			zap.Any("panic", v))
	}))
	if err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	return &Projector{
		arg:  arg,
		proc: proc,
		pool: pool,
	}, nil
}

func (p *Projector) Release() {
	if p.pool != nil {
		p.pool.Release()
		p.pool = nil
	}
}

// Project evaluates the projection over bats and stores every result in
// its batch. Results are returned in the order of bats. On failure no
// batch keeps a result and the first error is returned.
func (p *Projector) Project(parent context.Context, bats []*batch.Batch) ([]*vector.Vector, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	setErr := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	results := make([]*vector.Vector, len(bats))
	for i := range bats {
		idx := i
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					setErr(moerr.ConvertPanicError(ctx, r))
				}
			}()
			if ctx.Err() != nil {
				return
			}
			vec, err := p.projectOne(ctx, bats[idx])
			if err != nil {
				setErr(err)
				return
			}
			results[idx] = vec
		})
		if err != nil {
			wg.Done()
			setErr(moerr.ConvertGoError(ctx, err))
			break
		}
	}
	wg.Wait()

	if firstErr == nil {
		// batches skipped because parent was cancelled
		for _, vec := range results {
			if vec == nil {
				firstErr = moerr.ConvertGoError(parent, parent.Err())
				break
			}
		}
	}
	if firstErr != nil {
		mp := p.proc.Mp()
		for i, vec := range results {
			if vec == nil {
				continue
			}
			bats[i].Vecs[p.arg.Result] = nil
			vec.Free(mp)
		}
		return nil, firstErr
	}
	return results, nil
}

func (p *Projector) projectOne(ctx context.Context, bat *batch.Batch) (*vector.Vector, error) {
	proc := p.proc.NewChild(ctx)
	if p.arg.Parallelism <= 1 {
		if err := function.Execute(proc, p.arg.Fn, bat, p.arg.Arguments, p.arg.Result, bat.RowCount()); err != nil {
			return nil, err
		}
		return bat.Vecs[p.arg.Result], nil
	}

	if int(p.arg.Result) >= len(bat.Vecs) || p.arg.Result < 0 {
		return nil, moerr.NewInvalidInput(ctx, "result slot %d is out of range", p.arg.Result)
	}
	params := make([]*vector.Vector, len(p.arg.Arguments))
	for i, pos := range p.arg.Arguments {
		if int(pos) >= len(bat.Vecs) || pos < 0 || bat.Vecs[pos] == nil {
			return nil, moerr.NewInvalidInput(ctx, "argument %d refers to column %d", i, pos)
		}
		params[i] = bat.Vecs[pos]
	}
	vec, err := function.ParallelEval(ctx, proc, p.arg.Fn, params, bat.RowCount(), p.arg.Parallelism)
	if err != nil {
		return nil, err
	}
	bat.Vecs[p.arg.Result] = vec
	return vec, nil
}
