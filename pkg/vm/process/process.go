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

package process

import (
	"context"

	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/container/nulls"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/logutil"

	"go.uber.org/zap"
)

// New creates a process using mp for every vector it allocates.
func New(ctx context.Context, mp *mpool.MPool) *Process {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Process{
		Ctx: ctx,
		Lim: Limitation{
			Size:        mp.Cap(),
			BatchRows:   DefaultBatchSize,
			Parallelism: 1,
		},
		mp: mp,
	}
}

// NewChild returns a process sharing mp and limits but running under ctx.
func (proc *Process) NewChild(ctx context.Context) *Process {
	return &Process{
		Ctx: ctx,
		Lim: proc.Lim,
		mp:  proc.GetMPool(),
	}
}

// xxxProcMp serves processes built without a pool, tests mostly.
var xxxProcMp = mpool.MustNewZero()

func (proc *Process) GetMPool() *mpool.MPool {
	if proc == nil || proc.mp == nil {
		return xxxProcMp
	}
	return proc.mp
}

func (proc *Process) Mp() *mpool.MPool {
	return proc.GetMPool()
}

func (proc *Process) GetContext() context.Context {
	if proc == nil || proc.Ctx == nil {
		return context.Background()
	}
	return proc.Ctx
}

func (proc *Process) GetLim() Limitation {
	return proc.Lim
}

func (proc *Process) OperatorOutofMemory(size int64) bool {
	return proc.Mp().Cap() > 0 && proc.Mp().Cap() < size
}

// AllocVectorOfRows returns a flat vector of nele zero rows, nsp marks the
// NULL ones.
func (proc *Process) AllocVectorOfRows(typ types.Type, nele int, nsp *nulls.Nulls) (*vector.Vector, error) {
	vec := vector.NewVec(typ)
	err := vec.PreExtend(nele, proc.Mp())
	if err != nil {
		return nil, err
	}
	vec.SetLength(nele)
	if nsp != nil {
		vec.GetNulls().Or(nsp)
	}
	return vec, nil
}

func (proc *Process) Info(msg string, fields ...zap.Field) {
	logutil.InfoCtx(proc.GetContext(), msg, fields...)
}

func (proc *Process) Error(msg string, fields ...zap.Field) {
	logutil.ErrorCtx(proc.GetContext(), msg, fields...)
}

func (proc *Process) Warn(msg string, fields ...zap.Field) {
	logutil.WarnCtx(proc.GetContext(), msg, fields...)
}

func (proc *Process) Debug(msg string, fields ...zap.Field) {
	logutil.DebugCtx(proc.GetContext(), msg, fields...)
}
