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

	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

const (
	ArrayPopBackName  = "array_popback"
	ArrayPopFrontName = "array_popfront"
)

// popRange maps the element range [lo, hi) of a row to the kept range.
type popRange func(lo, hi uint64) (uint64, uint64)

func popBackRange(lo, hi uint64) (uint64, uint64) {
	if hi > lo {
		return lo, hi - 1
	}
	return lo, lo
}

func popFrontRange(lo, hi uint64) (uint64, uint64) {
	if hi > lo {
		return lo + 1, hi
	}
	return lo, lo
}

// arrayPopFunction drops one element from one end of every row.
type arrayPopFunction struct {
	name string
	keep popRange
}

func newArrayPopFunction(name string, keep popRange) *arrayPopFunction {
	return &arrayPopFunction{
		name: name,
		keep: keep,
	}
}

func (f *arrayPopFunction) Name() string {
	return f.name
}

func (f *arrayPopFunction) Arity() int {
	return 1
}

func (f *arrayPopFunction) MinArity() int {
	return 1
}

func (f *arrayPopFunction) ReturnType(ctx context.Context, args []types.Type) (types.Type, error) {
	return arrayReturnType(ctx, f.name, args)
}

func (f *arrayPopFunction) Eval(params []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, start, end int) error {
	d, err := vector.ExtractArrayExecutionData(proc.GetContext(), params[0])
	if err != nil {
		return err
	}
	b := vector.MustArrayResult(result).ArrayBuilder
	markNullableElems(b, d)
	for row := start; row < end; row++ {
		r := vector.ResolveRowIndex(row, d.IsConst)
		if d.IsRowNull(r) {
			if err = b.AppendRowNull(); err != nil {
				return err
			}
			continue
		}
		lo, hi := f.keep(d.RowRange(r))
		if err = b.AppendRange(d.Nested, lo, hi); err != nil {
			return err
		}
		if err = b.FinishRow(); err != nil {
			return err
		}
	}
	return nil
}
