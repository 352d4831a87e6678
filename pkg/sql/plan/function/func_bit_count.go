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
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

const BitCountName = "bit_count"

type bitCountT interface {
	constraints.Integer
	types.FixedSizeT
}

// bitCountFunction counts the set bits of an integer. The result is a
// tinyint, a smallint for 128 bit input.
type bitCountFunction struct{}

func (f *bitCountFunction) Name() string {
	return BitCountName
}

func (f *bitCountFunction) Arity() int {
	return 1
}

func (f *bitCountFunction) MinArity() int {
	return 1
}

func (f *bitCountFunction) ReturnType(ctx context.Context, args []types.Type) (types.Type, error) {
	if len(args) != 1 {
		return types.Type{}, moerr.NewInvalidInput(ctx, "function %s takes 1 argument, got %d", BitCountName, len(args))
	}
	switch args[0].Oid {
	case types.T_int8, types.T_int16, types.T_int32, types.T_int64,
		types.T_uint8, types.T_uint16, types.T_uint32, types.T_uint64:
		return types.T_int8.ToType(), nil
	case types.T_int128:
		return types.T_int16.ToType(), nil
	}
	return types.Type{}, moerr.NewInvalidArgumentType(ctx, BitCountName, args[0].String())
}

func (f *bitCountFunction) Eval(params []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, start, end int) error {
	v := params[0]
	switch v.GetType().Oid {
	case types.T_int8:
		return bitCount[int8](v, result, start, end)
	case types.T_int16:
		return bitCount[int16](v, result, start, end)
	case types.T_int32:
		return bitCount[int32](v, result, start, end)
	case types.T_int64:
		return bitCount[int64](v, result, start, end)
	case types.T_uint8:
		return bitCount[uint8](v, result, start, end)
	case types.T_uint16:
		return bitCount[uint16](v, result, start, end)
	case types.T_uint32:
		return bitCount[uint32](v, result, start, end)
	case types.T_uint64:
		return bitCount[uint64](v, result, start, end)
	case types.T_int128:
		return bitCountInt128(v, result, start, end)
	}
	return moerr.NewInvalidArgumentType(proc.GetContext(), BitCountName, v.GetType().String())
}

func bitCount[T bitCountT](v *vector.Vector, result vector.FunctionResultWrapper, start, end int) error {
	p := vector.GenerateFunctionFixedTypeParameter[T](v)
	rs := vector.MustFunctionResult[int8](result)

	var zero T
	// signed values are counted on their two's complement of the same width
	mask := ^uint64(0) >> (64 - 8*unsafe.Sizeof(zero))
	for i := start; i < end; i++ {
		val, null := p.GetValue(uint64(i))
		if null {
			if err := rs.Append(0, true); err != nil {
				return err
			}
			continue
		}
		if err := rs.Append(int8(bits.OnesCount64(uint64(val)&mask)), false); err != nil {
			return err
		}
	}
	return nil
}

func bitCountInt128(v *vector.Vector, result vector.FunctionResultWrapper, start, end int) error {
	p := vector.GenerateFunctionFixedTypeParameter[types.Int128](v)
	rs := vector.MustFunctionResult[int16](result)
	for i := start; i < end; i++ {
		val, null := p.GetValue(uint64(i))
		if null {
			if err := rs.Append(0, true); err != nil {
				return err
			}
			continue
		}
		cnt := bits.OnesCount64(val.B0_63) + bits.OnesCount64(val.B64_127)
		if err := rs.Append(int16(cnt), false); err != nil {
			return err
		}
	}
	return nil
}
