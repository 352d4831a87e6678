// Copyright 2021 - 2022 Matrix Origin
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
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/container/batch"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/logutil"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

// VariadicArity is returned by Arity of a function taking any number of
// arguments not less than MinArity.
const VariadicArity = -1

//go:generate mockgen -source=function.go -destination=test/function_mock.go -package=mock_function

// Function is a vectorized built-in function.
type Function interface {
	// Name is the lower case name the function is registered under.
	Name() string

	// Arity is the number of arguments, VariadicArity for variadic functions.
	Arity() int

	// MinArity is the least number of arguments.
	MinArity() int

	// ReturnType checks the argument types and returns the result type.
	ReturnType(ctx context.Context, args []types.Type) (types.Type, error)

	// Eval evaluates rows [start, end) of params and appends end-start
	// rows to result. A constant parameter is broadcast to every row.
	Eval(params []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, start, end int) error
}

type functionRegistry struct {
	sync.RWMutex
	fns map[string]func() Function
}

var registry = &functionRegistry{
	fns: make(map[string]func() Function),
}

// Register adds a function constructor under the name of the function it
// builds. A second registration of the same name is ignored.
func Register(ctor func() Function) {
	name := strings.ToLower(ctor().Name())
	registry.Lock()
	defer registry.Unlock()
	if _, ok := registry.fns[name]; ok {
		return
	}
	registry.fns[name] = ctor
}

// GetFunctionByName returns a new instance of the function registered
// under name.
func GetFunctionByName(ctx context.Context, name string) (Function, error) {
	registry.RLock()
	ctor, ok := registry.fns[strings.ToLower(name)]
	registry.RUnlock()
	if !ok {
		return nil, moerr.NewNotSupported(ctx, "function '%s'", name)
	}
	return ctor(), nil
}

// Names returns the registered function names in order.
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.fns))
	for name := range registry.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkArity(ctx context.Context, fn Function, n int) error {
	if arity := fn.Arity(); arity != VariadicArity {
		if n != arity {
			return moerr.NewInvalidInput(ctx, "function %s takes %d arguments, got %d", fn.Name(), arity, n)
		}
		return nil
	}
	if n < fn.MinArity() {
		return moerr.NewInvalidInput(ctx, "function %s takes at least %d arguments, got %d", fn.Name(), fn.MinArity(), n)
	}
	return nil
}

// ParamTypes returns the types of vecs.
func ParamTypes(vecs []*vector.Vector) []types.Type {
	ts := make([]types.Type, len(vecs))
	for i, v := range vecs {
		ts[i] = *v.GetType()
	}
	return ts
}

// Eval checks fn against params and evaluates rows [start, end) into a
// new vector owned by the caller.
func Eval(proc *process.Process, fn Function, params []*vector.Vector, start, end int) (*vector.Vector, error) {
	ctx := proc.GetContext()
	if err := checkArity(ctx, fn, len(params)); err != nil {
		return nil, err
	}
	rt, err := fn.ReturnType(ctx, ParamTypes(params))
	if err != nil {
		return nil, err
	}
	result := vector.NewFunctionResultWrapper(rt, proc.Mp(), end-start)
	if err = fn.Eval(params, result, proc, start, end); err != nil {
		result.Free()
		return nil, err
	}
	return result.GetResultVector(), nil
}

// Execute evaluates fn over the columns of bat at positions arguments and
// stores the result column at position result. Nothing is stored when it
// fails.
func Execute(proc *process.Process, fn Function, bat *batch.Batch, arguments []int32, result int32, rows int) error {
	ctx := proc.GetContext()
	params := make([]*vector.Vector, len(arguments))
	for i, pos := range arguments {
		if int(pos) >= len(bat.Vecs) || pos < 0 || bat.Vecs[pos] == nil {
			return moerr.NewInvalidInput(ctx, "argument %d of %s refers to column %d", i, fn.Name(), pos)
		}
		params[i] = bat.Vecs[pos]
	}
	if int(result) >= len(bat.Vecs) || result < 0 {
		return moerr.NewInvalidInput(ctx, "result slot %d of %s is out of range", result, fn.Name())
	}

	vec, err := Eval(proc, fn, params, 0, rows)
	if err != nil {
		proc.Error("function execution failed",
			logutil.FunctionField(fn.Name()), zap.Error(err))
		return err
	}
	bat.Vecs[result] = vec
	proc.Debug("function executed",
		logutil.FunctionField(fn.Name()),
		zap.Int("rows", rows),
		zap.String("type", vec.GetType().String()))
	return nil
}

func init() {
	Register(func() Function { return newArraySetFunction(ArrayIntersectName, intersectActionCtor) })
	Register(func() Function { return newArraySetFunction(ArrayUnionName, unionActionCtor) })
	Register(func() Function { return newArrayPopFunction(ArrayPopBackName, popBackRange) })
	Register(func() Function { return newArrayPopFunction(ArrayPopFrontName, popFrontRange) })
	Register(func() Function { return &bitCountFunction{} })
}
