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

package main

import (
	"context"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/sql/plan/function"
)

type evalArg struct {
	env   *env
	elem  string
	scale int32
}

func evalCommand(e *env) *cobra.Command {
	arg := &evalArg{env: e}
	cmd := &cobra.Command{
		Use:   "eval <function> <argument>...",
		Short: "Evaluate a function over one row",
		Long: `Evaluate a function over one row. An argument written like [1, 2, null]
is an array of --elem elements, null is a NULL row, anything else is a
scalar of type --elem.`,
		Example: `  mo-arrayfn eval array_intersect '[1, 2, 2, 3]' '[2, 3, 4]'
  mo-arrayfn eval array_union --elem varchar '[a, b]' '[b, c]'
  mo-arrayfn eval bit_count 255`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return arg.run(cmd, args[0], args[1:])
		},
	}
	cmd.Flags().StringVar(&arg.elem, "elem", "bigint", "element type of array arguments, type of scalar ones")
	cmd.Flags().Int32Var(&arg.scale, "scale", 2, "scale of decimal elements")
	return cmd
}

func (arg *evalArg) elemType(ctx context.Context) (types.Type, error) {
	oid, ok := types.Types[strings.ToLower(arg.elem)]
	if !ok {
		return types.Type{}, moerr.NewInvalidArg(ctx, "elem", arg.elem)
	}
	typ := oid.ToType()
	if oid == types.T_decimal64 || oid == types.T_decimal128 {
		typ.Scale = arg.scale
	}
	return typ, nil
}

func (arg *evalArg) run(cmd *cobra.Command, name string, literals []string) error {
	proc, err := arg.env.newProcess(cmd.Context())
	if err != nil {
		return err
	}
	ctx := proc.GetContext()
	fn, err := function.GetFunctionByName(ctx, name)
	if err != nil {
		return err
	}
	elem, err := arg.elemType(ctx)
	if err != nil {
		return err
	}

	mp := proc.Mp()
	params := make([]*vector.Vector, 0, len(literals))
	defer func() {
		for _, p := range params {
			p.Free(mp)
		}
	}()
	scalar := isScalarCall(literals)
	for _, lit := range literals {
		v, err := newArgument(elem, lit, scalar, mp)
		if err != nil {
			return err
		}
		params = append(params, v)
	}

	res, err := function.Eval(proc, fn, params, 0, 1)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s\n", res.RowString(0))
	res.Free(mp)
	for _, p := range params {
		p.Free(mp)
	}
	params = nil
	return checkLeak(proc)
}

// isScalarCall reports whether the first non-null literal is a scalar.
// A call made of nulls only takes arrays.
func isScalarCall(literals []string) bool {
	for _, lit := range literals {
		if isNullLiteral(lit) {
			continue
		}
		return !strings.HasPrefix(strings.TrimSpace(lit), "[")
	}
	return false
}

func isNullLiteral(lit string) bool {
	return strings.EqualFold(strings.TrimSpace(lit), "null")
}

func newArgument(elem types.Type, lit string, scalar bool, mp *mpool.MPool) (*vector.Vector, error) {
	if !scalar {
		return vector.NewArrayVectorFromLiterals(types.ArrayOf(elem), []string{lit}, mp)
	}
	vec := vector.NewVec(elem)
	var err error
	if isNullLiteral(lit) {
		err = vector.AppendNull(vec, mp)
	} else {
		var val any
		if val, err = types.ParseValue(elem, strings.TrimSpace(lit)); err == nil {
			err = vector.AppendAny(vec, val, false, mp)
		}
	}
	if err != nil {
		vec.Free(mp)
		return nil, err
	}
	return vec, nil
}
