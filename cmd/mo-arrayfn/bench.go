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
	"bytes"
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matrixorigin/arrayfn/pkg/container/batch"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/logutil"
	"github.com/matrixorigin/arrayfn/pkg/sql/colexec/arrayproj"
	"github.com/matrixorigin/arrayfn/pkg/sql/plan/function"
	"github.com/matrixorigin/arrayfn/pkg/testutil"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

type benchArg struct {
	env     *env
	fn      string
	elem    string
	batches int
	rows    int
	nargs   int
}

func benchCommand(e *env) *cobra.Command {
	arg := &benchArg{env: e}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Project a function over random batches and report the timing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return arg.run(cmd)
		},
	}
	cmd.Flags().StringVar(&arg.fn, "func", function.ArrayIntersectName, "function to run")
	cmd.Flags().StringVar(&arg.elem, "elem", "bigint", "element type")
	cmd.Flags().IntVar(&arg.batches, "batches", 16, "number of batches")
	cmd.Flags().IntVar(&arg.rows, "rows", 0, "rows per batch, 0 for the configured batch rows")
	cmd.Flags().IntVar(&arg.nargs, "args", 2, "number of arguments of a variadic function")
	return cmd
}

// argTypes returns the column types fn is run over: arrays of elem when
// fn takes them, plain elem columns otherwise.
func (arg *benchArg) argTypes(ctx context.Context, fn function.Function, elem types.Type) ([]types.Type, error) {
	n := fn.Arity()
	if n == function.VariadicArity {
		n = arg.nargs
		if n < fn.MinArity() {
			n = fn.MinArity()
		}
	}
	ts := make([]types.Type, n)
	for i := range ts {
		ts[i] = types.ArrayOf(elem)
	}
	if _, err := fn.ReturnType(ctx, ts); err == nil {
		return ts, nil
	}
	for i := range ts {
		ts[i] = elem
	}
	if _, err := fn.ReturnType(ctx, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (arg *benchArg) run(cmd *cobra.Command) error {
	cfg := arg.env.cfg
	proc, err := arg.env.newProcess(cmd.Context())
	if err != nil {
		return err
	}
	ctx := proc.GetContext()
	fn, err := function.GetFunctionByName(ctx, arg.fn)
	if err != nil {
		return err
	}
	elemArg := &evalArg{elem: arg.elem, scale: 2}
	elem, err := elemArg.elemType(ctx)
	if err != nil {
		return err
	}
	ts, err := arg.argTypes(ctx, fn, elem)
	if err != nil {
		return err
	}
	rows := arg.rows
	if rows <= 0 {
		rows = cfg.Exec.BatchRows
	}

	bats := make([]*batch.Batch, arg.batches)
	defer cleanBatches(bats, proc)
	positions := make([]int32, len(ts))
	for i := range bats {
		bats[i] = testutil.NewBatch(ts, true, rows, proc.Mp())
		// the result slot
		bats[i].Vecs = append(bats[i].Vecs, nil)
	}
	for i := range positions {
		positions[i] = int32(i)
	}

	projArg := arrayproj.Argument{
		Fn:          fn,
		Arguments:   positions,
		Result:      int32(len(ts)),
		Workers:     cfg.Exec.Workers,
		Parallelism: cfg.Exec.Parallelism,
	}
	p, err := arrayproj.New(proc, projArg)
	if err != nil {
		return err
	}
	defer p.Release()

	var buf bytes.Buffer
	projArg.String(&buf)
	logutil.Info("bench started",
		zap.String("projection", buf.String()),
		zap.Int("batches", arg.batches),
		zap.Int("rows", rows),
		zap.Int("workers", cfg.Exec.Workers),
		zap.Int("parallelism", cfg.Exec.Parallelism))

	start := time.Now()
	if _, err = p.Project(ctx, bats); err != nil {
		return err
	}
	elapsed := time.Since(start)

	total := arg.batches * rows
	rate := float64(total) / elapsed.Seconds()
	logutil.Info("bench finished",
		logutil.FunctionField(fn.Name()),
		zap.Int("rows", total),
		zap.Duration("elapsed", elapsed),
		zap.Float64("rows/s", rate))
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s: %d rows in %s (%.0f rows/s)\n",
		fn.Name(), total, elapsed, rate)
	return nil
}

func cleanBatches(bats []*batch.Batch, proc *process.Process) {
	for _, bat := range bats {
		if bat != nil {
			bat.Clean(proc.Mp())
		}
	}
}
