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
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
	"github.com/matrixorigin/arrayfn/pkg/config"
	"github.com/matrixorigin/arrayfn/pkg/logutil"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

var (
	setupLoggerOnce sync.Once

	errColor = color.New(color.FgRed, color.Bold)
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		errColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is shared by the sub commands, it is filled before any of them runs.
type env struct {
	configFile string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "mo-arrayfn",
		Short:         "Evaluate vectorized array functions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
	}
	root.PersistentFlags().StringVar(&e.configFile, "config", "", "toml configuration file")

	root.AddCommand(evalCommand(e))
	root.AddCommand(benchCommand(e))
	root.AddCommand(typesCommand())
	return root
}

func (e *env) setup() error {
	cfg, err := config.LoadConfig(e.configFile)
	if err != nil {
		return err
	}
	e.cfg = cfg
	setupLogger(cfg)
	return nil
}

func setupLogger(cfg *config.Config) {
	setupLoggerOnce.Do(func() {
		logutil.SetupMOLogger(&cfg.Log)
	})
}

// newProcess returns a process whose pool is bounded by the exec
// memory cap.
func (e *env) newProcess(ctx context.Context) (*process.Process, error) {
	mp, err := mpool.NewMPool("mo-arrayfn", e.cfg.Exec.MemoryCap, mpool.NoFixed)
	if err != nil {
		return nil, err
	}
	proc := process.New(config.WithConfig(ctx, e.cfg), mp)
	proc.Lim = e.cfg.Limitation()
	return proc, nil
}

func checkLeak(proc *process.Process) error {
	if n := proc.Mp().CurrNB(); n != 0 {
		return moerr.NewInternalError(proc.GetContext(), "%d bytes of %s are still in use", n, proc.Mp().Tag())
	}
	return nil
}
