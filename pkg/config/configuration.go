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

package config

import (
	"context"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/logutil"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

type ConfigurationKeyType int

const (
	ParameterUnitKey ConfigurationKeyType = 1
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"

	// MaxParallelism bounds the number of row ranges of one evaluation.
	MaxParallelism = 256
)

// Config is the configuration of mo-arrayfn.
type Config struct {
	Log  logutil.LogConfig `toml:"log"`
	Exec ExecConfig        `toml:"exec"`
}

// ExecConfig of the function execution
type ExecConfig struct {
	//size of the projection worker pool. default: number of cpus
	Workers int `toml:"workers"`

	//number of row ranges a single function evaluation is split into. default: 1
	Parallelism int `toml:"parallelism"`

	//rows of a generated batch. default: 8192
	BatchRows int `toml:"batch-rows"`

	//bytes the memory pool may hand out, 0 means unlimited. default: 0
	MemoryCap int64 `toml:"memory-cap"`
}

// LoadConfig reads the toml file at path, missing values get defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, moerr.NewBadConfigNoCtx("decode %s: %v", path, err)
		}
	}
	cfg.FillDefault()
	if err := cfg.Validate(context.Background()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FillDefault sets the zero fields to their default value.
func (c *Config) FillDefault() {
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	if c.Exec.Workers == 0 {
		c.Exec.Workers = runtime.NumCPU()
	}
	if c.Exec.Parallelism == 0 {
		c.Exec.Parallelism = 1
	}
	if c.Exec.BatchRows == 0 {
		c.Exec.BatchRows = process.DefaultBatchSize
	}
}

func (c *Config) Validate(ctx context.Context) error {
	switch c.Log.Format {
	case "console", "json":
	default:
		return moerr.NewBadConfig(ctx, "log format '%s'", c.Log.Format)
	}
	if c.Exec.Workers < 0 {
		return moerr.NewBadConfig(ctx, "exec workers %d", c.Exec.Workers)
	}
	if c.Exec.Parallelism < 1 || c.Exec.Parallelism > MaxParallelism {
		return moerr.NewBadConfig(ctx, "exec parallelism %d, must be in [1, %d]", c.Exec.Parallelism, MaxParallelism)
	}
	if c.Exec.BatchRows < 0 {
		return moerr.NewBadConfig(ctx, "exec batch-rows %d", c.Exec.BatchRows)
	}
	if c.Exec.MemoryCap < 0 {
		return moerr.NewBadConfig(ctx, "exec memory-cap %d", c.Exec.MemoryCap)
	}
	return nil
}

// Limitation returns the process limits described by the exec section.
func (c *Config) Limitation() process.Limitation {
	return process.Limitation{
		Size:        c.Exec.MemoryCap,
		BatchRows:   int64(c.Exec.BatchRows),
		Parallelism: c.Exec.Parallelism,
	}
}

// WithConfig attaches cfg to ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ParameterUnitKey, cfg)
}

// GetConfig returns the config attached to ctx, nil if there is none.
func GetConfig(ctx context.Context) *Config {
	cfg, _ := ctx.Value(ParameterUnitKey).(*Config)
	return cfg
}
