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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	color.NoColor = true
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
		// set results come in no particular order
		set bool
	}{
		{
			name: "intersect",
			args: []string{"eval", "array_intersect", "[1, 2, 2, 3]", "[2, 3, 4]"},
			want: "[2, 3]",
			set:  true,
		},
		{
			name: "union of strings",
			args: []string{"eval", "array_union", "--elem", "varchar", "[a, b]", "[b, c]"},
			want: "[a, b, c]",
			set:  true,
		},
		{
			name: "intersect of nulls",
			args: []string{"eval", "array_intersect", "[1, null]", "[null, 2]"},
			want: "[null]",
		},
		{
			name: "null row",
			args: []string{"eval", "array_union", "[1]", "null"},
			want: "null",
		},
		{
			name: "pop back",
			args: []string{"eval", "array_popback", "--elem", "int", "[10, 20, 30]"},
			want: "[10, 20]",
		},
		{
			name: "pop front of empty",
			args: []string{"eval", "ARRAY_POPFRONT", "[]"},
			want: "[]",
		},
		{
			name: "bit count",
			args: []string{"eval", "bit_count", "255"},
			want: "8",
		},
		{
			name: "bit count of a negative tinyint",
			args: []string{"eval", "bit_count", "--elem", "tinyint", "--", "-1"},
			want: "8",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, tt.args...)
			require.NoError(t, err)
			if tt.set {
				require.ElementsMatch(t, splitRow(tt.want), splitRow(out))
				return
			}
			require.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

// splitRow returns the elements of a printed array row.
func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimSuffix(strings.TrimPrefix(row, "["), "]")
	if row == "" {
		return nil
	}
	return strings.Split(row, ", ")
}

func TestEvalErrors(t *testing.T) {
	_, err := runCommand(t, "eval", "array_except", "[1]", "[2]")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))

	_, err = runCommand(t, "eval", "array_union", "--elem", "geometry", "[1]", "[2]")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	_, err = runCommand(t, "eval", "array_union", "[1]")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = runCommand(t, "eval", "array_union", "[1, x]", "[2]")
	require.Error(t, err)

	_, err = runCommand(t, "eval", "bit_count", "--elem", "double", "1.5")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArgumentType))
}

func TestTypes(t *testing.T) {
	out, err := runCommand(t, "types")
	require.NoError(t, err)
	require.Contains(t, out, "TAG")
	require.Contains(t, out, "BIGINT")
	for _, name := range []string{"array_intersect", "array_union", "array_popback", "array_popfront", "bit_count"} {
		require.Contains(t, out, name)
	}
}

func TestBench(t *testing.T) {
	out, err := runCommand(t, "bench", "--batches", "3", "--rows", "64")
	require.NoError(t, err)
	require.Contains(t, out, "array_intersect: 192 rows")

	out, err = runCommand(t, "bench", "--func", "bit_count", "--batches", "2", "--rows", "10", "--elem", "int")
	require.NoError(t, err)
	require.Contains(t, out, "bit_count: 20 rows")

	_, err = runCommand(t, "bench", "--func", "bit_count", "--elem", "varchar")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArgumentType))
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	require.NoError(t, os.WriteFile(good, []byte("[exec]\nparallelism = 2\nworkers = 2\n"), 0644))
	out, err := runCommand(t, "--config", good, "bench", "--func", "array_union", "--batches", "2", "--rows", "100")
	require.NoError(t, err)
	require.Contains(t, out, "array_union: 200 rows")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[exec]\nparallelism = -1\n"), 0644))
	_, err = runCommand(t, "--config", bad, "types")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}
