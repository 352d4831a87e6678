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
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/sql/plan/function"
)

func typesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the wire type tags and the functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			missing := color.New(color.FgYellow)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			bold.Fprintln(w, "TAG\tWIRE\tINTERNAL\tNAME")
			for _, wt := range types.WireTypes() {
				t, err := types.TagToInternal(cmd.Context(), wt)
				if err != nil {
					fmt.Fprintf(w, "%d\t%s\t%s\t\n", int32(wt), wt, missing.Sprint("-"))
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", int32(wt), wt, int32(t), types.TypeName(t))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			bold.Fprintln(out, "FUNCTIONS")
			for _, name := range function.Names() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
