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

package arrayproj

import (
	"github.com/panjf2000/ants/v2"

	"github.com/matrixorigin/arrayfn/pkg/sql/plan/function"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

// Argument describes one projection: Fn over the columns Arguments of
// every batch, written to column Result.
type Argument struct {
	Fn        function.Function
	Arguments []int32
	Result    int32

	// Workers is the number of batches evaluated at the same time.
	Workers int
	// Parallelism splits the rows of one batch across goroutines when
	// greater than 1.
	Parallelism int
}

// Projector evaluates an Argument over many batches on a worker pool.
type Projector struct {
	arg  Argument
	proc *process.Process
	pool *ants.Pool
}
