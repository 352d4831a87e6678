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

package process

import (
	"context"

	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
)

const DefaultBatchSize = 8192

type Limitation struct {
	// Size, memory threshold of the process mpool.
	Size int64
	// BatchRows, max rows for batch.
	BatchRows int64
	// Parallelism, number of row ranges a single evaluation may be split into.
	Parallelism int
}

// Process contains the resources of one function invocation. It is
// not shared between goroutines, ParallelEval gives each worker its own
// child process.
type Process struct {
	Ctx context.Context
	Lim Limitation

	mp *mpool.MPool
}
