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
	"strings"

	"golang.org/x/exp/slices"

	"go.uber.org/zap"

	"github.com/matrixorigin/arrayfn/pkg/common/hashmap"
	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/matrixorigin/arrayfn/pkg/container/types"
	"github.com/matrixorigin/arrayfn/pkg/container/vector"
	"github.com/matrixorigin/arrayfn/pkg/logutil"
	"github.com/matrixorigin/arrayfn/pkg/vm/process"
)

const (
	ArrayIntersectName = "array_intersect"
	ArrayUnionName     = "array_union"
)

// setAction decides, per row, which keys of the frequency map make it
// into the output and whether a NULL element does.
type setAction interface {
	// reset prepares for a row of nargs arguments.
	reset(nargs int)
	// insertable reports whether argument argIdx may add unseen keys.
	insertable(argIdx int) bool
	// noteNull records a NULL element in the row of argument argIdx.
	noteNull(argIdx int)
	// applyNull reports whether the output row gets a NULL element.
	applyNull() bool
	// emit reports whether a key counted by cnt of n arguments is output.
	emit(cnt, n int) bool
}

// intersectAction keeps the keys every argument contains. The output row
// holds a NULL element only when every argument's row holds one.
type intersectAction struct {
	nargs       int
	nullArgs    int
	lastNullArg int
}

func intersectActionCtor() setAction {
	return &intersectAction{}
}

func (a *intersectAction) reset(nargs int) {
	a.nargs = nargs
	a.nullArgs = 0
	a.lastNullArg = -1
}

func (a *intersectAction) insertable(argIdx int) bool {
	return argIdx == 0
}

func (a *intersectAction) noteNull(argIdx int) {
	if argIdx != a.lastNullArg {
		a.nullArgs++
		a.lastNullArg = argIdx
	}
}

func (a *intersectAction) applyNull() bool {
	return a.nargs > 0 && a.nullArgs == a.nargs
}

func (a *intersectAction) emit(cnt, n int) bool {
	return cnt == n
}

// unionAction keeps every key, a NULL element of any argument survives.
type unionAction struct {
	hasNull bool
}

func unionActionCtor() setAction {
	return &unionAction{}
}

func (a *unionAction) reset(_ int) {
	a.hasNull = false
}

func (a *unionAction) insertable(_ int) bool {
	return true
}

func (a *unionAction) noteNull(_ int) {
	a.hasNull = true
}

func (a *unionAction) applyNull() bool {
	return a.hasNull
}

func (a *unionAction) emit(_, _ int) bool {
	return true
}

// keySource reads the elements of the dispatched physical type and
// writes the selected keys back to the output.
type keySource[K any] interface {
	key(arg int, i uint64) K
	appendKey(b *vector.ArrayBuilder, k K) error
}

type fixedSource[T comparable] struct {
	cols [][]T
}

func newFixedSource[T comparable](datas []*vector.ArrayExecutionData) *fixedSource[T] {
	s := &fixedSource[T]{cols: make([][]T, len(datas))}
	for i, d := range datas {
		s.cols[i] = vector.MustFixedCol[T](d.Nested)
	}
	return s
}

func (s *fixedSource[T]) key(arg int, i uint64) T {
	return s.cols[arg][i]
}

func (s *fixedSource[T]) appendKey(b *vector.ArrayBuilder, k T) error {
	return vector.AppendElem(b, k)
}

type strSource struct {
	cols  [][]types.Varlena
	areas [][]byte
}

func newStrSource(datas []*vector.ArrayExecutionData) *strSource {
	s := &strSource{
		cols:  make([][]types.Varlena, len(datas)),
		areas: make([][]byte, len(datas)),
	}
	for i, d := range datas {
		s.cols[i] = vector.MustFixedCol[types.Varlena](d.Nested)
		s.areas[i] = d.Nested.GetArea()
	}
	return s
}

func (s *strSource) key(arg int, i uint64) []byte {
	return s.cols[arg][i].GetByteSlice(s.areas[arg])
}

func (s *strSource) appendKey(b *vector.ArrayBuilder, k []byte) error {
	return b.AppendElemBytes(k)
}

// setCandidate is one physical representation the set operations can run on.
type setCandidate struct {
	name  string
	match func(datas []*vector.ArrayExecutionData) bool
	eval  func(act setAction, datas []*vector.ArrayExecutionData, rs *vector.ArrayResult, start, end int) error
}

// backedBy reports whether every nested column is stored as T and is of
// one of the element types oids.
func backedBy[T any](oids ...types.T) func(datas []*vector.ArrayExecutionData) bool {
	return func(datas []*vector.ArrayExecutionData) bool {
		for _, d := range datas {
			if !vector.IsBackedBy[T](d.Nested) || !slices.Contains(oids, d.Nested.GetType().Oid) {
				return false
			}
		}
		return true
	}
}

func fixedCandidate[T comparable](name string, oid types.T) setCandidate {
	return setCandidate{
		name:  name,
		match: backedBy[T](oid),
		eval: func(act setAction, datas []*vector.ArrayExecutionData, rs *vector.ArrayResult, start, end int) error {
			return evalSetRows[T](act, hashmap.NewFixedFreqMap[T](), newFixedSource[T](datas), datas, rs, start, end)
		},
	}
}

func strCandidate() setCandidate {
	return setCandidate{
		name:  "varlena",
		match: backedBy[types.Varlena](types.T_char, types.T_varchar, types.T_text, types.T_binary, types.T_blob, types.T_json),
		eval: func(act setAction, datas []*vector.ArrayExecutionData, rs *vector.ArrayResult, start, end int) error {
			return evalSetRows[[]byte](act, hashmap.NewStrFreqMap(), newStrSource(datas), datas, rs, start, end)
		},
	}
}

// setCandidates is probed in order, the first representation backing
// every argument wins. Nested arrays and untyped elements match none.
var setCandidates = []setCandidate{
	fixedCandidate[bool]("bool", types.T_bool),
	fixedCandidate[int8]("int8", types.T_int8),
	fixedCandidate[int16]("int16", types.T_int16),
	fixedCandidate[int32]("int32", types.T_int32),
	fixedCandidate[int64]("int64", types.T_int64),
	fixedCandidate[types.Int128]("int128", types.T_int128),
	fixedCandidate[uint8]("uint8", types.T_uint8),
	fixedCandidate[uint16]("uint16", types.T_uint16),
	fixedCandidate[uint32]("uint32", types.T_uint32),
	fixedCandidate[uint64]("uint64", types.T_uint64),
	fixedCandidate[float32]("float32", types.T_float32),
	fixedCandidate[float64]("float64", types.T_float64),
	fixedCandidate[types.Decimal64]("decimal64", types.T_decimal64),
	fixedCandidate[types.Decimal128]("decimal128", types.T_decimal128),
	fixedCandidate[types.Date]("date", types.T_date),
	fixedCandidate[types.Datetime]("datetime", types.T_datetime),
	strCandidate(),
}

func dispatchSetCandidate(datas []*vector.ArrayExecutionData) (setCandidate, bool) {
	for _, c := range setCandidates {
		if c.match(datas) {
			return c, true
		}
	}
	return setCandidate{}, false
}

// evalSetRows runs the frequency count of rows [start, end) and appends
// one output row per input row.
func evalSetRows[K any](
	act setAction,
	freq hashmap.FreqMap[K],
	src keySource[K],
	datas []*vector.ArrayExecutionData,
	rs *vector.ArrayResult,
	start, end int) error {
	n := len(datas)
	b := rs.ArrayBuilder
	emit := func(k K, cnt int) error {
		if act.emit(cnt, n) {
			return src.appendKey(b, k)
		}
		return nil
	}

	for row := start; row < end; row++ {
		if anyRowNull(datas, row) {
			if err := b.AppendRowNull(); err != nil {
				return err
			}
			continue
		}

		freq.Reset()
		act.reset(n)
		for arg, d := range datas {
			lo, hi := d.RowRange(vector.ResolveRowIndex(row, d.IsConst))
			insert := act.insertable(arg)
			for i := lo; i < hi; i++ {
				if d.IsElemNull(i) {
					act.noteNull(arg)
					continue
				}
				freq.Add(src.key(arg, i), arg, insert)
			}
		}

		if act.applyNull() {
			if err := b.AppendNullElem(); err != nil {
				return err
			}
		}
		if err := freq.Iterate(emit); err != nil {
			return err
		}
		if err := b.FinishRow(); err != nil {
			return err
		}
	}
	return nil
}

func anyRowNull(datas []*vector.ArrayExecutionData, row int) bool {
	for _, d := range datas {
		if d.IsRowNull(vector.ResolveRowIndex(row, d.IsConst)) {
			return true
		}
	}
	return false
}

// arraySetFunction is array_intersect or array_union.
type arraySetFunction struct {
	name      string
	newAction func() setAction
}

func newArraySetFunction(name string, newAction func() setAction) *arraySetFunction {
	return &arraySetFunction{
		name:      name,
		newAction: newAction,
	}
}

func (f *arraySetFunction) Name() string {
	return f.name
}

func (f *arraySetFunction) Arity() int {
	return VariadicArity
}

func (f *arraySetFunction) MinArity() int {
	return 2
}

// ReturnType returns the type of the first argument, or of the first
// argument whose elements are nullable if there is one.
func (f *arraySetFunction) ReturnType(ctx context.Context, args []types.Type) (types.Type, error) {
	return arrayReturnType(ctx, f.name, args)
}

func arrayReturnType(ctx context.Context, name string, args []types.Type) (types.Type, error) {
	if len(args) == 0 {
		return types.Type{}, moerr.NewInvalidInput(ctx, "function %s takes at least one argument", name)
	}
	for _, arg := range args {
		if !arg.IsArray() {
			return types.Type{}, moerr.NewInvalidArgumentType(ctx, name, arg.String())
		}
	}
	for _, arg := range args {
		if arg.ElemType().Nullable {
			return arg, nil
		}
	}
	return args[0], nil
}

func (f *arraySetFunction) Eval(params []*vector.Vector, result vector.FunctionResultWrapper, proc *process.Process, start, end int) error {
	ctx := proc.GetContext()
	datas, err := extractArrayParams(ctx, params)
	if err != nil {
		return err
	}
	c, ok := dispatchSetCandidate(datas)
	if !ok {
		return moerr.NewUnsupportedElementType(ctx, f.name, elemTypesString(params))
	}
	rs := vector.MustArrayResult(result)
	markNullableElems(rs.ArrayBuilder, datas...)
	proc.Debug("array set operation dispatched",
		logutil.FunctionField(f.name),
		zap.String("repr", c.name),
		zap.Int("rows", end-start))
	return c.eval(f.newAction(), datas, rs, start, end)
}

// markNullableElems lets b hold NULL elements when any input may hold
// them, whatever the declared element types say.
func markNullableElems(b *vector.ArrayBuilder, datas ...*vector.ArrayExecutionData) {
	for _, d := range datas {
		if d.NestedNulls != nil {
			b.SetElemNullable()
			return
		}
	}
}

func extractArrayParams(ctx context.Context, params []*vector.Vector) ([]*vector.ArrayExecutionData, error) {
	datas := make([]*vector.ArrayExecutionData, len(params))
	for i, p := range params {
		d, err := vector.ExtractArrayExecutionData(ctx, p)
		if err != nil {
			return nil, err
		}
		datas[i] = d
	}
	return datas, nil
}

func elemTypesString(params []*vector.Vector) string {
	names := make([]string, len(params))
	for i, p := range params {
		if nested := p.GetNested(); nested != nil {
			names[i] = nested.GetType().String()
		} else {
			names[i] = p.GetType().String()
		}
	}
	return strings.Join(names, ", ")
}
