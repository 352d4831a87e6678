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

package types

import (
	"math/big"

	"github.com/matrixorigin/arrayfn/pkg/common/moerr"
	"github.com/shopspring/decimal"
)

var (
	two64     = new(big.Int).Lsh(big.NewInt(1), 64)
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Format renders d with scale fractional digits.
func (d Decimal64) Format(scale int32) string {
	return decimal.New(int64(d), -scale).StringFixed(scale)
}

func (d Decimal128) Sign() bool {
	return int64(d.B64_127) < 0
}

// BigInt returns the two's complement value of d.
func (d Decimal128) BigInt() *big.Int {
	return wordsToBig(d.B0_63, d.B64_127)
}

func (d Decimal128) Format(scale int32) string {
	return decimal.NewFromBigInt(d.BigInt(), -scale).StringFixed(scale)
}

func ParseDecimal64(s string, width, scale int32) (Decimal64, error) {
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return 0, moerr.NewInvalidInputNoCtx("'%s' is not a valid decimal", s)
	}
	v := dec.Shift(scale).Round(0).BigInt()
	if !v.IsInt64() || (width > 0 && width < 19 && len(v.String()) > int(width)+signLen(v)) {
		return 0, moerr.NewOutOfRange(moerr.Context(), "decimal64", "value %s", s)
	}
	return Decimal64(v.Int64()), nil
}

func ParseDecimal128(s string, width, scale int32) (Decimal128, error) {
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal128{}, moerr.NewInvalidInputNoCtx("'%s' is not a valid decimal", s)
	}
	v := dec.Shift(scale).Round(0).BigInt()
	if v.Cmp(maxInt128) > 0 || v.Cmp(minInt128) < 0 {
		return Decimal128{}, moerr.NewOutOfRange(moerr.Context(), "decimal128", "value %s", s)
	}
	lo, hi := bigToWords(v)
	return Decimal128{B0_63: lo, B64_127: hi}, nil
}

func signLen(v *big.Int) int {
	if v.Sign() < 0 {
		return 1
	}
	return 0
}

func wordsToBig(lo, hi uint64) *big.Int {
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(lo))
	if int64(hi) < 0 {
		v.Sub(v, two128)
	}
	return v
}

func bigToWords(v *big.Int) (uint64, uint64) {
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, two128)
	}
	lo := new(big.Int).Mod(u, two64).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()
	return lo, hi
}

func (i Int128) BigInt() *big.Int {
	return wordsToBig(i.B0_63, i.B64_127)
}

func (i Int128) String() string {
	return i.BigInt().String()
}

func ParseInt128(s string) (Int128, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Cmp(maxInt128) > 0 || v.Cmp(minInt128) < 0 {
		return Int128{}, moerr.NewInvalidInputNoCtx("'%s' is not a valid largeint", s)
	}
	lo, hi := bigToWords(v)
	return Int128{B0_63: lo, B64_127: hi}, nil
}
