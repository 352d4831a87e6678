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
	"encoding/binary"

	"github.com/matrixorigin/arrayfn/pkg/common/mpool"
)

const (
	VarlenaInlineSize = 23
	VarlenaBigHdr     = 0xff
)

// BuildVarlena stores bs inline when it is short, otherwise it appends bs
// to area and records offset and length. The possibly grown area is
// returned.
func BuildVarlena(bs []byte, area []byte, m *mpool.MPool) (Varlena, []byte, error) {
	var v Varlena
	vlen := len(bs)
	if vlen <= VarlenaInlineSize {
		v[0] = byte(vlen)
		copy(v[1:1+vlen], bs)
		return v, area, nil
	}
	voff := len(area)
	var err error
	if voff+vlen > cap(area) {
		if m == nil {
			grown := make([]byte, voff, calcAreaCap(cap(area), voff+vlen))
			copy(grown, area)
			area = grown
		} else {
			area, err = m.Grow(area, voff+vlen)
			if err != nil {
				return v, nil, err
			}
			area = area[:voff]
		}
	}
	area = append(area, bs...)
	v.SetOffsetLen(uint32(voff), uint32(vlen))
	return v, area, nil
}

func calcAreaCap(old, need int) int {
	if need > 2*old {
		return need
	}
	return 2 * old
}

func (v *Varlena) SetOffsetLen(voff, vlen uint32) {
	v[0] = VarlenaBigHdr
	binary.LittleEndian.PutUint32(v[4:8], voff)
	binary.LittleEndian.PutUint32(v[8:12], vlen)
}

func (v *Varlena) IsSmall() bool {
	return v[0] <= VarlenaInlineSize
}

func (v *Varlena) ByteSlice() []byte {
	svlen := v[0]
	return v[1 : 1+svlen]
}

func (v *Varlena) OffsetLen() (uint32, uint32) {
	return binary.LittleEndian.Uint32(v[4:8]), binary.LittleEndian.Uint32(v[8:12])
}

// GetByteSlice returns the bytes referenced by v, no copy is made.
func (v *Varlena) GetByteSlice(area []byte) []byte {
	if v.IsSmall() {
		return v.ByteSlice()
	}
	voff, vlen := v.OffsetLen()
	return area[voff : voff+vlen]
}

func (v *Varlena) GetString(area []byte) string {
	return string(v.GetByteSlice(area))
}
