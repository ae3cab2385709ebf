// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// Uint256ByteSize is the serialized size of a 256-bit integer
const Uint256ByteSize = 32

// Encoder accumulates little-endian binary output. The first error reported
// by any write sticks and is returned by Bytes; later writes are no-ops
type Encoder struct {
	buf []byte
	err error
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// SetError records an encoding failure. Only the first error is retained
func (e *Encoder) SetError(err error) {
	if e.err == nil {
		e.err = err
	}
}

// Bytes returns the accumulated output, or the first write error
func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

// Len returns the number of bytes written so far
func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) WriteUint8(v uint8) {
	if e.err != nil {
		return
	}
	e.buf = append(e.buf, v)
}

func (e *Encoder) WriteUint16(v uint16) {
	if e.err != nil {
		return
	}
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) WriteUint32(v uint32) {
	if e.err != nil {
		return
	}
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) WriteUint64(v uint64) {
	if e.err != nil {
		return
	}
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// WriteUint256 writes a non-negative integer as 32 little-endian bytes
func (e *Encoder) WriteUint256(v *big.Int) {
	if e.err != nil {
		return
	}
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 {
		e.SetError(fmt.Errorf("cannot encode negative value as uint256"))
		return
	}
	if v.BitLen() > 256 {
		e.SetError(fmt.Errorf("value exceeds 256 bits"))
		return
	}
	var tmp [Uint256ByteSize]byte
	v.FillBytes(tmp[:])
	// FillBytes produces big-endian output
	for i := Uint256ByteSize - 1; i >= 0; i-- {
		e.buf = append(e.buf, tmp[i])
	}
}

// WriteBool writes a bool as a single 0 or 1 byte
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.WriteUint8(1)
	} else {
		e.WriteUint8(0)
	}
}

// WriteBytes writes raw bytes with no length prefix
func (e *Encoder) WriteBytes(b []byte) {
	if e.err != nil {
		return
	}
	e.buf = append(e.buf, b...)
}

// WritePrefixedBytes8 writes a uint8 length prefix followed by the bytes
func (e *Encoder) WritePrefixedBytes8(b []byte) {
	if len(b) > math.MaxUint8 {
		e.SetError(
			fmt.Errorf("value too long for uint8 length prefix: %d bytes", len(b)),
		)
		return
	}
	e.WriteUint8(uint8(len(b)))
	e.WriteBytes(b)
}

// WritePrefixedBytes16 writes a uint16 length prefix followed by the bytes
func (e *Encoder) WritePrefixedBytes16(b []byte) {
	if len(b) > math.MaxUint16 {
		e.SetError(
			fmt.Errorf("value too long for uint16 length prefix: %d bytes", len(b)),
		)
		return
	}
	e.WriteUint16(uint16(len(b)))
	e.WriteBytes(b)
}

// WritePrefixedBytes32 writes a uint32 length prefix followed by the bytes
func (e *Encoder) WritePrefixedBytes32(b []byte) {
	if len(b) > math.MaxUint32 {
		e.SetError(
			fmt.Errorf("value too long for uint32 length prefix: %d bytes", len(b)),
		)
		return
	}
	e.WriteUint32(uint32(len(b)))
	e.WriteBytes(b)
}
