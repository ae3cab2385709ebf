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
	"math/big"
)

// Decoder reads little-endian binary input from a byte slice. The first
// error reported by any read sticks and is returned by Err and Finish;
// later reads return zero values
type Decoder struct {
	data []byte
	pos  int
	err  error
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Err returns the first read error, if any
func (d *Decoder) Err() error {
	return d.err
}

// SetError records a decoding failure. Only the first error is retained
func (d *Decoder) SetError(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Pos returns the number of bytes consumed so far
func (d *Decoder) Pos() int {
	return d.pos
}

// Remaining returns the number of bytes not yet consumed
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// Finish returns the first read error, or ErrTrailingBytes when input
// remains unconsumed
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if d.pos != len(d.data) {
		return fmt.Errorf(
			"%w: %d bytes remaining",
			ErrTrailingBytes,
			len(d.data)-d.pos,
		)
	}
	return nil
}

func (d *Decoder) require(n int) bool {
	if d.err != nil {
		return false
	}
	if d.Remaining() < n {
		d.SetError(fmt.Errorf(
			"%w: need %d bytes, have %d",
			ErrTruncatedInput,
			n,
			d.Remaining(),
		))
		return false
	}
	return true
}

func (d *Decoder) ReadUint8() uint8 {
	if !d.require(1) {
		return 0
	}
	v := d.data[d.pos]
	d.pos++
	return v
}

func (d *Decoder) ReadUint16() uint16 {
	if !d.require(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v
}

func (d *Decoder) ReadUint32() uint32 {
	if !d.require(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v
}

func (d *Decoder) ReadUint64() uint64 {
	if !d.require(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v
}

// ReadUint256 reads 32 little-endian bytes as a non-negative integer
func (d *Decoder) ReadUint256() *big.Int {
	if !d.require(Uint256ByteSize) {
		return new(big.Int)
	}
	var tmp [Uint256ByteSize]byte
	for i := range tmp {
		tmp[i] = d.data[d.pos+Uint256ByteSize-1-i]
	}
	d.pos += Uint256ByteSize
	return new(big.Int).SetBytes(tmp[:])
}

// ReadBool reads a single byte and requires it to be 0 or 1
func (d *Decoder) ReadBool() bool {
	v := d.ReadUint8()
	if d.err != nil {
		return false
	}
	if v > 1 {
		d.SetError(fmt.Errorf("%w: %d", ErrInvalidBool, v))
		return false
	}
	return v == 1
}

// ReadBytes reads n raw bytes into a fresh slice. A zero count yields nil
func (d *Decoder) ReadBytes(n int) []byte {
	if n < 0 {
		d.SetError(fmt.Errorf("negative byte count: %d", n))
		return nil
	}
	if n == 0 {
		return nil
	}
	if !d.require(n) {
		return nil
	}
	out := make([]byte, n)
	copy(out, d.data[d.pos:])
	d.pos += n
	return out
}

// ReadInto fills dst with raw bytes from the input
func (d *Decoder) ReadInto(dst []byte) {
	if !d.require(len(dst)) {
		return
	}
	copy(dst, d.data[d.pos:])
	d.pos += len(dst)
}

// ReadPrefixedBytes8 reads a uint8 length prefix followed by that many bytes
func (d *Decoder) ReadPrefixedBytes8() []byte {
	n := d.ReadUint8()
	return d.ReadBytes(int(n))
}

// ReadPrefixedBytes16 reads a uint16 length prefix followed by that many bytes
func (d *Decoder) ReadPrefixedBytes16() []byte {
	n := d.ReadUint16()
	return d.ReadBytes(int(n))
}

// ReadPrefixedBytes32 reads a uint32 length prefix followed by that many bytes
func (d *Decoder) ReadPrefixedBytes32() []byte {
	n := d.ReadUint32()
	return d.ReadBytes(int(n))
}

// PeekUint8 returns the next byte without consuming it
func (d *Decoder) PeekUint8() uint8 {
	if !d.require(1) {
		return 0
	}
	return d.data[d.pos]
}

// PeekUint32 returns the next four bytes as a little-endian uint32 without
// consuming them
func (d *Decoder) PeekUint32() uint32 {
	if !d.require(4) {
		return 0
	}
	return binary.LittleEndian.Uint32(d.data[d.pos:])
}
