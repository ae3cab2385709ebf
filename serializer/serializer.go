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

// Package serializer implements the packed little-endian binary format used
// on the wire by tangle nodes. Values are encoded without any self-describing
// framing: integers are fixed-width little-endian, collections carry an
// explicit count prefix, and variable-length byte fields carry an explicit
// length prefix.
package serializer

import (
	"errors"
)

var (
	// ErrTruncatedInput is returned when fewer bytes remain than a decode
	// step requires
	ErrTruncatedInput = errors.New("truncated input")
	// ErrTrailingBytes is returned when decoding succeeds without consuming
	// the entire input
	ErrTrailingBytes = errors.New("trailing bytes after decode")
	// ErrInvalidBool is returned when a bool byte is neither 0 nor 1
	ErrInvalidBool = errors.New("invalid bool byte")
)

// Encodable is implemented by types that can write their binary
// representation to an Encoder
type Encodable interface {
	EncodeBinary(e *Encoder)
}

// Decodable is implemented by types that can read their binary
// representation from a Decoder
type Decodable interface {
	DecodeBinary(d *Decoder) error
}

// Encode returns the binary serialization of the provided value
func Encode(v Encodable) ([]byte, error) {
	e := NewEncoder()
	v.EncodeBinary(e)
	return e.Bytes()
}

// Decode deserializes data into the provided destination object and returns
// the number of bytes read. The entire input must be consumed
func Decode(data []byte, dest Decodable) (int, error) {
	d := NewDecoder(data)
	if err := dest.DecodeBinary(d); err != nil {
		return d.Pos(), err
	}
	if err := d.Finish(); err != nil {
		return d.Pos(), err
	}
	return d.Pos(), nil
}
