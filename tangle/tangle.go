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

// Package tangle provides the protocol structures exchanged with tangle
// nodes: messages, payloads, outputs, unlocks, addresses, and the
// content-derived identifiers computed from them. All types round-trip
// losslessly through both the binary wire format and the node API JSON
// representation.
package tangle

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingHexPrefix is returned when a hex-encoded field lacks the
// mandatory 0x prefix
var ErrMissingHexPrefix = errors.New("hex string missing 0x prefix")

// EncodeHex encodes bytes as a 0x-prefixed hex string, the encoding used
// for all byte fields in the node API
func EncodeHex(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

// DecodeHex decodes a 0x-prefixed hex string
func DecodeHex(s string) ([]byte, error) {
	stripped, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingHexPrefix, s)
	}
	data, err := hex.DecodeString(stripped)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string %q: %w", s, err)
	}
	return data, nil
}

func decodeHexFixed(s string, expectedLen int) ([]byte, error) {
	data, err := DecodeHex(s)
	if err != nil {
		return nil, err
	}
	if len(data) != expectedLen {
		return nil, fmt.Errorf(
			"invalid hex length: expected %d bytes, got %d",
			expectedLen,
			len(data),
		)
	}
	return data, nil
}
