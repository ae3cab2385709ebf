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

package tangle

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/gotangle/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBody(fill byte) []byte {
	body := make([]byte, 32)
	for i := range body {
		body[i] = fill
	}
	return body
}

func TestAddressBech32RoundTrip(t *testing.T) {
	testDefs := []struct {
		name string
		addr Address
		hrp  string
	}{
		{
			name: "ed25519 mainnet",
			addr: NewEd25519Address(testBody(0x51)),
			hrp:  "iota",
		},
		{
			name: "ed25519 devnet",
			addr: NewEd25519Address(testBody(0x52)),
			hrp:  "atoi",
		},
		{
			name: "alias",
			addr: NewAliasAddress(NewAliasID(testBody(0x53))),
			hrp:  "iota",
		},
		{
			name: "nft",
			addr: NewNFTAddress(NewNFTID(testBody(0x54))),
			hrp:  "smr",
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			encoded := testDef.addr.Bech32(testDef.hrp)
			hrp, decoded, err := ParseBech32(encoded)
			require.NoError(t, err)
			assert.Equal(t, testDef.hrp, hrp)
			assert.True(t, testDef.addr.Equal(decoded))
			// Re-encoding must reproduce the same string
			assert.Equal(t, encoded, decoded.Bech32(hrp))
		})
	}
}

func TestParseBech32DetectsCorruption(t *testing.T) {
	addr := NewEd25519Address(testBody(0x42))
	encoded := addr.Bech32("iota")
	// Corrupt every data character position in turn and require the
	// checksum to catch each one
	for i := len("iota1"); i < len(encoded); i++ {
		corrupted := []byte(encoded)
		if corrupted[i] == 'q' {
			corrupted[i] = 'p'
		} else {
			corrupted[i] = 'q'
		}
		_, _, err := ParseBech32(string(corrupted))
		assert.ErrorIsf(
			t,
			err,
			ErrInvalidBech32,
			"corruption at position %d went undetected",
			i,
		)
	}
}

func TestParseBech32WrongHRPStillDecodes(t *testing.T) {
	// The human readable prefix is returned to the caller for validation
	// against the expected network
	addr := NewEd25519Address(testBody(0x03))
	hrp, decoded, err := ParseBech32(addr.Bech32("atoi"))
	require.NoError(t, err)
	assert.Equal(t, "atoi", hrp)
	assert.True(t, addr.Equal(decoded))
}

func TestAddressBinaryRoundTrip(t *testing.T) {
	testDefs := []Address{
		NewEd25519Address(testBody(0xa1)),
		NewAliasAddress(NewAliasID(testBody(0xa2))),
		NewNFTAddress(NewNFTID(testBody(0xa3))),
	}
	for _, addr := range testDefs {
		data, err := serializer.Encode(addr)
		require.NoError(t, err)
		require.Len(t, data, SerializedAddressLength)
		assert.Equal(t, addr.Type(), data[0])
		decoded, err := AddressFromBytes(data)
		require.NoError(t, err)
		assert.True(t, addr.Equal(decoded))
	}
}

func TestAddressFromBytesUnknownKind(t *testing.T) {
	data := append([]byte{99}, testBody(0x00)...)
	_, err := AddressFromBytes(data)
	var unknownErr UnknownAddressTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, uint8(99), unknownErr.Kind)
	assert.Equal(t, "invalid address kind: 99", unknownErr.Error())
}

func TestAddressFromBytesTruncated(t *testing.T) {
	data := append([]byte{AddressEd25519}, testBody(0x00)[:16]...)
	_, err := AddressFromBytes(data)
	assert.ErrorIs(t, err, serializer.ErrTruncatedInput)
}

func TestAddressJSONRoundTrip(t *testing.T) {
	testDefs := []Address{
		NewEd25519Address(testBody(0xb1)),
		NewAliasAddress(NewAliasID(testBody(0xb2))),
		NewNFTAddress(NewNFTID(testBody(0xb3))),
	}
	for _, addr := range testDefs {
		data, err := json.Marshal(addr)
		require.NoError(t, err)
		decoded, err := addressFromJSONRaw(data)
		require.NoError(t, err)
		assert.True(t, addr.Equal(decoded))
	}
}

func TestEd25519AddressFromPubKey(t *testing.T) {
	pubKey, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	addr1 := Ed25519AddressFromPubKey(pubKey)
	addr2 := Ed25519AddressFromPubKey(pubKey)
	assert.True(t, addr1.Equal(addr2))
	assert.Equal(t, blake2b256Hash(pubKey), addr1.PubKeyHash)
}

func TestAddressEqualAcrossKinds(t *testing.T) {
	// Same body bytes under different kinds must not compare equal
	body := testBody(0x77)
	ed := NewEd25519Address(body)
	alias := NewAliasAddress(NewAliasID(body))
	nft := NewNFTAddress(NewNFTID(body))
	assert.False(t, ed.Equal(alias))
	assert.False(t, alias.Equal(nft))
	assert.False(t, nft.Equal(ed))
}
