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
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputIDComposition(t *testing.T) {
	txID := NewTransactionID(testBody(0xcd))
	outputID := NewOutputID(txID, 0x0102)
	assert.Equal(t, txID, outputID.TransactionID())
	assert.Equal(t, uint16(0x0102), outputID.Index())
	// Index is serialized little-endian after the transaction ID
	assert.Equal(t, byte(0x02), outputID[32])
	assert.Equal(t, byte(0x01), outputID[33])
}

func TestAliasIDDeterministic(t *testing.T) {
	txID := NewTransactionID(testBody(0x10))
	id1 := AliasIDFromOutputID(NewOutputID(txID, 0))
	id2 := AliasIDFromOutputID(NewOutputID(txID, 0))
	assert.Equal(t, id1, id2)
	// A different output index must yield a different alias ID
	id3 := AliasIDFromOutputID(NewOutputID(txID, 1))
	assert.NotEqual(t, id1, id3)
}

func TestNFTIDDeterministic(t *testing.T) {
	txID := NewTransactionID(testBody(0x20))
	id1 := NFTIDFromOutputID(NewOutputID(txID, 4))
	id2 := NFTIDFromOutputID(NewOutputID(txID, 4))
	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, NFTIDFromOutputID(NewOutputID(txID, 5)))
}

func TestAliasAndNFTIDEmpty(t *testing.T) {
	assert.True(t, AliasID{}.Empty())
	assert.True(t, NFTID{}.Empty())
	assert.False(t, NewAliasID(testBody(0x01)).Empty())
	assert.False(t, NewNFTID(testBody(0x01)).Empty())
}

func TestFoundryIDLayout(t *testing.T) {
	aliasID := NewAliasID(testBody(0x33))
	foundryID := NewFoundryID(NewAliasAddress(aliasID), 0x04030201, TokenSchemeSimple)
	// Serialized alias address, then serial number, then scheme kind
	assert.Equal(t, AddressAlias, foundryID[0])
	assert.Equal(t, aliasID[:], foundryID[1:33])
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, foundryID[33:37])
	assert.Equal(t, TokenSchemeSimple, foundryID[37])
}

func TestIDHexRoundTrip(t *testing.T) {
	msgID := NewMessageID(testBody(0x61))
	parsed, err := MessageIDFromHex(msgID.String())
	require.NoError(t, err)
	assert.Equal(t, msgID, parsed)
	assert.True(t, strings.HasPrefix(msgID.String(), "0x"))

	outputID := NewOutputID(NewTransactionID(testBody(0x62)), 7)
	parsedOutput, err := OutputIDFromHex(outputID.String())
	require.NoError(t, err)
	assert.Equal(t, outputID, parsedOutput)
}

func TestIDHexErrors(t *testing.T) {
	// Missing prefix
	_, err := MessageIDFromHex(strings.Repeat("11", 32))
	assert.ErrorIs(t, err, ErrMissingHexPrefix)
	// Wrong length
	_, err = MessageIDFromHex("0x1122")
	assert.Error(t, err)
	// Invalid characters
	_, err = MessageIDFromHex("0x" + strings.Repeat("zz", 32))
	assert.Error(t, err)
}

func TestIDJSONRoundTrip(t *testing.T) {
	milestoneID := NewMilestoneID(testBody(0x71))
	data, err := json.Marshal(milestoneID)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+milestoneID.String()+`"`, string(data))
	var decoded MilestoneID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, milestoneID, decoded)
}
