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
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"sort"
	"testing"

	"github.com/blinklabs-io/gotangle/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReceiptOption() *ReceiptMilestoneOption {
	entry1 := &MigratedFundsEntry{
		Address: NewEd25519Address(testBody(0xaa)),
		Deposit: 1000000,
	}
	copy(entry1.TailTransactionHash[:], bytes.Repeat([]byte{0x01}, 49))
	entry2 := &MigratedFundsEntry{
		Address: NewEd25519Address(testBody(0xbb)),
		Deposit: 2000000,
	}
	copy(entry2.TailTransactionHash[:], bytes.Repeat([]byte{0x02}, 49))
	return &ReceiptMilestoneOption{
		MigratedAt: 750000,
		Final:      true,
		Funds:      []*MigratedFundsEntry{entry1, entry2},
		Transaction: &TreasuryTransactionPayload{
			Input: &TreasuryInput{
				MilestoneID: NewMilestoneID(testBody(0x03)),
			},
			Output: &TreasuryOutput{Amount: 5000000},
		},
	}
}

// testMilestone returns a milestone carrying both option kinds, signed by
// freshly generated coordinator keys
func testMilestone(
	t *testing.T,
	signerCount int,
) (*MilestonePayload, [][Ed25519PublicKeyLength]byte) {
	t.Helper()
	milestone := &MilestonePayload{
		Index:               1234,
		Timestamp:           1700000000,
		PreviousMilestoneID: NewMilestoneID(testBody(0x06)),
		Parents: []MessageID{
			NewMessageID(testBody(0x01)),
			NewMessageID(testBody(0x02)),
		},
		Metadata: []byte("checkpoint"),
		Options: []MilestoneOption{
			testReceiptOption(),
			&ParametersMilestoneOption{
				TargetMilestoneIndex: 1300,
				ProtocolVersion:      3,
				Params:               []byte{0xde, 0xad},
			},
		},
	}
	copy(milestone.InclusionMerkleRoot[:], testBody(0x04))
	copy(milestone.AppliedMerkleRoot[:], testBody(0x05))

	privKeys := make([]ed25519.PrivateKey, signerCount)
	pubKeys := make([][Ed25519PublicKeyLength]byte, signerCount)
	for i := range privKeys {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		privKeys[i] = priv
		copy(pubKeys[i][:], pub)
	}
	// Signatures are ordered by public key
	sort.Slice(privKeys, func(i, j int) bool {
		return bytes.Compare(
			privKeys[i].Public().(ed25519.PublicKey),
			privKeys[j].Public().(ed25519.PublicKey),
		) < 0
	})
	sort.Slice(pubKeys, func(i, j int) bool {
		return bytes.Compare(pubKeys[i][:], pubKeys[j][:]) < 0
	})
	// The essence excludes the signatures, so placeholders with the final
	// public keys produce the definitive signing message
	milestone.Signatures = make([]Signature, signerCount)
	for i, priv := range privKeys {
		sig := &Ed25519Signature{}
		copy(sig.PublicKey[:], priv.Public().(ed25519.PublicKey))
		milestone.Signatures[i] = sig
	}
	msg, err := milestone.SigningMessage()
	require.NoError(t, err)
	for i, priv := range privKeys {
		signed := ed25519.Sign(priv, msg)
		copy(milestone.Signatures[i].(*Ed25519Signature).Signature[:], signed)
	}
	return milestone, pubKeys
}

func TestMilestoneRoundTrip(t *testing.T) {
	milestone, _ := testMilestone(t, 2)
	data, err := serializer.Encode(milestone)
	require.NoError(t, err)
	decoded, err := PayloadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, milestone, decoded)
	reencoded, err := serializer.Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, data, reencoded)
}

func TestMilestoneJSONRoundTrip(t *testing.T) {
	milestone, _ := testMilestone(t, 1)
	data, err := json.Marshal(milestone)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parents":`)
	assert.Contains(t, string(data), `"previousMilestoneId":`)
	var decoded MilestonePayload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, milestone, &decoded)
}

func TestMilestoneIDExcludesSignatures(t *testing.T) {
	milestone, _ := testMilestone(t, 1)
	id1, err := milestone.ID()
	require.NoError(t, err)
	// Mutating a signature must not change the milestone ID
	milestone.Signatures[0].(*Ed25519Signature).Signature[0] ^= 0xff
	id2, err := milestone.ID()
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	// Mutating the essence must
	milestone.Index++
	id3, err := milestone.ID()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}

func TestMilestoneVerifySignatures(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		milestone, pubKeys := testMilestone(t, 2)
		assert.NoError(t, milestone.VerifySignatures(2, pubKeys))
	})
	t.Run("tampered essence", func(t *testing.T) {
		milestone, pubKeys := testMilestone(t, 1)
		milestone.Timestamp++
		err := milestone.VerifySignatures(1, pubKeys)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
	t.Run("tampered signature", func(t *testing.T) {
		milestone, pubKeys := testMilestone(t, 1)
		milestone.Signatures[0].(*Ed25519Signature).Signature[1] ^= 0x01
		err := milestone.VerifySignatures(1, pubKeys)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
	t.Run("insufficient applicable", func(t *testing.T) {
		milestone, pubKeys := testMilestone(t, 2)
		// Only one of the two signers is applicable
		err := milestone.VerifySignatures(2, pubKeys[:1])
		require.Error(t, err)
		assert.Contains(
			t,
			err.Error(),
			"insufficient valid signatures: 1 of 2 required",
		)
	})
	t.Run("no applicable keys", func(t *testing.T) {
		milestone, _ := testMilestone(t, 1)
		err := milestone.VerifySignatures(1, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient valid signatures")
	})
}

func TestMilestoneOptionsNotSorted(t *testing.T) {
	milestone, _ := testMilestone(t, 1)
	milestone.Options = []MilestoneOption{
		&ParametersMilestoneOption{TargetMilestoneIndex: 1300},
		testReceiptOption(),
	}
	_, err := serializer.Encode(milestone)
	assert.ErrorIs(t, err, ErrOptionsNotUniqueSorted)
}

func TestMilestoneSignaturesNotSorted(t *testing.T) {
	milestone, _ := testMilestone(t, 1)
	sigLow := &Ed25519Signature{}
	copy(sigLow.PublicKey[:], testBody(0x01))
	sigHigh := &Ed25519Signature{}
	copy(sigHigh.PublicKey[:], testBody(0x02))
	milestone.Signatures = []Signature{sigHigh, sigLow}
	_, err := serializer.Encode(milestone)
	assert.ErrorIs(t, err, ErrSignaturesNotUniqueSorted)
}

func TestMilestoneWithoutSignatures(t *testing.T) {
	milestone, _ := testMilestone(t, 1)
	milestone.Signatures = nil
	_, err := serializer.Encode(milestone)
	var countErr InvalidCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, "milestone signature", countErr.Field)
}

func TestMilestoneMetadataTooLarge(t *testing.T) {
	milestone, _ := testMilestone(t, 1)
	milestone.Metadata = make([]byte, MaxMilestoneMetadataLength+1)
	_, err := serializer.Encode(milestone)
	var lengthErr InvalidFieldLengthError
	require.ErrorAs(t, err, &lengthErr)
	assert.Equal(t, "milestone metadata", lengthErr.Field)
}

func TestReceiptValidation(t *testing.T) {
	t.Run("no funds", func(t *testing.T) {
		receipt := testReceiptOption()
		receipt.Funds = nil
		_, err := serializer.Encode(receipt)
		var countErr InvalidCountError
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, "receipt funds", countErr.Field)
	})
	t.Run("unsorted funds", func(t *testing.T) {
		receipt := testReceiptOption()
		receipt.Funds[0], receipt.Funds[1] = receipt.Funds[1], receipt.Funds[0]
		_, err := serializer.Encode(receipt)
		assert.ErrorIs(t, err, ErrFundsNotUniqueSorted)
	})
	t.Run("missing treasury transaction", func(t *testing.T) {
		receipt := testReceiptOption()
		receipt.Transaction = nil
		_, err := serializer.Encode(receipt)
		assert.Error(t, err)
	})
}

func TestReceiptRoundTrip(t *testing.T) {
	receipt := testReceiptOption()
	data, err := serializer.Encode(receipt)
	require.NoError(t, err)
	decoded := &ReceiptMilestoneOption{}
	_, err = serializer.Decode(data, decoded)
	require.NoError(t, err)
	assert.Equal(t, receipt, decoded)

	jsonData, err := json.Marshal(receipt)
	require.NoError(t, err)
	var decodedJSON ReceiptMilestoneOption
	require.NoError(t, json.Unmarshal(jsonData, &decodedJSON))
	assert.Equal(t, receipt, &decodedJSON)
}
