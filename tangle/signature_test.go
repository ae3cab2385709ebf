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
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/gotangle/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSignedMessage(t *testing.T, message []byte) *Ed25519Signature {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sig := &Ed25519Signature{}
	copy(sig.PublicKey[:], pub)
	copy(sig.Signature[:], ed25519.Sign(priv, message))
	return sig
}

func TestEd25519SignatureVerify(t *testing.T) {
	message := []byte("tangle signing test")
	sig := testSignedMessage(t, message)
	assert.NoError(t, sig.Verify(message))
}

func TestEd25519SignatureVerifyRejects(t *testing.T) {
	message := []byte("tangle signing test")
	t.Run("wrong message", func(t *testing.T) {
		sig := testSignedMessage(t, message)
		err := sig.Verify([]byte("another message"))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
	t.Run("flipped signature bit", func(t *testing.T) {
		sig := testSignedMessage(t, message)
		sig.Signature[40] ^= 0x01
		err := sig.Verify(message)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
	t.Run("wrong public key", func(t *testing.T) {
		sig := testSignedMessage(t, message)
		other := testSignedMessage(t, message)
		sig.PublicKey = other.PublicKey
		err := sig.Verify(message)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
	t.Run("garbage public key", func(t *testing.T) {
		sig := testSignedMessage(t, message)
		for i := range sig.PublicKey {
			sig.PublicKey[i] = 0xff
		}
		err := sig.Verify(message)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
	t.Run("non-canonical S component", func(t *testing.T) {
		sig := testSignedMessage(t, message)
		for i := 32; i < len(sig.Signature); i++ {
			sig.Signature[i] = 0xff
		}
		err := sig.Verify(message)
		require.ErrorIs(t, err, ErrInvalidSignature)
		assert.Contains(t, err.Error(), "non-canonical S component")
	})
}

func TestSignatureRoundTrip(t *testing.T) {
	sig := testSignedMessage(t, []byte("round trip"))
	e := serializer.NewEncoder()
	sig.EncodeBinary(e)
	data, err := e.Bytes()
	require.NoError(t, err)
	assert.Len(t, data, 1+Ed25519PublicKeyLength+Ed25519SignatureLength)

	d := serializer.NewDecoder(data)
	decoded, err := SignatureFromDecoder(d)
	require.NoError(t, err)
	require.NoError(t, d.Finish())
	assert.Equal(t, sig, decoded)
}

func TestSignatureJSONRoundTrip(t *testing.T) {
	sig := testSignedMessage(t, []byte("round trip"))
	data, err := json.Marshal(sig)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":0`)
	assert.Contains(t, string(data), `"publicKey":"0x`)
	decoded, err := signatureFromJSONRaw(data)
	require.NoError(t, err)
	assert.Equal(t, Signature(sig), decoded)
}

func TestSignatureUnknownKind(t *testing.T) {
	d := serializer.NewDecoder([]byte{0x07})
	_, err := SignatureFromDecoder(d)
	var unknownErr UnknownSignatureTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, uint8(7), unknownErr.Kind)
}
