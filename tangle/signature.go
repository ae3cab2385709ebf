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
	"crypto/sha512"
	"encoding/json"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/blinklabs-io/gotangle/serializer"
)

// Signature kinds
const (
	SignatureEd25519 uint8 = 0
)

const (
	Ed25519PublicKeyLength = 32
	Ed25519SignatureLength = 64
)

// Signature is the interface implemented by all signature kinds
type Signature interface {
	serializer.Encodable
	serializer.Decodable
	json.Marshaler
	// Type returns the signature kind
	Type() uint8
	isSignature()
}

// SignatureFromDecoder deserializes a signature at the current decoder
// position, dispatching on the kind byte
func SignatureFromDecoder(d *serializer.Decoder) (Signature, error) {
	kind := d.PeekUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case SignatureEd25519:
		sig := &Ed25519Signature{}
		if err := sig.DecodeBinary(d); err != nil {
			return nil, err
		}
		return sig, nil
	default:
		return nil, UnknownSignatureTypeError{Kind: kind}
	}
}

func signatureFromJSONRaw(raw json.RawMessage) (Signature, error) {
	var disc struct {
		Type uint8 `json:"type"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return nil, err
	}
	switch disc.Type {
	case SignatureEd25519:
		sig := &Ed25519Signature{}
		if err := json.Unmarshal(raw, sig); err != nil {
			return nil, err
		}
		return sig, nil
	default:
		return nil, UnknownSignatureTypeError{Kind: disc.Type}
	}
}

// Ed25519Signature is an Ed25519 public key and signature pair
type Ed25519Signature struct {
	PublicKey [Ed25519PublicKeyLength]byte
	Signature [Ed25519SignatureLength]byte
}

func (s *Ed25519Signature) isSignature() {}

func (s *Ed25519Signature) Type() uint8 {
	return SignatureEd25519
}

// Verify checks the signature over the given message. Verification is
// cofactored so that results agree across conforming node implementations
func (s *Ed25519Signature) Verify(message []byte) error {
	A, err := (&edwards25519.Point{}).SetBytes(s.PublicKey[:])
	if err != nil {
		return fmt.Errorf("%w: malformed public key: %w", ErrInvalidSignature, err)
	}
	R, err := (&edwards25519.Point{}).SetBytes(s.Signature[:32])
	if err != nil {
		return fmt.Errorf("%w: malformed R component: %w", ErrInvalidSignature, err)
	}
	sScalar, err := edwards25519.NewScalar().SetCanonicalBytes(s.Signature[32:])
	if err != nil {
		return fmt.Errorf(
			"%w: non-canonical S component: %w",
			ErrInvalidSignature,
			err,
		)
	}
	h := sha512.New()
	h.Write(s.Signature[:32])
	h.Write(s.PublicKey[:])
	h.Write(message)
	var digest [64]byte
	h.Sum(digest[:0])
	k, err := edwards25519.NewScalar().SetUniformBytes(digest[:])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	// Check [8]([s]B - R - [k]A) == identity
	minusA := (&edwards25519.Point{}).Negate(A)
	rPrime := (&edwards25519.Point{}).VarTimeDoubleScalarBaseMult(
		k,
		minusA,
		sScalar,
	)
	diff := (&edwards25519.Point{}).Subtract(rPrime, R)
	if (&edwards25519.Point{}).MultByCofactor(diff).
		Equal(edwards25519.NewIdentityPoint()) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

func (s *Ed25519Signature) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(SignatureEd25519)
	e.WriteBytes(s.PublicKey[:])
	e.WriteBytes(s.Signature[:])
}

func (s *Ed25519Signature) DecodeBinary(d *serializer.Decoder) error {
	kind := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != SignatureEd25519 {
		return UnknownSignatureTypeError{Kind: kind}
	}
	d.ReadInto(s.PublicKey[:])
	d.ReadInto(s.Signature[:])
	return d.Err()
}

func (s *Ed25519Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type      uint8  `json:"type"`
		PublicKey string `json:"publicKey"`
		Signature string `json:"signature"`
	}{
		Type:      SignatureEd25519,
		PublicKey: EncodeHex(s.PublicKey[:]),
		Signature: EncodeHex(s.Signature[:]),
	})
}

func (s *Ed25519Signature) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type      uint8  `json:"type"`
		PublicKey string `json:"publicKey"`
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != SignatureEd25519 {
		return UnknownSignatureTypeError{Kind: tmp.Type}
	}
	pubKey, err := decodeHexFixed(tmp.PublicKey, Ed25519PublicKeyLength)
	if err != nil {
		return err
	}
	sig, err := decodeHexFixed(tmp.Signature, Ed25519SignatureLength)
	if err != nil {
		return err
	}
	copy(s.PublicKey[:], pubKey)
	copy(s.Signature[:], sig)
	return nil
}

var _ Signature = (*Ed25519Signature)(nil)
