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
	"fmt"

	"github.com/blinklabs-io/gotangle/serializer"
)

// Unlock kinds
const (
	UnlockSignature uint8 = 0
	UnlockReference uint8 = 1
	UnlockAlias     uint8 = 2
	UnlockNFT       uint8 = 3
)

// Unlock is the interface implemented by all unlock kinds. The unlock at
// position i authorizes consumption of the transaction input at position i
type Unlock interface {
	serializer.Encodable
	serializer.Decodable
	json.Marshaler
	// Type returns the unlock kind
	Type() uint8
	isUnlock()
}

// validateUnlocks checks that every referential unlock points at an
// earlier unlock
func validateUnlocks(unlocks []Unlock) error {
	for i, unlock := range unlocks {
		var ref uint16
		switch u := unlock.(type) {
		case *ReferenceUnlock:
			ref = u.Reference
		case *AliasUnlock:
			ref = u.Reference
		case *NFTUnlock:
			ref = u.Reference
		default:
			continue
		}
		if int(ref) >= i {
			return fmt.Errorf("invalid unlock reference: %d", ref)
		}
	}
	return nil
}

func unlockFromDecoder(d *serializer.Decoder) (Unlock, error) {
	kind := d.PeekUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	var unlock Unlock
	switch kind {
	case UnlockSignature:
		unlock = &SignatureUnlock{}
	case UnlockReference:
		unlock = &ReferenceUnlock{}
	case UnlockAlias:
		unlock = &AliasUnlock{}
	case UnlockNFT:
		unlock = &NFTUnlock{}
	default:
		return nil, UnknownUnlockTypeError{Kind: kind}
	}
	if err := unlock.DecodeBinary(d); err != nil {
		return nil, err
	}
	return unlock, nil
}

func unlockFromJSONRaw(raw json.RawMessage) (Unlock, error) {
	var disc struct {
		Type uint8 `json:"type"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return nil, err
	}
	var unlock Unlock
	switch disc.Type {
	case UnlockSignature:
		unlock = &SignatureUnlock{}
	case UnlockReference:
		unlock = &ReferenceUnlock{}
	case UnlockAlias:
		unlock = &AliasUnlock{}
	case UnlockNFT:
		unlock = &NFTUnlock{}
	default:
		return nil, UnknownUnlockTypeError{Kind: disc.Type}
	}
	if err := json.Unmarshal(raw, unlock); err != nil {
		return nil, err
	}
	return unlock, nil
}

// SignatureUnlock carries the signature authorizing its input directly
type SignatureUnlock struct {
	Signature Signature
}

func (u *SignatureUnlock) isUnlock() {}

func (u *SignatureUnlock) Type() uint8 {
	return UnlockSignature
}

func (u *SignatureUnlock) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(UnlockSignature)
	u.Signature.EncodeBinary(e)
}

func (u *SignatureUnlock) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	sig, err := SignatureFromDecoder(d)
	if err != nil {
		return err
	}
	u.Signature = sig
	return nil
}

func (u *SignatureUnlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type      uint8     `json:"type"`
		Signature Signature `json:"signature"`
	}{
		Type:      UnlockSignature,
		Signature: u.Signature,
	})
}

func (u *SignatureUnlock) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Signature json.RawMessage `json:"signature"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	sig, err := signatureFromJSONRaw(tmp.Signature)
	if err != nil {
		return err
	}
	u.Signature = sig
	return nil
}

// ReferenceUnlock points at an earlier signature unlock covering the same
// address
type ReferenceUnlock struct {
	Reference uint16
}

func (u *ReferenceUnlock) isUnlock() {}

func (u *ReferenceUnlock) Type() uint8 {
	return UnlockReference
}

func (u *ReferenceUnlock) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(UnlockReference)
	e.WriteUint16(u.Reference)
}

func (u *ReferenceUnlock) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	u.Reference = d.ReadUint16()
	return d.Err()
}

func (u *ReferenceUnlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type      uint8  `json:"type"`
		Reference uint16 `json:"reference"`
	}{
		Type:      UnlockReference,
		Reference: u.Reference,
	})
}

func (u *ReferenceUnlock) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Reference uint16 `json:"reference"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	u.Reference = tmp.Reference
	return nil
}

// AliasUnlock points at the unlock of the alias that owns the input
type AliasUnlock struct {
	Reference uint16
}

func (u *AliasUnlock) isUnlock() {}

func (u *AliasUnlock) Type() uint8 {
	return UnlockAlias
}

func (u *AliasUnlock) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(UnlockAlias)
	e.WriteUint16(u.Reference)
}

func (u *AliasUnlock) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	u.Reference = d.ReadUint16()
	return d.Err()
}

func (u *AliasUnlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type      uint8  `json:"type"`
		Reference uint16 `json:"reference"`
	}{
		Type:      UnlockAlias,
		Reference: u.Reference,
	})
}

func (u *AliasUnlock) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Reference uint16 `json:"reference"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	u.Reference = tmp.Reference
	return nil
}

// NFTUnlock points at the unlock of the NFT that owns the input
type NFTUnlock struct {
	Reference uint16
}

func (u *NFTUnlock) isUnlock() {}

func (u *NFTUnlock) Type() uint8 {
	return UnlockNFT
}

func (u *NFTUnlock) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(UnlockNFT)
	e.WriteUint16(u.Reference)
}

func (u *NFTUnlock) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	u.Reference = d.ReadUint16()
	return d.Err()
}

func (u *NFTUnlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type      uint8  `json:"type"`
		Reference uint16 `json:"reference"`
	}{
		Type:      UnlockNFT,
		Reference: u.Reference,
	})
}

func (u *NFTUnlock) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Reference uint16 `json:"reference"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	u.Reference = tmp.Reference
	return nil
}

var (
	_ Unlock = (*SignatureUnlock)(nil)
	_ Unlock = (*ReferenceUnlock)(nil)
	_ Unlock = (*AliasUnlock)(nil)
	_ Unlock = (*NFTUnlock)(nil)
)
