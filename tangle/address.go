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
	"fmt"

	"github.com/blinklabs-io/gotangle/serializer"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Address kinds
const (
	AddressEd25519 uint8 = 0
	AddressAlias   uint8 = 8
	AddressNFT     uint8 = 16
)

const Ed25519AddressLength = 32

// Address is the interface implemented by all address kinds. The serialized
// form is the kind byte followed by the 32-byte address body
type Address interface {
	serializer.Encodable
	serializer.Decodable
	json.Marshaler
	// Type returns the address kind
	Type() uint8
	// Bech32 returns the address encoded as bech32 with the given human
	// readable prefix
	Bech32(hrp string) string
	// Equal returns true when the other address has the same kind and body
	Equal(other Address) bool
	String() string
	isAddress()
}

// SerializedAddressLength is the serialized size of any address: the kind
// byte plus the 32-byte body
const SerializedAddressLength = 1 + Ed25519AddressLength

// bech32Encode converts the serialized address to base32 and encodes it as
// bech32 with the given prefix
func bech32Encode(hrp string, serialized []byte) string {
	convData, err := bech32.ConvertBits(serialized, 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to base32: %s", err),
		)
	}
	encoded, err := bech32.Encode(hrp, convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}

// ParseBech32 decodes a bech32 address string and returns the human
// readable prefix and the address. Any corruption of the string is caught
// by the bech32 checksum
func ParseBech32(s string) (string, Address, error) {
	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidBech32, err)
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidBech32, err)
	}
	addr, err := AddressFromBytes(decoded)
	if err != nil {
		return "", nil, err
	}
	return hrp, addr, nil
}

// AddressFromBytes deserializes an address from its binary form
func AddressFromBytes(data []byte) (Address, error) {
	d := serializer.NewDecoder(data)
	addr, err := AddressFromDecoder(d)
	if err != nil {
		return nil, err
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return addr, nil
}

// AddressFromDecoder deserializes an address at the current decoder
// position, dispatching on the kind byte
func AddressFromDecoder(d *serializer.Decoder) (Address, error) {
	kind := d.PeekUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	var addr Address
	switch kind {
	case AddressEd25519:
		addr = &Ed25519Address{}
	case AddressAlias:
		addr = &AliasAddress{}
	case AddressNFT:
		addr = &NFTAddress{}
	default:
		return nil, UnknownAddressTypeError{Kind: kind}
	}
	if err := addr.DecodeBinary(d); err != nil {
		return nil, err
	}
	return addr, nil
}

// addressFromJSONRaw deserializes an address from its JSON object form,
// dispatching on the type field
func addressFromJSONRaw(raw json.RawMessage) (Address, error) {
	var disc struct {
		Type uint8 `json:"type"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return nil, err
	}
	var addr Address
	switch disc.Type {
	case AddressEd25519:
		addr = &Ed25519Address{}
	case AddressAlias:
		addr = &AliasAddress{}
	case AddressNFT:
		addr = &NFTAddress{}
	default:
		return nil, UnknownAddressTypeError{Kind: disc.Type}
	}
	if err := json.Unmarshal(raw, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func decodeAddressKind(d *serializer.Decoder, expected uint8) error {
	kind := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != expected {
		return UnknownAddressTypeError{Kind: kind}
	}
	return nil
}

// Ed25519Address is the BLAKE2b-256 hash of an Ed25519 public key
type Ed25519Address struct {
	PubKeyHash [Ed25519AddressLength]byte
}

// NewEd25519Address builds an Ed25519 address from a 32-byte public key
// hash
func NewEd25519Address(pubKeyHash []byte) *Ed25519Address {
	a := &Ed25519Address{}
	copy(a.PubKeyHash[:], pubKeyHash)
	return a
}

// Ed25519AddressFromPubKey derives the address of an Ed25519 public key
func Ed25519AddressFromPubKey(pubKey ed25519.PublicKey) *Ed25519Address {
	return &Ed25519Address{PubKeyHash: blake2b256Hash(pubKey)}
}

func (a *Ed25519Address) isAddress() {}

func (a *Ed25519Address) Type() uint8 {
	return AddressEd25519
}

func (a *Ed25519Address) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(AddressEd25519)
	e.WriteBytes(a.PubKeyHash[:])
}

func (a *Ed25519Address) DecodeBinary(d *serializer.Decoder) error {
	if err := decodeAddressKind(d, AddressEd25519); err != nil {
		return err
	}
	d.ReadInto(a.PubKeyHash[:])
	return d.Err()
}

func (a *Ed25519Address) Bech32(hrp string) string {
	return bech32Encode(hrp, append([]byte{AddressEd25519}, a.PubKeyHash[:]...))
}

func (a *Ed25519Address) Equal(other Address) bool {
	o, ok := other.(*Ed25519Address)
	return ok && a.PubKeyHash == o.PubKeyHash
}

func (a *Ed25519Address) String() string {
	return EncodeHex(a.PubKeyHash[:])
}

func (a *Ed25519Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type       uint8  `json:"type"`
		PubKeyHash string `json:"pubKeyHash"`
	}{
		Type:       AddressEd25519,
		PubKeyHash: EncodeHex(a.PubKeyHash[:]),
	})
}

func (a *Ed25519Address) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type       uint8  `json:"type"`
		PubKeyHash string `json:"pubKeyHash"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != AddressEd25519 {
		return UnknownAddressTypeError{Kind: tmp.Type}
	}
	hash, err := decodeHexFixed(tmp.PubKeyHash, Ed25519AddressLength)
	if err != nil {
		return err
	}
	copy(a.PubKeyHash[:], hash)
	return nil
}

// AliasAddress references an alias output chain by its alias ID
type AliasAddress struct {
	AliasID AliasID
}

func NewAliasAddress(aliasID AliasID) *AliasAddress {
	return &AliasAddress{AliasID: aliasID}
}

func (a *AliasAddress) isAddress() {}

func (a *AliasAddress) Type() uint8 {
	return AddressAlias
}

func (a *AliasAddress) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(AddressAlias)
	e.WriteBytes(a.AliasID[:])
}

func (a *AliasAddress) DecodeBinary(d *serializer.Decoder) error {
	if err := decodeAddressKind(d, AddressAlias); err != nil {
		return err
	}
	d.ReadInto(a.AliasID[:])
	return d.Err()
}

func (a *AliasAddress) Bech32(hrp string) string {
	return bech32Encode(hrp, append([]byte{AddressAlias}, a.AliasID[:]...))
}

func (a *AliasAddress) Equal(other Address) bool {
	o, ok := other.(*AliasAddress)
	return ok && a.AliasID == o.AliasID
}

func (a *AliasAddress) String() string {
	return EncodeHex(a.AliasID[:])
}

func (a *AliasAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type    uint8  `json:"type"`
		AliasID string `json:"aliasId"`
	}{
		Type:    AddressAlias,
		AliasID: a.AliasID.String(),
	})
}

func (a *AliasAddress) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type    uint8  `json:"type"`
		AliasID string `json:"aliasId"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != AddressAlias {
		return UnknownAddressTypeError{Kind: tmp.Type}
	}
	aliasID, err := AliasIDFromHex(tmp.AliasID)
	if err != nil {
		return err
	}
	a.AliasID = aliasID
	return nil
}

// NFTAddress references an NFT output chain by its NFT ID
type NFTAddress struct {
	NFTID NFTID
}

func NewNFTAddress(nftID NFTID) *NFTAddress {
	return &NFTAddress{NFTID: nftID}
}

func (a *NFTAddress) isAddress() {}

func (a *NFTAddress) Type() uint8 {
	return AddressNFT
}

func (a *NFTAddress) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(AddressNFT)
	e.WriteBytes(a.NFTID[:])
}

func (a *NFTAddress) DecodeBinary(d *serializer.Decoder) error {
	if err := decodeAddressKind(d, AddressNFT); err != nil {
		return err
	}
	d.ReadInto(a.NFTID[:])
	return d.Err()
}

func (a *NFTAddress) Bech32(hrp string) string {
	return bech32Encode(hrp, append([]byte{AddressNFT}, a.NFTID[:]...))
}

func (a *NFTAddress) Equal(other Address) bool {
	o, ok := other.(*NFTAddress)
	return ok && a.NFTID == o.NFTID
}

func (a *NFTAddress) String() string {
	return EncodeHex(a.NFTID[:])
}

func (a *NFTAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type  uint8  `json:"type"`
		NFTID string `json:"nftId"`
	}{
		Type:  AddressNFT,
		NFTID: a.NFTID.String(),
	})
}

func (a *NFTAddress) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type  uint8  `json:"type"`
		NFTID string `json:"nftId"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != AddressNFT {
		return UnknownAddressTypeError{Kind: tmp.Type}
	}
	nftID, err := NFTIDFromHex(tmp.NFTID)
	if err != nil {
		return err
	}
	a.NFTID = nftID
	return nil
}

// compile-time interface checks
var (
	_ Address = (*Ed25519Address)(nil)
	_ Address = (*AliasAddress)(nil)
	_ Address = (*NFTAddress)(nil)
)
