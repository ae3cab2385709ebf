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
	"encoding/binary"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	MessageIDLength     = 32
	TransactionIDLength = 32
	MilestoneIDLength   = 32
	AliasIDLength       = 32
	NFTIDLength         = 32
	// OutputIDLength is a transaction ID plus a uint16 output index
	OutputIDLength = TransactionIDLength + 2
	// FoundryIDLength is a serialized alias address plus a uint32 serial
	// number and a token scheme kind byte
	FoundryIDLength = 33 + 4 + 1
)

func blake2b256Hash(data []byte) [32]byte {
	tmpHash, err := blake2b.New256(nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error creating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(data)
	var out [32]byte
	copy(out[:], tmpHash.Sum(nil))
	return out
}

// MessageID is the BLAKE2b-256 hash of a serialized message
type MessageID [MessageIDLength]byte

func NewMessageID(data []byte) MessageID {
	m := MessageID{}
	copy(m[:], data)
	return m
}

// MessageIDFromHex parses a 0x-prefixed hex message ID
func MessageIDFromHex(s string) (MessageID, error) {
	data, err := decodeHexFixed(s, MessageIDLength)
	if err != nil {
		return MessageID{}, err
	}
	return NewMessageID(data), nil
}

func (m MessageID) String() string {
	return EncodeHex(m[:])
}

func (m MessageID) Bytes() []byte {
	return m[:]
}

func (m MessageID) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *MessageID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tmp, err := MessageIDFromHex(s)
	if err != nil {
		return err
	}
	*m = tmp
	return nil
}

// TransactionID is the BLAKE2b-256 hash of a serialized transaction payload
type TransactionID [TransactionIDLength]byte

func NewTransactionID(data []byte) TransactionID {
	t := TransactionID{}
	copy(t[:], data)
	return t
}

// TransactionIDFromHex parses a 0x-prefixed hex transaction ID
func TransactionIDFromHex(s string) (TransactionID, error) {
	data, err := decodeHexFixed(s, TransactionIDLength)
	if err != nil {
		return TransactionID{}, err
	}
	return NewTransactionID(data), nil
}

func (t TransactionID) String() string {
	return EncodeHex(t[:])
}

func (t TransactionID) Bytes() []byte {
	return t[:]
}

func (t TransactionID) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TransactionID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tmp, err := TransactionIDFromHex(s)
	if err != nil {
		return err
	}
	*t = tmp
	return nil
}

// MilestoneID is the BLAKE2b-256 hash of a serialized milestone essence
type MilestoneID [MilestoneIDLength]byte

func NewMilestoneID(data []byte) MilestoneID {
	m := MilestoneID{}
	copy(m[:], data)
	return m
}

// MilestoneIDFromHex parses a 0x-prefixed hex milestone ID
func MilestoneIDFromHex(s string) (MilestoneID, error) {
	data, err := decodeHexFixed(s, MilestoneIDLength)
	if err != nil {
		return MilestoneID{}, err
	}
	return NewMilestoneID(data), nil
}

func (m MilestoneID) String() string {
	return EncodeHex(m[:])
}

func (m MilestoneID) Bytes() []byte {
	return m[:]
}

func (m MilestoneID) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *MilestoneID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tmp, err := MilestoneIDFromHex(s)
	if err != nil {
		return err
	}
	*m = tmp
	return nil
}

// OutputID identifies a transaction output as the creating transaction ID
// followed by the little-endian uint16 output index
type OutputID [OutputIDLength]byte

func NewOutputID(txID TransactionID, index uint16) OutputID {
	o := OutputID{}
	copy(o[:], txID[:])
	binary.LittleEndian.PutUint16(o[TransactionIDLength:], index)
	return o
}

// OutputIDFromHex parses a 0x-prefixed hex output ID
func OutputIDFromHex(s string) (OutputID, error) {
	data, err := decodeHexFixed(s, OutputIDLength)
	if err != nil {
		return OutputID{}, err
	}
	o := OutputID{}
	copy(o[:], data)
	return o, nil
}

// TransactionID returns the ID of the transaction that created the output
func (o OutputID) TransactionID() TransactionID {
	return NewTransactionID(o[:TransactionIDLength])
}

// Index returns the output index within the creating transaction
func (o OutputID) Index() uint16 {
	return binary.LittleEndian.Uint16(o[TransactionIDLength:])
}

func (o OutputID) String() string {
	return EncodeHex(o[:])
}

func (o OutputID) Bytes() []byte {
	return o[:]
}

func (o OutputID) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *OutputID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tmp, err := OutputIDFromHex(s)
	if err != nil {
		return err
	}
	*o = tmp
	return nil
}

// AliasID identifies an alias output chain. It is the BLAKE2b-256 hash of
// the output ID that created the alias
type AliasID [AliasIDLength]byte

func NewAliasID(data []byte) AliasID {
	a := AliasID{}
	copy(a[:], data)
	return a
}

// AliasIDFromOutputID derives the alias ID assigned to an alias output
// created by the given output ID
func AliasIDFromOutputID(outputID OutputID) AliasID {
	return AliasID(blake2b256Hash(outputID[:]))
}

// AliasIDFromHex parses a 0x-prefixed hex alias ID
func AliasIDFromHex(s string) (AliasID, error) {
	data, err := decodeHexFixed(s, AliasIDLength)
	if err != nil {
		return AliasID{}, err
	}
	return NewAliasID(data), nil
}

// Empty returns true for the all-zero alias ID used by a freshly minted
// alias output
func (a AliasID) Empty() bool {
	return a == AliasID{}
}

// Address returns the alias address backed by this alias ID
func (a AliasID) Address() *AliasAddress {
	return &AliasAddress{AliasID: a}
}

func (a AliasID) String() string {
	return EncodeHex(a[:])
}

func (a AliasID) Bytes() []byte {
	return a[:]
}

func (a AliasID) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *AliasID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tmp, err := AliasIDFromHex(s)
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

// NFTID identifies an NFT output chain. It is the BLAKE2b-256 hash of the
// output ID that created the NFT
type NFTID [NFTIDLength]byte

func NewNFTID(data []byte) NFTID {
	n := NFTID{}
	copy(n[:], data)
	return n
}

// NFTIDFromOutputID derives the NFT ID assigned to an NFT output created by
// the given output ID
func NFTIDFromOutputID(outputID OutputID) NFTID {
	return NFTID(blake2b256Hash(outputID[:]))
}

// NFTIDFromHex parses a 0x-prefixed hex NFT ID
func NFTIDFromHex(s string) (NFTID, error) {
	data, err := decodeHexFixed(s, NFTIDLength)
	if err != nil {
		return NFTID{}, err
	}
	return NewNFTID(data), nil
}

// Empty returns true for the all-zero NFT ID used by a freshly minted NFT
// output
func (n NFTID) Empty() bool {
	return n == NFTID{}
}

// Address returns the NFT address backed by this NFT ID
func (n NFTID) Address() *NFTAddress {
	return &NFTAddress{NFTID: n}
}

func (n NFTID) String() string {
	return EncodeHex(n[:])
}

func (n NFTID) Bytes() []byte {
	return n[:]
}

func (n NFTID) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

func (n *NFTID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tmp, err := NFTIDFromHex(s)
	if err != nil {
		return err
	}
	*n = tmp
	return nil
}

// FoundryID identifies a foundry output: the serialized alias address of
// the controlling alias, the foundry serial number, and the token scheme
// kind. It doubles as the ID of the native token the foundry controls
type FoundryID [FoundryIDLength]byte

// NewFoundryID builds a foundry ID from its components
func NewFoundryID(
	aliasAddr *AliasAddress,
	serialNumber uint32,
	tokenSchemeKind uint8,
) FoundryID {
	f := FoundryID{}
	f[0] = AddressAlias
	copy(f[1:], aliasAddr.AliasID[:])
	binary.LittleEndian.PutUint32(f[33:], serialNumber)
	f[37] = tokenSchemeKind
	return f
}

// FoundryIDFromHex parses a 0x-prefixed hex foundry ID
func FoundryIDFromHex(s string) (FoundryID, error) {
	data, err := decodeHexFixed(s, FoundryIDLength)
	if err != nil {
		return FoundryID{}, err
	}
	f := FoundryID{}
	copy(f[:], data)
	return f, nil
}

func (f FoundryID) String() string {
	return EncodeHex(f[:])
}

func (f FoundryID) Bytes() []byte {
	return f[:]
}

func (f FoundryID) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *FoundryID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tmp, err := FoundryIDFromHex(s)
	if err != nil {
		return err
	}
	*f = tmp
	return nil
}

// TokenID identifies a native token. It is identical to the ID of the
// foundry that mints it
type TokenID = FoundryID

// TokenIDFromHex parses a 0x-prefixed hex token ID
func TokenIDFromHex(s string) (TokenID, error) {
	return FoundryIDFromHex(s)
}
