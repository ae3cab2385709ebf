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
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/blinklabs-io/gotangle/serializer"
)

// Milestone option kinds
const (
	MilestoneOptionReceipt    uint8 = 0
	MilestoneOptionParameters uint8 = 1
)

const (
	// TailTransactionHashLength is the size of a legacy network tail
	// transaction hash referenced by migrated funds
	TailTransactionHashLength = 49
	// MaxMilestoneMetadataLength bounds the metadata of a milestone
	MaxMilestoneMetadataLength = 8192
	// MaxMilestoneSignatureCount bounds the signatures of a milestone
	MaxMilestoneSignatureCount = 255
)

// MilestoneOption is the interface implemented by all milestone option
// kinds
type MilestoneOption interface {
	serializer.Encodable
	serializer.Decodable
	json.Marshaler
	// Type returns the milestone option kind
	Type() uint8
	isMilestoneOption()
}

func milestoneOptionFromDecoder(d *serializer.Decoder) (MilestoneOption, error) {
	kind := d.PeekUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	var opt MilestoneOption
	switch kind {
	case MilestoneOptionReceipt:
		opt = &ReceiptMilestoneOption{}
	case MilestoneOptionParameters:
		opt = &ParametersMilestoneOption{}
	default:
		return nil, UnknownMilestoneOptionTypeError{Kind: kind}
	}
	if err := opt.DecodeBinary(d); err != nil {
		return nil, err
	}
	return opt, nil
}

func milestoneOptionFromJSONRaw(raw json.RawMessage) (MilestoneOption, error) {
	var disc struct {
		Type uint8 `json:"type"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return nil, err
	}
	var opt MilestoneOption
	switch disc.Type {
	case MilestoneOptionReceipt:
		opt = &ReceiptMilestoneOption{}
	case MilestoneOptionParameters:
		opt = &ParametersMilestoneOption{}
	default:
		return nil, UnknownMilestoneOptionTypeError{Kind: disc.Type}
	}
	if err := json.Unmarshal(raw, opt); err != nil {
		return nil, err
	}
	return opt, nil
}

// MigratedFundsEntry records funds migrated from the legacy network into
// an address
type MigratedFundsEntry struct {
	TailTransactionHash [TailTransactionHashLength]byte
	Address             Address
	Deposit             uint64
}

func (m *MigratedFundsEntry) EncodeBinary(e *serializer.Encoder) {
	e.WriteBytes(m.TailTransactionHash[:])
	m.Address.EncodeBinary(e)
	e.WriteUint64(m.Deposit)
}

func (m *MigratedFundsEntry) DecodeBinary(d *serializer.Decoder) error {
	d.ReadInto(m.TailTransactionHash[:])
	if err := d.Err(); err != nil {
		return err
	}
	addr, err := AddressFromDecoder(d)
	if err != nil {
		return err
	}
	m.Address = addr
	m.Deposit = d.ReadUint64()
	return d.Err()
}

func (m *MigratedFundsEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		TailTransactionHash string  `json:"tailTransactionHash"`
		Address             Address `json:"address"`
		Deposit             string  `json:"deposit"`
	}{
		TailTransactionHash: EncodeHex(m.TailTransactionHash[:]),
		Address:             m.Address,
		Deposit:             strconv.FormatUint(m.Deposit, 10),
	})
}

func (m *MigratedFundsEntry) UnmarshalJSON(data []byte) error {
	var tmp struct {
		TailTransactionHash string          `json:"tailTransactionHash"`
		Address             json.RawMessage `json:"address"`
		Deposit             string          `json:"deposit"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	hash, err := decodeHexFixed(
		tmp.TailTransactionHash,
		TailTransactionHashLength,
	)
	if err != nil {
		return err
	}
	addr, err := addressFromJSONRaw(tmp.Address)
	if err != nil {
		return err
	}
	deposit, err := strconv.ParseUint(tmp.Deposit, 10, 64)
	if err != nil {
		return err
	}
	copy(m.TailTransactionHash[:], hash)
	m.Address = addr
	m.Deposit = deposit
	return nil
}

// ReceiptMilestoneOption attests the migration of legacy network funds at
// a given legacy milestone index
type ReceiptMilestoneOption struct {
	MigratedAt uint32
	// Final is set on the last receipt for the given migrated at index
	Final       bool
	Funds       []*MigratedFundsEntry
	Transaction *TreasuryTransactionPayload
}

func (o *ReceiptMilestoneOption) isMilestoneOption() {}

func (o *ReceiptMilestoneOption) Type() uint8 {
	return MilestoneOptionReceipt
}

func (o *ReceiptMilestoneOption) validate() error {
	if len(o.Funds) == 0 {
		return InvalidCountError{Field: "receipt funds", Count: len(o.Funds)}
	}
	for i := 1; i < len(o.Funds); i++ {
		if bytes.Compare(
			o.Funds[i-1].TailTransactionHash[:],
			o.Funds[i].TailTransactionHash[:],
		) >= 0 {
			return ErrFundsNotUniqueSorted
		}
	}
	if o.Transaction == nil {
		return UnknownPayloadTypeError{Kind: 0}
	}
	return nil
}

func (o *ReceiptMilestoneOption) EncodeBinary(e *serializer.Encoder) {
	if err := o.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint8(MilestoneOptionReceipt)
	e.WriteUint32(o.MigratedAt)
	e.WriteBool(o.Final)
	e.WriteUint16(uint16(len(o.Funds)))
	for _, entry := range o.Funds {
		entry.EncodeBinary(e)
	}
	writeOptionalPayload(e, o.Transaction)
}

func (o *ReceiptMilestoneOption) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	o.MigratedAt = d.ReadUint32()
	o.Final = d.ReadBool()
	fundsCount := d.ReadUint16()
	if err := d.Err(); err != nil {
		return err
	}
	o.Funds = make([]*MigratedFundsEntry, 0, fundsCount)
	for i := 0; i < int(fundsCount); i++ {
		entry := &MigratedFundsEntry{}
		if err := entry.DecodeBinary(d); err != nil {
			return err
		}
		o.Funds = append(o.Funds, entry)
	}
	payload, err := readOptionalPayload(d)
	if err != nil {
		return err
	}
	tx, ok := payload.(*TreasuryTransactionPayload)
	if !ok {
		if payload == nil {
			return UnknownPayloadTypeError{Kind: 0}
		}
		return UnknownPayloadTypeError{Kind: payload.PayloadType()}
	}
	o.Transaction = tx
	return o.validate()
}

func (o *ReceiptMilestoneOption) MarshalJSON() ([]byte, error) {
	funds := make([]json.RawMessage, 0, len(o.Funds))
	for _, entry := range o.Funds {
		raw, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		funds = append(funds, raw)
	}
	return json.Marshal(&struct {
		Type        uint8                       `json:"type"`
		MigratedAt  uint32                      `json:"migratedAt"`
		Final       bool                        `json:"final"`
		Funds       []json.RawMessage           `json:"funds"`
		Transaction *TreasuryTransactionPayload `json:"transaction"`
	}{
		Type:        MilestoneOptionReceipt,
		MigratedAt:  o.MigratedAt,
		Final:       o.Final,
		Funds:       funds,
		Transaction: o.Transaction,
	})
}

func (o *ReceiptMilestoneOption) UnmarshalJSON(data []byte) error {
	var tmp struct {
		MigratedAt  uint32                      `json:"migratedAt"`
		Final       bool                        `json:"final"`
		Funds       []json.RawMessage           `json:"funds"`
		Transaction *TreasuryTransactionPayload `json:"transaction"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	o.MigratedAt = tmp.MigratedAt
	o.Final = tmp.Final
	o.Funds = make([]*MigratedFundsEntry, 0, len(tmp.Funds))
	for _, raw := range tmp.Funds {
		entry := &MigratedFundsEntry{}
		if err := json.Unmarshal(raw, entry); err != nil {
			return err
		}
		o.Funds = append(o.Funds, entry)
	}
	o.Transaction = tmp.Transaction
	return o.validate()
}

// ParametersMilestoneOption announces new protocol parameters that take
// effect at a future milestone index
type ParametersMilestoneOption struct {
	TargetMilestoneIndex uint32
	ProtocolVersion      uint8
	Params               []byte
}

func (o *ParametersMilestoneOption) isMilestoneOption() {}

func (o *ParametersMilestoneOption) Type() uint8 {
	return MilestoneOptionParameters
}

func (o *ParametersMilestoneOption) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(MilestoneOptionParameters)
	e.WriteUint32(o.TargetMilestoneIndex)
	e.WriteUint8(o.ProtocolVersion)
	e.WritePrefixedBytes16(o.Params)
}

func (o *ParametersMilestoneOption) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	o.TargetMilestoneIndex = d.ReadUint32()
	o.ProtocolVersion = d.ReadUint8()
	o.Params = d.ReadPrefixedBytes16()
	return d.Err()
}

func (o *ParametersMilestoneOption) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type                 uint8  `json:"type"`
		TargetMilestoneIndex uint32 `json:"targetMilestoneIndex"`
		ProtocolVersion      uint8  `json:"protocolVersion"`
		Params               string `json:"params"`
	}{
		Type:                 MilestoneOptionParameters,
		TargetMilestoneIndex: o.TargetMilestoneIndex,
		ProtocolVersion:      o.ProtocolVersion,
		Params:               EncodeHex(o.Params),
	})
}

func (o *ParametersMilestoneOption) UnmarshalJSON(data []byte) error {
	var tmp struct {
		TargetMilestoneIndex uint32 `json:"targetMilestoneIndex"`
		ProtocolVersion      uint8  `json:"protocolVersion"`
		Params               string `json:"params"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	params, err := DecodeHex(tmp.Params)
	if err != nil {
		return err
	}
	o.TargetMilestoneIndex = tmp.TargetMilestoneIndex
	o.ProtocolVersion = tmp.ProtocolVersion
	o.Params = params
	return nil
}

var (
	_ MilestoneOption = (*ReceiptMilestoneOption)(nil)
	_ MilestoneOption = (*ParametersMilestoneOption)(nil)
)

// MilestonePayload is a signed checkpoint issued by the coordinator. Its
// essence covers every field except the signatures; the milestone ID is
// the BLAKE2b-256 hash of the serialized essence
type MilestonePayload struct {
	Index               uint32
	Timestamp           uint32
	PreviousMilestoneID MilestoneID
	Parents             []MessageID
	InclusionMerkleRoot [32]byte
	AppliedMerkleRoot   [32]byte
	Metadata            []byte
	Options             []MilestoneOption
	Signatures          []Signature
}

func (p *MilestonePayload) isPayload() {}

func (p *MilestonePayload) PayloadType() uint32 {
	return PayloadMilestone
}

func (p *MilestonePayload) validate() error {
	if err := validateParents(p.Parents); err != nil {
		return err
	}
	if len(p.Metadata) > MaxMilestoneMetadataLength {
		return InvalidFieldLengthError{
			Field:  "milestone metadata",
			Length: len(p.Metadata),
			Max:    MaxMilestoneMetadataLength,
		}
	}
	for i := 1; i < len(p.Options); i++ {
		if p.Options[i-1].Type() >= p.Options[i].Type() {
			return ErrOptionsNotUniqueSorted
		}
	}
	if len(p.Signatures) < 1 ||
		len(p.Signatures) > MaxMilestoneSignatureCount {
		return InvalidCountError{
			Field: "milestone signature",
			Count: len(p.Signatures),
		}
	}
	var prev *Ed25519Signature
	for _, sig := range p.Signatures {
		edSig, ok := sig.(*Ed25519Signature)
		if !ok {
			return UnknownSignatureTypeError{Kind: sig.Type()}
		}
		if prev != nil &&
			bytes.Compare(prev.PublicKey[:], edSig.PublicKey[:]) >= 0 {
			return ErrSignaturesNotUniqueSorted
		}
		prev = edSig
	}
	return nil
}

func (p *MilestonePayload) encodeEssence(e *serializer.Encoder) {
	e.WriteUint32(p.Index)
	e.WriteUint32(p.Timestamp)
	e.WriteBytes(p.PreviousMilestoneID[:])
	e.WriteUint8(uint8(len(p.Parents)))
	for _, parent := range p.Parents {
		e.WriteBytes(parent[:])
	}
	e.WriteBytes(p.InclusionMerkleRoot[:])
	e.WriteBytes(p.AppliedMerkleRoot[:])
	e.WritePrefixedBytes16(p.Metadata)
	e.WriteUint8(uint8(len(p.Options)))
	for _, opt := range p.Options {
		opt.EncodeBinary(e)
	}
}

// Essence returns the serialized essence, the portion covered by the
// milestone signatures
func (p *MilestonePayload) Essence() ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	e := serializer.NewEncoder()
	p.encodeEssence(e)
	return e.Bytes()
}

// ID returns the BLAKE2b-256 hash of the serialized essence
func (p *MilestonePayload) ID() (MilestoneID, error) {
	essence, err := p.Essence()
	if err != nil {
		return MilestoneID{}, err
	}
	return MilestoneID(blake2b256Hash(essence)), nil
}

// SigningMessage returns the value signed by the milestone signatures: the
// BLAKE2b-256 hash of the serialized essence
func (p *MilestonePayload) SigningMessage() ([]byte, error) {
	id, err := p.ID()
	if err != nil {
		return nil, err
	}
	return id[:], nil
}

// VerifySignatures checks the milestone signatures against the essence.
// At least minRequired signatures from the applicable public key set must
// verify; any applicable signature that fails verification is an error
func (p *MilestonePayload) VerifySignatures(
	minRequired int,
	applicablePubKeys [][Ed25519PublicKeyLength]byte,
) error {
	msg, err := p.SigningMessage()
	if err != nil {
		return err
	}
	valid := 0
	for i, sig := range p.Signatures {
		edSig, ok := sig.(*Ed25519Signature)
		if !ok {
			return UnknownSignatureTypeError{Kind: sig.Type()}
		}
		applicable := false
		for _, pubKey := range applicablePubKeys {
			if pubKey == edSig.PublicKey {
				applicable = true
				break
			}
		}
		if !applicable {
			continue
		}
		if err := edSig.Verify(msg); err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
		valid++
	}
	if valid < minRequired {
		return fmt.Errorf(
			"insufficient valid signatures: %d of %d required",
			valid,
			minRequired,
		)
	}
	return nil
}

func (p *MilestonePayload) EncodeBinary(e *serializer.Encoder) {
	if err := p.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint32(PayloadMilestone)
	p.encodeEssence(e)
	e.WriteUint8(uint8(len(p.Signatures)))
	for _, sig := range p.Signatures {
		sig.EncodeBinary(e)
	}
}

func (p *MilestonePayload) DecodeBinary(d *serializer.Decoder) error {
	if err := decodePayloadKind(d, PayloadMilestone); err != nil {
		return err
	}
	p.Index = d.ReadUint32()
	p.Timestamp = d.ReadUint32()
	d.ReadInto(p.PreviousMilestoneID[:])
	parentCount := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if parentCount < MinParents || parentCount > MaxParents {
		return InvalidParentCountError{Count: int(parentCount)}
	}
	p.Parents = make([]MessageID, parentCount)
	for i := range p.Parents {
		d.ReadInto(p.Parents[i][:])
	}
	d.ReadInto(p.InclusionMerkleRoot[:])
	d.ReadInto(p.AppliedMerkleRoot[:])
	p.Metadata = d.ReadPrefixedBytes16()
	optionCount := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	p.Options = nil
	for i := 0; i < int(optionCount); i++ {
		opt, err := milestoneOptionFromDecoder(d)
		if err != nil {
			return err
		}
		p.Options = append(p.Options, opt)
	}
	sigCount := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	p.Signatures = make([]Signature, 0, sigCount)
	for i := 0; i < int(sigCount); i++ {
		sig, err := SignatureFromDecoder(d)
		if err != nil {
			return err
		}
		p.Signatures = append(p.Signatures, sig)
	}
	return p.validate()
}

func (p *MilestonePayload) MarshalJSON() ([]byte, error) {
	options := make([]json.RawMessage, 0, len(p.Options))
	for _, opt := range p.Options {
		raw, err := json.Marshal(opt)
		if err != nil {
			return nil, err
		}
		options = append(options, raw)
	}
	signatures := make([]json.RawMessage, 0, len(p.Signatures))
	for _, sig := range p.Signatures {
		raw, err := json.Marshal(sig)
		if err != nil {
			return nil, err
		}
		signatures = append(signatures, raw)
	}
	tmp := struct {
		Type                uint32            `json:"type"`
		Index               uint32            `json:"index"`
		Timestamp           uint32            `json:"timestamp"`
		PreviousMilestoneID MilestoneID       `json:"previousMilestoneId"`
		Parents             []MessageID       `json:"parents"`
		InclusionMerkleRoot string            `json:"inclusionMerkleRoot"`
		AppliedMerkleRoot   string            `json:"appliedMerkleRoot"`
		Metadata            string            `json:"metadata,omitempty"`
		Options             []json.RawMessage `json:"options,omitempty"`
		Signatures          []json.RawMessage `json:"signatures"`
	}{
		Type:                PayloadMilestone,
		Index:               p.Index,
		Timestamp:           p.Timestamp,
		PreviousMilestoneID: p.PreviousMilestoneID,
		Parents:             p.Parents,
		InclusionMerkleRoot: EncodeHex(p.InclusionMerkleRoot[:]),
		AppliedMerkleRoot:   EncodeHex(p.AppliedMerkleRoot[:]),
		Options:             options,
		Signatures:          signatures,
	}
	if len(p.Metadata) > 0 {
		tmp.Metadata = EncodeHex(p.Metadata)
	}
	return json.Marshal(&tmp)
}

func (p *MilestonePayload) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type                uint32            `json:"type"`
		Index               uint32            `json:"index"`
		Timestamp           uint32            `json:"timestamp"`
		PreviousMilestoneID MilestoneID       `json:"previousMilestoneId"`
		Parents             []MessageID       `json:"parents"`
		InclusionMerkleRoot string            `json:"inclusionMerkleRoot"`
		AppliedMerkleRoot   string            `json:"appliedMerkleRoot"`
		Metadata            string            `json:"metadata"`
		Options             []json.RawMessage `json:"options"`
		Signatures          []json.RawMessage `json:"signatures"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != PayloadMilestone {
		return UnknownPayloadTypeError{Kind: tmp.Type}
	}
	inclusionRoot, err := decodeHexFixed(tmp.InclusionMerkleRoot, 32)
	if err != nil {
		return err
	}
	appliedRoot, err := decodeHexFixed(tmp.AppliedMerkleRoot, 32)
	if err != nil {
		return err
	}
	p.Index = tmp.Index
	p.Timestamp = tmp.Timestamp
	p.PreviousMilestoneID = tmp.PreviousMilestoneID
	p.Parents = tmp.Parents
	copy(p.InclusionMerkleRoot[:], inclusionRoot)
	copy(p.AppliedMerkleRoot[:], appliedRoot)
	p.Metadata = nil
	if tmp.Metadata != "" {
		metadata, err := DecodeHex(tmp.Metadata)
		if err != nil {
			return err
		}
		p.Metadata = metadata
	}
	p.Options = nil
	for _, raw := range tmp.Options {
		opt, err := milestoneOptionFromJSONRaw(raw)
		if err != nil {
			return err
		}
		p.Options = append(p.Options, opt)
	}
	p.Signatures = make([]Signature, 0, len(tmp.Signatures))
	for _, raw := range tmp.Signatures {
		sig, err := signatureFromJSONRaw(raw)
		if err != nil {
			return err
		}
		p.Signatures = append(p.Signatures, sig)
	}
	return p.validate()
}

var _ Payload = (*MilestonePayload)(nil)
