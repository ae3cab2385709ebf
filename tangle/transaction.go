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
	"strconv"

	"github.com/blinklabs-io/gotangle/serializer"
)

// Input kinds
const (
	InputUTXO     uint8 = 0
	InputTreasury uint8 = 1
)

// Essence kinds
const (
	TransactionEssenceNormal uint8 = 1
)

const (
	// MinTransactionInputCount and MaxTransactionInputCount bound the inputs
	// of a transaction; outputs share the same bounds
	MinTransactionInputCount  = 1
	MaxTransactionInputCount  = 128
	MinTransactionOutputCount = 1
	MaxTransactionOutputCount = 128
)

// Input is the interface implemented by all transaction input kinds
type Input interface {
	serializer.Encodable
	serializer.Decodable
	json.Marshaler
	// Type returns the input kind
	Type() uint8
	isInput()
}

func inputFromDecoder(d *serializer.Decoder) (Input, error) {
	kind := d.PeekUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	var in Input
	switch kind {
	case InputUTXO:
		in = &UTXOInput{}
	case InputTreasury:
		in = &TreasuryInput{}
	default:
		return nil, UnknownInputTypeError{Kind: kind}
	}
	if err := in.DecodeBinary(d); err != nil {
		return nil, err
	}
	return in, nil
}

func inputFromJSONRaw(raw json.RawMessage) (Input, error) {
	var disc struct {
		Type uint8 `json:"type"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return nil, err
	}
	var in Input
	switch disc.Type {
	case InputUTXO:
		in = &UTXOInput{}
	case InputTreasury:
		in = &TreasuryInput{}
	default:
		return nil, UnknownInputTypeError{Kind: disc.Type}
	}
	if err := json.Unmarshal(raw, in); err != nil {
		return nil, err
	}
	return in, nil
}

// UTXOInput spends an output of an earlier transaction
type UTXOInput struct {
	TransactionID TransactionID
	Index         uint16
}

// OutputID returns the ID of the output the input spends
func (i *UTXOInput) OutputID() OutputID {
	return NewOutputID(i.TransactionID, i.Index)
}

func (i *UTXOInput) isInput() {}

func (i *UTXOInput) Type() uint8 {
	return InputUTXO
}

func (i *UTXOInput) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(InputUTXO)
	e.WriteBytes(i.TransactionID[:])
	e.WriteUint16(i.Index)
}

func (i *UTXOInput) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	d.ReadInto(i.TransactionID[:])
	i.Index = d.ReadUint16()
	return d.Err()
}

func (i *UTXOInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type          uint8         `json:"type"`
		TransactionID TransactionID `json:"transactionId"`
		Index         uint16        `json:"transactionOutputIndex"`
	}{
		Type:          InputUTXO,
		TransactionID: i.TransactionID,
		Index:         i.Index,
	})
}

func (i *UTXOInput) UnmarshalJSON(data []byte) error {
	var tmp struct {
		TransactionID TransactionID `json:"transactionId"`
		Index         uint16        `json:"transactionOutputIndex"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	i.TransactionID = tmp.TransactionID
	i.Index = tmp.Index
	return nil
}

// TreasuryInput spends the treasury output created by an earlier milestone
type TreasuryInput struct {
	MilestoneID MilestoneID
}

func (i *TreasuryInput) isInput() {}

func (i *TreasuryInput) Type() uint8 {
	return InputTreasury
}

func (i *TreasuryInput) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(InputTreasury)
	e.WriteBytes(i.MilestoneID[:])
}

func (i *TreasuryInput) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	d.ReadInto(i.MilestoneID[:])
	return d.Err()
}

func (i *TreasuryInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type        uint8       `json:"type"`
		MilestoneID MilestoneID `json:"milestoneId"`
	}{
		Type:        InputTreasury,
		MilestoneID: i.MilestoneID,
	})
}

func (i *TreasuryInput) UnmarshalJSON(data []byte) error {
	var tmp struct {
		MilestoneID MilestoneID `json:"milestoneId"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	i.MilestoneID = tmp.MilestoneID
	return nil
}

var (
	_ Input = (*UTXOInput)(nil)
	_ Input = (*TreasuryInput)(nil)
)

// TransactionEssence is the signed portion of a transaction: the network,
// the consumed inputs, the created outputs, and an optional tagged data
// payload
type TransactionEssence struct {
	NetworkID        uint64
	Inputs           []Input
	InputsCommitment [32]byte
	Outputs          []Output
	Payload          Payload
}

// ComputeInputsCommitment returns the BLAKE2b-256 hash over the
// BLAKE2b-256 hashes of the serialized outputs consumed by a transaction
func ComputeInputsCommitment(consumed []Output) ([32]byte, error) {
	var concat []byte
	for _, output := range consumed {
		data, err := serializer.Encode(output)
		if err != nil {
			return [32]byte{}, err
		}
		hash := blake2b256Hash(data)
		concat = append(concat, hash[:]...)
	}
	return blake2b256Hash(concat), nil
}

// SigningMessage returns the BLAKE2b-256 hash of the serialized essence,
// the value covered by the transaction signatures
func (t *TransactionEssence) SigningMessage() ([]byte, error) {
	data, err := serializer.Encode(t)
	if err != nil {
		return nil, err
	}
	hash := blake2b256Hash(data)
	return hash[:], nil
}

func (t *TransactionEssence) validate() error {
	if len(t.Inputs) < MinTransactionInputCount ||
		len(t.Inputs) > MaxTransactionInputCount {
		return InvalidCountError{Field: "input", Count: len(t.Inputs)}
	}
	if len(t.Outputs) < MinTransactionOutputCount ||
		len(t.Outputs) > MaxTransactionOutputCount {
		return InvalidCountError{Field: "output", Count: len(t.Outputs)}
	}
	if t.Payload != nil {
		if _, ok := t.Payload.(*TaggedDataPayload); !ok {
			return UnknownPayloadTypeError{Kind: t.Payload.PayloadType()}
		}
	}
	return nil
}

func (t *TransactionEssence) EncodeBinary(e *serializer.Encoder) {
	if err := t.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint8(TransactionEssenceNormal)
	e.WriteUint64(t.NetworkID)
	e.WriteUint16(uint16(len(t.Inputs)))
	for _, in := range t.Inputs {
		in.EncodeBinary(e)
	}
	e.WriteBytes(t.InputsCommitment[:])
	e.WriteUint16(uint16(len(t.Outputs)))
	for _, out := range t.Outputs {
		out.EncodeBinary(e)
	}
	writeOptionalPayload(e, t.Payload)
}

func (t *TransactionEssence) DecodeBinary(d *serializer.Decoder) error {
	kind := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != TransactionEssenceNormal {
		return UnknownEssenceTypeError{Kind: kind}
	}
	t.NetworkID = d.ReadUint64()
	inputCount := d.ReadUint16()
	if err := d.Err(); err != nil {
		return err
	}
	t.Inputs = make([]Input, 0, inputCount)
	for i := 0; i < int(inputCount); i++ {
		in, err := inputFromDecoder(d)
		if err != nil {
			return err
		}
		t.Inputs = append(t.Inputs, in)
	}
	d.ReadInto(t.InputsCommitment[:])
	outputCount := d.ReadUint16()
	if err := d.Err(); err != nil {
		return err
	}
	t.Outputs = make([]Output, 0, outputCount)
	for i := 0; i < int(outputCount); i++ {
		out, err := OutputFromDecoder(d)
		if err != nil {
			return err
		}
		t.Outputs = append(t.Outputs, out)
	}
	payload, err := readOptionalPayload(d)
	if err != nil {
		return err
	}
	t.Payload = payload
	return t.validate()
}

func (t *TransactionEssence) MarshalJSON() ([]byte, error) {
	inputs := make([]json.RawMessage, 0, len(t.Inputs))
	for _, in := range t.Inputs {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, raw)
	}
	outputs := make([]json.RawMessage, 0, len(t.Outputs))
	for _, out := range t.Outputs {
		raw, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, raw)
	}
	return json.Marshal(&struct {
		Type             uint8             `json:"type"`
		NetworkID        string            `json:"networkId"`
		Inputs           []json.RawMessage `json:"inputs"`
		InputsCommitment string            `json:"inputsCommitment"`
		Outputs          []json.RawMessage `json:"outputs"`
		Payload          Payload           `json:"payload,omitempty"`
	}{
		Type:             TransactionEssenceNormal,
		NetworkID:        strconv.FormatUint(t.NetworkID, 10),
		Inputs:           inputs,
		InputsCommitment: EncodeHex(t.InputsCommitment[:]),
		Outputs:          outputs,
		Payload:          t.Payload,
	})
}

func (t *TransactionEssence) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type             uint8             `json:"type"`
		NetworkID        string            `json:"networkId"`
		Inputs           []json.RawMessage `json:"inputs"`
		InputsCommitment string            `json:"inputsCommitment"`
		Outputs          []json.RawMessage `json:"outputs"`
		Payload          json.RawMessage   `json:"payload"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != TransactionEssenceNormal {
		return UnknownEssenceTypeError{Kind: tmp.Type}
	}
	networkID, err := strconv.ParseUint(tmp.NetworkID, 10, 64)
	if err != nil {
		return err
	}
	commitment, err := decodeHexFixed(tmp.InputsCommitment, 32)
	if err != nil {
		return err
	}
	t.NetworkID = networkID
	copy(t.InputsCommitment[:], commitment)
	t.Inputs = make([]Input, 0, len(tmp.Inputs))
	for _, raw := range tmp.Inputs {
		in, err := inputFromJSONRaw(raw)
		if err != nil {
			return err
		}
		t.Inputs = append(t.Inputs, in)
	}
	t.Outputs = make([]Output, 0, len(tmp.Outputs))
	for _, raw := range tmp.Outputs {
		out, err := OutputFromJSON(raw)
		if err != nil {
			return err
		}
		t.Outputs = append(t.Outputs, out)
	}
	t.Payload = nil
	if len(tmp.Payload) > 0 && string(tmp.Payload) != "null" {
		payload, err := payloadFromJSONRaw(tmp.Payload)
		if err != nil {
			return err
		}
		t.Payload = payload
	}
	return t.validate()
}

// TransactionPayload moves funds by consuming inputs and creating outputs,
// carrying one unlock per input
type TransactionPayload struct {
	Essence *TransactionEssence
	Unlocks []Unlock
}

func (p *TransactionPayload) isPayload() {}

func (p *TransactionPayload) PayloadType() uint32 {
	return PayloadTransaction
}

// ID returns the BLAKE2b-256 hash of the serialized payload
func (p *TransactionPayload) ID() (TransactionID, error) {
	data, err := serializer.Encode(p)
	if err != nil {
		return TransactionID{}, err
	}
	return TransactionID(blake2b256Hash(data)), nil
}

func (p *TransactionPayload) validate() error {
	if p.Essence == nil {
		return UnknownEssenceTypeError{Kind: 0}
	}
	if len(p.Unlocks) != len(p.Essence.Inputs) {
		return fmt.Errorf(
			"input count and unlock count mismatch: %d != %d",
			len(p.Essence.Inputs),
			len(p.Unlocks),
		)
	}
	return validateUnlocks(p.Unlocks)
}

func (p *TransactionPayload) EncodeBinary(e *serializer.Encoder) {
	if err := p.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint32(PayloadTransaction)
	p.Essence.EncodeBinary(e)
	e.WriteUint16(uint16(len(p.Unlocks)))
	for _, unlock := range p.Unlocks {
		unlock.EncodeBinary(e)
	}
}

func (p *TransactionPayload) DecodeBinary(d *serializer.Decoder) error {
	if err := decodePayloadKind(d, PayloadTransaction); err != nil {
		return err
	}
	p.Essence = &TransactionEssence{}
	if err := p.Essence.DecodeBinary(d); err != nil {
		return err
	}
	unlockCount := d.ReadUint16()
	if err := d.Err(); err != nil {
		return err
	}
	p.Unlocks = make([]Unlock, 0, unlockCount)
	for i := 0; i < int(unlockCount); i++ {
		unlock, err := unlockFromDecoder(d)
		if err != nil {
			return err
		}
		p.Unlocks = append(p.Unlocks, unlock)
	}
	return p.validate()
}

func (p *TransactionPayload) MarshalJSON() ([]byte, error) {
	unlocks := make([]json.RawMessage, 0, len(p.Unlocks))
	for _, unlock := range p.Unlocks {
		raw, err := json.Marshal(unlock)
		if err != nil {
			return nil, err
		}
		unlocks = append(unlocks, raw)
	}
	return json.Marshal(&struct {
		Type    uint32              `json:"type"`
		Essence *TransactionEssence `json:"essence"`
		Unlocks []json.RawMessage   `json:"unlocks"`
	}{
		Type:    PayloadTransaction,
		Essence: p.Essence,
		Unlocks: unlocks,
	})
}

func (p *TransactionPayload) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type    uint32              `json:"type"`
		Essence *TransactionEssence `json:"essence"`
		Unlocks []json.RawMessage   `json:"unlocks"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != PayloadTransaction {
		return UnknownPayloadTypeError{Kind: tmp.Type}
	}
	p.Essence = tmp.Essence
	p.Unlocks = make([]Unlock, 0, len(tmp.Unlocks))
	for _, raw := range tmp.Unlocks {
		unlock, err := unlockFromJSONRaw(raw)
		if err != nil {
			return err
		}
		p.Unlocks = append(p.Unlocks, unlock)
	}
	return p.validate()
}

var _ Payload = (*TransactionPayload)(nil)
