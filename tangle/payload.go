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

	"github.com/blinklabs-io/gotangle/serializer"
)

// Payload kinds
const (
	PayloadTreasuryTransaction uint32 = 4
	PayloadTaggedData          uint32 = 5
	PayloadTransaction         uint32 = 6
	PayloadMilestone           uint32 = 7
)

// Payload is the interface implemented by all payload kinds. The
// serialized form starts with the uint32 payload kind
type Payload interface {
	serializer.Encodable
	serializer.Decodable
	json.Marshaler
	// PayloadType returns the payload kind
	PayloadType() uint32
	isPayload()
}

// PayloadFromBytes deserializes a payload from its binary form,
// dispatching on the leading uint32 kind
func PayloadFromBytes(data []byte) (Payload, error) {
	d := serializer.NewDecoder(data)
	p, err := payloadFromDecoder(d)
	if err != nil {
		return nil, err
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

func payloadFromDecoder(d *serializer.Decoder) (Payload, error) {
	kind := d.PeekUint32()
	if err := d.Err(); err != nil {
		return nil, err
	}
	var p Payload
	switch kind {
	case PayloadTreasuryTransaction:
		p = &TreasuryTransactionPayload{}
	case PayloadTaggedData:
		p = &TaggedDataPayload{}
	case PayloadTransaction:
		p = &TransactionPayload{}
	case PayloadMilestone:
		p = &MilestonePayload{}
	default:
		return nil, UnknownPayloadTypeError{Kind: kind}
	}
	if err := p.DecodeBinary(d); err != nil {
		return nil, err
	}
	return p, nil
}

// writeOptionalPayload writes a payload with its uint32 length prefix. A
// nil payload is written as a zero length
func writeOptionalPayload(e *serializer.Encoder, p Payload) {
	if p == nil {
		e.WriteUint32(0)
		return
	}
	data, err := serializer.Encode(p)
	if err != nil {
		e.SetError(err)
		return
	}
	e.WritePrefixedBytes32(data)
}

// readOptionalPayload reads a length-prefixed payload. A zero length yields
// a nil payload
func readOptionalPayload(d *serializer.Decoder) (Payload, error) {
	data := d.ReadPrefixedBytes32()
	if err := d.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return PayloadFromBytes(data)
}

func decodePayloadKind(d *serializer.Decoder, expected uint32) error {
	kind := d.ReadUint32()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != expected {
		return UnknownPayloadTypeError{Kind: kind}
	}
	return nil
}

// payloadFromJSONRaw deserializes a payload from its JSON object form,
// dispatching on the type field
func payloadFromJSONRaw(raw json.RawMessage) (Payload, error) {
	var disc struct {
		Type uint32 `json:"type"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return nil, err
	}
	var p Payload
	switch disc.Type {
	case PayloadTreasuryTransaction:
		p = &TreasuryTransactionPayload{}
	case PayloadTaggedData:
		p = &TaggedDataPayload{}
	case PayloadTransaction:
		p = &TransactionPayload{}
	case PayloadMilestone:
		p = &MilestonePayload{}
	default:
		return nil, UnknownPayloadTypeError{Kind: disc.Type}
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}
