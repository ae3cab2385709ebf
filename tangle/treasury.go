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

// TreasuryTransactionPayload rotates the migration treasury: it consumes
// the current treasury output and creates the next one
type TreasuryTransactionPayload struct {
	Input  *TreasuryInput
	Output *TreasuryOutput
}

func (p *TreasuryTransactionPayload) isPayload() {}

func (p *TreasuryTransactionPayload) PayloadType() uint32 {
	return PayloadTreasuryTransaction
}

func (p *TreasuryTransactionPayload) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint32(PayloadTreasuryTransaction)
	p.Input.EncodeBinary(e)
	p.Output.EncodeBinary(e)
}

func (p *TreasuryTransactionPayload) DecodeBinary(d *serializer.Decoder) error {
	if err := decodePayloadKind(d, PayloadTreasuryTransaction); err != nil {
		return err
	}
	kind := d.PeekUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != InputTreasury {
		return UnknownInputTypeError{Kind: kind}
	}
	p.Input = &TreasuryInput{}
	if err := p.Input.DecodeBinary(d); err != nil {
		return err
	}
	p.Output = &TreasuryOutput{}
	return p.Output.DecodeBinary(d)
}

func (p *TreasuryTransactionPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type   uint32          `json:"type"`
		Input  *TreasuryInput  `json:"input"`
		Output *TreasuryOutput `json:"output"`
	}{
		Type:   PayloadTreasuryTransaction,
		Input:  p.Input,
		Output: p.Output,
	})
}

func (p *TreasuryTransactionPayload) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type   uint32          `json:"type"`
		Input  *TreasuryInput  `json:"input"`
		Output *TreasuryOutput `json:"output"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != PayloadTreasuryTransaction {
		return UnknownPayloadTypeError{Kind: tmp.Type}
	}
	p.Input = tmp.Input
	p.Output = tmp.Output
	return nil
}

var _ Payload = (*TreasuryTransactionPayload)(nil)
