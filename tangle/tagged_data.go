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

const (
	// MaxTagLength bounds the tag of a tagged data payload
	MaxTagLength = 64
	// MaxTaggedDataLength bounds the data of a tagged data payload
	MaxTaggedDataLength = 8192
)

// TaggedDataPayload carries arbitrary data under a short routing tag
type TaggedDataPayload struct {
	Tag  []byte
	Data []byte
}

func NewTaggedDataPayload(tag []byte, data []byte) *TaggedDataPayload {
	return &TaggedDataPayload{
		Tag:  tag,
		Data: data,
	}
}

func (p *TaggedDataPayload) isPayload() {}

func (p *TaggedDataPayload) PayloadType() uint32 {
	return PayloadTaggedData
}

func (p *TaggedDataPayload) validate() error {
	if len(p.Tag) > MaxTagLength {
		return InvalidFieldLengthError{
			Field:  "tag",
			Length: len(p.Tag),
			Max:    MaxTagLength,
		}
	}
	if len(p.Data) > MaxTaggedDataLength {
		return InvalidFieldLengthError{
			Field:  "data",
			Length: len(p.Data),
			Max:    MaxTaggedDataLength,
		}
	}
	return nil
}

func (p *TaggedDataPayload) EncodeBinary(e *serializer.Encoder) {
	if err := p.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint32(PayloadTaggedData)
	e.WritePrefixedBytes8(p.Tag)
	e.WritePrefixedBytes32(p.Data)
}

func (p *TaggedDataPayload) DecodeBinary(d *serializer.Decoder) error {
	if err := decodePayloadKind(d, PayloadTaggedData); err != nil {
		return err
	}
	p.Tag = d.ReadPrefixedBytes8()
	p.Data = d.ReadPrefixedBytes32()
	if err := d.Err(); err != nil {
		return err
	}
	return p.validate()
}

func (p *TaggedDataPayload) MarshalJSON() ([]byte, error) {
	tmp := struct {
		Type uint32 `json:"type"`
		Tag  string `json:"tag,omitempty"`
		Data string `json:"data,omitempty"`
	}{
		Type: PayloadTaggedData,
	}
	if len(p.Tag) > 0 {
		tmp.Tag = EncodeHex(p.Tag)
	}
	if len(p.Data) > 0 {
		tmp.Data = EncodeHex(p.Data)
	}
	return json.Marshal(&tmp)
}

func (p *TaggedDataPayload) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type uint32 `json:"type"`
		Tag  string `json:"tag"`
		Data string `json:"data"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != PayloadTaggedData {
		return UnknownPayloadTypeError{Kind: tmp.Type}
	}
	p.Tag = nil
	p.Data = nil
	if tmp.Tag != "" {
		tag, err := DecodeHex(tmp.Tag)
		if err != nil {
			return err
		}
		p.Tag = tag
	}
	if tmp.Data != "" {
		decoded, err := DecodeHex(tmp.Data)
		if err != nil {
			return err
		}
		p.Data = decoded
	}
	return p.validate()
}

var _ Payload = (*TaggedDataPayload)(nil)
