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

const (
	// MinParents and MaxParents bound the number of parent references a
	// message may carry
	MinParents = 1
	MaxParents = 8
	// MaxMessageLength is the maximum serialized size accepted by nodes
	MaxMessageLength = 32768
	// NonceLength is the size of the trailing proof of work nonce
	NonceLength = 8
)

// Message is a vertex in the tangle: it references between one and eight
// parent messages, optionally carries a payload, and ends with the proof
// of work nonce. Its identity is the BLAKE2b-256 hash of its serialized
// bytes
type Message struct {
	ProtocolVersion uint8
	Parents         []MessageID
	Payload         Payload
	Nonce           uint64
}

// MessageFromBytes deserializes a message from its binary form
func MessageFromBytes(data []byte) (*Message, error) {
	if len(data) > MaxMessageLength {
		return nil, fmt.Errorf(
			"invalid message length: %d exceeds maximum of %d",
			len(data),
			MaxMessageLength,
		)
	}
	m := &Message{}
	if _, err := serializer.Decode(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Serialize returns the binary form of the message
func (m *Message) Serialize() ([]byte, error) {
	return serializer.Encode(m)
}

// ID returns the BLAKE2b-256 hash of the serialized message
func (m *Message) ID() (MessageID, error) {
	data, err := m.Serialize()
	if err != nil {
		return MessageID{}, err
	}
	return MessageID(blake2b256Hash(data)), nil
}

func validateParents(parents []MessageID) error {
	if len(parents) < MinParents || len(parents) > MaxParents {
		return InvalidParentCountError{Count: len(parents)}
	}
	for i := 1; i < len(parents); i++ {
		if bytes.Compare(parents[i-1][:], parents[i][:]) >= 0 {
			return ErrParentsNotUniqueSorted
		}
	}
	return nil
}

func (m *Message) EncodeBinary(e *serializer.Encoder) {
	if err := validateParents(m.Parents); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint8(m.ProtocolVersion)
	e.WriteUint8(uint8(len(m.Parents)))
	for _, parent := range m.Parents {
		e.WriteBytes(parent[:])
	}
	writeOptionalPayload(e, m.Payload)
	e.WriteUint64(m.Nonce)
}

func (m *Message) DecodeBinary(d *serializer.Decoder) error {
	m.ProtocolVersion = d.ReadUint8()
	parentCount := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if parentCount < MinParents || parentCount > MaxParents {
		return InvalidParentCountError{Count: int(parentCount)}
	}
	m.Parents = make([]MessageID, parentCount)
	for i := range m.Parents {
		d.ReadInto(m.Parents[i][:])
	}
	if err := d.Err(); err != nil {
		return err
	}
	if err := validateParents(m.Parents); err != nil {
		return err
	}
	payload, err := readOptionalPayload(d)
	if err != nil {
		return err
	}
	m.Payload = payload
	m.Nonce = d.ReadUint64()
	return d.Err()
}

func (m *Message) MarshalJSON() ([]byte, error) {
	tmp := struct {
		ProtocolVersion uint8       `json:"protocolVersion"`
		Parents         []MessageID `json:"parentMessageIds"`
		Payload         Payload     `json:"payload,omitempty"`
		Nonce           string      `json:"nonce"`
	}{
		ProtocolVersion: m.ProtocolVersion,
		Parents:         m.Parents,
		Payload:         m.Payload,
		Nonce:           strconv.FormatUint(m.Nonce, 10),
	}
	return json.Marshal(&tmp)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var tmp struct {
		ProtocolVersion uint8           `json:"protocolVersion"`
		Parents         []MessageID     `json:"parentMessageIds"`
		Payload         json.RawMessage `json:"payload"`
		Nonce           string          `json:"nonce"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	m.ProtocolVersion = tmp.ProtocolVersion
	m.Parents = tmp.Parents
	m.Payload = nil
	if len(tmp.Payload) > 0 && !bytes.Equal(tmp.Payload, []byte("null")) {
		payload, err := payloadFromJSONRaw(tmp.Payload)
		if err != nil {
			return err
		}
		m.Payload = payload
	}
	if tmp.Nonce != "" {
		nonce, err := strconv.ParseUint(tmp.Nonce, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid nonce %q: %w", tmp.Nonce, err)
		}
		m.Nonce = nonce
	} else {
		m.Nonce = 0
	}
	return nil
}
