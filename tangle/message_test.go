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
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/blinklabs-io/gotangle/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageFixedEncoding(t *testing.T) {
	msg := &Message{
		ProtocolVersion: 2,
		Parents:         []MessageID{NewMessageID(testBody(0x11))},
		Nonce:           0,
	}
	data, err := msg.Serialize()
	require.NoError(t, err)
	expected := "02" + "01" + strings.Repeat("11", 32) +
		"00000000" + "0000000000000000"
	assert.Equal(t, expected, hex.EncodeToString(data))
}

func TestMessageRoundTrip(t *testing.T) {
	testDefs := []struct {
		name string
		msg  *Message
	}{
		{
			name: "no payload",
			msg: &Message{
				ProtocolVersion: 2,
				Parents: []MessageID{
					NewMessageID(testBody(0x01)),
					NewMessageID(testBody(0x02)),
				},
				Nonce: 0x0123456789abcdef,
			},
		},
		{
			name: "tagged data payload",
			msg: &Message{
				ProtocolVersion: 2,
				Parents: []MessageID{
					NewMessageID(testBody(0x01)),
					NewMessageID(testBody(0x02)),
					NewMessageID(testBody(0x03)),
					NewMessageID(testBody(0x04)),
				},
				Payload: NewTaggedDataPayload(
					[]byte("hello"),
					[]byte("tangle test data"),
				),
				Nonce: 42,
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			data, err := testDef.msg.Serialize()
			require.NoError(t, err)
			decoded, err := MessageFromBytes(data)
			require.NoError(t, err)
			assert.Equal(t, testDef.msg, decoded)
			// Re-encoding must reproduce the exact bytes
			reencoded, err := decoded.Serialize()
			require.NoError(t, err)
			assert.Equal(t, data, reencoded)
		})
	}
}

func TestMessageIDDeterministic(t *testing.T) {
	msg := &Message{
		ProtocolVersion: 2,
		Parents:         []MessageID{NewMessageID(testBody(0x09))},
		Nonce:           9,
	}
	id1, err := msg.ID()
	require.NoError(t, err)
	id2, err := msg.ID()
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	// Any content change must change the ID
	msg.Nonce = 10
	id3, err := msg.ID()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}

func TestMessageParentsValidation(t *testing.T) {
	t.Run("no parents", func(t *testing.T) {
		msg := &Message{ProtocolVersion: 2}
		_, err := msg.Serialize()
		var countErr InvalidParentCountError
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, 0, countErr.Count)
	})
	t.Run("too many parents", func(t *testing.T) {
		parents := make([]MessageID, MaxParents+1)
		for i := range parents {
			parents[i] = NewMessageID(testBody(byte(i)))
		}
		msg := &Message{ProtocolVersion: 2, Parents: parents}
		_, err := msg.Serialize()
		var countErr InvalidParentCountError
		assert.ErrorAs(t, err, &countErr)
	})
	t.Run("unsorted parents", func(t *testing.T) {
		msg := &Message{
			ProtocolVersion: 2,
			Parents: []MessageID{
				NewMessageID(testBody(0x02)),
				NewMessageID(testBody(0x01)),
			},
		}
		_, err := msg.Serialize()
		assert.ErrorIs(t, err, ErrParentsNotUniqueSorted)
	})
	t.Run("duplicate parents", func(t *testing.T) {
		msg := &Message{
			ProtocolVersion: 2,
			Parents: []MessageID{
				NewMessageID(testBody(0x01)),
				NewMessageID(testBody(0x01)),
			},
		}
		_, err := msg.Serialize()
		assert.ErrorIs(t, err, ErrParentsNotUniqueSorted)
	})
}

func TestMessageDecodeTrailingBytes(t *testing.T) {
	msg := &Message{
		ProtocolVersion: 2,
		Parents:         []MessageID{NewMessageID(testBody(0x01))},
	}
	data, err := msg.Serialize()
	require.NoError(t, err)
	_, err = MessageFromBytes(append(data, 0xff))
	assert.ErrorIs(t, err, serializer.ErrTrailingBytes)
}

func TestMessageDecodeTruncated(t *testing.T) {
	msg := &Message{
		ProtocolVersion: 2,
		Parents:         []MessageID{NewMessageID(testBody(0x01))},
	}
	data, err := msg.Serialize()
	require.NoError(t, err)
	_, err = MessageFromBytes(data[:len(data)-3])
	assert.ErrorIs(t, err, serializer.ErrTruncatedInput)
}

func TestMessageDecodeUnknownPayloadKind(t *testing.T) {
	// Build a message whose payload region carries an unknown kind
	e := serializer.NewEncoder()
	e.WriteUint8(2)
	e.WriteUint8(1)
	e.WriteBytes(testBody(0x01))
	e.WriteUint32(4)
	e.WriteUint32(250)
	e.WriteUint64(0)
	data, err := e.Bytes()
	require.NoError(t, err)
	_, err = MessageFromBytes(data)
	var unknownErr UnknownPayloadTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, uint32(250), unknownErr.Kind)
}

func TestMessageDecodeOversized(t *testing.T) {
	_, err := MessageFromBytes(make([]byte, MaxMessageLength+1))
	assert.Error(t, err)
}

func TestMessageJSONRoundTrip(t *testing.T) {
	msg := &Message{
		ProtocolVersion: 2,
		Parents: []MessageID{
			NewMessageID(testBody(0x01)),
			NewMessageID(testBody(0x02)),
		},
		Payload: NewTaggedDataPayload([]byte("tag"), []byte("data")),
		Nonce:   18446744073709551615,
	}
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	// The nonce must be a string to survive JSON number precision
	assert.Contains(t, string(data), `"nonce":"18446744073709551615"`)
	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, msg, &decoded)
}
