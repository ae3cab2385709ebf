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
	"testing"

	"github.com/blinklabs-io/gotangle/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaggedDataRoundTrip(t *testing.T) {
	testDefs := []struct {
		name    string
		payload *TaggedDataPayload
	}{
		{
			name:    "tag and data",
			payload: NewTaggedDataPayload([]byte("tag"), []byte("data")),
		},
		{
			name:    "empty tag",
			payload: NewTaggedDataPayload(nil, []byte("data")),
		},
		{
			name:    "empty data",
			payload: NewTaggedDataPayload([]byte("tag"), nil),
		},
		{
			name:    "empty everything",
			payload: NewTaggedDataPayload(nil, nil),
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			data, err := serializer.Encode(testDef.payload)
			require.NoError(t, err)
			decoded, err := PayloadFromBytes(data)
			require.NoError(t, err)
			assert.Equal(t, testDef.payload, decoded)

			jsonData, err := json.Marshal(testDef.payload)
			require.NoError(t, err)
			decodedJSON, err := payloadFromJSONRaw(jsonData)
			require.NoError(t, err)
			assert.Equal(t, testDef.payload, decodedJSON)
		})
	}
}

func TestTaggedDataBounds(t *testing.T) {
	t.Run("tag too long", func(t *testing.T) {
		payload := NewTaggedDataPayload(make([]byte, MaxTagLength+1), nil)
		_, err := serializer.Encode(payload)
		var lengthErr InvalidFieldLengthError
		require.ErrorAs(t, err, &lengthErr)
		assert.Equal(t, "tag", lengthErr.Field)
	})
	t.Run("data too long", func(t *testing.T) {
		payload := NewTaggedDataPayload(nil, make([]byte, MaxTaggedDataLength+1))
		_, err := serializer.Encode(payload)
		var lengthErr InvalidFieldLengthError
		require.ErrorAs(t, err, &lengthErr)
		assert.Equal(t, "data", lengthErr.Field)
	})
	t.Run("max sizes accepted", func(t *testing.T) {
		payload := NewTaggedDataPayload(
			make([]byte, MaxTagLength),
			make([]byte, MaxTaggedDataLength),
		)
		_, err := serializer.Encode(payload)
		assert.NoError(t, err)
	})
}
