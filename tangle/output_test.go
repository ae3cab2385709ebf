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
	"math/big"
	"testing"

	"github.com/blinklabs-io/gotangle/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNativeToken(fill byte, amount int64) *NativeToken {
	token := &NativeToken{Amount: big.NewInt(amount)}
	for i := range token.ID {
		token.ID[i] = fill
	}
	return token
}

func testOutputDefs() []struct {
	name   string
	output Output
} {
	aliasAddr := NewAliasAddress(NewAliasID(testBody(0x22)))
	return []struct {
		name   string
		output Output
	}{
		{
			name:   "treasury",
			output: &TreasuryOutput{Amount: 1000000},
		},
		{
			name: "basic",
			output: &BasicOutput{
				Amount: 1337,
				NativeTokens: NativeTokens{
					testNativeToken(0x01, 100),
					testNativeToken(0x02, 200),
				},
				Conditions: UnlockConditions{
					&AddressUnlockCondition{
						Address: NewEd25519Address(testBody(0xaa)),
					},
					&TimelockUnlockCondition{UnixTime: 1700000000},
					&ExpirationUnlockCondition{
						ReturnAddress: NewEd25519Address(testBody(0xbb)),
						UnixTime:      1800000000,
					},
				},
				Features: Features{
					&SenderFeature{
						Address: NewEd25519Address(testBody(0xcc)),
					},
					&TagFeature{Tag: []byte("spam")},
				},
			},
		},
		{
			name: "alias",
			output: &AliasOutput{
				Amount:         5000,
				AliasID:        NewAliasID(testBody(0x33)),
				StateIndex:     7,
				StateMetadata:  []byte("state"),
				FoundryCounter: 2,
				Conditions: UnlockConditions{
					&StateControllerAddressUnlockCondition{
						Address: NewEd25519Address(testBody(0xaa)),
					},
					&GovernorAddressUnlockCondition{
						Address: NewEd25519Address(testBody(0xbb)),
					},
				},
				ImmutableFeatures: Features{
					&IssuerFeature{
						Address: NewEd25519Address(testBody(0xcc)),
					},
					&MetadataFeature{Data: []byte("issued")},
				},
			},
		},
		{
			name: "foundry",
			output: &FoundryOutput{
				Amount:       4200,
				SerialNumber: 9,
				TokenScheme: &SimpleTokenScheme{
					MintedTokens:  big.NewInt(500),
					MeltedTokens:  big.NewInt(100),
					MaximumSupply: big.NewInt(1000),
				},
				Conditions: UnlockConditions{
					&ImmutableAliasAddressUnlockCondition{
						Address: aliasAddr,
					},
				},
			},
		},
		{
			name: "nft",
			output: &NFTOutput{
				Amount: 777,
				NFTID:  NewNFTID(testBody(0x44)),
				Conditions: UnlockConditions{
					&AddressUnlockCondition{
						Address: NewEd25519Address(testBody(0xaa)),
					},
					&StorageDepositReturnUnlockCondition{
						ReturnAddress: NewEd25519Address(testBody(0xbb)),
						Amount:        500,
					},
				},
				ImmutableFeatures: Features{
					&IssuerFeature{
						Address: NewNFTAddress(NewNFTID(testBody(0x55))),
					},
				},
			},
		},
	}
}

func TestOutputRoundTrip(t *testing.T) {
	for _, testDef := range testOutputDefs() {
		t.Run(testDef.name, func(t *testing.T) {
			data, err := serializer.Encode(testDef.output)
			require.NoError(t, err)
			decoded, err := OutputFromBytes(data)
			require.NoError(t, err)
			assert.Equal(t, testDef.output, decoded)
			reencoded, err := serializer.Encode(decoded)
			require.NoError(t, err)
			assert.Equal(t, data, reencoded)
		})
	}
}

func TestOutputJSONRoundTrip(t *testing.T) {
	for _, testDef := range testOutputDefs() {
		t.Run(testDef.name, func(t *testing.T) {
			data, err := json.Marshal(testDef.output)
			require.NoError(t, err)
			decoded, err := OutputFromJSON(data)
			require.NoError(t, err)
			assert.Equal(t, testDef.output, decoded)
		})
	}
}

func TestOutputAmountsAsJSONStrings(t *testing.T) {
	output := &BasicOutput{
		Amount: 18446744073709551615,
		Conditions: UnlockConditions{
			&AddressUnlockCondition{
				Address: NewEd25519Address(testBody(0xaa)),
			},
		},
	}
	data, err := json.Marshal(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":"18446744073709551615"`)
}

func TestOutputDecodeUnknownKind(t *testing.T) {
	_, err := OutputFromBytes([]byte{0xf0, 0x00})
	var unknownErr UnknownOutputTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, uint8(0xf0), unknownErr.Kind)
	assert.Equal(t, "invalid output kind: 240", err.Error())
}

func TestOutputConditionsNotSorted(t *testing.T) {
	output := &BasicOutput{
		Amount: 100,
		Conditions: UnlockConditions{
			&TimelockUnlockCondition{UnixTime: 1},
			&AddressUnlockCondition{
				Address: NewEd25519Address(testBody(0xaa)),
			},
		},
	}
	_, err := serializer.Encode(output)
	assert.ErrorIs(t, err, ErrConditionsNotUniqueSorted)
}

func TestOutputNativeTokensNotSorted(t *testing.T) {
	output := &BasicOutput{
		Amount: 100,
		NativeTokens: NativeTokens{
			testNativeToken(0x02, 2),
			testNativeToken(0x01, 1),
		},
		Conditions: UnlockConditions{
			&AddressUnlockCondition{
				Address: NewEd25519Address(testBody(0xaa)),
			},
		},
	}
	_, err := serializer.Encode(output)
	assert.ErrorIs(t, err, ErrTokensNotUniqueSorted)
}

func TestOutputDisallowedCondition(t *testing.T) {
	// A governor condition is valid on alias outputs but not basic outputs
	output := &BasicOutput{
		Amount: 100,
		Conditions: UnlockConditions{
			&GovernorAddressUnlockCondition{
				Address: NewEd25519Address(testBody(0xaa)),
			},
		},
	}
	data, err := serializer.Encode(output)
	require.NoError(t, err)
	_, err = OutputFromBytes(data)
	var unknownErr UnknownUnlockConditionTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, UnlockConditionGovernor, unknownErr.Kind)
}

func TestOutputDisallowedFeature(t *testing.T) {
	// A tag feature is valid on basic outputs but not foundry outputs
	output := &FoundryOutput{
		Amount:       100,
		SerialNumber: 1,
		TokenScheme: &SimpleTokenScheme{
			MintedTokens:  big.NewInt(1),
			MeltedTokens:  big.NewInt(0),
			MaximumSupply: big.NewInt(10),
		},
		Conditions: UnlockConditions{
			&ImmutableAliasAddressUnlockCondition{
				Address: NewAliasAddress(NewAliasID(testBody(0x22))),
			},
		},
		Features: Features{
			&TagFeature{Tag: []byte("nope")},
		},
	}
	data, err := serializer.Encode(output)
	require.NoError(t, err)
	_, err = OutputFromBytes(data)
	var unknownErr UnknownFeatureTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, FeatureTag, unknownErr.Kind)
}

func TestTimelockConditionZeroTime(t *testing.T) {
	output := &BasicOutput{
		Amount: 100,
		Conditions: UnlockConditions{
			&AddressUnlockCondition{
				Address: NewEd25519Address(testBody(0xaa)),
			},
			&TimelockUnlockCondition{UnixTime: 0},
		},
	}
	_, err := serializer.Encode(output)
	assert.ErrorIs(t, err, ErrMissingTimelockTime)
}

func TestExpirationConditionZeroTime(t *testing.T) {
	output := &BasicOutput{
		Amount: 100,
		Conditions: UnlockConditions{
			&AddressUnlockCondition{
				Address: NewEd25519Address(testBody(0xaa)),
			},
			&ExpirationUnlockCondition{
				ReturnAddress: NewEd25519Address(testBody(0xbb)),
				UnixTime:      0,
			},
		},
	}
	_, err := serializer.Encode(output)
	assert.ErrorIs(t, err, ErrMissingExpirationTime)
}

func TestFoundryOutputID(t *testing.T) {
	aliasAddr := NewAliasAddress(NewAliasID(testBody(0x22)))
	output := &FoundryOutput{
		Amount:       100,
		SerialNumber: 5,
		TokenScheme: &SimpleTokenScheme{
			MintedTokens:  big.NewInt(1),
			MeltedTokens:  big.NewInt(0),
			MaximumSupply: big.NewInt(10),
		},
		Conditions: UnlockConditions{
			&ImmutableAliasAddressUnlockCondition{Address: aliasAddr},
		},
	}
	id, err := output.ID()
	require.NoError(t, err)
	assert.Equal(t, NewFoundryID(aliasAddr, 5, TokenSchemeSimple), id)

	// Without the immutable alias condition there is no foundry ID
	output.Conditions = nil
	_, err = output.ID()
	assert.ErrorIs(t, err, ErrMissingImmutableAlias)
}

func TestNativeTokenJSONAmountHex(t *testing.T) {
	token := testNativeToken(0x01, 255)
	data, err := json.Marshal(token)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":"0xff"`)
	var decoded NativeToken
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, token, &decoded)
}

func TestAliasOutputStateMetadataTooLarge(t *testing.T) {
	output := &AliasOutput{
		Amount:        100,
		AliasID:       NewAliasID(testBody(0x33)),
		StateMetadata: make([]byte, MaxMetadataLength+1),
		Conditions: UnlockConditions{
			&StateControllerAddressUnlockCondition{
				Address: NewEd25519Address(testBody(0xaa)),
			},
			&GovernorAddressUnlockCondition{
				Address: NewEd25519Address(testBody(0xbb)),
			},
		},
	}
	_, err := serializer.Encode(output)
	var lengthErr InvalidFieldLengthError
	require.ErrorAs(t, err, &lengthErr)
	assert.Equal(t, "state metadata", lengthErr.Field)
}
