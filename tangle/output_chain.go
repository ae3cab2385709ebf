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
	"strconv"

	"github.com/blinklabs-io/gotangle/serializer"
)

// AliasOutput is a self-governed chain output identified by a stable alias
// ID across state transitions
type AliasOutput struct {
	Amount            uint64
	NativeTokens      NativeTokens
	AliasID           AliasID
	StateIndex        uint32
	StateMetadata     []byte
	FoundryCounter    uint32
	Conditions        UnlockConditions
	Features          Features
	ImmutableFeatures Features
}

func (o *AliasOutput) isOutput() {}

func (o *AliasOutput) Type() uint8 {
	return OutputAlias
}

func (o *AliasOutput) Deposit() uint64 {
	return o.Amount
}

// AliasAddress returns the address backed by this alias output
func (o *AliasOutput) AliasAddress() *AliasAddress {
	return o.AliasID.Address()
}

func (o *AliasOutput) validate() error {
	if len(o.StateMetadata) > MaxMetadataLength {
		return InvalidFieldLengthError{
			Field:  "state metadata",
			Length: len(o.StateMetadata),
			Max:    MaxMetadataLength,
		}
	}
	return nil
}

func (o *AliasOutput) EncodeBinary(e *serializer.Encoder) {
	if err := o.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint8(OutputAlias)
	e.WriteUint64(o.Amount)
	writeNativeTokens(e, o.NativeTokens)
	e.WriteBytes(o.AliasID[:])
	e.WriteUint32(o.StateIndex)
	e.WritePrefixedBytes16(o.StateMetadata)
	e.WriteUint32(o.FoundryCounter)
	writeUnlockConditions(e, o.Conditions)
	writeFeatures(e, o.Features)
	writeFeatures(e, o.ImmutableFeatures)
}

func (o *AliasOutput) DecodeBinary(d *serializer.Decoder) error {
	kind := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != OutputAlias {
		return UnknownOutputTypeError{Kind: kind}
	}
	o.Amount = d.ReadUint64()
	tokens, err := readNativeTokens(d)
	if err != nil {
		return err
	}
	o.NativeTokens = tokens
	d.ReadInto(o.AliasID[:])
	o.StateIndex = d.ReadUint32()
	o.StateMetadata = d.ReadPrefixedBytes16()
	o.FoundryCounter = d.ReadUint32()
	if err := d.Err(); err != nil {
		return err
	}
	conditions, err := readUnlockConditions(
		d,
		UnlockConditionStateController,
		UnlockConditionGovernor,
	)
	if err != nil {
		return err
	}
	o.Conditions = conditions
	features, err := readFeatures(d, FeatureSender, FeatureMetadata)
	if err != nil {
		return err
	}
	o.Features = features
	immutable, err := readFeatures(d, FeatureIssuer, FeatureMetadata)
	if err != nil {
		return err
	}
	o.ImmutableFeatures = immutable
	return o.validate()
}

func (o *AliasOutput) MarshalJSON() ([]byte, error) {
	conditions, err := marshalUnlockConditions(o.Conditions)
	if err != nil {
		return nil, err
	}
	features, err := marshalFeatures(o.Features)
	if err != nil {
		return nil, err
	}
	immutable, err := marshalFeatures(o.ImmutableFeatures)
	if err != nil {
		return nil, err
	}
	tmp := struct {
		Type              uint8             `json:"type"`
		Amount            string            `json:"amount"`
		NativeTokens      NativeTokens      `json:"nativeTokens,omitempty"`
		AliasID           AliasID           `json:"aliasId"`
		StateIndex        uint32            `json:"stateIndex"`
		StateMetadata     string            `json:"stateMetadata,omitempty"`
		FoundryCounter    uint32            `json:"foundryCounter"`
		Conditions        []json.RawMessage `json:"unlockConditions"`
		Features          []json.RawMessage `json:"features,omitempty"`
		ImmutableFeatures []json.RawMessage `json:"immutableFeatures,omitempty"`
	}{
		Type:              OutputAlias,
		Amount:            strconv.FormatUint(o.Amount, 10),
		NativeTokens:      o.NativeTokens,
		AliasID:           o.AliasID,
		StateIndex:        o.StateIndex,
		FoundryCounter:    o.FoundryCounter,
		Conditions:        conditions,
		Features:          features,
		ImmutableFeatures: immutable,
	}
	if len(o.StateMetadata) > 0 {
		tmp.StateMetadata = EncodeHex(o.StateMetadata)
	}
	return json.Marshal(&tmp)
}

func (o *AliasOutput) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type              uint8             `json:"type"`
		Amount            string            `json:"amount"`
		NativeTokens      NativeTokens      `json:"nativeTokens"`
		AliasID           AliasID           `json:"aliasId"`
		StateIndex        uint32            `json:"stateIndex"`
		StateMetadata     string            `json:"stateMetadata"`
		FoundryCounter    uint32            `json:"foundryCounter"`
		Conditions        []json.RawMessage `json:"unlockConditions"`
		Features          []json.RawMessage `json:"features"`
		ImmutableFeatures []json.RawMessage `json:"immutableFeatures"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != OutputAlias {
		return UnknownOutputTypeError{Kind: tmp.Type}
	}
	amount, err := strconv.ParseUint(tmp.Amount, 10, 64)
	if err != nil {
		return err
	}
	conditions, err := unlockConditionsFromJSONRaw(tmp.Conditions)
	if err != nil {
		return err
	}
	features, err := featuresFromJSONRaw(tmp.Features)
	if err != nil {
		return err
	}
	immutable, err := featuresFromJSONRaw(tmp.ImmutableFeatures)
	if err != nil {
		return err
	}
	o.Amount = amount
	o.NativeTokens = tmp.NativeTokens
	o.AliasID = tmp.AliasID
	o.StateIndex = tmp.StateIndex
	o.StateMetadata = nil
	if tmp.StateMetadata != "" {
		metadata, err := DecodeHex(tmp.StateMetadata)
		if err != nil {
			return err
		}
		o.StateMetadata = metadata
	}
	o.FoundryCounter = tmp.FoundryCounter
	o.Conditions = conditions
	o.Features = features
	o.ImmutableFeatures = immutable
	return o.validate()
}

// FoundryOutput controls the supply of a native token under its
// controlling alias
type FoundryOutput struct {
	Amount            uint64
	NativeTokens      NativeTokens
	SerialNumber      uint32
	TokenScheme       TokenScheme
	Conditions        UnlockConditions
	Features          Features
	ImmutableFeatures Features
}

func (o *FoundryOutput) isOutput() {}

func (o *FoundryOutput) Type() uint8 {
	return OutputFoundry
}

func (o *FoundryOutput) Deposit() uint64 {
	return o.Amount
}

// ID computes the foundry ID from the immutable alias condition, the
// serial number, and the token scheme kind
func (o *FoundryOutput) ID() (FoundryID, error) {
	cond, ok := o.Conditions.Get(UnlockConditionImmutableAlias).(*ImmutableAliasAddressUnlockCondition)
	if !ok {
		return FoundryID{}, ErrMissingImmutableAlias
	}
	return NewFoundryID(
		cond.Address,
		o.SerialNumber,
		o.TokenScheme.Type(),
	), nil
}

func (o *FoundryOutput) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(OutputFoundry)
	e.WriteUint64(o.Amount)
	writeNativeTokens(e, o.NativeTokens)
	e.WriteUint32(o.SerialNumber)
	o.TokenScheme.EncodeBinary(e)
	writeUnlockConditions(e, o.Conditions)
	writeFeatures(e, o.Features)
	writeFeatures(e, o.ImmutableFeatures)
}

func (o *FoundryOutput) DecodeBinary(d *serializer.Decoder) error {
	kind := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != OutputFoundry {
		return UnknownOutputTypeError{Kind: kind}
	}
	o.Amount = d.ReadUint64()
	tokens, err := readNativeTokens(d)
	if err != nil {
		return err
	}
	o.NativeTokens = tokens
	o.SerialNumber = d.ReadUint32()
	if err := d.Err(); err != nil {
		return err
	}
	scheme, err := tokenSchemeFromDecoder(d)
	if err != nil {
		return err
	}
	o.TokenScheme = scheme
	conditions, err := readUnlockConditions(d, UnlockConditionImmutableAlias)
	if err != nil {
		return err
	}
	o.Conditions = conditions
	features, err := readFeatures(d, FeatureMetadata)
	if err != nil {
		return err
	}
	o.Features = features
	immutable, err := readFeatures(d, FeatureMetadata)
	if err != nil {
		return err
	}
	o.ImmutableFeatures = immutable
	return nil
}

func (o *FoundryOutput) MarshalJSON() ([]byte, error) {
	conditions, err := marshalUnlockConditions(o.Conditions)
	if err != nil {
		return nil, err
	}
	features, err := marshalFeatures(o.Features)
	if err != nil {
		return nil, err
	}
	immutable, err := marshalFeatures(o.ImmutableFeatures)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&struct {
		Type              uint8             `json:"type"`
		Amount            string            `json:"amount"`
		NativeTokens      NativeTokens      `json:"nativeTokens,omitempty"`
		SerialNumber      uint32            `json:"serialNumber"`
		TokenScheme       TokenScheme       `json:"tokenScheme"`
		Conditions        []json.RawMessage `json:"unlockConditions"`
		Features          []json.RawMessage `json:"features,omitempty"`
		ImmutableFeatures []json.RawMessage `json:"immutableFeatures,omitempty"`
	}{
		Type:              OutputFoundry,
		Amount:            strconv.FormatUint(o.Amount, 10),
		NativeTokens:      o.NativeTokens,
		SerialNumber:      o.SerialNumber,
		TokenScheme:       o.TokenScheme,
		Conditions:        conditions,
		Features:          features,
		ImmutableFeatures: immutable,
	})
}

func (o *FoundryOutput) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type              uint8             `json:"type"`
		Amount            string            `json:"amount"`
		NativeTokens      NativeTokens      `json:"nativeTokens"`
		SerialNumber      uint32            `json:"serialNumber"`
		TokenScheme       json.RawMessage   `json:"tokenScheme"`
		Conditions        []json.RawMessage `json:"unlockConditions"`
		Features          []json.RawMessage `json:"features"`
		ImmutableFeatures []json.RawMessage `json:"immutableFeatures"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != OutputFoundry {
		return UnknownOutputTypeError{Kind: tmp.Type}
	}
	amount, err := strconv.ParseUint(tmp.Amount, 10, 64)
	if err != nil {
		return err
	}
	scheme, err := tokenSchemeFromJSONRaw(tmp.TokenScheme)
	if err != nil {
		return err
	}
	conditions, err := unlockConditionsFromJSONRaw(tmp.Conditions)
	if err != nil {
		return err
	}
	features, err := featuresFromJSONRaw(tmp.Features)
	if err != nil {
		return err
	}
	immutable, err := featuresFromJSONRaw(tmp.ImmutableFeatures)
	if err != nil {
		return err
	}
	o.Amount = amount
	o.NativeTokens = tmp.NativeTokens
	o.SerialNumber = tmp.SerialNumber
	o.TokenScheme = scheme
	o.Conditions = conditions
	o.Features = features
	o.ImmutableFeatures = immutable
	return nil
}

// NFTOutput is a chain output carrying a unique token identified by a
// stable NFT ID
type NFTOutput struct {
	Amount            uint64
	NativeTokens      NativeTokens
	NFTID             NFTID
	Conditions        UnlockConditions
	Features          Features
	ImmutableFeatures Features
}

func (o *NFTOutput) isOutput() {}

func (o *NFTOutput) Type() uint8 {
	return OutputNFT
}

func (o *NFTOutput) Deposit() uint64 {
	return o.Amount
}

// NFTAddress returns the address backed by this NFT output
func (o *NFTOutput) NFTAddress() *NFTAddress {
	return o.NFTID.Address()
}

func (o *NFTOutput) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(OutputNFT)
	e.WriteUint64(o.Amount)
	writeNativeTokens(e, o.NativeTokens)
	e.WriteBytes(o.NFTID[:])
	writeUnlockConditions(e, o.Conditions)
	writeFeatures(e, o.Features)
	writeFeatures(e, o.ImmutableFeatures)
}

func (o *NFTOutput) DecodeBinary(d *serializer.Decoder) error {
	kind := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != OutputNFT {
		return UnknownOutputTypeError{Kind: kind}
	}
	o.Amount = d.ReadUint64()
	tokens, err := readNativeTokens(d)
	if err != nil {
		return err
	}
	o.NativeTokens = tokens
	d.ReadInto(o.NFTID[:])
	if err := d.Err(); err != nil {
		return err
	}
	conditions, err := readUnlockConditions(
		d,
		UnlockConditionAddress,
		UnlockConditionStorageDepositReturn,
		UnlockConditionTimelock,
		UnlockConditionExpiration,
	)
	if err != nil {
		return err
	}
	o.Conditions = conditions
	features, err := readFeatures(
		d,
		FeatureSender,
		FeatureMetadata,
		FeatureTag,
	)
	if err != nil {
		return err
	}
	o.Features = features
	immutable, err := readFeatures(d, FeatureIssuer, FeatureMetadata)
	if err != nil {
		return err
	}
	o.ImmutableFeatures = immutable
	return nil
}

func (o *NFTOutput) MarshalJSON() ([]byte, error) {
	conditions, err := marshalUnlockConditions(o.Conditions)
	if err != nil {
		return nil, err
	}
	features, err := marshalFeatures(o.Features)
	if err != nil {
		return nil, err
	}
	immutable, err := marshalFeatures(o.ImmutableFeatures)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&struct {
		Type              uint8             `json:"type"`
		Amount            string            `json:"amount"`
		NativeTokens      NativeTokens      `json:"nativeTokens,omitempty"`
		NFTID             NFTID             `json:"nftId"`
		Conditions        []json.RawMessage `json:"unlockConditions"`
		Features          []json.RawMessage `json:"features,omitempty"`
		ImmutableFeatures []json.RawMessage `json:"immutableFeatures,omitempty"`
	}{
		Type:              OutputNFT,
		Amount:            strconv.FormatUint(o.Amount, 10),
		NativeTokens:      o.NativeTokens,
		NFTID:             o.NFTID,
		Conditions:        conditions,
		Features:          features,
		ImmutableFeatures: immutable,
	})
}

func (o *NFTOutput) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type              uint8             `json:"type"`
		Amount            string            `json:"amount"`
		NativeTokens      NativeTokens      `json:"nativeTokens"`
		NFTID             NFTID             `json:"nftId"`
		Conditions        []json.RawMessage `json:"unlockConditions"`
		Features          []json.RawMessage `json:"features"`
		ImmutableFeatures []json.RawMessage `json:"immutableFeatures"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != OutputNFT {
		return UnknownOutputTypeError{Kind: tmp.Type}
	}
	amount, err := strconv.ParseUint(tmp.Amount, 10, 64)
	if err != nil {
		return err
	}
	conditions, err := unlockConditionsFromJSONRaw(tmp.Conditions)
	if err != nil {
		return err
	}
	features, err := featuresFromJSONRaw(tmp.Features)
	if err != nil {
		return err
	}
	immutable, err := featuresFromJSONRaw(tmp.ImmutableFeatures)
	if err != nil {
		return err
	}
	o.Amount = amount
	o.NativeTokens = tmp.NativeTokens
	o.NFTID = tmp.NFTID
	o.Conditions = conditions
	o.Features = features
	o.ImmutableFeatures = immutable
	return nil
}

var (
	_ Output = (*AliasOutput)(nil)
	_ Output = (*FoundryOutput)(nil)
	_ Output = (*NFTOutput)(nil)
)
