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
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/blinklabs-io/gotangle/serializer"
)

// Output kinds
const (
	OutputTreasury uint8 = 2
	OutputBasic    uint8 = 3
	OutputAlias    uint8 = 4
	OutputFoundry  uint8 = 5
	OutputNFT      uint8 = 6
)

// MaxNativeTokenCount bounds the native tokens of a single output
const MaxNativeTokenCount = 64

// ErrTokensNotUniqueSorted is returned when the native tokens of an output
// are not in strictly ascending token ID order
var ErrTokensNotUniqueSorted = errors.New(
	"native tokens not unique and/or sorted",
)

// Output is the interface implemented by all output kinds
type Output interface {
	serializer.Encodable
	serializer.Decodable
	json.Marshaler
	// Type returns the output kind
	Type() uint8
	// Deposit returns the base token amount held by the output
	Deposit() uint64
	isOutput()
}

// OutputFromBytes deserializes an output from its binary form, dispatching
// on the leading kind byte
func OutputFromBytes(data []byte) (Output, error) {
	d := serializer.NewDecoder(data)
	o, err := OutputFromDecoder(d)
	if err != nil {
		return nil, err
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return o, nil
}

// OutputFromDecoder deserializes an output at the current decoder position
func OutputFromDecoder(d *serializer.Decoder) (Output, error) {
	kind := d.PeekUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	var o Output
	switch kind {
	case OutputTreasury:
		o = &TreasuryOutput{}
	case OutputBasic:
		o = &BasicOutput{}
	case OutputAlias:
		o = &AliasOutput{}
	case OutputFoundry:
		o = &FoundryOutput{}
	case OutputNFT:
		o = &NFTOutput{}
	default:
		return nil, UnknownOutputTypeError{Kind: kind}
	}
	if err := o.DecodeBinary(d); err != nil {
		return nil, err
	}
	return o, nil
}

// OutputFromJSON deserializes an output from its JSON object form,
// dispatching on the type field
func OutputFromJSON(raw json.RawMessage) (Output, error) {
	var disc struct {
		Type uint8 `json:"type"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return nil, err
	}
	var o Output
	switch disc.Type {
	case OutputTreasury:
		o = &TreasuryOutput{}
	case OutputBasic:
		o = &BasicOutput{}
	case OutputAlias:
		o = &AliasOutput{}
	case OutputFoundry:
		o = &FoundryOutput{}
	case OutputNFT:
		o = &NFTOutput{}
	default:
		return nil, UnknownOutputTypeError{Kind: disc.Type}
	}
	if err := json.Unmarshal(raw, o); err != nil {
		return nil, err
	}
	return o, nil
}

// NativeToken is an amount of a foundry-minted token held by an output
type NativeToken struct {
	ID     TokenID
	Amount *big.Int
}

func (t *NativeToken) EncodeBinary(e *serializer.Encoder) {
	e.WriteBytes(t.ID[:])
	e.WriteUint256(t.Amount)
}

func (t *NativeToken) DecodeBinary(d *serializer.Decoder) error {
	d.ReadInto(t.ID[:])
	t.Amount = d.ReadUint256()
	return d.Err()
}

func (t *NativeToken) MarshalJSON() ([]byte, error) {
	amount := t.Amount
	if amount == nil {
		amount = new(big.Int)
	}
	return json.Marshal(&struct {
		ID     string `json:"id"`
		Amount string `json:"amount"`
	}{
		ID:     t.ID.String(),
		Amount: "0x" + amount.Text(16),
	})
}

func (t *NativeToken) UnmarshalJSON(data []byte) error {
	var tmp struct {
		ID     string `json:"id"`
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	id, err := TokenIDFromHex(tmp.ID)
	if err != nil {
		return err
	}
	stripped, ok := strings.CutPrefix(tmp.Amount, "0x")
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingHexPrefix, tmp.Amount)
	}
	amount, ok := new(big.Int).SetString(stripped, 16)
	if !ok {
		return fmt.Errorf("invalid token amount %q", tmp.Amount)
	}
	t.ID = id
	t.Amount = amount
	return nil
}

// NativeTokens is the ID-ordered native token set of an output
type NativeTokens []*NativeToken

func (n NativeTokens) validate() error {
	if len(n) > MaxNativeTokenCount {
		return InvalidFieldLengthError{
			Field:  "native tokens",
			Length: len(n),
			Max:    MaxNativeTokenCount,
		}
	}
	for i := 1; i < len(n); i++ {
		if bytes.Compare(n[i-1].ID[:], n[i].ID[:]) >= 0 {
			return ErrTokensNotUniqueSorted
		}
	}
	return nil
}

func writeNativeTokens(e *serializer.Encoder, n NativeTokens) {
	if err := n.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint8(uint8(len(n)))
	for _, token := range n {
		token.EncodeBinary(e)
	}
}

func readNativeTokens(d *serializer.Decoder) (NativeTokens, error) {
	count := d.ReadUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	tokens := make(NativeTokens, 0, count)
	for i := 0; i < int(count); i++ {
		token := &NativeToken{}
		if err := token.DecodeBinary(d); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if err := tokens.validate(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Token scheme kinds
const (
	TokenSchemeSimple uint8 = 0
)

// TokenScheme is the interface implemented by all token scheme kinds
type TokenScheme interface {
	serializer.Encodable
	serializer.Decodable
	json.Marshaler
	// Type returns the token scheme kind
	Type() uint8
	isTokenScheme()
}

func tokenSchemeFromDecoder(d *serializer.Decoder) (TokenScheme, error) {
	kind := d.PeekUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case TokenSchemeSimple:
		scheme := &SimpleTokenScheme{}
		if err := scheme.DecodeBinary(d); err != nil {
			return nil, err
		}
		return scheme, nil
	default:
		return nil, UnknownTokenSchemeTypeError{Kind: kind}
	}
}

func tokenSchemeFromJSONRaw(raw json.RawMessage) (TokenScheme, error) {
	var disc struct {
		Type uint8 `json:"type"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return nil, err
	}
	switch disc.Type {
	case TokenSchemeSimple:
		scheme := &SimpleTokenScheme{}
		if err := json.Unmarshal(raw, scheme); err != nil {
			return nil, err
		}
		return scheme, nil
	default:
		return nil, UnknownTokenSchemeTypeError{Kind: disc.Type}
	}
}

// SimpleTokenScheme tracks minted and melted amounts against a fixed
// maximum supply
type SimpleTokenScheme struct {
	MintedTokens  *big.Int
	MeltedTokens  *big.Int
	MaximumSupply *big.Int
}

func (s *SimpleTokenScheme) isTokenScheme() {}

func (s *SimpleTokenScheme) Type() uint8 {
	return TokenSchemeSimple
}

func (s *SimpleTokenScheme) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(TokenSchemeSimple)
	e.WriteUint256(s.MintedTokens)
	e.WriteUint256(s.MeltedTokens)
	e.WriteUint256(s.MaximumSupply)
}

func (s *SimpleTokenScheme) DecodeBinary(d *serializer.Decoder) error {
	kind := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != TokenSchemeSimple {
		return UnknownTokenSchemeTypeError{Kind: kind}
	}
	s.MintedTokens = d.ReadUint256()
	s.MeltedTokens = d.ReadUint256()
	s.MaximumSupply = d.ReadUint256()
	return d.Err()
}

func bigIntToHex(v *big.Int) string {
	if v == nil {
		v = new(big.Int)
	}
	return "0x" + v.Text(16)
}

func bigIntFromHex(s string) (*big.Int, error) {
	stripped, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingHexPrefix, s)
	}
	v, ok := new(big.Int).SetString(stripped, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex integer %q", s)
	}
	return v, nil
}

func (s *SimpleTokenScheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type          uint8  `json:"type"`
		MintedTokens  string `json:"mintedTokens"`
		MeltedTokens  string `json:"meltedTokens"`
		MaximumSupply string `json:"maximumSupply"`
	}{
		Type:          TokenSchemeSimple,
		MintedTokens:  bigIntToHex(s.MintedTokens),
		MeltedTokens:  bigIntToHex(s.MeltedTokens),
		MaximumSupply: bigIntToHex(s.MaximumSupply),
	})
}

func (s *SimpleTokenScheme) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type          uint8  `json:"type"`
		MintedTokens  string `json:"mintedTokens"`
		MeltedTokens  string `json:"meltedTokens"`
		MaximumSupply string `json:"maximumSupply"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != TokenSchemeSimple {
		return UnknownTokenSchemeTypeError{Kind: tmp.Type}
	}
	minted, err := bigIntFromHex(tmp.MintedTokens)
	if err != nil {
		return err
	}
	melted, err := bigIntFromHex(tmp.MeltedTokens)
	if err != nil {
		return err
	}
	maximum, err := bigIntFromHex(tmp.MaximumSupply)
	if err != nil {
		return err
	}
	s.MintedTokens = minted
	s.MeltedTokens = melted
	s.MaximumSupply = maximum
	return nil
}

var _ TokenScheme = (*SimpleTokenScheme)(nil)

// TreasuryOutput holds the migration treasury amount. It only appears
// inside treasury transaction payloads
type TreasuryOutput struct {
	Amount uint64
}

func (o *TreasuryOutput) isOutput() {}

func (o *TreasuryOutput) Type() uint8 {
	return OutputTreasury
}

func (o *TreasuryOutput) Deposit() uint64 {
	return o.Amount
}

func (o *TreasuryOutput) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(OutputTreasury)
	e.WriteUint64(o.Amount)
}

func (o *TreasuryOutput) DecodeBinary(d *serializer.Decoder) error {
	kind := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != OutputTreasury {
		return UnknownOutputTypeError{Kind: kind}
	}
	o.Amount = d.ReadUint64()
	return d.Err()
}

func (o *TreasuryOutput) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type   uint8  `json:"type"`
		Amount string `json:"amount"`
	}{
		Type:   OutputTreasury,
		Amount: strconv.FormatUint(o.Amount, 10),
	})
}

func (o *TreasuryOutput) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type   uint8  `json:"type"`
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != OutputTreasury {
		return UnknownOutputTypeError{Kind: tmp.Type}
	}
	amount, err := strconv.ParseUint(tmp.Amount, 10, 64)
	if err != nil {
		return err
	}
	o.Amount = amount
	return nil
}

// BasicOutput is a plain value output with optional native tokens,
// spending restrictions, and features
type BasicOutput struct {
	Amount       uint64
	NativeTokens NativeTokens
	Conditions   UnlockConditions
	Features     Features
}

func (o *BasicOutput) isOutput() {}

func (o *BasicOutput) Type() uint8 {
	return OutputBasic
}

func (o *BasicOutput) Deposit() uint64 {
	return o.Amount
}

func (o *BasicOutput) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(OutputBasic)
	e.WriteUint64(o.Amount)
	writeNativeTokens(e, o.NativeTokens)
	writeUnlockConditions(e, o.Conditions)
	writeFeatures(e, o.Features)
}

func (o *BasicOutput) DecodeBinary(d *serializer.Decoder) error {
	kind := d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	if kind != OutputBasic {
		return UnknownOutputTypeError{Kind: kind}
	}
	o.Amount = d.ReadUint64()
	tokens, err := readNativeTokens(d)
	if err != nil {
		return err
	}
	o.NativeTokens = tokens
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
	return nil
}

func (o *BasicOutput) MarshalJSON() ([]byte, error) {
	conditions, err := marshalUnlockConditions(o.Conditions)
	if err != nil {
		return nil, err
	}
	features, err := marshalFeatures(o.Features)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&struct {
		Type         uint8             `json:"type"`
		Amount       string            `json:"amount"`
		NativeTokens NativeTokens      `json:"nativeTokens,omitempty"`
		Conditions   []json.RawMessage `json:"unlockConditions"`
		Features     []json.RawMessage `json:"features,omitempty"`
	}{
		Type:         OutputBasic,
		Amount:       strconv.FormatUint(o.Amount, 10),
		NativeTokens: o.NativeTokens,
		Conditions:   conditions,
		Features:     features,
	})
}

func (o *BasicOutput) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Type         uint8             `json:"type"`
		Amount       string            `json:"amount"`
		NativeTokens NativeTokens      `json:"nativeTokens"`
		Conditions   []json.RawMessage `json:"unlockConditions"`
		Features     []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Type != OutputBasic {
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
	o.Amount = amount
	o.NativeTokens = tmp.NativeTokens
	o.Conditions = conditions
	o.Features = features
	return nil
}

var (
	_ Output = (*TreasuryOutput)(nil)
	_ Output = (*BasicOutput)(nil)
)
