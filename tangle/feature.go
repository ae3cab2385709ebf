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

// Feature kinds
const (
	FeatureSender   uint8 = 0
	FeatureIssuer   uint8 = 1
	FeatureMetadata uint8 = 2
	FeatureTag      uint8 = 3
)

// MaxMetadataLength bounds the data of a metadata feature
const MaxMetadataLength = 8192

// Feature is the interface implemented by all feature kinds. Features on
// an output are serialized in strictly ascending kind order without
// duplicates
type Feature interface {
	serializer.Encodable
	serializer.Decodable
	json.Marshaler
	// Type returns the feature kind
	Type() uint8
	isFeature()
}

// Features is the kind-ordered feature set of an output
type Features []Feature

// Get returns the feature of the given kind, or nil
func (f Features) Get(kind uint8) Feature {
	for _, feature := range f {
		if feature.Type() == kind {
			return feature
		}
	}
	return nil
}

func (f Features) validate() error {
	for i := 1; i < len(f); i++ {
		if f[i-1].Type() >= f[i].Type() {
			return ErrFeaturesNotUniqueSorted
		}
	}
	return nil
}

func writeFeatures(e *serializer.Encoder, f Features) {
	if err := f.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint8(uint8(len(f)))
	for _, feature := range f {
		feature.EncodeBinary(e)
	}
}

// readFeatures reads a count-prefixed feature set, restricted to the kinds
// allowed for the enclosing output kind
func readFeatures(d *serializer.Decoder, allowed ...uint8) (Features, error) {
	count := d.ReadUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	features := make(Features, 0, count)
	for i := 0; i < int(count); i++ {
		feature, err := featureFromDecoder(d, allowed)
		if err != nil {
			return nil, err
		}
		features = append(features, feature)
	}
	if err := features.validate(); err != nil {
		return nil, err
	}
	return features, nil
}

func featureFromDecoder(
	d *serializer.Decoder,
	allowed []uint8,
) (Feature, error) {
	kind := d.PeekUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	var feature Feature
	switch kind {
	case FeatureSender:
		feature = &SenderFeature{}
	case FeatureIssuer:
		feature = &IssuerFeature{}
	case FeatureMetadata:
		feature = &MetadataFeature{}
	case FeatureTag:
		feature = &TagFeature{}
	default:
		return nil, UnknownFeatureTypeError{Kind: kind}
	}
	if !kindAllowed(kind, allowed) {
		return nil, UnknownFeatureTypeError{Kind: kind}
	}
	if err := feature.DecodeBinary(d); err != nil {
		return nil, err
	}
	return feature, nil
}

func featuresFromJSONRaw(raws []json.RawMessage) (Features, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	features := make(Features, 0, len(raws))
	for _, raw := range raws {
		var disc struct {
			Type uint8 `json:"type"`
		}
		if err := json.Unmarshal(raw, &disc); err != nil {
			return nil, err
		}
		var feature Feature
		switch disc.Type {
		case FeatureSender:
			feature = &SenderFeature{}
		case FeatureIssuer:
			feature = &IssuerFeature{}
		case FeatureMetadata:
			feature = &MetadataFeature{}
		case FeatureTag:
			feature = &TagFeature{}
		default:
			return nil, UnknownFeatureTypeError{Kind: disc.Type}
		}
		if err := json.Unmarshal(raw, feature); err != nil {
			return nil, err
		}
		features = append(features, feature)
	}
	return features, nil
}

func marshalFeatures(f Features) ([]json.RawMessage, error) {
	raws := make([]json.RawMessage, 0, len(f))
	for _, feature := range f {
		raw, err := json.Marshal(feature)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// SenderFeature identifies the validated sender of an output
type SenderFeature struct {
	Address Address
}

func (f *SenderFeature) isFeature() {}

func (f *SenderFeature) Type() uint8 {
	return FeatureSender
}

func (f *SenderFeature) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(FeatureSender)
	f.Address.EncodeBinary(e)
}

func (f *SenderFeature) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	addr, err := AddressFromDecoder(d)
	if err != nil {
		return err
	}
	f.Address = addr
	return nil
}

func (f *SenderFeature) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type    uint8   `json:"type"`
		Address Address `json:"address"`
	}{
		Type:    FeatureSender,
		Address: f.Address,
	})
}

func (f *SenderFeature) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Address json.RawMessage `json:"address"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	addr, err := addressFromJSONRaw(tmp.Address)
	if err != nil {
		return err
	}
	f.Address = addr
	return nil
}

// IssuerFeature identifies the validated issuer of a chain output. It can
// only appear in the immutable feature set
type IssuerFeature struct {
	Address Address
}

func (f *IssuerFeature) isFeature() {}

func (f *IssuerFeature) Type() uint8 {
	return FeatureIssuer
}

func (f *IssuerFeature) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(FeatureIssuer)
	f.Address.EncodeBinary(e)
}

func (f *IssuerFeature) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	addr, err := AddressFromDecoder(d)
	if err != nil {
		return err
	}
	f.Address = addr
	return nil
}

func (f *IssuerFeature) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type    uint8   `json:"type"`
		Address Address `json:"address"`
	}{
		Type:    FeatureIssuer,
		Address: f.Address,
	})
}

func (f *IssuerFeature) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Address json.RawMessage `json:"address"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	addr, err := addressFromJSONRaw(tmp.Address)
	if err != nil {
		return err
	}
	f.Address = addr
	return nil
}

// MetadataFeature attaches arbitrary data to an output
type MetadataFeature struct {
	Data []byte
}

func (f *MetadataFeature) isFeature() {}

func (f *MetadataFeature) Type() uint8 {
	return FeatureMetadata
}

func (f *MetadataFeature) validate() error {
	if len(f.Data) == 0 || len(f.Data) > MaxMetadataLength {
		return InvalidFieldLengthError{
			Field:  "metadata",
			Length: len(f.Data),
			Max:    MaxMetadataLength,
		}
	}
	return nil
}

func (f *MetadataFeature) EncodeBinary(e *serializer.Encoder) {
	if err := f.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint8(FeatureMetadata)
	e.WritePrefixedBytes16(f.Data)
}

func (f *MetadataFeature) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	f.Data = d.ReadPrefixedBytes16()
	if err := d.Err(); err != nil {
		return err
	}
	return f.validate()
}

func (f *MetadataFeature) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type uint8  `json:"type"`
		Data string `json:"data"`
	}{
		Type: FeatureMetadata,
		Data: EncodeHex(f.Data),
	})
}

func (f *MetadataFeature) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	decoded, err := DecodeHex(tmp.Data)
	if err != nil {
		return err
	}
	f.Data = decoded
	return f.validate()
}

// TagFeature attaches an indexation tag to a basic output
type TagFeature struct {
	Tag []byte
}

func (f *TagFeature) isFeature() {}

func (f *TagFeature) Type() uint8 {
	return FeatureTag
}

func (f *TagFeature) validate() error {
	if len(f.Tag) == 0 || len(f.Tag) > MaxTagLength {
		return InvalidFieldLengthError{
			Field:  "tag",
			Length: len(f.Tag),
			Max:    MaxTagLength,
		}
	}
	return nil
}

func (f *TagFeature) EncodeBinary(e *serializer.Encoder) {
	if err := f.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint8(FeatureTag)
	e.WritePrefixedBytes8(f.Tag)
}

func (f *TagFeature) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	f.Tag = d.ReadPrefixedBytes8()
	if err := d.Err(); err != nil {
		return err
	}
	return f.validate()
}

func (f *TagFeature) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type uint8  `json:"type"`
		Tag  string `json:"tag"`
	}{
		Type: FeatureTag,
		Tag:  EncodeHex(f.Tag),
	})
}

func (f *TagFeature) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Tag string `json:"tag"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	tag, err := DecodeHex(tmp.Tag)
	if err != nil {
		return err
	}
	f.Tag = tag
	return f.validate()
}

var (
	_ Feature = (*SenderFeature)(nil)
	_ Feature = (*IssuerFeature)(nil)
	_ Feature = (*MetadataFeature)(nil)
	_ Feature = (*TagFeature)(nil)
)
