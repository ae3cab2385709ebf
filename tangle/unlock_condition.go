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

// Unlock condition kinds
const (
	UnlockConditionAddress              uint8 = 0
	UnlockConditionStorageDepositReturn uint8 = 1
	UnlockConditionTimelock             uint8 = 2
	UnlockConditionExpiration           uint8 = 3
	UnlockConditionStateController      uint8 = 4
	UnlockConditionGovernor             uint8 = 5
	UnlockConditionImmutableAlias       uint8 = 6
)

// UnlockCondition is the interface implemented by all unlock condition
// kinds. Conditions on an output are serialized in strictly ascending kind
// order without duplicates
type UnlockCondition interface {
	serializer.Encodable
	serializer.Decodable
	json.Marshaler
	// Type returns the unlock condition kind
	Type() uint8
	isUnlockCondition()
}

// UnlockConditions is the kind-ordered condition set of an output
type UnlockConditions []UnlockCondition

// Get returns the condition of the given kind, or nil
func (c UnlockConditions) Get(kind uint8) UnlockCondition {
	for _, cond := range c {
		if cond.Type() == kind {
			return cond
		}
	}
	return nil
}

// Address returns the address unlock condition, or nil
func (c UnlockConditions) Address() *AddressUnlockCondition {
	if cond, ok := c.Get(UnlockConditionAddress).(*AddressUnlockCondition); ok {
		return cond
	}
	return nil
}

func (c UnlockConditions) validate() error {
	for i := 1; i < len(c); i++ {
		if c[i-1].Type() >= c[i].Type() {
			return ErrConditionsNotUniqueSorted
		}
	}
	return nil
}

func writeUnlockConditions(e *serializer.Encoder, c UnlockConditions) {
	if err := c.validate(); err != nil {
		e.SetError(err)
		return
	}
	e.WriteUint8(uint8(len(c)))
	for _, cond := range c {
		cond.EncodeBinary(e)
	}
}

// readUnlockConditions reads a count-prefixed condition set, restricted to
// the kinds allowed for the enclosing output kind
func readUnlockConditions(
	d *serializer.Decoder,
	allowed ...uint8,
) (UnlockConditions, error) {
	count := d.ReadUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	conditions := make(UnlockConditions, 0, count)
	for i := 0; i < int(count); i++ {
		cond, err := unlockConditionFromDecoder(d, allowed)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	if err := conditions.validate(); err != nil {
		return nil, err
	}
	return conditions, nil
}

func unlockConditionFromDecoder(
	d *serializer.Decoder,
	allowed []uint8,
) (UnlockCondition, error) {
	kind := d.PeekUint8()
	if err := d.Err(); err != nil {
		return nil, err
	}
	var cond UnlockCondition
	switch kind {
	case UnlockConditionAddress:
		cond = &AddressUnlockCondition{}
	case UnlockConditionStorageDepositReturn:
		cond = &StorageDepositReturnUnlockCondition{}
	case UnlockConditionTimelock:
		cond = &TimelockUnlockCondition{}
	case UnlockConditionExpiration:
		cond = &ExpirationUnlockCondition{}
	case UnlockConditionStateController:
		cond = &StateControllerAddressUnlockCondition{}
	case UnlockConditionGovernor:
		cond = &GovernorAddressUnlockCondition{}
	case UnlockConditionImmutableAlias:
		cond = &ImmutableAliasAddressUnlockCondition{}
	default:
		return nil, UnknownUnlockConditionTypeError{Kind: kind}
	}
	if !kindAllowed(kind, allowed) {
		return nil, UnknownUnlockConditionTypeError{Kind: kind}
	}
	if err := cond.DecodeBinary(d); err != nil {
		return nil, err
	}
	return cond, nil
}

func kindAllowed(kind uint8, allowed []uint8) bool {
	for _, a := range allowed {
		if kind == a {
			return true
		}
	}
	return false
}

func unlockConditionsFromJSONRaw(
	raws []json.RawMessage,
) (UnlockConditions, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	conditions := make(UnlockConditions, 0, len(raws))
	for _, raw := range raws {
		var disc struct {
			Type uint8 `json:"type"`
		}
		if err := json.Unmarshal(raw, &disc); err != nil {
			return nil, err
		}
		var cond UnlockCondition
		switch disc.Type {
		case UnlockConditionAddress:
			cond = &AddressUnlockCondition{}
		case UnlockConditionStorageDepositReturn:
			cond = &StorageDepositReturnUnlockCondition{}
		case UnlockConditionTimelock:
			cond = &TimelockUnlockCondition{}
		case UnlockConditionExpiration:
			cond = &ExpirationUnlockCondition{}
		case UnlockConditionStateController:
			cond = &StateControllerAddressUnlockCondition{}
		case UnlockConditionGovernor:
			cond = &GovernorAddressUnlockCondition{}
		case UnlockConditionImmutableAlias:
			cond = &ImmutableAliasAddressUnlockCondition{}
		default:
			return nil, UnknownUnlockConditionTypeError{Kind: disc.Type}
		}
		if err := json.Unmarshal(raw, cond); err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

func marshalUnlockConditions(c UnlockConditions) ([]json.RawMessage, error) {
	raws := make([]json.RawMessage, 0, len(c))
	for _, cond := range c {
		raw, err := json.Marshal(cond)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// AddressUnlockCondition gates an output on a signature for the given
// address
type AddressUnlockCondition struct {
	Address Address
}

func (c *AddressUnlockCondition) isUnlockCondition() {}

func (c *AddressUnlockCondition) Type() uint8 {
	return UnlockConditionAddress
}

func (c *AddressUnlockCondition) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(UnlockConditionAddress)
	c.Address.EncodeBinary(e)
}

func (c *AddressUnlockCondition) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	addr, err := AddressFromDecoder(d)
	if err != nil {
		return err
	}
	c.Address = addr
	return nil
}

func (c *AddressUnlockCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type    uint8   `json:"type"`
		Address Address `json:"address"`
	}{
		Type:    UnlockConditionAddress,
		Address: c.Address,
	})
}

func (c *AddressUnlockCondition) UnmarshalJSON(data []byte) error {
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
	c.Address = addr
	return nil
}

// StorageDepositReturnUnlockCondition requires the consumer of an output
// to refund the storage deposit to the return address
type StorageDepositReturnUnlockCondition struct {
	ReturnAddress Address
	Amount        uint64
}

func (c *StorageDepositReturnUnlockCondition) isUnlockCondition() {}

func (c *StorageDepositReturnUnlockCondition) Type() uint8 {
	return UnlockConditionStorageDepositReturn
}

func (c *StorageDepositReturnUnlockCondition) EncodeBinary(
	e *serializer.Encoder,
) {
	e.WriteUint8(UnlockConditionStorageDepositReturn)
	c.ReturnAddress.EncodeBinary(e)
	e.WriteUint64(c.Amount)
}

func (c *StorageDepositReturnUnlockCondition) DecodeBinary(
	d *serializer.Decoder,
) error {
	d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	addr, err := AddressFromDecoder(d)
	if err != nil {
		return err
	}
	c.ReturnAddress = addr
	c.Amount = d.ReadUint64()
	return d.Err()
}

func (c *StorageDepositReturnUnlockCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type          uint8   `json:"type"`
		ReturnAddress Address `json:"returnAddress"`
		Amount        string  `json:"amount"`
	}{
		Type:          UnlockConditionStorageDepositReturn,
		ReturnAddress: c.ReturnAddress,
		Amount:        strconv.FormatUint(c.Amount, 10),
	})
}

func (c *StorageDepositReturnUnlockCondition) UnmarshalJSON(
	data []byte,
) error {
	var tmp struct {
		ReturnAddress json.RawMessage `json:"returnAddress"`
		Amount        string          `json:"amount"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	addr, err := addressFromJSONRaw(tmp.ReturnAddress)
	if err != nil {
		return err
	}
	amount, err := strconv.ParseUint(tmp.Amount, 10, 64)
	if err != nil {
		return err
	}
	c.ReturnAddress = addr
	c.Amount = amount
	return nil
}

// TimelockUnlockCondition prevents an output from being consumed before a
// unix timestamp
type TimelockUnlockCondition struct {
	UnixTime uint32
}

func (c *TimelockUnlockCondition) isUnlockCondition() {}

func (c *TimelockUnlockCondition) Type() uint8 {
	return UnlockConditionTimelock
}

func (c *TimelockUnlockCondition) EncodeBinary(e *serializer.Encoder) {
	if c.UnixTime == 0 {
		e.SetError(ErrMissingTimelockTime)
		return
	}
	e.WriteUint8(UnlockConditionTimelock)
	e.WriteUint32(c.UnixTime)
}

func (c *TimelockUnlockCondition) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	c.UnixTime = d.ReadUint32()
	if err := d.Err(); err != nil {
		return err
	}
	if c.UnixTime == 0 {
		return ErrMissingTimelockTime
	}
	return nil
}

func (c *TimelockUnlockCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type     uint8  `json:"type"`
		UnixTime uint32 `json:"unixTime"`
	}{
		Type:     UnlockConditionTimelock,
		UnixTime: c.UnixTime,
	})
}

func (c *TimelockUnlockCondition) UnmarshalJSON(data []byte) error {
	var tmp struct {
		UnixTime uint32 `json:"unixTime"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.UnixTime == 0 {
		return ErrMissingTimelockTime
	}
	c.UnixTime = tmp.UnixTime
	return nil
}

// ExpirationUnlockCondition lets the target address unlock the output
// before the unix timestamp and the return address after it
type ExpirationUnlockCondition struct {
	ReturnAddress Address
	UnixTime      uint32
}

func (c *ExpirationUnlockCondition) isUnlockCondition() {}

func (c *ExpirationUnlockCondition) Type() uint8 {
	return UnlockConditionExpiration
}

// ReturnAddressExpired returns the return address when the condition has
// expired at the given unix time, or nil before that
func (c *ExpirationUnlockCondition) ReturnAddressExpired(
	unixTime uint32,
) Address {
	if unixTime >= c.UnixTime {
		return c.ReturnAddress
	}
	return nil
}

func (c *ExpirationUnlockCondition) EncodeBinary(e *serializer.Encoder) {
	if c.UnixTime == 0 {
		e.SetError(ErrMissingExpirationTime)
		return
	}
	e.WriteUint8(UnlockConditionExpiration)
	c.ReturnAddress.EncodeBinary(e)
	e.WriteUint32(c.UnixTime)
}

func (c *ExpirationUnlockCondition) DecodeBinary(d *serializer.Decoder) error {
	d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	addr, err := AddressFromDecoder(d)
	if err != nil {
		return err
	}
	c.ReturnAddress = addr
	c.UnixTime = d.ReadUint32()
	if err := d.Err(); err != nil {
		return err
	}
	if c.UnixTime == 0 {
		return ErrMissingExpirationTime
	}
	return nil
}

func (c *ExpirationUnlockCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type          uint8   `json:"type"`
		ReturnAddress Address `json:"returnAddress"`
		UnixTime      uint32  `json:"unixTime"`
	}{
		Type:          UnlockConditionExpiration,
		ReturnAddress: c.ReturnAddress,
		UnixTime:      c.UnixTime,
	})
}

func (c *ExpirationUnlockCondition) UnmarshalJSON(data []byte) error {
	var tmp struct {
		ReturnAddress json.RawMessage `json:"returnAddress"`
		UnixTime      uint32          `json:"unixTime"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.UnixTime == 0 {
		return ErrMissingExpirationTime
	}
	addr, err := addressFromJSONRaw(tmp.ReturnAddress)
	if err != nil {
		return err
	}
	c.ReturnAddress = addr
	c.UnixTime = tmp.UnixTime
	return nil
}

// StateControllerAddressUnlockCondition gates state transitions of an
// alias output
type StateControllerAddressUnlockCondition struct {
	Address Address
}

func (c *StateControllerAddressUnlockCondition) isUnlockCondition() {}

func (c *StateControllerAddressUnlockCondition) Type() uint8 {
	return UnlockConditionStateController
}

func (c *StateControllerAddressUnlockCondition) EncodeBinary(
	e *serializer.Encoder,
) {
	e.WriteUint8(UnlockConditionStateController)
	c.Address.EncodeBinary(e)
}

func (c *StateControllerAddressUnlockCondition) DecodeBinary(
	d *serializer.Decoder,
) error {
	d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	addr, err := AddressFromDecoder(d)
	if err != nil {
		return err
	}
	c.Address = addr
	return nil
}

func (c *StateControllerAddressUnlockCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type    uint8   `json:"type"`
		Address Address `json:"address"`
	}{
		Type:    UnlockConditionStateController,
		Address: c.Address,
	})
}

func (c *StateControllerAddressUnlockCondition) UnmarshalJSON(
	data []byte,
) error {
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
	c.Address = addr
	return nil
}

// GovernorAddressUnlockCondition gates governance transitions of an alias
// output
type GovernorAddressUnlockCondition struct {
	Address Address
}

func (c *GovernorAddressUnlockCondition) isUnlockCondition() {}

func (c *GovernorAddressUnlockCondition) Type() uint8 {
	return UnlockConditionGovernor
}

func (c *GovernorAddressUnlockCondition) EncodeBinary(e *serializer.Encoder) {
	e.WriteUint8(UnlockConditionGovernor)
	c.Address.EncodeBinary(e)
}

func (c *GovernorAddressUnlockCondition) DecodeBinary(
	d *serializer.Decoder,
) error {
	d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	addr, err := AddressFromDecoder(d)
	if err != nil {
		return err
	}
	c.Address = addr
	return nil
}

func (c *GovernorAddressUnlockCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type    uint8   `json:"type"`
		Address Address `json:"address"`
	}{
		Type:    UnlockConditionGovernor,
		Address: c.Address,
	})
}

func (c *GovernorAddressUnlockCondition) UnmarshalJSON(data []byte) error {
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
	c.Address = addr
	return nil
}

// ImmutableAliasAddressUnlockCondition permanently ties a foundry output
// to its controlling alias
type ImmutableAliasAddressUnlockCondition struct {
	Address *AliasAddress
}

func (c *ImmutableAliasAddressUnlockCondition) isUnlockCondition() {}

func (c *ImmutableAliasAddressUnlockCondition) Type() uint8 {
	return UnlockConditionImmutableAlias
}

func (c *ImmutableAliasAddressUnlockCondition) EncodeBinary(
	e *serializer.Encoder,
) {
	e.WriteUint8(UnlockConditionImmutableAlias)
	c.Address.EncodeBinary(e)
}

func (c *ImmutableAliasAddressUnlockCondition) DecodeBinary(
	d *serializer.Decoder,
) error {
	d.ReadUint8()
	if err := d.Err(); err != nil {
		return err
	}
	addr, err := AddressFromDecoder(d)
	if err != nil {
		return err
	}
	aliasAddr, ok := addr.(*AliasAddress)
	if !ok {
		return UnknownAddressTypeError{Kind: addr.Type()}
	}
	c.Address = aliasAddr
	return nil
}

func (c *ImmutableAliasAddressUnlockCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type    uint8         `json:"type"`
		Address *AliasAddress `json:"address"`
	}{
		Type:    UnlockConditionImmutableAlias,
		Address: c.Address,
	})
}

func (c *ImmutableAliasAddressUnlockCondition) UnmarshalJSON(
	data []byte,
) error {
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
	aliasAddr, ok := addr.(*AliasAddress)
	if !ok {
		return UnknownAddressTypeError{Kind: addr.Type()}
	}
	c.Address = aliasAddr
	return nil
}

var (
	_ UnlockCondition = (*AddressUnlockCondition)(nil)
	_ UnlockCondition = (*StorageDepositReturnUnlockCondition)(nil)
	_ UnlockCondition = (*TimelockUnlockCondition)(nil)
	_ UnlockCondition = (*ExpirationUnlockCondition)(nil)
	_ UnlockCondition = (*StateControllerAddressUnlockCondition)(nil)
	_ UnlockCondition = (*GovernorAddressUnlockCondition)(nil)
	_ UnlockCondition = (*ImmutableAliasAddressUnlockCondition)(nil)
)
