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
	"errors"
	"fmt"
)

var (
	// ErrInvalidBech32 is returned when a bech32 address string cannot be
	// decoded, including any checksum failure
	ErrInvalidBech32 = errors.New("invalid bech32 encoding")
	// ErrParentsNotUniqueSorted is returned when message parents are not in
	// strictly ascending lexicographic order
	ErrParentsNotUniqueSorted = errors.New("parents not unique and/or sorted")
	// ErrConditionsNotUniqueSorted is returned when output unlock conditions
	// are not in strictly ascending kind order
	ErrConditionsNotUniqueSorted = errors.New(
		"unlock conditions not unique and/or sorted",
	)
	// ErrFeaturesNotUniqueSorted is returned when output features are not in
	// strictly ascending kind order
	ErrFeaturesNotUniqueSorted = errors.New("features not unique and/or sorted")
	// ErrOptionsNotUniqueSorted is returned when milestone options are not
	// in strictly ascending kind order
	ErrOptionsNotUniqueSorted = errors.New(
		"milestone options not unique and/or sorted",
	)
	// ErrSignaturesNotUniqueSorted is returned when milestone signatures are
	// not in strictly ascending public key order
	ErrSignaturesNotUniqueSorted = errors.New(
		"milestone signatures not unique and/or sorted",
	)
	// ErrFundsNotUniqueSorted is returned when receipt funds are not in
	// strictly ascending tail transaction hash order
	ErrFundsNotUniqueSorted = errors.New(
		"receipt funds not unique and/or sorted",
	)
	// ErrInvalidSignature is returned when an Ed25519 signature does not
	// verify against its public key
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrMissingExpirationTime is returned when an expiration unlock
	// condition carries a zero timestamp
	ErrMissingExpirationTime = errors.New(
		"expiration unlock condition with zero timestamp",
	)
	// ErrMissingTimelockTime is returned when a timelock unlock condition
	// carries a zero timestamp
	ErrMissingTimelockTime = errors.New(
		"timelock unlock condition with zero timestamp",
	)
	// ErrMissingImmutableAlias is returned when a foundry output lacks its
	// immutable alias address condition
	ErrMissingImmutableAlias = errors.New(
		"foundry output missing immutable alias address condition",
	)
)

type UnknownPayloadTypeError struct {
	Kind uint32
}

func (e UnknownPayloadTypeError) Error() string {
	return fmt.Sprintf("invalid payload kind: %d", e.Kind)
}

type UnknownAddressTypeError struct {
	Kind uint8
}

func (e UnknownAddressTypeError) Error() string {
	return fmt.Sprintf("invalid address kind: %d", e.Kind)
}

type UnknownOutputTypeError struct {
	Kind uint8
}

func (e UnknownOutputTypeError) Error() string {
	return fmt.Sprintf("invalid output kind: %d", e.Kind)
}

type UnknownInputTypeError struct {
	Kind uint8
}

func (e UnknownInputTypeError) Error() string {
	return fmt.Sprintf("invalid input kind: %d", e.Kind)
}

type UnknownUnlockTypeError struct {
	Kind uint8
}

func (e UnknownUnlockTypeError) Error() string {
	return fmt.Sprintf("invalid unlock kind: %d", e.Kind)
}

type UnknownUnlockConditionTypeError struct {
	Kind uint8
}

func (e UnknownUnlockConditionTypeError) Error() string {
	return fmt.Sprintf("invalid unlock condition kind: %d", e.Kind)
}

type UnknownFeatureTypeError struct {
	Kind uint8
}

func (e UnknownFeatureTypeError) Error() string {
	return fmt.Sprintf("invalid feature kind: %d", e.Kind)
}

type UnknownTokenSchemeTypeError struct {
	Kind uint8
}

func (e UnknownTokenSchemeTypeError) Error() string {
	return fmt.Sprintf("invalid token scheme kind: %d", e.Kind)
}

type UnknownSignatureTypeError struct {
	Kind uint8
}

func (e UnknownSignatureTypeError) Error() string {
	return fmt.Sprintf("invalid signature kind: %d", e.Kind)
}

type UnknownMilestoneOptionTypeError struct {
	Kind uint8
}

func (e UnknownMilestoneOptionTypeError) Error() string {
	return fmt.Sprintf("invalid milestone option kind: %d", e.Kind)
}

type UnknownEssenceTypeError struct {
	Kind uint8
}

func (e UnknownEssenceTypeError) Error() string {
	return fmt.Sprintf("invalid essence kind: %d", e.Kind)
}

// InvalidParentCountError is returned when a message carries fewer than
// MinParents or more than MaxParents parent references
type InvalidParentCountError struct {
	Count int
}

func (e InvalidParentCountError) Error() string {
	return fmt.Sprintf("invalid parents count: %d", e.Count)
}

// InvalidCountError is returned when a count-prefixed collection falls
// outside its protocol bounds
type InvalidCountError struct {
	Field string
	Count int
}

func (e InvalidCountError) Error() string {
	return fmt.Sprintf("invalid %s count: %d", e.Field, e.Count)
}

// InvalidFieldLengthError is returned when a variable-length field exceeds
// its protocol bound
type InvalidFieldLengthError struct {
	Field  string
	Length int
	Max    int
}

func (e InvalidFieldLengthError) Error() string {
	return fmt.Sprintf(
		"invalid %s length: %d exceeds maximum of %d",
		e.Field,
		e.Length,
		e.Max,
	)
}
