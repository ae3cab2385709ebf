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

package indexer

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/blinklabs-io/gotangle/api"
	"github.com/blinklabs-io/gotangle/tangle"
)

// MaxPageSize is the largest page size accepted by indexer endpoints
const MaxPageSize = 1000

// InvalidQueryError is returned when a query combines parameters in a
// way the indexer would reject. It is produced before any request is
// sent
type InvalidQueryError struct {
	Parameter string
	Reason    string
}

func (e InvalidQueryError) Error() string {
	return fmt.Sprintf(
		"invalid query parameter %q: %s",
		e.Parameter,
		e.Reason,
	)
}

// OutputsQuery is implemented by the per-output-kind query types
type OutputsQuery interface {
	// QueryValues validates the query and returns its URL parameters
	QueryValues() (url.Values, error)
	route() string
}

// BasicOutputsQuery filters basic outputs
type BasicOutputsQuery struct {
	// Address is the bech32 address the output is unlockable by
	Address string
	// HasStorageDepositReturn filters on the presence of a storage
	// deposit return unlock condition
	HasStorageDepositReturn *bool
	// StorageDepositReturnAddress is the bech32 return address of the
	// storage deposit return unlock condition
	StorageDepositReturnAddress string
	// HasTimelock filters on the presence of a timelock unlock
	// condition
	HasTimelock *bool
	// TimelockedBefore matches outputs timelocked before the Unix
	// timestamp
	TimelockedBefore uint32
	// TimelockedAfter matches outputs timelocked after the Unix
	// timestamp
	TimelockedAfter uint32
	// HasExpiration filters on the presence of an expiration unlock
	// condition
	HasExpiration *bool
	// ExpiresBefore matches outputs expiring before the Unix timestamp
	ExpiresBefore uint32
	// ExpiresAfter matches outputs expiring after the Unix timestamp
	ExpiresAfter uint32
	// ExpirationReturnAddress is the bech32 return address of the
	// expiration unlock condition
	ExpirationReturnAddress string
	// Sender is the bech32 address of the sender feature
	Sender string
	// Tag matches outputs carrying the tag feature
	Tag []byte
	// HasNativeTokens filters on the presence of native tokens
	HasNativeTokens *bool
	// MinNativeTokenCount is the minimum number of distinct native
	// tokens
	MinNativeTokenCount *uint32
	// MaxNativeTokenCount is the maximum number of distinct native
	// tokens
	MaxNativeTokenCount *uint32
	// CreatedBefore matches outputs created before the Unix timestamp
	CreatedBefore uint32
	// CreatedAfter matches outputs created after the Unix timestamp
	CreatedAfter uint32
	// PageSize caps the number of items per page, zero for the node
	// default
	PageSize int
	// Cursor resumes a previous query from the given page
	Cursor string
}

func (q *BasicOutputsQuery) route() string {
	return api.RouteOutputsBasic
}

func (q *BasicOutputsQuery) QueryValues() (url.Values, error) {
	values := url.Values{}
	setAddressParam(values, "address", q.Address)
	setBoolParam(
		values,
		"hasStorageDepositReturn",
		q.HasStorageDepositReturn,
	)
	setAddressParam(
		values,
		"storageDepositReturnAddress",
		q.StorageDepositReturnAddress,
	)
	setBoolParam(values, "hasTimelock", q.HasTimelock)
	if err := setTimeWindow(
		values,
		"timelockedBefore",
		"timelockedAfter",
		q.TimelockedBefore,
		q.TimelockedAfter,
	); err != nil {
		return nil, err
	}
	setBoolParam(values, "hasExpiration", q.HasExpiration)
	if err := setTimeWindow(
		values,
		"expiresBefore",
		"expiresAfter",
		q.ExpiresBefore,
		q.ExpiresAfter,
	); err != nil {
		return nil, err
	}
	setAddressParam(
		values,
		"expirationReturnAddress",
		q.ExpirationReturnAddress,
	)
	setAddressParam(values, "sender", q.Sender)
	if err := setTagParam(values, q.Tag); err != nil {
		return nil, err
	}
	if err := setNativeTokenParams(
		values,
		q.HasNativeTokens,
		q.MinNativeTokenCount,
		q.MaxNativeTokenCount,
	); err != nil {
		return nil, err
	}
	if err := setTimeWindow(
		values,
		"createdBefore",
		"createdAfter",
		q.CreatedBefore,
		q.CreatedAfter,
	); err != nil {
		return nil, err
	}
	if err := setPagination(values, q.PageSize, q.Cursor); err != nil {
		return nil, err
	}
	return values, nil
}

// AliasOutputsQuery filters alias outputs
type AliasOutputsQuery struct {
	// StateController is the bech32 address of the state controller
	// unlock condition
	StateController string
	// Governor is the bech32 address of the governor unlock condition
	Governor string
	// Issuer is the bech32 address of the immutable issuer feature
	Issuer string
	// Sender is the bech32 address of the sender feature
	Sender string
	// HasNativeTokens filters on the presence of native tokens
	HasNativeTokens *bool
	// MinNativeTokenCount is the minimum number of distinct native
	// tokens
	MinNativeTokenCount *uint32
	// MaxNativeTokenCount is the maximum number of distinct native
	// tokens
	MaxNativeTokenCount *uint32
	// CreatedBefore matches outputs created before the Unix timestamp
	CreatedBefore uint32
	// CreatedAfter matches outputs created after the Unix timestamp
	CreatedAfter uint32
	// PageSize caps the number of items per page, zero for the node
	// default
	PageSize int
	// Cursor resumes a previous query from the given page
	Cursor string
}

func (q *AliasOutputsQuery) route() string {
	return api.RouteOutputsAlias
}

func (q *AliasOutputsQuery) QueryValues() (url.Values, error) {
	values := url.Values{}
	setAddressParam(values, "stateController", q.StateController)
	setAddressParam(values, "governor", q.Governor)
	setAddressParam(values, "issuer", q.Issuer)
	setAddressParam(values, "sender", q.Sender)
	if err := setNativeTokenParams(
		values,
		q.HasNativeTokens,
		q.MinNativeTokenCount,
		q.MaxNativeTokenCount,
	); err != nil {
		return nil, err
	}
	if err := setTimeWindow(
		values,
		"createdBefore",
		"createdAfter",
		q.CreatedBefore,
		q.CreatedAfter,
	); err != nil {
		return nil, err
	}
	if err := setPagination(values, q.PageSize, q.Cursor); err != nil {
		return nil, err
	}
	return values, nil
}

// FoundryOutputsQuery filters foundry outputs
type FoundryOutputsQuery struct {
	// AliasAddress is the bech32 alias address controlling the foundry
	AliasAddress string
	// HasNativeTokens filters on the presence of native tokens
	HasNativeTokens *bool
	// MinNativeTokenCount is the minimum number of distinct native
	// tokens
	MinNativeTokenCount *uint32
	// MaxNativeTokenCount is the maximum number of distinct native
	// tokens
	MaxNativeTokenCount *uint32
	// CreatedBefore matches outputs created before the Unix timestamp
	CreatedBefore uint32
	// CreatedAfter matches outputs created after the Unix timestamp
	CreatedAfter uint32
	// PageSize caps the number of items per page, zero for the node
	// default
	PageSize int
	// Cursor resumes a previous query from the given page
	Cursor string
}

func (q *FoundryOutputsQuery) route() string {
	return api.RouteOutputsFoundry
}

func (q *FoundryOutputsQuery) QueryValues() (url.Values, error) {
	values := url.Values{}
	setAddressParam(values, "aliasAddress", q.AliasAddress)
	if err := setNativeTokenParams(
		values,
		q.HasNativeTokens,
		q.MinNativeTokenCount,
		q.MaxNativeTokenCount,
	); err != nil {
		return nil, err
	}
	if err := setTimeWindow(
		values,
		"createdBefore",
		"createdAfter",
		q.CreatedBefore,
		q.CreatedAfter,
	); err != nil {
		return nil, err
	}
	if err := setPagination(values, q.PageSize, q.Cursor); err != nil {
		return nil, err
	}
	return values, nil
}

// NFTOutputsQuery filters NFT outputs
type NFTOutputsQuery struct {
	// Address is the bech32 address the output is unlockable by
	Address string
	// HasStorageDepositReturn filters on the presence of a storage
	// deposit return unlock condition
	HasStorageDepositReturn *bool
	// StorageDepositReturnAddress is the bech32 return address of the
	// storage deposit return unlock condition
	StorageDepositReturnAddress string
	// HasTimelock filters on the presence of a timelock unlock
	// condition
	HasTimelock *bool
	// TimelockedBefore matches outputs timelocked before the Unix
	// timestamp
	TimelockedBefore uint32
	// TimelockedAfter matches outputs timelocked after the Unix
	// timestamp
	TimelockedAfter uint32
	// HasExpiration filters on the presence of an expiration unlock
	// condition
	HasExpiration *bool
	// ExpiresBefore matches outputs expiring before the Unix timestamp
	ExpiresBefore uint32
	// ExpiresAfter matches outputs expiring after the Unix timestamp
	ExpiresAfter uint32
	// ExpirationReturnAddress is the bech32 return address of the
	// expiration unlock condition
	ExpirationReturnAddress string
	// Issuer is the bech32 address of the immutable issuer feature
	Issuer string
	// Sender is the bech32 address of the sender feature
	Sender string
	// Tag matches outputs carrying the tag feature
	Tag []byte
	// HasNativeTokens filters on the presence of native tokens
	HasNativeTokens *bool
	// MinNativeTokenCount is the minimum number of distinct native
	// tokens
	MinNativeTokenCount *uint32
	// MaxNativeTokenCount is the maximum number of distinct native
	// tokens
	MaxNativeTokenCount *uint32
	// CreatedBefore matches outputs created before the Unix timestamp
	CreatedBefore uint32
	// CreatedAfter matches outputs created after the Unix timestamp
	CreatedAfter uint32
	// PageSize caps the number of items per page, zero for the node
	// default
	PageSize int
	// Cursor resumes a previous query from the given page
	Cursor string
}

func (q *NFTOutputsQuery) route() string {
	return api.RouteOutputsNFT
}

func (q *NFTOutputsQuery) QueryValues() (url.Values, error) {
	values := url.Values{}
	setAddressParam(values, "address", q.Address)
	setBoolParam(
		values,
		"hasStorageDepositReturn",
		q.HasStorageDepositReturn,
	)
	setAddressParam(
		values,
		"storageDepositReturnAddress",
		q.StorageDepositReturnAddress,
	)
	setBoolParam(values, "hasTimelock", q.HasTimelock)
	if err := setTimeWindow(
		values,
		"timelockedBefore",
		"timelockedAfter",
		q.TimelockedBefore,
		q.TimelockedAfter,
	); err != nil {
		return nil, err
	}
	setBoolParam(values, "hasExpiration", q.HasExpiration)
	if err := setTimeWindow(
		values,
		"expiresBefore",
		"expiresAfter",
		q.ExpiresBefore,
		q.ExpiresAfter,
	); err != nil {
		return nil, err
	}
	setAddressParam(
		values,
		"expirationReturnAddress",
		q.ExpirationReturnAddress,
	)
	setAddressParam(values, "issuer", q.Issuer)
	setAddressParam(values, "sender", q.Sender)
	if err := setTagParam(values, q.Tag); err != nil {
		return nil, err
	}
	if err := setNativeTokenParams(
		values,
		q.HasNativeTokens,
		q.MinNativeTokenCount,
		q.MaxNativeTokenCount,
	); err != nil {
		return nil, err
	}
	if err := setTimeWindow(
		values,
		"createdBefore",
		"createdAfter",
		q.CreatedBefore,
		q.CreatedAfter,
	); err != nil {
		return nil, err
	}
	if err := setPagination(values, q.PageSize, q.Cursor); err != nil {
		return nil, err
	}
	return values, nil
}

func setAddressParam(values url.Values, name string, addr string) {
	if addr != "" {
		values.Set(name, addr)
	}
}

func setBoolParam(values url.Values, name string, v *bool) {
	if v != nil {
		values.Set(name, strconv.FormatBool(*v))
	}
}

// setTimeWindow sets a before/after timestamp pair. Zero values are
// treated as unset. A window whose before bound does not come after its
// after bound matches nothing and is rejected
func setTimeWindow(
	values url.Values,
	beforeName string,
	afterName string,
	before uint32,
	after uint32,
) error {
	if before > 0 && after > 0 && before <= after {
		return InvalidQueryError{
			Parameter: beforeName,
			Reason: fmt.Sprintf(
				"window is empty: %s (%d) must come after %s (%d)",
				beforeName,
				before,
				afterName,
				after,
			),
		}
	}
	if before > 0 {
		values.Set(beforeName, strconv.FormatUint(uint64(before), 10))
	}
	if after > 0 {
		values.Set(afterName, strconv.FormatUint(uint64(after), 10))
	}
	return nil
}

func setTagParam(values url.Values, tag []byte) error {
	if len(tag) == 0 {
		return nil
	}
	if len(tag) > tangle.MaxTagLength {
		return InvalidQueryError{
			Parameter: "tag",
			Reason: fmt.Sprintf(
				"longer than %d bytes",
				tangle.MaxTagLength,
			),
		}
	}
	values.Set("tag", tangle.EncodeHex(tag))
	return nil
}

func setNativeTokenParams(
	values url.Values,
	has *bool,
	minCount *uint32,
	maxCount *uint32,
) error {
	if has != nil && !*has && (minCount != nil || maxCount != nil) {
		return InvalidQueryError{
			Parameter: "hasNativeTokens",
			Reason:    "native token count bounds combined with hasNativeTokens=false",
		}
	}
	if minCount != nil && maxCount != nil && *minCount > *maxCount {
		return InvalidQueryError{
			Parameter: "minNativeTokenCount",
			Reason: fmt.Sprintf(
				"greater than maxNativeTokenCount (%d > %d)",
				*minCount,
				*maxCount,
			),
		}
	}
	setBoolParam(values, "hasNativeTokens", has)
	if minCount != nil {
		values.Set(
			"minNativeTokenCount",
			strconv.FormatUint(uint64(*minCount), 10),
		)
	}
	if maxCount != nil {
		values.Set(
			"maxNativeTokenCount",
			strconv.FormatUint(uint64(*maxCount), 10),
		)
	}
	return nil
}

func setPagination(values url.Values, pageSize int, cursor string) error {
	if pageSize < 0 || pageSize > MaxPageSize {
		return InvalidQueryError{
			Parameter: "pageSize",
			Reason: fmt.Sprintf(
				"outside the range [1, %d]",
				MaxPageSize,
			),
		}
	}
	if pageSize > 0 {
		values.Set("pageSize", strconv.Itoa(pageSize))
	}
	if cursor != "" {
		values.Set("cursor", cursor)
	}
	return nil
}
