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

// Package api defines the REST interface shared with tangle nodes: the
// route constants, the request/response body shapes, and the Requester
// interface through which higher layers issue calls against a managed
// node pool
package api

import (
	"context"
)

// Content types accepted and produced by node endpoints
const (
	MIMEApplicationJSON = "application/json"
	// MIMEVendorSerializer is the content type for raw binary
	// serialized protocol objects
	MIMEVendorSerializer = "application/vnd.iota.serializer-v1"
)

// Core endpoint routes. Routes with a %s or %d placeholder are filled
// with fmt.Sprintf
const (
	RouteHealth = "/health"

	RouteInfo = "/api/v2/info"
	RouteTips = "/api/v2/tips"

	RouteMessages        = "/api/v2/messages"
	RouteMessage         = "/api/v2/messages/%s"
	RouteMessageRaw      = "/api/v2/messages/%s/raw"
	RouteMessageMetadata = "/api/v2/messages/%s/metadata"
	RouteMessageChildren = "/api/v2/messages/%s/children"

	RouteOutput = "/api/v2/outputs/%s"

	RouteReceipts           = "/api/v2/receipts"
	RouteReceiptsMigratedAt = "/api/v2/receipts/%d"
	RouteTreasury           = "/api/v2/treasury"

	RouteTransactionIncludedMessage = "/api/v2/transactions/%s/included-message"

	RouteMilestoneByID               = "/api/v2/milestones/by-id/%s"
	RouteMilestoneByIDRaw            = "/api/v2/milestones/by-id/%s/raw"
	RouteMilestoneByIDUtxoChanges    = "/api/v2/milestones/by-id/%s/utxo-changes"
	RouteMilestoneByIndex            = "/api/v2/milestones/by-index/%d"
	RouteMilestoneByIndexRaw         = "/api/v2/milestones/by-index/%d/raw"
	RouteMilestoneByIndexUtxoChanges = "/api/v2/milestones/by-index/%d/utxo-changes"

	RoutePeers = "/api/v2/peers"
)

// Indexer plugin routes
const (
	RouteOutputsBasic       = "/api/indexer/v1/outputs/basic"
	RouteOutputsAlias       = "/api/indexer/v1/outputs/alias"
	RouteOutputsAliasByID   = "/api/indexer/v1/outputs/alias/%s"
	RouteOutputsFoundry     = "/api/indexer/v1/outputs/foundry"
	RouteOutputsFoundryByID = "/api/indexer/v1/outputs/foundry/%s"
	RouteOutputsNFT         = "/api/indexer/v1/outputs/nft"
	RouteOutputsNFTByID     = "/api/indexer/v1/outputs/nft/%s"
)

// Requester issues HTTP requests against a node pool, handling node
// selection, failover, and retries. It is implemented by the root
// client and consumed by packages built on top of the core API, such
// as the indexer query layer
type Requester interface {
	// RequestJSON performs a request with an optional JSON request
	// body and decodes the JSON response body into dest when dest is
	// not nil
	RequestJSON(
		ctx context.Context,
		method string,
		route string,
		reqBody any,
		dest any,
	) error
	// RequestBinary performs a request with an optional binary
	// request body and returns the raw response body
	RequestBinary(
		ctx context.Context,
		method string,
		route string,
		reqBody []byte,
	) ([]byte, error)
}
