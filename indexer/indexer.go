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

// Package indexer queries the indexer plugin of tangle nodes: paged
// output ID lookups by structured filters and singleton lookups
// resolving a chain ID to its current output
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/blinklabs-io/gotangle/api"
	"github.com/blinklabs-io/gotangle/tangle"
)

// ErrNotFound is returned by singleton lookups when no output exists
// for the given ID
var ErrNotFound = errors.New("no output found for the given ID")

// Indexer issues queries against the indexer plugin through a node
// pool requester
type Indexer struct {
	requester api.Requester
	logger    *slog.Logger
}

// IndexerOptionFunc is a function that modifies Indexer settings
type IndexerOptionFunc func(*Indexer)

// WithLogger specifies the logger used for query tracing
func WithLogger(logger *slog.Logger) IndexerOptionFunc {
	return func(i *Indexer) {
		i.logger = logger
	}
}

// New creates an Indexer issuing requests through the provided
// requester
func New(requester api.Requester, options ...IndexerOptionFunc) *Indexer {
	i := &Indexer{
		requester: requester,
	}
	// Apply provided options functions
	for _, option := range options {
		option(i)
	}
	if i.logger == nil {
		i.logger = slog.Default()
	}
	return i
}

// Outputs prepares a paged walk over the output IDs matching the
// query. No request is sent until the first call to Next
func (i *Indexer) Outputs(query OutputsQuery) *OutputIDsResult {
	return &OutputIDsResult{
		indexer: i,
		query:   query,
	}
}

// AliasOutputID resolves an alias ID to the output ID currently
// representing the alias
func (i *Indexer) AliasOutputID(
	ctx context.Context,
	aliasID tangle.AliasID,
) (tangle.OutputID, error) {
	return i.singletonOutputID(
		ctx,
		fmt.Sprintf(api.RouteOutputsAliasByID, aliasID.String()),
	)
}

// FoundryOutputID resolves a foundry ID to the output ID currently
// representing the foundry
func (i *Indexer) FoundryOutputID(
	ctx context.Context,
	foundryID tangle.FoundryID,
) (tangle.OutputID, error) {
	return i.singletonOutputID(
		ctx,
		fmt.Sprintf(api.RouteOutputsFoundryByID, foundryID.String()),
	)
}

// NFTOutputID resolves an NFT ID to the output ID currently
// representing the NFT
func (i *Indexer) NFTOutputID(
	ctx context.Context,
	nftID tangle.NFTID,
) (tangle.OutputID, error) {
	return i.singletonOutputID(
		ctx,
		fmt.Sprintf(api.RouteOutputsNFTByID, nftID.String()),
	)
}

func (i *Indexer) singletonOutputID(
	ctx context.Context,
	route string,
) (tangle.OutputID, error) {
	var resp api.OutputIDsResponse
	err := i.requester.RequestJSON(ctx, http.MethodGet, route, nil, &resp)
	if err != nil {
		return tangle.OutputID{}, err
	}
	ids, err := resp.OutputIDs()
	if err != nil {
		return tangle.OutputID{}, err
	}
	if len(ids) == 0 {
		return tangle.OutputID{}, ErrNotFound
	}
	return ids[0], nil
}

// OutputIDsResult walks the pages of an indexer query. Each call to
// Next fetches one page, resuming from the cursor returned with the
// previous one
type OutputIDsResult struct {
	indexer     *Indexer
	query       OutputsQuery
	page        []tangle.OutputID
	ledgerIndex uint32
	cursor      string
	started     bool
	done        bool
	err         error
}

// Next fetches the next page. It returns false once all pages have
// been consumed or an error occurred, in which case Err reports the
// cause
func (r *OutputIDsResult) Next(ctx context.Context) bool {
	if r.err != nil || r.done {
		return false
	}
	values, err := r.query.QueryValues()
	if err != nil {
		r.err = err
		return false
	}
	if r.started && r.cursor != "" {
		values.Set("cursor", r.cursor)
	}
	route := r.query.route()
	if encoded := values.Encode(); encoded != "" {
		route += "?" + encoded
	}
	var resp api.OutputIDsResponse
	err = r.indexer.requester.RequestJSON(
		ctx,
		http.MethodGet,
		route,
		nil,
		&resp,
	)
	if err != nil {
		r.err = err
		return false
	}
	ids, err := resp.OutputIDs()
	if err != nil {
		r.err = err
		return false
	}
	r.indexer.logger.Debug(
		"fetched output IDs page",
		"component", "indexer",
		"route", r.query.route(),
		"items", len(ids),
		"ledger_index", resp.LedgerIndex,
		"has_cursor", resp.Cursor != nil,
	)
	r.page = ids
	r.ledgerIndex = resp.LedgerIndex
	r.started = true
	if resp.Cursor == nil || *resp.Cursor == "" {
		r.cursor = ""
		r.done = true
	} else {
		r.cursor = *resp.Cursor
	}
	return true
}

// Page returns the output IDs of the page fetched by the last
// successful Next
func (r *OutputIDsResult) Page() []tangle.OutputID {
	return r.page
}

// LedgerIndex returns the ledger index the last fetched page was
// computed at
func (r *OutputIDsResult) LedgerIndex() uint32 {
	return r.ledgerIndex
}

// Cursor returns the cursor needed to resume the walk after the
// current page, empty once the final page has been fetched
func (r *OutputIDsResult) Cursor() string {
	return r.cursor
}

// Err returns the first error encountered during the walk
func (r *OutputIDsResult) Err() error {
	return r.err
}

// Restart rewinds the walk to the first page
func (r *OutputIDsResult) Restart() {
	r.page = nil
	r.ledgerIndex = 0
	r.cursor = ""
	r.started = false
	r.done = false
	r.err = nil
}
