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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/blinklabs-io/gotangle/tangle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// testRequester satisfies api.Requester against a local test server
type testRequester struct {
	server   *httptest.Server
	requests atomic.Int32
}

func (r *testRequester) RequestJSON(
	ctx context.Context,
	method string,
	route string,
	reqBody any,
	dest any,
) error {
	r.requests.Add(1)
	req, err := http.NewRequestWithContext(
		ctx,
		method,
		r.server.URL+route,
		nil,
	)
	if err != nil {
		return err
	}
	resp, err := r.server.Client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (r *testRequester) RequestBinary(
	ctx context.Context,
	method string,
	route string,
	reqBody []byte,
) ([]byte, error) {
	return nil, errors.New("not supported")
}

func testOutputIDHex(fill byte, index uint16) string {
	oid := tangle.NewOutputID(
		tangle.NewTransactionID(bytes.Repeat([]byte{fill}, 32)),
		index,
	)
	return oid.String()
}

func boolPtr(v bool) *bool {
	return &v
}

func uint32Ptr(v uint32) *uint32 {
	return &v
}

func TestQueryValues(t *testing.T) {
	t.Run("basic full query", func(t *testing.T) {
		query := &BasicOutputsQuery{
			Address:         "iota1qpf0mlq8yxpx2nck8a0slxnzr4ef2ek8f5gqxlzd0wasgp73utryj430ldu",
			HasTimelock:     boolPtr(true),
			TimelockedAfter: 1000,
			Sender:          "iota1qzt0nhsf38nh6rs4p6zs5knqp6psgha9wsv74uajqgjmwc75ugupx3y7x0r",
			Tag:             []byte("hello"),
			HasNativeTokens: boolPtr(true),
			CreatedBefore:   2000,
			CreatedAfter:    1500,
			PageSize:        50,
			Cursor:          "aabb",
		}
		values, err := query.QueryValues()
		require.NoError(t, err)
		assert.Equal(t, query.Address, values.Get("address"))
		assert.Equal(t, "true", values.Get("hasTimelock"))
		assert.Equal(t, "1000", values.Get("timelockedAfter"))
		assert.Empty(t, values.Get("timelockedBefore"))
		assert.Equal(t, "0x68656c6c6f", values.Get("tag"))
		assert.Equal(t, "true", values.Get("hasNativeTokens"))
		assert.Equal(t, "2000", values.Get("createdBefore"))
		assert.Equal(t, "1500", values.Get("createdAfter"))
		assert.Equal(t, "50", values.Get("pageSize"))
		assert.Equal(t, "aabb", values.Get("cursor"))
	})
	t.Run("alias query", func(t *testing.T) {
		query := &AliasOutputsQuery{
			StateController: "iota1qpf0mlq8yxpx2nck8a0slxnzr4ef2ek8f5gqxlzd0wasgp73utryj430ldu",
			Governor:        "iota1qzt0nhsf38nh6rs4p6zs5knqp6psgha9wsv74uajqgjmwc75ugupx3y7x0r",
		}
		values, err := query.QueryValues()
		require.NoError(t, err)
		assert.Equal(t, query.StateController, values.Get("stateController"))
		assert.Equal(t, query.Governor, values.Get("governor"))
		assert.Empty(t, values.Get("issuer"))
	})
	t.Run("page size out of range", func(t *testing.T) {
		for _, pageSize := range []int{-1, MaxPageSize + 1} {
			query := &BasicOutputsQuery{PageSize: pageSize}
			_, err := query.QueryValues()
			require.Error(t, err)
			var queryErr InvalidQueryError
			require.ErrorAs(t, err, &queryErr)
			assert.Equal(t, "pageSize", queryErr.Parameter)
		}
	})
	t.Run("tag too long", func(t *testing.T) {
		query := &NFTOutputsQuery{
			Tag: make([]byte, tangle.MaxTagLength+1),
		}
		_, err := query.QueryValues()
		var queryErr InvalidQueryError
		require.ErrorAs(t, err, &queryErr)
		assert.Equal(t, "tag", queryErr.Parameter)
	})
	t.Run("native token bounds without native tokens", func(t *testing.T) {
		query := &FoundryOutputsQuery{
			HasNativeTokens:     boolPtr(false),
			MinNativeTokenCount: uint32Ptr(1),
		}
		_, err := query.QueryValues()
		var queryErr InvalidQueryError
		require.ErrorAs(t, err, &queryErr)
		assert.Equal(t, "hasNativeTokens", queryErr.Parameter)
	})
	t.Run("native token bounds inverted", func(t *testing.T) {
		query := &BasicOutputsQuery{
			MinNativeTokenCount: uint32Ptr(5),
			MaxNativeTokenCount: uint32Ptr(2),
		}
		_, err := query.QueryValues()
		var queryErr InvalidQueryError
		require.ErrorAs(t, err, &queryErr)
		assert.Equal(t, "minNativeTokenCount", queryErr.Parameter)
	})
	t.Run("created window empty", func(t *testing.T) {
		query := &AliasOutputsQuery{
			CreatedBefore: 1000,
			CreatedAfter:  2000,
		}
		_, err := query.QueryValues()
		var queryErr InvalidQueryError
		require.ErrorAs(t, err, &queryErr)
		assert.Equal(t, "createdBefore", queryErr.Parameter)
	})
	t.Run("expiration window empty", func(t *testing.T) {
		query := &BasicOutputsQuery{
			ExpiresBefore: 500,
			ExpiresAfter:  500,
		}
		_, err := query.QueryValues()
		var queryErr InvalidQueryError
		require.ErrorAs(t, err, &queryErr)
		assert.Equal(t, "expiresBefore", queryErr.Parameter)
	})
}

func TestOutputsPagination(t *testing.T) {
	defer goleak.VerifyNone(t)
	page1 := []string{
		testOutputIDHex(0x11, 0),
		testOutputIDHex(0x11, 1),
	}
	page2 := []string{
		testOutputIDHex(0x22, 0),
	}
	var requestCount atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(
		"/api/indexer/v1/outputs/basic",
		func(w http.ResponseWriter, r *http.Request) {
			requestCount.Add(1)
			query := r.URL.Query()
			if query.Get("tag") != "0x68656c6c6f" {
				http.Error(w, "missing tag", http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			switch query.Get("cursor") {
			case "":
				cursor := "deadbeef"
				_ = json.NewEncoder(w).Encode(map[string]any{
					"ledgerIndex": 1234,
					"pageSize":    2,
					"cursor":      cursor,
					"items":       page1,
				})
			case "deadbeef":
				_ = json.NewEncoder(w).Encode(map[string]any{
					"ledgerIndex": 1234,
					"pageSize":    2,
					"items":       page2,
				})
			default:
				http.Error(w, "bad cursor", http.StatusBadRequest)
			}
		},
	)
	server := httptest.NewServer(mux)
	defer server.Close()

	indexer := New(&testRequester{server: server})
	result := indexer.Outputs(&BasicOutputsQuery{Tag: []byte("hello")})

	require.True(t, result.Next(context.Background()))
	require.Len(t, result.Page(), 2)
	assert.Equal(t, uint16(0), result.Page()[0].Index())
	assert.Equal(t, uint32(1234), result.LedgerIndex())
	assert.Equal(t, "deadbeef", result.Cursor())

	require.True(t, result.Next(context.Background()))
	require.Len(t, result.Page(), 1)
	assert.Empty(t, result.Cursor())

	assert.False(t, result.Next(context.Background()))
	require.NoError(t, result.Err())
	assert.Equal(t, int32(2), requestCount.Load())

	// An unchanged ledger yields the same pages again after a restart
	result.Restart()
	require.True(t, result.Next(context.Background()))
	require.Len(t, result.Page(), 2)
	assert.Equal(t, uint16(1), result.Page()[1].Index())
	require.True(t, result.Next(context.Background()))
	assert.False(t, result.Next(context.Background()))
	require.NoError(t, result.Err())
	assert.Equal(t, int32(4), requestCount.Load())
}

func TestOutputsInvalidQueryNoRequest(t *testing.T) {
	defer goleak.VerifyNone(t)
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		}),
	)
	defer server.Close()

	requester := &testRequester{server: server}
	indexer := New(requester)
	result := indexer.Outputs(&BasicOutputsQuery{PageSize: -1})

	assert.False(t, result.Next(context.Background()))
	var queryErr InvalidQueryError
	require.ErrorAs(t, result.Err(), &queryErr)
	assert.Equal(t, "pageSize", queryErr.Parameter)
	assert.Equal(t, int32(0), requester.requests.Load())
}

func TestOutputsRequestError(t *testing.T) {
	defer goleak.VerifyNone(t)
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}),
	)
	defer server.Close()

	indexer := New(&testRequester{server: server})
	result := indexer.Outputs(&BasicOutputsQuery{})
	assert.False(t, result.Next(context.Background()))
	require.Error(t, result.Err())
	// Errors are sticky
	assert.False(t, result.Next(context.Background()))
}

func TestSingletonLookups(t *testing.T) {
	defer goleak.VerifyNone(t)
	aliasID := tangle.AliasID{}
	copy(aliasID[:], bytes.Repeat([]byte{0x55}, 32))
	foundID := testOutputIDHex(0x33, 7)
	mux := http.NewServeMux()
	mux.HandleFunc(
		"/api/indexer/v1/outputs/alias/"+aliasID.String(),
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ledgerIndex": 42,
				"pageSize":    1,
				"items":       []string{foundID},
			})
		},
	)
	mux.HandleFunc(
		"/",
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ledgerIndex": 42,
				"pageSize":    1,
				"items":       []string{},
			})
		},
	)
	server := httptest.NewServer(mux)
	defer server.Close()

	indexer := New(&testRequester{server: server})

	outputID, err := indexer.AliasOutputID(context.Background(), aliasID)
	require.NoError(t, err)
	assert.Equal(t, foundID, outputID.String())
	assert.Equal(t, uint16(7), outputID.Index())

	_, err = indexer.NFTOutputID(context.Background(), tangle.NFTID{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = indexer.FoundryOutputID(
		context.Background(),
		tangle.FoundryID{},
	)
	assert.ErrorIs(t, err, ErrNotFound)
}
