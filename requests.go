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

package gotangle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blinklabs-io/gotangle/api"
	"github.com/jpillora/backoff"
)

var _ api.Requester = (*Client)(nil)

// RequestJSON performs a JSON request against the node pool, retrying
// across nodes on retryable errors, and decodes the response body into
// dest when dest is non-nil
func (c *Client) RequestJSON(
	ctx context.Context,
	method string,
	route string,
	reqBody any,
	dest any,
) error {
	var encoded []byte
	if reqBody != nil {
		var err error
		encoded, err = json.Marshal(reqBody)
		if err != nil {
			return err
		}
	}
	body, err := c.doRequest(
		ctx,
		method,
		route,
		api.MIMEApplicationJSON,
		encoded,
		false,
	)
	if err != nil {
		return err
	}
	if dest != nil {
		if err := json.Unmarshal(body, dest); err != nil {
			return &MalformedResponseError{
				Reason: "decoding JSON body",
				Err:    err,
			}
		}
	}
	return nil
}

// RequestBinary performs a binary request against the node pool,
// retrying across nodes on retryable errors, and returns the raw
// response body
func (c *Client) RequestBinary(
	ctx context.Context,
	method string,
	route string,
	reqBody []byte,
) ([]byte, error) {
	return c.doRequest(
		ctx,
		method,
		route,
		api.MIMEVendorSerializer,
		reqBody,
		true,
	)
}

// doRequest sends the request to a synced node, failing over to the
// next candidate with backoff until an attempt succeeds, a
// non-retryable error occurs, or MaxRetries attempts are exhausted
func (c *Client) doRequest(
	ctx context.Context,
	method string,
	route string,
	contentType string,
	reqBody []byte,
	acceptBinary bool,
) ([]byte, error) {
	if c.State() == ClientClosed {
		return nil, ErrClientClosed
	}
	candidates := c.pool.candidates(!c.config.SyncCheckEnabled)
	if candidates == nil {
		// No node passed its last health check. Probing owns the
		// recovery path, but a request may still succeed, so fall
		// back to the full pool
		candidates = c.pool.candidates(true)
	}
	if candidates == nil {
		return nil, ErrNoHealthyNode
	}
	retryWait := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    2 * time.Second,
		Jitter: true,
	}
	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryWait.Duration()):
			}
		}
		nodeURL := candidates[attempt%len(candidates)]
		c.limiter.Take()
		body, retryable, err := c.attemptRequest(
			ctx,
			nodeURL,
			method,
			route,
			contentType,
			reqBody,
			acceptBinary,
		)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
		c.pool.setState(nodeURL, NodeOutOfSync)
		c.logger.Debug(
			"request attempt failed",
			"component", "client",
			"method", method,
			"route", route,
			"node_url", nodeURL,
			"attempt", attempt+1,
			"error", err,
		)
	}
	return nil, fmt.Errorf("%w: %w", ErrNoHealthyNode, lastErr)
}

// attemptRequest performs a single request against a single node. The
// returned bool reports whether the failure is worth retrying against
// another node
func (c *Client) attemptRequest(
	ctx context.Context,
	nodeURL string,
	method string,
	route string,
	contentType string,
	reqBody []byte,
	acceptBinary bool,
) ([]byte, bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()
	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(
		reqCtx,
		method,
		nodeURL+route,
		bodyReader,
	)
	if err != nil {
		return nil, false, err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if acceptBinary {
		req.Header.Set("Accept", api.MIMEVendorSerializer)
	} else {
		req.Header.Set("Accept", api.MIMEApplicationJSON)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors are candidates for failover
		return nil, true, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return body, false, nil
	}
	apiErr := apiErrorFromResponse(resp.StatusCode, body)
	// Server-side errors may be node-specific, client errors are not
	retryable := resp.StatusCode >= 500
	return nil, retryable, apiErr
}

// apiErrorFromResponse builds an APIError from a non-2xx response,
// using the node's JSON error envelope when one is present
func apiErrorFromResponse(statusCode int, body []byte) *APIError {
	var envelope api.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil &&
		envelope.Error.Message != "" {
		return &APIError{
			StatusCode: statusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Code:       fmt.Sprintf("%d", statusCode),
		Message:    http.StatusText(statusCode),
	}
}
