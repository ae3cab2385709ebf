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
	"errors"
	"fmt"
	"net/http"
)

// ErrNoNodesConfigured is returned by NewClient when no node URL was
// provided
var ErrNoNodesConfigured = errors.New(
	"at least one node URL must be configured",
)

// ErrClientClosed is returned for operations invoked after Close
var ErrClientClosed = errors.New("client is closed")

// ErrNoHealthyNode is returned when a request could not be served by
// any configured node. It wraps the error of the last attempt
var ErrNoHealthyNode = errors.New("no healthy node available")

// ErrNotFound indicates the node does not know the requested object
var ErrNotFound = errors.New("not found")

// APIError is an error response from a node, carrying the decoded
// error envelope. Client errors (4xx) are not retried
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e APIError) Error() string {
	return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
}

func (e APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// MalformedResponseError indicates a response body that could not be
// decoded, or that failed a consistency check against the request
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %s", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed response: %s", e.Reason)
}

func (e MalformedResponseError) Unwrap() error {
	return e.Err
}
