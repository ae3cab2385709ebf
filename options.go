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
	"log/slog"
	"net/http"
	"time"
)

// ClientOptionFunc is a type that represents functions that modify a Client
type ClientOptionFunc func(*Client)

// WithNode specifies a single node URL to use
func WithNode(nodeURL string) ClientOptionFunc {
	return func(c *Client) {
		c.config.NodeURLs = []string{nodeURL}
	}
}

// WithNodes specifies the node URLs to use. Nodes are expected to belong
// to the same network
func WithNodes(nodeURLs ...string) ClientOptionFunc {
	return func(c *Client) {
		c.config.NodeURLs = nodeURLs
	}
}

// WithNetwork specifies a named network whose well-known public nodes
// should be used
func WithNetwork(network Network) ClientOptionFunc {
	return func(c *Client) {
		c.config.NodeURLs = network.NodeURLs
	}
}

// WithSyncCheck specifies the interval between background node health
// checks
func WithSyncCheck(interval time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.config.SyncCheckEnabled = true
		c.config.SyncCheckInterval = interval
	}
}

// WithSyncCheckDisabled disables background node health checking. All
// configured nodes are treated as eligible for requests
func WithSyncCheckDisabled() ClientOptionFunc {
	return func(c *Client) {
		c.config.SyncCheckEnabled = false
	}
}

// WithRequestTimeout specifies the timeout for a single HTTP request
func WithRequestTimeout(timeout time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.config.RequestTimeout = timeout
	}
}

// WithMaxRetries specifies the maximum number of attempts for a request
// across all nodes
func WithMaxRetries(maxRetries int) ClientOptionFunc {
	return func(c *Client) {
		c.config.MaxRetries = maxRetries
	}
}

// WithRequestsPerSecond specifies a rate limit applied across all
// outgoing requests. A value of zero disables rate limiting
func WithRequestsPerSecond(rps int) ClientOptionFunc {
	return func(c *Client) {
		c.config.RequestsPerSecond = rps
	}
}

// WithLocalPow specifies whether proof of work for submitted messages is
// performed locally rather than delegated to the node
func WithLocalPow(enabled bool) ClientOptionFunc {
	return func(c *Client) {
		c.config.LocalPowEnabled = enabled
	}
}

// WithPowWorkerCount specifies the number of workers used for local
// proof of work
func WithPowWorkerCount(workerCount int) ClientOptionFunc {
	return func(c *Client) {
		c.config.PowWorkerCount = workerCount
	}
}

// WithHTTPClient specifies the HTTP client to use for requests
func WithHTTPClient(httpClient *http.Client) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger specifies the logger to use. Defaults to slog.Default()
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}
