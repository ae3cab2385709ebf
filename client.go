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

// Package gotangle implements a client for interacting with tangle nodes
// over their REST API.
//
// A Client manages a pool of nodes: it tracks each node's sync state
// through periodic health checks and transparently fails over between
// synced nodes when requests error. Message submission assembles
// incomplete messages, performing tip selection and local proof of work
// as needed.
//
// This package is the main entry point into this library. The tangle,
// pow, and indexer packages can be used outside of this one, but it's
// not a primary design goal.
package gotangle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/blinklabs-io/gotangle/api"
	"github.com/blinklabs-io/gotangle/indexer"
	"github.com/blinklabs-io/gotangle/pow"
	"github.com/jinzhu/copier"
	"go.uber.org/ratelimit"
)

// Default configuration values
const (
	DefaultRequestTimeout    = 30 * time.Second
	DefaultSyncCheckInterval = 60 * time.Second
	DefaultMaxRetries        = 3
)

// ClientState represents the lifecycle state of a Client
type ClientState int

const (
	ClientUnconfigured ClientState = iota
	ClientConfiguring
	ClientHealthy
	ClientDegraded
	ClientClosed
)

func (s ClientState) String() string {
	tmp := map[ClientState]string{
		ClientUnconfigured: "Unconfigured",
		ClientConfiguring:  "Configuring",
		ClientHealthy:      "Healthy",
		ClientDegraded:     "Degraded",
		ClientClosed:       "Closed",
	}
	ret, ok := tmp[s]
	if !ok {
		return "Invalid"
	}
	return ret
}

// ClientConfig is the resolved configuration of a Client
type ClientConfig struct {
	NodeURLs          []string
	SyncCheckEnabled  bool
	SyncCheckInterval time.Duration
	RequestTimeout    time.Duration
	MaxRetries        int
	RequestsPerSecond int
	LocalPowEnabled   bool
	PowWorkerCount    int
}

// The Client type provides access to a pool of tangle nodes over their
// REST API, failing over between synced nodes on errors
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	pool       *nodePool
	limiter    ratelimit.Limiter
	miner      *pow.Miner
	indexer    *indexer.Indexer

	state      ClientState
	stateMutex sync.Mutex

	infoMutex       sync.Mutex
	infoLoaded      bool
	bech32HRP       string
	minPowScore     float64
	protocolVersion uint8

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
	waitGroup      sync.WaitGroup
	onceClose      sync.Once
}

// NewClient returns a new Client object with the specified options. At
// least one node URL must be provided. When sync checking is enabled,
// an initial health round is performed before NewClient returns
func NewClient(options ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		config: ClientConfig{
			SyncCheckEnabled:  true,
			SyncCheckInterval: DefaultSyncCheckInterval,
			RequestTimeout:    DefaultRequestTimeout,
			MaxRetries:        DefaultMaxRetries,
			LocalPowEnabled:   true,
		},
		state: ClientUnconfigured,
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	c.setState(ClientConfiguring)
	if len(c.config.NodeURLs) == 0 {
		return nil, ErrNoNodesConfigured
	}
	for _, nodeURL := range c.config.NodeURLs {
		if err := validateNodeURL(nodeURL); err != nil {
			return nil, err
		}
	}
	// Snapshot the configuration so the client stays independent of
	// caller-held slices
	var snapshot ClientConfig
	err := copier.CopyWithOption(
		&snapshot,
		&c.config,
		copier.Option{DeepCopy: true},
	)
	if err != nil {
		return nil, err
	}
	c.config = snapshot
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.config.RequestsPerSecond > 0 {
		c.limiter = ratelimit.New(c.config.RequestsPerSecond)
	} else {
		c.limiter = ratelimit.NewUnlimited()
	}
	minerOptions := []pow.MinerOptionFunc{pow.WithLogger(c.logger)}
	if c.config.PowWorkerCount > 0 {
		minerOptions = append(
			minerOptions,
			pow.WithWorkerCount(c.config.PowWorkerCount),
		)
	}
	c.miner = pow.NewMiner(minerOptions...)
	c.pool = newNodePool(c.config.NodeURLs)
	c.indexer = indexer.New(c, indexer.WithLogger(c.logger))
	c.shutdownCtx, c.shutdownCancel = context.WithCancel(
		context.Background(),
	)
	if c.config.SyncCheckEnabled {
		c.checkNodeHealth(c.shutdownCtx)
		c.waitGroup.Add(1)
		go c.syncCheckLoop()
	} else {
		c.setState(ClientHealthy)
	}
	return c, nil
}

// Close shuts the client down: background health checking is stopped
// and waited for. Close is safe to call multiple times
func (c *Client) Close() error {
	c.onceClose.Do(func() {
		c.setState(ClientClosed)
		// Stop background work and wait for it to finish
		c.shutdownCancel()
		c.waitGroup.Wait()
		c.logger.Debug(
			"client closed",
			"component", "client",
		)
	})
	return nil
}

// State returns the current lifecycle state of the client
func (c *Client) State() ClientState {
	c.stateMutex.Lock()
	defer c.stateMutex.Unlock()
	return c.state
}

func (c *Client) setState(state ClientState) {
	c.stateMutex.Lock()
	defer c.stateMutex.Unlock()
	// Closed is terminal
	if c.state == ClientClosed {
		return
	}
	c.state = state
}

// Config returns a copy of the client configuration
func (c *Client) Config() ClientConfig {
	var cfg ClientConfig
	_ = copier.CopyWithOption(
		&cfg,
		&c.config,
		copier.Option{DeepCopy: true},
	)
	return cfg
}

// Indexer returns the indexer query layer backed by this client's node
// pool
func (c *Client) Indexer() *indexer.Indexer {
	return c.indexer
}

// NodeState returns the last observed sync state of the given node URL
func (c *Client) NodeState(nodeURL string) NodeState {
	return c.pool.state(nodeURL)
}

func validateNodeURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid node URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf(
			"invalid node URL %q: scheme must be http or https",
			rawURL,
		)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid node URL %q: missing host", rawURL)
	}
	return nil
}

func (c *Client) syncCheckLoop() {
	defer c.waitGroup.Done()
	ticker := time.NewTicker(c.config.SyncCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.shutdownCtx.Done():
			return
		case <-ticker.C:
			c.checkNodeHealth(c.shutdownCtx)
		}
	}
}

// checkNodeHealth probes every configured node and updates its sync
// state and the aggregate client state
func (c *Client) checkNodeHealth(ctx context.Context) {
	for _, nodeURL := range c.pool.nodeURLs() {
		state := NodeOutOfSync
		if c.probeNode(ctx, nodeURL) {
			state = NodeSynced
		}
		c.pool.setState(nodeURL, state)
		c.logger.Debug(
			"node health checked",
			"component", "client",
			"node_url", nodeURL,
			"node_state", state.String(),
		)
	}
	c.updateHealthState()
}

// probeNode reports whether the node answers the info endpoint and
// declares itself healthy
func (c *Client) probeNode(ctx context.Context, nodeURL string) bool {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(
		reqCtx,
		http.MethodGet,
		nodeURL+api.RouteInfo,
		nil,
	)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var info api.InfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return false
	}
	return info.Status.IsHealthy
}

func (c *Client) updateHealthState() {
	if c.State() == ClientClosed {
		return
	}
	if c.config.SyncCheckEnabled && c.pool.syncedCount() == 0 {
		c.setState(ClientDegraded)
	} else {
		c.setState(ClientHealthy)
	}
}
