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
	"encoding/json"
	"io"
	"os"
)

// NodeListConfig represents a node list config file
type NodeListConfig struct {
	Network           string               `json:"network"`
	Nodes             []NodeListConfigNode `json:"nodes"`
	RequestsPerSecond int                  `json:"requestsPerSecond"`
	LocalPow          *bool                `json:"localPow"`
}

type NodeListConfigNode struct {
	URL string `json:"url"`
}

// NodeURLs returns the URLs of all listed nodes
func (n *NodeListConfig) NodeURLs() []string {
	var ret []string
	for _, node := range n.Nodes {
		ret = append(ret, node.URL)
	}
	return ret
}

// ClientOptions returns the client options described by the config. The
// named network's well-known nodes are used when no nodes are listed
// explicitly
func (n *NodeListConfig) ClientOptions() []ClientOptionFunc {
	var ret []ClientOptionFunc
	if len(n.Nodes) > 0 {
		ret = append(ret, WithNodes(n.NodeURLs()...))
	} else if n.Network != "" {
		ret = append(ret, WithNetwork(NetworkByName(n.Network)))
	}
	if n.RequestsPerSecond > 0 {
		ret = append(ret, WithRequestsPerSecond(n.RequestsPerSecond))
	}
	if n.LocalPow != nil {
		ret = append(ret, WithLocalPow(*n.LocalPow))
	}
	return ret
}

func NewNodeListConfigFromFile(path string) (*NodeListConfig, error) {
	dataFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dataFile.Close()
	return NewNodeListConfigFromReader(dataFile)
}

func NewNodeListConfigFromReader(r io.Reader) (*NodeListConfig, error) {
	n := &NodeListConfig{}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, err
	}
	return n, nil
}
