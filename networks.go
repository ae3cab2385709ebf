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

// Network definitions
var (
	NetworkMainnet = Network{
		Name:        "mainnet",
		NetworkName: "iota-mainnet",
		Bech32HRP:   "iota",
		MinPowScore: 1500,
		NodeURLs: []string{
			"https://chrysalis-nodes.iota.org",
			"https://chrysalis-nodes.iota.cafe",
		},
	}
	NetworkDevnet = Network{
		Name:        "devnet",
		NetworkName: "iota-devnet",
		Bech32HRP:   "atoi",
		MinPowScore: 2000,
		NodeURLs: []string{
			"https://api.lb-0.h.chrysalis-devnet.iota.cafe",
		},
	}
	NetworkShimmer = Network{
		Name:        "shimmer",
		NetworkName: "shimmer",
		Bech32HRP:   "smr",
		MinPowScore: 1500,
		NodeURLs: []string{
			"https://api.shimmer.network",
		},
	}
	NetworkShimmerTestnet = Network{
		Name:        "shimmer-testnet",
		NetworkName: "testnet",
		Bech32HRP:   "rms",
		MinPowScore: 1500,
		NodeURLs: []string{
			"https://api.testnet.shimmer.network",
		},
	}

	NetworkInvalid = Network{
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkMainnet,
	NetworkDevnet,
	NetworkShimmer,
	NetworkShimmerTestnet,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByHRP returns a predefined network by its Bech32 human-readable
// part
func NetworkByHRP(hrp string) Network {
	for _, network := range networks {
		if network.Bech32HRP == hrp {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents a named tangle network
type Network struct {
	Name        string
	NetworkName string // network name from the node's protocol parameters
	Bech32HRP   string
	MinPowScore float64
	NodeURLs    []string
}

func (n Network) String() string {
	return n.Name
}
