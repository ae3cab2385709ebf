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

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
)

func runPeers(f *globalFlags) {
	client := createClient(f)
	defer client.Close()
	peers, err := client.GetPeers(context.Background())
	if err != nil {
		fmt.Printf("ERROR: failure querying peers: %s\n", err)
		os.Exit(1)
	}
	for _, peer := range peers {
		fmt.Printf("id: %s\n", peer.ID)
		if peer.Alias != "" {
			fmt.Printf("  alias: %s\n", peer.Alias)
		}
		fmt.Printf("  relation: %s\n", peer.Relation)
		fmt.Printf("  connected: %t\n", peer.Connected)
		fmt.Printf(
			"  addresses: %s\n",
			strings.Join(peer.MultiAddresses, ", "),
		)
		if peer.Gossip != nil && peer.Gossip.Heartbeat != nil {
			fmt.Printf(
				"  solid milestone: %d\n",
				peer.Gossip.Heartbeat.SolidMilestoneIndex,
			)
			fmt.Printf(
				"  latest milestone: %d\n",
				peer.Gossip.Heartbeat.LatestMilestoneIndex,
			)
		}
	}
}
