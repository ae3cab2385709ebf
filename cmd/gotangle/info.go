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

func runInfo(f *globalFlags) {
	client := createClient(f)
	defer client.Close()
	info, err := client.GetNodeInfo(context.Background())
	if err != nil {
		fmt.Printf("ERROR: failure querying node info: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("name: %s\n", info.Name)
	fmt.Printf("version: %s\n", info.Version)
	fmt.Printf("healthy: %t\n", info.Status.IsHealthy)
	fmt.Printf(
		"latest milestone: %d\n",
		info.Status.LatestMilestone.Index,
	)
	fmt.Printf(
		"confirmed milestone: %d\n",
		info.Status.ConfirmedMilestone.Index,
	)
	fmt.Printf("pruning index: %d\n", info.Status.PruningIndex)
	fmt.Printf("network name: %s\n", info.Protocol.NetworkName)
	fmt.Printf("bech32 HRP: %s\n", info.Protocol.Bech32HRP)
	fmt.Printf("protocol version: %d\n", info.Protocol.Version)
	fmt.Printf("min PoW score: %g\n", info.Protocol.MinPowScore)
	fmt.Printf("features: %s\n", strings.Join(info.Features, ", "))
	fmt.Printf("plugins: %s\n", strings.Join(info.Plugins, ", "))
}
