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
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/gotangle"
)

type globalFlags struct {
	flagset *flag.FlagSet
	node    string
	network string
	config  string
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.node,
		"node",
		"",
		"node URL to connect to. this overrides the -network option",
	)
	f.flagset.StringVar(
		&f.network,
		"network",
		"mainnet",
		"specifies network whose well-known nodes to connect to",
	)
	f.flagset.StringVar(
		&f.config,
		"config",
		"",
		"path to a node list config file. this overrides the other node options",
	)
	return f
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}

	if len(f.flagset.Args()) > 0 {
		switch f.flagset.Arg(0) {
		case "info":
			runInfo(f)
		case "tips":
			runTips(f)
		case "message":
			runMessage(f)
		case "milestone":
			runMilestone(f)
		case "output":
			runOutput(f)
		case "outputs":
			runOutputs(f)
		case "peers":
			runPeers(f)
		case "submit":
			runSubmit(f)
		default:
			fmt.Printf("Unknown subcommand: %s\n", f.flagset.Arg(0))
			os.Exit(1)
		}
	} else {
		fmt.Printf(
			"You must specify a subcommand (info, tips, message, milestone, output, outputs, peers, or submit)\n",
		)
		os.Exit(1)
	}
}

func createClient(f *globalFlags) *gotangle.Client {
	var options []gotangle.ClientOptionFunc
	if f.config != "" {
		nodeList, err := gotangle.NewNodeListConfigFromFile(f.config)
		if err != nil {
			fmt.Printf("failed to load node list config: %s\n", err)
			os.Exit(1)
		}
		options = nodeList.ClientOptions()
	} else if f.node != "" {
		options = append(options, gotangle.WithNode(f.node))
	} else {
		network := gotangle.NetworkByName(f.network)
		if network.Name == gotangle.NetworkInvalid.Name {
			fmt.Printf("Invalid network specified: %s\n", f.network)
			os.Exit(1)
		}
		options = append(options, gotangle.WithNetwork(network))
	}
	// One-shot commands don't benefit from background health checking
	options = append(options, gotangle.WithSyncCheckDisabled())
	client, err := gotangle.NewClient(options...)
	if err != nil {
		fmt.Printf("failed to create client: %s\n", err)
		os.Exit(1)
	}
	return client
}
