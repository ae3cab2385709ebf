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
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/gotangle/indexer"
)

type outputsFlags struct {
	flagset    *flag.FlagSet
	outputType string
	address    string
	sender     string
	tag        string
	pageSize   int
	maxPages   int
}

func newOutputsFlags() *outputsFlags {
	f := &outputsFlags{
		flagset: flag.NewFlagSet("outputs", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.outputType,
		"type",
		"basic",
		"output type to query (basic, alias, foundry, or nft)",
	)
	f.flagset.StringVar(
		&f.address,
		"address",
		"",
		"filter by unlock address (alias address for foundry outputs)",
	)
	f.flagset.StringVar(
		&f.sender,
		"sender",
		"",
		"filter by sender feature address",
	)
	f.flagset.StringVar(
		&f.tag,
		"tag",
		"",
		"filter by tag feature",
	)
	f.flagset.IntVar(
		&f.pageSize,
		"page-size",
		0,
		"number of output IDs per page",
	)
	f.flagset.IntVar(
		&f.maxPages,
		"max-pages",
		0,
		"stop after this many pages (0 for all)",
	)
	return f
}

func (f *outputsFlags) buildQuery() (indexer.OutputsQuery, error) {
	var tag []byte
	if f.tag != "" {
		tag = []byte(f.tag)
	}
	switch f.outputType {
	case "basic":
		return &indexer.BasicOutputsQuery{
			Address:  f.address,
			Sender:   f.sender,
			Tag:      tag,
			PageSize: f.pageSize,
		}, nil
	case "alias":
		return &indexer.AliasOutputsQuery{
			StateController: f.address,
			Sender:          f.sender,
			PageSize:        f.pageSize,
		}, nil
	case "foundry":
		return &indexer.FoundryOutputsQuery{
			AliasAddress: f.address,
			PageSize:     f.pageSize,
		}, nil
	case "nft":
		return &indexer.NFTOutputsQuery{
			Address:  f.address,
			Sender:   f.sender,
			Tag:      tag,
			PageSize: f.pageSize,
		}, nil
	default:
		return nil, fmt.Errorf("unknown output type: %s", f.outputType)
	}
}

func runOutputs(f *globalFlags) {
	outputsFlags := newOutputsFlags()
	err := outputsFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	query, err := outputsFlags.buildQuery()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	client := createClient(f)
	defer client.Close()
	result := client.Indexer().Outputs(query)
	pages := 0
	for result.Next(context.Background()) {
		for _, outputID := range result.Page() {
			fmt.Printf("%s\n", outputID)
		}
		pages++
		if outputsFlags.maxPages > 0 && pages >= outputsFlags.maxPages {
			break
		}
	}
	if err := result.Err(); err != nil {
		fmt.Printf("ERROR: failure querying outputs: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("ledger index: %d\n", result.LedgerIndex())
}
