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
	"strconv"
	"strings"
	"time"

	"github.com/blinklabs-io/gotangle"
	"github.com/blinklabs-io/gotangle/api"
	"github.com/blinklabs-io/gotangle/tangle"
)

type milestoneFlags struct {
	flagset     *flag.FlagSet
	utxoChanges bool
}

func newMilestoneFlags() *milestoneFlags {
	f := &milestoneFlags{
		flagset: flag.NewFlagSet("milestone", flag.ExitOnError),
	}
	f.flagset.BoolVar(
		&f.utxoChanges,
		"utxo-changes",
		false,
		"show the milestone's ledger changes instead of the milestone itself",
	)
	return f
}

func runMilestone(f *globalFlags) {
	milestoneFlags := newMilestoneFlags()
	err := milestoneFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if len(milestoneFlags.flagset.Args()) < 1 {
		fmt.Printf(
			"ERROR: you must specify a milestone index or milestone ID\n",
		)
		os.Exit(1)
	}
	arg := milestoneFlags.flagset.Arg(0)

	client := createClient(f)
	defer client.Close()
	ctx := context.Background()

	if milestoneFlags.utxoChanges {
		changes, err := fetchUtxoChanges(ctx, client, arg)
		if err != nil {
			fmt.Printf(
				"ERROR: failure querying UTXO changes: %s\n",
				err,
			)
			os.Exit(1)
		}
		fmt.Printf("index: %d\n", changes.Index)
		fmt.Printf("created outputs:\n")
		for _, outputID := range changes.CreatedOutputs {
			fmt.Printf("  %s\n", outputID)
		}
		fmt.Printf("consumed outputs:\n")
		for _, outputID := range changes.ConsumedOutputs {
			fmt.Printf("  %s\n", outputID)
		}
		return
	}

	milestone, err := fetchMilestone(ctx, client, arg)
	if err != nil {
		fmt.Printf("ERROR: failure querying milestone: %s\n", err)
		os.Exit(1)
	}
	milestoneID, err := milestone.ID()
	if err != nil {
		fmt.Printf("ERROR: failure hashing milestone: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("milestone: %s\n", milestoneID)
	fmt.Printf("index: %d\n", milestone.Index)
	fmt.Printf(
		"timestamp: %s\n",
		time.Unix(int64(milestone.Timestamp), 0).UTC(),
	)
	fmt.Printf("previous milestone: %s\n", milestone.PreviousMilestoneID)
	fmt.Printf("parents:\n")
	for _, parent := range milestone.Parents {
		fmt.Printf("  %s\n", parent)
	}
	fmt.Printf("signatures: %d\n", len(milestone.Signatures))
}

func fetchMilestone(
	ctx context.Context,
	client *gotangle.Client,
	arg string,
) (*tangle.MilestonePayload, error) {
	if strings.HasPrefix(arg, "0x") {
		milestoneID, err := tangle.MilestoneIDFromHex(arg)
		if err != nil {
			return nil, err
		}
		return client.GetMilestoneByID(ctx, milestoneID)
	}
	index, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return nil, err
	}
	return client.GetMilestoneByIndex(ctx, uint32(index))
}

func fetchUtxoChanges(
	ctx context.Context,
	client *gotangle.Client,
	arg string,
) (*api.UtxoChangesResponse, error) {
	if strings.HasPrefix(arg, "0x") {
		milestoneID, err := tangle.MilestoneIDFromHex(arg)
		if err != nil {
			return nil, err
		}
		return client.GetUtxoChangesByID(ctx, milestoneID)
	}
	index, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return nil, err
	}
	return client.GetUtxoChangesByIndex(ctx, uint32(index))
}
