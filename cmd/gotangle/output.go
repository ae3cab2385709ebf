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
	"encoding/json"
	"fmt"
	"os"

	"github.com/blinklabs-io/gotangle/tangle"
)

func runOutput(f *globalFlags) {
	if len(f.flagset.Args()) < 2 {
		fmt.Printf("ERROR: you must specify an output ID\n")
		os.Exit(1)
	}
	outputID, err := tangle.OutputIDFromHex(f.flagset.Arg(1))
	if err != nil {
		fmt.Printf("ERROR: invalid output ID: %s\n", err)
		os.Exit(1)
	}

	client := createClient(f)
	defer client.Close()
	resp, err := client.GetOutput(context.Background(), outputID)
	if err != nil {
		fmt.Printf("ERROR: failure querying output: %s\n", err)
		os.Exit(1)
	}
	output, err := resp.Output()
	if err != nil {
		fmt.Printf("ERROR: failure decoding output: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("output: %s\n", resp.OutputID())
	fmt.Printf("message: %s\n", resp.Metadata.MessageID)
	fmt.Printf("deposit: %d\n", output.Deposit())
	fmt.Printf("spent: %t\n", resp.Metadata.IsSpent)
	if resp.Metadata.IsSpent {
		fmt.Printf(
			"spent in milestone: %d\n",
			resp.Metadata.MilestoneIndexSpent,
		)
	}
	fmt.Printf(
		"booked in milestone: %d\n",
		resp.Metadata.MilestoneIndexBooked,
	)
	fmt.Printf("ledger index: %d\n", resp.Metadata.LedgerIndex)
	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("ERROR: failure encoding output: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s\n", encoded)
}
