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
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/gotangle/tangle"
)

type messageFlags struct {
	flagset  *flag.FlagSet
	metadata bool
	children bool
}

func newMessageFlags() *messageFlags {
	f := &messageFlags{
		flagset: flag.NewFlagSet("message", flag.ExitOnError),
	}
	f.flagset.BoolVar(
		&f.metadata,
		"metadata",
		false,
		"show message metadata instead of the message itself",
	)
	f.flagset.BoolVar(
		&f.children,
		"children",
		false,
		"show the message's children instead of the message itself",
	)
	return f
}

func runMessage(f *globalFlags) {
	messageFlags := newMessageFlags()
	err := messageFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if len(messageFlags.flagset.Args()) < 1 {
		fmt.Printf("ERROR: you must specify a message ID\n")
		os.Exit(1)
	}
	messageID, err := tangle.MessageIDFromHex(
		messageFlags.flagset.Arg(0),
	)
	if err != nil {
		fmt.Printf("ERROR: invalid message ID: %s\n", err)
		os.Exit(1)
	}

	client := createClient(f)
	defer client.Close()
	ctx := context.Background()

	switch {
	case messageFlags.metadata:
		metadata, err := client.GetMessageMetadata(ctx, messageID)
		if err != nil {
			fmt.Printf(
				"ERROR: failure querying message metadata: %s\n",
				err,
			)
			os.Exit(1)
		}
		fmt.Printf("message: %s\n", metadata.MessageID)
		fmt.Printf("solid: %t\n", metadata.IsSolid)
		if metadata.ReferencedByMilestoneIndex != nil {
			fmt.Printf(
				"referenced by milestone: %d\n",
				*metadata.ReferencedByMilestoneIndex,
			)
		}
		if metadata.LedgerInclusionState != nil {
			fmt.Printf(
				"ledger inclusion: %s\n",
				*metadata.LedgerInclusionState,
			)
		}
		if metadata.ShouldPromote != nil {
			fmt.Printf("should promote: %t\n", *metadata.ShouldPromote)
		}
		if metadata.ShouldReattach != nil {
			fmt.Printf(
				"should reattach: %t\n",
				*metadata.ShouldReattach,
			)
		}
	case messageFlags.children:
		children, err := client.GetMessageChildren(ctx, messageID)
		if err != nil {
			fmt.Printf(
				"ERROR: failure querying message children: %s\n",
				err,
			)
			os.Exit(1)
		}
		for _, child := range children.Children {
			fmt.Printf("%s\n", child)
		}
	default:
		msg, err := client.GetMessage(ctx, messageID)
		if err != nil {
			fmt.Printf("ERROR: failure querying message: %s\n", err)
			os.Exit(1)
		}
		encoded, err := json.MarshalIndent(msg, "", "  ")
		if err != nil {
			fmt.Printf("ERROR: failure encoding message: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", encoded)
	}
}
