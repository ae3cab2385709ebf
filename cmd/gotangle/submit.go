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

	"github.com/blinklabs-io/gotangle/tangle"
)

type submitFlags struct {
	flagset *flag.FlagSet
	tag     string
	data    string
}

func newSubmitFlags() *submitFlags {
	f := &submitFlags{
		flagset: flag.NewFlagSet("submit", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.tag,
		"tag",
		"gotangle",
		"tag for the tagged data payload",
	)
	f.flagset.StringVar(
		&f.data,
		"data",
		"",
		"data for the tagged data payload",
	)
	return f
}

func runSubmit(f *globalFlags) {
	submitFlags := newSubmitFlags()
	err := submitFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}

	client := createClient(f)
	defer client.Close()
	msg := &tangle.Message{
		Payload: tangle.NewTaggedDataPayload(
			[]byte(submitFlags.tag),
			[]byte(submitFlags.data),
		),
	}
	submitted, err := client.SubmitMessage(context.Background(), msg)
	if err != nil {
		fmt.Printf("ERROR: failure submitting message: %s\n", err)
		os.Exit(1)
	}
	messageID, err := submitted.ID()
	if err != nil {
		fmt.Printf("ERROR: failure hashing message: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("message: %s\n", messageID)
	fmt.Printf("nonce: %d\n", submitted.Nonce)
	fmt.Printf("parents:\n")
	for _, parent := range submitted.Parents {
		fmt.Printf("  %s\n", parent)
	}
}
