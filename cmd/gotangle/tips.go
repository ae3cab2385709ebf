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
)

func runTips(f *globalFlags) {
	client := createClient(f)
	defer client.Close()
	tips, err := client.GetTips(context.Background())
	if err != nil {
		fmt.Printf("ERROR: failure querying tips: %s\n", err)
		os.Exit(1)
	}
	for _, tip := range tips {
		fmt.Printf("%s\n", tip)
	}
}
