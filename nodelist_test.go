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

package gotangle_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/blinklabs-io/gotangle"
)

type nodeListTestDefinition struct {
	jsonData       string
	expectedObject *gotangle.NodeListConfig
}

var nodeListTests = []nodeListTestDefinition{
	{
		jsonData: `
{
  "nodes": [
    {
      "url": "https://chrysalis-nodes.iota.org"
    },
    {
      "url": "https://chrysalis-nodes.iota.cafe"
    }
  ]
}
`,
		expectedObject: &gotangle.NodeListConfig{
			Nodes: []gotangle.NodeListConfigNode{
				{
					URL: "https://chrysalis-nodes.iota.org",
				},
				{
					URL: "https://chrysalis-nodes.iota.cafe",
				},
			},
		},
	},
	{
		jsonData: `
{
  "network": "shimmer",
  "requestsPerSecond": 5,
  "localPow": false
}
`,
		expectedObject: &gotangle.NodeListConfig{
			Network:           "shimmer",
			RequestsPerSecond: 5,
			LocalPow:          boolPtr(false),
		},
	},
}

func boolPtr(v bool) *bool {
	return &v
}

func TestParseNodeListConfig(t *testing.T) {
	for _, test := range nodeListTests {
		nodeList, err := gotangle.NewNodeListConfigFromReader(
			strings.NewReader(test.jsonData),
		)
		if err != nil {
			t.Fatalf("failed to load NodeListConfig from JSON data: %s", err)
		}
		if !reflect.DeepEqual(nodeList, test.expectedObject) {
			t.Fatalf(
				"did not get expected object\n  got:\n    %#v\n  wanted:\n    %#v",
				nodeList,
				test.expectedObject,
			)
		}
	}
}

func TestNodeListConfigNodeURLs(t *testing.T) {
	nodeList := &gotangle.NodeListConfig{
		Nodes: []gotangle.NodeListConfigNode{
			{URL: "https://chrysalis-nodes.iota.org"},
			{URL: "https://chrysalis-nodes.iota.cafe"},
		},
	}
	expected := []string{
		"https://chrysalis-nodes.iota.org",
		"https://chrysalis-nodes.iota.cafe",
	}
	if !reflect.DeepEqual(nodeList.NodeURLs(), expected) {
		t.Fatalf(
			"did not get expected node URLs\n  got:\n    %#v\n  wanted:\n    %#v",
			nodeList.NodeURLs(),
			expected,
		)
	}
}
