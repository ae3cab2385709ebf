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
	"testing"

	"github.com/blinklabs-io/gotangle"
	"github.com/stretchr/testify/assert"
)

func TestNetworkByName(t *testing.T) {
	assert.Equal(
		t,
		gotangle.NetworkMainnet,
		gotangle.NetworkByName("mainnet"),
	)
	assert.Equal(
		t,
		gotangle.NetworkShimmerTestnet,
		gotangle.NetworkByName("shimmer-testnet"),
	)
	assert.Equal(
		t,
		gotangle.NetworkInvalid,
		gotangle.NetworkByName("bogus"),
	)
}

func TestNetworkByHRP(t *testing.T) {
	assert.Equal(
		t,
		gotangle.NetworkShimmer,
		gotangle.NetworkByHRP("smr"),
	)
	assert.Equal(
		t,
		gotangle.NetworkDevnet,
		gotangle.NetworkByHRP("atoi"),
	)
	assert.Equal(
		t,
		gotangle.NetworkInvalid,
		gotangle.NetworkByHRP("xyz"),
	)
}

func TestNetworkString(t *testing.T) {
	assert.Equal(t, "mainnet", gotangle.NetworkMainnet.String())
}
