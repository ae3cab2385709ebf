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

package gotangle

import "sync"

// NodeState represents the last observed sync state of a configured
// node
type NodeState int

const (
	NodeUnknown NodeState = iota
	NodeSynced
	NodeOutOfSync
)

func (s NodeState) String() string {
	tmp := map[NodeState]string{
		NodeUnknown:   "Unknown",
		NodeSynced:    "Synced",
		NodeOutOfSync: "OutOfSync",
	}
	ret, ok := tmp[s]
	if !ok {
		return "Invalid"
	}
	return ret
}

// nodePool tracks the sync state of the configured nodes and hands out
// request candidates in round-robin order
type nodePool struct {
	mutex  sync.Mutex
	urls   []string
	states map[string]NodeState
	next   int
}

func newNodePool(urls []string) *nodePool {
	states := make(map[string]NodeState, len(urls))
	for _, url := range urls {
		states[url] = NodeUnknown
	}
	return &nodePool{
		urls:   urls,
		states: states,
	}
}

func (p *nodePool) setState(url string, state NodeState) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if _, ok := p.states[url]; !ok {
		return
	}
	p.states[url] = state
}

func (p *nodePool) state(url string) NodeState {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.states[url]
}

func (p *nodePool) nodeURLs() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	ret := make([]string, len(p.urls))
	copy(ret, p.urls)
	return ret
}

func (p *nodePool) syncedCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	count := 0
	for _, state := range p.states {
		if state == NodeSynced {
			count++
		}
	}
	return count
}

// candidates returns the nodes eligible for the next request, rotated
// so consecutive requests spread across the pool. With ignoreState set
// every configured node is eligible, otherwise only synced ones
func (p *nodePool) candidates(ignoreState bool) []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	eligible := make([]string, 0, len(p.urls))
	for _, url := range p.urls {
		if ignoreState || p.states[url] == NodeSynced {
			eligible = append(eligible, url)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	offset := p.next % len(eligible)
	p.next++
	rotated := make([]string, 0, len(eligible))
	rotated = append(rotated, eligible[offset:]...)
	rotated = append(rotated, eligible[:offset]...)
	return rotated
}
