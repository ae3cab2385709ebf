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

package api

import (
	"encoding/json"
	"fmt"

	"github.com/blinklabs-io/gotangle/tangle"
)

// InfoResponse is the response of GET /api/v2/info
type InfoResponse struct {
	Name     string           `json:"name"`
	Version  string           `json:"version"`
	Status   StatusResponse   `json:"status"`
	Protocol ProtocolResponse `json:"protocol"`
	Features []string         `json:"features"`
	Plugins  []string         `json:"plugins"`
}

// StatusResponse is the node status within InfoResponse
type StatusResponse struct {
	IsHealthy          bool                  `json:"isHealthy"`
	LatestMilestone    MilestoneInfoResponse `json:"latestMilestone"`
	ConfirmedMilestone MilestoneInfoResponse `json:"confirmedMilestone"`
	PruningIndex       uint32                `json:"pruningIndex"`
}

// MilestoneInfoResponse is a milestone reference within the node status
type MilestoneInfoResponse struct {
	Index       uint32 `json:"index"`
	Timestamp   uint32 `json:"timestamp,omitempty"`
	MilestoneID string `json:"milestoneId,omitempty"`
}

// ProtocolResponse is the protocol parameter set within InfoResponse
type ProtocolResponse struct {
	Version       uint8                 `json:"version"`
	NetworkName   string                `json:"networkName"`
	Bech32HRP     string                `json:"bech32Hrp"`
	MinPowScore   float64               `json:"minPowScore"`
	BelowMaxDepth uint8                 `json:"belowMaxDepth"`
	RentStructure RentStructureResponse `json:"rentStructure"`
	TokenSupply   string                `json:"tokenSupply"`
}

// RentStructureResponse is the storage deposit parameter set within
// ProtocolResponse
type RentStructureResponse struct {
	VByteCost       uint32 `json:"vByteCost"`
	VByteFactorData uint8  `json:"vByteFactorData"`
	VByteFactorKey  uint8  `json:"vByteFactorKey"`
}

// TipsResponse is the response of GET /api/v2/tips
type TipsResponse struct {
	TipMessageIDs []tangle.MessageID `json:"tipMessageIds"`
}

// SubmitMessageResponse is the response of POST /api/v2/messages
type SubmitMessageResponse struct {
	MessageID tangle.MessageID `json:"messageId"`
}

// Ledger inclusion states reported in message metadata
const (
	LedgerInclusionNoTransaction = "noTransaction"
	LedgerInclusionIncluded      = "included"
	LedgerInclusionConflicting   = "conflicting"
)

// MessageMetadataResponse is the response of GET
// /api/v2/messages/{messageId}/metadata
type MessageMetadataResponse struct {
	MessageID                  tangle.MessageID   `json:"messageId"`
	Parents                    []tangle.MessageID `json:"parentMessageIds"`
	IsSolid                    bool               `json:"isSolid"`
	ReferencedByMilestoneIndex *uint32            `json:"referencedByMilestoneIndex,omitempty"`
	MilestoneIndex             *uint32            `json:"milestoneIndex,omitempty"`
	LedgerInclusionState       *string            `json:"ledgerInclusionState,omitempty"`
	ConflictReason             *uint8             `json:"conflictReason,omitempty"`
	ShouldPromote              *bool              `json:"shouldPromote,omitempty"`
	ShouldReattach             *bool              `json:"shouldReattach,omitempty"`
}

// ChildrenResponse is the response of GET
// /api/v2/messages/{messageId}/children
type ChildrenResponse struct {
	MessageID  tangle.MessageID   `json:"messageId"`
	MaxResults uint32             `json:"maxResults"`
	Count      uint32             `json:"count"`
	Children   []tangle.MessageID `json:"childrenMessageIds"`
}

// OutputMetadataResponse describes the ledger position of an output
// within OutputResponse
type OutputMetadataResponse struct {
	MessageID                tangle.MessageID     `json:"messageId"`
	TransactionID            tangle.TransactionID `json:"transactionId"`
	OutputIndex              uint16               `json:"outputIndex"`
	IsSpent                  bool                 `json:"isSpent"`
	MilestoneIndexSpent      uint32               `json:"milestoneIndexSpent,omitempty"`
	MilestoneTimestampSpent  uint32               `json:"milestoneTimestampSpent,omitempty"`
	TransactionIDSpent       string               `json:"transactionIdSpent,omitempty"`
	MilestoneIndexBooked     uint32               `json:"milestoneIndexBooked"`
	MilestoneTimestampBooked uint32               `json:"milestoneTimestampBooked"`
	LedgerIndex              uint32               `json:"ledgerIndex"`
}

// OutputResponse is the response of GET /api/v2/outputs/{outputId}
type OutputResponse struct {
	Metadata  OutputMetadataResponse `json:"metadata"`
	RawOutput json.RawMessage        `json:"output"`
}

// OutputID returns the ID of the output described by the response
func (r *OutputResponse) OutputID() tangle.OutputID {
	return tangle.NewOutputID(r.Metadata.TransactionID, r.Metadata.OutputIndex)
}

// Output deserializes the embedded output JSON
func (r *OutputResponse) Output() (tangle.Output, error) {
	if len(r.RawOutput) == 0 {
		return nil, fmt.Errorf("output response has no output")
	}
	return tangle.OutputFromJSON(r.RawOutput)
}

// ReceiptTuple pairs a receipt with the index of the milestone that
// contained it
type ReceiptTuple struct {
	RawReceipt     json.RawMessage `json:"receipt"`
	MilestoneIndex uint32          `json:"milestoneIndex"`
}

// Receipt deserializes the embedded receipt JSON
func (t *ReceiptTuple) Receipt() (*tangle.ReceiptMilestoneOption, error) {
	if len(t.RawReceipt) == 0 {
		return nil, fmt.Errorf("receipt tuple has no receipt")
	}
	receipt := &tangle.ReceiptMilestoneOption{}
	if err := json.Unmarshal(t.RawReceipt, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ReceiptsResponse is the response of GET /api/v2/receipts and GET
// /api/v2/receipts/{migratedAt}
type ReceiptsResponse struct {
	Receipts []*ReceiptTuple `json:"receipts"`
}

// TreasuryResponse is the response of GET /api/v2/treasury
type TreasuryResponse struct {
	MilestoneID string `json:"milestoneId"`
	Amount      string `json:"amount"`
}

// UtxoChangesResponse is the response of the milestone utxo-changes
// endpoints
type UtxoChangesResponse struct {
	Index           uint32            `json:"index"`
	CreatedOutputs  []tangle.OutputID `json:"createdOutputs"`
	ConsumedOutputs []tangle.OutputID `json:"consumedOutputs"`
}

// GossipHeartbeat is the most recent heartbeat received from a peer
type GossipHeartbeat struct {
	SolidMilestoneIndex  uint32 `json:"solidMilestoneIndex"`
	PrunedMilestoneIndex uint32 `json:"prunedMilestoneIndex"`
	LatestMilestoneIndex uint32 `json:"latestMilestoneIndex"`
	ConnectedPeers       uint32 `json:"connectedPeers"`
	SyncedPeers          uint32 `json:"syncedPeers"`
}

// GossipMetrics counts protocol messages exchanged with a peer
type GossipMetrics struct {
	NewMessages      uint32 `json:"newMessages"`
	KnownMessages    uint32 `json:"knownMessages"`
	ReceivedMessages uint32 `json:"receivedMessages"`
	ReceivedRequests uint32 `json:"receivedMessageRequests"`
	SentMessages     uint32 `json:"sentMessages"`
	SentRequests     uint32 `json:"sentMessageRequests"`
	DroppedPackets   uint32 `json:"droppedPackets"`
}

// GossipInfo is the gossip state of a connected peer
type GossipInfo struct {
	Heartbeat *GossipHeartbeat `json:"heartbeat,omitempty"`
	Metrics   GossipMetrics    `json:"metrics"`
}

// PeerResponse describes a single peer within the response of GET
// /api/v2/peers
type PeerResponse struct {
	ID             string      `json:"id"`
	MultiAddresses []string    `json:"multiAddresses"`
	Alias          string      `json:"alias,omitempty"`
	Relation       string      `json:"relation"`
	Connected      bool        `json:"connected"`
	Gossip         *GossipInfo `json:"gossip,omitempty"`
}

// OutputIDsResponse is a single page of an indexer query result. The
// cursor is absent on the final page
type OutputIDsResponse struct {
	LedgerIndex uint32   `json:"ledgerIndex"`
	PageSize    uint32   `json:"pageSize"`
	Cursor      *string  `json:"cursor,omitempty"`
	Items       []string `json:"items"`
}

// OutputIDs parses the page items into output IDs
func (r *OutputIDsResponse) OutputIDs() ([]tangle.OutputID, error) {
	if len(r.Items) == 0 {
		return nil, nil
	}
	ids := make([]tangle.OutputID, len(r.Items))
	for i, item := range r.Items {
		id, err := tangle.OutputIDFromHex(item)
		if err != nil {
			return nil, fmt.Errorf("invalid output ID at index %d: %w", i, err)
		}
		ids[i] = id
	}
	return ids, nil
}

// ErrorResponse is the error envelope returned by nodes for failed
// requests
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
