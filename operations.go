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

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/blinklabs-io/gotangle/api"
	"github.com/blinklabs-io/gotangle/pow"
	"github.com/blinklabs-io/gotangle/tangle"
)

// GetHealth reports whether the given node considers itself healthy. It
// queries the node directly and does not participate in failover
func (c *Client) GetHealth(
	ctx context.Context,
	nodeURL string,
) (bool, error) {
	if c.State() == ClientClosed {
		return false, ErrClientClosed
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(
		reqCtx,
		http.MethodGet,
		nodeURL+api.RouteHealth,
		nil,
	)
	if err != nil {
		return false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// GetNodeInfo returns general information about a node. The protocol
// parameters from the response are cached for use by other operations
func (c *Client) GetNodeInfo(ctx context.Context) (*api.InfoResponse, error) {
	var info api.InfoResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		api.RouteInfo,
		nil,
		&info,
	); err != nil {
		return nil, err
	}
	c.infoMutex.Lock()
	c.bech32HRP = info.Protocol.Bech32HRP
	c.minPowScore = info.Protocol.MinPowScore
	c.protocolVersion = info.Protocol.Version
	c.infoLoaded = true
	c.infoMutex.Unlock()
	return &info, nil
}

// ensureInfo loads the protocol parameters from a node if they haven't
// been cached yet
func (c *Client) ensureInfo(ctx context.Context) error {
	c.infoMutex.Lock()
	loaded := c.infoLoaded
	c.infoMutex.Unlock()
	if loaded {
		return nil
	}
	_, err := c.GetNodeInfo(ctx)
	return err
}

// Bech32HRP returns the Bech32 human-readable part of the network the
// nodes belong to
func (c *Client) Bech32HRP(ctx context.Context) (string, error) {
	if err := c.ensureInfo(ctx); err != nil {
		return "", err
	}
	c.infoMutex.Lock()
	defer c.infoMutex.Unlock()
	return c.bech32HRP, nil
}

// MinPowScore returns the minimum proof of work score the network
// requires for messages
func (c *Client) MinPowScore(ctx context.Context) (float64, error) {
	if err := c.ensureInfo(ctx); err != nil {
		return 0, err
	}
	c.infoMutex.Lock()
	defer c.infoMutex.Unlock()
	return c.minPowScore, nil
}

// ProtocolVersion returns the protocol version the network speaks
func (c *Client) ProtocolVersion(ctx context.Context) (uint8, error) {
	if err := c.ensureInfo(ctx); err != nil {
		return 0, err
	}
	c.infoMutex.Lock()
	defer c.infoMutex.Unlock()
	return c.protocolVersion, nil
}

// GetTips returns message IDs that are suitable parents for a new
// message
func (c *Client) GetTips(ctx context.Context) ([]tangle.MessageID, error) {
	var tips api.TipsResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		api.RouteTips,
		nil,
		&tips,
	); err != nil {
		return nil, err
	}
	return tips.TipMessageIDs, nil
}

// SubmitMessage completes the given message and submits it to a node.
// Empty parents are filled via tip selection, a zero protocol version
// is filled from the node's protocol parameters, and proof of work is
// performed locally when enabled. The node's reported message ID is
// verified against the locally computed one
func (c *Client) SubmitMessage(
	ctx context.Context,
	msg *tangle.Message,
) (*tangle.Message, error) {
	if msg == nil {
		return nil, errors.New("message must not be nil")
	}
	if err := c.ensureInfo(ctx); err != nil {
		return nil, err
	}
	c.infoMutex.Lock()
	protocolVersion := c.protocolVersion
	minPowScore := c.minPowScore
	c.infoMutex.Unlock()
	if msg.ProtocolVersion == 0 {
		msg.ProtocolVersion = protocolVersion
	}
	if len(msg.Parents) == 0 {
		tips, err := c.GetTips(ctx)
		if err != nil {
			return nil, err
		}
		msg.Parents = tips
	}
	msg.Parents = normalizeParents(msg.Parents)
	if c.config.LocalPowEnabled && minPowScore > 0 {
		msg.Nonce = 0
		encoded, err := msg.Serialize()
		if err != nil {
			return nil, err
		}
		nonce, err := c.miner.Mine(
			ctx,
			encoded[:len(encoded)-pow.NonceBytes],
			minPowScore,
		)
		if err != nil {
			return nil, err
		}
		msg.Nonce = nonce
	}
	encoded, err := msg.Serialize()
	if err != nil {
		return nil, err
	}
	body, err := c.doRequest(
		ctx,
		http.MethodPost,
		api.RouteMessages,
		api.MIMEVendorSerializer,
		encoded,
		false,
	)
	if err != nil {
		return nil, err
	}
	var resp api.SubmitMessageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedResponseError{
			Reason: "decoding JSON body",
			Err:    err,
		}
	}
	localID, err := msg.ID()
	if err != nil {
		return nil, err
	}
	if resp.MessageID != localID {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf(
				"node reported message ID %s but %s was computed locally",
				resp.MessageID,
				localID,
			),
		}
	}
	return msg, nil
}

// SubmitMessageRaw submits an already serialized message to a node and
// returns its message ID. The node's reported ID is verified against
// the locally computed one
func (c *Client) SubmitMessageRaw(
	ctx context.Context,
	data []byte,
) (tangle.MessageID, error) {
	msg, err := tangle.MessageFromBytes(data)
	if err != nil {
		return tangle.MessageID{}, err
	}
	localID, err := msg.ID()
	if err != nil {
		return tangle.MessageID{}, err
	}
	body, err := c.doRequest(
		ctx,
		http.MethodPost,
		api.RouteMessages,
		api.MIMEVendorSerializer,
		data,
		false,
	)
	if err != nil {
		return tangle.MessageID{}, err
	}
	var resp api.SubmitMessageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return tangle.MessageID{}, &MalformedResponseError{
			Reason: "decoding JSON body",
			Err:    err,
		}
	}
	if resp.MessageID != localID {
		return tangle.MessageID{}, &MalformedResponseError{
			Reason: fmt.Sprintf(
				"node reported message ID %s but %s was computed locally",
				resp.MessageID,
				localID,
			),
		}
	}
	return localID, nil
}

// normalizeParents returns the given parents in lexical order with
// duplicates removed, as required by the message wire format
func normalizeParents(parents []tangle.MessageID) []tangle.MessageID {
	sorted := make([]tangle.MessageID, len(parents))
	copy(sorted, parents)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})
	unique := make([]tangle.MessageID, 0, len(sorted))
	for i, parent := range sorted {
		if i > 0 && parent == sorted[i-1] {
			continue
		}
		unique = append(unique, parent)
	}
	if len(unique) > tangle.MaxParents {
		unique = unique[:tangle.MaxParents]
	}
	return unique
}

// GetMessage returns the message with the given ID. The returned
// message is verified to actually hash to the requested ID
func (c *Client) GetMessage(
	ctx context.Context,
	messageID tangle.MessageID,
) (*tangle.Message, error) {
	var msg tangle.Message
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteMessage, messageID.String()),
		nil,
		&msg,
	); err != nil {
		return nil, err
	}
	actualID, err := msg.ID()
	if err != nil {
		return nil, &MalformedResponseError{
			Reason: "serializing returned message",
			Err:    err,
		}
	}
	if actualID != messageID {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf(
				"requested message %s but received %s",
				messageID,
				actualID,
			),
		}
	}
	return &msg, nil
}

// GetMessageRaw returns the message with the given ID in its binary
// form. The returned bytes are verified to actually hash to the
// requested ID
func (c *Client) GetMessageRaw(
	ctx context.Context,
	messageID tangle.MessageID,
) ([]byte, error) {
	body, err := c.RequestBinary(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteMessageRaw, messageID.String()),
		nil,
	)
	if err != nil {
		return nil, err
	}
	msg, err := tangle.MessageFromBytes(body)
	if err != nil {
		return nil, &MalformedResponseError{
			Reason: "decoding binary message",
			Err:    err,
		}
	}
	actualID, err := msg.ID()
	if err != nil {
		return nil, &MalformedResponseError{
			Reason: "serializing returned message",
			Err:    err,
		}
	}
	if actualID != messageID {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf(
				"requested message %s but received %s",
				messageID,
				actualID,
			),
		}
	}
	return body, nil
}

// GetMessageMetadata returns the metadata of the message with the given
// ID
func (c *Client) GetMessageMetadata(
	ctx context.Context,
	messageID tangle.MessageID,
) (*api.MessageMetadataResponse, error) {
	var metadata api.MessageMetadataResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteMessageMetadata, messageID.String()),
		nil,
		&metadata,
	); err != nil {
		return nil, err
	}
	return &metadata, nil
}

// GetMessageChildren returns the IDs of messages that reference the
// message with the given ID as a parent
func (c *Client) GetMessageChildren(
	ctx context.Context,
	messageID tangle.MessageID,
) (*api.ChildrenResponse, error) {
	var children api.ChildrenResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteMessageChildren, messageID.String()),
		nil,
		&children,
	); err != nil {
		return nil, err
	}
	return &children, nil
}

// GetOutput returns the output with the given ID along with its
// metadata
func (c *Client) GetOutput(
	ctx context.Context,
	outputID tangle.OutputID,
) (*api.OutputResponse, error) {
	var output api.OutputResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteOutput, outputID.String()),
		nil,
		&output,
	); err != nil {
		return nil, err
	}
	return &output, nil
}

// GetReceipts returns all migration receipts known to the node
func (c *Client) GetReceipts(
	ctx context.Context,
) ([]*api.ReceiptTuple, error) {
	var receipts api.ReceiptsResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		api.RouteReceipts,
		nil,
		&receipts,
	); err != nil {
		return nil, err
	}
	return receipts.Receipts, nil
}

// GetReceiptsMigratedAt returns the migration receipts that migrated at
// the given legacy milestone index
func (c *Client) GetReceiptsMigratedAt(
	ctx context.Context,
	index uint32,
) ([]*api.ReceiptTuple, error) {
	var receipts api.ReceiptsResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteReceiptsMigratedAt, index),
		nil,
		&receipts,
	); err != nil {
		return nil, err
	}
	return receipts.Receipts, nil
}

// GetTreasury returns the current treasury output
func (c *Client) GetTreasury(
	ctx context.Context,
) (*api.TreasuryResponse, error) {
	var treasury api.TreasuryResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		api.RouteTreasury,
		nil,
		&treasury,
	); err != nil {
		return nil, err
	}
	return &treasury, nil
}

// GetIncludedMessage returns the message that carries the given
// transaction in the ledger. The returned message is verified to carry
// a transaction payload with the requested ID
func (c *Client) GetIncludedMessage(
	ctx context.Context,
	transactionID tangle.TransactionID,
) (*tangle.Message, error) {
	var msg tangle.Message
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		fmt.Sprintf(
			api.RouteTransactionIncludedMessage,
			transactionID.String(),
		),
		nil,
		&msg,
	); err != nil {
		return nil, err
	}
	txPayload, ok := msg.Payload.(*tangle.TransactionPayload)
	if !ok {
		return nil, &MalformedResponseError{
			Reason: "returned message carries no transaction payload",
		}
	}
	actualID, err := txPayload.ID()
	if err != nil {
		return nil, &MalformedResponseError{
			Reason: "serializing returned transaction",
			Err:    err,
		}
	}
	if actualID != transactionID {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf(
				"requested transaction %s but received %s",
				transactionID,
				actualID,
			),
		}
	}
	return &msg, nil
}

// GetMilestoneByID returns the milestone with the given ID. The
// returned milestone is verified to actually hash to the requested ID
func (c *Client) GetMilestoneByID(
	ctx context.Context,
	milestoneID tangle.MilestoneID,
) (*tangle.MilestonePayload, error) {
	var milestone tangle.MilestonePayload
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteMilestoneByID, milestoneID.String()),
		nil,
		&milestone,
	); err != nil {
		return nil, err
	}
	actualID, err := milestone.ID()
	if err != nil {
		return nil, &MalformedResponseError{
			Reason: "serializing returned milestone",
			Err:    err,
		}
	}
	if actualID != milestoneID {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf(
				"requested milestone %s but received %s",
				milestoneID,
				actualID,
			),
		}
	}
	return &milestone, nil
}

// GetMilestoneByIDRaw returns the milestone with the given ID in its
// binary form
func (c *Client) GetMilestoneByIDRaw(
	ctx context.Context,
	milestoneID tangle.MilestoneID,
) ([]byte, error) {
	body, err := c.RequestBinary(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteMilestoneByIDRaw, milestoneID.String()),
		nil,
	)
	if err != nil {
		return nil, err
	}
	if _, err := milestoneFromBytes(body, milestoneID); err != nil {
		return nil, err
	}
	return body, nil
}

// GetMilestoneByIndex returns the milestone at the given index. The
// returned milestone is verified to carry the requested index
func (c *Client) GetMilestoneByIndex(
	ctx context.Context,
	index uint32,
) (*tangle.MilestonePayload, error) {
	var milestone tangle.MilestonePayload
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteMilestoneByIndex, index),
		nil,
		&milestone,
	); err != nil {
		return nil, err
	}
	if milestone.Index != index {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf(
				"requested milestone index %d but received %d",
				index,
				milestone.Index,
			),
		}
	}
	return &milestone, nil
}

// GetMilestoneByIndexRaw returns the milestone at the given index in
// its binary form
func (c *Client) GetMilestoneByIndexRaw(
	ctx context.Context,
	index uint32,
) ([]byte, error) {
	body, err := c.RequestBinary(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteMilestoneByIndexRaw, index),
		nil,
	)
	if err != nil {
		return nil, err
	}
	milestone, err := payloadAsMilestone(body)
	if err != nil {
		return nil, err
	}
	if milestone.Index != index {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf(
				"requested milestone index %d but received %d",
				index,
				milestone.Index,
			),
		}
	}
	return body, nil
}

// milestoneFromBytes decodes a binary milestone payload and verifies it
// hashes to the expected ID
func milestoneFromBytes(
	data []byte,
	expectedID tangle.MilestoneID,
) (*tangle.MilestonePayload, error) {
	milestone, err := payloadAsMilestone(data)
	if err != nil {
		return nil, err
	}
	actualID, err := milestone.ID()
	if err != nil {
		return nil, &MalformedResponseError{
			Reason: "serializing returned milestone",
			Err:    err,
		}
	}
	if actualID != expectedID {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf(
				"requested milestone %s but received %s",
				expectedID,
				actualID,
			),
		}
	}
	return milestone, nil
}

func payloadAsMilestone(data []byte) (*tangle.MilestonePayload, error) {
	payload, err := tangle.PayloadFromBytes(data)
	if err != nil {
		return nil, &MalformedResponseError{
			Reason: "decoding binary milestone",
			Err:    err,
		}
	}
	milestone, ok := payload.(*tangle.MilestonePayload)
	if !ok {
		return nil, &MalformedResponseError{
			Reason: "returned payload is not a milestone",
		}
	}
	return milestone, nil
}

// GetUtxoChangesByID returns the outputs created and consumed by the
// milestone with the given ID
func (c *Client) GetUtxoChangesByID(
	ctx context.Context,
	milestoneID tangle.MilestoneID,
) (*api.UtxoChangesResponse, error) {
	var changes api.UtxoChangesResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteMilestoneByIDUtxoChanges, milestoneID.String()),
		nil,
		&changes,
	); err != nil {
		return nil, err
	}
	return &changes, nil
}

// GetUtxoChangesByIndex returns the outputs created and consumed by the
// milestone at the given index
func (c *Client) GetUtxoChangesByIndex(
	ctx context.Context,
	index uint32,
) (*api.UtxoChangesResponse, error) {
	var changes api.UtxoChangesResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		fmt.Sprintf(api.RouteMilestoneByIndexUtxoChanges, index),
		nil,
		&changes,
	); err != nil {
		return nil, err
	}
	return &changes, nil
}

// GetPeers returns the peers the node is connected to
func (c *Client) GetPeers(ctx context.Context) ([]*api.PeerResponse, error) {
	var peers []*api.PeerResponse
	if err := c.RequestJSON(
		ctx,
		http.MethodGet,
		api.RoutePeers,
		nil,
		&peers,
	); err != nil {
		return nil, err
	}
	return peers, nil
}
