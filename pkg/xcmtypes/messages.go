// Copyright © 2021 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
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

package xcmtypes

import "encoding/json"

// OutboundMessage is a send observed on a chain, already resolved into legs by the watcher
type OutboundMessage struct {
	Journey
	Waypoint *Waypoint `json:"waypoint"`
}

// InboundMessage is a receipt (execution) of a message observed on a chain
type InboundMessage struct {
	ChainID       ChainID         `json:"chainId"`
	MessageHash   string          `json:"messageHash"`
	MessageID     string          `json:"messageId,omitempty"`
	Outcome       Outcome         `json:"outcome"`
	Error         string          `json:"error,omitempty"`
	AssetsTrapped json.RawMessage `json:"assetsTrapped,omitempty"`
	AssetSwaps    json.RawMessage `json:"assetSwaps,omitempty"`
	BlockNumber   string          `json:"blockNumber"`
	BlockHash     string          `json:"blockHash"`
	Timestamp     int64           `json:"timestamp,omitempty"`
	Instructions  json.RawMessage `json:"instructions,omitempty"`
	MessageData   string          `json:"messageData,omitempty"`
}

// ToWaypoint builds the waypoint of this receipt at a leg of the journey
func (im *InboundMessage) ToWaypoint(legIndex int) *Waypoint {
	return &Waypoint{
		ChainID:       im.ChainID,
		BlockHash:     im.BlockHash,
		BlockNumber:   im.BlockNumber,
		Timestamp:     im.Timestamp,
		Outcome:       im.Outcome,
		Error:         im.Error,
		MessageHash:   im.MessageHash,
		MessageID:     im.MessageID,
		MessageData:   im.MessageData,
		Instructions:  im.Instructions,
		AssetsTrapped: im.AssetsTrapped,
		AssetSwaps:    im.AssetSwaps,
		LegIndex:      legIndex,
	}
}

// RelayedMessage is the confirmation, on a relay chain, that a message was routed between two chains
type RelayedMessage struct {
	InboundMessage
	Origin    ChainID `json:"origin"`
	Recipient ChainID `json:"recipient"`
}

// BridgeMessage carries the bridge specific metadata of one phase of a bridge handshake
type BridgeMessage struct {
	ChainID      ChainID         `json:"chainId"`
	BridgeName   string          `json:"bridgeName"`
	LaneID       string          `json:"laneId"`
	Nonce        string          `json:"nonce"`
	BlockHash    string          `json:"blockHash"`
	BlockNumber  string          `json:"blockNumber"`
	Timestamp    int64           `json:"timestamp,omitempty"`
	Outcome      Outcome         `json:"outcome,omitempty"`
	Error        string          `json:"error,omitempty"`
	Instructions json.RawMessage `json:"instructions,omitempty"`
	MessageHash  string          `json:"messageHash,omitempty"`
	MessageID    string          `json:"messageId,omitempty"`
	ForwardID    string          `json:"forwardId,omitempty"`
}

// Correlator is the id used to find the journey on the bridge hub: the forward id when
// present, else the message id, else the hash
func (bm *BridgeMessage) Correlator() string {
	switch {
	case bm.ForwardID != "":
		return bm.ForwardID
	case bm.MessageID != "":
		return bm.MessageID
	default:
		return bm.MessageHash
	}
}

func (bm *BridgeMessage) ToWaypoint(legIndex int) *Waypoint {
	return &Waypoint{
		ChainID:      bm.ChainID,
		BlockHash:    bm.BlockHash,
		BlockNumber:  bm.BlockNumber,
		Timestamp:    bm.Timestamp,
		Outcome:      bm.Outcome,
		Error:        bm.Error,
		MessageHash:  bm.MessageHash,
		MessageID:    bm.MessageID,
		Instructions: bm.Instructions,
		LegIndex:     legIndex,
	}
}

type BridgeAcceptedMessage struct {
	BridgeMessage
}

type BridgeDeliveredMessage struct {
	BridgeMessage
}

type BridgeInboundMessage struct {
	BridgeMessage
}

// SnowbridgeOutboundMessage is an origin event of an Ethereum-style bridge. The payload is not
// XCM, so only the bridge metadata and the journey plan are known at this point.
type SnowbridgeOutboundMessage struct {
	Journey
	Waypoint    *Waypoint       `json:"waypoint"`
	BridgeName  string          `json:"bridgeName,omitempty"`
	ChannelID   string          `json:"channelId"`
	Nonce       string          `json:"nonce"`
	Beneficiary string          `json:"beneficiary,omitempty"`
	Asset       json.RawMessage `json:"asset,omitempty"`
}

// MessageDataHint is raw queue content observed ahead of the send/receipt events that refer to it
type MessageDataHint struct {
	Hash    string `json:"hash"`
	RawData string `json:"rawData,omitempty"`
	TopicID string `json:"topicId,omitempty"`
}
