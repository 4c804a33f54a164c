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

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ChainID is a network-qualified chain identifier, such as urn:ocn:polkadot:1000
type ChainID string

type LegType string

const (
	LegTypeHRMP   LegType = "hrmp"
	LegTypeVMP    LegType = "vmp"
	LegTypeHop    LegType = "hop"
	LegTypeBridge LegType = "bridge"
)

// Leg is one edge of the planned path of a journey. Legs are computed upstream, and only read here.
type Leg struct {
	From  ChainID `json:"from"`
	To    ChainID `json:"to"`
	Relay ChainID `json:"relay,omitempty"`
	Type  LegType `json:"type"`
}

type Outcome string

const (
	OutcomeSuccess Outcome = "Success"
	OutcomeFail    Outcome = "Fail"
)

// Waypoint is the context of a journey observed at one block of one chain
type Waypoint struct {
	ChainID       ChainID         `json:"chainId"`
	BlockHash     string          `json:"blockHash,omitempty"`
	BlockNumber   string          `json:"blockNumber,omitempty"`
	Timestamp     int64           `json:"timestamp,omitempty"`
	Outcome       Outcome         `json:"outcome,omitempty"`
	Error         string          `json:"error,omitempty"`
	MessageHash   string          `json:"messageHash,omitempty"`
	MessageID     string          `json:"messageId,omitempty"`
	MessageData   string          `json:"messageData,omitempty"`
	Instructions  json.RawMessage `json:"instructions,omitempty"`
	AssetsTrapped json.RawMessage `json:"assetsTrapped,omitempty"`
	AssetSwaps    json.RawMessage `json:"assetSwaps,omitempty"`
	LegIndex      int             `json:"legIndex"`
}

// Terminus is the destination of a journey. Until it is observed only the chain is known.
type Terminus struct {
	ChainID  ChainID   `json:"chainId"`
	Waypoint *Waypoint `json:"waypoint,omitempty"`
}

func (t *Terminus) Observed() bool {
	return t != nil && t.Waypoint != nil
}

// Journey is the context shared by every event of a single cross-chain message delivery
type Journey struct {
	Legs        []*Leg          `json:"legs"`
	Origin      *Waypoint       `json:"origin"`
	Destination *Terminus       `json:"destination"`
	Sender      json.RawMessage `json:"sender,omitempty"`
	MessageID   string          `json:"messageId,omitempty"`
	ForwardID   string          `json:"forwardId,omitempty"`
}

// LegIndexTo returns the index of the first leg arriving at the chain, or -1
func (j *Journey) LegIndexTo(chainID ChainID) int {
	for i, leg := range j.Legs {
		if leg.To == chainID {
			return i
		}
	}
	return -1
}

// LegIndexFrom returns the index of the first leg leaving the chain, or -1
func (j *Journey) LegIndexFrom(chainID ChainID) int {
	for i, leg := range j.Legs {
		if leg.From == chainID {
			return i
		}
	}
	return -1
}

// FinalStop is the chain the last leg arrives at, falling back to the destination
func (j *Journey) FinalStop() ChainID {
	if len(j.Legs) > 0 {
		return j.Legs[len(j.Legs)-1].To
	}
	if j.Destination != nil {
		return j.Destination.ChainID
	}
	return ""
}

type JourneyEventType string

const (
	JourneyEventTypeSent     JourneyEventType = "sent"
	JourneyEventTypeReceived JourneyEventType = "received"
	JourneyEventTypeRelayed  JourneyEventType = "relayed"
	JourneyEventTypeHop      JourneyEventType = "hop"
	JourneyEventTypeBridge   JourneyEventType = "bridge"
	JourneyEventTypeTimeout  JourneyEventType = "timeout"
)

// IsTerminal is true for the two states that end a journey
func (jt JourneyEventType) IsTerminal() bool {
	return jt == JourneyEventTypeReceived || jt == JourneyEventTypeTimeout
}

type HopDirection string

const (
	HopDirectionIn  HopDirection = "in"
	HopDirectionOut HopDirection = "out"
)

type BridgeStatus string

const (
	BridgeStatusAccepted  BridgeStatus = "accepted"
	BridgeStatusDelivered BridgeStatus = "delivered"
	BridgeStatusReceived  BridgeStatus = "received"
)

type BridgeInfo struct {
	Status      BridgeStatus    `json:"status"`
	BridgeName  string          `json:"bridgeName"`
	Nonce       string          `json:"nonce"`
	ChannelID   string          `json:"channelId,omitempty"`
	Beneficiary string          `json:"beneficiary,omitempty"`
	Asset       json.RawMessage `json:"asset,omitempty"`
}

// JourneyEvent is the notification emitted for every verified transition of a journey
type JourneyEvent struct {
	ID      *uuid.UUID       `json:"id"`
	Type    JourneyEventType `json:"type"`
	Scope   string           `json:"scope"`
	Created *Timestamp       `json:"created"`
	Journey
	Waypoint  *Waypoint    `json:"waypoint"`
	Direction HopDirection `json:"direction,omitempty"`
	Bridge    *BridgeInfo  `json:"bridge,omitempty"`
}

func NewJourneyEvent(t JourneyEventType, scope string, journey *Journey, waypoint *Waypoint) *JourneyEvent {
	return &JourneyEvent{
		ID:       NewUUID(),
		Type:     t,
		Scope:    scope,
		Created:  Now(),
		Journey:  *journey,
		Waypoint: waypoint,
	}
}
