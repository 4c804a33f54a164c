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

package apiserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/xeipuuv/gojsonschema"
)

// definitions shared by every schema. Watchers send numbers as strings, as block numbers can exceed 2^53.
const schemaDefinitions = `{
	"chainId": {"type": "string", "pattern": "^urn:ocn:[a-z0-9_-]+:[a-zA-Z0-9_-]+$"},
	"correlator": {"type": "string", "minLength": 1},
	"outcome": {"type": "string", "enum": ["Success", "Fail"]},
	"leg": {
		"type": "object",
		"required": ["from", "to", "type"],
		"properties": {
			"from": {"$ref": "#/definitions/chainId"},
			"to": {"$ref": "#/definitions/chainId"},
			"relay": {"$ref": "#/definitions/chainId"},
			"type": {"type": "string", "enum": ["hrmp", "vmp", "hop", "bridge"]}
		}
	},
	"waypoint": {
		"type": "object",
		"required": ["chainId"],
		"properties": {
			"chainId": {"$ref": "#/definitions/chainId"},
			"blockHash": {"type": "string"},
			"blockNumber": {"type": "string"},
			"timestamp": {"type": "integer"},
			"outcome": {"$ref": "#/definitions/outcome"},
			"messageHash": {"type": "string"},
			"messageId": {"type": "string"},
			"legIndex": {"type": "integer", "minimum": 0}
		}
	},
	"journey": {
		"required": ["legs", "origin", "destination"],
		"properties": {
			"legs": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/leg"}},
			"origin": {"$ref": "#/definitions/waypoint"},
			"destination": {
				"type": "object",
				"required": ["chainId"],
				"properties": {"chainId": {"$ref": "#/definitions/chainId"}}
			},
			"waypoint": {"$ref": "#/definitions/waypoint"},
			"messageId": {"type": "string"},
			"forwardId": {"type": "string"}
		}
	},
	"inbound": {
		"required": ["chainId", "messageHash", "outcome", "blockNumber", "blockHash"],
		"properties": {
			"chainId": {"$ref": "#/definitions/chainId"},
			"messageHash": {"$ref": "#/definitions/correlator"},
			"messageId": {"type": "string"},
			"outcome": {"$ref": "#/definitions/outcome"},
			"blockNumber": {"type": "string"},
			"blockHash": {"type": "string"},
			"timestamp": {"type": "integer"}
		}
	},
	"bridge": {
		"required": ["chainId", "bridgeName", "laneId", "nonce"],
		"properties": {
			"chainId": {"$ref": "#/definitions/chainId"},
			"bridgeName": {"type": "string", "minLength": 1},
			"laneId": {"$ref": "#/definitions/correlator"},
			"nonce": {"$ref": "#/definitions/correlator"},
			"outcome": {"$ref": "#/definitions/outcome"},
			"messageHash": {"type": "string"},
			"messageId": {"type": "string"},
			"forwardId": {"type": "string"}
		}
	}
}`

func schemaOf(body string) string {
	return fmt.Sprintf(`{"definitions": %s, "type": "object", %s}`, schemaDefinitions, body)
}

var (
	outboundSchema = schemaOf(`"allOf": [{"$ref": "#/definitions/journey"}]`)
	inboundSchema  = schemaOf(`"allOf": [{"$ref": "#/definitions/inbound"}]`)
	relayedSchema  = schemaOf(`"allOf": [{"$ref": "#/definitions/inbound"}, {
		"required": ["origin", "recipient"],
		"properties": {
			"origin": {"$ref": "#/definitions/chainId"},
			"recipient": {"$ref": "#/definitions/chainId"}
		}
	}]`)
	bridgeSchema     = schemaOf(`"allOf": [{"$ref": "#/definitions/bridge"}]`)
	snowbridgeSchema = schemaOf(`"allOf": [{"$ref": "#/definitions/journey"}, {
		"required": ["channelId", "nonce"],
		"properties": {
			"channelId": {"$ref": "#/definitions/correlator"},
			"nonce": {"$ref": "#/definitions/correlator"}
		}
	}]`)
	messageDataSchema = schemaOf(`
		"required": ["hash"],
		"properties": {
			"hash": {"$ref": "#/definitions/correlator"},
			"rawData": {"type": "string"},
			"topicId": {"type": "string"}
		}`)
)

// compileSchemas loads the schema of every route that has one, failing startup on a bad schema
func compileSchemas(ctx context.Context, routes []*Route) (map[string]*gojsonschema.Schema, error) {
	schemas := make(map[string]*gojsonschema.Schema)
	for _, route := range routes {
		if route.JSONInputSchema == "" {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(route.JSONInputSchema))
		if err != nil {
			return nil, i18n.WrapError(ctx, err, i18n.MsgSchemaLoadFailed, route.Name)
		}
		schemas[route.Name] = schema
	}
	return schemas, nil
}

// validateInput checks the body against the schema, reporting every violation in one error
func validateInput(ctx context.Context, schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return i18n.WrapError(ctx, err, i18n.MsgJSONDecodeFailed)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, re := range result.Errors() {
			errs[i] = re.String()
		}
		return i18n.NewError(ctx, i18n.MsgInputValidationFailed, strings.Join(errs, "; "))
	}
	return nil
}
