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

package i18n

import "net/http"

//revive:disable
var (
	MsgConfigFailed            = xtm("XT10101", "Failed to read config")
	MsgJSONDecodeFailed        = xtm("XT10102", "Failed to decode input JSON", http.StatusBadRequest)
	MsgAPIServerStartFailed    = xtm("XT10103", "Unable to start listener on %s: %s")
	MsgTimeParseFail           = xtm("XT10104", "Cannot parse time as RFC3339, Unix, or UnixNano: '%s'", http.StatusBadRequest)
	MsgResponseMarshalError    = xtm("XT10105", "Failed to serialize response data")
	Msg404NotFound             = xtm("XT10106", "Not found", http.StatusNotFound)
	MsgContextCanceled         = xtm("XT10107", "Context cancelled")
	MsgUnknownStorePlugin      = xtm("XT10108", "Unknown keyed store plugin: %s")
	MsgDBInitFailed            = xtm("XT10109", "Database initialization failed")
	MsgDBMigrationFailed       = xtm("XT10110", "Database migration failed")
	MsgDBBeginFailed           = xtm("XT10111", "Database begin transaction failed")
	MsgDBCommitFailed          = xtm("XT10112", "Database commit failed")
	MsgDBQueryBuildFailed      = xtm("XT10113", "Database query builder failed")
	MsgDBQueryFailed           = xtm("XT10114", "Database query failed")
	MsgDBInsertFailed          = xtm("XT10115", "Database insert failed")
	MsgDBUpdateFailed          = xtm("XT10116", "Database update failed")
	MsgDBDeleteFailed          = xtm("XT10117", "Database delete failed")
	MsgDBReadErr               = xtm("XT10118", "Database resultset read error from table '%s'")
	MsgRedisFailed             = xtm("XT10119", "Redis operation '%s' failed")
	MsgEngineClosed            = xtm("XT10120", "Matching engine is closed", http.StatusServiceUnavailable)
	MsgFragmentDecodeFailed    = xtm("XT10121", "Failed to decode stored fragment in namespace '%s' key '%s'")
	MsgFragmentEncodeFailed    = xtm("XT10122", "Failed to encode fragment for namespace '%s'")
	MsgInvalidContentType      = xtm("XT10123", "Invalid content type", http.StatusUnsupportedMediaType)
	MsgInputValidationFailed   = xtm("XT10124", "Invalid input: %s", http.StatusBadRequest)
	MsgInvalidTTL              = xtm("XT10125", "Invalid ttl '%s'", http.StatusBadRequest)
	MsgWebhookFailed           = xtm("XT10126", "Webhook delivery to '%s' failed with status %d: %s")
	MsgWebhookRequestFailed    = xtm("XT10127", "Webhook request to '%s' failed: %s")
	MsgInvalidOutputOption     = xtm("XT10128", "invalid output option '%s'")
	MsgRequestTimeout          = xtm("XT10129", "The request with id '%s' timed out after %.2fms", http.StatusRequestTimeout)
	MsgJanitorTaskDecodeFailed = xtm("XT10130", "Failed to decode janitor task '%s'")
	MsgMissingScope            = xtm("XT10131", "A non-empty scope is required", http.StatusBadRequest)
	MsgSchemaLoadFailed        = xtm("XT10132", "Failed to load validation schema for '%s'")
	MsgJanitorNotBound         = xtm("XT10133", "Janitor started before a sweeper was bound")
	MsgConfigKeyFailed         = xtm("XT10134", "Failed to read config key '%s'")
	MsgNotifierPanic           = xtm("XT10135", "Notifier panicked: %v")
	MsgJanitorSweepFailed      = xtm("XT10136", "Sweep of expired %s entry '%s' failed")
)
