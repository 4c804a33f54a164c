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
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/kaleido-io/xcmtracker/internal/i18n"
)

// Timestamp is serialized to JSON in RFC3339 nanosecond UTC time.
// It can be parsed from RFC3339, or unix timestamps (second, millisecond or nanosecond resolution)
type Timestamp time.Time

func Now() *Timestamp {
	t := Timestamp(time.Now().UTC())
	return &t
}

func ZeroTime() Timestamp {
	return Timestamp(time.Time{}.UTC())
}

func UnixTime(unixTime int64) *Timestamp {
	if unixTime < 1e10 {
		unixTime *= 1e3 // secs to millis
	}
	if unixTime < 1e15 {
		unixTime *= 1e6 // millis to nanos
	}
	t := Timestamp(time.Unix(0, unixTime).UTC())
	return &t
}

func ParseTimestamp(str string) (*Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		var unixTime int64
		unixTime, err = strconv.ParseInt(str, 10, 64)
		if err == nil {
			return UnixTime(unixTime), nil
		}
	}
	if err != nil {
		zero := ZeroTime()
		return &zero, i18n.NewError(context.Background(), i18n.MsgTimeParseFail, str)
	}
	ts := Timestamp(t.UTC())
	return &ts, nil
}

func (ts *Timestamp) MarshalJSON() ([]byte, error) {
	if ts == nil || time.Time(*ts).IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalText(b []byte) error {
	t, err := ParseTimestamp(string(b))
	if err != nil {
		return err
	}
	*ts = *t
	return nil
}

func (ts *Timestamp) UnixNano() int64 {
	if ts == nil {
		return 0
	}
	return time.Time(*ts).UnixNano()
}

func (ts *Timestamp) String() string {
	if ts == nil || time.Time(*ts).IsZero() {
		return ""
	}
	return time.Time(*ts).UTC().Format(time.RFC3339Nano)
}
