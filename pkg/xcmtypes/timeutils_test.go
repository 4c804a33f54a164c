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
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type UTTimeTest struct {
	T1 *Timestamp `json:"t1"`
	T2 *Timestamp `json:"t2,omitempty"`
	T3 *Timestamp `json:"t3,omitempty"`
	T4 *Timestamp `json:"t4"`
	T5 *Timestamp `json:"t5,omitempty"`
	T6 *Timestamp `json:"t6,omitempty"`
	T7 *Timestamp `json:"t7,omitempty"`
}

func TestTimestampJSONSerialization(t *testing.T) {
	now := Now()
	zeroTime := ZeroTime()
	assert.True(t, time.Time(zeroTime).IsZero())
	t6 := UnixTime(1621103852123456789)
	t7 := UnixTime(1621103797)
	utTimeTest := &UTTimeTest{
		T1: nil,
		T2: nil,
		T3: &zeroTime,
		T4: &zeroTime,
		T5: now,
		T6: t6,
		T7: t7,
	}
	b, err := json.Marshal(&utTimeTest)
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(
		`{"t1":null,"t3":null,"t4":null,"t5":"%s","t6":"2021-05-15T18:37:32.123456789Z","t7":"2021-05-15T18:36:37Z"}`,
		time.Time(*now).UTC().Format(time.RFC3339Nano)), string(b))

	var utTimeTest2 UTTimeTest
	err = json.Unmarshal(b, &utTimeTest2)
	assert.NoError(t, err)
	assert.Nil(t, utTimeTest2.T1)
	assert.Nil(t, utTimeTest2.T2)
	assert.Equal(t, now.UnixNano(), utTimeTest2.T5.UnixNano())
	assert.Equal(t, t6.UnixNano(), utTimeTest2.T6.UnixNano())
	assert.Equal(t, t7.UnixNano(), utTimeTest2.T7.UnixNano())
}

func TestTimestampJSONUnmarshalFail(t *testing.T) {
	var utTimeTest UTTimeTest
	err := json.Unmarshal([]byte(`{"t1": "!Badness"}`), &utTimeTest)
	assert.Regexp(t, "XT10104", err)
}

func TestParseTimestampUnixResolutions(t *testing.T) {
	ts, err := ParseTimestamp("1621108144123456789")
	assert.NoError(t, err)
	assert.Equal(t, "2021-05-15T19:49:04.123456789Z", ts.String())

	ts, err = ParseTimestamp("1621108144123")
	assert.NoError(t, err)
	assert.Equal(t, "2021-05-15T19:49:04.123Z", ts.String())

	ts, err = ParseTimestamp("1621108144")
	assert.NoError(t, err)
	assert.Equal(t, "2021-05-15T19:49:04Z", ts.String())
}

func TestStringNilOrZero(t *testing.T) {
	var ts *Timestamp
	assert.Equal(t, "", ts.String())
	assert.Equal(t, int64(0), ts.UnixNano())
	zero := ZeroTime()
	ts = &zero
	assert.Equal(t, "", ts.String())
}
