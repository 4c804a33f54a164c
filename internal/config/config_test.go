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

package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

const configDir = "../../test/config"

func TestInitConfigOK(t *testing.T) {
	viper.Reset()
	err := ReadConfig("")
	assert.Regexp(t, "Not Found", err.Error())
}

func TestDefaults(t *testing.T) {
	cwd, _ := os.Getwd()
	os.Chdir(configDir)
	defer os.Chdir(cwd)
	err := ReadConfig("")
	assert.NoError(t, err)

	assert.Equal(t, "info", GetString(LogLevel))
	assert.True(t, GetBool(LogColor))
	assert.Equal(t, uint(0), GetUint(HTTPPort))
	assert.Equal(t, int(0), GetInt(DebugPort))
	assert.Equal(t, "polkadot", GetString(MatchingScope))
	assert.Equal(t, 2*time.Hour, GetDuration(MatchingTTLHop))
	assert.Equal(t, 6*time.Hour, GetDuration(MatchingTTLOutbound))
	assert.Equal(t, int64(2*1024*1024), GetByteSize(HintsCacheSize))
	assert.Equal(t, float64(2.0), GetFloat64(JanitorRetryFactor))
	assert.Equal(t, []string{"*"}, GetStringSlice(CorsAllowedOrigins))
	webhook := NewPluginConfig("notify.webhook")
	webhook.AddKnownKey("headers")
	assert.Equal(t, map[string]interface{}{"x-api-key": "abcd"}, webhook.GetStringMap("headers"))
}

func TestSpecificConfigFileOk(t *testing.T) {
	err := ReadConfig(configDir + "/xcmtracker.yaml")
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", GetString(StoreType))
}

func TestSpecificConfigFileFail(t *testing.T) {
	err := ReadConfig(configDir + "/no.hope.yaml")
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("XCMTRACKER_MATCHING_SCOPE", "kusama")
	defer os.Unsetenv("XCMTRACKER_MATCHING_SCOPE")
	err := ReadConfig(configDir + "/xcmtracker.yaml")
	assert.NoError(t, err)
	assert.Equal(t, "kusama", GetString(MatchingScope))
}

func TestAttemptToAccessRandomKey(t *testing.T) {
	assert.Panics(t, func() {
		GetString("any.key")
	})
}

func TestBadByteSize(t *testing.T) {
	Reset()
	Set(HintsCacheSize, "lots")
	assert.Equal(t, int64(0), GetByteSize(HintsCacheSize))
}

func TestSetGetMap(t *testing.T) {
	Reset()
	Set(Store, map[string]interface{}{"some": "map"})
	assert.Equal(t, map[string]interface{}{"some": "map"}, GetStringMap(Store))
}

func TestSetGetRawInterace(t *testing.T) {
	type myType struct{ name string }
	Set(Store, &myType{name: "test"})
	v := Get(Store)
	assert.Equal(t, myType{name: "test"}, *(v.(*myType)))
}

func TestPluginConfig(t *testing.T) {
	pic := NewPluginConfig("my")
	pic.AddKnownKey("special.config", 12345)
	assert.Equal(t, 12345, pic.GetInt("special.config"))
	assert.Equal(t, int64(12345), pic.GetInt64("special.config"))
	assert.Equal(t, "my.special.config", pic.Resolve("special.config"))
}

func TestPluginConfigArrayInit(t *testing.T) {
	pic := NewPluginConfig("my").SubPrefix("special")
	pic.AddKnownKey("config", "val1", "val2", "val3")
	assert.Equal(t, []string{"val1", "val2", "val3"}, pic.GetStringSlice("config"))
}

func TestUnmarshalKey(t *testing.T) {
	Reset()
	pic := NewPluginConfig("unmarshal")
	pic.AddKnownKey("section")
	pic.Set("section", map[string]interface{}{"name": "abc"})
	var out struct {
		Name string `json:"name"`
	}
	err := pic.UnmarshalKey(context.Background(), "section", &out)
	assert.NoError(t, err)
	assert.Equal(t, "abc", out.Name)

	pic.Set("section", "not a map")
	err = pic.UnmarshalKey(context.Background(), "section", &out)
	assert.Regexp(t, "XT10134", err)
}

func TestGetKnownKeys(t *testing.T) {
	knownKeys := GetKnownKeys()
	assert.NotEmpty(t, knownKeys)
	for _, k := range knownKeys {
		assert.NotEmpty(t, root.Resolve(k))
	}
}
