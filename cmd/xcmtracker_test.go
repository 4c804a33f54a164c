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

package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/kaleido-io/xcmtracker/mocks/orchestratormocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const configFile = "../test/config/xcmtracker.yaml"

func withOrchestrator(o *orchestratormocks.Orchestrator) func() {
	_utOrchestrator = o
	return func() {
		_utOrchestrator = nil
		cfgFile = ""
		rootCmd.SetArgs([]string{})
	}
}

func TestGetOrchestrator(t *testing.T) {
	assert.NotNil(t, getOrchestrator())
}

func TestExecMissingConfig(t *testing.T) {
	defer withOrchestrator(&orchestratormocks.Orchestrator{})()
	rootCmd.SetArgs([]string{})
	err := Execute()
	assert.Regexp(t, "XT10101.*Not Found", err)
}

func TestShowConfig(t *testing.T) {
	defer withOrchestrator(&orchestratormocks.Orchestrator{})()
	rootCmd.SetArgs([]string{"showconf", "-f", configFile})
	err := rootCmd.Execute()
	assert.NoError(t, err)
}

func TestExecInitFail(t *testing.T) {
	o := &orchestratormocks.Orchestrator{}
	o.On("Init", mock.Anything, mock.Anything).Return(fmt.Errorf("splutter"))
	o.On("WaitStop").Return()
	defer withOrchestrator(o)()
	rootCmd.SetArgs([]string{"-f", configFile})
	err := Execute()
	assert.Regexp(t, "splutter", err)
	o.AssertExpectations(t)
}

func TestExecStartFail(t *testing.T) {
	o := &orchestratormocks.Orchestrator{}
	o.On("Init", mock.Anything, mock.Anything).Return(nil)
	o.On("Start").Return(fmt.Errorf("bang"))
	o.On("WaitStop").Return()
	defer withOrchestrator(o)()
	rootCmd.SetArgs([]string{"-f", configFile})
	err := Execute()
	assert.Regexp(t, "bang", err)
	o.AssertExpectations(t)
}

func TestExecServeFail(t *testing.T) {
	os.Setenv("XCMTRACKER_HTTP_ADDRESS", "...://bad")
	defer os.Unsetenv("XCMTRACKER_HTTP_ADDRESS")
	o := &orchestratormocks.Orchestrator{}
	o.On("Init", mock.Anything, mock.Anything).Return(nil)
	o.On("Start").Return(nil)
	o.On("EventStream").Return(nil)
	o.On("WaitStop").Return()
	defer withOrchestrator(o)()
	rootCmd.SetArgs([]string{"-f", configFile})
	err := Execute()
	assert.Regexp(t, "XT10103", err)
}

func TestExecOkExitSIGINT(t *testing.T) {
	o := &orchestratormocks.Orchestrator{}
	o.On("Init", mock.Anything, mock.Anything).Return(nil)
	o.On("Start").Return(nil)
	o.On("EventStream").Return(nil)
	o.On("WaitStop").Return()
	defer withOrchestrator(o)()
	rootCmd.SetArgs([]string{"-f", configFile})
	go func() {
		sigs <- syscall.SIGINT
	}()
	err := Execute()
	assert.NoError(t, err)
	o.AssertExpectations(t)
}

func TestExecOkCancelledContext(t *testing.T) {
	o := &orchestratormocks.Orchestrator{}
	o.On("Init", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(context.CancelFunc)()
		}).
		Return(nil)
	o.On("Start").Return(nil)
	o.On("EventStream").Return(nil)
	o.On("WaitStop").Return()
	defer withOrchestrator(o)()
	rootCmd.SetArgs([]string{"-f", configFile})
	err := Execute()
	assert.NoError(t, err)
	o.AssertCalled(t, "WaitStop")
}
