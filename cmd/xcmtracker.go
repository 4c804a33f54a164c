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
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghodss/yaml"
	"github.com/gorilla/mux"
	"github.com/kaleido-io/xcmtracker/internal/apiserver"
	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/internal/log"
	"github.com/kaleido-io/xcmtracker/internal/orchestrator"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var sigs = make(chan os.Signal, 1)

var cfgFile string

var _utOrchestrator orchestrator.Orchestrator

var rootCmd = &cobra.Command{
	Use:   "xcmtracker",
	Short: "Cross-chain message journey tracker",
	Long: `Correlates the send, relay, hop, bridge and receipt events of cross-chain messages
reported by chain watchers, and notifies each verified step of every journey`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var showConfigCommand = &cobra.Command{
	Use:     "showconfig",
	Aliases: []string{"showconf"},
	Short:   "List out the configuration options",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Errors reading the file still leave the defaults to print
		_ = readConfig()
		known := make(map[string]interface{})
		for _, k := range config.GetKnownKeys() {
			known[k] = config.Get(config.RootKey(k))
		}
		b, err := yaml.Marshal(known)
		if err != nil {
			return err
		}
		fmt.Print(string(b))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "f", "", "config file")
	rootCmd.AddCommand(showConfigCommand)
}

func getOrchestrator() orchestrator.Orchestrator {
	if _utOrchestrator != nil {
		return _utOrchestrator
	}
	return orchestrator.NewOrchestrator()
}

// Execute is called by the main method of the package
func Execute() error {
	return rootCmd.Execute()
}

func readConfig() error {
	err := config.ReadConfig(cfgFile)
	orchestrator.InitConfig()
	return err
}

func setupLogging() {
	log.SetLevel(config.GetString(config.LogLevel))
	log.SetFormatting(log.Formatting{
		DisableColor:    !config.GetBool(config.LogColor),
		TimestampFormat: config.GetString(config.LogTimeFormat),
		UTC:             config.GetBool(config.LogUTC),
	})
}

func run() error {

	// Read the configuration
	err := readConfig()

	// Setup logging after reading config (even if failed), to output header correctly
	rootCtx, cancelRootCtx := context.WithCancel(context.Background())
	defer cancelRootCtx()
	rootCtx = log.WithLogger(rootCtx, logrus.WithField("pid", fmt.Sprintf("%d", os.Getpid())))
	setupLogging()
	log.L(rootCtx).Infof("XCM Tracker")
	log.L(rootCtx).Infof("© Copyright 2021 Kaleido, Inc.")

	// Deferred error return from reading config
	if err != nil {
		return i18n.WrapError(rootCtx, err, i18n.MsgConfigFailed)
	}

	// Setup signal handling to cancel the context, which shuts down the API Server
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	runCtx, cancelRunCtx := context.WithCancel(rootCtx)
	defer cancelRunCtx()
	o := getOrchestrator()
	as := apiserver.NewAPIServer()
	errChan := make(chan error, 1)
	trackerDone := make(chan struct{})
	go startTracker(runCtx, cancelRootCtx, o, as, errChan, trackerDone)

	select {
	case sig := <-sigs:
		log.L(rootCtx).Infof("Shutting down due to %s", sig.String())
		err = nil
	case <-rootCtx.Done():
		log.L(rootCtx).Infof("Shutting down due to cancelled context")
		err = nil
	case err = <-errChan:
		log.L(rootCtx).Errorf("Shutting down due to error: %s", err)
	}

	// Stop the API first, then the janitor, engine and store
	cancelRunCtx()
	<-trackerDone
	o.WaitStop()
	return err
}

func startTracker(ctx context.Context, cancelCtx context.CancelFunc, o orchestrator.Orchestrator, as apiserver.Server, errChan chan error, trackerDone chan struct{}) {
	var debugServer *http.Server
	debugPort := config.GetInt(config.DebugPort)
	if debugPort > 0 {
		r := mux.NewRouter()
		r.PathPrefix("/debug/pprof/cmdline").HandlerFunc(pprof.Cmdline)
		r.PathPrefix("/debug/pprof/profile").HandlerFunc(pprof.Profile)
		r.PathPrefix("/debug/pprof/symbol").HandlerFunc(pprof.Symbol)
		r.PathPrefix("/debug/pprof/trace").HandlerFunc(pprof.Trace)
		r.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
		debugServer = &http.Server{Addr: fmt.Sprintf("localhost:%d", debugPort), Handler: r, ReadHeaderTimeout: 30 * time.Second}
		go func() {
			_ = debugServer.ListenAndServe()
		}()
		log.L(ctx).Debugf("Debug HTTP endpoint listening on localhost:%d", debugPort)
	}

	defer func() {
		if debugServer != nil {
			_ = debugServer.Close()
		}
		close(trackerDone)
	}()

	if err := o.Init(ctx, cancelCtx); err != nil {
		errChan <- err
		return
	}
	if err := o.Start(); err != nil {
		errChan <- err
		return
	}
	if err := as.Serve(ctx, o); err != nil {
		errChan <- err
	}
}
