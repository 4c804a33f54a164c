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

package retry

import (
	"context"
	"time"

	"github.com/kaleido-io/xcmtracker/internal/config"
	"github.com/kaleido-io/xcmtracker/internal/i18n"
	"github.com/kaleido-io/xcmtracker/internal/log"
)

const (
	DefaultFactor = 2.0
)

// Retry is a concurrency safe backoff configuration
type Retry struct {
	InitialDelay time.Duration
	MaximumDelay time.Duration
	Factor       float64
	// MaxAttempts of zero retries until the context is done
	MaxAttempts int
}

// NewFromConfig builds the retry used by the janitor for store I/O
func NewFromConfig() *Retry {
	return &Retry{
		InitialDelay: config.GetDuration(config.JanitorRetryInitDelay),
		MaximumDelay: config.GetDuration(config.JanitorRetryMaxDelay),
		Factor:       config.GetFloat64(config.JanitorRetryFactor),
	}
}

// Do invokes the function until it returns retry=false, the attempts are used up, or the
// context is done. Errors are only returned from the final attempt.
func (r *Retry) Do(ctx context.Context, action string, f func(attempt int) (retry bool, err error)) error {
	attempt := 0
	delay := r.InitialDelay
	factor := r.Factor
	if factor < 1 { // Can't reduce
		factor = DefaultFactor
	}
	for {
		attempt++
		retry, err := f(attempt)
		if !retry || (r.MaxAttempts > 0 && attempt >= r.MaxAttempts) {
			return err
		}
		log.L(ctx).Debugf("%s attempt %d failed: %v", action, attempt, err)

		select {
		case <-ctx.Done():
			return i18n.NewError(ctx, i18n.MsgContextCanceled)
		default:
		}

		// Limit the delay based on the context deadline and maximum delay
		if delay > r.MaximumDelay {
			delay = r.MaximumDelay
		}
		if deadline, ok := ctx.Deadline(); ok {
			if timeleft := time.Until(deadline); timeleft < delay {
				delay = timeleft
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return i18n.NewError(ctx, i18n.MsgContextCanceled)
		}
		delay = time.Duration(float64(delay) * factor)
	}
}
