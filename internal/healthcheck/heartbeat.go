// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package healthcheck pings an external dead-man's-switch monitor
// (healthchecks.io-compatible) so an operator is paged if the serve
// daemon's process dies silently.
package healthcheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var ErrStatus = errors.New("healthcheck: unexpected ping status code")

// Pinger sends periodic liveness pings to a single monitor URL.
type Pinger struct {
	client  *resty.Client
	pingURL string
}

// NewPinger returns a Pinger, or nil if pingURL is empty — callers treat a
// nil Pinger as "heartbeat disabled" rather than branching on a bool.
func NewPinger(pingURL string) *Pinger {
	if pingURL == "" {
		return nil
	}
	return &Pinger{client: resty.New(), pingURL: pingURL}
}

// Ping reports the daemon is alive. Start/Fail suffixes mirror
// healthchecks.io's convention for marking run boundaries explicitly.
func (p *Pinger) Ping(ctx context.Context) error {
	return p.ping(ctx, "")
}

// PingStart marks the beginning of a monitored run.
func (p *Pinger) PingStart(ctx context.Context) error {
	return p.ping(ctx, "/start")
}

// PingFail reports the monitored run failed.
func (p *Pinger) PingFail(ctx context.Context) error {
	return p.ping(ctx, "/fail")
}

func (p *Pinger) ping(ctx context.Context, suffix string) error {
	if p == nil {
		return nil
	}
	resp, err := p.client.R().SetContext(ctx).Get(p.pingURL + suffix)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}
	return nil
}
