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

// Package edsclient is a typed, rate-limited client for the four DART Open
// API endpoints this core consumes: the corp-code archive, the company
// profile lookup, the disclosure search, and the single-company financial
// statement fetch. Modeled on the teacher's provider/tiingo.go and
// provider/fred.go: one shared resty.Client, one shared *rate.Limiter, a
// per-call context timeout.
package edsclient

import (
	"context"
	"fmt"

	"github.com/NSMM-v2/dart-service/internal/config"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	pathCorpCodeArchive = "/api/corpCode.xml"
	pathCompanyProfile  = "/api/company.json"
	pathDisclosureList  = "/api/list.json"
	pathFinancialStatement = "/api/fnlttSinglAcntAll.json"

	statusOK = "000"

	disclosurePageSize = 100
)

// Client is safe for concurrent use; the rate limiter is shared across every
// call the process makes, per spec.md §5.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	mock    bool
}

// New builds a Client from the resolved configuration. When the API key is
// absent or equals the placeholder, the client runs in offline mock mode:
// getCompanyProfile returns deterministic canned data and every other call
// fails with ErrExternalSource, since there's nothing to fetch without a
// real key.
func New(cfg config.Config) *Client {
	return &Client{
		http:    resty.New().SetTimeout(cfg.EDSTimeout),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), 1),
		baseURL: cfg.EDSBaseURL,
		apiKey:  cfg.EDSAPIKey,
		mock:    cfg.IsMockMode(),
	}
}

// maskKey redacts the API key the way every log line referencing it must,
// per spec.md §4.1.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-2:]
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}
