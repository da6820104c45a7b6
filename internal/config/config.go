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
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Placeholder is the sentinel value DART's operators use in sample configs;
// when the configured key equals this (or is blank) the EDS client runs in
// offline mock mode.
const Placeholder = "YOUR_DART_API_KEY"

// Config holds every key this core reads. Values are sourced from a config
// file and environment variables via viper (AutomaticEnv); no command-line
// flag is bound to these keys.
type Config struct {
	EDSBaseURL      string
	EDSAPIKey       string
	EDSTimeout      time.Duration
	RateLimitPerSec float64

	NATSURL            string
	TopicPartnerEvents string
	TopicPartnerRestored string
	ConsumerGroupID    string

	DatabaseURL string

	HealthcheckPingURL string
}

// Load reads configuration from viper, applying the same defaults the
// teacher's initConfig establishes for its database/API settings.
func Load() Config {
	viper.SetDefault("eds.baseUrl", "https://opendart.fss.or.kr")
	viper.SetDefault("eds.apiKey", Placeholder)
	viper.SetDefault("eds.timeoutSeconds", 30)
	viper.SetDefault("eds.rateLimitPerSecond", 10.0)

	viper.SetDefault("nats.url", "nats://127.0.0.1:4222")
	viper.SetDefault("nats.topics.partnerEvents", "partner-company-events")
	viper.SetDefault("nats.topics.partnerRestored", "partner-company-restored")
	viper.SetDefault("nats.consumerGroup", "dart-service")

	viper.SetDefault("db.url", "postgres://localhost:5432/dart_service?sslmode=disable")

	viper.SetDefault("healthcheck.pingUrl", "")

	viper.AutomaticEnv()

	return Config{
		EDSBaseURL:           viper.GetString("eds.baseUrl"),
		EDSAPIKey:            viper.GetString("eds.apiKey"),
		EDSTimeout:           time.Duration(viper.GetInt("eds.timeoutSeconds")) * time.Second,
		RateLimitPerSec:      viper.GetFloat64("eds.rateLimitPerSecond"),
		NATSURL:              viper.GetString("nats.url"),
		TopicPartnerEvents:   viper.GetString("nats.topics.partnerEvents"),
		TopicPartnerRestored: viper.GetString("nats.topics.partnerRestored"),
		ConsumerGroupID:      viper.GetString("nats.consumerGroup"),
		DatabaseURL:          viper.GetString("db.url"),
		HealthcheckPingURL:   viper.GetString("healthcheck.pingUrl"),
	}
}

// IsMockMode reports whether the EDS API key is absent or the placeholder,
// per spec.md §4.1 — the offline development mode must be toggleable by
// config alone, not a build tag.
func (c Config) IsMockMode() bool {
	return c.EDSAPIKey == "" || c.EDSAPIKey == Placeholder
}
