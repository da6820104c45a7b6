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
package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NSMM-v2/dart-service/internal/config"
	"github.com/NSMM-v2/dart-service/internal/edsclient"
	"github.com/NSMM-v2/dart-service/internal/eventbus"
	"github.com/NSMM-v2/dart-service/internal/healthcheck"
	"github.com/NSMM-v2/dart-service/internal/ingest"
	"github.com/NSMM-v2/dart-service/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const heartbeatInterval = 60 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ingestion coordinator as a daemon, consuming partner events",
	Long: `serve connects to the event bus and the database, then consumes the
partner-company-events topic forever, reconciling each event's company
profile, disclosures, and financial statements into storage. It runs until
interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := config.Load()

		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer pool.Close()
		stores := storage.NewStores(pool)

		bus, err := eventbus.Dial(cfg.NATSURL, cfg.TopicPartnerEvents, cfg.TopicPartnerRestored)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to event bus")
		}
		defer bus.Close()

		eds := edsclient.New(cfg)
		if cfg.IsMockMode() {
			log.Warn().Msg("serve: EDS API key is absent or the placeholder — running in offline mock mode")
		}

		coordinator := ingest.New(eds, stores.CompanyProfiles, stores.CorpCodeDirectory, stores.Disclosures, stores.Statements)

		pinger := healthcheck.NewPinger(cfg.HealthcheckPingURL)
		if pinger != nil {
			if err := pinger.PingStart(ctx); err != nil {
				log.Warn().Err(err).Msg("serve: healthcheck start ping failed")
			}
			go runHeartbeat(ctx, pinger)
		}

		sub, err := bus.Subscribe(ctx, cfg.TopicPartnerEvents, cfg.ConsumerGroupID, func(ctx context.Context, msg eventbus.Message) error {
			var evt eventbus.PartnerEvent
			if err := json.Unmarshal(msg.Payload, &evt); err != nil {
				log.Error().Err(err).Msg("serve: dropping unparseable partner event")
				return msg.Ack()
			}
			if err := coordinator.HandleEvent(ctx, evt); err != nil {
				log.Error().Err(err).Str("corp_code", evt.CorpCode).Msg("serve: event processing failed, acknowledging anyway")
			}
			return msg.Ack()
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not subscribe to partner events")
		}
		defer sub.Close()

		log.Info().Str("topic", cfg.TopicPartnerEvents).Str("group", cfg.ConsumerGroupID).Msg("serve: consuming partner events")
		<-ctx.Done()
		log.Info().Msg("serve: shutting down")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runHeartbeat pings the configured monitor until ctx is done, so an
// operator is paged if the process dies. The ticker runs independently of
// message handling, so a stalled subscription does not stop the pings.
func runHeartbeat(ctx context.Context, pinger *healthcheck.Pinger) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := pinger.Ping(ctx); err != nil {
				log.Warn().Err(err).Msg("serve: healthcheck ping failed")
			}
		}
	}
}
