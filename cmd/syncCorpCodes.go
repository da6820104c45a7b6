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

	"github.com/NSMM-v2/dart-service/internal/config"
	"github.com/NSMM-v2/dart-service/internal/edsclient"
	"github.com/NSMM-v2/dart-service/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// syncCorpCodesCmd represents the sync-corpcodes command
var syncCorpCodesCmd = &cobra.Command{
	Use:   "sync-corpcodes",
	Short: "Download the EDS corp-code archive and replace the local directory",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := config.Load()

		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer pool.Close()
		stores := storage.NewStores(pool)

		eds := edsclient.New(cfg)
		archive, err := eds.FetchCorpCodeArchive(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not download corp-code archive")
		}
		defer archive.Close()

		entries, err := edsclient.ParseCorpCodeArchive(archive)
		if err != nil {
			log.Fatal().Err(err).Msg("could not parse corp-code archive")
		}

		if err := stores.CorpCodeDirectory.ReplaceAll(ctx, entries); err != nil {
			log.Fatal().Err(err).Msg("could not replace corp-code directory")
		}

		log.Info().Int("count", len(entries)).Msg("sync-corpcodes: directory replaced")
	},
}

func init() {
	rootCmd.AddCommand(syncCorpCodesCmd)
}
