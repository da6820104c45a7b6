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
	"github.com/NSMM-v2/dart-service/internal/config"
	"github.com/NSMM-v2/dart-service/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		log.Info().Str("DatabaseURL", cfg.DatabaseURL).Msg("applying migrations")
		if err := storage.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("error running database migration")
		}
		log.Info().Msg("database schema is up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
