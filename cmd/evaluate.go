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
	"fmt"
	"os"
	"time"

	"github.com/NSMM-v2/dart-service/internal/config"
	"github.com/NSMM-v2/dart-service/internal/domain"
	"github.com/NSMM-v2/dart-service/internal/risk"
	"github.com/NSMM-v2/dart-service/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	evaluateYear   string
	evaluateReport string
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <corp_code>",
	Short: "Run the twelve-item risk assessment for a corp code",
	Long: `evaluate prints the twelve-item financial risk assessment for one
corp code, read from the financial statement rows already persisted. With
neither --year nor --report given it picks the period automatically from
today's date, per the month-range table.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		corpCode := args[0]
		cfg := config.Load()

		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer pool.Close()
		stores := storage.NewStores(pool)

		evaluator := risk.New(stores.Statements)

		var assessment risk.Assessment
		if evaluateYear == "" && evaluateReport == "" {
			assessment, err = evaluator.AssessAutomatic(ctx, corpCode, time.Now())
		} else {
			assessment, err = evaluator.AssessManual(ctx, corpCode, evaluateYear, domain.ReportCode(evaluateReport))
		}
		if err != nil {
			log.Fatal().Err(err).Msg("could not evaluate risk")
		}

		out, err := json.MarshalIndent(assessment, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal assessment")
		}
		fmt.Fprintln(os.Stdout, string(out))
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evaluateYear, "year", "", "business year (YYYY); requires --report")
	evaluateCmd.Flags().StringVar(&evaluateReport, "report", "", "report code (11011, 11012, 11013, 11014); requires --year")
}
