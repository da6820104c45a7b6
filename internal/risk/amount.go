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

// Package risk computes the twelve-item financial risk rubric over
// persisted FinancialStatementRow data. Evaluate is a pure function of its
// rows argument: no I/O, no clock reads, no hidden state, so identical
// inputs always produce byte-identical output. Evaluator reads those rows
// through a StatementRowSource and takes the current time as a parameter.
package risk

import (
	"context"
	"fmt"
	"strings"

	"github.com/NSMM-v2/dart-service/internal/apperr"
	"github.com/NSMM-v2/dart-service/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// periodField selects which amount column an account lookup reads.
type periodField int

const (
	fieldCurrentPeriod periodField = iota
	fieldPriorPeriod
	fieldQuarterAccumCurrent
	fieldQuarterAccumPrior
)

func rawFieldValue(r domain.FinancialStatementRow, field periodField) string {
	switch field {
	case fieldCurrentPeriod:
		return r.CurrentPeriodAmount
	case fieldPriorPeriod:
		return r.PriorPeriodAmount
	case fieldQuarterAccumCurrent:
		return r.QuarterAccumCurrentAmount
	case fieldQuarterAccumPrior:
		return r.QuarterAccumPriorAmount
	}
	return ""
}

// lookupAmount finds the first row whose account name matches accountName
// exactly and parses its field value, per the amount-lookup contract: blank,
// null, and "-" mean absent, commas are stripped before parsing, and a parse
// failure degrades to absent rather than panicking or erroring out.
func lookupAmount(ctx context.Context, rows []domain.FinancialStatementRow, accountName string, field periodField) (decimal.Decimal, bool) {
	for _, r := range rows {
		if r.AccountName != accountName {
			continue
		}
		return parseAmount(ctx, rawFieldValue(r, field), accountName)
	}
	return decimal.Zero, false
}

func parseAmount(ctx context.Context, raw, accountName string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return decimal.Zero, false
	}
	cleaned := strings.ReplaceAll(raw, ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		wrapped := apperr.TransientParsing(fmt.Sprintf("parsing amount for account %s", accountName), err)
		zerolog.Ctx(ctx).Warn().Err(wrapped).Str("account_name", accountName).Str("raw", raw).
			Msg("risk: treating unparseable amount as absent")
		return decimal.Zero, false
	}
	return d, true
}

// formatPercent renders d as a two-decimal percentage, e.g. "-50.00%".
func formatPercent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// formatRatio renders d as a two-decimal bare number, e.g. "2.50".
func formatRatio(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatAmount renders d without thousands separators, e.g. "-100".
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(0)
}

const insufficientData = "데이터 부족"
