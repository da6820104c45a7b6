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
package storage

import (
	"context"
	"fmt"

	"github.com/NSMM-v2/dart-service/internal/domain"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const statementColumns = `corp_code, business_year, report_code, statement_division, account_id,
	account_name, current_period_label, current_period_amount, prior_period_label,
	prior_period_amount, quarter_accum_current_amount, quarter_accum_prior_amount,
	two_periods_prior_label, two_periods_prior_amount, currency`

// StatementStore persists FinancialStatementRow rows, never deleting
// existing ones (spec.md §4.4 step 3, §8).
type StatementStore struct {
	pool *pgxpool.Pool
}

// FindByCorpAndYearAndReport returns every row stored for one filing tuple.
func (s *StatementStore) FindByCorpAndYearAndReport(ctx context.Context, tuple domain.StatementTuple) ([]domain.FinancialStatementRow, error) {
	var rows []domain.FinancialStatementRow
	err := pgxscan.Select(ctx, s.pool, &rows,
		"SELECT "+statementColumns+` FROM financial_statement_rows
		 WHERE corp_code = $1 AND business_year = $2 AND report_code = $3`,
		tuple.CorpCode, tuple.BusinessYear, tuple.ReportCode)
	if err != nil {
		return nil, fmt.Errorf("finding statement rows for %+v: %w", tuple, err)
	}
	return rows, nil
}

// BulkInsert inserts rows that don't already exist for their
// (account_id, statement_division) key within the tuple implied by the
// first row's (corp_code, business_year, report_code). Existing rows are
// never touched or deleted, and a second call with the same payload inserts
// zero new rows (spec.md §8 round-trip property).
func (s *StatementStore) BulkInsert(ctx context.Context, rows []domain.FinancialStatementRow) (inserted int, err error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tuple := domain.StatementTuple{
		CorpCode:     rows[0].CorpCode,
		BusinessYear: rows[0].BusinessYear,
		ReportCode:   rows[0].ReportCode,
	}

	existing, err := s.FindByCorpAndYearAndReport(ctx, tuple)
	if err != nil {
		return 0, err
	}

	existingKeys := make(map[domain.StatementRowKey]struct{}, len(existing))
	for _, r := range existing {
		existingKeys[r.Key()] = struct{}{}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning statement insert transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range rows {
		if _, seen := existingKeys[r.Key()]; seen {
			continue
		}
		_, err := tx.Exec(ctx,
			"INSERT INTO financial_statement_rows ("+statementColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			r.CorpCode, r.BusinessYear, r.ReportCode, r.StatementDivision, r.AccountID,
			r.AccountName, r.CurrentPeriodLabel, r.CurrentPeriodAmount, r.PriorPeriodLabel,
			r.PriorPeriodAmount, r.QuarterAccumCurrentAmount, r.QuarterAccumPriorAmount,
			r.TwoPeriodsPriorLabel, r.TwoPeriodsPriorAmount, r.Currency,
		)
		if err != nil {
			return inserted, fmt.Errorf("inserting statement row %s/%s: %w", r.AccountID, r.StatementDivision, err)
		}
		existingKeys[r.Key()] = struct{}{}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing statement insert transaction: %w", err)
	}
	return inserted, nil
}

// DistinctPeriods returns every (year, report_code) combination stored for
// corpCode, ordered by year descending then report_code descending, each
// annotated with its row count — the available-periods operation spec.md
// §4.2/§4.6 requires.
func (s *StatementStore) DistinctPeriods(ctx context.Context, corpCode string) ([]domain.PeriodSummary, error) {
	var summaries []domain.PeriodSummary
	err := pgxscan.Select(ctx, s.pool, &summaries,
		`SELECT business_year, report_code, count(*) AS row_count
		 FROM financial_statement_rows
		 WHERE corp_code = $1
		 GROUP BY business_year, report_code
		 ORDER BY business_year DESC, report_code DESC`, corpCode)
	if err != nil {
		return nil, fmt.Errorf("finding distinct periods for %s: %w", corpCode, err)
	}
	return summaries, nil
}
