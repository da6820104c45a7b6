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
package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/NSMM-v2/dart-service/internal/domain"
)

// StatementRowSource is the read-side of the persistence layer the
// evaluator depends on, narrowed to exactly what it needs so a fake can
// stand in for tests without pulling in *pgxpool.Pool.
type StatementRowSource interface {
	FindByCorpAndYearAndReport(ctx context.Context, tuple domain.StatementTuple) ([]domain.FinancialStatementRow, error)
	DistinctPeriods(ctx context.Context, corpCode string) ([]domain.PeriodSummary, error)
}

// Evaluator resolves a tuple (automatically or manually) and runs the
// twelve-item rubric over the rows persisted for it.
type Evaluator struct {
	rows StatementRowSource
}

// New builds an Evaluator over rows.
func New(rows StatementRowSource) *Evaluator {
	return &Evaluator{rows: rows}
}

// AssessAutomatic resolves the tuple from now per AutomaticTuple and
// evaluates it.
func (e *Evaluator) AssessAutomatic(ctx context.Context, corpCode string, now time.Time) (Assessment, error) {
	year, reportCode := AutomaticTuple(now)
	return e.assess(ctx, corpCode, year, reportCode)
}

// AssessManual validates and evaluates a caller-supplied tuple.
func (e *Evaluator) AssessManual(ctx context.Context, corpCode, businessYear string, reportCode domain.ReportCode) (Assessment, error) {
	if err := ValidateManualTuple(businessYear, reportCode); err != nil {
		return Assessment{}, err
	}
	return e.assess(ctx, corpCode, businessYear, reportCode)
}

func (e *Evaluator) assess(ctx context.Context, corpCode, businessYear string, reportCode domain.ReportCode) (Assessment, error) {
	rows, err := e.rows.FindByCorpAndYearAndReport(ctx, domain.StatementTuple{
		CorpCode: corpCode, BusinessYear: businessYear, ReportCode: reportCode,
	})
	if err != nil {
		return Assessment{}, fmt.Errorf("loading statement rows for %s/%s/%s: %w", corpCode, businessYear, reportCode, err)
	}
	if len(rows) == 0 {
		return dataUnavailableAssessment(corpCode, businessYear, reportCode), nil
	}
	return Assessment{
		CorpCode:     corpCode,
		BusinessYear: businessYear,
		ReportCode:   reportCode,
		Items:        Evaluate(ctx, rows),
	}, nil
}

// AvailablePeriods lists every (year, report_code) stored for corpCode,
// each flagged with whether it is the tuple automatic selection would
// choose as of now.
func (e *Evaluator) AvailablePeriods(ctx context.Context, corpCode string, now time.Time) ([]PeriodOption, error) {
	summaries, err := e.rows.DistinctPeriods(ctx, corpCode)
	if err != nil {
		return nil, fmt.Errorf("listing available periods for %s: %w", corpCode, err)
	}
	autoYear, autoReport := AutomaticTuple(now)

	options := make([]PeriodOption, 0, len(summaries))
	for _, s := range summaries {
		options = append(options, PeriodOption{
			BusinessYear:         s.BusinessYear,
			ReportCode:           s.ReportCode,
			Name:                 reportCodeName(s.ReportCode),
			Description:          periodDescription(s.BusinessYear, s.ReportCode),
			RowCount:             s.RowCount,
			IsAutomaticSelection: s.BusinessYear == autoYear && s.ReportCode == autoReport,
		})
	}
	return options, nil
}
