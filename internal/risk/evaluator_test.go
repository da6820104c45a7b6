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
	"testing"
	"time"

	"github.com/NSMM-v2/dart-service/internal/apperr"
	"github.com/NSMM-v2/dart-service/internal/domain"
)

type fakeRowSource struct {
	rows      map[domain.StatementTuple][]domain.FinancialStatementRow
	summaries []domain.PeriodSummary
}

func (f *fakeRowSource) FindByCorpAndYearAndReport(_ context.Context, tuple domain.StatementTuple) ([]domain.FinancialStatementRow, error) {
	return f.rows[tuple], nil
}

func (f *fakeRowSource) DistinctPeriods(_ context.Context, _ string) ([]domain.PeriodSummary, error) {
	return f.summaries, nil
}

func TestAssessManual_NoRowsReturnsSyntheticItem(t *testing.T) {
	store := &fakeRowSource{rows: map[domain.StatementTuple][]domain.FinancialStatementRow{}}
	eval := New(store)

	assessment, err := eval.AssessManual(context.Background(), "00126380", "2024", domain.ReportAnnual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assessment.Items) != 1 {
		t.Fatalf("expected exactly one synthetic item, got %d", len(assessment.Items))
	}
	item := assessment.Items[0]
	if item.ItemNumber != 0 || item.Description != "재무 정보 조회" || !item.IsAtRisk {
		t.Fatalf("unexpected synthetic item: %+v", item)
	}
}

func TestAssessManual_RejectsInvalidReportCode(t *testing.T) {
	eval := New(&fakeRowSource{})
	_, err := eval.AssessManual(context.Background(), "00126380", "2024", domain.ReportCode("99999"))
	if err == nil {
		t.Fatalf("expected an error for an unrecognized report code")
	}
	if !apperr.IsInvalidArgument(err) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAssessManual_RejectsYearOutOfRange(t *testing.T) {
	eval := New(&fakeRowSource{})
	_, err := eval.AssessManual(context.Background(), "00126380", "1999", domain.ReportAnnual)
	if !apperr.IsInvalidArgument(err) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAutomaticTuple_MonthRanges(t *testing.T) {
	cases := []struct {
		month        time.Month
		wantYearBack bool
		wantReport   domain.ReportCode
	}{
		{time.January, true, domain.ReportQ3},
		{time.March, true, domain.ReportQ3},
		{time.April, true, domain.ReportAnnual},
		{time.June, true, domain.ReportAnnual},
		{time.July, false, domain.ReportQ1},
		{time.September, false, domain.ReportQ1},
		{time.October, false, domain.ReportHalf},
		{time.December, false, domain.ReportHalf},
	}
	for _, c := range cases {
		now := time.Date(2024, c.month, 15, 0, 0, 0, 0, time.UTC)
		year, report := AutomaticTuple(now)
		wantYear := "2024"
		if c.wantYearBack {
			wantYear = "2023"
		}
		if year != wantYear || report != c.wantReport {
			t.Errorf("month %s: got (%s, %s), want (%s, %s)", c.month, year, report, wantYear, c.wantReport)
		}
	}
}

func TestAvailablePeriods_FlagsAutomaticSelection(t *testing.T) {
	store := &fakeRowSource{
		summaries: []domain.PeriodSummary{
			{BusinessYear: "2024", ReportCode: domain.ReportQ1, RowCount: 30},
			{BusinessYear: "2023", ReportCode: domain.ReportAnnual, RowCount: 45},
		},
	}
	eval := New(store)
	now := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)

	options, err := eval.AvailablePeriods(context.Background(), "00126380", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	if !options[0].IsAutomaticSelection {
		t.Fatalf("expected 2024 Q1 to be flagged as the automatic selection: %+v", options[0])
	}
	if options[1].IsAutomaticSelection {
		t.Fatalf("expected 2023 annual to not be the automatic selection: %+v", options[1])
	}
}
