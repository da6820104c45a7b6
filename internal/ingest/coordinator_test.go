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
package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/NSMM-v2/dart-service/internal/domain"
	"github.com/NSMM-v2/dart-service/internal/eventbus"
)

type fakeEDS struct {
	profiles     map[string]domain.CompanyProfile
	disclosures  []domain.Disclosure
	disclosureErr error
	statements   map[domain.StatementTuple][]domain.FinancialStatementRow
}

func (f *fakeEDS) GetCompanyProfile(_ context.Context, corpCode string) (domain.CompanyProfile, bool) {
	p, ok := f.profiles[corpCode]
	return p, ok
}

func (f *fakeEDS) SearchDisclosures(_ context.Context, _ string, _, _ time.Time) ([]domain.Disclosure, error) {
	return f.disclosures, f.disclosureErr
}

func (f *fakeEDS) GetFinancialStatement(_ context.Context, _, businessYear string, reportCode domain.ReportCode, _ domain.StatementDivision) ([]domain.FinancialStatementRow, error) {
	return f.statements[domain.StatementTuple{BusinessYear: businessYear, ReportCode: reportCode}], nil
}

type fakeProfileStore struct {
	byCorp map[string][]domain.CompanyProfile
	nextID int64
}

func (f *fakeProfileStore) FindAllByCorpCode(_ context.Context, corpCode string) ([]domain.CompanyProfile, error) {
	return f.byCorp[corpCode], nil
}

func (f *fakeProfileStore) Upsert(_ context.Context, p domain.CompanyProfile) (domain.CompanyProfile, error) {
	if p.ID == 0 {
		f.nextID++
		p.ID = f.nextID
		f.byCorp[p.CorpCode] = append(f.byCorp[p.CorpCode], p)
		return p, nil
	}
	for i, existing := range f.byCorp[p.CorpCode] {
		if existing.ID == p.ID {
			f.byCorp[p.CorpCode][i] = p
		}
	}
	return p, nil
}

type fakeDirectory struct {
	entries map[string]domain.CorpCodeDirectoryEntry
}

func (f *fakeDirectory) FindByCorpCode(_ context.Context, corpCode string) (domain.CorpCodeDirectoryEntry, bool, error) {
	e, ok := f.entries[corpCode]
	return e, ok, nil
}

type fakeDisclosureStore struct {
	inserted []domain.Disclosure
}

func (f *fakeDisclosureStore) InsertIfAbsent(_ context.Context, d domain.Disclosure) (bool, error) {
	for _, existing := range f.inserted {
		if existing.ReceiptNo == d.ReceiptNo {
			return false, nil
		}
	}
	f.inserted = append(f.inserted, d)
	return true, nil
}

type fakeStatementStore struct {
	inserted map[domain.StatementTuple][]domain.FinancialStatementRow
}

func (f *fakeStatementStore) FindByCorpAndYearAndReport(_ context.Context, tuple domain.StatementTuple) ([]domain.FinancialStatementRow, error) {
	return f.inserted[tuple], nil
}

func (f *fakeStatementStore) BulkInsert(_ context.Context, rows []domain.FinancialStatementRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tuple := domain.StatementTuple{BusinessYear: rows[0].BusinessYear, ReportCode: rows[0].ReportCode}
	if f.inserted == nil {
		f.inserted = map[domain.StatementTuple][]domain.FinancialStatementRow{}
	}
	f.inserted[tuple] = append(f.inserted[tuple], rows...)
	return len(rows), nil
}

func TestHandleEvent_FreshRegistration_UnknownProfile(t *testing.T) {
	eds := &fakeEDS{
		profiles: map[string]domain.CompanyProfile{
			"00126380": {CorpCode: "00126380", CorpName: "삼성전자(주)", CEOName: "한종희", Address: "서울",
				PhoneNumber: "02-000-0000", BusinessNumber: "123", IndustryCode: "1"},
		},
	}
	profiles := &fakeProfileStore{byCorp: map[string][]domain.CompanyProfile{}}
	directory := &fakeDirectory{entries: map[string]domain.CorpCodeDirectoryEntry{
		"00126380": {CorpCode: "00126380", CorpName: "삼성전자(주)"},
	}}
	disclosures := &fakeDisclosureStore{}
	statements := &fakeStatementStore{}

	coord := New(eds, profiles, directory, disclosures, statements)
	err := coord.HandleEvent(context.Background(), eventbus.PartnerEvent{CorpCode: "00126380", Action: eventbus.ActionPartnerRegistered})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := profiles.byCorp["00126380"]
	if len(got) != 1 {
		t.Fatalf("expected exactly one profile, got %d", len(got))
	}
	if got[0].CorpName != "삼성전자(주)" || got[0].CEOName != "한종희" {
		t.Fatalf("expected profile enriched from EDS, got %+v", got[0])
	}
}

func TestHandleEvent_DuplicateProfilesPicksHighestCompletenessScore(t *testing.T) {
	low := domain.CompanyProfile{ID: 1, CorpCode: "00126380", CorpName: "a", CEOName: "b", Address: "c"}
	high := domain.CompanyProfile{
		ID: 2, CorpCode: "00126380", CorpName: "a", CEOName: "b", Address: "c", PhoneNumber: "d",
		BusinessNumber: "e", IndustryCode: "f", EstablishDate: "g", AccountingMonth: "h",
	}
	eds := &fakeEDS{
		profiles:    map[string]domain.CompanyProfile{},
		disclosures: []domain.Disclosure{{ReceiptNo: "R1", CorpCode: "00126380"}},
	}
	profiles := &fakeProfileStore{byCorp: map[string][]domain.CompanyProfile{
		"00126380": {low, high},
	}}
	directory := &fakeDirectory{entries: map[string]domain.CorpCodeDirectoryEntry{}}
	disclosures := &fakeDisclosureStore{}
	coord := New(eds, profiles, directory, disclosures, &fakeStatementStore{})

	err := coord.HandleEvent(context.Background(), eventbus.PartnerEvent{CorpCode: "00126380"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(profiles.byCorp["00126380"]) != 2 {
		t.Fatalf("expected both duplicate profiles to remain, got %d", len(profiles.byCorp["00126380"]))
	}
	if len(disclosures.inserted) != 1 || disclosures.inserted[0].CompanyProfileID != high.ID {
		t.Fatalf("expected the disclosure to link to the higher-scoring profile %d, got %+v", high.ID, disclosures.inserted)
	}
}

func TestHandleEvent_EmptyCorpCodeIsNoOp(t *testing.T) {
	coord := New(&fakeEDS{}, &fakeProfileStore{byCorp: map[string][]domain.CompanyProfile{}}, &fakeDirectory{}, &fakeDisclosureStore{}, &fakeStatementStore{})
	if err := coord.HandleEvent(context.Background(), eventbus.PartnerEvent{}); err != nil {
		t.Fatalf("expected no error for empty corp_code, got %v", err)
	}
}

func TestHandleEvent_DisclosureFailureDoesNotAbortStatementRefresh(t *testing.T) {
	eds := &fakeEDS{
		profiles:      map[string]domain.CompanyProfile{"00126380": {CorpCode: "00126380", CorpName: "x"}},
		disclosureErr: errBoom,
		statements: map[domain.StatementTuple][]domain.FinancialStatementRow{
			{BusinessYear: "2023", ReportCode: domain.ReportAnnual}: {
				{CorpCode: "00126380", BusinessYear: "2023", ReportCode: domain.ReportAnnual, AccountID: "a1"},
			},
		},
	}
	profiles := &fakeProfileStore{byCorp: map[string][]domain.CompanyProfile{}}
	statements := &fakeStatementStore{}
	coord := New(eds, profiles, &fakeDirectory{}, &fakeDisclosureStore{}, statements)
	coord.now = func() time.Time { return time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC) }

	err := coord.HandleEvent(context.Background(), eventbus.PartnerEvent{CorpCode: "00126380"})
	if err == nil {
		t.Fatalf("expected the aggregated disclosure error to surface")
	}
	if len(statements.inserted[domain.StatementTuple{BusinessYear: "2023", ReportCode: domain.ReportAnnual}]) != 1 {
		t.Fatalf("expected statement refresh to still run despite disclosure failure")
	}
}

var errBoom = fakeErr("boom")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
