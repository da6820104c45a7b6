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

// Package ingest implements the event-driven reconciliation pipeline: given
// a partner event naming a corp_code, fetch its profile, recent disclosures,
// and recent financial statements from the EDS client and reconcile them
// into the persistence layer with idempotent semantics. Modeled on the
// teacher's run.go channel-driven daemon loop, generalized from a fixed
// asset-price pull into the three-step profile/disclosure/statement
// reconciliation this core requires.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/NSMM-v2/dart-service/internal/apperr"
	"github.com/NSMM-v2/dart-service/internal/domain"
	"github.com/NSMM-v2/dart-service/internal/eventbus"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// EDSSource is the subset of the EDS client the coordinator depends on.
type EDSSource interface {
	GetCompanyProfile(ctx context.Context, corpCode string) (domain.CompanyProfile, bool)
	SearchDisclosures(ctx context.Context, corpCode string, begin, end time.Time) ([]domain.Disclosure, error)
	GetFinancialStatement(ctx context.Context, corpCode, businessYear string, reportCode domain.ReportCode, division domain.StatementDivision) ([]domain.FinancialStatementRow, error)
}

// ProfileStore is the profile-reconciliation dependency.
type ProfileStore interface {
	FindAllByCorpCode(ctx context.Context, corpCode string) ([]domain.CompanyProfile, error)
	Upsert(ctx context.Context, p domain.CompanyProfile) (domain.CompanyProfile, error)
}

// DirectoryStore is the directory-fallback dependency for profile creation.
type DirectoryStore interface {
	FindByCorpCode(ctx context.Context, corpCode string) (domain.CorpCodeDirectoryEntry, bool, error)
}

// DisclosureStore is the disclosure-refresh dependency.
type DisclosureStore interface {
	InsertIfAbsent(ctx context.Context, d domain.Disclosure) (bool, error)
}

// StatementStore is the statement-refresh dependency.
type StatementStore interface {
	FindByCorpAndYearAndReport(ctx context.Context, tuple domain.StatementTuple) ([]domain.FinancialStatementRow, error)
	BulkInsert(ctx context.Context, rows []domain.FinancialStatementRow) (int, error)
}

// Coordinator reconciles one partner event at a time.
type Coordinator struct {
	eds          EDSSource
	profiles     ProfileStore
	directory    DirectoryStore
	disclosures  DisclosureStore
	statements   StatementStore
	now          func() time.Time
}

// New builds a Coordinator over its dependencies.
func New(eds EDSSource, profiles ProfileStore, directory DirectoryStore, disclosures DisclosureStore, statements StatementStore) *Coordinator {
	return &Coordinator{
		eds: eds, profiles: profiles, directory: directory,
		disclosures: disclosures, statements: statements,
		now: time.Now,
	}
}

// statementPlan is the fixed, ordered set of filing tuples §4.4 step 3
// refreshes for every event, computed relative to the current year.
func statementPlan(now time.Time) []domain.StatementTuple {
	thisYear := now.Year()
	lastYear := thisYear - 1
	return []domain.StatementTuple{
		{BusinessYear: fmt.Sprintf("%d", lastYear), ReportCode: domain.ReportAnnual},
		{BusinessYear: fmt.Sprintf("%d", thisYear), ReportCode: domain.ReportQ3},
		{BusinessYear: fmt.Sprintf("%d", thisYear), ReportCode: domain.ReportHalf},
		{BusinessYear: fmt.Sprintf("%d", thisYear), ReportCode: domain.ReportQ1},
	}
}

// HandleEvent processes one inbound PartnerEvent: reconcile the profile,
// then best-effort refresh disclosures and statements. A profile-
// reconciliation failure aborts the remaining steps; a disclosure or
// statement failure is independent of the other and does not abort it.
func (c *Coordinator) HandleEvent(ctx context.Context, evt eventbus.PartnerEvent) error {
	log := zerolog.Ctx(ctx).With().Str("corp_code", evt.CorpCode).Str("action", string(evt.Action)).Logger()

	if evt.CorpCode == "" {
		log.Warn().Msg("ingest: dropping event with empty corp_code")
		return nil
	}

	profile, err := c.reconcileProfile(ctx, evt.CorpCode)
	if err != nil {
		log.Error().Err(err).Msg("ingest: profile reconciliation failed, aborting event")
		return fmt.Errorf("reconciling profile for %s: %w", evt.CorpCode, err)
	}

	var result *multierror.Error
	if err := c.refreshDisclosures(ctx, profile); err != nil {
		log.Warn().Err(err).Msg("ingest: disclosure refresh failed")
		result = multierror.Append(result, err)
	}
	if err := c.refreshStatements(ctx, evt.CorpCode); err != nil {
		log.Warn().Err(err).Msg("ingest: statement refresh failed")
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// reconcileProfile implements §4.4 step 1: pick the canonical profile among
// duplicates by completeness score, enrich it from EDS if it lacks core
// contact fields, or create one from EDS / the corp-code directory when
// none exists.
func (c *Coordinator) reconcileProfile(ctx context.Context, corpCode string) (domain.CompanyProfile, error) {
	existing, err := c.profiles.FindAllByCorpCode(ctx, corpCode)
	if err != nil {
		return domain.CompanyProfile{}, fmt.Errorf("loading existing profiles: %w", err)
	}

	if len(existing) > 0 {
		canonical := pickCanonical(existing)
		if !canonical.HasCoreContactFields() {
			fetched, ok := c.eds.GetCompanyProfile(ctx, corpCode)
			if ok {
				canonical = mergeProfile(canonical, fetched)
				canonical, err = c.profiles.Upsert(ctx, canonical)
				if err != nil {
					return domain.CompanyProfile{}, fmt.Errorf("persisting enriched profile: %w", err)
				}
			}
		}
		return canonical, nil
	}

	fetched, ok := c.eds.GetCompanyProfile(ctx, corpCode)
	if ok {
		fetched.CorpCode = corpCode
		return c.profiles.Upsert(ctx, fetched)
	}

	entry, found, err := c.directory.FindByCorpCode(ctx, corpCode)
	if err != nil {
		return domain.CompanyProfile{}, fmt.Errorf("looking up corp code directory: %w", err)
	}
	if !found {
		return domain.CompanyProfile{}, apperr.NotFound("corp code %s not found in directory", corpCode)
	}

	minimal := domain.CompanyProfile{
		CorpCode: corpCode,
		CorpName: entry.CorpName,
		UserType: domain.UserTypeUnknown,
	}
	return c.profiles.Upsert(ctx, minimal)
}

// pickCanonical selects the profile with the highest completeness score,
// breaking ties by the lowest internal id. Duplicates are left in place,
// unreferenced — the consolidator never deletes them.
func pickCanonical(profiles []domain.CompanyProfile) domain.CompanyProfile {
	sorted := make([]domain.CompanyProfile, len(profiles))
	copy(sorted, profiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].CompletenessScore(), sorted[j].CompletenessScore()
		if si != sj {
			return si > sj
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[0]
}

// mergeProfile overlays fields from fetched onto the existing row, keeping
// existing's identity (id, owner, corp_code).
func mergeProfile(existing, fetched domain.CompanyProfile) domain.CompanyProfile {
	merged := existing
	if fetched.CorpName != "" {
		merged.CorpName = fetched.CorpName
	}
	if fetched.CorpNameEng != "" {
		merged.CorpNameEng = fetched.CorpNameEng
	}
	if fetched.StockCode != "" {
		merged.StockCode = fetched.StockCode
	}
	if fetched.StockName != "" {
		merged.StockName = fetched.StockName
	}
	if fetched.CEOName != "" {
		merged.CEOName = fetched.CEOName
	}
	if fetched.MarketClass != "" {
		merged.MarketClass = fetched.MarketClass
	}
	if fetched.BusinessNumber != "" {
		merged.BusinessNumber = fetched.BusinessNumber
	}
	if fetched.RegistrationNo != "" {
		merged.RegistrationNo = fetched.RegistrationNo
	}
	if fetched.Address != "" {
		merged.Address = fetched.Address
	}
	if fetched.HomepageURL != "" {
		merged.HomepageURL = fetched.HomepageURL
	}
	if fetched.IRUrl != "" {
		merged.IRUrl = fetched.IRUrl
	}
	if fetched.PhoneNumber != "" {
		merged.PhoneNumber = fetched.PhoneNumber
	}
	if fetched.FaxNumber != "" {
		merged.FaxNumber = fetched.FaxNumber
	}
	if fetched.IndustryCode != "" {
		merged.IndustryCode = fetched.IndustryCode
	}
	if fetched.EstablishDate != "" {
		merged.EstablishDate = fetched.EstablishDate
	}
	if fetched.AccountingMonth != "" {
		merged.AccountingMonth = fetched.AccountingMonth
	}
	return merged
}

// refreshDisclosures implements §4.4 step 2.
func (c *Coordinator) refreshDisclosures(ctx context.Context, profile domain.CompanyProfile) error {
	end := c.now()
	begin := end.AddDate(-1, 0, 0)

	found, err := c.eds.SearchDisclosures(ctx, profile.CorpCode, begin, end)
	if err != nil {
		return fmt.Errorf("searching disclosures: %w", err)
	}

	for _, d := range found {
		d.CompanyProfileID = profile.ID
		if _, err := c.disclosures.InsertIfAbsent(ctx, d); err != nil {
			return fmt.Errorf("inserting disclosure %s: %w", d.ReceiptNo, err)
		}
	}
	return nil
}

// refreshStatements implements §4.4 step 3: fetch each planned tuple and
// hand its rows to StatementStore.BulkInsert, which diffs them against the
// existing (account_id, statement_division) key set and inserts only the
// rows not already present, never deleting.
func (c *Coordinator) refreshStatements(ctx context.Context, corpCode string) error {
	var result *multierror.Error
	for _, tuple := range statementPlan(c.now()) {
		rows, err := c.eds.GetFinancialStatement(ctx, corpCode, tuple.BusinessYear, tuple.ReportCode, domain.DivisionOFS)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("fetching statement %+v: %w", tuple, err))
			continue
		}
		if len(rows) == 0 {
			continue
		}
		if _, err := c.statements.BulkInsert(ctx, rows); err != nil {
			result = multierror.Append(result, fmt.Errorf("inserting statement rows %+v: %w", tuple, err))
		}
	}
	return result.ErrorOrNil()
}
