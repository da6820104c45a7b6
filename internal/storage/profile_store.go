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

const profileColumns = `id, corp_code, corp_name, corp_name_eng, stock_code, stock_name,
	ceo_name, market_class, business_number, registration_no, address, homepage_url,
	ir_url, phone_number, fax_number, industry_code, establish_date, accounting_month,
	headquarters_id, partner_id, user_type`

// CompanyProfileStore persists CompanyProfile rows.
type CompanyProfileStore struct {
	pool *pgxpool.Pool
}

// FindByCorpCode returns the profile with the lowest id for corpCode. When
// duplicates exist, callers that need the canonical one should use
// FindAllByCorpCode and apply the completeness-score tie-break themselves
// (see internal/ingest), since the lowest-id row need not be the canonical one.
func (s *CompanyProfileStore) FindByCorpCode(ctx context.Context, corpCode string) (domain.CompanyProfile, bool, error) {
	var profile domain.CompanyProfile
	err := pgxscan.Get(ctx, s.pool, &profile,
		"SELECT "+profileColumns+" FROM company_profiles WHERE corp_code = $1 ORDER BY id LIMIT 1", corpCode)
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.CompanyProfile{}, false, nil
		}
		return domain.CompanyProfile{}, false, fmt.Errorf("finding profile for %s: %w", corpCode, err)
	}
	return profile, true, nil
}

// FindAllByCorpCode returns every profile row for corpCode, including
// duplicates left behind by the profile-reconciliation algorithm (spec.md
// §4.4 step 1.b never deletes them).
func (s *CompanyProfileStore) FindAllByCorpCode(ctx context.Context, corpCode string) ([]domain.CompanyProfile, error) {
	var profiles []domain.CompanyProfile
	err := pgxscan.Select(ctx, s.pool, &profiles,
		"SELECT "+profileColumns+" FROM company_profiles WHERE corp_code = $1 ORDER BY id", corpCode)
	if err != nil {
		return nil, fmt.Errorf("finding all profiles for %s: %w", corpCode, err)
	}
	return profiles, nil
}

// FindByOwnerAndCorpCode returns the profile scoped to one owner, used by
// partner registration to decide whether a profile already exists for this
// (owner, corp_code) pair.
func (s *CompanyProfileStore) FindByOwnerAndCorpCode(ctx context.Context, owner domain.Owner, corpCode string) (domain.CompanyProfile, bool, error) {
	var profile domain.CompanyProfile
	var err error
	switch owner.Kind {
	case domain.OwnerHeadquarters:
		err = pgxscan.Get(ctx, s.pool, &profile,
			"SELECT "+profileColumns+` FROM company_profiles
			 WHERE corp_code = $1 AND headquarters_id = $2 ORDER BY id LIMIT 1`, corpCode, owner.ID)
	case domain.OwnerPartner:
		err = pgxscan.Get(ctx, s.pool, &profile,
			"SELECT "+profileColumns+` FROM company_profiles
			 WHERE corp_code = $1 AND partner_id = $2 ORDER BY id LIMIT 1`, corpCode, owner.ID)
	}
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.CompanyProfile{}, false, nil
		}
		return domain.CompanyProfile{}, false, fmt.Errorf("finding profile for owner %+v corp %s: %w", owner, corpCode, err)
	}
	return profile, true, nil
}

// Upsert inserts profile if p.ID is zero, otherwise updates the existing
// row in place — the merge-on-richer-data lifecycle spec.md §3 describes.
func (s *CompanyProfileStore) Upsert(ctx context.Context, p domain.CompanyProfile) (domain.CompanyProfile, error) {
	if p.ID == 0 {
		err := s.pool.QueryRow(ctx,
			`INSERT INTO company_profiles
				(corp_code, corp_name, corp_name_eng, stock_code, stock_name, ceo_name,
				 market_class, business_number, registration_no, address, homepage_url,
				 ir_url, phone_number, fax_number, industry_code, establish_date,
				 accounting_month, headquarters_id, partner_id, user_type)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
			 RETURNING id`,
			p.CorpCode, p.CorpName, p.CorpNameEng, p.StockCode, p.StockName, p.CEOName,
			p.MarketClass, p.BusinessNumber, p.RegistrationNo, p.Address, p.HomepageURL,
			p.IRUrl, p.PhoneNumber, p.FaxNumber, p.IndustryCode, p.EstablishDate,
			p.AccountingMonth, p.HeadquartersID, p.PartnerID, p.UserType,
		).Scan(&p.ID)
		if err != nil {
			return domain.CompanyProfile{}, fmt.Errorf("inserting profile for %s: %w", p.CorpCode, err)
		}
		return p, nil
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE company_profiles SET
			corp_name = $2, corp_name_eng = $3, stock_code = $4, stock_name = $5,
			ceo_name = $6, market_class = $7, business_number = $8, registration_no = $9,
			address = $10, homepage_url = $11, ir_url = $12, phone_number = $13,
			fax_number = $14, industry_code = $15, establish_date = $16,
			accounting_month = $17, headquarters_id = $18, partner_id = $19, user_type = $20
		 WHERE id = $1`,
		p.ID, p.CorpName, p.CorpNameEng, p.StockCode, p.StockName, p.CEOName,
		p.MarketClass, p.BusinessNumber, p.RegistrationNo, p.Address, p.HomepageURL,
		p.IRUrl, p.PhoneNumber, p.FaxNumber, p.IndustryCode, p.EstablishDate,
		p.AccountingMonth, p.HeadquartersID, p.PartnerID, p.UserType,
	)
	if err != nil {
		return domain.CompanyProfile{}, fmt.Errorf("updating profile %d: %w", p.ID, err)
	}
	return p, nil
}
