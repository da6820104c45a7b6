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

const partnerColumns = `id, corp_code, headquarters_id, partner_id, user_type, company_name,
	contract_start_date, status, account_created, created_at, updated_at`

// PartnerStore persists PartnerCompany rows, scoped throughout by owner
// (headquarters_id, partner_id) per spec.md §3/§4.5.
type PartnerStore struct {
	pool *pgxpool.Pool
}

// FindByID returns the partner company with id, or ok=false when absent.
func (s *PartnerStore) FindByID(ctx context.Context, id string) (domain.PartnerCompany, bool, error) {
	var p domain.PartnerCompany
	err := pgxscan.Get(ctx, s.pool, &p,
		"SELECT "+partnerColumns+" FROM partner_companies WHERE id = $1", id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.PartnerCompany{}, false, nil
		}
		return domain.PartnerCompany{}, false, fmt.Errorf("finding partner company %s: %w", id, err)
	}
	return p, true, nil
}

// FindActiveByOwnerAndNameIgnoreCase returns the ACTIVE partner company owned
// by owner whose company_name matches name case-insensitively, used by the
// duplicate-name check before registration (spec.md §4.5).
func (s *PartnerStore) FindActiveByOwnerAndNameIgnoreCase(ctx context.Context, owner domain.Owner, name string) (domain.PartnerCompany, bool, error) {
	return s.findOneByOwnerNameStatus(ctx, owner, name, domain.PartnerActive)
}

// FindInactiveByOwnerAndNameIgnoreCase returns the INACTIVE partner company
// owned by owner whose company_name matches name case-insensitively, used to
// detect a restore-eligible soft-deleted record (spec.md §4.5).
func (s *PartnerStore) FindInactiveByOwnerAndNameIgnoreCase(ctx context.Context, owner domain.Owner, name string) (domain.PartnerCompany, bool, error) {
	return s.findOneByOwnerNameStatus(ctx, owner, name, domain.PartnerInactive)
}

func (s *PartnerStore) findOneByOwnerNameStatus(ctx context.Context, owner domain.Owner, name string, status domain.PartnerStatus) (domain.PartnerCompany, bool, error) {
	var p domain.PartnerCompany
	var err error
	switch owner.Kind {
	case domain.OwnerHeadquarters:
		err = pgxscan.Get(ctx, s.pool, &p,
			"SELECT "+partnerColumns+` FROM partner_companies
			 WHERE headquarters_id = $1 AND partner_id IS NULL
			   AND lower(company_name) = lower($2) AND status = $3
			 ORDER BY created_at LIMIT 1`, owner.ID, name, string(status))
	case domain.OwnerPartner:
		err = pgxscan.Get(ctx, s.pool, &p,
			"SELECT "+partnerColumns+` FROM partner_companies
			 WHERE partner_id = $1 AND headquarters_id IS NULL
			   AND lower(company_name) = lower($2) AND status = $3
			 ORDER BY created_at LIMIT 1`, owner.ID, name, string(status))
	}
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.PartnerCompany{}, false, nil
		}
		return domain.PartnerCompany{}, false, fmt.Errorf("finding %s partner for owner %+v named %q: %w", status, owner, name, err)
	}
	return p, true, nil
}

// FindByOwner returns every partner company owned by owner, active and
// inactive alike, most recently created first.
func (s *PartnerStore) FindByOwner(ctx context.Context, owner domain.Owner) ([]domain.PartnerCompany, error) {
	var partners []domain.PartnerCompany
	var err error
	switch owner.Kind {
	case domain.OwnerHeadquarters:
		err = pgxscan.Select(ctx, s.pool, &partners,
			"SELECT "+partnerColumns+` FROM partner_companies
			 WHERE headquarters_id = $1 AND partner_id IS NULL
			 ORDER BY created_at DESC`, owner.ID)
	case domain.OwnerPartner:
		err = pgxscan.Select(ctx, s.pool, &partners,
			"SELECT "+partnerColumns+` FROM partner_companies
			 WHERE partner_id = $1 AND headquarters_id IS NULL
			 ORDER BY created_at DESC`, owner.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("finding partner companies for owner %+v: %w", owner, err)
	}
	return partners, nil
}

// ExistsActiveByOwnerAndNameIgnoreCase reports whether owner already has an
// ACTIVE partner company named name (case-insensitive), optionally excluding
// excludeID (an empty excludeID excludes nothing) — used by the
// duplicate-name check to let a record being edited keep its own name.
func (s *PartnerStore) ExistsActiveByOwnerAndNameIgnoreCase(ctx context.Context, owner domain.Owner, name string, excludeID string) (bool, error) {
	var exists bool
	var err error
	switch owner.Kind {
	case domain.OwnerHeadquarters:
		err = s.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM partner_companies
			 WHERE headquarters_id = $1 AND partner_id IS NULL
			   AND lower(company_name) = lower($2) AND status = 'ACTIVE' AND ($3 = '' OR id::text != $3))`,
			owner.ID, name, excludeID).Scan(&exists)
	case domain.OwnerPartner:
		err = s.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM partner_companies
			 WHERE partner_id = $1 AND headquarters_id IS NULL
			   AND lower(company_name) = lower($2) AND status = 'ACTIVE' AND ($3 = '' OR id::text != $3))`,
			owner.ID, name, excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("checking duplicate partner name for owner %+v: %w", owner, err)
	}
	return exists, nil
}

// Insert creates a new partner company row. Callers supply a fresh UUID in
// p.ID (spec.md §4.5 "create-fresh-UUID fallback").
func (s *PartnerStore) Insert(ctx context.Context, p domain.PartnerCompany) (domain.PartnerCompany, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO partner_companies
			(id, corp_code, headquarters_id, partner_id, user_type, company_name,
			 contract_start_date, status, account_created, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.CorpCode, p.HeadquartersID, p.PartnerID, p.UserType, p.CompanyName,
		p.ContractStartDate, string(p.Status), p.AccountCreated, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return domain.PartnerCompany{}, fmt.Errorf("inserting partner company %s: %w", p.ID, err)
	}
	return p, nil
}

// Update persists changes to the mutable fields spec.md §4.5 allows
// (corp_code, contract_start_date, status) plus account_created and
// updated_at, leaving identity fields (id, owner, company_name) untouched.
func (s *PartnerStore) Update(ctx context.Context, p domain.PartnerCompany) (domain.PartnerCompany, error) {
	_, err := s.pool.Exec(ctx,
		`UPDATE partner_companies SET
			corp_code = $2, contract_start_date = $3, status = $4,
			account_created = $5, updated_at = $6
		 WHERE id = $1`,
		p.ID, p.CorpCode, p.ContractStartDate, string(p.Status), p.AccountCreated, p.UpdatedAt,
	)
	if err != nil {
		return domain.PartnerCompany{}, fmt.Errorf("updating partner company %s: %w", p.ID, err)
	}
	return p, nil
}
