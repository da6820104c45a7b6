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

// DisclosureStore persists Disclosure rows, strictly idempotent on
// receipt_no per spec.md §3/§8.
type DisclosureStore struct {
	pool *pgxpool.Pool
}

// ExistsByReceiptNo reports whether a disclosure with receiptNo is already
// stored.
func (s *DisclosureStore) ExistsByReceiptNo(ctx context.Context, receiptNo string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM disclosures WHERE receipt_no = $1)", receiptNo).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking disclosure existence for %s: %w", receiptNo, err)
	}
	return exists, nil
}

// InsertIfAbsent inserts d unless a row with the same receipt_no already
// exists, in which case it is silently ignored — insertion is idempotent by
// design, not by catching a unique-violation error.
func (s *DisclosureStore) InsertIfAbsent(ctx context.Context, d domain.Disclosure) (inserted bool, err error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO disclosures
			(receipt_no, corp_code, corp_name, stock_code, corp_class, report_name,
			 submitter_name, receipt_date, remark, company_profile_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (receipt_no) DO NOTHING`,
		d.ReceiptNo, d.CorpCode, d.CorpName, d.StockCode, d.CorpClass, d.ReportName,
		d.SubmitterName, d.ReceiptDate, d.Remark, d.CompanyProfileID,
	)
	if err != nil {
		return false, fmt.Errorf("inserting disclosure %s: %w", d.ReceiptNo, err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindByCorpCode returns every disclosure stored for corpCode, most recent
// first.
func (s *DisclosureStore) FindByCorpCode(ctx context.Context, corpCode string) ([]domain.Disclosure, error) {
	var disclosures []domain.Disclosure
	err := pgxscan.Select(ctx, s.pool, &disclosures,
		`SELECT receipt_no, corp_code, corp_name, stock_code, corp_class, report_name,
			submitter_name, receipt_date, remark, company_profile_id
		 FROM disclosures WHERE corp_code = $1 ORDER BY receipt_date DESC`, corpCode)
	if err != nil {
		return nil, fmt.Errorf("finding disclosures for %s: %w", corpCode, err)
	}
	return disclosures, nil
}
