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

// CorpCodeDirectoryStore persists the bulk corp-code dump loaded from DART.
// The whole directory is replaced wholesale by each sync; within a sync the
// rows are immutable, per spec.md §3.
type CorpCodeDirectoryStore struct {
	pool *pgxpool.Pool
}

// FindByCorpCode returns the directory entry for corpCode, or ok=false when
// absent.
func (s *CorpCodeDirectoryStore) FindByCorpCode(ctx context.Context, corpCode string) (domain.CorpCodeDirectoryEntry, bool, error) {
	var entry domain.CorpCodeDirectoryEntry
	err := pgxscan.Get(ctx, s.pool, &entry,
		`SELECT corp_code, corp_name, corp_name_eng, stock_code, modify_date
		 FROM corp_code_directory WHERE corp_code = $1`, corpCode)
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.CorpCodeDirectoryEntry{}, false, nil
		}
		return domain.CorpCodeDirectoryEntry{}, false, fmt.Errorf("finding corp code %s: %w", corpCode, err)
	}
	return entry, true, nil
}

// FindByCorpNameContainingIgnoreCase returns every directory entry whose
// corp_name contains query, case-insensitively.
func (s *CorpCodeDirectoryStore) FindByCorpNameContainingIgnoreCase(ctx context.Context, query string) ([]domain.CorpCodeDirectoryEntry, error) {
	var entries []domain.CorpCodeDirectoryEntry
	err := pgxscan.Select(ctx, s.pool, &entries,
		`SELECT corp_code, corp_name, corp_name_eng, stock_code, modify_date
		 FROM corp_code_directory WHERE lower(corp_name) LIKE '%' || lower($1) || '%'
		 ORDER BY corp_code`, query)
	if err != nil {
		return nil, fmt.Errorf("searching corp code directory for %q: %w", query, err)
	}
	return entries, nil
}

// ReplaceAll atomically replaces the whole directory with entries, the
// idempotent bulk-sync operation spec.md §8 requires: re-running a sync
// with identical upstream bytes leaves the directory unchanged.
func (s *CorpCodeDirectoryStore) ReplaceAll(ctx context.Context, entries []domain.CorpCodeDirectoryEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning corp code directory replace transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE corp_code_directory"); err != nil {
		return fmt.Errorf("truncating corp code directory: %w", err)
	}

	for _, e := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO corp_code_directory (corp_code, corp_name, corp_name_eng, stock_code, modify_date)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.CorpCode, e.CorpName, e.CorpNameEng, e.StockCode, e.ModifyDate)
		if err != nil {
			return fmt.Errorf("inserting corp code %s: %w", e.CorpCode, err)
		}
	}

	return tx.Commit(ctx)
}
