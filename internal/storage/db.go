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

// Package storage is the persistence layer: one durable entity store per
// spec.md §4.2 entity, each wrapping a shared *pgxpool.Pool. Modeled on the
// teacher's library/database.go connect/acquire/release discipline and
// data/eod.go's ON CONFLICT upsert shape.
package storage

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Connect opens a pgx connection pool against databaseURL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return pool, nil
}

// Migrate applies every pending migration embedded under migrations/,
// mirroring the teacher's db/migrate.go embed-and-run pattern. The pgx/v5
// migrate driver only registers the pgx5:// URL scheme, so — exactly like
// the teacher's init.go — a postgres:// DSN is rewritten before use.
func Migrate(databaseURL string) error {
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}

	migrateURL := strings.Replace(databaseURL, "postgres://", "pgx5://", 1)

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL)
	if err != nil {
		return fmt.Errorf("initializing migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Stores bundles one handle per entity store over a shared pool, the way a
// caller typically wires the persistence layer once at startup.
type Stores struct {
	CorpCodeDirectory *CorpCodeDirectoryStore
	CompanyProfiles   *CompanyProfileStore
	Disclosures       *DisclosureStore
	Statements        *StatementStore
	Partners          *PartnerStore
}

// NewStores constructs every entity store over pool.
func NewStores(pool *pgxpool.Pool) *Stores {
	return &Stores{
		CorpCodeDirectory: &CorpCodeDirectoryStore{pool: pool},
		CompanyProfiles:   &CompanyProfileStore{pool: pool},
		Disclosures:       &DisclosureStore{pool: pool},
		Statements:        &StatementStore{pool: pool},
		Partners:          &PartnerStore{pool: pool},
	}
}
