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

// Package domain holds the entity types shared by the EDS client, the
// persistence layer, and the ingestion coordinator. Back-references between
// entities are modeled as the corp_code string, never as embedded pointers,
// per the owned/borrowed-entity design note: a Disclosure or PartnerCompany
// looks its CompanyProfile up through the persistence layer instead of
// holding one in memory.
package domain

import "time"

// UserType classifies the owner of a CompanyProfile when it was created
// through partner registration rather than discovered via DART alone.
type UserType string

const (
	UserTypeHeadquarters UserType = "HEADQUARTERS"
	UserTypePartner      UserType = "PARTNER"
	UserTypeUnknown      UserType = "UNKNOWN"
)

// OwnerKind tags which column of the two-column owner shape is populated.
// In memory this is carried as the tagged variant Owner below; only at the
// storage boundary does it flatten back to two nullable columns.
type OwnerKind string

const (
	OwnerHeadquarters OwnerKind = "HEADQUARTERS"
	OwnerPartner      OwnerKind = "PARTNER"
)

// Owner is the tagged-variant representation of "owned by a headquarters or
// a partner user" the design notes call for, replacing two nullable ids
// with one value that can't represent an invalid combination.
type Owner struct {
	Kind OwnerKind
	ID   int64
}

// CorpCodeDirectoryEntry is one row of the bulk corp-code dump DART
// publishes. Immutable within a sync; refreshed wholesale by the next one.
type CorpCodeDirectoryEntry struct {
	CorpCode     string // 8 ASCII digits
	CorpName     string
	CorpNameEng  string
	StockCode    string // 6 digits when listed, empty otherwise
	ModifyDate   string // YYYYMMDD
}

// CompanyProfile is the authoritative per-corp record, created on first
// reference and mutated in place as richer data becomes available.
type CompanyProfile struct {
	ID int64 // internal surrogate key, used to break completeness-score ties

	CorpCode       string
	CorpName       string
	CorpNameEng    string
	StockCode      string
	StockName      string
	CEOName        string
	MarketClass    string
	BusinessNumber string
	RegistrationNo string
	Address        string
	HomepageURL    string
	IRUrl          string
	PhoneNumber    string
	FaxNumber      string
	IndustryCode   string
	EstablishDate  string // YYYYMMDD
	AccountingMonth string // MM

	HeadquartersID *int64
	PartnerID      *int64
	UserType       UserType
}

// CompletenessScore counts the descriptive fields present and non-empty, the
// tie-breaking metric §4.4 uses to pick a canonical profile among
// duplicates. Ties are broken by the lowest ID by the caller.
func (p CompanyProfile) CompletenessScore() int {
	fields := []string{
		p.CorpName, p.CEOName, p.Address, p.PhoneNumber, p.BusinessNumber,
		p.IndustryCode, p.EstablishDate, p.AccountingMonth, p.CorpNameEng,
		p.StockCode, p.HomepageURL, p.FaxNumber,
	}
	score := 0
	for _, f := range fields {
		if f != "" {
			score++
		}
	}
	return score
}

// HasCoreContactFields reports whether the profile already carries the
// fields §4.4 step 1.c checks before deciding a re-fetch from DART is
// worthwhile: CEO, address, phone, business number, industry code.
func (p CompanyProfile) HasCoreContactFields() bool {
	return p.CEOName != "" && p.Address != "" && p.PhoneNumber != "" &&
		p.BusinessNumber != "" && p.IndustryCode != ""
}

// Disclosure is one filing submission, keyed globally by ReceiptNo.
type Disclosure struct {
	ReceiptNo      string
	CorpCode       string
	CorpName       string
	StockCode      string
	CorpClass      string
	ReportName     string
	SubmitterName  string
	ReceiptDate    time.Time
	Remark         string
	CompanyProfileID int64
}

// Report codes DART assigns to the four filing periods this core
// understands.
const (
	ReportAnnual ReportCode = "11011"
	ReportHalf   ReportCode = "11012"
	ReportQ1     ReportCode = "11013"
	ReportQ3     ReportCode = "11014"
)

// ReportCode is the fiscal reporting period of a filing (sj_div's sibling
// field, business_year's period selector).
type ReportCode string

// Valid reports whether r is one of the four codes this core recognizes.
func (r ReportCode) Valid() bool {
	switch r {
	case ReportAnnual, ReportHalf, ReportQ1, ReportQ3:
		return true
	}
	return false
}

// StatementDivision distinguishes separate (OFS) from consolidated (CFS)
// financial statements.
type StatementDivision string

const (
	DivisionOFS StatementDivision = "OFS"
	DivisionCFS StatementDivision = "CFS"
)

// FinancialStatementRow is one statement line. Amounts are kept verbatim as
// the comma-formatted signed-integer strings DART returns ("-" denotes
// absent) so storage round-trips exactly; commas are stripped and the value
// converted to decimal.Decimal only inside the risk evaluator.
type FinancialStatementRow struct {
	CorpCode          string
	BusinessYear       string // YYYY
	ReportCode         ReportCode
	StatementDivision  StatementDivision
	AccountID          string
	AccountName        string

	CurrentPeriodLabel  string
	CurrentPeriodAmount string // thstrm_amount
	PriorPeriodLabel    string
	PriorPeriodAmount   string // frmtrm_amount
	QuarterAccumCurrentAmount string // thstrm_add_amount
	QuarterAccumPriorAmount   string // frmtrm_add_amount
	TwoPeriodsPriorLabel  string
	TwoPeriodsPriorAmount string

	Currency string
}

// Key returns the duplicate-detection key within one (corp_code, year,
// report_code) tuple: (account_id, statement_division).
func (r FinancialStatementRow) Key() StatementRowKey {
	return StatementRowKey{AccountID: r.AccountID, Division: r.StatementDivision}
}

// StatementRowKey is the (account_id, statement_division) pair used to
// detect duplicate rows within one filing tuple.
type StatementRowKey struct {
	AccountID string
	Division  StatementDivision
}

// StatementTuple identifies the rows backing one risk assessment or one
// statement-refresh fetch.
type StatementTuple struct {
	CorpCode     string
	BusinessYear string
	ReportCode   ReportCode
}

// PeriodSummary describes one (year, report_code) combination available in
// storage for a corp code, per the distinctPeriods operation.
type PeriodSummary struct {
	BusinessYear string
	ReportCode   ReportCode
	RowCount     int
}

// PartnerStatus is the lifecycle state of a PartnerCompany.
type PartnerStatus string

const (
	PartnerActive   PartnerStatus = "ACTIVE"
	PartnerInactive PartnerStatus = "INACTIVE"
)

// PartnerCompany is the owner-scoped linkage from an owner to a
// CompanyProfile.
type PartnerCompany struct {
	ID                string // UUID
	CorpCode          string
	HeadquartersID    *int64
	PartnerID         *int64
	UserType          UserType
	CompanyName       string // denormalized for the uniqueness check
	ContractStartDate string // YYYY-MM-DD
	Status            PartnerStatus
	AccountCreated    bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Owner reconstructs the tagged-variant owner from the two-column storage
// shape.
func (p PartnerCompany) Owner() Owner {
	if p.PartnerID != nil {
		return Owner{Kind: OwnerPartner, ID: *p.PartnerID}
	}
	if p.HeadquartersID != nil {
		return Owner{Kind: OwnerHeadquarters, ID: *p.HeadquartersID}
	}
	return Owner{}
}
