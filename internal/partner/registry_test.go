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
package partner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/NSMM-v2/dart-service/internal/apperr"
	"github.com/NSMM-v2/dart-service/internal/domain"
	"github.com/NSMM-v2/dart-service/internal/eventbus"
)

type fakeProfiles struct {
	byOwnerCorp map[string]domain.CompanyProfile
}

func ownerKey(owner domain.Owner, corpCode string) string {
	return string(owner.Kind) + ":" + corpCode
}

func (f *fakeProfiles) FindByOwnerAndCorpCode(_ context.Context, owner domain.Owner, corpCode string) (domain.CompanyProfile, bool, error) {
	p, ok := f.byOwnerCorp[ownerKey(owner, corpCode)]
	return p, ok, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p domain.CompanyProfile) (domain.CompanyProfile, error) {
	owner := domain.Owner{}
	if p.HeadquartersID != nil {
		owner = domain.Owner{Kind: domain.OwnerHeadquarters, ID: *p.HeadquartersID}
	} else if p.PartnerID != nil {
		owner = domain.Owner{Kind: domain.OwnerPartner, ID: *p.PartnerID}
	}
	f.byOwnerCorp[ownerKey(owner, p.CorpCode)] = p
	return p, nil
}

type fakeDirectory struct {
	entries map[string]domain.CorpCodeDirectoryEntry
}

func (f *fakeDirectory) FindByCorpCode(_ context.Context, corpCode string) (domain.CorpCodeDirectoryEntry, bool, error) {
	e, ok := f.entries[corpCode]
	return e, ok, nil
}

type fakePartners struct {
	byID map[string]domain.PartnerCompany
}

func (f *fakePartners) FindByID(_ context.Context, id string) (domain.PartnerCompany, bool, error) {
	p, ok := f.byID[id]
	return p, ok, nil
}

func (f *fakePartners) FindActiveByOwnerAndNameIgnoreCase(_ context.Context, owner domain.Owner, name string) (domain.PartnerCompany, bool, error) {
	return f.findByStatus(owner, name, domain.PartnerActive)
}

func (f *fakePartners) FindInactiveByOwnerAndNameIgnoreCase(_ context.Context, owner domain.Owner, name string) (domain.PartnerCompany, bool, error) {
	return f.findByStatus(owner, name, domain.PartnerInactive)
}

func (f *fakePartners) findByStatus(owner domain.Owner, name string, status domain.PartnerStatus) (domain.PartnerCompany, bool, error) {
	for _, p := range f.byID {
		if p.Owner() == owner && strings.EqualFold(p.CompanyName, name) && p.Status == status {
			return p, true, nil
		}
	}
	return domain.PartnerCompany{}, false, nil
}

func (f *fakePartners) ExistsActiveByOwnerAndNameIgnoreCase(_ context.Context, owner domain.Owner, name, excludeID string) (bool, error) {
	for _, p := range f.byID {
		if p.ID == excludeID {
			continue
		}
		if p.Owner() == owner && strings.EqualFold(p.CompanyName, name) && p.Status == domain.PartnerActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePartners) Insert(_ context.Context, p domain.PartnerCompany) (domain.PartnerCompany, error) {
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePartners) Update(_ context.Context, p domain.PartnerCompany) (domain.PartnerCompany, error) {
	f.byID[p.ID] = p
	return p, nil
}

func newTestRegistry() (*Registry, *fakePartners, *eventbus.MemBus) {
	profiles := &fakeProfiles{byOwnerCorp: map[string]domain.CompanyProfile{
		ownerKey(domain.Owner{Kind: domain.OwnerHeadquarters, ID: 1}, "00126380"): {CorpCode: "00126380", CorpName: "삼성전자"},
	}}
	directory := &fakeDirectory{entries: map[string]domain.CorpCodeDirectoryEntry{
		"00126380": {CorpCode: "00126380", CorpName: "삼성전자"},
	}}
	partners := &fakePartners{byID: map[string]domain.PartnerCompany{}}
	bus := eventbus.NewMemBus()
	reg := New(profiles, directory, partners, bus)
	reg.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return reg, partners, bus
}

func TestCreatePartnerCompany_FreshRegistration(t *testing.T) {
	reg, partners, _ := newTestRegistry()
	owner := domain.Owner{Kind: domain.OwnerHeadquarters, ID: 1}

	result, err := reg.CreatePartnerCompany(context.Background(), owner, "00126380", "삼성전자", "2026-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Restored || result.AlreadyExists {
		t.Fatalf("expected a plain fresh creation, got %+v", result)
	}
	if len(partners.byID) != 1 {
		t.Fatalf("expected one partner company to be persisted, got %d", len(partners.byID))
	}
}

func TestCreatePartnerCompany_DuplicateActiveNameReturnsExistingNotError(t *testing.T) {
	reg, _, _ := newTestRegistry()
	owner := domain.Owner{Kind: domain.OwnerHeadquarters, ID: 1}

	first, err := reg.CreatePartnerCompany(context.Background(), owner, "00126380", "삼성전자", "2026-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := reg.CreatePartnerCompany(context.Background(), owner, "00126380", "삼성전자", "2026-02-01")
	if err != nil {
		t.Fatalf("unexpected error on duplicate registration: %v", err)
	}
	if !second.AlreadyExists {
		t.Fatalf("expected AlreadyExists=true on duplicate name, got %+v", second)
	}
	if second.Partner.ID != first.Partner.ID {
		t.Fatalf("expected the existing record to be returned unchanged")
	}
}

func TestCreatePartnerCompany_RestoresInactiveRecord(t *testing.T) {
	reg, partners, _ := newTestRegistry()
	owner := domain.Owner{Kind: domain.OwnerHeadquarters, ID: 1}
	hq := int64(1)

	existingID := "11111111-1111-1111-1111-111111111111"
	partners.byID[existingID] = domain.PartnerCompany{
		ID: existingID, CorpCode: "00126380", HeadquartersID: &hq, UserType: domain.UserTypeHeadquarters,
		CompanyName: "삼성전자", ContractStartDate: "2020-01-01", Status: domain.PartnerInactive,
	}

	result, err := reg.CreatePartnerCompany(context.Background(), owner, "00126380", "삼성전자", "2026-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Restored {
		t.Fatalf("expected the registration to be a restore, got %+v", result)
	}
	if result.Partner.ID != existingID {
		t.Fatalf("expected restore to reuse the existing UUID %s, got %s", existingID, result.Partner.ID)
	}
	if result.Partner.Status != domain.PartnerActive {
		t.Fatalf("expected restored status ACTIVE, got %s", result.Partner.Status)
	}
	if result.Partner.ContractStartDate != "2026-03-01" {
		t.Fatalf("expected contract_start_date to be refreshed, got %s", result.Partner.ContractStartDate)
	}
}

func TestCreatePartnerCompany_UnknownCorpCodeFailsNotFound(t *testing.T) {
	reg, _, _ := newTestRegistry()
	owner := domain.Owner{Kind: domain.OwnerHeadquarters, ID: 99}

	_, err := reg.CreatePartnerCompany(context.Background(), owner, "99999999", "존재하지않는회사", "2026-01-01")
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected NotFound for an unknown corp code, got %v", err)
	}
}

func TestDeletePartnerCompany_SoftDeletes(t *testing.T) {
	reg, partners, _ := newTestRegistry()
	owner := domain.Owner{Kind: domain.OwnerHeadquarters, ID: 1}
	created, err := reg.CreatePartnerCompany(context.Background(), owner, "00126380", "삼성전자", "2026-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted, err := reg.DeletePartnerCompany(context.Background(), created.Partner.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.Status != domain.PartnerInactive {
		t.Fatalf("expected soft delete to set status INACTIVE, got %s", deleted.Status)
	}
	if _, stillThere := partners.byID[created.Partner.ID]; !stillThere {
		t.Fatalf("expected the row to remain in storage after soft delete")
	}
}

func TestCheckDuplicateName_ExcludesSelf(t *testing.T) {
	reg, _, _ := newTestRegistry()
	owner := domain.Owner{Kind: domain.OwnerHeadquarters, ID: 1}
	created, err := reg.CreatePartnerCompany(context.Background(), owner, "00126380", "삼성전자", "2026-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup, err := reg.CheckDuplicateName(context.Background(), owner, "삼성전자", created.Partner.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup {
		t.Fatalf("expected no duplicate when excluding the record's own id")
	}

	dup, err = reg.CheckDuplicateName(context.Background(), owner, "삼성전자", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dup {
		t.Fatalf("expected a duplicate when not excluding any id")
	}
}
