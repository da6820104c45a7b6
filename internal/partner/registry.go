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

// Package partner is the owner-scoped bookkeeping of partner company
// registrations: create, update, soft-delete, restore, and the duplicate-
// name policy that keeps at most one ACTIVE record per name within an
// owner's scope. Registration publishes onto the event bus for the
// ingestion coordinator to pick up.
package partner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NSMM-v2/dart-service/internal/apperr"
	"github.com/NSMM-v2/dart-service/internal/domain"
	"github.com/NSMM-v2/dart-service/internal/eventbus"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const inboundTopic = "partner-company-events"
const outboundTopic = "partner-company-restored"

// ProfileStore is the profile-existence dependency registration needs.
type ProfileStore interface {
	FindByOwnerAndCorpCode(ctx context.Context, owner domain.Owner, corpCode string) (domain.CompanyProfile, bool, error)
	Upsert(ctx context.Context, p domain.CompanyProfile) (domain.CompanyProfile, error)
}

// DirectoryStore is the directory-fallback dependency for synthesizing a
// profile when none exists yet.
type DirectoryStore interface {
	FindByCorpCode(ctx context.Context, corpCode string) (domain.CorpCodeDirectoryEntry, bool, error)
}

// PartnerStore is the persistence-layer dependency for PartnerCompany rows.
type PartnerStore interface {
	FindByID(ctx context.Context, id string) (domain.PartnerCompany, bool, error)
	FindActiveByOwnerAndNameIgnoreCase(ctx context.Context, owner domain.Owner, name string) (domain.PartnerCompany, bool, error)
	FindInactiveByOwnerAndNameIgnoreCase(ctx context.Context, owner domain.Owner, name string) (domain.PartnerCompany, bool, error)
	ExistsActiveByOwnerAndNameIgnoreCase(ctx context.Context, owner domain.Owner, name, excludeID string) (bool, error)
	Insert(ctx context.Context, p domain.PartnerCompany) (domain.PartnerCompany, error)
	Update(ctx context.Context, p domain.PartnerCompany) (domain.PartnerCompany, error)
}

// Registry implements createPartnerCompany, updatePartnerCompany,
// deletePartnerCompany, and the duplicate-name check, per spec.md §4.5.
type Registry struct {
	profiles  ProfileStore
	directory DirectoryStore
	partners  PartnerStore
	bus       eventbus.Bus
	now       func() time.Time
	newID     func() string
}

// New builds a Registry over its dependencies.
func New(profiles ProfileStore, directory DirectoryStore, partners PartnerStore, bus eventbus.Bus) *Registry {
	return &Registry{
		profiles:  profiles,
		directory: directory,
		partners:  partners,
		bus:       bus,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// CreateResult reports whether registration restored a soft-deleted record
// rather than creating a fresh one, and whether it resolved to an existing
// ACTIVE record under the duplicate-name policy.
type CreateResult struct {
	Partner    domain.PartnerCompany
	Restored   bool
	AlreadyExists bool
}

// CreatePartnerCompany runs the full registration algorithm of §4.5.
func (r *Registry) CreatePartnerCompany(ctx context.Context, owner domain.Owner, corpCode, companyName, contractStartDate string) (CreateResult, error) {
	if _, err := r.ensureProfile(ctx, owner, corpCode); err != nil {
		return CreateResult{}, err
	}

	if existingActive, ok, err := r.partners.FindActiveByOwnerAndNameIgnoreCase(ctx, owner, companyName); err != nil {
		return CreateResult{}, fmt.Errorf("checking active duplicate: %w", err)
	} else if ok {
		return CreateResult{Partner: existingActive, AlreadyExists: true}, nil
	}

	if inactive, ok, err := r.partners.FindInactiveByOwnerAndNameIgnoreCase(ctx, owner, companyName); err != nil {
		return CreateResult{}, fmt.Errorf("checking restorable record: %w", err)
	} else if ok {
		restored := inactive
		restored.CorpCode = corpCode
		restored.Status = domain.PartnerActive
		restored.ContractStartDate = contractStartDate
		applyOwner(&restored, owner)
		restored.UpdatedAt = r.now()

		saved, err := r.partners.Update(ctx, restored)
		if err != nil {
			return CreateResult{}, fmt.Errorf("restoring partner company %s: %w", restored.ID, err)
		}
		r.publishRestored(ctx, saved)
		r.publish(ctx, inboundTopic, saved, eventbus.ActionPartnerRegistered)
		return CreateResult{Partner: saved, Restored: true}, nil
	}

	fresh := domain.PartnerCompany{
		ID:                r.newID(),
		CorpCode:          corpCode,
		UserType:          ownerUserType(owner),
		CompanyName:       companyName,
		ContractStartDate: contractStartDate,
		Status:            domain.PartnerActive,
		AccountCreated:    false,
		CreatedAt:         r.now(),
		UpdatedAt:         r.now(),
	}
	applyOwner(&fresh, owner)

	saved, err := r.partners.Insert(ctx, fresh)
	if err != nil {
		return CreateResult{}, fmt.Errorf("creating partner company: %w", err)
	}
	r.publish(ctx, inboundTopic, saved, eventbus.ActionPartnerRegistered)
	return CreateResult{Partner: saved}, nil
}

// UpdatePartnerCompany mutates only corp_code, contract_start_date, and
// status. A corp_code change requires a profile to already exist for the
// new code within the same owner scope.
func (r *Registry) UpdatePartnerCompany(ctx context.Context, owner domain.Owner, id, corpCode, contractStartDate string, status domain.PartnerStatus) (domain.PartnerCompany, error) {
	existing, ok, err := r.partners.FindByID(ctx, id)
	if err != nil {
		return domain.PartnerCompany{}, fmt.Errorf("loading partner company %s: %w", id, err)
	}
	if !ok {
		return domain.PartnerCompany{}, apperr.NotFound("partner company %s not found", id)
	}

	if corpCode != existing.CorpCode {
		if _, found, err := r.profiles.FindByOwnerAndCorpCode(ctx, owner, corpCode); err != nil {
			return domain.PartnerCompany{}, fmt.Errorf("checking profile for %s: %w", corpCode, err)
		} else if !found {
			return domain.PartnerCompany{}, apperr.NotFound("no profile exists for corp code %s in this owner scope", corpCode)
		}
	}

	existing.CorpCode = corpCode
	existing.ContractStartDate = contractStartDate
	existing.Status = status
	existing.UpdatedAt = r.now()

	saved, err := r.partners.Update(ctx, existing)
	if err != nil {
		return domain.PartnerCompany{}, fmt.Errorf("updating partner company %s: %w", id, err)
	}
	r.publish(ctx, inboundTopic, saved, eventbus.ActionPartnerUpdated)
	return saved, nil
}

// DeletePartnerCompany soft-deletes by flipping status to INACTIVE.
func (r *Registry) DeletePartnerCompany(ctx context.Context, id string) (domain.PartnerCompany, error) {
	existing, ok, err := r.partners.FindByID(ctx, id)
	if err != nil {
		return domain.PartnerCompany{}, fmt.Errorf("loading partner company %s: %w", id, err)
	}
	if !ok {
		return domain.PartnerCompany{}, apperr.NotFound("partner company %s not found", id)
	}
	existing.Status = domain.PartnerInactive
	existing.UpdatedAt = r.now()
	return r.partners.Update(ctx, existing)
}

// CheckDuplicateName reports whether owner already has an ACTIVE partner
// company named name, optionally excluding excludeID (edit-self scenarios).
func (r *Registry) CheckDuplicateName(ctx context.Context, owner domain.Owner, name, excludeID string) (bool, error) {
	return r.partners.ExistsActiveByOwnerAndNameIgnoreCase(ctx, owner, name, excludeID)
}

func (r *Registry) ensureProfile(ctx context.Context, owner domain.Owner, corpCode string) (domain.CompanyProfile, error) {
	if profile, ok, err := r.profiles.FindByOwnerAndCorpCode(ctx, owner, corpCode); err != nil {
		return domain.CompanyProfile{}, fmt.Errorf("checking profile for %s: %w", corpCode, err)
	} else if ok {
		return profile, nil
	}

	entry, found, err := r.directory.FindByCorpCode(ctx, corpCode)
	if err != nil {
		return domain.CompanyProfile{}, fmt.Errorf("looking up corp code directory: %w", err)
	}
	if !found {
		return domain.CompanyProfile{}, apperr.NotFound("corp code %s not found in directory", corpCode)
	}

	fresh := domain.CompanyProfile{
		CorpCode: corpCode,
		CorpName: entry.CorpName,
		UserType: ownerUserType(owner),
	}
	applyOwnerToProfile(&fresh, owner)
	return r.profiles.Upsert(ctx, fresh)
}

func applyOwner(p *domain.PartnerCompany, owner domain.Owner) {
	p.HeadquartersID = nil
	p.PartnerID = nil
	switch owner.Kind {
	case domain.OwnerHeadquarters:
		id := owner.ID
		p.HeadquartersID = &id
	case domain.OwnerPartner:
		id := owner.ID
		p.PartnerID = &id
	}
	p.UserType = ownerUserType(owner)
}

func applyOwnerToProfile(p *domain.CompanyProfile, owner domain.Owner) {
	p.HeadquartersID = nil
	p.PartnerID = nil
	switch owner.Kind {
	case domain.OwnerHeadquarters:
		id := owner.ID
		p.HeadquartersID = &id
	case domain.OwnerPartner:
		id := owner.ID
		p.PartnerID = &id
	}
}

func ownerUserType(owner domain.Owner) domain.UserType {
	switch owner.Kind {
	case domain.OwnerHeadquarters:
		return domain.UserTypeHeadquarters
	case domain.OwnerPartner:
		return domain.UserTypePartner
	default:
		return domain.UserTypeUnknown
	}
}

// publish emits a PartnerEvent for p onto topic. Publish failures are
// logged, not surfaced — fire-and-forget from the caller's perspective but
// observed, per the design note.
func (r *Registry) publish(ctx context.Context, topic string, p domain.PartnerCompany, action eventbus.PartnerAction) {
	evt := eventbus.PartnerEvent{
		CorpCode:         p.CorpCode,
		Action:           action,
		PartnerCompanyID: p.ID,
		HeadquartersID:   p.HeadquartersID,
		Timestamp:        r.now(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("partner_company_id", p.ID).Msg("partner: failed to marshal event")
		return
	}
	if err := r.bus.Publish(ctx, topic, p.CorpCode, payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("topic", topic).Str("partner_company_id", p.ID).
			Msg("partner: failed to publish event")
	}
}

// publishRestored emits the restored PartnerCompany record itself — not a
// PartnerEvent envelope — onto outboundTopic, keyed by the partner UUID, per
// spec.md §6's "payload identical to the partner response record" contract.
func (r *Registry) publishRestored(ctx context.Context, p domain.PartnerCompany) {
	payload, err := json.Marshal(p)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("partner_company_id", p.ID).Msg("partner: failed to marshal restored record")
		return
	}
	if err := r.bus.Publish(ctx, outboundTopic, p.ID, payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("topic", outboundTopic).Str("partner_company_id", p.ID).
			Msg("partner: failed to publish restored record")
	}
}
