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
package eventbus

import "time"

// PartnerAction enumerates the actions a PartnerEvent can carry, per
// spec.md §4.3.
type PartnerAction string

const (
	ActionPartnerRegistered PartnerAction = "partner_company_registered"
	ActionPartnerUpdated    PartnerAction = "partner_company_updated"
	ActionPartnerRestored   PartnerAction = "partner_company_restored"
)

// PartnerEvent is the JSON payload carried on both the inbound
// partner-company-events topic and the outbound partner-company-restored
// topic.
type PartnerEvent struct {
	CorpCode         string        `json:"corp_code,omitempty"`
	Action           PartnerAction `json:"action"`
	PartnerCompanyID string        `json:"partner_company_id,omitempty"`
	HeadquartersID   *int64        `json:"headquarters_id,omitempty"`
	Timestamp        time.Time     `json:"timestamp"`
}
