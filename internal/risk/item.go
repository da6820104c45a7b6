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
package risk

import "github.com/NSMM-v2/dart-service/internal/domain"

// Item is one line of the twelve-item assessment.
type Item struct {
	ItemNumber  int    `json:"item_number"`
	Description string `json:"description"`
	IsAtRisk    bool   `json:"is_at_risk"`
	ActualValue string `json:"actual_value"`
	Threshold   string `json:"threshold"`
	Notes       string `json:"notes,omitempty"`
}

// Assessment is the full result of evaluating one statement tuple.
type Assessment struct {
	CorpCode     string            `json:"corp_code"`
	BusinessYear string            `json:"business_year"`
	ReportCode   domain.ReportCode `json:"report_code"`
	Items        []Item            `json:"items"`
}

// dataUnavailableAssessment is the synthetic single-item response returned
// when no rows exist for the requested tuple (spec scenario 6).
func dataUnavailableAssessment(corpCode, year string, reportCode domain.ReportCode) Assessment {
	return Assessment{
		CorpCode:     corpCode,
		BusinessYear: year,
		ReportCode:   reportCode,
		Items: []Item{{
			ItemNumber:  0,
			Description: "재무 정보 조회",
			IsAtRisk:    true,
			ActualValue: insufficientData,
			Threshold:   "-",
			Notes:       "해당 기간에 동기화된 재무제표가 없습니다",
		}},
	}
}
