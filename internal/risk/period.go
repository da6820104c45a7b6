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

import (
	"fmt"
	"strconv"
	"time"

	"github.com/NSMM-v2/dart-service/internal/apperr"
	"github.com/NSMM-v2/dart-service/internal/domain"
)

const minBusinessYear = 2000
const maxBusinessYear = 2030

// AutomaticTuple picks the (business_year, report_code) most recent filing
// likely to be available as of now, per spec.md §4.6's month-range table.
func AutomaticTuple(now time.Time) (businessYear string, reportCode domain.ReportCode) {
	year := now.Year()
	switch now.Month() {
	case time.January, time.February, time.March:
		return strconv.Itoa(year - 1), domain.ReportQ3
	case time.April, time.May, time.June:
		return strconv.Itoa(year - 1), domain.ReportAnnual
	case time.July, time.August, time.September:
		return strconv.Itoa(year), domain.ReportQ1
	default:
		return strconv.Itoa(year), domain.ReportHalf
	}
}

// ValidateManualTuple enforces the manual-selection bounds: a four-digit
// year between 2000 and 2030 and a recognized report code.
func ValidateManualTuple(businessYear string, reportCode domain.ReportCode) error {
	if len(businessYear) != 4 {
		return apperr.Invalid("business_year %q must be a 4-digit year", businessYear)
	}
	year, err := strconv.Atoi(businessYear)
	if err != nil {
		return apperr.Invalid("business_year %q is not numeric", businessYear)
	}
	if year < minBusinessYear || year > maxBusinessYear {
		return apperr.Invalid("business_year %d out of range [%d, %d]", year, minBusinessYear, maxBusinessYear)
	}
	if !reportCode.Valid() {
		return apperr.Invalid("report_code %q is not one of the four recognized codes", reportCode)
	}
	return nil
}

// reportCodeName returns the Korean-language name of a filing period.
func reportCodeName(r domain.ReportCode) string {
	switch r {
	case domain.ReportAnnual:
		return "사업보고서"
	case domain.ReportHalf:
		return "반기보고서"
	case domain.ReportQ1:
		return "1분기보고서"
	case domain.ReportQ3:
		return "3분기보고서"
	default:
		return string(r)
	}
}

// periodDescription renders a Korean-language description of a filing
// period, e.g. "2024년 사업보고서".
func periodDescription(businessYear string, reportCode domain.ReportCode) string {
	return fmt.Sprintf("%s년 %s", businessYear, reportCodeName(reportCode))
}

// PeriodOption is one entry of the available-periods listing, each
// annotated with a human-readable name, a Korean description, its row
// count, and whether it is the tuple automatic selection would have chosen.
type PeriodOption struct {
	BusinessYear         string            `json:"business_year"`
	ReportCode           domain.ReportCode `json:"report_code"`
	Name                 string            `json:"name"`
	Description          string            `json:"description"`
	RowCount             int               `json:"row_count"`
	IsAutomaticSelection bool              `json:"is_automatic_selection"`
}
