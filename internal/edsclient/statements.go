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
package edsclient

import (
	"context"
	"fmt"

	"github.com/NSMM-v2/dart-service/internal/apperr"
	"github.com/NSMM-v2/dart-service/internal/domain"
)

type financialStatementResponse struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message"`
	List    []financialStatementItem `json:"list"`
}

type financialStatementItem struct {
	CorpCode          string `json:"corp_code"`
	StatementDivision string `json:"sj_div"`
	AccountID         string `json:"account_id"`
	AccountName       string `json:"account_nm"`

	CurrentPeriodLabel        string `json:"thstrm_nm"`
	CurrentPeriodAmount       string `json:"thstrm_amount"`
	PriorPeriodLabel          string `json:"frmtrm_nm"`
	PriorPeriodAmount         string `json:"frmtrm_amount"`
	QuarterAccumCurrentAmount string `json:"thstrm_add_amount"`
	QuarterAccumPriorAmount   string `json:"frmtrm_add_amount"`
	TwoPeriodsPriorLabel      string `json:"bfefrmtrm_nm"`
	TwoPeriodsPriorAmount     string `json:"bfefrmtrm_amount"`

	Currency string `json:"currency"`
}

// GetFinancialStatement fetches every line item of one company's single
// financial statement for the given year, report code, and division. A
// DART business error (status != "000") is treated as "no rows" — callers
// should not distinguish it from a filing that genuinely has no statement
// for that tuple. Transport/4xx/5xx failures surface as ErrExternalSource.
func (c *Client) GetFinancialStatement(ctx context.Context, corpCode, businessYear string, reportCode domain.ReportCode, division domain.StatementDivision) ([]domain.FinancialStatementRow, error) {
	if c.mock {
		return nil, apperr.ExternalSource("financial statement fetch unavailable in mock mode", nil)
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var resp financialStatementResponse
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("crtfc_key", c.apiKey).
		SetQueryParam("corp_code", corpCode).
		SetQueryParam("bsns_year", businessYear).
		SetQueryParam("reprt_code", string(reportCode)).
		SetQueryParam("fs_div", string(division)).
		SetResult(&resp).
		Get(c.url(pathFinancialStatement))
	if err != nil {
		return nil, apperr.ExternalSource(fmt.Sprintf("fetching financial statement for %s/%s/%s", corpCode, businessYear, reportCode), err)
	}

	if httpResp.StatusCode() >= 300 {
		return nil, apperr.ExternalSource(fmt.Sprintf("financial statement fetch returned status %d", httpResp.StatusCode()), nil)
	}

	if resp.Status != statusOK {
		return nil, nil
	}

	rows := make([]domain.FinancialStatementRow, 0, len(resp.List))
	for _, item := range resp.List {
		rows = append(rows, domain.FinancialStatementRow{
			CorpCode:                  corpCode,
			BusinessYear:              businessYear,
			ReportCode:                reportCode,
			StatementDivision:         domain.StatementDivision(item.StatementDivision),
			AccountID:                 item.AccountID,
			AccountName:               item.AccountName,
			CurrentPeriodLabel:        item.CurrentPeriodLabel,
			CurrentPeriodAmount:       item.CurrentPeriodAmount,
			PriorPeriodLabel:          item.PriorPeriodLabel,
			PriorPeriodAmount:         item.PriorPeriodAmount,
			QuarterAccumCurrentAmount: item.QuarterAccumCurrentAmount,
			QuarterAccumPriorAmount:   item.QuarterAccumPriorAmount,
			TwoPeriodsPriorLabel:      item.TwoPeriodsPriorLabel,
			TwoPeriodsPriorAmount:     item.TwoPeriodsPriorAmount,
			Currency:                  item.Currency,
		})
	}

	return rows, nil
}
