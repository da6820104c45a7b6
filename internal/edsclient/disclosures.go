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
	"time"

	"github.com/NSMM-v2/dart-service/internal/apperr"
	"github.com/NSMM-v2/dart-service/internal/domain"
)

type disclosureListResponse struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	PageNo     int               `json:"page_no"`
	PageCount  int               `json:"page_count"`
	TotalCount int               `json:"total_count"`
	TotalPage  int               `json:"total_page"`
	List       []disclosureEntry `json:"list"`
}

type disclosureEntry struct {
	CorpCode      string `json:"corp_code"`
	CorpName      string `json:"corp_name"`
	StockCode     string `json:"stock_code"`
	CorpClass     string `json:"corp_cls"`
	ReportName    string `json:"report_nm"`
	ReceiptNo     string `json:"rcept_no"`
	SubmitterName string `json:"flr_nm"`
	ReceiptDate   string `json:"rcept_dt"` // YYYYMMDD
	Remark        string `json:"rm"`
}

// SearchDisclosures returns every disclosure DART reports for corpCode
// between begin and end (inclusive), paging through the API at 100 rows per
// page per spec.md §4.1. A non-2xx or transport failure surfaces as
// ErrExternalSource; a DART business error (status != "000") is treated as
// zero results, since DART uses that status to mean "no matching filings".
func (c *Client) SearchDisclosures(ctx context.Context, corpCode string, begin, end time.Time) ([]domain.Disclosure, error) {
	if c.mock {
		return nil, apperr.ExternalSource("disclosure search unavailable in mock mode", nil)
	}

	var all []domain.Disclosure
	page := 1

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		var resp disclosureListResponse
		httpResp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("crtfc_key", c.apiKey).
			SetQueryParam("corp_code", corpCode).
			SetQueryParam("bgn_de", begin.Format("20060102")).
			SetQueryParam("end_de", end.Format("20060102")).
			SetQueryParam("page_no", fmt.Sprintf("%d", page)).
			SetQueryParam("page_count", fmt.Sprintf("%d", disclosurePageSize)).
			SetResult(&resp).
			Get(c.url(pathDisclosureList))
		if err != nil {
			return nil, apperr.ExternalSource(fmt.Sprintf("searching disclosures for %s", corpCode), err)
		}

		if httpResp.StatusCode() >= 300 {
			return nil, apperr.ExternalSource(fmt.Sprintf("disclosure search returned status %d", httpResp.StatusCode()), nil)
		}

		if resp.Status != statusOK {
			// Business error (e.g. "no data") — not a transport failure.
			return all, nil
		}

		for _, e := range resp.List {
			receiptDate, parseErr := time.Parse("20060102", e.ReceiptDate)
			if parseErr != nil {
				continue
			}
			all = append(all, domain.Disclosure{
				ReceiptNo:     e.ReceiptNo,
				CorpCode:      e.CorpCode,
				CorpName:      e.CorpName,
				StockCode:     e.StockCode,
				CorpClass:     e.CorpClass,
				ReportName:    e.ReportName,
				SubmitterName: e.SubmitterName,
				ReceiptDate:   receiptDate,
				Remark:        e.Remark,
			})
		}

		if page >= resp.TotalPage || len(resp.List) == 0 {
			break
		}
		page++
	}

	return all, nil
}
