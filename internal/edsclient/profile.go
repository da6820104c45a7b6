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

	"github.com/NSMM-v2/dart-service/internal/domain"
	"github.com/rs/zerolog"
)

// companyProfileResponse is the JSON envelope DART's company.json endpoint
// returns. Status "000" means OK; anything else is a business error and is
// treated as absent data, not an exception, per spec.md §4.1.
type companyProfileResponse struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	CorpCode        string `json:"corp_code"`
	CorpName        string `json:"corp_name"`
	CorpNameEng     string `json:"corp_name_eng"`
	StockCode       string `json:"stock_code"`
	StockName       string `json:"stock_name"`
	CEOName         string `json:"ceo_nm"`
	CorpClass       string `json:"corp_cls"`
	BusinessNumber  string `json:"bizr_no"`
	RegistrationNo  string `json:"jurir_no"`
	Address         string `json:"adres"`
	HomepageURL     string `json:"hm_url"`
	IRUrl           string `json:"ir_url"`
	PhoneNumber     string `json:"phn_no"`
	FaxNumber       string `json:"fax_no"`
	IndustryCode    string `json:"induty_code"`
	EstablishDate   string `json:"est_dt"`
	AccountingMonth string `json:"acc_mt"`
}

// sentinelFullMockCorpCode is the corp code that, in mock mode, returns a
// fully populated profile rather than the minimal placeholder. Chosen to
// match DART's own published sample corp code for 삼성전자(주).
const sentinelFullMockCorpCode = "00126380"

// GetCompanyProfile fetches the authoritative per-corp record. It returns
// ok=false (not an error) when DART's status is not "000", when the
// response can't be parsed, or when the HTTP call itself fails — profile
// lookups downgrade to empty data rather than propagate, per spec.md §4.1.
func (c *Client) GetCompanyProfile(ctx context.Context, corpCode string) (domain.CompanyProfile, bool) {
	logger := zerolog.Ctx(ctx)

	if c.mock {
		return mockCompanyProfile(corpCode), true
	}

	if err := c.wait(ctx); err != nil {
		logger.Error().Err(err).Str("corp_code", corpCode).Msg("rate limit wait failed fetching company profile")
		return domain.CompanyProfile{}, false
	}

	var resp companyProfileResponse
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("crtfc_key", c.apiKey).
		SetQueryParam("corp_code", corpCode).
		SetResult(&resp).
		Get(c.url(pathCompanyProfile))
	if err != nil {
		logger.Error().Err(err).Str("corp_code", corpCode).Str("api_key", maskKey(c.apiKey)).Msg("getCompanyProfile request failed")
		return domain.CompanyProfile{}, false
	}

	if httpResp.StatusCode() >= 300 {
		logger.Error().Int("status_code", httpResp.StatusCode()).Str("corp_code", corpCode).Msg("getCompanyProfile returned non-2xx")
		return domain.CompanyProfile{}, false
	}

	if resp.Status != statusOK {
		logger.Info().Str("dart_status", resp.Status).Str("dart_message", resp.Message).Str("corp_code", corpCode).Msg("getCompanyProfile business error")
		return domain.CompanyProfile{}, false
	}

	return domain.CompanyProfile{
		CorpCode:        resp.CorpCode,
		CorpName:        resp.CorpName,
		CorpNameEng:     resp.CorpNameEng,
		StockCode:       resp.StockCode,
		StockName:       resp.StockName,
		CEOName:         resp.CEOName,
		MarketClass:     resp.CorpClass,
		BusinessNumber:  resp.BusinessNumber,
		RegistrationNo:  resp.RegistrationNo,
		Address:         resp.Address,
		HomepageURL:     resp.HomepageURL,
		IRUrl:           resp.IRUrl,
		PhoneNumber:     resp.PhoneNumber,
		FaxNumber:       resp.FaxNumber,
		IndustryCode:    resp.IndustryCode,
		EstablishDate:   resp.EstablishDate,
		AccountingMonth: resp.AccountingMonth,
		UserType:        domain.UserTypeUnknown,
	}, true
}

// mockCompanyProfile implements the deterministic offline-development mode
// spec.md §4.1 requires: a full profile for the sentinel corp code, a
// minimal placeholder for everything else.
func mockCompanyProfile(corpCode string) domain.CompanyProfile {
	if corpCode == sentinelFullMockCorpCode {
		return domain.CompanyProfile{
			CorpCode:        corpCode,
			CorpName:        "삼성전자(주)",
			CorpNameEng:     "SAMSUNG ELECTRONICS CO,.LTD",
			StockCode:       "005930",
			StockName:       "삼성전자",
			CEOName:         "한종희, 경계현",
			MarketClass:     "Y",
			BusinessNumber:  "1248100998",
			RegistrationNo:  "1301110006246",
			Address:         "경기도 수원시 영통구 삼성로 129 (매탄동)",
			HomepageURL:     "www.sec.co.kr",
			IRUrl:           "www.sec.co.kr",
			PhoneNumber:     "031-200-1114",
			FaxNumber:       "031-200-7538",
			IndustryCode:    "26410",
			EstablishDate:   "19690113",
			AccountingMonth: "12",
			UserType:        domain.UserTypeUnknown,
		}
	}

	return domain.CompanyProfile{
		CorpCode:     corpCode,
		CorpName:     "테스트 회사명",
		IndustryCode: "12345",
		UserType:     domain.UserTypeUnknown,
	}
}
