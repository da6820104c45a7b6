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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NSMM-v2/dart-service/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		EDSBaseURL:      srv.URL,
		EDSAPIKey:       "real-key",
		EDSTimeout:      5 * time.Second,
		RateLimitPerSec: 1000,
	}
	return New(cfg), srv
}

func TestGetCompanyProfile_StatusOK(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"000","message":"OK","corp_code":"00126380","corp_name":"삼성전자(주)","ceo_nm":"한종희","induty_code":"26410"}`))
	})

	profile, ok := client.GetCompanyProfile(context.Background(), "00126380")
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if profile.CorpName != "삼성전자(주)" {
		t.Errorf("CorpName = %q, want 삼성전자(주)", profile.CorpName)
	}
	if profile.CEOName != "한종희" {
		t.Errorf("CEOName = %q, want 한종희", profile.CEOName)
	}
}

func TestGetCompanyProfile_NonOKStatusIsEmpty(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"013","message":"no data"}`))
	})

	profile, ok := client.GetCompanyProfile(context.Background(), "99999999")
	if ok {
		t.Fatalf("expected ok=false for non-OK DART status")
	}
	if profile.CorpCode != "" {
		t.Errorf("expected empty profile, got %+v", profile)
	}
}

func TestGetCompanyProfile_HTTPErrorIsEmpty(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, ok := client.GetCompanyProfile(context.Background(), "00126380")
	if ok {
		t.Fatalf("expected ok=false on 5xx")
	}
}

func TestGetCompanyProfile_MockMode(t *testing.T) {
	cfg := config.Config{EDSAPIKey: config.Placeholder}
	client := New(cfg)

	full, ok := client.GetCompanyProfile(context.Background(), sentinelFullMockCorpCode)
	if !ok || full.CorpName != "삼성전자(주)" {
		t.Fatalf("expected full mock profile for sentinel code, got %+v ok=%v", full, ok)
	}

	minimal, ok := client.GetCompanyProfile(context.Background(), "00000001")
	if !ok || minimal.CorpName != "테스트 회사명" || minimal.IndustryCode != "12345" {
		t.Fatalf("expected minimal mock profile, got %+v ok=%v", minimal, ok)
	}
	if minimal.CEOName != "" {
		t.Errorf("minimal mock profile should have no CEO name, got %q", minimal.CEOName)
	}
}

func TestSearchDisclosures_Pagination(t *testing.T) {
	calls := 0
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page_no") == "1" {
			w.Write([]byte(`{"status":"000","message":"OK","page_no":1,"total_page":2,
				"list":[{"corp_code":"00126380","rcept_no":"A1","rcept_dt":"20240101","report_nm":"사업보고서"}]}`))
			return
		}
		w.Write([]byte(`{"status":"000","message":"OK","page_no":2,"total_page":2,
			"list":[{"corp_code":"00126380","rcept_no":"A2","rcept_dt":"20240102","report_nm":"반기보고서"}]}`))
	})

	begin := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	disclosures, err := client.SearchDisclosures(context.Background(), "00126380", begin, end)
	if err != nil {
		t.Fatalf("SearchDisclosures: %v", err)
	}
	if len(disclosures) != 2 {
		t.Fatalf("expected 2 disclosures across pages, got %d", len(disclosures))
	}
	if calls != 2 {
		t.Fatalf("expected 2 page requests, got %d", calls)
	}
}

func TestSearchDisclosures_NonOKStatusIsEmptyNotError(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"013","message":"no data"}`))
	})

	disclosures, err := client.SearchDisclosures(context.Background(), "00126380", time.Now(), time.Now())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(disclosures) != 0 {
		t.Fatalf("expected no disclosures, got %d", len(disclosures))
	}
}

func TestGetFinancialStatement_ParsesRows(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"000","message":"OK","list":[
			{"corp_code":"00126380","sj_div":"IS","account_id":"ifrs-full_Revenue","account_nm":"매출액","thstrm_amount":"1,000,000,000","frmtrm_amount":"2,000,000,000"}
		]}`))
	})

	rows, err := client.GetFinancialStatement(context.Background(), "00126380", "2023", "11011", "OFS")
	if err != nil {
		t.Fatalf("GetFinancialStatement: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].AccountName != "매출액" || rows[0].CurrentPeriodAmount != "1,000,000,000" {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestGetFinancialStatement_NonOKStatusIsEmpty(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"013","message":"no data"}`))
	})

	rows, err := client.GetFinancialStatement(context.Background(), "00126380", "2023", "11011", "OFS")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rows != nil {
		t.Fatalf("expected nil rows, got %+v", rows)
	}
}
