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

// Account names the rubric matches literally against account_name, the
// fixed Korean accounting vocabulary the core does not attempt to reconcile
// against taxonomic identifiers.
const (
	accountRevenue          = "매출액"
	accountOperatingIncome  = "영업이익"
	accountReceivables      = "매출채권"
	accountPayables         = "매입채무"
	accountOperatingCashFlow = "영업활동으로인한현금흐름"
	accountShortTermBorrow  = "단기차입금"
	accountLongTermBorrow   = "장기차입금"
	accountTotalAssets      = "자산총계"
	accountTotalLiabilities = "부채총계"
	accountTotalEquity      = "자본총계"
	accountCapitalStock     = "자본금"
)
