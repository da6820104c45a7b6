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
	"context"

	"github.com/NSMM-v2/dart-service/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Evaluate runs the full twelve-item rubric over rows. It never returns an
// error: every gap in the data degrades to an item with is_at_risk=false and
// an explanatory actual_value or notes string, per the evaluator's never-
// raise contract.
func Evaluate(ctx context.Context, rows []domain.FinancialStatementRow) []Item {
	return []Item{
		itemRevenueDecline(ctx, rows),
		itemOperatingIncomeDecline(ctx, rows),
		itemReceivablesTurnover(ctx, rows),
		itemReceivablesToRevenue(ctx, rows),
		itemPayablesTurnover(ctx, rows),
		itemOperatingLoss(ctx, rows),
		itemNegativeOperatingCashFlow(ctx, rows),
		itemBorrowingsGrowth(ctx, rows),
		itemBorrowingsToAssets(ctx, rows),
		itemShortTermBorrowingsRatio(ctx, rows),
		itemDebtToEquity(ctx, rows),
		itemCapitalImpairment(ctx, rows),
	}
}

// percentChange computes (cur-prev)/|prev| * 100 rounded to four fractional
// digits before the final multiply, the rounding discipline spec.md §4.6
// mandates. ok is false when prev is zero.
func percentChange(cur, prev decimal.Decimal) (decimal.Decimal, bool) {
	if prev.IsZero() {
		return decimal.Zero, false
	}
	ratio := cur.Sub(prev).DivRound(prev.Abs(), 4)
	return ratio.Mul(hundred), true
}

// ratioOf computes numerator/denominator rounded to four fractional digits.
// ok is false when denominator is zero.
func ratioOf(numerator, denominator decimal.Decimal) (decimal.Decimal, bool) {
	if denominator.IsZero() {
		return decimal.Zero, false
	}
	return numerator.DivRound(denominator, 4), true
}

func itemRevenueDecline(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 1, "매출액 30% 이상 감소", "≤ -30%"
	cur, curOK := lookupAmount(ctx, rows, accountRevenue, fieldCurrentPeriod)
	prev, prevOK := lookupAmount(ctx, rows, accountRevenue, fieldPriorPeriod)
	if !curOK || !prevOK {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	change, ok := percentChange(cur, prev)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: "0", Threshold: threshold,
			Notes: "전기 매출액이 0 — 변동률을 정의할 수 없음"}
	}
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatPercent(change),
		IsAtRisk:    change.LessThanOrEqual(decimal.NewFromInt(-30)),
	}
}

func itemOperatingIncomeDecline(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 2, "영업이익 30% 이상 감소", "≤ -30%"
	cur, curOK := lookupAmount(ctx, rows, accountOperatingIncome, fieldCurrentPeriod)
	prev, prevOK := lookupAmount(ctx, rows, accountOperatingIncome, fieldPriorPeriod)
	if !curOK || !prevOK {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	if !prev.IsPositive() {
		return Item{ItemNumber: num, Description: desc, ActualValue: formatAmount(cur), Threshold: threshold,
			Notes: "전기 영업이익이 0 이하 — 비교 대상 아님"}
	}
	change, ok := percentChange(cur, prev)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: "0", Threshold: threshold,
			Notes: "전기 영업이익이 0 — 변동률을 정의할 수 없음"}
	}
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatPercent(change),
		IsAtRisk:    change.LessThanOrEqual(decimal.NewFromInt(-30)),
	}
}

func itemReceivablesTurnover(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 3, "매출채권회전율 3회 이하", "≤ 3"
	revenue, revOK := lookupAmount(ctx, rows, accountRevenue, fieldCurrentPeriod)
	receivables, recOK := lookupAmount(ctx, rows, accountReceivables, fieldCurrentPeriod)
	if !revOK || !recOK {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	turnover, ok := ratioOf(revenue, receivables)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: "0", Threshold: threshold,
			IsAtRisk: false, Notes: "매출채권이 0 — 회전율이 무한대이므로 위험으로 간주하지 않음"}
	}
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatRatio(turnover),
		IsAtRisk:    turnover.LessThanOrEqual(decimal.NewFromInt(3)),
	}
}

func itemReceivablesToRevenue(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 4, "매출채권/매출액 50% 이상", "≥ 50%"
	receivables, recOK := lookupAmount(ctx, rows, accountReceivables, fieldCurrentPeriod)
	revenue, revOK := lookupAmount(ctx, rows, accountRevenue, fieldCurrentPeriod)
	if !recOK || !revOK {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	ratio, ok := ratioOf(receivables, revenue)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: "0", Threshold: threshold,
			IsAtRisk: receivables.IsPositive(), Notes: "매출액이 0 — 비율을 정의할 수 없음"}
	}
	pct := ratio.Mul(hundred)
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatPercent(pct),
		IsAtRisk:    pct.GreaterThanOrEqual(decimal.NewFromInt(50)),
	}
}

func itemPayablesTurnover(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 5, "매입채무회전율 2회 이하 (매출원가 대체 매출액 사용)", "≤ 2"
	revenue, revOK := lookupAmount(ctx, rows, accountRevenue, fieldCurrentPeriod)
	payables, payOK := lookupAmount(ctx, rows, accountPayables, fieldCurrentPeriod)
	if !revOK || !payOK {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	turnover, ok := ratioOf(revenue, payables)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: "0", Threshold: threshold,
			IsAtRisk: false, Notes: "매입채무가 0 — 회전율이 무한대이므로 위험으로 간주하지 않음"}
	}
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatRatio(turnover),
		IsAtRisk:    turnover.LessThanOrEqual(decimal.NewFromInt(2)),
	}
}

func itemOperatingLoss(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 6, "영업손실 발생", "< 0"
	income, ok := lookupAmount(ctx, rows, accountOperatingIncome, fieldCurrentPeriod)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatAmount(income),
		IsAtRisk:    income.IsNegative(),
	}
}

func itemNegativeOperatingCashFlow(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 7, "영업활동 현금흐름 마이너스", "< 0"
	cashFlow, ok := lookupAmount(ctx, rows, accountOperatingCashFlow, fieldCurrentPeriod)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatAmount(cashFlow),
		IsAtRisk:    cashFlow.IsNegative(),
	}
}

// totalBorrowings sums short- and long-term borrowings for field, treating a
// missing leg as zero but requiring at least one to be present.
func totalBorrowings(ctx context.Context, rows []domain.FinancialStatementRow, field periodField) (decimal.Decimal, bool) {
	shortTerm, shortOK := lookupAmount(ctx, rows, accountShortTermBorrow, field)
	longTerm, longOK := lookupAmount(ctx, rows, accountLongTermBorrow, field)
	if !shortOK && !longOK {
		return decimal.Zero, false
	}
	return shortTerm.Add(longTerm), true
}

func itemBorrowingsGrowth(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 8, "총차입금 30% 이상 증가", "≥ 30%"
	cur, curOK := totalBorrowings(ctx, rows, fieldCurrentPeriod)
	prev, prevOK := totalBorrowings(ctx, rows, fieldPriorPeriod)
	if !curOK || !prevOK {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	change, ok := percentChange(cur, prev)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: "0", Threshold: threshold,
			Notes: "전기 차입금이 0 — 변동률을 정의할 수 없음"}
	}
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatPercent(change),
		IsAtRisk:    change.GreaterThanOrEqual(decimal.NewFromInt(30)),
	}
}

func itemBorrowingsToAssets(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 9, "차입금/자산총계 50% 이상", "≥ 50%"
	borrowings, borrowOK := totalBorrowings(ctx, rows, fieldCurrentPeriod)
	assets, assetsOK := lookupAmount(ctx, rows, accountTotalAssets, fieldCurrentPeriod)
	if !borrowOK || !assetsOK {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	ratio, ok := ratioOf(borrowings, assets)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: "0", Threshold: threshold,
			IsAtRisk: borrowings.IsPositive(), Notes: "자산총계가 0 — 비율을 정의할 수 없음"}
	}
	pct := ratio.Mul(hundred)
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatPercent(pct),
		IsAtRisk:    pct.GreaterThanOrEqual(decimal.NewFromInt(50)),
	}
}

func itemShortTermBorrowingsRatio(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 10, "단기차입금 비중 90% 이상", "≥ 90%"
	shortTerm, shortOK := lookupAmount(ctx, rows, accountShortTermBorrow, fieldCurrentPeriod)
	total, totalOK := totalBorrowings(ctx, rows, fieldCurrentPeriod)
	if !shortOK || !totalOK {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	ratio, ok := ratioOf(shortTerm, total)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: "0", Threshold: threshold,
			Notes: "총차입금이 0 — 비율을 정의할 수 없음"}
	}
	pct := ratio.Mul(hundred)
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatPercent(pct),
		IsAtRisk:    pct.GreaterThanOrEqual(decimal.NewFromInt(90)),
	}
}

func itemDebtToEquity(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 11, "부채비율 200% 이상", "≥ 200%"
	liabilities, liabOK := lookupAmount(ctx, rows, accountTotalLiabilities, fieldCurrentPeriod)
	equity, equityOK := lookupAmount(ctx, rows, accountTotalEquity, fieldCurrentPeriod)
	if !liabOK || !equityOK {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	if equity.IsNegative() {
		return Item{
			ItemNumber: num, Description: desc, Threshold: threshold,
			ActualValue: "자본잠식 " + formatAmount(equity),
			IsAtRisk:    true,
			Notes:       "자본총계가 음수(자본잠식)",
		}
	}
	ratio, ok := ratioOf(liabilities, equity)
	if !ok {
		return Item{ItemNumber: num, Description: desc, ActualValue: "0", Threshold: threshold,
			IsAtRisk: liabilities.IsPositive(), Notes: "자본총계가 0 — 비율을 정의할 수 없음"}
	}
	pct := ratio.Mul(hundred)
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatPercent(pct),
		IsAtRisk:    pct.GreaterThanOrEqual(decimal.NewFromInt(200)),
	}
}

func itemCapitalImpairment(ctx context.Context, rows []domain.FinancialStatementRow) Item {
	const num, desc, threshold = 12, "자본잠식 (자본총계 < 자본금)", "true"
	equity, equityOK := lookupAmount(ctx, rows, accountTotalEquity, fieldCurrentPeriod)
	capital, capitalOK := lookupAmount(ctx, rows, accountCapitalStock, fieldCurrentPeriod)
	if !equityOK || !capitalOK {
		return Item{ItemNumber: num, Description: desc, ActualValue: insufficientData, Threshold: threshold}
	}
	return Item{
		ItemNumber: num, Description: desc, Threshold: threshold,
		ActualValue: formatAmount(equity) + " / " + formatAmount(capital),
		IsAtRisk:    equity.LessThan(capital),
	}
}
