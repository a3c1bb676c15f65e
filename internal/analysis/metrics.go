package analysis

import (
	"auditlens/pkg/contracts/domain"
)

// ComputeMetrics derives the standard ratio set from the latest period of the
// history. Each ratio is computed independently: if any required input is
// absent or its denominator guard fails, that ratio is omitted rather than
// reported as zero.
//
// Liquidity ratios intentionally default missing assets and inventory to 0
// instead of omitting the ratio. Missing balance-sheet exposure counts as
// zero exposure there, unlike the profitability ratios where a missing input
// means the ratio is undefined. Both behaviors are contractual.
func ComputeMetrics(periods []domain.PeriodDatum) domain.FinancialMetrics {
	var m domain.FinancialMetrics
	if len(periods) == 0 {
		return m
	}
	last := periods[len(periods)-1]

	// Profitability: all inputs must be present, revenue/equity non-zero.
	if last.Revenue != nil && last.CostOfGoodsSold != nil && *last.Revenue != 0 {
		m.Profitability.GrossMargin = domain.Float((*last.Revenue - *last.CostOfGoodsSold) / *last.Revenue)
	}
	if last.NetIncome != nil && last.Revenue != nil && *last.Revenue != 0 {
		m.Profitability.NetMargin = domain.Float(*last.NetIncome / *last.Revenue)
	}
	if last.NetIncome != nil && last.Equity != nil && *last.Equity != 0 {
		m.Profitability.ReturnOnEquity = domain.Float(*last.NetIncome / *last.Equity)
	}

	// Liquidity: zero-default policy for assets and inventory.
	assets := valueOrZero(last.Assets)
	liabilities := valueOrZero(last.Liabilities)
	if liabilities != 0 {
		m.Liquidity.CurrentRatio = domain.Float(assets / liabilities)
		inventory := valueOrZero(last.Inventory)
		m.Liquidity.QuickRatio = domain.Float((assets - inventory) / liabilities)
	}

	// Solvency: present and non-zero on both sides.
	if present(last.Liabilities) && present(last.Equity) {
		m.Solvency.DebtToEquity = domain.Float(*last.Liabilities / *last.Equity)
	}
	if present(last.NetIncome) && present(last.InterestExpense) {
		m.Solvency.InterestCoverage = domain.Float(*last.NetIncome / *last.InterestExpense)
	}

	// Efficiency.
	if present(last.Inventory) && present(last.CostOfGoodsSold) {
		m.Efficiency.InventoryTurnover = domain.Float(*last.CostOfGoodsSold / *last.Inventory)
	}
	avgReceivables := average(collect(periods, func(p domain.PeriodDatum) *float64 { return p.Receivables }))
	if avgReceivables != 0 && present(last.Revenue) {
		m.Efficiency.ReceivablesTurnover = domain.Float(*last.Revenue / avgReceivables)
	}

	return m
}

// present reports whether the value exists and is non-zero. Ratios guarded by
// present treat an explicit zero the same as a missing value: undefined.
func present(v *float64) bool {
	return v != nil && *v != 0
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func collect(periods []domain.PeriodDatum, pick func(domain.PeriodDatum) *float64) []float64 {
	var out []float64
	for _, p := range periods {
		if v := pick(p); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
