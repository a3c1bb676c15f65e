package domain

// PeriodDatum holds one reporting period's raw financial facts.
//
// Every numeric field is a pointer: nil means the value was absent from the
// source document, which is different from an explicit zero. Ratio guards
// depend on that distinction (a zero-liability company has a defined ratio,
// a missing-liability company does not).
type PeriodDatum struct {
	PeriodLabel            string   `json:"periodLabel"`
	Revenue                *float64 `json:"revenue,omitempty"`
	CostOfGoodsSold        *float64 `json:"costOfGoodsSold,omitempty"`
	OperatingExpenses      *float64 `json:"operatingExpenses,omitempty"`
	NetIncome              *float64 `json:"netIncome,omitempty"`
	Assets                 *float64 `json:"assets,omitempty"`
	Liabilities            *float64 `json:"liabilities,omitempty"`
	Equity                 *float64 `json:"equity,omitempty"`
	InterestExpense        *float64 `json:"interestExpense,omitempty"`
	Inventory              *float64 `json:"inventory,omitempty"`
	Receivables            *float64 `json:"receivables,omitempty"`
	Payables               *float64 `json:"payables,omitempty"`
	CashFlowFromOperations *float64 `json:"cashFlowFromOperations,omitempty"`
}

// Float returns a pointer to v. Convenience for building PeriodDatum literals.
func Float(v float64) *float64 {
	return &v
}
