package analysis

import (
	"fmt"

	"auditlens/pkg/contracts/domain"
)

// requiredLatestFields are scanned for the compliance missing-field check.
const (
	fieldRevenue     = "revenue"
	fieldNetIncome   = "netIncome"
	fieldAssets      = "assets"
	fieldLiabilities = "liabilities"
)

// BuildAnalysis composes the full deterministic DocumentAnalysis for a period
// history. It is always available without any agent involvement and serves
// as the seed shown before, or in the absence of, an agent response.
func BuildAnalysis(periods []domain.PeriodDatum) domain.DocumentAnalysis {
	return domain.DocumentAnalysis{
		ExecutiveSummary:  BuildExecutiveSummary(periods),
		FinancialMetrics:  ComputeMetrics(periods),
		ComplianceAndRisk: BuildComplianceRisk(periods),
		Trends:            domain.TrendSummary{Periods: periods},
		Anomalies:         DetectAnomalies(periods),
		Structure:         structureOutline(),
		AuditHighlights:   auditHighlights(),
		SupportingLinks:   []domain.SupportingLink{},
		AISuggestions:     heuristicSuggestions(periods),
	}
}

// BuildExecutiveSummary pulls headline figures from the latest period and
// reports the period-over-period revenue change when both the latest and
// prior revenues are present.
func BuildExecutiveSummary(periods []domain.PeriodDatum) domain.ExecutiveSummary {
	summary := domain.ExecutiveSummary{
		Purpose:      "Financial statement analysis",
		MajorChanges: []string{},
	}
	if len(periods) == 0 {
		return summary
	}
	last := periods[len(periods)-1]
	summary.ReportingPeriod = last.PeriodLabel
	summary.KeyHighlights = domain.KeyHighlights{
		Revenue:     last.Revenue,
		NetIncome:   last.NetIncome,
		Assets:      last.Assets,
		Liabilities: last.Liabilities,
	}

	if len(periods) >= 2 {
		prior := periods[len(periods)-2]
		if last.Revenue != nil && prior.Revenue != nil {
			delta := *last.Revenue - *prior.Revenue
			pct := 0.0
			if *prior.Revenue != 0 {
				pct = delta / *prior.Revenue * 100
			}
			summary.MajorChanges = append(summary.MajorChanges,
				fmt.Sprintf("Revenue change vs prior: %.1f%%", pct))
		}
	}
	return summary
}

// BuildComplianceRisk reports which headline fields are missing from the
// latest period. The unusual-transaction and non-compliance lists stay empty
// on the deterministic path; only agent responses populate them.
func BuildComplianceRisk(periods []domain.PeriodDatum) domain.ComplianceRiskIndicators {
	indicators := domain.ComplianceRiskIndicators{
		MissingOrInconsistent: []string{},
		UnusualTransactions:   []string{},
		LateFilingsOrDelays:   []string{},
		NonComplianceNotes:    []string{},
	}

	var last domain.PeriodDatum
	if len(periods) > 0 {
		last = periods[len(periods)-1]
	}
	checks := []struct {
		name  string
		value *float64
	}{
		{fieldRevenue, last.Revenue},
		{fieldNetIncome, last.NetIncome},
		{fieldAssets, last.Assets},
		{fieldLiabilities, last.Liabilities},
	}
	for _, c := range checks {
		if c.value == nil {
			indicators.MissingOrInconsistent = append(indicators.MissingOrInconsistent,
				fmt.Sprintf("Missing %s in latest period", c.name))
		}
	}
	return indicators
}

func structureOutline() domain.DocumentStructureInsights {
	return domain.DocumentStructureInsights{
		TableOfContents: []domain.TOCEntry{
			{Title: "Executive Summary", Anchor: "exec"},
			{Title: "Financial Metrics & Ratios", Anchor: "metrics"},
			{Title: "Compliance & Risk", Anchor: "risk"},
			{Title: "Trend Analysis", Anchor: "trends"},
			{Title: "Anomaly Detection", Anchor: "anomalies"},
			{Title: "Document Structure", Anchor: "structure"},
			{Title: "Audit Highlights", Anchor: "highlights"},
			{Title: "Supporting Links", Anchor: "links"},
			{Title: "AI Suggestions", Anchor: "ai"},
		},
		KeyTablesAndFigures: []string{},
		Glossary:            []string{"ROE", "Current Ratio", "Debt-to-Equity"},
		EntityRelationships: []string{},
	}
}

func auditHighlights() domain.AuditHighlights {
	return domain.AuditHighlights{
		AreasRequiringJudgment: []string{
			"Revenue recognition timing",
			"Allowance for doubtful accounts",
		},
		EstimatesAndAssumptions: []string{
			"Useful lives for depreciation",
			"Inventory valuation method",
		},
		InternalControlDisclosures: []string{
			"Segregation of duties noted as adequate",
		},
	}
}

// heuristicSuggestions proposes follow-up questions from simple leverage
// heuristics on the latest period.
func heuristicSuggestions(periods []domain.PeriodDatum) []domain.AISuggestion {
	suggestions := []domain.AISuggestion{}
	if len(periods) == 0 {
		return suggestions
	}
	last := periods[len(periods)-1]
	if present(last.Liabilities) && present(last.Equity) && *last.Liabilities / *last.Equity > 2 {
		suggestions = append(suggestions, domain.AISuggestion{
			Question:  "Why is debt-to-equity above 2?",
			Rationale: "High leverage risk",
		})
	}
	return suggestions
}
