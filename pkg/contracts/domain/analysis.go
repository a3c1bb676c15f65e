package domain

// ProfitabilityMetrics groups margin and return ratios.
// A nil field means the ratio could not be computed from the available inputs.
type ProfitabilityMetrics struct {
	GrossMargin    *float64 `json:"grossMargin,omitempty"`
	NetMargin      *float64 `json:"netMargin,omitempty"`
	ReturnOnEquity *float64 `json:"returnOnEquity,omitempty"`
}

// LiquidityMetrics groups short-term solvency ratios.
type LiquidityMetrics struct {
	CurrentRatio *float64 `json:"currentRatio,omitempty"`
	QuickRatio   *float64 `json:"quickRatio,omitempty"`
}

// SolvencyMetrics groups long-term leverage ratios.
type SolvencyMetrics struct {
	DebtToEquity     *float64 `json:"debtToEquity,omitempty"`
	InterestCoverage *float64 `json:"interestCoverage,omitempty"`
}

// EfficiencyMetrics groups asset-utilization ratios.
type EfficiencyMetrics struct {
	InventoryTurnover   *float64 `json:"inventoryTurnover,omitempty"`
	ReceivablesTurnover *float64 `json:"receivablesTurnover,omitempty"`
}

// FinancialMetrics is the full set of derived ratios for the latest period.
type FinancialMetrics struct {
	Profitability ProfitabilityMetrics `json:"profitability"`
	Liquidity     LiquidityMetrics     `json:"liquidity"`
	Solvency      SolvencyMetrics      `json:"solvency"`
	Efficiency    EfficiencyMetrics    `json:"efficiency"`
}

// KeyHighlights carries the headline figures from the latest period.
type KeyHighlights struct {
	Revenue     *float64 `json:"revenue,omitempty"`
	NetIncome   *float64 `json:"netIncome,omitempty"`
	Assets      *float64 `json:"assets,omitempty"`
	Liabilities *float64 `json:"liabilities,omitempty"`
}

// ExecutiveSummary is the headline section of a DocumentAnalysis.
type ExecutiveSummary struct {
	Purpose         string        `json:"purpose,omitempty"`
	ReportingPeriod string        `json:"reportingPeriod,omitempty"`
	KeyHighlights   KeyHighlights `json:"keyHighlights"`
	MajorChanges    []string      `json:"majorChanges,omitempty"`
}

// ComplianceRiskIndicators lists findings that need auditor follow-up.
type ComplianceRiskIndicators struct {
	MissingOrInconsistent []string `json:"missingOrInconsistent"`
	UnusualTransactions   []string `json:"unusualTransactions"`
	LateFilingsOrDelays   []string `json:"lateFilingsOrDelays"`
	NonComplianceNotes    []string `json:"nonComplianceNotes"`
}

// TrendSummary carries the period history used for trend charts.
type TrendSummary struct {
	Periods []PeriodDatum `json:"periods"`
}

// AnomalySummary lists statistically flagged deviations.
// An empty Notes slice is the normal state, not an error.
type AnomalySummary struct {
	Notes []string `json:"notes"`
}

// TOCEntry is one entry in the document structure outline.
type TOCEntry struct {
	Title  string `json:"title"`
	Anchor string `json:"anchor,omitempty"`
}

// DocumentStructureInsights describes the layout of the analyzed document.
type DocumentStructureInsights struct {
	TableOfContents     []TOCEntry `json:"tableOfContents"`
	KeyTablesAndFigures []string   `json:"keyTablesAndFigures"`
	Glossary            []string   `json:"glossary"`
	EntityRelationships []string   `json:"entityRelationships"`
}

// AuditHighlights summarizes judgment areas and control disclosures.
type AuditHighlights struct {
	AreasRequiringJudgment     []string `json:"areasRequiringJudgment"`
	EstimatesAndAssumptions    []string `json:"estimatesAndAssumptions"`
	InternalControlDisclosures []string `json:"internalControlDisclosures"`
	AuditorsOpinion            string   `json:"auditorsOpinion,omitempty"`
}

// SupportingLink is an external reference attached to an analysis.
type SupportingLink struct {
	Href        string `json:"href"`
	Description string `json:"description,omitempty"`
}

// AISuggestion is a follow-up question proposed by a heuristic or the agent.
type AISuggestion struct {
	Question  string `json:"question"`
	Rationale string `json:"rationale,omitempty"`
}

// DocumentAnalysis is the combined analysis aggregate. The deterministic
// pipeline populates everything up to AISuggestions; AIQuestions,
// DeeperInvestigations, Risks and Opportunities only appear when an agent
// response replaces the analysis.
type DocumentAnalysis struct {
	ExecutiveSummary     ExecutiveSummary          `json:"executiveSummary"`
	FinancialMetrics     FinancialMetrics          `json:"financialMetrics"`
	ComplianceAndRisk    ComplianceRiskIndicators  `json:"complianceAndRisk"`
	Trends               TrendSummary              `json:"trends"`
	Anomalies            AnomalySummary            `json:"anomalies"`
	Structure            DocumentStructureInsights `json:"structure"`
	AuditHighlights      AuditHighlights           `json:"auditHighlights"`
	SupportingLinks      []SupportingLink          `json:"supportingLinks"`
	AISuggestions        []AISuggestion            `json:"aiSuggestions"`
	AIQuestions          []string                  `json:"aiQuestions,omitempty"`
	DeeperInvestigations []string                  `json:"deeperInvestigations,omitempty"`
	Risks                []string                  `json:"risks,omitempty"`
	Opportunities        []string                  `json:"opportunities,omitempty"`
}

// DocumentType labels free text by its likely document kind.
type DocumentType string

const (
	DocTypeAuditReport        DocumentType = "audit_report"
	DocTypeFinancialStatement DocumentType = "financial_statement"
	DocTypeTaxFiling          DocumentType = "tax_filing"
	DocTypeUnknown            DocumentType = "unknown"
)
