package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"auditlens/pkg/contracts/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.DocumentType
	}{
		{
			name: "audit opinion",
			text: "We have audited the accompanying statements. In our audit opinion they present fairly...",
			want: domain.DocTypeAuditReport,
		},
		{
			name: "independent auditors report with apostrophe",
			text: "INDEPENDENT AUDITOR'S REPORT to the shareholders",
			want: domain.DocTypeAuditReport,
		},
		{
			name: "independent auditors report without apostrophe",
			text: "independent auditors report",
			want: domain.DocTypeAuditReport,
		},
		{
			name: "balance sheet",
			text: "Consolidated Balance Sheet as of December 31",
			want: domain.DocTypeFinancialStatement,
		},
		{
			name: "income statement",
			text: "INCOME STATEMENT for the year ended",
			want: domain.DocTypeFinancialStatement,
		},
		{
			name: "cash flows",
			text: "statement of cash flows",
			want: domain.DocTypeFinancialStatement,
		},
		{
			name: "tax form",
			text: "Form 1120 U.S. Corporation Income Tax Return",
			want: domain.DocTypeTaxFiling,
		},
		{
			name: "irs mention",
			text: "filed with the IRS on time",
			want: domain.DocTypeTaxFiling,
		},
		{
			name: "no match",
			text: "quarterly shareholder letter about strategy",
			want: domain.DocTypeUnknown,
		},
		{
			name: "empty text",
			text: "",
			want: domain.DocTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

// A 10-K style document carries audit, statement and tax vocabulary at once;
// the first category in match order wins.
func TestClassify_OverlappingVocabulary(t *testing.T) {
	text := `Form 10-K. Independent Auditor's Report. Consolidated Balance Sheet.`
	assert.Equal(t, domain.DocTypeAuditReport, Classify(text))

	text = `Form 10-K. Consolidated Balance Sheet and Statement of Cash Flows.`
	assert.Equal(t, domain.DocTypeFinancialStatement, Classify(text))
}
