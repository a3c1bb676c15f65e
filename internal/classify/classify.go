// Package classify labels extracted document text with a coarse document
// type. The matcher is ordered because real filings mix vocabulary: a 10-K
// contains both audit opinion language and financial statements, and the
// first matching category wins.
package classify

import (
	"regexp"

	"auditlens/pkg/contracts/domain"
)

var (
	auditPattern     = regexp.MustCompile(`(?i)independent auditor'?s report|audit (opinion|report)`)
	statementPattern = regexp.MustCompile(`(?i)balance sheet|statement of financial position|income statement|statement of operations|cash flows`)
	taxPattern       = regexp.MustCompile(`(?i)form 10-k|form 10-q|form 1120|form 1065|irs|tax return|schedule`)
)

// Classify returns the document type for arbitrary extracted text. Text
// matching none of the known patterns classifies as unknown.
func Classify(text string) domain.DocumentType {
	switch {
	case auditPattern.MatchString(text):
		return domain.DocTypeAuditReport
	case statementPattern.MatchString(text):
		return domain.DocTypeFinancialStatement
	case taxPattern.MatchString(text):
		return domain.DocTypeTaxFiling
	default:
		return domain.DocTypeUnknown
	}
}
