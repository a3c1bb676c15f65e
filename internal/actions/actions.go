// Package actions derives auditor follow-up tasks from analysis findings and
// merges them with user-managed action items.
package actions

import (
	"strings"

	"github.com/google/uuid"

	"auditlens/pkg/contracts/domain"
)

// DefaultOwner is assigned to every derived item.
const DefaultOwner = "Auditor"

// Derive scans an analysis for findings that warrant follow-up and appends
// new items to the existing list. Dedup key is the case-insensitive trimmed
// title, checked against both existing items and items added earlier in the
// same pass, so repeated derivation over identical input never grows the
// list.
func Derive(a domain.DocumentAnalysis, existing []domain.ActionItem) []domain.ActionItem {
	items := make([]domain.ActionItem, len(existing))
	copy(items, existing)

	seen := make(map[string]bool, len(items))
	for _, it := range items {
		seen[titleKey(it.Title)] = true
	}

	add := func(title string, priority domain.Priority) {
		key := titleKey(title)
		if seen[key] {
			return
		}
		seen[key] = true
		items = append(items, domain.ActionItem{
			ID:       uuid.New().String(),
			Title:    title,
			Owner:    DefaultOwner,
			Priority: priority,
		})
	}

	for _, m := range a.ComplianceAndRisk.MissingOrInconsistent {
		add("Resolve: "+m, domain.PriorityHigh)
	}
	for _, u := range a.ComplianceAndRisk.UnusualTransactions {
		add("Investigate unusual transaction: "+u, domain.PriorityHigh)
	}
	for _, n := range a.ComplianceAndRisk.NonComplianceNotes {
		add("Address non-compliance: "+n, domain.PriorityHigh)
	}
	for _, n := range a.Anomalies.Notes {
		add("Investigate anomaly: "+n, domain.PriorityHigh)
	}
	for _, s := range a.AISuggestions {
		add("Follow up: "+s.Question, domain.PriorityMedium)
	}
	for _, r := range a.Risks {
		add("Mitigate risk: "+r, domain.PriorityHigh)
	}
	for _, o := range a.Opportunities {
		add("Explore opportunity: "+o, domain.PriorityLow)
	}

	return items
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
