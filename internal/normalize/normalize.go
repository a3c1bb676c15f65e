// Package normalize converts heterogeneous raw rows into canonical
// PeriodDatum records. Source spreadsheets disagree on header casing and
// naming, so every target field carries an ordered alias list and the first
// present raw value wins.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"auditlens/pkg/contracts/domain"
)

// fieldAliases maps each numeric PeriodDatum field to the raw header names it
// may appear under, in lookup order.
var fieldAliases = map[string][]string{
	"revenue":                {"revenue", "Revenue"},
	"costOfGoodsSold":        {"cogs", "COGS", "costOfGoodsSold"},
	"operatingExpenses":      {"opex", "OperatingExpenses"},
	"netIncome":              {"netIncome", "NetIncome"},
	"assets":                 {"assets", "Assets"},
	"liabilities":            {"liabilities", "Liabilities"},
	"equity":                 {"equity", "Equity"},
	"interestExpense":        {"interest", "InterestExpense"},
	"inventory":              {"inventory", "Inventory"},
	"receivables":            {"receivables", "Receivables"},
	"payables":               {"payables", "Payables"},
	"cashFlowFromOperations": {"cfo", "CashFlowFromOperations"},
}

// periodAliases is the lookup order for the period label.
var periodAliases = []string{"period", "Period", "date", "Date"}

// Row transforms one raw row into a PeriodDatum. Values that fail numeric
// coercion become absent, never zero; the function has no failure mode.
func Row(raw map[string]any) domain.PeriodDatum {
	d := domain.PeriodDatum{PeriodLabel: labelOf(raw)}

	d.Revenue = numField(raw, "revenue")
	d.CostOfGoodsSold = numField(raw, "costOfGoodsSold")
	d.OperatingExpenses = numField(raw, "operatingExpenses")
	d.NetIncome = numField(raw, "netIncome")
	d.Assets = numField(raw, "assets")
	d.Liabilities = numField(raw, "liabilities")
	d.Equity = numField(raw, "equity")
	d.InterestExpense = numField(raw, "interestExpense")
	d.Inventory = numField(raw, "inventory")
	d.Receivables = numField(raw, "receivables")
	d.Payables = numField(raw, "payables")
	d.CashFlowFromOperations = numField(raw, "cashFlowFromOperations")

	return d
}

// Rows transforms a slice of raw rows, preserving order. Insertion order is
// chronological order downstream, so no sorting happens here.
func Rows(raw []map[string]any) []domain.PeriodDatum {
	out := make([]domain.PeriodDatum, 0, len(raw))
	for _, r := range raw {
		out = append(out, Row(r))
	}
	return out
}

func labelOf(raw map[string]any) string {
	for _, alias := range periodAliases {
		if v, ok := raw[alias]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

func numField(raw map[string]any, field string) *float64 {
	for _, alias := range fieldAliases[field] {
		v, ok := raw[alias]
		if !ok || v == nil {
			continue
		}
		return Number(v)
	}
	return nil
}

// Number coerces an arbitrary cell value to a float, stripping thousands
// separators (commas and spaces). Unparseable values yield nil.
func Number(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return domain.Float(n)
	case float32:
		return domain.Float(float64(n))
	case int:
		return domain.Float(float64(n))
	case int64:
		return domain.Float(float64(n))
	}

	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return nil
	}
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return domain.Float(f)
}
