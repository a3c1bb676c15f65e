// Package ingest turns uploaded or fetched documents into the raw shapes the
// analysis core consumes: tabular files become raw row maps for the
// normalizer, HTML becomes plain text for the classifier, and remote
// documents are proxied with PDF payloads passed through untouched.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"auditlens/internal/normalize"
	"auditlens/pkg/contracts/domain"
)

// ErrNoTabularData means a file opened fine but contained no usable rows.
var ErrNoTabularData = errors.New("no tabular data found")

// CSVPeriods reads a headered CSV stream into normalized periods. Row order
// is preserved; downstream treats it as chronological. Cells that fail
// numeric coercion surface as absent fields, never as errors.
func CSVPeriods(r io.Reader) ([]domain.PeriodDatum, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoTabularData
	}

	return normalize.Rows(rawRows(records)), nil
}

// XLSXPeriods reads the first sheet containing data from an XLSX stream into
// normalized periods.
func XLSXPeriods(r io.Reader) ([]domain.PeriodDatum, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		return normalize.Rows(rawRows(rows)), nil
	}
	return nil, ErrNoTabularData
}

// rawRows maps a header row plus data rows into the raw mapping shape the
// normalizer accepts. Blank cells are skipped so they read as absent rather
// than empty strings.
func rawRows(records [][]string) []map[string]any {
	header := records[0]
	out := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		row := make(map[string]any, len(header))
		for i, name := range header {
			if i >= len(record) || record[i] == "" {
				continue
			}
			row[name] = record[i]
		}
		if len(row) == 0 {
			continue
		}
		out = append(out, row)
	}
	return out
}
