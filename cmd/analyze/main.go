// Command analyze runs the financial analysis pipeline against a local
// CSV or XLSX statement file and prints the result as JSON. It is the
// offline counterpart of POST /api/tools/analysis.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"auditlens/internal/actions"
	"auditlens/internal/analysis"
	"auditlens/internal/ingest"
	"auditlens/pkg/contracts/domain"
)

func main() {
	in := flag.String("in", "", "path to a .csv or .xlsx financial statement file")
	pretty := flag.Bool("pretty", true, "indent the JSON output")
	withActions := flag.Bool("actions", false, "include derived action items in the output")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -in statements.csv [-pretty] [-actions]")
		os.Exit(2)
	}

	periods, err := loadPeriods(*in)
	if err != nil {
		slog.Error("Failed to read input file", slog.String("path", *in), slog.String("error", err.Error()))
		os.Exit(1)
	}

	result := analysis.BuildAnalysis(periods)

	out := struct {
		Analysis    domain.DocumentAnalysis `json:"analysis"`
		ActionItems []domain.ActionItem     `json:"actionItems,omitempty"`
	}{Analysis: result}
	if *withActions {
		out.ActionItems = actions.Derive(result, nil)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		slog.Error("Failed to encode output", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func loadPeriods(path string) ([]domain.PeriodDatum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ingest.CSVPeriods(f)
	case ".xlsx":
		return ingest.XLSXPeriods(f)
	default:
		return nil, fmt.Errorf("unsupported file format %q, expected .csv or .xlsx", filepath.Ext(path))
	}
}
