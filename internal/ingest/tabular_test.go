package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVPeriods(t *testing.T) {
	csv := strings.Join([]string{
		"period,revenue,cogs,netIncome,liabilities",
		"2023-Q4,\"1,000\",400,150,800",
		"2024-Q1,1200,450,,900",
	}, "\n")

	periods, err := CSVPeriods(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, periods, 2)

	assert.Equal(t, "2023-Q4", periods[0].PeriodLabel)
	require.NotNil(t, periods[0].Revenue)
	assert.Equal(t, 1000.0, *periods[0].Revenue)
	require.NotNil(t, periods[0].NetIncome)
	assert.Equal(t, 150.0, *periods[0].NetIncome)

	assert.Equal(t, "2024-Q1", periods[1].PeriodLabel)
	assert.Nil(t, periods[1].NetIncome, "blank cell must read as absent")
	require.NotNil(t, periods[1].Liabilities)
	assert.Equal(t, 900.0, *periods[1].Liabilities)
}

func TestCSVPeriods_HeaderOnly(t *testing.T) {
	_, err := CSVPeriods(strings.NewReader("period,revenue\n"))
	assert.ErrorIs(t, err, ErrNoTabularData)
}

func TestCSVPeriods_Empty(t *testing.T) {
	_, err := CSVPeriods(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoTabularData)
}

func TestCSVPeriods_RaggedRows(t *testing.T) {
	csv := "period,revenue,netIncome\nQ1,100\nQ2,200,50,extra\n"

	periods, err := CSVPeriods(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, periods, 2)

	assert.Nil(t, periods[0].NetIncome)
	require.NotNil(t, periods[1].NetIncome)
	assert.Equal(t, 50.0, *periods[1].NetIncome)
}

func TestXLSXPeriods(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"period", "revenue", "equity"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"FY2023", 1500, 600}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"FY2024", 1800, 700}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	periods, err := XLSXPeriods(&buf)
	require.NoError(t, err)
	require.Len(t, periods, 2)

	assert.Equal(t, "FY2023", periods[0].PeriodLabel)
	require.NotNil(t, periods[1].Revenue)
	assert.Equal(t, 1800.0, *periods[1].Revenue)
	require.NotNil(t, periods[1].Equity)
	assert.Equal(t, 700.0, *periods[1].Equity)
}

func TestXLSXPeriods_EmptyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := XLSXPeriods(&buf)
	assert.ErrorIs(t, err, ErrNoTabularData)
}

func TestXLSXPeriods_NotAWorkbook(t *testing.T) {
	_, err := XLSXPeriods(strings.NewReader("definitely not a zip"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoTabularData)
}
