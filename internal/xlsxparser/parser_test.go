package xlsxparser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/xlsx2csv/internal/testutil"
	"github.com/ginjaninja78/xlsx2csv/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openSheet(t *testing.T, sheet string, rows [][]any) *Sheet {
	t.Helper()

	wb, err := Open(testutil.WriteWorkbook(t, sheet, rows))
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })

	s, err := wb.Sheet(sheet)
	require.NoError(t, err)
	return s
}

func TestRecordsTrimsAndKeepsOrder(t *testing.T) {
	s := openSheet(t, "Tabelle1", [][]any{
		{"ExperienceProductID", "OptionID", "Extra"},
		{" 123 ", "45", "ignored"},
		{"124", "  46  ", ""},
		{"a  b", " c d ", "x"},
	})

	records, err := s.Records()
	require.NoError(t, err)

	assert.Equal(t, []types.Record{
		{ExperienceProductID: "123", OptionID: "45", SourceRow: 2},
		{ExperienceProductID: "124", OptionID: "46", SourceRow: 3},
		{ExperienceProductID: "a  b", OptionID: "c d", SourceRow: 4},
	}, records)
}

func TestRecordsLooksUpColumnsByName(t *testing.T) {
	s := openSheet(t, "Tabelle1", [][]any{
		{"Comment", "OptionID", "Other", "ExperienceProductID"},
		{"x", "45", "y", "123"},
	})

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "123", records[0].ExperienceProductID)
	assert.Equal(t, "45", records[0].OptionID)
}

func TestRecordsNumericCells(t *testing.T) {
	s := openSheet(t, "Tabelle1", [][]any{
		{"ExperienceProductID", "OptionID"},
		{123, 45},
	})

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "123", records[0].ExperienceProductID)
	assert.Equal(t, "45", records[0].OptionID)
}

func TestRecordsHeaderOnly(t *testing.T) {
	s := openSheet(t, "Tabelle1", [][]any{
		{"ExperienceProductID", "OptionID"},
	})

	records, err := s.Records()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordsHeaderMatchIsCaseSensitive(t *testing.T) {
	s := openSheet(t, "Tabelle1", [][]any{
		{"ExperienceProductID", "optionid"},
		{"1", "2"},
	})

	_, err := s.Records()

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Row)
	assert.Equal(t, types.OptionIDHeader, rowErr.Column)
}

func TestRecordsMissingCell(t *testing.T) {
	s := openSheet(t, "Tabelle1", [][]any{
		{"ExperienceProductID", "OptionID"},
		{"1", "2"},
		{"3"},
	})

	_, err := s.Records()

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
	assert.Equal(t, types.OptionIDHeader, rowErr.Column)
	assert.Contains(t, err.Error(), "row 3")
}

func TestRecordsEmptySheet(t *testing.T) {
	s := openSheet(t, "Tabelle1", nil)

	_, err := s.Records()

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Row)
}

func TestSheetExactName(t *testing.T) {
	wb, err := Open(testutil.WriteWorkbook(t, "tabelle1", [][]any{{"ExperienceProductID", "OptionID"}}))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Sheet("Tabelle1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSheetNotFound))

	var notExist excelize.ErrSheetNotExist
	require.ErrorAs(t, err, &notExist)
	assert.Equal(t, "Tabelle1", notExist.SheetName)

	assert.Equal(t, []string{"tabelle1"}, wb.SheetNames())
}

func TestOpenFailures(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.xlsx"))
	assert.Error(t, err)

	corrupt := filepath.Join(dir, "corrupt.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a workbook"), 0644))

	_, err = Open(corrupt)
	assert.Error(t, err)
}
