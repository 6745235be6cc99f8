// Package testutil builds workbook fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// WriteWorkbook saves a workbook with one sheet named sheet holding rows,
// starting at A1, and returns its path inside a fresh temp directory.
func WriteWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	return WriteWorkbookTo(t, filepath.Join(t.TempDir(), "input.xlsx"), sheet, rows)
}

// WriteWorkbookTo is WriteWorkbook with an explicit destination path.
func WriteWorkbookTo(t *testing.T, path, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	require.NoError(t, f.SaveAs(path))
	return path
}
