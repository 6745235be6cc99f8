// =============================================================================
// XLSX to CSV Converter - XLSX Worksheet Parser
// =============================================================================
//
// This module reads the input workbook and turns one worksheet into records.
//
// SHEET STRUCTURE (Expected Layout):
//   The first row is a header. Columns are located by header name, so their
//   position does not matter and other columns are ignored.
//
//   | Column A | Column B            | Column C | Column D  |
//   |----------|---------------------|----------|-----------|
//   | Extra    | ExperienceProductID | Comment  | OptionID  |
//   | x        |  123                | ignored  | 45        |
//   | y        | 124                 |          | 46        |
//
// ROW RULES:
//   - Rows are returned in sheet order, nothing is skipped or deduplicated
//   - Both target cells of every data row must hold a value
//   - Values are trimmed of leading and trailing whitespace only
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/xlsx2csv/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrSheetNotFound is returned by Sheet when the workbook has no worksheet
// with the requested name. The returned error also wraps an
// excelize.ErrSheetNotExist naming the sheet.
var ErrSheetNotFound = errors.New("no such worksheet")

// RowError reports a worksheet row that cannot be turned into a record.
type RowError struct {
	// Row is the 1-based worksheet row number. The header is row 1.
	Row int

	// Column is the header name of the offending column.
	Column string

	// Reason describes what is wrong with the row.
	Reason string
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Reason)
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an open input workbook. Close must be called when done.
type Workbook struct {
	// Path is the file the workbook was opened from.
	Path string

	file *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	return &Workbook{Path: path, file: f}, nil
}

// Close releases the workbook handle.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames returns the worksheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet selects the worksheet named exactly name.
//
// excelize resolves sheet names case-insensitively, so the comparison is done
// here against the sheet list instead.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	for _, sheetName := range w.file.GetSheetList() {
		if sheetName == name {
			return &Sheet{Name: sheetName, file: w.file}, nil
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrSheetNotFound, excelize.ErrSheetNotExist{SheetName: name})
}

// =============================================================================
// SHEET
// =============================================================================

// Sheet is a single worksheet of an open workbook.
type Sheet struct {
	// Name is the worksheet name.
	Name string

	file *excelize.File
}

// columnIndex maps the target headers to their 0-based column positions.
type columnIndex struct {
	experienceProductID int
	optionID            int
}

// Records reads every data row of the sheet.
//
// RETURNS:
//   - The records in sheet order. A header-only sheet yields an empty slice.
//   - A *RowError for the first row that cannot be read, or the error
//     reported by excelize while iterating.
func (s *Sheet) Records() ([]types.Record, error) {
	rows, err := s.file.Rows(s.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	defer rows.Close()

	records := []types.Record{}
	var index *columnIndex

	rowNumber := 0
	for rows.Next() {
		rowNumber++

		row, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowNumber, err)
		}

		if index == nil {
			index, err = parseHeader(row)
			if err != nil {
				return nil, err
			}
			continue
		}

		record, err := parseRow(row, index, rowNumber)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if index == nil {
		return nil, &RowError{Row: 1, Column: types.ExperienceProductIDHeader, Reason: "sheet has no header row"}
	}

	return records, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseHeader locates the target columns in the header row.
// Names are matched exactly; the first occurrence of a duplicate wins.
func parseHeader(header []string) (*columnIndex, error) {
	index := &columnIndex{experienceProductID: -1, optionID: -1}

	for i, name := range header {
		switch name {
		case types.ExperienceProductIDHeader:
			if index.experienceProductID < 0 {
				index.experienceProductID = i
			}
		case types.OptionIDHeader:
			if index.optionID < 0 {
				index.optionID = i
			}
		}
	}

	if index.experienceProductID < 0 {
		return nil, &RowError{Row: 1, Column: types.ExperienceProductIDHeader, Reason: "header column not found"}
	}
	if index.optionID < 0 {
		return nil, &RowError{Row: 1, Column: types.OptionIDHeader, Reason: "header column not found"}
	}

	return index, nil
}

// parseRow builds a record from a data row.
func parseRow(row []string, index *columnIndex, rowNumber int) (types.Record, error) {
	experienceProductID, err := cell(row, index.experienceProductID, types.ExperienceProductIDHeader, rowNumber)
	if err != nil {
		return types.Record{}, err
	}

	optionID, err := cell(row, index.optionID, types.OptionIDHeader, rowNumber)
	if err != nil {
		return types.Record{}, err
	}

	return types.Record{
		ExperienceProductID: strings.TrimSpace(experienceProductID),
		OptionID:            strings.TrimSpace(optionID),
		SourceRow:           rowNumber,
	}, nil
}

// cell returns the raw value at position i.
// excelize drops trailing empty cells, so a short row means a missing cell.
func cell(row []string, i int, column string, rowNumber int) (string, error) {
	if i >= len(row) || row[i] == "" {
		return "", &RowError{Row: rowNumber, Column: column, Reason: "missing value"}
	}
	return row[i], nil
}
