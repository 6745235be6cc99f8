// =============================================================================
// XLSX to CSV Converter - Shared Types
// =============================================================================
//
// This package contains the types shared by the reading side (xlsxparser),
// the writing side (csvwriter) and the converter. Keeping them here avoids
// import cycles between those packages.
//
// =============================================================================

package types

// =============================================================================
// COLUMN AND SHEET NAMES
// =============================================================================

const (
	// ExperienceProductIDHeader is the header of the first extracted column.
	ExperienceProductIDHeader = "ExperienceProductID"

	// OptionIDHeader is the header of the second extracted column.
	OptionIDHeader = "OptionID"

	// DefaultSheetName is the worksheet read when no other sheet is configured.
	DefaultSheetName = "Tabelle1"
)

// =============================================================================
// RECORD
// =============================================================================

// Record is a single output row extracted from one worksheet row.
// Both values are already whitespace-trimmed.
type Record struct {
	// ExperienceProductID is the value of the ExperienceProductID column.
	ExperienceProductID string

	// OptionID is the value of the OptionID column.
	OptionID string

	// SourceRow is the 1-based worksheet row the record was read from.
	// Useful for error reporting; it is not written to the output.
	SourceRow int
}

// Fields returns the record values in output column order.
func (r Record) Fields() []string {
	return []string{r.ExperienceProductID, r.OptionID}
}

// Header returns the literal header record written before any data row.
func Header() []string {
	return []string{ExperienceProductIDHeader, OptionIDHeader}
}
