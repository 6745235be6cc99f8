// =============================================================================
// XLSX to CSV Converter - Conversion Errors
// =============================================================================
//
// Every failure of a conversion is reported as a *ConversionError. Errors from
// excelize, encoding/csv and the filesystem are wrapped at the converter
// boundary so the caller has a single representation to print.
//
// Use errors.Is with the Err* sentinels to branch on the kind:
//
//	if errors.Is(err, converter.ErrSheetNotFound) { ... }
//
// =============================================================================

package converter

import "fmt"

// Kind classifies a conversion failure.
type Kind int

const (
	// KindOpen: the input workbook is missing, unreadable or corrupt.
	KindOpen Kind = iota + 1

	// KindSheetNotFound: no worksheet carries the configured name.
	KindSheetNotFound

	// KindRowDeserialization: a row lacks a target column or a readable value.
	KindRowDeserialization

	// KindOutputOpen: the output location cannot be created.
	KindOutputOpen

	// KindWrite: writing or flushing a record failed.
	KindWrite

	// KindOutputTruncate: the trailing line terminator could not be removed.
	KindOutputTruncate
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open workbook"
	case KindSheetNotFound:
		return "sheet not found"
	case KindRowDeserialization:
		return "row deserialization"
	case KindOutputOpen:
		return "open output"
	case KindWrite:
		return "write output"
	case KindOutputTruncate:
		return "truncate output"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Each one matches every ConversionError of its kind.
var (
	ErrOpen               = &ConversionError{Kind: KindOpen}
	ErrSheetNotFound      = &ConversionError{Kind: KindSheetNotFound}
	ErrRowDeserialization = &ConversionError{Kind: KindRowDeserialization}
	ErrOutputOpen         = &ConversionError{Kind: KindOutputOpen}
	ErrWrite              = &ConversionError{Kind: KindWrite}
	ErrOutputTruncate     = &ConversionError{Kind: KindOutputTruncate}
)

// ConversionError describes a failed conversion step.
type ConversionError struct {
	// Kind is the failed step.
	Kind Kind

	// Path is the file the step operated on.
	Path string

	// Sheet is the worksheet name, set for sheet and row failures.
	Sheet string

	// Row is the 1-based worksheet row, set for row failures.
	Row int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg += fmt.Sprintf(" %s", e.Path)
	}
	if e.Sheet != "" {
		msg += fmt.Sprintf(" (sheet %q", e.Sheet)
		if e.Row > 0 {
			msg += fmt.Sprintf(", row %d", e.Row)
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ConversionError of the same kind.
func (e *ConversionError) Is(target error) bool {
	t, ok := target.(*ConversionError)
	return ok && t.Kind == e.Kind
}
