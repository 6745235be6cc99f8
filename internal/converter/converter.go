// =============================================================================
// XLSX to CSV Converter - Converter Module
// =============================================================================
//
// This module contains the conversion pipeline for a single workbook.
//
// CONVERSION PIPELINE:
//   1. Open the input workbook
//   2. Select the configured worksheet by exact name
//   3. Read every data row into a record
//   4. Create the output writer
//   5. Write the header and all records
//   6. Commit: flush, strip the final line terminator, publish the file
//
// Steps 1-3 finish before any output file is created, so a missing sheet or a
// bad row never leaves a file behind. Failures after step 4 discard the
// temporary output.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ginjaninja78/xlsx2csv/internal/csvwriter"
	"github.com/ginjaninja78/xlsx2csv/internal/types"
	"github.com/ginjaninja78/xlsx2csv/internal/xlsxparser"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result describes a successful conversion.
type Result struct {
	// InputFile is the workbook that was read.
	InputFile string

	// OutputFile is the delimited file that was written.
	OutputFile string

	// SheetName is the worksheet that was converted.
	SheetName string

	// RowsWritten is the number of data records, excluding the header.
	RowsWritten int

	// ProcessingTime is the wall time of the conversion.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options configures a Converter.
type Options struct {
	// SheetName is the worksheet to convert.
	// Default: "Tabelle1"
	SheetName string

	// Delimiter separates the two output fields.
	// Default: '|'
	Delimiter byte

	// UseCRLF terminates output lines with "\r\n".
	UseCRLF bool

	// Logger receives progress messages. Nil discards them.
	Logger Logger
}

// Logger is the logging interface used by the converter.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// outputWriter is the part of *csvwriter.Writer the converter drives.
type outputWriter interface {
	WriteHeader() error
	Write(record types.Record) error
	Commit() error
	Abort() error
	Records() int
}

// createWriter opens the output file.
var createWriter = func(path string, options csvwriter.Options) (outputWriter, error) {
	return csvwriter.Create(path, options)
}

// Converter converts one worksheet of a workbook into a delimited file.
type Converter struct {
	options Options
	logger  Logger
}

// New creates a Converter, filling in defaults for unset options.
func New(options Options) *Converter {
	if options.SheetName == "" {
		options.SheetName = types.DefaultSheetName
	}
	if options.Delimiter == 0 {
		options.Delimiter = '|'
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Converter{options: options, logger: logger}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert reads inputPath and writes the delimited output to outputPath.
//
// RETURNS:
//   - A Result on success.
//   - A *ConversionError on failure; nothing is written to outputPath then.
func (c *Converter) Convert(inputPath, outputPath string) (Result, error) {
	startTime := time.Now()
	result := Result{
		InputFile:  inputPath,
		OutputFile: outputPath,
		SheetName:  c.options.SheetName,
	}

	c.logger.Debug("opening workbook", "path", inputPath)

	records, err := c.readRecords(inputPath)
	if err != nil {
		return result, err
	}

	c.logger.Debug("read records", "sheet", c.options.SheetName, "count", len(records))

	written, err := c.writeRecords(outputPath, records)
	if err != nil {
		return result, err
	}

	result.RowsWritten = written
	result.ProcessingTime = time.Since(startTime)

	c.logger.Info("converted workbook",
		"input", inputPath,
		"output", outputPath,
		"sheet", c.options.SheetName,
		"rows", written,
		"elapsed", result.ProcessingTime,
	)

	return result, nil
}

// readRecords opens the workbook and reads the configured sheet.
// The workbook is closed before returning on every path.
func (c *Converter) readRecords(inputPath string) ([]types.Record, error) {
	workbook, err := xlsxparser.Open(inputPath)
	if err != nil {
		return nil, &ConversionError{Kind: KindOpen, Path: inputPath, Err: err}
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			c.logger.Warn("failed to close workbook", "path", inputPath, "error", err)
		}
	}()

	sheet, err := workbook.Sheet(c.options.SheetName)
	if err != nil {
		c.logger.Debug("available sheets", "sheets", workbook.SheetNames())
		return nil, &ConversionError{Kind: KindSheetNotFound, Path: inputPath, Sheet: c.options.SheetName, Err: err}
	}

	records, err := sheet.Records()
	if err != nil {
		var rowErr *xlsxparser.RowError
		if errors.As(err, &rowErr) {
			return nil, &ConversionError{
				Kind:  KindRowDeserialization,
				Path:  inputPath,
				Sheet: sheet.Name,
				Row:   rowErr.Row,
				Err:   err,
			}
		}
		// Iteration failures inside the container are reported as a
		// corrupt workbook.
		return nil, &ConversionError{Kind: KindOpen, Path: inputPath, Err: err}
	}

	return records, nil
}

// writeRecords writes the header and records to outputPath.
// The temporary output is removed unless the commit succeeds.
func (c *Converter) writeRecords(outputPath string, records []types.Record) (int, error) {
	w, err := createWriter(outputPath, csvwriter.Options{
		Delimiter: c.options.Delimiter,
		UseCRLF:   c.options.UseCRLF,
	})
	if err != nil {
		return 0, &ConversionError{Kind: KindOutputOpen, Path: outputPath, Err: err}
	}
	defer func() {
		if abortErr := w.Abort(); abortErr != nil {
			c.logger.Warn("failed to discard temporary output", "error", abortErr)
		}
	}()

	if err := w.WriteHeader(); err != nil {
		return 0, &ConversionError{Kind: KindWrite, Path: outputPath, Err: err}
	}

	for _, record := range records {
		if err := w.Write(record); err != nil {
			return 0, &ConversionError{Kind: KindWrite, Path: outputPath, Row: record.SourceRow, Err: err}
		}
	}

	if err := w.Commit(); err != nil {
		if errors.Is(err, csvwriter.ErrTruncate) {
			return 0, &ConversionError{Kind: KindOutputTruncate, Path: outputPath, Err: err}
		}
		return 0, &ConversionError{Kind: KindWrite, Path: outputPath, Err: fmt.Errorf("failed to finish output: %w", err)}
	}

	return w.Records(), nil
}
