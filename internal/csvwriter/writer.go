// =============================================================================
// XLSX to CSV Converter - Delimited Output Writer
// =============================================================================
//
// This module writes records as delimited text. Fields are quoted with the
// usual CSV rules when they contain the delimiter, a quote or a line break.
//
// OUTPUT FORMAT:
//   ExperienceProductID|OptionID
//   123|45
//   124|46            <- no line terminator after the last record
//
// WRITE SEQUENCE:
//   1. Create resolves symlinks, checks the target can be opened for writing
//      and opens a temporary file next to it
//   2. WriteHeader and Write append records
//   3. Commit flushes, strips the final terminator and renames the file
//   4. Abort discards the temporary file on any failure
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/ginjaninja78/xlsx2csv/internal/types"
	"github.com/ginjaninja78/xlsx2csv/pkg/utils"
)

// ErrTruncate wraps failures while removing the final line terminator.
var ErrTruncate = errors.New("failed to remove trailing line terminator")

// Options controls the output format.
type Options struct {
	// Delimiter separates the fields of a record.
	Delimiter byte

	// UseCRLF terminates lines with "\r\n" instead of "\n".
	UseCRLF bool
}

// Terminator returns the line terminator the options produce.
func (o Options) Terminator() string {
	if o.UseCRLF {
		return "\r\n"
	}
	return "\n"
}

// Writer writes records to a temporary file that becomes the output on Commit.
type Writer struct {
	// Path is the final output path as given.
	Path string

	// Target is Path with symlinks resolved; it is the file that is replaced.
	Target string

	tmpPath string
	created bool
	file    *os.File
	csv     *csv.Writer
	options Options
	records int
	done    bool
}

// Create opens a writer for outputPath. No record is visible at outputPath
// until Commit succeeds; a target that did not exist is an empty file until
// then and is removed again by Abort.
//
// A symlinked outputPath is written through to its target. A directory or an
// existing file that cannot be opened for writing is rejected here, before
// any record is written. The permissions of an existing target are kept.
func Create(outputPath string, options Options) (*Writer, error) {
	target, err := utils.ResolveOutputPath(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}

	mode := os.FileMode(0644)
	created := false

	info, err := os.Stat(target)
	switch {
	case err == nil:
		if info.IsDir() {
			return nil, fmt.Errorf("output path %s is a directory", target)
		}
		mode = info.Mode().Perm()
	case os.IsNotExist(err):
		created = true
	default:
		return nil, fmt.Errorf("failed to stat output file: %w", err)
	}

	// Opened without O_TRUNC: existing content stays until Commit.
	check, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	check.Close()

	w := &Writer{
		Path:    outputPath,
		Target:  target,
		tmpPath: utils.TempPath(target),
		created: created,
		options: options,
	}

	f, err := os.OpenFile(w.tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		w.removeCreatedTarget()
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	w.file = f

	// The umask applies at creation; an existing target's mode wins.
	if !created {
		if err := f.Chmod(mode); err != nil {
			w.Abort()
			return nil, fmt.Errorf("failed to set output file mode: %w", err)
		}
	}

	w.csv = csv.NewWriter(f)
	w.csv.Comma = rune(options.Delimiter)
	w.csv.UseCRLF = options.UseCRLF

	return w, nil
}

// WriteHeader writes the literal header record.
func (w *Writer) WriteHeader() error {
	if err := w.csv.Write(types.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// Write writes one record.
func (w *Writer) Write(record types.Record) error {
	if err := w.csv.Write(record.Fields()); err != nil {
		return fmt.Errorf("failed to write record from row %d: %w", record.SourceRow, err)
	}
	w.records++
	return nil
}

// Records returns the number of data records written so far.
func (w *Writer) Records() int {
	return w.records
}

// Commit finishes the output file and moves it to its final path.
// Failures while removing the final terminator wrap ErrTruncate.
func (w *Writer) Commit() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	w.file = nil

	if _, err := utils.TrimTrailingTerminator(w.tmpPath, w.options.Terminator()); err != nil {
		return fmt.Errorf("%w: %w", ErrTruncate, err)
	}

	if err := utils.ReplaceFile(w.tmpPath, w.Target); err != nil {
		return err
	}

	w.done = true
	return nil
}

// Abort discards the temporary file, and the target too when Create made it.
// It is a no-op after a successful Commit and safe to call more than once.
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	if w.file != nil {
		w.file.Close()
		w.file = nil
	}

	w.removeCreatedTarget()

	if err := os.Remove(w.tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temporary output: %w", err)
	}
	return nil
}

// removeCreatedTarget deletes the empty target left by the writability check.
func (w *Writer) removeCreatedTarget() {
	if w.created {
		os.Remove(w.Target)
	}
}
