// =============================================================================
// XLSX to CSV Converter - File Manager Utility
// =============================================================================
//
// This module provides the file operations around the output file:
//   - Default output path derivation
//   - Temporary file naming for atomic publication
//   - Trailing line terminator removal
//   - Publishing the finished file
//
// OUTPUT STRATEGY:
//   - Symlinked output paths are resolved first, so the link target is
//     written and the link itself survives
//   - Output is written to a uniquely named temporary file in the target
//     directory, so a rename publishes it atomically
//   - Failed runs remove the temporary file and leave the target untouched
//
// =============================================================================

package utils

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// OutputExtension is the extension of derived output paths.
const OutputExtension = ".csv"

// =============================================================================
// FILE NAMING
// =============================================================================

// DefaultOutputPath derives the output path from the input path by replacing
// its extension with ".csv". The output stays in the input's directory.
//
// A name whose only dot is the leading one has no extension.
//
// Example: "data/export.xlsx" -> "data/export.csv", "data/.xlsx" -> "data/.xlsx.csv"
func DefaultOutputPath(inputPath string) string {
	dir, name := filepath.Split(inputPath)
	stem := name
	if strings.LastIndex(name, ".") > 0 {
		stem = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return filepath.Join(dir, stem+OutputExtension)
}

// TempPath returns a unique hidden sibling of outputPath.
//
// Example: "out/ids.csv" -> "out/.ids.csv.<uuid>.tmp"
func TempPath(outputPath string) string {
	dir, name := filepath.Split(outputPath)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.New().String()))
}

// maxSymlinkHops bounds link resolution, matching the usual ELOOP limit.
const maxSymlinkHops = 40

// ResolveOutputPath follows symlinks at path and returns the file that writes
// through the link would reach. Unlike filepath.EvalSymlinks it accepts a
// dangling link and returns its missing target, so the target gets created.
// A path that does not exist is returned unchanged.
func ResolveOutputPath(path string) (string, error) {
	for i := 0; i < maxSymlinkHops; i++ {
		info, err := os.Lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return path, nil
			}
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}

		target, err := os.Readlink(path)
		if err != nil {
			return "", fmt.Errorf("failed to read link %s: %w", path, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = target
	}

	return "", fmt.Errorf("too many levels of symbolic links at %s", path)
}

// =============================================================================
// FILE OPERATIONS
// =============================================================================

// TrimTrailingTerminator removes terminator from the end of the file at path.
//
// RETURNS:
//   - true if the terminator was present and removed.
//   - false if the file is empty or ends in something else; the file is left
//     unchanged in that case.
//   - An error if the file cannot be opened, inspected or truncated.
func TrimTrailingTerminator(path, terminator string) (bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false, fmt.Errorf("failed to open file: %w", err)
	}

	trimmed, err := trimTail(f, terminator)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close file: %w", closeErr)
	}
	if err != nil {
		return false, err
	}

	return trimmed, nil
}

// trimTail does the work of TrimTrailingTerminator on an open file.
func trimTail(f *os.File, terminator string) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}

	n := int64(len(terminator))
	if n == 0 || info.Size() < n {
		return false, nil
	}

	tail := make([]byte, n)
	if _, err := f.ReadAt(tail, info.Size()-n); err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read file tail: %w", err)
	}
	if !bytes.Equal(tail, []byte(terminator)) {
		return false, nil
	}

	if err := f.Truncate(info.Size() - n); err != nil {
		return false, fmt.Errorf("failed to truncate file: %w", err)
	}

	return true, nil
}

// ReplaceFile moves src over dst.
func ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	return nil
}
