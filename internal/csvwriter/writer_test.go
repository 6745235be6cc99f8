package csvwriter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/xlsx2csv/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWriterCommit(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")

	w, err := Create(out, Options{Delimiter: '|'})
	require.NoError(t, err)
	defer w.Abort()

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(types.Record{ExperienceProductID: "123", OptionID: "45"}))
	require.NoError(t, w.Write(types.Record{ExperienceProductID: "124", OptionID: "46"}))

	assert.Empty(t, readFile(t, out))

	require.NoError(t, w.Commit())

	assert.Equal(t, "ExperienceProductID|OptionID\n123|45\n124|46", readFile(t, out))
	assert.Equal(t, 2, w.Records())
	assert.Equal(t, []string{"out.csv"}, dirEntries(t, dir))

	// Abort after a successful commit keeps the output.
	require.NoError(t, w.Abort())
	assert.FileExists(t, out)
}

func TestWriterHeaderOnly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")

	w, err := Create(out, Options{Delimiter: ';'})
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Commit())

	assert.Equal(t, "ExperienceProductID;OptionID", readFile(t, out))
}

func TestWriterCRLF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")

	w, err := Create(out, Options{Delimiter: '|', UseCRLF: true})
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(types.Record{ExperienceProductID: "1", OptionID: "2"}))
	require.NoError(t, w.Commit())

	assert.Equal(t, "ExperienceProductID|OptionID\r\n1|2", readFile(t, out))
}

func TestWriterQuotesDelimiterInValues(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")

	w, err := Create(out, Options{Delimiter: '|'})
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(types.Record{ExperienceProductID: "a|b", OptionID: `say "hi"`}))
	require.NoError(t, w.Commit())

	r := csv.NewReader(strings.NewReader(readFile(t, out)))
	r.Comma = '|'
	rows, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"ExperienceProductID", "OptionID"},
		{"a|b", `say "hi"`},
	}, rows)
}

func TestWriterAbortRemovesTemporaryFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")

	w, err := Create(out, Options{Delimiter: '|'})
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())

	require.NoError(t, w.Abort())
	require.NoError(t, w.Abort())

	assert.Empty(t, dirEntries(t, dir))
}

func TestCreateInMissingDirectory(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "out.csv"), Options{Delimiter: '|'})
	assert.Error(t, err)
}

func TestOptionsTerminator(t *testing.T) {
	assert.Equal(t, "\n", Options{}.Terminator())
	assert.Equal(t, "\r\n", Options{UseCRLF: true}.Terminator())
}

func TestCommitTruncateFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")

	w, err := Create(out, Options{Delimiter: '|'})
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())

	require.NoError(t, os.Remove(w.tmpPath))

	err = w.Commit()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncate))

	require.NoError(t, w.Abort())
	assert.Empty(t, dirEntries(t, dir))
}

func TestCreateRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")
	require.NoError(t, os.Mkdir(out, 0755))

	_, err := Create(out, Options{Delimiter: '|'})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
	assert.Equal(t, []string{"out.csv"}, dirEntries(t, dir))
}

func TestCreateWritesThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.csv")
	link := filepath.Join(dir, "link.csv")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0600))
	require.NoError(t, os.Symlink("real.csv", link))

	w, err := Create(link, Options{Delimiter: '|'})
	require.NoError(t, err)
	assert.Equal(t, target, w.Target)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Commit())

	assert.Equal(t, "ExperienceProductID|OptionID", readFile(t, target))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	info, err = os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestCreateThroughDanglingSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "link.csv")
	require.NoError(t, os.Symlink("real.csv", link))

	w, err := Create(link, Options{Delimiter: '|'})
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Commit())

	assert.Equal(t, "ExperienceProductID|OptionID", readFile(t, filepath.Join(dir, "real.csv")))
}
