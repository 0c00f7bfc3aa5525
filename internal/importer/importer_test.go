package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSVLoader{})
	l := r.Get("csv")
	require.NotNil(t, l)
	assert.Equal(t, "csv", l.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&XLSXLoader{})
	assert.NotNil(t, r.Get("XLSX"))
	assert.NotNil(t, r.Get("Xlsx"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSVLoader{})
	assert.Panics(t, func() { r.Register(&CSVLoader{}) })
}

func TestRegistry_LoaderFor(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, "xlsx", r.LoaderFor("Payments Q1.XLSX").Format())
	assert.Equal(t, "csv", r.LoaderFor("export.csv").Format())
	assert.Nil(t, r.LoaderFor("notes.txt"))
	assert.Nil(t, r.LoaderFor("README"))
}

func TestRegistry_LoadFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := DefaultRegistry().LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestRegistry_LoadFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.csv")
	require.NoError(t, os.WriteFile(path, []byte("Company,Player,Amount\nNike,PlayerA,100\n"), 0o644))

	wb, err := DefaultRegistry().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "march.csv", wb.Name)
	require.Len(t, wb.Sheets, 1)
	assert.Equal(t, "march", wb.Sheets[0].Name)
}

func TestScan_FindsSpreadsheets(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	for _, name := range []string{"march.xlsx", "april.csv", "notes.txt", "~$march.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(importDir, name), []byte("data"), 0o644))
	}

	files, err := Scan(dir, DefaultRegistry())
	require.NoError(t, err)
	require.Len(t, files, 2)
	names := []string{files[0].Name, files[1].Name}
	assert.ElementsMatch(t, []string{"march.xlsx", "april.csv"}, names)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	processedDir := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(processedDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "new.xlsx"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "old.xlsx"), []byte("data"), 0o644))

	files, err := Scan(dir, DefaultRegistry())
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "new.xlsx", files[0].Name)
}

func TestScan_EmptyDir(t *testing.T) {
	files, err := Scan(t.TempDir(), DefaultRegistry())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "march.xlsx"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "march.xlsx"))

	_, err := os.Stat(filepath.Join(importDir, "march.xlsx"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "march.xlsx"))
	assert.NoError(t, err)
}

func TestMarkProcessed_MissingFile(t *testing.T) {
	err := MarkProcessed(t.TempDir(), "gone.xlsx")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "gone.xlsx"))
}
