package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "sheetsplit/internal/errors"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	return NewLoader(100, nil)
}

func writeTestCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeTestWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoader_Load_CSV(t *testing.T) {
	dir := t.TempDir()
	path := writeTestCSV(t, dir, "staff.csv", "Name,Department\nAlice,IT\nBob,HR\n")

	table, err := newTestLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Department"}, table.Columns)
	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, "Bob", table.Cell(1, 0))
}

func TestLoader_Load_CSVWithBOM(t *testing.T) {
	dir := t.TempDir()
	path := writeTestCSV(t, dir, "bom.csv", "\xEF\xBB\xBFName,City\nAlice,Berlin\n")

	table, err := newTestLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Name", table.Columns[0])
}

func TestLoader_Load_Excel(t *testing.T) {
	dir := t.TempDir()
	path := writeTestWorkbook(t, dir, "staff.xlsx", [][]interface{}{
		{"Name", "Department"},
		{"Alice", "IT"},
		{"Bob", "Finance"},
	})

	table, err := newTestLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Department"}, table.Columns)
	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, "Finance", table.Cell(1, 1))
}

func TestLoader_Load_Failures(t *testing.T) {
	dir := t.TempDir()
	loader := newTestLoader(t)

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(dir, "nope.xlsx") },
		},
		{
			name: "unsupported extension",
			path: func(t *testing.T) string {
				return writeTestCSV(t, dir, "data.txt", "whatever")
			},
		},
		{
			name: "empty csv",
			path: func(t *testing.T) string {
				return writeTestCSV(t, dir, "empty.csv", "")
			},
		},
		{
			name: "duplicate header",
			path: func(t *testing.T) string {
				return writeTestCSV(t, dir, "dup.csv", "Name,Name\na,b\n")
			},
		},
		{
			name: "directory instead of file",
			path: func(t *testing.T) string {
				sub := filepath.Join(dir, "subdir.csv")
				require.NoError(t, os.Mkdir(sub, 0755))
				return sub
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(tt.path(t))
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.ErrTypeSourceLoad, appErr.Type)
		})
	}
}

func TestLoader_Load_TooLarge(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(0, nil) // everything over 0MB is rejected

	big := make([]byte, 2*1024*1024)
	path := filepath.Join(dir, "big.csv")
	require.NoError(t, os.WriteFile(path, big, 0644))

	_, err := loader.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}
