package services

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetsplit/internal/config"
	apperrors "sheetsplit/internal/errors"
)

func writeStaffCSV(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "staff.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	records := [][]string{
		{"Name", "Department", "City"},
		{"Alice", "IT", "New York"},
		{"Bob", "HR", "Boston"},
		{"Carol", "IT", "Chicago"},
		{"Dave", "Finance", "New York"},
		{"Eve", "IT", "Boston"},
	}
	require.NoError(t, w.WriteAll(records))
	w.Flush()
	require.NoError(t, w.Error())
	return path
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) *PartitionService {
	t.Helper()
	return NewPartitionService(config.Default(), testLogger())
}

func TestPartitionService_Session(t *testing.T) {
	svc := newTestService(t)

	loaded, err := svc.Load(writeStaffCSV(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Department", "City"}, loaded.Columns)
	assert.Equal(t, 5, loaded.RowCount)

	extracted, err := svc.Extract(FilterRequest{
		Columns:    []string{"Department"},
		Conditions: []string{"IT"},
		Strategy:   "contains",
		Op:         "and",
	})
	require.NoError(t, err)
	assert.Equal(t, "IT", extracted.Name)
	assert.Equal(t, 3, extracted.RowCount)
	assert.Equal(t, 2, extracted.PoolRemaining)

	sum := svc.Summary()
	assert.Equal(t, 5, sum.OriginalRowCount)
	assert.Equal(t, 2, sum.PoolRowCount)
	assert.Equal(t, 1, sum.PartitionCount)
	assert.Equal(t, 3, sum.TotalPartitionedRowCount)
	assert.Equal(t, []string{"IT"}, svc.PartitionNames())

	require.NoError(t, svc.Reset())
	sum = svc.Summary()
	assert.Equal(t, 5, sum.PoolRowCount)
	assert.Equal(t, 0, sum.PartitionCount)
	assert.Empty(t, svc.PartitionNames())
}

func TestPartitionService_PreviewDoesNotMutate(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Load(writeStaffCSV(t))
	require.NoError(t, err)

	preview, err := svc.Preview(FilterRequest{
		Columns:    []string{"Department", "City"},
		Conditions: []string{"IT", "Boston"},
		Op:         "or",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, preview.MatchCount)
	assert.Equal(t, "IT 或 Boston", preview.Name)
	assert.Len(t, preview.Rows, 4)
	assert.Equal(t, []string{"Alice", "IT", "New York"}, preview.Rows[0])

	sum := svc.Summary()
	assert.Equal(t, 5, sum.PoolRowCount)
	assert.Equal(t, 0, sum.PartitionCount)
}

func TestPartitionService_PreviewCapsRows(t *testing.T) {
	cfg := config.Default()
	cfg.Filter.PreviewRows = 2
	svc := NewPartitionService(cfg, testLogger())
	_, err := svc.Load(writeStaffCSV(t))
	require.NoError(t, err)

	preview, err := svc.Preview(FilterRequest{
		Columns:    []string{"Department"},
		Conditions: []string{"IT"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, preview.MatchCount)
	assert.Len(t, preview.Rows, 2)
}

func TestPartitionService_BeforeLoad(t *testing.T) {
	svc := newTestService(t)

	req := FilterRequest{Columns: []string{"Department"}, Conditions: []string{"IT"}}

	_, err := svc.Extract(req)
	requireAppError(t, err, apperrors.ErrTypeNoSnapshot)

	_, err = svc.Preview(req)
	requireAppError(t, err, apperrors.ErrTypeNoSnapshot)

	_, err = svc.Export(t.TempDir(), "")
	requireAppError(t, err, apperrors.ErrTypeNothingToExport)
}

func TestPartitionService_EmptyResultLeavesPool(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Load(writeStaffCSV(t))
	require.NoError(t, err)

	_, err = svc.Extract(FilterRequest{
		Columns:    []string{"Department"},
		Conditions: []string{"Legal"},
	})
	requireAppError(t, err, apperrors.ErrTypeEmptyResult)

	sum := svc.Summary()
	assert.Equal(t, 5, sum.PoolRowCount)
	assert.Equal(t, 0, sum.PartitionCount)
}

func TestPartitionService_Export(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Load(writeStaffCSV(t))
	require.NoError(t, err)

	for _, dept := range []string{"IT", "HR"} {
		_, err := svc.Extract(FilterRequest{
			Columns:    []string{"Department"},
			Conditions: []string{dept},
		})
		require.NoError(t, err)
	}

	dir := t.TempDir()
	path, err := svc.Export(dir, "staff split")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "staff split.xlsx"), path)

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{"IT", "HR"}, wb.GetSheetList())

	rows, err := wb.GetRows("HR")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Bob", "HR", "Boston"}, rows[1])
}

func requireAppError(t *testing.T, err error, errType apperrors.ErrorType) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errType, appErr.Type)
}
