package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "sheetsplit/internal/errors"
)

// Loader reads a tabular source file into a Table. The first row of the
// source is the header; every following row is data.
type Loader struct {
	maxFileSizeMB int64
	logger        *slog.Logger
}

// NewLoader creates a new loader
func NewLoader(maxFileSizeMB int64, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		maxFileSizeMB: maxFileSizeMB,
		logger:        logger.With(slog.String("component", "loader")),
	}
}

// Load reads path into a Table. Supported extensions: .xlsx, .xlsm, .csv.
func (l *Loader) Load(path string) (*Table, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, apperrors.NewSourceLoadError(fmt.Sprintf("file not found: %s", path), path, err)
	}
	if os.IsPermission(err) {
		return nil, apperrors.NewSourceLoadError(fmt.Sprintf("permission denied: %s", path), path, err)
	}
	if err != nil {
		return nil, apperrors.NewSourceLoadError(fmt.Sprintf("cannot stat %s", path), path, err)
	}
	if info.IsDir() {
		return nil, apperrors.NewSourceLoadError(fmt.Sprintf("%s is a directory, not a file", path), path, nil)
	}

	sizeMB := info.Size() / (1024 * 1024)
	if sizeMB > l.maxFileSizeMB {
		return nil, apperrors.NewSourceLoadError(
			fmt.Sprintf("file too large (%dMB, limit %dMB)", sizeMB, l.maxFileSizeMB), path, nil).
			WithContext("size_mb", sizeMB)
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		rows, err = l.readExcel(path)
	case ".csv":
		rows, err = l.readCSV(path)
	default:
		return nil, apperrors.NewSourceLoadError(fmt.Sprintf("unsupported file format: %s", ext), path, nil)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, apperrors.NewSourceLoadError("file contains no data", path, nil)
	}

	header := rows[0]
	table, err := NewTable(header, rows[1:])
	if err != nil {
		return nil, apperrors.NewSourceLoadError("invalid header row", path, err)
	}

	l.logger.Info("Dataset loaded",
		slog.String("path", path),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", table.RowCount()))

	return table, nil
}

// readExcel reads the first sheet of an Excel workbook
func (l *Loader) readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewSourceLoadError("cannot parse workbook", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewSourceLoadError("workbook has no sheets", path, nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewSourceLoadError(fmt.Sprintf("cannot read sheet %q", sheets[0]), path, err)
	}

	l.logger.Debug("Read workbook sheet",
		slog.String("sheet_name", sheets[0]),
		slog.Int("total_rows", len(rows)))

	return rows, nil
}

// readCSV reads a comma-separated file, tolerating a UTF-8 BOM and ragged rows
func (l *Loader) readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, apperrors.NewSourceLoadError(fmt.Sprintf("permission denied: %s", path), path, err)
		}
		return nil, apperrors.NewSourceLoadError(fmt.Sprintf("cannot open %s", path), path, err)
	}
	defer file.Close()

	reader := csv.NewReader(stripBOM(file))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewSourceLoadError("cannot parse CSV", path, err)
	}
	return rows, nil
}

// stripBOM skips a leading UTF-8 byte order mark so the first header cell
// is not polluted
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, _ := io.ReadFull(r, buf)
	if n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
