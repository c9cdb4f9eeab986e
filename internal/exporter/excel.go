// Package exporter renders an extracted partition set into a single .xlsx
// workbook, one sheet per partition in insertion order.
package exporter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetsplit/internal/config"
	apperrors "sheetsplit/internal/errors"
	"sheetsplit/internal/partition"
)

// ExcelWriter provides workbook export functionality
type ExcelWriter struct {
	timestampFormat string
	maxFilenameLen  int
	logger          *slog.Logger

	// now is swappable for deterministic filenames in tests
	now func() time.Time
}

// NewExcelWriter creates a new workbook writer instance
func NewExcelWriter(cfg config.ExportConfig, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{
		timestampFormat: cfg.TimestampFormat,
		maxFilenameLen:  cfg.MaxFilenameLength,
		logger:          logger.With(slog.String("component", "excel_writer")),
		now:             time.Now,
	}
}

// Write serializes every partition in the store to one workbook and returns
// the path written. The destination directory is outputDir when it exists,
// falling back to the directory of the originally imported file.
func (w *ExcelWriter) Write(store *partition.Store, outputDir, explicitName string) (string, error) {
	parts := store.Partitions()
	if len(parts) == 0 {
		return "", apperrors.NewNothingToExportError()
	}

	dir := w.resolveDir(outputDir, store.SourcePath())
	filename := w.buildFilename(store.Names(), explicitName)
	path := filepath.Join(dir, filename)

	w.logger.Info("Writing workbook",
		slog.String("path", path),
		slog.Int("partition_count", len(parts)))

	f := excelize.NewFile()
	defer f.Close()

	for i, p := range parts {
		if err := w.writeSheet(f, i, p); err != nil {
			return "", apperrors.NewExportFailedError(path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return "", apperrors.NewWritePermissionError(path, err)
		}
		return "", apperrors.NewExportFailedError(path, err)
	}

	w.logger.Info("Workbook written", slog.String("path", path))
	return path, nil
}

// writeSheet writes one partition as a named sheet: header row first, then
// every data row
func (w *ExcelWriter) writeSheet(f *excelize.File, index int, p *partition.Partition) error {
	// The fresh workbook starts with a single default sheet; the first
	// partition takes it over, later ones get new sheets
	sheet := p.Name()
	if index == 0 {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return fmt.Errorf("failed to rename sheet %q: %w", sheet, err)
		}
	} else {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}
	}

	header := toCellRow(p.Columns())
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", sheet, err)
	}

	for i, row := range p.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := toCellRow(row)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i, sheet, err)
		}
	}

	return nil
}

// resolveDir picks the output directory: the requested one when it is an
// existing directory, otherwise the source file's directory
func (w *ExcelWriter) resolveDir(outputDir, sourcePath string) string {
	if outputDir != "" {
		if info, err := os.Stat(outputDir); err == nil && info.IsDir() {
			return outputDir
		}
		w.logger.Warn("Output directory not usable, falling back to source directory",
			slog.String("output_dir", outputDir))
	}
	return filepath.Dir(sourcePath)
}

func toCellRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
