// Package services wires the dataset loader, filter combiner, partition
// store, and workbook writer behind one synchronous facade.
package services

import (
	"log/slog"
	"sync"

	"sheetsplit/internal/config"
	"sheetsplit/internal/dataset"
	apperrors "sheetsplit/internal/errors"
	"sheetsplit/internal/exporter"
	"sheetsplit/internal/filter"
	"sheetsplit/internal/partition"
)

// PartitionService owns one interactive session: a single loaded dataset and
// the partitions extracted from it. All methods return explicit errors and
// never panic across the boundary. A mutex serializes callers so the store
// itself stays single-owner.
type PartitionService struct {
	mu sync.Mutex

	loader   *dataset.Loader
	combiner *filter.Combiner
	store    *partition.Store
	writer   *exporter.ExcelWriter

	previewRows int
	logger      *slog.Logger
}

// NewPartitionService creates a service from configuration
func NewPartitionService(cfg *config.Config, logger *slog.Logger) *PartitionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PartitionService{
		loader:      dataset.NewLoader(cfg.Loader.MaxFileSizeMB, logger),
		combiner:    filter.NewCombiner(cfg.Filter.MaxConditions, logger),
		store:       partition.NewStore(cfg.Export.MaxSheetNameLength, logger),
		writer:      exporter.NewExcelWriter(cfg.Export, logger),
		previewRows: cfg.Filter.PreviewRows,
		logger:      logger.With(slog.String("component", "partition_service")),
	}
}

// LoadResult reports a successful import
type LoadResult struct {
	Columns  []string `json:"columns"`
	RowCount int      `json:"row_count"`
}

// Load imports the tabular file at path, replacing any previous session
// state
func (s *PartitionService) Load(path string) (*LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}

	s.store.Load(table, path)
	return &LoadResult{
		Columns:  table.Columns,
		RowCount: table.RowCount(),
	}, nil
}

// FilterRequest carries one combination of conditions over selected columns
type FilterRequest struct {
	Columns    []string
	Conditions []string
	Strategy   string
	Op         string
}

// PreviewResult reports what a combination would match, without extracting
type PreviewResult struct {
	MatchCount int        `json:"match_count"`
	Name       string     `json:"name"`
	Columns    []string   `json:"columns"`
	Rows       [][]string `json:"rows"`
}

// Preview evaluates a combination against the current pool and returns the
// matched count plus the first rows. No state change.
func (s *PartitionService) Preview(req FilterRequest) (*PreviewResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, mask, name, err := s.evaluate(req)
	if err != nil {
		return nil, err
	}

	result := &PreviewResult{
		MatchCount: mask.Count(),
		Name:       name,
		Columns:    pool.Columns,
	}
	for i := range mask {
		if !mask[i] {
			continue
		}
		if len(result.Rows) >= s.previewRows {
			break
		}
		result.Rows = append(result.Rows, pool.Rows[i])
	}
	return result, nil
}

// ExtractResult reports a completed extraction
type ExtractResult struct {
	Name          string `json:"name"`
	RowCount      int    `json:"row_count"`
	PoolRemaining int    `json:"pool_remaining"`
}

// Extract evaluates a combination against the current pool and moves the
// matching rows into a new partition. A combination matching zero rows
// leaves the pool untouched and returns an error.
func (s *PartitionService) Extract(req FilterRequest) (*ExtractResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, mask, name, err := s.evaluate(req)
	if err != nil {
		return nil, err
	}

	part, err := s.store.Extract(mask, name)
	if err != nil {
		return nil, err
	}

	return &ExtractResult{
		Name:          part.Name(),
		RowCount:      part.RowCount(),
		PoolRemaining: s.store.Summary().PoolRowCount,
	}, nil
}

// evaluate parses the request and combines its conditions into a mask over
// the current pool. Callers hold the lock.
func (s *PartitionService) evaluate(req FilterRequest) (*dataset.Table, dataset.RowMask, string, error) {
	if !s.store.Loaded() {
		return nil, nil, "", apperrors.NewNoSnapshotError()
	}

	strategy, err := filter.ParseStrategy(req.Strategy)
	if err != nil {
		return nil, nil, "", err
	}
	op, err := filter.ParseOp(req.Op)
	if err != nil {
		return nil, nil, "", err
	}

	pool := s.store.Pool()
	mask, name, err := s.combiner.Combine(pool, req.Columns, req.Conditions, strategy, op)
	if err != nil {
		return nil, nil, "", err
	}
	return pool, mask, name, nil
}

// Reset restores the pool to the original import and clears all partitions
func (s *PartitionService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Reset()
}

// Summary reports the session's row accounting
func (s *PartitionService) Summary() partition.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Summary()
}

// PartitionNames returns partition names in insertion order
func (s *PartitionService) PartitionNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Names()
}

// Export writes every partition to a workbook and returns the path written
func (s *PartitionService) Export(outputDir, filename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer.Write(s.store, outputDir, filename)
}
