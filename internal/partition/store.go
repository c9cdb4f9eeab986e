// Package partition owns the working pool of unassigned rows and the ordered
// set of extracted partitions. Both are index sets over the immutable import
// snapshot, so the exclusivity property — every original row lives in exactly
// one place — holds by construction.
package partition

import (
	"fmt"
	"log/slog"

	"sheetsplit/internal/dataset"
	apperrors "sheetsplit/internal/errors"
	"sheetsplit/internal/sanitize"
)

// Partition is a named, extracted, immutable subset of the imported rows.
type Partition struct {
	name    string
	indices []int
	table   *dataset.Table
}

// Name returns the partition's sanitized name
func (p *Partition) Name() string { return p.name }

// RowCount returns the number of rows in the partition
func (p *Partition) RowCount() int { return len(p.indices) }

// Columns returns the column header shared with the imported table
func (p *Partition) Columns() []string { return p.table.Columns }

// Rows returns the partition's rows in original order
func (p *Partition) Rows() [][]string {
	return p.table.Select(p.indices).Rows
}

// Store owns one live pool plus the insertion-ordered partitions extracted
// from it. Not safe for concurrent use; a store belongs to one session.
type Store struct {
	snapshot   *dataset.Table
	sourcePath string

	poolIdx []int
	parts   []*Partition
	byName  map[string]*Partition

	sheetNameMax int
	logger       *slog.Logger
}

// Summary is a pure read of the store's accounting state
type Summary struct {
	OriginalRowCount         int      `json:"original_row_count"`
	PoolRowCount             int      `json:"pool_row_count"`
	PartitionCount           int      `json:"partition_count"`
	TotalPartitionedRowCount int      `json:"total_partitioned_row_count"`
	ColumnNames              []string `json:"column_names"`
}

// NewStore creates an empty store
func NewStore(sheetNameMax int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		byName:       make(map[string]*Partition),
		sheetNameMax: sheetNameMax,
		logger:       logger.With(slog.String("component", "partition_store")),
	}
}

// Load replaces the store's contents with a freshly imported table. The
// table becomes the retained snapshot that Reset restores.
func (s *Store) Load(t *dataset.Table, sourcePath string) {
	s.snapshot = t
	s.sourcePath = sourcePath
	s.poolIdx = identity(t.RowCount())
	s.parts = nil
	s.byName = make(map[string]*Partition)

	s.logger.Info("Dataset imported",
		slog.String("source", sourcePath),
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", len(t.Columns)))
}

// Loaded reports whether a dataset has been imported
func (s *Store) Loaded() bool { return s.snapshot != nil }

// SourcePath returns the location the snapshot was imported from
func (s *Store) SourcePath() string { return s.sourcePath }

// Pool materializes the current pool as a table. The mask passed to Extract
// must be defined over this exact view.
func (s *Store) Pool() *dataset.Table {
	return s.snapshot.Select(s.poolIdx)
}

// Extract moves the rows selected by mask out of the pool into a new
// partition stored under the sanitized providedName. A mask selecting zero
// rows is an error and leaves the pool untouched.
func (s *Store) Extract(mask dataset.RowMask, providedName string) (*Partition, error) {
	if !s.Loaded() {
		return nil, apperrors.NewNoSnapshotError()
	}
	if len(mask) != len(s.poolIdx) {
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("mask covers %d rows but pool has %d", len(mask), len(s.poolIdx)))
	}

	selected := make([]int, 0, mask.Count())
	remaining := make([]int, 0, len(s.poolIdx)-mask.Count())
	for i, keep := range mask {
		if keep {
			selected = append(selected, s.poolIdx[i])
		} else {
			remaining = append(remaining, s.poolIdx[i])
		}
	}

	if len(selected) == 0 {
		return nil, apperrors.NewEmptyResultError(providedName)
	}

	name := s.uniqueName(sanitize.SheetName(providedName, s.sheetNameMax))
	part := &Partition{
		name:    name,
		indices: selected,
		table:   s.snapshot,
	}

	s.poolIdx = remaining
	s.parts = append(s.parts, part)
	s.byName[name] = part

	s.logger.Info("Partition extracted",
		slog.String("name", name),
		slog.Int("rows", part.RowCount()),
		slog.Int("pool_remaining", len(s.poolIdx)))

	return part, nil
}

// uniqueName appends a numeric suffix when two distinct condition sets
// sanitize to the same name, instead of silently overwriting the earlier
// partition.
func (s *Store) uniqueName(base string) string {
	if _, taken := s.byName[base]; !taken {
		return base
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate := base
		if runes := []rune(base); len(runes)+len(suffix) > s.sheetNameMax {
			candidate = string(runes[:s.sheetNameMax-len(suffix)])
		}
		candidate += suffix
		if _, taken := s.byName[candidate]; !taken {
			return candidate
		}
	}
}

// Reset restores the pool to the full import snapshot and clears every
// partition. This is the only operation that grows the pool.
func (s *Store) Reset() error {
	if !s.Loaded() {
		return apperrors.NewNoSnapshotError()
	}

	s.poolIdx = identity(s.snapshot.RowCount())
	s.parts = nil
	s.byName = make(map[string]*Partition)

	s.logger.Info("Store reset",
		slog.Int("pool_rows", len(s.poolIdx)))
	return nil
}

// Summary reports the store's row accounting. No side effects.
func (s *Store) Summary() Summary {
	sum := Summary{}
	if !s.Loaded() {
		return sum
	}

	sum.OriginalRowCount = s.snapshot.RowCount()
	sum.PoolRowCount = len(s.poolIdx)
	sum.PartitionCount = len(s.parts)
	sum.ColumnNames = s.snapshot.Columns
	for _, p := range s.parts {
		sum.TotalPartitionedRowCount += p.RowCount()
	}
	return sum
}

// Names returns partition names in insertion order
func (s *Store) Names() []string {
	names := make([]string, len(s.parts))
	for i, p := range s.parts {
		names[i] = p.name
	}
	return names
}

// Get returns the named partition, or nil
func (s *Store) Get(name string) *Partition {
	return s.byName[name]
}

// Partitions returns the partitions in insertion order
func (s *Store) Partitions() []*Partition {
	out := make([]*Partition, len(s.parts))
	copy(out, s.parts)
	return out
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
