package dataset

import (
	apperrors "sheetsplit/internal/errors"
)

// RowMask is a boolean value per row of a specific table snapshot; true means
// the row participates in the current selection.
type RowMask []bool

// AllTrue returns a mask selecting every row
func AllTrue(n int) RowMask {
	m := make(RowMask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// AllFalse returns a mask selecting no rows
func AllFalse(n int) RowMask {
	return make(RowMask, n)
}

// Count returns the number of selected rows
func (m RowMask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// And intersects two masks of the same table snapshot
func (m RowMask) And(other RowMask) (RowMask, error) {
	if len(m) != len(other) {
		return nil, apperrors.NewInvalidInputError("cannot combine masks of different lengths")
	}
	out := make(RowMask, len(m))
	for i := range m {
		out[i] = m[i] && other[i]
	}
	return out, nil
}

// Or unions two masks of the same table snapshot
func (m RowMask) Or(other RowMask) (RowMask, error) {
	if len(m) != len(other) {
		return nil, apperrors.NewInvalidInputError("cannot combine masks of different lengths")
	}
	out := make(RowMask, len(m))
	for i := range m {
		out[i] = m[i] || other[i]
	}
	return out, nil
}
