// Package filter evaluates user match conditions against a dataset table and
// folds them into row masks.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"sheetsplit/internal/dataset"
	apperrors "sheetsplit/internal/errors"
)

// Strategy selects how a single condition is matched against a cell. The set
// is closed: substring, exact, or regular expression.
type Strategy string

const (
	// StrategyContains matches when any selected cell contains the
	// condition, case-insensitively
	StrategyContains Strategy = "contains"
	// StrategyExact matches when any selected cell equals the condition
	// after trimming and lowercasing both sides
	StrategyExact Strategy = "exact"
	// StrategyRegexp matches cells against the condition as a
	// case-insensitive regular expression, degrading to contains when the
	// pattern does not compile
	StrategyRegexp Strategy = "regexp"
)

// ParseStrategy converts a strategy name to a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contains", "substring", "":
		return StrategyContains, nil
	case "exact":
		return StrategyExact, nil
	case "regexp", "regex", "pattern":
		return StrategyRegexp, nil
	default:
		return "", apperrors.NewInvalidInputError(fmt.Sprintf("unknown match strategy %q", s))
	}
}

// Match evaluates condition over the selected columns of t and returns a
// mask with one entry per row. A row matches when ANY selected column
// matches. Column names absent from the table are skipped. The table is
// never mutated.
func (s Strategy) Match(t *dataset.Table, columns []string, condition string) dataset.RowMask {
	match := s.cellMatcher(condition)

	indices := make([]int, 0, len(columns))
	for _, col := range columns {
		if idx := t.ColumnIndex(col); idx >= 0 {
			indices = append(indices, idx)
		}
	}

	mask := dataset.AllFalse(t.RowCount())
	for row := range mask {
		for _, col := range indices {
			if match(t.Cell(row, col)) {
				mask[row] = true
				break
			}
		}
	}
	return mask
}

// cellMatcher returns the per-cell predicate for this strategy
func (s Strategy) cellMatcher(condition string) func(string) bool {
	switch s {
	case StrategyExact:
		want := strings.ToLower(strings.TrimSpace(condition))
		return func(cell string) bool {
			return strings.ToLower(strings.TrimSpace(cell)) == want
		}
	case StrategyRegexp:
		re, err := regexp.Compile("(?i)" + condition)
		if err != nil {
			// Invalid patterns degrade to substring matching rather
			// than failing the whole pass
			return containsMatcher(condition)
		}
		return re.MatchString
	default:
		return containsMatcher(condition)
	}
}

func containsMatcher(condition string) func(string) bool {
	want := strings.ToLower(condition)
	return func(cell string) bool {
		return strings.Contains(strings.ToLower(cell), want)
	}
}
