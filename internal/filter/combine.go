package filter

import (
	"fmt"
	"log/slog"
	"strings"

	"sheetsplit/internal/dataset"
	apperrors "sheetsplit/internal/errors"
)

// Op selects how per-condition masks fold into one
type Op string

const (
	// OpAnd keeps rows satisfying every condition
	OpAnd Op = "and"
	// OpOr keeps rows satisfying at least one condition
	OpOr Op = "or"
)

// Join separators used in provenance names. Distinct, non-overlapping tokens
// so export naming can split a name back into its atomic conditions.
const (
	AndJoin = " 与 "
	OrJoin  = " 或 "
)

// ParseOp converts an operator name to an Op
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "and", "":
		return OpAnd, nil
	case "or":
		return OpOr, nil
	default:
		return "", apperrors.NewInvalidInputError(fmt.Sprintf("unknown combine operator %q", s))
	}
}

// Combiner applies one strategy across a list of conditions and folds the
// per-condition masks into a single selection.
type Combiner struct {
	maxConditions int
	logger        *slog.Logger
}

// NewCombiner creates a new combiner with the configured condition cap
func NewCombiner(maxConditions int, logger *slog.Logger) *Combiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Combiner{
		maxConditions: maxConditions,
		logger:        logger.With(slog.String("component", "combiner")),
	}
}

// Combine evaluates every condition over the selected columns and folds the
// masks with op. It returns the folded mask and the provenance name: the raw
// condition texts joined with the operator's separator, in input order.
func (c *Combiner) Combine(t *dataset.Table, columns, conditions []string, strategy Strategy, op Op) (dataset.RowMask, string, error) {
	if err := c.validate(columns, conditions); err != nil {
		return nil, "", err
	}

	join := AndJoin
	mask := dataset.AllTrue(t.RowCount())
	if op == OpOr {
		join = OrJoin
		mask = dataset.AllFalse(t.RowCount())
	}

	for _, condition := range conditions {
		current := strategy.Match(t, columns, condition)

		var err error
		if op == OpOr {
			mask, err = mask.Or(current)
		} else {
			mask, err = mask.And(current)
		}
		if err != nil {
			return nil, "", err
		}
	}

	name := strings.Join(conditions, join)

	c.logger.Debug("Conditions combined",
		slog.String("strategy", string(strategy)),
		slog.String("op", string(op)),
		slog.Int("conditions", len(conditions)),
		slog.Int("matched_rows", mask.Count()))

	return mask, name, nil
}

// validate rejects empty or oversized inputs before any scan happens
func (c *Combiner) validate(columns, conditions []string) error {
	if len(columns) == 0 {
		return apperrors.NewInvalidInputError("no columns selected")
	}
	if len(conditions) == 0 {
		return apperrors.NewInvalidInputError("no filter conditions provided")
	}
	if len(conditions) > c.maxConditions {
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("too many filter conditions (%d, limit %d)", len(conditions), c.maxConditions))
	}
	for i, condition := range conditions {
		if strings.TrimSpace(condition) == "" {
			return apperrors.NewInvalidInputError(fmt.Sprintf("filter condition %d is empty", i+1))
		}
	}
	return nil
}
