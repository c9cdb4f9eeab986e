// Command sheetsplit filters a tabular file from the command line and writes
// each matched group to its own worksheet.
//
// Each -filter flag adds one combination; conditions inside a combination
// are separated by commas and folded with -op across -columns.
//
//	sheetsplit -in staff.xlsx -columns Department -filter IT -filter HR -out ./reports
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"sheetsplit/internal/config"
	"sheetsplit/internal/infrastructure"
	"sheetsplit/internal/services"
)

type filterFlags []string

func (f *filterFlags) String() string { return strings.Join(*f, "; ") }

func (f *filterFlags) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	var filters filterFlags

	in := flag.String("in", "", "input file (.xlsx, .xlsm or .csv)")
	columns := flag.String("columns", "", "comma-separated column names to match against")
	flag.Var(&filters, "filter", "conditions for one extraction, comma-separated (repeatable)")
	strategy := flag.String("strategy", "contains", "match strategy: contains | exact | regexp")
	op := flag.String("op", "and", "fold operator inside a combination: and | or")
	out := flag.String("out", "", "output directory (defaults to the input file's directory)")
	name := flag.String("name", "", "output filename (default derived from the conditions)")
	flag.Parse()

	if *in == "" || *columns == "" || len(filters) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if err := run(cfg, logger, *in, *columns, filters, *strategy, *op, *out, *name); err != nil {
		logger.Error("sheetsplit failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, in, columns string, filters []string, strategy, op, out, name string) error {
	svc := services.NewPartitionService(cfg, logger)

	loaded, err := svc.Load(in)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded",
		slog.String("path", in),
		slog.Int("rows", loaded.RowCount),
		slog.Any("columns", loaded.Columns))

	cols := splitList(columns)
	for _, raw := range filters {
		result, err := svc.Extract(services.FilterRequest{
			Columns:    cols,
			Conditions: splitList(raw),
			Strategy:   strategy,
			Op:         op,
		})
		if err != nil {
			return err
		}
		logger.Info("partition extracted",
			slog.String("name", result.Name),
			slog.Int("rows", result.RowCount),
			slog.Int("pool_remaining", result.PoolRemaining))
	}

	path, err := svc.Export(out, name)
	if err != nil {
		return err
	}

	sum := svc.Summary()
	logger.Info("workbook written",
		slog.String("path", path),
		slog.Int("sheets", sum.PartitionCount),
		slog.Int("rows_partitioned", sum.TotalPartitionedRowCount),
		slog.Int("rows_unmatched", sum.PoolRowCount))
	fmt.Println(path)
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
