package exporter

import (
	"strings"

	"sheetsplit/internal/filter"
	"sheetsplit/internal/sanitize"
)

const (
	artifactExt = ".xlsx"
	// moreMarker is appended when more conditions exist than the filename
	// shows
	moreMarker = "等"
	// maxNamedConditions caps how many conditions appear in a generated
	// filename
	maxNamedConditions = 3
)

// buildFilename returns the workbook filename: the sanitized explicit name
// when given, otherwise a name generated from the partitions' provenance.
func (w *ExcelWriter) buildFilename(partitionNames []string, explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		base := strings.TrimSuffix(explicit, artifactExt)
		return sanitize.Filename(base, w.maxFilenameLen-len(artifactExt)) + artifactExt
	}

	ts := w.now().Format(w.timestampFormat)
	conditions := splitConditions(partitionNames)

	joined := strings.Join(firstN(conditions, maxNamedConditions), "+")
	if len(conditions) > maxNamedConditions {
		joined += moreMarker
	}

	// Reserve room for "_<timestamp>.xlsx" inside the overall cap
	budget := w.maxFilenameLen - len([]rune(ts)) - 1 - len(artifactExt)
	return sanitize.Filename(joined, budget) + "_" + ts + artifactExt
}

// splitConditions decomposes partition names back into their atomic
// conditions, undoing both join separators, deduplicated in first-seen order
func splitConditions(partitionNames []string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, name := range partitionNames {
		for _, andPart := range strings.Split(name, filter.AndJoin) {
			for _, condition := range strings.Split(andPart, filter.OrJoin) {
				if _, dup := seen[condition]; dup {
					continue
				}
				seen[condition] = struct{}{}
				out = append(out, condition)
			}
		}
	}
	return out
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
