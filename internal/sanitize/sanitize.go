// Package sanitize converts arbitrary condition text into identifiers that
// are legal as workbook sheet titles and as filesystem path components.
package sanitize

import (
	"strings"
)

const (
	// FallbackSheetName is used when sheet name input is empty or whitespace
	FallbackSheetName = "Sheet1"
	// FallbackFilename is used when filename input is empty or whitespace
	FallbackFilename = "export"
	// truncationMarker replaces the tail of a name that exceeded its budget
	truncationMarker = "..."
)

// Characters Excel refuses in sheet titles
var sheetIllegal = []string{"/", "\\", "?", "*", "[", "]", ":"}

// Characters refused in filenames on common filesystems
var filenameIllegal = []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}

// SheetName sanitizes raw into a legal sheet title of at most maxLen runes.
// Empty or all-whitespace input maps to FallbackSheetName.
func SheetName(raw string, maxLen int) string {
	return clean(raw, sheetIllegal, maxLen, FallbackSheetName)
}

// Filename sanitizes raw into a legal filename of at most maxLen runes.
// Empty or all-whitespace input maps to FallbackFilename.
func Filename(raw string, maxLen int) string {
	return clean(raw, filenameIllegal, maxLen, FallbackFilename)
}

func clean(raw string, illegal []string, maxLen int, fallback string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback
	}

	for _, ch := range illegal {
		s = strings.ReplaceAll(s, ch, "_")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}

	// Budgets are in runes so multi-byte condition text truncates cleanly
	runes := []rune(s)
	if len(runes) > maxLen {
		keep := maxLen - len(truncationMarker)
		if keep < 0 {
			keep = 0
		}
		s = strings.TrimSpace(string(runes[:keep])) + truncationMarker
	}

	return s
}
