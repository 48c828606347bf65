package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// doiPrefixRe matches the URL prefixes commonly pasted in front of a DOI.
var doiPrefixRe = regexp.MustCompile(`(?i)^(https?://)?(dx\.)?doi\.org/`)

// NormalizeDOI strips any http(s)://, optional dx., and doi.org/ prefix,
// trims whitespace, and lowercases the result so that DOIs compare equal
// regardless of how they were written in the source file.
// Returns "" for an empty or whitespace-only input.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return ""
	}
	doi = doiPrefixRe.ReplaceAllString(doi, "")
	return strings.ToLower(strings.TrimSpace(doi))
}

// NormalizeTitle lowercases and trims a title for duplicate matching.
// This is exact-key normalization only: punctuation and spacing differences
// beyond trimming are intentionally not collapsed.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// TitleYearKey builds the composite "title|year" dedup key for sources
// without reliable DOIs. A nil year renders as "title|" so that records
// missing a year never collide with records carrying one.
func TitleYearKey(title string, year *int) string {
	if year == nil {
		return NormalizeTitle(title) + "|"
	}
	return fmt.Sprintf("%s|%d", NormalizeTitle(title), *year)
}

// CleanTitle strips surrounding quote characters, trims whitespace, and
// drops a single trailing period, matching the cleanup the importers apply
// before staging.
func CleanTitle(title string) string {
	title = strings.ReplaceAll(title, `"`, "")
	title = strings.TrimSpace(title)
	title = strings.TrimSuffix(title, ".")
	return strings.TrimSpace(title)
}

// SplitAuthorString splits a semicolon-joined author string into trimmed,
// non-empty name components.
func SplitAuthorString(s string) []string {
	parts := strings.Split(s, ";")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ReorderName converts "First Last" into "First, Last" by treating the final
// whitespace-separated token as the surname. Names already containing a
// comma, and single-token names, are returned unchanged.
func ReorderName(name string) string {
	name = strings.TrimSpace(name)
	if strings.Contains(name, ", ") {
		return name
	}
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	first := strings.Join(parts[:len(parts)-1], " ")
	last := parts[len(parts)-1]
	return first + ", " + last
}
