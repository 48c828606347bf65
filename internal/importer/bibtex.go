package importer

import (
	"strconv"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/siglab/publication-service/internal/domain"
)

// BibtexResult is the outcome of parsing one BibTeX file. Skipped counts
// entries that could not be tokenized; they are reported, not fatal.
type BibtexResult struct {
	Entries []BibtexEntry
	Skipped int
}

// ParseBibtex parses a BibTeX file into typed entries. The file is split at
// entry boundaries and each entry is tokenized independently, so one
// malformed entry does not discard the rest of the file. Empty input yields
// an empty result; input with no recognizable entry at all yields a
// domain.FormatError.
func ParseBibtex(data []byte) (*BibtexResult, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return &BibtexResult{}, nil
	}

	chunks := splitBibtexChunks(text)
	if len(chunks) == 0 {
		return nil, domain.NewFormatError("bibtex", "no @entry found in input")
	}

	result := &BibtexResult{}
	for _, chunk := range chunks {
		parsed, err := bibtex.Parse(strings.NewReader(chunk))
		if err != nil || parsed == nil {
			result.Skipped++
			continue
		}
		for _, entry := range parsed.Entries {
			if entry == nil || len(entry.Fields) == 0 {
				result.Skipped++
				continue
			}
			result.Entries = append(result.Entries, toBibtexEntry(entry))
		}
	}

	if len(result.Entries) == 0 && result.Skipped > 0 {
		return nil, domain.NewFormatError("bibtex", "no entry could be parsed")
	}
	return result, nil
}

// splitBibtexChunks cuts the raw text into one chunk per top-level @entry.
// Text before the first @ (stray comments, BOM junk) is dropped.
func splitBibtexChunks(text string) []string {
	var chunks []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "@") {
			if len(current) > 0 {
				chunks = append(chunks, strings.Join(current, "\n"))
			}
			current = []string{line}
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}

func toBibtexEntry(entry *bibtex.BibEntry) BibtexEntry {
	e := BibtexEntry{
		EntryType:  strings.ToLower(strings.TrimSpace(entry.Type)),
		CiteKey:    strings.TrimSpace(entry.CiteName),
		Title:      bibField(entry, "title"),
		RawAuthors: bibField(entry, "author"),
		Venue:      bibVenue(entry),
		DOI:        bibField(entry, "doi"),
		PDFURL:     bibPDFURL(entry),
		Abstract:   bibField(entry, "abstract"),
		Keywords:   bibField(entry, "keywords"),
	}
	if yearStr := bibField(entry, "year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			e.Year = &year
		}
	}
	return e
}

// bibField resolves a field value trying the given name, its lowercase, and
// its uppercase spellings, since exports disagree on field-name casing.
func bibField(entry *bibtex.BibEntry, name string) string {
	for _, key := range []string{name, strings.ToLower(name), strings.ToUpper(name)} {
		if v, ok := entry.Fields[key]; ok && v != nil {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

// bibVenue picks the venue by priority: journal, then booktitle, then series.
func bibVenue(entry *bibtex.BibEntry) string {
	for _, name := range []string{"journal", "booktitle", "series"} {
		if v := bibField(entry, name); v != "" {
			return v
		}
	}
	return ""
}

// bibPDFURL prefers an explicit pdf field over a generic url field.
func bibPDFURL(entry *bibtex.BibEntry) string {
	if v := bibField(entry, "pdf"); v != "" {
		return v
	}
	return bibField(entry, "url")
}
