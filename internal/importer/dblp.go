package importer

import (
	"regexp"
	"strings"

	"github.com/siglab/publication-service/internal/domain"
)

// fourDigitsRe matches both the bare year lines that delimit year groups in
// DBLP text exports and the numeric disambiguation tokens DBLP inserts into
// author names (e.g. "John Smith 0001").
var fourDigitsRe = regexp.MustCompile(`^\d{4}$`)

// ParseDblp parses a DBLP text export. Entries are delimited by "Authors:"
// lines: each one flushes the entry in progress and starts the next. The
// entry still in progress when input ends is flushed explicitly, so a
// trailing entry is never lost. An entry is kept only once it has a title,
// a venue, and a year, matching the export's complete-record shape.
//
// Empty input yields an empty slice; non-empty input without a single
// "Authors:" line yields a domain.FormatError.
func ParseDblp(data []byte) ([]DblpEntry, error) {
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var (
		entries    []DblpEntry
		current    DblpEntry
		inEntry    bool
		sawAuthors bool
	)

	flush := func() {
		if inEntry && current.Title != "" && current.Venue != "" && current.Year != "" {
			entries = append(entries, current)
		}
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || fourDigitsRe.MatchString(line) {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Authors: "):
			flush()
			sawAuthors = true
			inEntry = true
			current = DblpEntry{
				Authors: parseDblpAuthors(strings.TrimPrefix(line, "Authors: ")),
				Kind:    DblpJournal,
			}
		case strings.HasPrefix(line, "Title: "):
			title := strings.TrimSpace(strings.TrimPrefix(line, "Title: "))
			title = strings.TrimSpace(strings.TrimSuffix(title, "."))
			current.Title = title
		case strings.HasPrefix(line, "Journal: "):
			current.Venue = strings.TrimSpace(strings.TrimPrefix(line, "Journal: "))
			current.Kind = DblpJournal
		case strings.HasPrefix(line, "Booktitle: "):
			current.Venue = strings.TrimSpace(strings.TrimPrefix(line, "Booktitle: "))
			current.Kind = DblpConference
		case strings.HasPrefix(line, "Volume: "):
			volume := strings.TrimSpace(strings.TrimPrefix(line, "Volume: "))
			// The volume line may fold the issue in: "12, Number: 1".
			if before, after, found := strings.Cut(volume, ", Number: "); found {
				current.Volume = strings.TrimSpace(before)
				current.Number = strings.TrimSpace(after)
			} else {
				current.Volume = volume
			}
		case strings.HasPrefix(line, "Pages: "):
			current.Pages = strings.TrimSpace(strings.TrimPrefix(line, "Pages: "))
		case strings.HasPrefix(line, "Year: "):
			current.Year = strings.TrimSpace(strings.TrimPrefix(line, "Year: "))
		}
	}
	flush()

	if !sawAuthors {
		return nil, domain.NewFormatError("dblp", "no Authors: line found in input")
	}
	return entries, nil
}

// parseDblpAuthors splits a comma-separated author list, strips DBLP's
// numeric disambiguation tokens, and reorders each name to "First, Last".
func parseDblpAuthors(list string) []string {
	parts := strings.Split(list, ",")
	authors := make([]string, 0, len(parts))
	for _, part := range parts {
		name := cleanDblpName(part)
		if name == "" {
			continue
		}
		authors = append(authors, domain.ReorderName(name))
	}
	return authors
}

func cleanDblpName(name string) string {
	tokens := strings.Fields(name)
	kept := tokens[:0]
	for _, token := range tokens {
		if fourDigitsRe.MatchString(token) {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}
