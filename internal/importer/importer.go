// Package importer parses bibliographic exports in BibTeX, simplified YAML,
// and DBLP text formats into typed raw entries, and normalizes those entries
// into publication drafts ready for staging.
//
// Each parser is format-specific and produces its own entry type; a shared
// Normalizer maps every entry type onto the canonical domain.Publication
// shape. Parsers return an empty slice for empty input and a
// domain.FormatError for input that carries none of the format's structure,
// so callers can distinguish "invalid file" from "zero entries found".
package importer

// BibtexEntry is one parsed BibTeX record with fields already resolved
// through the case-insensitive lookups the format requires.
type BibtexEntry struct {
	EntryType  string
	CiteKey    string
	Title      string
	RawAuthors string
	Year       *int
	Venue      string
	DOI        string
	PDFURL     string
	Abstract   string
	Keywords   string
}

// YamlWork is one work item from the simplified YAML export shape.
// Year and Type carry the raw string values from the file; normalization
// happens later.
type YamlWork struct {
	Title        string
	Authors      []string
	Year         string
	Type         string
	JournalTitle string
	Venue        string
}

// DblpEntry is one publication from a DBLP text export. Authors are already
// reformatted to "First, Last" with disambiguation digits removed.
type DblpEntry struct {
	Title   string
	Authors []string
	Year    string
	Venue   string
	Volume  string
	Number  string
	Pages   string
	Kind    DblpKind
}

// DblpKind records which venue line an entry carried.
type DblpKind string

const (
	DblpJournal    DblpKind = "journal"
	DblpConference DblpKind = "conference"
)
