package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/siglab/publication-service/internal/domain"
)

// yamlTypeMapping maps the prefix of a YAML type field (the part before the
// first dash, e.g. "journal-article" -> "journal") onto the publication type
// enum. Unknown prefixes fall through to TypeOther.
var yamlTypeMapping = map[string]domain.PublicationType{
	"journal":    domain.TypeJournal,
	"conference": domain.TypeConference,
	"book":       domain.TypeBook,
	"preprint":   domain.TypePreprint,
	"workshop":   domain.TypeWorkshop,
	"thesis":     domain.TypeThesis,
	"patent":     domain.TypePatent,
	"technical":  domain.TypeTechnicalReport,
}

// bibtexTypeMapping maps BibTeX entry types onto the publication type enum.
var bibtexTypeMapping = map[string]domain.PublicationType{
	"article":       domain.TypeJournal,
	"inproceedings": domain.TypeConference,
	"proceedings":   domain.TypeConference,
	"conference":    domain.TypeConference,
	"book":          domain.TypeBook,
	"inbook":        domain.TypeBook,
	"incollection":  domain.TypeBook,
	"phdthesis":     domain.TypeThesis,
	"mastersthesis": domain.TypeThesis,
	"techreport":    domain.TypeTechnicalReport,
	"patent":        domain.TypePatent,
}

// Normalizer maps format-specific raw entries onto canonical publication
// drafts. The missing-year fallback is configurable: when enabled, YAML and
// DBLP entries without a parseable year default to the current calendar
// year; when disabled, the year is left null so the reviewer sees an
// incomplete record.
type Normalizer struct {
	defaultYearToCurrent bool
	now                  func() time.Time
}

// NewNormalizer builds a Normalizer with the given missing-year policy.
func NewNormalizer(defaultYearToCurrent bool) *Normalizer {
	return &Normalizer{
		defaultYearToCurrent: defaultYearToCurrent,
		now:                  time.Now,
	}
}

// FromBibtex maps a BibTeX entry onto a publication draft. The year is kept
// null when absent, since BibTeX entries are expected to carry one
// explicitly. The original author string is preserved verbatim in
// RawAuthors for the review step.
func (n *Normalizer) FromBibtex(e BibtexEntry) domain.Publication {
	return domain.Publication{
		Title:             domain.CleanTitle(stripBraces(e.Title)),
		Year:              e.Year,
		Venue:             stripBraces(e.Venue),
		Type:              bibtexType(e.EntryType),
		AuthorsFullString: bibtexAuthorString(e.RawAuthors),
		RawAuthors:        e.RawAuthors,
		DOIURL:            domain.NormalizeDOI(e.DOI),
		PDFURL:            e.PDFURL,
		Abstract:          stripBraces(e.Abstract),
		Keywords:          stripBraces(e.Keywords),
		Source:            domain.SourceBibtexImport,
	}
}

// FromYamlWork maps a simplified YAML work onto a publication draft.
func (n *Normalizer) FromYamlWork(w YamlWork) domain.Publication {
	venue := w.JournalTitle
	if venue == "" {
		venue = w.Venue
	}

	names := make([]string, 0, len(w.Authors))
	for _, author := range w.Authors {
		names = append(names, domain.ReorderName(author))
	}
	authorString := strings.Join(names, "; ")

	return domain.Publication{
		Title:             domain.CleanTitle(w.Title),
		Year:              n.coerceYear(w.Year),
		Venue:             venue,
		Type:              yamlType(w.Type),
		AuthorsFullString: authorString,
		RawAuthors:        authorString,
		Source:            domain.SourceYamlImport,
	}
}

// FromDblp maps a DBLP entry onto a publication draft. Journal venues get
// the volume and, when present, the issue appended ("ACM TODS 12(1)").
func (n *Normalizer) FromDblp(e DblpEntry) domain.Publication {
	venue := e.Venue
	if e.Kind == DblpJournal && e.Volume != "" {
		venue = fmt.Sprintf("%s %s", venue, e.Volume)
		if e.Number != "" {
			venue = fmt.Sprintf("%s(%s)", venue, e.Number)
		}
	}

	pubType := domain.TypeJournal
	if e.Kind == DblpConference {
		pubType = domain.TypeConference
	}

	authorString := strings.Join(e.Authors, "; ")

	return domain.Publication{
		Title:             domain.CleanTitle(e.Title),
		Year:              n.coerceYear(e.Year),
		Venue:             venue,
		Type:              pubType,
		AuthorsFullString: authorString,
		RawAuthors:        authorString,
		Volume:            e.Volume,
		Number:            e.Number,
		Pages:             e.Pages,
		Source:            domain.SourceDblpImport,
	}
}

// coerceYear parses a raw year string, applying the configured fallback for
// absent or unparseable values.
func (n *Normalizer) coerceYear(raw string) *int {
	if year, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return &year
	}
	if n.defaultYearToCurrent {
		year := n.now().Year()
		return &year
	}
	return nil
}

func yamlType(raw string) domain.PublicationType {
	prefix, _, _ := strings.Cut(strings.TrimSpace(raw), "-")
	if t, ok := yamlTypeMapping[prefix]; ok {
		return t
	}
	return domain.TypeOther
}

func bibtexType(entryType string) domain.PublicationType {
	if t, ok := bibtexTypeMapping[entryType]; ok {
		return t
	}
	return domain.TypeOther
}

// bibtexAuthorString converts a BibTeX "A and B and C" author field into the
// semicolon-joined "First, Last" staging form.
func bibtexAuthorString(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	parts := strings.Split(raw, " and ")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, domain.ReorderName(name))
		}
	}
	return strings.Join(names, "; ")
}

func stripBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "")
	s = strings.ReplaceAll(s, "}", "")
	return strings.TrimSpace(s)
}
