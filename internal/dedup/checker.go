// Package dedup partitions incoming publication drafts into unique records
// and duplicates of already stored publications. Matching is exact-key set
// membership over normalized identifiers, not fuzzy matching: titles that
// differ in punctuation or wording beyond lowercase-and-trim normalization
// are not caught, which is an accepted limitation of this workload.
package dedup

import (
	"github.com/siglab/publication-service/internal/domain"
)

// Strategy selects which identity keys the checker compares.
type Strategy int

const (
	// StrategyTitle matches on normalized title alone. Used for sources
	// without reliable DOIs (YAML and DBLP exports).
	StrategyTitle Strategy = iota
	// StrategyDOITitleYear matches on normalized DOI first, falling back to
	// the title|year composite key. Used for BibTeX uploads where DOIs are
	// commonly present.
	StrategyDOITitleYear
)

// ExistingRecord is the projection of a stored publication the checker
// needs: enough to build every identity key.
type ExistingRecord struct {
	Title string
	Year  *int
	DOI   string
}

// Result is the partition of one incoming batch.
type Result struct {
	Unique          []domain.Publication
	DuplicateTitles []string
}

// Checker holds the identity-key sets of all stored publications, snapshot
// at construction time. It is not safe for concurrent use; build one per
// import operation.
type Checker struct {
	titles     map[string]struct{}
	titleYears map[string]struct{}
	dois       map[string]struct{}
}

// NewChecker builds a checker over a fresh snapshot of stored records.
func NewChecker(existing []ExistingRecord) *Checker {
	c := &Checker{
		titles:     make(map[string]struct{}, len(existing)),
		titleYears: make(map[string]struct{}, len(existing)),
		dois:       make(map[string]struct{}, len(existing)),
	}
	for _, rec := range existing {
		if title := domain.NormalizeTitle(rec.Title); title != "" {
			c.titles[title] = struct{}{}
			c.titleYears[domain.TitleYearKey(rec.Title, rec.Year)] = struct{}{}
		}
		if doi := domain.NormalizeDOI(rec.DOI); doi != "" {
			c.dois[doi] = struct{}{}
		}
	}
	return c
}

// Filter partitions drafts into unique records and duplicates. Keys of each
// accepted draft are added to the in-memory sets immediately, so duplicates
// within the same batch are caught as well as duplicates of stored rows.
func (c *Checker) Filter(drafts []domain.Publication, strategy Strategy) Result {
	result := Result{}
	for _, draft := range drafts {
		if c.isDuplicate(draft, strategy) {
			result.DuplicateTitles = append(result.DuplicateTitles, draft.Title)
			continue
		}
		c.add(draft)
		result.Unique = append(result.Unique, draft)
	}
	return result
}

func (c *Checker) isDuplicate(draft domain.Publication, strategy Strategy) bool {
	switch strategy {
	case StrategyDOITitleYear:
		if doi := domain.NormalizeDOI(draft.DOIURL); doi != "" {
			if _, ok := c.dois[doi]; ok {
				return true
			}
		}
		if domain.NormalizeTitle(draft.Title) == "" {
			return false
		}
		_, ok := c.titleYears[domain.TitleYearKey(draft.Title, draft.Year)]
		return ok
	default:
		title := domain.NormalizeTitle(draft.Title)
		if title == "" {
			return false
		}
		_, ok := c.titles[title]
		return ok
	}
}

// add records every key of an accepted draft, regardless of strategy, so a
// later import through a different path still sees it.
func (c *Checker) add(draft domain.Publication) {
	if title := domain.NormalizeTitle(draft.Title); title != "" {
		c.titles[title] = struct{}{}
		c.titleYears[domain.TitleYearKey(draft.Title, draft.Year)] = struct{}{}
	}
	if doi := domain.NormalizeDOI(draft.DOIURL); doi != "" {
		c.dois[doi] = struct{}{}
	}
}
