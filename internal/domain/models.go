// Package domain provides domain models and business logic for the publication service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PublicationStatus represents the lifecycle states of a publication record.
// These values must match the database enum publication_status.
type PublicationStatus string

const (
	// StatusPendingReview marks a staged import awaiting human review. The
	// denormalized author string fields are authoritative in this state.
	StatusPendingReview PublicationStatus = "pending_review"
	// StatusPublished marks an approved publication. The publication_authors
	// relation is authoritative; the author string fields are historical.
	StatusPublished PublicationStatus = "published"
)

// IsTerminal returns true if the status represents a reviewed, final state.
func (s PublicationStatus) IsTerminal() bool {
	return s == StatusPublished
}

// PublicationType classifies a publication.
// These values must match the database enum publication_type.
type PublicationType string

const (
	TypeJournal         PublicationType = "JOURNAL"
	TypeConference      PublicationType = "CONFERENCE"
	TypeBook            PublicationType = "BOOK"
	TypePreprint        PublicationType = "PREPRINT"
	TypeWorkshop        PublicationType = "WORKSHOP"
	TypeThesis          PublicationType = "THESIS"
	TypePatent          PublicationType = "PATENT"
	TypeTechnicalReport PublicationType = "TECHNICAL_REPORT"
	TypeOther           PublicationType = "OTHER"
)

// ImportSource records which importer produced a publication row.
// These values must match the database enum import_source.
type ImportSource string

const (
	SourceBibtexImport ImportSource = "bibtex_import"
	SourceYamlImport   ImportSource = "yaml_import"
	SourceDblpImport   ImportSource = "dblp_import"
	SourceManual       ImportSource = "manual"
)

// IsValidImportSource reports whether s is a known import source tag.
func IsValidImportSource(s ImportSource) bool {
	switch s {
	case SourceBibtexImport, SourceYamlImport, SourceDblpImport, SourceManual:
		return true
	default:
		return false
	}
}

// Publication represents a bibliographic record, either staged for review or
// published. String fields use the empty string for "absent"; Year is a
// pointer because a missing year is meaningful to the reviewer.
type Publication struct {
	ID                uuid.UUID
	Title             string
	Year              *int
	Venue             string
	Type              PublicationType
	AuthorsFullString string
	RawAuthors        string
	DOIURL            string
	PDFURL            string
	Abstract          string
	Keywords          string
	Volume            string
	Number            string
	Pages             string
	Publisher         string
	Status            PublicationStatus
	Source            ImportSource
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PublicationAuthor links a publication to a member, carrying the 1-based
// display order. Rows are only created during approval and are fully
// replaced, never diffed, on re-approval.
type PublicationAuthor struct {
	PublicationID   uuid.UUID
	MemberID        string
	AuthorOrder     int
	IsCorresponding bool
}

// Member is a lab member looked up during author resolution. The pipeline
// treats members as read-only.
type Member struct {
	ID     string
	NameEN string
	NameZH string
}
