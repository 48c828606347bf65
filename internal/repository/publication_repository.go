package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/siglab/publication-service/internal/domain"
)

// PublicationRepository handles publication persistence: staging imported
// drafts, listing and fetching records, review-time updates, and the
// author-link relation maintained during approval.
type PublicationRepository interface {
	// Create inserts a new publication row. The caller sets Status and
	// Source; ID and timestamps are assigned here when absent.
	// Returns domain.ErrInvalidInput if the publication has no title.
	Create(ctx context.Context, pub *domain.Publication) (*domain.Publication, error)

	// GetByID retrieves a publication by its UUID.
	// Returns domain.ErrNotFound if no matching row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Publication, error)

	// List retrieves publications matching the filter criteria, newest
	// first, along with the total count for pagination. The total count
	// reflects all matching rows regardless of limit/offset.
	List(ctx context.Context, filter PublicationFilter) ([]*domain.Publication, int64, error)

	// ListIdentities returns the identity projection (title, year, DOI) of
	// every stored publication, across all statuses. The duplicate filter
	// snapshots this before each import.
	ListIdentities(ctx context.Context) ([]PublicationIdentity, error)

	// Update rewrites a publication's editable fields and status.
	// Returns domain.ErrNotFound if the row does not exist.
	Update(ctx context.Context, pub *domain.Publication) error

	// Delete removes a publication unconditionally, regardless of status.
	// Author links are removed by the ON DELETE CASCADE on the join table.
	// Returns domain.ErrNotFound if the row does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllPending removes every publication still in pending_review
	// and reports how many rows were removed.
	DeleteAllPending(ctx context.Context) (int64, error)

	// ReplaceAuthors removes all author links of a publication and inserts
	// the given set. Call inside a transaction together with the status
	// update so approval stays atomic.
	ReplaceAuthors(ctx context.Context, pubID uuid.UUID, authors []domain.PublicationAuthor) error

	// ListAuthors returns a publication's author links ordered by
	// author_order.
	ListAuthors(ctx context.Context, pubID uuid.UUID) ([]domain.PublicationAuthor, error)
}

// PublicationIdentity is the slim projection the duplicate filter needs.
type PublicationIdentity struct {
	Title  string
	Year   *int
	DOIURL string
}

// PublicationFilter specifies criteria for listing publications.
type PublicationFilter struct {
	// Status filters to publications in a specific review state (optional).
	Status *domain.PublicationStatus

	// Source filters to publications from a specific importer (optional).
	Source *domain.ImportSource

	// Year filters to publications from a specific year (optional).
	Year *int

	// Limit specifies maximum number of results (default: 100, max: 1000).
	Limit int

	// Offset specifies the starting position for pagination.
	Offset int
}

// Validate checks if the filter has valid values and sets defaults.
func (f *PublicationFilter) Validate() error {
	if f.Source != nil && !domain.IsValidImportSource(*f.Source) {
		return domain.NewValidationError("source", "unknown import source")
	}
	applyPaginationDefaults(&f.Limit, &f.Offset)
	return nil
}

// MemberRepository provides read-only lookup of lab members. Author
// resolution matches free-text names against the full member list.
type MemberRepository interface {
	// GetByID retrieves a member by its opaque identifier.
	// Returns domain.ErrNotFound if no matching member exists.
	GetByID(ctx context.Context, id string) (*domain.Member, error)

	// ListAll returns every member. The approval flow loads this once per
	// operation and matches names in memory.
	ListAll(ctx context.Context) ([]domain.Member, error)
}
