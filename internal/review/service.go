// Package review implements the human-in-the-loop approval step: a reviewer
// takes a staged publication, optionally edits its fields, and promotes it
// to published while the free-text author string is resolved to member
// records and materialized as ordered author links.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/siglab/publication-service/internal/domain"
	"github.com/siglab/publication-service/internal/observability"
	"github.com/siglab/publication-service/internal/repository"
)

// Store provides the transaction boundary for approvals. *database.DB
// satisfies it.
type Store interface {
	WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Edits carries the optional field overrides a reviewer submits with an
// approval. Nil fields keep the stored value; the Authors override replaces
// the author string used for resolution.
type Edits struct {
	Title     *string
	Year      *int
	Venue     *string
	Type      *domain.PublicationType
	Authors   *string
	DOIURL    *string
	PDFURL    *string
	Abstract  *string
	Keywords  *string
	Volume    *string
	Number    *string
	Pages     *string
	Publisher *string
}

// Result reports a committed approval.
type Result struct {
	// Publication is the updated record, now published.
	Publication *domain.Publication

	// ResolvedCount is the number of author links created.
	ResolvedCount int

	// UnresolvedNames lists author names that matched no member. Partial
	// resolution does not block approval; these are diagnostics for the
	// operator.
	UnresolvedNames []string
}

// Service runs the approval state machine.
type Service struct {
	store   Store
	pubs    repository.PublicationRepository
	members repository.MemberRepository
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewService creates a review service.
func NewService(store Store, pubs repository.PublicationRepository, members repository.MemberRepository, metrics *observability.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		store:   store,
		pubs:    pubs,
		members: members,
		metrics: metrics,
		logger:  logger.With().Str("component", "review").Logger(),
	}
}

// Approve promotes a pending publication to published. The field update,
// the delete-and-reinsert of author links, and the status transition commit
// in one transaction; any failure inside it aborts the whole approval.
//
// Only publications in pending_review can be approved; anything else
// returns domain.ErrInvalidState.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, edits Edits) (*Result, error) {
	start := time.Now()
	s.metrics.RecordApprovalStarted()

	pub, err := s.pubs.GetByID(ctx, id)
	if err != nil {
		s.metrics.RecordApprovalFailed(time.Since(start).Seconds())
		return nil, err
	}
	if pub.Status != domain.StatusPendingReview {
		s.metrics.RecordApprovalFailed(time.Since(start).Seconds())
		return nil, domain.NewInvalidStateError("publication", id.String(), string(pub.Status))
	}

	applyEdits(pub, edits)

	members, err := s.members.ListAll(ctx)
	if err != nil {
		s.metrics.RecordApprovalFailed(time.Since(start).Seconds())
		return nil, err
	}

	names := domain.SplitAuthorString(pub.AuthorsFullString)
	resolution := resolveAuthors(names, members)

	links := make([]domain.PublicationAuthor, 0, len(resolution.Members))
	for i, member := range resolution.Members {
		links = append(links, domain.PublicationAuthor{
			PublicationID: pub.ID,
			MemberID:      member.ID,
			AuthorOrder:   i + 1,
		})
	}

	logger := observability.WithPublicationContext(s.logger, pub.ID.String(), pub.Title)
	for _, name := range resolution.Unresolved {
		logger.Warn().Str("author", name).Msg("author not linked to any member")
	}

	pub.Status = domain.StatusPublished

	err = s.store.WithTransaction(ctx, func(tx pgx.Tx) error {
		txRepo := repository.NewPgPublicationRepository(tx)
		if err := txRepo.Update(ctx, pub); err != nil {
			return err
		}
		return txRepo.ReplaceAuthors(ctx, pub.ID, links)
	})
	if err != nil {
		s.metrics.RecordApprovalFailed(time.Since(start).Seconds())
		return nil, err
	}

	s.metrics.RecordApprovalCompleted(len(links), len(resolution.Unresolved), time.Since(start).Seconds())
	logger.Info().
		Int("authors_resolved", len(links)).
		Int("authors_unresolved", len(resolution.Unresolved)).
		Msg("publication approved")

	return &Result{
		Publication:     pub,
		ResolvedCount:   len(links),
		UnresolvedNames: resolution.Unresolved,
	}, nil
}

func applyEdits(pub *domain.Publication, edits Edits) {
	if edits.Title != nil {
		pub.Title = *edits.Title
	}
	if edits.Year != nil {
		pub.Year = edits.Year
	}
	if edits.Venue != nil {
		pub.Venue = *edits.Venue
	}
	if edits.Type != nil {
		pub.Type = *edits.Type
	}
	if edits.Authors != nil {
		pub.AuthorsFullString = *edits.Authors
	}
	if edits.DOIURL != nil {
		pub.DOIURL = domain.NormalizeDOI(*edits.DOIURL)
	}
	if edits.PDFURL != nil {
		pub.PDFURL = *edits.PDFURL
	}
	if edits.Abstract != nil {
		pub.Abstract = *edits.Abstract
	}
	if edits.Keywords != nil {
		pub.Keywords = *edits.Keywords
	}
	if edits.Volume != nil {
		pub.Volume = *edits.Volume
	}
	if edits.Number != nil {
		pub.Number = *edits.Number
	}
	if edits.Pages != nil {
		pub.Pages = *edits.Pages
	}
	if edits.Publisher != nil {
		pub.Publisher = *edits.Publisher
	}
}
