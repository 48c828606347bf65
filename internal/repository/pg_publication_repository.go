package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/siglab/publication-service/internal/domain"
)

// Compile-time interface verification.
var _ PublicationRepository = (*PgPublicationRepository)(nil)

// PgPublicationRepository is a PostgreSQL implementation of PublicationRepository.
type PgPublicationRepository struct {
	db DBTX
}

// NewPgPublicationRepository creates a new PostgreSQL publication repository.
func NewPgPublicationRepository(db DBTX) *PgPublicationRepository {
	return &PgPublicationRepository{db: db}
}

const publicationColumns = `id, title, year, venue, type,
	authors_full_string, raw_authors, doi_url, pdf_url,
	abstract, keywords, volume, number, pages, publisher,
	status, source, created_at, updated_at`

// Create inserts a new publication row.
func (r *PgPublicationRepository) Create(ctx context.Context, pub *domain.Publication) (*domain.Publication, error) {
	if pub == nil {
		return nil, domain.NewValidationError("publication", "publication cannot be nil")
	}
	if strings.TrimSpace(pub.Title) == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}
	if pub.Status == "" {
		return nil, domain.NewValidationError("status", "status is required")
	}

	if pub.ID == uuid.Nil {
		pub.ID = uuid.New()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO publications (
			id, title, year, venue, type,
			authors_full_string, raw_authors, doi_url, pdf_url,
			abstract, keywords, volume, number, pages, publisher,
			status, source, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		pub.ID,
		pub.Title,
		pub.Year,
		pub.Venue,
		pub.Type,
		pub.AuthorsFullString,
		pub.RawAuthors,
		pub.DOIURL,
		pub.PDFURL,
		pub.Abstract,
		pub.Keywords,
		pub.Volume,
		pub.Number,
		pub.Pages,
		pub.Publisher,
		pub.Status,
		pub.Source,
		now,
		now,
	).Scan(&pub.CreatedAt, &pub.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert publication: %w", err)
	}

	return pub, nil
}

// GetByID retrieves a publication by its UUID.
func (r *PgPublicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Publication, error) {
	query := fmt.Sprintf(`SELECT %s FROM publications WHERE id = $1`, publicationColumns)

	row := r.db.QueryRow(ctx, query, id)
	pub, err := scanPublication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("publication", id.String())
		}
		return nil, fmt.Errorf("failed to get publication by ID: %w", err)
	}

	return pub, nil
}

// List retrieves publications matching the filter criteria.
func (r *PgPublicationRepository) List(ctx context.Context, filter PublicationFilter) ([]*domain.Publication, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.Source != nil {
		conditions = append(conditions, fmt.Sprintf("source = $%d", argIndex))
		args = append(args, *filter.Source)
		argIndex++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("year = $%d", argIndex))
		args = append(args, *filter.Year)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM publications %s", whereClause)
	var totalCount int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count publications: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM publications
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		publicationColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list publications: %w", err)
	}
	defer rows.Close()

	pubs := make([]*domain.Publication, 0, filter.Limit)
	for rows.Next() {
		pub, err := scanPublicationFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan publication: %w", err)
		}
		pubs = append(pubs, pub)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating publications: %w", err)
	}

	return pubs, totalCount, nil
}

// ListIdentities returns the identity projection of every stored publication.
func (r *PgPublicationRepository) ListIdentities(ctx context.Context) ([]PublicationIdentity, error) {
	query := `SELECT title, year, doi_url FROM publications`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list publication identities: %w", err)
	}
	defer rows.Close()

	var identities []PublicationIdentity
	for rows.Next() {
		var ident PublicationIdentity
		if err := rows.Scan(&ident.Title, &ident.Year, &ident.DOIURL); err != nil {
			return nil, fmt.Errorf("failed to scan publication identity: %w", err)
		}
		identities = append(identities, ident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating publication identities: %w", err)
	}

	return identities, nil
}

// Update rewrites a publication's editable fields and status.
func (r *PgPublicationRepository) Update(ctx context.Context, pub *domain.Publication) error {
	if pub == nil {
		return domain.NewValidationError("publication", "publication cannot be nil")
	}
	if strings.TrimSpace(pub.Title) == "" {
		return domain.NewValidationError("title", "title is required")
	}

	query := `
		UPDATE publications SET
			title = $1,
			year = $2,
			venue = $3,
			type = $4,
			authors_full_string = $5,
			doi_url = $6,
			pdf_url = $7,
			abstract = $8,
			keywords = $9,
			volume = $10,
			number = $11,
			pages = $12,
			publisher = $13,
			status = $14,
			updated_at = $15
		WHERE id = $16`

	result, err := r.db.Exec(ctx, query,
		pub.Title,
		pub.Year,
		pub.Venue,
		pub.Type,
		pub.AuthorsFullString,
		pub.DOIURL,
		pub.PDFURL,
		pub.Abstract,
		pub.Keywords,
		pub.Volume,
		pub.Number,
		pub.Pages,
		pub.Publisher,
		pub.Status,
		time.Now().UTC(),
		pub.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update publication: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("publication", pub.ID.String())
	}

	return nil
}

// Delete removes a publication unconditionally.
func (r *PgPublicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete publication: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("publication", id.String())
	}
	return nil
}

// DeleteAllPending removes every publication still in pending_review.
func (r *PgPublicationRepository) DeleteAllPending(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM publications WHERE status = $1`, domain.StatusPendingReview)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pending publications: %w", err)
	}
	return result.RowsAffected(), nil
}

// ReplaceAuthors removes all author links of a publication and inserts the
// given set. Uses pgx.Batch so the inserts travel in one roundtrip.
func (r *PgPublicationRepository) ReplaceAuthors(ctx context.Context, pubID uuid.UUID, authors []domain.PublicationAuthor) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM publication_authors WHERE publication_id = $1`, pubID); err != nil {
		return fmt.Errorf("failed to delete author links: %w", err)
	}

	if len(authors) == 0 {
		return nil
	}

	query := `
		INSERT INTO publication_authors (publication_id, member_id, author_order, is_corresponding)
		VALUES ($1, $2, $3, $4)`

	batch := &pgx.Batch{}
	for _, author := range authors {
		batch.Queue(query, pubID, author.MemberID, author.AuthorOrder, author.IsCorresponding)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for i := range authors {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert author link at index %d: %w", i, err)
		}
	}

	return nil
}

// ListAuthors returns a publication's author links ordered by author_order.
func (r *PgPublicationRepository) ListAuthors(ctx context.Context, pubID uuid.UUID) ([]domain.PublicationAuthor, error) {
	query := `
		SELECT publication_id, member_id, author_order, is_corresponding
		FROM publication_authors
		WHERE publication_id = $1
		ORDER BY author_order`

	rows, err := r.db.Query(ctx, query, pubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list author links: %w", err)
	}
	defer rows.Close()

	var authors []domain.PublicationAuthor
	for rows.Next() {
		var author domain.PublicationAuthor
		if err := rows.Scan(&author.PublicationID, &author.MemberID, &author.AuthorOrder, &author.IsCorresponding); err != nil {
			return nil, fmt.Errorf("failed to scan author link: %w", err)
		}
		authors = append(authors, author)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author links: %w", err)
	}

	return authors, nil
}

// publicationScanDest holds the destination pointers for scanning a
// publication row.
type publicationScanDest struct {
	pub domain.Publication
}

func (d *publicationScanDest) destinations() []interface{} {
	return []interface{}{
		&d.pub.ID, &d.pub.Title, &d.pub.Year, &d.pub.Venue, &d.pub.Type,
		&d.pub.AuthorsFullString, &d.pub.RawAuthors, &d.pub.DOIURL, &d.pub.PDFURL,
		&d.pub.Abstract, &d.pub.Keywords, &d.pub.Volume, &d.pub.Number, &d.pub.Pages, &d.pub.Publisher,
		&d.pub.Status, &d.pub.Source, &d.pub.CreatedAt, &d.pub.UpdatedAt,
	}
}

func scanPublication(row pgx.Row) (*domain.Publication, error) {
	var dest publicationScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return &dest.pub, nil
}

func scanPublicationFromRows(rows pgx.Rows) (*domain.Publication, error) {
	var dest publicationScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return &dest.pub, nil
}
