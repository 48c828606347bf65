package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/siglab/publication-service/internal/domain"
)

// Compile-time interface verification.
var _ MemberRepository = (*PgMemberRepository)(nil)

// PgMemberRepository is a PostgreSQL implementation of MemberRepository.
type PgMemberRepository struct {
	db DBTX
}

// NewPgMemberRepository creates a new PostgreSQL member repository.
func NewPgMemberRepository(db DBTX) *PgMemberRepository {
	return &PgMemberRepository{db: db}
}

// GetByID retrieves a member by its opaque identifier.
func (r *PgMemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "member ID is required")
	}

	var m domain.Member
	err := r.db.QueryRow(ctx,
		`SELECT id, name_en, name_zh FROM members WHERE id = $1`, id).
		Scan(&m.ID, &m.NameEN, &m.NameZH)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("member", id)
		}
		return nil, fmt.Errorf("failed to get member by ID: %w", err)
	}

	return &m, nil
}

// ListAll returns every member ordered by identifier.
func (r *PgMemberRepository) ListAll(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name_en, name_zh FROM members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.NameEN, &m.NameZH); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}
