package repositories

import (
	"context"

	"pressroom/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type VocabularyRepository interface {
	CreateVocabulary(ctx context.Context, vocabulary *models.Vocabulary) error
	GetVocabularyByID(ctx context.Context, id uuid.UUID) (*models.Vocabulary, error)
	GetVocabularyBySlug(ctx context.Context, slug string) (*models.Vocabulary, error)
	UpdateVocabulary(ctx context.Context, vocabulary *models.Vocabulary) error
	DeleteVocabulary(ctx context.Context, id uuid.UUID) error
	ListVocabularies(ctx context.Context, limit, offset int) ([]*models.Vocabulary, error)

	CreateTerm(ctx context.Context, term *models.Term) error
	GetTermByID(ctx context.Context, id uuid.UUID) (*models.Term, error)
	UpdateTerm(ctx context.Context, term *models.Term) error
	DeleteTerm(ctx context.Context, id uuid.UUID) error
	ListTermsByVocabularyIDs(ctx context.Context, vocabularyIDs []uuid.UUID) ([]*models.Term, error)
	MaxSiblingPosition(ctx context.Context, vocabularyID uuid.UUID, parentID *uuid.UUID) (int, error)
}

type vocabularyRepo struct {
	db Database
}

func NewVocabularyRepo(db Database) VocabularyRepository {
	return &vocabularyRepo{db: db}
}

func (r *vocabularyRepo) CreateVocabulary(ctx context.Context, vocabulary *models.Vocabulary) error {
	query := `
		INSERT INTO vocabularies (id, name, slug, is_active, metadata, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, vocabulary.ID, vocabulary.Name, vocabulary.Slug,
		vocabulary.IsActive, vocabulary.Metadata, vocabulary.CreatedBy, vocabulary.UpdatedBy)
	return err
}

func (r *vocabularyRepo) GetVocabularyByID(ctx context.Context, id uuid.UUID) (*models.Vocabulary, error) {
	query := `
		SELECT id, name, slug, is_active, metadata, created_by, updated_by, created_at, updated_at
		FROM vocabularies
		WHERE id = $1
	`
	return scanVocabulary(r.db.QueryRow(ctx, query, id))
}

func (r *vocabularyRepo) GetVocabularyBySlug(ctx context.Context, slug string) (*models.Vocabulary, error) {
	query := `
		SELECT id, name, slug, is_active, metadata, created_by, updated_by, created_at, updated_at
		FROM vocabularies
		WHERE slug = $1
	`
	return scanVocabulary(r.db.QueryRow(ctx, query, slug))
}

func (r *vocabularyRepo) UpdateVocabulary(ctx context.Context, vocabulary *models.Vocabulary) error {
	query := `
		UPDATE vocabularies
		SET name = $1, slug = $2, is_active = $3, metadata = $4, updated_by = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, vocabulary.Name, vocabulary.Slug, vocabulary.IsActive,
		vocabulary.Metadata, vocabulary.UpdatedBy, vocabulary.ID)
	return err
}

func (r *vocabularyRepo) DeleteVocabulary(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM vocabularies WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *vocabularyRepo) ListVocabularies(ctx context.Context, limit, offset int) ([]*models.Vocabulary, error) {
	query := `
		SELECT id, name, slug, is_active, metadata, created_by, updated_by, created_at, updated_at
		FROM vocabularies
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vocabularies []*models.Vocabulary
	for rows.Next() {
		vocabulary, err := scanVocabulary(rows)
		if err != nil {
			return nil, err
		}
		vocabularies = append(vocabularies, vocabulary)
	}
	return vocabularies, rows.Err()
}

func (r *vocabularyRepo) CreateTerm(ctx context.Context, term *models.Term) error {
	query := `
		INSERT INTO terms (id, vocabulary_id, parent_id, label, description, position, is_active, visibility_roles, metadata, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, term.ID, term.VocabularyID, term.ParentID, term.Label,
		term.Description, term.Position, term.IsActive, term.VisibilityRoles, term.Metadata,
		term.CreatedBy, term.UpdatedBy)
	return err
}

func (r *vocabularyRepo) GetTermByID(ctx context.Context, id uuid.UUID) (*models.Term, error) {
	query := `
		SELECT id, vocabulary_id, parent_id, label, description, position, is_active, visibility_roles, metadata, created_by, updated_by, created_at, updated_at
		FROM terms
		WHERE id = $1
	`
	return scanTerm(r.db.QueryRow(ctx, query, id))
}

func (r *vocabularyRepo) UpdateTerm(ctx context.Context, term *models.Term) error {
	// vocabulary_id is immutable after creation.
	query := `
		UPDATE terms
		SET parent_id = $1, label = $2, description = $3, position = $4, is_active = $5, visibility_roles = $6, metadata = $7, updated_by = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err := r.db.Exec(ctx, query, term.ParentID, term.Label, term.Description, term.Position,
		term.IsActive, term.VisibilityRoles, term.Metadata, term.UpdatedBy, term.ID)
	return err
}

func (r *vocabularyRepo) DeleteTerm(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM terms WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *vocabularyRepo) ListTermsByVocabularyIDs(ctx context.Context, vocabularyIDs []uuid.UUID) ([]*models.Term, error) {
	query := `
		SELECT id, vocabulary_id, parent_id, label, description, position, is_active, visibility_roles, metadata, created_by, updated_by, created_at, updated_at
		FROM terms
		WHERE vocabulary_id = ANY($1)
		ORDER BY vocabulary_id ASC, position ASC, label ASC
	`
	rows, err := r.db.Query(ctx, query, vocabularyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		term, err := scanTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

func (r *vocabularyRepo) MaxSiblingPosition(ctx context.Context, vocabularyID uuid.UUID, parentID *uuid.UUID) (int, error) {
	var max int
	if parentID == nil {
		query := `SELECT COALESCE(MAX(position), -10) FROM terms WHERE vocabulary_id = $1 AND parent_id IS NULL`
		err := r.db.QueryRow(ctx, query, vocabularyID).Scan(&max)
		return max, err
	}
	query := `SELECT COALESCE(MAX(position), -10) FROM terms WHERE vocabulary_id = $1 AND parent_id = $2`
	err := r.db.QueryRow(ctx, query, vocabularyID, *parentID).Scan(&max)
	return max, err
}

func scanVocabulary(row pgx.Row) (*models.Vocabulary, error) {
	vocabulary := &models.Vocabulary{}
	err := row.Scan(&vocabulary.ID, &vocabulary.Name, &vocabulary.Slug, &vocabulary.IsActive,
		&vocabulary.Metadata, &vocabulary.CreatedBy, &vocabulary.UpdatedBy,
		&vocabulary.CreatedAt, &vocabulary.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if vocabulary.Metadata == nil {
		vocabulary.Metadata = map[string]interface{}{}
	}
	return vocabulary, nil
}

func scanTerm(row pgx.Row) (*models.Term, error) {
	term := &models.Term{}
	err := row.Scan(&term.ID, &term.VocabularyID, &term.ParentID, &term.Label, &term.Description,
		&term.Position, &term.IsActive, &term.VisibilityRoles, &term.Metadata,
		&term.CreatedBy, &term.UpdatedBy, &term.CreatedAt, &term.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if term.Metadata == nil {
		term.Metadata = map[string]interface{}{}
	}
	if term.VisibilityRoles == nil {
		term.VisibilityRoles = []string{}
	}
	term.Children = []*models.Term{}
	return term, nil
}
