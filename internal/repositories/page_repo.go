package repositories

import (
	"context"

	"pressroom/internal/models"

	"github.com/google/uuid"
)

type PageRepository interface {
	Create(ctx context.Context, page *models.Page) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)
	Update(ctx context.Context, page *models.Page) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Page, error)
}

type pageRepo struct {
	db Database
}

func NewPageRepo(db Database) PageRepository {
	return &pageRepo{db: db}
}

func (r *pageRepo) Create(ctx context.Context, page *models.Page) error {
	query := `
		INSERT INTO pages (id, title, slug, body, is_active, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, page.ID, page.Title, page.Slug, page.Body,
		page.IsActive, page.CreatedBy, page.UpdatedBy)
	return err
}

func (r *pageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	page := &models.Page{}
	query := `
		SELECT id, title, slug, body, is_active, created_by, updated_by, created_at, updated_at
		FROM pages
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&page.ID, &page.Title, &page.Slug, &page.Body,
		&page.IsActive, &page.CreatedBy, &page.UpdatedBy, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (r *pageRepo) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	page := &models.Page{}
	query := `
		SELECT id, title, slug, body, is_active, created_by, updated_by, created_at, updated_at
		FROM pages
		WHERE slug = $1
	`
	err := r.db.QueryRow(ctx, query, slug).Scan(&page.ID, &page.Title, &page.Slug, &page.Body,
		&page.IsActive, &page.CreatedBy, &page.UpdatedBy, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (r *pageRepo) Update(ctx context.Context, page *models.Page) error {
	query := `
		UPDATE pages
		SET title = $1, slug = $2, body = $3, is_active = $4, updated_by = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, page.Title, page.Slug, page.Body, page.IsActive,
		page.UpdatedBy, page.ID)
	return err
}

func (r *pageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM pages WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *pageRepo) List(ctx context.Context, limit, offset int) ([]*models.Page, error) {
	query := `
		SELECT id, title, slug, body, is_active, created_by, updated_by, created_at, updated_at
		FROM pages
		ORDER BY title ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*models.Page
	for rows.Next() {
		page := &models.Page{}
		if err := rows.Scan(&page.ID, &page.Title, &page.Slug, &page.Body, &page.IsActive,
			&page.CreatedBy, &page.UpdatedBy, &page.CreatedAt, &page.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}
