package services

import (
	"context"
	"errors"

	"pressroom/internal/common"
	"pressroom/internal/models"
	"pressroom/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrPageNotFound = errors.New("page not found")

type PageService interface {
	Create(ctx context.Context, userID uuid.UUID, page *models.Page) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	Update(ctx context.Context, userID uuid.UUID, page *models.Page) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Page, error)
}

type pageService struct {
	pageRepo repositories.PageRepository
}

func NewPageService(pageRepo repositories.PageRepository) PageService {
	return &pageService{pageRepo: pageRepo}
}

func (s *pageService) Create(ctx context.Context, userID uuid.UUID, page *models.Page) error {
	if err := common.ValidateRequiredString(page.Title, "page title"); err != nil {
		return err
	}

	page.ID = uuid.New()
	page.Slug = common.Slugify(page.Title)
	page.CreatedBy = userID
	page.UpdatedBy = userID

	return s.pageRepo.Create(ctx, page)
}

func (s *pageService) GetByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	page, err := s.pageRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	return page, err
}

func (s *pageService) Update(ctx context.Context, userID uuid.UUID, page *models.Page) error {
	if err := common.ValidateRequiredString(page.Title, "page title"); err != nil {
		return err
	}

	existing, err := s.GetByID(ctx, page.ID)
	if err != nil {
		return err
	}

	if page.Title != existing.Title {
		page.Slug = common.Slugify(page.Title)
	} else {
		page.Slug = existing.Slug
	}
	page.UpdatedBy = userID

	return s.pageRepo.Update(ctx, page)
}

func (s *pageService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.pageRepo.Delete(ctx, id)
}

func (s *pageService) List(ctx context.Context, limit, offset int) ([]*models.Page, error) {
	return s.pageRepo.List(ctx, limit, offset)
}
