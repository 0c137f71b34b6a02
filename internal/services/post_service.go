package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pressroom/internal/common"
	"pressroom/internal/models"
	"pressroom/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrPostNotFound = errors.New("post not found")

type PostService interface {
	Create(ctx context.Context, userID uuid.UUID, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Update(ctx context.Context, userID uuid.UUID, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, limit, offset int) ([]*models.Post, error)
	Publish(ctx context.Context, userID, id uuid.UUID) (*models.Post, error)
	PublishDue(ctx context.Context) (int64, error)
}

type postService struct {
	postRepo repositories.PostRepository
}

func NewPostService(postRepo repositories.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (s *postService) Create(ctx context.Context, userID uuid.UUID, post *models.Post) error {
	if err := common.ValidateRequiredString(post.Title, "post title"); err != nil {
		return err
	}

	post.ID = uuid.New()
	post.Slug = common.Slugify(post.Title)
	if post.Status == "" {
		post.Status = models.PostStatusDraft
		if post.PublishAt != nil && post.PublishAt.After(time.Now()) {
			post.Status = models.PostStatusScheduled
		}
	}
	if !models.ValidPostStatus(post.Status) {
		return fmt.Errorf("invalid post status: %s", post.Status)
	}
	if post.TermIDs == nil {
		post.TermIDs = []uuid.UUID{}
	}
	post.CreatedBy = userID
	post.UpdatedBy = userID

	return s.postRepo.Create(ctx, post)
}

func (s *postService) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	return post, err
}

func (s *postService) Update(ctx context.Context, userID uuid.UUID, post *models.Post) error {
	if err := common.ValidateRequiredString(post.Title, "post title"); err != nil {
		return err
	}
	if !models.ValidPostStatus(post.Status) {
		return fmt.Errorf("invalid post status: %s", post.Status)
	}

	existing, err := s.GetByID(ctx, post.ID)
	if err != nil {
		return err
	}

	if post.Title != existing.Title {
		post.Slug = common.Slugify(post.Title)
	} else {
		post.Slug = existing.Slug
	}
	if post.TermIDs == nil {
		post.TermIDs = []uuid.UUID{}
	}
	post.UpdatedBy = userID

	return s.postRepo.Update(ctx, post)
}

func (s *postService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, id)
}

func (s *postService) List(ctx context.Context, status string, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, status, limit, offset)
}

// Publish promotes a post to published immediately regardless of its
// scheduled time.
func (s *postService) Publish(ctx context.Context, userID, id uuid.UUID) (*models.Post, error) {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post.Status = models.PostStatusPublished
	post.PublishAt = &now
	post.UpdatedBy = userID

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// PublishDue promotes every scheduled post whose publish time has passed.
// Called by the background scheduler.
func (s *postService) PublishDue(ctx context.Context) (int64, error) {
	return s.postRepo.PublishDue(ctx, time.Now())
}
