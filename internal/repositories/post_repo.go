package repositories

import (
	"context"
	"time"

	"pressroom/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, limit, offset int) ([]*models.Post, error)
	PublishDue(ctx context.Context, now time.Time) (int64, error)
}

type postRepo struct {
	db Database
}

func NewPostRepo(db Database) PostRepository {
	return &postRepo{db: db}
}

// Create inserts the post and its term links in one transaction so a
// failed link insert never leaves a half-written post behind.
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO posts (id, title, slug, body, status, publish_at, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, query, post.ID, post.Title, post.Slug, post.Body,
		post.Status, post.PublishAt, post.CreatedBy, post.UpdatedBy); err != nil {
		return err
	}

	for _, termID := range post.TermIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_terms (post_id, term_id) VALUES ($1, $2)`,
			post.ID, termID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `
		SELECT id, title, slug, body, status, publish_at, created_by, updated_by, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadTermIDs(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	query := `
		SELECT id, title, slug, body, status, publish_at, created_by, updated_by, created_at, updated_at
		FROM posts
		WHERE slug = $1
	`
	post, err := scanPost(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, err
	}
	if err := r.loadTermIDs(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update rewrites the post row and replaces its term links in one
// transaction.
func (r *postRepo) Update(ctx context.Context, post *models.Post) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE posts
		SET title = $1, slug = $2, body = $3, status = $4, publish_at = $5, updated_by = $6, updated_at = NOW()
		WHERE id = $7
	`
	if _, err := tx.Exec(ctx, query, post.Title, post.Slug, post.Body, post.Status,
		post.PublishAt, post.UpdatedBy, post.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM post_terms WHERE post_id = $1`, post.ID); err != nil {
		return err
	}
	for _, termID := range post.TermIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_terms (post_id, term_id) VALUES ($1, $2)`,
			post.ID, termID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *postRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.Post, error) {
	var rows pgx.Rows
	var err error
	if status != "" {
		query := `
			SELECT id, title, slug, body, status, publish_at, created_by, updated_by, created_at, updated_at
			FROM posts
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = r.db.Query(ctx, query, status, limit, offset)
	} else {
		query := `
			SELECT id, title, slug, body, status, publish_at, created_by, updated_by, created_at, updated_at
			FROM posts
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		rows, err = r.db.Query(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// PublishDue promotes scheduled posts whose publish time has passed and
// returns how many were promoted.
func (r *postRepo) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE posts
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND publish_at IS NOT NULL AND publish_at <= $3
	`
	tag, err := r.db.Exec(ctx, query, models.PostStatusPublished, models.PostStatusScheduled, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *postRepo) loadTermIDs(ctx context.Context, post *models.Post) error {
	rows, err := r.db.Query(ctx, `SELECT term_id FROM post_terms WHERE post_id = $1`, post.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	post.TermIDs = []uuid.UUID{}
	for rows.Next() {
		var termID uuid.UUID
		if err := rows.Scan(&termID); err != nil {
			return err
		}
		post.TermIDs = append(post.TermIDs, termID)
	}
	return rows.Err()
}

func scanPost(row pgx.Row) (*models.Post, error) {
	post := &models.Post{}
	err := row.Scan(&post.ID, &post.Title, &post.Slug, &post.Body, &post.Status,
		&post.PublishAt, &post.CreatedBy, &post.UpdatedBy, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return post, nil
}
