package repositories

import (
	"context"

	"pressroom/internal/models"

	"github.com/google/uuid"
)

type FileRepository interface {
	Create(ctx context.Context, record *models.FileRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FileRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.FileRecord, error)
}

type fileRepo struct {
	db Database
}

func NewFileRepo(db Database) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, record *models.FileRecord) error {
	query := `
		INSERT INTO file_records (id, file_name, object_key, content_type, size_bytes, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, record.ID, record.FileName, record.ObjectKey,
		record.ContentType, record.SizeBytes, record.UploadedBy)
	return err
}

func (r *fileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.FileRecord, error) {
	record := &models.FileRecord{}
	query := `
		SELECT id, file_name, object_key, content_type, size_bytes, uploaded_by, created_at
		FROM file_records
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&record.ID, &record.FileName, &record.ObjectKey,
		&record.ContentType, &record.SizeBytes, &record.UploadedBy, &record.CreatedAt)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *fileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM file_records WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *fileRepo) List(ctx context.Context, limit, offset int) ([]*models.FileRecord, error) {
	query := `
		SELECT id, file_name, object_key, content_type, size_bytes, uploaded_by, created_at
		FROM file_records
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.FileRecord
	for rows.Next() {
		record := &models.FileRecord{}
		if err := rows.Scan(&record.ID, &record.FileName, &record.ObjectKey, &record.ContentType,
			&record.SizeBytes, &record.UploadedBy, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
