package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"pressroom/internal/models"
	"pressroom/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrFileNotFound = errors.New("file not found")

const presignedURLExpiry = 15 * time.Minute

type MediaService interface {
	Upload(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (*models.FileRecord, error)
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.FileRecord, error)
}

type mediaService struct {
	fileRepo repositories.FileRepository
	minioSvc MinioService
	bucket   string
}

func NewMediaService(fileRepo repositories.FileRepository, minioSvc MinioService, bucket string) MediaService {
	return &mediaService{
		fileRepo: fileRepo,
		minioSvc: minioSvc,
		bucket:   bucket,
	}
}

func (s *mediaService) Upload(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (*models.FileRecord, error) {
	record := &models.FileRecord{
		ID:          uuid.New(),
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		UploadedBy:  userID,
	}
	record.ObjectKey = fmt.Sprintf("%s/%s", record.ID, fileName)

	if err := s.minioSvc.UploadObject(ctx, s.bucket, record.ObjectKey, contentType, reader, size); err != nil {
		return nil, err
	}
	if err := s.fileRepo.Create(ctx, record); err != nil {
		// The orphaned object stays in the bucket; the metadata row is
		// the source of truth.
		return nil, err
	}
	return record, nil
}

func (s *mediaService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	record, err := s.fileRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrFileNotFound
	}
	if err != nil {
		return "", err
	}
	return s.minioSvc.GetPresignedURL(ctx, s.bucket, record.ObjectKey, presignedURLExpiry)
}

func (s *mediaService) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.fileRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrFileNotFound
	}
	if err != nil {
		return err
	}
	if err := s.minioSvc.DeleteObject(ctx, s.bucket, record.ObjectKey); err != nil {
		return err
	}
	return s.fileRepo.Delete(ctx, id)
}

func (s *mediaService) List(ctx context.Context, limit, offset int) ([]*models.FileRecord, error) {
	return s.fileRepo.List(ctx, limit, offset)
}
