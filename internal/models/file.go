package models

import (
	"time"

	"github.com/google/uuid"
)

// FileRecord tracks an uploaded media object stored in the object store.
type FileRecord struct {
	ID          uuid.UUID `json:"id" db:"id"`
	FileName    string    `json:"file_name" db:"file_name"`
	ObjectKey   string    `json:"object_key" db:"object_key"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	UploadedBy  uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
