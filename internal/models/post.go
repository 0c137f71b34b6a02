package models

import (
	"time"

	"github.com/google/uuid"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
)

type Post struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Title     string      `json:"title" db:"title"`
	Slug      string      `json:"slug" db:"slug"`
	Body      string      `json:"body" db:"body"`
	Status    string      `json:"status" db:"status"`
	PublishAt *time.Time  `json:"publish_at" db:"publish_at"`
	TermIDs   []uuid.UUID `json:"term_ids" db:"-"`
	CreatedBy uuid.UUID   `json:"created_by" db:"created_by"`
	UpdatedBy uuid.UUID   `json:"updated_by" db:"updated_by"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// ValidPostStatus checks if a post status value is valid.
func ValidPostStatus(status string) bool {
	switch status {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished:
		return true
	}
	return false
}
