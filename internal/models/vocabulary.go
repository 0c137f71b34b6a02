package models

import (
	"time"

	"github.com/google/uuid"
)

// Vocabulary represents a taxonomy vocabulary (a container of terms).
type Vocabulary struct {
	ID        uuid.UUID              `json:"id" db:"id"`
	Name      string                 `json:"name" db:"name"`
	Slug      string                 `json:"slug" db:"slug"`
	IsActive  bool                   `json:"is_active" db:"is_active"`
	Metadata  map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedBy uuid.UUID              `json:"created_by" db:"created_by"`
	UpdatedBy uuid.UUID              `json:"updated_by" db:"updated_by"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt time.Time              `json:"updated_at" db:"updated_at"`
}

// Term represents one taxonomy term within a vocabulary.
type Term struct {
	ID              uuid.UUID              `json:"id" db:"id"`
	VocabularyID    uuid.UUID              `json:"vocabulary_id" db:"vocabulary_id"`
	ParentID        *uuid.UUID             `json:"parent_id" db:"parent_id"`
	Label           string                 `json:"label" db:"label"`
	Description     string                 `json:"description" db:"description"`
	Position        int                    `json:"position" db:"position"`
	IsActive        bool                   `json:"is_active" db:"is_active"`
	VisibilityRoles []string               `json:"visibility_roles" db:"visibility_roles"`
	Metadata        map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedBy       uuid.UUID              `json:"created_by" db:"created_by"`
	UpdatedBy       uuid.UUID              `json:"updated_by" db:"updated_by"`
	CreatedAt       time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at" db:"updated_at"`
	Children        []*Term                `json:"children" db:"-"`
}

// tree.Node implementation

func (t *Term) NodeID() uuid.UUID          { return t.ID }
func (t *Term) NodeParentID() *uuid.UUID   { return t.ParentID }
func (t *Term) NodeContainerID() uuid.UUID { return t.VocabularyID }
func (t *Term) NodePosition() int          { return t.Position }
func (t *Term) NodeLabel() string          { return t.Label }
func (t *Term) AddChild(child *Term)       { t.Children = append(t.Children, child) }
func (t *Term) ResetChildren()             { t.Children = []*Term{} }
func (t *Term) ChildNodes() []*Term        { return t.Children }
