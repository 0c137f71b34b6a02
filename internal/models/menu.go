package models

import (
	"time"

	"github.com/google/uuid"
)

// Menu represents a navigation menu (a container of menu items).
type Menu struct {
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

// MenuItem represents one entry in a menu. Children is derived by the
// tree builder for listing responses and is never persisted.
type MenuItem struct {
	ID              uuid.UUID              `json:"id" db:"id"`
	MenuID          uuid.UUID              `json:"menu_id" db:"menu_id"`
	ParentID        *uuid.UUID             `json:"parent_id" db:"parent_id"`
	Label           string                 `json:"label" db:"label"`
	URL             string                 `json:"url" db:"url"`
	Position        int                    `json:"position" db:"position"`
	IsActive        bool                   `json:"is_active" db:"is_active"`
	VisibilityRoles []string               `json:"visibility_roles" db:"visibility_roles"`
	Metadata        map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedBy       uuid.UUID              `json:"created_by" db:"created_by"`
	UpdatedBy       uuid.UUID              `json:"updated_by" db:"updated_by"`
	CreatedAt       time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at" db:"updated_at"`
	Children        []*MenuItem            `json:"children" db:"-"`
}

// tree.Node implementation

func (m *MenuItem) NodeID() uuid.UUID          { return m.ID }
func (m *MenuItem) NodeParentID() *uuid.UUID   { return m.ParentID }
func (m *MenuItem) NodeContainerID() uuid.UUID { return m.MenuID }
func (m *MenuItem) NodePosition() int          { return m.Position }
func (m *MenuItem) NodeLabel() string          { return m.Label }
func (m *MenuItem) AddChild(child *MenuItem)   { m.Children = append(m.Children, child) }
func (m *MenuItem) ResetChildren()             { m.Children = []*MenuItem{} }
func (m *MenuItem) ChildNodes() []*MenuItem    { return m.Children }
