package repositories

import (
	"context"

	"pressroom/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MenuRepository interface {
	CreateMenu(ctx context.Context, menu *models.Menu) error
	GetMenuByID(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	GetMenuBySlug(ctx context.Context, slug string) (*models.Menu, error)
	UpdateMenu(ctx context.Context, menu *models.Menu) error
	DeleteMenu(ctx context.Context, id uuid.UUID) error
	ListMenus(ctx context.Context, limit, offset int) ([]*models.Menu, error)

	CreateItem(ctx context.Context, item *models.MenuItem) error
	GetItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItemsByMenuIDs(ctx context.Context, menuIDs []uuid.UUID) ([]*models.MenuItem, error)
	MaxSiblingPosition(ctx context.Context, menuID uuid.UUID, parentID *uuid.UUID) (int, error)
}

type menuRepo struct {
	db Database
}

func NewMenuRepo(db Database) MenuRepository {
	return &menuRepo{db: db}
}

func (r *menuRepo) CreateMenu(ctx context.Context, menu *models.Menu) error {
	query := `
		INSERT INTO menus (id, name, slug, is_active, metadata, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, menu.ID, menu.Name, menu.Slug, menu.IsActive,
		menu.Metadata, menu.CreatedBy, menu.UpdatedBy)
	return err
}

func (r *menuRepo) GetMenuByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	query := `
		SELECT id, name, slug, is_active, metadata, created_by, updated_by, created_at, updated_at
		FROM menus
		WHERE id = $1
	`
	return scanMenu(r.db.QueryRow(ctx, query, id))
}

func (r *menuRepo) GetMenuBySlug(ctx context.Context, slug string) (*models.Menu, error) {
	query := `
		SELECT id, name, slug, is_active, metadata, created_by, updated_by, created_at, updated_at
		FROM menus
		WHERE slug = $1
	`
	return scanMenu(r.db.QueryRow(ctx, query, slug))
}

func (r *menuRepo) UpdateMenu(ctx context.Context, menu *models.Menu) error {
	query := `
		UPDATE menus
		SET name = $1, slug = $2, is_active = $3, metadata = $4, updated_by = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, menu.Name, menu.Slug, menu.IsActive,
		menu.Metadata, menu.UpdatedBy, menu.ID)
	return err
}

func (r *menuRepo) DeleteMenu(ctx context.Context, id uuid.UUID) error {
	// Item rows cascade via the menu_items.menu_id foreign key.
	query := `DELETE FROM menus WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *menuRepo) ListMenus(ctx context.Context, limit, offset int) ([]*models.Menu, error) {
	query := `
		SELECT id, name, slug, is_active, metadata, created_by, updated_by, created_at, updated_at
		FROM menus
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []*models.Menu
	for rows.Next() {
		menu, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, menu)
	}
	return menus, rows.Err()
}

func (r *menuRepo) CreateItem(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, menu_id, parent_id, label, url, position, is_active, visibility_roles, metadata, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.MenuID, item.ParentID, item.Label, item.URL,
		item.Position, item.IsActive, item.VisibilityRoles, item.Metadata, item.CreatedBy, item.UpdatedBy)
	return err
}

func (r *menuRepo) GetItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	query := `
		SELECT id, menu_id, parent_id, label, url, position, is_active, visibility_roles, metadata, created_by, updated_by, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`
	return scanMenuItem(r.db.QueryRow(ctx, query, id))
}

func (r *menuRepo) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	// menu_id is immutable after creation and deliberately absent here.
	query := `
		UPDATE menu_items
		SET parent_id = $1, label = $2, url = $3, position = $4, is_active = $5, visibility_roles = $6, metadata = $7, updated_by = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err := r.db.Exec(ctx, query, item.ParentID, item.Label, item.URL, item.Position,
		item.IsActive, item.VisibilityRoles, item.Metadata, item.UpdatedBy, item.ID)
	return err
}

func (r *menuRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM menu_items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// ListItemsByMenuIDs fetches the items of every requested menu in one
// round trip, ordered for grouping locality.
func (r *menuRepo) ListItemsByMenuIDs(ctx context.Context, menuIDs []uuid.UUID) ([]*models.MenuItem, error) {
	query := `
		SELECT id, menu_id, parent_id, label, url, position, is_active, visibility_roles, metadata, created_by, updated_by, created_at, updated_at
		FROM menu_items
		WHERE menu_id = ANY($1)
		ORDER BY menu_id ASC, position ASC, label ASC
	`
	rows, err := r.db.Query(ctx, query, menuIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MaxSiblingPosition returns the highest position among siblings sharing
// the same menu and parent, or -10 when the sibling set is empty. Root
// siblings (nil parent) and children of a given parent are distinct
// branches, never a coincidental match.
func (r *menuRepo) MaxSiblingPosition(ctx context.Context, menuID uuid.UUID, parentID *uuid.UUID) (int, error) {
	var max int
	if parentID == nil {
		query := `SELECT COALESCE(MAX(position), -10) FROM menu_items WHERE menu_id = $1 AND parent_id IS NULL`
		err := r.db.QueryRow(ctx, query, menuID).Scan(&max)
		return max, err
	}
	query := `SELECT COALESCE(MAX(position), -10) FROM menu_items WHERE menu_id = $1 AND parent_id = $2`
	err := r.db.QueryRow(ctx, query, menuID, *parentID).Scan(&max)
	return max, err
}

// scanMenu maps one menus row, defaulting NULL metadata to an empty map.
func scanMenu(row pgx.Row) (*models.Menu, error) {
	menu := &models.Menu{}
	err := row.Scan(&menu.ID, &menu.Name, &menu.Slug, &menu.IsActive, &menu.Metadata,
		&menu.CreatedBy, &menu.UpdatedBy, &menu.CreatedAt, &menu.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if menu.Metadata == nil {
		menu.Metadata = map[string]interface{}{}
	}
	return menu, nil
}

// scanMenuItem maps one menu_items row. NULL metadata becomes an empty
// map, NULL visibility_roles an empty slice, and Children always starts
// empty (the tree builder owns it).
func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := row.Scan(&item.ID, &item.MenuID, &item.ParentID, &item.Label, &item.URL,
		&item.Position, &item.IsActive, &item.VisibilityRoles, &item.Metadata,
		&item.CreatedBy, &item.UpdatedBy, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if item.Metadata == nil {
		item.Metadata = map[string]interface{}{}
	}
	if item.VisibilityRoles == nil {
		item.VisibilityRoles = []string{}
	}
	item.Children = []*models.MenuItem{}
	return item, nil
}
