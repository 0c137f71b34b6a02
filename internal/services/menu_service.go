package services

import (
	"context"
	"errors"
	"log"
	"time"

	"pressroom/internal/caching"
	"pressroom/internal/common"
	"pressroom/internal/models"
	"pressroom/internal/repositories"
	"pressroom/internal/tree"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrMenuNotFound       = errors.New("menu not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrItemSelfParent     = errors.New("menu item cannot be its own parent")
	ErrParentItemNotFound = errors.New("parent menu item not found")
	ErrParentWrongMenu    = errors.New("parent menu item belongs to a different menu")
)

const treeCacheTTL = 15 * time.Minute

type MenuService interface {
	CreateMenu(ctx context.Context, userID uuid.UUID, menu *models.Menu) error
	GetMenu(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	UpdateMenu(ctx context.Context, userID uuid.UUID, menu *models.Menu) error
	DeleteMenu(ctx context.Context, id uuid.UUID) error
	ListMenus(ctx context.Context, limit, offset int) ([]*models.Menu, error)

	CreateItem(ctx context.Context, userID uuid.UUID, item *models.MenuItem, position *int) error
	GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, item *models.MenuItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	GetTree(ctx context.Context, menuID uuid.UUID) ([]*models.MenuItem, error)
	GetTrees(ctx context.Context, menuIDs []uuid.UUID) (map[uuid.UUID][]*models.MenuItem, error)
}

type menuService struct {
	menuRepo repositories.MenuRepository
	cacheSvc caching.CacheService
}

func NewMenuService(menuRepo repositories.MenuRepository, cacheSvc caching.CacheService) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		cacheSvc: cacheSvc,
	}
}

func (s *menuService) CreateMenu(ctx context.Context, userID uuid.UUID, menu *models.Menu) error {
	if err := common.ValidateRequiredString(menu.Name, "menu name"); err != nil {
		return err
	}

	menu.ID = uuid.New()
	menu.Slug = common.Slugify(menu.Name)
	if menu.Metadata == nil {
		menu.Metadata = map[string]interface{}{}
	}
	menu.CreatedBy = userID
	menu.UpdatedBy = userID

	return s.menuRepo.CreateMenu(ctx, menu)
}

func (s *menuService) GetMenu(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	menu, err := s.menuRepo.GetMenuByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMenuNotFound
	}
	return menu, err
}

func (s *menuService) UpdateMenu(ctx context.Context, userID uuid.UUID, menu *models.Menu) error {
	if err := common.ValidateRequiredString(menu.Name, "menu name"); err != nil {
		return err
	}

	existing, err := s.GetMenu(ctx, menu.ID)
	if err != nil {
		return err
	}

	// Slug is re-normalized only on an explicit rename.
	if menu.Name != existing.Name {
		menu.Slug = common.Slugify(menu.Name)
	} else {
		menu.Slug = existing.Slug
	}
	if menu.Metadata == nil {
		menu.Metadata = map[string]interface{}{}
	}
	menu.UpdatedBy = userID

	return s.menuRepo.UpdateMenu(ctx, menu)
}

func (s *menuService) DeleteMenu(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetMenu(ctx, id); err != nil {
		return err
	}
	if err := s.menuRepo.DeleteMenu(ctx, id); err != nil {
		return err
	}
	s.invalidateTree(ctx, id)
	return nil
}

func (s *menuService) ListMenus(ctx context.Context, limit, offset int) ([]*models.Menu, error) {
	return s.menuRepo.ListMenus(ctx, limit, offset)
}

// CreateItem validates the parent link, resolves the sibling position and
// inserts the item. A nil position appends after the current last sibling
// with a gap of 10 so later inserts can slot between without renumbering.
func (s *menuService) CreateItem(ctx context.Context, userID uuid.UUID, item *models.MenuItem, position *int) error {
	if err := common.ValidateRequiredString(item.Label, "item label"); err != nil {
		return err
	}
	if _, err := s.GetMenu(ctx, item.MenuID); err != nil {
		return err
	}
	if err := s.validateParent(ctx, item.MenuID, uuid.Nil, item.ParentID); err != nil {
		return err
	}

	resolved, err := s.resolvePosition(ctx, item.MenuID, item.ParentID, position)
	if err != nil {
		return err
	}
	item.Position = resolved

	item.ID = uuid.New()
	if item.Metadata == nil {
		item.Metadata = map[string]interface{}{}
	}
	if item.VisibilityRoles == nil {
		item.VisibilityRoles = []string{}
	}
	item.CreatedBy = userID
	item.UpdatedBy = userID

	if err := s.menuRepo.CreateItem(ctx, item); err != nil {
		return err
	}
	s.invalidateTree(ctx, item.MenuID)
	return nil
}

func (s *menuService) GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetItemByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMenuItemNotFound
	}
	return item, err
}

func (s *menuService) UpdateItem(ctx context.Context, userID uuid.UUID, item *models.MenuItem) error {
	if err := common.ValidateRequiredString(item.Label, "item label"); err != nil {
		return err
	}

	existing, err := s.GetItem(ctx, item.ID)
	if err != nil {
		return err
	}
	// The owning menu never changes after creation.
	item.MenuID = existing.MenuID

	if err := s.validateParent(ctx, item.MenuID, item.ID, item.ParentID); err != nil {
		return err
	}

	if item.Metadata == nil {
		item.Metadata = map[string]interface{}{}
	}
	if item.VisibilityRoles == nil {
		item.VisibilityRoles = []string{}
	}
	item.UpdatedBy = userID

	if err := s.menuRepo.UpdateItem(ctx, item); err != nil {
		return err
	}
	s.invalidateTree(ctx, item.MenuID)
	return nil
}

func (s *menuService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.menuRepo.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidateTree(ctx, item.MenuID)
	return nil
}

// GetTree returns the ordered forest for one menu, serving from cache
// when possible.
func (s *menuService) GetTree(ctx context.Context, menuID uuid.UUID) ([]*models.MenuItem, error) {
	if cached, err := s.cacheSvc.GetMenuTree(ctx, menuID); err == nil && cached != nil {
		return cached, nil
	}

	if _, err := s.GetMenu(ctx, menuID); err != nil {
		return nil, err
	}

	items, err := s.menuRepo.ListItemsByMenuIDs(ctx, []uuid.UUID{menuID})
	if err != nil {
		return nil, err
	}
	if err := tree.ValidateEntries(items); err != nil {
		return nil, err
	}

	roots := tree.Build(items)
	if err := s.cacheSvc.SetMenuTree(ctx, menuID, roots, treeCacheTTL); err != nil {
		log.Printf("WARN: failed to cache menu tree %s: %v", menuID, err)
	}
	return roots, nil
}

// GetTrees builds the forests of several menus from a single batched
// fetch. Integrity validation runs over the whole fetched set before any
// tree is assembled.
func (s *menuService) GetTrees(ctx context.Context, menuIDs []uuid.UUID) (map[uuid.UUID][]*models.MenuItem, error) {
	items, err := s.menuRepo.ListItemsByMenuIDs(ctx, menuIDs)
	if err != nil {
		return nil, err
	}
	if err := tree.ValidateEntries(items); err != nil {
		return nil, err
	}

	grouped := tree.GroupByContainer(items)
	forests := make(map[uuid.UUID][]*models.MenuItem, len(menuIDs))
	for _, menuID := range menuIDs {
		forests[menuID] = tree.Build(grouped[menuID])
	}
	return forests, nil
}

// validateParent runs the three write-path checks: no self-parenting, the
// parent exists, and the parent belongs to the same menu. itemID is
// uuid.Nil on the create path, where self-parenting cannot occur.
func (s *menuService) validateParent(ctx context.Context, menuID, itemID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if itemID != uuid.Nil && *parentID == itemID {
		return ErrItemSelfParent
	}

	parent, err := s.menuRepo.GetItemByID(ctx, *parentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrParentItemNotFound
	}
	if err != nil {
		return err
	}
	if parent.MenuID != menuID {
		return ErrParentWrongMenu
	}
	return nil
}

// resolvePosition honors an explicit caller-supplied position; otherwise
// the new item lands 10 past the last sibling (-10 + 10 = 0 when the
// sibling set is empty).
func (s *menuService) resolvePosition(ctx context.Context, menuID uuid.UUID, parentID *uuid.UUID, position *int) (int, error) {
	if position != nil {
		return *position, nil
	}
	max, err := s.menuRepo.MaxSiblingPosition(ctx, menuID, parentID)
	if err != nil {
		return 0, err
	}
	return max + 10, nil
}

func (s *menuService) invalidateTree(ctx context.Context, menuID uuid.UUID) {
	if err := s.cacheSvc.DeleteMenuTree(ctx, menuID); err != nil {
		log.Printf("WARN: failed to invalidate menu tree cache %s: %v", menuID, err)
	}
}
