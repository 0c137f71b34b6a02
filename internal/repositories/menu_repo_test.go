package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"pressroom/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var menuItemColumns = []string{
	"id", "menu_id", "parent_id", "label", "url", "position", "is_active",
	"visibility_roles", "metadata", "created_by", "updated_by", "created_at", "updated_at",
}

type MenuRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    MenuRepository
	menuID  uuid.UUID
	userID  uuid.UUID
	context context.Context
}

func (suite *MenuRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewMenuRepo(mock)
	suite.menuID = uuid.New()
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *MenuRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestMenuRepoTestSuite(t *testing.T) {
	suite.Run(t, new(MenuRepoTestSuite))
}

func (suite *MenuRepoTestSuite) TestCreateMenu_Success() {
	menu := &models.Menu{
		ID:        uuid.New(),
		Name:      "Main Menu",
		Slug:      "main-menu",
		IsActive:  true,
		Metadata:  map[string]interface{}{},
		CreatedBy: suite.userID,
		UpdatedBy: suite.userID,
	}

	suite.mock.ExpectExec(`INSERT INTO menus`).
		WithArgs(menu.ID, menu.Name, menu.Slug, menu.IsActive, menu.Metadata, menu.CreatedBy, menu.UpdatedBy).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.CreateMenu(suite.context, menu)
	assert.NoError(suite.T(), err)
}

func (suite *MenuRepoTestSuite) TestGetMenuByID_DefaultsNullMetadata() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "name", "slug", "is_active", "metadata", "created_by", "updated_by", "created_at", "updated_at"}).
		AddRow(suite.menuID, "Main Menu", "main-menu", true, nil, suite.userID, suite.userID, now, now)

	suite.mock.ExpectQuery(`SELECT id, name, slug, is_active, metadata, created_by, updated_by, created_at, updated_at\s+FROM menus\s+WHERE id = \$1`).
		WithArgs(suite.menuID).
		WillReturnRows(rows)

	menu, err := suite.repo.GetMenuByID(suite.context, suite.menuID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Main Menu", menu.Name)
	assert.NotNil(suite.T(), menu.Metadata)
	assert.Empty(suite.T(), menu.Metadata)
}

func (suite *MenuRepoTestSuite) TestGetMenuByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, name, slug, is_active, metadata, created_by, updated_by, created_at, updated_at\s+FROM menus\s+WHERE id = \$1`).
		WithArgs(suite.menuID).
		WillReturnError(pgx.ErrNoRows)

	menu, err := suite.repo.GetMenuByID(suite.context, suite.menuID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), menu)
}

func (suite *MenuRepoTestSuite) TestGetItemByID_DefaultsNullCollections() {
	itemID := uuid.New()
	now := time.Now()
	rows := pgxmock.NewRows(menuItemColumns).
		AddRow(itemID, suite.menuID, nil, "Home", "/", 0, true, nil, nil, suite.userID, suite.userID, now, now)

	suite.mock.ExpectQuery(`FROM menu_items\s+WHERE id = \$1`).
		WithArgs(itemID).
		WillReturnRows(rows)

	item, err := suite.repo.GetItemByID(suite.context, itemID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Home", item.Label)
	assert.Nil(suite.T(), item.ParentID)
	assert.NotNil(suite.T(), item.Metadata)
	assert.Empty(suite.T(), item.Metadata)
	assert.NotNil(suite.T(), item.VisibilityRoles)
	assert.Empty(suite.T(), item.VisibilityRoles)
	assert.NotNil(suite.T(), item.Children)
	assert.Empty(suite.T(), item.Children)
}

func (suite *MenuRepoTestSuite) TestListItemsByMenuIDs_Batched() {
	otherMenuID := uuid.New()
	menuIDs := []uuid.UUID{suite.menuID, otherMenuID}
	now := time.Now()

	rows := pgxmock.NewRows(menuItemColumns).
		AddRow(uuid.New(), suite.menuID, nil, "Home", "/", 0, true, []string{}, map[string]interface{}{}, suite.userID, suite.userID, now, now).
		AddRow(uuid.New(), suite.menuID, nil, "About", "/about", 10, true, []string{}, map[string]interface{}{}, suite.userID, suite.userID, now, now).
		AddRow(uuid.New(), otherMenuID, nil, "Footer", "/footer", 0, true, []string{}, map[string]interface{}{}, suite.userID, suite.userID, now, now)

	suite.mock.ExpectQuery(`FROM menu_items\s+WHERE menu_id = ANY\(\$1\)\s+ORDER BY menu_id ASC, position ASC, label ASC`).
		WithArgs(menuIDs).
		WillReturnRows(rows)

	items, err := suite.repo.ListItemsByMenuIDs(suite.context, menuIDs)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), items, 3)
	assert.Equal(suite.T(), "Home", items[0].Label)
	assert.Equal(suite.T(), otherMenuID, items[2].MenuID)
}

func (suite *MenuRepoTestSuite) TestListItemsByMenuIDs_EmptyResult() {
	menuIDs := []uuid.UUID{suite.menuID}

	suite.mock.ExpectQuery(`FROM menu_items\s+WHERE menu_id = ANY\(\$1\)`).
		WithArgs(menuIDs).
		WillReturnRows(pgxmock.NewRows(menuItemColumns))

	items, err := suite.repo.ListItemsByMenuIDs(suite.context, menuIDs)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), items)
}

func (suite *MenuRepoTestSuite) TestMaxSiblingPosition_RootSiblings() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(MAX\(position\), -10\) FROM menu_items WHERE menu_id = \$1 AND parent_id IS NULL`).
		WithArgs(suite.menuID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(20))

	max, err := suite.repo.MaxSiblingPosition(suite.context, suite.menuID, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 20, max)
}

func (suite *MenuRepoTestSuite) TestMaxSiblingPosition_EmptySiblingSet() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(MAX\(position\), -10\) FROM menu_items WHERE menu_id = \$1 AND parent_id IS NULL`).
		WithArgs(suite.menuID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(-10))

	max, err := suite.repo.MaxSiblingPosition(suite.context, suite.menuID, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), -10, max)
}

func (suite *MenuRepoTestSuite) TestMaxSiblingPosition_UnderParent() {
	parentID := uuid.New()

	suite.mock.ExpectQuery(`SELECT COALESCE\(MAX\(position\), -10\) FROM menu_items WHERE menu_id = \$1 AND parent_id = \$2`).
		WithArgs(suite.menuID, parentID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(30))

	max, err := suite.repo.MaxSiblingPosition(suite.context, suite.menuID, &parentID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 30, max)
}

func (suite *MenuRepoTestSuite) TestUpdateItem_OmitsMenuID() {
	item := &models.MenuItem{
		ID:              uuid.New(),
		MenuID:          suite.menuID,
		Label:           "Renamed",
		URL:             "/renamed",
		Position:        10,
		IsActive:        true,
		VisibilityRoles: []string{},
		Metadata:        map[string]interface{}{},
		UpdatedBy:       suite.userID,
	}

	suite.mock.ExpectExec(`UPDATE menu_items\s+SET parent_id = \$1, label = \$2, url = \$3, position = \$4, is_active = \$5, visibility_roles = \$6, metadata = \$7, updated_by = \$8, updated_at = NOW\(\)\s+WHERE id = \$9`).
		WithArgs(item.ParentID, item.Label, item.URL, item.Position, item.IsActive,
			item.VisibilityRoles, item.Metadata, item.UpdatedBy, item.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateItem(suite.context, item)
	assert.NoError(suite.T(), err)
}

func (suite *MenuRepoTestSuite) TestDeleteItem_Success() {
	itemID := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM menu_items WHERE id = \$1`).
		WithArgs(itemID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.DeleteItem(suite.context, itemID)
	assert.NoError(suite.T(), err)
}

func (suite *MenuRepoTestSuite) TestCreateItem_DatabaseError() {
	item := &models.MenuItem{
		ID:              uuid.New(),
		MenuID:          suite.menuID,
		Label:           "Home",
		URL:             "/",
		IsActive:        true,
		VisibilityRoles: []string{},
		Metadata:        map[string]interface{}{},
		CreatedBy:       suite.userID,
		UpdatedBy:       suite.userID,
	}

	suite.mock.ExpectExec(`INSERT INTO menu_items`).
		WithArgs(item.ID, item.MenuID, item.ParentID, item.Label, item.URL, item.Position,
			item.IsActive, item.VisibilityRoles, item.Metadata, item.CreatedBy, item.UpdatedBy).
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.CreateItem(suite.context, item)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}
