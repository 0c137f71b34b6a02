package services

import (
	"context"
	"testing"

	"pressroom/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockVocabularyRepository struct {
	mock.Mock
}

func (m *MockVocabularyRepository) CreateVocabulary(ctx context.Context, vocabulary *models.Vocabulary) error {
	args := m.Called(ctx, vocabulary)
	return args.Error(0)
}

func (m *MockVocabularyRepository) GetVocabularyByID(ctx context.Context, id uuid.UUID) (*models.Vocabulary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vocabulary), args.Error(1)
}

func (m *MockVocabularyRepository) GetVocabularyBySlug(ctx context.Context, slug string) (*models.Vocabulary, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vocabulary), args.Error(1)
}

func (m *MockVocabularyRepository) UpdateVocabulary(ctx context.Context, vocabulary *models.Vocabulary) error {
	args := m.Called(ctx, vocabulary)
	return args.Error(0)
}

func (m *MockVocabularyRepository) DeleteVocabulary(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVocabularyRepository) ListVocabularies(ctx context.Context, limit, offset int) ([]*models.Vocabulary, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vocabulary), args.Error(1)
}

func (m *MockVocabularyRepository) CreateTerm(ctx context.Context, term *models.Term) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

func (m *MockVocabularyRepository) GetTermByID(ctx context.Context, id uuid.UUID) (*models.Term, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Term), args.Error(1)
}

func (m *MockVocabularyRepository) UpdateTerm(ctx context.Context, term *models.Term) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

func (m *MockVocabularyRepository) DeleteTerm(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVocabularyRepository) ListTermsByVocabularyIDs(ctx context.Context, vocabularyIDs []uuid.UUID) ([]*models.Term, error) {
	args := m.Called(ctx, vocabularyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Term), args.Error(1)
}

func (m *MockVocabularyRepository) MaxSiblingPosition(ctx context.Context, vocabularyID uuid.UUID, parentID *uuid.UUID) (int, error) {
	args := m.Called(ctx, vocabularyID, parentID)
	return args.Int(0), args.Error(1)
}

type TaxonomyServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockVocabularyRepository
	mockCache    *MockCacheService
	service      TaxonomyService
	ctx          context.Context
	userID       uuid.UUID
	vocabularyID uuid.UUID
}

func (suite *TaxonomyServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockVocabularyRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewTaxonomyService(suite.mockRepo, suite.mockCache)
	suite.ctx = context.Background()
	suite.userID = uuid.New()
	suite.vocabularyID = uuid.New()

	suite.mockRepo.Test(suite.T())
	suite.mockCache.Test(suite.T())
}

func (suite *TaxonomyServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestTaxonomyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaxonomyServiceTestSuite))
}

func (suite *TaxonomyServiceTestSuite) existingVocabulary() *models.Vocabulary {
	return &models.Vocabulary{
		ID:       suite.vocabularyID,
		Name:     "Topics",
		Slug:     "topics",
		IsActive: true,
		Metadata: map[string]interface{}{},
	}
}

func (suite *TaxonomyServiceTestSuite) TestCreateVocabulary_Success() {
	vocabulary := &models.Vocabulary{Name: "Press Topics", IsActive: true}

	suite.mockRepo.On("CreateVocabulary", suite.ctx, mock.AnythingOfType("*models.Vocabulary")).Return(nil).Run(func(args mock.Arguments) {
		created := args.Get(1).(*models.Vocabulary)
		assert.NotEqual(suite.T(), uuid.Nil, created.ID)
		assert.Equal(suite.T(), "press-topics", created.Slug)
		assert.Equal(suite.T(), suite.userID, created.CreatedBy)
	})

	err := suite.service.CreateVocabulary(suite.ctx, suite.userID, vocabulary)
	assert.NoError(suite.T(), err)
}

func (suite *TaxonomyServiceTestSuite) TestCreateTerm_FirstSiblingGetsPositionZero() {
	term := &models.Term{VocabularyID: suite.vocabularyID, Label: "Politics", IsActive: true}

	suite.mockRepo.On("GetVocabularyByID", suite.ctx, suite.vocabularyID).Return(suite.existingVocabulary(), nil)
	suite.mockRepo.On("MaxSiblingPosition", suite.ctx, suite.vocabularyID, (*uuid.UUID)(nil)).Return(-10, nil)
	suite.mockRepo.On("CreateTerm", suite.ctx, mock.AnythingOfType("*models.Term")).Return(nil)
	suite.mockCache.On("DeleteTermTree", suite.ctx, suite.vocabularyID).Return(nil)

	err := suite.service.CreateTerm(suite.ctx, suite.userID, term, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, term.Position)
}

func (suite *TaxonomyServiceTestSuite) TestCreateTerm_AppendsUnderParent() {
	parentID := uuid.New()
	parent := &models.Term{ID: parentID, VocabularyID: suite.vocabularyID, Label: "Politics"}
	term := &models.Term{VocabularyID: suite.vocabularyID, ParentID: &parentID, Label: "Elections"}

	suite.mockRepo.On("GetVocabularyByID", suite.ctx, suite.vocabularyID).Return(suite.existingVocabulary(), nil)
	suite.mockRepo.On("GetTermByID", suite.ctx, parentID).Return(parent, nil)
	suite.mockRepo.On("MaxSiblingPosition", suite.ctx, suite.vocabularyID, &parentID).Return(20, nil)
	suite.mockRepo.On("CreateTerm", suite.ctx, mock.AnythingOfType("*models.Term")).Return(nil)
	suite.mockCache.On("DeleteTermTree", suite.ctx, suite.vocabularyID).Return(nil)

	err := suite.service.CreateTerm(suite.ctx, suite.userID, term, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 30, term.Position)
}

func (suite *TaxonomyServiceTestSuite) TestCreateTerm_ParentInDifferentVocabulary() {
	parentID := uuid.New()
	parent := &models.Term{ID: parentID, VocabularyID: uuid.New(), Label: "Elsewhere"}
	term := &models.Term{VocabularyID: suite.vocabularyID, ParentID: &parentID, Label: "Child"}

	suite.mockRepo.On("GetVocabularyByID", suite.ctx, suite.vocabularyID).Return(suite.existingVocabulary(), nil)
	suite.mockRepo.On("GetTermByID", suite.ctx, parentID).Return(parent, nil)

	err := suite.service.CreateTerm(suite.ctx, suite.userID, term, nil)
	assert.ErrorIs(suite.T(), err, ErrParentWrongVocabulary)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateTerm", mock.Anything, mock.Anything)
}

func (suite *TaxonomyServiceTestSuite) TestCreateTerm_ParentNotFound() {
	parentID := uuid.New()
	term := &models.Term{VocabularyID: suite.vocabularyID, ParentID: &parentID, Label: "Child"}

	suite.mockRepo.On("GetVocabularyByID", suite.ctx, suite.vocabularyID).Return(suite.existingVocabulary(), nil)
	suite.mockRepo.On("GetTermByID", suite.ctx, parentID).Return(nil, pgx.ErrNoRows)

	err := suite.service.CreateTerm(suite.ctx, suite.userID, term, nil)
	assert.ErrorIs(suite.T(), err, ErrParentTermNotFound)
}

func (suite *TaxonomyServiceTestSuite) TestUpdateTerm_SelfParentRejected() {
	termID := uuid.New()
	existing := &models.Term{ID: termID, VocabularyID: suite.vocabularyID, Label: "Node"}
	term := &models.Term{ID: termID, ParentID: &termID, Label: "Node"}

	suite.mockRepo.On("GetTermByID", suite.ctx, termID).Return(existing, nil)

	err := suite.service.UpdateTerm(suite.ctx, suite.userID, term)
	assert.ErrorIs(suite.T(), err, ErrTermSelfParent)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateTerm", mock.Anything, mock.Anything)
}

func (suite *TaxonomyServiceTestSuite) TestGetTree_CacheHit() {
	cached := []*models.Term{{ID: uuid.New(), VocabularyID: suite.vocabularyID, Label: "Politics"}}

	suite.mockCache.On("GetTermTree", suite.ctx, suite.vocabularyID).Return(cached, nil)

	roots, err := suite.service.GetTree(suite.ctx, suite.vocabularyID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, roots)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListTermsByVocabularyIDs", mock.Anything, mock.Anything)
}

func (suite *TaxonomyServiceTestSuite) TestGetTree_CacheMissBuildsForest() {
	parent := &models.Term{ID: uuid.New(), VocabularyID: suite.vocabularyID, Label: "Politics", Position: 0}
	child := &models.Term{ID: uuid.New(), VocabularyID: suite.vocabularyID, ParentID: &parent.ID, Label: "Elections", Position: 0}

	suite.mockCache.On("GetTermTree", suite.ctx, suite.vocabularyID).Return(nil, nil)
	suite.mockRepo.On("GetVocabularyByID", suite.ctx, suite.vocabularyID).Return(suite.existingVocabulary(), nil)
	suite.mockRepo.On("ListTermsByVocabularyIDs", suite.ctx, []uuid.UUID{suite.vocabularyID}).
		Return([]*models.Term{child, parent}, nil)
	suite.mockCache.On("SetTermTree", suite.ctx, suite.vocabularyID, mock.AnythingOfType("[]*models.Term"), treeCacheTTL).Return(nil)

	roots, err := suite.service.GetTree(suite.ctx, suite.vocabularyID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), roots, 1)
	assert.Equal(suite.T(), "Politics", roots[0].Label)
	assert.Len(suite.T(), roots[0].Children, 1)
}

func (suite *TaxonomyServiceTestSuite) TestGetTree_VocabularyNotFound() {
	suite.mockCache.On("GetTermTree", suite.ctx, suite.vocabularyID).Return(nil, nil)
	suite.mockRepo.On("GetVocabularyByID", suite.ctx, suite.vocabularyID).Return(nil, pgx.ErrNoRows)

	roots, err := suite.service.GetTree(suite.ctx, suite.vocabularyID)
	assert.ErrorIs(suite.T(), err, ErrVocabularyNotFound)
	assert.Nil(suite.T(), roots)
}

func (suite *TaxonomyServiceTestSuite) TestDeleteTerm_InvalidatesTreeCache() {
	termID := uuid.New()
	existing := &models.Term{ID: termID, VocabularyID: suite.vocabularyID, Label: "Doomed"}

	suite.mockRepo.On("GetTermByID", suite.ctx, termID).Return(existing, nil)
	suite.mockRepo.On("DeleteTerm", suite.ctx, termID).Return(nil)
	suite.mockCache.On("DeleteTermTree", suite.ctx, suite.vocabularyID).Return(nil)

	err := suite.service.DeleteTerm(suite.ctx, termID)
	assert.NoError(suite.T(), err)
}
