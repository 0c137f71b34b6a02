package services

import (
	"context"
	"testing"
	"time"

	"pressroom/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.Post, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type PostServiceTestSuite struct {
	suite.Suite
	mockRepo *MockPostRepository
	service  PostService
	ctx      context.Context
	userID   uuid.UUID
}

func (suite *PostServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockPostRepository{}
	suite.service = NewPostService(suite.mockRepo)
	suite.ctx = context.Background()
	suite.userID = uuid.New()

	suite.mockRepo.Test(suite.T())
}

func (suite *PostServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestPostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostServiceTestSuite))
}

func (suite *PostServiceTestSuite) TestCreate_DefaultsToDraft() {
	post := &models.Post{Title: "Launch Announcement", Body: "Soon."}

	suite.mockRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Post")).Return(nil)

	err := suite.service.Create(suite.ctx, suite.userID, post)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PostStatusDraft, post.Status)
	assert.Equal(suite.T(), "launch-announcement", post.Slug)
	assert.Equal(suite.T(), suite.userID, post.CreatedBy)
	assert.NotNil(suite.T(), post.TermIDs)
}

func (suite *PostServiceTestSuite) TestCreate_FuturePublishAtSchedules() {
	future := time.Now().Add(24 * time.Hour)
	post := &models.Post{Title: "Embargoed Story", PublishAt: &future}

	suite.mockRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Post")).Return(nil)

	err := suite.service.Create(suite.ctx, suite.userID, post)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PostStatusScheduled, post.Status)
}

func (suite *PostServiceTestSuite) TestCreate_InvalidStatusRejected() {
	post := &models.Post{Title: "Bad Status", Status: "archived"}

	err := suite.service.Create(suite.ctx, suite.userID, post)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "invalid post status")
	suite.mockRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *PostServiceTestSuite) TestPublish_PromotesImmediately() {
	postID := uuid.New()
	existing := &models.Post{
		ID:     postID,
		Title:  "Scheduled Story",
		Slug:   "scheduled-story",
		Status: models.PostStatusScheduled,
	}

	suite.mockRepo.On("GetByID", suite.ctx, postID).Return(existing, nil)
	suite.mockRepo.On("Update", suite.ctx, mock.AnythingOfType("*models.Post")).Return(nil)

	post, err := suite.service.Publish(suite.ctx, suite.userID, postID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PostStatusPublished, post.Status)
	assert.NotNil(suite.T(), post.PublishAt)
	assert.Equal(suite.T(), suite.userID, post.UpdatedBy)
}

func (suite *PostServiceTestSuite) TestPublish_NotFound() {
	postID := uuid.New()

	suite.mockRepo.On("GetByID", suite.ctx, postID).Return(nil, pgx.ErrNoRows)

	post, err := suite.service.Publish(suite.ctx, suite.userID, postID)
	assert.ErrorIs(suite.T(), err, ErrPostNotFound)
	assert.Nil(suite.T(), post)
}

func (suite *PostServiceTestSuite) TestPublishDue_ReportsCount() {
	suite.mockRepo.On("PublishDue", suite.ctx, mock.AnythingOfType("time.Time")).Return(int64(3), nil)

	count, err := suite.service.PublishDue(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), count)
}
