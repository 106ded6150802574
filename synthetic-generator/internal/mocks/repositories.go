package mocks

import (
	"context"

	"aurora-server/shared/interfaces"
	"aurora-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock UserRepository
type UserRepository struct {
	mock.Mock
}

var _ interfaces.UserRepository = (*UserRepository)(nil)

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// Mock ContentRepository
type ContentRepository struct {
	mock.Mock
}

var _ interfaces.ContentRepository = (*ContentRepository)(nil)

func (m *ContentRepository) CreatePost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *ContentRepository) CreatePoll(ctx context.Context, postID uuid.UUID, question string, options []string) (*models.Poll, error) {
	args := m.Called(ctx, postID, question, options)
	poll, _ := args.Get(0).(*models.Poll)
	return poll, args.Error(1)
}

func (m *ContentRepository) FindOrCreateHashtag(ctx context.Context, name string) (*models.Hashtag, error) {
	args := m.Called(ctx, name)
	tag, _ := args.Get(0).(*models.Hashtag)
	return tag, args.Error(1)
}

func (m *ContentRepository) LinkHashtagToPost(ctx context.Context, hashtagID, postID uuid.UUID) error {
	args := m.Called(ctx, hashtagID, postID)
	return args.Error(0)
}
