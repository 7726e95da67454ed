package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/marinav/edquest/internal/models"
)

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Insert(ctx context.Context, u models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateGamification(ctx context.Context, id string, points, level int) error {
	args := m.Called(ctx, id, points, level)
	return args.Error(0)
}

func (m *MockUserRepository) AppendActivity(ctx context.Context, userID, activity string) error {
	args := m.Called(ctx, userID, activity)
	return args.Error(0)
}

func (m *MockUserRepository) ActivityLog(ctx context.Context, userID string, limit int) ([]models.ActivityEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityEntry), args.Error(1)
}

func (m *MockUserRepository) RewardIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) HasReward(ctx context.Context, userID, rewardID string) (bool, error) {
	args := m.Called(ctx, userID, rewardID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AddReward(ctx context.Context, userID, rewardID string) error {
	args := m.Called(ctx, userID, rewardID)
	return args.Error(0)
}

func (m *MockUserRepository) Enrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

func (m *MockUserRepository) Enroll(ctx context.Context, userID, courseID string) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateEnrollment(ctx context.Context, userID, courseID string, progress int, isCompleted bool) error {
	args := m.Called(ctx, userID, courseID, progress, isCompleted)
	return args.Error(0)
}
