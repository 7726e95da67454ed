package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
)

// MockRewardRepository is a mock implementation of repository.RewardRepository
type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) Get(ctx context.Context, id string) (*models.Reward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reward), args.Error(1)
}

func (m *MockRewardRepository) ListActive(ctx context.Context) ([]models.Reward, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reward), args.Error(1)
}

func (m *MockRewardRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Reward, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reward), args.Error(1)
}

func (m *MockRewardRepository) Candidates(ctx context.Context, filter repository.CandidateFilter) ([]models.Reward, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reward), args.Error(1)
}

func (m *MockRewardRepository) AwardCount(ctx context.Context, rewardID string) (int, error) {
	args := m.Called(ctx, rewardID)
	return args.Int(0), args.Error(1)
}

func (m *MockRewardRepository) InsertAward(ctx context.Context, award models.Award) error {
	args := m.Called(ctx, award)
	return args.Error(0)
}

func (m *MockRewardRepository) ListForUser(ctx context.Context, userID string) ([]models.Reward, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reward), args.Error(1)
}
