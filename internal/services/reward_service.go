package services

import (
	"context"
	"time"

	"github.com/marinav/edquest/internal/errors"
	"github.com/marinav/edquest/internal/gamification"
	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
	"github.com/marinav/edquest/internal/rewards"
)

type RewardService interface {
	Get(ctx context.Context, rewardID string) (*models.Reward, error)
	ListActive(ctx context.Context) ([]models.Reward, error)
	ListForUser(ctx context.Context, userID string) ([]models.Reward, error)
	// AwardToUser grants a reward outside the rules engine, on a teacher's
	// or admin's authority. The same award-time guards still apply.
	AwardToUser(ctx context.Context, granter *models.User, rewardID, userID, reason string) error
}

type rewardService struct {
	rewards repository.RewardRepository
	users   repository.UserRepository
	locks   *gamification.Locks
	now     func() time.Time
}

func NewRewardService(rewardRepo repository.RewardRepository, users repository.UserRepository, locks *gamification.Locks) RewardService {
	return &rewardService{
		rewards: rewardRepo,
		users:   users,
		locks:   locks,
		now:     time.Now,
	}
}

func (s *rewardService) Get(ctx context.Context, rewardID string) (*models.Reward, error) {
	reward, err := s.rewards.Get(ctx, rewardID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load reward", err)
	}
	if reward == nil {
		return nil, errors.NewNotFoundError("reward not found")
	}
	return reward, nil
}

func (s *rewardService) ListActive(ctx context.Context) ([]models.Reward, error) {
	list, err := s.rewards.ListActive(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list rewards", err)
	}
	return list, nil
}

func (s *rewardService) ListForUser(ctx context.Context, userID string) ([]models.Reward, error) {
	list, err := s.rewards.ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to list user rewards", err)
	}
	return list, nil
}

func (s *rewardService) AwardToUser(ctx context.Context, granter *models.User, rewardID, userID, reason string) error {
	log := logger.FromContext(ctx).WithPrefix("rewards")

	if granter.Role == models.RoleStudent {
		return errors.NewForbiddenError("only teachers and admins can award rewards")
	}

	reward, err := s.rewards.Get(ctx, rewardID)
	if err != nil {
		return errors.NewInternalError("failed to load reward", err)
	}
	if reward == nil {
		return errors.NewNotFoundError("reward not found")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return errors.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return errors.NewNotFoundError("user not found")
	}

	has, err := s.users.HasReward(ctx, userID, rewardID)
	if err != nil {
		return errors.NewInternalError("failed to check rewards", err)
	}
	if has {
		return errors.NewConflictError("user already has this reward")
	}

	count, err := s.rewards.AwardCount(ctx, rewardID)
	if err != nil {
		return errors.NewInternalError("failed to count awards", err)
	}
	if !rewards.CanAward(*reward, count, s.now()) {
		return errors.NewConflictError("this reward is not currently available")
	}

	if err := s.users.AddReward(ctx, userID, rewardID); err != nil {
		return errors.NewInternalError("failed to grant reward", err)
	}
	if reason == "" {
		reason = "Awarded manually"
	}
	award := models.Award{
		RewardID:  rewardID,
		UserID:    userID,
		AwardedAt: s.now(),
		AwardedBy: granter.ID,
		Reason:    reason,
	}
	if err := s.rewards.InsertAward(ctx, award); err != nil {
		return errors.NewInternalError("failed to record award", err)
	}
	if err := s.users.AppendActivity(ctx, userID, rewards.EarnedActivity(*reward)); err != nil {
		return errors.NewInternalError("failed to record activity", err)
	}

	// Manual grants of point-type rewards credit the balance directly.
	if reward.Type == models.RewardPoints && reward.Value > 0 {
		if gamification.Credit(user, reward.Value) {
			if err := s.users.AppendActivity(ctx, userID, gamification.LevelUpActivity(user.Level)); err != nil {
				return errors.NewInternalError("failed to record activity", err)
			}
		}
		if err := s.users.UpdateGamification(ctx, userID, user.Points, user.Level); err != nil {
			return errors.NewInternalError("failed to update points", err)
		}
	}
	log.Info("reward granted manually: reward_id=%s, user_id=%s, by=%s", rewardID, userID, granter.ID)
	return nil
}
