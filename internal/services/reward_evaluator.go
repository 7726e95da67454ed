package services

import (
	"context"
	"time"

	"github.com/marinav/edquest/internal/gamification"
	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
	"github.com/marinav/edquest/internal/rewards"
)

// EvaluateInput is the learner state a single eligibility pass runs against.
// The pass is triggered after an attempt submission or a progress update;
// the flags select which candidate queries apply.
type EvaluateInput struct {
	User              *models.User
	QuizID            string
	QuizTitle         string
	CourseID          string
	CourseTitle       string
	Percentage        float64
	HasAttempt        bool // include quiz-score candidates
	Progress          int
	ReachedCompletion bool     // course just hit 100%: include course-completion candidates
	PoolIDs           []string // course reward pool, the source of custom candidates
}

// rewardEvaluator scans active reward definitions against a learner's
// updated state and applies the awards. Callers must hold the learner's
// lock and persist the user's points/level afterwards.
type rewardEvaluator struct {
	users    repository.UserRepository
	rewards  repository.RewardRepository
	registry *rewards.Registry
	now      func() time.Time
}

func newRewardEvaluator(users repository.UserRepository, rewardRepo repository.RewardRepository, registry *rewards.Registry) *rewardEvaluator {
	return &rewardEvaluator{
		users:    users,
		rewards:  rewardRepo,
		registry: registry,
		now:      time.Now,
	}
}

// Evaluate gathers candidates, skips rewards the learner already holds,
// applies the award-time guards, and grants the rest. The candidate union is
// not deduplicated; duplicates are caught by the already-held check once the
// first copy lands. Returns the rewards granted and the points they credited.
func (e *rewardEvaluator) Evaluate(ctx context.Context, in EvaluateInput) ([]models.Reward, int, error) {
	log := logger.FromContext(ctx).WithPrefix("rewards")

	candidates, err := e.candidates(ctx, in)
	if err != nil {
		return nil, 0, err
	}
	log.Debug("eligibility pass: user_id=%s, candidates=%d", in.User.ID, len(candidates))

	var awarded []models.Reward
	credited := 0
	for _, reward := range candidates {
		has, err := e.users.HasReward(ctx, in.User.ID, reward.ID)
		if err != nil {
			return awarded, credited, err
		}
		if has {
			continue
		}

		count, err := e.rewards.AwardCount(ctx, reward.ID)
		if err != nil {
			return awarded, credited, err
		}
		if !rewards.CanAward(reward, count, e.now()) {
			continue
		}

		if reward.Criteria.Kind == models.CriteriaCustom {
			ruleCtx := rewards.RuleContext{User: *in.User, Percentage: in.Percentage, Progress: in.Progress}
			if !e.registry.Satisfied(reward.Criteria.CustomRule, ruleCtx) {
				continue
			}
		}

		if err := e.grant(ctx, in, reward); err != nil {
			return awarded, credited, err
		}
		awarded = append(awarded, reward)

		if reward.Value > 0 {
			credited += reward.Value
			if gamification.Credit(in.User, reward.Value) {
				if err := e.users.AppendActivity(ctx, in.User.ID, gamification.LevelUpActivity(in.User.Level)); err != nil {
					return awarded, credited, err
				}
			}
		}
		log.Info("reward awarded: user_id=%s, reward_id=%s, kind=%s", in.User.ID, reward.ID, reward.Criteria.Kind)
	}
	return awarded, credited, nil
}

// candidates unions the kind-specific queries. Deduplication happens at
// award time, not here.
func (e *rewardEvaluator) candidates(ctx context.Context, in EvaluateInput) ([]models.Reward, error) {
	var out []models.Reward

	if in.HasAttempt {
		quizScore, err := e.rewards.Candidates(ctx, repository.CandidateFilter{
			Kind:         models.CriteriaQuizScore,
			QuizID:       in.QuizID,
			MaxThreshold: in.Percentage,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, quizScore...)
	}

	if in.ReachedCompletion {
		completion, err := e.rewards.Candidates(ctx, repository.CandidateFilter{
			Kind:         models.CriteriaCourseCompletion,
			CourseID:     in.CourseID,
			MaxThreshold: float64(in.Progress),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, completion...)
	}

	points, err := e.rewards.Candidates(ctx, repository.CandidateFilter{
		Kind:         models.CriteriaPointsEarned,
		MaxThreshold: float64(in.User.Points),
	})
	if err != nil {
		return nil, err
	}
	out = append(out, points...)

	// Custom-rule rewards ride along on the course's reward pool.
	if len(in.PoolIDs) > 0 {
		pool, err := e.rewards.ListByIDs(ctx, in.PoolIDs)
		if err != nil {
			return nil, err
		}
		for _, r := range pool {
			if r.Criteria.Kind == models.CriteriaCustom {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (e *rewardEvaluator) grant(ctx context.Context, in EvaluateInput, reward models.Reward) error {
	if err := e.users.AddReward(ctx, in.User.ID, reward.ID); err != nil {
		return err
	}
	award := models.Award{
		RewardID:  reward.ID,
		UserID:    in.User.ID,
		AwardedAt: e.now(),
		Reason:    rewards.Reason(reward, in.QuizTitle, in.CourseTitle, in.Percentage, in.Progress),
	}
	if err := e.rewards.InsertAward(ctx, award); err != nil {
		return err
	}
	return e.users.AppendActivity(ctx, in.User.ID, rewards.EarnedActivity(reward))
}
