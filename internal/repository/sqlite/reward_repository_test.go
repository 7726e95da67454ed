package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/marinav/edquest/internal/db"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
	"github.com/marinav/edquest/internal/repository/sqlite"
	"github.com/marinav/edquest/internal/testutil"
)

type RewardRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.RewardRepository
}

func (s *RewardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewRewardRepository(s.db.DB)
	s.seed()
}

func (s *RewardRepositorySuite) seed() {
	ctx := context.Background()
	stmts := []string{
		`INSERT INTO users (id, name, email, password_hash) VALUES ('u1', 'Ana', 'ana@example.com', 'hash')`,
		`INSERT INTO users (id, name, email, password_hash) VALUES ('u2', 'Ben', 'ben@example.com', 'hash')`,
		`INSERT INTO courses (id, title) VALUES ('c1', 'Biology 101')`,
		`INSERT INTO quizzes (id, course_id, title) VALUES ('qz1', 'c1', 'Cell Basics')`,
		`INSERT INTO rewards (id, name, type, value, rarity, criteria_kind, criteria_threshold, criteria_quiz_id)
		 VALUES ('r1', 'Perfect Score', 'badge', 0, 'rare', 'quiz-score', 100, 'qz1')`,
		`INSERT INTO rewards (id, name, type, criteria_kind, criteria_threshold)
		 VALUES ('r2', 'High Achiever', 'badge', 'quiz-score', 85)`,
		`INSERT INTO rewards (id, name, type, criteria_kind, criteria_threshold, criteria_course_id)
		 VALUES ('r3', 'Course Champion', 'certificate', 'course-completion', 100, 'c1')`,
		`INSERT INTO rewards (id, name, type, value, criteria_kind, criteria_threshold)
		 VALUES ('r4', 'Point Collector', 'points', 25, 'points-earned', 200)`,
		`INSERT INTO rewards (id, name, type, is_active, criteria_kind, criteria_threshold)
		 VALUES ('r5', 'Retired Badge', 'badge', 0, 'quiz-score', 50)`,
	}
	for _, stmt := range stmts {
		_, err := s.db.ExecContext(ctx, stmt)
		s.Require().NoError(err)
	}
}

func rewardIDs(rewards []models.Reward) []string {
	ids := make([]string, 0, len(rewards))
	for _, r := range rewards {
		ids = append(ids, r.ID)
	}
	return ids
}

func (s *RewardRepositorySuite) TestGet() {
	reward, err := s.repo.Get(context.Background(), "r1")
	s.Require().NoError(err)
	s.Require().NotNil(reward)

	s.Assert().Equal("Perfect Score", reward.Name)
	s.Assert().Equal(models.RewardBadge, reward.Type)
	s.Assert().Equal("rare", reward.Rarity)
	s.Assert().Equal(models.CriteriaQuizScore, reward.Criteria.Kind)
	s.Assert().Equal(100.0, reward.Criteria.Threshold)
	s.Assert().Equal("qz1", reward.Criteria.QuizID)
}

func (s *RewardRepositorySuite) TestGet_Missing() {
	reward, err := s.repo.Get(context.Background(), "ghost")
	s.Require().NoError(err)
	s.Assert().Nil(reward)
}

func (s *RewardRepositorySuite) TestListActive_ExcludesInactive() {
	rewards, err := s.repo.ListActive(context.Background())
	s.Require().NoError(err)
	s.Assert().ElementsMatch([]string{"r1", "r2", "r3", "r4"}, rewardIDs(rewards))
}

func (s *RewardRepositorySuite) TestListByIDs() {
	rewards, err := s.repo.ListByIDs(context.Background(), []string{"r1", "r3", "ghost"})
	s.Require().NoError(err)
	s.Assert().ElementsMatch([]string{"r1", "r3"}, rewardIDs(rewards))

	none, err := s.repo.ListByIDs(context.Background(), nil)
	s.Require().NoError(err)
	s.Assert().Empty(none)
}

func (s *RewardRepositorySuite) TestCandidates_ThresholdFilter() {
	ctx := context.Background()

	rewards, err := s.repo.Candidates(ctx, repository.CandidateFilter{
		Kind:         models.CriteriaQuizScore,
		MaxThreshold: 90,
	})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"r2"}, rewardIDs(rewards), "perfect-score and inactive rewards filtered out")

	rewards, err = s.repo.Candidates(ctx, repository.CandidateFilter{
		Kind:         models.CriteriaQuizScore,
		MaxThreshold: 100,
	})
	s.Require().NoError(err)
	s.Assert().ElementsMatch([]string{"r1", "r2"}, rewardIDs(rewards))
}

func (s *RewardRepositorySuite) TestCandidates_QuizScope() {
	rewards, err := s.repo.Candidates(context.Background(), repository.CandidateFilter{
		Kind:         models.CriteriaQuizScore,
		MaxThreshold: 100,
		QuizID:       "qz1",
	})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"r1"}, rewardIDs(rewards))
}

func (s *RewardRepositorySuite) TestCandidates_CourseScope() {
	rewards, err := s.repo.Candidates(context.Background(), repository.CandidateFilter{
		Kind:         models.CriteriaCourseCompletion,
		MaxThreshold: 100,
		CourseID:     "c1",
	})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"r3"}, rewardIDs(rewards))
}

func (s *RewardRepositorySuite) TestCandidates_PointsEarned() {
	rewards, err := s.repo.Candidates(context.Background(), repository.CandidateFilter{
		Kind:         models.CriteriaPointsEarned,
		MaxThreshold: 150,
	})
	s.Require().NoError(err)
	s.Assert().Empty(rewards, "threshold not yet reached")

	rewards, err = s.repo.Candidates(context.Background(), repository.CandidateFilter{
		Kind:         models.CriteriaPointsEarned,
		MaxThreshold: 200,
	})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"r4"}, rewardIDs(rewards))
}

func (s *RewardRepositorySuite) TestInsertAward_AndCount() {
	ctx := context.Background()

	n, err := s.repo.AwardCount(ctx, "r1")
	s.Require().NoError(err)
	s.Assert().Zero(n)

	award := models.Award{
		RewardID:  "r1",
		UserID:    "u1",
		AwardedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		Reason:    `Scored 100% on quiz "Cell Basics"`,
	}
	s.Require().NoError(s.repo.InsertAward(ctx, award))
	s.Require().NoError(s.repo.InsertAward(ctx, award), "duplicate award is a no-op")

	award.UserID = "u2"
	award.AwardedBy = "t1"
	s.Require().NoError(s.repo.InsertAward(ctx, award))

	n, err = s.repo.AwardCount(ctx, "r1")
	s.Require().NoError(err)
	s.Assert().Equal(2, n)
}

func (s *RewardRepositorySuite) TestListForUser() {
	ctx := context.Background()
	for _, stmt := range []string{
		`INSERT INTO user_rewards (user_id, reward_id) VALUES ('u1', 'r1')`,
		`INSERT INTO user_rewards (user_id, reward_id) VALUES ('u1', 'r3')`,
		`INSERT INTO user_rewards (user_id, reward_id) VALUES ('u2', 'r2')`,
	} {
		_, err := s.db.ExecContext(ctx, stmt)
		s.Require().NoError(err)
	}

	rewards, err := s.repo.ListForUser(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().ElementsMatch([]string{"r1", "r3"}, rewardIDs(rewards))

	none, err := s.repo.ListForUser(ctx, "ghost")
	s.Require().NoError(err)
	s.Assert().Empty(none)
}

func TestRewardRepositorySuite(t *testing.T) {
	suite.Run(t, new(RewardRepositorySuite))
}
