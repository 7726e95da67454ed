package sqlite_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/marinav/edquest/internal/db"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
	"github.com/marinav/edquest/internal/repository/sqlite"
	"github.com/marinav/edquest/internal/testutil"
)

type AttemptRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.AttemptRepository
}

func (s *AttemptRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewAttemptRepository(s.db.DB)
	s.seed()
}

func (s *AttemptRepositorySuite) seed() {
	ctx := context.Background()
	stmts := []string{
		`INSERT INTO users (id, name, email, password_hash) VALUES ('u1', 'Ana', 'ana@example.com', 'hash')`,
		`INSERT INTO users (id, name, email, password_hash) VALUES ('u2', 'Ben', 'ben@example.com', 'hash')`,
		`INSERT INTO courses (id, title) VALUES ('c1', 'Biology 101')`,
		`INSERT INTO quizzes (id, course_id, title) VALUES ('qz1', 'c1', 'Cell Basics')`,
		`INSERT INTO quizzes (id, course_id, title) VALUES ('qz2', 'c1', 'Genetics Check')`,
		`INSERT INTO rewards (id, name, type, criteria_kind, criteria_threshold)
		 VALUES ('r1', 'Perfect Score', 'badge', 'quiz-score', 100)`,
	}
	for _, stmt := range stmts {
		_, err := s.db.ExecContext(ctx, stmt)
		s.Require().NoError(err)
	}
}

func (s *AttemptRepositorySuite) newAttempt(id string) models.Attempt {
	return models.Attempt{
		ID:       id,
		UserID:   "u1",
		QuizID:   "qz1",
		CourseID: "c1",
		Questions: []models.Question{
			{
				ID:            "q1",
				QuizID:        "qz1",
				Prompt:        "Which organelle produces ATP?",
				Type:          models.QuestionSingleSelect,
				CorrectAnswer: json.RawMessage(`"opt-b"`),
				Points:        10,
				Difficulty:    models.DifficultyEasy,
			},
		},
		TotalPossibleScore: 10,
		StartedAt:          time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		AttemptNumber:      1,
	}
}

func (s *AttemptRepositorySuite) TestInsertGet_SnapshotRoundTrip() {
	ctx := context.Background()
	in := s.newAttempt("a1")
	in.Adaptive = &models.AdaptiveRecord{
		StartingDifficulty: models.DifficultyMedium,
		EndingDifficulty:   models.DifficultyMedium,
	}
	s.Require().NoError(s.repo.Insert(ctx, in))

	got, err := s.repo.Get(ctx, "a1")
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Assert().Equal("u1", got.UserID)
	s.Assert().Equal("qz1", got.QuizID)
	s.Assert().Equal(10.0, got.TotalPossibleScore)
	s.Assert().False(got.IsCompleted)
	s.Require().Len(got.Questions, 1)
	s.Assert().Equal(json.RawMessage(`"opt-b"`), got.Questions[0].CorrectAnswer)
	s.Require().NotNil(got.Adaptive)
	s.Assert().Equal(models.DifficultyMedium, got.Adaptive.StartingDifficulty)
}

func (s *AttemptRepositorySuite) TestGet_Missing() {
	got, err := s.repo.Get(context.Background(), "ghost")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *AttemptRepositorySuite) TestComplete_PersistsResult() {
	ctx := context.Background()
	a := s.newAttempt("a1")
	s.Require().NoError(s.repo.Insert(ctx, a))

	ended := a.StartedAt.Add(3 * time.Minute)
	a.Score = 10
	a.Percentage = 100
	a.Passed = true
	a.EndedAt = &ended
	a.TimeSpentSeconds = 180
	a.Feedback = "Outstanding, you have mastered this topic!"
	a.PointsAwarded = 20
	a.Answers = []models.Answer{
		{QuestionID: "q1", Selected: json.RawMessage(`"opt-b"`), IsCorrect: true, PointsEarned: 10, TimeSpentSeconds: 180},
	}
	a.RewardIDs = []string{"r1"}
	s.Require().NoError(s.repo.Complete(ctx, a))

	got, err := s.repo.Get(ctx, "a1")
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Assert().True(got.IsCompleted)
	s.Assert().True(got.Passed)
	s.Assert().Equal(100.0, got.Percentage)
	s.Assert().Equal(20, got.PointsAwarded)
	s.Require().Len(got.Answers, 1)
	s.Assert().True(got.Answers[0].IsCorrect)
	s.Assert().Equal(10.0, got.Answers[0].PointsEarned)
	s.Assert().Equal([]string{"r1"}, got.RewardIDs)
	s.Require().NotNil(got.EndedAt)
}

func (s *AttemptRepositorySuite) TestComplete_SecondCallErrors() {
	ctx := context.Background()
	a := s.newAttempt("a1")
	s.Require().NoError(s.repo.Insert(ctx, a))

	ended := a.StartedAt.Add(time.Minute)
	a.EndedAt = &ended
	s.Require().NoError(s.repo.Complete(ctx, a))

	err := s.repo.Complete(ctx, a)
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "already completed")
}

func (s *AttemptRepositorySuite) TestCount_CompletedOnly() {
	ctx := context.Background()
	s.completeAttempt("a1", "u1", "qz1", time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC))

	open := s.newAttempt("a2")
	open.AttemptNumber = 2
	s.Require().NoError(s.repo.Insert(ctx, open))

	all, err := s.repo.Count(ctx, "u1", "qz1", false)
	s.Require().NoError(err)
	s.Assert().Equal(2, all)

	completed, err := s.repo.Count(ctx, "u1", "qz1", true)
	s.Require().NoError(err)
	s.Assert().Equal(1, completed)

	other, err := s.repo.Count(ctx, "u2", "qz1", false)
	s.Require().NoError(err)
	s.Assert().Zero(other)
}

// completeAttempt inserts and immediately completes an attempt started at t.
func (s *AttemptRepositorySuite) completeAttempt(id, userID, quizID string, t time.Time) {
	ctx := context.Background()
	a := s.newAttempt(id)
	a.UserID = userID
	a.QuizID = quizID
	a.StartedAt = t
	s.Require().NoError(s.repo.Insert(ctx, a))

	ended := t.Add(2 * time.Minute)
	a.Score = 5
	a.Percentage = 50
	a.EndedAt = &ended
	a.TimeSpentSeconds = 120
	s.Require().NoError(s.repo.Complete(ctx, a))
}

func (s *AttemptRepositorySuite) TestLatestCompleted() {
	ctx := context.Background()

	got, err := s.repo.LatestCompleted(ctx, "u1", "qz1")
	s.Require().NoError(err)
	s.Assert().Nil(got, "no completed attempts yet")

	s.completeAttempt("a1", "u1", "qz1", time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC))
	s.completeAttempt("a2", "u1", "qz1", time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC))

	open := s.newAttempt("a3")
	open.StartedAt = time.Date(2026, 8, 22, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.Insert(ctx, open))

	got, err = s.repo.LatestCompleted(ctx, "u1", "qz1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("a2", got.ID, "in-flight attempts never count as latest")
}

func (s *AttemptRepositorySuite) TestList_Filters() {
	ctx := context.Background()
	s.completeAttempt("a1", "u1", "qz1", time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC))
	s.completeAttempt("a2", "u2", "qz1", time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC))
	s.completeAttempt("a3", "u1", "qz2", time.Date(2026, 8, 22, 9, 0, 0, 0, time.UTC))

	open := s.newAttempt("a4")
	open.StartedAt = time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.Insert(ctx, open))

	byUser, err := s.repo.List(ctx, models.AttemptFilter{UserID: "u1"})
	s.Require().NoError(err)
	s.Require().Len(byUser, 3)
	s.Assert().Equal("a4", byUser[0].ID, "newest first")

	byQuiz, err := s.repo.List(ctx, models.AttemptFilter{UserID: "u1", QuizID: "qz2"})
	s.Require().NoError(err)
	s.Require().Len(byQuiz, 1)
	s.Assert().Equal("a3", byQuiz[0].ID)

	completed, err := s.repo.List(ctx, models.AttemptFilter{UserID: "u1", CompletedOnly: true})
	s.Require().NoError(err)
	s.Assert().Len(completed, 2)

	paged, err := s.repo.List(ctx, models.AttemptFilter{UserID: "u1", Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(paged, 1)
	s.Assert().Equal("a3", paged[0].ID)
}

func (s *AttemptRepositorySuite) TestStats() {
	ctx := context.Background()

	empty, err := s.repo.Stats(ctx, "qz1")
	s.Require().NoError(err)
	s.Assert().Zero(empty.TotalAttempts)
	s.Assert().Zero(empty.PassingRate)

	s.completeAttempt("a1", "u1", "qz1", time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC))

	pass := s.newAttempt("a2")
	pass.UserID = "u2"
	s.Require().NoError(s.repo.Insert(ctx, pass))
	ended := pass.StartedAt.Add(time.Minute)
	pass.Score = 10
	pass.Percentage = 100
	pass.Passed = true
	pass.EndedAt = &ended
	pass.TimeSpentSeconds = 60
	s.Require().NoError(s.repo.Complete(ctx, pass))

	open := s.newAttempt("a3")
	s.Require().NoError(s.repo.Insert(ctx, open))

	stats, err := s.repo.Stats(ctx, "qz1")
	s.Require().NoError(err)
	s.Assert().Equal(2, stats.TotalAttempts, "open attempts excluded")
	s.Assert().Equal(1, stats.PassedAttempts)
	s.Assert().Equal(50.0, stats.PassingRate)
	s.Assert().Equal(75.0, stats.AverageScore)
	s.Assert().Equal(90.0, stats.AverageTimeSpent)
}

func TestAttemptRepositorySuite(t *testing.T) {
	suite.Run(t, new(AttemptRepositorySuite))
}
