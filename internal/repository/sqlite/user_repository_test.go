package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/marinav/edquest/internal/db"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
	"github.com/marinav/edquest/internal/repository/sqlite"
	"github.com/marinav/edquest/internal/testutil"
)

type UserRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) seedUser(id string) {
	_, err := s.db.ExecContext(context.Background(), `
INSERT INTO users (id, name, email, password_hash, role)
VALUES (?, ?, ?, 'hash', 'student')
`, id, "User "+id, id+"@example.com")
	s.Require().NoError(err)
}

func (s *UserRepositorySuite) seedCourse(id string) {
	_, err := s.db.ExecContext(context.Background(), `INSERT INTO courses (id, title) VALUES (?, ?)`, id, "Course "+id)
	s.Require().NoError(err)
}

func (s *UserRepositorySuite) seedReward(id string) {
	_, err := s.db.ExecContext(context.Background(), `
INSERT INTO rewards (id, name, type, criteria_kind) VALUES (?, ?, 'badge', 'points-earned')
`, id, "Reward "+id)
	s.Require().NoError(err)
}

func (s *UserRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	err := s.repo.Insert(ctx, models.User{
		ID:                   "u1",
		Name:                 "Ana",
		Email:                "ana@example.com",
		PasswordHash:         "hashed",
		Role:                 models.RoleStudent,
		Level:                1,
		DifficultyPreference: models.DifficultyHard,
	})
	s.Require().NoError(err)

	u, err := s.repo.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Require().NotNil(u)
	s.Assert().Equal("ana@example.com", u.Email)
	s.Assert().Equal(models.DifficultyHard, u.DifficultyPreference)
	s.Assert().Equal(1, u.Level)
}

func (s *UserRepositorySuite) TestGet_Missing() {
	u, err := s.repo.Get(context.Background(), "ghost")
	s.Require().NoError(err)
	s.Assert().Nil(u)
}

func (s *UserRepositorySuite) TestGetByEmail_Missing() {
	u, err := s.repo.GetByEmail(context.Background(), "nobody@example.com")
	s.Require().NoError(err)
	s.Assert().Nil(u)
}

func (s *UserRepositorySuite) TestUpdateGamification() {
	ctx := context.Background()
	s.seedUser("u1")

	err := s.repo.UpdateGamification(ctx, "u1", 120, 2)
	s.Require().NoError(err)

	u, err := s.repo.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(120, u.Points)
	s.Assert().Equal(2, u.Level)
}

func (s *UserRepositorySuite) TestActivityLog() {
	ctx := context.Background()
	s.seedUser("u1")

	s.Require().NoError(s.repo.AppendActivity(ctx, "u1", "first"))
	s.Require().NoError(s.repo.AppendActivity(ctx, "u1", "second"))

	entries, err := s.repo.ActivityLog(ctx, "u1", 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Assert().Equal("second", entries[0].Activity, "newest entry first")
}

func (s *UserRepositorySuite) TestRewardSetSemantics() {
	ctx := context.Background()
	s.seedUser("u1")
	s.seedReward("r1")

	has, err := s.repo.HasReward(ctx, "u1", "r1")
	s.Require().NoError(err)
	s.Assert().False(has)

	s.Require().NoError(s.repo.AddReward(ctx, "u1", "r1"))
	// A second add is a no-op, not an error.
	s.Require().NoError(s.repo.AddReward(ctx, "u1", "r1"))

	has, err = s.repo.HasReward(ctx, "u1", "r1")
	s.Require().NoError(err)
	s.Assert().True(has)

	ids, err := s.repo.RewardIDs(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"r1"}, ids)
}

func (s *UserRepositorySuite) TestEnrollment() {
	ctx := context.Background()
	s.seedUser("u1")
	s.seedCourse("c1")

	e, err := s.repo.Enrollment(ctx, "u1", "c1")
	s.Require().NoError(err)
	s.Assert().Nil(e)

	s.Require().NoError(s.repo.Enroll(ctx, "u1", "c1"))

	e, err = s.repo.Enrollment(ctx, "u1", "c1")
	s.Require().NoError(err)
	s.Require().NotNil(e)
	s.Assert().Equal(0, e.Progress)
	s.Assert().False(e.IsCompleted)

	s.Require().NoError(s.repo.UpdateEnrollment(ctx, "u1", "c1", 100, true))

	e, err = s.repo.Enrollment(ctx, "u1", "c1")
	s.Require().NoError(err)
	s.Assert().Equal(100, e.Progress)
	s.Assert().True(e.IsCompleted)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
