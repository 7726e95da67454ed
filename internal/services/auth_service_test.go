package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/marinav/edquest/internal/errors"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/services"
	"github.com/marinav/edquest/internal/testutil/mocks"
)

func newAuthService(t *testing.T) (services.AuthService, *mocks.MockUserRepository) {
	t.Helper()
	users := new(mocks.MockUserRepository)
	return services.NewAuthService(users, "test-secret", time.Hour), users
}

func TestRegister_Success(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "ana@example.com").Return(nil, nil)
	users.On("Insert", ctx, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "ana@example.com" && u.Role == models.RoleStudent &&
			u.Level == 1 && u.Points == 0 && u.PasswordHash != "secret123"
	})).Return(nil)

	result, err := svc.Register(ctx, services.RegisterInput{
		Name:     "Ana",
		Email:    "  ANA@example.com ",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ana@example.com", result.User.Email, "email is normalized")
	users.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "ana@example.com").Return(&models.User{ID: "u1"}, nil)

	_, err := svc.Register(ctx, services.RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret123",
	})

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeConflict, appErr.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), services.RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "abc",
	})

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
}

func TestRegister_InvalidRole(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), services.RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret123",
		Role:     "superuser",
	})

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
}

func TestLogin_Success(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	users.On("GetByEmail", ctx, "ana@example.com").Return(&models.User{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
	}, nil)

	result, err := svc.Login(ctx, "Ana@Example.com", "secret123")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "u1", result.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	users.On("GetByEmail", ctx, "ana@example.com").Return(&models.User{
		ID:           "u1",
		PasswordHash: string(hash),
	}, nil)

	_, err = svc.Login(ctx, "ana@example.com", "wrong")

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil)

	_, err := svc.Login(ctx, "ghost@example.com", "whatever")

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)
}

func TestParseToken_RoundTrip(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: "u1", Email: "ana@example.com", PasswordHash: string(hash)}
	users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)
	users.On("Get", ctx, "u1").Return(user, nil)

	result, err := svc.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)

	parsed, err := svc.ParseToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.ID)
}

func TestParseToken_Garbage(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.ParseToken(context.Background(), "not-a-token")

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)
}

func TestProfile_IncludesRewardsAndActivity(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()
	user := &models.User{ID: "u1", Name: "Ana", Points: 120, Level: 2}

	users.On("RewardIDs", ctx, "u1").Return([]string{"r1", "r2"}, nil)
	users.On("ActivityLog", ctx, "u1", 20).Return([]models.ActivityEntry{
		{Activity: "Leveled up to level 2!"},
		{Activity: `Passed the quiz "Algebra Basics" and earned 20 points!`},
	}, nil)

	profile, err := svc.Profile(ctx, user)

	require.NoError(t, err)
	assert.Equal(t, user, profile.User)
	assert.Equal(t, []string{"r1", "r2"}, profile.RewardIDs)
	require.Len(t, profile.Activity, 2)
	assert.Equal(t, "Leveled up to level 2!", profile.Activity[0].Activity)
	users.AssertExpectations(t)
}
