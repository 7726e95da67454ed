package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/marinav/edquest/internal/errors"
	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
)

// RegisterInput carries the fields a new account is created from.
type RegisterInput struct {
	Name                 string            `json:"name"`
	Email                string            `json:"email"`
	Password             string            `json:"password"`
	Role                 models.Role       `json:"role"`
	DifficultyPreference models.Difficulty `json:"difficultyPreference"`
}

// AuthResult is the response to a successful register or login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ProfileResult is the authenticated user's own view: account state plus
// held rewards and recent activity.
type ProfileResult struct {
	User      *models.User           `json:"user"`
	RewardIDs []string               `json:"reward_ids"`
	Activity  []models.ActivityEntry `json:"activity"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// ParseToken validates a bearer token and resolves its user.
	ParseToken(ctx context.Context, token string) (*models.User, error)
	Profile(ctx context.Context, user *models.User) (*ProfileResult, error)
}

type authService struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(users repository.UserRepository, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	log := logger.FromContext(ctx).WithPrefix("auth")

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" {
		return nil, errors.NewValidationError("name and email are required")
	}
	if len(in.Password) < 6 {
		return nil, errors.NewValidationError("password must be at least 6 characters")
	}
	if in.Role == "" {
		in.Role = models.RoleStudent
	}
	if _, ok := models.ParseRole(string(in.Role)); !ok {
		return nil, errors.NewValidationError("invalid role")
	}
	if in.DifficultyPreference != "" {
		if _, ok := models.ParseDifficulty(string(in.DifficultyPreference)); !ok {
			return nil, errors.NewValidationError("invalid difficulty preference")
		}
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		ID:                   uuid.NewString(),
		Name:                 in.Name,
		Email:                in.Email,
		PasswordHash:         string(hash),
		Role:                 in.Role,
		Level:                1,
		DifficultyPreference: in.DifficultyPreference,
		CreatedAt:            s.now(),
	}
	if err := s.users.Insert(ctx, *user); err != nil {
		return nil, errors.NewInternalError("failed to create user", err)
	}
	log.Info("user registered: id=%s, role=%s", user.ID, user.Role)

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContext(ctx).WithPrefix("auth")

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewUnauthorizedError("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewUnauthorizedError("invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	log.Info("user logged in: id=%s", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

func (s *authService) ParseToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewUnauthorizedError("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewUnauthorizedError("invalid or expired token")
	}

	user, err := s.users.Get(ctx, claims.Subject)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewUnauthorizedError("user no longer exists")
	}
	return user, nil
}

// profileActivityLimit caps how many activity entries the profile view
// returns, newest first.
const profileActivityLimit = 20

func (s *authService) Profile(ctx context.Context, user *models.User) (*ProfileResult, error) {
	rewardIDs, err := s.users.RewardIDs(ctx, user.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load rewards", err)
	}
	activity, err := s.users.ActivityLog(ctx, user.ID, profileActivityLimit)
	if err != nil {
		return nil, errors.NewInternalError("failed to load activity", err)
	}
	return &ProfileResult{User: user, RewardIDs: rewardIDs, Activity: activity}, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.NewInternalError("failed to sign token", err)
	}
	return signed, nil
}
