package services

import (
	"context"

	"github.com/marinav/edquest/internal/adaptive"
	"github.com/marinav/edquest/internal/errors"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
)

type QuizService interface {
	Get(ctx context.Context, user *models.User, quizID string) (*models.Quiz, error)
}

type quizService struct {
	quizzes repository.QuizRepository
}

func NewQuizService(quizzes repository.QuizRepository) QuizService {
	return &quizService{quizzes: quizzes}
}

// Get returns a quiz. Students receive a sanitized question bank with
// answer keys and explanations stripped; teachers and admins see the full
// definitions.
func (s *quizService) Get(ctx context.Context, user *models.User, quizID string) (*models.Quiz, error) {
	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, errors.NewNotFoundError("quiz not found")
	}
	if user.Role == models.RoleStudent {
		if !quiz.IsActive {
			return nil, errors.NewNotFoundError("quiz not found")
		}
		quiz.Questions = adaptive.Sanitize(quiz.Questions)
	}
	return quiz, nil
}
