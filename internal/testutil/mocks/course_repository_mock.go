package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/marinav/edquest/internal/models"
)

// MockCourseRepository is a mock implementation of repository.CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Get(ctx context.Context, id string) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) CompleteLesson(ctx context.Context, lessonID, userID string) (bool, error) {
	args := m.Called(ctx, lessonID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) CompletedLessonIDs(ctx context.Context, courseID, userID string) ([]string, error) {
	args := m.Called(ctx, courseID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
