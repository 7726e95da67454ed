package repository

import (
	"context"

	"github.com/marinav/edquest/internal/models"
)

// UserRepository handles user gamification state access. Get methods return
// (nil, nil) when the record does not exist.
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u models.User) error
	UpdateGamification(ctx context.Context, id string, points, level int) error
	AppendActivity(ctx context.Context, userID, activity string) error
	ActivityLog(ctx context.Context, userID string, limit int) ([]models.ActivityEntry, error)
	RewardIDs(ctx context.Context, userID string) ([]string, error)
	HasReward(ctx context.Context, userID, rewardID string) (bool, error)
	AddReward(ctx context.Context, userID, rewardID string) error
	Enrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	Enroll(ctx context.Context, userID, courseID string) error
	UpdateEnrollment(ctx context.Context, userID, courseID string, progress int, isCompleted bool) error
}

// CourseRepository handles course structure and per-learner lesson
// completion.
type CourseRepository interface {
	Get(ctx context.Context, id string) (*models.Course, error)
	// CompleteLesson records a per-learner completion; returns false when the
	// learner had already completed the lesson.
	CompleteLesson(ctx context.Context, lessonID, userID string) (bool, error)
	CompletedLessonIDs(ctx context.Context, courseID, userID string) ([]string, error)
}

// QuizRepository loads quiz definitions with their question banks.
type QuizRepository interface {
	Get(ctx context.Context, id string) (*models.Quiz, error)
}

// AttemptRepository handles attempt persistence.
type AttemptRepository interface {
	Insert(ctx context.Context, a models.Attempt) error
	Get(ctx context.Context, id string) (*models.Attempt, error)
	// Complete writes the graded result: answers, totals, completion flag and
	// reward links, in one transaction.
	Complete(ctx context.Context, a models.Attempt) error
	Count(ctx context.Context, userID, quizID string, completedOnly bool) (int, error)
	LatestCompleted(ctx context.Context, userID, quizID string) (*models.Attempt, error)
	List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error)
	Stats(ctx context.Context, quizID string) (*models.QuizStats, error)
}

// CandidateFilter selects reward definitions whose criteria could match a
// learner's new state.
type CandidateFilter struct {
	Kind         models.CriteriaKind
	QuizID       string  // restrict quiz-score candidates to this quiz
	CourseID     string  // restrict course-completion candidates to this course
	MaxThreshold float64 // criteria threshold must be <= this value
}

// RewardRepository handles reward definitions and award records.
type RewardRepository interface {
	Get(ctx context.Context, id string) (*models.Reward, error)
	ListActive(ctx context.Context) ([]models.Reward, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Reward, error)
	Candidates(ctx context.Context, filter CandidateFilter) ([]models.Reward, error)
	AwardCount(ctx context.Context, rewardID string) (int, error)
	InsertAward(ctx context.Context, award models.Award) error
	ListForUser(ctx context.Context, userID string) ([]models.Reward, error)
}
