package services

import (
	"context"

	"github.com/marinav/edquest/internal/errors"
	"github.com/marinav/edquest/internal/gamification"
	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/progress"
	"github.com/marinav/edquest/internal/repository"
	"github.com/marinav/edquest/internal/rewards"
)

// LessonResult reports the learner's state after marking a lesson complete.
type LessonResult struct {
	Progress       int             `json:"progress"`
	IsCompleted    bool            `json:"isCompleted"`
	Points         int             `json:"points"`
	Level          int             `json:"level"`
	PointsAwarded  int             `json:"pointsAwarded"`
	RewardsAwarded []models.Reward `json:"rewardsAwarded"`
}

// CourseView is a course with the requesting learner's progress folded in.
type CourseView struct {
	models.Course
	Progress    int  `json:"progress"`
	IsEnrolled  bool `json:"isEnrolled"`
	IsCompleted bool `json:"isCompleted"`
}

type CourseService interface {
	Get(ctx context.Context, user *models.User, courseID string) (*CourseView, error)
	Enroll(ctx context.Context, user *models.User, courseID string) error
	CompleteLesson(ctx context.Context, user *models.User, courseID, lessonID string) (*LessonResult, error)
}

type courseService struct {
	courses   repository.CourseRepository
	users     repository.UserRepository
	evaluator *rewardEvaluator
	locks     *gamification.Locks
}

func NewCourseService(
	courses repository.CourseRepository,
	users repository.UserRepository,
	rewardRepo repository.RewardRepository,
	registry *rewards.Registry,
	locks *gamification.Locks,
) CourseService {
	return &courseService{
		courses:   courses,
		users:     users,
		evaluator: newRewardEvaluator(users, rewardRepo, registry),
		locks:     locks,
	}
}

func (s *courseService) Get(ctx context.Context, user *models.User, courseID string) (*CourseView, error) {
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load course", err)
	}
	if course == nil {
		return nil, errors.NewNotFoundError("course not found")
	}

	view := &CourseView{Course: *course}
	enrollment, err := s.users.Enrollment(ctx, user.ID, courseID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load enrollment", err)
	}
	if enrollment != nil {
		view.IsEnrolled = true
		view.Progress = enrollment.Progress
		view.IsCompleted = enrollment.IsCompleted
	}
	return view, nil
}

func (s *courseService) Enroll(ctx context.Context, user *models.User, courseID string) error {
	log := logger.FromContext(ctx).WithPrefix("courses")

	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return errors.NewInternalError("failed to load course", err)
	}
	if course == nil {
		return errors.NewNotFoundError("course not found")
	}

	existing, err := s.users.Enrollment(ctx, user.ID, courseID)
	if err != nil {
		return errors.NewInternalError("failed to check enrollment", err)
	}
	if existing != nil {
		return errors.NewConflictError("you are already enrolled in this course")
	}

	if err := s.users.Enroll(ctx, user.ID, courseID); err != nil {
		return errors.NewInternalError("failed to enroll", err)
	}
	log.Info("enrolled: user_id=%s, course_id=%s", user.ID, courseID)
	return nil
}

func (s *courseService) CompleteLesson(ctx context.Context, user *models.User, courseID, lessonID string) (*LessonResult, error) {
	log := logger.FromContext(ctx).WithPrefix("courses")

	unlock := s.locks.Lock(user.ID)
	defer unlock()

	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load course", err)
	}
	if course == nil {
		return nil, errors.NewNotFoundError("course not found")
	}
	if _, ok := course.FindLesson(lessonID); !ok {
		return nil, errors.NewNotFoundError("lesson not found in this course")
	}

	enrollment, err := s.users.Enrollment(ctx, user.ID, courseID)
	if err != nil {
		return nil, errors.NewInternalError("failed to check enrollment", err)
	}
	if enrollment == nil {
		return nil, errors.NewForbiddenError("you must be enrolled in the course to complete lessons")
	}

	first, err := s.courses.CompleteLesson(ctx, lessonID, user.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to record lesson completion", err)
	}

	completedIDs, err := s.courses.CompletedLessonIDs(ctx, courseID, user.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load lesson completions", err)
	}
	prog := progress.Calculate(*course, completedIDs)

	reachedCompletion := prog.IsCompleted && !enrollment.IsCompleted
	if err := s.users.UpdateEnrollment(ctx, user.ID, courseID, prog.Percentage, prog.IsCompleted); err != nil {
		return nil, errors.NewInternalError("failed to update enrollment", err)
	}

	result := &LessonResult{
		Progress:    prog.Percentage,
		IsCompleted: prog.IsCompleted,
	}

	// Repeat completions are idempotent: progress is recomputed but no
	// points or rewards are granted twice.
	if first && user.Role == models.RoleStudent {
		result.PointsAwarded = gamification.PointsPerLesson
		if gamification.Credit(user, gamification.PointsPerLesson) {
			if err := s.users.AppendActivity(ctx, user.ID, gamification.LevelUpActivity(user.Level)); err != nil {
				return nil, errors.NewInternalError("failed to record activity", err)
			}
		}

		awarded, credited, err := s.evaluator.Evaluate(ctx, EvaluateInput{
			User:              user,
			CourseID:          course.ID,
			CourseTitle:       course.Title,
			Progress:          prog.Percentage,
			ReachedCompletion: reachedCompletion,
			PoolIDs:           course.RewardIDs,
		})
		if err != nil {
			return nil, errors.NewInternalError("failed to evaluate rewards", err)
		}
		result.PointsAwarded += credited
		result.RewardsAwarded = awarded

		if err := s.users.UpdateGamification(ctx, user.ID, user.Points, user.Level); err != nil {
			return nil, errors.NewInternalError("failed to update points", err)
		}
		log.Info("lesson completed: user_id=%s, lesson_id=%s, progress=%d%%", user.ID, lessonID, prog.Percentage)
	}

	result.Points = user.Points
	result.Level = user.Level
	return result, nil
}
