package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marinav/edquest/internal/adaptive"
	"github.com/marinav/edquest/internal/errors"
	"github.com/marinav/edquest/internal/gamification"
	"github.com/marinav/edquest/internal/grading"
	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/progress"
	"github.com/marinav/edquest/internal/repository"
	"github.com/marinav/edquest/internal/rewards"
)

// StartResult is what a learner gets back when an attempt opens. Questions
// are sanitized; answer keys never leave the server before submission.
type StartResult struct {
	AttemptID       string            `json:"attemptId"`
	QuizID          string            `json:"quizId"`
	Questions       []models.Question `json:"questions"`
	DurationMinutes int               `json:"durationMinutes"`
	AttemptNumber   int               `json:"attemptNumber"`
	StartedAt       time.Time         `json:"startedAt"`
	Difficulty      models.Difficulty `json:"difficulty,omitempty"`
}

// SubmitResult reports the graded outcome of a completed attempt.
type SubmitResult struct {
	AttemptID          string          `json:"attemptId"`
	Score              float64         `json:"score"`
	TotalPossibleScore float64         `json:"totalPossibleScore"`
	Percentage         float64         `json:"percentage"`
	Passed             bool            `json:"passed"`
	Feedback           string          `json:"feedback"`
	CorrectAnswers     int             `json:"correctAnswers"`
	TotalQuestions     int             `json:"totalQuestions"`
	TimeSpentSeconds   int             `json:"timeSpentSeconds"`
	PointsAwarded      int             `json:"pointsAwarded"`
	RewardsAwarded     []models.Reward `json:"rewardsAwarded"`
	Progress           int             `json:"courseProgress"`
}

// AttemptService runs the attempt lifecycle: opening an attempt against an
// assembled question set, grading a submission against the attempt's frozen
// snapshot, and folding the outcome into progress and gamification state.
type AttemptService interface {
	Start(ctx context.Context, user *models.User, quizID string) (*StartResult, error)
	Submit(ctx context.Context, user *models.User, attemptID string, answers []models.SubmittedAnswer) (*SubmitResult, error)
	Get(ctx context.Context, user *models.User, attemptID string) (*models.Attempt, error)
	ListForUser(ctx context.Context, user *models.User, filter models.AttemptFilter) ([]models.Attempt, error)
	QuizStats(ctx context.Context, quizID string) (*models.QuizStats, error)
}

type attemptService struct {
	attempts  repository.AttemptRepository
	quizzes   repository.QuizRepository
	courses   repository.CourseRepository
	users     repository.UserRepository
	evaluator *rewardEvaluator
	locks     *gamification.Locks
	now       func() time.Time
}

func NewAttemptService(
	attempts repository.AttemptRepository,
	quizzes repository.QuizRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	rewardRepo repository.RewardRepository,
	registry *rewards.Registry,
	locks *gamification.Locks,
) AttemptService {
	return &attemptService{
		attempts:  attempts,
		quizzes:   quizzes,
		courses:   courses,
		users:     users,
		evaluator: newRewardEvaluator(users, rewardRepo, registry),
		locks:     locks,
		now:       time.Now,
	}
}

func (s *attemptService) Start(ctx context.Context, user *models.User, quizID string) (*StartResult, error) {
	log := logger.FromContext(ctx).WithPrefix("attempts")

	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, errors.NewNotFoundError("quiz not found")
	}
	if !quiz.IsActive {
		return nil, errors.NewConflictError("this quiz is not currently active")
	}

	if user.Role == models.RoleStudent {
		enrollment, err := s.users.Enrollment(ctx, user.ID, quiz.CourseID)
		if err != nil {
			return nil, errors.NewInternalError("failed to check enrollment", err)
		}
		if enrollment == nil {
			return nil, errors.NewForbiddenError("you must be enrolled in the course to take this quiz")
		}
	}

	if quiz.AttemptLimit > 0 {
		completed, err := s.attempts.Count(ctx, user.ID, quiz.ID, true)
		if err != nil {
			return nil, errors.NewInternalError("failed to count attempts", err)
		}
		if completed >= quiz.AttemptLimit {
			return nil, errors.NewConflictError("you have reached the attempt limit for this quiz")
		}
	}

	difficulty := quiz.Difficulty
	var adaptiveRecord *models.AdaptiveRecord
	if quiz.IsAdaptive {
		last, err := s.attempts.LatestCompleted(ctx, user.ID, quiz.ID)
		if err != nil {
			return nil, errors.NewInternalError("failed to load attempt history", err)
		}
		preference := models.Difficulty("")
		if user.Role == models.RoleStudent {
			preference = user.DifficultyPreference
		}
		difficulty = adaptive.SelectStartingDifficulty(*quiz, preference, last)
		adaptiveRecord = &models.AdaptiveRecord{
			StartingDifficulty: difficulty,
			EndingDifficulty:   difficulty,
		}
	}

	questions := adaptive.AssembleQuestionSet(*quiz, difficulty)
	if len(questions) == 0 {
		return nil, errors.NewConflictError("this quiz has no questions available")
	}

	total, err := s.attempts.Count(ctx, user.ID, quiz.ID, false)
	if err != nil {
		return nil, errors.NewInternalError("failed to count attempts", err)
	}

	attempt := &models.Attempt{
		ID:                 uuid.NewString(),
		UserID:             user.ID,
		QuizID:             quiz.ID,
		CourseID:           quiz.CourseID,
		Questions:          questions,
		TotalPossibleScore: models.TotalPoints(questions),
		StartedAt:          s.now(),
		AttemptNumber:      total + 1,
		Adaptive:           adaptiveRecord,
	}
	if err := s.attempts.Insert(ctx, *attempt); err != nil {
		return nil, errors.NewInternalError("failed to create attempt", err)
	}
	log.Info("attempt started: id=%s, user_id=%s, quiz_id=%s, questions=%d, difficulty=%s",
		attempt.ID, user.ID, quiz.ID, len(questions), difficulty)

	result := &StartResult{
		AttemptID:       attempt.ID,
		QuizID:          quiz.ID,
		Questions:       adaptive.Sanitize(questions),
		DurationMinutes: quiz.DurationMinutes,
		AttemptNumber:   attempt.AttemptNumber,
		StartedAt:       attempt.StartedAt,
	}
	if quiz.IsAdaptive {
		result.Difficulty = difficulty
	}
	return result, nil
}

func (s *attemptService) Submit(ctx context.Context, user *models.User, attemptID string, answers []models.SubmittedAnswer) (*SubmitResult, error) {
	log := logger.FromContext(ctx).WithPrefix("attempts")

	unlock := s.locks.Lock(user.ID)
	defer unlock()

	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load attempt", err)
	}
	if attempt == nil {
		return nil, errors.NewNotFoundError("attempt not found")
	}
	if attempt.UserID != user.ID {
		return nil, errors.NewForbiddenError("this attempt belongs to another user")
	}
	if attempt.IsCompleted {
		return nil, errors.NewConflictError("this attempt has already been submitted")
	}

	quiz, err := s.quizzes.Get(ctx, attempt.QuizID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, errors.NewNotFoundError("quiz not found")
	}
	course, err := s.courses.Get(ctx, attempt.CourseID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load course", err)
	}
	if course == nil {
		return nil, errors.NewNotFoundError("course not found")
	}

	// Grading runs against the question snapshot frozen when the attempt
	// opened, so edits to the bank mid-attempt cannot change the outcome.
	summary := grading.Aggregate(attempt.Questions, answers, attempt.TotalPossibleScore, *quiz)

	now := s.now()
	attempt.Answers = summary.Answers
	attempt.Score = summary.Score
	attempt.Percentage = summary.Percentage
	attempt.Passed = summary.Passed
	attempt.Feedback = summary.Feedback
	attempt.EndedAt = &now
	attempt.TimeSpentSeconds = int(now.Sub(attempt.StartedAt).Seconds())
	attempt.IsCompleted = true
	if attempt.Adaptive != nil {
		attempt.Adaptive.EndingDifficulty = attempt.Adaptive.StartingDifficulty
	}

	progressPct := 0
	var rewardsAwarded []models.Reward
	if user.Role == models.RoleStudent {
		pct, awarded, rewardList, err := s.applyOutcome(ctx, user, attempt, quiz, course, summary)
		if err != nil {
			return nil, err
		}
		progressPct = pct
		rewardsAwarded = rewardList
		attempt.PointsAwarded = awarded
		for _, r := range rewardList {
			attempt.RewardIDs = append(attempt.RewardIDs, r.ID)
		}
	}

	if err := s.attempts.Complete(ctx, *attempt); err != nil {
		return nil, errors.NewInternalError("failed to save attempt", err)
	}
	log.Info("attempt submitted: id=%s, user_id=%s, score=%.1f/%.1f, passed=%t",
		attempt.ID, user.ID, attempt.Score, attempt.TotalPossibleScore, attempt.Passed)

	return &SubmitResult{
		AttemptID:          attempt.ID,
		Score:              attempt.Score,
		TotalPossibleScore: attempt.TotalPossibleScore,
		Percentage:         attempt.Percentage,
		Passed:             attempt.Passed,
		Feedback:           attempt.Feedback,
		CorrectAnswers:     summary.CorrectAnswers,
		TotalQuestions:     len(attempt.Questions),
		TimeSpentSeconds:   attempt.TimeSpentSeconds,
		PointsAwarded:      attempt.PointsAwarded,
		RewardsAwarded:     rewardsAwarded,
		Progress:           progressPct,
	}, nil
}

// applyOutcome folds a graded attempt into the learner's course progress,
// point balance, and reward set. The caller holds the learner's lock.
func (s *attemptService) applyOutcome(
	ctx context.Context,
	user *models.User,
	attempt *models.Attempt,
	quiz *models.Quiz,
	course *models.Course,
	summary grading.Summary,
) (progressPct int, pointsAwarded int, awarded []models.Reward, err error) {
	completedIDs, err := s.courses.CompletedLessonIDs(ctx, course.ID, user.ID)
	if err != nil {
		return 0, 0, nil, errors.NewInternalError("failed to load lesson completions", err)
	}
	prog := progress.Calculate(*course, completedIDs)

	enrollment, err := s.users.Enrollment(ctx, user.ID, course.ID)
	if err != nil {
		return 0, 0, nil, errors.NewInternalError("failed to load enrollment", err)
	}
	reachedCompletion := false
	if enrollment != nil {
		reachedCompletion = prog.IsCompleted && !enrollment.IsCompleted
		if enrollment.Progress != prog.Percentage || enrollment.IsCompleted != prog.IsCompleted {
			if err := s.users.UpdateEnrollment(ctx, user.ID, course.ID, prog.Percentage, prog.IsCompleted); err != nil {
				return 0, 0, nil, errors.NewInternalError("failed to update enrollment", err)
			}
		}
	}

	if summary.Passed {
		pts := gamification.PointsForPass(quiz.Difficulty)
		pointsAwarded += pts
		if gamification.Credit(user, pts) {
			if err := s.users.AppendActivity(ctx, user.ID, gamification.LevelUpActivity(user.Level)); err != nil {
				return 0, 0, nil, errors.NewInternalError("failed to record activity", err)
			}
		}
		activity := fmt.Sprintf("Passed the quiz %q and earned %d points!", quiz.Title, pts)
		if err := s.users.AppendActivity(ctx, user.ID, activity); err != nil {
			return 0, 0, nil, errors.NewInternalError("failed to record activity", err)
		}
	}

	awarded, credited, err := s.evaluator.Evaluate(ctx, EvaluateInput{
		User:              user,
		QuizID:            quiz.ID,
		QuizTitle:         quiz.Title,
		CourseID:          course.ID,
		CourseTitle:       course.Title,
		Percentage:        summary.Percentage,
		HasAttempt:        true,
		Progress:          prog.Percentage,
		ReachedCompletion: reachedCompletion,
		PoolIDs:           course.RewardIDs,
	})
	if err != nil {
		return 0, 0, nil, errors.NewInternalError("failed to evaluate rewards", err)
	}
	pointsAwarded += credited

	if err := s.users.UpdateGamification(ctx, user.ID, user.Points, user.Level); err != nil {
		return 0, 0, nil, errors.NewInternalError("failed to update points", err)
	}
	return prog.Percentage, pointsAwarded, awarded, nil
}

func (s *attemptService) Get(ctx context.Context, user *models.User, attemptID string) (*models.Attempt, error) {
	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load attempt", err)
	}
	if attempt == nil {
		return nil, errors.NewNotFoundError("attempt not found")
	}
	if user.Role == models.RoleStudent && attempt.UserID != user.ID {
		return nil, errors.NewForbiddenError("this attempt belongs to another user")
	}
	// Hide answer keys on attempts still in flight.
	if !attempt.IsCompleted {
		attempt.Questions = adaptive.Sanitize(attempt.Questions)
	}
	return attempt, nil
}

func (s *attemptService) ListForUser(ctx context.Context, user *models.User, filter models.AttemptFilter) ([]models.Attempt, error) {
	if user.Role == models.RoleStudent {
		filter.UserID = user.ID
	}
	attempts, err := s.attempts.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError("failed to list attempts", err)
	}
	return attempts, nil
}

func (s *attemptService) QuizStats(ctx context.Context, quizID string) (*models.QuizStats, error) {
	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, errors.NewNotFoundError("quiz not found")
	}
	stats, err := s.attempts.Stats(ctx, quizID)
	if err != nil {
		return nil, errors.NewInternalError("failed to compute quiz stats", err)
	}
	return stats, nil
}
