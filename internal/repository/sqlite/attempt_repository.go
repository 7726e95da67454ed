package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Insert(ctx context.Context, a models.Attempt) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: id=%s, quiz_id=%s, user_id=%s", a.ID, a.QuizID, a.UserID)

	questionsJSON, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}
	starting, ending := "", ""
	adjustments := "[]"
	if a.Adaptive != nil {
		starting = string(a.Adaptive.StartingDifficulty)
		ending = string(a.Adaptive.EndingDifficulty)
		adj, err := json.Marshal(a.Adaptive.Adjustments)
		if err != nil {
			return err
		}
		adjustments = string(adj)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO attempts (id, user_id, quiz_id, course_id, questions_json, total_possible_score,
                      started_at, attempt_number, starting_difficulty, ending_difficulty, adjustments_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, a.ID, a.UserID, a.QuizID, a.CourseID, string(questionsJSON), a.TotalPossibleScore,
		a.StartedAt, a.AttemptNumber, starting, ending, adjustments)
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
	}
	return err
}

func (r *attemptRepository) Get(ctx context.Context, id string) (*models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("getting attempt: id=%s", id)

	a, err := r.scanAttempt(r.db.QueryRowContext(ctx, `
SELECT id, user_id, quiz_id, course_id, questions_json, score, total_possible_score, percentage,
       passed, started_at, ended_at, time_spent_seconds, is_completed, feedback, attempt_number,
       points_awarded, starting_difficulty, ending_difficulty, adjustments_json
FROM attempts
WHERE id = ?
`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("attempt not found: id=%s", id)
			return nil, nil
		}
		log.Error("failed to get attempt: %v", err)
		return nil, err
	}

	if err := r.loadAnswers(ctx, a); err != nil {
		log.Error("failed to load attempt answers: %v", err)
		return nil, err
	}
	if err := r.loadRewardIDs(ctx, a); err != nil {
		log.Error("failed to load attempt rewards: %v", err)
		return nil, err
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *attemptRepository) scanAttempt(row rowScanner) (*models.Attempt, error) {
	var a models.Attempt
	var questionsJSON, adjustmentsJSON, starting, ending string
	var endedAt sql.NullTime
	err := row.Scan(&a.ID, &a.UserID, &a.QuizID, &a.CourseID, &questionsJSON, &a.Score,
		&a.TotalPossibleScore, &a.Percentage, &a.Passed, &a.StartedAt, &endedAt,
		&a.TimeSpentSeconds, &a.IsCompleted, &a.Feedback, &a.AttemptNumber,
		&a.PointsAwarded, &starting, &ending, &adjustmentsJSON)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		t := endedAt.Time
		a.EndedAt = &t
	}
	if err := json.Unmarshal([]byte(questionsJSON), &a.Questions); err != nil {
		return nil, err
	}
	if starting != "" {
		rec := &models.AdaptiveRecord{
			StartingDifficulty: models.Difficulty(starting),
			EndingDifficulty:   models.Difficulty(ending),
		}
		if err := json.Unmarshal([]byte(adjustmentsJSON), &rec.Adjustments); err != nil {
			return nil, err
		}
		a.Adaptive = rec
	}
	return &a, nil
}

func (r *attemptRepository) loadAnswers(ctx context.Context, a *models.Attempt) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT question_id, selected, is_correct, points_earned, time_spent_seconds
FROM attempt_answers
WHERE attempt_id = ?
ORDER BY position ASC
`, a.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ans models.Answer
		var selected string
		if err := rows.Scan(&ans.QuestionID, &selected, &ans.IsCorrect, &ans.PointsEarned, &ans.TimeSpentSeconds); err != nil {
			return err
		}
		if selected != "" {
			ans.Selected = json.RawMessage(selected)
		}
		a.Answers = append(a.Answers, ans)
	}
	return rows.Err()
}

func (r *attemptRepository) loadRewardIDs(ctx context.Context, a *models.Attempt) error {
	rows, err := r.db.QueryContext(ctx, `SELECT reward_id FROM attempt_rewards WHERE attempt_id = ?`, a.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		a.RewardIDs = append(a.RewardIDs, id)
	}
	return rows.Err()
}

func (r *attemptRepository) Complete(ctx context.Context, a models.Attempt) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("completing attempt: id=%s, score=%.1f, passed=%t", a.ID, a.Score, a.Passed)

	ending := ""
	if a.Adaptive != nil {
		ending = string(a.Adaptive.EndingDifficulty)
	}

	return tx(ctx, r.db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
UPDATE attempts
SET score = ?, percentage = ?, passed = ?, ended_at = ?, time_spent_seconds = ?,
    is_completed = 1, feedback = ?, points_awarded = ?, ending_difficulty = ?
WHERE id = ? AND is_completed = 0
`, a.Score, a.Percentage, a.Passed, a.EndedAt, a.TimeSpentSeconds, a.Feedback,
			a.PointsAwarded, ending, a.ID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.New("attempt already completed")
		}

		for i, ans := range a.Answers {
			_, err := t.ExecContext(ctx, `
INSERT INTO attempt_answers (attempt_id, position, question_id, selected, is_correct, points_earned, time_spent_seconds)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, a.ID, i, ans.QuestionID, string(ans.Selected), ans.IsCorrect, ans.PointsEarned, ans.TimeSpentSeconds)
			if err != nil {
				return err
			}
		}

		for _, rewardID := range a.RewardIDs {
			_, err := t.ExecContext(ctx, `
INSERT INTO attempt_rewards (attempt_id, reward_id) VALUES (?, ?)
ON CONFLICT (attempt_id, reward_id) DO NOTHING
`, a.ID, rewardID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *attemptRepository) Count(ctx context.Context, userID, quizID string, completedOnly bool) (int, error) {
	query := sqlBuilder.Select("COUNT(*)").From("attempts").
		Where(squirrel.Eq{"user_id": userID, "quiz_id": quizID})
	if completedOnly {
		query = query.Where(squirrel.Eq{"is_completed": true})
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *attemptRepository) LatestCompleted(ctx context.Context, userID, quizID string) (*models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("getting latest completed attempt: user_id=%s, quiz_id=%s", userID, quizID)

	a, err := r.scanAttempt(r.db.QueryRowContext(ctx, `
SELECT id, user_id, quiz_id, course_id, questions_json, score, total_possible_score, percentage,
       passed, started_at, ended_at, time_spent_seconds, is_completed, feedback, attempt_number,
       points_awarded, starting_difficulty, ending_difficulty, adjustments_json
FROM attempts
WHERE user_id = ? AND quiz_id = ? AND is_completed = 1
ORDER BY started_at DESC
LIMIT 1
`, userID, quizID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get latest completed attempt: %v", err)
		return nil, err
	}
	return a, nil
}

func (r *attemptRepository) List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: user_id=%s, quiz_id=%s, course_id=%s", filter.UserID, filter.QuizID, filter.CourseID)

	query := sqlBuilder.Select(
		"id", "user_id", "quiz_id", "course_id", "questions_json", "score",
		"total_possible_score", "percentage", "passed", "started_at", "ended_at",
		"time_spent_seconds", "is_completed", "feedback", "attempt_number",
		"points_awarded", "starting_difficulty", "ending_difficulty", "adjustments_json",
	).From("attempts")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.QuizID != "" {
		query = query.Where(squirrel.Eq{"quiz_id": filter.QuizID})
	}
	if filter.CourseID != "" {
		query = query.Where(squirrel.Eq{"course_id": filter.CourseID})
	}
	if filter.CompletedOnly {
		query = query.Where(squirrel.Eq{"is_completed": true})
	}
	query = query.OrderBy("started_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		a, err := r.scanAttempt(rows)
		if err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	log.Debug("found %d attempts", len(attempts))
	return attempts, rows.Err()
}

func (r *attemptRepository) Stats(ctx context.Context, quizID string) (*models.QuizStats, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("computing quiz stats: quiz_id=%s", quizID)

	var s models.QuizStats
	var avgScore, avgTime sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(passed), 0),
       AVG(percentage),
       AVG(time_spent_seconds)
FROM attempts
WHERE quiz_id = ? AND is_completed = 1
`, quizID).Scan(&s.TotalAttempts, &s.PassedAttempts, &avgScore, &avgTime)
	if err != nil {
		log.Error("failed to compute quiz stats: %v", err)
		return nil, err
	}
	if s.TotalAttempts > 0 {
		s.PassingRate = float64(s.PassedAttempts) / float64(s.TotalAttempts) * 100
	}
	s.AverageScore = avgScore.Float64
	s.AverageTimeSpent = avgTime.Float64
	return &s, nil
}
