package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
)

type quizRepository struct {
	db *sql.DB
}

// NewQuizRepository creates a new QuizRepository implementation
func NewQuizRepository(db *sql.DB) repository.QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Get(ctx context.Context, id string) (*models.Quiz, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("getting quiz: id=%s", id)

	var q models.Quiz
	var difficulty string
	err := r.db.QueryRowContext(ctx, `
SELECT id, course_id, title, description, duration_minutes, passing_score, is_random_order,
       attempt_limit, is_active, difficulty, is_adaptive, created_at
FROM quizzes
WHERE id = ?
`, id).Scan(&q.ID, &q.CourseID, &q.Title, &q.Description, &q.DurationMinutes, &q.PassingScore,
		&q.IsRandomOrder, &q.AttemptLimit, &q.IsActive, &difficulty, &q.IsAdaptive, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("quiz not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get quiz: %v", err)
		return nil, err
	}
	q.Difficulty = models.Difficulty(difficulty)

	if err := r.loadQuestions(ctx, &q); err != nil {
		log.Error("failed to load questions: %v", err)
		return nil, err
	}
	if q.IsAdaptive {
		if err := r.loadAdaptiveRules(ctx, &q); err != nil {
			log.Error("failed to load adaptive rules: %v", err)
			return nil, err
		}
	}
	log.Debug("quiz found: questions=%d, adaptive=%t", len(q.Questions), q.IsAdaptive)
	return &q, nil
}

func (r *quizRepository) loadQuestions(ctx context.Context, q *models.Quiz) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, quiz_id, prompt, type, correct_answer, explanation, points, difficulty, image_url, position
FROM questions
WHERE quiz_id = ?
ORDER BY position ASC
`, q.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var question models.Question
		var qType, difficulty, correctAnswer string
		if err := rows.Scan(&question.ID, &question.QuizID, &question.Prompt, &qType, &correctAnswer,
			&question.Explanation, &question.Points, &difficulty, &question.ImageURL, &question.Position); err != nil {
			return err
		}
		question.Type = models.QuestionType(qType)
		question.Difficulty = models.Difficulty(difficulty)
		if correctAnswer != "" {
			question.CorrectAnswer = json.RawMessage(correctAnswer)
		}
		q.Questions = append(q.Questions, question)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range q.Questions {
		if q.Questions[i].Type != models.QuestionSingleSelect {
			continue
		}
		opts, err := r.loadOptions(ctx, q.Questions[i].ID)
		if err != nil {
			return err
		}
		q.Questions[i].Options = opts
	}
	return nil
}

func (r *quizRepository) loadOptions(ctx context.Context, questionID string) ([]models.Option, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, text, image_url, is_correct
FROM question_options
WHERE question_id = ?
ORDER BY position ASC
`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opts []models.Option
	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.Text, &o.ImageURL, &o.IsCorrect); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func (r *quizRepository) loadAdaptiveRules(ctx context.Context, q *models.Quiz) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT min_score, max_score, next_action, feedback_template
FROM adaptive_rules
WHERE quiz_id = ?
ORDER BY min_score ASC
`, q.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rule models.AdaptiveRule
		if err := rows.Scan(&rule.MinScore, &rule.MaxScore, &rule.NextAction, &rule.FeedbackTemplate); err != nil {
			return err
		}
		q.AdaptiveRules = append(q.AdaptiveRules, rule)
	}
	return rows.Err()
}
