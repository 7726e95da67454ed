package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
)

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new CourseRepository implementation
func NewCourseRepository(db *sql.DB) repository.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Get(ctx context.Context, id string) (*models.Course, error) {
	log := logger.FromContext(ctx).WithPrefix("course_repo")
	log.Debug("getting course: id=%s", id)

	var c models.Course
	err := r.db.QueryRowContext(ctx, `
SELECT id, title, description, subject, grade, is_published, points_to_earn, created_at
FROM courses
WHERE id = ?
`, id).Scan(&c.ID, &c.Title, &c.Description, &c.Subject, &c.Grade, &c.IsPublished, &c.PointsToEarn, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("course not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get course: %v", err)
		return nil, err
	}

	if err := r.loadUnits(ctx, &c); err != nil {
		log.Error("failed to load course units: %v", err)
		return nil, err
	}
	if err := r.loadRewardPool(ctx, &c); err != nil {
		log.Error("failed to load course reward pool: %v", err)
		return nil, err
	}
	log.Debug("course found: units=%d, lessons=%d", len(c.Units), c.TotalLessons())
	return &c, nil
}

func (r *courseRepository) loadUnits(ctx context.Context, c *models.Course) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, course_id, title, position
FROM units
WHERE course_id = ?
ORDER BY position ASC
`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.CourseID, &u.Title, &u.Position); err != nil {
			return err
		}
		c.Units = append(c.Units, u)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range c.Units {
		lessons, err := r.loadLessons(ctx, c.Units[i].ID)
		if err != nil {
			return err
		}
		c.Units[i].Lessons = lessons
	}
	return nil
}

func (r *courseRepository) loadLessons(ctx context.Context, unitID string) ([]models.Lesson, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, unit_id, title, content, duration_minutes, position
FROM lessons
WHERE unit_id = ?
ORDER BY position ASC
`, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.UnitID, &l.Title, &l.Content, &l.DurationMinutes, &l.Position); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *courseRepository) loadRewardPool(ctx context.Context, c *models.Course) error {
	rows, err := r.db.QueryContext(ctx, `SELECT reward_id FROM course_rewards WHERE course_id = ?`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		c.RewardIDs = append(c.RewardIDs, id)
	}
	return rows.Err()
}

func (r *courseRepository) CompleteLesson(ctx context.Context, lessonID, userID string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("course_repo")
	log.Debug("completing lesson: lesson_id=%s, user_id=%s", lessonID, userID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO lesson_completions (lesson_id, user_id) VALUES (?, ?)
ON CONFLICT (lesson_id, user_id) DO NOTHING
`, lessonID, userID)
	if err != nil {
		log.Error("failed to complete lesson: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *courseRepository) CompletedLessonIDs(ctx context.Context, courseID, userID string) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("course_repo")
	log.Debug("listing completed lessons: course_id=%s, user_id=%s", courseID, userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT lc.lesson_id
FROM lesson_completions lc
JOIN lessons l ON l.id = lc.lesson_id
JOIN units u ON u.id = l.unit_id
WHERE u.course_id = ? AND lc.user_id = ?
`, courseID, userID)
	if err != nil {
		log.Error("failed to query lesson completions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
