package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%s", id)

	var u models.User
	var pref string
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, email, password_hash, role, points, level, difficulty_preference, created_at
FROM users
WHERE id = ?
`, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Points, &u.Level, &pref, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	u.DifficultyPreference = models.Difficulty(pref)
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user by email")

	var u models.User
	var pref string
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, email, password_hash, role, points, level, difficulty_preference, created_at
FROM users
WHERE email = ?
`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Points, &u.Level, &pref, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user by email: %v", err)
		return nil, err
	}
	u.DifficultyPreference = models.Difficulty(pref)
	return &u, nil
}

func (r *userRepository) Insert(ctx context.Context, u models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: id=%s, role=%s", u.ID, u.Role)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, name, email, password_hash, role, points, level, difficulty_preference)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Points, u.Level, string(u.DifficultyPreference))
	if err != nil {
		log.Error("failed to insert user: %v", err)
	}
	return err
}

func (r *userRepository) UpdateGamification(ctx context.Context, id string, points, level int) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating gamification state: id=%s, points=%d, level=%d", id, points, level)

	_, err := r.db.ExecContext(ctx, `UPDATE users SET points = ?, level = ? WHERE id = ?`, points, level, id)
	if err != nil {
		log.Error("failed to update gamification state: %v", err)
	}
	return err
}

func (r *userRepository) AppendActivity(ctx context.Context, userID, activity string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("appending activity: user_id=%s", userID)

	_, err := r.db.ExecContext(ctx, `INSERT INTO activity_log (user_id, activity) VALUES (?, ?)`, userID, activity)
	if err != nil {
		log.Error("failed to append activity: %v", err)
	}
	return err
}

func (r *userRepository) ActivityLog(ctx context.Context, userID string, limit int) ([]models.ActivityEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("listing activity log: user_id=%s, limit=%d", userID, limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, activity, created_at
FROM activity_log
WHERE user_id = ?
ORDER BY id DESC
LIMIT ?
`, userID, limit)
	if err != nil {
		log.Error("failed to query activity log: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Activity, &e.CreatedAt); err != nil {
			log.Error("failed to scan activity row: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *userRepository) RewardIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT reward_id FROM user_rewards WHERE user_id = ?`, userID)
	if err != nil {
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

func (r *userRepository) HasReward(ctx context.Context, userID, rewardID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM user_rewards WHERE user_id = ? AND reward_id = ?`, userID, rewardID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *userRepository) AddReward(ctx context.Context, userID, rewardID string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("adding reward to user: user_id=%s, reward_id=%s", userID, rewardID)

	// ON CONFLICT keeps the set semantics even if two eligibility passes race.
	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_rewards (user_id, reward_id) VALUES (?, ?)
ON CONFLICT (user_id, reward_id) DO NOTHING
`, userID, rewardID)
	if err != nil {
		log.Error("failed to add reward: %v", err)
	}
	return err
}

func (r *userRepository) Enrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	var e models.Enrollment
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, course_id, progress, is_completed, enrolled_at
FROM enrollments
WHERE user_id = ? AND course_id = ?
`, userID, courseID).Scan(&e.UserID, &e.CourseID, &e.Progress, &e.IsCompleted, &e.EnrolledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *userRepository) Enroll(ctx context.Context, userID, courseID string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("enrolling user: user_id=%s, course_id=%s", userID, courseID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO enrollments (user_id, course_id) VALUES (?, ?)
ON CONFLICT (user_id, course_id) DO NOTHING
`, userID, courseID)
	if err != nil {
		log.Error("failed to enroll user: %v", err)
	}
	return err
}

func (r *userRepository) UpdateEnrollment(ctx context.Context, userID, courseID string, progress int, isCompleted bool) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating enrollment: user_id=%s, course_id=%s, progress=%d", userID, courseID, progress)

	_, err := r.db.ExecContext(ctx, `
UPDATE enrollments SET progress = ?, is_completed = ? WHERE user_id = ? AND course_id = ?
`, progress, isCompleted, userID, courseID)
	if err != nil {
		log.Error("failed to update enrollment: %v", err)
	}
	return err
}
