package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/marinav/edquest/internal/logger"
	"github.com/marinav/edquest/internal/models"
	"github.com/marinav/edquest/internal/repository"
)

type rewardRepository struct {
	db *sql.DB
}

// NewRewardRepository creates a new RewardRepository implementation
func NewRewardRepository(db *sql.DB) repository.RewardRepository {
	return &rewardRepository{db: db}
}

var rewardColumns = []string{
	"id", "name", "description", "type", "value", "rarity", "is_active",
	"is_limited", "limited_quantity", "expires_at", "criteria_kind",
	"criteria_threshold", "criteria_course_id", "criteria_quiz_id",
	"criteria_rule", "created_at",
}

func scanReward(row rowScanner) (*models.Reward, error) {
	var r models.Reward
	var rewardType, kind string
	var expiresAt sql.NullTime
	err := row.Scan(&r.ID, &r.Name, &r.Description, &rewardType, &r.Value, &r.Rarity,
		&r.IsActive, &r.IsLimited, &r.LimitedQuantity, &expiresAt, &kind,
		&r.Criteria.Threshold, &r.Criteria.CourseID, &r.Criteria.QuizID,
		&r.Criteria.CustomRule, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Type = models.RewardType(rewardType)
	r.Criteria.Kind = models.CriteriaKind(kind)
	if expiresAt.Valid {
		t := expiresAt.Time
		r.ExpiresAt = &t
	}
	return &r, nil
}

func (r *rewardRepository) Get(ctx context.Context, id string) (*models.Reward, error) {
	log := logger.FromContext(ctx).WithPrefix("reward_repo")
	log.Debug("getting reward: id=%s", id)

	query := sqlBuilder.Select(rewardColumns...).From("rewards").Where(squirrel.Eq{"id": id})
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	reward, err := scanReward(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("reward not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get reward: %v", err)
		return nil, err
	}
	return reward, nil
}

func (r *rewardRepository) ListActive(ctx context.Context) ([]models.Reward, error) {
	query := sqlBuilder.Select(rewardColumns...).From("rewards").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at ASC")
	return r.queryRewards(ctx, query)
}

func (r *rewardRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Reward, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := sqlBuilder.Select(rewardColumns...).From("rewards").
		Where(squirrel.Eq{"id": ids})
	return r.queryRewards(ctx, query)
}

func (r *rewardRepository) Candidates(ctx context.Context, filter repository.CandidateFilter) ([]models.Reward, error) {
	log := logger.FromContext(ctx).WithPrefix("reward_repo")
	log.Debug("querying reward candidates: kind=%s, max_threshold=%.1f", filter.Kind, filter.MaxThreshold)

	query := sqlBuilder.Select(rewardColumns...).From("rewards").
		Where(squirrel.Eq{"is_active": true, "criteria_kind": string(filter.Kind)}).
		Where(squirrel.LtOrEq{"criteria_threshold": filter.MaxThreshold})
	if filter.QuizID != "" {
		query = query.Where(squirrel.Eq{"criteria_quiz_id": filter.QuizID})
	}
	if filter.CourseID != "" {
		query = query.Where(squirrel.Eq{"criteria_course_id": filter.CourseID})
	}
	return r.queryRewards(ctx, query)
}

func (r *rewardRepository) queryRewards(ctx context.Context, query squirrel.SelectBuilder) ([]models.Reward, error) {
	log := logger.FromContext(ctx).WithPrefix("reward_repo")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query rewards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var rewards []models.Reward
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			log.Error("failed to scan reward row: %v", err)
			return nil, err
		}
		rewards = append(rewards, *reward)
	}
	return rewards, rows.Err()
}

func (r *rewardRepository) AwardCount(ctx context.Context, rewardID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reward_awards WHERE reward_id = ?`, rewardID).Scan(&n)
	return n, err
}

func (r *rewardRepository) InsertAward(ctx context.Context, award models.Award) error {
	log := logger.FromContext(ctx).WithPrefix("reward_repo")
	log.Debug("recording award: reward_id=%s, user_id=%s", award.RewardID, award.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO reward_awards (reward_id, user_id, awarded_at, awarded_by, reason)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (reward_id, user_id) DO NOTHING
`, award.RewardID, award.UserID, award.AwardedAt, award.AwardedBy, award.Reason)
	if err != nil {
		log.Error("failed to record award: %v", err)
	}
	return err
}

func (r *rewardRepository) ListForUser(ctx context.Context, userID string) ([]models.Reward, error) {
	log := logger.FromContext(ctx).WithPrefix("reward_repo")
	log.Debug("listing rewards for user: user_id=%s", userID)

	query := sqlBuilder.Select(prefixed("r", rewardColumns)...).From("rewards r").
		Join("user_rewards ur ON ur.reward_id = r.id").
		Where(squirrel.Eq{"ur.user_id": userID}).
		OrderBy("r.created_at ASC")
	return r.queryRewards(ctx, query)
}

func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}
