package models

import (
	"fmt"
	"time"
)

// RewardType is what the learner receives.
type RewardType string

const (
	RewardBadge       RewardType = "badge"
	RewardCertificate RewardType = "certificate"
	RewardVirtualItem RewardType = "virtual-item"
	RewardPoints      RewardType = "points"
)

// CriteriaKind is the category of condition gating a reward.
type CriteriaKind string

const (
	CriteriaCourseCompletion CriteriaKind = "course-completion"
	CriteriaQuizScore        CriteriaKind = "quiz-score"
	CriteriaPointsEarned     CriteriaKind = "points-earned"
	CriteriaCustom           CriteriaKind = "custom"
)

// Criteria describes when a reward becomes eligible. Each kind consults its
// own fields: quiz-score needs QuizID+Threshold, course-completion needs
// CourseID+Threshold, points-earned needs Threshold, custom needs CustomRule.
type Criteria struct {
	Kind       CriteriaKind `json:"kind"`
	Threshold  float64      `json:"threshold,omitempty"`
	CourseID   string       `json:"course_id,omitempty"`
	QuizID     string       `json:"quiz_id,omitempty"`
	CustomRule string       `json:"custom_rule,omitempty"`
}

// Validate enforces the per-kind required fields at construction time.
func (c Criteria) Validate() error {
	switch c.Kind {
	case CriteriaQuizScore:
		if c.QuizID == "" {
			return fmt.Errorf("quiz-score criteria requires a quiz id")
		}
	case CriteriaCourseCompletion:
		if c.CourseID == "" {
			return fmt.Errorf("course-completion criteria requires a course id")
		}
	case CriteriaPointsEarned:
		// threshold only
	case CriteriaCustom:
		if c.CustomRule == "" {
			return fmt.Errorf("custom criteria requires a rule")
		}
	default:
		return fmt.Errorf("unknown criteria kind %q", c.Kind)
	}
	return nil
}

// Reward is a badge/certificate/points/virtual-item grant, earned at most
// once per learner.
type Reward struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Type            RewardType `json:"type"`
	Value           int        `json:"value"` // point credit carried by the reward
	Rarity          string     `json:"rarity,omitempty"`
	IsActive        bool       `json:"is_active"`
	IsLimited       bool       `json:"is_limited"`
	LimitedQuantity int        `json:"limited_quantity,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	Criteria        Criteria   `json:"criteria"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Award is one entry of a reward's awarded-to list.
type Award struct {
	RewardID  string    `json:"reward_id"`
	UserID    string    `json:"user_id"`
	AwardedAt time.Time `json:"awarded_at"`
	AwardedBy string    `json:"awarded_by,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}
