package models

import (
	"encoding/json"
	"time"
)

// Answer is one graded per-question result inside an attempt.
type Answer struct {
	QuestionID       string          `json:"question_id"`
	Selected         json.RawMessage `json:"selected"`
	IsCorrect        bool            `json:"is_correct"`
	PointsEarned     float64         `json:"points_earned"`
	TimeSpentSeconds int             `json:"time_spent_seconds"`
}

// SubmittedAnswer is the learner's raw input for one question.
type SubmittedAnswer struct {
	QuestionID       string          `json:"question_id"`
	Selected         json.RawMessage `json:"selected"`
	TimeSpentSeconds int             `json:"time_spent_seconds,omitempty"`
}

// DifficultyAdjustment records one mid-attempt difficulty change.
type DifficultyAdjustment struct {
	QuestionIndex int        `json:"question_index"`
	OldDifficulty Difficulty `json:"old_difficulty"`
	NewDifficulty Difficulty `json:"new_difficulty"`
	Reason        string     `json:"reason,omitempty"`
}

// AdaptiveRecord is present on an attempt only when its quiz is adaptive.
type AdaptiveRecord struct {
	StartingDifficulty Difficulty             `json:"starting_difficulty"`
	EndingDifficulty   Difficulty             `json:"ending_difficulty"`
	Adjustments        []DifficultyAdjustment `json:"adjustments"`
}

// Attempt is one learner's single pass through a quiz. The question set
// served at start is snapshotted onto the attempt so quiz edits can never
// change how an in-flight attempt is graded. Once IsCompleted is set the
// attempt accepts no further submission.
type Attempt struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	QuizID             string          `json:"quiz_id"`
	CourseID           string          `json:"course_id"`
	Questions          []Question      `json:"questions,omitempty"` // snapshot taken at start
	Answers            []Answer        `json:"answers,omitempty"`
	Score              float64         `json:"score"`
	TotalPossibleScore float64         `json:"total_possible_score"`
	Percentage         float64         `json:"percentage"`
	Passed             bool            `json:"passed"`
	StartedAt          time.Time       `json:"started_at"`
	EndedAt            *time.Time      `json:"ended_at,omitempty"`
	TimeSpentSeconds   int             `json:"time_spent_seconds"`
	IsCompleted        bool            `json:"is_completed"`
	Feedback           string          `json:"feedback,omitempty"`
	AttemptNumber      int             `json:"attempt_number"`
	PointsAwarded      int             `json:"points_awarded"`
	RewardIDs          []string        `json:"reward_ids,omitempty"` // rewards granted by this attempt
	Adaptive           *AdaptiveRecord `json:"adaptive,omitempty"`
}

// AttemptFilter narrows attempt listings.
type AttemptFilter struct {
	UserID        string
	QuizID        string
	CourseID      string
	CompletedOnly bool
	Limit         int
	Offset        int
}

// QuizStats are the aggregate figures teachers see for one quiz.
type QuizStats struct {
	TotalAttempts    int     `json:"total_attempts"`
	PassedAttempts   int     `json:"passed_attempts"`
	PassingRate      float64 `json:"passing_rate"`
	AverageScore     float64 `json:"average_score"`
	AverageTimeSpent float64 `json:"average_time_spent"`
}
