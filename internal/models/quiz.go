package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// QuestionType selects which fields of a Question the grader consults.
type QuestionType string

const (
	QuestionSingleSelect QuestionType = "single-select"
	QuestionTrueFalse    QuestionType = "true-false"
	QuestionShortAnswer  QuestionType = "short-answer"
	QuestionMatching     QuestionType = "matching"
)

// ParseQuestionType returns the question kind for s, or ok=false for an
// unrecognized type string.
func ParseQuestionType(s string) (QuestionType, bool) {
	switch QuestionType(s) {
	case QuestionSingleSelect, QuestionTrueFalse, QuestionShortAnswer, QuestionMatching:
		return QuestionType(s), true
	}
	return "", false
}

// Option is one selectable answer of a single-select question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ImageURL  string `json:"image_url,omitempty"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

// Question belongs to a quiz's question bank. Only the fields relevant to its
// type are consulted when grading: options for single-select, the canonical
// answer for everything else.
type Question struct {
	ID            string          `json:"id"`
	QuizID        string          `json:"quiz_id,omitempty"`
	Prompt        string          `json:"prompt"`
	Type          QuestionType    `json:"type"`
	Options       []Option        `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correct_answer,omitempty"`
	Explanation   string          `json:"explanation,omitempty"`
	Points        float64         `json:"points"`
	Difficulty    Difficulty      `json:"difficulty"`
	ImageURL      string          `json:"image_url,omitempty"`
	Position      int             `json:"position"`
}

// Validate checks the fields the question's kind requires.
func (q Question) Validate() error {
	if _, ok := ParseQuestionType(string(q.Type)); !ok {
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if _, ok := ParseDifficulty(string(q.Difficulty)); !ok {
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	}
	switch q.Type {
	case QuestionSingleSelect:
		if len(q.Options) == 0 {
			return fmt.Errorf("single-select question %s has no options", q.ID)
		}
	case QuestionTrueFalse, QuestionShortAnswer, QuestionMatching:
		if len(q.CorrectAnswer) == 0 {
			return fmt.Errorf("%s question %s has no correct answer", q.Type, q.ID)
		}
	}
	return nil
}

// ScoreRange with its feedback, used by adaptive quizzes. Ranges are
// non-overlapping; a percentage outside every range yields no adaptive
// feedback.
type AdaptiveRule struct {
	MinScore         float64 `json:"min_score"`
	MaxScore         float64 `json:"max_score"`
	NextAction       string  `json:"next_action,omitempty"`
	FeedbackTemplate string  `json:"feedback_template"`
}

// Quiz is an ordered question bank with its scoring and adaptivity settings.
type Quiz struct {
	ID              string         `json:"id"`
	CourseID        string         `json:"course_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Questions       []Question     `json:"questions,omitempty"`
	DurationMinutes int            `json:"duration_minutes"`
	PassingScore    float64        `json:"passing_score"`
	IsRandomOrder   bool           `json:"is_random_order"`
	AttemptLimit    int            `json:"attempt_limit"` // negative means unlimited
	IsActive        bool           `json:"is_active"`
	Difficulty      Difficulty     `json:"difficulty"`
	IsAdaptive      bool           `json:"is_adaptive"`
	AdaptiveRules   []AdaptiveRule `json:"adaptive_rules,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// TotalPoints sums the point values of the given questions.
func TotalPoints(questions []Question) float64 {
	var total float64
	for _, q := range questions {
		total += q.Points
	}
	return total
}
