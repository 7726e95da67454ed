// Package grading scores submitted answers against question definitions.
// Grading is pure: no storage, no clock, no randomness.
package grading

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/marinav/edquest/internal/models"
)

// Grade evaluates one submitted value against a question and returns whether
// it is correct and the points earned (the question's point value or zero).
// A malformed or mismatched submission is simply incorrect, never an error.
func Grade(q models.Question, submitted json.RawMessage) (isCorrect bool, pointsEarned float64) {
	switch q.Type {
	case models.QuestionSingleSelect:
		isCorrect = gradeSingleSelect(q, submitted)
	case models.QuestionTrueFalse:
		isCorrect = gradeTrueFalse(q, submitted)
	case models.QuestionShortAnswer:
		isCorrect = gradeShortAnswer(q, submitted)
	case models.QuestionMatching:
		isCorrect = gradeMatching(q, submitted)
	}
	if isCorrect {
		pointsEarned = q.Points
	}
	return isCorrect, pointsEarned
}

// gradeSingleSelect is correct iff the submitted option id names an option
// flagged correct. A nonexistent option id is incorrect, not an error.
func gradeSingleSelect(q models.Question, submitted json.RawMessage) bool {
	id, ok := asString(submitted)
	if !ok {
		return false
	}
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt.IsCorrect
		}
	}
	return false
}

func gradeTrueFalse(q models.Question, submitted json.RawMessage) bool {
	got, ok := asString(submitted)
	if !ok {
		return false
	}
	want, ok := asString(q.CorrectAnswer)
	if !ok {
		return false
	}
	return normalize(got) == normalize(want)
}

func gradeShortAnswer(q models.Question, submitted json.RawMessage) bool {
	got, ok := asString(submitted)
	if !ok {
		return false
	}
	want, ok := asString(q.CorrectAnswer)
	if !ok {
		return false
	}
	return normalize(got) == normalize(want)
}

// gradeMatching compares the submitted structure against the canonical answer
// with order-sensitive deep equality.
func gradeMatching(q models.Question, submitted json.RawMessage) bool {
	return jsonEqual(submitted, q.CorrectAnswer)
}

// asString decodes a JSON string value; a bare (unquoted) value is accepted
// as-is so clients that send true/false literals still grade.
func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed[0] == '[' || trimmed[0] == '{' {
		return "", false
	}
	return trimmed, true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// jsonEqual reports structural equality of two JSON documents. Re-marshaling
// after decode gives a canonical form, so formatting differences don't matter
// while element order still does.
func jsonEqual(a, b json.RawMessage) bool {
	ca, ok := canonical(a)
	if !ok {
		return false
	}
	cb, ok := canonical(b)
	if !ok {
		return false
	}
	return bytes.Equal(ca, cb)
}

func canonical(raw json.RawMessage) ([]byte, bool) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return out, true
}
