// Package adaptive chooses the starting difficulty for an attempt and
// assembles the question set served to the learner.
package adaptive

import "github.com/marinav/edquest/internal/models"

// SelectStartingDifficulty picks the tier used to filter the question bank
// for a new attempt. Non-adaptive quizzes always use the quiz's configured
// difficulty. For adaptive quizzes the quiz difficulty is seeded, overridden
// by the learner's stored preference, then nudged at most one step by the
// most recent completed attempt: down after a fail (never below easy), up
// after a pass above 85%. The two nudges are mutually exclusive.
//
// Absent new attempt history the selection is idempotent: repeated calls
// yield the same tier.
func SelectStartingDifficulty(quiz models.Quiz, preference models.Difficulty, lastCompleted *models.Attempt) models.Difficulty {
	difficulty := quiz.Difficulty
	if !quiz.IsAdaptive {
		return difficulty
	}

	if preference != "" {
		difficulty = preference
	}

	if lastCompleted == nil {
		return difficulty
	}

	if !lastCompleted.Passed && difficulty != models.DifficultyEasy {
		return difficulty.StepDown()
	}
	if lastCompleted.Passed && lastCompleted.Percentage > 85 {
		return difficulty.StepUp()
	}
	return difficulty
}
