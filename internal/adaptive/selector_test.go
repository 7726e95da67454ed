package adaptive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marinav/edquest/internal/adaptive"
	"github.com/marinav/edquest/internal/models"
)

func adaptiveQuiz(difficulty models.Difficulty) models.Quiz {
	return models.Quiz{Difficulty: difficulty, IsAdaptive: true}
}

func TestSelectStartingDifficulty_NonAdaptiveIgnoresEverything(t *testing.T) {
	quiz := models.Quiz{Difficulty: models.DifficultyHard}
	failed := &models.Attempt{Passed: false}

	got := adaptive.SelectStartingDifficulty(quiz, models.DifficultyEasy, failed)
	assert.Equal(t, models.DifficultyHard, got)
}

func TestSelectStartingDifficulty_NoHistoryUsesQuizDifficulty(t *testing.T) {
	got := adaptive.SelectStartingDifficulty(adaptiveQuiz(models.DifficultyMedium), "", nil)
	assert.Equal(t, models.DifficultyMedium, got)
}

func TestSelectStartingDifficulty_PreferenceOverridesQuiz(t *testing.T) {
	got := adaptive.SelectStartingDifficulty(adaptiveQuiz(models.DifficultyMedium), models.DifficultyHard, nil)
	assert.Equal(t, models.DifficultyHard, got)
}

func TestSelectStartingDifficulty_StepDownAfterFail(t *testing.T) {
	failed := &models.Attempt{Passed: false}

	got := adaptive.SelectStartingDifficulty(adaptiveQuiz(models.DifficultyHard), "", failed)
	assert.Equal(t, models.DifficultyMedium, got)
}

func TestSelectStartingDifficulty_FloorAtEasy(t *testing.T) {
	failed := &models.Attempt{Passed: false}

	got := adaptive.SelectStartingDifficulty(adaptiveQuiz(models.DifficultyEasy), "", failed)
	assert.Equal(t, models.DifficultyEasy, got, "repeated failures never go below easy")
}

func TestSelectStartingDifficulty_StepUpAfterStrongPass(t *testing.T) {
	strong := &models.Attempt{Passed: true, Percentage: 90}

	got := adaptive.SelectStartingDifficulty(adaptiveQuiz(models.DifficultyEasy), "", strong)
	assert.Equal(t, models.DifficultyMedium, got)
}

func TestSelectStartingDifficulty_ModeratePassHolds(t *testing.T) {
	moderate := &models.Attempt{Passed: true, Percentage: 85}

	got := adaptive.SelectStartingDifficulty(adaptiveQuiz(models.DifficultyMedium), "", moderate)
	assert.Equal(t, models.DifficultyMedium, got, "85% is not above the step-up threshold")
}

func TestSelectStartingDifficulty_CeilingAtHard(t *testing.T) {
	strong := &models.Attempt{Passed: true, Percentage: 99}

	got := adaptive.SelectStartingDifficulty(adaptiveQuiz(models.DifficultyHard), "", strong)
	assert.Equal(t, models.DifficultyHard, got)
}

func TestSelectStartingDifficulty_IdempotentWithoutNewHistory(t *testing.T) {
	failed := &models.Attempt{Passed: false}
	quiz := adaptiveQuiz(models.DifficultyHard)

	first := adaptive.SelectStartingDifficulty(quiz, "", failed)
	second := adaptive.SelectStartingDifficulty(quiz, "", failed)
	assert.Equal(t, first, second)
}

func TestSelectStartingDifficulty_PreferenceThenNudge(t *testing.T) {
	failed := &models.Attempt{Passed: false}

	// Preference seeds hard, the recent fail steps it down once.
	got := adaptive.SelectStartingDifficulty(adaptiveQuiz(models.DifficultyEasy), models.DifficultyHard, failed)
	assert.Equal(t, models.DifficultyMedium, got)
}
