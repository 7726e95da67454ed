package adaptive_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marinav/edquest/internal/adaptive"
	"github.com/marinav/edquest/internal/models"
)

func bank() []models.Question {
	return []models.Question{
		{ID: "e1", Difficulty: models.DifficultyEasy},
		{ID: "e2", Difficulty: models.DifficultyEasy},
		{ID: "e3", Difficulty: models.DifficultyEasy},
		{ID: "m1", Difficulty: models.DifficultyMedium},
		{ID: "m2", Difficulty: models.DifficultyMedium},
		{ID: "h1", Difficulty: models.DifficultyHard},
	}
}

func ids(questions []models.Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.ID
	}
	return out
}

func TestAssembleQuestionSet_NonAdaptiveServesWholeBank(t *testing.T) {
	quiz := models.Quiz{Questions: bank()}

	got := adaptive.AssembleQuestionSet(quiz, models.DifficultyEasy)
	assert.Len(t, got, 6)
}

func TestAssembleQuestionSet_FiltersByTier(t *testing.T) {
	quiz := models.Quiz{Questions: bank(), IsAdaptive: true}

	got := adaptive.AssembleQuestionSet(quiz, models.DifficultyEasy)
	assert.ElementsMatch(t, []string{"e1", "e2", "e3"}, ids(got))
}

func TestAssembleQuestionSet_BackfillsFromAdjacentTier(t *testing.T) {
	quiz := models.Quiz{Questions: bank(), IsAdaptive: true}

	// Two medium questions is below the floor; medium backfills from easy.
	got := adaptive.AssembleQuestionSet(quiz, models.DifficultyMedium)
	assert.ElementsMatch(t, []string{"m1", "m2", "e1", "e2", "e3"}, ids(got))
}

func TestAssembleQuestionSet_HardBackfillsFromMedium(t *testing.T) {
	quiz := models.Quiz{Questions: bank(), IsAdaptive: true}

	got := adaptive.AssembleQuestionSet(quiz, models.DifficultyHard)
	assert.ElementsMatch(t, []string{"h1", "m1", "m2"}, ids(got))
}

func TestAssembleQuestionSet_BackfillCanStillBeShort(t *testing.T) {
	quiz := models.Quiz{
		Questions: []models.Question{
			{ID: "h1", Difficulty: models.DifficultyHard},
		},
		IsAdaptive: true,
	}

	got := adaptive.AssembleQuestionSet(quiz, models.DifficultyHard)
	assert.Len(t, got, 1, "no second backfill round past the adjacent tier")
}

func TestAssembleQuestionSet_ShufflePreservesMembership(t *testing.T) {
	quiz := models.Quiz{Questions: bank(), IsRandomOrder: true}

	got := adaptive.AssembleQuestionSet(quiz, models.DifficultyEasy)
	assert.ElementsMatch(t, ids(bank()), ids(got))
}

func TestAssembleQuestionSet_DoesNotMutateBank(t *testing.T) {
	questions := bank()
	quiz := models.Quiz{Questions: questions, IsRandomOrder: true}

	_ = adaptive.AssembleQuestionSet(quiz, models.DifficultyEasy)
	assert.Equal(t, ids(bank()), ids(questions), "the quiz's bank order must be untouched")
}

func TestSanitize_StripsAnswerKeys(t *testing.T) {
	questions := []models.Question{
		{
			ID:   "q1",
			Type: models.QuestionSingleSelect,
			Options: []models.Option{
				{ID: "a", Text: "Paris", IsCorrect: true},
				{ID: "b", Text: "London", ImageURL: "http://img"},
			},
			Explanation: "capital cities",
		},
		{
			ID:            "q2",
			Type:          models.QuestionShortAnswer,
			CorrectAnswer: json.RawMessage(`"secret"`),
		},
	}

	got := adaptive.Sanitize(questions)

	require.Len(t, got, 2)
	assert.Empty(t, got[0].Explanation)
	for _, opt := range got[0].Options {
		assert.False(t, opt.IsCorrect)
	}
	assert.Equal(t, "http://img", got[0].Options[1].ImageURL)
	assert.Nil(t, got[1].CorrectAnswer)

	// Originals stay intact for grading.
	assert.True(t, questions[0].Options[0].IsCorrect)
	assert.NotNil(t, questions[1].CorrectAnswer)
}
