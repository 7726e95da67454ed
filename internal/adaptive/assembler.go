package adaptive

import (
	"math/rand"

	"github.com/marinav/edquest/internal/models"
)

// minQuestions is the floor below which a filtered set backfills from the
// adjacent tier.
const minQuestions = 3

// AssembleQuestionSet filters an adaptive quiz's bank to the selected tier,
// backfilling from the adjacent tier by concatenation when fewer than three
// questions remain. Tiers are disjoint so no de-duplication is needed, and no
// cap is applied to the backfilled size. Non-adaptive quizzes serve the whole
// bank. When the quiz declares random order the result is an independent,
// non-reproducible permutation.
func AssembleQuestionSet(quiz models.Quiz, difficulty models.Difficulty) []models.Question {
	questions := quiz.Questions
	if quiz.IsAdaptive {
		filtered := filterByDifficulty(questions, difficulty)
		if len(filtered) < minQuestions {
			filtered = append(filtered, filterByDifficulty(questions, difficulty.Adjacent())...)
		}
		questions = filtered
	}

	out := make([]models.Question, len(questions))
	copy(out, questions)
	if quiz.IsRandomOrder {
		rand.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out
}

func filterByDifficulty(questions []models.Question, difficulty models.Difficulty) []models.Question {
	var out []models.Question
	for _, q := range questions {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out
}

// Sanitize strips everything a learner must not see before the set is sent
// out: correctness flags on options, canonical answers, and explanations.
func Sanitize(questions []models.Question) []models.Question {
	out := make([]models.Question, len(questions))
	for i, q := range questions {
		s := q
		s.CorrectAnswer = nil
		s.Explanation = ""
		if len(q.Options) > 0 {
			opts := make([]models.Option, len(q.Options))
			for j, opt := range q.Options {
				opts[j] = models.Option{ID: opt.ID, Text: opt.Text, ImageURL: opt.ImageURL}
			}
			s.Options = opts
		}
		out[i] = s
	}
	return out
}
