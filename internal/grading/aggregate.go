package grading

import "github.com/marinav/edquest/internal/models"

// Feedback messages for quizzes without adaptive scoring ranges.
const (
	FeedbackMastery      = "Excellent work! You've mastered this content."
	FeedbackGood         = "Good job! You have a good understanding of the material."
	FeedbackPassed       = "You passed! Continue practicing to improve your score."
	FeedbackNeedPractice = "Keep practicing! Review the material and try again."
)

// Summary is the aggregate outcome of grading one submission.
type Summary struct {
	Answers        []models.Answer
	Score          float64
	CorrectAnswers int
	Percentage     float64
	Passed         bool
	Feedback       string
}

// Aggregate grades every submitted answer against the attempt's question
// snapshot and folds the results into a Summary. Submissions referencing
// unknown question ids are skipped, and each question is graded at most once
// (first occurrence wins) so the score can never exceed totalPossible.
// totalPossible is the attempt's fixed total, snapshotted at start time.
func Aggregate(questions []models.Question, submitted []models.SubmittedAnswer, totalPossible float64, quiz models.Quiz) Summary {
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	var sum Summary
	graded := make(map[string]bool, len(questions))
	for _, ans := range submitted {
		q, ok := byID[ans.QuestionID]
		if !ok || graded[ans.QuestionID] {
			continue
		}
		graded[ans.QuestionID] = true
		correct, points := Grade(q, ans.Selected)
		sum.Answers = append(sum.Answers, models.Answer{
			QuestionID:       ans.QuestionID,
			Selected:         ans.Selected,
			IsCorrect:        correct,
			PointsEarned:     points,
			TimeSpentSeconds: ans.TimeSpentSeconds,
		})
		sum.Score += points
		if correct {
			sum.CorrectAnswers++
		}
	}

	if totalPossible > 0 {
		sum.Percentage = sum.Score / totalPossible * 100
	}
	sum.Passed = sum.Percentage >= quiz.PassingScore
	sum.Feedback = feedbackFor(sum.Percentage, quiz)
	return sum
}

// feedbackFor picks the first adaptive scoring range containing the
// percentage; quizzes without adaptive rules fall back to the fixed ladder.
func feedbackFor(percentage float64, quiz models.Quiz) string {
	if quiz.IsAdaptive && len(quiz.AdaptiveRules) > 0 {
		for _, rule := range quiz.AdaptiveRules {
			if percentage >= rule.MinScore && percentage <= rule.MaxScore {
				return rule.FeedbackTemplate
			}
		}
		return ""
	}

	switch {
	case percentage >= 90:
		return FeedbackMastery
	case percentage >= 70:
		return FeedbackGood
	case percentage >= quiz.PassingScore:
		return FeedbackPassed
	default:
		return FeedbackNeedPractice
	}
}
