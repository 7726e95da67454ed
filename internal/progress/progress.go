// Package progress recomputes a learner's fractional completion of a course.
package progress

import (
	"math"

	"github.com/marinav/edquest/internal/models"
)

// Result is a recomputed course progress.
type Result struct {
	TotalLessons     int
	CompletedLessons int
	Percentage       int
	IsCompleted      bool
}

// Calculate derives progress from the lessons the learner has completed.
// Completion is strictly per learner: a lesson counts when its id appears in
// the learner's completed set. A course with no lessons is 0% and never
// completed; a course is completed only at exactly 100%.
func Calculate(course models.Course, completedLessonIDs []string) Result {
	completed := make(map[string]bool, len(completedLessonIDs))
	for _, id := range completedLessonIDs {
		completed[id] = true
	}

	res := Result{TotalLessons: course.TotalLessons()}
	for _, unit := range course.Units {
		for _, lesson := range unit.Lessons {
			if completed[lesson.ID] {
				res.CompletedLessons++
			}
		}
	}

	if res.TotalLessons > 0 {
		res.Percentage = int(math.Round(float64(res.CompletedLessons) / float64(res.TotalLessons) * 100))
	}
	res.IsCompleted = res.Percentage == 100
	return res
}
