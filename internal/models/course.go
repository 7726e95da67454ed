package models

import "time"

// Lesson is addressable content inside a unit. Completion is recorded
// strictly per learner, never as a flag on the lesson itself.
type Lesson struct {
	ID              string `json:"id"`
	UnitID          string `json:"unit_id"`
	Title           string `json:"title"`
	Content         string `json:"content,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	Position        int    `json:"position"`
}

// Unit groups a course's lessons.
type Unit struct {
	ID       string   `json:"id"`
	CourseID string   `json:"course_id"`
	Title    string   `json:"title"`
	Position int      `json:"position"`
	Lessons  []Lesson `json:"lessons"`
}

// Course is the aggregate the progress calculator and reward pool read from.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	Grade        int       `json:"grade,omitempty"`
	IsPublished  bool      `json:"is_published"`
	PointsToEarn int       `json:"points_to_earn"`
	Units        []Unit    `json:"units,omitempty"`
	RewardIDs    []string  `json:"reward_ids,omitempty"` // reward pool for this course
	CreatedAt    time.Time `json:"created_at"`
}

// TotalLessons counts lessons across every unit.
func (c Course) TotalLessons() int {
	n := 0
	for _, u := range c.Units {
		n += len(u.Lessons)
	}
	return n
}

// FindLesson locates a lesson by id across all units.
func (c Course) FindLesson(lessonID string) (Lesson, bool) {
	for _, u := range c.Units {
		for _, l := range u.Lessons {
			if l.ID == lessonID {
				return l, true
			}
		}
	}
	return Lesson{}, false
}
