package models

import "time"

// Role controls which operations a user may perform.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a role string from an untrusted source.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User carries the learner's gamification state. Points only ever grow
// through this engine; level is derived from points.
type User struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Role                 Role       `json:"role"`
	Points               int        `json:"points"`
	Level                int        `json:"level"`
	DifficultyPreference Difficulty `json:"difficulty_preference,omitempty"` // empty means no preference
	CreatedAt            time.Time  `json:"created_at"`
}

// Enrollment is a user's per-course record with their progress percentage.
type Enrollment struct {
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id"`
	Progress    int       `json:"progress"`
	IsCompleted bool      `json:"is_completed"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}

// ActivityEntry is one line of a user's append-only activity log.
type ActivityEntry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Activity  string    `json:"activity"`
	CreatedAt time.Time `json:"created_at"`
}
