// Package gamification applies point deltas and level-up detection to a
// learner's state.
package gamification

import (
	"fmt"
	"sync"

	"github.com/marinav/edquest/internal/models"
)

// Points credited by the engine for difficulty-based quiz passes and for
// completing a lesson.
const (
	PointsEasyQuiz   = 10
	PointsMediumQuiz = 20
	PointsHardQuiz   = 30
	PointsPerLesson  = 5
)

// LevelFor derives the level from a point total. Level is a pure function of
// points: one level per hundred, starting at one.
func LevelFor(points int) int {
	return points/100 + 1
}

// PointsForPass returns the credit for passing a quiz of the given
// difficulty.
func PointsForPass(difficulty models.Difficulty) int {
	switch difficulty {
	case models.DifficultyEasy:
		return PointsEasyQuiz
	case models.DifficultyMedium:
		return PointsMediumQuiz
	case models.DifficultyHard:
		return PointsHardQuiz
	}
	return 0
}

// Credit adds points to the user and recomputes the level. Negative deltas
// are ignored: points are monotonically non-decreasing through this engine.
// Returns whether the user crossed into a new level.
func Credit(u *models.User, points int) (leveledUp bool) {
	if points <= 0 {
		return false
	}
	u.Points += points
	if newLevel := LevelFor(u.Points); newLevel > u.Level {
		u.Level = newLevel
		return true
	}
	return false
}

// LevelUpActivity is the activity-log line written when a user levels up.
func LevelUpActivity(level int) string {
	return fmt.Sprintf("Leveled up to Level %d!", level)
}

// Locks serializes mutations per learner. Every point/level/reward mutation
// path takes the learner's lock first, turning the read-modify-write
// sequences into a single-writer discipline per user.
type Locks struct {
	mu    sync.Mutex
	users map[string]*sync.Mutex
}

// NewLocks returns an empty per-learner lock set.
func NewLocks() *Locks {
	return &Locks{users: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given user and returns its unlock func.
func (l *Locks) Lock(userID string) func() {
	l.mu.Lock()
	m, ok := l.users[userID]
	if !ok {
		m = &sync.Mutex{}
		l.users[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
