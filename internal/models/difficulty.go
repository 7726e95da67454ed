package models

// Difficulty is the tier used both to tag questions and to describe a quiz's
// or attempt's configured level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty returns the tier for s, or ok=false for anything else.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), true
	}
	return "", false
}

// StepDown returns the next easier tier. Easy is the floor.
func (d Difficulty) StepDown() Difficulty {
	switch d {
	case DifficultyHard:
		return DifficultyMedium
	case DifficultyMedium:
		return DifficultyEasy
	}
	return d
}

// StepUp returns the next harder tier. Hard is the ceiling.
func (d Difficulty) StepUp() Difficulty {
	switch d {
	case DifficultyEasy:
		return DifficultyMedium
	case DifficultyMedium:
		return DifficultyHard
	}
	return d
}

// Adjacent returns the tier a short question set backfills from: easy and
// hard both borrow from medium, medium borrows from easy.
func (d Difficulty) Adjacent() Difficulty {
	switch d {
	case DifficultyEasy, DifficultyHard:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}
