package adaptive

// Difficulty is the ordered difficulty scale offered to the question
// provider. Only the label crosses the boundary, never content.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var difficultyRank = map[Difficulty]int{
	DifficultyEasy:   0,
	DifficultyMedium: 1,
	DifficultyHard:   2,
}

var difficultyByRank = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is one of the three known levels.
func (d Difficulty) Valid() bool {
	_, ok := difficultyRank[d]
	return ok
}

// StepUp returns the next harder level, clamped at hard.
func (d Difficulty) StepUp() Difficulty {
	r, ok := difficultyRank[d]
	if !ok {
		return DifficultyMedium
	}
	if r < len(difficultyByRank)-1 {
		r++
	}
	return difficultyByRank[r]
}

// StepDown returns the next easier level, clamped at easy.
func (d Difficulty) StepDown() Difficulty {
	r, ok := difficultyRank[d]
	if !ok {
		return DifficultyMedium
	}
	if r > 0 {
		r--
	}
	return difficultyByRank[r]
}

// AtLeast reports whether d is the same level as other or harder.
func (d Difficulty) AtLeast(other Difficulty) bool {
	return difficultyRank[d] >= difficultyRank[other]
}
