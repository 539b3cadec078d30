package pack

import (
	"fmt"
	"strings"
)

// Intent is the user goal a prompt simulates.
type Intent int

const (
	Information Intent = iota
	Navigation
	Transaction

	numIntents = 3
)

// Difficulty is the complexity tier of a prompt.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard

	numDifficulties = 3
)

var (
	intentNames  = [numIntents]string{"information", "navigation", "transaction"}
	intentLabels = [numIntents]string{"정보", "탐색", "거래"}

	difficultyNames  = [numDifficulties]string{"easy", "medium", "hard"}
	difficultyLabels = [numDifficulties]string{"쉬움", "보통", "어려움"}
)

// AllIntents returns every intent in canonical order.
func AllIntents() []Intent {
	return []Intent{Information, Navigation, Transaction}
}

// AllDifficulties returns every difficulty in canonical order.
func AllDifficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// Cell is one (intent, difficulty) combination.
type Cell struct {
	Intent     Intent
	Difficulty Difficulty
}

// String returns "정보-쉬움" style labels.
func (c Cell) String() string {
	return c.Intent.Label() + "-" + c.Difficulty.Label()
}

// AllCells returns the 9 cells, intent-major.
func AllCells() []Cell {
	cells := make([]Cell, 0, numIntents*numDifficulties)
	for _, i := range AllIntents() {
		for _, d := range AllDifficulties() {
			cells = append(cells, Cell{Intent: i, Difficulty: d})
		}
	}
	return cells
}

// String returns the English name.
func (i Intent) String() string {
	if !i.Valid() {
		return fmt.Sprintf("Intent(%d)", int(i))
	}
	return intentNames[i]
}

// Label returns the Korean label used in exports.
func (i Intent) Label() string {
	if !i.Valid() {
		return i.String()
	}
	return intentLabels[i]
}

// Valid reports whether i is a defined intent.
func (i Intent) Valid() bool {
	return i >= 0 && i < numIntents
}

// String returns the English name.
func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// Label returns the Korean label used in exports.
func (d Difficulty) Label() string {
	if !d.Valid() {
		return d.String()
	}
	return difficultyLabels[d]
}

// Valid reports whether d is a defined difficulty.
func (d Difficulty) Valid() bool {
	return d >= 0 && d < numDifficulties
}

// ParseIntent accepts an English name or a Korean label.
func ParseIntent(s string) (Intent, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := 0; i < numIntents; i++ {
		if s == intentNames[i] || s == intentLabels[i] {
			return Intent(i), nil
		}
	}
	return 0, fmt.Errorf("unknown intent: %q", s)
}

// ParseDifficulty accepts an English name or a Korean label.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := 0; d < numDifficulties; d++ {
		if s == difficultyNames[d] || s == difficultyLabels[d] {
			return Difficulty(d), nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty: %q", s)
}

// ParseCell parses "정보-쉬움" or "information-easy".
func ParseCell(s string) (Cell, error) {
	intent, diff, ok := strings.Cut(s, "-")
	if !ok {
		return Cell{}, fmt.Errorf("invalid cell %q: want intent-difficulty", s)
	}
	i, err := ParseIntent(intent)
	if err != nil {
		return Cell{}, err
	}
	d, err := ParseDifficulty(diff)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Intent: i, Difficulty: d}, nil
}

// MarshalText encodes the cell as its label so it reads well in JSON and YAML.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a cell label.
func (c *Cell) UnmarshalText(text []byte) error {
	parsed, err := ParseCell(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
