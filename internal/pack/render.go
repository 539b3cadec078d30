package pack

import (
	"fmt"
	"math/rand"
	"strings"
)

// Candidate is a rendered prompt that has not been filtered yet.
type Candidate struct {
	Prompt     string
	Intent     Intent
	Difficulty Difficulty
	Template   string
	Parameters map[string]string
}

// Render picks a template for the cell at random, draws one value for every
// slot it references, and executes it. A template that references an
// undefined slot yields ErrRender.
func (p *Pack) Render(rng *rand.Rand, intent Intent, difficulty Difficulty) (Candidate, error) {
	templates, err := p.Cell(intent, difficulty)
	if err != nil {
		return Candidate{}, fmt.Errorf("%s: %w", Cell{intent, difficulty}, err)
	}
	t := templates[rng.Intn(len(templates))]

	params := make(map[string]string, len(t.Vars))
	for _, v := range t.Vars {
		values := p.Slots[v]
		if len(values) == 0 {
			continue
		}
		params[v] = values[rng.Intn(len(values))]
	}

	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, params); err != nil {
		return Candidate{}, fmt.Errorf("%w: %v", ErrRender, err)
	}

	return Candidate{
		Prompt:     strings.TrimSpace(sb.String()),
		Intent:     intent,
		Difficulty: difficulty,
		Template:   t.Source,
		Parameters: params,
	}, nil
}
