// Package pack loads vocabulary packs: the slot vocabularies, keyword
// categories, and per-intent/difficulty templates a generator draws from.
//
// Packs are YAML documents validated against an embedded JSON Schema.
// Templates use text/template syntax with slot names as keys, e.g.
//
//	"{{.region}}에서 {{.area}} 전문 변호사 {{.metric}} 알려주세요"
//
// Two packs are embedded: dongrae (law firm) and iovu (developer merch).
package pack

import (
	"errors"
	"sort"
	"text/template"

	"github.com/jackzampolin/promptgen/internal/quality"
)

// Sentinel errors for the pack package.
var (
	// ErrMissingTemplates is returned when a cell has no templates.
	ErrMissingTemplates = errors.New("no templates for cell")

	// ErrInvalidPack is returned when a pack fails schema or structural validation.
	ErrInvalidPack = errors.New("invalid pack")

	// ErrUnknownPack is returned when a pack name cannot be resolved.
	ErrUnknownPack = errors.New("unknown pack")

	// ErrRender is returned when a template cannot be executed.
	ErrRender = errors.New("template render failed")
)

// Brand describes the organization a pack generates prompts about.
type Brand struct {
	Name        string   `yaml:"name" json:"name"`
	EnglishName string   `yaml:"english_name" json:"english_name,omitempty"`
	Website     string   `yaml:"website" json:"website,omitempty"`
	Location    string   `yaml:"location" json:"location,omitempty"`
	Phone       string   `yaml:"phone" json:"phone,omitempty"`
	Established string   `yaml:"established" json:"established,omitempty"`
	Experience  string   `yaml:"experience" json:"experience,omitempty"`
	Specialties []string `yaml:"specialties" json:"specialties,omitempty"`
}

// CategorySpec is a labeled keyword category built from slots and extra keywords.
type CategorySpec struct {
	Label    string   `yaml:"label"`
	Slots    []string `yaml:"slots"`
	Keywords []string `yaml:"keywords"`
}

// Replacement rewrites a phrase during polishing.
type Replacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// PolishSpec configures length and phrasing adjustments.
type PolishSpec struct {
	ShortSuffix  string        `yaml:"short_suffix"`
	TrailingAsk  string        `yaml:"trailing_ask"`
	Replacements []Replacement `yaml:"replacements"`
}

// Template is a compiled prompt template.
type Template struct {
	Source string
	Vars   []string
	tmpl   *template.Template
}

// Pack is a loaded, validated vocabulary pack.
type Pack struct {
	Name        string                         `yaml:"name"`
	Description string                         `yaml:"description"`
	Domain      string                         `yaml:"domain"`
	Language    string                         `yaml:"language"`
	Brand       Brand                          `yaml:"brand"`
	Slots       map[string][]string            `yaml:"slots"`
	Categories  []CategorySpec                 `yaml:"categories"`
	Context     CategorySpec                   `yaml:"context"`
	Link        CategorySpec                   `yaml:"link"`
	Polish      PolishSpec                     `yaml:"polish"`
	Templates   map[string]map[string][]string `yaml:"templates"`

	table [numIntents][numDifficulties][]Template
}

// Cell returns the compiled templates for an intent/difficulty pair.
func (p *Pack) Cell(i Intent, d Difficulty) ([]Template, error) {
	if !i.Valid() || !d.Valid() {
		return nil, ErrMissingTemplates
	}
	ts := p.table[i][d]
	if len(ts) == 0 {
		return nil, ErrMissingTemplates
	}
	return ts, nil
}

// TemplateCount returns the total number of templates across all cells.
func (p *Pack) TemplateCount() int {
	n := 0
	for _, c := range AllCells() {
		n += len(p.table[c.Intent][c.Difficulty])
	}
	return n
}

// SlotNames returns the slot names in sorted order.
func (p *Pack) SlotNames() []string {
	names := make([]string, 0, len(p.Slots))
	for name := range p.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Vocabulary builds the keyword vocabulary the quality scorer uses.
func (p *Pack) Vocabulary() quality.Vocabulary {
	v := quality.Vocabulary{
		Categories: make([]quality.Category, 0, len(p.Categories)),
		Context:    p.category(p.Context),
		Link:       p.category(p.Link),
	}
	for _, c := range p.Categories {
		v.Categories = append(v.Categories, p.category(c))
	}
	return v
}

func (p *Pack) category(spec CategorySpec) quality.Category {
	c := quality.Category{Label: spec.Label}
	for _, slot := range spec.Slots {
		c.Keywords = append(c.Keywords, p.Slots[slot]...)
	}
	c.Keywords = append(c.Keywords, spec.Keywords...)
	return c
}
