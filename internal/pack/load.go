package pack

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"sync"
	"text/template"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// variablePattern matches template references like {{.area}} or {{ .area }}.
var variablePattern = regexp.MustCompile(`\{\{\s*\.([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

func packSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("pack.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to load pack schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("pack.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to compile pack schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// LoadFile reads and parses a pack from disk.
func LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse validates a YAML pack document and compiles its templates.
func Parse(data []byte) (*Pack, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

// validateSchema checks the raw document against the embedded JSON Schema.
// YAML is round-tripped through JSON so the validator sees plain JSON types.
func validateSchema(data []byte) error {
	schema, err := packSchema()
	if err != nil {
		return err
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	return nil
}

// compile parses every template into the intent/difficulty table and checks
// that all cells are filled and every category references a defined slot.
func (p *Pack) compile() error {
	for intentKey, byDifficulty := range p.Templates {
		intent, err := ParseIntent(intentKey)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPack, err)
		}
		for diffKey, sources := range byDifficulty {
			diff, err := ParseDifficulty(diffKey)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidPack, err)
			}
			for _, src := range sources {
				t, err := compileTemplate(src)
				if err != nil {
					return fmt.Errorf("%w: %s: %v", ErrInvalidPack, Cell{intent, diff}, err)
				}
				p.table[intent][diff] = append(p.table[intent][diff], t)
			}
		}
	}

	for _, c := range AllCells() {
		if len(p.table[c.Intent][c.Difficulty]) == 0 {
			return fmt.Errorf("%w: %s: %w", ErrInvalidPack, c, ErrMissingTemplates)
		}
	}

	specs := append([]CategorySpec{p.Context, p.Link}, p.Categories...)
	for _, spec := range specs {
		for _, slot := range spec.Slots {
			if _, ok := p.Slots[slot]; !ok {
				return fmt.Errorf("%w: category %q references unknown slot %q", ErrInvalidPack, spec.Label, slot)
			}
		}
	}
	return nil
}

func compileTemplate(src string) (Template, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(src)
	if err != nil {
		return Template{}, err
	}
	return Template{Source: src, Vars: extractVariables(src), tmpl: tmpl}, nil
}

// extractVariables returns the sorted, distinct slot names a template uses.
func extractVariables(text string) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, match := range variablePattern.FindAllStringSubmatch(text, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			vars = append(vars, match[1])
		}
	}
	sort.Strings(vars)
	return vars
}

// Lint returns warnings for templates that reference undefined slots.
// Such templates fail at render time and are skipped by the generator.
func (p *Pack) Lint() []string {
	var warnings []string
	for _, c := range AllCells() {
		for _, t := range p.table[c.Intent][c.Difficulty] {
			for _, v := range t.Vars {
				if _, ok := p.Slots[v]; !ok {
					warnings = append(warnings, fmt.Sprintf("%s: template %q uses undefined slot %q", c, t.Source, v))
				}
			}
		}
	}
	return warnings
}
