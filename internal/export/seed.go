package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jackzampolin/promptgen/internal/table"
)

var (
	// ErrSeedNotFound is returned when the seed file does not exist. Callers
	// treat it as an empty seed.
	ErrSeedNotFound = errors.New("seed file not found")

	// ErrInvalidSeed is returned when a seed file has no usable prompt column.
	ErrInvalidSeed = errors.New("invalid seed file")
)

// SeedColumns are the CSV columns searched for prompts, in order.
var SeedColumns = []string{"질문", "prompt", "question"}

// LoadSeed reads previously exported prompts from a CSV or JSON file.
// Blank entries are dropped.
func LoadSeed(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSeedNotFound, path)
		}
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return seedFromJSON(data)
	}
	return seedFromCSV(path)
}

func seedFromCSV(path string) ([]string, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	for _, col := range SeedColumns {
		values, err := t.Column(col)
		if err == nil {
			return nonBlank(values), nil
		}
	}
	return nil, fmt.Errorf("%w: no %s column in %s", ErrInvalidSeed, strings.Join(SeedColumns, "/"), path)
}

// seedFromJSON accepts an array of records or a single record with a
// "prompt" field.
func seedFromJSON(data []byte) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidSeed)
	}
	root := gjson.ParseBytes(data)

	var values []string
	switch {
	case root.IsArray():
		root.Get("#.prompt").ForEach(func(_, v gjson.Result) bool {
			values = append(values, v.String())
			return true
		})
	case root.IsObject():
		values = append(values, root.Get("prompt").String())
	default:
		return nil, fmt.Errorf("%w: expected array or object", ErrInvalidSeed)
	}
	return nonBlank(values), nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
