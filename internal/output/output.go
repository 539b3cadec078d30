// Package output renders command results as YAML, JSON or an aligned text
// table, selected by the root command's --output flag.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// Format defines the output format for CLI commands.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// DefaultFormat is the default output format.
var DefaultFormat = FormatYAML

// globalFormat is set by the root command's --output flag.
var globalFormat = DefaultFormat

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatTable:
		return f, nil
	case "":
		return DefaultFormat, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want yaml, json or table)", s)
	}
}

// SetFormat sets the global output format.
func SetFormat(format Format) {
	globalFormat = format
}

// GetFormat returns the current global output format.
func GetFormat() Format {
	return globalFormat
}

// Tabular is implemented by results that have a table rendering.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

// Print writes data to stdout in the configured format.
func Print(data any) error {
	return PrintTo(os.Stdout, globalFormat, data)
}

// PrintTo writes data to the given writer in the specified format.
// The table format falls back to YAML for data that is not Tabular.
func PrintTo(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case FormatTable:
		if t, ok := data.(Tabular); ok {
			return WriteTable(w, t.TableHeader(), t.TableRows())
		}
		return PrintTo(w, FormatYAML, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// MaxCellWidth is the display width table cells are truncated to.
const MaxCellWidth = 60

// WriteTable writes rows as space-aligned columns. Widths are measured in
// terminal cells, so Hangul counts double.
func WriteTable(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	fit := func(row []string) []string {
		out := make([]string, len(header))
		for i := range out {
			if i < len(row) {
				out[i] = runewidth.Truncate(row[i], MaxCellWidth, "...")
			}
			if n := runewidth.StringWidth(out[i]); n > widths[i] {
				widths[i] = n
			}
		}
		return out
	}

	lines := make([][]string, 0, len(rows)+1)
	lines = append(lines, fit(header))
	for _, r := range rows {
		lines = append(lines, fit(r))
	}

	for _, line := range lines {
		var b strings.Builder
		for i, cell := range line {
			if i == len(line)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
