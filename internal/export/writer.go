package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Format selects which files are written.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatBoth Format = "both"
)

// ParseFormat validates a format name. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON, FormatBoth:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format: %q (want csv, json or both)", s)
	}
}

// WriteCSV writes records as a BOM-prefixed CSV.
func WriteCSV(w io.Writer, records []Record) error {
	return Table(records).Write(w)
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if records == nil {
		records = []Record{}
	}
	return enc.Encode(records)
}

// Filename returns "<prefix>_<YYYYMMDD_HHMMSS>.<ext>".
func Filename(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format("20060102_150405"), ext)
}

// Exporter writes result files into a directory.
type Exporter struct {
	Dir    string
	Prefix string
	Format Format

	// Now is used for file name timestamps; nil means time.Now.
	Now func() time.Time
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Save writes records under "<prefix>_<timestamp>" and returns the paths.
func (e *Exporter) Save(records []Record) ([]string, error) {
	return e.save(e.Prefix, records)
}

// SaveBatches writes records in files of at most batchSize records named
// "<prefix>_batchNNN_<timestamp>", followed by one "<prefix>_integrated_<timestamp>"
// file with every record.
func (e *Exporter) SaveBatches(records []Record, batchSize int) ([]string, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	var paths []string
	for start, n := 0, 1; start < len(records); start, n = start+batchSize, n+1 {
		end := min(start+batchSize, len(records))
		written, err := e.save(fmt.Sprintf("%s_batch%03d", e.Prefix, n), Renumber(records[start:end]))
		if err != nil {
			return paths, err
		}
		paths = append(paths, written...)
	}

	written, err := e.save(e.Prefix+"_integrated", records)
	if err != nil {
		return paths, err
	}
	return append(paths, written...), nil
}

func (e *Exporter) save(prefix string, records []Record) ([]string, error) {
	format := e.Format
	if format == "" {
		format = FormatCSV
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ts := e.now()
	var paths []string
	if format == FormatCSV || format == FormatBoth {
		path := filepath.Join(e.Dir, Filename(prefix, "csv", ts))
		if err := writeFile(path, records, WriteCSV); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	if format == FormatJSON || format == FormatBoth {
		path := filepath.Join(e.Dir, Filename(prefix, "json", ts))
		if err := writeFile(path, records, WriteJSON); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, records []Record, write func(io.Writer, []Record) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
