// Package export converts accepted prompts to records and writes them as
// CSV or JSON result files.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackzampolin/promptgen/internal/generate"
	"github.com/jackzampolin/promptgen/internal/pack"
	"github.com/jackzampolin/promptgen/internal/table"
)

// CSVHeader is the column layout of exported CSV files.
var CSVHeader = []string{"번호", "질문", "의도", "난이도", "도메인", "언어", "어절수", "예상점수", "키워드_포함"}

// Record is one exported prompt. The trailing fields only appear in JSON.
type Record struct {
	Number     int               `json:"number"`
	Prompt     string            `json:"prompt"`
	Intent     string            `json:"intent"`
	Difficulty string            `json:"difficulty"`
	Domain     string            `json:"domain"`
	Language   string            `json:"language"`
	WordCount  int               `json:"word_count"`
	Score      float64           `json:"expected_score"`
	Keywords   string            `json:"keywords"`
	RunID      string            `json:"run_id,omitempty"`
	Template   string            `json:"template_used,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Brand      *pack.Brand       `json:"brand_info,omitempty"`
}

// Records converts a run result into numbered records.
func Records(res *generate.Result, p *pack.Pack) []Record {
	vocab := p.Vocabulary()
	brand := p.Brand
	records := make([]Record, 0, len(res.Accepted))
	for i, a := range res.Accepted {
		records = append(records, Record{
			Number:     i + 1,
			Prompt:     a.Prompt,
			Intent:     a.Intent.Label(),
			Difficulty: a.Difficulty.Label(),
			Domain:     p.Domain,
			Language:   p.Language,
			WordCount:  a.Report.WordCount,
			Score:      a.Report.Score,
			Keywords:   strings.Join(a.Report.Keywords(vocab), ", "),
			RunID:      res.RunID,
			Template:   a.Template,
			Parameters: a.Parameters,
			Brand:      &brand,
		})
	}
	return records
}

// Row returns the record's CSV cells in CSVHeader order.
func (r Record) Row() []string {
	return []string{
		strconv.Itoa(r.Number),
		r.Prompt,
		r.Intent,
		r.Difficulty,
		r.Domain,
		r.Language,
		strconv.Itoa(r.WordCount),
		fmt.Sprintf("%.3f", r.Score),
		r.Keywords,
	}
}

// Table converts records into a CSV table.
func Table(records []Record) *table.Table {
	t := table.New(CSVHeader...)
	t.Rows = make([][]string, 0, len(records))
	for _, r := range records {
		t.Rows = append(t.Rows, r.Row())
	}
	return t
}

// Renumber returns a copy of records numbered from 1.
func Renumber(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.Number = i + 1
		out[i] = r
	}
	return out
}
