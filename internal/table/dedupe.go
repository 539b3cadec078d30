package table

import "fmt"

// Duplicate is a value that occurred more than once.
type Duplicate struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// DedupeReport describes a DropDuplicates pass.
type DedupeReport struct {
	Column     string      `json:"column" yaml:"column"`
	Original   int         `json:"original" yaml:"original"`
	Remaining  int         `json:"remaining" yaml:"remaining"`
	Removed    int         `json:"removed" yaml:"removed"`
	Duplicates []Duplicate `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
}

// DropDuplicates removes rows whose value in column was already seen,
// keeping the first occurrence. Duplicates are listed in first-seen order.
func (t *Table) DropDuplicates(column string) (DedupeReport, error) {
	idx := t.Index(column)
	if idx < 0 {
		return DedupeReport{}, fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}

	counts := make(map[string]int)
	var order []string
	kept := t.Rows[:0:0]
	for _, row := range t.Rows {
		v := cell(row, idx)
		counts[v]++
		if counts[v] == 1 {
			order = append(order, v)
			kept = append(kept, row)
		}
	}

	rep := DedupeReport{
		Column:    column,
		Original:  len(t.Rows),
		Remaining: len(kept),
		Removed:   len(t.Rows) - len(kept),
	}
	for _, v := range order {
		if counts[v] > 1 {
			rep.Duplicates = append(rep.Duplicates, Duplicate{Value: v, Count: counts[v]})
		}
	}
	t.Rows = kept
	return rep, nil
}
