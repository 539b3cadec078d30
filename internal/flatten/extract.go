package flatten

import "github.com/jackzampolin/promptgen/internal/table"

// Field maps a gjson path to an output column.
type Field struct {
	Column string
	Path   string
}

// KeyFields picks the commonly reviewed fields of exported prompt records.
var KeyFields = []Field{
	{"prompt", "prompt"},
	{"template_used", "template_used"},
	{"intent", "intent"},
	{"difficulty", "difficulty"},
	{"expected_score", "expected_score"},
	{"keywords", "keywords"},
	{"firm_name", "brand_info.name"},
	{"firm_english_name", "brand_info.english_name"},
	{"firm_website", "brand_info.website"},
	{"firm_location", "brand_info.location"},
	{"firm_phone", "brand_info.phone"},
	{"firm_established", "brand_info.established"},
	{"firm_experience", "brand_info.experience"},
	{"firm_specialties", "brand_info.specialties"},
}

// Extract builds a table with one column per field. Paths that do not
// resolve produce empty cells.
func Extract(data []byte, fields []Field) (*table.Table, error) {
	root, err := parse(data)
	if err != nil {
		return nil, err
	}

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Column
	}
	t := table.New(header...)
	for _, item := range items(root) {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = cell(item.Get(f.Path))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
