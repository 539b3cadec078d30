package table

import "strconv"

// MergedHeader is the unified header of merged review files.
var MergedHeader = []string{
	"원본_행", "질문", "추출된_의도", "추출된_난이도", "추출된_버킷타입",
	"검수_점수", "검수_통과", "검수_사유", "원본_의도", "원본_난이도",
}

// MergeOptions controls how extra rows are mapped into the unified header.
// Mapping maps unified columns to columns of the extra table; Defaults fill
// whatever the mapping leaves empty. RowColumn receives row numbers that
// continue after the base rows.
type MergeOptions struct {
	Header    []string
	RowColumn string
	Mapping   map[string]string
	Defaults  map[string]string
}

// DefaultMergeOptions maps a generator export onto a review result file.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		Header:    MergedHeader,
		RowColumn: "원본_행",
		Mapping: map[string]string{
			"질문":       "질문",
			"추출된_의도":   "의도",
			"추출된_난이도":  "난이도",
			"추출된_버킷타입": "도메인",
			"원본_의도":    "의도",
			"원본_난이도":   "난이도",
		},
		Defaults: map[string]string{
			"추출된_버킷타입": "동래",
			"검수_점수":    "0.85",
			"검수_통과":    "Y",
			"검수_사유":    "신규_고품질_프롬프트",
		},
	}
}

// Merge combines base and extra into a table with the unified header. Base
// rows are copied by column name; extra rows go through the mapping and are
// numbered after the base rows.
func Merge(base, extra *Table, opts MergeOptions) *Table {
	if len(opts.Header) == 0 {
		opts.Header = MergedHeader
	}
	out := New(opts.Header...)

	for _, row := range base.Rows {
		values := make(map[string]string, len(opts.Header))
		for _, h := range opts.Header {
			values[h] = base.Get(row, h)
		}
		out.Append(values)
	}

	start := len(base.Rows) + 1
	for i, row := range extra.Rows {
		values := make(map[string]string, len(opts.Header))
		for _, h := range opts.Header {
			if src, ok := opts.Mapping[h]; ok {
				values[h] = extra.Get(row, src)
			}
			if values[h] == "" {
				values[h] = opts.Defaults[h]
			}
		}
		if opts.RowColumn != "" {
			values[opts.RowColumn] = strconv.Itoa(start + i)
		}
		out.Append(values)
	}
	return out
}
