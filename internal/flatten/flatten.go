// Package flatten turns JSON records into CSV tables. Nested objects become
// prefixed columns and arrays are joined into a single cell.
package flatten

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jackzampolin/promptgen/internal/table"
)

// ErrInvalidJSON is returned for malformed input.
var ErrInvalidJSON = errors.New("invalid JSON")

// DefaultSeparator joins parent and child keys.
const DefaultSeparator = "_"

// ListSeparator joins array elements within a cell.
const ListSeparator = ", "

// Flatten converts a JSON array of objects, or a single object, into a
// table. Columns appear in first-seen order; missing values are empty.
func Flatten(data []byte, sep string) (*table.Table, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	root, err := parse(data)
	if err != nil {
		return nil, err
	}

	var records []map[string]string
	var header []string
	seen := make(map[string]bool)
	add := func(rec map[string]string, keys []string) {
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
		records = append(records, rec)
	}

	for _, item := range items(root) {
		rec := make(map[string]string)
		var keys []string
		if item.IsObject() {
			flattenObject(item, "", sep, rec, &keys)
		} else {
			rec["value"] = cell(item)
			keys = append(keys, "value")
		}
		add(rec, keys)
	}

	t := table.New(header...)
	for _, rec := range records {
		t.Append(rec)
	}
	return t, nil
}

func flattenObject(obj gjson.Result, prefix, sep string, rec map[string]string, keys *[]string) {
	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if prefix != "" {
			key = prefix + sep + key
		}
		if v.IsObject() {
			flattenObject(v, key, sep, rec, keys)
			return true
		}
		if _, dup := rec[key]; !dup {
			*keys = append(*keys, key)
		}
		rec[key] = cell(v)
		return true
	})
}

// cell renders a scalar or array as a single CSV value. Null is empty.
func cell(v gjson.Result) string {
	switch {
	case v.Type == gjson.Null:
		return ""
	case v.IsArray():
		parts := make([]string, 0)
		v.ForEach(func(_, e gjson.Result) bool {
			parts = append(parts, e.String())
			return true
		})
		return strings.Join(parts, ListSeparator)
	default:
		return v.String()
	}
}

func parse(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() && !root.IsObject() {
		return gjson.Result{}, ErrInvalidJSON
	}
	return root, nil
}

func items(root gjson.Result) []gjson.Result {
	if root.IsArray() {
		return root.Array()
	}
	return []gjson.Result{root}
}
