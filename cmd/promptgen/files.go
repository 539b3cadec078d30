package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/jackzampolin/promptgen/internal/export"
)

// timestampedPath returns "<dir of input>/<prefix>_<timestamp>.csv".
func timestampedPath(input, prefix string) string {
	return filepath.Join(filepath.Dir(input), export.Filename(prefix, "csv", time.Now()))
}

// replaceExt swaps the extension of path for ext (without the dot).
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}
