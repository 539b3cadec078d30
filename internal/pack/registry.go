package pack

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed packs/*.yaml
var embeddedPacks embed.FS

// DefaultPack is the pack used when none is configured.
const DefaultPack = "dongrae"

// Source describes where a registered pack came from.
type Source struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path" yaml:"path"`
	Embedded bool   `json:"embedded" yaml:"embedded"`
}

// Registry resolves pack names to packs. User packs in the packs directory
// shadow embedded packs of the same name.
type Registry struct {
	dir     string
	sources map[string]Source
	order   []string
	logger  *slog.Logger
}

// NewRegistry indexes embedded packs and *.yaml files in dir (may be empty).
func NewRegistry(dir string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		dir:     dir,
		sources: make(map[string]Source),
		logger:  logger,
	}

	entries, err := fs.ReadDir(embeddedPacks, "packs")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded packs: %w", err)
	}
	for _, e := range entries {
		r.add(Source{
			Name:     strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Path:     "packs/" + e.Name(),
			Embedded: true,
		})
	}

	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
		if err != nil {
			return nil, fmt.Errorf("failed to scan pack directory: %w", err)
		}
		for _, m := range matches {
			r.add(Source{
				Name: strings.TrimSuffix(filepath.Base(m), filepath.Ext(m)),
				Path: m,
			})
		}
	}

	return r, nil
}

func (r *Registry) add(s Source) {
	if prev, ok := r.sources[s.Name]; ok {
		r.logger.Debug("pack shadowed", "name", s.Name, "previous", prev.Path, "path", s.Path)
	} else {
		r.order = append(r.order, s.Name)
	}
	r.sources[s.Name] = s
}

// List returns the registered packs sorted by name.
func (r *Registry) List() []Source {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	out := make([]Source, 0, len(names))
	for _, n := range names {
		out = append(out, r.sources[n])
	}
	return out
}

// Load resolves nameOrPath: a path to an existing file is loaded directly,
// otherwise the name is looked up in the registry.
func (r *Registry) Load(nameOrPath string) (*Pack, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultPack
	}
	if strings.HasSuffix(nameOrPath, ".yaml") || strings.HasSuffix(nameOrPath, ".yml") {
		if _, err := os.Stat(nameOrPath); err == nil {
			return LoadFile(nameOrPath)
		}
	}

	src, ok := r.sources[nameOrPath]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPack, nameOrPath)
	}
	if !src.Embedded {
		return LoadFile(src.Path)
	}

	data, err := embeddedPacks.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded pack %s: %w", src.Name, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("embedded pack %s: %w", src.Name, err)
	}
	return p, nil
}
