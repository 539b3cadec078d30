package pack

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegistry_Embedded(t *testing.T) {
	r, err := NewRegistry("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := r.List()
	var names []string
	for _, s := range list {
		names = append(names, s.Name)
		if !s.Embedded {
			t.Errorf("expected %s to be embedded", s.Name)
		}
	}
	if strings.Join(names, ",") != "dongrae,iovu" {
		t.Errorf("unexpected packs: %v", names)
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			p, err := r.Load(name)
			if err != nil {
				t.Fatalf("failed to load %s: %v", name, err)
			}
			if p.TemplateCount() < 9 {
				t.Errorf("expected at least one template per cell, got %d", p.TemplateCount())
			}
			if w := p.Lint(); len(w) != 0 {
				t.Errorf("embedded pack has lint warnings: %v", w)
			}
		})
	}
}

func TestRegistry_DefaultPack(t *testing.T) {
	r, err := NewRegistry("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := r.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != DefaultPack {
		t.Errorf("expected %s, got %s", DefaultPack, p.Name)
	}
}

func TestRegistry_UserDirShadows(t *testing.T) {
	dir := t.TempDir()
	doc := strings.Replace(testPack, "name: test", "name: iovu", 1)
	if err := os.WriteFile(filepath.Join(dir, "iovu.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "local.yaml"), []byte(testPack), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewRegistry(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := len(r.List()); n != 3 {
		t.Errorf("expected 3 packs, got %d", n)
	}

	p, err := r.Load("iovu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Domain != "테스트" {
		t.Errorf("expected user pack to shadow embedded iovu, got domain %s", p.Domain)
	}

	if _, err := r.Load("local"); err != nil {
		t.Errorf("expected local pack to load: %v", err)
	}
}

func TestRegistry_LoadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte(testPack), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewRegistry("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := r.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "test" {
		t.Errorf("expected test, got %s", p.Name)
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r, err := NewRegistry("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Load("nope"); !errors.Is(err, ErrUnknownPack) {
		t.Errorf("expected ErrUnknownPack, got %v", err)
	}
}
