package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoxStack/internal/model"
)

func TestSaveAndLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.json")

	store := model.NewTemplateStore()
	parts := []model.Part{model.NewPart("Shelf", 5, 2, 5, 2)}
	container := model.NewContainer("Crate", 10, 4, 10)

	tmpl := model.NewProjectTemplate("Crate run", "Standard crate", parts, container, model.DefaultSettings())
	store.Add(tmpl)

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}

	if len(loaded.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(loaded.Templates))
	}
	if loaded.Templates[0].Name != "Crate run" {
		t.Errorf("expected 'Crate run', got %q", loaded.Templates[0].Name)
	}
	if len(loaded.Templates[0].Parts) != 1 {
		t.Errorf("expected 1 part, got %d", len(loaded.Templates[0].Parts))
	}
	if loaded.Templates[0].Container.Dims.Height != 4 {
		t.Errorf("expected container height 4, got %f", loaded.Templates[0].Container.Dims.Height)
	}
}

func TestLoadTemplates_NotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.json")

	store, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(store.Templates) != 0 {
		t.Errorf("expected empty store, got %d templates", len(store.Templates))
	}
}

func TestSaveAndLoadTemplates_Multiple(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.json")
	container := model.NewContainer("Box", 1, 1, 1)

	store := model.NewTemplateStore()
	store.Add(model.NewProjectTemplate("T1", "First", nil, container, model.DefaultSettings()))
	store.Add(model.NewProjectTemplate("T2", "Second", nil, container, model.DefaultSettings()))
	store.Add(model.NewProjectTemplate("T3", "Third", nil, container, model.DefaultSettings()))

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(loaded.Templates) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(loaded.Templates))
	}
}
