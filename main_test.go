package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/df07/go-lumen2d/pkg/renderer"
	"github.com/df07/go-lumen2d/pkg/scene"
)

func TestBuiltinScenesBuild(t *testing.T) {
	for _, info := range scene.List() {
		t.Run(info.Name, func(t *testing.T) {
			build, err := scene.Lookup(info.Name)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", info.Name, err)
			}

			s := scene.New(nil)
			if err := build(s, 0.5, 0); err != nil {
				t.Fatalf("build %q: %v", info.Name, err)
			}
			if s.EmitterCount() == 0 {
				t.Errorf("scene %q has no emitters", info.Name)
			}
			if len(s.Primitives()) == 0 {
				t.Errorf("scene %q has no primitives", info.Name)
			}
		})
	}

	if _, err := scene.Lookup("nonexistent"); err == nil {
		t.Error("Expected error for unknown scene")
	}
}

func TestLoadGlobals(t *testing.T) {
	globals, err := loadGlobals("")
	if err != nil {
		t.Fatalf("Unexpected error for defaults: %v", err)
	}
	if globals != renderer.DefaultGlobals() {
		t.Errorf("Expected default globals, got %+v", globals)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "render.yaml")
	if err := os.WriteFile(path, []byte("canvasWidth: 320\ncanvasHeight: 180\nlightBounces: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	globals, err = loadGlobals(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if globals.CanvasWidth != 320 || globals.CanvasHeight != 180 || globals.LightBounces != 3 {
		t.Errorf("Overrides not applied: %+v", globals)
	}
	if globals.WorldSize != renderer.DefaultGlobals().WorldSize {
		t.Errorf("Expected unspecified fields to keep defaults, got worldSize %g", globals.WorldSize)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("photonsPerUpdate: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadGlobals(invalid); err == nil {
		t.Error("Expected validation error")
	}

	if _, err := loadGlobals(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestOutputFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	got := outputFilename("output", "prism", "png", now)
	want := filepath.Join("output", "prism", "render_20240309_140507.png")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestFrameFilename(t *testing.T) {
	start := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	got := frameFilename("output", "nested-squares", "tiff", start, 12)
	want := filepath.Join("output", "nested-squares", "render_20240309_140507_0012.tiff")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
	if frameFilename("output", "prism", "png", start, 1) == frameFilename("output", "prism", "png", start, 2) {
		t.Error("Expected distinct filenames per frame")
	}
}
