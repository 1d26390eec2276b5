package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sketch.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write sketch.toml: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[render]
endpoint = "https://sketch.example.com"
layout = "atlas"
theme = 104

[keys]
atlas = "tok-secret"

[play]
seed = "a -> b\n"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Render.Endpoint != "https://sketch.example.com" {
		t.Errorf("endpoint = %q", cfg.Render.Endpoint)
	}
	if cfg.Render.Layout != "atlas" || cfg.Render.Theme != 104 {
		t.Errorf("render = %+v, want atlas/104", cfg.Render)
	}
	if cfg.Keys["atlas"] != "tok-secret" {
		t.Errorf("keys = %v, want atlas key", cfg.Keys)
	}
	if cfg.Play.Seed != "a -> b\n" {
		t.Errorf("seed = %q", cfg.Play.Seed)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Render.Endpoint != DefaultEndpoint {
		t.Errorf("endpoint = %q, want default", cfg.Render.Endpoint)
	}
	if cfg.Render.Layout != DefaultLayout {
		t.Errorf("layout = %q, want default", cfg.Render.Layout)
	}
	if cfg.Play.Seed != SeedScript {
		t.Errorf("seed = %q, want seed script", cfg.Play.Seed)
	}
}

func TestFindSketchToml_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[render]\nlayout = \"breeze\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dirs: %v", err)
	}

	path, ok, err := FindSketchToml(nested)
	if err != nil {
		t.Fatalf("FindSketchToml returned error: %v", err)
	}
	if !ok {
		t.Fatal("FindSketchToml did not find the config above")
	}
	if want := filepath.Join(root, "sketch.toml"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

func TestDiscover_NoConfig(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if cfg.Render.Endpoint != DefaultEndpoint || cfg.Play.Seed != SeedScript {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}
