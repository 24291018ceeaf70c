package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParsePreset(t *testing.T) {
	t.Parallel()

	data := []byte(`project_name: demo
framework: express
language: typescript
database: postgres
db_host: localhost
db_user: app
db_password: secret
db_name: demo
features:
  - cors
port: "8080"
`)

	ans, err := ParsePreset(data)
	if err != nil {
		t.Fatalf("ParsePreset() unexpected error: %v", err)
	}
	if ans.ProjectName != "demo" || ans.Framework != "express" {
		t.Errorf("got %q/%q, want demo/express", ans.ProjectName, ans.Framework)
	}
	if ans.LanguageMode != "typescript" {
		t.Errorf("LanguageMode = %q, want typescript", ans.LanguageMode)
	}

	cfg, err := Build(*ans)
	if err != nil {
		t.Fatalf("Build() on preset answers: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
}

func TestParsePresetRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := ParsePreset([]byte("project_name: demo\nframwork: express\n"))
	if !errors.Is(err, ErrInvalidPreset) {
		t.Errorf("ParsePreset() error = %v, want ErrInvalidPreset", err)
	}
}

func TestParsePresetEmptyDocument(t *testing.T) {
	t.Parallel()

	_, err := ParsePreset([]byte(""))
	if !errors.Is(err, ErrInvalidPreset) {
		t.Errorf("ParsePreset() error = %v, want ErrInvalidPreset", err)
	}
}

func TestPresetRoundTrip(t *testing.T) {
	t.Parallel()

	in := &Answers{
		ProjectName:   "demo",
		Framework:     "express",
		Database:      "mongodb",
		ConnectionURI: "mongodb://localhost:27017/demo",
		Features:      []string{"cors"},
		Port:          "3000",
	}

	data, err := EncodePreset(in)
	if err != nil {
		t.Fatalf("EncodePreset() unexpected error: %v", err)
	}
	out, err := ParsePreset(data)
	if err != nil {
		t.Fatalf("ParsePreset() unexpected error: %v", err)
	}
	if out.ConnectionURI != in.ConnectionURI {
		t.Errorf("ConnectionURI = %q, want %q", out.ConnectionURI, in.ConnectionURI)
	}
	if len(out.Features) != 1 || out.Features[0] != "cors" {
		t.Errorf("Features = %v, want [cors]", out.Features)
	}
}

func TestLoadPresetMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadPreset(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("LoadPreset() error = %v, want ErrPresetNotFound", err)
	}
}

func TestLoadPreset(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "preset.yaml")
	if err := os.WriteFile(path, []byte("project_name: demo\nframework: flask\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ans, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("LoadPreset() unexpected error: %v", err)
	}
	if ans.Framework != "flask" {
		t.Errorf("Framework = %q, want flask", ans.Framework)
	}
}
