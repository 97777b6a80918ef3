package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveAppliesDefaultsThenFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_config.yml"), "title: My Site\npermalink: pretty\npaginate: 5\n")

	cfg, err := Resolve(root, nil, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Permalink != "pretty" {
		t.Errorf("Permalink = %q, want pretty", cfg.Permalink)
	}
	if cfg.Paginate != 5 {
		t.Errorf("Paginate = %d, want 5", cfg.Paginate)
	}
	if cfg.Destination != "_site" {
		t.Errorf("Destination = %q, want default _site", cfg.Destination)
	}
	if cfg.Variables["title"] != "My Site" {
		t.Errorf("Variables[title] = %#v, want My Site", cfg.Variables["title"])
	}
}

func TestResolveEnvironmentOverrideMerges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_config.yml"), "url: https://example.com\npaginate: 5\n")
	writeFile(t, filepath.Join(root, "_config.production.yml"), "paginate: 10\n")

	cfg, err := Resolve(root, nil, "production")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.URL != "https://example.com" {
		t.Errorf("URL = %q, want unchanged base value", cfg.URL)
	}
	if cfg.Paginate != 10 {
		t.Errorf("Paginate = %d, want override from _config.production.yml", cfg.Paginate)
	}
}

func TestResolveMissingEnvironmentFileIsOptional(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_config.yml"), "paginate: 5\n")

	cfg, err := Resolve(root, nil, "staging")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Paginate != 5 {
		t.Errorf("Paginate = %d, want base value when env file absent", cfg.Paginate)
	}
}

func TestResolveMultipleExplicitPathsMergeInOrder(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "base.yml")
	second := filepath.Join(root, "override.yml")
	writeFile(t, first, "permalink: date\npaginate: 3\n")
	writeFile(t, second, "permalink: pretty\n")

	cfg, err := Resolve(root, []string{first, second}, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Permalink != "pretty" {
		t.Errorf("Permalink = %q, want later file to win", cfg.Permalink)
	}
	if cfg.Paginate != 3 {
		t.Errorf("Paginate = %d, want preserved from earlier file", cfg.Paginate)
	}
}

func TestResolveEnvVarOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_config.yml"), "paginate: 5\n")

	if err := SetEnvValue("paginate", "7"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = UnsetEnvValue("paginate") }()

	cfg, err := Resolve(root, nil, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Paginate != 7 {
		t.Errorf("Paginate = %d, want env override 7", cfg.Paginate)
	}
}

func TestResolveRejectsNegativePaginate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_config.yml"), "paginate: -1\n")

	if _, err := Resolve(root, nil, ""); err == nil {
		t.Fatal("expected error for negative paginate")
	}
}

func TestResolveRejectsPaginateV2Key(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_config.yml"), "paginate_v2:\n  enabled: true\n")

	if _, err := Resolve(root, nil, ""); err == nil {
		t.Fatal("expected error for paginate_v2 key")
	}
}

func TestResolveWithoutConfigFileUsesDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Resolve(root, nil, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Permalink != "date" {
		t.Errorf("Permalink = %q, want default date", cfg.Permalink)
	}
	if cfg.Source != root {
		t.Errorf("Source = %q, want %q", cfg.Source, root)
	}
}
