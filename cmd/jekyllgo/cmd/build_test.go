package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestSite(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		"_config.yml":               "permalink: pretty\n",
		"_layouts/default.html":     "---\n---\n<html>{{ content }}</html>\n",
		"_posts/2026-01-01-hi.md":   "---\ntitle: Hi\nlayout: default\n---\nHi there.\n",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func resetGlobalFlags(t *testing.T) {
	t.Helper()
	prevSource, prevDest, prevCfg, prevEnv := sourceDir, destDir, cfgFile, environment
	prevClean, prevIncr := buildClean, buildIncremental
	t.Cleanup(func() {
		sourceDir, destDir, cfgFile, environment = prevSource, prevDest, prevCfg, prevEnv
		buildClean, buildIncremental = prevClean, prevIncr
	})
}

func TestRunBuildCommandWritesDestination(t *testing.T) {
	resetGlobalFlags(t)

	root := t.TempDir()
	writeTestSite(t, root)
	sourceDir = root
	destDir = filepath.Join(root, "_site")
	cfgFile = nil
	environment = ""

	if err := runBuildCommand(nil, nil); err != nil {
		t.Fatalf("runBuildCommand: %v", err)
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected the destination to contain at least one entry")
	}
}

func TestRunBuildCommandFailsOnBadConfig(t *testing.T) {
	resetGlobalFlags(t)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "_config.yml"), []byte("paginate: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sourceDir = root
	destDir = filepath.Join(root, "_site")
	cfgFile = nil
	environment = ""

	if err := runBuildCommand(nil, nil); err == nil {
		t.Fatal("expected runBuildCommand to surface the config validation error")
	}
}
