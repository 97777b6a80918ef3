package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMostRecentPostPrefersPostsOverDrafts(t *testing.T) {
	root := t.TempDir()
	postsDir := filepath.Join(root, "_posts")
	draftsDir := filepath.Join(root, "_drafts")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(draftsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(draftsDir, "wip.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(postsDir, "2026-01-01-a.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := mostRecentPost(root)
	if err != nil {
		t.Fatalf("mostRecentPost: %v", err)
	}
	want := filepath.Join(postsDir, "2026-01-01-a.md")
	if got != want {
		t.Errorf("mostRecentPost = %q, want %q", got, want)
	}
}

func TestMostRecentPostFallsBackToDrafts(t *testing.T) {
	root := t.TempDir()
	draftsDir := filepath.Join(root, "_drafts")
	if err := os.MkdirAll(draftsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(draftsDir, "wip.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := mostRecentPost(root)
	if err != nil {
		t.Fatalf("mostRecentPost: %v", err)
	}
	want := filepath.Join(draftsDir, "wip.md")
	if got != want {
		t.Errorf("mostRecentPost = %q, want %q", got, want)
	}
}

func TestMostRecentPostPicksNewestModTime(t *testing.T) {
	root := t.TempDir()
	postsDir := filepath.Join(root, "_posts")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	older := filepath.Join(postsDir, "2026-01-01-older.md")
	newer := filepath.Join(postsDir, "2026-01-02-newer.md")
	if err := os.WriteFile(older, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newer, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := mostRecentPost(root)
	if err != nil {
		t.Fatalf("mostRecentPost: %v", err)
	}
	if got != newer {
		t.Errorf("mostRecentPost = %q, want %q", got, newer)
	}
}

func TestMostRecentPostErrorsWhenNoneFound(t *testing.T) {
	root := t.TempDir()
	if _, err := mostRecentPost(root); err == nil {
		t.Fatal("expected an error when no posts or drafts exist")
	}
}

func TestPreviewWidthFallsBackWhenNotATerminal(t *testing.T) {
	if got := previewWidth(); got != 80 {
		t.Errorf("previewWidth() in a non-terminal test run = %d, want fallback 80", got)
	}
}
