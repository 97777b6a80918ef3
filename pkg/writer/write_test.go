package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

func TestWriteHTML(t *testing.T) {
	dest := t.TempDir()
	w := New(&model.Config{Destination: dest})
	if err := w.WriteHTML("2024/01/15/hello.html", "<p>Body.</p>"); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dest, "2024/01/15/hello.html"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "<p>Body.</p>" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteHTMLMinifies(t *testing.T) {
	dest := t.TempDir()
	w := New(&model.Config{Destination: dest, Minify: true})
	if err := w.WriteHTML("index.html", "<p>   Body.   </p>"); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dest, "index.html"))
	if len(data) >= len("<p>   Body.   </p>") {
		t.Errorf("expected minified output to shrink whitespace, got %q", data)
	}
}

func TestCleanKeepsFilesPrefix(t *testing.T) {
	dest := t.TempDir()
	os.MkdirAll(filepath.Join(dest, ".git"), 0o755)
	os.WriteFile(filepath.Join(dest, ".git", "config"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dest, "stale.html"), []byte("x"), 0o644)

	if err := Clean(dest, map[string]bool{}, []string{".git"}); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, ".git", "config")); err != nil {
		t.Errorf(".git/config should survive Clean: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "stale.html")); !os.IsNotExist(err) {
		t.Errorf("stale.html should have been removed")
	}
}
