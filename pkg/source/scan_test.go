package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(source string) *model.Config {
	return &model.Config{
		Source:      source,
		Destination: "_site",
		MarkdownExt: []string{"md", "markdown"},
		Collections: map[string]model.CollectionConfig{"projects": {Output: true}},
	}
}

func findEntry(entries []Entry, rel string) (Entry, bool) {
	for _, e := range entries {
		if e.RelPath == rel {
			return e, true
		}
	}
	return Entry{}, false
}

func TestScanClassifiesKinds(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "_posts/2024-01-15-hello.md", "---\ntitle: Hello\n---\nBody")
	writeFile(t, root, "_drafts/wip.md", "---\ntitle: WIP\n---\nBody")
	writeFile(t, root, "_layouts/post.html", "{{ content }}")
	writeFile(t, root, "_includes/note.html", "<b>{{ include.text }}</b>")
	writeFile(t, root, "_data/authors.yml", "waylon: {}")
	writeFile(t, root, "_projects/site.md", "---\ntitle: Site\n---\nBody")
	writeFile(t, root, "about.md", "---\ntitle: About\n---\nBody")
	writeFile(t, root, "assets/style.css", "body{}")
	writeFile(t, root, "_sass/_base.scss", "body{}")
	writeFile(t, root, ".gitignore", "_site/")
	writeFile(t, root, "#backup.md", "stale")

	entries, err := Scan(testConfig(root))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	cases := []struct {
		rel  string
		kind Kind
	}{
		{"_posts/2024-01-15-hello.md", KindCollectionDocument},
		{"_drafts/wip.md", KindCollectionDocument},
		{"_layouts/post.html", KindLayout},
		{"_includes/note.html", KindInclude},
		{"_data/authors.yml", KindData},
		{"_projects/site.md", KindCollectionDocument},
		{"about.md", KindPage},
		{"assets/style.css", KindStaticAsset},
	}
	for _, c := range cases {
		e, ok := findEntry(entries, c.rel)
		if !ok {
			t.Errorf("missing entry for %s", c.rel)
			continue
		}
		if e.Kind != c.kind {
			t.Errorf("%s: kind = %v, want %v", c.rel, e.Kind, c.kind)
		}
	}

	for _, excl := range []string{"_sass/_base.scss", ".gitignore", "#backup.md"} {
		if _, ok := findEntry(entries, excl); ok {
			t.Errorf("expected %s to be excluded from scan results", excl)
		}
	}
}

func TestScanStableOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.md", "---\ntitle: B\n---\n")
	writeFile(t, root, "a.md", "---\ntitle: A\n---\n")

	first, err := Scan(testConfig(root))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	second, err := Scan(testConfig(root))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("non-deterministic entry count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].RelPath != second[i].RelPath {
			t.Fatalf("scan order not stable at index %d: %s vs %s", i, first[i].RelPath, second[i].RelPath)
		}
	}
	if first[0].RelPath != "a.md" {
		t.Errorf("expected sorted order, got %s first", first[0].RelPath)
	}
}

func TestScanExcludeGlobOverridesInclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "drafts-note.md", "---\ntitle: X\n---\n")
	cfg := testConfig(root)
	cfg.Exclude = []string{"drafts-note.md"}

	entries, err := Scan(cfg)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if _, ok := findEntry(entries, "drafts-note.md"); ok {
		t.Errorf("expected drafts-note.md to be excluded")
	}
}
