package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestParseTagList(t *testing.T) {
	got := parseTagList(" go, cli ,, jekyll")
	want := []string{"go", "cli", "jekyll"}
	if len(got) != len(want) {
		t.Fatalf("parseTagList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseTagList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestContainsTag(t *testing.T) {
	tags := []string{"go", "cli"}
	if !containsTag(tags, "go") {
		t.Error("containsTag(tags, \"go\") = false, want true")
	}
	if containsTag(tags, "rust") {
		t.Error("containsTag(tags, \"rust\") = true, want false")
	}
}

func TestDiscoverLayouts(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"post.html", "default.html", "page.md"} {
		full := filepath.Join(root, "_layouts", name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := discoverLayouts(root)
	sort.Strings(got)
	want := []string{"default", "page", "post"}
	if len(got) != len(want) {
		t.Fatalf("discoverLayouts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("discoverLayouts[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscoverLayoutsMissingDir(t *testing.T) {
	if got := discoverLayouts(t.TempDir()); got != nil {
		t.Errorf("discoverLayouts on empty dir = %v, want nil", got)
	}
}

func TestPickLayoutFuzzyErrorsWithNoLayouts(t *testing.T) {
	if _, err := pickLayoutFuzzy(t.TempDir()); err == nil {
		t.Error("pickLayoutFuzzy with no _layouts/ dir = nil error, want error")
	}
}

func TestDiscoverTags(t *testing.T) {
	root := t.TempDir()
	postsDir := filepath.Join(root, "_posts")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	post1 := "---\ntitle: One\ntags: [go, cli]\n---\nBody\n"
	post2 := "---\ntitle: Two\ntags: [\"cli\", \"testing\"]\n---\nBody\n"
	if err := os.WriteFile(filepath.Join(postsDir, "a.md"), []byte(post1), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(postsDir, "b.md"), []byte(post2), 0o644); err != nil {
		t.Fatal(err)
	}

	got := discoverTags(root)
	sort.Strings(got)
	want := []string{"cli", "go", "testing"}
	if len(got) != len(want) {
		t.Fatalf("discoverTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("discoverTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunNewCommandScaffoldsPost(t *testing.T) {
	resetGlobalFlags(t)
	prevDraft, prevLayout, prevTags, prevInteractive := newDraft, newLayout, newTags, newInteractive
	t.Cleanup(func() { newDraft, newLayout, newTags, newInteractive = prevDraft, prevLayout, prevTags, prevInteractive })

	root := t.TempDir()
	sourceDir = root
	newDraft = false
	newLayout = "post"
	newTags = "go,cli"
	newInteractive = false

	if err := runNewCommand(nil, []string{"My First Post"}); err != nil {
		t.Fatalf("runNewCommand: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "_posts"))
	if err != nil {
		t.Fatalf("reading _posts: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one scaffolded post, got %d", len(entries))
	}

	body, err := os.ReadFile(filepath.Join(root, "_posts", entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if len(body) == 0 {
		t.Error("scaffolded post is empty")
	}
}

func TestRunNewCommandRejectsExistingFile(t *testing.T) {
	resetGlobalFlags(t)
	prevDraft, prevLayout, prevTags, prevInteractive := newDraft, newLayout, newTags, newInteractive
	t.Cleanup(func() { newDraft, newLayout, newTags, newInteractive = prevDraft, prevLayout, prevTags, prevInteractive })

	root := t.TempDir()
	sourceDir = root
	newDraft = true
	newLayout = "post"
	newTags = ""
	newInteractive = false

	if err := runNewCommand(nil, []string{"Duplicate"}); err != nil {
		t.Fatalf("first runNewCommand: %v", err)
	}
	if err := runNewCommand(nil, []string{"Duplicate"}); err == nil {
		t.Fatal("expected the second runNewCommand call to fail on an existing file")
	}
}

func TestRunNewCommandRequiresTitleOrInteractive(t *testing.T) {
	resetGlobalFlags(t)
	prevDraft, prevLayout, prevTags, prevInteractive := newDraft, newLayout, newTags, newInteractive
	t.Cleanup(func() { newDraft, newLayout, newTags, newInteractive = prevDraft, prevLayout, prevTags, prevInteractive })

	sourceDir = t.TempDir()
	newInteractive = false

	if err := runNewCommand(nil, nil); err == nil {
		t.Fatal("expected an error when no title is given and --interactive is off")
	}
}
