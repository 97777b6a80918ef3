package collection

import (
	"testing"
	"time"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

func TestNewDocumentHeaderDateOverridesFilenameDate(t *testing.T) {
	header := model.NewHeader()
	header.Set("date", "2026-02-01")
	header.Set("layout", "post")

	doc := NewDocument("/src/_posts/2026-01-01-hello.md", "_posts/2026-01-01-hello.md", "posts", header, "body", false, time.Now())

	if !doc.HasDate {
		t.Fatal("expected HasDate to be true")
	}
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !doc.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", doc.Date, want)
	}
}

func TestNewDocumentFallsBackToFilenameDate(t *testing.T) {
	header := model.NewHeader()

	doc := NewDocument("/src/_posts/2026-01-01-hello.md", "_posts/2026-01-01-hello.md", "posts", header, "body", false, time.Now())

	if !doc.HasDate {
		t.Fatal("expected HasDate to be true from the filename")
	}
	if doc.Date.Year() != 2026 || doc.Date.Month() != time.January || doc.Date.Day() != 1 {
		t.Errorf("Date = %v, want 2026-01-01", doc.Date)
	}
	if doc.Slug != "hello" {
		t.Errorf("Slug = %q, want %q", doc.Slug, "hello")
	}
}

func TestNewDocumentDraftUsesBuildTime(t *testing.T) {
	header := model.NewHeader()
	buildTime := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

	doc := NewDocument("/src/_drafts/hello.md", "_drafts/hello.md", "posts", header, "body", true, buildTime)

	if !doc.HasDate || !doc.Date.Equal(buildTime) {
		t.Errorf("Date = %v, want build time %v", doc.Date, buildTime)
	}
}

func TestHeaderDateParsesLooseHandwrittenFormat(t *testing.T) {
	header := model.NewHeader()
	header.Set("date", "March 3, 2026")

	var out time.Time
	if !headerDate(header, &out) {
		t.Fatal("expected headerDate to fall back to go-dateparser and succeed")
	}
	if out.Year() != 2026 || out.Month() != time.March || out.Day() != 3 {
		t.Errorf("out = %v, want 2026-03-03", out)
	}
}

func TestHeaderDateRejectsGarbage(t *testing.T) {
	header := model.NewHeader()
	header.Set("date", "not a date at all")

	var out time.Time
	if headerDate(header, &out) {
		t.Errorf("expected headerDate to fail on garbage input, got %v", out)
	}
}

func TestHeaderDateMissingKey(t *testing.T) {
	header := model.NewHeader()

	var out time.Time
	if headerDate(header, &out) {
		t.Error("expected headerDate to return false when no date key is present")
	}
}

func TestNewDocumentCollectsTagsAndCategories(t *testing.T) {
	header := model.NewHeader()
	header.Set("tags", []interface{}{"go", "cli"})
	header.Set("categories", "news")
	header.Set("published", false)

	doc := NewDocument("/src/_posts/2026-01-01-hello.md", "_posts/2026-01-01-hello.md", "posts", header, "body", false, time.Now())

	if len(doc.Tags) != 2 || doc.Tags[0] != "go" || doc.Tags[1] != "cli" {
		t.Errorf("Tags = %v, want [go cli]", doc.Tags)
	}
	if len(doc.Categories) != 1 || doc.Categories[0] != "news" {
		t.Errorf("Categories = %v, want [news]", doc.Categories)
	}
	if doc.Published {
		t.Error("expected Published to be false")
	}
}
