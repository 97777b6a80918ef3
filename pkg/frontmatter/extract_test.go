package frontmatter

import (
	"testing"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

func getValue(h *model.Header, key string) interface{} {
	v, _ := h.Get(key)
	return v
}

func TestExtractNoFrontMatter(t *testing.T) {
	raw, syntax, body, err := Extract("# Just a body")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if raw != "" || syntax != SyntaxNone || body != "# Just a body" {
		t.Errorf("got raw=%q syntax=%v body=%q", raw, syntax, body)
	}
}

func TestExtractEmptyFrontMatter(t *testing.T) {
	_, _, body, err := Extract("---\n---\nBody.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if body != "Body." {
		t.Errorf("body = %q, want %q", body, "Body.")
	}
}

func TestExtractUnclosedFrontMatter(t *testing.T) {
	_, _, _, err := Extract("---\ntitle: X\nBody without closing")
	if err == nil {
		t.Fatal("expected error for unclosed front matter")
	}
}

func TestExtractYAML(t *testing.T) {
	raw, syntax, body, err := Extract("---\ntitle: Hello\n---\nBody.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if syntax != SyntaxYAML {
		t.Errorf("syntax = %v, want SyntaxYAML", syntax)
	}
	if body != "Body." {
		t.Errorf("body = %q", body)
	}
	if raw != "title: Hello\n" {
		t.Errorf("raw = %q", raw)
	}
}

func TestParseYAML(t *testing.T) {
	header, body, err := Parse("---\ntitle: Hello\ntags:\n  - a\n  - b\n---\nBody.", true, model.Location{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, _ := getValue(header, "title").(string); got != "Hello" {
		t.Errorf("title = %v", getValue(header, "title"))
	}
	if body != "Body." {
		t.Errorf("body = %q", body)
	}
}

func TestParseTOML(t *testing.T) {
	header, _, err := Parse("---\ntitle = \"Hello\"\ndraft = true\n---\nBody.", true, model.Location{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, _ := getValue(header, "title").(string); got != "Hello" {
		t.Errorf("title = %v", getValue(header, "title"))
	}
	if got, _ := getValue(header, "draft").(bool); !got {
		t.Errorf("draft = %v, want true", getValue(header, "draft"))
	}
}

func TestParseJSON(t *testing.T) {
	header, _, err := Parse("---\n{\"title\": \"Hello\", \"draft\": false}\n---\nBody.", true, model.Location{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, _ := getValue(header, "title").(string); got != "Hello" {
		t.Errorf("title = %v", getValue(header, "title"))
	}
}

func TestParseStrictUnclosedFatal(t *testing.T) {
	_, _, err := Parse("---\ntitle: X\nno closing delimiter", true, model.Location{Path: "a.md"})
	if err == nil {
		t.Fatal("expected fatal error in strict mode")
	}
	be, ok := err.(*model.BuildError)
	if !ok || !be.Fatal {
		t.Errorf("expected fatal *model.BuildError, got %#v", err)
	}
}

func TestParseLenientUnclosedFallsBack(t *testing.T) {
	header, body, err := Parse("---\ntitle: X\nno closing delimiter", false, model.Location{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(header.Keys()) != 0 {
		t.Errorf("expected empty header, got %v", header.Keys())
	}
	if body != "---\ntitle: X\nno closing delimiter" {
		t.Errorf("expected original content as body, got %q", body)
	}
}
