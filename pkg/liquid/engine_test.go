package liquid

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderBasicOutput(t *testing.T) {
	e := New(Options{})
	out, err := e.Render("Hello {{ name }}!", map[string]interface{}{"name": "World"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Hello World!" {
		t.Errorf("out = %q", out)
	}
}

func TestSlugifyFilter(t *testing.T) {
	e := New(Options{})
	out, err := e.Render(`{{ "Hello, World!" | slugify }}`, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "hello-world" {
		t.Errorf("out = %q", out)
	}
}

func TestStripHTMLFilter(t *testing.T) {
	e := New(Options{})
	out, err := e.Render(`{{ "<p>Hello <b>World</b>!</p>" | strip_html }}`, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Hello World!" {
		t.Errorf("out = %q", out)
	}
}

func TestStripHTMLFilterOnPlainText(t *testing.T) {
	e := New(Options{})
	out, err := e.Render(`{{ "no tags here" | strip_html }}`, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "no tags here" {
		t.Errorf("out = %q", out)
	}
}

func TestIncludeParameterAndIsolation(t *testing.T) {
	dir := t.TempDir()
	includes := filepath.Join(dir, "_includes")
	if err := os.MkdirAll(includes, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(includes, "note.html"), []byte(`<b>{{ include.text }}</b>{% assign leaked = "yes" %}`), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(Options{IncludesDir: includes, SourceRoot: dir})
	out, err := e.Render(`{% include note.html text="hi" %}-{{ include.text }}-{{ leaked }}`, map[string]interface{}{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "<b>hi</b>--" {
		t.Errorf("out = %q, want include param substituted and parent scope unaffected", out)
	}
}

func TestIncludeDoesNotSeeParentLocals(t *testing.T) {
	dir := t.TempDir()
	includes := filepath.Join(dir, "_includes")
	if err := os.MkdirAll(includes, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(includes, "note.html"), []byte(`[{{ secret }}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(Options{IncludesDir: includes, SourceRoot: dir})
	out, err := e.Render(`{% assign secret = "top-secret" %}{% include note.html %}`, map[string]interface{}{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "[]" {
		t.Errorf("out = %q, want the include to not see the parent's assign'd local", out)
	}
}

func TestIncludeSeesAmbientSiteAndPage(t *testing.T) {
	dir := t.TempDir()
	includes := filepath.Join(dir, "_includes")
	if err := os.MkdirAll(includes, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(includes, "note.html"), []byte(`{{ site.title }}`), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(Options{IncludesDir: includes, SourceRoot: dir})
	out, err := e.Render(`{% include note.html %}`, map[string]interface{}{"site": map[string]interface{}{"title": "My Site"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "My Site" {
		t.Errorf("out = %q, want ambient site binding visible inside include", out)
	}
}

func TestSlugifyModes(t *testing.T) {
	e := New(Options{})
	cases := []struct {
		mode string
		want string
	}{
		{"default", "hello-world"},
		{"ascii", "hello-world"},
		{"latin", "hello-world"},
		{"raw", "Hello,-World!"},
	}
	for _, c := range cases {
		out, err := e.Render(fmt.Sprintf(`{{ "Hello, World!" | slugify: %q }}`, c.mode), nil)
		if err != nil {
			t.Fatalf("Render(mode=%s): %v", c.mode, err)
		}
		if out != c.want {
			t.Errorf("slugify mode %q = %q, want %q", c.mode, out, c.want)
		}
	}
}

func TestSlugifyPrettyKeepsPunctuation(t *testing.T) {
	e := New(Options{})
	out, err := e.Render(`{{ "foo_bar.baz" | slugify: "pretty" }}`, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "foo_bar.baz" {
		t.Errorf("out = %q, want underscores/dots preserved", out)
	}
}

func TestJsonifyFilter(t *testing.T) {
	e := New(Options{})
	out, err := e.Render(`{{ page | jsonify }}`, map[string]interface{}{"page": map[string]interface{}{"title": "Hi"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != `{"title":"Hi"}` {
		t.Errorf("out = %q", out)
	}
}

func TestXMLEscapeFilter(t *testing.T) {
	e := New(Options{})
	out, err := e.Render(`{{ "<a & b>" | xml_escape }}`, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "&lt;a &amp; b&gt;" {
		t.Errorf("out = %q", out)
	}
}

func TestDateToStringFilter(t *testing.T) {
	e := New(Options{})
	out, err := e.Render(`{{ "2026-03-05" | date_to_string }}`, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "05 Mar 2026" {
		t.Errorf("out = %q", out)
	}
}

func TestGroupByFilter(t *testing.T) {
	e := New(Options{})
	posts := []interface{}{
		map[string]interface{}{"title": "a", "category": "go"},
		map[string]interface{}{"title": "b", "category": "rust"},
		map[string]interface{}{"title": "c", "category": "go"},
	}
	out, err := e.Render(`{% assign groups = posts | group_by: "category" %}{% for g in groups %}{{ g.name }}:{{ g.items | size }} {% endfor %}`, map[string]interface{}{"posts": posts})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "go:2 rust:1 " {
		t.Errorf("out = %q", out)
	}
}

func TestWhereExpFilter(t *testing.T) {
	e := New(Options{})
	posts := []interface{}{
		map[string]interface{}{"title": "a", "draft": true},
		map[string]interface{}{"title": "b", "draft": false},
	}
	out, err := e.Render(`{% assign live = posts | where_exp: "p", "p.draft == false" %}{% for p in live %}{{ p.title }}{% endfor %}`, map[string]interface{}{"posts": posts})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "b" {
		t.Errorf("out = %q", out)
	}
}

func TestPushPopShiftUnshiftFilters(t *testing.T) {
	e := New(Options{})
	bindings := map[string]interface{}{"xs": []interface{}{1, 2, 3}}
	out, err := e.Render(`{{ xs | push: 4 | join: "," }}|{{ xs | pop | join: "," }}|{{ xs | shift | join: "," }}|{{ xs | unshift: 0 | join: "," }}`, bindings)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "1,2,3,4|1,2|2,3|0,1,2,3" {
		t.Errorf("out = %q", out)
	}
}
