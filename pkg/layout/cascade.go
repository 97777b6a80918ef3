// Package layout resolves the layout cascade (spec.md §4.9): a document's
// body renders through Liquid, then Markdown if applicable, then wraps in
// its declared layout's own rendering, repeating up any parent-layout
// chain until a layout with no further `layout` key terminates it.
package layout

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// headingIDSelector matches any heading element carrying an `id` attribute
// goldmark's auto heading IDs assigned per-document; compiled once since a
// cascade runs it against every rendered page.
var headingIDSelector = cascadia.MustCompile("h1[id], h2[id], h3[id], h4[id], h5[id], h6[id]")

// Registry holds every parsed layout keyed by name ("post", "default", …
// — the `_layouts/<name>.html` stem).
type Registry struct {
	layouts map[string]*model.Layout
}

// NewRegistry builds a Registry from the scanned layout files.
func NewRegistry(layouts []*model.Layout) *Registry {
	r := &Registry{layouts: make(map[string]*model.Layout, len(layouts))}
	for _, l := range layouts {
		r.layouts[l.Name] = l
	}
	return r
}

// Chain resolves the ancestor chain for a layout name, nearest-first and
// root-most last, the order Cascade walks it in.
// Returns a fatal error on an unterminated cycle (spec.md's Layout (L)
// invariant: "the chain is acyclic; a cycle is a fatal error").
func (r *Registry) Chain(name string) ([]*model.Layout, error) {
	var chain []*model.Layout
	seen := map[string]bool{}
	cur := name
	for cur != "" {
		if seen[cur] {
			return nil, model.NewBuildError(model.LayoutCycleError, model.Location{}, layoutCycleError(name, cur))
		}
		seen[cur] = true
		l, ok := r.layouts[cur]
		if !ok {
			return nil, model.NewBuildError(model.LayoutCycleError, model.Location{}, unknownLayoutError(cur))
		}
		chain = append(chain, l)
		cur = l.Parent
	}
	return chain, nil
}

// RenderFunc renders a Liquid template body against bindings, returning
// the rendered HTML. Layout cascade delegates all actual template
// evaluation to the caller's engine so this package stays engine-agnostic.
type RenderFunc func(source string, bindings map[string]interface{}) (string, error)

// Cascade wraps renderedBody in doc's declared layout chain, setting
// `content` to the previous stage's output at each step, per spec.md
// §4.9 step 3.
func Cascade(renderedBody string, layoutName string, registry *Registry, pageBindings map[string]interface{}, render RenderFunc) (string, error) {
	if layoutName == "" {
		return renderedBody, nil
	}
	chain, err := registry.Chain(layoutName)
	if err != nil {
		return "", err
	}

	content := renderedBody
	for _, l := range chain {
		bindings := make(map[string]interface{}, len(pageBindings)+1)
		for k, v := range pageBindings {
			bindings[k] = v
		}
		bindings["content"] = content

		out, err := render(l.Body, bindings)
		if err != nil {
			return "", err
		}
		content = out
	}
	return DedupeHeadingIDs(content), nil
}

// DedupeHeadingIDs rewrites duplicate heading `id` attributes in html so
// each is unique across the fully-cascaded page, the way GitHub's own
// renderer does for repeated section titles. Headings get their initial id
// from goldmark's auto heading IDs per-document; once a layout merges
// multiple includes or collection documents onto one page those per-document
// ids can collide, so this runs once after the full cascade. Parses with
// goquery/cascadia (rather than a regex) so malformed fragments degrade to
// the original html instead of corrupting it.
func DedupeHeadingIDs(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	seen := map[string]int{}
	changed := false
	doc.FindMatcher(headingIDSelector).Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		seen[id]++
		if n := seen[id]; n > 1 {
			sel.SetAttr("id", fmt.Sprintf("%s-%d", id, n-1))
			changed = true
		}
	})
	if !changed {
		return html
	}

	out, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return html
	}
	return stripDocumentWrapper(html, out)
}

// stripDocumentWrapper undoes goquery's habit of wrapping a parsed fragment
// in a full <html><head></head><body>...</body></html> document: if the
// original didn't start with a doctype/html tag, extract just the body's
// inner content back out so callers get back a fragment, not a document.
func stripDocumentWrapper(original, rendered string) string {
	trimmedOriginal := strings.TrimSpace(original)
	if strings.HasPrefix(strings.ToLower(trimmedOriginal), "<!doctype") || strings.HasPrefix(strings.ToLower(trimmedOriginal), "<html") {
		return rendered
	}
	const bodyOpen = "<body>"
	const bodyClose = "</body>"
	start := strings.Index(rendered, bodyOpen)
	end := strings.LastIndex(rendered, bodyClose)
	if start == -1 || end == -1 || end < start {
		return rendered
	}
	return rendered[start+len(bodyOpen) : end]
}

type layoutErr struct{ msg string }

func (e *layoutErr) Error() string { return e.msg }

func layoutCycleError(requested, repeated string) error {
	return &layoutErr{msg: "layout cycle detected: " + requested + " revisits " + repeated}
}

func unknownLayoutError(name string) error {
	return &layoutErr{msg: "unknown layout: " + name}
}

// Excerpt extracts the raw pre-Liquid body substring up to the first
// occurrence of separator (default: the first blank line), per spec.md
// §4.9. Operates on RawBody, not the rendered body, since rendering the
// excerpt independently would require Liquid to be idempotent over
// arbitrary substrings.
func Excerpt(rawBody, separator string) string {
	if separator == "" {
		separator = "\n\n"
	}
	if idx := strings.Index(rawBody, separator); idx >= 0 {
		return rawBody[:idx]
	}
	return rawBody
}
