package liquid

import (
	"path/filepath"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// PageBindings assembles the top-level scope for rendering doc's own
// Liquid body: `site`, `page`, and the reserved `__current_dir__` used by
// `include_relative` to resolve paths against the including document's
// directory (spec.md §4.7).
func PageBindings(site map[string]interface{}, doc *model.Document) map[string]interface{} {
	return map[string]interface{}{
		"site":             site,
		"page":             model.DocumentToDrop(doc),
		"__current_dir__":  filepath.Dir(doc.SourcePath),
	}
}

// LayoutBindings extends PageBindings with `content`, the already-rendered
// body HTML, for layout cascade rendering (spec.md §4.8).
func LayoutBindings(site map[string]interface{}, doc *model.Document, content string) map[string]interface{} {
	b := PageBindings(site, doc)
	b["content"] = content
	return b
}
