package model

import "time"

// Document is one source file that carries front matter: a collection
// document or a standalone page (spec.md §3 "Document (D)").
type Document struct {
	SourcePath   string
	RelPath      string
	Collection   string // empty for standalone pages
	Header       *Header
	RawBody      string // body exactly as read from disk, pre-Liquid
	Body         string // Liquid-rendered, pre-Markdown body
	Content      string // fully rendered body (post-Markdown, pre-layout)
	RenderedHTML string // final HTML after the layout cascade

	URL        string
	OutputPath string

	Date       time.Time
	HasDate    bool
	Slug       string
	Categories []string
	Tags       []string

	Excerpt string

	Draft     bool
	Published bool

	OutputExt string

	// Layout is the resolved `layout:` header value, or "" if none.
	Layout string
}

// FrontMatter exposes the document's header as a plain map for template
// binding (site.posts[i].<key> etc.).
func (d *Document) FrontMatter() map[string]interface{} {
	if d.Header == nil {
		return map[string]interface{}{}
	}
	return d.Header.Map()
}

// Title returns the document's declared title, or "" if absent.
func (d *Document) Title() string {
	if v, ok := d.Header.Get("title"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
