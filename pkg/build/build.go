// Package build orchestrates the full pipeline from resolved config to
// written site: scan, extract, apply defaults, build collections, load
// data, render every document concurrently, paginate, and write (spec.md
// §5 "Scheduling model"). Grounded on the teacher's lifecycle.Manager
// stage pipeline and its semaphore+WaitGroup ProcessPostsConcurrently.
package build

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/jekyllgo/jekyllgo/pkg/collection"
	"github.com/jekyllgo/jekyllgo/pkg/data"
	"github.com/jekyllgo/jekyllgo/pkg/defaults"
	"github.com/jekyllgo/jekyllgo/pkg/depcache"
	"github.com/jekyllgo/jekyllgo/pkg/frontmatter"
	"github.com/jekyllgo/jekyllgo/pkg/layout"
	"github.com/jekyllgo/jekyllgo/pkg/liquid"
	"github.com/jekyllgo/jekyllgo/pkg/markdown"
	"github.com/jekyllgo/jekyllgo/pkg/model"
	"github.com/jekyllgo/jekyllgo/pkg/paginate"
	"github.com/jekyllgo/jekyllgo/pkg/source"
	"github.com/jekyllgo/jekyllgo/pkg/writer"
)

// Result summarizes a completed build.
type Result struct {
	Written  int
	Skipped  int
	Warnings []*model.BuildError
	Duration time.Duration
}

// Run executes the entire pipeline for cfg and returns once every output
// has been written (or the build has failed fatally).
func Run(cfg *model.Config) (*Result, error) {
	start := time.Now()
	now := start

	entries, err := source.Scan(cfg)
	if err != nil {
		return nil, err
	}

	siteData, err := data.Load(cfg.Source + "/_data")
	if err != nil {
		return nil, err
	}

	var warnings []*model.BuildError
	docs := make([]*model.Document, 0, len(entries))
	layouts := make([]*model.Layout, 0)
	var staticAssets []source.Entry
	includesDir := cfg.Source + "/_includes"

	for _, e := range entries {
		switch e.Kind {
		case source.KindLayout:
			l, err := loadLayout(e)
			if err != nil {
				warnings = append(warnings, asWarning(err))
				continue
			}
			layouts = append(layouts, l)
		case source.KindCollectionDocument, source.KindPage:
			doc, err := loadDocument(e, cfg, now)
			if err != nil {
				be := asWarning(err)
				warnings = append(warnings, be)
				if be.Fatal {
					return nil, be
				}
				continue
			}
			docs = append(docs, doc)
		case source.KindStaticAsset:
			staticAssets = append(staticAssets, e)
		}
	}

	docs = collection.Filter(docs, cfg, now)

	var topLevelPages []*model.Document
	for _, d := range docs {
		if d.Collection == "" {
			topLevelPages = append(topLevelPages, d)
		}
	}

	grouped := groupByCollection(docs)
	for label, group := range grouped {
		if label == "posts" {
			collection.SortPosts(group)
			group = collection.LimitPosts(group, cfg.LimitPosts)
		} else {
			collection.SortCollection(group, cfg.Collections[label])
		}
		grouped[label] = group
	}
	docs = append(flatten(grouped), topLevelPages...)

	if err := collection.AssignPermalinks(docs, cfg); err != nil {
		return nil, err
	}

	siteModel := &model.SiteModel{
		Config:      cfg,
		Posts:       grouped["posts"],
		Pages:       topLevelPages,
		Data:        siteData,
		Collections: grouped,
		Time:        now,
	}
	siteDrop := siteModel.ToLiquidSite(cfg.BaseURL, cfg.URL)

	// A paginated index (e.g. blog/index.html) is conventionally authored
	// as a top-level page, not a collection document. Pull it out of the
	// normal render/write pipeline here so writePaginatedIndex can render
	// it once per page with `paginator` bound instead of once, unbound.
	var indexDoc *model.Document
	var paginatorPages []paginate.Page
	if cfg.Paginate > 0 {
		paginatorPages = paginate.Build(grouped["posts"], cfg.Paginate, cfg.PaginatePath)
		target := paginate.IndexTemplatePath(cfg.PaginatePath)
		for i, d := range docs {
			if d.OutputPath == target {
				indexDoc = d
				docs = append(docs[:i], docs[i+1:]...)
				break
			}
		}
	}

	registry := layout.NewRegistry(layouts)
	converter := markdown.New(cfg.Markdown)
	engine := liquid.New(liquid.Options{
		IncludesDir: includesDir,
		SourceRoot:  cfg.Source,
		StrictVars:  cfg.StrictVars,
		BaseURL:     cfg.BaseURL,
		SiteURL:     cfg.URL,
		Markdown:    converter.Convert,
	})

	cache := depcache.Load(cfg.Source)

	w := writer.New(cfg)
	written := 0
	keep := make(map[string]bool, len(docs))

	dirty := docs
	if cfg.Incremental {
		dirty = make([]*model.Document, 0, len(docs))
		for _, d := range docs {
			inputs := map[string]string{d.SourcePath: depcache.HashContent(d.RawBody)}
			if cache.UpToDate(d.OutputPath, inputs) {
				keep[d.OutputPath] = true
				continue
			}
			dirty = append(dirty, d)
		}
	}

	renderErrs := renderAll(dirty, cfg, siteDrop, registry, converter, engine)
	for _, e := range renderErrs {
		if e.Fatal {
			return nil, e
		}
	}
	warnings = append(warnings, renderErrs...)

	for _, d := range dirty {
		if d.RenderedHTML == "" {
			continue
		}
		if err := w.WriteHTML(d.OutputPath, d.RenderedHTML); err != nil {
			return nil, asWarning(err)
		}
		keep[d.OutputPath] = true
		written++

		inputs := map[string]string{d.SourcePath: depcache.HashContent(d.RawBody)}
		cache.Record(d.OutputPath, inputs, []string{"permalink"})
	}

	for _, asset := range staticAssets {
		hash, err := hashFile(asset.AbsPath)
		if err != nil {
			warnings = append(warnings, asWarning(err))
			continue
		}
		inputs := map[string]string{asset.AbsPath: hash}
		if cfg.Incremental && cache.UpToDate(asset.RelPath, inputs) {
			keep[asset.RelPath] = true
			continue
		}
		if err := w.CopyStatic(asset.AbsPath, asset.RelPath); err != nil {
			return nil, asWarning(err)
		}
		keep[asset.RelPath] = true
		written++
		cache.Record(asset.RelPath, inputs, nil)
	}

	if cfg.Paginate > 0 {
		written += writePaginatedIndex(indexDoc, paginatorPages, cfg, siteDrop, registry, converter, engine, w, keep)
	}

	if err := cache.Save(); err != nil {
		warnings = append(warnings, asWarning(err))
	}

	return &Result{
		Written:  written,
		Skipped:  len(entries) - written,
		Warnings: warnings,
		Duration: time.Since(start),
	}, nil
}

func loadLayout(e source.Entry) (*model.Layout, error) {
	body, rel, err := readEntry(e)
	if err != nil {
		return nil, err
	}
	header, content, err := frontmatter.Parse(body, false, model.Location{Path: e.AbsPath})
	if err != nil {
		return nil, err
	}
	name := stripExtBase(rel)
	parent := ""
	if v, ok := header.Get("layout"); ok {
		if s, ok := v.(string); ok {
			parent = s
		}
	}
	return &model.Layout{Name: name, SourcePath: e.AbsPath, Header: header, Body: content, Parent: parent}, nil
}

func loadDocument(e source.Entry, cfg *model.Config, now time.Time) (*model.Document, error) {
	body, _, err := readEntry(e)
	if err != nil {
		return nil, err
	}
	header, rawBody, err := frontmatter.Parse(body, cfg.StrictFM, model.Location{Path: e.AbsPath})
	if err != nil {
		return nil, err
	}

	isDraft := e.Collection == "posts" && isUnderDrafts(e.RelPath)
	collectionLabel := e.Collection
	if e.Kind == source.KindPage {
		collectionLabel = ""
	}

	header = defaults.Apply(header, e.RelPath, collectionLabel, cfg.Defaults)
	doc := collection.NewDocument(e.AbsPath, e.RelPath, collectionLabel, header, rawBody, isDraft, now)

	sep := ""
	if v, ok := header.Get("excerpt_separator"); ok {
		if s, ok := v.(string); ok {
			sep = s
		}
	}
	doc.Excerpt = layout.Excerpt(doc.RawBody, sep)
	return doc, nil
}

func renderAll(docs []*model.Document, cfg *model.Config, siteDrop map[string]interface{}, registry *layout.Registry, converter *markdown.Converter, engine *liquid.Engine) []*model.BuildError {
	concurrency := runtime.GOMAXPROCS(0)
	sem := make(chan struct{}, concurrency)
	errCh := make(chan *model.BuildError, len(docs))
	var wg sync.WaitGroup

	for _, d := range docs {
		wg.Add(1)
		go func(doc *model.Document) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := renderDocument(doc, cfg, siteDrop, registry, converter, engine); err != nil {
				errCh <- asWarning(err)
			}
		}(d)
	}
	wg.Wait()
	close(errCh)

	var errs []*model.BuildError
	for e := range errCh {
		errs = append(errs, e)
	}
	return errs
}

func renderDocument(doc *model.Document, cfg *model.Config, siteDrop map[string]interface{}, registry *layout.Registry, converter *markdown.Converter, engine *liquid.Engine) error {
	bindings := liquid.PageBindings(siteDrop, doc)
	bindings["page"].(map[string]interface{})["excerpt"] = doc.Excerpt

	body, err := engine.Render(doc.RawBody, bindings)
	if err != nil {
		return err
	}
	doc.Body = body

	if isMarkdownExt(cfg, doc.RelPath) {
		converted, err := converter.Convert(body)
		if err != nil {
			return err
		}
		doc.Content = converted
	} else {
		doc.Content = body
	}

	rendered, err := layout.Cascade(doc.Content, doc.Layout, registry, bindings, engine.Render)
	if err != nil {
		return err
	}
	doc.RenderedHTML = rendered
	return nil
}

// writePaginatedIndex renders the paginated index template once per page,
// with `paginator` bound in the page's own bindings, through the same
// render-then-cascade path renderDocument uses (spec.md §4.10). indexDoc is
// the real source document backing the index template's natural output
// path; it is nil when no such document exists in the tree, in which case
// each page still gets `paginator`'s posts list but renders an empty body.
func writePaginatedIndex(indexDoc *model.Document, pages []paginate.Page, cfg *model.Config, siteDrop map[string]interface{}, registry *layout.Registry, converter *markdown.Converter, engine *liquid.Engine, w *writer.Writer, keep map[string]bool) int {
	written := 0
	for _, p := range pages {
		out, err := renderPaginatedPage(indexDoc, p, cfg, siteDrop, registry, converter, engine)
		if err != nil {
			continue
		}

		target := p.Path
		if target == "" {
			target = paginate.IndexTemplatePath(cfg.PaginatePath)
		} else {
			target = stripLeadingSlash(target) + "index.html"
		}
		if err := w.WriteHTML(target, out); err != nil {
			continue
		}
		keep[target] = true
		written++
	}
	return written
}

func renderPaginatedPage(indexDoc *model.Document, p paginate.Page, cfg *model.Config, siteDrop map[string]interface{}, registry *layout.Registry, converter *markdown.Converter, engine *liquid.Engine) (string, error) {
	if indexDoc == nil {
		bindings := map[string]interface{}{"site": siteDrop, "paginator": p.ToDrop()}
		return engine.Render("", bindings)
	}

	bindings := liquid.PageBindings(siteDrop, indexDoc)
	bindings["paginator"] = p.ToDrop()

	body, err := engine.Render(indexDoc.RawBody, bindings)
	if err != nil {
		return "", err
	}

	content := body
	if isMarkdownExt(cfg, indexDoc.RelPath) {
		converted, err := converter.Convert(body)
		if err != nil {
			return "", err
		}
		content = converted
	}

	return layout.Cascade(content, indexDoc.Layout, registry, bindings, engine.Render)
}

func groupByCollection(docs []*model.Document) map[string][]*model.Document {
	out := map[string][]*model.Document{}
	for _, d := range docs {
		if d.Collection == "" {
			continue
		}
		out[d.Collection] = append(out[d.Collection], d)
	}
	return out
}

func flatten(grouped map[string][]*model.Document) []*model.Document {
	var out []*model.Document
	for _, group := range grouped {
		out = append(out, group...)
	}
	return out
}

func isUnderDrafts(relPath string) bool {
	return len(relPath) >= 8 && relPath[:8] == "_drafts/"
}

func isMarkdownExt(cfg *model.Config, relPath string) bool {
	ext := extOf(relPath)
	for _, e := range cfg.MarkdownExt {
		if ext == e {
			return true
		}
	}
	return false
}

func extOf(relPath string) string {
	for i := len(relPath) - 1; i >= 0 && relPath[i] != '/'; i-- {
		if relPath[i] == '.' {
			return relPath[i+1:]
		}
	}
	return ""
}

func stripExtBase(relPath string) string {
	base := relPath
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	if idx := lastDot(base); idx >= 0 {
		return base[:idx]
	}
	return base
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

func stripLeadingSlash(s string) string {
	if len(s) > 0 && s[0] == '/' {
		return s[1:]
	}
	return s
}

func asWarning(err error) *model.BuildError {
	if be, ok := err.(*model.BuildError); ok {
		return be
	}
	return model.NewWarning(model.SourceError, model.Location{}, err)
}

func readEntry(e source.Entry) (string, string, error) {
	raw, err := os.ReadFile(e.AbsPath)
	if err != nil {
		return "", "", model.NewBuildError(model.SourceError, model.Location{Path: e.AbsPath}, err)
	}
	return string(raw), e.RelPath, nil
}

func hashFile(absPath string) (string, error) {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return "", model.NewBuildError(model.SourceError, model.Location{Path: absPath}, err)
	}
	return depcache.HashContent(string(raw)), nil
}
