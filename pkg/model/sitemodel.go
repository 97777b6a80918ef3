package model

import "time"

// SiteModel is the read-only site data exposed to Liquid templates as
// `site` (see ToLiquidSite) — spec.md §3 "SiteModel". `page`, `content` and
// `paginator` are bound separately by pkg/liquid and pkg/build.
type SiteModel struct {
	Config      *Config
	Posts       []*Document
	Pages       []*Document
	Collections map[string][]*Document
	Data        map[string]interface{}
	Categories  map[string][]*Document
	Tags        map[string][]*Document
	StaticFiles []*StaticFile
	Time        time.Time
}

// ToLiquidSite converts the SiteModel into the plain-map shape the Liquid
// engine binds as `site`. Only plain Go values (maps/slices/scalars) are
// used so osteele/liquid's reflection-based drop lookups work without
// custom Valuer implementations for every type.
func (s *SiteModel) ToLiquidSite(baseURL, siteURL string) map[string]interface{} {
	out := map[string]interface{}{
		"baseurl": baseURL,
		"url":     siteURL,
		"time":    s.Time,
		"posts":   documentsToDrops(s.Posts),
		"pages":   documentsToDrops(s.Pages),
		"data":    s.Data,
	}
	for k, v := range s.Config.Variables {
		if _, reserved := out[k]; !reserved {
			out[k] = v
		}
	}
	collections := map[string]interface{}{}
	for label, docs := range s.Collections {
		collections[label] = documentsToDrops(docs)
	}
	out["collections"] = collections
	for label, docs := range s.Collections {
		out[label] = documentsToDrops(docs)
	}
	cats := map[string]interface{}{}
	for k, docs := range s.Categories {
		cats[k] = documentsToDrops(docs)
	}
	out["categories"] = cats
	tags := map[string]interface{}{}
	for k, docs := range s.Tags {
		tags[k] = documentsToDrops(docs)
	}
	out["tags"] = tags

	statics := make([]map[string]interface{}, 0, len(s.StaticFiles))
	for _, sf := range s.StaticFiles {
		statics = append(statics, map[string]interface{}{
			"path": "/" + sf.RelPath,
		})
	}
	out["static_files"] = statics
	return out
}

// DocumentToDrop converts a single Document into the plain-map "drop" shape
// consumed by the Liquid engine as `page`.
func DocumentToDrop(d *Document) map[string]interface{} {
	if d == nil {
		return nil
	}
	drop := d.FrontMatter()
	drop["url"] = d.URL
	drop["path"] = d.RelPath
	drop["content"] = d.Content
	drop["excerpt"] = d.Excerpt
	drop["date"] = d.Date
	drop["categories"] = d.Categories
	drop["tags"] = d.Tags
	drop["collection"] = d.Collection
	drop["slug"] = d.Slug
	drop["draft"] = d.Draft
	return drop
}

func documentsToDrops(docs []*Document) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		out = append(out, DocumentToDrop(d))
	}
	return out
}

// DependencyRecord maps each output path to the inputs that contributed to
// it and the config keys read while producing it (spec.md §3
// "DependencyRecord").
type DependencyRecord struct {
	Version    int                        `json:"version"`
	Outputs    map[string]*OutputRecord   `json:"outputs"`
}

// OutputRecord is one output path's recorded inputs.
type OutputRecord struct {
	Inputs     map[string]string `json:"inputs"`      // input path -> content hash
	ConfigKeys []string          `json:"config_keys"`
}
