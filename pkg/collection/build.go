package collection

import (
	"sort"
	"strings"
	"time"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// Filter drops documents excluded by publish/future/draft rules (spec.md
// §4.5): published:false unless Unpublished is set, future dates unless
// Future is set, drafts unless ShowDrafts is set.
func Filter(docs []*model.Document, cfg *model.Config, now time.Time) []*model.Document {
	out := make([]*model.Document, 0, len(docs))
	for _, d := range docs {
		if d.Draft && !cfg.ShowDrafts {
			continue
		}
		if !d.Published && !cfg.Unpublished {
			continue
		}
		if d.Collection == "posts" && d.HasDate && d.Date.After(now) && !cfg.Future {
			continue
		}
		out = append(out, d)
	}
	return out
}

// LimitPosts keeps only the most recent N posts after sort, per
// cfg.LimitPosts (0 means unlimited). Expects docs already sorted
// newest-first.
func LimitPosts(docs []*model.Document, limit int) []*model.Document {
	if limit <= 0 || len(docs) <= limit {
		return docs
	}
	return docs[:limit]
}

// SortPosts orders posts by date descending, stable by RelPath for ties.
func SortPosts(docs []*model.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].Date.Equal(docs[j].Date) {
			return docs[i].Date.After(docs[j].Date)
		}
		return docs[i].RelPath < docs[j].RelPath
	})
}

// SortCollection orders a non-posts collection by cc.SortBy header field
// if given (falls back to RelPath), with cc.Order forming a pinned prefix
// ahead of the remainder (spec.md §4.5).
func SortCollection(docs []*model.Document, cc model.CollectionConfig) {
	sort.SliceStable(docs, func(i, j int) bool {
		if cc.SortBy != "" {
			vi, oki := docs[i].Header.Get(cc.SortBy)
			vj, okj := docs[j].Header.Get(cc.SortBy)
			if oki && okj {
				if less, ok := compareValues(vi, vj); ok {
					return less
				}
			}
		}
		return docs[i].RelPath < docs[j].RelPath
	})

	if len(cc.Order) == 0 {
		return
	}
	pinned := make([]*model.Document, 0, len(cc.Order))
	rest := make([]*model.Document, 0, len(docs))
	used := map[*model.Document]bool{}
	for _, name := range cc.Order {
		for _, d := range docs {
			if used[d] {
				continue
			}
			if strings.HasSuffix(d.RelPath, name) || d.Slug == name {
				pinned = append(pinned, d)
				used[d] = true
				break
			}
		}
	}
	for _, d := range docs {
		if !used[d] {
			rest = append(rest, d)
		}
	}
	copy(docs, append(pinned, rest...))
}

func compareValues(a, b interface{}) (less bool, ok bool) {
	switch av := a.(type) {
	case string:
		bv, ok2 := b.(string)
		if !ok2 {
			return false, false
		}
		return av < bv, true
	case int:
		bv, ok2 := b.(int)
		if !ok2 {
			return false, false
		}
		return av < bv, true
	case time.Time:
		bv, ok2 := b.(time.Time)
		if !ok2 {
			return false, false
		}
		return av.Before(bv), true
	default:
		return false, false
	}
}

// AssignPermalinks computes and sets doc.URL/doc.OutputPath for every
// document, returning a fatal error on the first URL collision (spec.md
// §4.5 "Computed URLs must be unique; collision is a fatal error").
func AssignPermalinks(docs []*model.Document, cfg *model.Config) error {
	seen := make(map[string]string, len(docs))
	for _, d := range docs {
		cc := cfg.Collections[d.Collection]
		template := cc.Permalink
		if template == "" {
			template = cfg.Permalink
		}
		template = Template(template)
		d.URL = ComputeURL(d, template, d.Collection)
		d.OutputPath = outputPathFromURL(d.URL)

		if other, dup := seen[d.URL]; dup {
			return model.NewBuildError(model.PermalinkCollision, model.Location{Path: d.SourcePath}, permalinkCollisionError(d.URL, other, d.SourcePath))
		}
		seen[d.URL] = d.SourcePath
	}
	return nil
}

func outputPathFromURL(url string) string {
	return strings.TrimPrefix(url, "/")
}

type collisionErr struct {
	url, a, b string
}

func (e *collisionErr) Error() string {
	return "permalink collision at " + e.url + " between " + e.a + " and " + e.b
}

func permalinkCollisionError(url, a, b string) error {
	return &collisionErr{url: url, a: a, b: b}
}
