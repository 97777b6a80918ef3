// Package config resolves the immutable site configuration: default
// values, one or more user config files (later override earlier), and
// environment-specific overrides (spec.md §4.1).
package config

import "github.com/jekyllgo/jekyllgo/pkg/model"

// DefaultConfig returns the hard-coded defaults every build starts from,
// enumerated in spec.md §4.1.
func DefaultConfig() *model.Config {
	return &model.Config{
		Source:       ".",
		Destination:  "_site",
		BaseURL:      "",
		Permalink:    "date",
		MarkdownExt:  []string{"markdown", "mkdown", "mkdn", "mkd", "md"},
		Include:      []string{},
		Exclude:      []string{"Gemfile", "Gemfile.lock", "node_modules", "vendor"},
		Collections:  map[string]model.CollectionConfig{},
		Defaults:     []model.DefaultRule{},
		Paginate:     0,
		PaginatePath: "/page:num/",
		Future:       false,
		Unpublished:  false,
		ShowDrafts:   false,
		LimitPosts:   0,
		Safe:         false,
		StrictFM:     false,
		Incremental:  false,
		StrictVars:   false,
		Encoding:     "utf-8",
		Markdown: model.MarkdownConfig{
			HardWraps:   false,
			SmartQuotes: true,
			Footnotes:   true,
		},
		KeepFiles: []string{".git", ".svn"},
		Variables: map[string]interface{}{},
	}
}
