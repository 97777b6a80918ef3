// Package model holds the immutable data types shared across the build
// pipeline: configuration, documents, collections, layouts and the site
// model exposed to templates.
package model

// Config is the fully resolved, immutable site configuration. It is built
// once by pkg/config and never mutated after the build starts.
type Config struct {
	Source      string `json:"source" yaml:"source" toml:"source"`
	Destination string `json:"destination" yaml:"destination" toml:"destination"`
	BaseURL     string `json:"baseurl" yaml:"baseurl" toml:"baseurl"`
	URL         string `json:"url" yaml:"url" toml:"url"`

	Permalink   string   `json:"permalink" yaml:"permalink" toml:"permalink"`
	MarkdownExt []string `json:"markdown_ext" yaml:"markdown_ext" toml:"markdown_ext"`

	Include []string `json:"include" yaml:"include" toml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude" toml:"exclude"`

	Collections map[string]CollectionConfig `json:"collections" yaml:"collections" toml:"collections"`
	Defaults    []DefaultRule                `json:"defaults" yaml:"defaults" toml:"defaults"`

	Paginate     int    `json:"paginate" yaml:"paginate" toml:"paginate"`
	PaginatePath string `json:"paginate_path" yaml:"paginate_path" toml:"paginate_path"`

	Future       bool `json:"future" yaml:"future" toml:"future"`
	Unpublished  bool `json:"unpublished" yaml:"unpublished" toml:"unpublished"`
	ShowDrafts   bool `json:"show_drafts" yaml:"show_drafts" toml:"show_drafts"`
	LimitPosts   int  `json:"limit_posts" yaml:"limit_posts" toml:"limit_posts"`
	Safe         bool `json:"safe" yaml:"safe" toml:"safe"`
	StrictFM     bool `json:"strict_front_matter" yaml:"strict_front_matter" toml:"strict_front_matter"`
	Incremental  bool `json:"incremental" yaml:"incremental" toml:"incremental"`
	StrictVars   bool `json:"strict_variables" yaml:"strict_variables" toml:"strict_variables"`
	Encoding     string `json:"encoding" yaml:"encoding" toml:"encoding"`

	Markdown  MarkdownConfig `json:"markdown_config" yaml:"markdown_config" toml:"markdown_config"`
	Minify    bool           `json:"minify" yaml:"minify" toml:"minify"`
	KeepFiles []string       `json:"keep_files" yaml:"keep_files" toml:"keep_files"`

	// Variables holds arbitrary top-level config keys exposed to templates
	// as site.<key>, e.g. title/description/author declared by the user.
	Variables map[string]interface{} `json:"-" yaml:"-" toml:"-"`
}

// CollectionConfig is the per-collection declaration under `collections:`.
type CollectionConfig struct {
	Output    bool   `json:"output" yaml:"output" toml:"output"`
	Permalink string `json:"permalink" yaml:"permalink" toml:"permalink"`
	SortBy    string `json:"sort_by" yaml:"sort_by" toml:"sort_by"`
	Order     []string `json:"order" yaml:"order" toml:"order"`
}

// DefaultRule is one entry of the `defaults:` list (§4.4).
type DefaultRule struct {
	Scope  DefaultScope           `json:"scope" yaml:"scope" toml:"scope"`
	Values map[string]interface{} `json:"values" yaml:"values" toml:"values"`
}

// DefaultScope narrows a DefaultRule to documents under a path / of a type.
type DefaultScope struct {
	Path string `json:"path" yaml:"path" toml:"path"`
	Type string `json:"type" yaml:"type" toml:"type"`
}

// MarkdownConfig configures the §4.8 converter.
type MarkdownConfig struct {
	HardWraps    bool   `json:"hard_wraps" yaml:"hard_wraps" toml:"hard_wraps"`
	SmartQuotes  bool   `json:"smart_quotes" yaml:"smart_quotes" toml:"smart_quotes"`
	Footnotes    bool   `json:"footnotes" yaml:"footnotes" toml:"footnotes"`
	HighlighterTheme string `json:"highlighter_theme" yaml:"highlighter_theme" toml:"highlighter_theme"`
	LineNumbers  bool   `json:"line_numbers" yaml:"line_numbers" toml:"line_numbers"`
}

// PermalinkKeyword maps a keyword permalink setting to its template, per
// spec.md §4.5.
var PermalinkKeyword = map[string]string{
	"date":    "/:categories/:year/:month/:day/:title:output_ext",
	"pretty":  "/:categories/:year/:month/:day/:title/",
	"ordinal": "/:categories/:year/:y_day/:title:output_ext",
	"none":    "/:categories/:title:output_ext",
}
