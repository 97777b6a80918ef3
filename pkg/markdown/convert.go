// Package markdown converts Markdown bodies to HTML with GitHub-flavored
// extensions and chroma-backed syntax highlighting (spec.md §4.7's
// "Markdown conversion stage"), grounded on the teacher's goldmark setup.
package markdown

import (
	"bytes"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	emoji "github.com/yuin/goldmark-emoji"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	figure "github.com/mangoumbrella/goldmark-figure"
	"go.abhg.dev/goldmark/anchor"
	"go.abhg.dev/goldmark/mermaid"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// Converter renders Markdown source to HTML. Safe for concurrent use
// across documents once constructed, since goldmark.Markdown.Convert
// takes no mutable shared state per call.
type Converter struct {
	md goldmark.Markdown
}

// New builds a Converter configured from the site's markdown settings.
func New(cfg model.MarkdownConfig) *Converter {
	theme := cfg.HighlighterTheme
	if theme == "" {
		theme = "github"
	}

	formatOptions := []chromahtml.Option{
		chromahtml.WithClasses(true),
		chromahtml.WithAllClasses(true),
	}
	if cfg.LineNumbers {
		formatOptions = append(formatOptions, chromahtml.WithLineNumbers(true))
	}

	extensions := []goldmark.Extender{
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
		extension.TaskList,
		extension.NewCJK(),
		extension.DefinitionList,
		highlighting.NewHighlighting(
			highlighting.WithStyle(theme),
			highlighting.WithFormatOptions(formatOptions...),
		),
		emoji.Emoji,
		figure.Figure,
		&anchor.Extender{},
		&mermaid.Extender{},
	}
	if cfg.Footnotes {
		extensions = append(extensions, extension.Footnote)
	}
	if cfg.SmartQuotes {
		extensions = append(extensions, extension.Typographer)
	}

	htmlOpts := []gmhtml.Option{gmhtml.WithUnsafe()}
	if cfg.HardWraps {
		htmlOpts = append(htmlOpts, gmhtml.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(htmlOpts...),
	)

	return &Converter{md: md}
}

// Convert renders Markdown source to HTML.
func (c *Converter) Convert(source string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(source), &buf); err != nil {
		return "", model.NewBuildError(model.TemplateRuntimeError, model.Location{}, err)
	}
	return buf.String(), nil
}
