package collection

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// permalinkTokenOrder is the order ComputeURL substitutes tokens in,
// roughly longest-first.
var permalinkTokenOrder = []string{
	":output_ext", ":categories", ":collection", ":short_year",
	":i_month", ":i_day", ":minute", ":second", ":title", ":month",
	":year", ":hour", ":path", ":name", ":day",
}

// Template resolves a collection's permalink setting (a keyword or a
// literal template string) to the literal token template, following
// spec.md §4.5's keyword table.
func Template(permalink string) string {
	if t, ok := model.PermalinkKeyword[permalink]; ok {
		return t
	}
	return permalink
}

// ComputeURL substitutes every recognized token in template against doc,
// producing a site-relative URL. A template ending in "/" implies
// "index.html" on disk per spec.md §4.5.
func ComputeURL(doc *model.Document, template, collectionLabel string) string {
	values := map[string]string{
		":path":        stripExt(doc.RelPath),
		":name":        Slugify(doc.Slug),
		":title":       Slugify(titleOrSlug(doc)),
		":collection":  collectionLabel,
		":categories":  strings.Join(doc.Categories, "/"),
		":output_ext":  doc.OutputExt,
		":year":        fmt.Sprintf("%04d", doc.Date.Year()),
		":short_year":  fmt.Sprintf("%02d", doc.Date.Year()%100),
		":month":       fmt.Sprintf("%02d", int(doc.Date.Month())),
		":i_month":     strconv.Itoa(int(doc.Date.Month())),
		":day":         fmt.Sprintf("%02d", doc.Date.Day()),
		":i_day":       strconv.Itoa(doc.Date.Day()),
		":hour":        fmt.Sprintf("%02d", doc.Date.Hour()),
		":minute":      fmt.Sprintf("%02d", doc.Date.Minute()),
		":second":      fmt.Sprintf("%02d", doc.Date.Second()),
	}

	url := template
	for _, token := range permalinkTokenOrder {
		url = strings.ReplaceAll(url, token, values[token])
	}
	url = collapseSlashes(url)

	if strings.HasSuffix(url, "/") {
		url += "index.html"
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return url
}

func titleOrSlug(doc *model.Document) string {
	if t := doc.Title(); t != "" {
		return t
	}
	return doc.Slug
}

func stripExt(relPath string) string {
	ext := path.Ext(relPath)
	return strings.TrimSuffix(relPath, ext)
}

// collapseSlashes removes doubled "/" left behind when a token (e.g. an
// empty :categories) substitutes to "".
func collapseSlashes(s string) string {
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	return s
}
