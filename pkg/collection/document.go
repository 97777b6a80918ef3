package collection

import (
	"path/filepath"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

var headerDateParser = &dps.Parser{
	ParserTypes: []dps.ParserType{dps.AbsoluteTime, dps.NoSpacesTime, dps.CustomFormat},
}

// NewDocument builds a model.Document from a parsed header and body for a
// document belonging to collectionLabel ("posts", a declared label, or ""
// for a standalone page), resolving its date/slug per spec.md §4.5: a
// header `date` overrides the filename date for posts; filename date is
// otherwise authoritative; drafts take buildTime as their date.
func NewDocument(sourcePath, relPath, collectionLabel string, header *model.Header, rawBody string, isDraft bool, buildTime time.Time) *model.Document {
	doc := &model.Document{
		SourcePath: sourcePath,
		RelPath:    relPath,
		Collection: collectionLabel,
		Header:     header,
		RawBody:    rawBody,
		Published:  true,
		Draft:      isDraft,
		OutputExt:  ".html",
	}

	if ext := filepath.Ext(relPath); strings.EqualFold(ext, ".md") || strings.EqualFold(ext, ".markdown") {
		doc.OutputExt = ".html"
	} else if ext != "" {
		doc.OutputExt = ext
	}

	filenameDate, filenameSlug, hasFilenameDate := time.Time{}, strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath)), false
	if collectionLabel == "posts" && !isDraft {
		filenameDate, filenameSlug, hasFilenameDate = ParseFilenameDate(relPath)
	}

	doc.Slug = filenameSlug
	if v, ok := header.Get("slug"); ok {
		if s, ok := v.(string); ok && s != "" {
			doc.Slug = s
		}
	}

	switch {
	case headerDate(header, &doc.Date):
		doc.HasDate = true
	case hasFilenameDate:
		doc.Date = filenameDate
		doc.HasDate = true
	case isDraft:
		doc.Date = buildTime
		doc.HasDate = true
	}

	if v, ok := header.Get("published"); ok {
		if b, ok := v.(bool); ok {
			doc.Published = b
		}
	}
	if v, ok := header.Get("categories"); ok {
		doc.Categories = toStringSlice(v)
	}
	if v, ok := header.Get("tags"); ok {
		doc.Tags = toStringSlice(v)
	}
	if v, ok := header.Get("layout"); ok {
		if s, ok := v.(string); ok {
			doc.Layout = s
		}
	}

	return doc
}

func headerDate(header *model.Header, out *time.Time) bool {
	v, ok := header.Get("date")
	if !ok {
		return false
	}
	switch t := v.(type) {
	case time.Time:
		*out = t
		return true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05 -0700", "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				*out = parsed
				return true
			}
		}
		// Fixed layouts cover the formats Jekyll documents it accepts; fall
		// back to go-dateparser for anything looser an author wrote by hand
		// (e.g. "March 3, 2024", "3 Mar 2024").
		if result, err := headerDateParser.Parse(&dps.Configuration{DateOrder: dps.YMD}, t); err == nil {
			*out = result.Time
			return true
		}
	}
	return false
}

func toStringSlice(v interface{}) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	default:
		return nil
	}
}
