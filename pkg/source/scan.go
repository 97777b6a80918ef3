// Package source walks the site's source tree and classifies every entry
// per spec.md §4.2, honoring include/exclude globs and the fixed set of
// recognized special directories.
package source

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// Kind classifies a scanned source entry.
type Kind int

const (
	KindCollectionDocument Kind = iota
	KindPage
	KindLayout
	KindInclude
	KindData
	KindStaticAsset
	KindIgnored
)

// Entry describes one file discovered under the source tree.
type Entry struct {
	AbsPath    string
	RelPath    string // slash-separated, relative to source root
	Kind       Kind
	Collection string // set for KindCollectionDocument ("posts" or a declared label)
}

// specialDirRE recognizes hidden/backup/system files: leading '#' or '~',
// a leading '.', or a trailing '~' — grounded on gojekyll's excludeFileRE.
var specialDirRE = regexp.MustCompile(`^[#~]|^\.|~$`)

// Scan walks cfg.Source and returns every non-ignored entry in stable,
// sorted relative-path order.
func Scan(cfg *model.Config) ([]Entry, error) {
	collectionDirs := map[string]string{"_posts": "posts", "_drafts": "posts"}
	for label := range cfg.Collections {
		collectionDirs["_"+label] = label
	}

	var paths []string
	err := filepath.WalkDir(cfg.Source, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == cfg.Source {
			return nil
		}
		rel, relErr := filepath.Rel(cfg.Source, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if rel == cfg.Destination {
			return skipOrNil(d)
		}

		if d.IsDir() {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, model.NewBuildError(model.SourceError, model.Location{Path: cfg.Source}, err)
	}
	sort.Strings(paths)

	entries := make([]Entry, 0, len(paths))
	for _, rel := range paths {
		if excluded(cfg, rel) {
			continue
		}
		entries = append(entries, classify(cfg, collectionDirs, rel))
	}
	return entries, nil
}

func skipOrNil(d os.DirEntry) error {
	if d.IsDir() {
		return filepath.SkipDir
	}
	return nil
}

// excluded reports whether rel should be dropped from the build, following
// the walk-up-to-root precedence of gojekyll's Site.Exclude: include wins,
// then exclude, then underscore-prefixed directories (unless special),
// then hidden/backup file names.
func excluded(cfg *model.Config, rel string) bool {
	for rel != "." && rel != "" {
		dir, base := filepath.ToSlash(filepath.Dir(rel)), filepath.Base(rel)
		switch {
		case matchList(cfg.Include, rel):
			return false
		case matchList(cfg.Exclude, rel):
			return true
		case strings.HasPrefix(base, "_") && !isSpecialTopLevel(cfg, dir, base):
			return true
		default:
			if specialDirRE.MatchString(base) {
				return true
			}
		}
		rel = dir
	}
	return false
}

// isSpecialTopLevel reports whether dir/base names a recognized special
// directory path component (_posts, _drafts, _layouts, _includes, _data,
// _sass, or a declared collection _<label>) anywhere along the walk.
func isSpecialTopLevel(cfg *model.Config, dir, base string) bool {
	switch base {
	case "_posts", "_drafts", "_layouts", "_includes", "_data", "_sass":
		return true
	}
	if _, ok := cfg.Collections[strings.TrimPrefix(base, "_")]; ok && strings.HasPrefix(base, "_") {
		return true
	}
	return false
}

func matchList(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}

func classify(cfg *model.Config, collectionDirs map[string]string, rel string) Entry {
	top := strings.SplitN(rel, "/", 2)[0]

	switch top {
	case "_layouts":
		return Entry{RelPath: rel, AbsPath: filepath.Join(cfg.Source, rel), Kind: KindLayout}
	case "_includes":
		return Entry{RelPath: rel, AbsPath: filepath.Join(cfg.Source, rel), Kind: KindInclude}
	case "_data":
		return Entry{RelPath: rel, AbsPath: filepath.Join(cfg.Source, rel), Kind: KindData}
	case "_sass":
		return Entry{RelPath: rel, AbsPath: filepath.Join(cfg.Source, rel), Kind: KindIgnored}
	}
	if label, ok := collectionDirs[top]; ok {
		return Entry{RelPath: rel, AbsPath: filepath.Join(cfg.Source, rel), Kind: KindCollectionDocument, Collection: label}
	}

	if isMarkdown(cfg, rel) || hasFrontMatterExt(rel) {
		return Entry{RelPath: rel, AbsPath: filepath.Join(cfg.Source, rel), Kind: KindPage}
	}
	return Entry{RelPath: rel, AbsPath: filepath.Join(cfg.Source, rel), Kind: KindStaticAsset}
}

func isMarkdown(cfg *model.Config, rel string) bool {
	ext := strings.TrimPrefix(filepath.Ext(rel), ".")
	for _, e := range cfg.MarkdownExt {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// hasFrontMatterExt recognizes the other page-eligible text extensions
// (html/htm/xml/txt) that may carry front matter and go through the build
// pipeline rather than being copied verbatim.
func hasFrontMatterExt(rel string) bool {
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".html", ".htm", ".xml", ".txt":
		return true
	}
	return false
}
