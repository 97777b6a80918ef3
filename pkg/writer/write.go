// Package writer emits the rendered site to the destination directory:
// per-document HTML, static assets copied verbatim, and a pre-write
// cleanup pass that removes stale destination entries while respecting
// keep_files prefixes (spec.md §4.11), grounded on the teacher's
// static-asset and HTML-publish plugins' plain MkdirAll+WriteFile style.
package writer

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// Writer emits files under a destination root.
type Writer struct {
	destination string
	minify      bool
	minifier    *minify.M
}

// New constructs a Writer. When cfg.Minify is set, written HTML is passed
// through tdewolff/minify before hitting disk.
func New(cfg *model.Config) *Writer {
	w := &Writer{destination: cfg.Destination, minify: cfg.Minify}
	if cfg.Minify {
		m := minify.New()
		m.AddFunc("text/html", html.Minify)
		w.minifier = m
	}
	return w
}

// WriteHTML writes rendered HTML at relOutputPath under the destination
// root, minifying first if configured.
func (w *Writer) WriteHTML(relOutputPath, content string) error {
	out := content
	if w.minify {
		minified, err := w.minifier.String("text/html", content)
		if err == nil {
			out = minified
		}
	}
	return w.writeFile(relOutputPath, []byte(out))
}

// CopyStatic copies a static asset verbatim from srcPath to relOutputPath
// under the destination root, giving the copy the source's modification time.
func (w *Writer) CopyStatic(srcPath, relOutputPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return model.NewBuildError(model.WriteError, model.Location{Path: srcPath}, err)
	}
	defer src.Close()

	dst, err := w.create(relOutputPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return model.NewBuildError(model.WriteError, model.Location{Path: srcPath}, err)
	}
	info, err := src.Stat()
	if err != nil {
		return model.NewBuildError(model.WriteError, model.Location{Path: srcPath}, err)
	}
	if err := os.Chtimes(dst.Name(), info.ModTime(), info.ModTime()); err != nil {
		return model.NewBuildError(model.WriteError, model.Location{Path: dst.Name()}, err)
	}
	return nil
}

func (w *Writer) writeFile(relOutputPath string, content []byte) error {
	f, err := w.create(relOutputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		return model.NewBuildError(model.WriteError, model.Location{Path: relOutputPath}, err)
	}
	return nil
}

func (w *Writer) create(relOutputPath string) (*os.File, error) {
	full := filepath.Join(w.destination, relOutputPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, model.NewBuildError(model.WriteError, model.Location{Path: full}, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return nil, model.NewBuildError(model.WriteError, model.Location{Path: full}, err)
	}
	return f, nil
}

// Clean removes every destination file not present in keepRelPaths and
// not matching a keepFiles prefix, so a rebuild doesn't leave orphaned
// output from removed or renamed documents. Directories are not removed.
func Clean(destination string, keepRelPaths map[string]bool, keepFiles []string) error {
	info, err := os.Stat(destination)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return model.NewBuildError(model.WriteError, model.Location{Path: destination}, err)
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(destination, func(path string, d os.DirEntry, err error) error {
		if err != nil || path == destination {
			return err
		}
		rel, relErr := filepath.Rel(destination, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if isKept(rel, keepFiles) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil // directories stay in place, even when left empty
		}
		if keepRelPaths[rel] {
			return nil
		}
		return os.Remove(path)
	})
}

func isKept(rel string, keepFiles []string) bool {
	for _, prefix := range keepFiles {
		prefix = strings.TrimPrefix(prefix, "/")
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	return false
}
