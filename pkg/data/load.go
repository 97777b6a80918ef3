// Package data loads `_data/**` into the site's data drop: YAML/JSON parse
// to their native structure, CSV/TSV parse to an ordered sequence of
// mappings keyed by the header row, subdirectories nest (spec.md §4.6).
package data

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// Load walks dataDir (typically "<source>/_data") and returns the nested
// map exposed to templates as site.data.
func Load(dataDir string) (map[string]interface{}, error) {
	root := map[string]interface{}{}
	info, err := os.Stat(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return root, nil
		}
		return nil, model.NewBuildError(model.SourceError, model.Location{Path: dataDir}, err)
	}
	if !info.IsDir() {
		return root, nil
	}

	walkErr := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dataDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		value, parseErr := parseFile(path)
		if parseErr != nil {
			return model.NewBuildError(model.SourceError, model.Location{Path: path}, parseErr)
		}
		if value == nil {
			return nil // unrecognized extension, skip
		}

		insert(root, strings.Split(rel, "/"), value)
		return nil
	})
	if walkErr != nil {
		if be, ok := walkErr.(*model.BuildError); ok {
			return nil, be
		}
		return nil, model.NewBuildError(model.SourceError, model.Location{Path: dataDir}, walkErr)
	}
	return root, nil
}

// insert places value in root following parts, where parts[:-1] become
// nested maps keyed by directory name and the final part's extension is
// stripped to form the leaf key.
func insert(root map[string]interface{}, parts []string, value interface{}) {
	cur := root
	for i, part := range parts {
		if i == len(parts)-1 {
			key := strings.TrimSuffix(part, filepath.Ext(part))
			cur[key] = value
			return
		}
		next, ok := cur[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[part] = next
		}
		cur = next
	}
}

func parseFile(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		var v interface{}
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return normalize(v), nil
	case ".json":
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case ".csv":
		return parseDelimited(data, ',')
	case ".tsv":
		return parseDelimited(data, '\t')
	default:
		return nil, nil
	}
}

func parseDelimited(data []byte, delimiter rune) ([]map[string]interface{}, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = delimiter
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	out := make([]map[string]interface{}, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]interface{}, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		out = append(out, record)
	}
	return out, nil
}

func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[fmt.Sprintf("%v", k)] = normalize(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = normalize(vv)
		}
		return out
	default:
		return v
	}
}

