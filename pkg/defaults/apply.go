// Package defaults merges scoped front-matter default rules into each
// document's header, most-specific-scope-wins, with the document's own
// declared header always winning (spec.md §4.4).
package defaults

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// Apply computes the set of rules from cfg.Defaults applicable to a
// document at relPath with the given collection type ("posts", a declared
// collection label, or "" for a standalone page), orders them from least
// to most specific, and merges them under the document's own header so
// that the document's declared keys always win.
func Apply(header *model.Header, relPath, collectionType string, rules []model.DefaultRule) *model.Header {
	applicable := make([]model.DefaultRule, 0, len(rules))
	for _, r := range rules {
		if matches(r.Scope, relPath, collectionType) {
			applicable = append(applicable, r)
		}
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		return specificity(applicable[i].Scope) < specificity(applicable[j].Scope)
	})

	merged := model.NewHeader()
	for _, r := range applicable {
		layer := model.NewHeader()
		for _, k := range sortedKeys(r.Values) {
			layer.Set(k, r.Values[k])
		}
		merged.MergeFrom(layer, true)
	}

	// The document's own declared header always wins, last.
	merged.MergeFrom(header, true)
	return merged
}

// matches reports whether scope applies to a document at relPath with the
// given collection type: an empty scope path matches everything; a scope
// path is a prefix or doublestar glob against relPath; an empty scope type
// matches every collection (including standalone pages).
func matches(scope model.DefaultScope, relPath, collectionType string) bool {
	if scope.Type != "" && scope.Type != collectionType {
		return false
	}
	if scope.Path == "" {
		return true
	}
	if strings.ContainsAny(scope.Path, "*?[") {
		ok, _ := doublestar.Match(scope.Path, relPath)
		return ok
	}
	trimmed := strings.TrimSuffix(scope.Path, "/")
	return relPath == trimmed || strings.HasPrefix(relPath, trimmed+"/")
}

// specificity orders rules from least to most specific by scope path length
// (spec.md §4.4 "scope path length, then order of appearance"). The scope's
// type does not count; the stable sort keeps declaration order for ties.
func specificity(scope model.DefaultScope) int {
	return len(scope.Path)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
