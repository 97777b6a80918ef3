package config

import "github.com/jekyllgo/jekyllgo/pkg/model"

// ApplyRaw overlays a parsed raw config map onto base, recognizing the
// fixed set of site configuration keys from spec.md §4.1 and folding every
// other top-level key into Variables as a free-form site variable exposed
// to templates as site.<key>.
func ApplyRaw(base *model.Config, raw map[string]interface{}) *model.Config {
	cfg := base

	if v, ok := str(raw, "source"); ok {
		cfg.Source = v
	}
	if v, ok := str(raw, "destination"); ok {
		cfg.Destination = v
	}
	if v, ok := str(raw, "baseurl"); ok {
		cfg.BaseURL = v
	}
	if v, ok := str(raw, "url"); ok {
		cfg.URL = v
	}
	if v, ok := str(raw, "permalink"); ok {
		cfg.Permalink = v
	}
	if v, ok := strList(raw, "markdown_ext"); ok {
		cfg.MarkdownExt = v
	}
	if v, ok := strList(raw, "include"); ok {
		cfg.Include = v
	}
	if v, ok := strList(raw, "exclude"); ok {
		cfg.Exclude = v
	}
	if v, ok := collections(raw["collections"]); ok {
		cfg.Collections = v
	}
	if v, ok := defaultsList(raw["defaults"]); ok {
		cfg.Defaults = v
	}
	if v, ok := integer(raw, "paginate"); ok {
		cfg.Paginate = v
	}
	if v, ok := str(raw, "paginate_path"); ok {
		cfg.PaginatePath = v
	}
	if v, ok := boolean(raw, "future"); ok {
		cfg.Future = v
	}
	if v, ok := boolean(raw, "unpublished"); ok {
		cfg.Unpublished = v
	}
	if v, ok := boolean(raw, "show_drafts"); ok {
		cfg.ShowDrafts = v
	}
	if v, ok := integer(raw, "limit_posts"); ok {
		cfg.LimitPosts = v
	}
	if v, ok := boolean(raw, "safe"); ok {
		cfg.Safe = v
	}
	if v, ok := boolean(raw, "strict_front_matter"); ok {
		cfg.StrictFM = v
	}
	if v, ok := boolean(raw, "incremental"); ok {
		cfg.Incremental = v
	}
	if v, ok := boolean(raw, "strict_variables"); ok {
		cfg.StrictVars = v
	}
	if v, ok := str(raw, "encoding"); ok {
		cfg.Encoding = v
	}
	if v, ok := boolean(raw, "minify"); ok {
		cfg.Minify = v
	}
	if v, ok := strList(raw, "keep_files"); ok {
		cfg.KeepFiles = v
	}
	if m, ok := raw["markdown"].(map[string]interface{}); ok {
		if v, ok := boolean(m, "hard_wraps"); ok {
			cfg.Markdown.HardWraps = v
		}
		if v, ok := boolean(m, "smart_quotes"); ok {
			cfg.Markdown.SmartQuotes = v
		}
		if v, ok := boolean(m, "footnotes"); ok {
			cfg.Markdown.Footnotes = v
		}
		if v, ok := str(m, "highlighter_theme"); ok {
			cfg.Markdown.HighlighterTheme = v
		}
		if v, ok := boolean(m, "line_numbers"); ok {
			cfg.Markdown.LineNumbers = v
		}
	}

	known := map[string]bool{
		"source": true, "destination": true, "baseurl": true, "url": true,
		"permalink": true, "markdown_ext": true, "include": true, "exclude": true,
		"collections": true, "defaults": true, "paginate": true, "paginate_path": true,
		"future": true, "unpublished": true, "show_drafts": true, "limit_posts": true,
		"safe": true, "strict_front_matter": true, "incremental": true, "strict_variables": true,
		"encoding": true, "minify": true, "keep_files": true, "markdown": true,
	}
	for k, v := range raw {
		if known[k] {
			continue
		}
		cfg.Variables[k] = v
	}

	return cfg
}

func str(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

func integer(m map[string]interface{}, key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func boolean(m map[string]interface{}, key string) (bool, bool) {
	v, ok := m[key].(bool)
	return v, ok
}

func strList(m map[string]interface{}, key string) ([]string, bool) {
	v, ok := m[key].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

func collections(v interface{}) (map[string]model.CollectionConfig, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	out := make(map[string]model.CollectionConfig, len(m))
	for label, raw := range m {
		cc := model.CollectionConfig{Output: false, SortBy: "date"}
		if sub, ok := raw.(map[string]interface{}); ok {
			if v, ok := boolean(sub, "output"); ok {
				cc.Output = v
			}
			if v, ok := str(sub, "permalink"); ok {
				cc.Permalink = v
			}
			if v, ok := str(sub, "sort_by"); ok {
				cc.SortBy = v
			}
			if v, ok := strList(sub, "order"); ok {
				cc.Order = v
			}
		}
		out[label] = cc
	}
	return out, true
}

func defaultsList(v interface{}) ([]model.DefaultRule, bool) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]model.DefaultRule, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		rule := model.DefaultRule{Values: map[string]interface{}{}}
		if scope, ok := entry["scope"].(map[string]interface{}); ok {
			if v, ok := str(scope, "path"); ok {
				rule.Scope.Path = v
			}
			if v, ok := str(scope, "type"); ok {
				rule.Scope.Type = v
			}
		}
		if values, ok := entry["values"].(map[string]interface{}); ok {
			rule.Values = values
		}
		out = append(out, rule)
	}
	return out, true
}
