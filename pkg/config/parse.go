package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// Format is a recognized configuration file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath returns the Format implied by a config file's extension.
func FormatFromPath(path string) (Format, error) {
	switch {
	case strings.HasSuffix(path, ".toml"):
		return FormatTOML, nil
	case strings.HasSuffix(path, ".yml"), strings.HasSuffix(path, ".yaml"):
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unrecognized config file extension: %s", path)
	}
}

// ParseFile parses raw config bytes of the given format into a flat
// key/value map. Jekyll config files have no wrapper key — every top-level
// key is a site configuration key or a free-form site variable.
func ParseFile(data []byte, format Format) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, model.NewBuildError(model.ConfigError, model.Location{}, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, model.NewBuildError(model.ConfigError, model.Location{}, err)
		}
		raw = normalizeYAMLMap(raw)
	default:
		return nil, model.NewBuildError(model.ConfigError, model.Location{}, fmt.Errorf("unsupported format %q", format))
	}
	return raw, nil
}

// normalizeYAMLMap recursively converts map[interface{}]interface{} (which
// yaml.v2-family decoders can still surface for nested maps depending on
// node shape) into map[string]interface{} so downstream merge/template code
// only ever deals with one map type.
func normalizeYAMLMap(v interface{}) map[string]interface{} {
	m, _ := normalizeYAMLValue(v).(map[string]interface{})
	return m
}

func normalizeYAMLValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = normalizeYAMLValue(vv)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAMLValue(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = normalizeYAMLValue(vv)
		}
		return out
	default:
		return v
	}
}

// ParseJSON parses a JSON object into a key/value map. Config file loading
// does not use it: FormatFromPath accepts only YAML and TOML files.
func ParseJSON(data []byte) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
