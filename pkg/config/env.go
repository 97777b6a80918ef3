package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

const envPrefix = "JEKYLLGO_"

// Common string constants used in environment variable processing.
const (
	envKeyURL         = "url"
	envKeyDestination = "destination"
)

// ApplyEnvOverrides applies environment variable overrides to a config.
// Environment variables are expected to follow the format JEKYLLGO_*.
// Nested keys use underscores: JEKYLLGO_MARKDOWN_HARD_WRAPS
// Boolean values: "true", "1", "yes" -> true; "false", "0", "no" -> false
// List values: comma-separated strings
func ApplyEnvOverrides(config *model.Config) error {
	env := os.Environ()
	overrides := make(map[string]string)

	for _, e := range env {
		if strings.HasPrefix(e, envPrefix) {
			parts := strings.SplitN(e, "=", 2)
			if len(parts) == 2 {
				key := strings.TrimPrefix(parts[0], envPrefix)
				overrides[key] = parts[1]
			}
		}
	}

	for key, value := range overrides {
		applyEnvOverride(config, key, value)
	}

	return nil
}

// applyEnvOverride applies a single environment variable override.
//
//nolint:gocyclo // This is a switch statement mapping env vars to config fields, complexity is unavoidable.
func applyEnvOverride(config *model.Config, key, value string) {
	keyLower := strings.ToLower(key)

	switch keyLower {
	case "source":
		config.Source = value
	case envKeyDestination:
		config.Destination = value
	case "baseurl":
		config.BaseURL = value
	case envKeyURL:
		config.URL = value
	case "permalink":
		config.Permalink = value
	case "markdown_ext":
		config.MarkdownExt = parseStringList(value)
	case "include":
		config.Include = parseStringList(value)
	case "exclude":
		config.Exclude = parseStringList(value)
	case "paginate":
		if v, err := strconv.Atoi(value); err == nil {
			config.Paginate = v
		}
	case "paginate_path":
		config.PaginatePath = value
	case "future":
		config.Future = parseBool(value)
	case "unpublished":
		config.Unpublished = parseBool(value)
	case "show_drafts":
		config.ShowDrafts = parseBool(value)
	case "limit_posts":
		if v, err := strconv.Atoi(value); err == nil {
			config.LimitPosts = v
		}
	case "safe":
		config.Safe = parseBool(value)
	case "strict_front_matter":
		config.StrictFM = parseBool(value)
	case "incremental":
		config.Incremental = parseBool(value)
	case "strict_variables":
		config.StrictVars = parseBool(value)
	case "minify":
		config.Minify = parseBool(value)
	case "markdown_hard_wraps":
		config.Markdown.HardWraps = parseBool(value)
	case "markdown_smart_quotes":
		config.Markdown.SmartQuotes = parseBool(value)
	case "markdown_footnotes":
		config.Markdown.Footnotes = parseBool(value)
	case "markdown_highlighter_theme":
		config.Markdown.HighlighterTheme = value
	case "keep_files":
		config.KeepFiles = parseStringList(value)
	}
}

// parseBool parses a string into a boolean.
// "true", "1", "yes" -> true
// "false", "0", "no" -> false
// All comparisons are case-insensitive.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return false
}

// parseStringList parses a comma-separated string into a slice.
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// GetEnvValue returns the value of an environment variable with the
// JEKYLLGO_ prefix.
func GetEnvValue(key string) (string, bool) {
	return os.LookupEnv(envPrefix + strings.ToUpper(key))
}

// SetEnvValue sets an environment variable with the JEKYLLGO_ prefix.
// This is primarily useful for testing.
func SetEnvValue(key, value string) error {
	return os.Setenv(envPrefix+strings.ToUpper(key), value)
}

// UnsetEnvValue unsets an environment variable with the JEKYLLGO_ prefix.
// This is primarily useful for testing.
func UnsetEnvValue(key string) error {
	return os.Unsetenv(envPrefix + strings.ToUpper(key))
}

// FromEnv creates a Config entirely from environment variables.
// This is useful when no config file is available.
func FromEnv() *model.Config {
	config := DefaultConfig()
	_ = ApplyEnvOverrides(config) //nolint:errcheck // Best-effort env override
	return config
}

// StructToEnvKeys returns a map of environment variable keys for a struct.
// This is useful for documentation and debugging.
func StructToEnvKeys(prefix string, v interface{}) map[string]string {
	result := make(map[string]string)
	structToEnvKeysRecursive(prefix, reflect.TypeOf(v), result)
	return result
}

func structToEnvKeysRecursive(prefix string, t reflect.Type, result map[string]string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		// Get the field name for the environment variable
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" && parts[0] != "-" {
				name = parts[0]
			}
		}

		envKey := prefix + strings.ToUpper(name)

		fieldType := field.Type
		if fieldType.Kind() == reflect.Ptr {
			fieldType = fieldType.Elem()
		}

		switch fieldType.Kind() {
		case reflect.Struct:
			structToEnvKeysRecursive(envKey+"_", fieldType, result)
		case reflect.Slice:
			result[envKey] = "comma-separated list"
		case reflect.Bool:
			result[envKey] = "true/false/1/0/yes/no"
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			result[envKey] = "integer"
		case reflect.String:
			result[envKey] = "string"
		default:
			// Other types (uint, float, complex, etc.) are not currently supported for env vars
		}
	}
}
