// Package frontmatter splits a document's raw source into its header and
// body, and parses the header in whichever of YAML, TOML, or JSON it is
// written in (spec.md §4.3).
package frontmatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// ErrInvalidFrontMatter indicates the header delimiters or body could not
// be parsed.
var ErrInvalidFrontMatter = errors.New("invalid front matter")

const delimiter = "---"

// Syntax is the header's serialization format, discriminated by the header's
// first non-whitespace byte and first line (see detectSyntax).
type Syntax int

const (
	SyntaxNone Syntax = iota
	SyntaxYAML
	SyntaxTOML
	SyntaxJSON
)

// Extract splits content into its raw header text, syntax, and body.
//
// Edge cases (spec.md §4.3):
//   - content not starting with "---" on its own line: no front matter,
//     entire content is body.
//   - "---" immediately followed by "---": empty front matter.
//   - no closing "---": unclosed front matter, an error.
func Extract(content string) (raw string, syntax Syntax, body string, err error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	if !strings.HasPrefix(content, delimiter) {
		return "", SyntaxNone, content, nil
	}
	afterOpening := content[len(delimiter):]
	if len(afterOpening) > 0 && afterOpening[0] != '\n' {
		return "", SyntaxNone, content, nil
	}
	if len(afterOpening) > 0 {
		afterOpening = afterOpening[1:]
	}

	if strings.HasPrefix(afterOpening, delimiter) {
		remaining := afterOpening[len(delimiter):]
		remaining = strings.TrimPrefix(remaining, "\n")
		return "", SyntaxNone, remaining, nil
	}

	closingIdx := strings.Index(afterOpening, "\n"+delimiter)
	if closingIdx == -1 {
		if strings.HasSuffix(afterOpening, "\n"+delimiter) {
			closingIdx = len(afterOpening) - len(delimiter) - 1
		} else {
			return "", SyntaxNone, "", fmt.Errorf("%w: unclosed front matter delimiter", ErrInvalidFrontMatter)
		}
	}

	raw = afterOpening[:closingIdx+1]
	remaining := afterOpening[closingIdx+1:]
	remaining = strings.TrimPrefix(remaining, delimiter)
	remaining = strings.TrimPrefix(remaining, "\n")
	return raw, detectSyntax(raw), remaining, nil
}

// detectSyntax discriminates YAML/TOML/JSON (spec.md §4.3): a header whose
// first non-whitespace byte is "{" is JSON, one whose first line has "="
// before any ":" is TOML, otherwise YAML (Jekyll's long-standing default).
func detectSyntax(raw string) Syntax {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SyntaxNone
	}
	if strings.HasPrefix(trimmed, "{") {
		return SyntaxJSON
	}
	firstLine := trimmed
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine = trimmed[:idx]
	}
	eq, colon := strings.IndexByte(firstLine, '='), strings.IndexByte(firstLine, ':')
	if eq >= 0 && (colon == -1 || eq < colon) {
		return SyntaxTOML
	}
	return SyntaxYAML
}

// Parse parses a document's full source into its header map and body.
// When strict is true, malformed or unclosed front matter is a fatal
// error (model.FrontMatterError, Fatal); otherwise the document falls
// back to an empty header with the original content as body.
func Parse(content string, strict bool, loc model.Location) (*model.Header, string, error) {
	raw, syntax, body, err := Extract(content)
	if err != nil {
		if strict {
			return nil, "", model.NewBuildError(model.FrontMatterError, loc, err)
		}
		return model.NewHeader(), content, nil
	}

	header := model.NewHeader()
	if raw == "" {
		return header, body, nil
	}

	values, perr := parseSyntax(raw, syntax)
	if perr != nil {
		if strict {
			return nil, "", model.NewBuildError(model.FrontMatterError, loc, perr)
		}
		return model.NewHeader(), content, nil
	}
	for _, k := range orderedKeys(values) {
		header.Set(k, values[k])
	}
	return header, body, nil
}

func parseSyntax(raw string, syntax Syntax) (map[string]interface{}, error) {
	values := map[string]interface{}{}
	switch syntax {
	case SyntaxTOML:
		if err := toml.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
		}
	case SyntaxJSON:
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
		}
	default: // SyntaxYAML
		if err := yaml.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
		}
	}
	if values == nil {
		values = map[string]interface{}{}
	}
	return normalize(values), nil
}

// orderedKeys yields map keys sorted for deterministic Set() insertion
// order when the parser itself gives us no ordering (map[string]interface{}).
func orderedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

func normalize(v interface{}) map[string]interface{} {
	out, _ := normalizeValue(v).(map[string]interface{})
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = normalizeValue(vv)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[fmt.Sprintf("%v", k)] = normalizeValue(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = normalizeValue(vv)
		}
		return out
	default:
		return v
	}
}
