// Package liquid wraps github.com/osteele/liquid with the fixed tag and
// filter surface spec.md §4.7 requires: Jekyll's `include`/
// `include_relative`/`highlight`/`link`/`post_url` structural tags (which
// the upstream engine, a Shopify-Liquid implementation, does not provide
// natively) plus Jekyll's filter vocabulary layered on top of the
// library's built-in set.
package liquid

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"

	"github.com/PuerkitoBio/goquery"
	"github.com/osteele/liquid"
	"github.com/osteele/liquid/render"

	"github.com/jekyllgo/jekyllgo/pkg/collection"
	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// ambientBindings copies only the keys PageBindings/LayoutBindings treat as
// ambient (site, page, layout, content, and the include-relative directory
// marker) into a fresh map. A child scope built from this — rather than a
// blind copy of the caller's bindings — cannot see the caller's own
// `assign`ed locals, matching Jekyll's isolated include scope.
func ambientBindings(parent map[string]interface{}) map[string]interface{} {
	child := make(map[string]interface{}, 5)
	for _, key := range []string{"site", "page", "layout", "content", "__current_dir__"} {
		if v, ok := parent[key]; ok {
			child[key] = v
		}
	}
	return child
}

func readIncludeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MarkdownFunc renders Markdown to HTML, injected by the build orchestrator
// so this package does not need to import pkg/markdown directly and the
// `markdownify` filter can share the site's single converter instance.
type MarkdownFunc func(src string) (string, error)

// Engine parses and renders templates against an immutable site model.
// Parsed templates are not cached: every Render call parses its source.
type Engine struct {
	core        *liquid.Engine
	includesDir string
	sourceRoot  string
	strictVars  bool
	markdown    MarkdownFunc
}

// Options configures a new Engine.
type Options struct {
	IncludesDir string // "<source>/_includes"
	SourceRoot  string
	StrictVars  bool
	Markdown    MarkdownFunc
	BaseURL     string
	SiteURL     string
}

// New constructs an Engine with the full Jekyll tag and filter surface
// registered.
func New(opts Options) *Engine {
	e := &Engine{
		core:        liquid.NewEngine(),
		includesDir: opts.IncludesDir,
		sourceRoot:  opts.SourceRoot,
		strictVars:  opts.StrictVars,
		markdown:    opts.Markdown,
	}
	e.registerFilters(opts.BaseURL, opts.SiteURL)
	e.registerTags()
	return e
}

// Render parses source and renders it against bindings.
func (e *Engine) Render(source string, bindings map[string]interface{}) (string, error) {
	tpl, err := e.core.ParseTemplate([]byte(source))
	if err != nil {
		return "", model.NewBuildError(model.TemplateParseError, model.Location{}, err)
	}
	out, err := tpl.Render(bindings)
	if err != nil {
		return "", model.NewBuildError(model.TemplateRuntimeError, model.Location{}, err)
	}
	return string(out), nil
}

func (e *Engine) registerFilters(baseURL, siteURL string) {
	e.core.RegisterFilter("slugify", func(s string, args ...interface{}) string {
		mode := "default"
		if len(args) > 0 {
			if m, ok := args[0].(string); ok && m != "" {
				mode = m
			}
		}
		return collection.SlugifyMode(s, mode)
	})
	e.core.RegisterFilter("markdownify", func(s string) string {
		if e.markdown == nil {
			return s
		}
		out, err := e.markdown(s)
		if err != nil {
			return s
		}
		return out
	})
	e.core.RegisterFilter("relative_url", func(s string) string {
		return joinURL(baseURL, s)
	})
	e.core.RegisterFilter("absolute_url", func(s string) string {
		return joinURL(siteURL+baseURL, s)
	})
	e.core.RegisterFilter("number_with_delimiter", func(n int) string {
		return numberWithDelimiter(n)
	})
	e.core.RegisterFilter("strip_html", stripHTML)

	e.core.RegisterFilter("date_to_string", func(v interface{}) string {
		return asTime(v).Format("02 Jan 2006")
	})
	e.core.RegisterFilter("date_to_long_string", func(v interface{}) string {
		return asTime(v).Format("02 January 2006")
	})
	e.core.RegisterFilter("date_to_xmlschema", func(v interface{}) string {
		return asTime(v).Format(time.RFC3339)
	})
	e.core.RegisterFilter("date_to_rfc822", func(v interface{}) string {
		return asTime(v).Format(time.RFC1123Z)
	})
	e.core.RegisterFilter("xml_escape", xmlEscape)
	e.core.RegisterFilter("cgi_escape", func(s string) string { return url.QueryEscape(s) })
	e.core.RegisterFilter("jsonify", jsonify)
	// inspect has no direct Go equivalent for Ruby's Object#inspect; JSON is
	// the closest stand-in Jekyll sites actually rely on for debug output.
	e.core.RegisterFilter("inspect", jsonify)

	e.core.RegisterFilter("group_by", groupByFilter)
	e.core.RegisterFilter("sample", sampleFilter)
	e.core.RegisterFilter("shuffle", shuffleFilter)
	e.core.RegisterFilter("push", pushFilter)
	e.core.RegisterFilter("pop", popFilter)
	e.core.RegisterFilter("shift", shiftFilter)
	e.core.RegisterFilter("unshift", unshiftFilter)

	e.core.RegisterFilter("where_exp", e.whereExpFilter)
	e.core.RegisterFilter("group_by_exp", e.groupByExpFilter)
}

// toInterfaceSlice flattens any slice-kinded value into []interface{} via
// reflection, since bound site/page collections arrive as concrete slice
// types ([]*model.Document, []map[string]interface{}, ...) that a filter
// declared over interface{} cannot range over directly.
func toInterfaceSlice(v interface{}) []interface{} {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func propertyValue(item interface{}, property string) interface{} {
	if m, ok := item.(map[string]interface{}); ok {
		return m[property]
	}
	return nil
}

// groupByFilter implements Jekyll's `group_by`: partitions array into
// {name, items} hashes keyed on a plain property lookup, preserving first-
// seen key order.
func groupByFilter(array interface{}, property string) []map[string]interface{} {
	items := toInterfaceSlice(array)
	var order []interface{}
	groups := map[interface{}][]interface{}{}
	for _, item := range items {
		key := propertyValue(item, property)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}
	out := make([]map[string]interface{}, 0, len(order))
	for _, key := range order {
		out = append(out, map[string]interface{}{"name": key, "items": groups[key]})
	}
	return out
}

// whereExpFilter implements `{{ array | where_exp: "item", "expr" }}`:
// binds each element to varName in a child scope and keeps it when expr
// renders Liquid-truthy.
func (e *Engine) whereExpFilter(array interface{}, varName, expr string, ctx render.Context) ([]interface{}, error) {
	bindings, err := ctx.Bindings()
	if err != nil {
		return nil, err
	}
	tpl := fmt.Sprintf("{%% if %s %%}true{%% endif %%}", expr)
	var out []interface{}
	for _, item := range toInterfaceSlice(array) {
		child := ambientBindings(bindings)
		child[varName] = item
		rendered, err := e.Render(tpl, child)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(rendered) == "true" {
			out = append(out, item)
		}
	}
	return out, nil
}

// groupByExpFilter implements `{{ array | group_by_exp: "item", "expr" }}`:
// like group_by, but the group key is the rendered value of expr with
// varName bound to each element, rather than a plain property name.
func (e *Engine) groupByExpFilter(array interface{}, varName, expr string, ctx render.Context) ([]map[string]interface{}, error) {
	bindings, err := ctx.Bindings()
	if err != nil {
		return nil, err
	}
	tpl := fmt.Sprintf("{{ %s }}", expr)
	var order []string
	groups := map[string][]interface{}{}
	for _, item := range toInterfaceSlice(array) {
		child := ambientBindings(bindings)
		child[varName] = item
		key, err := e.Render(tpl, child)
		if err != nil {
			return nil, err
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}
	out := make([]map[string]interface{}, 0, len(order))
	for _, key := range order {
		out = append(out, map[string]interface{}{"name": key, "items": groups[key]})
	}
	return out, nil
}

func sampleFilter(array interface{}, args ...interface{}) interface{} {
	items := toInterfaceSlice(array)
	if len(items) == 0 {
		return nil
	}
	shuffled := append([]interface{}{}, items...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	n := 1
	if len(args) > 0 {
		if parsed, ok := toInt(args[0]); ok {
			n = parsed
		}
	}
	if n <= 1 {
		return shuffled[0]
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

func shuffleFilter(array interface{}) []interface{} {
	items := toInterfaceSlice(array)
	out := append([]interface{}{}, items...)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// push/pop/shift/unshift return a new slice rather than mutating in place:
// Liquid filters operate on piped values, not references back into the
// caller's bound array.
func pushFilter(array interface{}, item interface{}) []interface{} {
	items := toInterfaceSlice(array)
	return append(append([]interface{}{}, items...), item)
}

func popFilter(array interface{}) []interface{} {
	items := toInterfaceSlice(array)
	if len(items) == 0 {
		return items
	}
	return items[:len(items)-1]
}

func shiftFilter(array interface{}) []interface{} {
	items := toInterfaceSlice(array)
	if len(items) == 0 {
		return items
	}
	return items[1:]
}

func unshiftFilter(array interface{}, item interface{}) []interface{} {
	items := toInterfaceSlice(array)
	out := make([]interface{}, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

func jsonify(v interface{}) string {
	out, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(out)
}

var dateParser = &dps.Parser{ParserTypes: []dps.ParserType{dps.AbsoluteTime, dps.NoSpacesTime, dps.CustomFormat}}

// asTime coerces a front-matter/Liquid date value to time.Time for the
// date_to_* filters, mirroring pkg/collection/document.go's headerDate:
// fixed layouts first, go-dateparser as the fallback for anything looser.
func asTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05 -0700", "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
		if result, err := dateParser.Parse(&dps.Configuration{DateOrder: dps.YMD}, t); err == nil && result != nil {
			return result.Time
		}
	}
	return time.Time{}
}

// stripHTML removes every tag from s, keeping only its text content.
// Parses with goquery rather than a regex strip so malformed/nested markup
// (the common case for a rendered excerpt) degrades gracefully instead of
// leaving stray angle brackets behind.
func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

func joinURL(base, rel string) string {
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return base + rel
}

func numberWithDelimiter(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func (e *Engine) registerTags() {
	e.core.RegisterTag("include", e.includeTag(false))
	e.core.RegisterTag("include_relative", e.includeTag(true))
	e.core.RegisterTag("highlight", e.highlightTag)
	e.core.RegisterTag("link", e.linkTag)
	e.core.RegisterTag("post_url", e.postURLTag)
}

// includeTag implements `{% include name.ext key="value" ... %}`: the
// included template renders with a fresh child scope whose only new
// binding is `include` (the passed parameters); site/page are inherited
// from the enclosing scope. Assignments inside the include do not leak
// back out, since render is a value-returning call against a copied
// bindings map (spec.md §4.7 "Include semantics").
func (e *Engine) includeTag(relative bool) func(render.Context) (string, error) {
	return func(ctx render.Context) (string, error) {
		args := strings.Fields(ctx.TagArgs())
		if len(args) == 0 {
			return "", ctx.Errorf("include: missing file name")
		}
		name := strings.Trim(args[0], `"'`)

		params := map[string]interface{}{}
		for _, pair := range args[1:] {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) != 2 {
				continue
			}
			params[kv[0]] = strings.Trim(kv[1], `"'`)
		}

		bindings, err := ctx.Bindings()
		if err != nil {
			return "", err
		}

		dir := e.includesDir
		if relative {
			if cur, ok := bindings["__current_dir__"].(string); ok && cur != "" {
				dir = cur
			}
		}
		abs := filepath.Join(dir, name)
		if relative {
			rel, relErr := filepath.Rel(e.sourceRoot, abs)
			if relErr != nil || strings.HasPrefix(rel, "..") {
				return "", ctx.Errorf("include_relative: %s escapes source root", name)
			}
		}

		childBindings := ambientBindings(bindings)
		childBindings["include"] = params

		source, err := readIncludeFile(abs)
		if err != nil {
			return "", ctx.Errorf("%s: %v", name, err)
		}
		out, err := e.Render(source, childBindings)
		if err != nil {
			return "", err
		}
		return out, nil
	}
}

func (e *Engine) highlightTag(ctx render.Context) (string, error) {
	args := strings.Fields(ctx.TagArgs())
	lang := ""
	if len(args) > 0 {
		lang = args[0]
	}
	body, err := ctx.InnerString()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`<figure class="highlight"><pre><code class="language-%s">%s</code></pre></figure>`, lang, body), nil
}

func (e *Engine) linkTag(ctx render.Context) (string, error) {
	name := strings.Trim(strings.TrimSpace(ctx.TagArgs()), `"'`)
	return joinURL("", "/"+strings.TrimPrefix(name, "/")), nil
}

func (e *Engine) postURLTag(ctx render.Context) (string, error) {
	slug := strings.Trim(strings.TrimSpace(ctx.TagArgs()), `"'`)
	bindings, err := ctx.Bindings()
	if err != nil {
		return "", err
	}
	site, ok := bindings["site"].(map[string]interface{})
	if !ok {
		return "", ctx.Errorf("post_url: site is not bound")
	}
	posts, _ := site["posts"].([]map[string]interface{})
	for _, p := range posts {
		if name, _ := p["name"].(string); strings.Contains(name, slug) {
			if url, ok := p["url"].(string); ok {
				return url, nil
			}
		}
	}
	return "", ctx.Errorf("post_url: no post found matching %q", slug)
}
