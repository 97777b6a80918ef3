// Package paginate partitions a filtered, sorted post list into pages and
// computes the paginator record Jekyll templates expect (spec.md §4.10),
// grounded on the teacher's FeedConfig.Paginate page-slicing shape.
package paginate

import (
	"strconv"
	"strings"

	"github.com/jekyllgo/jekyllgo/pkg/model"
)

// Page is one slice of the paginated post list plus the paginator record
// exposed to its template as `paginator`.
type Page struct {
	Number int
	Posts  []*model.Document
	Path   string // output path for this page ("" for page 1, its natural output)

	PerPage          int
	TotalPosts       int
	TotalPages       int
	PreviousPage     int
	PreviousPagePath string
	NextPage         int
	NextPagePath     string
}

// ToDrop exposes Page as the `paginator` Liquid binding, field names
// matching spec.md §4.10 exactly.
func (p Page) ToDrop() map[string]interface{} {
	return map[string]interface{}{
		"page":               p.Number,
		"per_page":           p.PerPage,
		"posts":              p.Posts,
		"total_posts":        p.TotalPosts,
		"total_pages":        p.TotalPages,
		"previous_page":      p.PreviousPage,
		"previous_page_path": p.PreviousPagePath,
		"next_page":          p.NextPage,
		"next_page_path":     p.NextPagePath,
	}
}

// Build partitions posts (already filtered and sorted) into consecutive
// slices of size perPage and computes each page's paginator record. Page
// 1 never gets a "/pageN/" path of its own (spec.md §4.10: "Page 1 never
// gets a /page1/ directory"); its Path is left empty so the caller writes
// it to the index template's own natural output.
func Build(posts []*model.Document, perPage int, paginatePath string) []Page {
	total := len(posts)
	if total == 0 {
		return []Page{{Number: 1, Posts: nil, PerPage: perPage, TotalPosts: 0, TotalPages: 1}}
	}

	totalPages := (total + perPage - 1) / perPage
	pages := make([]Page, 0, totalPages)
	for i := 0; i < totalPages; i++ {
		start := i * perPage
		end := start + perPage
		if end > total {
			end = total
		}
		pages = append(pages, Page{
			Number:     i + 1,
			Posts:      posts[start:end],
			PerPage:    perPage,
			TotalPosts: total,
			TotalPages: totalPages,
		})
	}

	indexURL := IndexURL(paginatePath)
	for i := range pages {
		if i > 0 {
			pages[i].Path = substituteNum(paginatePath, pages[i].Number)
			pages[i].PreviousPage = pages[i-1].Number
			if i == 1 {
				pages[i].PreviousPagePath = indexURL
			} else {
				pages[i].PreviousPagePath = pages[i-1].Path
			}
		}
		if i < len(pages)-1 {
			pages[i].NextPage = pages[i+1].Number
			pages[i].NextPagePath = substituteNum(paginatePath, pages[i+1].Number)
		}
	}
	return pages
}

func substituteNum(paginatePath string, n int) string {
	return strings.ReplaceAll(paginatePath, ":num", strconv.Itoa(n))
}

// IndexURL returns the site-relative URL of the page that paginatePath
// paginates against ("/blog/page:num/" implies "/blog/"; a paginate_path
// with no subdirectory implies the site root "/"). Used for page 2's
// previous_page_path, since page 1 itself never gets a "/pageN/" URL.
func IndexURL(paginatePath string) string {
	trimmed := strings.TrimSuffix(paginatePath, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 {
		return "/"
	}
	return trimmed[:idx] + "/"
}

// IndexTemplatePath walks paginate_path back to its base directory to
// find the index template it paginates (spec.md §4.10: e.g.
// "/blog/page:num/" implies "blog/index.html" relative to the source root;
// no subdirectory means the root index.html).
func IndexTemplatePath(paginatePath string) string {
	trimmed := strings.TrimSuffix(paginatePath, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 {
		return "index.html"
	}
	return strings.TrimPrefix(trimmed[:idx], "/") + "/index.html"
}
