// Package collection builds the posts collection and every declared
// collection from scanned entries: date/slug parsing, draft handling,
// published/future/limit filtering, sorting, and permalink computation
// (spec.md §4.5).
package collection

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// postFilenameRE matches the Jekyll post naming convention
// "YYYY-MM-DD-slug.ext", applied to the name without its extension.
// Everything after the date, including a time component some Jekyll forks
// put there, becomes the slug.
var postFilenameRE = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(.+)$`)

// ParseFilenameDate extracts the date and slug encoded in a post's
// filename. ok is false when the filename does not match the convention
// (e.g. a draft, which carries no date prefix).
func ParseFilenameDate(relPath string) (date time.Time, slug string, ok bool) {
	base := filepath.Base(relPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	m := postFilenameRE.FindStringSubmatch(stem)
	if m == nil {
		return time.Time{}, stem, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return date, m[4], true
}
