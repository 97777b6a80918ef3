package collection

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumRE       = regexp.MustCompile(`[^a-z0-9]+`)
	prettyNonAlnumRE = regexp.MustCompile(`[^a-z0-9._~!$&'()+,;=@]+`)
	trimDashRE       = regexp.MustCompile(`^-+|-+$`)
	spaceRunRE       = regexp.MustCompile(`\s+`)

	transliterate = transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
)

// Slugify transliterates non-ASCII letters to their closest ASCII
// equivalent, lower-cases, and replaces runs of non-alphanumeric
// characters with a single hyphen — the behavior the `slugify` Liquid
// filter and the `:title` permalink token both rely on.
func Slugify(s string) string {
	ascii, _, err := transform.String(transliterate, s)
	if err != nil {
		ascii = s
	}
	lower := strings.ToLower(ascii)
	slug := nonAlnumRE.ReplaceAllString(lower, "-")
	slug = trimDashRE.ReplaceAllString(slug, "")
	return slug
}

// SlugifyMode implements the `slugify` filter's five modes (spec.md §4.7):
//
//   - "raw": only whitespace runs collapse to a hyphen; case and punctuation
//     are left untouched.
//   - "ascii": transliterate, drop any rune that still isn't ASCII, then
//     collapse non-alphanumeric runs the same way Slugify does.
//   - "latin": same transliteration/collapse as the default mode — with
//     this regex-based collapse already ASCII-only, latin has no further
//     work to do beyond what Slugify already produces.
//   - "pretty": transliterate and lower-case, but collapse through a
//     broader character class that keeps common URL-safe punctuation
//     instead of stripping it to a bare hyphen.
//   - "default" (or any unrecognized mode): Slugify(s), unchanged, so
//     existing callers (permalink computation) keep their current
//     behavior.
func SlugifyMode(s, mode string) string {
	switch mode {
	case "raw":
		return trimDashRE.ReplaceAllString(spaceRunRE.ReplaceAllString(strings.TrimSpace(s), "-"), "")
	case "ascii":
		ascii, _, err := transform.String(transliterate, s)
		if err != nil {
			ascii = s
		}
		ascii = stripNonASCII(ascii)
		lower := strings.ToLower(ascii)
		slug := nonAlnumRE.ReplaceAllString(lower, "-")
		return trimDashRE.ReplaceAllString(slug, "")
	case "latin":
		return Slugify(s)
	case "pretty":
		ascii, _, err := transform.String(transliterate, s)
		if err != nil {
			ascii = s
		}
		lower := strings.ToLower(ascii)
		slug := prettyNonAlnumRE.ReplaceAllString(lower, "-")
		return trimDashRE.ReplaceAllString(slug, "")
	default:
		return Slugify(s)
	}
}

func stripNonASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}
