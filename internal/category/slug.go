package category

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespace = regexp.MustCompile(`\s+`)

// Normalize lower-cases and trims a category name and derives its slug by
// replacing whitespace runs with "-".
func Normalize(name string) (normalized, slug string) {
	normalized = cases.Lower(language.Und).String(strings.TrimSpace(name))
	slug = whitespace.ReplaceAllString(normalized, "-")
	return normalized, slug
}
