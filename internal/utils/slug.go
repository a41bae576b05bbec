package utils

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]+`)
	slugRepeats = regexp.MustCompile(`-{2,}`)
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify converts a string to a URL-friendly slug: the input is
// transliterated to ASCII, lowercased, spaces become hyphens and any
// remaining non-alphanumeric characters are dropped.
func Slugify(s string) string {
	out := unidecode.Unidecode(s)
	out = strings.ToLower(strings.TrimSpace(out))
	out = strings.ReplaceAll(out, " ", "-")
	out = slugInvalid.ReplaceAllString(out, "")
	out = slugRepeats.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// IsValidSlug reports whether s is a well-formed slug: lowercase
// alphanumerics separated by single hyphens, no leading or trailing
// hyphen.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
