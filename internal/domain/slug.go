package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// SlugifyName converts a display name into a URL-safe slug: lowercase,
// runs of non-alphanumeric characters collapsed to hyphens, trimmed,
// capped at 48 characters, with "org" as the empty fallback.
func SlugifyName(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 48 {
		slug = slug[:48]
		slug = strings.Trim(slug, "-")
	}
	if slug == "" {
		return "org"
	}
	return slug
}

// EnsureUniqueSlug returns base when unused, otherwise base with the
// first free numeric suffix (-1, -2, ...).
func EnsureUniqueSlug(base string, existing map[string]struct{}) string {
	if _, taken := existing[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}
