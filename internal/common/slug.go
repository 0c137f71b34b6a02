package common

import (
	"regexp"
	"strings"
)

const maxSlugLength = 64

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a display name into a URL-safe machine name:
// lower-cased, runs of non-alphanumeric characters collapsed to a single
// hyphen, leading/trailing hyphens trimmed, capped at 64 characters.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}
	return slug
}
