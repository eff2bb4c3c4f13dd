package services

import "strings"

const maxSlugLength = 80

// Slugify derives a URL-safe base slug from a title: lowercase, strip
// everything but letters, digits, hyphens and spaces, collapse whitespace
// runs to single hyphens, cap at 80 characters. An empty result falls
// back to "design". Same title always yields the same base slug.
func Slugify(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == ' ':
			b.WriteRune(r)
		}
	}

	slug := strings.Join(strings.Fields(b.String()), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		slug = "design"
	}
	return slug
}
