package services

import (
	"strings"
	"unicode"
)

// Slugify derives a URL- and filename-safe identifier from a title.
// Keeps lowercase latin, digits and Hangul syllables; everything else is
// dropped and whitespace runs become single hyphens.
func Slugify(title string) string {
	lowered := strings.ToLower(title)

	var sb strings.Builder
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r >= '가' && r <= '힣': // Hangul syllables
			sb.WriteRune(r)
		case unicode.IsSpace(r), r == '-':
			sb.WriteRune(r)
		}
	}

	slug := strings.Join(strings.Fields(sb.String()), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
