package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used when a title has no usable characters
const fallbackSlug = "track"

// Slugify derives a URL-safe slug from a track title. Whitespace, '-' and '_'
// separate words; any other non-alphanumeric character is dropped.
// "Sunset Drive" becomes "sunset-drive" and "Don't Stop (Café Mix)" becomes "dont-stop-cafe-mix".
func Slugify(title string) string {
	folded, _, err := transform.String(transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false

	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			pendingDash = true
		}
	}

	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}
