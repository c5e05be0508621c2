package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 128

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify folds accents, lowercases and hyphenates s.
// "Curso de Programação!" becomes "curso-de-programacao".
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength-7 {
		slug = strings.TrimRight(slug[:maxSlugLength-7], "-")
	}
	return slug
}

// candidateSlug appends a short random suffix to the slugified name.
func candidateSlug(name string) string {
	base := Slugify(name)
	if base == "" {
		base = "checkout"
	}
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

func validSlug(slug string) bool {
	return len(slug) <= maxSlugLength && slugPattern.MatchString(slug)
}
