// Package slugconv handles conversions between display names and URL slugs.
package slugconv

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// ErrInvalidSlug is returned for malformed slug strings.
	ErrInvalidSlug = Error("invalid slug")

	slugPattern = `[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?`
)

var slugRegex = regexp.MustCompile("^" + slugPattern + "$")

// Error is an error type for slug conversion failures.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Validate returns [ErrInvalidSlug] unless slug is lowercase alphanumerics
// and inner hyphens, at most 63 characters.
func Validate(slug string) error {
	if !slugRegex.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

// Slugify converts a display name into a slug. Accents are stripped, runs of
// anything other than letters and digits collapse into a single hyphen, and
// the result is truncated to a valid length. An input without any letters or
// digits yields an empty string.
func Slugify(name string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		default:
			hyphen = true
		}
	}

	const maxLen = 63
	slug := b.String()
	if len(slug) > maxLen {
		slug = strings.TrimRight(slug[:maxLen], "-")
	}
	return slug
}

// ToTitle turns the last segment of a slug path into a display name:
// "components/date-picker" becomes "Date Picker".
func ToTitle(slug string) string {
	name := strings.TrimSuffix(path.Base(slug), ".html")
	// NoLower keeps existing capitals inside words
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(strings.Fields(strings.ReplaceAll(name, "-", " ")), " "))
}
