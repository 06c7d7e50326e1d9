package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackFilename is used when nothing of the original name survives sanitizing.
const fallbackFilename = "document.pdf"

// StripDiacritics decomposes s and drops the combining marks ("Décembre" -> "Decembre").
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SanitizeFilename makes an uploaded file name safe to use as an object key segment.
// Only [A-Za-z0-9.-] survive, everything else becomes a single "_", and the result
// never starts or ends with "_".
func SanitizeFilename(name string) string {
	name = StripDiacritics(name)

	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		if isSafeFilenameRune(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return fallbackFilename
	}
	return out
}

func isSafeFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.' || r == '-':
		return true
	default:
		return false
	}
}

// NormalizeName folds a free-text label for loose comparison: diacritics removed,
// lower-cased, runs of non alphanumerics collapsed to one space.
func NormalizeName(s string) string {
	s = strings.ToLower(StripDiacritics(s))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

// ValidEmail is a shape check only: one "@", non-empty local part and domain,
// no whitespace anywhere.
func ValidEmail(addr string) bool {
	if addr == "" || strings.IndexFunc(addr, unicode.IsSpace) >= 0 {
		return false
	}
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	return !strings.Contains(domain, "@")
}
