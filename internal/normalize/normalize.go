// Package normalize implements the search normalization pipeline shared by
// every corpus: Unicode case-folding, diacritic stripping, width folding,
// and whitespace collapse.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var (
	caseFold      = cases.Fold(cases.Compact)
	stripMarks    = runes.Remove(runes.In(unicode.Mn))
	diacriticFold = transform.Chain(norm.NFD, stripMarks, norm.NFC)
)

// Normalize applies full/half-width folding, then diacritic stripping (NFD
// decomposition, removal of nonspacing marks, NFC recomposition), then
// case-folding, in that order, mirroring the POSIX en_US tie-breaking
// locale's collation-insensitive comparison. The result is an
// ASCII-superset lowercase string with no combining marks.
func Normalize(s string) string {
	s = width.Fold.String(s)
	widthFolded := s
	s, _, err := transform.String(diacriticFold, s)
	if err != nil {
		// transform.String only fails on allocation failure for these
		// transformers; there is no recoverable path, so fall back to the
		// untransformed (already width-folded) string rather than panic.
		s = widthFolded
	}
	return caseFold.String(s)
}

// SplitWords splits s on any run of Unicode whitespace (including newlines
// and tabs) and drops empty tokens.
func SplitWords(s string) []string {
	return strings.FieldsFunc(s, unicode.IsSpace)
}

// CollapseWhitespace joins SplitWords(s) with single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(SplitWords(s), " ")
}

// Pipeline is the search normalization pipeline used throughout the search
// cache: collapse_whitespace ∘ normalize. It is idempotent after one
// application.
func Pipeline(s string) string {
	return CollapseWhitespace(Normalize(s))
}

// IsASCIIAlnum reports whether r is an ASCII letter or digit.
func IsASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// SanitisePathSegment replaces every byte outside [A-Za-z0-9] with '_', so
// the result is always a safe single path segment.
func SanitisePathSegment(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b[i] = c
		} else {
			b[i] = '_'
		}
	}
	return string(b)
}
