package utils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripAccents removes diacritics via NFD decomposition.
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases, trims and strips accents. Used for fuzzy header and city
// name matching.
func Fold(s string) string {
	return StripAccents(strings.ToLower(strings.TrimSpace(s)))
}

// NormalizeKey produces the canonical city key used as the join key across the
// city, electorate, vote and investment datasets: lowercase, trimmed, accents
// stripped, hyphens and spaces folded to underscores.
func NormalizeKey(s string) string {
	k := Fold(s)
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.ReplaceAll(k, " ", "_")
	return k
}

// ParseBrazilianNumber parses "1.234.567,89" style values. Returns 0 when the
// value is empty or unparseable, matching the import tolerance of the frontend
// it replaces.
func ParseBrazilianNumber(val string) float64 {
	s := strings.TrimSpace(val)
	if s == "" {
		return 0
	}
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
