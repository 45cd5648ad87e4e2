package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func isMark(r rune) bool { return unicode.Is(unicode.Mn, r) }

// NormalizeName lowercases, strips accents and collapses whitespace so that
// "  Débit Balance " and "debit balance" compare equal.
func NormalizeName(s string) string {
	// Chains carry state, so each call builds its own.
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMark), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
