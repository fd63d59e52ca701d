package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics, so "Cível" and "civel" compare
// equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Resolve matches typed input against an option list.
//
// An exact match wins; otherwise a unique accent- and case-insensitive match
// is accepted. A 1-based position ("3") selects the option at that position.
func Resolve(options []string, input string) (string, bool) {
	input = strings.TrimSpace(input)

	for _, o := range options {
		if o == input {
			return o, true
		}
	}

	if n, ok := position(input); ok && n >= 1 && n <= len(options) {
		return options[n-1], true
	}

	want := Fold(input)
	match, found := "", 0
	for _, o := range options {
		if Fold(o) == want {
			match = o
			found++
		}
	}
	if found == 1 {
		return match, true
	}

	return "", false
}

// position parses a small positive integer without accepting signs or spaces.
func position(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
