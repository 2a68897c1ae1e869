// Package naming turns asset and node names into identities that are safe to
// embed in the generated script and stable across runs.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxIdentityLen is the longest identity, in bytes, the destination keeps
// without silently truncating it.
const MaxIdentityLen = 63

// Separator joins the name part and the uniqueness suffix of an identity.
const Separator = "#"

// Fallback replaces names that sanitise to nothing.
const Fallback = "unnamed"

// disallowed matches runes that would break a quoted string literal or make
// an identity ambiguous.
var disallowed = runes.Predicate(func(r rune) bool {
	switch r {
	case '\'', '"', '\\', '#', '`':
		return true
	}
	return unicode.IsControl(r) || r == utf8.RuneError
})

// Sanitize normalises name to NFC and strips disallowed characters.
// Names that are not valid UTF-8 are decoded as EUC-KR first, the legacy
// encoding many game asset archives use.
func Sanitize(name string) string {
	if !utf8.ValidString(name) {
		name = legacyToUTF8(name)
	}

	t := transform.Chain(norm.NFC, runes.Remove(disallowed))
	result, _, err := transform.String(t, name)
	if err != nil {
		result = strings.Map(func(r rune) rune {
			if disallowed.Contains(r) {
				return -1
			}
			return r
		}, name)
	}

	result = strings.TrimSpace(result)
	if result == "" {
		return Fallback
	}
	return result
}

// Identity joins a sanitised name and a uniqueness suffix. The name part is
// shortened, on a rune boundary, so the whole identity fits MaxIdentityLen;
// the suffix is never cut.
func Identity(name, suffix string) string {
	base := Sanitize(name)
	budget := MaxIdentityLen - len(Separator) - len(suffix)
	if budget < 1 {
		budget = 1
	}
	if len(base) > budget {
		base = truncate(base, budget)
	}
	return base + Separator + suffix
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// legacyToUTF8 decodes EUC-KR bytes, returning the input unchanged if the
// bytes are not EUC-KR either.
func legacyToUTF8(s string) string {
	result, _, err := transform.String(korean.EUCKR.NewDecoder(), s)
	if err != nil || !utf8.ValidString(result) {
		return strings.ToValidUTF8(s, "")
	}
	return result
}
