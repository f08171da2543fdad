// Package slug derives URL-safe identifiers from titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"labelhub/internal/utils"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SuffixLength is the number of hex characters appended on collision.
const SuffixLength = 6

var suffixPattern = regexp.MustCompile(`^[0-9a-f]{6}$`)

// letters that do not decompose into an ASCII base letter
var transliterations = strings.NewReplacer(
	"ß", "ss", "ẞ", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"ð", "d", "Ð", "d",
	"þ", "th", "Þ", "th",
	"ı", "i",
)

// Make converts a title into a lower-case ASCII slug: diacritics are stripped,
// runs of anything other than [a-z0-9] become one hyphen, and leading and
// trailing hyphens are trimmed. Make(Make(s)) == Make(s).
func Make(title string) string {
	folded := transliterations.Replace(title)
	stripper := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripper, folded); err == nil {
		folded = out
	}
	folded = strings.ToLower(folded)

	var builder strings.Builder
	builder.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return builder.String()
}

// WithSuffix appends a random "-xxxxxx" hex token to base.
func WithSuffix(base string) string {
	return base + "-" + utils.RandomHex(SuffixLength)
}

// IsDerived reports whether s is base itself or base with a collision suffix.
func IsDerived(s, base string) bool {
	if base == "" {
		return false
	}
	if s == base {
		return true
	}
	rest, ok := strings.CutPrefix(s, base+"-")
	return ok && suffixPattern.MatchString(rest)
}
