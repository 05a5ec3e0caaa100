// Package naming derives identifiers and file slugs from raw table names.
//
// Every function here is pure: the same table name always yields the same
// type name and slug, which keeps stub filenames and their imports stable
// across regenerations.
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TypeName returns the PascalCase type identifier for a table name,
// e.g. "user_account" -> "UserAccount".
func TypeName(table string) string {
	words := Words(table)
	if len(words) == 0 {
		return ""
	}
	name := inflect.Camelize(strings.Join(words, "_"))
	if name != "" && unicode.IsDigit(rune(name[0])) {
		name = "T" + name
	}
	return name
}

// Slug returns the lower snake_case form used for file names,
// e.g. "UserAccount" -> "user_account".
func Slug(table string) string {
	words := Words(table)
	if len(words) == 0 {
		return ""
	}
	return inflect.Underscore(strings.Join(words, "_"))
}

// NeedsTableRef reports whether generated code must name the physical table
// explicitly because the slug no longer matches it.
func NeedsTableRef(table string) bool {
	return Slug(table) != table
}

// Words splits a table name into lowercase ASCII words. Accents are folded,
// separators are any non-alphanumeric rune, and case changes start a new word
// ("HTTPLog" -> ["http", "log"]).
func Words(s string) []string {
	rs := []rune(fold(s))

	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	for i, r := range rs {
		if !isAlnum(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isAlnum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
