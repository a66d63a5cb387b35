package frame

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRe    = regexp.MustCompile(`[^a-z0-9_]+`)
	underscoreRe = regexp.MustCompile(`_{2,}`)
)

// CleanName turns a column label into lower snake case: accents are
// stripped, runs of anything other than letters, digits and underscores
// become a single underscore, and edge underscores are trimmed.
// "Province/State" -> "province_state", "Last Update" -> "last_update".
func CleanName(name string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(stripAccents, strings.TrimSpace(name))
	if err != nil {
		s = name
	}
	s = cases.Lower(language.Und).String(s)
	s = nonWordRe.ReplaceAllString(s, "_")
	s = underscoreRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// CleanNames applies CleanName to every column.
func (f Frame) CleanNames() Frame {
	return f.RenameFunc(CleanName)
}
