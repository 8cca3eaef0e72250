package ingredients

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Hyphen-family characters are all mapped to the ASCII hyphen.
var hyphenReplacer = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
)

var (
	reHyphenRun = regexp.MustCompile(`-{2,}`)
	reSpaceRun  = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// Normalize cleans a raw sub-ingredient token into its canonical form:
// lowercase, no parenthetical qualifier, plain hyphens and single spaces.
func Normalize(raw string) string {
	name := norm.NFC.String(raw)
	name = strings.TrimSpace(name)

	name = hyphenReplacer.Replace(name)
	name = reHyphenRun.ReplaceAllString(name, "-")

	// "syltet agurk (agurk, vann)" -> "syltet agurk"
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimRightFunc(name, func(r rune) bool {
		return r == ')' || unicode.IsSpace(r)
	})

	// Casers keep state, so one is built per call.
	name = cases.Lower(language.Norwegian).String(name)

	name = reSpaceRun.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// NormalizeAll normalizes every token and removes empty results and later
// duplicates. The first occurrence of a name keeps its position.
func NormalizeAll(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	cleaned := make([]string, 0, len(raw))
	for _, token := range raw {
		name := Normalize(token)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}
	return cleaned
}
