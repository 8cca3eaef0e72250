package ingredients

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Terminator is the punctuation that closes a group header.
type Terminator int

const (
	// TerminatorNone: "FYLL 62% (skinke, ost)" or "FYLL (62%) skinke, ost".
	TerminatorNone Terminator = iota
	// TerminatorColon: "FYLL (62%): skinke, ost".
	TerminatorColon
)

// PercentFormat is the accepted shape of a header percent.
type PercentFormat int

const (
	// PercentDecimal accepts "40" as well as "12,5" or "12.5".
	PercentDecimal PercentFormat = iota
	// PercentInteger accepts "40" only.
	PercentInteger
)

// ParseTerminator maps a configuration value ("colon", "none") to a Terminator.
func ParseTerminator(s string) (Terminator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "colon", ":":
		return TerminatorColon, nil
	case "none", "", "paren":
		return TerminatorNone, nil
	}
	return TerminatorNone, fmt.Errorf("unknown header terminator %q", s)
}

// ParsePercentFormat maps a configuration value ("decimal", "integer") to a PercentFormat.
func ParsePercentFormat(s string) (PercentFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "decimal", "":
		return PercentDecimal, nil
	case "integer", "int":
		return PercentInteger, nil
	}
	return PercentDecimal, fmt.Errorf("unknown percent format %q", s)
}

func (t Terminator) String() string {
	if t == TerminatorColon {
		return "colon"
	}
	return "none"
}

func (f PercentFormat) String() string {
	if f == PercentInteger {
		return "integer"
	}
	return "decimal"
}

const (
	// RE2 \s is ASCII only; \p{Zs} adds the no-break spaces left by &nbsp;.
	space          = `[\s\p{Zs}]`
	namePattern    = `(\p{Lu}[\p{Lu}\s\p{Zs}\-‐‑‒–—]*?)`
	percentPattern = `([0-9][0-9.,]*)`
)

var (
	reDecimalPercent = regexp.MustCompile(`^[0-9]+(?:\.[0-9]{1,2})?$`)
	reIntegerPercent = regexp.MustCompile(`^[0-9]+$`)
	reWhitespace     = regexp.MustCompile(space + `+`)
)

// RawGroup is a matched group header and the unparsed text that follows it.
type RawGroup struct {
	Name    string
	Percent float64
	SubSpan string
}

// Grammar is the deterministic label extractor for one header dialect.
// A Grammar holds no per-call state and is safe for concurrent use.
type Grammar struct {
	Terminator    Terminator
	PercentFormat PercentFormat

	header *regexp.Regexp
}

// NewGrammar compiles the header pattern for the given dialect.
func NewGrammar(terminator Terminator, format PercentFormat) *Grammar {
	// Percent is either "(62 %)" or a bare "62%".
	pattern := namePattern + space + `*(?:\(` + space + `*` + percentPattern + space + `*%` + space + `*\)|` +
		percentPattern + space + `*%)`
	if terminator == TerminatorColon {
		pattern += space + `*:`
	}
	return &Grammar{
		Terminator:    terminator,
		PercentFormat: format,
		header:        regexp.MustCompile(pattern),
	}
}

// ExtractGroups finds every top-level group header in label, in order.
// A label without headers yields no groups and no error. Headers whose
// percent cannot be converted are skipped and reported through the
// returned error, which then wraps ErrMalformedPercent; the groups that
// did convert are returned alongside it.
func (g *Grammar) ExtractGroups(label string) ([]RawGroup, error) {
	// Decomposed Å/Ø would otherwise split a header name at the combining mark.
	text := reWhitespace.ReplaceAllString(strings.TrimSpace(norm.NFC.String(label)), " ")
	if text == "" {
		return nil, nil
	}

	type header struct {
		start, end int
		name       string
		percent    string
	}

	var headers []header
	for _, m := range g.header.FindAllStringSubmatchIndex(text, -1) {
		start := m[0]
		// Part of a longer word, e.g. the tail of "ekstraFYLL".
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); start > 0 && unicode.IsLetter(r) {
			continue
		}
		// Nested declarations stay inside their parent's sub span.
		if depthAt(text, start) > 0 {
			continue
		}
		token := submatch(text, m, 2)
		if token == "" {
			token = submatch(text, m, 3)
		}
		headers = append(headers, header{
			start:   start,
			end:     m[1],
			name:    strings.TrimSpace(submatch(text, m, 1)),
			percent: token,
		})
	}

	var groups []RawGroup
	var errs []error
	for i, h := range headers {
		spanEnd := len(text)
		if i+1 < len(headers) {
			spanEnd = headers[i+1].start
		}

		percent, err := g.parsePercent(h.percent)
		if err != nil {
			errs = append(errs, &PercentError{Group: h.name, Token: h.percent, Err: err})
			continue
		}

		groups = append(groups, RawGroup{
			Name:    h.name,
			Percent: percent,
			SubSpan: text[h.end:spanEnd],
		})
	}

	return groups, errors.Join(errs...)
}

// Extract parses label into a record of groups with normalized sub-ingredients.
func (g *Grammar) Extract(_ context.Context, label string) (Record, error) {
	raw, err := g.ExtractGroups(label)

	groups := make([]Group, 0, len(raw))
	for _, rg := range raw {
		groups = append(groups, Group{
			Name:    rg.Name,
			Percent: rg.Percent,
			Sub:     NormalizeAll(Segment(cleanSubSpan(rg.SubSpan), ',')),
		})
	}

	return Assemble(groups), err
}

func (g *Grammar) parsePercent(token string) (float64, error) {
	token = strings.ReplaceAll(strings.TrimSpace(token), ",", ".")

	valid := reDecimalPercent
	if g.PercentFormat == PercentInteger {
		valid = reIntegerPercent
	}
	if !valid.MatchString(token) {
		return 0, fmt.Errorf("not a %s percent", g.PercentFormat)
	}

	percent, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, err
	}
	if percent < 0 || percent > 100 {
		return 0, fmt.Errorf("%v is outside 0-100", percent)
	}
	return percent, nil
}

// cleanSubSpan strips the separators left around a sub span and unwraps one
// pair of parentheses enclosing the whole span.
func cleanSubSpan(span string) string {
	span = strings.Trim(span, " ,.;:")
	if strings.HasPrefix(span, "(") && closingParen(span) == len(span)-1 {
		span = strings.Trim(span[1:len(span)-1], " ,.;:")
	}
	return span
}

// closingParen returns the byte offset of the ")" matching the "(" at
// offset 0, or -1 when it is never closed.
func closingParen(s string) int {
	depth := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func submatch(text string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return text[m[2*n]:m[2*n+1]]
}
