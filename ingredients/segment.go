package ingredients

import "strings"

// Segment splits text on delimiter, ignoring delimiters inside parentheses.
// Segments are trimmed and empty ones are dropped. A stray ")" never pushes
// the depth below zero, and an unterminated "(" keeps the rest of the text
// in the current segment.
func Segment(text string, delimiter rune) []string {
	var parts []string
	var current strings.Builder
	depth := 0

	flush := func() {
		part := strings.TrimSpace(current.String())
		if part != "" {
			parts = append(parts, part)
		}
		current.Reset()
	}

	for _, c := range text {
		switch c {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
		if c == delimiter && depth == 0 {
			flush()
			continue
		}
		current.WriteRune(c)
	}
	flush()

	return parts
}

// depthAt returns the parenthesis depth in front of byte offset pos.
func depthAt(text string, pos int) int {
	depth := 0
	for _, c := range text[:pos] {
		switch c {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth
}
