// Package search implements the structured query language used to filter
// tasks and projects: whitespace-separated terms are AND-ed into clauses,
// clauses are OR-ed together, and each term is bare text, an @-prefixed
// context shorthand, or a field:comparator:value filter.
package search

import "strings"

// token is a raw query word. Quoted tokens are always literal text: quoting
// protects whitespace, clause separators, and filter syntax alike.
type token struct {
	text   string
	quoted bool
}

// tokenize splits a query on whitespace while keeping quoted substrings
// together. Quotes are stripped from the emitted token; an unterminated
// quote runs to the end of the input.
func tokenize(query string) []token {
	tokens := make([]token, 0, 8)
	var buf strings.Builder
	inQuote := false
	sawQuote := false
	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, token{text: buf.String(), quoted: sawQuote})
			buf.Reset()
		}
		sawQuote = false
	}
	for _, r := range query {
		switch {
		case r == '"':
			inQuote = !inQuote
			sawQuote = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return tokens
}
