package search

import "strings"

// Comparator applied by a filter term. Non-date fields only honor CmpEq.
type Comparator string

const (
	CmpEq Comparator = "="
	CmpLt Comparator = "<"
	CmpLe Comparator = "<="
	CmpGt Comparator = ">"
	CmpGe Comparator = ">="
)

// Term is a single predicate: bare text (Field == "") or a field filter.
type Term struct {
	Negated bool
	Field   string
	Cmp     Comparator
	Value   string
}

// Clause is an AND of terms.
type Clause struct {
	Terms []Term
}

// Query is an OR of clauses. An empty query has no clauses and matches
// nothing.
type Query struct {
	Clauses []Clause
}

func (q Query) Empty() bool {
	return len(q.Clauses) == 0
}

// Known filter fields. Anything else falls back to literal text so that
// inputs like "re: meeting" still search titles.
var knownFields = map[string]string{
	"status":   "status",
	"context":  "context",
	"contexts": "context",
	"tag":      "tag",
	"tags":     "tag",
	"project":  "project",
	"due":      "due",
	"start":    "start",
	"review":   "review",
	"created":  "created",
}

// Parse builds the query AST. Parsing never fails: malformed terms degrade
// to text matches. Quoted tokens are always literal text, so a quoted "OR"
// searches for the word instead of starting a clause.
func Parse(query string) Query {
	tokens := tokenize(query)
	var q Query
	var current Clause
	endClause := func() {
		if len(current.Terms) > 0 {
			q.Clauses = append(q.Clauses, current)
			current = Clause{}
		}
	}
	for _, tok := range tokens {
		if !tok.quoted && (tok.text == "OR" || tok.text == "|" || tok.text == "||") {
			endClause()
			continue
		}
		current.Terms = append(current.Terms, parseTerm(tok))
	}
	endClause()
	return q
}

func parseTerm(tok token) Term {
	var term Term
	t := tok.text
	if tok.quoted {
		term.Value = t
		return term
	}
	if strings.HasPrefix(t, "-") && len(t) > 1 {
		term.Negated = true
		t = t[1:]
	}
	// A bare @-token is shorthand for a hierarchical context filter.
	if strings.HasPrefix(t, "@") {
		term.Field = "context"
		term.Cmp = CmpEq
		term.Value = t
		return term
	}
	field, rest, ok := strings.Cut(t, ":")
	canonical, known := knownFields[strings.ToLower(field)]
	if !ok || !known {
		term.Value = t
		return term
	}
	term.Field = canonical
	term.Cmp, term.Value = cutComparator(rest)
	return term
}

func cutComparator(v string) (Comparator, string) {
	switch {
	case strings.HasPrefix(v, "<="):
		return CmpLe, v[2:]
	case strings.HasPrefix(v, ">="):
		return CmpGe, v[2:]
	case strings.HasPrefix(v, "<"):
		return CmpLt, v[1:]
	case strings.HasPrefix(v, ">"):
		return CmpGt, v[1:]
	case strings.HasPrefix(v, "="):
		return CmpEq, v[1:]
	default:
		return CmpEq, v
	}
}
