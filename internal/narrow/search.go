package narrow

import (
	"errors"
	"fmt"
	"strings"
)

// OperatorSearch holds free text that is not an operator:operand pair.
const OperatorSearch = "search"

// ErrMalformedSearch is returned by ParseFilter for unbalanced quotes.
var ErrMalformedSearch = errors.New("malformed search")

// ParseFilter reads the search-box form produced by Filter.String.
// Operands containing spaces may be double-quoted, as in
// `topic:"party time"`. Words without an operator are collected into one
// trailing search term. An empty query yields an empty filter.
func ParseFilter(query string) (Filter, error) {
	words, err := splitQuoted(query)
	if err != nil {
		return nil, err
	}
	f := Filter{}
	var text []string
	for _, w := range words {
		op, operand, ok := strings.Cut(w, ":")
		if !ok || op == "" || op == "-" {
			text = append(text, w)
			continue
		}
		negated := strings.HasPrefix(op, "-")
		f = append(f, Term{Operator: strings.TrimPrefix(op, "-"), Operand: operand, Negated: negated})
	}
	if len(text) > 0 {
		f = append(f, Term{Operator: OperatorSearch, Operand: strings.Join(text, " ")})
	}
	return f, nil
}

// splitQuoted splits on spaces outside double quotes and drops the quotes.
func splitQuoted(s string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case r == ' ' && !quoted:
			if pending {
				words = append(words, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("%w: unclosed quote in %q", ErrMalformedSearch, s)
	}
	if pending {
		words = append(words, cur.String())
	}
	return words, nil
}
