// Package narrow encodes content filters ("narrows") into navigation
// fragments and decodes them back.
//
// A fragment has the shape
//
//	#narrow/<sign><operator>/<operand>/<sign><operator>/<operand>...
//
// where <sign> is empty or "-" and every component uses the alphabet produced
// by EncodeComponent. Operands of contact-address operators may instead carry
// a compact slug resolved through a Directory.
package narrow

import (
	"errors"
	"strings"
)

// Marker is the first path segment of every narrow fragment.
const Marker = "#narrow"

// Operators whose operands are contact-address lists.
const (
	OperatorPMWith = "pm-with"
	OperatorSender = "sender"
)

// ErrMalformedFilter is returned when any component of a narrow fragment
// fails to decode. It always wraps the component error.
var ErrMalformedFilter = errors.New("malformed narrow filter")

// Term is one operator/operand pair of a filter.
type Term struct {
	Operator string
	Operand  string
	Negated  bool
}

// Filter is an ordered list of terms. A nil Filter means "no filter" and
// encodes as the home fragment; an empty non-nil Filter encodes as the bare
// narrow marker.
type Filter []Term

// String renders the filter in search-box form, e.g. "stream:Denmark -topic:party".
func (f Filter) String() string {
	parts := make([]string, 0, len(f))
	for _, t := range f {
		sign := ""
		if t.Negated {
			sign = "-"
		}
		parts = append(parts, sign+t.Operator+":"+t.Operand)
	}
	return strings.Join(parts, " ")
}

// HasContactOperator reports whether any term uses a contact-address operator.
func (f Filter) HasContactOperator() bool {
	for _, t := range f {
		if isContactOperator(t.Operator) {
			return true
		}
	}
	return false
}

// Directory maps contact-address lists to compact slugs and back.
type Directory interface {
	EmailsToSlug(emails string) (string, bool)
	SlugToEmails(slug string) (string, bool)
}

func isContactOperator(op string) bool {
	return op == OperatorPMWith || op == OperatorSender
}
