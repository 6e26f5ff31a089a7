package narrow

import (
	"fmt"
	"strings"
)

// Codec encodes and decodes filters. The zero value is usable and treats
// every operand generically.
type Codec struct {
	Directory Directory
}

// NewCodec returns a codec that resolves contact slugs through dir.
func NewCodec(dir Directory) Codec {
	return Codec{Directory: dir}
}

// EncodeOperand escapes operand for operator. Contact-address operands are
// replaced by their directory slug when one exists.
func (c Codec) EncodeOperand(operator, operand string) string {
	if isContactOperator(operator) && c.Directory != nil {
		if slug, ok := c.Directory.EmailsToSlug(operand); ok {
			return slug
		}
	}
	return EncodeComponent(operand)
}

// DecodeOperand reverses EncodeOperand. raw is the token as it appears in
// the fragment.
func (c Codec) DecodeOperand(operator, raw string) (string, error) {
	if isContactOperator(operator) && c.Directory != nil {
		if emails, ok := c.Directory.SlugToEmails(raw); ok {
			return emails, nil
		}
	}
	return DecodeComponent(raw)
}

// Encode renders f as a fragment.
func (c Codec) Encode(f Filter) string {
	if f == nil {
		return "#"
	}
	var b strings.Builder
	b.WriteString(Marker)
	for _, t := range f {
		b.WriteByte('/')
		if t.Negated {
			b.WriteByte('-')
		}
		b.WriteString(EncodeComponent(t.Operator))
		b.WriteByte('/')
		b.WriteString(c.EncodeOperand(t.Operator, t.Operand))
	}
	return b.String()
}

// Decode parses a narrow fragment. The first path segment is not inspected.
func (c Codec) Decode(fragment string) (Filter, error) {
	return c.DecodeTokens(strings.Split(fragment, "/"))
}

// DecodeTokens parses a fragment already split on '/'. Token 0 is skipped,
// odd tokens are operators and each is followed by its operand; a missing
// trailing operand decodes as "". Either the whole filter decodes or an
// error wrapping ErrMalformedFilter is returned.
func (c Codec) DecodeTokens(tokens []string) (Filter, error) {
	f := Filter{}
	for i := 1; i < len(tokens); i += 2 {
		op, err := DecodeComponent(tokens[i])
		if err != nil {
			return nil, fmt.Errorf("%w: operator %d: %w", ErrMalformedFilter, i/2, err)
		}
		negated := false
		if strings.HasPrefix(op, "-") {
			negated = true
			op = op[1:]
		}
		raw := ""
		if i+1 < len(tokens) {
			raw = tokens[i+1]
		}
		operand, err := c.DecodeOperand(op, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: operand of %q: %w", ErrMalformedFilter, op, err)
		}
		f = append(f, Term{Operator: op, Operand: operand, Negated: negated})
	}
	return f, nil
}

// IsNarrow reports whether fragment is a narrow fragment.
func IsNarrow(fragment string) bool {
	head, _, _ := strings.Cut(fragment, "/")
	return head == Marker
}
