package narrow

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ErrMalformedComponent is returned when a fragment component does not
// percent-decode cleanly.
var ErrMalformedComponent = errors.New("malformed fragment component")

const upperhex = "0123456789ABCDEF"

// EncodeComponent escapes s for embedding in a single fragment path segment.
//
// The result is encodeURIComponent output with every '.' written as %2E and
// then every '%' written as '.', so browsers that auto-decode percent
// sequences in location.hash leave it untouched. Invalid UTF-8 is replaced
// with U+FFFD first, so the result always decodes.
func EncodeComponent(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '.':
			b.WriteString(".2E")
		case isUnreserved(c):
			b.WriteByte(c)
		default:
			b.WriteByte('.')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

// DecodeComponent reverses EncodeComponent.
func DecodeComponent(s string) (string, error) {
	out, err := url.PathUnescape(strings.ReplaceAll(s, ".", "%"))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedComponent, s, err)
	}
	if !utf8.ValidString(out) {
		return "", fmt.Errorf("%w: %q is not valid UTF-8", ErrMalformedComponent, s)
	}
	return out, nil
}

// isUnreserved reports whether encodeURIComponent leaves c as is.
func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
