package narrow

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	slugs map[string]string // emails -> slug
}

func (d fakeDirectory) EmailsToSlug(emails string) (string, bool) {
	s, ok := d.slugs[emails]
	return s, ok
}

func (d fakeDirectory) SlugToEmails(slug string) (string, bool) {
	for emails, s := range d.slugs {
		if s == slug {
			return emails, true
		}
	}
	return "", false
}

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Denmark", "Denmark"},
		{"", ""},
		{"a.b", "a.2Eb"},
		{"a b", "a.20b"},
		{"100%", "100.25"},
		{"x/y", "x.2Fy"},
		{"it's (ok)!*~", "it's.20(ok)!*~"},
		{"café", "caf.C3.A9"},
		{"a#b&c=d+e", "a.23b.26c.3Dd.2Be"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeComponent(tt.in))
		})
	}
}

func TestComponentRoundTrip(t *testing.T) {
	inputs := []string{
		"", "plain", "dots...", "%%%", ".2E", "%2E", "slash/and/slashes",
		"spaces and\ttabs", "emoji 🎉", "日本語", "-leading dash", "mixed.%/#?&=+",
	}
	for _, in := range inputs {
		out, err := DecodeComponent(EncodeComponent(in))
		require.NoError(t, err, in)
		assert.Equal(t, in, out)
	}
}

func TestEncodeComponent_InvalidUTF8(t *testing.T) {
	enc := EncodeComponent("a\xffb")
	assert.Equal(t, "a.EF.BF.BDb", enc)
	out, err := DecodeComponent(enc)
	require.NoError(t, err)
	assert.Equal(t, "a\uFFFDb", out)

	// A filter holding a broken operand still decodes after encoding.
	c := NewCodec(nil)
	f, err := c.Decode(c.Encode(Filter{{Operator: "topic", Operand: "caf\xe9"}}))
	require.NoError(t, err)
	assert.Equal(t, Filter{{Operator: "topic", Operand: "caf\uFFFD"}}, f)
}

func TestDecodeComponent_Malformed(t *testing.T) {
	for _, in := range []string{"%", "abc%zz", ".", "x.4", ".FF"} {
		_, err := DecodeComponent(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrMalformedComponent), in)
	}
}

func TestEncode(t *testing.T) {
	var c Codec

	assert.Equal(t, "#narrow/stream/Denmark",
		c.Encode(Filter{{Operator: "stream", Operand: "Denmark"}}))
	assert.Equal(t, "#", c.Encode(nil))
	assert.Equal(t, "#narrow", c.Encode(Filter{}))
	assert.Equal(t, "#narrow/stream/Den.20mark/-topic/party.2Etime",
		c.Encode(Filter{
			{Operator: "stream", Operand: "Den mark"},
			{Operator: "topic", Operand: "party.time", Negated: true},
		}))
}

func TestDecode(t *testing.T) {
	var c Codec
	tests := []struct {
		name     string
		fragment string
		want     Filter
	}{
		{
			name:     "stream and topic",
			fragment: "#narrow/stream/Denmark/topic/party",
			want: Filter{
				{Operator: "stream", Operand: "Denmark"},
				{Operator: "topic", Operand: "party"},
			},
		},
		{
			name:     "negated",
			fragment: "#narrow/-stream/Denmark",
			want:     Filter{{Operator: "stream", Operand: "Denmark", Negated: true}},
		},
		{
			name:     "missing operand",
			fragment: "#narrow/stream",
			want:     Filter{{Operator: "stream", Operand: ""}},
		},
		{
			name:     "bare marker",
			fragment: "#narrow",
			want:     Filter{},
		},
		{
			name:     "escaped operand",
			fragment: "#narrow/is/private/search/a.2Eb.20c",
			want: Filter{
				{Operator: "is", Operand: "private"},
				{Operator: "search", Operand: "a.b c"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Decode(tt.fragment)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tt.fragment, diff)
			}
		})
	}
}

func TestDecode_MalformedIsAllOrNothing(t *testing.T) {
	var c Codec

	got, err := c.Decode("#narrow/stream/Denmark/topic/50%")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrMalformedFilter))
	assert.True(t, errors.Is(err, ErrMalformedComponent))

	_, err = c.DecodeTokens([]string{"#narrow", "bad%operator", "x"})
	assert.True(t, errors.Is(err, ErrMalformedFilter))
}

func TestFilterRoundTrip(t *testing.T) {
	var c Codec
	filters := []Filter{
		{},
		{{Operator: "stream", Operand: "Denmark"}},
		{{Operator: "stream", Operand: "a/b"}, {Operator: "topic", Operand: "c.d", Negated: true}},
		{{Operator: "search", Operand: "100% sure"}, {Operator: "is", Operand: ""}},
		{{Operator: "near", Operand: "42"}, {Operator: "has", Operand: "link", Negated: true}},
		{{Operator: "stream", Operand: "ünïcødé 🚀"}},
	}
	for _, f := range filters {
		got, err := c.Decode(c.Encode(f))
		require.NoError(t, err)
		if diff := cmp.Diff(f, got); diff != "" {
			t.Errorf("round trip of %v mismatch (-want +got):\n%s", f, diff)
		}
	}
}

func TestContactOperands(t *testing.T) {
	c := NewCodec(fakeDirectory{slugs: map[string]string{
		"alice@example.com":                 "3-alice",
		"alice@example.com,bob@example.com": "3,7-group",
	}})

	f := Filter{{Operator: OperatorPMWith, Operand: "alice@example.com,bob@example.com"}}
	assert.Equal(t, "#narrow/pm-with/3,7-group", c.Encode(f))

	got, err := c.Decode("#narrow/pm-with/3,7-group")
	require.NoError(t, err)
	assert.Equal(t, f, got)

	got, err = c.Decode("#narrow/-sender/3-alice")
	require.NoError(t, err)
	assert.Equal(t, Filter{{Operator: OperatorSender, Operand: "alice@example.com", Negated: true}}, got)

	// Unknown addresses fall back to generic escaping.
	unknown := Filter{{Operator: OperatorSender, Operand: "carol@example.com"}}
	assert.Equal(t, "#narrow/sender/carol.40example.2Ecom", c.Encode(unknown))
	got, err = c.Decode(c.Encode(unknown))
	require.NoError(t, err)
	assert.Equal(t, unknown, got)

	// Slugs only apply to contact operators.
	got, err = c.Decode("#narrow/stream/3-alice")
	require.NoError(t, err)
	assert.Equal(t, "3-alice", got[0].Operand)
}

func TestURIBuilders(t *testing.T) {
	c := NewCodec(fakeDirectory{slugs: map[string]string{"alice@example.com": "3-alice"}})

	assert.Equal(t, "#narrow/stream/Verona", ByStreamURI("Verona"))
	assert.Equal(t, "#narrow/stream/Verona/topic/lunch.20plans", ByStreamTopicURI("Verona", "lunch plans"))
	assert.Equal(t, "#narrow/pm-with/3-alice", c.PMWithURI("alice@example.com"))
	assert.Equal(t, "#narrow/sender/3-alice", c.BySenderURI("alice@example.com"))
	assert.True(t, IsNarrow(ByStreamURI("x")))
	assert.True(t, IsNarrow("#narrow"))
	assert.False(t, IsNarrow("#settings/narrow"))
}

func TestFilterString(t *testing.T) {
	f := Filter{{Operator: "stream", Operand: "Denmark"}, {Operator: "topic", Operand: "party", Negated: true}}
	assert.Equal(t, "stream:Denmark -topic:party", f.String())
	assert.False(t, f.HasContactOperator())
	assert.True(t, append(f, Term{Operator: OperatorSender}).HasContactOperator())
	assert.True(t, strings.HasPrefix(Codec{}.Encode(f), Marker))
}
