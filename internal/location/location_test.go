package location

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navsync/internal/narrow"
)

type countingBadge struct{ resets int }

func (b *countingBadge) Reset() { b.resets++ }

func TestFragmentOf(t *testing.T) {
	cases := map[string]string{
		"https://x.test/":                 "#",
		"https://x.test/#":                "#",
		"https://x.test/#settings/a":      "#settings/a",
		"https://x.test/#narrow/a#b":      "#narrow/ab",
		"https://x.test/path#narrow/is/x": "#narrow/is/x",
	}
	for in, want := range cases {
		assert.Equal(t, want, FragmentOf(in), in)
	}

	c := Change{OldURL: "https://x.test/#settings", NewURL: "https://x.test/"}
	assert.Equal(t, "#settings", c.OldFragment())
	assert.Equal(t, "#", c.NewFragment())
	assert.NotEmpty(t, NewChange("a", "b").ID)
}

func TestMemory_NavigateEmitsChanges(t *testing.T) {
	m := NewMemory("https://chat.test", "")

	h, err := m.Hash()
	require.NoError(t, err)
	assert.Equal(t, "", h)

	m.Navigate("#settings")
	m.Navigate("settings") // unchanged, no event
	m.Navigate("#narrow/stream/a")

	changes := m.Drain()
	require.Len(t, changes, 2)
	assert.Equal(t, "https://chat.test/", changes[0].OldURL)
	assert.Equal(t, "https://chat.test/#settings", changes[0].NewURL)
	assert.Equal(t, "#narrow/stream/a", changes[1].NewFragment())

	require.True(t, m.Back())
	h, _ = m.Hash()
	assert.Equal(t, "#settings", h)
	require.True(t, m.Forward())
	assert.False(t, m.Forward())
	assert.Len(t, m.Drain(), 2)
}

func TestMemory_PushStateIsSilent(t *testing.T) {
	m := NewMemory("https://chat.test", "#", WithPath("/app"))

	require.NoError(t, m.PushState("https://chat.test/app#narrow/is/private"))
	assert.Empty(t, m.Drain())
	assert.Equal(t, "https://chat.test/app#narrow/is/private", m.URL())

	entries, idx := m.History()
	assert.Equal(t, []string{"#", "#narrow/is/private"}, entries)
	assert.Equal(t, 1, idx)

	// Going back to an empty fragment from a real one is a change.
	require.True(t, m.Back())
	changes := m.Drain()
	require.Len(t, changes, 1)
	assert.Equal(t, "#", changes[0].NewFragment())
	assert.False(t, m.Back())
}

func TestMemory_DropsWhenFull(t *testing.T) {
	m := NewMemory("https://chat.test", "", WithChangeBuffer(1))
	m.Navigate("#a")
	m.Navigate("#b")
	assert.Equal(t, 1, m.Dropped())
	assert.Len(t, m.Drain(), 1)
}

func TestWriter_PrefersPushState(t *testing.T) {
	m := NewMemory("https://chat.test/", "")
	badge := &countingBadge{}
	w := NewWriter(m, narrow.Codec{}, badge, nil)

	var hooks int
	w.OnBeforeChange(func() { hooks++ })

	require.NoError(t, w.ChangeTo("narrow/stream/Denmark"))
	h, _ := m.Hash()
	assert.Equal(t, "#narrow/stream/Denmark", h)
	assert.Equal(t, "https://chat.test/#narrow/stream/Denmark", m.URL())
	assert.Empty(t, m.Drain())
	assert.Equal(t, 1, hooks)
	assert.Equal(t, 1, badge.resets)

	expected, ok := w.Expected()
	require.True(t, ok)
	assert.Equal(t, "#narrow/stream/Denmark", expected)
}

func TestWriter_EmptyPathDefaultsToRoot(t *testing.T) {
	m := NewMemory("https://chat.test", "", WithPath(""))
	w := NewWriter(m, narrow.Codec{}, nil, nil)

	require.NoError(t, w.Write("#settings"))
	assert.Equal(t, "https://chat.test/#settings", m.LastPushed())

	m2 := NewMemory("https://chat.test", "", WithPath("app"))
	require.NoError(t, NewWriter(m2, narrow.Codec{}, nil, nil).Write(""))
	assert.Equal(t, "https://chat.test/app#", m2.LastPushed())
}

func TestWriter_FallsBackToAssignment(t *testing.T) {
	m := NewMemory("https://chat.test", "", WithoutPushState())
	w := NewWriter(m, narrow.Codec{}, nil, nil)

	require.NoError(t, w.SaveFilter(narrow.Filter{{Operator: "stream", Operand: "Denmark"}}))
	changes := m.Drain()
	require.Len(t, changes, 1)
	assert.Equal(t, "#narrow/stream/Denmark", changes[0].NewFragment())
	assert.Error(t, m.PushState("https://chat.test/#x"))
}

func TestWriter_GuardSuppressesWrites(t *testing.T) {
	m := NewMemory("https://chat.test", "#home")
	badge := &countingBadge{}
	w := NewWriter(m, narrow.Codec{}, badge, nil)

	w.Hold(func() {
		assert.True(t, w.Held())
		require.NoError(t, w.ChangeTo("#settings"))
		require.NoError(t, w.SaveFilter(narrow.Filter{{Operator: "is", Operand: "starred"}}))
	})
	assert.False(t, w.Held())

	h, _ := m.Hash()
	assert.Equal(t, "#home", h)
	assert.Zero(t, badge.resets)
	_, ok := w.Expected()
	assert.False(t, ok)

	require.NoError(t, w.SaveFilter(nil))
	h, _ = m.Hash()
	assert.Equal(t, "", h)
}

type rejectingPush struct{ *Memory }

func (rejectingPush) PushState(string) error { return errors.New("history.pushState: eval failed") }

func TestWriter_FailedWriteLeavesNoExpectation(t *testing.T) {
	m := NewMemory("https://chat.test", "")
	badge := &countingBadge{}
	w := NewWriter(rejectingPush{m}, narrow.Codec{}, badge, nil)

	err := w.SaveFilter(narrow.Filter{{Operator: "stream", Operand: "Denmark"}})
	require.Error(t, err)

	_, ok := w.Expected()
	assert.False(t, ok)
	assert.Zero(t, badge.resets)
	h, _ := m.Hash()
	assert.Equal(t, "", h)
}
