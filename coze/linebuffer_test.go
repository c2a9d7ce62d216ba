package coze

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleStream = "data: {\"event\":\"message\",\"message\":{\"role\":\"assistant\",\"type\":\"answer\",\"content\":\"你好\"}}\n" +
	"\n" +
	": keep-alive\r\n" +
	"data: {\"event\":\"message\",\"message\":{\"role\":\"assistant\",\"type\":\"answer\",\"content\":\" world\"}}\n" +
	"data: {\"event\":\"done\"}\n" +
	"data: {\"event\":\"tra"

func feedAll(b *LineBuffer, fragments []string) []string {
	var out []string
	for _, f := range fragments {
		lines, err := b.Feed([]byte(f))
		if err != nil {
			panic(err)
		}
		out = append(out, lines...)
	}
	return out
}

func TestLineBuffer_SingleFragment(t *testing.T) {
	b := NewLineBuffer(0)
	lines, err := b.Feed([]byte("a\nb\n\nc"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", ""}, lines)
	require.Equal(t, "c", b.Pending())
}

func TestLineBuffer_NoLineBeforeNewline(t *testing.T) {
	b := NewLineBuffer(0)
	lines, err := b.Feed([]byte("data: {\"event\""))
	require.NoError(t, err)
	require.Empty(t, lines)

	lines, err = b.Feed([]byte(":\"done\"}"))
	require.NoError(t, err)
	require.Empty(t, lines)

	lines, err = b.Feed([]byte("\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"data: {\"event\":\"done\"}"}, lines)
	require.Empty(t, b.Pending())
}

func TestLineBuffer_SplitInvariance_AllTwoWaySplits(t *testing.T) {
	want := feedAll(NewLineBuffer(0), []string{sampleStream})
	wantPending := "data: {\"event\":\"tra"

	for i := 0; i <= len(sampleStream); i++ {
		b := NewLineBuffer(0)
		got := feedAll(b, []string{sampleStream[:i], sampleStream[i:]})
		require.Equal(t, want, got, "split at %d", i)
		require.Equal(t, wantPending, b.Pending(), "split at %d", i)
	}
}

func TestLineBuffer_SplitInvariance_RandomSplits(t *testing.T) {
	want := feedAll(NewLineBuffer(0), []string{sampleStream})
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		var fragments []string
		rest := sampleStream
		for len(rest) > 0 {
			n := rng.Intn(len(rest)) + 1
			if n > 7 {
				n = rng.Intn(7) + 1
			}
			fragments = append(fragments, rest[:n])
			rest = rest[n:]
		}
		b := NewLineBuffer(0)
		require.Equal(t, want, feedAll(b, fragments), "round %d: %q", round, fragments)
		require.Equal(t, "data: {\"event\":\"tra", b.Pending())
	}
}

func TestLineBuffer_MultiByteRuneAcrossFragments(t *testing.T) {
	text := "data: 你好\n"
	raw := []byte(text)
	b := NewLineBuffer(0)

	var lines []string
	for i := range raw {
		out, err := b.Feed(raw[i : i+1])
		require.NoError(t, err)
		lines = append(lines, out...)
	}
	require.Equal(t, []string{"data: 你好"}, lines)
}

func TestLineBuffer_Flush(t *testing.T) {
	b := NewLineBuffer(0)
	_, err := b.Feed([]byte("x\ndata: {\"event\":\"done\"}"))
	require.NoError(t, err)

	tail, ok := b.Flush()
	require.True(t, ok)
	require.Equal(t, "data: {\"event\":\"done\"}", tail)

	_, ok = b.Flush()
	require.False(t, ok)
	require.Empty(t, b.Pending())
}

func TestLineBuffer_LineTooLong(t *testing.T) {
	b := NewLineBuffer(8)
	lines, err := b.Feed([]byte("ok\n" + strings.Repeat("x", 9)))
	require.ErrorIs(t, err, ErrLineTooLong)
	require.Equal(t, []string{"ok"}, lines)
	require.Empty(t, b.Pending())
}

func TestLineBuffer_ZeroValueUsable(t *testing.T) {
	var b LineBuffer
	lines, err := b.Feed([]byte("a\nb"))
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, lines)
	require.Equal(t, "b", b.Pending())
}
