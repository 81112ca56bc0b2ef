package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitterEmptyInput(t *testing.T) {
	s := NewSplitter(1000, 200)
	require.Empty(t, s.Split(""))
	require.Empty(t, s.Split("   \n\t "))
}

func TestSplitterShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(1000, 200)
	text := "the quick brown fox jumps over the lazy dog"
	chunks := s.Split(text)
	require.Len(t, chunks, 1)
	require.Equal(t, text, chunks[0])
}

func TestSplitterRespectsSizeTarget(t *testing.T) {
	s := NewSplitter(100, 20)
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("this is a plain sentence about lecture content. ")
	}
	chunks := s.Split(b.String())
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		require.LessOrEqual(t, len([]rune(c)), 100, "chunk exceeds size target: %q", c)
		require.Equal(t, strings.TrimSpace(c), c)
		require.NotEmpty(t, c)
	}
}

func TestSplitterOverlapCarriesContext(t *testing.T) {
	s := NewSplitter(60, 30)
	text := "alpha beta gamma. delta epsilon zeta. eta theta iota. kappa lambda mu. nu xi omicron."
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	// Consecutive chunks share trailing context from the previous one.
	found := false
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		head := strings.SplitN(chunks[i], ".", 2)[0]
		if head != "" && strings.Contains(prev, head) {
			found = true
		}
	}
	require.True(t, found, "expected overlap between consecutive chunks: %#v", chunks)
}

func TestSplitterPrefersHigherPrioritySeparator(t *testing.T) {
	s := NewSplitter(25, 0)
	text := "first paragraph here\n\nsecond paragraph here\n\nthird paragraph here"
	chunks := s.Split(text)
	require.Equal(t, []string{"first paragraph here", "second paragraph here", "third paragraph here"}, chunks)
}

func TestSplitterFallsBackToWords(t *testing.T) {
	// No sentence punctuation at all; the space separator has to carry it.
	s := NewSplitter(30, 0)
	text := strings.Repeat("lecture ", 20)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		require.LessOrEqual(t, len([]rune(c)), 30)
	}
}

func TestSplitterOversizedUnsplittableToken(t *testing.T) {
	s := NewSplitter(10, 0)
	text := strings.Repeat("x", 25)
	chunks := s.Split(text)
	require.NotEmpty(t, chunks)
	joined := strings.Join(chunks, "")
	require.Equal(t, text, joined)
}
