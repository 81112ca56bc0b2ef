package rag

import (
	"testing"

	"lectureflow/internal/models"

	"github.com/stretchr/testify/require"
)

func transcriptOf(segments ...models.TranscriptSegment) models.Transcript {
	t := models.Transcript{Segments: segments, Language: "en"}
	if len(segments) > 0 {
		t.Duration = segments[len(segments)-1].End
	}
	return t
}

func TestAlignChunkBothAnchorsInOneSegment(t *testing.T) {
	tr := transcriptOf(models.TranscriptSegment{Start: 0, End: 10, Text: "the quick brown fox jumps over the lazy dog"})
	start, end := AlignChunk("the quick brown fox jumps over the lazy dog", tr)
	require.Equal(t, 0.0, start)
	require.Equal(t, 10.0, end)
}

func TestAlignChunkAnchorsAcrossSegments(t *testing.T) {
	tr := transcriptOf(
		models.TranscriptSegment{Start: 5, End: 12, Text: "welcome everyone to the first lecture of the term"},
		models.TranscriptSegment{Start: 12, End: 20, Text: "today we will talk about sorting algorithms"},
		models.TranscriptSegment{Start: 20, End: 31, Text: "let us begin with insertion sort and its invariants"},
	)
	start, end := AlignChunk(
		"welcome everyone to the first lecture of the term today we will talk about sorting algorithms let us begin with insertion sort and its invariants",
		tr,
	)
	require.Equal(t, 5.0, start)
	require.Equal(t, 31.0, end)
}

func TestAlignChunkLastMatchWinsForEnd(t *testing.T) {
	// The trailing anchor recurs; the later segment's end must win.
	tr := transcriptOf(
		models.TranscriptSegment{Start: 2, End: 8, Text: "we will prove this lemma now and move on"},
		models.TranscriptSegment{Start: 8, End: 15, Text: "unrelated middle segment text here"},
		models.TranscriptSegment{Start: 15, End: 22, Text: "again we prove this lemma now and move on"},
	)
	_, end := AlignChunk("we will prove this lemma now and move on", tr)
	require.Equal(t, 22.0, end)
}

func TestAlignChunkPositionalFallback(t *testing.T) {
	// Anchors longer than any single segment's text never match, so the
	// character-offset estimate kicks in.
	tr := transcriptOf(
		models.TranscriptSegment{Start: 0, End: 50, Text: "aaaa bbbb"},
		models.TranscriptSegment{Start: 50, End: 100, Text: "cccc dddd"},
	)
	chunk := "aaaa bbbb cccc dddd"
	start, end := AlignChunk(chunk, tr)
	require.Equal(t, 0.0, start)
	require.Equal(t, 30.0, end) // assumed 30 second span, capped at duration

	// A chunk spanning the segment boundary maps proportionally.
	chunk2 := "bbbb cccc"
	start2, end2 := AlignChunk(chunk2, tr)
	require.InDelta(t, float64(5)/float64(19)*100, start2, 1e-9)
	require.InDelta(t, start2+30, end2, 1e-9)
}

func TestAlignChunkFallbackCapsAtDuration(t *testing.T) {
	tr := transcriptOf(models.TranscriptSegment{Start: 0, End: 12, Text: "aaaa bbbb cccc"})
	start, end := AlignChunk("bbbb cccc", tr)
	require.Greater(t, start, 0.0)
	require.Equal(t, 12.0, end)
}

func TestAlignChunkNotFoundAnywhere(t *testing.T) {
	tr := transcriptOf(models.TranscriptSegment{Start: 0, End: 10, Text: "completely different words"})
	start, end := AlignChunk("this text appears nowhere in the transcript at all", tr)
	require.Equal(t, 0.0, start)
	require.Equal(t, 0.0, end)
}

func TestAlignChunkEmptyTranscript(t *testing.T) {
	start, end := AlignChunk("anything", models.Transcript{})
	require.Equal(t, 0.0, start)
	require.Equal(t, 0.0, end)
}

func TestChunkDurationClampsNegative(t *testing.T) {
	require.Equal(t, 0.0, ChunkDuration(10, 4))
	require.Equal(t, 0.0, ChunkDuration(3, 3))
	require.Equal(t, 6.0, ChunkDuration(4, 10))
}
