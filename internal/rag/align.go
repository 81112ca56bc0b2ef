package rag

import (
	"math"
	"strings"

	"lectureflow/internal/models"
)

const (
	anchorWords      = 5
	fallbackSpanSecs = 30.0
)

// JoinSegmentTexts concatenates all segment texts with single spaces, the
// same form the splitter chunks.
func JoinSegmentTexts(t models.Transcript) string {
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// AlignChunk maps a re-chunked text span back onto the original segment
// timeline. The first segment containing the chunk's leading five-word
// anchor sets the start; every segment containing the trailing anchor
// overwrites the end, so the last match wins. When either anchor misses
// (re-chunking can split across segment boundaries), the chunk's character
// offset in the concatenated transcript estimates a start proportional to
// the total duration with an assumed 30 second span. Chunks not found
// verbatim keep (0, 0).
func AlignChunk(chunkText string, transcript models.Transcript) (float64, float64) {
	words := strings.Fields(chunkText)
	n := anchorWords
	if len(words) < n {
		n = len(words)
	}
	firstAnchor := strings.ToLower(strings.Join(words[:n], " "))
	lastAnchor := strings.ToLower(strings.Join(words[len(words)-n:], " "))

	start, end := 0.0, 0.0
	for _, seg := range transcript.Segments {
		segText := strings.ToLower(strings.TrimSpace(seg.Text))
		if start == 0.0 && strings.Contains(segText, firstAnchor) {
			start = seg.Start
		}
		if strings.Contains(segText, lastAnchor) {
			end = seg.End
		}
	}

	if start == 0.0 || end == 0.0 {
		full := JoinSegmentTexts(transcript)
		if offset := strings.Index(full, chunkText); offset >= 0 && transcript.Duration > 0 && len(full) > 0 {
			start = float64(offset) / float64(len(full)) * transcript.Duration
			end = math.Min(start+fallbackSpanSecs, transcript.Duration)
		}
	}
	return start, end
}

// ChunkDuration clamps inverted spans to zero; substring matching alone
// does not guarantee end >= start.
func ChunkDuration(start, end float64) float64 {
	if end > start {
		return end - start
	}
	return 0
}
