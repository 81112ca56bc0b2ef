package transcribe

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"lectureflow/internal/models"
)

// MockTranscriber produces a deterministic transcript derived from the
// audio filename. It lets the full pipeline run end to end without a
// speech-to-text backend.
type MockTranscriber struct{}

func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (models.Transcript, error) {
	_ = ctx
	name := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	if name == "" {
		name = "lecture"
	}
	segments := make([]models.TranscriptSegment, 0, 4)
	for i := 0; i < 4; i++ {
		start := float64(i * 15)
		segments = append(segments, models.TranscriptSegment{
			Start: start,
			End:   start + 15,
			Text:  fmt.Sprintf("Mock transcript for %s, part %d of 4, covering one topic of the lecture.", name, i+1),
		})
	}
	return models.Transcript{Segments: segments, Language: "en", Duration: 60}, nil
}
