package transcribe

import (
	"context"
	"fmt"
	"strings"

	"lectureflow/internal/config"
	"lectureflow/internal/models"
)

// Transcriber turns an extracted audio file into a timed transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (models.Transcript, error)
}

func New(cfg config.Config) (Transcriber, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Transcriber)) {
	case "", "mock":
		return NewMockTranscriber(), nil
	case "whisper":
		return NewWhisperTranscriber(cfg.WhisperBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported transcriber: %s", cfg.Transcriber)
	}
}
