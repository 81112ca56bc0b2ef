package transcribe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lectureflow/internal/config"
)

func TestToTranscriptCleansSegments(t *testing.T) {
	resp := whisperResponse{
		Language: "en",
		Segments: []whisperSegment{
			{Start: 0, End: 4.5, Text: "  Welcome to the lecture.\x00 "},
			{Start: 4.5, End: 5.0, Text: "   "},
			{Start: 5.0, End: 9.0, Text: "Today we cover sorting.", Words: []whisperWord{
				{Start: 5.0, End: 5.4, Word: " Today"},
			}},
		},
	}

	tr := toTranscript(resp)
	require.Equal(t, "en", tr.Language)
	require.Len(t, tr.Segments, 2)
	require.Equal(t, "Welcome to the lecture.", tr.Segments[0].Text)
	require.Equal(t, "Today", tr.Segments[1].Words[0].Word)
	// Duration falls back to the last segment end when the server omits it.
	require.Equal(t, 9.0, tr.Duration)
}

func TestToTranscriptKeepsReportedDuration(t *testing.T) {
	resp := whisperResponse{
		Duration: 12.0,
		Segments: []whisperSegment{{Start: 0, End: 9.0, Text: "hello"}},
	}
	require.Equal(t, 12.0, toTranscript(resp).Duration)
}

func TestMockTranscriberDeterministic(t *testing.T) {
	m := NewMockTranscriber()
	a, err := m.Transcribe(context.Background(), "/tmp/audio/vid-1.wav")
	require.NoError(t, err)
	b, err := m.Transcribe(context.Background(), "/tmp/audio/vid-1.wav")
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a.Segments, 4)
	require.Equal(t, 60.0, a.Duration)
	require.Equal(t, "en", a.Language)
}

func TestNewSelectsTranscriber(t *testing.T) {
	mock, err := New(config.Config{Transcriber: "mock"})
	require.NoError(t, err)
	require.IsType(t, &MockTranscriber{}, mock)

	whisper, err := New(config.Config{Transcriber: "whisper", WhisperBaseURL: "http://whisper:8080"})
	require.NoError(t, err)
	require.IsType(t, &WhisperTranscriber{}, whisper)

	_, err = New(config.Config{Transcriber: "azure"})
	require.Error(t, err)
}
