package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lectureflow/internal/models"
	"lectureflow/internal/util"
)

// WhisperTranscriber calls a whisper.cpp server's /inference endpoint.
// Word timestamps come back when the server runs with word-level output
// enabled; segment timestamps are always present.
type WhisperTranscriber struct {
	baseURL string
	client  *http.Client
}

func NewWhisperTranscriber(baseURL string) *WhisperTranscriber {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &WhisperTranscriber{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Transcription of long lectures is slow; the workflow layer
		// bounds the overall attempt.
		client: &http.Client{Timeout: 30 * time.Minute},
	}
}

type whisperWord struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

type whisperSegment struct {
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Text  string        `json:"text"`
	Words []whisperWord `json:"words"`
}

type whisperResponse struct {
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (models.Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return models.Transcript{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return models.Transcript{}, fmt.Errorf("build multipart request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return models.Transcript{}, fmt.Errorf("read audio: %w", err)
	}
	_ = mw.WriteField("response_format", "verbose_json")
	if err := mw.Close(); err != nil {
		return models.Transcript{}, fmt.Errorf("finalize multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/inference", &buf)
	if err != nil {
		return models.Transcript{}, fmt.Errorf("build whisper request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return models.Transcript{}, fmt.Errorf("whisper request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return models.Transcript{}, fmt.Errorf("whisper error %d: %s", resp.StatusCode, string(body))
	}

	var parsed whisperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.Transcript{}, fmt.Errorf("decode whisper response: %w", err)
	}
	return toTranscript(parsed), nil
}

func toTranscript(resp whisperResponse) models.Transcript {
	out := models.Transcript{Language: resp.Language, Duration: resp.Duration}
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(util.SanitizeText(seg.Text))
		if text == "" {
			continue
		}
		s := models.TranscriptSegment{Start: seg.Start, End: seg.End, Text: text}
		for _, w := range seg.Words {
			s.Words = append(s.Words, models.Word{Start: w.Start, End: w.End, Word: strings.TrimSpace(w.Word)})
		}
		out.Segments = append(out.Segments, s)
	}
	if out.Duration == 0 && len(out.Segments) > 0 {
		out.Duration = out.Segments[len(out.Segments)-1].End
	}
	return out
}
