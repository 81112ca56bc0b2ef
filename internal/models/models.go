package models

import "time"

// Video statuses as reported via the status surface.
const (
	StatusUploaded        = "uploaded"
	StatusExtractingAudio = "extracting_audio"
	StatusTranscribing    = "transcribing"
	StatusIndexing        = "indexing"
	StatusCompleted       = "completed"
	StatusFailed          = "failed"
)

type Video struct {
	VideoID   string    `json:"video_id"`
	Filename  string    `json:"filename"`
	Status    string    `json:"status"`
	Progress  float64   `json:"progress"`
	Message   string    `json:"message,omitempty"`
	Language  string    `json:"language,omitempty"`
	Duration  float64   `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// TranscriptSegment is a time-bounded unit of text produced by speech-to-text.
// Segments arrive ordered by start time but may overlap.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
	Language string              `json:"language"`
	Duration float64             `json:"duration"`
}

// Chunk is a retrieval-sized span of transcript text with an approximate
// time range, distinct from the original transcription segment.
type Chunk struct {
	VideoID    string  `json:"video_id"`
	Text       string  `json:"text"`
	SequenceID int     `json:"sequence_id"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Duration   float64 `json:"duration"`
	Language   string  `json:"language"`
}

type RetrievedChunk struct {
	Chunk
	RelevanceScore float64 `json:"relevance_score"`
}

type TimestampRef struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Relevance float64 `json:"relevance"`
}

type ChatAnswer struct {
	Response   string         `json:"response"`
	Timestamps []TimestampRef `json:"timestamps"`
	Confidence float64        `json:"confidence"`
}

type KeyPoint struct {
	Text          string  `json:"text"`
	Timestamp     float64 `json:"timestamp"`
	FormattedTime string  `json:"formatted_time"`
}

type LectureSummary struct {
	Summary   string     `json:"summary"`
	KeyPoints []KeyPoint `json:"key_points"`
	Duration  float64    `json:"duration"`
}
