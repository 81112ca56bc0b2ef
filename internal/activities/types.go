package activities

import "lectureflow/internal/models"

type ExtractAudioInput struct {
	VideoID   string `json:"video_id"`
	VideoPath string `json:"video_path"`
}

type ExtractAudioOutput struct {
	AudioPath string `json:"audio_path"`
}

type TranscribeInput struct {
	VideoID   string `json:"video_id"`
	AudioPath string `json:"audio_path"`
}

type TranscribeOutput struct {
	Transcript models.Transcript `json:"transcript"`
}

type BuildIndexInput struct {
	VideoID    string            `json:"video_id"`
	Transcript models.Transcript `json:"transcript"`
}

type BuildIndexOutput struct {
	ChunkCount int `json:"chunk_count"`
}

type UpdateVideoStatusInput struct {
	VideoID  string  `json:"video_id"`
	Status   string  `json:"status,omitempty"`
	Progress float64 `json:"progress,omitempty"`
	Message  string  `json:"message,omitempty"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

type CleanupAudioInput struct {
	AudioPath string `json:"audio_path"`
}
