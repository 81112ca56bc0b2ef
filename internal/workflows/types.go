package workflows

type VideoProcessInput struct {
	VideoID   string `json:"video_id"`
	VideoPath string `json:"video_path"`
	Filename  string `json:"filename"`
}

type VideoProcessProgress struct {
	VideoID     string  `json:"video_id"`
	CurrentStep string  `json:"current_step"`
	Status      string  `json:"status"`
	Progress    float64 `json:"progress"`
	Message     string  `json:"message,omitempty"`
	ChunkCount  int     `json:"chunk_count,omitempty"`
	Language    string  `json:"language,omitempty"`
	Duration    float64 `json:"duration,omitempty"`
}
