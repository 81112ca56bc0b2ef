package transcribe

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExtractAudio converts the uploaded video into 16 kHz mono PCM WAV, the
// input format whisper.cpp expects. ffmpeg must be on PATH unless an
// explicit binary is configured.
func ExtractAudio(ctx context.Context, ffmpegBin, videoPath, audioPath string) error {
	if strings.TrimSpace(ffmpegBin) == "" {
		ffmpegBin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, ffmpegBin,
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		audioPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w: %s", err, outputTail(out))
	}
	return nil
}

// outputTail keeps error messages readable; ffmpeg logs its banner and
// stream maps before the actual failure.
func outputTail(out []byte) string {
	const max = 500
	s := strings.TrimSpace(string(out))
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
