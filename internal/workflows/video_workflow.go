package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"lectureflow/internal/activities"
	"lectureflow/internal/models"
)

const QueryGetProgress = "GetProgress"

// VideoProcessWorkflow drives one uploaded video through audio
// extraction, transcription and index building. Every step writes the
// video's status through so clients can poll even after the workflow
// closes.
func VideoProcessWorkflow(ctx workflow.Context, input VideoProcessInput) (string, error) {
	progress := VideoProcessProgress{
		VideoID:     input.VideoID,
		CurrentStep: "init",
		Status:      models.StatusUploaded,
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetProgress, func() (VideoProcessProgress, error) {
		return progress, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	setStatus := func(status string, pct float64, message string) {
		progress.Status = status
		progress.Progress = pct
		progress.Message = message
		_ = workflow.ExecuteActivity(ctx, "UpdateVideoStatusActivity", activities.UpdateVideoStatusInput{
			VideoID:  input.VideoID,
			Status:   status,
			Progress: pct,
			Message:  message,
		}).Get(ctx, nil)
	}
	markFailed := func(step string, err error) {
		progress.CurrentStep = step
		progress.Status = models.StatusFailed
		progress.Message = "Processing failed: " + err.Error()
		_ = workflow.ExecuteActivity(ctx, "UpdateVideoStatusActivity", activities.UpdateVideoStatusInput{
			VideoID:  input.VideoID,
			Status:   models.StatusFailed,
			Progress: progress.Progress,
			Message:  progress.Message,
		}).Get(ctx, nil)
	}

	progress.CurrentStep = "extract_audio"
	setStatus(models.StatusExtractingAudio, 10, "Extracting audio from video...")
	var audioOut activities.ExtractAudioOutput
	if err := workflow.ExecuteActivity(ctx, "ExtractAudioActivity", activities.ExtractAudioInput{
		VideoID:   input.VideoID,
		VideoPath: input.VideoPath,
	}).Get(ctx, &audioOut); err != nil {
		markFailed("extract_audio", err)
		return "failed", nil
	}

	progress.CurrentStep = "transcribe"
	setStatus(models.StatusTranscribing, 30, "Generating transcript with timestamps...")
	var transcribeOut activities.TranscribeOutput
	// Long lectures take a while through whisper; give this step its own
	// generous timeout.
	transcribeCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Hour,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    2,
		},
	})
	if err := workflow.ExecuteActivity(transcribeCtx, "TranscribeActivity", activities.TranscribeInput{
		VideoID:   input.VideoID,
		AudioPath: audioOut.AudioPath,
	}).Get(ctx, &transcribeOut); err != nil {
		markFailed("transcribe", err)
		cleanupAudio(ctx, audioOut.AudioPath)
		return "failed", nil
	}
	progress.Language = transcribeOut.Transcript.Language
	progress.Duration = transcribeOut.Transcript.Duration

	progress.CurrentStep = "build_index"
	setStatus(models.StatusIndexing, 70, "Processing transcript with RAG pipeline...")
	var indexOut activities.BuildIndexOutput
	if err := workflow.ExecuteActivity(ctx, "BuildIndexActivity", activities.BuildIndexInput{
		VideoID:    input.VideoID,
		Transcript: transcribeOut.Transcript,
	}).Get(ctx, &indexOut); err != nil {
		markFailed("build_index", err)
		cleanupAudio(ctx, audioOut.AudioPath)
		return "failed", nil
	}
	progress.ChunkCount = indexOut.ChunkCount

	progress.CurrentStep = "done"
	progress.Status = models.StatusCompleted
	progress.Progress = 100
	progress.Message = "Processing completed successfully!"
	_ = workflow.ExecuteActivity(ctx, "UpdateVideoStatusActivity", activities.UpdateVideoStatusInput{
		VideoID:  input.VideoID,
		Status:   models.StatusCompleted,
		Progress: 100,
		Message:  progress.Message,
		Language: transcribeOut.Transcript.Language,
		Duration: transcribeOut.Transcript.Duration,
	}).Get(ctx, nil)

	cleanupAudio(ctx, audioOut.AudioPath)
	return "completed", nil
}

func cleanupAudio(ctx workflow.Context, audioPath string) {
	if audioPath == "" {
		return
	}
	_ = workflow.ExecuteActivity(ctx, "CleanupAudioActivity", activities.CleanupAudioInput{
		AudioPath: audioPath,
	}).Get(ctx, nil)
}
