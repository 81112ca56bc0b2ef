package activities

import (
	"context"
	"fmt"
	"path/filepath"

	"lectureflow/internal/config"
	"lectureflow/internal/providers"
	"lectureflow/internal/rag"
	"lectureflow/internal/status"
	"lectureflow/internal/storage"
	"lectureflow/internal/transcribe"
	"lectureflow/internal/util"
	"lectureflow/internal/vector"
)

type Activities struct {
	cfg         config.Config
	videos      status.Store
	indexer     *rag.Indexer
	transcriber transcribe.Transcriber
}

// New wires the processing activities. A nil db selects the in-memory
// stores, which is enough for local runs with the mock providers.
func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	pm, err := providers.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	transcriber, err := transcribe.New(cfg)
	if err != nil {
		return nil, err
	}

	var videos status.Store
	var store vector.Store
	if db != nil {
		videos = storage.NewVideoRepo(db)
		store = vector.NewPGStore(db.Pool)
	} else {
		videos = status.NewMemoryStore()
		store = vector.NewMemoryStore()
	}

	embedder := providers.NewFallbackEmbedder(pm)
	return &Activities{
		cfg:         cfg,
		videos:      videos,
		indexer:     rag.NewIndexer(store, embedder, cfg.ChunkSize, cfg.ChunkOverlap, cfg.EmbedDim),
		transcriber: transcriber,
	}, nil
}

func (a *Activities) ExtractAudioActivity(ctx context.Context, in ExtractAudioInput) (ExtractAudioOutput, error) {
	if err := util.EnsureDir(a.cfg.AudioRoot); err != nil {
		return ExtractAudioOutput{}, fmt.Errorf("prepare audio dir: %w", err)
	}
	audioPath := filepath.Join(a.cfg.AudioRoot, in.VideoID+".wav")
	if err := transcribe.ExtractAudio(ctx, a.cfg.FFmpegBin, in.VideoPath, audioPath); err != nil {
		return ExtractAudioOutput{}, err
	}
	return ExtractAudioOutput{AudioPath: audioPath}, nil
}

func (a *Activities) TranscribeActivity(ctx context.Context, in TranscribeInput) (TranscribeOutput, error) {
	transcript, err := a.transcriber.Transcribe(ctx, in.AudioPath)
	if err != nil {
		return TranscribeOutput{}, fmt.Errorf("transcribe %s: %w", in.VideoID, err)
	}
	if len(transcript.Segments) == 0 {
		return TranscribeOutput{}, fmt.Errorf("transcription produced no segments for %s", in.VideoID)
	}
	return TranscribeOutput{Transcript: transcript}, nil
}

func (a *Activities) BuildIndexActivity(ctx context.Context, in BuildIndexInput) (BuildIndexOutput, error) {
	count, err := a.indexer.Index(ctx, in.Transcript, in.VideoID)
	if err != nil {
		return BuildIndexOutput{}, fmt.Errorf("index %s: %w", in.VideoID, err)
	}
	return BuildIndexOutput{ChunkCount: count}, nil
}

func (a *Activities) UpdateVideoStatusActivity(ctx context.Context, in UpdateVideoStatusInput) error {
	return a.videos.UpdateStatus(ctx, in.VideoID, status.Update{
		Status:   in.Status,
		Progress: in.Progress,
		Message:  in.Message,
		Language: in.Language,
		Duration: in.Duration,
	})
}

// CleanupAudioActivity removes the intermediate WAV file. Missing files
// are not an error; the workflow calls this best effort.
func (a *Activities) CleanupAudioActivity(ctx context.Context, in CleanupAudioInput) error {
	_ = ctx
	return util.RemoveIfExists(in.AudioPath)
}
