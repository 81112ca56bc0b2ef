package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"lectureflow/internal/models"
	"lectureflow/internal/providers"
	"lectureflow/internal/vector"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, req providers.EmbedRequest) ([][]float32, providers.ProviderInfo, error) {
	if f.err != nil {
		return nil, providers.ProviderInfo{}, f.err
	}
	vecs := make([][]float32, len(req.Inputs))
	for i := range req.Inputs {
		vecs[i] = []float32{1, 0, 0}
	}
	return vecs, providers.ProviderInfo{Name: "fake"}, nil
}

type fakeVectorStore struct {
	matches []vector.Match
	err     error
}

func (f *fakeVectorStore) Replace(ctx context.Context, videoID string, records []vector.Record) error {
	return nil
}

func (f *fakeVectorStore) Search(ctx context.Context, videoID string, queryVec []float32, topK int) ([]vector.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	if topK < len(f.matches) {
		return f.matches[:topK], nil
	}
	return f.matches, nil
}

func (f *fakeVectorStore) Exists(ctx context.Context, videoID string) (bool, error) {
	return f.err == nil, nil
}

type fakeLLM struct {
	text       string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	f.lastPrompt = req.Prompt
	if f.err != nil {
		return providers.GenerateResponse{}, providers.ProviderInfo{}, f.err
	}
	return providers.GenerateResponse{Text: f.text}, providers.ProviderInfo{Name: "fake"}, nil
}

func matchAt(start, end, distance float64) vector.Match {
	return vector.Match{
		Chunk:    models.Chunk{Text: "lecture text", StartTime: start, EndTime: end},
		Distance: distance,
	}
}

func newTestComposer(store vector.Store, llm providers.LLMProvider) *Composer {
	retriever := NewRetriever(store, &fakeEmbedder{}, 3)
	return NewComposer(retriever, llm, 5, 10)
}

func TestConfidenceScore(t *testing.T) {
	require.Equal(t, 0.0, ConfidenceScore(nil))

	perfect := []models.RetrievedChunk{
		{RelevanceScore: 1.0}, {RelevanceScore: 1.0}, {RelevanceScore: 1.0},
	}
	require.InDelta(t, 1.0, ConfidenceScore(perfect), 1e-9)

	single := []models.RetrievedChunk{{RelevanceScore: 1.0}}
	require.InDelta(t, 0.8, ConfidenceScore(single), 1e-9)

	mixed := []models.RetrievedChunk{
		{RelevanceScore: 0.5}, {RelevanceScore: 0.4}, {RelevanceScore: 0.3},
	}
	require.InDelta(t, 0.58, ConfidenceScore(mixed), 1e-9)

	// The cap only applies at the top; unclamped relevance can still push
	// the blend above the raw average.
	inflated := []models.RetrievedChunk{
		{RelevanceScore: 2.0}, {RelevanceScore: 2.0}, {RelevanceScore: 2.0},
	}
	require.InDelta(t, 1.0, ConfidenceScore(inflated), 1e-9)
}

func TestAnswerPropagatesNotIndexed(t *testing.T) {
	store := &fakeVectorStore{err: vector.ErrNotIndexed}
	composer := newTestComposer(store, &fakeLLM{text: "unused"})

	_, err := composer.Answer(context.Background(), "what is entropy", "vid-1")
	require.ErrorIs(t, err, ErrVideoNotIndexed)
}

func TestAnswerNoRelevantChunks(t *testing.T) {
	store := &fakeVectorStore{}
	composer := newTestComposer(store, &fakeLLM{text: "unused"})

	ans, err := composer.Answer(context.Background(), "what is entropy", "vid-1")
	require.NoError(t, err)
	require.Equal(t, noContextResponse, ans.Response)
	require.Empty(t, ans.Timestamps)
	require.Equal(t, 0.0, ans.Confidence)
}

func TestAnswerRetrievalErrorFallsBack(t *testing.T) {
	store := &fakeVectorStore{err: errors.New("connection refused")}
	composer := newTestComposer(store, &fakeLLM{text: "unused"})

	ans, err := composer.Answer(context.Background(), "what is entropy", "vid-1")
	require.NoError(t, err)
	require.Equal(t, chatErrorFallback, ans.Response)
	require.Equal(t, 0.0, ans.Confidence)
}

func TestAnswerGenerationFailureKeepsEvidence(t *testing.T) {
	store := &fakeVectorStore{matches: []vector.Match{
		matchAt(10, 25, 0.2),
		matchAt(40, 60, 0.4),
	}}
	composer := newTestComposer(store, &fakeLLM{err: errors.New("provider timeout")})

	ans, err := composer.Answer(context.Background(), "what is entropy", "vid-1")
	require.NoError(t, err)
	require.Equal(t, generationFallback, ans.Response)
	require.Len(t, ans.Timestamps, 2)
	require.Greater(t, ans.Confidence, 0.0)
}

func TestAnswerTimestampsSortedByRelevance(t *testing.T) {
	store := &fakeVectorStore{matches: []vector.Match{
		matchAt(10, 25, 0.5),
		matchAt(100, 120, 0.1),
		matchAt(40, 60, 0.3),
	}}
	llm := &fakeLLM{text: "The instructor covers this at 01:40."}
	composer := newTestComposer(store, llm)

	ans, err := composer.Answer(context.Background(), "what is entropy", "vid-1")
	require.NoError(t, err)
	require.Equal(t, llm.text, ans.Response)
	require.Len(t, ans.Timestamps, 3)
	require.InDelta(t, 0.9, ans.Timestamps[0].Relevance, 1e-9)
	require.Equal(t, 100.0, ans.Timestamps[0].Start)
	require.InDelta(t, 0.7, ans.Timestamps[1].Relevance, 1e-9)
	require.InDelta(t, 0.5, ans.Timestamps[2].Relevance, 1e-9)
}

func TestAnswerPromptCarriesContext(t *testing.T) {
	store := &fakeVectorStore{matches: []vector.Match{matchAt(65, 95, 0.2)}}
	llm := &fakeLLM{text: "answer"}
	composer := newTestComposer(store, llm)

	_, err := composer.Answer(context.Background(), "what is entropy", "vid-1")
	require.NoError(t, err)
	require.Contains(t, llm.lastPrompt, "[Timestamp: 01:05 - 01:35]")
	require.Contains(t, llm.lastPrompt, "lecture text")
	require.Contains(t, llm.lastPrompt, "what is entropy")
}
