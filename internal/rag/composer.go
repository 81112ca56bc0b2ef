package rag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"lectureflow/internal/models"
	"lectureflow/internal/providers"
)

const (
	noContextResponse = "I couldn't find relevant information in the lecture for your question. " +
		"Could you try rephrasing or asking about a different topic?"
	generationFallback = "I apologize, but I couldn't generate a response at this time. Please try again."
	chatErrorFallback  = "I apologize, but I encountered an error while processing your question. Please try again."
)

// Composer fuses retrieved chunks and relevance scores into a single
// confidence-scored answer with attributed timestamps.
type Composer struct {
	retriever   *Retriever
	llm         providers.LLMProvider
	chatTopK    int
	summaryTopK int
}

func NewComposer(retriever *Retriever, llm providers.LLMProvider, chatTopK, summaryTopK int) *Composer {
	if chatTopK <= 0 {
		chatTopK = DefaultTopK
	}
	if summaryTopK <= 0 {
		summaryTopK = 2 * DefaultTopK
	}
	return &Composer{retriever: retriever, llm: llm, chatTopK: chatTopK, summaryTopK: summaryTopK}
}

// Answer retrieves the chunks most relevant to the query and asks the
// generation collaborator to answer from them. Querying a video that was
// never indexed returns ErrVideoNotIndexed; every other failure is
// absorbed into a safe fallback answer, so the chat surface never
// hard-fails.
func (c *Composer) Answer(ctx context.Context, query, videoID string) (models.ChatAnswer, error) {
	chunks, err := c.retriever.Search(ctx, query, videoID, c.chatTopK)
	if err != nil {
		if errors.Is(err, ErrVideoNotIndexed) {
			return models.ChatAnswer{}, err
		}
		log.Printf("chat retrieval failed video=%s err=%v", videoID, err)
		return models.ChatAnswer{Response: chatErrorFallback, Timestamps: []models.TimestampRef{}, Confidence: 0}, nil
	}
	if len(chunks) == 0 {
		return models.ChatAnswer{Response: noContextResponse, Timestamps: []models.TimestampRef{}, Confidence: 0}, nil
	}

	response, err := c.generate(ctx, "chat_answer", chatPrompt(query, buildContext(chunks)))
	if err != nil {
		log.Printf("generation failed video=%s type=%s err=%v", videoID, providers.ClassifyError(err), err)
		response = generationFallback
	}

	return models.ChatAnswer{
		Response:   response,
		Timestamps: extractTimestamps(chunks),
		Confidence: ConfidenceScore(chunks),
	}, nil
}

func (c *Composer) generate(ctx context.Context, operation, prompt string) (string, error) {
	resp, _, err := c.llm.Generate(ctx, providers.GenerateRequest{Operation: operation, Prompt: prompt})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("generation returned empty text")
	}
	return text, nil
}

// buildContext renders each chunk as a bracketed time-range header followed
// by its text, joined in retrieval order (descending relevance, not
// chronological).
func buildContext(chunks []models.RetrievedChunk) string {
	parts := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		parts = append(parts, fmt.Sprintf("[Timestamp: %s - %s]\n%s",
			FormatTimestamp(ch.StartTime), FormatTimestamp(ch.EndTime), ch.Text))
	}
	return strings.Join(parts, "\n\n")
}

func chatPrompt(question, contextBlock string) string {
	return "You are a teaching assistant helping students understand lecture content. " +
		"Based on the provided lecture transcript segments with timestamps, answer the student's question accurately and helpfully.\n\n" +
		"LECTURE CONTEXT:\n" + contextBlock + "\n\n" +
		"STUDENT QUESTION: " + question + "\n\n" +
		"Instructions:\n" +
		"1. Answer the question based ONLY on the provided lecture context\n" +
		"2. When referencing specific points, mention the approximate timestamp\n" +
		"3. If the context doesn't contain enough information to answer fully, say so\n" +
		"4. Be conversational and educational in your tone\n\n" +
		"ANSWER:"
}

func extractTimestamps(chunks []models.RetrievedChunk) []models.TimestampRef {
	refs := make([]models.TimestampRef, 0, len(chunks))
	for _, ch := range chunks {
		refs = append(refs, models.TimestampRef{Start: ch.StartTime, End: ch.EndTime, Relevance: ch.RelevanceScore})
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Relevance > refs[j].Relevance })
	return refs
}

// ConfidenceScore blends average relevance with a retrieved-chunk count
// factor that maxes out at three chunks, capped at 1.0. Negative relevance
// scores are not clamped and can pull the result below zero.
func ConfidenceScore(chunks []models.RetrievedChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	var sum float64
	for _, ch := range chunks {
		sum += ch.RelevanceScore
	}
	avg := sum / float64(len(chunks))
	countFactor := math.Min(float64(len(chunks))/3.0, 1.0)
	return math.Min(avg*0.7+countFactor*0.3, 1.0)
}
