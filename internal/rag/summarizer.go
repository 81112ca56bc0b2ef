package rag

import (
	"context"
	"log"

	"lectureflow/internal/models"
)

const (
	summaryEmptyResponse = "No content available for summary."
	summaryErrorResponse = "Unable to generate summary at this time."

	// Broad query that pulls representative chunks from across the
	// lecture rather than one topical region.
	summaryQuery = "summary overview main points key topics"

	maxKeyPoints    = 5
	keyPointMaxLen  = 200
	keyPointEllipse = "..."
)

// Summarize builds a whole-lecture summary from a broad retrieval pass.
// It never returns an error for generation failures; those degrade to a
// fixed fallback summary so the endpoint stays available.
func (c *Composer) Summarize(ctx context.Context, videoID string) (models.LectureSummary, error) {
	chunks, err := c.retriever.Search(ctx, summaryQuery, videoID, c.summaryTopK)
	if err != nil || len(chunks) == 0 {
		if err != nil {
			log.Printf("summary retrieval failed video=%s err=%v", videoID, err)
		}
		return models.LectureSummary{Summary: summaryEmptyResponse, KeyPoints: []models.KeyPoint{}, Duration: 0}, nil
	}

	summary, err := c.generate(ctx, "lecture_summary", summaryPrompt(buildContext(chunks)))
	if err != nil {
		log.Printf("summary generation failed video=%s err=%v", videoID, err)
		return models.LectureSummary{Summary: summaryErrorResponse, KeyPoints: []models.KeyPoint{}, Duration: 0}, nil
	}

	var duration float64
	for _, ch := range chunks {
		if ch.EndTime > duration {
			duration = ch.EndTime
		}
	}

	keyPoints := make([]models.KeyPoint, 0, maxKeyPoints)
	for _, ch := range chunks {
		if len(keyPoints) == maxKeyPoints {
			break
		}
		keyPoints = append(keyPoints, models.KeyPoint{
			Text:          truncateRunes(ch.Text, keyPointMaxLen),
			Timestamp:     ch.StartTime,
			FormattedTime: FormatTimestamp(ch.StartTime),
		})
	}

	return models.LectureSummary{Summary: summary, KeyPoints: keyPoints, Duration: duration}, nil
}

func summaryPrompt(contextBlock string) string {
	return "You are a teaching assistant. Based on the following lecture transcript segments, " +
		"write a concise summary of the lecture covering its main points and key topics.\n\n" +
		"LECTURE CONTEXT:\n" + contextBlock + "\n\n" +
		"SUMMARY:"
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + keyPointEllipse
}
