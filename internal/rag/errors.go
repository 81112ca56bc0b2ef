package rag

import "errors"

var (
	// ErrVideoNotIndexed means no index exists for the video id, as opposed
	// to an index that exists but returned zero hits.
	ErrVideoNotIndexed = errors.New("video not indexed")

	ErrEmptyTranscript = errors.New("transcript has no segments")
)
