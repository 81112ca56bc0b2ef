package rag

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators is the split priority order: paragraph break, line
// break, sentence punctuation, comma, space, and finally raw characters.
var DefaultSeparators = []string{"\n\n", "\n", ".", "!", "?", ",", " ", ""}

// Splitter re-chunks raw transcript text into retrieval-sized pieces. A
// lower-priority separator is only used when a higher-priority one cannot
// keep a piece within the size target; merged chunks carry up to overlap
// characters of trailing context from the previous chunk.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap, separators: DefaultSeparators}
}

func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			remaining = nil
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	final := make([]string, 0)
	good := make([]string, 0)
	for _, piece := range splitBy(text, separator) {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good, separator)...)
			good = good[:0]
		}
		if len(remaining) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, remaining)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good, separator)...)
	}
	return final
}

func splitBy(text, separator string) []string {
	var parts []string
	if separator == "" {
		parts = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(text, separator)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// merge joins consecutive pieces back together with the separator into
// chunks no longer than chunkSize, retaining trailing pieces worth up to
// overlap characters as the head of the next chunk.
func (s *Splitter) merge(pieces []string, separator string) []string {
	sepLen := utf8.RuneCountInString(separator)
	docs := make([]string, 0)
	current := make([]string, 0)
	total := 0
	for _, piece := range pieces {
		plen := utf8.RuneCountInString(piece)
		if total+plen+sepLenIf(sepLen, len(current) > 0) > s.chunkSize && len(current) > 0 {
			if doc := joinTrim(current, separator); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.overlap || (total+plen+sepLenIf(sepLen, len(current) > 0) > s.chunkSize && total > 0) {
				total -= utf8.RuneCountInString(current[0]) + sepLenIf(sepLen, len(current) > 1)
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += plen + sepLenIf(sepLen, len(current) > 1)
	}
	if doc := joinTrim(current, separator); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func joinTrim(parts []string, separator string) string {
	return strings.TrimSpace(strings.Join(parts, separator))
}

func sepLenIf(n int, joined bool) int {
	if joined {
		return n
	}
	return 0
}
