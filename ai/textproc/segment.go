// Package textproc implements the local writing helpers used when the remote
// AI provider is unavailable: sentence segmentation, keyword frequency scoring,
// extractive summaries and rule-based grammar correction.
//
// Every function in this package is pure and safe for concurrent use.
package textproc

import (
	"regexp"
	"strings"

	"github.com/quillzy/quillzy/ai/internal/strutil"
)

const (
	// minSentenceLen is the longest trimmed fragment still treated as noise.
	minSentenceLen = 10
	// minWordLen is the longest token still too short to be a topic word.
	minWordLen = 3
)

var (
	// sentenceBoundary matches terminal punctuation and the whitespace after it.
	// Only the whitespace is a separator: the punctuation stays with its sentence.
	sentenceBoundary = regexp.MustCompile(`[.!?][\s\p{Z}]+`)
	nonAlpha         = regexp.MustCompile(`[^a-z]`)
)

// Segment splits text into trimmed sentences. Fragments of ten runes or fewer
// are dropped.
func Segment(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		// loc[0] is the punctuation byte, always single-byte ASCII.
		sentences = appendSentence(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	return appendSentence(sentences, text[start:])
}

func appendSentence(sentences []string, candidate string) []string {
	candidate = strings.TrimSpace(candidate)
	if strutil.RuneLen(candidate) <= minSentenceLen {
		return sentences
	}
	return append(sentences, candidate)
}

// Words returns the normalized topic tokens of text: lowercased, stripped of
// everything but a-z, longer than three letters and not a stop word.
func Words(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		clean := nonAlpha.ReplaceAllString(field, "")
		if len(clean) <= minWordLen || IsStopWord(clean) {
			continue
		}
		tokens = append(tokens, clean)
	}
	return tokens
}

// CountWords counts whitespace separated fields of the raw text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
