package textproc

import (
	"fmt"
	"strings"

	"github.com/quillzy/quillzy/ai/internal/strutil"
)

const (
	wordsPerMinute     = 200
	maxOverview        = 3
	maxTopics          = 5
	maxOverviewRunes   = 150
	overviewKeepRunes  = 147
	noTopicPlaceholder = "General content"
)

// Summary is an extractive summary of a document.
type Summary struct {
	// KeySentences are the selected sentences in selection order, uncapped.
	KeySentences   []string
	Topics         []string
	WordCount      int
	SentenceCount  int
	ReadingMinutes int
}

// Summarize builds a Summary of text. It never fails; empty input yields
// zero counts, no sentences and a one minute reading time.
func Summarize(text string) *Summary {
	sentences := Segment(text)
	words := CountWords(text)
	return &Summary{
		KeySentences:   selectKeySentences(sentences),
		Topics:         Topics(text, maxTopics),
		WordCount:      words,
		SentenceCount:  len(sentences),
		ReadingMinutes: ReadingMinutes(words),
	}
}

// ReadingMinutes estimates reading time at 200 words per minute, rounding
// down but never below one minute.
func ReadingMinutes(words int) int {
	return max(1, words/wordsPerMinute)
}

// KeySentenceIndexes returns the positions picked from n sentences: the first,
// the one at n/3 when n >= 4, the one at 2n/3 when n >= 6 and the last when
// n >= 2. Positions may repeat; selectKeySentences only skips a last sentence
// that is already selected.
func KeySentenceIndexes(n int) []int {
	var idx []int
	if n >= 1 {
		idx = append(idx, 0)
	}
	if n >= 4 {
		idx = append(idx, n/3)
	}
	if n >= 6 {
		idx = append(idx, 2*n/3)
	}
	if n >= 2 {
		idx = append(idx, n-1)
	}
	return idx
}

func selectKeySentences(sentences []string) []string {
	n := len(sentences)
	var keys []string
	for _, i := range KeySentenceIndexes(n) {
		s := sentences[i]
		if i == n-1 && n >= 2 && contains(keys, s) {
			continue
		}
		keys = append(keys, s)
	}
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Overview returns the rendered key sentences: at most three, each longer
// than 150 runes cut to 147 runes plus an ellipsis.
func (s *Summary) Overview() []string {
	keys := s.KeySentences
	if len(keys) > maxOverview {
		keys = keys[:maxOverview]
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strutil.Ellipsize(k, maxOverviewRunes, overviewKeepRunes)
	}
	return out
}

// String renders the summary as markdown with a heading, an overview list,
// the key topics and the statistics.
func (s *Summary) String() string {
	parts := []string{"## Summary\n"}

	if overview := s.Overview(); len(overview) > 0 {
		parts = append(parts, "**Overview:**\n")
		for _, sentence := range overview {
			parts = append(parts, fmt.Sprintf("• %s\n", sentence))
		}
	}

	topics := noTopicPlaceholder
	if len(s.Topics) > 0 {
		topics = strings.Join(s.Topics, ", ")
	}
	parts = append(parts,
		fmt.Sprintf("\n**Key Topics:** %s\n", topics),
		fmt.Sprintf("\n**Statistics:**\n• %d words, %d sentences\n• Estimated reading time: %d min",
			s.WordCount, s.SentenceCount, s.ReadingMinutes),
	)
	return strings.Join(parts, "\n")
}
