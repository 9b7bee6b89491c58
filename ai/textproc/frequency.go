package textproc

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// WordCount is a token together with its number of occurrences.
type WordCount struct {
	Word  string
	Count int
}

// FrequencyTable counts token occurrences and remembers the order in which
// tokens were first seen, which decides ties when ranking.
type FrequencyTable struct {
	counts map[string]int
	order  []string
}

// Score builds a frequency table from tokens.
func Score(tokens []string) *FrequencyTable {
	t := &FrequencyTable{counts: make(map[string]int, len(tokens))}
	for _, tok := range tokens {
		if _, seen := t.counts[tok]; !seen {
			t.order = append(t.order, tok)
		}
		t.counts[tok]++
	}
	return t
}

// Count returns how many times word occurred.
func (t *FrequencyTable) Count(word string) int {
	return t.counts[word]
}

// Len returns the number of distinct tokens.
func (t *FrequencyTable) Len() int {
	return len(t.order)
}

// Top returns at most n entries by descending count. Equal counts keep first
// seen order. Words are capitalized for display.
func (t *FrequencyTable) Top(n int) []WordCount {
	if n <= 0 || len(t.order) == 0 {
		return nil
	}
	ranked := make([]WordCount, len(t.order))
	for i, w := range t.order {
		ranked[i] = WordCount{Word: w, Count: t.counts[w]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	for i := range ranked {
		ranked[i].Word = capitalize(ranked[i].Word)
	}
	return ranked
}

// Topics returns the n most frequent topic words of text, capitalized.
func Topics(text string, n int) []string {
	top := Score(Words(strings.ToLower(text))).Top(n)
	topics := make([]string, len(top))
	for i, wc := range top {
		topics[i] = wc.Word
	}
	return topics
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
