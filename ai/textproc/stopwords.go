package textproc

// stopWords are English function words excluded from topic scoring.
var stopWords = newWordSet(
	"the", "a", "an", "is", "are", "was", "were", "in", "on", "at", "to",
	"for", "of", "and", "or", "but", "it", "its", "this", "that", "with",
	"has", "have", "had", "not", "from", "by", "be", "been", "as", "can",
	"will", "would", "could", "should", "may", "might", "do", "does", "did",
	"we", "you", "i", "he", "she", "they", "our", "your", "my", "their",
	"more", "very", "also", "into", "about", "than", "them", "these", "those",
	"such", "many", "some", "all", "each", "every", "both", "few", "most",
)

type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	set := make(wordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether the lowercased word is excluded from scoring.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
