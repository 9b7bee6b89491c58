package textproc

// GenerateSummaryFallback renders the local summary of text. It is the answer
// to a summarize request when the remote provider cannot be used.
func GenerateSummaryFallback(text string) string {
	return Summarize(text).String()
}

// FixGrammarFallback returns text corrected by the local rules. It is the
// answer to a grammar request when the remote provider cannot be used.
func FixGrammarFallback(text string) string {
	return Correct(text)
}
