package writing

const summarizeInstruction = "Summarize the following blog content professionally. Keep it concise and well-structured:\n\n"

const fixGrammarInstruction = "Fix the grammar, spelling, and punctuation in the following text. " +
	"Improve clarity and readability while keeping the original meaning and tone. " +
	"Return ONLY the corrected text without any explanations or notes:\n\n"

func summarizePrompt(text string) string {
	return summarizeInstruction + text
}

func fixGrammarPrompt(text string) string {
	return fixGrammarInstruction + text
}
