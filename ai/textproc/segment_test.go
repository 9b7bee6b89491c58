package textproc

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: "  \n\t ",
			want: nil,
		},
		{
			name: "terminal punctuation stays attached",
			text: "The first sentence is here. Is this the second one? Yes, the third one!",
			want: []string{"The first sentence is here.", "Is this the second one?", "Yes, the third one!"},
		},
		{
			name: "short fragments dropped",
			text: "Okay. Fine. This one is long enough.",
			want: []string{"This one is long enough."},
		},
		{
			name: "exactly ten runes dropped",
			text: "123456789. This sentence stays.",
			want: []string{"This sentence stays."},
		},
		{
			name: "no split without whitespace",
			text: "Version 1.2.3 was released today.",
			want: []string{"Version 1.2.3 was released today."},
		},
		{
			name: "newlines and runs of whitespace",
			text: "The first line ends here.\n\n   The second line ends here.",
			want: []string{"The first line ends here.", "The second line ends here."},
		},
		{
			name: "non-breaking space separates sentences",
			text: "This is sentence one.\u00a0This is sentence two.",
			want: []string{"This is sentence one.", "This is sentence two."},
		},
		{
			name: "ellipsis splits after the last dot",
			text: "We waited a while...   Then it started.",
			want: []string{"We waited a while...", "Then it started."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.text))
		})
	}
}

func TestSegment_NeverReturnsShortSentences(t *testing.T) {
	text := "A. Bb. Ccc ccc. Dddd dddd dddd. Tiny! Reasonably sized sentence? x y z. Another long enough sentence."
	for _, s := range Segment(text) {
		assert.Greater(t, utf8.RuneCountInString(strings.TrimSpace(s)), minSentenceLen, "sentence %q", s)
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"lowercases and strips punctuation", "Hello, World!", []string{"hello", "world"}},
		{"drops short tokens", "cat dogs ox", []string{"dogs"}},
		{"drops stop words", "these those about every service", []string{"service"}},
		{"strips digits and apostrophes", "don't r2d2 co-operate", []string{"dont", "cooperate"}},
		{"token that becomes stop word after cleaning", "They're (their) THEM!", []string{"theyre"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.text))
		})
	}
}

func TestWords_TokenInvariants(t *testing.T) {
	text := "The QUICK brown fox, jumping over 12 lazy dogs -- isn't it? Every few days, 3rd-party code compiles."
	tokens := Words(text)
	require.NotEmpty(t, tokens)
	for _, tok := range tokens {
		assert.Greater(t, len(tok), minWordLen, tok)
		assert.False(t, IsStopWord(tok), tok)
		for _, r := range tok {
			assert.True(t, r >= 'a' && r <= 'z', "token %q has %q", tok, r)
		}
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 3, CountWords("  one\ttwo\nthree  "))
	assert.Equal(t, 2, CountWords("a. b."))
}
