package writing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillzy/quillzy/ai/core/llm"
	"github.com/quillzy/quillzy/ai/textproc"
)

type fakeLLM struct {
	mu      sync.Mutex
	prompts []string
	reply   func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeLLM) Chat(ctx context.Context, messages []llm.Message) (string, *llm.CallStats, error) {
	prompt := messages[len(messages)-1].Content
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	content, err := f.reply(ctx, prompt)
	if err != nil {
		return "", nil, err
	}
	return content, &llm.CallStats{Model: "fake", Attempts: 1}, nil
}

func (f *fakeLLM) Warmup(context.Context) {}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type recorder struct {
	mu       sync.Mutex
	requests []string
	hits     int
	misses   int
}

func (r *recorder) RecordWritingRequest(op, source string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, op+"/"+source)
}

func (r *recorder) RecordCacheHit(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits++
}

func (r *recorder) RecordCacheMiss(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses++
}

const sampleText = "Teh goverment said there is alot of infomation. ITS very clear, i think."

func TestAssistant_EmptyText(t *testing.T) {
	a := NewAssistant(nil)

	_, err := a.Summarize(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
	_, err = a.FixGrammar(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestAssistant_NoServiceUsesFallback(t *testing.T) {
	a := NewAssistant(nil)
	assert.False(t, a.Enabled())

	res, err := a.FixGrammar(context.Background(), sampleText)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, "The government said there is a lot of information. It's very clear, I think.", res.Text)

	res, err = a.Summarize(context.Background(), sampleText)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, textproc.GenerateSummaryFallback(sampleText), res.Text)
}

func TestAssistant_RemoteSuccessUsesPrompt(t *testing.T) {
	fake := &fakeLLM{reply: func(_ context.Context, prompt string) (string, error) {
		return "remote answer", nil
	}}
	a := NewAssistant(fake)
	require.True(t, a.Enabled())

	res, err := a.Summarize(context.Background(), "Some blog text.")
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, res.Source)
	assert.Equal(t, "remote answer", res.Text)

	_, err = a.FixGrammar(context.Background(), "Some blog text.")
	require.NoError(t, err)

	require.Len(t, fake.prompts, 2)
	assert.True(t, strings.HasPrefix(fake.prompts[0], "Summarize the following blog content professionally."))
	assert.True(t, strings.HasSuffix(fake.prompts[0], "\n\nSome blog text."))
	assert.True(t, strings.HasPrefix(fake.prompts[1], "Fix the grammar, spelling, and punctuation"))
	assert.Contains(t, fake.prompts[1], "Return ONLY the corrected text")
}

func TestAssistant_RemoteFailureFallsBack(t *testing.T) {
	testCases := []struct {
		name  string
		reply func(context.Context, string) (string, error)
	}{
		{"error", func(context.Context, string) (string, error) { return "", errors.New("503") }},
		{"missing key", func(context.Context, string) (string, error) { return "", llm.ErrMissingAPIKey }},
		{"blank content", func(context.Context, string) (string, error) { return "  \n", nil }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			a := NewAssistant(&fakeLLM{reply: tc.reply}, WithRecorder(rec))

			res, err := a.FixGrammar(context.Background(), "teh cat")
			require.NoError(t, err)
			assert.Equal(t, SourceFallback, res.Source)
			assert.Equal(t, "The cat", res.Text)
			assert.Equal(t, []string{"fix_grammar/fallback"}, rec.requests)
		})
	}
}

func TestAssistant_Timeout(t *testing.T) {
	fake := &fakeLLM{reply: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	a := NewAssistant(fake, WithTimeout(20*time.Millisecond))

	res, err := a.FixGrammar(context.Background(), "teh cat")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
}

func TestAssistant_CachesRemoteResults(t *testing.T) {
	fake := &fakeLLM{reply: func(context.Context, string) (string, error) { return "cached answer", nil }}
	rec := &recorder{}
	a := NewAssistant(fake, WithRecorder(rec))

	first, err := a.Summarize(context.Background(), "Same text.")
	require.NoError(t, err)
	second, err := a.Summarize(context.Background(), "Same text.")
	require.NoError(t, err)
	// Same text under a different operation is a distinct entry.
	third, err := a.FixGrammar(context.Background(), "Same text.")
	require.NoError(t, err)

	assert.Equal(t, SourceLLM, first.Source)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, "cached answer", second.Text)
	assert.Equal(t, SourceLLM, third.Source)
	assert.Equal(t, 2, fake.calls())
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 2, rec.misses)
	assert.Equal(t, []string{"summarize/llm", "summarize/cache", "fix_grammar/llm"}, rec.requests)
}

func TestAssistant_FallbackResultsAreNotCached(t *testing.T) {
	failing := true
	fake := &fakeLLM{reply: func(context.Context, string) (string, error) {
		if failing {
			return "", errors.New("down")
		}
		return "recovered", nil
	}}
	a := NewAssistant(fake)

	res, err := a.FixGrammar(context.Background(), "teh cat")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)

	failing = false
	res, err = a.FixGrammar(context.Background(), "teh cat")
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, res.Source)
	assert.Equal(t, "recovered", res.Text)
}

func TestAssistant_CacheDisabled(t *testing.T) {
	fake := &fakeLLM{reply: func(context.Context, string) (string, error) { return "x", nil }}
	a := NewAssistant(fake, WithCache(0, 0))

	for i := 0; i < 3; i++ {
		res, err := a.Summarize(context.Background(), "Same text.")
		require.NoError(t, err)
		assert.Equal(t, SourceLLM, res.Source)
	}
	assert.Equal(t, 3, fake.calls())
}

func TestAssistant_ConcurrencyLimitFallsBack(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fake := &fakeLLM{reply: func(context.Context, string) (string, error) {
		close(started)
		<-release
		return "slow answer", nil
	}}
	a := NewAssistant(fake, WithMaxConcurrency(1), WithCache(0, 0))

	var wg sync.WaitGroup
	var slow *Result
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow, _ = a.Summarize(context.Background(), "First text.")
	}()
	<-started

	res, err := a.FixGrammar(context.Background(), "teh cat")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, "The cat", res.Text)

	close(release)
	wg.Wait()
	require.NotNil(t, slow)
	assert.Equal(t, SourceLLM, slow.Source)
}

func TestCacheKey(t *testing.T) {
	a := cacheKey(OpSummarize, "text")
	b := cacheKey(OpFixGrammar, "text")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "summarize:"))
	assert.Len(t, a, len("summarize:")+64)
	assert.Equal(t, a, cacheKey(OpSummarize, "text"))
}
