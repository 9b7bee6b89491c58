// Package writing serves the editor's AI actions: it asks the remote model
// first and answers from the local text processor whenever that fails.
package writing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/quillzy/quillzy/ai/cache"
	"github.com/quillzy/quillzy/ai/core/llm"
	"github.com/quillzy/quillzy/ai/textproc"
)

// Operation names an assistant action.
type Operation string

const (
	OpSummarize  Operation = "summarize"
	OpFixGrammar Operation = "fix_grammar"
)

// Result sources.
const (
	SourceLLM      = "llm"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

const (
	defaultTimeout        = 60 * time.Second
	defaultMaxConcurrency = 4
	defaultCacheSize      = 256
	defaultCacheTTL       = 30 * time.Minute
)

// ErrEmptyText is returned when there is nothing to process.
var ErrEmptyText = errors.New("no content provided for AI")

// Result is the outcome of an assistant action.
type Result struct {
	Text    string
	Source  string // "llm" | "cache" | "fallback"
	Latency time.Duration
}

// Recorder receives per-request measurements.
type Recorder interface {
	RecordWritingRequest(operation, source string, latency time.Duration)
	RecordCacheHit(operation string)
	RecordCacheMiss(operation string)
}

type config struct {
	timeout        time.Duration
	maxConcurrency int64
	cacheSize      int
	cacheTTL       time.Duration
	recorder       Recorder
}

// Option configures the assistant.
type Option func(*config)

// WithTimeout bounds every remote call.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxConcurrency sets how many remote calls may run at once. Requests
// beyond that are answered locally.
func WithMaxConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxConcurrency = int64(n)
		}
	}
}

// WithCache sizes the remote result cache. A zero size disables caching.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *config) {
		c.cacheSize = size
		c.cacheTTL = ttl
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// Assistant runs summarize and grammar actions. It is safe for concurrent use.
type Assistant struct {
	llm      llm.Service
	timeout  time.Duration
	slots    *semaphore.Weighted
	results  *cache.LRUCache[string, string]
	recorder Recorder
}

// NewAssistant creates an assistant. A nil service makes every action use the
// local fallback.
func NewAssistant(svc llm.Service, opts ...Option) *Assistant {
	cfg := &config{
		timeout:        defaultTimeout,
		maxConcurrency: defaultMaxConcurrency,
		cacheSize:      defaultCacheSize,
		cacheTTL:       defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	a := &Assistant{
		llm:      svc,
		timeout:  cfg.timeout,
		slots:    semaphore.NewWeighted(cfg.maxConcurrency),
		recorder: cfg.recorder,
	}
	if cfg.cacheSize > 0 {
		a.results = cache.NewLRUCache[string, string](cfg.cacheSize, cfg.cacheTTL)
	}
	return a
}

// Enabled reports whether a remote model is configured.
func (a *Assistant) Enabled() bool {
	return a.llm != nil
}

// Summarize produces a professional summary of blog content.
func (a *Assistant) Summarize(ctx context.Context, text string) (*Result, error) {
	return a.run(ctx, OpSummarize, text, summarizePrompt(text), textproc.GenerateSummaryFallback)
}

// FixGrammar corrects grammar, spelling and punctuation.
func (a *Assistant) FixGrammar(ctx context.Context, text string) (*Result, error) {
	return a.run(ctx, OpFixGrammar, text, fixGrammarPrompt(text), textproc.FixGrammarFallback)
}

func (a *Assistant) run(ctx context.Context, op Operation, text, prompt string, fallback func(string) string) (*Result, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	start := time.Now()
	result := a.remote(ctx, op, prompt)
	if result == nil {
		result = &Result{Text: fallback(text), Source: SourceFallback}
	}
	result.Latency = time.Since(start)

	if a.recorder != nil {
		a.recorder.RecordWritingRequest(string(op), result.Source, result.Latency)
	}
	return result, nil
}

// remote returns nil when the local fallback must answer.
func (a *Assistant) remote(ctx context.Context, op Operation, prompt string) *Result {
	if a.llm == nil {
		return nil
	}

	key := cacheKey(op, prompt)
	if a.results != nil {
		if cached, ok := a.results.Get(key); ok {
			a.recordCache(op, true)
			return &Result{Text: cached, Source: SourceCache}
		}
		a.recordCache(op, false)
	}

	if !a.slots.TryAcquire(1) {
		slog.Warn("AI request over concurrency limit, using local fallback", "operation", op)
		return nil
	}
	defer a.slots.Release(1)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	content, stats, err := a.llm.Chat(ctx, []llm.Message{llm.UserMessage(prompt)})
	if err == nil && strings.TrimSpace(content) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		slog.Warn("AI request failed, using local fallback", "operation", op, "error", err)
		return nil
	}

	if a.results != nil {
		a.results.Set(key, content, 0)
	}
	slog.Debug("AI request served", "operation", op, "model", stats.Model,
		"attempts", stats.Attempts, "tokens_total", stats.TotalTokens)
	return &Result{Text: content, Source: SourceLLM}
}

func (a *Assistant) recordCache(op Operation, hit bool) {
	if a.recorder == nil {
		return
	}
	if hit {
		a.recorder.RecordCacheHit(string(op))
	} else {
		a.recorder.RecordCacheMiss(string(op))
	}
}

func cacheKey(op Operation, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return string(op) + ":" + hex.EncodeToString(sum[:])
}
