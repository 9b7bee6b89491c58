package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

var (
	// ErrMissingAPIKey is returned when no provider key is configured.
	ErrMissingAPIKey = errors.New("LLM API key missing")
	// ErrEmptyResponse is returned when a model answered without content.
	ErrEmptyResponse = errors.New("empty response from LLM")
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// CallStats describes a successful completion.
type CallStats struct {
	Model            string `json:"model"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	// Attempts counts the models tried, including the one that answered.
	Attempts        int   `json:"attempts"`
	TotalDurationMs int64 `json:"total_duration_ms"`
}

// Service is the remote completion client used by the writing assistant.
type Service interface {
	// Chat sends messages to each configured model in order and returns the
	// first non-empty answer.
	Chat(ctx context.Context, messages []Message) (string, *CallStats, error)

	// Warmup sends a lightweight request to establish the provider connection.
	Warmup(ctx context.Context)
}

// CallObserver is notified after every model attempt.
type CallObserver interface {
	RecordLLMCall(model string, latency time.Duration, err error)
}

// Config represents LLM service configuration.
type Config struct {
	Provider    string        // gemini, openai, deepseek, openrouter, ollama, or any OpenAI-compatible name
	Models      []string      // tried in order; empty uses the provider defaults
	APIKey      string
	BaseURL     string
	MaxTokens   int           // default: 2048
	Temperature float32       // default: 0.7
	Timeout     time.Duration // per-model timeout (default: 60s)
	Observer    CallObserver
}

// ProviderDefaults holds the endpoint and model order used when a provider is
// selected without explicit settings.
type ProviderDefaults struct {
	BaseURL string
	Models  []string
}

var providerDefaults = map[string]ProviderDefaults{
	"gemini": {
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
		Models:  []string{"gemini-2.0-flash-lite", "gemini-2.0-flash", "gemini-1.5-flash"},
	},
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Models:  []string{"gpt-4o-mini"},
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Models:  []string{"deepseek-chat"},
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Models:  []string{"deepseek/deepseek-chat"},
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Models:  []string{"llama3.1"},
	},
}

const defaultModelTimeout = 60 * time.Second

// ChatBudget is the longest a Chat call with cfg can take when every model
// runs into its timeout. Callers bounding Chat with a deadline should allow at
// least this much, or later models in the list never get a turn.
func ChatBudget(cfg *Config) time.Duration {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	models := len(cfg.Models)
	if models == 0 {
		models = len(providerDefaults[cfg.Provider].Models)
	}
	if models == 0 {
		models = 1
	}
	return time.Duration(models) * timeout
}

// DefaultsFor returns the defaults of a known provider.
func DefaultsFor(provider string) (ProviderDefaults, bool) {
	d, ok := providerDefaults[provider]
	return d, ok
}

type service struct {
	client      *openai.Client
	provider    string
	models      []string
	apiKey      string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	observer    CallObserver
}

// NewService creates a new LLM Service.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}

	defaults, known := providerDefaults[cfg.Provider]
	if !known {
		slog.Info("Using generic OpenAI-compatible provider", "provider", cfg.Provider)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaults.BaseURL
	}
	if baseURL == "" {
		return nil, fmt.Errorf("base URL required for provider %q", cfg.Provider)
	}

	models := cfg.Models
	if len(models) == 0 {
		models = defaults.Models
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no models configured for provider %q", cfg.Provider)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	clientConfig.HTTPClient = newHTTPClient()

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}

	return &service{
		client:      openai.NewClientWithConfig(clientConfig),
		provider:    cfg.Provider,
		models:      append([]string(nil), models...),
		apiKey:      cfg.APIKey,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
		observer:    cfg.Observer,
	}, nil
}

func (s *service) Chat(ctx context.Context, messages []Message) (string, *CallStats, error) {
	if s.apiKey == "" {
		return "", nil, ErrMissingAPIKey
	}

	startTime := time.Now()
	var lastErr error
	for i, model := range s.models {
		content, usage, err := s.complete(ctx, model, messages)
		if err == nil {
			stats := &CallStats{
				Model:            model,
				PromptTokens:     usage.PromptTokens,
				CompletionTokens: usage.CompletionTokens,
				TotalTokens:      usage.TotalTokens,
				Attempts:         i + 1,
				TotalDurationMs:  time.Since(startTime).Milliseconds(),
			}
			return content, stats, nil
		}

		lastErr = err
		slog.Warn("LLM: model failed", "provider", s.provider, "model", model, "error", err)
		// A cancelled caller cannot be served by the next model either.
		if ctx.Err() != nil {
			break
		}
	}

	slog.Error("LLM: all models failed", "provider", s.provider, "models", len(s.models), "error", lastErr)
	return "", nil, fmt.Errorf("LLM chat failed: %w", lastErr)
}

func (s *service) complete(ctx context.Context, model string, messages []Message) (string, openai.Usage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	slog.Debug("LLM: Chat request",
		"model", model,
		"messages_count", len(messages),
		"max_tokens", s.maxTokens,
	)

	startTime := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		Messages:    convertMessages(messages),
	})
	if err == nil && (len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "") {
		err = ErrEmptyResponse
	}
	if s.observer != nil {
		s.observer.RecordLLMCall(model, time.Since(startTime), err)
	}
	if err != nil {
		return "", openai.Usage{}, err
	}

	slog.Debug("LLM: Chat response received",
		"model", model,
		"content_length", len(resp.Choices[0].Message.Content),
		"total_tokens", resp.Usage.TotalTokens,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	return resp.Choices[0].Message.Content, resp.Usage, nil
}

// Warmup sends a one token request to the first model. Failures are only logged.
func (s *service) Warmup(ctx context.Context) {
	if s.apiKey == "" {
		return
	}
	warmupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	startTime := time.Now()
	_, err := s.client.CreateChatCompletion(warmupCtx, openai.ChatCompletionRequest{
		Model:     s.models[0],
		MaxTokens: 1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Hi"},
		},
	})
	if err != nil {
		slog.Warn("LLM: warmup ping failed (service will still work, first request may be slower)",
			"provider", s.provider,
			"model", s.models[0],
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
		return
	}
	slog.Info("LLM: connection warmed up",
		"provider", s.provider,
		"model", s.models[0],
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
}

func convertMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case "system":
			role = openai.ChatMessageRoleSystem
		case "assistant":
			role = openai.ChatMessageRoleAssistant
		}
		out[i] = openai.ChatCompletionMessage{Role: role, Content: m.Content}
	}
	return out
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// SystemPrompt creates a system message.
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}
