package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// devJWTSecret signs tokens in dev and demo mode when no secret is configured.
const devJWTSecret = "quillzy-dev-secret-change-me"

// Profile is configuration to start main server.
type Profile struct {
	// Remote AI configuration (OpenAI-compatible protocol)
	AIProvider       string   // gemini, openai, deepseek, openrouter, ollama
	AIAPIKey         string   // enables remote AI when set
	AIBaseURL        string   // optional, defaults per provider
	AIModels         []string // tried in order, defaults per provider
	AITimeout        int      // per-model timeout in seconds (default: 60)
	AIMaxConcurrency int      // concurrent remote calls (default: 4)
	AIRateLimit      float64  // AI requests per second per client (default: 2)

	JWTSecret   string
	Mode        string
	Addr        string
	Data        string
	DSN         string
	Driver      string
	Version     string
	InstanceURL string
	Port        int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if a remote AI key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// getEnvOrDefault returns the first non-empty variable among keys, or
// defaultValue.
func getEnvOrDefault(defaultValue string, keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
		slog.Warn("Ignoring invalid integer setting", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
		slog.Warn("Ignoring invalid number setting", "key", key, "value", value)
	}
	return defaultValue
}

// splitList parses a comma separated list, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// FromEnv loads secrets and AI settings from environment variables.
func (p *Profile) FromEnv() {
	p.JWTSecret = getEnvOrDefault("", "QUILLZY_JWT_SECRET", "JWT_SECRET")

	p.AIProvider = strings.ToLower(getEnvOrDefault("gemini", "QUILLZY_AI_PROVIDER"))
	p.AIAPIKey = getEnvOrDefault("", "QUILLZY_AI_API_KEY", "GEMINI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("", "QUILLZY_AI_BASE_URL")
	p.AIModels = splitList(getEnvOrDefault("", "QUILLZY_AI_MODELS"))
	p.AITimeout = getEnvOrDefaultInt("QUILLZY_AI_TIMEOUT_SECONDS", 60)
	p.AIMaxConcurrency = getEnvOrDefaultInt("QUILLZY_AI_MAX_CONCURRENCY", 4)
	p.AIRateLimit = getEnvOrDefaultFloat("QUILLZY_AI_RATE_LIMIT", 2)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.JWTSecret == "" {
		if !p.IsDev() {
			return errors.New("QUILLZY_JWT_SECRET is required in prod mode")
		}
		slog.Warn("No JWT secret configured, using the development secret")
		p.JWTSecret = devJWTSecret
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q", p.Driver)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn required for postgres driver")
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "quillzy")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/quillzy"
		}
	}

	if p.Driver == "sqlite" {
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
			return err
		}
		p.Data = dataDir
		if p.DSN == "" {
			p.DSN = filepath.Join(dataDir, fmt.Sprintf("quillzy_%s.db", p.Mode))
		}
	}

	return nil
}
