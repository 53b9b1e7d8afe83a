// Package config loads run configuration from environment variables and the
// organizations file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultOutputCSV         = "decarbonization_goals.csv"
	DefaultDebugLog          = "cons_debug.txt"
	DefaultOrganizationsFile = "organizations.yaml"
	DefaultAnthropicModel    = "claude-haiku-4-5"
	DefaultOpenAIModel       = "gpt-4o-mini"
)

type Config struct {
	BraveAPIKey     string // BRAVE_API_KEY, required
	AnthropicAPIKey string // ANTHROPIC_API_KEY, required
	OpenAIAPIKey    string // OPENAI_API_KEY, optional fallback extractor

	BraveBaseURL     string // BRAVE_BASE_URL
	AnthropicBaseURL string // ANTHROPIC_BASE_URL
	OpenAIBaseURL    string // OPENAI_BASE_URL
	AnthropicModel   string // ANTHROPIC_MODEL, default "claude-haiku-4-5"
	OpenAIModel      string // OPENAI_MODEL, default "gpt-4o-mini"

	OrganizationsFile string // ORGANIZATIONS_FILE, default "organizations.yaml"
	OutputCSV         string // OUTPUT_CSV, default "decarbonization_goals.csv"
	DebugLog          string // DEBUG_LOG, default "cons_debug.txt"
	LogLevel          string // LOG_LEVEL, default "debug"

	SearchResultCount int           // SEARCH_RESULT_COUNT, default 5
	SearchMaxRetries  int           // SEARCH_MAX_RETRIES, default 2
	SearchRetryWait   time.Duration // SEARCH_RETRY_WAIT_MS, default 5000ms
	LLMMaxRetries     int           // LLM_MAX_RETRIES, default 2
	RequestDelay      time.Duration // REQUEST_DELAY_MS, default 1000ms
	HTTPTimeout       time.Duration // HTTP_TIMEOUT_MS, default 30000ms
	Concurrency       int           // CONCURRENCY, default 1
}

// ConfigError reports missing or invalid configuration. It is always fatal.
type ConfigError struct {
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required API keys: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads configuration from the environment. Both API keys must be set.
func Load() (*Config, error) {
	cfg := &Config{
		BraveAPIKey:     strings.TrimSpace(os.Getenv("BRAVE_API_KEY")),
		AnthropicAPIKey: strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		OpenAIAPIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),

		BraveBaseURL:     getEnvString("BRAVE_BASE_URL", ""),
		AnthropicBaseURL: getEnvString("ANTHROPIC_BASE_URL", ""),
		OpenAIBaseURL:    getEnvString("OPENAI_BASE_URL", ""),
		AnthropicModel:   getEnvString("ANTHROPIC_MODEL", DefaultAnthropicModel),
		OpenAIModel:      getEnvString("OPENAI_MODEL", DefaultOpenAIModel),

		OrganizationsFile: getEnvString("ORGANIZATIONS_FILE", DefaultOrganizationsFile),
		OutputCSV:         getEnvString("OUTPUT_CSV", DefaultOutputCSV),
		DebugLog:          getEnvString("DEBUG_LOG", DefaultDebugLog),
		LogLevel:          getEnvString("LOG_LEVEL", "debug"),

		SearchResultCount: getEnvInt("SEARCH_RESULT_COUNT", 5),
		SearchMaxRetries:  getEnvInt("SEARCH_MAX_RETRIES", 2),
		SearchRetryWait:   getEnvDurationMs("SEARCH_RETRY_WAIT_MS", 5000),
		LLMMaxRetries:     getEnvInt("LLM_MAX_RETRIES", 2),
		RequestDelay:      getEnvDurationMs("REQUEST_DELAY_MS", 1000),
		HTTPTimeout:       getEnvDurationMs("HTTP_TIMEOUT_MS", 30000),
		Concurrency:       getEnvInt("CONCURRENCY", 1),
	}

	var missing []string
	if cfg.BraveAPIKey == "" {
		missing = append(missing, "BRAVE_API_KEY")
	}
	if cfg.AnthropicAPIKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Missing: missing}
	}

	if cfg.SearchResultCount < 1 || cfg.SearchResultCount > 20 {
		return nil, &ConfigError{Err: fmt.Errorf("SEARCH_RESULT_COUNT must be between 1 and 20, got %d", cfg.SearchResultCount)}
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.SearchMaxRetries < 0 {
		cfg.SearchMaxRetries = 0
	}
	if cfg.LLMMaxRetries < 0 {
		cfg.LLMMaxRetries = 0
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(defaultMs) * time.Millisecond
}
